package handlers

import (
	"net/http"

	"github.com/showcase-studio/engine/internal/api/types"
	appErr "github.com/showcase-studio/engine/pkg/errors"
)

// NotFound answers unknown routes with a JSON 404 naming the path.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, types.APIResponse{Success: false, Error: &types.APIError{
		Code:    string(appErr.CodeNotFound),
		Message: "Route not found",
		Details: r.URL.Path,
	}})
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, types.APIResponse{Success: false, Error: &types.APIError{
		Code:    string(appErr.CodeInvalid),
		Message: "Method not allowed",
		Details: r.Method + " " + r.URL.Path,
	}})
}
