package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/showcase-studio/engine/internal/api/types"
	appErr "github.com/showcase-studio/engine/pkg/errors"
)

func writeError(w http.ResponseWriter, status int, code appErr.Code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.APIResponse{Success: false, Error: types.NewError(code, msg)})
}
