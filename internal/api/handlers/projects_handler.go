package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/showcase-studio/engine/internal/api/middleware"
	"github.com/showcase-studio/engine/internal/api/types"
	"github.com/showcase-studio/engine/internal/api/validators"
	"github.com/showcase-studio/engine/internal/repository"
	"github.com/showcase-studio/engine/internal/services"
	appErr "github.com/showcase-studio/engine/pkg/errors"
	"github.com/showcase-studio/engine/pkg/logger"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	msgNotFound   = "Project not found"
	msgInvalidID  = "Invalid project ID"
	msgPagination = "Invalid pagination parameters"
)

type ProjectsHandler struct {
	svc      services.ProjectService
	validate interface{ Struct(any) error }
}

func NewProjectsHandler(svc services.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{svc: svc, validate: validators.New()}
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, okPage := intParam(q.Get("page"), defaultPage)
	limit, okLimit := intParam(q.Get("limit"), defaultLimit)
	if !okPage || !okLimit || page < 1 || limit < 1 || limit > maxLimit {
		writeErrorStr(w, http.StatusBadRequest, msgPagination)
		return
	}

	res, err := h.svc.ListProjects(r.Context(), repository.ListOptions{
		Page:   page,
		Limit:  limit,
		Search: q.Get("search"),
	})
	if err != nil {
		h.fail(w, r, err, "Failed to fetch projects")
		return
	}

	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data: types.ProjectList{
			Projects:   res.Data,
			Pagination: types.NewPagination(page, limit, res.Total),
		},
		Meta: &types.Meta{
			RequestID: middleware.GetRequestID(r.Context()),
			Page:      page,
			PageSize:  limit,
			Total:     int64(res.Total),
		},
	})
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		writeErrorStr(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	p, found, err := h.svc.GetProject(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Failed to fetch project")
		return
	}
	if !found {
		writeNotFound(w, msgNotFound)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: p})
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeProject(w, r)
	if !ok {
		return
	}
	p, err := h.svc.CreateProject(r.Context(), req.ToInput())
	if err != nil {
		h.fail(w, r, err, "Failed to create project")
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{
		Success: true,
		Data:    types.ProjectMessage{Message: "Project created successfully", Project: &p},
	})
}

func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		writeErrorStr(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	req, ok := h.decodeProject(w, r)
	if !ok {
		return
	}
	p, found, err := h.svc.UpdateProject(r.Context(), id, req.ToPatch())
	if err != nil {
		h.fail(w, r, err, "Failed to update project")
		return
	}
	if !found {
		writeNotFound(w, msgNotFound)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    types.ProjectMessage{Message: "Project updated successfully", Project: &p},
	})
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		writeErrorStr(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	deleted, err := h.svc.DeleteProject(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Failed to delete project")
		return
	}
	if !deleted {
		writeNotFound(w, msgNotFound)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    types.ProjectMessage{Message: "Project deleted successfully"},
	})
}

func (h *ProjectsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		writeErrorStr(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	st, found, err := h.svc.ProjectStats(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Failed to fetch project statistics")
		return
	}
	if !found {
		writeNotFound(w, msgNotFound)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: st})
}

// decodeProject parses and validates a project body, writing the 4xx itself
// when the body is unusable.
func (h *ProjectsHandler) decodeProject(w http.ResponseWriter, r *http.Request) (*types.ProjectRequest, bool) {
	var req types.ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var mbe *http.MaxBytesError
		var te *json.UnmarshalTypeError
		switch {
		case errors.As(err, &mbe):
			writeErrorStr(w, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.As(err, &te) && te.Field == "name":
			writeErrorStr(w, http.StatusBadRequest, "Name is required and must be a non-empty string")
		case errors.As(err, &te) && te.Field == "description":
			writeErrorStr(w, http.StatusBadRequest, "Description must be a string")
		default:
			writeErrorStr(w, http.StatusBadRequest, "invalid json")
		}
		return nil, false
	}
	// lengths are checked on the raw values, emptiness after trimming
	if err := h.validate.Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, validators.Message(err))
		return nil, false
	}
	req.Normalize()
	if req.Name == "" {
		writeErrorStr(w, http.StatusBadRequest, validators.MsgNameRequired)
		return nil, false
	}
	return &req, true
}

// fail maps a service error onto a status code. Unexpected errors are logged
// and answered with fallback instead of the internal message.
func (h *ProjectsHandler) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := appErr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error(fallback, zap.Error(err))
		writeJSON(w, status, types.APIResponse{Success: false, Error: types.NewError(appErr.CodeInternal, fallback)})
		return
	}
	writeError(w, status, err)
}

func projectID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func intParam(raw string, def int) (int, bool) {
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, types.APIResponse{Success: false, Error: types.FromAppError(err)})
}

func writeErrorStr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.APIResponse{Success: false, Error: types.NewError(appErr.CodeInvalid, msg)})
}

func writeNotFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, types.APIResponse{Success: false, Error: types.NewError(appErr.CodeNotFound, msg)})
}
