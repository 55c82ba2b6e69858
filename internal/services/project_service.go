package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/showcase-studio/engine/internal/metrics"
	"github.com/showcase-studio/engine/internal/models"
	"github.com/showcase-studio/engine/internal/repository"
	"github.com/showcase-studio/engine/pkg/logger"
)

// ProjectService is the context-aware entry point the HTTP layer uses.
type ProjectService interface {
	ListProjects(ctx context.Context, opts repository.ListOptions) (repository.ListResult, error)
	GetProject(ctx context.Context, id int64) (models.Project, bool, error)
	CreateProject(ctx context.Context, in models.ProjectInput) (models.Project, error)
	UpdateProject(ctx context.Context, id int64, patch models.ProjectPatch) (models.Project, bool, error)
	DeleteProject(ctx context.Context, id int64) (bool, error)
	ProjectStats(ctx context.Context, id int64) (models.ProjectStats, bool, error)
	SeedIfEmpty(ctx context.Context) (bool, error)
	CountProjects(ctx context.Context) int
}

type projectService struct {
	repo repository.ProjectRepository
}

func NewProjectService(repo repository.ProjectRepository) ProjectService {
	s := &projectService{repo: repo}
	s.refreshGauge()
	return s
}

// Ensure interfaces are satisfied at compile time
var _ ProjectService = (*projectService)(nil)

const (
	resultOK        = "ok"
	resultNotFound  = "not_found"
	resultDuplicate = "duplicate"
	resultError     = "error"
)

func (s *projectService) refreshGauge() {
	metrics.ProjectsLive.Set(float64(s.repo.Count()))
}

func (s *projectService) record(op string, found bool, err error) {
	result := resultOK
	switch {
	case repository.IsDuplicateName(err):
		result = resultDuplicate
	case err != nil:
		result = resultError
	case !found:
		result = resultNotFound
	}
	metrics.ProjectMutationsTotal.WithLabelValues(op, result).Inc()
	if result == resultOK {
		s.refreshGauge()
	}
}

func (s *projectService) ListProjects(ctx context.Context, opts repository.ListOptions) (repository.ListResult, error) {
	logger.FromContext(ctx).Debug("list projects",
		zap.Int("page", opts.Page),
		zap.Int("limit", opts.Limit),
		zap.String("search", opts.Search),
	)
	return s.repo.List(opts)
}

func (s *projectService) GetProject(ctx context.Context, id int64) (models.Project, bool, error) {
	logger.FromContext(ctx).Debug("get project", zap.Int64("project_id", id))
	return s.repo.Get(id)
}

// CreateProject stores a new project; name collisions surface as the store's DuplicateName error.
func (s *projectService) CreateProject(ctx context.Context, in models.ProjectInput) (models.Project, error) {
	log := logger.FromContext(ctx)
	p, err := s.repo.Create(in)
	s.record("create", true, err)
	if err != nil {
		log.Warn("create project failed", zap.String("name", in.Name), zap.Error(err))
		return models.Project{}, err
	}
	log.Info("project created",
		zap.Int64("project_id", p.ID),
		zap.String("name", p.Name),
		zap.String("hash", p.Hash),
	)
	return p, nil
}

func (s *projectService) UpdateProject(ctx context.Context, id int64, patch models.ProjectPatch) (models.Project, bool, error) {
	log := logger.FromContext(ctx)
	p, ok, err := s.repo.Update(id, patch)
	s.record("update", ok, err)
	switch {
	case err != nil:
		log.Warn("update project failed", zap.Int64("project_id", id), zap.Error(err))
		return models.Project{}, false, err
	case !ok:
		log.Info("update project: not found", zap.Int64("project_id", id))
		return models.Project{}, false, nil
	}
	log.Info("project updated", zap.Int64("project_id", p.ID), zap.String("hash", p.Hash))
	return p, true, nil
}

func (s *projectService) DeleteProject(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContext(ctx)
	ok, err := s.repo.Delete(id)
	s.record("delete", ok, err)
	if err != nil {
		log.Warn("delete project failed", zap.Int64("project_id", id), zap.Error(err))
		return false, err
	}
	if ok {
		log.Info("project deleted", zap.Int64("project_id", id))
	}
	return ok, nil
}

func (s *projectService) ProjectStats(ctx context.Context, id int64) (models.ProjectStats, bool, error) {
	logger.FromContext(ctx).Debug("project stats", zap.Int64("project_id", id))
	return s.repo.Stats(id)
}

// SeedIfEmpty loads the sample projects into an empty store.
func (s *projectService) SeedIfEmpty(ctx context.Context) (bool, error) {
	log := logger.FromContext(ctx)
	seeded, err := s.repo.Seed()
	if err != nil {
		s.record("seed", false, err)
		log.Error("seed projects failed", zap.Error(err))
		return false, err
	}
	if !seeded {
		log.Info("store already populated, skipping seed", zap.Int("count", s.repo.Count()))
		return false, nil
	}
	s.record("seed", true, nil)
	log.Info("sample projects seeded", zap.Int("count", s.repo.Count()))
	return true, nil
}

func (s *projectService) CountProjects(ctx context.Context) int {
	return s.repo.Count()
}
