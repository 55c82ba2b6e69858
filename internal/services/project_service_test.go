package services

import (
	"context"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/showcase-studio/engine/internal/metrics"
	"github.com/showcase-studio/engine/internal/models"
	"github.com/showcase-studio/engine/internal/repository"
	appErr "github.com/showcase-studio/engine/pkg/errors"
	"github.com/showcase-studio/engine/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Set(zap.NewNop())
	os.Exit(m.Run())
}

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) List(opts repository.ListOptions) (repository.ListResult, error) {
	args := m.Called(opts)
	return args.Get(0).(repository.ListResult), args.Error(1)
}

func (m *mockRepo) Get(id int64) (models.Project, bool, error) {
	args := m.Called(id)
	return args.Get(0).(models.Project), args.Bool(1), args.Error(2)
}

func (m *mockRepo) Create(in models.ProjectInput) (models.Project, error) {
	args := m.Called(in)
	return args.Get(0).(models.Project), args.Error(1)
}

func (m *mockRepo) Update(id int64, patch models.ProjectPatch) (models.Project, bool, error) {
	args := m.Called(id, patch)
	return args.Get(0).(models.Project), args.Bool(1), args.Error(2)
}

func (m *mockRepo) Delete(id int64) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) Stats(id int64) (models.ProjectStats, bool, error) {
	args := m.Called(id)
	return args.Get(0).(models.ProjectStats), args.Bool(1), args.Error(2)
}

func (m *mockRepo) Seed() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) Clear() error {
	return m.Called().Error(0)
}

func (m *mockRepo) Count() int {
	return m.Called().Int(0)
}

func mutations(op, result string) float64 {
	return testutil.ToFloat64(metrics.ProjectMutationsTotal.WithLabelValues(op, result))
}

func TestProjectService_Lifecycle(t *testing.T) {
	ctx := logger.WithRequestID(context.Background(), "req-42")
	svc := NewProjectService(repository.NewProjectStore())

	created, err := svc.CreateProject(ctx, models.ProjectInput{Name: "Alpha"})
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ProjectsLive))

	dupBefore := mutations("create", resultDuplicate)
	_, err = svc.CreateProject(ctx, models.ProjectInput{Name: "alpha"})
	require.True(t, repository.IsDuplicateName(err))
	assert.Equal(t, dupBefore+1, mutations("create", resultDuplicate))

	got, ok, err := svc.GetProject(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created, got)

	name := "Alpha 2"
	updated, ok, err := svc.UpdateProject(ctx, created.ID, models.ProjectPatch{Name: &name})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, name, updated.Name)

	nfBefore := mutations("update", resultNotFound)
	_, ok, err = svc.UpdateProject(ctx, 999, models.ProjectPatch{Name: &name})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, nfBefore+1, mutations("update", resultNotFound))

	st, ok, err := svc.ProjectStats(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, st.DaysSinceCreation)

	res, err := svc.ListProjects(ctx, repository.ListOptions{Page: 1, Limit: 10, Search: "alpha"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	ok, err = svc.DeleteProject(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.ProjectsLive))
	assert.Zero(t, svc.CountProjects(ctx))
}

func TestProjectService_SeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	svc := NewProjectService(repository.NewProjectStore())

	seeded, err := svc.SeedIfEmpty(ctx)
	require.NoError(t, err)
	require.True(t, seeded)
	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.ProjectsLive))

	seeded, err = svc.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Equal(t, 3, svc.CountProjects(ctx))
}

func TestProjectService_PropagatesStoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := appErr.New(appErr.CodeInternal, "lookup projects by id failed")

	repo := &mockRepo{}
	repo.On("Count").Return(0)
	repo.On("Delete", int64(5)).Return(false, boom)
	repo.On("Seed").Return(false, boom)

	svc := NewProjectService(repo)

	errBefore := mutations("delete", resultError)
	ok, err := svc.DeleteProject(ctx, 5)
	require.ErrorIs(t, err, boom)
	assert.False(t, ok)
	assert.Equal(t, errBefore+1, mutations("delete", resultError))

	_, err = svc.SeedIfEmpty(ctx)
	require.ErrorIs(t, err, boom)

	repo.AssertExpectations(t)
}
