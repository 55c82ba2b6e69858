package repository

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-memdb"
	"go.uber.org/zap"

	"github.com/showcase-studio/engine/internal/models"
	"github.com/showcase-studio/engine/pkg/clock"
	appErr "github.com/showcase-studio/engine/pkg/errors"
)

const (
	projectsTable = "projects"

	defaultPage  = 1
	defaultLimit = 10
	firstID      = int64(1)
)

// ProjectRepository is the contract the service layer consumes.
type ProjectRepository interface {
	List(opts ListOptions) (ListResult, error)
	Get(id int64) (models.Project, bool, error)
	Create(in models.ProjectInput) (models.Project, error)
	Update(id int64, patch models.ProjectPatch) (models.Project, bool, error)
	Delete(id int64) (bool, error)
	Stats(id int64) (models.ProjectStats, bool, error)
	Seed() (bool, error)
	Clear() error
	Count() int
}

// ListOptions selects a page of projects, optionally filtered by Search.
type ListOptions struct {
	Page   int
	Limit  int
	Search string
}

// ListResult is one page of projects plus the filtered total.
type ListResult struct {
	Data  []models.Project
	Total int
}

// ProjectStore is the in-memory project collection. Writers serialize on mu;
// readers work on go-memdb snapshots.
type ProjectStore struct {
	mu     sync.Mutex
	db     *memdb.MemDB
	table  memTable[models.Project]
	clock  clock.Clock
	log    *zap.Logger
	nextID int64
}

var _ ProjectRepository = (*ProjectStore)(nil)

// Option configures a ProjectStore.
type Option func(*ProjectStore)

// WithClock overrides the time source used for timestamps and stats.
func WithClock(c clock.Clock) Option {
	return func(s *ProjectStore) { s.clock = c }
}

// WithLogger sets the logger for failures that cannot be returned to the caller.
func WithLogger(l *zap.Logger) Option {
	return func(s *ProjectStore) { s.log = l }
}

func projectSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			projectsTable: {
				Name: projectsTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.IntFieldIndex{Field: "ID"},
					},
					"name": {
						Name:    "name",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Name", Lowercase: true},
					},
				},
			},
		},
	}
}

// NewProjectStore returns an empty store whose first id is 1.
func NewProjectStore(opts ...Option) *ProjectStore {
	db, err := memdb.NewMemDB(projectSchema())
	if err != nil {
		// the schema is static; this only fires on a programming error
		panic(err)
	}
	s := &ProjectStore{
		db:     db,
		table:  newMemTable[models.Project](projectsTable),
		clock:  clock.New(),
		log:    zap.NewNop(),
		nextID: firstID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsDuplicateName reports whether err is the name collision raised by Create or Update.
func IsDuplicateName(err error) bool {
	return appErr.IsCode(err, appErr.CodeAlreadyExists)
}

func duplicateName(name string) error {
	return appErr.Newf(appErr.CodeAlreadyExists, "project with name '%s' already exists", name).
		WithMeta("name", name)
}

func (s *ProjectStore) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Millisecond)
}

// List filters, sorts newest first and paginates.
func (s *ProjectStore) List(opts ListOptions) (ListResult, error) {
	txn := s.db.Txn(false)
	rows, err := s.table.all(txn)
	if err != nil {
		return ListResult{}, err
	}

	term := strings.ToLower(opts.Search)
	matched := make([]*models.Project, 0, len(rows))
	for _, p := range rows {
		if term == "" || matches(p, term) {
			matched = append(matched, p)
		}
	}

	slices.SortStableFunc(matched, func(a, b *models.Project) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	page, limit := opts.Page, opts.Limit
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	start := len(matched)
	if pages := (len(matched) + limit - 1) / limit; page-1 < pages {
		start = (page - 1) * limit
	}
	end := min(start+limit, len(matched))

	out := make([]models.Project, 0, end-start)
	for _, p := range matched[start:end] {
		out = append(out, p.Clone())
	}
	return ListResult{Data: out, Total: len(matched)}, nil
}

func matches(p *models.Project, term string) bool {
	if strings.Contains(strings.ToLower(p.Name), term) {
		return true
	}
	if p.Description != nil && strings.Contains(strings.ToLower(*p.Description), term) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// Get returns the project with id; false means no such project.
func (s *ProjectStore) Get(id int64) (models.Project, bool, error) {
	p, err := s.table.first(s.db.Txn(false), "id", id)
	if err != nil || p == nil {
		return models.Project{}, false, err
	}
	return p.Clone(), true, nil
}

// Create inserts a project under the next id.
func (s *ProjectStore) Create(in models.ProjectInput) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn := s.db.Txn(true)
	defer txn.Abort()

	p, err := s.insertNew(txn, in, s.nextID)
	if err != nil {
		return models.Project{}, err
	}
	txn.Commit()
	s.nextID++
	return p.Clone(), nil
}

func (s *ProjectStore) insertNew(txn *memdb.Txn, in models.ProjectInput, id int64) (*models.Project, error) {
	existing, err := s.table.first(txn, "name", in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, duplicateName(in.Name)
	}

	now := s.now()
	p := &models.Project{
		ID:          id,
		Name:        in.Name,
		Description: models.NormalizeDescription(in.Description),
		Tags:        slices.Clone(in.Tags),
		Status:      models.NormalizeStatus(in.Status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.Hash = models.Fingerprint(p.Name, p.Description, p.CreatedAt)

	if err := s.table.insert(txn, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update merges patch onto the stored project. id and createdAt never change;
// the hash is always recomputed.
func (s *ProjectStore) Update(id int64, patch models.ProjectPatch) (models.Project, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn := s.db.Txn(true)
	defer txn.Abort()

	cur, err := s.table.first(txn, "id", id)
	if err != nil || cur == nil {
		return models.Project{}, false, err
	}

	next := cur.Clone()
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	holder, err := s.table.first(txn, "name", next.Name)
	if err != nil {
		return models.Project{}, false, err
	}
	if holder != nil && holder.ID != id {
		return models.Project{}, false, duplicateName(next.Name)
	}

	if patch.Description != nil {
		next.Description = models.NormalizeDescription(patch.Description)
	}
	if patch.Tags != nil {
		next.Tags = slices.Clone(patch.Tags)
	}
	if patch.Status != nil {
		next.Status = models.NormalizeStatus(*patch.Status)
	}

	now := s.now()
	if now.Before(cur.UpdatedAt) {
		now = cur.UpdatedAt
	}
	next.ID = cur.ID
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = now
	next.Hash = models.Fingerprint(next.Name, next.Description, next.CreatedAt)

	if err := s.table.insert(txn, &next); err != nil {
		return models.Project{}, false, err
	}
	txn.Commit()
	return next.Clone(), true, nil
}

// Delete removes the project with id. Its id is never reassigned.
func (s *ProjectStore) Delete(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn := s.db.Txn(true)
	defer txn.Abort()

	cur, err := s.table.first(txn, "id", id)
	if err != nil || cur == nil {
		return false, err
	}
	if err := s.table.delete(txn, cur); err != nil {
		return false, err
	}
	txn.Commit()
	return true, nil
}

// Stats derives a read-only summary of the project with id.
func (s *ProjectStore) Stats(id int64) (models.ProjectStats, bool, error) {
	p, err := s.table.first(s.db.Txn(false), "id", id)
	if err != nil || p == nil {
		return models.ProjectStats{}, false, err
	}

	days := int(s.clock.Now().Sub(p.CreatedAt) / (24 * time.Hour))
	if days < 0 {
		days = 0
	}
	return models.ProjectStats{
		ID:                p.ID,
		Name:              p.Name,
		DaysSinceCreation: days,
		TagCount:          len(p.Tags),
		Status:            p.Status,
		HasDescription:    p.HasDescription(),
		LastUpdated:       models.FormatTime(p.UpdatedAt),
		Hash:              p.Hash,
	}, true, nil
}

var sampleProjects = []models.ProjectInput{
	{
		Name:        "E-commerce Platform",
		Description: ptr("A modern e-commerce platform built with Node.js and React"),
		Tags:        []string{"javascript", "react", "nodejs", "ecommerce"},
		Status:      "active",
	},
	{
		Name:        "Task Management API",
		Description: ptr("RESTful API for task management with authentication"),
		Tags:        []string{"api", "nodejs", "express", "authentication"},
		Status:      "active",
	},
	{
		Name:        "Data Analytics Dashboard",
		Description: ptr("Real-time analytics dashboard with charts and graphs"),
		Tags:        []string{"dashboard", "analytics", "charts", "realtime"},
		Status:      "completed",
	},
}

func ptr(s string) *string { return &s }

// Seed inserts the sample projects into an empty store. It returns false
// without changes when the store already holds projects.
func (s *ProjectStore) Seed() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn := s.db.Txn(true)
	defer txn.Abort()

	n, err := s.table.count(txn)
	if err != nil || n > 0 {
		return false, err
	}

	id := s.nextID
	for _, in := range sampleProjects {
		if _, err := s.insertNew(txn, in, id); err != nil {
			return false, appErr.Wrap(err, appErr.CodeOf(err), "seed projects failed")
		}
		id++
	}
	txn.Commit()
	s.nextID = id
	return true, nil
}

// Clear drops every project and resets the id counter. Test and reset use only.
func (s *ProjectStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := s.table.truncate(txn); err != nil {
		return err
	}
	txn.Commit()
	s.nextID = firstID
	return nil
}

// Count returns the number of live projects, or 0 if the id index cannot be
// scanned.
func (s *ProjectStore) Count() int {
	n, err := s.table.count(s.db.Txn(false))
	if err != nil {
		s.log.Error("count projects failed", zap.Error(err))
		return 0
	}
	return n
}
