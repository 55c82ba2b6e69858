package models

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/showcase-studio/engine/pkg/utils"
)

const (
	// DefaultStatus is assigned when a project is created or replaced without a status.
	DefaultStatus = "active"

	// ISOTimeLayout renders timestamps as UTC with millisecond precision.
	ISOTimeLayout = "2006-01-02T15:04:05.000Z"

	fingerprintLen = 8
)

// Project is a portfolio entry held by the project store.
type Project struct {
	ID          int64
	Name        string
	Description *string
	Tags        []string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Hash        string
}

// HasDescription reports whether the project carries a non-empty description.
func (p Project) HasDescription() bool {
	return p.Description != nil && *p.Description != ""
}

// Clone returns a deep copy so callers cannot reach store-owned slices.
func (p Project) Clone() Project {
	out := p
	if p.Description != nil {
		d := *p.Description
		out.Description = &d
	}
	out.Tags = slices.Clone(p.Tags)
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out
}

type projectJSON struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
	Hash        string   `json:"hash"`
}

// MarshalJSON renders timestamps in ISO form and tags as [] rather than null.
func (p Project) MarshalJSON() ([]byte, error) {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(projectJSON{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Tags:        tags,
		Status:      p.Status,
		CreatedAt:   FormatTime(p.CreatedAt),
		UpdatedAt:   FormatTime(p.UpdatedAt),
		Hash:        p.Hash,
	})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (p *Project) UnmarshalJSON(b []byte) error {
	var raw projectJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	created, err := time.Parse(time.RFC3339Nano, raw.CreatedAt)
	if err != nil {
		return err
	}
	updated, err := time.Parse(time.RFC3339Nano, raw.UpdatedAt)
	if err != nil {
		return err
	}
	*p = Project{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Tags:        raw.Tags,
		Status:      raw.Status,
		CreatedAt:   created,
		UpdatedAt:   updated,
		Hash:        raw.Hash,
	}
	return nil
}

// ProjectInput carries the fields of a new project.
type ProjectInput struct {
	Name        string
	Description *string
	Tags        []string
	Status      string
}

// ProjectPatch carries an update. Nil fields keep the stored value; a non-nil
// empty Description clears it and a non-nil empty Tags slice removes all tags.
type ProjectPatch struct {
	Name        *string
	Description *string
	Tags        []string
	Status      *string
}

// ProjectStats is a derived read-only view of a project.
type ProjectStats struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	DaysSinceCreation int    `json:"daysSinceCreation"`
	TagCount          int    `json:"tagCount"`
	Status            string `json:"status"`
	HasDescription    bool   `json:"hasDescription"`
	LastUpdated       string `json:"lastUpdated"`
	Hash              string `json:"hash"`
}

// FormatTime renders t in ISOTimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(ISOTimeLayout)
}

// Fingerprint is the 8 hex character content hash of a project. An absent
// description contributes the literal "null".
func Fingerprint(name string, description *string, createdAt time.Time) string {
	desc := "null"
	if description != nil {
		desc = *description
	}
	return utils.ShortSHA256Hex(name+desc+FormatTime(createdAt), fingerprintLen)
}

// NormalizeDescription maps an empty description to absent.
func NormalizeDescription(d *string) *string {
	if d == nil || *d == "" {
		return nil
	}
	v := *d
	return &v
}

// NormalizeStatus maps an empty status to DefaultStatus.
func NormalizeStatus(s string) string {
	if s == "" {
		return DefaultStatus
	}
	return s
}
