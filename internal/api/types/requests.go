package types

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/showcase-studio/engine/internal/models"
)

// ProjectRequest is the body of POST and PUT /api/projects.
type ProjectRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description *string         `json:"description" validate:"omitempty,max=1000"`
	Tags        json.RawMessage `json:"tags"`
	Status      string          `json:"status"`
}

// Normalize trims name and description in place.
func (r *ProjectRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		r.Description = &d
	}
}

// TagList returns the tags when they form a JSON array of strings and an
// empty list for anything else.
func (r *ProjectRequest) TagList() []string {
	tags := []string{}
	raw := bytes.TrimSpace(r.Tags)
	if len(raw) == 0 || raw[0] != '[' {
		return tags
	}
	var parsed []string
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed == nil {
		return tags
	}
	return parsed
}

func (r *ProjectRequest) ToInput() models.ProjectInput {
	return models.ProjectInput{
		Name:        r.Name,
		Description: models.NormalizeDescription(r.Description),
		Tags:        r.TagList(),
		Status:      models.NormalizeStatus(r.Status),
	}
}

// ToPatch builds a full replacement: absent description and tags clear the
// stored values and an absent status resets it to the default.
func (r *ProjectRequest) ToPatch() models.ProjectPatch {
	desc := ""
	if r.Description != nil {
		desc = *r.Description
	}
	status := models.NormalizeStatus(r.Status)
	name := r.Name
	return models.ProjectPatch{
		Name:        &name,
		Description: &desc,
		Tags:        r.TagList(),
		Status:      &status,
	}
}
