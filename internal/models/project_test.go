package models

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showcase-studio/engine/pkg/utils"
)

var hexFingerprint = regexp.MustCompile(`^[0-9a-f]{8}$`)

func strPtr(s string) *string { return &s }

func TestFingerprint(t *testing.T) {
	created := time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

	a := Fingerprint("Alpha", strPtr("first"), created)
	b := Fingerprint("Alpha", strPtr("first"), created)
	require.Regexp(t, hexFingerprint, a)
	assert.Equal(t, a, b)

	assert.Equal(t, utils.ShortSHA256Hex("Alphafirst2025-03-14T09:26:53.589Z", 8), a)
	assert.NotEqual(t, a, Fingerprint("Alpha2", strPtr("first"), created))
	assert.NotEqual(t, a, Fingerprint("Alpha", strPtr("second"), created))
	assert.NotEqual(t, a, Fingerprint("Alpha", strPtr("first"), created.Add(time.Millisecond)))
}

func TestFingerprintAbsentDescription(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t,
		utils.ShortSHA256Hex("Betanull2025-01-01T00:00:00.000Z", 8),
		Fingerprint("Beta", nil, created))
}

func TestFingerprintIgnoresZone(t *testing.T) {
	utc := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	local := utc.In(time.FixedZone("CEST", 2*60*60))
	assert.Equal(t, Fingerprint("x", nil, utc), Fingerprint("x", nil, local))
}

func TestProjectJSON(t *testing.T) {
	created := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	p := Project{
		ID:        7,
		Name:      "Gamma",
		Status:    DefaultStatus,
		CreatedAt: created,
		UpdatedAt: created.Add(1500 * time.Millisecond),
		Hash:      Fingerprint("Gamma", nil, created),
	}

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 7,
		"name": "Gamma",
		"description": null,
		"tags": [],
		"status": "active",
		"createdAt": "2025-02-03T04:05:06.000Z",
		"updatedAt": "2025-02-03T04:05:07.500Z",
		"hash": "`+p.Hash+`"
	}`, string(b))

	var back Project
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.CreatedAt.Equal(p.CreatedAt))
	assert.True(t, back.UpdatedAt.Equal(p.UpdatedAt))
	assert.Equal(t, p.Hash, back.Hash)
}

func TestCloneIsDeep(t *testing.T) {
	p := Project{Description: strPtr("d"), Tags: []string{"a"}}
	c := p.Clone()
	*c.Description = "changed"
	c.Tags[0] = "z"
	assert.Equal(t, "d", *p.Description)
	assert.Equal(t, "a", p.Tags[0])
	assert.Equal(t, []string{}, Project{}.Clone().Tags)
}

func TestNormalize(t *testing.T) {
	assert.Nil(t, NormalizeDescription(nil))
	assert.Nil(t, NormalizeDescription(strPtr("")))
	assert.Equal(t, "x", *NormalizeDescription(strPtr("x")))
	assert.Equal(t, "active", NormalizeStatus(""))
	assert.Equal(t, "completed", NormalizeStatus("completed"))
	assert.False(t, Project{Description: strPtr("")}.HasDescription())
}
