package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/shelter-nav/internal/domain"
)

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shelters.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validDoc = `[
  {"name": "A", "coordinates": [139.7007, 35.6895], "description": "A"},
  {"name": "B", "coordinates": [139.7107, 35.6995], "description": "B"},
  {"name": "C", "coordinates": [139.6907, 35.6795], "description": "C"}
]`

func TestRun_Valid(t *testing.T) {
	var out bytes.Buffer
	pos := &domain.StaticPosition{Coordinate: domain.Coordinate{Lon: 139.70, Lat: 35.70}}

	code := run(&out, writeDoc(t, validDoc), pos)

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Closest shelter: [1] B at 0.968 km")
	assert.Contains(t, out.String(), "zoom 14")
	assert.Contains(t, out.String(), "All validations passed.")
}

func TestRun_WithoutPosition(t *testing.T) {
	var out bytes.Buffer
	code := run(&out, writeDoc(t, validDoc), nil)

	assert.Equal(t, 0, code)
	assert.NotContains(t, out.String(), "Closest shelter")
}

func TestRun_ReportsProblems(t *testing.T) {
	doc := `[
	  {"name": "A", "coordinates": [139.70, 35.69]},
	  {"name": "A", "coordinates": [139.71, 35.69]},
	  {"name": "", "coordinates": [139.72, 35.69]},
	  {"name": "C", "coordinates": [139.71, 35.69]},
	  {"name": "D"}
	]`
	var out bytes.Buffer
	code := run(&out, writeDoc(t, doc), nil)

	assert.Equal(t, 1, code)
	s := out.String()
	assert.Contains(t, s, "entry 2: missing name")
	assert.Contains(t, s, "entry 4: missing coordinates")
	assert.Contains(t, s, `name "A" already used by shelter 0`)
	assert.Contains(t, s, "shelter 2 (C): same coordinates as shelter 1 (A)")
	assert.Contains(t, s, "Validation FAILED.")
}

func TestRun_EmptyDocument(t *testing.T) {
	var out bytes.Buffer
	code := run(&out, writeDoc(t, `[]`), &domain.StaticPosition{Coordinate: domain.Coordinate{Lon: 139.7, Lat: 35.7}})

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "document contains no shelters")
	assert.Contains(t, out.String(), domain.UserMessage(domain.ErrNoShelters))
}

func TestRun_Unreadable(t *testing.T) {
	var out bytes.Buffer
	code := run(&out, filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "FATAL")
}

func TestParsePosition(t *testing.T) {
	pos, err := parsePosition("", "")
	require.NoError(t, err)
	assert.Nil(t, pos)

	pos, err = parsePosition("139.7", "35.7")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinate{Lon: 139.7, Lat: 35.7}, pos.Coordinate)

	_, err = parsePosition("139.7", "")
	require.Error(t, err)
	_, err = parsePosition("x", "35.7")
	require.Error(t, err)
	_, err = parsePosition("200", "35.7")
	require.Error(t, err)
}
