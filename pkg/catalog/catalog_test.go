// pkg/catalog/catalog_test.go
package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	payload := `{
		"version": "1.0.0",
		"levels": ["Entry", "Junior", "Mid"],
		"institutes": ["IIT", "NIT", "Other"]
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	cat, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", cat.Version)
	assert.Equal(t, []string{"Entry", "Junior", "Mid"}, cat.Levels)
	assert.Equal(t, []string{"IIT", "NIT", "Other"}, cat.Institutes)
	assert.Empty(t, cat.Companies)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadCatalog_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := LoadCatalog(path)
	assert.Error(t, err)
}
