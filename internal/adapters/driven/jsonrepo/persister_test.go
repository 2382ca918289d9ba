package jsonrepo_test

import (
	"os"
	"path/filepath"
	"productapi/internal/adapters/driven/jsonrepo"
	"productapi/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilePersister(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "products.json")
	persister := jsonrepo.NewFilePersister(filename)

	require.NoError(t, persister.Persist(domain.Collection{{"id": 0, "name": "Widget"}}))
	require.NoError(t, persister.Persist(nil))

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(content))

	// the temp file has been renamed away
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFilePersisterMissingDirectory(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "missing", "products.json")

	err := jsonrepo.NewFilePersister(filename).Persist(domain.Collection{})
	assert.Error(t, err)
}
