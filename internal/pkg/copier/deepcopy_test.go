package copier_test

import (
	"productapi/internal/core/domain"
	"productapi/internal/pkg/copier"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepCopyCollection(t *testing.T) {
	src := domain.Collection{
		{"id": 0, "name": "Widget", "tags": []any{"a", "b"}, "dims": map[string]any{"w": 2}},
	}

	dst, err := copier.DeepCopy(src)
	require.NoError(t, err)
	assert.Equal(t, src, dst)

	dst[0]["name"] = "Changed"
	dst[0]["tags"].([]any)[0] = "z"
	dst[0]["dims"].(map[string]any)["w"] = 9

	assert.Equal(t, "Widget", src[0]["name"])
	assert.Equal(t, "a", src[0]["tags"].([]any)[0])
	assert.Equal(t, 2, src[0]["dims"].(map[string]any)["w"])
}

func TestDeepCopyNil(t *testing.T) {
	dst, err := copier.DeepCopy(domain.Product(nil))
	require.NoError(t, err)
	assert.Nil(t, dst)
}
