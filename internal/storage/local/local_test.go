package local_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/plant-storefront/internal/config"
	"github.com/aaravmahajanofficial/plant-storefront/internal/storage/local"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")

	store, err := local.New(&config.Upload{Dir: dir, PublicPath: "/uploads"})
	require.NoError(t, err)
	assert.DirExists(t, dir)

	t.Run("Save Writes File And Returns Public URL", func(t *testing.T) {
		// Act
		url, err := store.Save(t.Context(), "abc.png", strings.NewReader("png-bytes"))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "/uploads/abc.png", url)

		data, err := os.ReadFile(filepath.Join(dir, "abc.png"))
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(data))
	})

	t.Run("Existing Name Is Not Overwritten", func(t *testing.T) {
		_, err := store.Save(t.Context(), "abc.png", strings.NewReader("other"))

		require.Error(t, err)
	})

	t.Run("Path Traversal Rejected", func(t *testing.T) {
		for _, name := range []string{"../escape.png", "a/b.png", ""} {
			_, err := store.Save(t.Context(), name, strings.NewReader("x"))
			assert.Error(t, err, name)
		}
	})
}
