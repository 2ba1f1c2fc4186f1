package library

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverThumbnail(t *testing.T) {
	dir := t.TempDir()
	lib, err := Open(dir)
	require.NoError(t, err)
	defer lib.Close()

	bookDir := filepath.Join(dir, "Herbert", "Dune (1)")
	require.NoError(t, os.MkdirAll(bookDir, 0o755))
	cover := imaging.New(600, 800, image.White.C)
	require.NoError(t, imaging.Save(cover, filepath.Join(bookDir, CoverFileName)))

	book := Book{Title: "Dune", Path: filepath.Join("Herbert", "Dune (1)"), HasCover: true}
	thumb, err := lib.CoverThumbnail(book, 120, 160)
	require.NoError(t, err)

	bounds := thumb.Bounds()
	assert.Equal(t, 120, bounds.Dx())
	assert.Equal(t, 160, bounds.Dy())
}

func TestCoverThumbnailWithoutCover(t *testing.T) {
	lib := openTestLibrary(t)

	_, err := lib.CoverThumbnail(Book{Title: "Emma"}, 120, 160)
	assert.Error(t, err)
	assert.Empty(t, lib.CoverPath(Book{Title: "Emma"}))
}
