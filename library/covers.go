package library

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// CoverFileName is the cover image file inside a book's directory.
const CoverFileName = "cover.jpg"

// CoverPath returns the path to a book's cover image, or "" when the
// book has none.
func (l *Library) CoverPath(b Book) string {
	if !b.HasCover || b.Path == "" || l.path == InMemory {
		return ""
	}
	return filepath.Join(l.path, b.Path, CoverFileName)
}

// CoverThumbnail loads a book's cover scaled to fit the given bounds,
// preserving aspect ratio.
func (l *Library) CoverThumbnail(b Book, width, height int) (image.Image, error) {
	path := l.CoverPath(b)
	if path == "" {
		return nil, fmt.Errorf("library: book %q has no cover", b.Title)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("library: open cover for %q: %w", b.Title, err)
	}
	return imaging.Fit(img, width, height, imaging.Lanczos), nil
}
