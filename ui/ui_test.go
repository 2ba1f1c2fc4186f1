package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/folio-ebooks/folio/library"
)

func TestCellText(t *testing.T) {
	b := library.Book{
		Title:       "Dune",
		Authors:     "Frank Herbert",
		Series:      "Dune",
		SeriesIndex: 1,
		Rating:      8,
		Tags:        "scifi",
		Publisher:   "Chilton",
	}

	assert.Equal(t, "Dune", cellText(b, "title"))
	assert.Equal(t, "Frank Herbert", cellText(b, "authors"))
	assert.Equal(t, "Dune [1]", cellText(b, "series"))
	assert.Equal(t, "****", cellText(b, "rating"))
	assert.Equal(t, "scifi", cellText(b, "tags"))
	assert.Equal(t, "Chilton", cellText(b, "publisher"))
	assert.Equal(t, "", cellText(b, "status"))

	assert.Equal(t, "", cellText(library.Book{}, "series"))
}

func TestCellTextRatingBounds(t *testing.T) {
	assert.Equal(t, "", cellText(library.Book{Rating: 0}, "rating"))
	assert.Equal(t, "", cellText(library.Book{Rating: -4}, "rating"))
	assert.Equal(t, "*****", cellText(library.Book{Rating: 10}, "rating"))
}
