package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := Open(InMemory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = lib.Close() })
	return lib
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestUUIDPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	lib, err := Open(dir)
	require.NoError(t, err)
	first := lib.UUID()
	assert.NotEmpty(t, first)
	require.NoError(t, lib.Close())

	lib, err = Open(dir)
	require.NoError(t, err)
	defer lib.Close()
	assert.Equal(t, first, lib.UUID())
}

func TestNamespacedPrefsRoundTrip(t *testing.T) {
	lib := openTestLibrary(t)

	type record struct {
		Count int      `json:"count"`
		Names []string `json:"names"`
	}

	var missing record
	found, err := lib.GetNamespaced("PluginA", "settings", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	in := record{Count: 3, Names: []string{"a", "b"}}
	require.NoError(t, lib.SetNamespaced("PluginA", "settings", in))

	var out record
	found, err = lib.GetNamespaced("PluginA", "settings", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)

	// Same key under another namespace stays isolated.
	found, err = lib.GetNamespaced("PluginB", "settings", &record{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, lib.RemoveNamespaced("PluginA", "settings"))
	found, err = lib.GetNamespaced("PluginA", "settings", &record{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNamespaceDump(t *testing.T) {
	lib := openTestLibrary(t)

	require.NoError(t, lib.SetNamespaced("ViewManager", "settings", map[string]int{"n": 1}))
	dump, err := lib.NamespaceDump("ViewManager")
	require.NoError(t, err)
	require.Len(t, dump, 1)
	assert.JSONEq(t, `{"n":1}`, dump["settings"])
}

func TestColumnsDefaultState(t *testing.T) {
	lib := openTestLibrary(t)

	cols, err := lib.Columns()
	require.NoError(t, err)
	assert.Equal(t, lib.DefaultColumns(), cols)
	assert.Equal(t, "title", cols[0].Name)
}

func TestApplyColumnState(t *testing.T) {
	lib := openTestLibrary(t)

	err := lib.ApplyColumnState([]ColumnState{
		{Name: "authors", Width: 300},
		{Name: "title", Width: 0},
		{Name: "no_such_column", Width: 99},
	})
	require.NoError(t, err)

	cols, err := lib.Columns()
	require.NoError(t, err)

	assert.Equal(t, "authors", cols[0].Name)
	assert.Equal(t, 300, cols[0].Width)
	assert.True(t, cols[0].Visible)

	assert.Equal(t, "title", cols[1].Name)
	assert.Equal(t, 250, cols[1].Width) // zero width keeps the default
	assert.True(t, cols[1].Visible)

	byName := make(map[string]Column)
	for _, c := range cols {
		byName[c.Name] = c
	}
	assert.False(t, byName["series"].Visible)
	// Locked columns stay visible even when not named.
	assert.True(t, byName["status"].Visible)
	_, exists := byName["no_such_column"]
	assert.False(t, exists)
}

func TestSavedSearchesSortedNames(t *testing.T) {
	lib := openTestLibrary(t)

	require.NoError(t, lib.AddSavedSearch("unread", "tag:unread"))
	require.NoError(t, lib.AddSavedSearch("Fiction", "tag:fiction"))

	names, err := lib.SavedSearchNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Fiction", "unread"}, names)

	expr, ok, err := lib.SavedSearch("Fiction")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tag:fiction", expr)
}

func TestActiveSearchFiltersListing(t *testing.T) {
	lib := openTestLibrary(t)

	_, err := lib.AddBook(Book{Title: "Dune", Authors: "Frank Herbert", Tags: "science fiction"})
	require.NoError(t, err)
	_, err = lib.AddBook(Book{Title: "Emma", Authors: "Jane Austen", Tags: "classics"})
	require.NoError(t, err)

	require.NoError(t, lib.AddSavedSearch("sf", "science fiction"))
	require.NoError(t, lib.SetActiveSearch("sf"))

	books, err := lib.Books()
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)

	// Unknown search names clear the filter.
	require.NoError(t, lib.SetActiveSearch("no such search"))
	books, err = lib.Books()
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestMultiColumnSort(t *testing.T) {
	lib := openTestLibrary(t)

	for _, b := range []Book{
		{Title: "B", Authors: "Same", Rating: 4},
		{Title: "A", Authors: "Same", Rating: 4},
		{Title: "C", Authors: "Other", Rating: 5},
	} {
		_, err := lib.AddBook(b)
		require.NoError(t, err)
	}

	lib.SetSort([]SortSpec{
		{Name: "rating", Ascending: false},
		{Name: "title", Ascending: true},
		{Name: "status", Ascending: true}, // unsortable, skipped
	})

	books, err := lib.Books()
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "C", books[0].Title)
	assert.Equal(t, "A", books[1].Title)
	assert.Equal(t, "B", books[2].Title)

	assert.Len(t, lib.Sort(), 2)
}
