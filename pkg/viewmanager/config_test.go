package viewmanager

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-ebooks/folio/library"
)

func openTestLibrary(t *testing.T) *library.Library {
	t.Helper()
	lib, err := library.Open(library.InMemory)
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })
	return lib
}

func testStore(t *testing.T, lib *library.Library) *Store {
	t.Helper()
	s := NewStore(lib)
	s.legacyPath = filepath.Join(t.TempDir(), "view_manager.json")
	require.NoError(t, s.Load())
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	lib := openTestLibrary(t)
	s := testStore(t, lib)

	v := &View{
		Columns:     []library.ColumnState{{Name: "title", Width: 250}, {Name: "authors", Width: -1}},
		Sort:        []library.SortSpec{{Name: "series", Ascending: true}, {Name: "pubdate", Ascending: false}},
		ApplySearch: true,
		Search:      "unread",
	}
	name, err := s.AddView("  Reading List  ", v)
	require.NoError(t, err)
	assert.Equal(t, "Reading List", name)
	s.SetLastView(name)
	s.SetAutoApply(true)
	s.SetViewToApply(name)
	require.NoError(t, s.Save())

	reloaded := NewStore(lib)
	reloaded.legacyPath = filepath.Join(t.TempDir(), "view_manager.json")
	require.NoError(t, reloaded.Load())

	got, ok := reloaded.View("Reading List")
	require.True(t, ok)
	assert.Equal(t, v.Columns, got.Columns)
	assert.Equal(t, v.Sort, got.Sort)
	assert.True(t, got.ApplySearch)
	assert.Equal(t, "unread", got.Search)
	assert.Equal(t, "Reading List", reloaded.LastView())
	assert.True(t, reloaded.AutoApply())
	assert.Equal(t, "Reading List", reloaded.ViewToApply())
}

func TestAddViewRejectsInvalidNames(t *testing.T) {
	lib := openTestLibrary(t)
	s := testStore(t, lib)

	_, err := s.AddView("Reading", nil)
	require.NoError(t, err)

	_, err = s.AddView("  reading ", nil)
	assert.ErrorIs(t, err, ErrViewExists)

	_, err = s.AddView("   ", nil)
	assert.ErrorIs(t, err, ErrInvalidViewName)

	_, err = s.AddView("*Starred", nil)
	assert.ErrorIs(t, err, ErrInvalidViewName)

	// Rejected adds leave the stored set untouched.
	assert.Equal(t, []string{"Reading"}, s.ViewNames())
}

func TestRenameView(t *testing.T) {
	lib := openTestLibrary(t)
	s := testStore(t, lib)

	_, err := s.AddView("Old", &View{Search: "kept"})
	require.NoError(t, err)
	_, err = s.AddView("Other", nil)
	require.NoError(t, err)
	s.SetLastView("Old")
	s.SetViewToApply("Old")

	_, err = s.RenameView("Old", "other")
	assert.ErrorIs(t, err, ErrViewExists)

	name, err := s.RenameView("Old", "New")
	require.NoError(t, err)
	assert.Equal(t, "New", name)

	got, ok := s.View("New")
	require.True(t, ok)
	assert.Equal(t, "kept", got.Search)
	_, ok = s.View("Old")
	assert.False(t, ok)
	assert.Equal(t, "New", s.LastView())
	assert.Equal(t, "New", s.ViewToApply())

	// Case-only renames are allowed.
	name, err = s.RenameView("New", "NEW")
	require.NoError(t, err)
	assert.Equal(t, "NEW", name)
}

func TestDeleteViewClearsReferences(t *testing.T) {
	lib := openTestLibrary(t)
	s := testStore(t, lib)

	_, err := s.AddView("Doomed", nil)
	require.NoError(t, err)
	s.SetLastView("Doomed")
	s.SetViewToApply("Doomed")

	s.DeleteView("doomed")

	assert.Empty(t, s.ViewNames())
	assert.Empty(t, s.LastView())
	assert.Equal(t, LastViewItem, s.ViewToApply())

	s.DeleteView("doomed") // second delete is a no-op
}

func TestLegacyFileMigration(t *testing.T) {
	lib := openTestLibrary(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "view_manager.json")

	record := map[string]interface{}{
		"views": map[string]interface{}{
			"Compact": map[string]interface{}{
				"columns": [][]interface{}{{"title", 250}, {"authors", 0}},
				"sort":    [][]interface{}{{"title", 0}, {"pubdate", 1}},
			},
		},
		"lastView":      "Compact",
		"autoApplyView": true,
	}
	file := map[string]interface{}{
		"libraries": map[string]interface{}{
			lib.UUID():   record,
			"other-uuid": record,
		},
	}
	data, err := json.Marshal(file)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	s := NewStore(lib)
	s.legacyPath = path
	require.NoError(t, s.Load())

	v, ok := s.View("Compact")
	require.True(t, ok)
	assert.Equal(t, []library.ColumnState{{Name: "title", Width: 250}, {Name: "authors", Width: 0}}, v.Columns)
	assert.Equal(t, []library.SortSpec{{Name: "title", Ascending: true}, {Name: "pubdate", Ascending: false}}, v.Sort)
	assert.Equal(t, "Compact", s.LastView())
	assert.True(t, s.AutoApply())
	assert.Equal(t, LastViewItem, s.ViewToApply())

	// The record was popped but the file keeps the other library's entry.
	remaining, err := os.ReadFile(path)
	require.NoError(t, err)
	var f legacyFile
	require.NoError(t, json.Unmarshal(remaining, &f))
	assert.NotContains(t, f.Libraries, lib.UUID())
	assert.Contains(t, f.Libraries, "other-uuid")

	// The migrated record now lives in the library preferences.
	reloaded := NewStore(lib)
	reloaded.legacyPath = filepath.Join(t.TempDir(), "view_manager.json")
	require.NoError(t, reloaded.Load())
	_, ok = reloaded.View("Compact")
	assert.True(t, ok)
}

func TestLegacyFileRemovedWhenEmpty(t *testing.T) {
	lib := openTestLibrary(t)
	path := filepath.Join(t.TempDir(), "view_manager.json")

	file := map[string]interface{}{
		"libraries": map[string]interface{}{
			lib.UUID(): map[string]interface{}{"views": map[string]interface{}{}},
		},
	}
	data, err := json.Marshal(file)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	s := NewStore(lib)
	s.legacyPath = path
	require.NoError(t, s.Load())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCleanupLegacyFile(t *testing.T) {
	lib := openTestLibrary(t)
	path := filepath.Join(t.TempDir(), "view_manager.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"libraries": {}}`), 0644))

	s := NewStore(lib)
	s.legacyPath = path
	s.CleanupLegacyFile()

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Files still holding records stay put.
	require.NoError(t, os.WriteFile(path, []byte(`{"libraries": {"x": {}}}`), 0644))
	s.CleanupLegacyFile()
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSchemaMigrationRunsOnce(t *testing.T) {
	lib := openTestLibrary(t)

	legacy := map[string]interface{}{
		"views": map[string]interface{}{
			"Old": map[string]interface{}{
				"columns": [][]interface{}{{"title", 300}},
				"sort":    [][]interface{}{{"rating", 1}},
			},
		},
	}
	require.NoError(t, lib.SetNamespaced(PrefsNamespace, "settings", legacy))

	s := NewStore(lib)
	s.legacyPath = filepath.Join(t.TempDir(), "view_manager.json")
	require.NoError(t, s.Load())

	v, ok := s.View("Old")
	require.True(t, ok)
	assert.Equal(t, []library.ColumnState{{Name: "title", Width: 300}}, v.Columns)
	assert.Equal(t, []library.SortSpec{{Name: "rating", Ascending: false}}, v.Sort)

	// The upgraded record is persisted with the current version, so a
	// second decode is a plain read.
	var raw json.RawMessage
	found, err := lib.GetNamespaced(PrefsNamespace, "settings", &raw)
	require.NoError(t, err)
	require.True(t, found)
	_, migrated, err := decodeLibraryConfig(raw)
	require.NoError(t, err)
	assert.False(t, migrated)
}

func TestLoadWithoutRecordYieldsDefaults(t *testing.T) {
	lib := openTestLibrary(t)
	s := testStore(t, lib)

	assert.Empty(t, s.ViewNames())
	assert.Empty(t, s.LastView())
	assert.False(t, s.AutoApply())
	assert.Equal(t, LastViewItem, s.ViewToApply())
}
