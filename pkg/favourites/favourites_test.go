package favourites

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-ebooks/folio/action"
)

func TestConfigRoundTrip(t *testing.T) {
	prefs := test.NewApp().Preferences()

	c := NewConfig(prefs)
	assert.Empty(t, c.Entries())

	entries := []*MenuEntry{
		{Display: "Add books", Path: []string{"Add Books"}},
		nil,
		{Display: "Empty book", Path: []string{"Add Books", "Add an empty book"}},
	}
	require.NoError(t, c.SetEntries(entries))

	reloaded := NewConfig(prefs)
	got := reloaded.Entries()
	require.Len(t, got, 3)
	assert.Equal(t, "Add books", got[0].Display)
	assert.Nil(t, got[1])
	assert.Equal(t, []string{"Add Books", "Add an empty book"}, got[2].Path)
}

func TestConfigIgnoresCorruptBlob(t *testing.T) {
	prefs := test.NewApp().Preferences()
	prefs.SetString(menusPrefKey, "{not json")

	c := NewConfig(prefs)
	assert.Empty(t, c.Entries())
}

func TestNormalizeEntries(t *testing.T) {
	a := &MenuEntry{Display: "A", Path: []string{"A"}}
	b := &MenuEntry{Display: "B", Path: []string{"B"}}

	got := NormalizeEntries([]*MenuEntry{nil, a, nil, nil, b, nil})
	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].Display)
	assert.Nil(t, got[1])
	assert.Equal(t, "B", got[2].Display)

	assert.Empty(t, NormalizeEntries([]*MenuEntry{nil, nil}))
}

func TestEntriesAreCopies(t *testing.T) {
	prefs := test.NewApp().Preferences()
	c := NewConfig(prefs)
	require.NoError(t, c.SetEntries([]*MenuEntry{{Display: "A", Path: []string{"A"}}}))

	got := c.Entries()
	got[0].Display = "mutated"
	assert.Equal(t, "A", c.Entries()[0].Display)
}

func testMenuRegistry(t *testing.T) *action.Registry {
	t.Helper()
	r := action.NewRegistry()
	require.NoError(t, r.Register(&action.Action{
		Name:    "Add Books",
		Display: "Add books",
		Enabled: true,
		Trigger: func() {},
		Children: []*action.Action{
			{Display: "Add an empty book", Enabled: true, Trigger: func() {}},
		},
	}))
	require.NoError(t, r.Register(&action.Action{
		Name:    "Convert Books",
		Display: "Convert books",
		Enabled: false,
		Trigger: func() {},
	}))
	return r
}

func TestBuildMenuItems(t *testing.T) {
	r := testMenuRegistry(t)
	entries := []*MenuEntry{
		{Display: "Add", Path: []string{"Add Books"}},
		nil,
		{Display: "Empty", Path: []string{"Add Books", "Add an empty book"}},
		{Display: "Gone", Path: []string{"Removed Plugin"}},
		{Display: "Convert", Path: []string{"Convert Books"}},
	}

	items := BuildMenuItems(entries, r)
	require.Len(t, items, 5)

	assert.Equal(t, "Add", items[0].Label)
	assert.False(t, items[0].Disabled)
	require.NotNil(t, items[0].ChildMenu)
	assert.Equal(t, "Add an empty book", items[0].ChildMenu.Items[0].Label)

	assert.True(t, items[1].IsSeparator)

	assert.Equal(t, "Empty", items[2].Label)
	assert.False(t, items[2].Disabled)

	// Entries whose action is gone stay visible but disabled.
	assert.Equal(t, "Gone", items[3].Label)
	assert.True(t, items[3].Disabled)

	// Disabled actions carry through.
	assert.True(t, items[4].Disabled)
}

func TestBuildMenuItemsFallbackDisplay(t *testing.T) {
	r := testMenuRegistry(t)
	items := BuildMenuItems([]*MenuEntry{{Path: []string{"Add Books"}}}, r)
	require.Len(t, items, 1)
	assert.Equal(t, "Add books", items[0].Label)
}
