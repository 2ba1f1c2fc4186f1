package viewmanager

import (
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-ebooks/folio/action"
	"github.com/folio-ebooks/folio/asset"
	"github.com/folio-ebooks/folio/library"
	"github.com/folio-ebooks/folio/pkg"
)

// mockManager satisfies pkg.PluginManager for plugin tests.
type mockManager struct {
	lib              *library.Library
	viewRefreshes    int
	toolbarRefreshes int
}

func (m *mockManager) Register(pkg.Plugin)              {}
func (m *mockManager) Deregister(pkg.Plugin)            {}
func (m *mockManager) NotifyUser(string, string)        {}
func (m *mockManager) RegisterNotifier(pkg.Notifier)    {}
func (m *mockManager) GetPreferences() fyne.Preferences { return nil }
func (m *mockManager) GetAssetManager() *asset.Manager  { return asset.NewManager() }
func (m *mockManager) Library() *library.Library        { return m.lib }
func (m *mockManager) Actions() *action.Registry        { return action.NewRegistry() }
func (m *mockManager) RefreshToolbar()                  { m.toolbarRefreshes++ }
func (m *mockManager) RefreshLibraryView()              { m.viewRefreshes++ }
func (m *mockManager) ShowPreferences()                 {}
func (m *mockManager) MainWindow() fyne.Window          { return nil }

func (m *mockManager) CreateMenuItem(label string, action func(), _ string) *fyne.MenuItem {
	return fyne.NewMenuItem(label, action)
}

func (m *mockManager) CreateToggleMenuItem(label string, action func(bool), _ string, checked bool) *fyne.MenuItem {
	item := fyne.NewMenuItem(label, func() { action(!checked) })
	item.Checked = checked
	return item
}

func testPlugin(t *testing.T) (*Plugin, *mockManager) {
	t.Helper()
	lib := openTestLibrary(t)
	manager := &mockManager{lib: lib}

	p := New()
	p.Init(manager)
	p.store = NewStore(lib)
	p.store.legacyPath = filepath.Join(t.TempDir(), "view_manager.json")
	require.NoError(t, p.store.Load())
	return p, manager
}

func TestApplyView(t *testing.T) {
	p, manager := testPlugin(t)
	lib := manager.lib
	require.NoError(t, lib.AddSavedSearch("unread", "tags:unread"))

	_, err := p.store.AddView("Compact", &View{
		Columns:     []library.ColumnState{{Name: "authors", Width: 300}, {Name: "title", Width: -1}},
		Sort:        []library.SortSpec{{Name: "rating", Ascending: false}},
		ApplySearch: true,
		Search:      "unread",
	})
	require.NoError(t, err)

	require.NoError(t, p.ApplyView("compact"))

	cols, err := lib.VisibleColumns()
	require.NoError(t, err)
	require.True(t, len(cols) >= 2)
	assert.Equal(t, "authors", cols[0].Name)
	assert.Equal(t, 300, cols[0].Width)
	assert.Equal(t, "title", cols[1].Name)

	assert.Equal(t, []library.SortSpec{{Name: "rating", Ascending: false}}, lib.Sort())
	assert.Equal(t, "unread", lib.ActiveSearch())
	assert.Equal(t, "Compact", p.store.LastView())
	assert.Equal(t, 1, manager.viewRefreshes)
	assert.Equal(t, 1, manager.toolbarRefreshes)
}

func TestApplyViewClearsFiltersWhenUnchecked(t *testing.T) {
	p, manager := testPlugin(t)
	lib := manager.lib
	require.NoError(t, lib.AddSavedSearch("unread", "tags:unread"))
	require.NoError(t, lib.SetActiveSearch("unread"))

	_, err := p.store.AddView("Plain", &View{Search: "unread"})
	require.NoError(t, err)

	require.NoError(t, p.ApplyView("Plain"))
	assert.Empty(t, lib.ActiveSearch())
}

func TestApplyViewUnknownName(t *testing.T) {
	p, _ := testPlugin(t)
	err := p.ApplyView("Missing")
	assert.ErrorIs(t, err, ErrViewNotFound)
}

func TestApplyNextViewCycles(t *testing.T) {
	p, _ := testPlugin(t)
	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		_, err := p.store.AddView(name, nil)
		require.NoError(t, err)
	}

	p.ApplyNextView()
	assert.Equal(t, "Alpha", p.store.LastView())
	p.ApplyNextView()
	assert.Equal(t, "Beta", p.store.LastView())
	p.ApplyNextView()
	assert.Equal(t, "Gamma", p.store.LastView())
	p.ApplyNextView() // wraps around
	assert.Equal(t, "Alpha", p.store.LastView())
}

func TestApplyStartupView(t *testing.T) {
	p, manager := testPlugin(t)
	_, err := p.store.AddView("Morning", nil)
	require.NoError(t, err)

	// The sentinel with no last view is a no-op.
	p.ApplyStartupView()
	assert.Equal(t, 0, manager.viewRefreshes)

	p.store.SetViewToApply("Morning")
	p.ApplyStartupView()
	assert.Equal(t, "Morning", p.store.LastView())

	// The sentinel now resolves to the last applied view.
	p.store.SetViewToApply(LastViewItem)
	p.ApplyStartupView()
	assert.Equal(t, 2, manager.viewRefreshes)
}

func TestCreateToolbarMenu(t *testing.T) {
	p, _ := testPlugin(t)
	for _, name := range []string{"Beta", "Alpha"} {
		_, err := p.store.AddView(name, nil)
		require.NoError(t, err)
	}
	require.NoError(t, p.ApplyView("Beta"))

	menu := p.CreateToolbarMenu()
	require.Equal(t, "Views", menu.Label)
	require.Len(t, menu.Items, 4) // two views, separator, customize

	assert.Equal(t, "Alpha", menu.Items[0].Label)
	assert.False(t, menu.Items[0].Checked)
	assert.Equal(t, "Beta", menu.Items[1].Label)
	assert.True(t, menu.Items[1].Checked)
	assert.True(t, menu.Items[2].IsSeparator)

	// Triggering a view item applies it.
	menu.Items[0].Action()
	assert.Equal(t, "Alpha", p.store.LastView())
}

func TestCreateToolbarMenuEmpty(t *testing.T) {
	p, _ := testPlugin(t)
	menu := p.CreateToolbarMenu()
	require.Len(t, menu.Items, 1)
	assert.Equal(t, "Customize Views...", menu.Items[0].Label)
}
