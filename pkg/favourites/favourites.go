package favourites

import (
	"fyne.io/fyne/v2"

	"github.com/folio-ebooks/folio/action"
	"github.com/folio-ebooks/folio/pkg"
)

// Plugin puts a user-curated selection of host actions into a single
// Favourites toolbar menu, including entries buried in submenus.
type Plugin struct {
	manager pkg.PluginManager
	config  *Config
}

// New creates the favourites menu plugin.
func New() *Plugin {
	return &Plugin{}
}

// Name returns the plugin's name.
func (p *Plugin) Name() string {
	return "Favourites Menu"
}

// Init injects the plugin manager.
func (p *Plugin) Init(manager pkg.PluginManager) {
	p.manager = manager
}

// Activate loads the stored menu entries.
func (p *Plugin) Activate() {
	p.config = NewConfig(p.manager.GetPreferences())
}

// Deactivate releases the loaded entries.
func (p *Plugin) Deactivate() {
	p.config = nil
}

// Config exposes the stored entries, nil before activation.
func (p *Plugin) Config() *Config {
	return p.config
}

// CreateToolbarMenu returns the Favourites toolbar menu built from the
// stored entries against the current action registry.
func (p *Plugin) CreateToolbarMenu() *fyne.Menu {
	if p.config == nil {
		return fyne.NewMenu("Favourites", fyne.NewMenuItem("Customize Menu...", p.manager.ShowPreferences))
	}
	items := BuildMenuItems(p.config.Entries(), p.manager.Actions())
	if len(items) > 0 {
		items = append(items, fyne.NewMenuItemSeparator())
	}
	items = append(items, fyne.NewMenuItem("Customize Menu...", p.manager.ShowPreferences))
	return fyne.NewMenu("Favourites", items...)
}

// BuildMenuItems resolves stored entries against the registry. Entries
// whose action is gone stay in the menu as disabled placeholders so the
// user can see what is missing instead of the menu silently shrinking.
func BuildMenuItems(entries []*MenuEntry, registry *action.Registry) []*fyne.MenuItem {
	var items []*fyne.MenuItem
	for _, entry := range entries {
		if entry == nil {
			items = append(items, fyne.NewMenuItemSeparator())
			continue
		}
		items = append(items, buildEntryItem(entry, registry))
	}
	return items
}

func buildEntryItem(entry *MenuEntry, registry *action.Registry) *fyne.MenuItem {
	ac := registry.Resolve(entry.Path)

	display := entry.Display
	if display == "" && ac != nil {
		display = ac.Display
	}
	if display == "" && len(entry.Path) > 0 {
		display = entry.Path[len(entry.Path)-1]
	}

	if ac == nil {
		item := fyne.NewMenuItem(display, nil)
		item.Disabled = true
		return item
	}
	return actionItem(display, ac)
}

func actionItem(display string, ac *action.Action) *fyne.MenuItem {
	item := fyne.NewMenuItem(display, ac.Trigger)
	item.Disabled = !ac.Enabled || (ac.Trigger == nil && len(ac.Children) == 0)
	if len(ac.Children) > 0 {
		var children []*fyne.MenuItem
		for _, child := range ac.Children {
			children = append(children, actionItem(child.Display, child))
		}
		item.ChildMenu = fyne.NewMenu(display, children...)
	}
	return item
}
