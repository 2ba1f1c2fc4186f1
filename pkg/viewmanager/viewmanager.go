package viewmanager

import (
	"fmt"

	"fyne.io/fyne/v2"

	"github.com/folio-ebooks/folio/pkg"
	"github.com/folio-ebooks/folio/util/log"
)

// Plugin lets the user save the current column layout, sort order and
// search filters of the library listing as named views and switch
// between them from the toolbar.
type Plugin struct {
	manager pkg.PluginManager
	store   *Store
}

// New creates the view manager plugin.
func New() *Plugin {
	return &Plugin{}
}

// Name returns the plugin's name.
func (p *Plugin) Name() string {
	return "View Manager"
}

// Init injects the plugin manager.
func (p *Plugin) Init(manager pkg.PluginManager) {
	p.manager = manager
}

// Activate loads this library's record and applies the startup view
// when auto-apply is enabled.
func (p *Plugin) Activate() {
	p.store = NewStore(p.manager.Library())
	if err := p.store.Load(); err != nil {
		log.Printf("view manager: %v", err)
	}
	p.store.CleanupLegacyFile()

	if p.store.AutoApply() {
		p.ApplyStartupView()
	}
}

// Deactivate releases the per-library state.
func (p *Plugin) Deactivate() {
	p.store = nil
}

// Store exposes the per-library record, nil before activation.
func (p *Plugin) Store() *Store {
	return p.store
}

// ApplyStartupView applies the configured startup view. The sentinel
// resolves to the last applied view and is a no-op when no view has
// been applied yet.
func (p *Plugin) ApplyStartupView() {
	name := p.store.ViewToApply()
	if name == LastViewItem {
		name = p.store.LastView()
	}
	if name == "" {
		return
	}
	if err := p.ApplyView(name); err != nil {
		log.Printf("view manager: startup view: %v", err)
	}
}

// ApplyView applies the named view to the open library and records it
// as the last applied view.
func (p *Plugin) ApplyView(name string) error {
	v, ok := p.store.View(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrViewNotFound, name)
	}
	lib := p.manager.Library()

	if err := lib.ApplyColumnState(v.Columns); err != nil {
		return fmt.Errorf("view manager: apply columns: %w", err)
	}
	lib.SetSort(v.Sort)

	search := ""
	if v.ApplySearch {
		search = v.Search
	}
	if err := lib.SetActiveSearch(search); err != nil {
		return fmt.Errorf("view manager: apply search: %w", err)
	}
	restriction := ""
	if v.ApplyRestriction {
		restriction = v.Restriction
	}
	if err := lib.SetActiveRestriction(restriction); err != nil {
		return fmt.Errorf("view manager: apply restriction: %w", err)
	}

	canonical, _ := p.store.canonicalStoredName(name)
	p.store.SetLastView(canonical)
	if err := p.store.Save(); err != nil {
		log.Printf("view manager: save last view: %v", err)
	}

	p.manager.RefreshLibraryView()
	p.manager.RefreshToolbar()
	return nil
}

// ApplyNextView cycles to the next view in display order, wrapping at
// the end. A no-op when no views exist.
func (p *Plugin) ApplyNextView() {
	if p.store == nil {
		return
	}
	names := p.store.ViewNames()
	if len(names) == 0 {
		return
	}
	next := names[0]
	last := p.store.LastView()
	for i, name := range names {
		if name == last {
			next = names[(i+1)%len(names)]
			break
		}
	}
	if err := p.ApplyView(next); err != nil {
		log.Printf("view manager: next view: %v", err)
	}
}

// ReapplyLastView applies the last applied view again, refreshing the
// listing after external changes. A no-op when no view was applied yet.
func (p *Plugin) ReapplyLastView() {
	if p.store == nil {
		return
	}
	last := p.store.LastView()
	if last == "" {
		return
	}
	if err := p.ApplyView(last); err != nil {
		log.Printf("view manager: reapply view: %v", err)
	}
}

// CreateToolbarMenu returns the Views toolbar menu. The last applied
// view carries a checkmark.
func (p *Plugin) CreateToolbarMenu() *fyne.Menu {
	if p.store == nil {
		return fyne.NewMenu("Views", fyne.NewMenuItem("Customize Views...", p.manager.ShowPreferences))
	}
	last := p.store.LastView()
	var items []*fyne.MenuItem
	for _, name := range p.store.ViewNames() {
		viewName := name
		item := fyne.NewMenuItem(name, func() {
			if err := p.ApplyView(viewName); err != nil {
				log.Printf("view manager: %v", err)
			}
		})
		item.Checked = name == last
		items = append(items, item)
	}
	if len(items) > 0 {
		items = append(items, fyne.NewMenuItemSeparator())
	}
	items = append(items, fyne.NewMenuItem("Customize Views...", p.manager.ShowPreferences))
	return fyne.NewMenu("Views", items...)
}
