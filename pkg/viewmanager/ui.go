package viewmanager

import (
	"encoding/json"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/folio-ebooks/folio/library"
	"github.com/folio-ebooks/folio/pkg/ui/setting"
	"github.com/folio-ebooks/folio/util/log"
)

const (
	settingViews       = "view_manager_views"
	settingAutoApply   = "view_manager_auto_apply"
	settingStartupView = "view_manager_startup_view"
)

type columnEntry struct {
	name    string
	header  string
	width   int
	checked bool
	locked  bool
}

type sortEntry struct {
	name      string
	header    string
	ascending bool
	checked   bool
}

// prefsPanel is the state of the plugin's preferences page. It edits an
// in-memory copy of the store and commits through the Apply button.
type prefsPanel struct {
	plugin *Plugin
	sm     setting.SettingsManager

	// loading suppresses change tracking while widgets are repopulated.
	loading bool
	editing string

	viewSelect *widget.Select
	autoSelect *widget.Select

	colEntries   []*columnEntry
	colList      *widget.List
	colSelected  int
	colUp        *widget.Button
	colDown      *widget.Button
	sortEntries  []*sortEntry
	sortList     *widget.List
	sortSelected int
	sortUp       *widget.Button
	sortDown     *widget.Button

	applySearchCheck      *widget.Check
	searchSelect          *widget.Select
	applyRestrictionCheck *widget.Check
	restrictionSelect     *widget.Select

	ascIcon  fyne.Resource
	descIcon fyne.Resource
}

// CreatePrefsPanel builds the plugin's preferences page.
func (p *Plugin) CreatePrefsPanel(sm setting.SettingsManager) *fyne.Container {
	if p.store == nil {
		return nil
	}
	pp := &prefsPanel{plugin: p, sm: sm, colSelected: -1, sortSelected: -1}
	pp.ascIcon = p.icon("sort_asc.svg", theme.MenuDropUpIcon())
	pp.descIcon = p.icon("sort_desc.svg", theme.MenuDropDownIcon())
	return pp.build()
}

func (p *Plugin) icon(name string, fallback fyne.Resource) fyne.Resource {
	res, err := p.manager.GetAssetManager().GetIcon(name)
	if err != nil {
		log.Debugf("view manager: icon %s: %v", name, err)
		return fallback
	}
	return res
}

func (pp *prefsPanel) build() *fyne.Container {
	pp.loading = true
	defer func() { pp.loading = false }()

	views := pp.buildViewsSection()
	columns := pp.buildColumnsSection()
	sort := pp.buildSortSection()
	search := pp.buildSearchSection()
	startup := pp.buildStartupSection()
	maintenance := pp.buildMaintenanceSection()

	names := pp.store().ViewNames()
	if len(names) > 0 {
		pp.editing = names[0]
		pp.viewSelect.Selected = names[0]
		v, _ := pp.store().View(names[0])
		pp.populateFromView(v)
	} else {
		pp.populateFromView(nil)
	}

	return container.NewVBox(views, columns, sort, search, startup, maintenance)
}

func (pp *prefsPanel) store() *Store {
	return pp.plugin.store
}

func (pp *prefsPanel) lib() *library.Library {
	return pp.plugin.manager.Library()
}

func (pp *prefsPanel) window() fyne.Window {
	return pp.sm.GetSettingsWindow()
}

// markDirty registers the pending commit and lights up the Apply button.
func (pp *prefsPanel) markDirty() {
	if pp.loading {
		return
	}
	pp.sm.SetSettingChangedCallback(settingViews, pp.applyChanges)
	pp.sm.GetCheckAndEnableApplyFunc()()
}

// applyChanges is the Apply button commit: fold the widget state into
// the edited view, persist the record and rebuild the toolbar.
func (pp *prefsPanel) applyChanges() {
	pp.persistViewEdits()
	if err := pp.store().Save(); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save view settings: %w", err), pp.window())
		return
	}
	pp.plugin.manager.RefreshToolbar()
}

// Views section.

func (pp *prefsPanel) buildViewsSection() *fyne.Container {
	pp.viewSelect = widget.NewSelect(pp.store().ViewNames(), func(name string) {
		if pp.loading || name == "" || name == pp.editing {
			return
		}
		pp.persistViewEdits()
		pp.editing = name
		v, _ := pp.store().View(name)
		pp.repopulate(v)
	})

	add := widget.NewButtonWithIcon("", theme.ContentAddIcon(), pp.onAddView)
	rename := widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), pp.onRenameView)
	remove := widget.NewButtonWithIcon("", theme.DeleteIcon(), pp.onDeleteView)

	return container.NewVBox(
		pp.sm.CreateSectionTitleLabel("Views"),
		pp.sm.CreateSettingDescriptionLabel("A view is a named combination of visible columns, sort order and search filters."),
		container.NewBorder(nil, nil, nil, container.NewHBox(add, rename, remove), pp.viewSelect),
	)
}

func (pp *prefsPanel) onAddView() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("View name")
	items := []*widget.FormItem{widget.NewFormItem("Name", entry)}
	d := dialog.NewForm("Add View", "Add", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}
		pp.persistViewEdits()
		template := pp.currentTemplate()
		name, err := pp.store().AddView(entry.Text, template)
		if err != nil {
			dialog.ShowError(err, pp.window())
			return
		}
		pp.editing = name
		pp.refreshViewOptions()
		pp.viewSelect.Selected = name
		pp.viewSelect.Refresh()
		pp.repopulate(template)
		pp.markDirty()
	}, pp.window())
	d.Resize(fyne.NewSize(320, 0))
	d.Show()
}

// currentTemplate captures the state a new view starts from, the edited
// view when one is selected and the live library state otherwise.
func (pp *prefsPanel) currentTemplate() *View {
	if pp.editing != "" {
		return pp.viewFromWidgets()
	}
	v := &View{}
	cols, err := pp.lib().VisibleColumns()
	if err == nil {
		for _, col := range cols {
			v.Columns = append(v.Columns, library.ColumnState{Name: col.Name, Width: col.Width})
		}
	}
	v.Sort = pp.lib().Sort()
	if search := pp.lib().ActiveSearch(); search != "" {
		v.ApplySearch = true
		v.Search = search
	}
	if restriction := pp.lib().ActiveRestriction(); restriction != "" {
		v.ApplyRestriction = true
		v.Restriction = restriction
	}
	return v
}

func (pp *prefsPanel) onRenameView() {
	if pp.editing == "" {
		return
	}
	entry := widget.NewEntry()
	entry.SetText(pp.editing)
	items := []*widget.FormItem{widget.NewFormItem("Name", entry)}
	d := dialog.NewForm("Rename View", "Rename", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}
		name, err := pp.store().RenameView(pp.editing, entry.Text)
		if err != nil {
			dialog.ShowError(err, pp.window())
			return
		}
		pp.editing = name
		pp.refreshViewOptions()
		pp.viewSelect.Selected = name
		pp.viewSelect.Refresh()
		pp.markDirty()
	}, pp.window())
	d.Resize(fyne.NewSize(320, 0))
	d.Show()
}

func (pp *prefsPanel) onDeleteView() {
	if pp.editing == "" {
		return
	}
	name := pp.editing
	dialog.ShowConfirm("Delete View",
		fmt.Sprintf("Delete the view %q? This cannot be undone.", name),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			pp.store().DeleteView(name)
			pp.editing = ""
			pp.refreshViewOptions()

			names := pp.store().ViewNames()
			if len(names) > 0 {
				pp.editing = names[0]
				pp.viewSelect.Selected = names[0]
				pp.viewSelect.Refresh()
				v, _ := pp.store().View(names[0])
				pp.repopulate(v)
			} else {
				pp.viewSelect.ClearSelected()
				pp.repopulate(nil)
			}
			pp.markDirty()
		}, pp.window())
}

// refreshViewOptions syncs both selectors after an add, rename or
// delete. A startup selection that no longer exists falls back to the
// sentinel.
func (pp *prefsPanel) refreshViewOptions() {
	names := pp.store().ViewNames()
	pp.viewSelect.Options = names
	pp.viewSelect.Refresh()

	pp.autoSelect.Options = append([]string{LastViewItem}, names...)
	found := false
	for _, opt := range pp.autoSelect.Options {
		if opt == pp.autoSelect.Selected {
			found = true
			break
		}
	}
	if !found {
		pp.autoSelect.SetSelected(LastViewItem)
	}
	pp.autoSelect.Refresh()
}

// Columns section.

func (pp *prefsPanel) buildColumnsSection() *fyne.Container {
	pp.colList = widget.NewList(
		func() int { return len(pp.colEntries) },
		func() fyne.CanvasObject { return widget.NewCheck("", nil) },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			check := o.(*widget.Check)
			entry := pp.colEntries[i]
			check.OnChanged = nil
			check.Text = entry.header
			check.Checked = entry.checked
			if entry.locked {
				check.Disable()
			} else {
				check.Enable()
			}
			check.Refresh()
			check.OnChanged = func(on bool) {
				entry.checked = on
				pp.markDirty()
			}
		},
	)
	pp.colList.OnSelected = func(id widget.ListItemID) {
		pp.colSelected = id
		pp.updateMoveButtons()
	}
	pp.colList.OnUnselected = func(widget.ListItemID) {
		pp.colSelected = -1
		pp.updateMoveButtons()
	}

	pp.colUp = widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() {
		pp.moveColumn(-1)
	})
	pp.colDown = widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() {
		pp.moveColumn(1)
	})

	return container.NewVBox(
		pp.sm.CreateSettingTitleLabel("Columns shown"),
		pp.sm.CreateSettingDescriptionLabel("Checked columns appear in the listing, in this order."),
		container.NewBorder(nil, nil, nil,
			container.NewVBox(pp.colUp, pp.colDown),
			container.NewGridWrap(fyne.NewSize(360, 170), pp.colList)),
	)
}

func (pp *prefsPanel) moveColumn(delta int) {
	i := pp.colSelected
	j := i + delta
	if i < 0 || j < 0 || j >= len(pp.colEntries) {
		return
	}
	pp.colEntries[i], pp.colEntries[j] = pp.colEntries[j], pp.colEntries[i]
	pp.colList.Refresh()
	pp.colList.Select(j)
	pp.markDirty()
}

// Sort section.

func (pp *prefsPanel) buildSortSection() *fyne.Container {
	pp.sortList = widget.NewList(
		func() int { return len(pp.sortEntries) },
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewCheck("", nil),
				layout.NewSpacer(),
				widget.NewButtonWithIcon("", theme.MenuDropUpIcon(), nil),
			)
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			row := o.(*fyne.Container)
			check := row.Objects[0].(*widget.Check)
			dir := row.Objects[2].(*widget.Button)
			entry := pp.sortEntries[i]

			check.OnChanged = nil
			check.Text = entry.header
			check.Checked = entry.checked
			check.Refresh()

			dir.SetIcon(pp.dirIcon(entry.ascending))
			if entry.checked {
				dir.Enable()
			} else {
				dir.Disable()
			}
			dir.OnTapped = func() {
				entry.ascending = !entry.ascending
				dir.SetIcon(pp.dirIcon(entry.ascending))
				pp.markDirty()
			}
			check.OnChanged = func(on bool) {
				entry.checked = on
				if on {
					dir.Enable()
				} else {
					dir.Disable()
				}
				pp.markDirty()
			}
		},
	)
	pp.sortList.OnSelected = func(id widget.ListItemID) {
		pp.sortSelected = id
		pp.updateMoveButtons()
	}
	pp.sortList.OnUnselected = func(widget.ListItemID) {
		pp.sortSelected = -1
		pp.updateMoveButtons()
	}

	pp.sortUp = widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() {
		pp.moveSort(-1)
	})
	pp.sortDown = widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() {
		pp.moveSort(1)
	})

	return container.NewVBox(
		pp.sm.CreateSettingTitleLabel("Sort order"),
		pp.sm.CreateSettingDescriptionLabel("Checked columns sort the listing, earlier entries first. The arrow toggles direction."),
		container.NewBorder(nil, nil, nil,
			container.NewVBox(pp.sortUp, pp.sortDown),
			container.NewGridWrap(fyne.NewSize(360, 150), pp.sortList)),
	)
}

func (pp *prefsPanel) dirIcon(ascending bool) fyne.Resource {
	if ascending {
		return pp.ascIcon
	}
	return pp.descIcon
}

func (pp *prefsPanel) moveSort(delta int) {
	i := pp.sortSelected
	j := i + delta
	if i < 0 || j < 0 || j >= len(pp.sortEntries) {
		return
	}
	pp.sortEntries[i], pp.sortEntries[j] = pp.sortEntries[j], pp.sortEntries[i]
	pp.sortList.Refresh()
	pp.sortList.Select(j)
	pp.markDirty()
}

func (pp *prefsPanel) updateMoveButtons() {
	setMoveEnabled(pp.colUp, pp.colDown, pp.colSelected, len(pp.colEntries))
	setMoveEnabled(pp.sortUp, pp.sortDown, pp.sortSelected, len(pp.sortEntries))
}

func setMoveEnabled(up, down *widget.Button, selected, count int) {
	if selected > 0 {
		up.Enable()
	} else {
		up.Disable()
	}
	if selected >= 0 && selected < count-1 {
		down.Enable()
	} else {
		down.Disable()
	}
}

// Search section.

func (pp *prefsPanel) buildSearchSection() *fyne.Container {
	searches, err := pp.lib().SavedSearchNames()
	if err != nil {
		log.Printf("view manager: saved searches: %v", err)
	}
	restrictions, err := pp.lib().RestrictionNames()
	if err != nil {
		log.Printf("view manager: restrictions: %v", err)
	}

	pp.searchSelect = widget.NewSelect(searches, func(string) { pp.markDirty() })
	pp.applySearchCheck = widget.NewCheck("Apply saved search", func(on bool) {
		setSelectEnabled(pp.searchSelect, on)
		pp.markDirty()
	})
	pp.restrictionSelect = widget.NewSelect(restrictions, func(string) { pp.markDirty() })
	pp.applyRestrictionCheck = widget.NewCheck("Apply virtual library restriction", func(on bool) {
		setSelectEnabled(pp.restrictionSelect, on)
		pp.markDirty()
	})

	return container.NewVBox(
		pp.sm.CreateSettingTitleLabel("Search filters"),
		pp.sm.CreateSettingDescriptionLabel("Filters applied together with the view. Unchecked filters are cleared when the view is applied."),
		container.NewBorder(nil, nil, pp.applySearchCheck, nil, pp.searchSelect),
		container.NewBorder(nil, nil, pp.applyRestrictionCheck, nil, pp.restrictionSelect),
	)
}

func setSelectEnabled(sel *widget.Select, enabled bool) {
	if enabled {
		sel.Enable()
	} else {
		sel.Disable()
	}
}

// Startup section.

func (pp *prefsPanel) buildStartupSection() *fyne.Container {
	store := pp.store()

	header := container.NewVBox(pp.sm.CreateSectionTitleLabel("Startup"))

	pp.sm.CreateBoolSetting(&setting.BoolConfig{
		Name:         settingAutoApply,
		InitialValue: store.AutoApply(),
		Label:        pp.sm.CreateSettingTitleLabel("Automatically apply a view when the library opens"),
		ApplyFunc: func(enable bool) {
			store.SetAutoApply(enable)
			if err := store.Save(); err != nil {
				log.Printf("view manager: save auto apply: %v", err)
			}
		},
	}, header)

	pp.autoSelect = pp.sm.CreateSelectSetting(&setting.SelectConfig{
		Name:         settingStartupView,
		Options:      append([]string{LastViewItem}, store.ViewNames()...),
		InitialValue: store.ViewToApply(),
		Label:        pp.sm.CreateSettingTitleLabel("View to apply"),
		HelpContent:  pp.sm.CreateSettingDescriptionLabel("The starred entry re-applies whichever view was used last."),
		ApplyFunc: func(name string) {
			store.SetViewToApply(name)
			if err := store.Save(); err != nil {
				log.Printf("view manager: save startup view: %v", err)
			}
		},
	}, header)

	return header
}

// Maintenance section.

func (pp *prefsPanel) buildMaintenanceSection() *fyne.Container {
	header := container.NewVBox(pp.sm.CreateSectionTitleLabel("Maintenance"))

	pp.sm.CreateButtonWithConfirmationSetting(&setting.ButtonWithConfirmationConfig{
		Name:           "view_manager_reset",
		Label:          pp.sm.CreateSettingTitleLabel("Reset view settings for this library"),
		HelpContent:    pp.sm.CreateSettingDescriptionLabel("Deletes every saved view and startup option stored in this library."),
		ButtonText:     "Reset",
		ConfirmTitle:   "Reset View Settings",
		ConfirmMessage: "Delete all saved views for this library? This cannot be undone.",
		OnPressed: func() {
			if err := pp.store().Reset(); err != nil {
				dialog.ShowError(err, pp.window())
				return
			}
			pp.editing = ""
			pp.refreshViewOptions()
			pp.viewSelect.ClearSelected()
			pp.repopulate(nil)
			pp.plugin.manager.RefreshToolbar()
		},
	}, header)

	show := widget.NewButton("Show library preferences...", pp.showStoredRecord)
	header.Add(container.NewHBox(show, layout.NewSpacer()))
	return header
}

// showStoredRecord opens a read-only dump of the plugin's record, the
// way it sits in the library preferences table.
func (pp *prefsPanel) showStoredRecord() {
	dump, err := pp.lib().NamespaceDump(PrefsNamespace)
	if err != nil {
		dialog.ShowError(err, pp.window())
		return
	}
	var b strings.Builder
	for key, value := range dump {
		var pretty json.RawMessage = []byte(value)
		if out, err := json.MarshalIndent(pretty, "", "  "); err == nil {
			value = string(out)
		}
		fmt.Fprintf(&b, "%s:%s = %s\n", PrefsNamespace, key, value)
	}
	if b.Len() == 0 {
		b.WriteString("No stored settings for this library.")
	}
	text := widget.NewLabel(b.String())
	text.TextStyle = fyne.TextStyle{Monospace: true}
	d := dialog.NewCustom("Library Preferences", "Close", container.NewScroll(text), pp.window())
	d.Resize(fyne.NewSize(480, 400))
	d.Show()
}

// Widget <-> view synchronisation.

// repopulate reloads all per-view widgets without tripping the change
// tracker.
func (pp *prefsPanel) repopulate(v *View) {
	pp.loading = true
	defer func() { pp.loading = false }()
	pp.populateFromView(v)
}

// populateFromView fills the per-view widgets. A nil view shows the live
// library state instead.
func (pp *prefsPanel) populateFromView(v *View) {
	cols, err := pp.lib().Columns()
	if err != nil {
		log.Printf("view manager: columns: %v", err)
		return
	}
	byName := make(map[string]library.Column, len(cols))
	for _, col := range cols {
		byName[col.Name] = col
	}

	pp.colEntries = pp.colEntries[:0]
	seen := make(map[string]bool)
	if v != nil {
		for _, cs := range v.Columns {
			col, ok := byName[cs.Name]
			if !ok {
				continue
			}
			width := cs.Width
			if width <= 0 {
				width = col.Width
			}
			pp.colEntries = append(pp.colEntries, &columnEntry{
				name: col.Name, header: col.Header, width: width,
				checked: true, locked: col.Locked,
			})
			seen[col.Name] = true
		}
	}
	for _, col := range cols {
		if seen[col.Name] {
			continue
		}
		checked := col.Locked
		if v == nil {
			checked = col.Visible || col.Locked
		}
		pp.colEntries = append(pp.colEntries, &columnEntry{
			name: col.Name, header: col.Header, width: col.Width,
			checked: checked, locked: col.Locked,
		})
	}
	pp.colList.UnselectAll()
	pp.colSelected = -1
	pp.colList.Refresh()

	sortSpecs := pp.lib().Sort()
	if v != nil {
		sortSpecs = v.Sort
	}
	pp.sortEntries = pp.sortEntries[:0]
	seen = make(map[string]bool)
	for _, spec := range sortSpecs {
		col, ok := byName[spec.Name]
		if !ok || !pp.lib().Sortable(spec.Name) || seen[spec.Name] {
			continue
		}
		pp.sortEntries = append(pp.sortEntries, &sortEntry{
			name: col.Name, header: col.Header,
			ascending: spec.Ascending, checked: true,
		})
		seen[spec.Name] = true
	}
	for _, col := range cols {
		if seen[col.Name] || !pp.lib().Sortable(col.Name) {
			continue
		}
		pp.sortEntries = append(pp.sortEntries, &sortEntry{
			name: col.Name, header: col.Header, ascending: true,
		})
	}
	pp.sortList.UnselectAll()
	pp.sortSelected = -1
	pp.sortList.Refresh()

	applySearch, search := false, ""
	applyRestriction, restriction := false, ""
	if v != nil {
		applySearch, search = v.ApplySearch, v.Search
		applyRestriction, restriction = v.ApplyRestriction, v.Restriction
	} else {
		if s := pp.lib().ActiveSearch(); s != "" {
			applySearch, search = true, s
		}
		if r := pp.lib().ActiveRestriction(); r != "" {
			applyRestriction, restriction = true, r
		}
	}
	pp.applySearchCheck.Checked = applySearch
	pp.applySearchCheck.Refresh()
	pp.searchSelect.Selected = search
	setSelectEnabled(pp.searchSelect, applySearch)
	pp.searchSelect.Refresh()
	pp.applyRestrictionCheck.Checked = applyRestriction
	pp.applyRestrictionCheck.Refresh()
	pp.restrictionSelect.Selected = restriction
	setSelectEnabled(pp.restrictionSelect, applyRestriction)
	pp.restrictionSelect.Refresh()

	pp.updateMoveButtons()
}

// viewFromWidgets folds the widget state into a view definition.
func (pp *prefsPanel) viewFromWidgets() *View {
	v := &View{}
	for _, entry := range pp.colEntries {
		if !entry.checked && !entry.locked {
			continue
		}
		width := entry.width
		if width <= 0 {
			width = -1
		}
		v.Columns = append(v.Columns, library.ColumnState{Name: entry.name, Width: width})
	}
	for _, entry := range pp.sortEntries {
		if !entry.checked {
			continue
		}
		v.Sort = append(v.Sort, library.SortSpec{Name: entry.name, Ascending: entry.ascending})
	}
	v.ApplySearch = pp.applySearchCheck.Checked
	v.Search = pp.searchSelect.Selected
	v.ApplyRestriction = pp.applyRestrictionCheck.Checked
	v.Restriction = pp.restrictionSelect.Selected
	return v
}

// persistViewEdits writes the widget state back into the edited view in
// memory. The record is only persisted by applyChanges.
func (pp *prefsPanel) persistViewEdits() {
	if pp.editing == "" {
		return
	}
	if err := pp.store().SetView(pp.editing, pp.viewFromWidgets()); err != nil {
		log.Printf("view manager: %v", err)
	}
}
