package favourites

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/folio-ebooks/folio/action"
	"github.com/folio-ebooks/folio/pkg/ui/setting"
)

const (
	settingMenus = "favourites_menus"

	// treePathSep joins action paths into tree node IDs. Display texts
	// never contain it.
	treePathSep = "\x1f"

	separatorRowText = "--- separator ---"
)

type prefsPanel struct {
	plugin *Plugin
	sm     setting.SettingsManager

	loading  bool
	entries  []*MenuEntry
	selected int

	tree *widget.Tree
	list *widget.List

	upBtn     *widget.Button
	downBtn   *widget.Button
	removeBtn *widget.Button
	renameBtn *widget.Button
	sepBtn    *widget.Button
}

// CreatePrefsPanel builds the plugin's preferences page: a tree of all
// host actions on the left and the composed menu on the right.
func (p *Plugin) CreatePrefsPanel(sm setting.SettingsManager) *fyne.Container {
	if p.config == nil {
		return nil
	}
	pp := &prefsPanel{plugin: p, sm: sm, selected: -1}
	pp.entries = p.config.Entries()
	return pp.build()
}

func (pp *prefsPanel) registry() *action.Registry {
	return pp.plugin.manager.Actions()
}

func (pp *prefsPanel) window() fyne.Window {
	return pp.sm.GetSettingsWindow()
}

func (pp *prefsPanel) markDirty() {
	if pp.loading {
		return
	}
	pp.sm.SetSettingChangedCallback(settingMenus, pp.applyChanges)
	pp.sm.GetCheckAndEnableApplyFunc()()
}

func (pp *prefsPanel) applyChanges() {
	if err := pp.plugin.config.SetEntries(pp.entries); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save favourites menu: %w", err), pp.window())
		return
	}
	// Normalization may have dropped dangling separators.
	pp.entries = pp.plugin.config.Entries()
	pp.list.UnselectAll()
	pp.selected = -1
	pp.list.Refresh()
	pp.updateButtons()
	pp.plugin.manager.RefreshToolbar()
}

func (pp *prefsPanel) build() *fyne.Container {
	pp.loading = true
	defer func() { pp.loading = false }()

	pp.buildTree()
	pp.buildList()
	pp.updateButtons()

	buttons := container.NewVBox(pp.upBtn, pp.downBtn, pp.removeBtn, pp.renameBtn, pp.sepBtn)
	left := container.NewVBox(
		pp.sm.CreateSettingTitleLabel("Available actions"),
		container.NewGridWrap(fyne.NewSize(280, 280), pp.tree),
	)
	right := container.NewVBox(
		pp.sm.CreateSettingTitleLabel("Menu entries"),
		container.NewBorder(nil, nil, nil, buttons,
			container.NewGridWrap(fyne.NewSize(280, 280), pp.list)),
	)

	return container.NewVBox(
		pp.sm.CreateSectionTitleLabel("Favourites Menu"),
		pp.sm.CreateSettingDescriptionLabel("Check actions to add them to the menu. Entries keep the order shown on the right."),
		container.NewHBox(left, right),
	)
}

// Action tree.

func (pp *prefsPanel) buildTree() {
	pp.tree = widget.NewTree(
		pp.childIDs,
		pp.isBranch,
		func(bool) fyne.CanvasObject { return widget.NewCheck("", nil) },
		func(uid widget.TreeNodeID, _ bool, o fyne.CanvasObject) {
			check := o.(*widget.Check)
			path := treePath(uid)
			ac := pp.registry().Resolve(path)
			if ac == nil {
				return
			}
			check.OnChanged = nil
			check.Text = ac.Display
			check.Checked = pp.indexOfPath(path) >= 0
			check.Refresh()
			check.OnChanged = func(on bool) {
				if on {
					pp.addEntry(path, ac.Display)
				} else {
					pp.removeEntryAt(pp.indexOfPath(path))
				}
			}
		},
	)
}

func (pp *prefsPanel) childIDs(uid widget.TreeNodeID) []widget.TreeNodeID {
	if uid == "" {
		var ids []widget.TreeNodeID
		for _, ac := range pp.registry().Actions() {
			ids = append(ids, ac.Name)
		}
		return ids
	}
	ac := pp.registry().Resolve(treePath(uid))
	if ac == nil {
		return nil
	}
	var ids []widget.TreeNodeID
	for _, child := range ac.Children {
		ids = append(ids, uid+treePathSep+child.Display)
	}
	return ids
}

func (pp *prefsPanel) isBranch(uid widget.TreeNodeID) bool {
	if uid == "" {
		return true
	}
	ac := pp.registry().Resolve(treePath(uid))
	return ac != nil && len(ac.Children) > 0
}

func treePath(uid widget.TreeNodeID) []string {
	return strings.Split(uid, treePathSep)
}

// Entry list.

func (pp *prefsPanel) buildList() {
	pp.list = widget.NewList(
		func() int { return len(pp.entries) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			entry := pp.entries[i]
			if entry == nil {
				label.TextStyle = fyne.TextStyle{Italic: true}
				label.SetText(separatorRowText)
				return
			}
			label.TextStyle = fyne.TextStyle{}
			label.SetText(entry.Display)
		},
	)
	pp.list.OnSelected = func(id widget.ListItemID) {
		pp.selected = id
		pp.updateButtons()
	}
	pp.list.OnUnselected = func(widget.ListItemID) {
		pp.selected = -1
		pp.updateButtons()
	}

	pp.upBtn = widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() { pp.moveEntry(-1) })
	pp.downBtn = widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() { pp.moveEntry(1) })
	pp.removeBtn = widget.NewButtonWithIcon("", theme.DeleteIcon(), func() { pp.removeEntryAt(pp.selected) })
	pp.renameBtn = widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), pp.onRenameEntry)
	pp.sepBtn = widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), pp.onAddSeparator)
}

func (pp *prefsPanel) addEntry(path []string, display string) {
	pp.entries = append(pp.entries, &MenuEntry{Display: display, Path: append([]string(nil), path...)})
	pp.list.Refresh()
	pp.markDirty()
}

func (pp *prefsPanel) removeEntryAt(i int) {
	if i < 0 || i >= len(pp.entries) {
		return
	}
	pp.entries = append(pp.entries[:i], pp.entries[i+1:]...)
	pp.list.UnselectAll()
	pp.selected = -1
	pp.list.Refresh()
	pp.tree.Refresh()
	pp.updateButtons()
	pp.markDirty()
}

func (pp *prefsPanel) moveEntry(delta int) {
	i := pp.selected
	j := i + delta
	if i < 0 || j < 0 || j >= len(pp.entries) {
		return
	}
	pp.entries[i], pp.entries[j] = pp.entries[j], pp.entries[i]
	pp.list.Refresh()
	pp.list.Select(j)
	pp.markDirty()
}

func (pp *prefsPanel) onAddSeparator() {
	if pp.selected >= 0 && pp.selected < len(pp.entries) {
		i := pp.selected + 1
		pp.entries = append(pp.entries[:i], append([]*MenuEntry{nil}, pp.entries[i:]...)...)
	} else {
		pp.entries = append(pp.entries, nil)
	}
	pp.list.Refresh()
	pp.markDirty()
}

func (pp *prefsPanel) onRenameEntry() {
	i := pp.selected
	if i < 0 || i >= len(pp.entries) || pp.entries[i] == nil {
		return
	}
	entry := widget.NewEntry()
	entry.SetText(pp.entries[i].Display)
	items := []*widget.FormItem{widget.NewFormItem("Display text", entry)}
	d := dialog.NewForm("Rename Entry", "Rename", "Cancel", items, func(confirmed bool) {
		if !confirmed || strings.TrimSpace(entry.Text) == "" {
			return
		}
		pp.entries[i].Display = strings.TrimSpace(entry.Text)
		pp.list.Refresh()
		pp.markDirty()
	}, pp.window())
	d.Resize(fyne.NewSize(320, 0))
	d.Show()
}

func (pp *prefsPanel) updateButtons() {
	i := pp.selected
	hasSelection := i >= 0 && i < len(pp.entries)
	setEnabled(pp.upBtn, hasSelection && i > 0)
	setEnabled(pp.downBtn, hasSelection && i < len(pp.entries)-1)
	setEnabled(pp.removeBtn, hasSelection)
	setEnabled(pp.renameBtn, hasSelection && pp.entries[i] != nil)
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}

func (pp *prefsPanel) indexOfPath(path []string) int {
	for i, entry := range pp.entries {
		if entry.SamePath(path) {
			return i
		}
	}
	return -1
}
