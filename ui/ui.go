package ui

import (
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/folio-ebooks/folio/action"
	"github.com/folio-ebooks/folio/asset"
	"github.com/folio-ebooks/folio/config"
	"github.com/folio-ebooks/folio/library"
	"github.com/folio-ebooks/folio/pkg"
	"github.com/folio-ebooks/folio/pkg/ui/setting"
	"github.com/folio-ebooks/folio/util"
	"github.com/folio-ebooks/folio/util/log"
)

// FolioApp represents the application. It owns the main window, the
// open library and the plugin registry, and implements
// pkg.PluginManager for the plugins it hosts.
type FolioApp struct {
	app      fyne.App
	window   fyne.Window
	assetMgr *asset.Manager
	prefs    fyne.Preferences
	cfg      *config.Config
	actions  *action.Registry

	mu        sync.RWMutex
	lib       *library.Library
	plugins   []pkg.Plugin
	notifiers []pkg.Notifier

	books       []library.Book
	columns     []library.Column
	bookTable   *widget.Table
	coverImage  *canvas.Image
	coverPane   *fyne.Container
	statusLabel *widget.Label

	prefsWindow fyne.Window
}

var (
	instance *FolioApp // Singleton instance of the application
	once     sync.Once // Ensures the singleton is created only once
)

// GetInstance returns the singleton instance of the application.
func GetInstance() *FolioApp {
	a := app.NewWithID(config.AppID)
	c := config.GetConfig(a.Preferences())
	once.Do(func() {
		instance = &FolioApp{
			app:      a,
			assetMgr: asset.NewManager(),
			prefs:    a.Preferences(),
			cfg:      c,
			actions:  action.NewRegistry(),
		}
		instance.createMainWindow()
		instance.registerHostActions()
	})
	return instance
}

func (fa *FolioApp) createMainWindow() {
	fa.window = fa.app.NewWindow(config.AppName)
	fa.window.Resize(fyne.NewSize(1000, 640))
	fa.window.CenterOnScreen()
	fa.window.SetMaster()

	if icon, err := fa.assetMgr.GetIcon("folio.svg"); err == nil {
		fa.app.SetIcon(icon)
		fa.window.SetIcon(icon)
	}

	fa.statusLabel = widget.NewLabel("")
	fa.coverImage = canvas.NewImageFromImage(nil)
	fa.coverImage.FillMode = canvas.ImageFillContain
	fa.coverImage.SetMinSize(fyne.NewSize(220, 300))
	fa.coverPane = container.NewVBox(fa.coverImage)
	if !fa.cfg.GetShowCoverPane() {
		fa.coverPane.Hide()
	}

	fa.bookTable = widget.NewTable(
		func() (int, int) {
			fa.mu.RLock()
			defer fa.mu.RUnlock()
			return len(fa.books), len(fa.columns)
		},
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			fa.mu.RLock()
			defer fa.mu.RUnlock()
			if id.Row >= len(fa.books) || id.Col >= len(fa.columns) {
				label.SetText("")
				return
			}
			label.SetText(cellText(fa.books[id.Row], fa.columns[id.Col].Name))
		},
	)
	fa.bookTable.ShowHeaderRow = true
	fa.bookTable.CreateHeader = func() fyne.CanvasObject {
		header := widget.NewLabel("")
		header.TextStyle = fyne.TextStyle{Bold: true}
		return header
	}
	fa.bookTable.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		label := o.(*widget.Label)
		fa.mu.RLock()
		defer fa.mu.RUnlock()
		if id.Col < 0 || id.Col >= len(fa.columns) {
			label.SetText("")
			return
		}
		label.SetText(fa.columns[id.Col].Header)
	}
	fa.bookTable.OnSelected = func(id widget.TableCellID) {
		fa.showCover(id.Row)
	}

	content := container.NewBorder(nil, fa.statusLabel, nil, fa.coverPane, fa.bookTable)
	fa.window.SetContent(content)
}

// cellText renders one listing cell. The device-status column stays
// empty until device support lands.
func cellText(b library.Book, column string) string {
	switch column {
	case "title":
		return b.Title
	case "authors":
		return b.Authors
	case "series":
		if b.Series == "" {
			return ""
		}
		return fmt.Sprintf("%s [%g]", b.Series, b.SeriesIndex)
	case "rating":
		if b.Rating <= 0 {
			return ""
		}
		return strings.Repeat("*", b.Rating/2)
	case "tags":
		return b.Tags
	case "publisher":
		return b.Publisher
	case "pubdate":
		return b.PubDate
	case "timestamp":
		return b.Timestamp
	default:
		return ""
	}
}

// registerHostActions publishes the built-in operations so plugins can
// reference them the same way they reference each other's.
func (fa *FolioApp) registerHostActions() {
	register := func(a *action.Action) {
		if err := fa.actions.Register(a); err != nil {
			log.Printf("register action %s: %v", a.Name, err)
		}
	}

	register(&action.Action{
		Name:    "Switch Library",
		Display: "Switch library...",
		Enabled: true,
		Trigger: fa.chooseLibrary,
	})
	register(&action.Action{
		Name:    "Refresh Listing",
		Display: "Refresh listing",
		Enabled: true,
		Trigger: fa.RefreshLibraryView,
	})
	register(&action.Action{
		Name:    "Preferences",
		Display: "Preferences...",
		Enabled: true,
		Trigger: fa.ShowPreferences,
	})
	register(&action.Action{
		Name:    "Check Updates",
		Display: "Check for updates",
		Enabled: true,
		Trigger: func() { go fa.CheckForUpdates(true) },
	})
	register(&action.Action{
		Name:    "Quit",
		Display: "Quit " + config.AppName,
		Enabled: true,
		Trigger: fa.app.Quit,
	})
}

// OpenLibrary opens the library at the given path, replacing the
// current one. Plugins are cycled so per-library state reloads.
func (fa *FolioApp) OpenLibrary(path string) error {
	lib, err := library.Open(path)
	if err != nil {
		return err
	}

	fa.mu.Lock()
	old := fa.lib
	fa.lib = lib
	plugins := append([]pkg.Plugin(nil), fa.plugins...)
	fa.mu.Unlock()

	if old != nil {
		for _, p := range plugins {
			p.Deactivate()
		}
		if err := old.Close(); err != nil {
			log.Printf("close library: %v", err)
		}
	}
	fa.cfg.SetLastLibraryPath(path)
	for _, p := range plugins {
		p.Activate()
	}

	fa.RefreshLibraryView()
	fa.RefreshToolbar()
	return nil
}

// OpenDefaultLibrary opens the most recently used library.
func (fa *FolioApp) OpenDefaultLibrary() error {
	return fa.OpenLibrary(fa.cfg.GetLastLibraryPath())
}

func (fa *FolioApp) chooseLibrary() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, fa.window)
			return
		}
		if uri == nil {
			return
		}
		if err := fa.OpenLibrary(uri.Path()); err != nil {
			dialog.ShowError(err, fa.window)
		}
	}, fa.window)
}

// showCover loads the selected book's cover into the side pane.
func (fa *FolioApp) showCover(row int) {
	fa.mu.RLock()
	lib := fa.lib
	var book library.Book
	ok := row >= 0 && row < len(fa.books)
	if ok {
		book = fa.books[row]
	}
	fa.mu.RUnlock()
	if !ok || lib == nil || !fa.cfg.GetShowCoverPane() {
		return
	}

	img, err := lib.CoverThumbnail(book, 220, 300)
	if err != nil {
		log.Debugf("cover for %q: %v", book.Title, err)
		img = nil
	}
	fa.coverImage.Image = img
	fa.coverImage.Refresh()
}

// SetCoverPaneVisible shows or hides the cover pane.
func (fa *FolioApp) SetCoverPaneVisible(show bool) {
	fa.cfg.SetShowCoverPane(show)
	if show {
		fa.coverPane.Show()
	} else {
		fa.coverPane.Hide()
	}
}

// CheckForUpdates polls for a newer release and notifies the user.
// When notifyUpToDate is false only an available update is announced.
func (fa *FolioApp) CheckForUpdates(notifyUpToDate bool) {
	result, err := util.CheckForUpdates()
	if err != nil {
		log.Printf("update check: %v", err)
		return
	}
	if result.UpdateAvailable {
		fa.NotifyUser(config.AppName+" Update",
			fmt.Sprintf("Version %s is available (you have %s).", result.LatestVersion, result.CurrentVersion))
	} else if notifyUpToDate {
		fa.NotifyUser(config.AppName, "You are running the latest version.")
	}
}

// PluginManager implementation.

// Register registers a plugin, activates it and rebuilds the toolbar.
func (fa *FolioApp) Register(p pkg.Plugin) {
	p.Init(fa)

	fa.mu.Lock()
	fa.plugins = append(fa.plugins, p)
	lib := fa.lib
	fa.mu.Unlock()

	if lib != nil {
		p.Activate()
	}
	fa.RefreshToolbar()
}

// Deregister deactivates and removes a plugin.
func (fa *FolioApp) Deregister(p pkg.Plugin) {
	fa.mu.Lock()
	for i, registered := range fa.plugins {
		if registered == p {
			fa.plugins = append(fa.plugins[:i], fa.plugins[i+1:]...)
			break
		}
	}
	fa.mu.Unlock()

	p.Deactivate()
	fa.RefreshToolbar()
}

// NotifyUser sends a desktop notification and fans out to registered
// notifiers.
func (fa *FolioApp) NotifyUser(title, message string) {
	fa.app.SendNotification(fyne.NewNotification(title, message))

	fa.mu.RLock()
	notifiers := append([]pkg.Notifier(nil), fa.notifiers...)
	fa.mu.RUnlock()
	for _, n := range notifiers {
		n(title, message)
	}
}

// RegisterNotifier registers a notifier.
func (fa *FolioApp) RegisterNotifier(n pkg.Notifier) {
	fa.mu.Lock()
	defer fa.mu.Unlock()
	fa.notifiers = append(fa.notifiers, n)
}

// CreateMenuItem creates a menu item with an icon from the asset manager.
func (fa *FolioApp) CreateMenuItem(label string, action func(), iconName string) *fyne.MenuItem {
	mi := fyne.NewMenuItem(label, action)
	icon, err := fa.assetMgr.GetIcon(iconName)
	if err != nil {
		log.Printf("Failed to load icon: %v", err)
		return mi
	}
	mi.Icon = icon
	return mi
}

// CreateToggleMenuItem creates a checkable menu item.
func (fa *FolioApp) CreateToggleMenuItem(label string, action func(bool), iconName string, checked bool) *fyne.MenuItem {
	var mi *fyne.MenuItem
	mi = fa.CreateMenuItem(label, func() {
		mi.Checked = !mi.Checked
		action(mi.Checked)
		fa.RefreshToolbar()
	}, iconName)
	mi.Checked = checked
	return mi
}

// GetPreferences returns the application preferences.
func (fa *FolioApp) GetPreferences() fyne.Preferences {
	return fa.prefs
}

// GetAssetManager returns the asset manager.
func (fa *FolioApp) GetAssetManager() *asset.Manager {
	return fa.assetMgr
}

// Library returns the currently open library.
func (fa *FolioApp) Library() *library.Library {
	fa.mu.RLock()
	defer fa.mu.RUnlock()
	return fa.lib
}

// Actions returns the host action registry.
func (fa *FolioApp) Actions() *action.Registry {
	return fa.actions
}

// MainWindow returns the main application window.
func (fa *FolioApp) MainWindow() fyne.Window {
	return fa.window
}

// RefreshToolbar rebuilds the main menu from the host entries and each
// plugin's toolbar menu.
func (fa *FolioApp) RefreshToolbar() {
	fa.mu.RLock()
	plugins := append([]pkg.Plugin(nil), fa.plugins...)
	fa.mu.RUnlock()

	libraryMenu := fyne.NewMenu("Library",
		fa.CreateMenuItem("Switch library...", fa.chooseLibrary, "folio.svg"),
		fa.CreateMenuItem("Refresh listing", fa.RefreshLibraryView, "blank.svg"),
		fa.CreateToggleMenuItem("Show cover pane", fa.SetCoverPaneVisible, "blank.svg", fa.cfg.GetShowCoverPane()),
		fyne.NewMenuItemSeparator(),
		fa.CreateMenuItem("Preferences...", fa.ShowPreferences, "blank.svg"),
		fyne.NewMenuItemSeparator(),
		fa.CreateMenuItem("Quit", fa.app.Quit, "blank.svg"),
	)
	menus := []*fyne.Menu{libraryMenu}
	for _, p := range plugins {
		if menu := p.CreateToolbarMenu(); menu != nil {
			menus = append(menus, menu)
		}
	}
	helpMenu := fyne.NewMenu("Help",
		fa.CreateMenuItem("Check for updates", func() { go fa.CheckForUpdates(true) }, "blank.svg"),
		fa.CreateMenuItem("About "+config.AppName, fa.showAbout, "folio.svg"),
	)
	menus = append(menus, helpMenu)

	fa.window.SetMainMenu(fyne.NewMainMenu(menus...))
}

// RefreshLibraryView reloads the book listing from the library.
func (fa *FolioApp) RefreshLibraryView() {
	fa.mu.RLock()
	lib := fa.lib
	fa.mu.RUnlock()
	if lib == nil {
		return
	}

	books, err := lib.Books()
	if err != nil {
		log.Printf("list books: %v", err)
		return
	}
	columns, err := lib.VisibleColumns()
	if err != nil {
		log.Printf("visible columns: %v", err)
		return
	}

	fa.mu.Lock()
	fa.books = books
	fa.columns = columns
	fa.mu.Unlock()

	for i, col := range columns {
		width := col.Width
		if width <= 0 {
			width = 100
		}
		fa.bookTable.SetColumnWidth(i, float32(width))
	}
	fa.bookTable.Refresh()
	fa.statusLabel.SetText(fmt.Sprintf("%d books in %s", len(books), lib.Path()))
}

// ShowPreferences opens the preferences window, one tab per plugin.
func (fa *FolioApp) ShowPreferences() {
	if fa.prefsWindow != nil {
		fa.prefsWindow.RequestFocus()
		return
	}

	prefsWindow := fa.app.NewWindow(fmt.Sprintf("%s Preferences", config.AppName))
	prefsWindow.Resize(fyne.NewSize(800, 700))
	prefsWindow.CenterOnScreen()
	fa.prefsWindow = prefsWindow
	prefsWindow.SetOnClosed(func() { fa.prefsWindow = nil })

	sm := NewSettingsManager(prefsWindow)
	sm.RegisterRefreshFunc(fa.RefreshLibraryView)

	tabs := container.NewAppTabs(container.NewTabItem("General", fa.createGeneralPrefs(sm)))
	fa.mu.RLock()
	plugins := append([]pkg.Plugin(nil), fa.plugins...)
	fa.mu.RUnlock()
	for _, p := range plugins {
		panel := p.CreatePrefsPanel(sm)
		if panel == nil {
			continue
		}
		tabs.Append(container.NewTabItem(p.Name(), container.NewVScroll(panel)))
	}

	closeButton := widget.NewButton("Close", prefsWindow.Close)
	footer := container.NewHBox(sm.GetApplySettingsButton(), layout.NewSpacer(), closeButton)
	prefsWindow.SetContent(container.NewBorder(nil, footer, nil, nil, tabs))
	prefsWindow.Show()
}

func (fa *FolioApp) createGeneralPrefs(sm setting.SettingsManager) fyne.CanvasObject {
	header := container.NewVBox()
	header.Add(sm.CreateSectionTitleLabel("General"))

	sm.CreateBoolSetting(&setting.BoolConfig{
		Name:         "general_check_updates",
		InitialValue: fa.cfg.GetCheckUpdatesOnStart(),
		Label:        sm.CreateSettingTitleLabel("Check for updates when the application starts"),
		ApplyFunc:    fa.cfg.SetCheckUpdatesOnStart,
	}, header)

	sm.CreateBoolSetting(&setting.BoolConfig{
		Name:         "general_cover_pane",
		InitialValue: fa.cfg.GetShowCoverPane(),
		Label:        sm.CreateSettingTitleLabel("Show the cover pane next to the listing"),
		ApplyFunc:    fa.SetCoverPaneVisible,
	}, header)

	return container.NewVScroll(header)
}

func (fa *FolioApp) showAbout() {
	version := config.AppVersion
	if version == "" {
		version = "development build"
	}
	dialog.ShowInformation("About "+config.AppName,
		fmt.Sprintf("%s %s\n\nAn e-book library companion.", config.AppName, version), fa.window)
}

// Run runs the application.
func (fa *FolioApp) Run() {
	fa.window.Show()
	fa.app.Run()
}
