package pkg

import (
	"fyne.io/fyne/v2"

	"github.com/folio-ebooks/folio/action"
	"github.com/folio-ebooks/folio/asset"
	"github.com/folio-ebooks/folio/library"
)

// PluginManager is the interface that must be implemented by all plugin managers.
type PluginManager interface {
	Register(Plugin)   // Registers a plugin.
	Deregister(Plugin) // Deregisters a plugin.

	NotifyUser(string, string)                                            // Notifies the user.
	RegisterNotifier(Notifier)                                            // Registers a notifier.
	CreateMenuItem(string, func(), string) *fyne.MenuItem                 // Creates a menu item.
	CreateToggleMenuItem(string, func(bool), string, bool) *fyne.MenuItem // Creates a toggle menu item.

	GetPreferences() fyne.Preferences // Returns the application preferences.
	GetAssetManager() *asset.Manager  // Returns the asset manager.
	Library() *library.Library        // Returns the currently open library.
	Actions() *action.Registry        // Returns the host action registry.

	RefreshToolbar()         // Rebuilds the toolbar menus from their plugins.
	RefreshLibraryView()     // Reloads the book listing from the library.
	ShowPreferences()        // Opens (or focuses) the preferences window.
	MainWindow() fyne.Window // Returns the main application window.
}
