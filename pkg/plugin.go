package pkg

import (
	"fyne.io/fyne/v2"

	"github.com/folio-ebooks/folio/pkg/ui/setting"
)

// Plugin is the interface that must be implemented by all plugins.
type Plugin interface {
	Name() string                                             // Returns the plugin's name.
	Activate()                                                // Called to activate the plugin.
	Deactivate()                                              // Called to deactivate the plugin.
	CreateToolbarMenu() *fyne.Menu                            // Returns the plugin's toolbar menu, rebuilt on demand.
	CreatePrefsPanel(setting.SettingsManager) *fyne.Container // Returns a UI panel for preferences.
	Init(PluginManager)                                       // Injects the plugin manager.
}

// Notifier is a function that notifies the user.
type Notifier func(title, message string)
