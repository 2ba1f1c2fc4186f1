package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/folio-ebooks/folio/pkg/ui/setting"
)

// SettingsManager handles UI elements for settings.
type SettingsManager struct {
	chgPrefsCallbacks   map[string]func()
	refreshFlags        map[string]bool
	refreshFuncs        []func()
	checkAndEnableApply func()
	applyButton         *widget.Button
	prefsWindow         fyne.Window
}

// NewSettingsManager creates a new SettingsManager bound to the
// preferences window.
func NewSettingsManager(window fyne.Window) setting.SettingsManager {
	sm := &SettingsManager{
		chgPrefsCallbacks: make(map[string]func()),
		refreshFlags:      make(map[string]bool),
		refreshFuncs:      make([]func(), 0),
		prefsWindow:       window,
	}

	sm.applyButton = createApplyButton(sm)
	sm.checkAndEnableApply = func() {
		if len(sm.refreshFlags) > 0 || len(sm.chgPrefsCallbacks) > 0 {
			sm.applyButton.Enable()
		} else {
			sm.applyButton.Disable()
		}
		sm.applyButton.Refresh()
	}

	return sm
}

// createApplyButton creates and sets up the Apply Changes button.
func createApplyButton(sm *SettingsManager) *widget.Button {
	var applyButton *widget.Button
	applyButton = widget.NewButton("Apply Changes", func() {
		originalText := applyButton.Text
		sm.applyButton.Disable()
		sm.applyButton.SetText("Applying changes, please wait...")
		sm.applyButton.Refresh()
		fyne.Do(func() {
			defer func() {
				sm.applyButton.SetText(originalText)
				sm.applyButton.Refresh()
			}()

			if len(sm.chgPrefsCallbacks) > 0 {
				for _, callback := range sm.chgPrefsCallbacks {
					callback()
				}
				sm.chgPrefsCallbacks = make(map[string]func())
			}

			if len(sm.refreshFlags) > 0 && len(sm.refreshFuncs) > 0 {
				for _, rf := range sm.refreshFuncs {
					rf()
				}
				sm.refreshFlags = make(map[string]bool)
			}
		})
	})
	applyButton.Disable()
	return applyButton
}

// GetApplySettingsButton returns the Apply Changes button from the SettingsManager to be used in the UI.
func (sm *SettingsManager) GetApplySettingsButton() *widget.Button {
	return sm.applyButton
}

// CreateSelectSetting creates a reusable select widget.
func (sm *SettingsManager) CreateSelectSetting(cfg *setting.SelectConfig, header *fyne.Container) *widget.Select {
	selectWidget := widget.NewSelect(cfg.Options, nil)
	selectWidget.Selected = cfg.InitialValue

	header.Add(NewSplitRow(cfg.Label, selectWidget, SplitProportion.TwoThirds))
	if cfg.HelpContent != nil {
		header.Add(cfg.HelpContent)
	}

	selectWidget.OnChanged = func(selected string) {
		if selected != cfg.InitialValue {
			sm.SetSettingChangedCallback(cfg.Name, func() {
				cfg.ApplyFunc(selectWidget.Selected)
			})
			if cfg.NeedsRefresh {
				sm.SetRefreshFlag(cfg.Name)
			}
		} else {
			sm.RemoveSettingChangedCallback(cfg.Name)
			if cfg.NeedsRefresh {
				sm.UnsetRefreshFlag(cfg.Name)
			}
		}
		if cfg.OnChanged != nil {
			cfg.OnChanged(selected)
		}
		sm.GetCheckAndEnableApplyFunc()()
	}
	return selectWidget
}

// CreateBoolSetting creates a reusable boolean check setting.
func (sm *SettingsManager) CreateBoolSetting(cfg *setting.BoolConfig, header *fyne.Container) *widget.Check {
	check := widget.NewCheck("", nil) // label is a CanvasObject of its own
	check.Checked = cfg.InitialValue

	header.Add(NewSplitRow(cfg.Label, check, SplitProportion.TwoThirds))
	if cfg.HelpContent != nil {
		header.Add(cfg.HelpContent)
	}

	check.OnChanged = func(b bool) {
		if b != cfg.InitialValue {
			sm.SetSettingChangedCallback(cfg.Name, func() {
				cfg.ApplyFunc(b)
			})
			if cfg.NeedsRefresh {
				sm.SetRefreshFlag(cfg.Name)
			}
		} else {
			sm.RemoveSettingChangedCallback(cfg.Name)
			if cfg.NeedsRefresh {
				sm.UnsetRefreshFlag(cfg.Name)
			}
		}
		if cfg.OnChanged != nil {
			cfg.OnChanged(b)
		}
		sm.GetCheckAndEnableApplyFunc()()
	}
	return check
}

// CreateButtonWithConfirmationSetting creates a reusable button setting with confirmation dialog.
func (sm *SettingsManager) CreateButtonWithConfirmationSetting(cfg *setting.ButtonWithConfirmationConfig, header *fyne.Container) {
	button := widget.NewButton(cfg.ButtonText, func() {
		if cfg.ConfirmTitle != "" && cfg.ConfirmMessage != "" {
			d := dialog.NewConfirm(cfg.ConfirmTitle, cfg.ConfirmMessage, func(b bool) {
				if b {
					cfg.OnPressed()
				}
			}, sm.prefsWindow)
			d.Show()
		} else {
			cfg.OnPressed()
		}
	})

	if cfg.Label != nil {
		header.Add(NewSplitRow(cfg.Label, button, SplitProportion.TwoThirds))
	} else {
		header.Add(button)
	}

	if cfg.HelpContent != nil {
		header.Add(cfg.HelpContent)
	}
}

// SetSettingChangedCallback sets a callback function to be called when a setting changes.
func (sm *SettingsManager) SetSettingChangedCallback(settingName string, callback func()) {
	sm.chgPrefsCallbacks[settingName] = callback
}

// RemoveSettingChangedCallback removes a callback function associated with a specific setting.
func (sm *SettingsManager) RemoveSettingChangedCallback(settingName string) {
	delete(sm.chgPrefsCallbacks, settingName)
}

// SetRefreshFlag sets a flag to indicate that a specific setting needs a refresh.
func (sm *SettingsManager) SetRefreshFlag(settingName string) {
	sm.refreshFlags[settingName] = true
}

// UnsetRefreshFlag removes the refresh flag for a specific setting.
func (sm *SettingsManager) UnsetRefreshFlag(settingName string) {
	delete(sm.refreshFlags, settingName)
}

// RegisterRefreshFunc registers a function to be called when the settings
// need to be refreshed. This should be done by each plugin that needs to
// perform some action after settings changes, like reloading the book
// listing.
func (sm *SettingsManager) RegisterRefreshFunc(refreshFunc func()) {
	sm.refreshFuncs = append(sm.refreshFuncs, refreshFunc)
}

// GetSettingsWindow returns the window associated with the SettingsManager.
func (sm *SettingsManager) GetSettingsWindow() fyne.Window {
	return sm.prefsWindow
}

// GetCheckAndEnableApplyFunc returns the check and enable apply function for the SettingsManager.
func (sm *SettingsManager) GetCheckAndEnableApplyFunc() func() {
	return sm.checkAndEnableApply
}
