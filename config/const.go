package config

import "strings"

// AppVersion is the version of the application, injected at build time.
var AppVersion string

// AppName is the name of the application.
const AppName = "Folio"

// AppID is the Fyne application ID.
const AppID = "com.folio-ebooks.folio"

// LogWinSubDir is the sub directory for the log files on windows.
var LogWinSubDir = AppName

// LogSubDir is the sub directory for the log files.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the extension for the log files.
var LogExt = ".log"

// Preference keys for application level settings.
const (
	LastLibraryPrefKey    = "last_library_path"
	CheckUpdatesPrefKey   = "check_updates_on_start"
	ShowCoverPanePrefKey  = "show_cover_pane"
	LegacyViewsPrefsFile  = "view_manager.json"
	DefaultLibraryDirName = AppName + "Library"
)
