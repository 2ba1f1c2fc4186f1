package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
)

// Config holds application level settings backed by fyne.Preferences.
// Per-library settings live in the library database, not here.
type Config struct {
	fyne.Preferences
	mu sync.RWMutex
}

var (
	cfgInstance *Config
	cfgOnce     sync.Once
)

// GetConfig returns the singleton instance of Config.
func GetConfig(p fyne.Preferences) *Config {
	cfgOnce.Do(func() {
		cfgInstance = &Config{Preferences: p}
	})
	return cfgInstance
}

// GetPath returns the path to the user's config directory.
func GetPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Error getting user home directory: %v", err)
	}
	return filepath.Join(homeDir, "."+strings.ToLower(AppName))
}

// GetLastLibraryPath returns the most recently opened library directory.
func (c *Config) GetLastLibraryPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.StringWithFallback(LastLibraryPrefKey, defaultLibraryPath())
}

// SetLastLibraryPath records the most recently opened library directory.
func (c *Config) SetLastLibraryPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SetString(LastLibraryPrefKey, path)
}

// GetCheckUpdatesOnStart returns the update check preference.
func (c *Config) GetCheckUpdatesOnStart() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.BoolWithFallback(CheckUpdatesPrefKey, true)
}

// SetCheckUpdatesOnStart sets the update check preference.
func (c *Config) SetCheckUpdatesOnStart(enable bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SetBool(CheckUpdatesPrefKey, enable)
}

// GetShowCoverPane returns whether the cover pane is visible.
func (c *Config) GetShowCoverPane() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.BoolWithFallback(ShowCoverPanePrefKey, true)
}

// SetShowCoverPane sets the cover pane visibility preference.
func (c *Config) SetShowCoverPane(show bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SetBool(ShowCoverPanePrefKey, show)
}

func defaultLibraryPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Error getting user home directory: %v", err)
	}
	return filepath.Join(homeDir, DefaultLibraryDirName)
}

// ResetConfig clears the singleton. Only used by tests.
func ResetConfig() {
	cfgInstance = nil
	cfgOnce = sync.Once{}
}
