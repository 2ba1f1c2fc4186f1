package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	ResetConfig()
	t.Cleanup(ResetConfig)
	return GetConfig(NewMockPreferences())
}

func TestGetConfigSingleton(t *testing.T) {
	c := testConfig(t)
	other := GetConfig(NewMockPreferences())
	assert.Same(t, c, other)
}

func TestLastLibraryPath(t *testing.T) {
	c := testConfig(t)

	// Falls back to the default library location before first use.
	assert.Contains(t, c.GetLastLibraryPath(), DefaultLibraryDirName)

	c.SetLastLibraryPath("/books/main")
	assert.Equal(t, "/books/main", c.GetLastLibraryPath())
}

func TestCheckUpdatesOnStart(t *testing.T) {
	c := testConfig(t)
	assert.True(t, c.GetCheckUpdatesOnStart())

	c.SetCheckUpdatesOnStart(false)
	assert.False(t, c.GetCheckUpdatesOnStart())
}

func TestShowCoverPane(t *testing.T) {
	c := testConfig(t)
	assert.True(t, c.GetShowCoverPane())

	c.SetShowCoverPane(false)
	assert.False(t, c.GetShowCoverPane())
}
