package favourites

import (
	"encoding/json"
	"sync"

	"fyne.io/fyne/v2"

	"github.com/folio-ebooks/folio/util/log"
)

const (
	menusPrefKey     = "favourites_menus"
	defaultMenusJSON = "[]"
)

// MenuEntry is one entry of the Favourites toolbar menu. The path names
// a host action, the registration name first and then the display texts
// of the nested entries. A nil MenuEntry renders as a separator.
type MenuEntry struct {
	Display string   `json:"display"`
	Path    []string `json:"path"`
}

func (e *MenuEntry) clone() *MenuEntry {
	if e == nil {
		return nil
	}
	c := *e
	c.Path = append([]string(nil), e.Path...)
	return &c
}

// SamePath reports whether the entry points at the given action path.
func (e *MenuEntry) SamePath(path []string) bool {
	if e == nil || len(e.Path) != len(path) {
		return false
	}
	for i, p := range e.Path {
		if p != path[i] {
			return false
		}
	}
	return true
}

// Config holds the stored menu entries, persisted as a JSON blob in the
// application preferences.
type Config struct {
	fyne.Preferences
	mu      sync.RWMutex
	entries []*MenuEntry
}

// NewConfig loads the stored entries from the given preferences.
func NewConfig(prefs fyne.Preferences) *Config {
	c := &Config{Preferences: prefs}
	c.load()
	return c
}

func (c *Config) load() {
	raw := c.StringWithFallback(menusPrefKey, defaultMenusJSON)
	var entries []*MenuEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Printf("favourites: stored menus unreadable, starting empty: %v", err)
		entries = nil
	}
	c.entries = NormalizeEntries(entries)
}

// Entries returns a copy of the stored entries.
func (c *Config) Entries() []*MenuEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entries := make([]*MenuEntry, len(c.entries))
	for i, e := range c.entries {
		entries[i] = e.clone()
	}
	return entries
}

// SetEntries normalizes and persists the given entries.
func (c *Config) SetEntries(entries []*MenuEntry) error {
	normalized := NormalizeEntries(entries)
	data, err := json.Marshal(normalized)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = normalized
	c.SetString(menusPrefKey, string(data))
	return nil
}

// NormalizeEntries drops separators that would render at the start or
// end of the menu, or directly next to another separator.
func NormalizeEntries(entries []*MenuEntry) []*MenuEntry {
	normalized := make([]*MenuEntry, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			if len(normalized) == 0 || normalized[len(normalized)-1] == nil {
				continue
			}
			normalized = append(normalized, nil)
			continue
		}
		normalized = append(normalized, e.clone())
	}
	for len(normalized) > 0 && normalized[len(normalized)-1] == nil {
		normalized = normalized[:len(normalized)-1]
	}
	return normalized
}
