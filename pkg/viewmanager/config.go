package viewmanager

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/folio-ebooks/folio/library"
	"github.com/folio-ebooks/folio/util"
)

const (
	// PrefsNamespace is the namespace this plugin owns in the
	// per-library preferences store.
	PrefsNamespace   = "ViewManager"
	prefsKeySettings = "settings"

	// LastViewItem is the sentinel entry of the auto-apply selector.
	// Stored view names never start with '*', so it cannot collide.
	LastViewItem = "*Last View Used"

	currentSchemaVersion = 2
)

var (
	// ErrViewExists indicates a name collision under case-insensitive comparison.
	ErrViewExists = errors.New("a view with the same name already exists")
	// ErrInvalidViewName indicates an empty or reserved view name.
	ErrInvalidViewName = errors.New("invalid view name")
	// ErrViewNotFound indicates the named view does not exist.
	ErrViewNotFound = errors.New("view not found")
)

// View is a named combination of visible columns, sort order and
// optional search filters for the library listing.
type View struct {
	Columns          []library.ColumnState `json:"columns"`
	Sort             []library.SortSpec    `json:"sort"`
	ApplySearch      bool                  `json:"applySearch"`
	Search           string                `json:"searchToApply"`
	ApplyRestriction bool                  `json:"applyRestriction"`
	Restriction      string                `json:"restrictionToApply"`
}

func (v *View) clone() *View {
	if v == nil {
		return &View{}
	}
	c := *v
	c.Columns = append([]library.ColumnState(nil), v.Columns...)
	c.Sort = append([]library.SortSpec(nil), v.Sort...)
	return &c
}

// LibraryConfig is the per-library record persisted under the plugin's
// preferences namespace.
type LibraryConfig struct {
	SchemaVersion int              `json:"schemaVersion"`
	Views         map[string]*View `json:"views"`
	LastView      string           `json:"lastView"`
	AutoApply     bool             `json:"autoApplyView"`
	ViewToApply   string           `json:"viewToApply"`
}

func defaultLibraryConfig() *LibraryConfig {
	return &LibraryConfig{
		SchemaVersion: currentSchemaVersion,
		Views:         make(map[string]*View),
		ViewToApply:   LastViewItem,
	}
}

// Store owns the in-memory copy of the per-library record and its
// persistence through the library's namespaced preferences.
type Store struct {
	lib        *library.Library
	legacyPath string

	mu  sync.RWMutex
	cfg *LibraryConfig
}

// NewStore creates a store bound to the given library. The record is
// not read until Load is called.
func NewStore(lib *library.Library) *Store {
	return &Store{lib: lib, legacyPath: legacyFilePath(), cfg: defaultLibraryConfig()}
}

// Load reads the record for this library, running the legacy-file and
// schema migrations when required. A missing record yields defaults.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, migratedFromFile := s.takeLegacyRecord(s.lib.UUID())
	if raw == nil {
		var stored json.RawMessage
		found, err := s.lib.GetNamespaced(PrefsNamespace, prefsKeySettings, &stored)
		if err != nil {
			return err
		}
		if !found {
			s.cfg = defaultLibraryConfig()
			return nil
		}
		raw = stored
	}

	cfg, migratedSchema, err := decodeLibraryConfig(raw)
	if err != nil {
		return fmt.Errorf("view manager: decode settings: %w", err)
	}
	s.cfg = cfg

	if migratedFromFile || migratedSchema {
		return s.saveLocked()
	}
	return nil
}

// Save persists the current record to the library preferences.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	return s.lib.SetNamespaced(PrefsNamespace, prefsKeySettings, s.cfg)
}

// Reset discards the record for this library, both in memory and in the
// preferences store.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = defaultLibraryConfig()
	return s.lib.RemoveNamespaced(PrefsNamespace, prefsKeySettings)
}

// ViewNames returns all view names sorted for display.
func (s *Store) ViewNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.cfg.Views))
	for name := range s.cfg.Views {
		names = append(names, name)
	}
	util.SortNames(names)
	return names
}

// View returns a copy of the named view, looked up case-insensitively.
func (s *Store) View(name string) (*View, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	canonical, ok := s.canonicalName(name)
	if !ok {
		return nil, false
	}
	return s.cfg.Views[canonical].clone(), true
}

// SetView replaces the stored definition of an existing view.
func (s *Store) SetView(name string, v *View) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	canonical, ok := s.canonicalName(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrViewNotFound, name)
	}
	s.cfg.Views[canonical] = v.clone()
	return nil
}

// AddView creates a new view from the given template (nil for an empty
// view) and returns its trimmed name. The add is rejected without
// mutating state when the name is invalid or collides case-insensitively
// with an existing view.
func (s *Store) AddView(name string, template *View) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed, err := s.validateNewName(name, "")
	if err != nil {
		return "", err
	}
	s.cfg.Views[trimmed] = template.clone()
	return trimmed, nil
}

// RenameView renames a view, carrying its definition over. Renames that
// only change letter case are allowed.
func (s *Store) RenameView(oldName, newName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	canonical, ok := s.canonicalName(oldName)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrViewNotFound, oldName)
	}
	trimmed := strings.TrimSpace(newName)
	if trimmed == canonical {
		return canonical, nil
	}
	trimmed, err := s.validateNewName(newName, canonical)
	if err != nil {
		return "", err
	}

	s.cfg.Views[trimmed] = s.cfg.Views[canonical]
	delete(s.cfg.Views, canonical)
	if s.cfg.LastView == canonical {
		s.cfg.LastView = trimmed
	}
	if s.cfg.ViewToApply == canonical {
		s.cfg.ViewToApply = trimmed
	}
	return trimmed, nil
}

// DeleteView removes a view. References from the last-view and
// auto-apply fields are cleared so no selection list can still offer it.
func (s *Store) DeleteView(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	canonical, ok := s.canonicalName(name)
	if !ok {
		return
	}
	delete(s.cfg.Views, canonical)
	if s.cfg.LastView == canonical {
		s.cfg.LastView = ""
	}
	if s.cfg.ViewToApply == canonical {
		s.cfg.ViewToApply = LastViewItem
	}
}

// validateNewName checks a proposed view name against the invariants.
// exclude names the entry being renamed, "" for adds. Caller holds the lock.
func (s *Store) validateNewName(name, exclude string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: name cannot be empty", ErrInvalidViewName)
	}
	if strings.HasPrefix(trimmed, "*") {
		return "", fmt.Errorf("%w: names starting with '*' are reserved", ErrInvalidViewName)
	}
	for existing := range s.cfg.Views {
		if existing == exclude {
			continue
		}
		if strings.EqualFold(existing, trimmed) {
			return "", ErrViewExists
		}
	}
	return trimmed, nil
}

func (s *Store) canonicalStoredName(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canonicalName(name)
}

// canonicalName resolves a name to its stored spelling. Caller holds at
// least a read lock.
func (s *Store) canonicalName(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if _, ok := s.cfg.Views[trimmed]; ok {
		return trimmed, true
	}
	for existing := range s.cfg.Views {
		if strings.EqualFold(existing, trimmed) {
			return existing, true
		}
	}
	return "", false
}

// LastView returns the name of the most recently applied view.
func (s *Store) LastView() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.LastView
}

// SetLastView records the most recently applied view.
func (s *Store) SetLastView(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.LastView = name
}

// AutoApply returns whether a view is applied when the library opens.
func (s *Store) AutoApply() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.AutoApply
}

// SetAutoApply sets the startup auto-apply flag.
func (s *Store) SetAutoApply(enable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.AutoApply = enable
}

// ViewToApply returns the startup view name, or LastViewItem.
func (s *Store) ViewToApply() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg.ViewToApply == "" {
		return LastViewItem
	}
	return s.cfg.ViewToApply
}

// SetViewToApply sets the startup view selection.
func (s *Store) SetViewToApply(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.ViewToApply = name
}
