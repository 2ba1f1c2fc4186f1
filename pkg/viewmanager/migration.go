package viewmanager

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/folio-ebooks/folio/config"
	"github.com/folio-ebooks/folio/library"
	"github.com/folio-ebooks/folio/util/log"
)

// Records used to live in a single shared JSON file keyed by library
// UUID before they moved into the per-library preferences table. The
// migration pops this library's record out of the file on load and
// deletes the file once the last record is gone. All file operations
// are best effort, a failed write only delays the migration until the
// next load.

func legacyFilePath() string {
	return filepath.Join(config.GetPath(), config.LegacyViewsPrefsFile)
}

type legacyFile struct {
	Libraries map[string]json.RawMessage `json:"libraries"`
}

// takeLegacyRecord removes and returns this library's record from the
// legacy file. Returns nil when the file or record does not exist.
func (s *Store) takeLegacyRecord(libraryID string) (json.RawMessage, bool) {
	data, err := os.ReadFile(s.legacyPath)
	if err != nil {
		return nil, false
	}

	var f legacyFile
	if err := json.Unmarshal(data, &f); err != nil {
		log.Debugf("legacy view settings file unreadable: %v", err)
		return nil, false
	}
	record, ok := f.Libraries[libraryID]
	if !ok {
		return nil, false
	}
	delete(f.Libraries, libraryID)

	if len(f.Libraries) == 0 {
		if err := os.Remove(s.legacyPath); err != nil {
			log.Debugf("failed to remove legacy view settings file: %v", err)
		}
		return record, true
	}
	remaining, err := json.Marshal(&f)
	if err == nil {
		err = os.WriteFile(s.legacyPath, remaining, 0644)
	}
	if err != nil {
		log.Debugf("failed to rewrite legacy view settings file: %v", err)
	}
	return record, true
}

// CleanupLegacyFile removes the legacy file when it holds no records.
// Files with records for other libraries are left alone.
func (s *Store) CleanupLegacyFile() {
	data, err := os.ReadFile(s.legacyPath)
	if err != nil {
		return
	}
	var f legacyFile
	if err := json.Unmarshal(data, &f); err != nil || len(f.Libraries) > 0 {
		return
	}
	if err := os.Remove(s.legacyPath); err != nil {
		log.Debugf("failed to remove legacy view settings file: %v", err)
	}
}

// Schema version 1 stored columns and sort terms as [name, value]
// pairs, with 0 meaning ascending in sort pairs. Version 2 uses named
// fields.

type legacyView struct {
	Columns          [][]any `json:"columns"`
	Sort             [][]any `json:"sort"`
	ApplySearch      bool    `json:"applySearch"`
	Search           string  `json:"searchToApply"`
	ApplyRestriction bool    `json:"applyRestriction"`
	Restriction      string  `json:"restrictionToApply"`
}

type legacyLibraryConfig struct {
	Views       map[string]*legacyView `json:"views"`
	LastView    string                 `json:"lastView"`
	AutoApply   bool                   `json:"autoApplyView"`
	ViewToApply string                 `json:"viewToApply"`
}

// decodeLibraryConfig decodes a stored record, upgrading stale schema
// versions. The second return reports whether an upgrade ran, meaning
// the caller should persist the result.
func decodeLibraryConfig(raw []byte) (*LibraryConfig, bool, error) {
	var probe struct {
		SchemaVersion int `json:"schemaVersion"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, false, err
	}

	if probe.SchemaVersion >= currentSchemaVersion {
		cfg := defaultLibraryConfig()
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, false, err
		}
		if cfg.Views == nil {
			cfg.Views = make(map[string]*View)
		}
		return cfg, false, nil
	}

	var old legacyLibraryConfig
	if err := json.Unmarshal(raw, &old); err != nil {
		return nil, false, err
	}
	cfg := &LibraryConfig{
		SchemaVersion: currentSchemaVersion,
		Views:         make(map[string]*View, len(old.Views)),
		LastView:      old.LastView,
		AutoApply:     old.AutoApply,
		ViewToApply:   old.ViewToApply,
	}
	if cfg.ViewToApply == "" {
		cfg.ViewToApply = LastViewItem
	}
	for name, lv := range old.Views {
		cfg.Views[name] = upgradeView(lv)
	}
	return cfg, true, nil
}

func upgradeView(lv *legacyView) *View {
	v := &View{}
	if lv == nil {
		return v
	}
	v.ApplySearch = lv.ApplySearch
	v.Search = lv.Search
	v.ApplyRestriction = lv.ApplyRestriction
	v.Restriction = lv.Restriction

	for _, pair := range lv.Columns {
		name, num, ok := splitPair(pair)
		if !ok {
			continue
		}
		v.Columns = append(v.Columns, library.ColumnState{Name: name, Width: int(num)})
	}
	for _, pair := range lv.Sort {
		name, num, ok := splitPair(pair)
		if !ok {
			continue
		}
		v.Sort = append(v.Sort, library.SortSpec{Name: name, Ascending: num == 0})
	}
	return v
}

func splitPair(pair []any) (string, float64, bool) {
	if len(pair) != 2 {
		return "", 0, false
	}
	name, ok := pair[0].(string)
	if !ok {
		return "", 0, false
	}
	num, ok := pair[1].(float64)
	if !ok {
		return "", 0, false
	}
	return name, num, true
}
