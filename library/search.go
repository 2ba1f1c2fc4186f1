package library

import (
	"fmt"

	"github.com/folio-ebooks/folio/util"
)

const (
	savedSearchNamespace = "saved_searches"
	savedSearchKey       = "searches"
	restrictionNamespace = "restrictions"
	restrictionKey       = "restrictions"
)

func (l *Library) namedExpressions(namespace, key string) (map[string]string, error) {
	exprs := make(map[string]string)
	if _, err := l.GetNamespaced(namespace, key, &exprs); err != nil {
		return nil, err
	}
	return exprs, nil
}

// SavedSearchNames returns the names of all saved searches, sorted for display.
func (l *Library) SavedSearchNames() ([]string, error) {
	searches, err := l.namedExpressions(savedSearchNamespace, savedSearchKey)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(searches))
	for name := range searches {
		names = append(names, name)
	}
	util.SortNames(names)
	return names, nil
}

// SavedSearch returns the expression stored under a search name.
func (l *Library) SavedSearch(name string) (string, bool, error) {
	searches, err := l.namedExpressions(savedSearchNamespace, savedSearchKey)
	if err != nil {
		return "", false, err
	}
	expr, ok := searches[name]
	return expr, ok, nil
}

// AddSavedSearch stores a named search expression.
func (l *Library) AddSavedSearch(name, expr string) error {
	if name == "" {
		return fmt.Errorf("library: saved search name cannot be empty")
	}
	searches, err := l.namedExpressions(savedSearchNamespace, savedSearchKey)
	if err != nil {
		return err
	}
	searches[name] = expr
	return l.SetNamespaced(savedSearchNamespace, savedSearchKey, searches)
}

// RestrictionNames returns the names of all search restrictions, sorted.
func (l *Library) RestrictionNames() ([]string, error) {
	restrictions, err := l.namedExpressions(restrictionNamespace, restrictionKey)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(restrictions))
	for name := range restrictions {
		names = append(names, name)
	}
	util.SortNames(names)
	return names, nil
}

// AddRestriction stores a named search restriction expression.
func (l *Library) AddRestriction(name, expr string) error {
	if name == "" {
		return fmt.Errorf("library: restriction name cannot be empty")
	}
	restrictions, err := l.namedExpressions(restrictionNamespace, restrictionKey)
	if err != nil {
		return err
	}
	restrictions[name] = expr
	return l.SetNamespaced(restrictionNamespace, restrictionKey, restrictions)
}

// SetActiveSearch applies a saved search to the listing by name. An
// empty name clears the search. Unknown names clear it as well, since
// the search may belong to a different library.
func (l *Library) SetActiveSearch(name string) error {
	expr := ""
	if name != "" {
		stored, ok, err := l.SavedSearch(name)
		if err != nil {
			return err
		}
		if ok {
			expr = stored
		}
	}

	l.mu.Lock()
	l.activeSearch = expr
	l.mu.Unlock()
	return nil
}

// SetActiveRestriction applies a search restriction to the listing by
// name, with the same clearing semantics as SetActiveSearch.
func (l *Library) SetActiveRestriction(name string) error {
	expr := ""
	if name != "" {
		restrictions, err := l.namedExpressions(restrictionNamespace, restrictionKey)
		if err != nil {
			return err
		}
		if stored, ok := restrictions[name]; ok {
			expr = stored
		}
	}

	l.mu.Lock()
	l.activeRestriction = expr
	l.mu.Unlock()
	return nil
}

// ActiveSearch returns the currently applied search expression.
func (l *Library) ActiveSearch() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.activeSearch
}

// ActiveRestriction returns the currently applied restriction expression.
func (l *Library) ActiveRestriction() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.activeRestriction
}
