// Package action holds the host's registry of toolbar actions and their
// menus, and resolves the action paths stored by menu-customization
// plugins.
package action

import (
	"fmt"
	"sort"
	"sync"

	"fyne.io/fyne/v2"

	"github.com/folio-ebooks/folio/util"
)

// Action is a toolbar action or one of its menu entries. Children form
// the action's drop-down menu.
type Action struct {
	Name     string // stable registration name, unique at the top level
	Display  string // text shown in menus
	Icon     fyne.Resource
	Enabled  bool
	Children []*Action
	Trigger  func()
}

// Registry is the set of top-level actions registered by the host and
// its plugins.
type Registry struct {
	mu      sync.RWMutex
	actions []*Action
	byName  map[string]*Action
}

// NewRegistry creates an empty action registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Action)}
}

// Register adds a top-level action. Registration names must be unique.
func (r *Registry) Register(a *Action) error {
	if a == nil || a.Name == "" {
		return fmt.Errorf("action: registration name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[a.Name]; exists {
		return fmt.Errorf("action: %q is already registered", a.Name)
	}
	r.byName[a.Name] = a
	r.actions = append(r.actions, a)
	return nil
}

// Deregister removes a top-level action. Removing an unknown action is
// a no-op, since plugins deregister defensively on deactivation.
func (r *Registry) Deregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; !exists {
		return
	}
	delete(r.byName, name)
	for i, a := range r.actions {
		if a.Name == name {
			r.actions = append(r.actions[:i], r.actions[i+1:]...)
			break
		}
	}
}

// Actions returns the top-level actions ordered by display name. Only
// Name is unique, so equal display text keeps registration order.
func (r *Registry) Actions() []*Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := make([]*Action, len(r.actions))
	copy(sorted, r.actions)
	c := util.NewNameCollator()
	sort.SliceStable(sorted, func(i, j int) bool {
		return c.CompareString(sorted[i].Display, sorted[j].Display) < 0
	})
	return sorted
}

// Resolve walks an action path: the first element is a top-level
// registration name, the rest match child display text. It returns nil
// when any element of the path no longer exists, which callers must
// tolerate (a plugin may have been removed or the library switched).
func (r *Registry) Resolve(path []string) *Action {
	if len(path) == 0 {
		return nil
	}

	r.mu.RLock()
	current, ok := r.byName[path[0]]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	for _, display := range path[1:] {
		current = findChild(current, display)
		if current == nil {
			return nil
		}
	}
	return current
}

func findChild(parent *Action, display string) *Action {
	for _, child := range parent.Children {
		if child.Display == display {
			return child
		}
	}
	return nil
}
