package view

import (
	"errors"
	"fmt"
	"log"
	"sync"
)

// ErrDuplicateView is returned when a name is registered twice.
var ErrDuplicateView = errors.New("view: duplicate view name")

// Constructor binds a new view to its context. It must not render.
type Constructor func(*Context) View

// Descriptor describes a registered view.
type Descriptor struct {
	Name         string
	ReadableName string
	New          Constructor
}

// NotFound is returned by Resolve for unregistered names.
var NotFound = Descriptor{}

// Found reports whether d is a registered descriptor.
func (d Descriptor) Found() bool { return d.New != nil }

type entry struct {
	desc     Descriptor
	category []string
}

// Registry maps view names to descriptors and builds the navigation menu.
// It is safe for concurrent use; pages of every session share one registry.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
	order   []string
	root    string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: map[string]entry{}}
}

// AddViewClass registers d under the menu path category. A nil category
// keeps the view out of menus while leaving it routable. The first
// registration of a name wins; later ones are logged and rejected.
func (r *Registry) AddViewClass(category []string, d Descriptor) error {
	if d.Name == "" || d.New == nil {
		return fmt.Errorf("view: descriptor %q needs a name and a constructor", d.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[d.Name]; ok {
		log.Printf("view: %q already registered, ignoring duplicate", d.Name)
		return fmt.Errorf("%w: %s", ErrDuplicateView, d.Name)
	}
	if category != nil {
		category = append([]string{}, category...)
	}
	r.entries[d.Name] = entry{desc: d, category: category}
	r.order = append(r.order, d.Name)
	return nil
}

// SetRootViewClass registers d outside the menus and makes it the view for
// empty routes.
func (r *Registry) SetRootViewClass(d Descriptor) error {
	if err := r.AddViewClass(nil, d); err != nil {
		return err
	}
	r.mu.Lock()
	r.root = d.Name
	r.mu.Unlock()
	return nil
}

// Resolve returns the descriptor registered under name, or NotFound.
func (r *Registry) Resolve(name string) Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return NotFound
	}
	return e.desc
}

// Root returns the root descriptor, or NotFound when none is set.
func (r *Registry) Root() Descriptor {
	r.mu.RLock()
	root := r.root
	r.mu.RUnlock()
	return r.Resolve(root)
}

// Names returns every registered name in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// ReadableName returns the display name of view name.
func (r *Registry) ReadableName(name string) string {
	if d := r.Resolve(name); d.Found() && d.ReadableName != "" {
		return d.ReadableName
	}
	return name
}

// MenuItem is a node of the navigation menu. Leaves carry the view name in
// Path; groups carry children.
type MenuItem struct {
	Label    string     `json:"label"`
	Path     string     `json:"path,omitempty"`
	Children []MenuItem `json:"children,omitempty"`
}

// BuildMenu returns the menu tree. Groups and leaves appear in the order
// they were first registered.
func (r *Registry) BuildMenu() []MenuItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var root []MenuItem
	for _, name := range r.order {
		e := r.entries[name]
		if e.category == nil {
			continue
		}
		root = insert(root, e.category, MenuItem{Label: e.desc.ReadableName, Path: name})
	}
	return root
}

func insert(items []MenuItem, path []string, leaf MenuItem) []MenuItem {
	if len(path) == 0 {
		return append(items, leaf)
	}
	for i := range items {
		if items[i].Path == "" && items[i].Label == path[0] {
			items[i].Children = insert(items[i].Children, path[1:], leaf)
			return items
		}
	}
	group := MenuItem{Label: path[0]}
	group.Children = insert(nil, path[1:], leaf)
	return append(items, group)
}
