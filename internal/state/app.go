package state

import (
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/tinytelemetry/topicalguide/internal/model"
)

// App bundles the models shared by every view of one page.
type App struct {
	Store     model.KVStore
	Selection *Selection
	Data      *Data
	Favorites *Favorites
}

// NewApp creates the page models on top of store.
func NewApp(store model.KVStore) *App {
	sel := NewSelection()
	return &App{
		Store:     store,
		Selection: sel,
		Data:      NewData(sel),
		Favorites: NewFavorites(store, sel),
	}
}

// Settings loads the settings of view for the current dataset and analysis.
func (a *App) Settings(view string) *Settings {
	v := a.Selection.Get()
	return LoadSettings(a.Store, SettingsKey(v.Dataset, v.Analysis, view))
}

// Close detaches the models from each other.
func (a *App) Close() { a.Favorites.Close() }

// ClearSettings deletes every persisted view setting. Settings only live for
// one run of the application.
func ClearSettings(store model.KVStore) {
	n, err := store.DeletePrefix(model.SettingsKeyPrefix)
	if err != nil {
		log.Printf("state: clear settings: %v", err)
		return
	}
	if n > 0 {
		log.Printf("state: cleared %d stale settings entries", n)
	}
}

// MemoryStore is a process-local KVStore.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: map[string]string{}}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func (s *MemoryStore) DeletePrefix(prefix string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k := range s.m {
		if strings.HasPrefix(k, prefix) {
			delete(s.m, k)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Keys(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for k := range s.m {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}
