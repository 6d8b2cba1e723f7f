package state

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strconv"

	"github.com/tinytelemetry/topicalguide/internal/model"
)

// SettingsKey returns the store key of a view's settings within a
// dataset/analysis context.
func SettingsKey(dataset, analysis, view string) string {
	return fmt.Sprintf("%s%s-%s-%s", model.SettingsKeyPrefix, dataset, analysis, view)
}

// SettingsChange lists the keys changed by one Set call.
type SettingsChange struct {
	Keys []string
}

// Has reports whether key k changed.
func (c SettingsChange) Has(k string) bool {
	for _, key := range c.Keys {
		if key == k {
			return true
		}
	}
	return false
}

// Settings are one view's string options (page number, ordering, measure,
// and the like), persisted in the local store.
type Settings struct {
	key       string
	store     model.KVStore
	values    map[string]string
	observers observers[SettingsChange]
	notifying bool
}

// LoadSettings reads the settings stored under key. A nil store keeps the
// settings in memory only.
func LoadSettings(store model.KVStore, key string) *Settings {
	s := &Settings{key: key, store: store, values: map[string]string{}}
	if store == nil {
		return s
	}
	raw, ok, err := store.Get(key)
	if err != nil {
		log.Printf("state: load settings %s: %v", key, err)
		return s
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &s.values); err != nil {
			log.Printf("state: decode settings %s: %v", key, err)
			s.values = map[string]string{}
		}
	}
	return s
}

// Key returns the store key.
func (s *Settings) Key() string { return s.key }

// Get returns the value of k, or "" when unset.
func (s *Settings) Get(k string) string { return s.values[k] }

// GetDefault returns the value of k, or def when unset.
func (s *Settings) GetDefault(k, def string) string {
	if v, ok := s.values[k]; ok && v != "" {
		return v
	}
	return def
}

// Int returns k parsed as an integer, or def when unset or malformed.
func (s *Settings) Int(k string, def int) int {
	v, err := strconv.Atoi(s.values[k])
	if err != nil {
		return def
	}
	return v
}

// Values returns a copy of all settings.
func (s *Settings) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Set applies updates; empty values delete their key. Observers are notified
// once with the changed keys, after the new values are persisted.
func (s *Settings) Set(updates map[string]string) error {
	if s.notifying {
		log.Printf("state: settings %s: rejected reentrant set", s.key)
		return ErrReentrantSet
	}
	var changed []string
	for k, v := range updates {
		cur, ok := s.values[k]
		switch {
		case v == "" && ok:
			delete(s.values, k)
		case v != "" && cur != v:
			s.values[k] = v
		default:
			continue
		}
		changed = append(changed, k)
	}
	if len(changed) == 0 {
		return nil
	}
	sort.Strings(changed)
	if err := s.save(); err != nil {
		log.Printf("state: save settings %s: %v", s.key, err)
	}

	s.notifying = true
	defer func() { s.notifying = false }()
	s.observers.notify(SettingsChange{Keys: changed})
	return nil
}

// Replace makes the settings equal to values, notifying about every key that
// was added, changed or removed.
func (s *Settings) Replace(values map[string]string) error {
	updates := make(map[string]string, len(values)+len(s.values))
	for k := range s.values {
		updates[k] = ""
	}
	for k, v := range values {
		updates[k] = v
	}
	return s.Set(updates)
}

func (s *Settings) save() error {
	if s.store == nil {
		return nil
	}
	if len(s.values) == 0 {
		return s.store.Delete(s.key)
	}
	b, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return s.store.Set(s.key, string(b))
}

// Subscribe registers fn for change notifications.
func (s *Settings) Subscribe(fn func(SettingsChange)) *Subscription {
	return s.observers.add(fn)
}
