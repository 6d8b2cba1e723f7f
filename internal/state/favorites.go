package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"sort"

	"github.com/tinytelemetry/topicalguide/internal/model"
)

// ErrNoContext is returned when a favorite kind needs a dataset or analysis
// that is not selected.
var ErrNoContext = errors.New("state: favorites: no dataset or analysis selected")

// ErrUnknownKind is returned for a kind outside Kinds.
var ErrUnknownKind = errors.New("state: favorites: unknown kind")

// Kind is a category of favorites.
type Kind string

const (
	KindDatasets  Kind = "datasets"
	KindAnalyses  Kind = "analyses"
	KindTopics    Kind = "topics"
	KindDocuments Kind = "documents"
)

// Kinds lists every favorite kind.
var Kinds = []Kind{KindDatasets, KindAnalyses, KindTopics, KindDocuments}

// FavoritesKey returns the store key for kind in the given context, or ""
// when the context is incomplete.
func FavoritesKey(kind Kind, dataset, analysis string) string {
	p := model.FavoritesKeyPrefix
	switch kind {
	case KindDatasets:
		return p + "datasets"
	case KindAnalyses:
		if dataset == "" {
			return ""
		}
		return fmt.Sprintf("%sdataset-%s-analyses", p, dataset)
	case KindTopics, KindDocuments:
		if dataset == "" || analysis == "" {
			return ""
		}
		return fmt.Sprintf("%sdataset-%s-analysis-%s-%s", p, dataset, analysis, kind)
	}
	return ""
}

// Favorites tracks favorited datasets, analyses, topics and documents for the
// current selection context. Sets are reloaded whenever the selected dataset
// or analysis changes.
type Favorites struct {
	store     model.KVStore
	sel       *Selection
	sets      map[Kind]map[string]bool
	observers observers[Kind]
	sub       *Subscription
}

// NewFavorites loads favorites for the current selection and follows it.
func NewFavorites(store model.KVStore, sel *Selection) *Favorites {
	f := &Favorites{store: store, sel: sel, sets: map[Kind]map[string]bool{}}
	f.reload()
	f.sub = sel.Subscribe(func(c Change) {
		if c.Changed(FieldDataset) || c.Changed(FieldAnalysis) {
			f.reload()
		}
	})
	return f
}

// Close stops following the selection.
func (f *Favorites) Close() { f.sub.Unsubscribe() }

func (f *Favorites) key(kind Kind) string {
	v := f.sel.Get()
	return FavoritesKey(kind, v.Dataset, v.Analysis)
}

func (f *Favorites) reload() {
	for _, kind := range Kinds {
		set := map[string]bool{}
		key := f.key(kind)
		if key != "" && f.store != nil {
			raw, ok, err := f.store.Get(key)
			if err != nil {
				log.Printf("state: load favorites %s: %v", key, err)
			} else if ok {
				var ids []string
				if err := json.Unmarshal([]byte(raw), &ids); err != nil {
					log.Printf("state: decode favorites %s: %v", key, err)
				}
				for _, id := range ids {
					set[id] = true
				}
			}
		}
		f.sets[kind] = set
	}
}

// Has reports whether id is a favorite of kind.
func (f *Favorites) Has(kind Kind, id string) bool { return f.sets[kind][id] }

// List returns the favorites of kind in sorted order.
func (f *Favorites) List(kind Kind) []string {
	out := make([]string, 0, len(f.sets[kind]))
	for id := range f.sets[kind] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Add marks id as a favorite.
func (f *Favorites) Add(kind Kind, id string) error { return f.put(kind, id, true) }

// Remove unmarks id.
func (f *Favorites) Remove(kind Kind, id string) error { return f.put(kind, id, false) }

// Toggle flips id and returns whether it is now a favorite.
func (f *Favorites) Toggle(kind Kind, id string) (bool, error) {
	on := !f.Has(kind, id)
	if err := f.put(kind, id, on); err != nil {
		return !on, err
	}
	return on, nil
}

func (f *Favorites) put(kind Kind, id string, on bool) error {
	if !slices.Contains(Kinds, kind) {
		return fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
	key := f.key(kind)
	if key == "" {
		return ErrNoContext
	}
	set := f.sets[kind]
	if set[id] == on {
		return nil
	}
	if on {
		set[id] = true
	} else {
		delete(set, id)
	}
	if f.store != nil {
		b, err := json.Marshal(f.List(kind))
		if err != nil {
			return fmt.Errorf("encode favorites: %w", err)
		}
		if err := f.store.Set(key, string(b)); err != nil {
			return fmt.Errorf("save favorites %s: %w", key, err)
		}
	}
	f.observers.notify(kind)
	return nil
}

// Subscribe registers fn, called with the kind whose set changed.
func (f *Favorites) Subscribe(fn func(Kind)) *Subscription {
	return f.observers.add(fn)
}
