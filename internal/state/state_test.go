package state

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tinytelemetry/topicalguide/internal/model"
)

func TestSelectionCascade(t *testing.T) {
	t.Parallel()

	s := NewSelection()
	if err := s.Set(Update{FieldDataset: "ds1", FieldAnalysis: "an1", FieldTopic: "4", FieldDocument: "doc1"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := s.Set(Update{FieldAnalysis: "an2"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got := s.Get()
	want := Values{Dataset: "ds1", Analysis: "an2", Document: "doc1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("after analysis change (-want +got):\n%s", diff)
	}

	if err := s.Set(Update{FieldDataset: "ds2"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if diff := cmp.Diff(Values{Dataset: "ds2"}, s.Get()); diff != "" {
		t.Errorf("after dataset change (-want +got):\n%s", diff)
	}
}

func TestSelectionNotifiesOncePerSet(t *testing.T) {
	t.Parallel()

	s := NewSelection()
	var changes []Change
	sub := s.Subscribe(func(c Change) { changes = append(changes, c) })

	_ = s.Set(Update{FieldDataset: "ds1", FieldAnalysis: "an1"})
	_ = s.Set(Update{FieldDataset: "ds1"})
	if len(changes) != 1 {
		t.Fatalf("notifications = %d, want 1", len(changes))
	}
	if diff := cmp.Diff([]Field{FieldDataset, FieldAnalysis}, changes[0].Fields); diff != "" {
		t.Errorf("changed fields (-want +got):\n%s", diff)
	}

	sub.Unsubscribe()
	sub.Unsubscribe()
	_ = s.Set(Update{FieldTopic: "1"})
	if len(changes) != 1 {
		t.Errorf("notified after Unsubscribe")
	}
	if s.Subscribers() != 0 {
		t.Errorf("Subscribers = %d, want 0", s.Subscribers())
	}
}

func TestSelectionRejectsReentrantSet(t *testing.T) {
	t.Parallel()

	s := NewSelection()
	var inner error
	s.Subscribe(func(c Change) {
		inner = s.Set(Update{FieldTopic: "9"})
	})
	if err := s.Set(Update{FieldDataset: "ds1"}); err != nil {
		t.Fatalf("outer Set: %v", err)
	}
	if !errors.Is(inner, ErrReentrantSet) {
		t.Errorf("inner Set = %v, want ErrReentrantSet", inner)
	}
	if s.Get().Topic != "" {
		t.Errorf("reentrant update applied: topic = %q", s.Get().Topic)
	}
}

func TestObserverRemovedDuringNotifyIsSkipped(t *testing.T) {
	t.Parallel()

	s := NewSelection()
	var second *Subscription
	called := false
	s.Subscribe(func(Change) { second.Unsubscribe() })
	second = s.Subscribe(func(Change) { called = true })

	_ = s.Set(Update{FieldDataset: "x"})
	if called {
		t.Error("observer unsubscribed earlier in the same notification was called")
	}
}

func TestSelectFirst(t *testing.T) {
	t.Parallel()

	s := NewSelection()
	cat := map[string][]string{"zeta": {"b"}, "alpha": {"lda2", "lda1"}}
	if err := s.SelectFirst(cat, false); err != nil {
		t.Fatalf("SelectFirst: %v", err)
	}
	v := s.Get()
	if v.Dataset != "alpha" || v.Analysis != "lda1" {
		t.Errorf("selected %s/%s, want alpha/lda1", v.Dataset, v.Analysis)
	}

	_ = s.Set(Update{FieldDataset: "zeta", FieldAnalysis: "b"})
	_ = s.SelectFirst(cat, false)
	if v := s.Get(); v.Dataset != "zeta" {
		t.Errorf("SelectFirst without override replaced dataset: %s", v.Dataset)
	}
}

func TestSettingsPersistAndNotify(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	key := SettingsKey("ds1", "an1", "words")
	if key != "settings-ds1-an1-words" {
		t.Fatalf("SettingsKey = %q", key)
	}

	s := LoadSettings(store, key)
	var got []SettingsChange
	s.Subscribe(func(c SettingsChange) { got = append(got, c) })

	_ = s.Set(map[string]string{"page": "2", "find": "ab"})
	_ = s.Set(map[string]string{"page": "2"})
	if len(got) != 1 {
		t.Fatalf("notifications = %d, want 1", len(got))
	}
	if diff := cmp.Diff([]string{"find", "page"}, got[0].Keys); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}

	again := LoadSettings(store, key)
	if again.Int("page", 1) != 2 || again.Get("find") != "ab" {
		t.Errorf("reloaded settings = %v", again.Values())
	}

	_ = again.Replace(map[string]string{"page": "3"})
	if _, ok := again.Values()["find"]; ok {
		t.Error("Replace kept removed key")
	}

	ClearSettings(store)
	if keys, _ := store.Keys(model.SettingsKeyPrefix); len(keys) != 0 {
		t.Errorf("settings keys after clear = %v", keys)
	}
}

func TestFavoritesFollowSelection(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	app := NewApp(store)
	defer app.Close()

	if err := app.Favorites.Add(KindTopics, "3"); !errors.Is(err, ErrNoContext) {
		t.Fatalf("Add without analysis = %v, want ErrNoContext", err)
	}

	_ = app.Selection.Set(Update{FieldDataset: "ds1", FieldAnalysis: "an1"})
	on, err := app.Favorites.Toggle(KindTopics, "3")
	if err != nil || !on {
		t.Fatalf("Toggle = %v, %v", on, err)
	}
	if v, ok, _ := store.Get("favs-dataset-ds1-analysis-an1-topics"); !ok || v != `["3"]` {
		t.Errorf("stored favorites = %q, %v", v, ok)
	}

	_ = app.Selection.Set(Update{FieldAnalysis: "an2"})
	if app.Favorites.Has(KindTopics, "3") {
		t.Error("favorites not reloaded for new analysis")
	}
	_ = app.Selection.Set(Update{FieldAnalysis: "an1"})
	if !app.Favorites.Has(KindTopics, "3") {
		t.Error("favorites lost after returning to analysis")
	}
}

func TestDataTopicNames(t *testing.T) {
	t.Parallel()

	sel := NewSelection()
	d := NewData(sel)
	_ = sel.Set(Update{FieldDataset: "ds1", FieldAnalysis: "an1"})
	d.SetTopicNames("ds1", "an1", model.TopicNames{4: {"Top3": "war peace army"}})

	if got := d.TopicName(4); got != "war peace army (#4)" {
		t.Errorf("TopicName(4) = %q", got)
	}
	if got := d.TopicName(5); got != "Topic #5" {
		t.Errorf("TopicName(5) = %q", got)
	}
	_ = sel.Set(Update{FieldAnalysis: "an2"})
	if got := d.TopicName(4); got != "Topic #4" {
		t.Errorf("TopicName for other analysis = %q", got)
	}
}

func TestScopeRelease(t *testing.T) {
	t.Parallel()

	s := NewSelection()
	var scope Scope
	scope.Add(s.Subscribe(func(Change) {}))
	scope.Add(s.Subscribe(func(Change) {}))
	cleaned := false
	scope.Defer(func() { cleaned = true })

	scope.Release()
	scope.Release()
	if s.Subscribers() != 0 {
		t.Errorf("Subscribers = %d, want 0", s.Subscribers())
	}
	if !cleaned {
		t.Error("deferred cleanup did not run")
	}

	scope.Add(s.Subscribe(func(Change) {}))
	if s.Subscribers() != 0 {
		t.Error("subscription added after release was kept")
	}
}
