package duckdb

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tinytelemetry/topicalguide/internal/model"
	"github.com/tinytelemetry/topicalguide/internal/state"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore(\"\") failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSetGetDelete(t *testing.T) {
	store := newTestStore(t)

	if _, ok, err := store.Get("s1", "k"); err != nil || ok {
		t.Fatalf("Get missing = ok %v err %v", ok, err)
	}
	if err := store.Set("s1", "k", "v1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set("s1", "k", "v2"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, ok, err := store.Get("s1", "k")
	if err != nil || !ok || v != "v2" {
		t.Fatalf("Get = %q %v %v, want v2", v, ok, err)
	}
	if _, ok, _ := store.Get("s2", "k"); ok {
		t.Error("value leaked into another session")
	}

	if err := store.Delete("s1", "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := store.Get("s1", "k"); ok {
		t.Error("value still present after Delete")
	}
}

func TestKeysAndDeletePrefix(t *testing.T) {
	store := newTestStore(t)
	sess := store.Session("s1")
	for _, k := range []string{"settings-ds-an-words", "settings-ds-an-topics", "favs-datasets"} {
		if err := sess.Set(k, "{}"); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Set("s2", "settings-ds-an-words", "{}"); err != nil {
		t.Fatal(err)
	}

	keys, err := sess.Keys("settings-")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if diff := cmp.Diff([]string{"settings-ds-an-topics", "settings-ds-an-words"}, keys); diff != "" {
		t.Errorf("Keys (-want +got):\n%s", diff)
	}

	n, err := sess.DeletePrefix("settings-")
	if err != nil || n != 2 {
		t.Fatalf("DeletePrefix = %d, %v; want 2", n, err)
	}
	if _, ok, _ := store.Get("s2", "settings-ds-an-words"); !ok {
		t.Error("DeletePrefix touched another session")
	}

	n, err = store.DeletePrefixAll(model.SettingsKeyPrefix)
	if err != nil || n != 1 {
		t.Fatalf("DeletePrefixAll = %d, %v; want 1", n, err)
	}
	if _, ok, _ := sess.Get("favs-datasets"); !ok {
		t.Error("favorites removed with settings")
	}
}

func TestSessionBacksSettings(t *testing.T) {
	store := newTestStore(t)
	sess := store.Session("s1")

	key := state.SettingsKey("ds1", "an1", "words")
	s := state.LoadSettings(sess, key)
	if err := s.Set(map[string]string{"page": "3"}); err != nil {
		t.Fatal(err)
	}

	again := state.LoadSettings(store.Session("s1"), key)
	if got := again.Int("page", 1); got != 3 {
		t.Errorf("reloaded page = %d, want 3", got)
	}

	state.ClearSettings(sess)
	if got := state.LoadSettings(sess, key).Int("page", 1); got != 1 {
		t.Errorf("page after clear = %d, want 1", got)
	}
}

func TestOnDiskStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "tg.duckdb")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Set("s1", "favs-datasets", `["ds1"]`); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	v, ok, err := store.Get("s1", "favs-datasets")
	if err != nil || !ok || v != `["ds1"]` {
		t.Errorf("Get after reopen = %q %v %v", v, ok, err)
	}
	if n, _ := store.SessionCount(); n != 1 {
		t.Errorf("SessionCount = %d", n)
	}
}
