package view

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tinytelemetry/topicalguide/internal/dom"
	"github.com/tinytelemetry/topicalguide/internal/state"
)

type stubView struct{ Base }

func (v *stubView) Render() {}

func stub(name, readable string) Descriptor {
	return Descriptor{Name: name, ReadableName: readable, New: func(ctx *Context) View {
		v := &stubView{}
		v.Init(ctx)
		return v
	}}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := r.AddViewClass([]string{"Topics"}, stub("topics", "Topics")); err != nil {
		t.Fatalf("AddViewClass: %v", err)
	}

	if d := r.Resolve("topics"); !d.Found() || d.Name != "topics" {
		t.Errorf("Resolve(topics) = %+v", d)
	}
	for _, name := range []string{"", "Topics", "topic", "topics/"} {
		if d := r.Resolve(name); d.Found() {
			t.Errorf("Resolve(%q) found %q, want NotFound", name, d.Name)
		}
	}
}

func TestDuplicateRegistrationKeepsFirst(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	_ = r.AddViewClass(nil, stub("words", "Words"))
	err := r.AddViewClass([]string{"Other"}, stub("words", "Other Words"))
	if !errors.Is(err, ErrDuplicateView) {
		t.Fatalf("duplicate err = %v, want ErrDuplicateView", err)
	}
	if got := r.Resolve("words").ReadableName; got != "Words" {
		t.Errorf("ReadableName = %q, want first registration", got)
	}
	if err := r.SetRootViewClass(stub("words", "Home")); !errors.Is(err, ErrDuplicateView) {
		t.Errorf("SetRootViewClass on taken name = %v", err)
	}
}

func TestRootView(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if r.Root().Found() {
		t.Error("Root found before SetRootViewClass")
	}
	_ = r.SetRootViewClass(stub("home", "Home"))
	if got := r.Root().Name; got != "home" {
		t.Errorf("Root = %q", got)
	}
	if len(r.BuildMenu()) != 0 {
		t.Error("root view listed in menu")
	}
}

func TestBuildMenu(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	_ = r.AddViewClass([]string{}, stub("datasets", "Datasets"))
	_ = r.AddViewClass([]string{"Topics"}, stub("topics", "Topics"))
	_ = r.AddViewClass([]string{"Documents"}, stub("documents", "Documents"))
	_ = r.AddViewClass([]string{"Topics", "Similar"}, stub("similar-topics", "Similar Topics"))
	_ = r.AddViewClass([]string{"Topics"}, stub("topic-attributes", "Attribute Values"))
	_ = r.AddViewClass(nil, stub("hidden", "Hidden"))

	want := []MenuItem{
		{Label: "Datasets", Path: "datasets"},
		{Label: "Topics", Children: []MenuItem{
			{Label: "Topics", Path: "topics"},
			{Label: "Similar", Children: []MenuItem{{Label: "Similar Topics", Path: "similar-topics"}}},
			{Label: "Attribute Values", Path: "topic-attributes"},
		}},
		{Label: "Documents", Children: []MenuItem{{Label: "Documents", Path: "documents"}}},
	}
	if diff := cmp.Diff(want, r.BuildMenu()); diff != "" {
		t.Errorf("menu (-want +got):\n%s", diff)
	}
}

func TestPagerBoundaries(t *testing.T) {
	t.Parallel()

	href := func(p int) string { return "#/words/ds1/an1?page=" + strconv.Itoa(p) }
	tests := []struct {
		name           string
		page, numPages int
		first, prev    bool
		next, last     bool
	}{
		{"first page", 1, 5, false, false, true, true},
		{"middle page", 3, 5, true, true, true, true},
		{"last page", 5, 5, true, true, false, false},
		{"single page", 1, 1, false, false, false, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := dom.NewContainer("pager")
			c.Replace(Pager(tt.page, tt.numPages, href))
			q := c.Query()
			has := func(sel string) bool { return q.Find(sel).Length() > 0 }
			if has("a.tg-first") != tt.first || has("a.tg-prev") != tt.prev {
				t.Errorf("first/prev = %v/%v, want %v/%v", has("a.tg-first"), has("a.tg-prev"), tt.first, tt.prev)
			}
			if has("a.tg-next") != tt.next || has("a.tg-last") != tt.last {
				t.Errorf("next/last = %v/%v, want %v/%v", has("a.tg-next"), has("a.tg-last"), tt.next, tt.last)
			}
			if got := q.Find(".tg-page-status").Text(); !strings.HasPrefix(got, "Page ") {
				t.Errorf("status = %q", got)
			}
		})
	}
}

func TestBaseCleanupAndGuard(t *testing.T) {
	t.Parallel()

	app := state.NewApp(state.NewMemoryStore())
	ctx := &Context{Name: "stub", Container: dom.NewContainer("main"), App: app}
	v := stub("stub", "Stub").New(ctx).(*stubView)

	before := app.Selection.Subscribers()
	v.Scope.Add(app.Selection.Subscribe(func(state.Change) {}))
	g := v.Begin(ctx.Container)
	if !g.Valid() {
		t.Fatal("guard invalid right after Begin")
	}
	if !strings.Contains(ctx.Container.HTML(), "Loading...") {
		t.Errorf("no loading placeholder: %q", ctx.Container.HTML())
	}

	v.Cleanup()
	v.Cleanup()
	if g.Valid() {
		t.Error("guard valid after Cleanup")
	}
	if got := app.Selection.Subscribers(); got != before {
		t.Errorf("subscribers after Cleanup = %d, want %d", got, before)
	}
}

func TestRenderErrorEscapes(t *testing.T) {
	t.Parallel()

	ctx := &Context{Container: dom.NewContainer("main")}
	v := stub("stub", "Stub").New(ctx)
	v.RenderError("<b>boom</b>")
	want := `<div class="tg-error"><p>Oops, there was a server error: &lt;b&gt;boom&lt;/b&gt;</p></div>`
	if got := ctx.Container.HTML(); got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
	if v.RenderHelpAsHTML() != DefaultHelp {
		t.Error("default help not returned")
	}
}

func TestHelpHTML(t *testing.T) {
	t.Parallel()

	got := HelpHTML("# Words\n\nLists **every** word.")
	if !strings.Contains(got, "<strong>every</strong>") || !strings.Contains(got, "<h1") {
		t.Errorf("HelpHTML = %q", got)
	}
}
