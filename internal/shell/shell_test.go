package shell

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tinytelemetry/topicalguide/internal/dom"
	"github.com/tinytelemetry/topicalguide/internal/feed"
	"github.com/tinytelemetry/topicalguide/internal/state"
	"github.com/tinytelemetry/topicalguide/internal/view"
)

type counters struct {
	built, rendered, cleaned atomic.Int32
}

type stubView struct {
	view.Base
	c     *counters
	panic bool
}

func (v *stubView) Render() {
	v.c.rendered.Add(1)
	if v.panic {
		panic("render exploded")
	}
	v.Container().Replace(dom.El("p", dom.Attrs{"class": "stub"},
		dom.Text(v.Ctx.Name+" x="+v.Ctx.Settings.Get("x"))))
}

func (v *stubView) Cleanup() {
	if !v.Disposed() {
		v.c.cleaned.Add(1)
	}
	v.Base.Cleanup()
}

func stub(c *counters, panics bool) view.Constructor {
	return func(ctx *view.Context) view.View {
		c.built.Add(1)
		v := &stubView{c: c, panic: panics}
		v.Init(ctx)
		return v
	}
}

type fixture struct {
	sh    *Shell
	alpha *counters
	home  *counters
	nav   *counters
}

func newFixture(t *testing.T, fallback bool) *fixture {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"datasets":{}}`)
	}))
	t.Cleanup(srv.Close)
	client, err := feed.NewClient(srv.URL, feed.Options{})
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{alpha: &counters{}, home: &counters{}, nav: &counters{}}
	reg := view.NewRegistry()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(reg.SetRootViewClass(view.Descriptor{Name: "home", ReadableName: "Home", New: stub(f.home, false)}))
	must(reg.AddViewClass(nil, view.Descriptor{Name: "alpha", ReadableName: "Alpha", New: stub(f.alpha, false)}))
	must(reg.AddViewClass(nil, view.Descriptor{Name: "boom", ReadableName: "Boom", New: stub(&counters{}, true)}))
	must(reg.AddViewClass(nil, view.Descriptor{Name: "broken", ReadableName: "Broken", New: func(*view.Context) view.View {
		panic("constructor exploded")
	}}))

	opts := Options{Registry: reg, Feed: client, Nav: stub(f.nav, false)}
	if fallback {
		opts.Fallback = func(ctx *view.Context) view.View {
			v := &stubView{c: &counters{}}
			v.Init(ctx)
			return v
		}
	}
	f.sh, err = New(opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(f.sh.Close)
	return f
}

func (f *fixture) visit(t *testing.T, fragment string) Snapshot {
	t.Helper()
	f.sh.Navigate(fragment)
	return f.settle(t)
}

func (f *fixture) settle(t *testing.T) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.sh.Idle(ctx); err != nil {
		t.Fatal(err)
	}
	snap, err := f.sh.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	return snap
}

func TestMountReplacesAndCleansUp(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	snap := f.visit(t, "#/alpha/ds1/an1")
	if snap.View != "alpha" || snap.Title != "Topical Guide | Alpha" {
		t.Fatalf("view %q title %q", snap.View, snap.Title)
	}
	if !strings.Contains(snap.HTML, `id="tg-current-view-container"`) {
		t.Errorf("page layout missing main container: %s", snap.HTML)
	}

	snap = f.visit(t, "")
	if snap.View != "home" {
		t.Fatalf("view = %q", snap.View)
	}
	if got := f.alpha.cleaned.Load(); got != 1 {
		t.Errorf("alpha cleaned %d times, want 1", got)
	}
	if strings.Contains(snap.Main, "alpha") {
		t.Errorf("old view left output: %s", snap.Main)
	}
}

func TestSameMountAppliesSettings(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	f.visit(t, "#/alpha/ds1/an1?x=1")
	snap := f.visit(t, "#/alpha/ds1/an1?x=2")
	if got := f.alpha.built.Load(); got != 1 {
		t.Errorf("alpha built %d times, want 1", got)
	}
	err := f.sh.Do(func(p *Page) {
		if got := p.Route().Settings["x"]; got != "2" {
			t.Errorf("route setting x = %q", got)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if snap.Fragment != "#/alpha/ds1/an1?x=2" {
		t.Errorf("fragment = %q", snap.Fragment)
	}
}

func TestAnalysisChangeRemountsOnLoop(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	f.visit(t, "#/alpha/ds1/an1?x=1")
	err := f.sh.Do(func(p *Page) {
		if err := p.App().Selection.Set(state.Update{state.FieldAnalysis: "an2"}); err != nil {
			t.Error(err)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	snap := f.settle(t)
	if got := f.alpha.built.Load(); got != 2 {
		t.Errorf("alpha built %d times, want 2", got)
	}
	if got := f.alpha.cleaned.Load(); got != 1 {
		t.Errorf("alpha cleaned %d times, want 1", got)
	}
	if !strings.HasPrefix(snap.Fragment, "#/alpha/ds1/an2") {
		t.Errorf("fragment = %q", snap.Fragment)
	}
}

func TestRenderPanicShowsError(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	snap := f.visit(t, "#/boom/ds1/an1")
	if !strings.Contains(snap.Main, "render exploded") || !strings.Contains(snap.Main, "tg-error") {
		t.Errorf("main = %s", snap.Main)
	}

	snap = f.visit(t, "#/broken/ds1/an1")
	if !strings.Contains(snap.Main, "the view could not be created") {
		t.Errorf("main = %s", snap.Main)
	}

	// The page keeps working.
	snap = f.visit(t, "#/alpha/ds1/an1")
	if snap.View != "alpha" {
		t.Errorf("view = %q", snap.View)
	}
}

func TestUnknownViewWithoutFallbackUsesRoot(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	snap := f.visit(t, "#/nope/ds1/an1")
	if snap.Title != "Topical Guide | Not Found" {
		t.Errorf("title = %q", snap.Title)
	}
	if f.home.built.Load() != 1 {
		t.Errorf("root view not mounted")
	}
}

func TestBackAndForward(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	f.visit(t, "#/alpha/ds1/an1")
	f.visit(t, "#/home/ds1/an1")

	f.sh.Back()
	if snap := f.settle(t); snap.View != "alpha" {
		t.Errorf("after back view = %q", snap.View)
	}
	f.sh.Forward()
	if snap := f.settle(t); snap.View != "home" {
		t.Errorf("after forward view = %q", snap.View)
	}
}

func TestCloseCleansUpEverything(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	f.visit(t, "#/alpha/ds1/an1")
	f.sh.Close()
	if got := f.alpha.cleaned.Load(); got != 1 {
		t.Errorf("alpha cleaned %d times", got)
	}
	if got := f.nav.cleaned.Load(); got != 1 {
		t.Errorf("nav cleaned %d times", got)
	}
	if _, err := f.sh.Snapshot(); err == nil {
		t.Error("snapshot of closed page succeeded")
	}
}
