package views

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/tinytelemetry/topicalguide/internal/feed"
	"github.com/tinytelemetry/topicalguide/internal/shell"
	"github.com/tinytelemetry/topicalguide/internal/state"
)

const catalogJSON = `{"datasets":{"ds1":{"metadata":{"readable_name":"Dataset One"},"analyses":{"an1":{"metadata":{"readable_name":"Analysis One"},"topic_name_schemes":["Top3"]}}}}}`

const namesJSON = `{"datasets":{"ds1":{"analyses":{"an1":{"topics":{"0":{"names":{"Top3":"war peace army"}},"1":{"names":{"Top3":"tax budget spend"}}}}}}}}`

// backend serves canned feed responses and records every request path.
type backend struct {
	mu       sync.Mutex
	paths    []string
	handlers map[string]http.HandlerFunc
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.paths = append(b.paths, r.URL.Path)
	handlers := b.handlers
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path == "/api" {
		q := r.URL.Query()
		switch {
		case q.Get("topic_attr") == "names":
			fmt.Fprint(w, namesJSON)
		case q.Get("topics") == "" && q.Get("documents") == "":
			fmt.Fprint(w, catalogJSON)
		case handlers["/api"] != nil:
			handlers["/api"](w, r)
		default:
			http.NotFound(w, r)
		}
		return
	}
	for prefix, h := range handlers {
		if strings.HasPrefix(r.URL.Path, prefix) {
			h(w, r)
			return
		}
	}
	http.NotFound(w, r)
}

func (b *backend) requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.paths)
}

func (b *backend) requested(path string) bool {
	return slices.Contains(b.requests(), path)
}

func wordPageHandler(w http.ResponseWriter, r *http.Request) {
	n := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	fmt.Fprintf(w, `{"words":[{"type":"w%sa"},{"type":"w%sb"}],"page":%s,"num_pages":5}`, n, n, n)
}

func newTestShell(t *testing.T, handlers map[string]http.HandlerFunc) (*shell.Shell, *backend) {
	t.Helper()
	b := &backend{handlers: handlers}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	client, err := feed.NewClient(srv.URL, feed.Options{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	sh, err := shell.New(ShellOptions(reg, client, state.NewMemoryStore()))
	if err != nil {
		t.Fatalf("shell.New: %v", err)
	}
	t.Cleanup(sh.Close)
	return sh, b
}

func navigate(t *testing.T, sh *shell.Shell, fragment string) shell.Snapshot {
	t.Helper()
	sh.Navigate(fragment)
	return settle(t, sh)
}

func settle(t *testing.T, sh *shell.Shell) shell.Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sh.Idle(ctx); err != nil {
		t.Fatalf("page did not settle: %v", err)
	}
	snap, err := sh.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	return snap
}

func parse(t *testing.T, fragment string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func texts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) { out = append(out, strings.TrimSpace(s.Text())) })
	return out
}

func TestWordsThenSimilarDocuments(t *testing.T) {
	t.Parallel()

	sh, b := newTestShell(t, map[string]http.HandlerFunc{
		"/feeds/word-page/": wordPageHandler,
		"/feeds/similar-documents/": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"documents":[{"id":"doc42","name":"Doc 42"},{"id":"doc7","name":"Doc 7"}],"values":[1,0.8765]}`)
		},
	})

	snap := navigate(t, sh, "#/words/ds1/an1")
	if snap.View != "words" || snap.Title != "Topical Guide | Words" {
		t.Fatalf("view %q title %q", snap.View, snap.Title)
	}
	main := parse(t, snap.Main)
	if got := strings.TrimSpace(main.Find(".tg-page-status").Text()); got != "Page 1 of 5" {
		t.Errorf("pager status = %q", got)
	}
	if got := texts(main.Find("ul.tg-words li a")); !cmp.Equal(got, []string{"w1a", "w1b"}) {
		t.Errorf("words = %v", got)
	}

	snap = navigate(t, sh, "#/similar-documents/ds1/an1?document=doc42&measure=cosine")
	if !b.requested("/feeds/similar-documents/datasets/ds1/analyses/an1/documents/doc42/measures/cosine") {
		t.Fatalf("similar documents feed not requested; got %v", b.requests())
	}
	if snap.Fragment != "#/similar-documents/ds1/an1?document=doc42&measure=cosine" {
		t.Errorf("fragment = %q", snap.Fragment)
	}
	main = parse(t, snap.Main)
	if got := texts(main.Find("table.tg-similar tbody td.tg-value")); !cmp.Equal(got, []string{"1.00", "0.88"}) {
		t.Errorf("values = %v", got)
	}
	if got := texts(main.Find("table.tg-similar tbody td a")); !cmp.Equal(got, []string{"Doc 42", "Doc 7"}) {
		t.Errorf("documents = %v", got)
	}

	crumbs := parse(t, snap.HTML)
	if got := strings.TrimSpace(crumbs.Find(".tg-crumb-dataset a").Text()); got != "Dataset One" {
		t.Errorf("dataset crumb = %q", got)
	}
}

func TestSelectingAnotherDocumentRefetches(t *testing.T) {
	t.Parallel()

	sh, b := newTestShell(t, map[string]http.HandlerFunc{
		"/feeds/similar-documents/": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"documents":[{"id":"doc7","name":"Doc 7"}],"values":[0.5]}`)
		},
	})
	navigate(t, sh, "#/similar-documents/ds1/an1?document=doc42")

	var href string
	err := sh.Do(func(p *shell.Page) {
		href, _ = p.Main().Query().Find("table.tg-similar tbody a").First().Attr("href")
	})
	if err != nil {
		t.Fatal(err)
	}
	snap := navigate(t, sh, href)
	if snap.View != "similar-documents" {
		t.Fatalf("view = %q", snap.View)
	}
	if !b.requested("/feeds/similar-documents/datasets/ds1/analyses/an1/documents/doc7/measures/cosine") {
		t.Errorf("doc7 not requested; got %v", b.requests())
	}
}

func TestLatestPageWins(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	sh, _ := newTestShell(t, map[string]http.HandlerFunc{
		"/feeds/word-page/": func(w http.ResponseWriter, r *http.Request) {
			switch {
			case strings.HasSuffix(r.URL.Path, "/number/2"):
				select {
				case <-release:
				case <-time.After(5 * time.Second):
				}
			case strings.HasSuffix(r.URL.Path, "/number/3"):
				defer close(release)
			}
			wordPageHandler(w, r)
		},
	})

	navigate(t, sh, "#/words/ds1/an1")
	sh.Navigate("#/words/ds1/an1?page=2")
	snap := navigate(t, sh, "#/words/ds1/an1?page=3")

	main := parse(t, snap.Main)
	if got := strings.TrimSpace(main.Find(".tg-page-status").Text()); got != "Page 3 of 5" {
		t.Errorf("pager status = %q", got)
	}
	if got := texts(main.Find("ul.tg-words li a")); !cmp.Equal(got, []string{"w3a", "w3b"}) {
		t.Errorf("words = %v", got)
	}
}

// waitRequested blocks until the backend has seen path.
func waitRequested(t *testing.T, b *backend, path string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !b.requested(path) {
		if time.Now().After(deadline) {
			t.Fatalf("%s not requested; got %v", path, b.requests())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDocumentChangeDropsOlderList(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	var once sync.Once
	sh, b := newTestShell(t, map[string]http.HandlerFunc{
		"/feeds/document-page/": func(w http.ResponseWriter, r *http.Request) {
			if strings.Contains(r.URL.Path, "/documents/docA/") {
				select {
				case <-release:
				case <-time.After(5 * time.Second):
				}
				fmt.Fprint(w, `{"documents":[{"id":"docA","name":"STALE A"}],"page":1,"num_pages":1}`)
				return
			}
			defer once.Do(func() { close(release) })
			fmt.Fprint(w, `{"documents":[{"id":"docB","name":"Doc B"}],"page":1,"num_pages":1}`)
		},
	})

	sh.Navigate("#/documents/ds1/an1?document=docA")
	waitRequested(t, b, "/feeds/document-page/datasets/ds1/analyses/an1/documents/docA/number/1")
	snap := navigate(t, sh, "#/documents/ds1/an1?document=docB")

	if snap.Fragment != "#/documents/ds1/an1?document=docB" {
		t.Errorf("fragment = %q", snap.Fragment)
	}
	main := parse(t, snap.Main)
	if got := texts(main.Find("ul.tg-documents li a")); !cmp.Equal(got, []string{"Doc B"}) {
		t.Errorf("documents = %v", got)
	}
	if strings.Contains(snap.Main, "STALE A") {
		t.Errorf("older document list was drawn: %s", snap.Main)
	}
	if n := main.Find("#tg-document-list").Length(); n != 1 {
		t.Errorf("document list elements = %d", n)
	}
}

func TestFavoriteChangeDropsOlderTopicList(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	calls := 0
	release := make(chan struct{})
	var once sync.Once
	sh, b := newTestShell(t, map[string]http.HandlerFunc{
		"/feeds/topic-page/": func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			if n == 1 {
				select {
				case <-release:
				case <-time.After(5 * time.Second):
				}
				fmt.Fprint(w, `{"topics":[{"number":0,"name":"stale topic"}],"page":1,"num_pages":1}`)
				return
			}
			defer once.Do(func() { close(release) })
			fmt.Fprint(w, `{"topics":[{"number":0,"name":"fresh topic"},{"number":1,"name":"other topic"}],"page":1,"num_pages":1}`)
		},
	})

	sh.Navigate("#/topics/ds1/an1")
	waitRequested(t, b, "/feeds/topic-page/datasets/ds1/analyses/an1/number/1")
	err := sh.Do(func(p *shell.Page) {
		if err := p.App().Favorites.Add(state.KindTopics, "0"); err != nil {
			t.Error(err)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	snap := settle(t, sh)

	main := parse(t, snap.Main)
	if got := texts(main.Find("ul.tg-list li a")); !cmp.Equal(got, []string{"fresh topic", "other topic"}) {
		t.Errorf("topics = %v", got)
	}
	if strings.Contains(snap.Main, "stale topic") {
		t.Errorf("older topic list was drawn: %s", snap.Main)
	}
	starred := main.Find(`li[data-topic="0"] form.tg-fav button`).Text()
	if strings.TrimSpace(starred) != "★" {
		t.Errorf("favorite marker = %q", starred)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	t.Parallel()

	sh, _ := newTestShell(t, nil)
	navigate(t, sh, "#/datasets")

	var first, second string
	err := sh.Do(func(p *shell.Page) {
		first = p.Main().HTML()
		p.Active().Render()
		second = p.Main().HTML()
	})
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("render changed output:\n%s", cmp.Diff(first, second))
	}
	if !strings.Contains(first, "Dataset One") {
		t.Errorf("datasets not listed: %s", first)
	}
}

func TestCleanedUpViewIgnoresSelection(t *testing.T) {
	t.Parallel()

	sh, _ := newTestShell(t, map[string]http.HandlerFunc{
		"/feeds/similar-documents/": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"documents":[],"values":[]}`)
		},
	})
	navigate(t, sh, "#/similar-documents/ds1/an1?document=doc42")

	var before string
	err := sh.Do(func(p *shell.Page) {
		p.Active().Cleanup()
		before = p.Main().HTML()
		_ = p.App().Selection.Set(state.Update{state.FieldDocument: "doc7"})
	})
	if err != nil {
		t.Fatal(err)
	}
	snap := settle(t, sh)
	if snap.Main != before {
		t.Errorf("cleaned up view redrew:\n%s", cmp.Diff(before, snap.Main))
	}
}

func TestUnknownViewShowsFallback(t *testing.T) {
	t.Parallel()

	sh, _ := newTestShell(t, nil)
	snap := navigate(t, sh, "#/nope/ds1/an1")
	if snap.Title != "Topical Guide | Not Found" {
		t.Errorf("title = %q", snap.Title)
	}
	got := strings.TrimSpace(parse(t, snap.Main).Find(".tg-not-found p").First().Text())
	if got != `There is no view named "nope".` {
		t.Errorf("message = %q", got)
	}
}

func TestFeedErrorIsShown(t *testing.T) {
	t.Parallel()

	sh, _ := newTestShell(t, map[string]http.HandlerFunc{
		"/feeds/similar-topics/": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"error":"no such topic"}`)
		},
	})
	snap := navigate(t, sh, "#/similar-topics/ds1/an1?topic=0")
	got := strings.TrimSpace(parse(t, snap.Main).Find(".tg-error").Text())
	if got != "Oops, there was a server error: no such topic" {
		t.Errorf("error = %q", got)
	}
}

func TestViewsNeedAnAnalysis(t *testing.T) {
	t.Parallel()

	sh, b := newTestShell(t, nil)
	snap := navigate(t, sh, "#/words/ds1")
	if !strings.Contains(snap.Main, "Select an analysis of") {
		t.Errorf("main = %s", snap.Main)
	}
	for _, p := range b.requests() {
		if strings.HasPrefix(p, "/feeds/") {
			t.Errorf("unexpected feed request %s", p)
		}
	}
}

func TestTopicAttributes(t *testing.T) {
	t.Parallel()

	sh, b := newTestShell(t, map[string]http.HandlerFunc{
		"/feeds/attrvaltopic/": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"attribute":"year","values":[{"value":"1999","count":12,"percent":60},{"value":"2000","count":8,"percent":40}]}`)
		},
	})
	// Load the topic names first so the heading is deterministic.
	navigate(t, sh, "#/datasets/ds1/an1")
	snap := navigate(t, sh, "#/topic-attributes/ds1/an1?topic=0")
	if !b.requested("/feeds/attrvaltopic/datasets/ds1/analyses/an1/topics/0/attributes/year/order-by/percent") {
		t.Fatalf("attrvaltopic not requested; got %v", b.requests())
	}
	main := parse(t, snap.Main)
	var pcts []string
	main.Find("table.tg-topic-attributes tbody tr").Each(func(_ int, s *goquery.Selection) {
		v, _ := s.Attr("data-percent")
		pcts = append(pcts, v)
	})
	if !cmp.Equal(pcts, []string{"60.00", "40.00"}) {
		t.Errorf("percents = %v", pcts)
	}
	if got := strings.TrimSpace(main.Find("h2").Text()); got != "war peace army (#0) by year" {
		t.Errorf("heading = %q", got)
	}
}

func TestFavoritesView(t *testing.T) {
	t.Parallel()

	sh, _ := newTestShell(t, nil)
	navigate(t, sh, "#/favorites/ds1/an1")
	err := sh.Do(func(p *shell.Page) {
		favs := p.App().Favorites
		if err := favs.Add(state.KindDatasets, "ds1"); err != nil {
			t.Error(err)
		}
		if err := favs.Add(state.KindTopics, "1"); err != nil {
			t.Error(err)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	snap := settle(t, sh)
	main := parse(t, snap.Main)
	if got := texts(main.Find(`ul[data-kind="datasets"] li a`)); !cmp.Equal(got, []string{"Dataset One"}) {
		t.Errorf("datasets = %v", got)
	}
	if got := texts(main.Find(`ul[data-kind="topics"] li a`)); !cmp.Equal(got, []string{"tax budget spend (#1)"}) {
		t.Errorf("topics = %v", got)
	}
}

func TestEveryViewHasHelp(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	sh, _ := newTestShell(t, nil)
	for _, name := range reg.Names() {
		navigate(t, sh, "#/"+name+"/ds1/an1")
		var help string
		if err := sh.Do(func(p *shell.Page) { help = p.Help() }); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(help, "<h1") {
			t.Errorf("%s help = %q", name, help)
		}
	}
}

const topicJSON = `{"datasets":{"ds1":{"analyses":{"an1":{"topics":{"0":{
	"metrics":{"Token Count":40,"Coherence":-1.25},
	"names":{"Top3":"war peace army"},
	"words":{"war":{"token_count":12},"peace":{"token_count":8}},
	"top_n_documents":{"doc7":{"token_count":10},"doc42":{"token_count":30}}}}}}}}}`

const documentJSON = `{"datasets":{"ds1":{"analyses":{"an1":{"documents":{"doc42":{
	"text":"Fellow citizens.\nWe meet again.",
	"metadata":{"year":1790},
	"metrics":{"Length in Characters":31},
	"topics":{"1":3,"0":9}}}}}}}}`

func TestSingleTopic(t *testing.T) {
	t.Parallel()

	sh, _ := newTestShell(t, map[string]http.HandlerFunc{
		"/api": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("topics") != "0" || q.Get("top_n_words") != "10" || q.Get("top_n_documents") != "10" {
				http.Error(w, "unexpected query "+r.URL.RawQuery, http.StatusBadRequest)
				return
			}
			fmt.Fprint(w, topicJSON)
		},
	})
	// Load the topic names first so the heading is deterministic.
	navigate(t, sh, "#/datasets/ds1/an1")
	snap := navigate(t, sh, "#/topic/ds1/an1?topic=0")
	if snap.Title != "Topical Guide | Single Topic" {
		t.Errorf("title = %q", snap.Title)
	}
	main := parse(t, snap.Main)
	if got := strings.TrimSpace(main.Find("h2").Text()); !strings.HasPrefix(got, "Topic: war peace army (#0)") {
		t.Errorf("heading = %q", got)
	}
	if got := texts(main.Find("ol.tg-topic-words li a")); !cmp.Equal(got, []string{"war", "peace"}) {
		t.Errorf("words = %v", got)
	}
	if href, _ := main.Find("ol.tg-topic-words li a").First().Attr("href"); href != "#/word-in-context/ds1/an1/war?topic=0" {
		t.Errorf("word href = %q", href)
	}
	if got := texts(main.Find("table.tg-topic-documents tbody td a")); !cmp.Equal(got, []string{"doc42", "doc7"}) {
		t.Errorf("documents = %v", got)
	}
	var pcts []string
	main.Find("table.tg-topic-documents tbody tr").Each(func(_ int, tr *goquery.Selection) {
		pcts = append(pcts, strings.TrimSpace(tr.Find("td.tg-value").Last().Text()))
	})
	if !cmp.Equal(pcts, []string{"75.00", "25.00"}) {
		t.Errorf("percents = %v", pcts)
	}
	if got := texts(main.Find("table.tg-metrics td")); !cmp.Equal(got, []string{"-1.25", "40"}) {
		t.Errorf("metrics = %v", got)
	}
}

func TestSingleTopicPromptsAndMissing(t *testing.T) {
	t.Parallel()

	sh, _ := newTestShell(t, map[string]http.HandlerFunc{
		"/api": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"datasets":{"ds1":{"analyses":{"an1":{"topics":{}}}}}}`)
		},
	})
	snap := navigate(t, sh, "#/topic/ds1/an1")
	if got := strings.TrimSpace(parse(t, snap.Main).Find(".tg-prompt").Text()); got != "No topic selected. Choose a topic" {
		t.Errorf("prompt = %q", got)
	}
	snap = navigate(t, sh, "#/topic/ds1/an1?topic=9")
	main := parse(t, snap.Main)
	if got := strings.TrimSpace(main.Find(".tg-prompt").Text()); got != "Topic 9 does not exist. Choose a topic" {
		t.Errorf("missing prompt = %q", got)
	}
	if main.Find(".tg-error").Length() != 0 {
		t.Errorf("missing topic shown as server error: %s", snap.Main)
	}
}

func TestDocumentInformation(t *testing.T) {
	t.Parallel()

	sh, _ := newTestShell(t, map[string]http.HandlerFunc{
		"/api": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("document_attr"); got != "text,metadata,metrics,top_n_topics" {
				http.Error(w, "unexpected document_attr "+got, http.StatusBadRequest)
				return
			}
			fmt.Fprint(w, documentJSON)
		},
	})
	navigate(t, sh, "#/datasets/ds1/an1")
	snap := navigate(t, sh, "#/document/ds1/an1?document=doc42")
	main := parse(t, snap.Main)
	if got := texts(main.Find(".tg-document-text p")); !cmp.Equal(got, []string{"Fellow citizens.", "We meet again."}) {
		t.Errorf("text = %v", got)
	}
	if got := texts(main.Find("table.tg-document-topics tbody td a")); !cmp.Equal(got, []string{"war peace army (#0)", "tax budget spend (#1)"}) {
		t.Errorf("topics = %v", got)
	}
	if href, _ := main.Find("table.tg-document-topics tbody td a").First().Attr("href"); href != "#/topic/ds1/an1?document=doc42&topic=0" {
		t.Errorf("topic href = %q", href)
	}
	if got := strings.TrimSpace(main.Find("ul.tg-tabs li.selected").Text()); got != "Text" {
		t.Errorf("selected tab = %q", got)
	}

	snap = navigate(t, sh, "#/document/ds1/an1?document=doc42&tab=metadata")
	main = parse(t, snap.Main)
	if main.Find(".tg-document-text").Length() != 0 {
		t.Error("text shown on the metadata tab")
	}
	if got := texts(main.Find(".tg-document-metadata table.tg-metrics td")); !cmp.Equal(got, []string{"1790", "31"}) {
		t.Errorf("metadata and metrics = %v", got)
	}
}

func TestDocumentFavoriteToggleRedraws(t *testing.T) {
	t.Parallel()

	sh, _ := newTestShell(t, map[string]http.HandlerFunc{
		"/api": func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, documentJSON) },
	})
	navigate(t, sh, "#/document/ds1/an1?document=doc42")
	err := sh.Do(func(p *shell.Page) {
		if err := p.App().Favorites.Add(state.KindDocuments, "doc42"); err != nil {
			t.Error(err)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	snap := settle(t, sh)
	if got := strings.TrimSpace(parse(t, snap.Main).Find("h2 form.tg-fav button").Text()); got != "★" {
		t.Errorf("favorite marker = %q", got)
	}
}
