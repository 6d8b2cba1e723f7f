// Package views holds the concrete Topical Guide views and the page chrome.
package views

import (
	"github.com/tinytelemetry/topicalguide/internal/feed"
	"github.com/tinytelemetry/topicalguide/internal/model"
	"github.com/tinytelemetry/topicalguide/internal/shell"
	"github.com/tinytelemetry/topicalguide/internal/view"
)

// Menu categories.
var (
	topicsMenu    = []string{"Topics"}
	documentsMenu = []string{"Documents"}
	wordsMenu     = []string{"Words"}
	topLevel      = []string{}
)

// Register adds every view to reg. It returns the first registration error.
func Register(reg *view.Registry) error {
	if err := reg.SetRootViewClass(view.Descriptor{Name: "home", ReadableName: "Home", New: newHomeView}); err != nil {
		return err
	}
	entries := []struct {
		category []string
		desc     view.Descriptor
	}{
		{topLevel, view.Descriptor{Name: "datasets", ReadableName: "Datasets", New: newDatasetsView}},
		{topicsMenu, view.Descriptor{Name: "topics", ReadableName: "Topics", New: newTopicsView}},
		{topicsMenu, view.Descriptor{Name: "topic", ReadableName: "Single Topic", New: newTopicView}},
		{topicsMenu, view.Descriptor{Name: "similar-topics", ReadableName: "Similar Topics", New: newSimilarTopicsView}},
		{topicsMenu, view.Descriptor{Name: "topic-attributes", ReadableName: "Attribute Values", New: newTopicAttributesView}},
		{documentsMenu, view.Descriptor{Name: "documents", ReadableName: "Documents", New: newDocumentsView}},
		{documentsMenu, view.Descriptor{Name: "document", ReadableName: "Document Information", New: newDocumentView}},
		{documentsMenu, view.Descriptor{Name: "similar-documents", ReadableName: "Similar Documents", New: newSimilarDocumentsView}},
		{documentsMenu, view.Descriptor{Name: "attributes", ReadableName: "Attributes", New: newAttributesView}},
		{wordsMenu, view.Descriptor{Name: "words", ReadableName: "Words", New: newWordsView}},
		{wordsMenu, view.Descriptor{Name: "word-in-context", ReadableName: "Word in Context", New: newWordInContextView}},
		{topLevel, view.Descriptor{Name: "favorites", ReadableName: "Favorites", New: newFavoritesView}},
	}
	for _, e := range entries {
		if err := reg.AddViewClass(e.category, e.desc); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry with every view registered.
func NewRegistry() (*view.Registry, error) {
	reg := view.NewRegistry()
	if err := Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// ShellOptions returns page options using these views for chrome and
// fallback.
func ShellOptions(reg *view.Registry, client *feed.Client, store model.KVStore) shell.Options {
	return shell.Options{
		Registry:    reg,
		Feed:        client,
		Store:       store,
		Nav:         newNavView,
		Breadcrumbs: newBreadcrumbsView,
		Fallback:    newUnknownView,
	}
}

func rootHref(ctx *view.Context) string {
	return ctx.Href(ctx.Registry.Root().Name, nil)
}
