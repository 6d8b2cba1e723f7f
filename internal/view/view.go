// Package view defines what a page view is, how views are registered, and
// the helpers concrete views share.
package view

import (
	"github.com/tinytelemetry/topicalguide/internal/dom"
	"github.com/tinytelemetry/topicalguide/internal/feed"
	"github.com/tinytelemetry/topicalguide/internal/router"
	"github.com/tinytelemetry/topicalguide/internal/state"
)

// Renderable views draw themselves into their container. Render may be
// called any number of times; each call produces the same DOM for the same
// model state.
type Renderable interface {
	Render()
}

// Disposable views release what they subscribed to. The page calls Cleanup
// exactly once per view, whether or not Render ran.
type Disposable interface {
	Cleanup()
}

// HelpProviding views describe themselves for the help dialog.
type HelpProviding interface {
	RenderHelpAsHTML() string
}

// View is the full contract of a mountable view.
type View interface {
	Renderable
	Disposable
	HelpProviding
	// RenderError replaces the container contents with msg.
	RenderError(msg string)
}

// Titled views supply their own page title.
type Titled interface {
	Title() string
}

// Context is what a view is constructed with.
type Context struct {
	// Name is the registered name the view was mounted under.
	Name      string
	Container *dom.Container
	App       *state.App
	Settings  *state.Settings
	Feed      *feed.Requester
	Registry  *Registry
	// Route is the route the view was mounted for.
	Route router.Route
}

// Href returns the fragment for view name with the current selection and
// the given settings.
func (c *Context) Href(name string, settings map[string]string) string {
	v := c.App.Selection.Get()
	v.View = name
	return router.Format(router.Route{}.WithSelection(v).WithSettings(settings))
}

// SelfHref returns the fragment of the mounted view with one setting
// changed.
func (c *Context) SelfHref(key, value string) string {
	return c.SelfHrefSet(map[string]string{key: value})
}

// SelfHrefSet returns the fragment of the mounted view with several settings
// changed; empty values remove their key.
func (c *Context) SelfHrefSet(updates map[string]string) string {
	r := router.Route{Params: c.Route.Params}.WithSelection(c.App.Selection.Get()).WithSettings(c.Settings.Values())
	r.View = c.Name
	for k, v := range updates {
		r = r.Set(k, v)
	}
	return router.Format(r)
}

// SelectHref returns the fragment for view name with the selection changed
// by u and no settings. Dataset and analysis changes clear the fields that
// depend on them, as Selection.Set does.
func (c *Context) SelectHref(name string, u state.Update) string {
	v := c.App.Selection.Get()
	if ds, ok := u[state.FieldDataset]; ok && ds != v.Dataset {
		v = state.Values{Dataset: ds}
	}
	if an, ok := u[state.FieldAnalysis]; ok && an != v.Analysis {
		v.Analysis, v.Topic, v.TopicNameScheme = an, "", ""
	}
	if t, ok := u[state.FieldTopic]; ok {
		v.Topic = t
	}
	if d, ok := u[state.FieldDocument]; ok {
		v.Document = d
	}
	if s, ok := u[state.FieldTopicNameScheme]; ok {
		v.TopicNameScheme = s
	}
	v.View = name
	return router.Format(router.Route{}.WithSelection(v))
}
