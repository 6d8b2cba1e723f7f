// Package router maps URL fragments to views, selections and view settings,
// and keeps the fragment in step with in-app changes.
package router

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/tinytelemetry/topicalguide/internal/state"
)

// Route is the parsed form of a fragment:
//
//	#/{view}/{dataset}/{analysis}/{param...}?topic=..&document=..&{setting}=..
type Route struct {
	View     string
	Dataset  string
	Analysis string
	Params   []string

	Topic           string
	Document        string
	TopicNameScheme string

	// Settings holds every query key that is not a selection field.
	Settings map[string]string
}

// Kind classifies a route.
type Kind int

const (
	// NoRoute means no view is named; the root view applies.
	NoRoute Kind = iota
	// FullSelection names a known view with dataset and analysis.
	FullSelection
	// PartialSelection names a known view missing dataset or analysis.
	PartialSelection
	// UnknownRoute names a view that is not registered.
	UnknownRoute
)

func (k Kind) String() string {
	switch k {
	case NoRoute:
		return "no-route"
	case FullSelection:
		return "full-selection"
	case PartialSelection:
		return "partial-selection"
	case UnknownRoute:
		return "unknown-route"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

var selectionKeys = map[string]bool{
	string(state.FieldTopic):           true,
	string(state.FieldDocument):        true,
	string(state.FieldTopicNameScheme): true,
}

// Parse reads a fragment with or without the leading "#".
func Parse(fragment string) (Route, error) {
	fragment = strings.TrimPrefix(fragment, "#")
	path, query, _ := strings.Cut(fragment, "?")
	// One leading slash belongs to the fragment; a second one is an empty
	// view segment.
	path = strings.TrimRight(strings.TrimPrefix(path, "/"), "/")

	var r Route
	if path != "" {
		raw := strings.Split(path, "/")
		segs := make([]string, len(raw))
		for i, s := range raw {
			u, err := url.PathUnescape(s)
			if err != nil {
				return Route{View: raw[0]}, fmt.Errorf("parse fragment segment %q: %w", s, err)
			}
			segs[i] = u
		}
		r.View = segs[0]
		if len(segs) > 1 {
			r.Dataset = segs[1]
		}
		if len(segs) > 2 {
			r.Analysis = segs[2]
		}
		if len(segs) > 3 {
			r.Params = segs[3:]
		}
	}

	if query != "" {
		values, err := url.ParseQuery(query)
		if err != nil {
			return r, fmt.Errorf("parse fragment query: %w", err)
		}
		for k, vs := range values {
			if len(vs) == 0 || vs[0] == "" {
				continue
			}
			switch state.Field(k) {
			case state.FieldTopic:
				r.Topic = vs[0]
			case state.FieldDocument:
				r.Document = vs[0]
			case state.FieldTopicNameScheme:
				r.TopicNameScheme = vs[0]
			default:
				if r.Settings == nil {
					r.Settings = map[string]string{}
				}
				r.Settings[k] = vs[0]
			}
		}
	}
	return r, nil
}

// Format renders r as a fragment. Parse(Format(r)) yields r. A route with
// no view but a dataset keeps its segments behind an empty view segment,
// as in "#//ds1/an1".
func Format(r Route) string {
	segs := append([]string{r.View, r.Dataset, r.Analysis}, r.Params...)
	last := -1
	for i, s := range segs {
		if s != "" {
			last = i
		}
	}
	var b strings.Builder
	b.WriteString("#/")
	for i := 0; i <= last; i++ {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(url.PathEscape(segs[i]))
	}

	q := url.Values{}
	if r.Topic != "" {
		q.Set(string(state.FieldTopic), r.Topic)
	}
	if r.Document != "" {
		q.Set(string(state.FieldDocument), r.Document)
	}
	if r.TopicNameScheme != "" {
		q.Set(string(state.FieldTopicNameScheme), r.TopicNameScheme)
	}
	for k, v := range r.Settings {
		if v != "" && !selectionKeys[k] {
			q.Set(k, v)
		}
	}
	if len(q) > 0 {
		b.WriteByte('?')
		b.WriteString(q.Encode())
	}
	return b.String()
}

// String returns the fragment form.
func (r Route) String() string { return Format(r) }

// Kind classifies r given a predicate telling registered view names.
func (r Route) Kind(known func(string) bool) Kind {
	switch {
	case r.View == "":
		return NoRoute
	case !known(r.View):
		return UnknownRoute
	case r.Dataset == "" || r.Analysis == "":
		return PartialSelection
	}
	return FullSelection
}

// Update returns the selection fields carried by r.
func (r Route) Update() state.Update {
	return state.Update{
		state.FieldView:            r.View,
		state.FieldDataset:         r.Dataset,
		state.FieldAnalysis:        r.Analysis,
		state.FieldTopic:           r.Topic,
		state.FieldDocument:        r.Document,
		state.FieldTopicNameScheme: r.TopicNameScheme,
	}
}

// WithSelection returns a copy of r carrying the selection values v.
func (r Route) WithSelection(v state.Values) Route {
	out := r.clone()
	out.View = v.View
	out.Dataset = v.Dataset
	out.Analysis = v.Analysis
	out.Topic = v.Topic
	out.Document = v.Document
	out.TopicNameScheme = v.TopicNameScheme
	return out
}

// WithSettings returns a copy of r whose settings are replaced by s. Keys
// with empty values are dropped.
func (r Route) WithSettings(s map[string]string) Route {
	out := r.clone()
	out.Settings = nil
	for k, v := range s {
		if v == "" {
			continue
		}
		if out.Settings == nil {
			out.Settings = map[string]string{}
		}
		out.Settings[k] = v
	}
	return out
}

// Set returns a copy of r with one setting changed; an empty value removes
// it.
func (r Route) Set(key, value string) Route {
	s := make(map[string]string, len(r.Settings)+1)
	for k, v := range r.Settings {
		s[k] = v
	}
	s[key] = value
	return r.WithSettings(s)
}

// SameMount reports whether r and o address the same mounted view: same
// view, dataset, analysis and path parameters.
func (r Route) SameMount(o Route) bool {
	if r.View != o.View || r.Dataset != o.Dataset || r.Analysis != o.Analysis || len(r.Params) != len(o.Params) {
		return false
	}
	for i := range r.Params {
		if r.Params[i] != o.Params[i] {
			return false
		}
	}
	return true
}

func (r Route) clone() Route {
	out := r
	out.Params = append([]string(nil), r.Params...)
	if len(out.Params) == 0 {
		out.Params = nil
	}
	if r.Settings != nil {
		out.Settings = make(map[string]string, len(r.Settings))
		for k, v := range r.Settings {
			out.Settings[k] = v
		}
	}
	return out
}

// SettingKeys returns the setting keys in sorted order.
func (r Route) SettingKeys() []string {
	keys := make([]string, 0, len(r.Settings))
	for k := range r.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
