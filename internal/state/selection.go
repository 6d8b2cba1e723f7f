package state

import (
	"log"
	"sort"
)

// Field names a selection attribute. The string values double as the query
// keys used in route fragments.
type Field string

const (
	FieldDataset         Field = "dataset"
	FieldAnalysis        Field = "analysis"
	FieldTopic           Field = "topic"
	FieldDocument        Field = "document"
	FieldTopicNameScheme Field = "topicNameScheme"
	FieldView            Field = "view"
)

// Fields lists every selection field.
var Fields = []Field{FieldView, FieldDataset, FieldAnalysis, FieldTopic, FieldDocument, FieldTopicNameScheme}

// Values is a snapshot of the current selection.
type Values struct {
	View            string
	Dataset         string
	Analysis        string
	Topic           string
	Document        string
	TopicNameScheme string
}

// Get returns the value of field f.
func (v Values) Get(f Field) string {
	switch f {
	case FieldView:
		return v.View
	case FieldDataset:
		return v.Dataset
	case FieldAnalysis:
		return v.Analysis
	case FieldTopic:
		return v.Topic
	case FieldDocument:
		return v.Document
	case FieldTopicNameScheme:
		return v.TopicNameScheme
	}
	return ""
}

func (v *Values) set(f Field, val string) {
	switch f {
	case FieldView:
		v.View = val
	case FieldDataset:
		v.Dataset = val
	case FieldAnalysis:
		v.Analysis = val
	case FieldTopic:
		v.Topic = val
	case FieldDocument:
		v.Document = val
	case FieldTopicNameScheme:
		v.TopicNameScheme = val
	}
}

// Update maps fields to their new values. An empty value clears the field.
type Update map[Field]string

// Change describes one Set call that modified the selection.
type Change struct {
	Prev, Next Values
	Fields     []Field
}

// Changed reports whether field f differs between Prev and Next.
func (c Change) Changed(f Field) bool {
	return c.Prev.Get(f) != c.Next.Get(f)
}

// Selection is the observable current selection: view, dataset, analysis,
// topic, document and topic name scheme. Observers are notified
// synchronously, once per Set that changes anything.
type Selection struct {
	values    Values
	observers observers[Change]
	notifying bool
}

// NewSelection returns an empty selection.
func NewSelection() *Selection { return &Selection{} }

// Get returns the current values.
func (s *Selection) Get() Values { return s.values }

// Set applies u. Changing the dataset clears analysis, topic, document and
// topic name scheme; changing the analysis clears topic and topic name
// scheme. Fields named in u are applied after the cascade, so an update may
// change dataset and analysis together.
func (s *Selection) Set(u Update) error {
	if s.notifying {
		log.Printf("state: selection: rejected reentrant set %v", u)
		return ErrReentrantSet
	}
	prev := s.values
	next := prev

	if ds, ok := u[FieldDataset]; ok && ds != next.Dataset {
		next.Dataset = ds
		next.Analysis, next.Topic, next.Document, next.TopicNameScheme = "", "", "", ""
	}
	if an, ok := u[FieldAnalysis]; ok && an != next.Analysis {
		next.Analysis = an
		next.Topic, next.TopicNameScheme = "", ""
	}
	for f, val := range u {
		if f == FieldDataset || f == FieldAnalysis {
			continue
		}
		next.set(f, val)
	}

	var changed []Field
	for _, f := range Fields {
		if prev.Get(f) != next.Get(f) {
			changed = append(changed, f)
		}
	}
	if len(changed) == 0 {
		return nil
	}
	s.values = next

	s.notifying = true
	defer func() { s.notifying = false }()
	s.observers.notify(Change{Prev: prev, Next: next, Fields: changed})
	return nil
}

// Subscribe registers fn for change notifications.
func (s *Selection) Subscribe(fn func(Change)) *Subscription {
	return s.observers.add(fn)
}

// Subscribers returns the number of registered observers.
func (s *Selection) Subscribers() int { return s.observers.len() }

// SelectFirst picks the alphabetically first dataset and analysis from
// catalog when they are unset, or unconditionally when override is true.
func (s *Selection) SelectFirst(datasets map[string][]string, override bool) error {
	cur := s.values
	u := Update{}
	ds := cur.Dataset
	if ds == "" || override {
		names := make([]string, 0, len(datasets))
		for n := range datasets {
			names = append(names, n)
		}
		sort.Strings(names)
		if len(names) == 0 {
			return nil
		}
		ds = names[0]
		u[FieldDataset] = ds
	}
	if cur.Analysis == "" || override || ds != cur.Dataset {
		analyses := append([]string(nil), datasets[ds]...)
		sort.Strings(analyses)
		if len(analyses) > 0 {
			u[FieldAnalysis] = analyses[0]
		}
	}
	return s.Set(u)
}
