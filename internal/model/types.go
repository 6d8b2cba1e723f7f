package model

import (
	"fmt"
	"sort"
)

// PageResult is one page of a paginated feed. Results are never merged:
// every request produces a fresh value.
type PageResult[T any] struct {
	Items    []T
	Page     int
	NumPages int
}

// Normalize clamps the page bookkeeping so that 1 <= Page <= NumPages.
// Servers answer an empty listing with num_pages 0.
func (p PageResult[T]) Normalize() PageResult[T] {
	if p.NumPages < 1 {
		p.NumPages = 1
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > p.NumPages {
		p.Page = p.NumPages
	}
	return p
}

// HasPrev reports whether a previous page exists.
func (p PageResult[T]) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p PageResult[T]) HasNext() bool { return p.Page < p.NumPages }

// Document is a document reference as served by document feeds.
type Document struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Topic is a topic reference as served by topic feeds.
type Topic struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// Word is a vocabulary entry.
type Word struct {
	Type string `json:"type"`
}

// AttributeValue is a single value of a document attribute.
type AttributeValue struct {
	Value string `json:"value"`
}

// ScoredDocument pairs a similar document with its similarity value.
type ScoredDocument struct {
	Document
	Value float64
}

// ScoredTopic pairs a similar topic with its similarity value.
type ScoredTopic struct {
	Topic
	Value float64
}

// WordContext is one occurrence of a word with the text around it.
type WordContext struct {
	Word         string `json:"word"`
	DocID        string `json:"doc_id"`
	DocName      string `json:"doc_name"`
	LeftContext  string `json:"left_context"`
	RightContext string `json:"right_context"`
}

// TopicAttributeValue is one attribute value's share of a topic.
type TopicAttributeValue struct {
	Value   string  `json:"value"`
	Count   float64 `json:"count"`
	Percent float64 `json:"percent"`
}

// TopicAttributeValues is the attrvaltopic feed payload.
type TopicAttributeValues struct {
	Attribute string                `json:"attribute"`
	Values    []TopicAttributeValue `json:"values"`
}

// WordCount is a word type with the number of a topic's tokens it accounts
// for.
type WordCount struct {
	Word  string
	Count float64
}

// DocumentCount is a document with the number of a topic's tokens in it.
type DocumentCount struct {
	Document string
	Count    float64
}

// TopicCount is a topic with the number of a document's tokens assigned
// to it.
type TopicCount struct {
	Topic int
	Count float64
}

// TopicDetail is one topic as answered by the query API. Words and
// Documents are sorted by descending count.
type TopicDetail struct {
	Number    int
	Names     map[string]string
	Metrics   map[string]any
	Words     []WordCount
	Documents []DocumentCount
}

// TokenCount returns the "Token Count" metric, or the sum of the word
// counts when the metric is missing.
func (t TopicDetail) TokenCount() float64 {
	if v, ok := t.Metrics["Token Count"].(float64); ok && v > 0 {
		return v
	}
	var sum float64
	for _, w := range t.Words {
		sum += w.Count
	}
	return sum
}

// DocumentDetail is one document as answered by the query API. Topics are
// sorted by descending count.
type DocumentDetail struct {
	ID       string
	Text     string
	Metadata map[string]any
	Metrics  map[string]any
	Topics   []TopicCount
}

// Analysis is one analysis of a dataset as listed by the catalog query.
type Analysis struct {
	Name             string
	Metadata         map[string]any
	Metrics          map[string]any
	TopicNameSchemes []string
}

// ReadableName returns metadata.readable_name, falling back to the name.
func (a Analysis) ReadableName() string {
	return readableName(a.Name, a.Metadata)
}

// Dataset is one dataset of the catalog with its analyses.
type Dataset struct {
	Name     string
	Metadata map[string]any
	Metrics  map[string]any
	Analyses map[string]Analysis
}

// ReadableName returns metadata.readable_name, falling back to the name.
func (d Dataset) ReadableName() string {
	return readableName(d.Name, d.Metadata)
}

// AnalysisNames returns the analysis names in sorted order.
func (d Dataset) AnalysisNames() []string {
	names := make([]string, 0, len(d.Analyses))
	for n := range d.Analyses {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Catalog is the set of datasets known to the server.
type Catalog map[string]Dataset

// DatasetNames returns the dataset names in sorted order.
func (c Catalog) DatasetNames() []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func readableName(name string, metadata map[string]any) string {
	if v, ok := metadata["readable_name"].(string); ok && v != "" {
		return v
	}
	return name
}

// TopicNames maps topic numbers to their names under each name scheme.
type TopicNames map[int]map[string]string

// Name returns the display name of topic n under scheme. Topics without a
// name under the scheme are shown by number.
func (t TopicNames) Name(n int, scheme string) string {
	if names, ok := t[n]; ok {
		if name := names[scheme]; name != "" {
			return fmt.Sprintf("%s (#%d)", name, n)
		}
	}
	return fmt.Sprintf("Topic #%d", n)
}
