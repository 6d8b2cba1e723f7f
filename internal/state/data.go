package state

import (
	"github.com/tinytelemetry/topicalguide/internal/model"
)

// Data holds server-side facts fetched once and shared by every view: the
// dataset/analysis catalog and the topic names of the selected analysis.
type Data struct {
	sel        *Selection
	catalog    model.Catalog
	topicNames model.TopicNames
	namesFor   [2]string
	observers  observers[struct{}]
}

// NewData returns an empty data model reading name schemes from sel.
func NewData(sel *Selection) *Data {
	return &Data{sel: sel}
}

// SetCatalog replaces the catalog and notifies observers.
func (d *Data) SetCatalog(c model.Catalog) {
	d.catalog = c
	d.observers.notify(struct{}{})
}

// Catalog returns the catalog, possibly nil before it has loaded.
func (d *Data) Catalog() model.Catalog { return d.catalog }

// Loaded reports whether a catalog is present.
func (d *Data) Loaded() bool { return d.catalog != nil }

// DatasetName returns the readable name of dataset ds.
func (d *Data) DatasetName(ds string) string {
	if v, ok := d.catalog[ds]; ok {
		return v.ReadableName()
	}
	return ds
}

// AnalysisName returns the readable name of analysis an of dataset ds.
func (d *Data) AnalysisName(ds, an string) string {
	if a, ok := d.catalog[ds].Analyses[an]; ok {
		return a.ReadableName()
	}
	return an
}

// NameSchemes returns the topic name schemes of the selected analysis.
func (d *Data) NameSchemes() []string {
	v := d.sel.Get()
	return d.catalog[v.Dataset].Analyses[v.Analysis].TopicNameSchemes
}

// SetTopicNames stores the topic names of analysis an of dataset ds.
func (d *Data) SetTopicNames(ds, an string, names model.TopicNames) {
	d.namesFor = [2]string{ds, an}
	d.topicNames = names
	d.observers.notify(struct{}{})
}

// HasTopicNames reports whether names for ds/an are loaded.
func (d *Data) HasTopicNames(ds, an string) bool {
	return d.topicNames != nil && d.namesFor == [2]string{ds, an}
}

// TopicName returns the display name of topic n under the selected scheme.
func (d *Data) TopicName(n int) string {
	v := d.sel.Get()
	scheme := v.TopicNameScheme
	if scheme == "" {
		scheme = model.DefaultTopicNameScheme
	}
	var names model.TopicNames
	if d.namesFor == [2]string{v.Dataset, v.Analysis} {
		names = d.topicNames
	}
	return names.Name(n, scheme)
}

// Subscribe registers fn, called whenever catalog or names change.
func (d *Data) Subscribe(fn func()) *Subscription {
	return d.observers.add(func(struct{}) { fn() })
}
