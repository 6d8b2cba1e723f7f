package feed

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tinytelemetry/topicalguide/internal/model"
)

// Dispatcher runs blocking work off the page loop and posts the returned
// continuation back onto it.
type Dispatcher interface {
	Go(work func() func())
}

// Guard reports whether the requester of a fetch still wants the result.
// Container tokens satisfy it.
type Guard interface {
	Valid() bool
}

// Requester issues fetches on behalf of one page. Callbacks run on the
// page's loop, never concurrently with each other.
type Requester struct {
	ctx    context.Context
	client *Client
	d      Dispatcher
}

// Bind returns a requester delivering results through d. Requests are
// abandoned when ctx is done.
func (c *Client) Bind(ctx context.Context, d Dispatcher) *Requester {
	return &Requester{ctx: ctx, client: c, d: d}
}

// Client returns the underlying client.
func (r *Requester) Client() *Client { return r.client }

// Fetch requests path. Exactly one of onSuccess and onError runs, unless the
// guard is no longer valid when the response arrives, in which case the
// response is dropped. A nil guard always delivers.
func (r *Requester) Fetch(guard Guard, path string, onSuccess func([]byte), onError func(error)) {
	r.d.Go(func() func() {
		body, err := r.client.Get(r.ctx, path)
		return func() {
			if guard != nil && !guard.Valid() {
				return
			}
			if err != nil {
				log.Printf("feed: %s: %v", path, err)
				if onError != nil {
					onError(err)
				}
				return
			}
			onSuccess(body)
		}
	})
}

// FetchDecoded fetches path and decodes it with decode before delivery.
// Decoding runs off the loop.
func FetchDecoded[T any](r *Requester, guard Guard, path string, decode func([]byte) (T, error), onSuccess func(T), onError func(error)) {
	r.d.Go(func() func() {
		body, err := r.client.Get(r.ctx, path)
		var v T
		if err == nil {
			v, err = decode(body)
		}
		return func() {
			if guard != nil && !guard.Valid() {
				return
			}
			if err != nil {
				log.Printf("feed: %s: %v", path, err)
				if onError != nil {
					onError(err)
				}
				return
			}
			onSuccess(v)
		}
	})
}

// FetchPage fetches one page of a paginated feed whose items live under
// itemsKey.
func FetchPage[T any](r *Requester, guard Guard, path, itemsKey string, onSuccess func(model.PageResult[T]), onError func(error)) {
	FetchDecoded(r, guard, path, func(b []byte) (model.PageResult[T], error) {
		return DecodePage[T](b, itemsKey)
	}, onSuccess, onError)
}

// DecodePage decodes {itemsKey: [...], page, num_pages}.
func DecodePage[T any](body []byte, itemsKey string) (model.PageResult[T], error) {
	var out model.PageResult[T]
	if err := Check(body, itemsKey, "page", "num_pages"); err != nil {
		return out, err
	}
	res := gjson.GetManyBytes(body, itemsKey, "page", "num_pages")
	if !res[0].IsArray() {
		return out, fmt.Errorf("%w: %q is not a list", ErrMalformed, itemsKey)
	}
	if err := json.Unmarshal([]byte(res[0].Raw), &out.Items); err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrMalformed, itemsKey, err)
	}
	out.Page = int(res[1].Int())
	out.NumPages = int(res[2].Int())
	return out.Normalize(), nil
}

// DecodeJSON decodes a whole object into T after checking required members.
func DecodeJSON[T any](required ...string) func([]byte) (T, error) {
	return func(body []byte) (T, error) {
		var v T
		if err := Check(body, required...); err != nil {
			return v, err
		}
		if err := json.Unmarshal(body, &v); err != nil {
			return v, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return v, nil
	}
}

func scoredValues(body []byte, listKey string) ([]gjson.Result, []float64, error) {
	if err := Check(body, listKey, "values"); err != nil {
		return nil, nil, err
	}
	res := gjson.GetManyBytes(body, listKey, "values")
	items, values := res[0].Array(), res[1].Array()
	if len(items) != len(values) {
		return nil, nil, fmt.Errorf("%w: %d %s but %d values", ErrMalformed, len(items), listKey, len(values))
	}
	nums := make([]float64, len(values))
	for i, v := range values {
		if v.Type != gjson.Number {
			return nil, nil, fmt.Errorf("%w: value %d is not a number", ErrMalformed, i)
		}
		nums[i] = v.Float()
	}
	return items, nums, nil
}

// DecodeSimilarDocuments pairs {documents, values} positionally.
func DecodeSimilarDocuments(body []byte) ([]model.ScoredDocument, error) {
	items, values, err := scoredValues(body, "documents")
	if err != nil {
		return nil, err
	}
	out := make([]model.ScoredDocument, len(items))
	for i, it := range items {
		out[i] = model.ScoredDocument{
			Document: model.Document{ID: it.Get("id").String(), Name: it.Get("name").String()},
			Value:    values[i],
		}
	}
	return out, nil
}

// DecodeSimilarTopics pairs {topics, values} positionally.
func DecodeSimilarTopics(body []byte) ([]model.ScoredTopic, error) {
	items, values, err := scoredValues(body, "topics")
	if err != nil {
		return nil, err
	}
	out := make([]model.ScoredTopic, len(items))
	for i, it := range items {
		out[i] = model.ScoredTopic{
			Topic: model.Topic{Number: int(it.Get("number").Int()), Name: it.Get("name").String()},
			Value: values[i],
		}
	}
	return out, nil
}

// escapePath escapes a key for use as one gjson path component.
func escapePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func objectMap(r gjson.Result) map[string]any {
	m, _ := r.Value().(map[string]any)
	return m
}

// DecodeCatalog reads the dataset/analysis listing of the query API.
func DecodeCatalog(body []byte) (model.Catalog, error) {
	if err := Check(body, "datasets"); err != nil {
		return nil, err
	}
	cat := model.Catalog{}
	gjson.GetBytes(body, "datasets").ForEach(func(name, ds gjson.Result) bool {
		d := model.Dataset{
			Name:     name.String(),
			Metadata: objectMap(ds.Get("metadata")),
			Metrics:  objectMap(ds.Get("metrics")),
			Analyses: map[string]model.Analysis{},
		}
		ds.Get("analyses").ForEach(func(aname, an gjson.Result) bool {
			a := model.Analysis{
				Name:     aname.String(),
				Metadata: objectMap(an.Get("metadata")),
				Metrics:  objectMap(an.Get("metrics")),
			}
			schemes := an.Get("topic_name_schemes")
			if schemes.IsArray() {
				for _, s := range schemes.Array() {
					a.TopicNameSchemes = append(a.TopicNameSchemes, s.String())
				}
			} else {
				schemes.ForEach(func(k, _ gjson.Result) bool {
					a.TopicNameSchemes = append(a.TopicNameSchemes, k.String())
					return true
				})
			}
			d.Analyses[a.Name] = a
			return true
		})
		cat[d.Name] = d
		return true
	})
	return cat, nil
}

// DecodeTopicNames reads topic names of ds/an keyed by scheme.
func DecodeTopicNames(ds, an string) func([]byte) (model.TopicNames, error) {
	return func(body []byte) (model.TopicNames, error) {
		if err := Check(body, "datasets"); err != nil {
			return nil, err
		}
		names := model.TopicNames{}
		topics := gjson.GetBytes(body, fmt.Sprintf("datasets.%s.analyses.%s.topics", escapePath(ds), escapePath(an)))
		topics.ForEach(func(num, topic gjson.Result) bool {
			n, err := strconv.Atoi(num.String())
			if err != nil {
				return true
			}
			m := map[string]string{}
			topic.Get("names").ForEach(func(scheme, name gjson.Result) bool {
				m[scheme.String()] = name.String()
				return true
			})
			names[n] = m
			return true
		})
		return names, nil
	}
}

func apiEntry(body []byte, ds, an, kind, id string) (gjson.Result, error) {
	if err := Check(body, "datasets"); err != nil {
		return gjson.Result{}, err
	}
	entry := gjson.GetBytes(body, fmt.Sprintf("datasets.%s.analyses.%s.%s.%s",
		escapePath(ds), escapePath(an), kind, escapePath(id)))
	if !entry.IsObject() {
		return entry, fmt.Errorf("%w: no %s %q in %s/%s", ErrNotFound, strings.TrimSuffix(kind, "s"), id, ds, an)
	}
	return entry, nil
}

// counts reads {key: {"token_count": n}} or {key: n} sorted by descending
// count, then key.
func counts(r gjson.Result) (keys []string, values []float64) {
	type kv struct {
		k string
		v float64
	}
	var all []kv
	r.ForEach(func(k, v gjson.Result) bool {
		n := v.Float()
		if v.IsObject() {
			n = v.Get("token_count").Float()
		}
		all = append(all, kv{k.String(), n})
		return true
	})
	slices.SortFunc(all, func(a, b kv) int {
		if c := cmp.Compare(b.v, a.v); c != 0 {
			return c
		}
		return cmp.Compare(a.k, b.k)
	})
	for _, e := range all {
		keys = append(keys, e.k)
		values = append(values, e.v)
	}
	return keys, values
}

// DecodeTopic reads one topic of ds/an from a TopicQuery answer.
func DecodeTopic(ds, an, topic string) func([]byte) (model.TopicDetail, error) {
	return func(body []byte) (model.TopicDetail, error) {
		var t model.TopicDetail
		n, err := strconv.Atoi(topic)
		if err != nil {
			return t, fmt.Errorf("%w: topic %q is not a number", ErrNotFound, topic)
		}
		entry, err := apiEntry(body, ds, an, "topics", topic)
		if err != nil {
			return t, err
		}
		t.Number = n
		t.Metrics = objectMap(entry.Get("metrics"))
		entry.Get("names").ForEach(func(scheme, name gjson.Result) bool {
			if t.Names == nil {
				t.Names = map[string]string{}
			}
			t.Names[scheme.String()] = name.String()
			return true
		})
		words, wc := counts(entry.Get("words"))
		for i, w := range words {
			t.Words = append(t.Words, model.WordCount{Word: w, Count: wc[i]})
		}
		docs, dc := counts(entry.Get("top_n_documents"))
		for i, d := range docs {
			t.Documents = append(t.Documents, model.DocumentCount{Document: d, Count: dc[i]})
		}
		return t, nil
	}
}

// DecodeDocument reads one document of ds/an from a DocumentQuery answer.
func DecodeDocument(ds, an, doc string) func([]byte) (model.DocumentDetail, error) {
	return func(body []byte) (model.DocumentDetail, error) {
		d := model.DocumentDetail{ID: doc}
		entry, err := apiEntry(body, ds, an, "documents", doc)
		if err != nil {
			return d, err
		}
		d.Text = entry.Get("text").String()
		d.Metadata = objectMap(entry.Get("metadata"))
		d.Metrics = objectMap(entry.Get("metrics"))
		topics, tc := counts(entry.Get("topics"))
		for i, k := range topics {
			n, err := strconv.Atoi(k)
			if err != nil {
				return d, fmt.Errorf("%w: topic key %q", ErrMalformed, k)
			}
			d.Topics = append(d.Topics, model.TopicCount{Topic: n, Count: tc[i]})
		}
		return d, nil
	}
}
