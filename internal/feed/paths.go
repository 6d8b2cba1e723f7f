package feed

import (
	"net/url"
	"strconv"
	"strings"
)

// join builds an escaped path from literal and user-supplied segments.
func join(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

func base(ds, an string) []string {
	return []string{"datasets", ds, "analyses", an}
}

func feedPath(name string, rest ...string) string {
	return join(append([]string{"feeds", name}, rest...)...)
}

// AttributePage lists the values of attribute attr.
func AttributePage(ds, an, attr string, page int) string {
	return feedPath("attribute-page", append(base(ds, an), "attributes", attr, "number", strconv.Itoa(page))...)
}

// DocumentPage lists documents, one page at a time.
func DocumentPage(ds, an, doc string, page int) string {
	return feedPath("document-page", append(base(ds, an), "documents", doc, "number", strconv.Itoa(page))...)
}

// DocumentOrdering lists documents ordered by field.
func DocumentOrdering(ds, an, field string) string {
	return feedPath("document-ordering", append(base(ds, an), "order-by", field)...)
}

// WordPage lists the vocabulary, one page at a time.
func WordPage(ds, an string, page int) string {
	return feedPath("word-page", append(base(ds, an), "number", strconv.Itoa(page))...)
}

// WordPageFind jumps to the words starting with prefix.
func WordPageFind(ds, an, prefix string) string {
	return feedPath("word-page-find", append(base(ds, an), "words", prefix)...)
}

// TopicPage lists topics, one page at a time.
func TopicPage(ds, an string, page int) string {
	return feedPath("topic-page", append(base(ds, an), "number", strconv.Itoa(page))...)
}

// SimilarDocuments lists the documents most similar to doc under measure.
func SimilarDocuments(ds, an, doc, measure string) string {
	return feedPath("similar-documents", append(base(ds, an), "documents", doc, "measures", measure)...)
}

// SimilarTopics lists the topics most similar to topic under measure.
func SimilarTopics(ds, an, topic, measure string) string {
	return feedPath("similar-topics", append(base(ds, an), "topics", topic, "measures", measure)...)
}

// WordInContext returns one occurrence of word, optionally restricted to a
// topic.
func WordInContext(ds, an, topic, word string) string {
	rest := base(ds, an)
	if topic != "" {
		rest = append(rest, "topics", topic)
	}
	return feedPath("word-in-context", append(rest, "words", word)...)
}

// TopicAttributeValues breaks a topic down by the values of attr.
func TopicAttributeValues(ds, an, topic, attr, order string) string {
	return feedPath("attrvaltopic", append(base(ds, an), "topics", topic, "attributes", attr, "order-by", order)...)
}

// CatalogQuery asks the query API for every dataset and analysis with the
// metadata needed for names and menus.
func CatalogQuery() string {
	q := url.Values{}
	q.Set("datasets", "*")
	q.Set("dataset_attr", "metadata,metrics")
	q.Set("analyses", "*")
	q.Set("analysis_attr", "metadata,metrics,topic_name_schemes")
	return "/api?" + q.Encode()
}

// TopicNamesQuery asks for every topic name of one analysis.
func TopicNamesQuery(ds, an string) string {
	q := url.Values{}
	q.Set("datasets", ds)
	q.Set("analyses", an)
	q.Set("topics", "*")
	q.Set("topic_attr", "names")
	return "/api?" + q.Encode()
}

// TopicQuery asks for the metrics, names, top topN words and top topN
// documents of one topic.
func TopicQuery(ds, an, topic string, topN int) string {
	q := url.Values{}
	q.Set("datasets", ds)
	q.Set("analyses", an)
	q.Set("topics", topic)
	q.Set("topic_attr", "metrics,names,top_n_words")
	q.Set("words", "*")
	q.Set("top_n_words", strconv.Itoa(topN))
	q.Set("top_n_documents", strconv.Itoa(topN))
	return "/api?" + q.Encode()
}

// DocumentQuery asks for the text, metadata, metrics and topic counts of
// one document.
func DocumentQuery(ds, an, doc string) string {
	q := url.Values{}
	q.Set("datasets", ds)
	q.Set("analyses", an)
	q.Set("documents", doc)
	q.Set("document_attr", "text,metadata,metrics,top_n_topics")
	return "/api?" + q.Encode()
}
