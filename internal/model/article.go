package model

import "time"

// Article is one news item with its sentiment scores. URL is its identity.
type Article struct {
	URL                   string
	Published             time.Time
	Source                string
	CategoryWithinSource  string
	OverallSentimentScore float64
	Topics                map[Topic]float64 // only topics present in the payload

	// Scores for the requested symbol; zero for topic-only queries.
	RelevanceScore       float64
	TickerSentimentScore float64
}

// NewsTable is a URL-keyed table of articles. Rows keep the position of the
// first observation of each URL; later observations replace the values.
type NewsTable struct {
	order []string
	byURL map[string]Article
}

// NewNewsTable creates an empty table.
func NewNewsTable() *NewsTable {
	return &NewsTable{byURL: make(map[string]Article)}
}

// Put stores a by its URL, overwriting any previous article with the same URL.
func (t *NewsTable) Put(a Article) {
	if _, ok := t.byURL[a.URL]; !ok {
		t.order = append(t.order, a.URL)
	}
	t.byURL[a.URL] = a
}

// Get returns the article stored under url.
func (t *NewsTable) Get(url string) (Article, bool) {
	a, ok := t.byURL[url]
	return a, ok
}

// Len returns the number of distinct articles.
func (t *NewsTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Rows returns the articles in table order.
func (t *NewsTable) Rows() []Article {
	rows := make([]Article, 0, len(t.order))
	for _, u := range t.order {
		rows = append(rows, t.byURL[u])
	}
	return rows
}

// TopicColumns returns the topics present in any row, in canonical order.
func (t *NewsTable) TopicColumns() []Topic {
	seen := make(map[Topic]bool)
	for _, a := range t.byURL {
		for topic := range a.Topics {
			seen[topic] = true
		}
	}
	cols := make([]Topic, 0, len(seen))
	for _, topic := range Topics {
		if seen[topic] {
			cols = append(cols, topic)
		}
	}
	return cols
}
