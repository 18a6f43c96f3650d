package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"MarketAcquirer/internal/model"
)

// topicKeys maps the provider's topic display names to canonical keys.
var topicKeys = map[string]model.Topic{
	"Blockchain":                 model.TopicBlockchain,
	"Earnings":                   model.TopicEarnings,
	"IPO":                        model.TopicIPO,
	"Mergers & Acquisitions":     model.TopicMergersAcquisitions,
	"Financial Markets":          model.TopicFinancialMarkets,
	"Economy - Fiscal":           model.TopicEconomyFiscal,
	"Economy - Monetary":         model.TopicEconomyMonetary,
	"Economy - Macro":            model.TopicEconomyMacro,
	"Energy & Transportation":    model.TopicEnergyTransportation,
	"Finance":                    model.TopicFinance,
	"Life Sciences":              model.TopicLifeSciences,
	"Manufacturing":              model.TopicManufacturing,
	"Real Estate & Construction": model.TopicRealEstate,
	"Retail & Wholesale":         model.TopicRetailWholesale,
	"Technology":                 model.TopicTechnology,
}

type newsPage struct {
	Feed         []newsItem `json:"feed"`
	Information  string     `json:"Information"`
	Note         string     `json:"Note"`
	ErrorMessage string     `json:"Error Message"`
}

type newsItem struct {
	URL                   string      `json:"url"`
	TimePublished         string      `json:"time_published"`
	Source                string      `json:"source"`
	CategoryWithinSource  string      `json:"category_within_source"`
	OverallSentimentScore json.Number `json:"overall_sentiment_score"`
	Topics                []struct {
		Topic          string      `json:"topic"`
		RelevanceScore json.Number `json:"relevance_score"`
	} `json:"topics"`
	TickerSentiment []struct {
		Ticker               string      `json:"ticker"`
		RelevanceScore       json.Number `json:"relevance_score"`
		TickerSentimentScore json.Number `json:"ticker_sentiment_score"`
	} `json:"ticker_sentiment"`
}

type pageState int

const (
	stateFetching pageState = iota
	stateDone
)

// newsPager drives the news pagination loop. The cursor is the only state
// carried from one page to the next and never moves backwards.
type newsPager struct {
	symbol string
	topics []model.Topic
	from   time.Time
	to     time.Time
	loc    *time.Location
	cursor time.Time
	table  *model.NewsTable
}

// CollectNews pages through NEWS_SENTIMENT from the earliest article at or
// after from, until an article is published after to or the provider stops
// yielding new articles. An empty symbol requests by topic only.
func (c *Collector) CollectNews(ctx context.Context, symbol string, topics []model.Topic, from, to time.Time) (*model.NewsTable, error) {
	if to.Before(from) {
		return nil, ErrInvalidRange
	}
	p := &newsPager{
		symbol: symbol,
		topics: topics,
		from:   from,
		to:     to,
		loc:    c.location(),
		cursor: from,
		table:  model.NewNewsTable(),
	}

	pages := 0
	for state := stateFetching; state == stateFetching; {
		q := p.query()
		body, err := c.Fetcher.Fetch(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("news %s from %s: %w", symbol, formatNewsTime(q.TimeFrom, p.loc), err)
		}
		items, err := decodeNewsPage(body)
		if err != nil {
			return nil, fmt.Errorf("news %s from %s: %w", symbol, formatNewsTime(q.TimeFrom, p.loc), err)
		}
		if state, err = p.consume(items, q.TimeFrom); err != nil {
			return nil, fmt.Errorf("news %s: %w", symbol, err)
		}
		pages++
		log.Printf("[INFO] news %s page %d: %d items, cursor %s, %d articles kept",
			symbol, pages, len(items), formatNewsTime(p.cursor, p.loc), p.table.Len())
	}
	return p.table, nil
}

func (p *newsPager) query() NewsQuery {
	return NewsQuery{
		Tickers:  p.symbol,
		Topics:   p.topics,
		TimeFrom: p.cursor,
		Sort:     SortEarliest,
		Limit:    MaxNewsLimit,
		Location: p.loc,
	}
}

// consume applies one page to the table and decides the next state.
func (p *newsPager) consume(items []newsItem, requested time.Time) (pageState, error) {
	if len(items) == 0 {
		return stateDone, nil
	}

	var prev time.Time
	for i, item := range items {
		published, err := time.ParseInLocation(publishedLayout, item.TimePublished, p.loc)
		if err != nil {
			return stateDone, integrityErrorf("time_published %q of %s: %v", item.TimePublished, item.URL, err)
		}
		if i > 0 && published.Before(prev) {
			return stateDone, integrityErrorf("page out of order: %s published before %s",
				item.URL, prev.Format(publishedLayout))
		}
		prev = published
		if published.After(p.cursor) {
			p.cursor = published
		}
		if published.After(p.to) {
			return stateDone, nil
		}
		if published.Before(p.from) {
			continue
		}

		a, err := p.article(item, published)
		if err != nil {
			return stateDone, err
		}
		p.table.Put(a)
	}

	// The endpoint resolves time_from to the minute; a cursor still inside
	// the requested minute would fetch the same page again.
	if formatNewsTime(p.cursor, p.loc) == formatNewsTime(requested, p.loc) {
		return stateDone, nil
	}
	return stateFetching, nil
}

// article builds the record for item, populating each field from its source.
func (p *newsPager) article(item newsItem, published time.Time) (model.Article, error) {
	overall, err := item.OverallSentimentScore.Float64()
	if err != nil {
		return model.Article{}, integrityErrorf("overall_sentiment_score of %s: %v", item.URL, err)
	}
	a := model.Article{
		URL:                   item.URL,
		Published:             published,
		Source:                item.Source,
		CategoryWithinSource:  item.CategoryWithinSource,
		OverallSentimentScore: overall,
		Topics:                make(map[model.Topic]float64, len(item.Topics)),
	}

	for _, t := range item.Topics {
		key, ok := topicKeys[t.Topic]
		if !ok {
			return model.Article{}, integrityErrorf("unknown topic %q in %s", t.Topic, item.URL)
		}
		score, err := t.RelevanceScore.Float64()
		if err != nil {
			return model.Article{}, integrityErrorf("topic %q relevance of %s: %v", t.Topic, item.URL, err)
		}
		a.Topics[key] = score
	}

	if p.symbol == "" {
		return a, nil
	}
	for _, ts := range item.TickerSentiment {
		if ts.Ticker != p.symbol {
			continue
		}
		if a.RelevanceScore, err = ts.RelevanceScore.Float64(); err != nil {
			return model.Article{}, integrityErrorf("%s relevance of %s: %v", p.symbol, item.URL, err)
		}
		if a.TickerSentimentScore, err = ts.TickerSentimentScore.Float64(); err != nil {
			return model.Article{}, integrityErrorf("%s sentiment of %s: %v", p.symbol, item.URL, err)
		}
		return a, nil
	}
	return model.Article{}, integrityErrorf("no sentiment data for %s in %s", p.symbol, item.URL)
}

func decodeNewsPage(body []byte) ([]newsItem, error) {
	var page newsPage
	if err := json.Unmarshal(bytes.TrimSpace(body), &page); err != nil {
		return nil, integrityErrorf("decode news page: %v", err)
	}
	if page.Feed != nil {
		return page.Feed, nil
	}
	for _, msg := range []string{page.ErrorMessage, page.Note, page.Information} {
		if msg != "" {
			return nil, &ProviderError{Function: FunctionNewsSentiment, Message: msg}
		}
	}
	return nil, integrityErrorf("news page has no feed")
}
