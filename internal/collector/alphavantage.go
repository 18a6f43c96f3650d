package collector

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"MarketAcquirer/internal/model"
)

// DefaultBaseURL is the Alpha Vantage query endpoint.
const DefaultBaseURL = "https://www.alphavantage.co/query"

// Provider functions, the value of the function parameter.
const (
	FunctionIntraday      = "TIME_SERIES_INTRADAY"
	FunctionNewsSentiment = "NEWS_SENTIMENT"
)

// MaxNewsLimit is the largest page the news endpoint serves.
const MaxNewsLimit = 1000

// News sort orders.
const (
	SortLatest    = "LATEST"
	SortEarliest  = "EARLIEST"
	SortRelevance = "RELEVANCE"
)

// Intraday output sizes and payload formats.
const (
	OutputSizeCompact = "compact"
	OutputSizeFull    = "full"
	DataTypeJSON      = "json"
	DataTypeCSV       = "csv"
)

const (
	monthLayout        = "2006-01"
	newsTimeLayout     = "20060102T1504"
	publishedLayout    = "20060102T150405"
	intradayTimeLayout = "2006-01-02 15:04:05"
)

// Query is an immutable set of provider parameters, excluding the API key.
type Query interface {
	Function() string
	Values() (url.Values, error)
}

// IntradayQuery requests TIME_SERIES_INTRADAY. Nil flags and zero values are
// omitted so the provider applies its defaults.
type IntradayQuery struct {
	Symbol        string
	Interval      model.Interval
	Adjusted      *bool
	ExtendedHours *bool
	Month         time.Time
	OutputSize    string
	DataType      string
}

func (q IntradayQuery) Function() string { return FunctionIntraday }

func (q IntradayQuery) Values() (url.Values, error) {
	v := url.Values{}
	v.Set("function", FunctionIntraday)
	v.Set("symbol", q.Symbol)
	v.Set("interval", string(q.Interval))
	if q.Adjusted != nil {
		v.Set("adjusted", strconv.FormatBool(*q.Adjusted))
	}
	if q.ExtendedHours != nil {
		v.Set("extended_hours", strconv.FormatBool(*q.ExtendedHours))
	}
	if !q.Month.IsZero() {
		v.Set("month", q.Month.Format(monthLayout))
	}
	if q.OutputSize != "" {
		v.Set("outputsize", q.OutputSize)
	}
	if q.DataType != "" {
		v.Set("datatype", q.DataType)
	}
	return v, nil
}

// NewsQuery requests NEWS_SENTIMENT. A zero Limit is omitted; otherwise it
// must lie in (0, MaxNewsLimit].
type NewsQuery struct {
	Tickers  string
	Topics   []model.Topic
	TimeFrom time.Time
	TimeTo   time.Time
	Sort     string
	Limit    int
	Location *time.Location
}

func (q NewsQuery) Function() string { return FunctionNewsSentiment }

func (q NewsQuery) Values() (url.Values, error) {
	if q.Limit < 0 || q.Limit > MaxNewsLimit {
		return nil, ErrInvalidLimit
	}
	v := url.Values{}
	v.Set("function", FunctionNewsSentiment)
	if q.Tickers != "" {
		v.Set("tickers", q.Tickers)
	}
	if len(q.Topics) > 0 {
		names := make([]string, len(q.Topics))
		for i, t := range q.Topics {
			names[i] = string(t)
		}
		v.Set("topics", strings.Join(names, ","))
	}
	if !q.TimeFrom.IsZero() {
		v.Set("time_from", formatNewsTime(q.TimeFrom, q.Location))
	}
	if !q.TimeTo.IsZero() {
		v.Set("time_to", formatNewsTime(q.TimeTo, q.Location))
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v, nil
}

// formatNewsTime renders t at the minute granularity the news endpoint accepts.
func formatNewsTime(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(newsTimeLayout)
}
