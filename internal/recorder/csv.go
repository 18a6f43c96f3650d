package recorder

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"

	"MarketAcquirer/internal/model"
)

const csvTimeLayout = "2006-01-02 15:04:05"

// CSVRecorder writes one CSV file per symbol and pipeline under DataPath.
type CSVRecorder struct {
	DataPath string
}

// NewCSVRecorder creates the output directories and returns the recorder.
func NewCSVRecorder(dataPath string) (*CSVRecorder, error) {
	if err := prepareDirs(dataPath); err != nil {
		return nil, err
	}
	return &CSVRecorder{DataPath: dataPath}, nil
}

func (r *CSVRecorder) RecordTimeSeries(ts *model.TimeSeries) error {
	path := symbolPath(r.DataPath, timeSeriesDir, ts.Symbol, ".csv")
	err := writeAtomic(path, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.Write([]string{"timestamp", "open", "high", "low", "close", "volume"}); err != nil {
			return err
		}
		for _, b := range ts.Points {
			if err := w.Write([]string{
				b.Time.Format(csvTimeLayout),
				formatFloat(b.Open),
				formatFloat(b.High),
				formatFloat(b.Low),
				formatFloat(b.Close),
				formatFloat(b.Volume),
			}); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Printf("[INFO] wrote %d bars to %s", ts.Len(), path)
	return nil
}

// RecordNews writes the URL-indexed article table. Topic columns are the
// topics present in any row; absent relevances are left empty.
func (r *CSVRecorder) RecordNews(symbol string, news *model.NewsTable) error {
	path := symbolPath(r.DataPath, newsDir, symbol, ".csv")
	topics := news.TopicColumns()
	err := writeAtomic(path, func(f *os.File) error {
		w := csv.NewWriter(f)
		header := []string{"url", "time_published", "source", "category_within_source", "overall_sentiment_score"}
		for _, t := range topics {
			header = append(header, string(t))
		}
		header = append(header, "relevance_score", "ticker_sentiment_score")
		if err := w.Write(header); err != nil {
			return err
		}

		for _, a := range news.Rows() {
			row := []string{
				a.URL,
				a.Published.Format(csvTimeLayout),
				a.Source,
				a.CategoryWithinSource,
				formatFloat(a.OverallSentimentScore),
			}
			for _, t := range topics {
				if v, ok := a.Topics[t]; ok {
					row = append(row, formatFloat(v))
				} else {
					row = append(row, "")
				}
			}
			row = append(row, formatFloat(a.RelevanceScore), formatFloat(a.TickerSentimentScore))
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Printf("[INFO] wrote %d articles to %s", news.Len(), path)
	return nil
}

func (r *CSVRecorder) RecordRun(_ *model.SymbolResult) error { return nil }

func (r *CSVRecorder) Close() error { return nil }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
