package recorder

import (
	"fmt"
	"log"
	"os"

	"github.com/parquet-go/parquet-go"

	"MarketAcquirer/internal/model"
)

// BarRecord is one intraday bar row in the output parquet file.
type BarRecord struct {
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"`
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    float64 `parquet:"volume"`
}

// ArticleRecord is one article row. Topic relevances are null when the
// article does not mention the topic.
type ArticleRecord struct {
	URL                   string  `parquet:"url"`
	TimePublished         int64   `parquet:"time_published,timestamp(millisecond)"`
	Source                string  `parquet:"source"`
	CategoryWithinSource  string  `parquet:"category_within_source"`
	OverallSentimentScore float64 `parquet:"overall_sentiment_score"`

	Blockchain             *float64 `parquet:"blockchain,optional"`
	Earnings               *float64 `parquet:"earnings,optional"`
	IPO                    *float64 `parquet:"ipo,optional"`
	MergersAndAcquisitions *float64 `parquet:"mergers_and_acquisitions,optional"`
	FinancialMarkets       *float64 `parquet:"financial_markets,optional"`
	EconomyFiscal          *float64 `parquet:"economy_fiscal,optional"`
	EconomyMonetary        *float64 `parquet:"economy_monetary,optional"`
	EconomyMacro           *float64 `parquet:"economy_macro,optional"`
	EnergyTransportation   *float64 `parquet:"energy_transportation,optional"`
	Finance                *float64 `parquet:"finance,optional"`
	LifeSciences           *float64 `parquet:"life_sciences,optional"`
	Manufacturing          *float64 `parquet:"manufacturing,optional"`
	RealEstate             *float64 `parquet:"real_estate,optional"`
	RetailWholesale        *float64 `parquet:"retail_wholesale,optional"`
	Technology             *float64 `parquet:"technology,optional"`

	RelevanceScore       float64 `parquet:"relevance_score"`
	TickerSentimentScore float64 `parquet:"ticker_sentiment_score"`
}

// ParquetRecorder writes one parquet file per symbol and pipeline under DataPath.
type ParquetRecorder struct {
	DataPath string
}

// NewParquetRecorder creates the output directories and returns the recorder.
func NewParquetRecorder(dataPath string) (*ParquetRecorder, error) {
	if err := prepareDirs(dataPath); err != nil {
		return nil, err
	}
	return &ParquetRecorder{DataPath: dataPath}, nil
}

func (r *ParquetRecorder) RecordTimeSeries(ts *model.TimeSeries) error {
	records := make([]BarRecord, len(ts.Points))
	for i, b := range ts.Points {
		records[i] = BarRecord{
			Timestamp: b.Time.UnixMilli(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		}
	}
	path := symbolPath(r.DataPath, timeSeriesDir, ts.Symbol, ".parquet")
	if err := writeParquet(path, records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Printf("[INFO] wrote %d bars to %s", len(records), path)
	return nil
}

func (r *ParquetRecorder) RecordNews(symbol string, news *model.NewsTable) error {
	rows := news.Rows()
	records := make([]ArticleRecord, len(rows))
	for i, a := range rows {
		records[i] = articleRecord(a)
	}
	path := symbolPath(r.DataPath, newsDir, symbol, ".parquet")
	if err := writeParquet(path, records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Printf("[INFO] wrote %d articles to %s", len(records), path)
	return nil
}

func (r *ParquetRecorder) RecordRun(_ *model.SymbolResult) error { return nil }

func (r *ParquetRecorder) Close() error { return nil }

func writeParquet[T any](path string, records []T) error {
	return writeAtomic(path, func(f *os.File) error {
		return parquet.Write(f, records)
	})
}

func articleRecord(a model.Article) ArticleRecord {
	rec := ArticleRecord{
		URL:                   a.URL,
		TimePublished:         a.Published.UnixMilli(),
		Source:                a.Source,
		CategoryWithinSource:  a.CategoryWithinSource,
		OverallSentimentScore: a.OverallSentimentScore,
		RelevanceScore:        a.RelevanceScore,
		TickerSentimentScore:  a.TickerSentimentScore,
	}
	slots := map[model.Topic]**float64{
		model.TopicBlockchain:           &rec.Blockchain,
		model.TopicEarnings:             &rec.Earnings,
		model.TopicIPO:                  &rec.IPO,
		model.TopicMergersAcquisitions:  &rec.MergersAndAcquisitions,
		model.TopicFinancialMarkets:     &rec.FinancialMarkets,
		model.TopicEconomyFiscal:        &rec.EconomyFiscal,
		model.TopicEconomyMonetary:      &rec.EconomyMonetary,
		model.TopicEconomyMacro:         &rec.EconomyMacro,
		model.TopicEnergyTransportation: &rec.EnergyTransportation,
		model.TopicFinance:              &rec.Finance,
		model.TopicLifeSciences:         &rec.LifeSciences,
		model.TopicManufacturing:        &rec.Manufacturing,
		model.TopicRealEstate:           &rec.RealEstate,
		model.TopicRetailWholesale:      &rec.RetailWholesale,
		model.TopicTechnology:           &rec.Technology,
	}
	for topic, v := range a.Topics {
		if slot, ok := slots[topic]; ok {
			v := v
			*slot = &v
		}
	}
	return rec
}
