package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"MarketAcquirer/internal/model"
)

// FormatRunSummary renders one row per symbol: bars, articles and the status
// of each pipeline. Columns are padded by display width.
func FormatRunSummary(results []model.SymbolResult) string {
	rows := [][]string{{"SYMBOL", "BARS", "ARTICLES", "STATUS"}}
	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
		rows = append(rows, []string{
			r.Symbol,
			countCell(r.TimeSeries.Len(), r.SeriesErr),
			countCell(r.News.Len(), r.NewsErr),
			statusCell(&r),
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i == len(row)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("%d symbols, %d with failures", len(results), failed))
	return b.String()
}

// FormatTelegramReport wraps the summary for Telegram's HTML parse mode.
func FormatTelegramReport(results []model.SymbolResult, finished time.Time) string {
	return fmt.Sprintf("📥 <b>Acquisition run</b> | %s\n\n<pre>%s</pre>",
		finished.Format("2006-01-02 15:04"), html.EscapeString(FormatRunSummary(results)))
}

func countCell(n int, err error) string {
	if err != nil {
		return "-"
	}
	return fmt.Sprint(n)
}

func statusCell(r *model.SymbolResult) string {
	var parts []string
	if r.SeriesErr != nil {
		parts = append(parts, "series: "+classify(r.SeriesErr))
	}
	if r.NewsErr != nil {
		parts = append(parts, "news: "+classify(r.NewsErr))
	}
	if len(parts) == 0 {
		return "ok"
	}
	return strings.Join(parts, "; ")
}
