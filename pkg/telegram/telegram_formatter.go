package telegram

import (
	"fmt"
	"strings"
	"time"
)

// maxListedSymbols caps how many symbols a summary spells out per section.
const maxListedSymbols = 20

// PriceRefreshSummary is the outcome of one price refresh run.
type PriceRefreshSummary struct {
	StartedAt time.Time
	Duration  time.Duration
	Total     int
	Updated   int
	Skipped   []string
	Failed    []string
}

// FormatPriceRefreshSummary formats a refresh run into a Markdown message.
func FormatPriceRefreshSummary(s PriceRefreshSummary) string {
	var builder strings.Builder

	builder.WriteString("📊 *Stock Price Refresh*\n\n")
	builder.WriteString(fmt.Sprintf("🕒 *Started:* %s\n", s.StartedAt.UTC().Format("2006-01-02 15:04 MST")))
	builder.WriteString(fmt.Sprintf("⏱ *Duration:* %s\n", s.Duration.Round(time.Millisecond)))
	builder.WriteString(fmt.Sprintf("📈 *Stocks:* %d\n", s.Total))
	builder.WriteString(fmt.Sprintf("✅ *Updated:* %d\n", s.Updated))

	if len(s.Skipped) > 0 {
		builder.WriteString(fmt.Sprintf("🟡 *No data:* %s\n", joinSymbols(s.Skipped)))
	}
	if len(s.Failed) > 0 {
		builder.WriteString(fmt.Sprintf("🔴 *Failed:* %s\n", joinSymbols(s.Failed)))
	}

	return builder.String()
}

func joinSymbols(symbols []string) string {
	if len(symbols) <= maxListedSymbols {
		return "`" + strings.Join(symbols, "`, `") + "`"
	}
	listed := "`" + strings.Join(symbols[:maxListedSymbols], "`, `") + "`"
	return fmt.Sprintf("%s and %d more", listed, len(symbols)-maxListedSymbols)
}
