package telegram

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatPriceRefreshSummary(t *testing.T) {
	msg := FormatPriceRefreshSummary(PriceRefreshSummary{
		StartedAt: time.Date(2026, 3, 2, 22, 0, 0, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
		Total:     3,
		Updated:   1,
		Skipped:   []string{"XYZ"},
		Failed:    []string{"MSFT"},
	})

	assert.Contains(t, msg, "2026-03-02 22:00 UTC")
	assert.Contains(t, msg, "*Stocks:* 3")
	assert.Contains(t, msg, "*Updated:* 1")
	assert.Contains(t, msg, "`XYZ`")
	assert.Contains(t, msg, "*Failed:* `MSFT`")
}

func TestFormatPriceRefreshSummaryOmitsEmptySections(t *testing.T) {
	msg := FormatPriceRefreshSummary(PriceRefreshSummary{Total: 2, Updated: 2})

	assert.NotContains(t, msg, "No data")
	assert.NotContains(t, msg, "Failed")
}

func TestJoinSymbolsTruncates(t *testing.T) {
	symbols := make([]string, maxListedSymbols+5)
	for i := range symbols {
		symbols[i] = fmt.Sprintf("S%d", i)
	}

	out := joinSymbols(symbols)
	assert.Contains(t, out, "and 5 more")
	assert.NotContains(t, out, fmt.Sprintf("S%d", maxListedSymbols))
}

func TestNopNotifier(t *testing.T) {
	assert.NoError(t, NewNopNotifier().SendMessage("hello"))
}
