package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"TrendScreener/internal/model"
)

// MaxListedHits caps the hits listed in one message; Telegram rejects
// messages over 4096 characters.
const MaxListedHits = 50

// FormatScreenReport formats a screening run into a Telegram message.
func FormatScreenReport(res *model.ScreenResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Screen</b> %s | %s\n",
		html.EscapeString(res.Strategy), res.FinishedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Scanned %d, failed %d, took %s\n\n",
		res.Scanned, res.Failed, res.FinishedAt.Sub(res.StartedAt).Round(time.Second)))

	if len(res.Hits) == 0 {
		b.WriteString("No matches.")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("📈 <b>%d matches:</b>\n", len(res.Hits)))
	for i, h := range res.Hits {
		if i == MaxListedHits {
			b.WriteString(fmt.Sprintf("… and %d more\n", len(res.Hits)-MaxListedHits))
			break
		}
		b.WriteString(fmt.Sprintf("  <code>%s</code> %s | %.2f | %s\n",
			html.EscapeString(h.Scrip.Ticker), html.EscapeString(h.Scrip.Name), h.LastClose, h.Trend))
	}
	return b.String()
}

// FormatRunHistory lists recent runs, newest first.
func FormatRunHistory(runs []model.ScreenResult) string {
	if len(runs) == 0 {
		return "No screening runs recorded yet."
	}
	var b strings.Builder
	b.WriteString("📦 <b>Recent runs</b>\n\n")
	for _, r := range runs {
		b.WriteString(fmt.Sprintf("%s  %s  %d/%d hits\n",
			r.FinishedAt.Format("2006-01-02 15:04"), html.EscapeString(r.Strategy), len(r.Hits), r.Scanned))
	}
	return b.String()
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	return "/screen - run the configured screen now\n/last - show the latest result\n/history - recent runs"
}
