package screener

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"TrendScreener/internal/model"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	return t
}

// RenderResult writes the hits of a screening run as a table.
func RenderResult(w io.Writer, res *model.ScreenResult) {
	t := newTable(w, fmt.Sprintf("%s  %s", res.Strategy, res.FinishedAt.Format("2006-01-02 15:04")))
	t.AppendHeader(table.Row{"#", "Ticker", "Name", "Trend", "Close", "Avg Volume"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	for i, h := range res.Hits {
		t.AppendRow(table.Row{i + 1, h.Scrip.Ticker, h.Scrip.Name, h.Trend,
			fmt.Sprintf("%.2f", h.LastClose), fmt.Sprintf("%.0f", h.AvgVolume)})
	}
	t.AppendFooter(table.Row{"", "scanned", res.Scanned, "failed", res.Failed, fmt.Sprintf("%d hits", len(res.Hits))})
	t.Render()
}

// RenderAnalysis writes indicator readings; undefined values print as "-".
func RenderAnalysis(w io.Writer, a *Analysis) {
	t := newTable(w, fmt.Sprintf("%s  %s  %s", a.Symbol, a.AsOf.Format("2006-01-02"), a.Trend))
	t.AppendHeader(table.Row{"Indicator", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	for _, r := range a.Readings {
		v := "-"
		if r.Value.IsSome() {
			v = fmt.Sprintf("%.4f", r.Value.Unwrap())
		}
		t.AppendRow(table.Row{r.Name, v})
	}
	t.Render()
}
