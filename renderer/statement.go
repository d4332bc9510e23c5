package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/fpa"
	md "github.com/nao1215/markdown"
)

// StatementMarkdown renders the operating statement with months as columns.
func StatementMarkdown(st *fpa.Statement) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	title := fmt.Sprintf("Operating Statement %s", st.Period.Label())
	if st.Entity != "" {
		title += " for " + st.Entity
	}
	doc.H1(title)
	doc.PlainText("All amounts in USD.")

	alignment := make([]md.TableAlignment, 0, 1+len(st.Months))
	header := make([]string, 0, 1+len(st.Months))
	alignment, header = append(alignment, md.AlignLeft), append(header, "Metric")
	for _, m := range st.Months {
		alignment, header = append(alignment, md.AlignRight), append(header, m.Date.Label())
	}

	// row builds one table row from a per-month cell formatter.
	row := func(label string, cell func(m fpa.StatementMonth) string) []string {
		cells := append(make([]string, 0, 1+len(st.Months)), label)
		for _, m := range st.Months {
			cells = append(cells, cell(m))
		}
		return cells
	}
	pct := func(p fpa.Percent, ok bool) string {
		if !ok {
			return "n/a"
		}
		return p.String()
	}

	rows := [][]string{
		row("Revenue", func(m fpa.StatementMonth) string { return m.Revenue.String() }),
		row("COGS", func(m fpa.StatementMonth) string { return m.COGS.String() }),
		row("Gross Profit", func(m fpa.StatementMonth) string { return m.GrossProfit.String() }),
		row("Gross Margin %", func(m fpa.StatementMonth) string { return pct(m.GrossMarginPct, m.GrossMarginOK) }),
	}
	for _, category := range st.Categories {
		rows = append(rows, row("Opex: "+category, func(m fpa.StatementMonth) string {
			return m.Amount(category).String()
		}))
	}
	rows = append(rows,
		row(md.Bold("Opex"), func(m fpa.StatementMonth) string { return md.Bold(m.Opex.String()) }),
		row(md.Bold("EBITDA"), func(m fpa.StatementMonth) string { return md.Bold(m.EBITDA.String()) }),
		row("EBITDA %", func(m fpa.StatementMonth) string { return pct(m.EBITDAPct, m.EBITDAOK) }),
	)

	doc.Table(md.TableSet{
		Alignment: alignment,
		Header:    header,
		Rows:      rows,
	})

	return doc.String()
}
