package storage

import (
	"context"
	"io"

	"catalog-crawler/pkg/models"

	"github.com/jedib0t/go-pretty/v6/table"
)

// SummarySink prints per-category counts for a finished pass.
type SummarySink struct {
	Out io.Writer
}

func NewSummarySink(out io.Writer) *SummarySink {
	return &SummarySink{Out: out}
}

func (s *SummarySink) Name() string { return "summary" }

func (s *SummarySink) Save(_ context.Context, result *models.ResultSet) error {
	type counts struct{ products, priced int }
	var order []string
	byCategory := make(map[string]*counts)
	total := counts{}

	for _, p := range result.Records {
		c, ok := byCategory[p.Category]
		if !ok {
			c = &counts{}
			byCategory[p.Category] = c
			order = append(order, p.Category)
		}
		c.products++
		total.products++
		if p.Price != nil {
			c.priced++
			total.priced++
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(s.Out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Run " + result.RunID.String())
	t.AppendHeader(table.Row{"Category", "Products", "Priced"})
	for _, name := range order {
		c := byCategory[name]
		t.AppendRow(table.Row{name, c.products, c.priced})
	}
	t.AppendFooter(table.Row{"Total", total.products, total.priced})
	t.Render()
	return nil
}
