package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/insightdelivered/statement-insights/internal/models"
	"github.com/insightdelivered/statement-insights/internal/pipeline"
	"github.com/insightdelivered/statement-insights/internal/summary"
	"github.com/insightdelivered/statement-insights/internal/writer"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatCSV   outputFormat = "csv"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(s)); f {
	case formatTable, formatJSON, formatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q: use table, json or csv", s)
	}
}

type report struct {
	File          string                 `json:"file"`
	RunID         string                 `json:"runId"`
	Status        string                 `json:"status"`
	Count         int                    `json:"count"`
	Transactions  []models.Transaction   `json:"transactions"`
	Summary       models.Summary         `json:"summary"`
	TopCategories []models.CategoryTotal `json:"topCategories"`
	Insight       string                 `json:"insight"`
}

func render(w io.Writer, f outputFormat, name string, res *pipeline.Result) error {
	switch f {
	case formatJSON:
		txns := res.Transactions
		if txns == nil {
			txns = []models.Transaction{}
		}
		top := res.TopCategories
		if top == nil {
			top = []models.CategoryTotal{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report{
			File:          name,
			RunID:         res.RunID,
			Status:        res.Status,
			Count:         len(txns),
			Transactions:  txns,
			Summary:       res.Summary,
			TopCategories: top,
			Insight:       res.Insight,
		})
	case formatCSV:
		csvWriter := &writer.CSVWriter{}
		return csvWriter.Write(w, res.Transactions, res.Summary)
	default:
		return renderTable(w, name, res)
	}
}

func renderTable(w io.Writer, name string, res *pipeline.Result) error {
	fmt.Fprintf(w, "%s: %s\n\n", name, res.Status)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDESCRIPTION\tCATEGORY\tTYPE\tAMOUNT")
	for _, t := range res.Transactions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			t.DateText(), t.DescriptionText(), t.CategoryText(),
			strings.ToUpper(t.DirectionText()), summary.FormatAmount(t.AmountValue()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := res.Summary
	fmt.Fprintf(w, "\nCredits: %s  Debits: %s  Net: %s\n",
		summary.FormatAmount(s.Credits), summary.FormatAmount(s.Debits), summary.FormatAmount(s.Net()))

	if len(res.TopCategories) > 0 {
		fmt.Fprintln(w, "\nTop categories:")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, c := range res.TopCategories {
			fmt.Fprintf(tw, "  %s\t%s\t%d%%\n", c.Category, summary.FormatAmount(c.Amount), summary.SharePercent(c.Amount, s.Debits))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if slices := summary.ChartSlices(s); len(slices) > 0 {
		fmt.Fprintln(w, "\nBreakdown:")
		for _, sl := range slices {
			fmt.Fprintf(w, "  %-14s %s %.1f%%\n", sl.Category, bar(sl.Share), sl.Share*100)
		}
	}

	_, err := fmt.Fprintf(w, "\n%s\n", res.Insight)
	return err
}

// bar draws a share in [0, 1] as a fixed-width text bar.
func bar(share float64) string {
	const width = 20
	n := int(share*width + 0.5)
	if n > width {
		n = width
	}
	return strings.Repeat("#", n) + strings.Repeat(".", width-n)
}
