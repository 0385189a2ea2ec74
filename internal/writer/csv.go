package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/insightdelivered/statement-insights/internal/models"
)

// transactionRow is one CSV line; gocsv derives the header from the tags.
type transactionRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Category    string `csv:"Category"`
	Direction   string `csv:"Direction"`
	Amount      string `csv:"Amount"`
}

// CSVWriter writes transactions to CSV format.
type CSVWriter struct {
	// IncludeSummary prefixes the table with "# "-labelled total rows.
	IncludeSummary bool
}

// WriteToFile writes transactions to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, txns []models.Transaction, s models.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := w.Write(f, txns, s); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file %q: %w", path, err)
	}
	return nil
}

// Write writes transactions in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, txns []models.Transaction, s models.Summary) error {
	if w.IncludeSummary {
		if err := writeSummary(out, len(txns), s); err != nil {
			return err
		}
	}

	rows := make([]*transactionRow, 0, len(txns))
	for _, txn := range txns {
		rows = append(rows, &transactionRow{
			Date:        txn.DateText(),
			Description: txn.DescriptionText(),
			Category:    txn.CategoryText(),
			Direction:   strings.ToUpper(txn.DirectionText()),
			Amount:      txn.AmountValue().StringFixed(2),
		})
	}
	if err := gocsv.Marshal(rows, out); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

// writeSummary emits label/value metadata rows ahead of the table.
func writeSummary(out io.Writer, count int, s models.Summary) error {
	writer := csv.NewWriter(out)
	records := [][]string{
		{"# Transactions", fmt.Sprint(count)},
		{"# Credits", s.Credits.StringFixed(2)},
		{"# Debits", s.Debits.StringFixed(2)},
		{"# Net", s.Net().StringFixed(2)},
	}
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV summary: %w", err)
	}
	return nil
}
