// Package export flattens cash flow schedules into rows for CSV, JSON, and
// XLSX output.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"

	"loankit/cashflow"
)

const dateLayout = "2006-01-02"

// Row is one cash flow flattened for output. Amounts are rendered at the
// currency's minor units.
type Row struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Rows flattens a schedule in its current flow order.
func Rows(s cashflow.Schedule) []Row {
	rows := make([]Row, 0, s.Len())
	for _, cf := range s.Flows() {
		rows = append(rows, Row{
			Date:        cf.Date.Format(dateLayout),
			Amount:      cf.Amount.Round().Amount.StringFixed(cf.Amount.Currency.MinorUnits),
			Currency:    cf.Amount.Currency.Code,
			Type:        string(cf.Type),
			Description: cf.Description,
		})
	}
	return rows
}

var header = []string{"date", "amount", "currency", "type", "description"}

// WriteCSV writes the schedule as CSV with a header row.
func WriteCSV(w io.Writer, s cashflow.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export.WriteCSV: %w", err)
	}
	for _, r := range Rows(s) {
		if err := cw.Write([]string{r.Date, r.Amount, r.Currency, r.Type, r.Description}); err != nil {
			return fmt.Errorf("export.WriteCSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export.WriteCSV: %w", err)
	}
	return nil
}

// WriteJSON writes the schedule as a JSON array of rows.
func WriteJSON(w io.Writer, s cashflow.Schedule) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Rows(s)); err != nil {
		return fmt.Errorf("export.WriteJSON: %w", err)
	}
	return nil
}

// WriteXLSX writes the schedule as a single-sheet workbook.
func WriteXLSX(w io.Writer, s cashflow.Schedule, sheet string) error {
	if sheet == "" {
		sheet = "Schedule"
	}
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}

	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("export.WriteXLSX: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("export.WriteXLSX: %w", err)
		}
	}
	for i, r := range Rows(s) {
		values := []any{r.Date, r.Amount, r.Currency, r.Type, r.Description}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("export.WriteXLSX: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("export.WriteXLSX: %w", err)
			}
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	return nil
}
