package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"

	"loankit/cashflow"
	"loankit/money"
)

func sampleSchedule(t *testing.T) cashflow.Schedule {
	t.Helper()
	sched, err := cashflow.NewSchedule([]cashflow.CashFlow{
		cashflow.New(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), money.FromFloat(1625), cashflow.Interest),
		cashflow.New(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), money.FromFloat(271.204), cashflow.Principal),
	})
	if err != nil {
		t.Fatalf("NewSchedule: %v", err)
	}
	return sched
}

func TestRows(t *testing.T) {
	rows := Rows(sampleSchedule(t))
	if len(rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(rows))
	}
	if rows[0].Date != "2025-02-01" || rows[0].Type != "INTEREST" || rows[0].Amount != "1625.00" {
		t.Fatalf("unexpected first row %+v", rows[0])
	}
	// Rounded to the currency's minor units.
	if rows[1].Amount != "271.20" {
		t.Fatalf("amount = %s, want 271.20", rows[1].Amount)
	}
	if rows[1].Currency != "USD" {
		t.Fatalf("currency = %s, want USD", rows[1].Currency)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleSchedule(t)); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3", len(lines))
	}
	if lines[0] != "date,amount,currency,type,description" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2025-02-01,1625.00,USD,INTEREST") {
		t.Fatalf("first data line = %q", lines[1])
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleSchedule(t)); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var rows []Row
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(rows) != 2 || rows[1].Type != "PRINCIPAL" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleSchedule(t), ""); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Schedule", "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "2025-02-01" {
		t.Fatalf("A2 = %q, want 2025-02-01", got)
	}
	got, err = f.GetCellValue("Schedule", "D3")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "PRINCIPAL" {
		t.Fatalf("D3 = %q, want PRINCIPAL", got)
	}
}
