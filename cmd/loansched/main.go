// Command loansched generates a loan's contractual amortization schedule
// and writes it as CSV, JSON, or XLSX.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"loankit/amort"
	"loankit/cashflow"
	"loankit/export"
	"loankit/loan"
	"loankit/money"
	"loankit/temporal"
)

func main() {
	principal := flag.Float64("principal", 0, "Loan principal (required)")
	rate := flag.Float64("rate", 0, "Annual nominal rate as a decimal, e.g. 0.065")
	termMonths := flag.Int("term-months", 0, "Loan term in months (required)")
	frequency := flag.String("frequency", "MONTHLY", "Payment frequency: MONTHLY, QUARTERLY, SEMI_ANNUALLY, ANNUALLY")
	amortType := flag.String("type", "LEVEL_PAYMENT", "Amortization type: LEVEL_PAYMENT, LEVEL_PRINCIPAL, INTEREST_ONLY, BULLET")
	origination := flag.String("origination", "", "Origination date YYYY-MM-DD (required)")
	firstPayment := flag.String("first-payment", "", "Explicit first payment date YYYY-MM-DD (optional)")
	format := flag.String("format", "csv", "Output format: csv, json, xlsx")
	output := flag.String("output", "", "Output path (stdout if omitted; required for xlsx)")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	log := newLogger(*verbose)

	l, err := buildLoan(*principal, *rate, *termMonths, *frequency, *amortType, *origination, *firstPayment)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid loan parameters")
	}

	sched, err := l.GenerateSchedule()
	if err != nil {
		log.Fatal().Err(err).Msg("schedule generation failed")
	}
	payment, err := l.CalculatePayment()
	if err == nil {
		log.Info().
			Str("payment", payment.Round().String()).
			Int("flows", sched.Len()).
			Str("maturity", l.MaturityDate().Format("2006-01-02")).
			Msg("schedule generated")
	}

	if err := writeSchedule(*format, *output, sched); err != nil {
		log.Fatal().Err(err).Msg("write failed")
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func buildLoan(principal, rate float64, termMonths int, frequency, amortType, origination, firstPayment string) (loan.Loan, error) {
	if principal <= 0 {
		return loan.Loan{}, fmt.Errorf("-principal is required and must be positive")
	}
	if termMonths <= 0 {
		return loan.Loan{}, fmt.Errorf("-term-months is required and must be positive")
	}
	freq, err := temporal.ParsePaymentFrequency(strings.ToUpper(frequency))
	if err != nil {
		return loan.Loan{}, err
	}
	typ, err := amort.ParseAmortizationType(strings.ToUpper(amortType))
	if err != nil {
		return loan.Loan{}, err
	}
	orig, err := time.Parse("2006-01-02", origination)
	if err != nil {
		return loan.Loan{}, fmt.Errorf("invalid -origination: %v", err)
	}

	l := loan.Loan{
		Principal:       money.FromFloat(principal),
		AnnualRate:      money.NewInterestRate(rate, money.Monthly),
		Term:            temporal.NewPeriod(termMonths, temporal.Months),
		Frequency:       freq,
		AmortType:       typ,
		OriginationDate: orig,
		DayCount:        temporal.Thirty360,
	}
	if firstPayment != "" {
		fp, err := time.Parse("2006-01-02", firstPayment)
		if err != nil {
			return loan.Loan{}, fmt.Errorf("invalid -first-payment: %v", err)
		}
		l.FirstPaymentDate = fp
	}
	return loan.New(l)
}

func writeSchedule(format, output string, sched cashflow.Schedule) error {
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	switch strings.ToLower(format) {
	case "csv":
		return export.WriteCSV(w, sched)
	case "json":
		return export.WriteJSON(w, sched)
	case "xlsx":
		if output == "" {
			return fmt.Errorf("-output is required for xlsx")
		}
		return export.WriteXLSX(w, sched, "Schedule")
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
