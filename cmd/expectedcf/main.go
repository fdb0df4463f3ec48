// Command expectedcf projects a loan's expected cash flows under prepayment
// and default curve assumptions and writes the result as CSV, JSON, or XLSX.
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
	"loankit/behavior"
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

	cpr := flag.Float64("cpr", 0, "Constant annual CPR as a decimal (mutually exclusive with -psa)")
	psa := flag.Float64("psa", 0, "PSA multiplier, e.g. 100 for 100% PSA")
	cdr := flag.Float64("cdr", 0, "Constant annual CDR as a decimal (mutually exclusive with -vintage)")
	vintagePeak := flag.Float64("vintage-peak", 0, "Vintage curve peak CDR as a decimal")
	vintagePeakMonth := flag.Int("vintage-peak-month", 24, "Vintage curve peak month")
	vintageSteady := flag.Float64("vintage-steady", 0, "Vintage curve steady-state CDR as a decimal")

	format := flag.String("format", "csv", "Output format: csv, json, xlsx")
	output := flag.String("output", "", "Output path (stdout if omitted; required for xlsx)")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	log := newLogger(*verbose)

	l, err := buildLoan(*principal, *rate, *termMonths, *frequency, *amortType, *origination)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid loan parameters")
	}

	prepayCurve, err := buildPrepaymentCurve(*cpr, *psa)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid prepayment assumption")
	}
	defaultCurve, err := buildDefaultCurve(*cdr, *vintagePeak, *vintagePeakMonth, *vintageSteady)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid default assumption")
	}

	proj, err := l.Project(prepayCurve, defaultCurve)
	if err != nil {
		log.Fatal().Err(err).Msg("projection failed")
	}

	received := proj.Schedule.SumByType(cashflow.Principal).
		Add(proj.Schedule.SumByType(cashflow.Prepayment))
	log.Info().
		Int("flows", proj.Schedule.Len()).
		Str("principal_received", received.Round().String()).
		Str("defaulted_balance", proj.DefaultedBalance.Round().String()).
		Msg("projection complete")

	if err := writeSchedule(*format, *output, proj.Schedule); err != nil {
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

func buildLoan(principal, rate float64, termMonths int, frequency, amortType, origination string) (loan.Loan, error) {
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
	return loan.New(loan.Loan{
		Principal:       money.FromFloat(principal),
		AnnualRate:      money.NewInterestRate(rate, money.Monthly),
		Term:            temporal.NewPeriod(termMonths, temporal.Months),
		Frequency:       freq,
		AmortType:       typ,
		OriginationDate: orig,
		DayCount:        temporal.Thirty360,
	})
}

func buildPrepaymentCurve(cpr, psa float64) (*behavior.PrepaymentCurve, error) {
	switch {
	case cpr > 0 && psa > 0:
		return nil, fmt.Errorf("-cpr and -psa are mutually exclusive")
	case psa > 0:
		c, err := behavior.PSA(psa)
		if err != nil {
			return nil, err
		}
		return &c, nil
	case cpr > 0:
		c, err := behavior.ConstantCPR(cpr)
		if err != nil {
			return nil, err
		}
		return &c, nil
	default:
		return nil, nil
	}
}

func buildDefaultCurve(cdr, peak float64, peakMonth int, steady float64) (*behavior.DefaultCurve, error) {
	switch {
	case cdr > 0 && peak > 0:
		return nil, fmt.Errorf("-cdr and -vintage-peak are mutually exclusive")
	case peak > 0:
		c, err := behavior.VintageDefaultCurve(peak, peakMonth, steady)
		if err != nil {
			return nil, err
		}
		return &c, nil
	case cdr > 0:
		c, err := behavior.ConstantCDR(cdr)
		if err != nil {
			return nil, err
		}
		return &c, nil
	default:
		return nil, nil
	}
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
		return export.WriteXLSX(w, sched, "ExpectedCashFlows")
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
