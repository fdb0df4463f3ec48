package portfolio

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"loankit/amort"
	"loankit/behavior"
	"loankit/cashflow"
	"loankit/loan"
	"loankit/money"
	"loankit/temporal"
)

// RepLine is a representative line: a pool of similar loans compressed into
// one synthetic loan with balance-weighted average characteristics, used
// when projecting each loan individually is too slow or the tape is only
// available in aggregate.
type RepLine struct {
	Balance   money.Money
	WAC       money.InterestRate // balance-weighted average coupon
	WAMMonths int                // balance-weighted average remaining term
	Frequency temporal.PaymentFrequency
	AmortType amort.AmortizationType
	AsOf      time.Time
	LoanCount int
}

// FromLoans compresses a pool into a RepLine. Every loan must share the
// payment frequency and amortization type; coupon and term are averaged
// weighted by principal balance.
func FromLoans(loans []loan.Loan, asOf time.Time) (RepLine, error) {
	if len(loans) == 0 {
		return RepLine{}, fmt.Errorf("FromLoans: at least one loan required")
	}
	freq := loans[0].Frequency
	amortType := loans[0].AmortType
	ccy := loans[0].Principal.Currency

	balance := money.ZeroIn(ccy)
	rates := make([]float64, len(loans))
	terms := make([]float64, len(loans))
	weights := make([]float64, len(loans))
	for i, l := range loans {
		if err := l.Validate(); err != nil {
			return RepLine{}, fmt.Errorf("FromLoans: loan %d: %w", i, err)
		}
		if l.Frequency != freq {
			return RepLine{}, fmt.Errorf("FromLoans: loan %d frequency %s differs from %s", i, l.Frequency, freq)
		}
		if l.AmortType != amortType {
			return RepLine{}, fmt.Errorf("FromLoans: loan %d amortization type %s differs from %s", i, l.AmortType, amortType)
		}
		balance = balance.Add(l.Principal)
		rates[i] = l.AnnualRate.Rate
		terms[i] = float64(l.NumPayments())
		weights[i] = l.Principal.Float64()
	}

	wac := stat.Mean(rates, weights)
	wam := stat.Mean(terms, weights)
	return RepLine{
		Balance:   balance,
		WAC:       money.NewInterestRate(wac, money.Monthly),
		WAMMonths: int(math.Round(wam)) * freq.MonthsPerPeriod(),
		Frequency: freq,
		AmortType: amortType,
		AsOf:      asOf,
		LoanCount: len(loans),
	}, nil
}

// ToLoan expands the RepLine back into a synthetic loan for schedule
// generation and valuation.
func (r RepLine) ToLoan() loan.Loan {
	return loan.Loan{
		Principal:       r.Balance,
		AnnualRate:      r.WAC,
		Term:            temporal.NewPeriod(r.WAMMonths, temporal.Months),
		Frequency:       r.Frequency,
		AmortType:       r.AmortType,
		OriginationDate: r.AsOf,
		DayCount:        temporal.Thirty360,
	}
}

// GenerateSchedule produces the RepLine's contractual schedule.
func (r RepLine) GenerateSchedule() (cashflow.Schedule, error) {
	return r.ToLoan().GenerateSchedule()
}

// ExpectedCashFlows projects the RepLine under behavioral curves.
func (r RepLine) ExpectedCashFlows(prepay *behavior.PrepaymentCurve, dflt *behavior.DefaultCurve) (cashflow.Schedule, error) {
	return r.ToLoan().ExpectedCashFlows(prepay, dflt)
}

func (r RepLine) String() string {
	return fmt.Sprintf("RepLine{%d loans, %s, WAC %s, WAM %dmo}",
		r.LoanCount, r.Balance, r.WAC, r.WAMMonths)
}
