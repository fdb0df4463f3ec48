// Package loan models a consumer loan (mortgage, auto, personal) and ties
// the schedule generators, behavioral overlays, and valuation analytics
// together behind one input type.
package loan

import (
	"fmt"
	"math"
	"time"

	"loankit/amort"
	"loankit/behavior"
	"loankit/cashflow"
	"loankit/money"
	"loankit/temporal"
)

// Loan describes a fixed-rate consumer loan. The core generators consume
// these fields read-only; adjustments always produce new schedules.
type Loan struct {
	Principal        money.Money
	AnnualRate       money.InterestRate
	Term             temporal.Period
	Frequency        temporal.PaymentFrequency
	AmortType        amort.AmortizationType
	OriginationDate  time.Time
	FirstPaymentDate time.Time // optional; defaults to origination + 1 period
	DayCount         temporal.DayCount
	Calendar         *temporal.Calendar
	Convention       temporal.BusinessDayConvention
}

// New validates and returns a loan.
func New(l Loan) (Loan, error) {
	if err := l.Validate(); err != nil {
		return Loan{}, err
	}
	return l, nil
}

// Validate checks the loan's fields for internal consistency.
func (l Loan) Validate() error {
	if !l.Principal.IsPositive() {
		return fmt.Errorf("loan: principal must be positive, got %s", l.Principal)
	}
	if l.AnnualRate.Rate < 0 {
		return fmt.Errorf("loan: annual rate must be non-negative, got %g", l.AnnualRate.Rate)
	}
	if l.Term.IsZero() || l.Term.Length < 0 {
		return fmt.Errorf("loan: term must be positive, got %s", l.Term)
	}
	if l.OriginationDate.IsZero() {
		return fmt.Errorf("loan: origination date required")
	}
	if l.NumPayments() <= 0 {
		return fmt.Errorf("loan: term %s and frequency %s yield no payments", l.Term, l.Frequency)
	}
	return nil
}

// Mortgage builds a standard monthly level-payment mortgage. Rate is the
// annual nominal rate as a decimal (0.065 for 6.5%).
func Mortgage(principal float64, annualRate float64, termYears int, origination time.Time) Loan {
	return Loan{
		Principal:       money.FromFloat(principal),
		AnnualRate:      money.NewInterestRate(annualRate, money.Monthly),
		Term:            temporal.NewPeriod(termYears, temporal.Years),
		Frequency:       temporal.Monthly,
		AmortType:       amort.LevelPayment,
		OriginationDate: origination,
		DayCount:        temporal.Thirty360,
	}
}

// AutoLoan builds a monthly level-payment auto loan with a term in months.
func AutoLoan(principal float64, annualRate float64, termMonths int, origination time.Time) Loan {
	return Loan{
		Principal:       money.FromFloat(principal),
		AnnualRate:      money.NewInterestRate(annualRate, money.Monthly),
		Term:            temporal.NewPeriod(termMonths, temporal.Months),
		Frequency:       temporal.Monthly,
		AmortType:       amort.LevelPayment,
		OriginationDate: origination,
		DayCount:        temporal.Thirty360,
	}
}

// PersonalLoan builds a monthly level-payment personal loan with a term in
// months.
func PersonalLoan(principal float64, annualRate float64, termMonths int, origination time.Time) Loan {
	return AutoLoan(principal, annualRate, termMonths, origination)
}

// NumPayments returns the total scheduled payment count implied by the term
// and payment frequency.
func (l Loan) NumPayments() int {
	return int(math.Round(l.Term.ToYears() * float64(l.Frequency.PeriodsPerYear())))
}

// PeriodicRate returns the per-payment-period interest rate.
func (l Loan) PeriodicRate() float64 {
	return l.AnnualRate.PeriodicRate(l.Frequency.PeriodsPerYear())
}

// FirstPayment returns the explicit first payment date if set, otherwise
// origination plus one payment period.
func (l Loan) FirstPayment() time.Time {
	if !l.FirstPaymentDate.IsZero() {
		return l.FirstPaymentDate
	}
	return l.Frequency.Period().AddTo(l.OriginationDate)
}

// PaymentDates returns the full scheduled payment date sequence.
func (l Loan) PaymentDates() []time.Time {
	return amort.GeneratePaymentDates(l.FirstPayment(), l.Frequency, l.NumPayments(), l.Calendar, l.Convention)
}

// MaturityDate returns the final scheduled payment date.
func (l Loan) MaturityDate() time.Time {
	dates := l.PaymentDates()
	if len(dates) == 0 {
		return time.Time{}
	}
	return dates[len(dates)-1]
}

// CalculatePayment returns the scheduled periodic payment for level-payment
// loans (and the level payment equivalent for other types).
func (l Loan) CalculatePayment() (money.Money, error) {
	return amort.CalculateLevelPayment(l.Principal, l.PeriodicRate(), l.NumPayments())
}

// GenerateSchedule produces the loan's contractual cash flow schedule with
// no behavioral assumptions.
func (l Loan) GenerateSchedule() (cashflow.Schedule, error) {
	if err := l.Validate(); err != nil {
		return cashflow.Schedule{}, err
	}
	return amort.GenerateSchedule(l.AmortType, l.Principal, l.PeriodicRate(), l.NumPayments(), l.PaymentDates())
}

// TotalInterest returns the sum of all scheduled interest flows.
func (l Loan) TotalInterest() (money.Money, error) {
	sched, err := l.GenerateSchedule()
	if err != nil {
		return money.Money{}, err
	}
	return sched.SumByType(cashflow.Interest), nil
}

// TotalPayments returns the sum of all scheduled flows.
func (l Loan) TotalPayments() (money.Money, error) {
	sched, err := l.GenerateSchedule()
	if err != nil {
		return money.Money{}, err
	}
	return sched.TotalAmount(), nil
}

// projectionInput maps the loan onto the expected cash flow projector.
func (l Loan) projectionInput() behavior.ProjectionInput {
	return behavior.ProjectionInput{
		Balance:          l.Principal,
		PeriodicRate:     l.PeriodicRate(),
		AmortType:        l.AmortType,
		NumPayments:      l.NumPayments(),
		FirstPaymentDate: l.FirstPayment(),
		Frequency:        l.Frequency,
		Calendar:         l.Calendar,
		Convention:       l.Convention,
	}
}

// ExpectedCashFlows projects the loan's cash flows under optional prepayment
// and default curves. With both curves nil the output matches
// GenerateSchedule flow for flow.
func (l Loan) ExpectedCashFlows(prepay *behavior.PrepaymentCurve, dflt *behavior.DefaultCurve) (cashflow.Schedule, error) {
	if err := l.Validate(); err != nil {
		return cashflow.Schedule{}, err
	}
	in := l.projectionInput()
	in.Prepayment = prepay
	in.Default = dflt
	return behavior.ExpectedCashFlows(in)
}

// Project is ExpectedCashFlows plus the reconciliation ledger (defaulted
// balance and terminal residual).
func (l Loan) Project(prepay *behavior.PrepaymentCurve, dflt *behavior.DefaultCurve) (behavior.Projection, error) {
	if err := l.Validate(); err != nil {
		return behavior.Projection{}, err
	}
	in := l.projectionInput()
	in.Prepayment = prepay
	in.Default = dflt
	return behavior.Project(in)
}

// ApplyPrepayment applies a single unscheduled prepayment on a date,
// re-amortizing the remaining balance over the remaining payments so the
// maturity date is preserved.
func (l Loan) ApplyPrepayment(date time.Time, amount money.Money) (cashflow.Schedule, error) {
	sched, err := l.GenerateSchedule()
	if err != nil {
		return cashflow.Schedule{}, err
	}
	return behavior.ApplyPrepaymentScenario(behavior.PrepaymentScenarioInput{
		Schedule:          sched,
		OriginalPrincipal: l.Principal,
		PeriodicRate:      l.PeriodicRate(),
		Frequency:         l.Frequency,
		AmortType:         l.AmortType,
		Date:              date,
		Amount:            amount,
		Calendar:          l.Calendar,
		Convention:        l.Convention,
	})
}

// ApplyDefault applies a single default event on a date under a
// loss-given-default assumption, truncating the schedule and appending the
// lagged recovery.
func (l Loan) ApplyDefault(date time.Time, lgd behavior.LossGivenDefault) (behavior.DefaultScenarioResult, error) {
	sched, err := l.GenerateSchedule()
	if err != nil {
		return behavior.DefaultScenarioResult{}, err
	}
	return behavior.ApplyDefaultScenario(behavior.DefaultScenarioInput{
		Schedule:          sched,
		OriginalPrincipal: l.Principal,
		Date:              date,
		LGD:               lgd,
	})
}
