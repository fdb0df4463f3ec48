package behavior

import (
	"fmt"
	"math"
	"time"

	"loankit/amort"
	"loankit/cashflow"
	"loankit/money"
	"loankit/temporal"
)

// ProjectionInput describes a loan position and the behavioral curves to
// overlay on its scheduled amortization. A nil curve means zero rate at
// every age.
type ProjectionInput struct {
	Balance          money.Money
	PeriodicRate     float64
	AmortType        amort.AmortizationType
	NumPayments      int
	FirstPaymentDate time.Time
	Frequency        temporal.PaymentFrequency
	Calendar         *temporal.Calendar
	Convention       temporal.BusinessDayConvention
	Prepayment       *PrepaymentCurve
	Default          *DefaultCurve
}

// Projection is the projector's full output: the expected cash flow
// schedule plus the reconciliation ledger. Scheduled principal, prepayments,
// defaulted balance, and the terminal residual (folded into the final
// principal flow) sum to the starting balance.
type Projection struct {
	Schedule         cashflow.Schedule
	DefaultedBalance money.Money
	Residual         money.Money
}

// Projection terminates once the performing balance falls to cents.
const balanceEpsilon = 0.01

// ExpectedCashFlows projects the lender's expected received cash flows under
// the input's behavioral curves. See Project for the reconciliation detail.
func ExpectedCashFlows(in ProjectionInput) (cashflow.Schedule, error) {
	p, err := Project(in)
	if err != nil {
		return cashflow.Schedule{}, err
	}
	return p.Schedule, nil
}

// ApplyPrepaymentCurve projects expected cash flows under a prepayment curve
// alone, with no default modeling.
func ApplyPrepaymentCurve(in ProjectionInput, curve PrepaymentCurve) (cashflow.Schedule, error) {
	in.Prepayment = &curve
	in.Default = nil
	return ExpectedCashFlows(in)
}

// Project walks the loan period by period. Each period it computes the
// scheduled interest and principal for the current performing balance, then
// decrements the post-scheduled balance by prepayment (SMM) and then default
// (MDR); prepaying balances are not subject to default in the same period.
//
// Scheduled INTEREST, PRINCIPAL, and PREPAYMENT flows are emitted, with the
// terminal interest-only/bullet repayment typed BALLOON as in the plain
// generators; curve-driven defaults emit no flow and instead shrink the
// performing pool,
// so the output is expected received cash, not a loss ledger. When the
// balance falls below a cents-level epsilon the projection terminates and
// the residual is folded into the final principal flow.
//
// With both curves nil the output is flow-for-flow identical to the plain
// schedule generator.
func Project(in ProjectionInput) (Projection, error) {
	if !in.Balance.IsPositive() {
		return Projection{}, fmt.Errorf("Project: balance must be positive, got %s", in.Balance)
	}
	if in.PeriodicRate < 0 {
		return Projection{}, fmt.Errorf("Project: periodic rate must be non-negative, got %g", in.PeriodicRate)
	}
	if in.NumPayments <= 0 {
		return Projection{}, fmt.Errorf("Project: number of payments must be positive, got %d", in.NumPayments)
	}
	if in.FirstPaymentDate.IsZero() {
		return Projection{}, fmt.Errorf("Project: first payment date required")
	}

	ccy := in.Balance.Currency
	if in.Prepayment == nil && in.Default == nil {
		dates := amort.GeneratePaymentDates(in.FirstPaymentDate, in.Frequency, in.NumPayments, in.Calendar, in.Convention)
		sched, err := amort.GenerateSchedule(in.AmortType, in.Balance, in.PeriodicRate, in.NumPayments, dates)
		if err != nil {
			return Projection{}, err
		}
		return Projection{
			Schedule:         sched,
			DefaultedBalance: money.ZeroIn(ccy),
			Residual:         money.ZeroIn(ccy),
		}, nil
	}

	dates := amort.GeneratePaymentDates(in.FirstPaymentDate, in.Frequency, in.NumPayments, in.Calendar, in.Convention)
	monthsPerPeriod := in.Frequency.MonthsPerPeriod()
	eps := money.FromFloatCurrency(balanceEpsilon, ccy)

	// The scheduled payment is solved once on the starting balance and held
	// fixed. Prepayments then accelerate payoff (the loan terminates early)
	// rather than shrinking later payments, matching a fixed-payment note.
	var fixedPayment, fixedSlice money.Money
	switch in.AmortType {
	case amort.LevelPayment:
		payment, err := amort.CalculateLevelPayment(in.Balance, in.PeriodicRate, in.NumPayments)
		if err != nil {
			return Projection{}, err
		}
		fixedPayment = payment
	case amort.LevelPrincipal:
		fixedSlice = in.Balance.DivInt(in.NumPayments)
	}

	balance := in.Balance
	defaulted := money.ZeroIn(ccy)
	residual := money.ZeroIn(ccy)
	flows := make([]cashflow.CashFlow, 0, 3*in.NumPayments)

	for k := 0; k < in.NumPayments && balance.IsPositive(); k++ {
		age := k*monthsPerPeriod + 1
		remaining := in.NumPayments - k

		interest, schedPrincipal, err := scheduledComponents(in.AmortType, balance, in.PeriodicRate, remaining, fixedPayment, fixedSlice)
		if err != nil {
			return Projection{}, err
		}
		if schedPrincipal.GreaterThan(balance) {
			schedPrincipal = balance
		}
		afterSched := balance.Sub(schedPrincipal)

		prepay := money.ZeroIn(ccy)
		defaultAmt := money.ZeroIn(ccy)
		if in.Prepayment != nil {
			prepay = afterSched.MulFloat(periodDecrement(in.Prepayment.SMMAtMonth(age), monthsPerPeriod))
		}
		if in.Default != nil {
			defaultAmt = afterSched.Sub(prepay).MulFloat(periodDecrement(in.Default.MDRAtMonth(age), monthsPerPeriod))
		}

		if interest.IsPositive() {
			flows = append(flows, cashflow.New(dates[k], interest, cashflow.Interest))
		}
		// Interest-only and bullet loans repay in a terminal balloon; keep
		// the flow typed the same way the plain generators type it.
		principalType := cashflow.Principal
		if remaining == 1 && (in.AmortType == amort.InterestOnly || in.AmortType == amort.Bullet) {
			principalType = cashflow.Balloon
		}
		principalIdx := -1
		if schedPrincipal.IsPositive() {
			flows = append(flows, cashflow.New(dates[k], schedPrincipal, principalType))
			principalIdx = len(flows) - 1
		}
		if prepay.IsPositive() {
			flows = append(flows, cashflow.New(dates[k], prepay, cashflow.Prepayment))
		}

		defaulted = defaulted.Add(defaultAmt)
		balance = afterSched.Sub(prepay).Sub(defaultAmt)

		if !balance.GreaterThan(eps) {
			if balance.IsPositive() {
				residual = balance
				if principalIdx >= 0 {
					flows[principalIdx].Amount = flows[principalIdx].Amount.Add(residual)
				} else {
					flows = append(flows, cashflow.New(dates[k], residual, cashflow.Principal))
				}
			}
			balance = money.ZeroIn(ccy)
		}
	}

	sched, err := cashflow.NewSchedule(flows)
	if err != nil {
		return Projection{}, err
	}
	return Projection{Schedule: sched, DefaultedBalance: defaulted, Residual: residual}, nil
}

// scheduledComponents returns the period's scheduled interest and principal
// for the current performing balance, per amortization style. Interest is
// always computed on the balance actually outstanding this period; bullet
// loans pay nothing until the final period.
func scheduledComponents(
	typ amort.AmortizationType,
	balance money.Money,
	periodicRate float64,
	remaining int,
	fixedPayment, fixedSlice money.Money,
) (interest, principal money.Money, err error) {
	zero := money.ZeroIn(balance.Currency)
	switch typ {
	case amort.LevelPayment:
		interest = balance.MulFloat(periodicRate)
		if remaining == 1 {
			return interest, balance, nil
		}
		return interest, fixedPayment.Sub(interest), nil
	case amort.LevelPrincipal:
		interest = balance.MulFloat(periodicRate)
		if remaining == 1 {
			return interest, balance, nil
		}
		return interest, fixedSlice, nil
	case amort.InterestOnly:
		interest = balance.MulFloat(periodicRate)
		if remaining == 1 {
			return interest, balance, nil
		}
		return interest, zero, nil
	case amort.Bullet:
		if remaining == 1 {
			return zero, balance, nil
		}
		return zero, zero, nil
	default:
		return zero, zero, fmt.Errorf("Project: unknown amortization type %v", typ)
	}
}

// periodDecrement compounds a single-month decrement rate over the months in
// one payment period.
func periodDecrement(monthlyRate float64, months int) float64 {
	if monthlyRate == 0 {
		return 0
	}
	if months == 1 {
		return monthlyRate
	}
	return 1.0 - math.Pow(1.0-monthlyRate, float64(months))
}
