package amort

import (
	"fmt"
	"math"
	"time"

	"loankit/cashflow"
	"loankit/money"
	"loankit/temporal"
)

// ReamortizeInput carries everything needed to rebuild a forward schedule
// after a balance-changing event such as a curtailment or modification.
//
// AmortType selects the schedule style for the rebuilt tail (zero value is
// LevelPayment). Method applies to level-payment re-amortization:
// KeepMaturity requires RemainingPayments; KeepPayment requires
// TargetPayment. The other amortization styles always rebuild over
// RemainingPayments per their own generator, so the payoff date never moves.
// Calendar and Convention are optional date-roll settings applied to the
// regenerated payment dates.
type ReamortizeInput struct {
	Balance           money.Money
	PeriodicRate      float64
	AmortType         AmortizationType
	Method            ReamortizationMethod
	RemainingPayments int
	TargetPayment     money.Money
	FirstPaymentDate  time.Time
	Frequency         temporal.PaymentFrequency
	Calendar          *temporal.Calendar
	Convention        temporal.BusinessDayConvention
}

// ReamortizeResult is the rebuilt schedule plus the resolved payment terms.
// Payment is the solved level payment; it is zero for amortization styles
// with no fixed payment.
type ReamortizeResult struct {
	Schedule    cashflow.Schedule
	Payment     money.Money
	NumPayments int
}

// Reamortize rebuilds a forward schedule for a remaining balance.
//
// For level-payment loans, under KeepMaturity the payment count is held
// fixed and a fresh level payment is solved, so the payoff date does not
// move. Under KeepPayment the payment amount is held fixed and the count is
// solved (rounded up), so the final payment shrinks to whatever retires the
// balance and the payoff date moves accordingly.
//
// Level-principal, interest-only, and bullet loans keep their style: the
// remaining balance is re-spread over the remaining payment dates by the
// matching generator (a bullet's balloon simply shrinks at the final date).
func Reamortize(in ReamortizeInput) (ReamortizeResult, error) {
	if !in.Balance.IsPositive() {
		return ReamortizeResult{}, fmt.Errorf("Reamortize: remaining balance must be positive, got %s", in.Balance)
	}
	if in.PeriodicRate < 0 {
		return ReamortizeResult{}, fmt.Errorf("Reamortize: periodic rate must be non-negative, got %g", in.PeriodicRate)
	}
	if in.FirstPaymentDate.IsZero() {
		return ReamortizeResult{}, fmt.Errorf("Reamortize: first payment date required")
	}

	if in.AmortType != LevelPayment {
		if in.RemainingPayments <= 0 {
			return ReamortizeResult{}, fmt.Errorf("Reamortize: remaining_payments required for %s", in.AmortType)
		}
		n := in.RemainingPayments
		dates := GeneratePaymentDates(in.FirstPaymentDate, in.Frequency, n, in.Calendar, in.Convention)
		sched, err := GenerateSchedule(in.AmortType, in.Balance, in.PeriodicRate, n, dates)
		if err != nil {
			return ReamortizeResult{}, err
		}
		return ReamortizeResult{
			Schedule:    sched,
			Payment:     money.ZeroIn(in.Balance.Currency),
			NumPayments: n,
		}, nil
	}

	var (
		payment money.Money
		n       int
		err     error
	)
	switch in.Method {
	case KeepMaturity:
		if in.RemainingPayments <= 0 {
			return ReamortizeResult{}, fmt.Errorf("Reamortize: remaining_payments required for KEEP_MATURITY")
		}
		n = in.RemainingPayments
		payment, err = CalculateLevelPayment(in.Balance, in.PeriodicRate, n)
		if err != nil {
			return ReamortizeResult{}, err
		}
	case KeepPayment:
		if !in.TargetPayment.IsPositive() {
			return ReamortizeResult{}, fmt.Errorf("Reamortize: target_payment required for KEEP_PAYMENT")
		}
		n, err = solvePaymentCount(in.Balance, in.PeriodicRate, in.TargetPayment)
		if err != nil {
			return ReamortizeResult{}, err
		}
		payment = in.TargetPayment
	default:
		return ReamortizeResult{}, fmt.Errorf("Reamortize: unknown method %v", in.Method)
	}

	dates := GeneratePaymentDates(in.FirstPaymentDate, in.Frequency, n, in.Calendar, in.Convention)
	sched, err := GenerateLevelPaymentSchedule(in.Balance, in.PeriodicRate, n, dates, payment)
	if err != nil {
		return ReamortizeResult{}, err
	}
	return ReamortizeResult{Schedule: sched, Payment: payment, NumPayments: n}, nil
}

// solvePaymentCount inverts the annuity formula for the number of periods:
//
//	n = -ln(1 - B*r/pmt) / ln(1 + r)
//
// rounded up to a whole period; the generator's final-period adjustment then
// reduces the last payment. The payment must exceed a single period's
// interest or the balance never amortizes.
func solvePaymentCount(balance money.Money, periodicRate float64, payment money.Money) (int, error) {
	b := balance.Float64()
	pmt := payment.Float64()
	if periodicRate == 0 {
		return int(math.Ceil(b / pmt)), nil
	}
	interest := b * periodicRate
	if pmt <= interest {
		return 0, fmt.Errorf(
			"Reamortize: payment amount too low to amortize balance (payment %s <= period interest %.2f)",
			payment, interest)
	}
	n := -math.Log(1.0-b*periodicRate/pmt) / math.Log(1.0+periodicRate)
	return int(math.Ceil(n - 1e-9)), nil
}
