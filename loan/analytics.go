package loan

import (
	"time"

	"loankit/cashflow"
	"loankit/money"
)

// PresentValue discounts the loan's contractual schedule under a curve.
func (l Loan) PresentValue(curve cashflow.DiscountCurve) (money.Money, error) {
	sched, err := l.GenerateSchedule()
	if err != nil {
		return money.Money{}, err
	}
	return sched.PresentValue(curve), nil
}

// WeightedAverageLife returns the WAL in years of the contractual principal
// flows. A zero asOf defaults to the origination date.
func (l Loan) WeightedAverageLife(asOf time.Time) (float64, error) {
	if asOf.IsZero() {
		asOf = l.OriginationDate
	}
	sched, err := l.GenerateSchedule()
	if err != nil {
		return 0, err
	}
	return sched.WeightedAverageLife(asOf), nil
}

// YieldToMaturity solves the annualized yield that equates the loan's
// contractual cash flows to a purchase price paid on the settlement date. A
// zero settlement defaults to the origination date. Buying at par returns
// (approximately) the loan's effective annual rate.
func (l Loan) YieldToMaturity(price money.Money, settlement time.Time) (float64, error) {
	if settlement.IsZero() {
		settlement = l.OriginationDate
	}
	sched, err := l.GenerateSchedule()
	if err != nil {
		return 0, err
	}
	return sched.XIRR(price, settlement)
}

// Duration returns the Macaulay (or modified) duration in years of the
// contractual schedule under a discount curve.
func (l Loan) Duration(curve cashflow.DiscountCurve, modified bool) (float64, error) {
	sched, err := l.GenerateSchedule()
	if err != nil {
		return 0, err
	}
	return sched.Duration(curve, modified)
}

// Convexity returns the convexity of the contractual schedule under a
// discount curve.
func (l Loan) Convexity(curve cashflow.DiscountCurve) (float64, error) {
	sched, err := l.GenerateSchedule()
	if err != nil {
		return 0, err
	}
	return sched.Convexity(curve)
}
