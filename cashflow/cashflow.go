package cashflow

import (
	"fmt"
	"time"

	"loankit/money"
)

// FlowType tags the economic nature of a cash flow.
type FlowType string

const (
	Principal  FlowType = "PRINCIPAL"
	Interest   FlowType = "INTEREST"
	Prepayment FlowType = "PREPAYMENT"
	Default    FlowType = "DEFAULT"
	Recovery   FlowType = "RECOVERY"
	Balloon    FlowType = "BALLOON"
	Fee        FlowType = "FEE"
)

// principalLike reports whether the flow type repays loan principal.
// Prepayments and balloons retire principal; deterministic recoveries are
// emitted as PRINCIPAL flows directly, so Recovery is not included here.
func (t FlowType) principalLike() bool {
	return t == Principal || t == Prepayment || t == Balloon
}

// CashFlow is a single dated payment. Immutable once constructed.
type CashFlow struct {
	Date        time.Time
	Amount      money.Money
	Type        FlowType
	Description string
}

// New builds a cash flow without a description.
func New(date time.Time, amount money.Money, typ FlowType) CashFlow {
	return CashFlow{Date: date, Amount: amount, Type: typ}
}

// PresentValue discounts the flow to the curve's valuation date. Flows on or
// before the valuation date are not discounted.
func (cf CashFlow) PresentValue(curve DiscountCurve) money.Money {
	return cf.Amount.MulFloat(curve.DiscountFactor(cf.Date))
}

func (cf CashFlow) String() string {
	return fmt.Sprintf("%s %-10s %s", cf.Date.Format("2006-01-02"), cf.Type, cf.Amount)
}
