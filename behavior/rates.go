// Package behavior models borrower behavior assumptions for consumer loans:
// annualized prepayment (CPR) and default (CDR) rates, age-indexed curves
// over loan age, loss-given-default, curve-driven expected cash flow
// projection, and deterministic single-event scenario adjustments.
package behavior

import (
	"fmt"
	"math"
)

// annualToMonthly converts an annualized decrement rate to the equivalent
// single-month rate. Zero maps to exactly zero.
func annualToMonthly(annual float64) float64 {
	if annual == 0 {
		return 0
	}
	return 1.0 - math.Pow(1.0-annual, 1.0/12.0)
}

// monthlyToAnnual inverts annualToMonthly.
func monthlyToAnnual(monthly float64) float64 {
	if monthly == 0 {
		return 0
	}
	return 1.0 - math.Pow(1.0-monthly, 12.0)
}

func validateAnnualRate(op string, annual float64) error {
	if annual < 0 || annual >= 1 {
		return fmt.Errorf("%s: annual rate must be in [0, 1), got %g", op, annual)
	}
	return nil
}

// PrepaymentRate is an annualized conditional prepayment rate (CPR).
type PrepaymentRate struct {
	Annual float64
}

// NewPrepaymentRate builds a CPR from an annualized decimal rate in [0, 1).
func NewPrepaymentRate(annual float64) (PrepaymentRate, error) {
	if err := validateAnnualRate("NewPrepaymentRate", annual); err != nil {
		return PrepaymentRate{}, err
	}
	return PrepaymentRate{Annual: annual}, nil
}

// PrepaymentRateFromSMM recovers the annual CPR from a single-month
// mortality rate.
func PrepaymentRateFromSMM(smm float64) (PrepaymentRate, error) {
	if smm < 0 || smm >= 1 {
		return PrepaymentRate{}, fmt.Errorf("PrepaymentRateFromSMM: SMM must be in [0, 1), got %g", smm)
	}
	return PrepaymentRate{Annual: monthlyToAnnual(smm)}, nil
}

// PrepaymentRateFromPercent builds a CPR from a percentage (6.0 = 6% CPR).
func PrepaymentRateFromPercent(pct float64) (PrepaymentRate, error) {
	return NewPrepaymentRate(pct / 100.0)
}

// ZeroPrepaymentRate returns a zero CPR.
func ZeroPrepaymentRate() PrepaymentRate {
	return PrepaymentRate{}
}

// SMM returns the single-month mortality rate equivalent to the annual CPR.
func (r PrepaymentRate) SMM() float64 {
	return annualToMonthly(r.Annual)
}

// ToPercent returns the annual CPR as a percentage.
func (r PrepaymentRate) ToPercent() float64 {
	return r.Annual * 100.0
}

// Scale returns the rate multiplied by a stress factor, revalidated.
func (r PrepaymentRate) Scale(factor float64) (PrepaymentRate, error) {
	return NewPrepaymentRate(r.Annual * factor)
}

func (r PrepaymentRate) IsZero() bool { return r.Annual == 0 }

func (r PrepaymentRate) String() string {
	return fmt.Sprintf("CPR %.2f%%", r.Annual*100)
}

// DefaultRate is an annualized conditional default rate (CDR).
type DefaultRate struct {
	Annual float64
}

// NewDefaultRate builds a CDR from an annualized decimal rate in [0, 1).
func NewDefaultRate(annual float64) (DefaultRate, error) {
	if err := validateAnnualRate("NewDefaultRate", annual); err != nil {
		return DefaultRate{}, err
	}
	return DefaultRate{Annual: annual}, nil
}

// DefaultRateFromMDR recovers the annual CDR from a monthly default rate.
func DefaultRateFromMDR(mdr float64) (DefaultRate, error) {
	if mdr < 0 || mdr >= 1 {
		return DefaultRate{}, fmt.Errorf("DefaultRateFromMDR: MDR must be in [0, 1), got %g", mdr)
	}
	return DefaultRate{Annual: monthlyToAnnual(mdr)}, nil
}

// DefaultRateFromPercent builds a CDR from a percentage (2.0 = 2% CDR).
func DefaultRateFromPercent(pct float64) (DefaultRate, error) {
	return NewDefaultRate(pct / 100.0)
}

// ZeroDefaultRate returns a zero CDR.
func ZeroDefaultRate() DefaultRate {
	return DefaultRate{}
}

// MDR returns the monthly default rate equivalent to the annual CDR.
func (r DefaultRate) MDR() float64 {
	return annualToMonthly(r.Annual)
}

// ToPercent returns the annual CDR as a percentage.
func (r DefaultRate) ToPercent() float64 {
	return r.Annual * 100.0
}

// Scale returns the rate multiplied by a stress factor, revalidated.
func (r DefaultRate) Scale(factor float64) (DefaultRate, error) {
	return NewDefaultRate(r.Annual * factor)
}

func (r DefaultRate) IsZero() bool { return r.Annual == 0 }

func (r DefaultRate) String() string {
	return fmt.Sprintf("CDR %.2f%%", r.Annual*100)
}
