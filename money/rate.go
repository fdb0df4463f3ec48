package money

import (
	"fmt"
	"math"
)

// CompoundingConvention describes how a nominal annual rate compounds.
type CompoundingConvention int

const (
	Simple CompoundingConvention = iota
	Annual
	SemiAnnual
	Quarterly
	Monthly
	Continuous
)

func (c CompoundingConvention) String() string {
	switch c {
	case Simple:
		return "SIMPLE"
	case Annual:
		return "ANNUAL"
	case SemiAnnual:
		return "SEMI_ANNUAL"
	case Quarterly:
		return "QUARTERLY"
	case Monthly:
		return "MONTHLY"
	case Continuous:
		return "CONTINUOUS"
	default:
		return fmt.Sprintf("CompoundingConvention(%d)", int(c))
	}
}

// periodsPerYear returns the compounding frequency, or 0 for conventions
// without a discrete frequency.
func (c CompoundingConvention) periodsPerYear() float64 {
	switch c {
	case Annual:
		return 1
	case SemiAnnual:
		return 2
	case Quarterly:
		return 4
	case Monthly:
		return 12
	default:
		return 0
	}
}

// InterestRate is a nominal annual rate with its compounding convention.
//
// Rate is a decimal (0.065 == 6.5%). Consumer-loan quotes compound monthly,
// so that is the default convention used by the constructors.
type InterestRate struct {
	Rate        float64
	Compounding CompoundingConvention
}

// NewInterestRate builds a rate with an explicit compounding convention.
func NewInterestRate(rate float64, compounding CompoundingConvention) InterestRate {
	return InterestRate{Rate: rate, Compounding: compounding}
}

// RateFromPercent builds a monthly-compounded rate from a percentage
// (6.5 -> 0.065).
func RateFromPercent(pct float64) InterestRate {
	return InterestRate{Rate: pct / 100.0, Compounding: Monthly}
}

// RateFromBasisPoints builds a monthly-compounded rate from basis points
// (650 -> 0.065).
func RateFromBasisPoints(bps float64) InterestRate {
	return InterestRate{Rate: bps / 10000.0, Compounding: Monthly}
}

func (r InterestRate) ToPercent() float64     { return r.Rate * 100.0 }
func (r InterestRate) ToBasisPoints() float64 { return r.Rate * 10000.0 }

// PeriodicRate returns the per-payment-period rate for a payment frequency,
// using the standard nominal division (annual rate / periods per year).
func (r InterestRate) PeriodicRate(periodsPerYear int) float64 {
	return r.Rate / float64(periodsPerYear)
}

// CompoundFactor returns the growth factor over t years.
func (r InterestRate) CompoundFactor(t float64) float64 {
	switch r.Compounding {
	case Simple:
		return 1.0 + r.Rate*t
	case Continuous:
		return math.Exp(r.Rate * t)
	default:
		m := r.Compounding.periodsPerYear()
		return math.Pow(1.0+r.Rate/m, m*t)
	}
}

// DiscountFactor returns the present-value factor over t years.
func (r InterestRate) DiscountFactor(t float64) float64 {
	return 1.0 / r.CompoundFactor(t)
}

// ConvertTo re-expresses the rate under another compounding convention,
// preserving the one-year compound factor.
func (r InterestRate) ConvertTo(target CompoundingConvention) InterestRate {
	if target == r.Compounding {
		return r
	}
	factor := r.CompoundFactor(1.0)
	var rate float64
	switch target {
	case Simple:
		rate = factor - 1.0
	case Continuous:
		rate = math.Log(factor)
	default:
		m := target.periodsPerYear()
		rate = m * (math.Pow(factor, 1.0/m) - 1.0)
	}
	return InterestRate{Rate: rate, Compounding: target}
}

func (r InterestRate) String() string {
	return fmt.Sprintf("%.4f%% %s", r.ToPercent(), r.Compounding)
}

// Spread is a rate add-on expressed in basis points.
type Spread struct {
	BasisPoints float64
}

func SpreadFromBps(bps float64) Spread     { return Spread{BasisPoints: bps} }
func SpreadFromPercent(pct float64) Spread { return Spread{BasisPoints: pct * 100.0} }
func SpreadFromDecimal(d float64) Spread   { return Spread{BasisPoints: d * 10000.0} }

func (s Spread) ToDecimal() float64 { return s.BasisPoints / 10000.0 }
func (s Spread) ToPercent() float64 { return s.BasisPoints / 100.0 }

// ApplyTo shifts a base rate by the spread, keeping its compounding.
func (s Spread) ApplyTo(base InterestRate) InterestRate {
	return InterestRate{Rate: base.Rate + s.ToDecimal(), Compounding: base.Compounding}
}
