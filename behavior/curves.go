package behavior

import (
	"fmt"
	"sort"
)

// CurvePoint is one breakpoint of an age-indexed step curve: the annualized
// rate in force from Month onward, until the next breakpoint.
type CurvePoint struct {
	Month int
	Rate  float64
}

// stepCurve is a sorted breakpoint list queried as a step function: the rate
// at age m is the rate of the largest breakpoint month <= m, or zero before
// the first breakpoint. Not interpolated.
type stepCurve []CurvePoint

func newStepCurve(op string, points []CurvePoint) (stepCurve, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%s: at least one breakpoint required", op)
	}
	sorted := make(stepCurve, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Month < sorted[j].Month })
	for i, p := range sorted {
		if p.Month < 0 {
			return nil, fmt.Errorf("%s: breakpoint month must be non-negative, got %d", op, p.Month)
		}
		if err := validateAnnualRate(op, p.Rate); err != nil {
			return nil, err
		}
		if i > 0 && sorted[i-1].Month == p.Month {
			return nil, fmt.Errorf("%s: duplicate breakpoint month %d", op, p.Month)
		}
	}
	return sorted, nil
}

func (c stepCurve) rateAt(ageMonths int) float64 {
	// First breakpoint with month > age; the one before it is in force.
	i := sort.Search(len(c), func(i int) bool { return c[i].Month > ageMonths })
	if i == 0 {
		return 0
	}
	return c[i-1].Rate
}

func (c stepCurve) scale(factor float64) stepCurve {
	out := make(stepCurve, len(c))
	for i, p := range c {
		out[i] = CurvePoint{Month: p.Month, Rate: p.Rate * factor}
	}
	return out
}

func (c stepCurve) points() []CurvePoint {
	out := make([]CurvePoint, len(c))
	copy(out, c)
	return out
}

// PrepaymentCurve maps loan age in months to an annualized CPR.
type PrepaymentCurve struct {
	curve stepCurve
}

// ConstantCPR builds a curve that returns the same CPR at every age.
func ConstantCPR(annual float64) (PrepaymentCurve, error) {
	if err := validateAnnualRate("ConstantCPR", annual); err != nil {
		return PrepaymentCurve{}, err
	}
	return PrepaymentCurve{curve: stepCurve{{Month: 0, Rate: annual}}}, nil
}

// NewPrepaymentCurve builds a step curve from explicit (month, CPR)
// breakpoints. Ages before the first breakpoint carry zero rate.
func NewPrepaymentCurve(points []CurvePoint) (PrepaymentCurve, error) {
	c, err := newStepCurve("NewPrepaymentCurve", points)
	if err != nil {
		return PrepaymentCurve{}, err
	}
	return PrepaymentCurve{curve: c}, nil
}

// PSA plateau: CPR ramps 0.2% per month of age and flattens at 6% from
// month 30 onward, all scaled by multiplier/100.
const (
	psaRampStepCPR = 0.002
	psaPlateauCPR  = 0.06
	psaRampMonths  = 30
)

// PSA builds the standard Public Securities Association prepayment ramp at
// the given multiplier (100 = the baseline 100% PSA assumption).
func PSA(multiplier float64) (PrepaymentCurve, error) {
	if multiplier < 0 {
		return PrepaymentCurve{}, fmt.Errorf("PSA: multiplier must be non-negative, got %g", multiplier)
	}
	scale := multiplier / 100.0
	points := make([]CurvePoint, 0, psaRampMonths)
	for m := 1; m < psaRampMonths; m++ {
		points = append(points, CurvePoint{Month: m, Rate: psaRampStepCPR * float64(m) * scale})
	}
	points = append(points, CurvePoint{Month: psaRampMonths, Rate: psaPlateauCPR * scale})
	return NewPrepaymentCurve(points)
}

// RateAtMonth returns the annual CPR in force at the given loan age.
func (c PrepaymentCurve) RateAtMonth(ageMonths int) float64 {
	return c.curve.rateAt(ageMonths)
}

// SMMAtMonth returns the single-month mortality rate at the given loan age.
func (c PrepaymentCurve) SMMAtMonth(ageMonths int) float64 {
	return annualToMonthly(c.curve.rateAt(ageMonths))
}

// Scale returns a new curve with every rate multiplied by factor.
func (c PrepaymentCurve) Scale(factor float64) PrepaymentCurve {
	return PrepaymentCurve{curve: c.curve.scale(factor)}
}

// Points returns a copy of the curve's breakpoints.
func (c PrepaymentCurve) Points() []CurvePoint {
	return c.curve.points()
}

// DefaultCurve maps loan age in months to an annualized CDR.
type DefaultCurve struct {
	curve stepCurve
}

// ConstantCDR builds a curve that returns the same CDR at every age.
func ConstantCDR(annual float64) (DefaultCurve, error) {
	if err := validateAnnualRate("ConstantCDR", annual); err != nil {
		return DefaultCurve{}, err
	}
	return DefaultCurve{curve: stepCurve{{Month: 0, Rate: annual}}}, nil
}

// NewDefaultCurve builds a step curve from explicit (month, CDR)
// breakpoints. Ages before the first breakpoint carry zero rate.
func NewDefaultCurve(points []CurvePoint) (DefaultCurve, error) {
	c, err := newStepCurve("NewDefaultCurve", points)
	if err != nil {
		return DefaultCurve{}, err
	}
	return DefaultCurve{curve: c}, nil
}

// vintage shape: defaults ramp up over the loan's early life, peak, then
// settle to a steady state over the following year.
const vintageDecayMonths = 12

// VintageDefaultCurve builds a rise-then-decay CDR shape: a linear ramp from
// near zero at month 1 to peakCDR at peakMonth, a linear decay to steadyCDR
// over the next twelve months, then steadyCDR for all later ages.
func VintageDefaultCurve(peakCDR float64, peakMonth int, steadyCDR float64) (DefaultCurve, error) {
	if err := validateAnnualRate("VintageDefaultCurve", peakCDR); err != nil {
		return DefaultCurve{}, err
	}
	if err := validateAnnualRate("VintageDefaultCurve", steadyCDR); err != nil {
		return DefaultCurve{}, err
	}
	if peakMonth < 1 {
		return DefaultCurve{}, fmt.Errorf("VintageDefaultCurve: peak month must be >= 1, got %d", peakMonth)
	}

	points := make([]CurvePoint, 0, peakMonth+vintageDecayMonths+1)
	for m := 1; m <= peakMonth; m++ {
		points = append(points, CurvePoint{Month: m, Rate: peakCDR * float64(m) / float64(peakMonth)})
	}
	for m := 1; m < vintageDecayMonths; m++ {
		rate := peakCDR + (steadyCDR-peakCDR)*float64(m)/float64(vintageDecayMonths)
		points = append(points, CurvePoint{Month: peakMonth + m, Rate: rate})
	}
	points = append(points, CurvePoint{Month: peakMonth + vintageDecayMonths, Rate: steadyCDR})
	return NewDefaultCurve(points)
}

// RateAtMonth returns the annual CDR in force at the given loan age.
func (c DefaultCurve) RateAtMonth(ageMonths int) float64 {
	return c.curve.rateAt(ageMonths)
}

// MDRAtMonth returns the monthly default rate at the given loan age.
func (c DefaultCurve) MDRAtMonth(ageMonths int) float64 {
	return annualToMonthly(c.curve.rateAt(ageMonths))
}

// Scale returns a new curve with every rate multiplied by factor.
func (c DefaultCurve) Scale(factor float64) DefaultCurve {
	return DefaultCurve{curve: c.curve.scale(factor)}
}

// Points returns a copy of the curve's breakpoints.
func (c DefaultCurve) Points() []CurvePoint {
	return c.curve.points()
}
