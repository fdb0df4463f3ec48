package cashflow

import (
	"fmt"
	"math"
	"sort"
	"time"

	"loankit/money"
	"loankit/temporal"
)

// DiscountCurve provides present-value factors for valuation.
//
// DiscountFactor must return 1.0 for dates on or before the valuation date.
type DiscountCurve interface {
	ValuationDate() time.Time
	DiscountFactor(t time.Time) float64
}

// curve time axis: ACT/365F, the standard convention for discount curve
// interpolation regardless of currency.
const curveDayCount = temporal.Act365F

// FlatDiscountCurve discounts every horizon at a single rate.
type FlatDiscountCurve struct {
	Rate      money.InterestRate
	valuation time.Time
}

// NewFlatDiscountCurve builds a flat curve anchored at a valuation date.
func NewFlatDiscountCurve(rate money.InterestRate, valuationDate time.Time) FlatDiscountCurve {
	return FlatDiscountCurve{Rate: rate, valuation: valuationDate}
}

func (c FlatDiscountCurve) ValuationDate() time.Time { return c.valuation }

func (c FlatDiscountCurve) DiscountFactor(t time.Time) float64 {
	if !t.After(c.valuation) {
		return 1.0
	}
	return c.Rate.DiscountFactor(curveDayCount.YearFraction(c.valuation, t))
}

// SpotRate returns the (flat) zero rate for any maturity.
func (c FlatDiscountCurve) SpotRate(time.Time) money.InterestRate {
	return c.Rate
}

// ZeroPoint is one node of a zero curve.
type ZeroPoint struct {
	Date time.Time
	Rate float64 // annually-expressed zero rate as a decimal
}

// ZeroCurve interpolates zero rates linearly between nodes, with flat
// extrapolation beyond the first and last node.
type ZeroCurve struct {
	valuation   time.Time
	points      []ZeroPoint
	compounding money.CompoundingConvention
}

// NewZeroCurve builds a zero curve from rate nodes. Nodes are sorted by
// date; every node must lie after the valuation date.
func NewZeroCurve(valuationDate time.Time, points []ZeroPoint) (ZeroCurve, error) {
	if len(points) == 0 {
		return ZeroCurve{}, fmt.Errorf("NewZeroCurve: at least one point required")
	}
	sorted := make([]ZeroPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	for _, p := range sorted {
		if !p.Date.After(valuationDate) {
			return ZeroCurve{}, fmt.Errorf(
				"NewZeroCurve: point %s is not after valuation date %s",
				p.Date.Format("2006-01-02"), valuationDate.Format("2006-01-02"))
		}
	}
	return ZeroCurve{valuation: valuationDate, points: sorted, compounding: money.Monthly}, nil
}

func (c ZeroCurve) ValuationDate() time.Time { return c.valuation }

// Points returns a copy of the curve nodes.
func (c ZeroCurve) Points() []ZeroPoint {
	out := make([]ZeroPoint, len(c.points))
	copy(out, c.points)
	return out
}

// zeroRateAt interpolates the zero rate for a date: linear between the two
// bracketing nodes, flat beyond the ends.
func (c ZeroCurve) zeroRateAt(t time.Time) float64 {
	n := len(c.points)
	if !t.After(c.points[0].Date) {
		return c.points[0].Rate
	}
	if !t.Before(c.points[n-1].Date) {
		return c.points[n-1].Rate
	}
	// First node with date >= t.
	i := sort.Search(n, func(i int) bool { return !c.points[i].Date.Before(t) })
	lo, hi := c.points[i-1], c.points[i]
	tLo := curveDayCount.YearFraction(c.valuation, lo.Date)
	tHi := curveDayCount.YearFraction(c.valuation, hi.Date)
	tt := curveDayCount.YearFraction(c.valuation, t)
	w := (tt - tLo) / (tHi - tLo)
	return lo.Rate + w*(hi.Rate-lo.Rate)
}

func (c ZeroCurve) DiscountFactor(t time.Time) float64 {
	if !t.After(c.valuation) {
		return 1.0
	}
	rate := money.NewInterestRate(c.zeroRateAt(t), c.compounding)
	return rate.DiscountFactor(curveDayCount.YearFraction(c.valuation, t))
}

// SpotRate returns the interpolated zero rate for a maturity after the
// valuation date.
func (c ZeroCurve) SpotRate(t time.Time) (money.InterestRate, error) {
	if !t.After(c.valuation) {
		return money.InterestRate{}, fmt.Errorf(
			"ZeroCurve.SpotRate: maturity must be after valuation date %s",
			c.valuation.Format("2006-01-02"))
	}
	return money.NewInterestRate(c.zeroRateAt(t), c.compounding), nil
}

// ForwardRate returns the annualized simple-compounded rate implied between
// two future dates by the curve's discount factors.
func (c ZeroCurve) ForwardRate(start, end time.Time) (money.InterestRate, error) {
	if !start.After(c.valuation) || !end.After(start) {
		return money.InterestRate{}, fmt.Errorf(
			"ZeroCurve.ForwardRate: need valuation < start < end")
	}
	dfStart := c.DiscountFactor(start)
	dfEnd := c.DiscountFactor(end)
	span := curveDayCount.YearFraction(start, end)
	fwd := math.Pow(dfStart/dfEnd, 1.0/span) - 1.0
	return money.NewInterestRate(fwd, money.Annual), nil
}
