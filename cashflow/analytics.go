package cashflow

import (
	"fmt"
	"math"
	"time"

	"loankit/money"
)

// PresentValue discounts every flow to the curve's valuation date and sums.
func (s Schedule) PresentValue(curve DiscountCurve) money.Money {
	total := money.ZeroIn(s.Currency())
	for _, cf := range s.flows {
		total = total.Add(cf.PresentValue(curve))
	}
	return total
}

const (
	irrTolerance = 1e-10
	irrMaxIter   = 100
	irrFloor     = -0.95
	irrCeiling   = 10.0
)

// XIRR solves for the annualized internal rate of return of the schedule
// against an initial outflow. A zero outflowDate defaults to the day before
// the first cash flow.
//
// The solver uses Newton-Raphson with analytic first derivative, clamped to
// a plausible rate range.
func (s Schedule) XIRR(initialOutflow money.Money, outflowDate time.Time) (float64, error) {
	if len(s.flows) == 0 {
		return 0, fmt.Errorf("XIRR: cannot calculate XIRR for empty schedule")
	}
	if !initialOutflow.IsPositive() {
		return 0, fmt.Errorf("XIRR: initial outflow must be positive, got %s", initialOutflow)
	}
	if outflowDate.IsZero() {
		first, _ := s.Sorted().EarliestDate()
		outflowDate = first.AddDate(0, 0, -1)
	}

	outflow := initialOutflow.Float64()
	dates, amounts := s.Arrays()
	times := make([]float64, len(dates))
	for i, d := range dates {
		times[i] = float64(d.Sub(outflowDate).Hours()) / 24.0 / 365.0
	}

	r := 0.10 // initial guess
	for iter := 0; iter < irrMaxIter; iter++ {
		var f, df float64
		f = -outflow
		for i := range amounts {
			disc := math.Pow(1.0+r, times[i])
			f += amounts[i] / disc
			df += -times[i] * amounts[i] / math.Pow(1.0+r, times[i]+1.0)
		}
		if math.Abs(f) < irrTolerance*math.Max(1.0, outflow) {
			return r, nil
		}
		if math.Abs(df) < 1e-15 {
			return r, fmt.Errorf("XIRR: derivative too small at iter %d", iter)
		}
		r = clamp(r-f/df, irrFloor, irrCeiling)
	}
	return r, fmt.Errorf("XIRR: did not converge after %d iterations", irrMaxIter)
}

// WeightedAverageLife returns the average time in years until principal
// repayment, weighted by repaid amount. Only principal-type flows count;
// no discounting is applied.
func (s Schedule) WeightedAverageLife(asOf time.Time) float64 {
	principal := s.PrincipalFlows()
	var weighted, total float64
	for _, cf := range principal.flows {
		if !cf.Date.After(asOf) {
			continue
		}
		t := float64(cf.Date.Sub(asOf).Hours()) / 24.0 / 365.0
		amt := cf.Amount.Float64()
		weighted += t * amt
		total += amt
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// Duration returns the schedule's duration in years: Macaulay if modified is
// false, otherwise modified duration (Macaulay / (1 + y) at the curve's
// implied one-year yield).
func (s Schedule) Duration(curve DiscountCurve, modified bool) (float64, error) {
	mac, _, err := s.macaulay(curve)
	if err != nil {
		return 0, err
	}
	if !modified {
		return mac, nil
	}
	y := impliedAnnualYield(curve)
	return mac / (1.0 + y), nil
}

// Convexity returns the second-order price sensitivity factor of the
// schedule under the discount curve.
func (s Schedule) Convexity(curve DiscountCurve) (float64, error) {
	if len(s.flows) == 0 {
		return 0, fmt.Errorf("Convexity: empty schedule")
	}
	valuation := curve.ValuationDate()
	var weighted, totalPV float64
	for _, cf := range s.flows {
		if !cf.Date.After(valuation) {
			continue
		}
		t := float64(cf.Date.Sub(valuation).Hours()) / 24.0 / 365.0
		pv := cf.Amount.Float64() * curve.DiscountFactor(cf.Date)
		weighted += t * (t + 1.0) * pv
		totalPV += pv
	}
	if totalPV == 0 {
		return 0, fmt.Errorf("Convexity: schedule has no future value under curve")
	}
	y := impliedAnnualYield(curve)
	return weighted / (totalPV * (1.0 + y) * (1.0 + y)), nil
}

// macaulay returns the PV-weighted average time to cash flow in years and
// the total PV used for the weights.
func (s Schedule) macaulay(curve DiscountCurve) (float64, float64, error) {
	if len(s.flows) == 0 {
		return 0, 0, fmt.Errorf("Duration: empty schedule")
	}
	valuation := curve.ValuationDate()
	var weighted, totalPV float64
	for _, cf := range s.flows {
		if !cf.Date.After(valuation) {
			continue
		}
		t := float64(cf.Date.Sub(valuation).Hours()) / 24.0 / 365.0
		pv := cf.Amount.Float64() * curve.DiscountFactor(cf.Date)
		weighted += t * pv
		totalPV += pv
	}
	if totalPV == 0 {
		return 0, 0, fmt.Errorf("Duration: schedule has no future value under curve")
	}
	return weighted / totalPV, totalPV, nil
}

// impliedAnnualYield backs an effective annual yield out of the curve's
// one-year discount factor.
func impliedAnnualYield(curve DiscountCurve) float64 {
	oneYear := curve.ValuationDate().AddDate(1, 0, 0)
	df := curve.DiscountFactor(oneYear)
	if df <= 0 {
		return 0
	}
	return 1.0/df - 1.0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
