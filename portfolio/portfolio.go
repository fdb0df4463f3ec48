// Package portfolio aggregates loans: whole-portfolio cash flow and
// balance roll-ups, stratification, and representative-line compression.
package portfolio

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"loankit/behavior"
	"loankit/cashflow"
	"loankit/loan"
	"loankit/money"
)

// Portfolio is a collection of loans analyzed as one position.
type Portfolio struct {
	Name  string
	Loans []loan.Loan
}

// New builds a portfolio after validating every loan.
func New(name string, loans []loan.Loan) (Portfolio, error) {
	for i, l := range loans {
		if err := l.Validate(); err != nil {
			return Portfolio{}, fmt.Errorf("portfolio %q: loan %d: %w", name, i, err)
		}
	}
	return Portfolio{Name: name, Loans: loans}, nil
}

// Len returns the loan count.
func (p Portfolio) Len() int { return len(p.Loans) }

// TotalPrincipal sums the loans' principal balances.
func (p Portfolio) TotalPrincipal() money.Money {
	if len(p.Loans) == 0 {
		return money.Zero()
	}
	total := money.ZeroIn(p.Loans[0].Principal.Currency)
	for _, l := range p.Loans {
		total = total.Add(l.Principal)
	}
	return total
}

// AggregateSchedule merges every loan's contractual schedule into one
// date-sorted schedule.
func (p Portfolio) AggregateSchedule() (cashflow.Schedule, error) {
	var flows []cashflow.CashFlow
	for i, l := range p.Loans {
		sched, err := l.GenerateSchedule()
		if err != nil {
			return cashflow.Schedule{}, fmt.Errorf("portfolio %q: loan %d: %w", p.Name, i, err)
		}
		flows = append(flows, sched.Flows()...)
	}
	sched, err := cashflow.NewSchedule(flows)
	if err != nil {
		return cashflow.Schedule{}, err
	}
	return sched.Sorted(), nil
}

// ExpectedCashFlows merges every loan's projected schedule under shared
// behavioral curves into one date-sorted schedule.
func (p Portfolio) ExpectedCashFlows(prepay *behavior.PrepaymentCurve, dflt *behavior.DefaultCurve) (cashflow.Schedule, error) {
	var flows []cashflow.CashFlow
	for i, l := range p.Loans {
		sched, err := l.ExpectedCashFlows(prepay, dflt)
		if err != nil {
			return cashflow.Schedule{}, fmt.Errorf("portfolio %q: loan %d: %w", p.Name, i, err)
		}
		flows = append(flows, sched.Flows()...)
	}
	sched, err := cashflow.NewSchedule(flows)
	if err != nil {
		return cashflow.Schedule{}, err
	}
	return sched.Sorted(), nil
}

// WeightedAverageCoupon returns the balance-weighted average annual rate of
// the pool as a decimal.
func (p Portfolio) WeightedAverageCoupon() float64 {
	if len(p.Loans) == 0 {
		return 0
	}
	rates := make([]float64, len(p.Loans))
	weights := make([]float64, len(p.Loans))
	for i, l := range p.Loans {
		rates[i] = l.AnnualRate.Rate
		weights[i] = l.Principal.Float64()
	}
	return stat.Mean(rates, weights)
}

// WeightedAverageLife returns the WAL in years of the pool's aggregate
// contractual principal flows as of a date.
func (p Portfolio) WeightedAverageLife(asOf time.Time) (float64, error) {
	sched, err := p.AggregateSchedule()
	if err != nil {
		return 0, err
	}
	return sched.WeightedAverageLife(asOf), nil
}

// StratificationKey names a dimension loans can be grouped on.
type StratificationKey func(loan.Loan) string

// ByAmortizationType groups loans by amortization style.
func ByAmortizationType(l loan.Loan) string {
	return l.AmortType.String()
}

// ByRateBucket groups loans into coupon buckets of the given width in
// percent (e.g. width 0.5 buckets 6.37% as "6.00-6.50").
func ByRateBucket(widthPct float64) StratificationKey {
	return func(l loan.Loan) string {
		pct := l.AnnualRate.ToPercent()
		lo := float64(int(pct/widthPct)) * widthPct
		return fmt.Sprintf("%.2f-%.2f", lo, lo+widthPct)
	}
}

// ByTermBucket groups loans by original term in whole years.
func ByTermBucket(l loan.Loan) string {
	return fmt.Sprintf("%dY", int(l.Term.ToYears()))
}

// ByVintage groups loans by origination year.
func ByVintage(l loan.Loan) string {
	return fmt.Sprintf("%d", l.OriginationDate.Year())
}

// Stratify splits the portfolio into sub-portfolios keyed by the given
// dimension, each named "<portfolio>/<bucket>".
func (p Portfolio) Stratify(key StratificationKey) map[string]Portfolio {
	buckets := make(map[string][]loan.Loan)
	for _, l := range p.Loans {
		k := key(l)
		buckets[k] = append(buckets[k], l)
	}
	out := make(map[string]Portfolio, len(buckets))
	for k, loans := range buckets {
		out[k] = Portfolio{Name: p.Name + "/" + k, Loans: loans}
	}
	return out
}

// BucketNames returns the sorted bucket keys of a stratification result.
func BucketNames(strata map[string]Portfolio) []string {
	names := make([]string, 0, len(strata))
	for k := range strata {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
