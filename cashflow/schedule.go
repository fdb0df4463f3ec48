package cashflow

import (
	"fmt"
	"sort"
	"time"

	"loankit/money"
	"loankit/temporal"
)

// Schedule is an ordered collection of cash flows in one currency.
//
// Schedules are immutable: adjustments return a new Schedule rather than
// mutating in place.
type Schedule struct {
	flows []CashFlow
}

// NewSchedule builds a schedule, validating that every flow shares one
// currency.
func NewSchedule(flows []CashFlow) (Schedule, error) {
	if len(flows) > 1 {
		ccy := flows[0].Amount.Currency
		for _, cf := range flows[1:] {
			if cf.Amount.Currency != ccy {
				return Schedule{}, fmt.Errorf(
					"NewSchedule: mixed currencies %s and %s in one schedule",
					ccy, cf.Amount.Currency)
			}
		}
	}
	owned := make([]CashFlow, len(flows))
	copy(owned, flows)
	return Schedule{flows: owned}, nil
}

// EmptySchedule returns a schedule with no flows.
func EmptySchedule() Schedule {
	return Schedule{}
}

func (s Schedule) Len() int { return len(s.flows) }

// At returns the i-th flow in stored order.
func (s Schedule) At(i int) CashFlow { return s.flows[i] }

// Flows returns a copy of the underlying flows.
func (s Schedule) Flows() []CashFlow {
	out := make([]CashFlow, len(s.flows))
	copy(out, s.flows)
	return out
}

// Currency returns the schedule currency (USD for an empty schedule).
func (s Schedule) Currency() money.Currency {
	if len(s.flows) == 0 {
		return money.USD
	}
	return s.flows[0].Amount.Currency
}

// Append returns a new schedule with extra flows added.
func (s Schedule) Append(flows ...CashFlow) (Schedule, error) {
	merged := make([]CashFlow, 0, len(s.flows)+len(flows))
	merged = append(merged, s.flows...)
	merged = append(merged, flows...)
	return NewSchedule(merged)
}

// FilterByType keeps only flows whose type is among those given.
func (s Schedule) FilterByType(types ...FlowType) Schedule {
	keep := make(map[FlowType]struct{}, len(types))
	for _, t := range types {
		keep[t] = struct{}{}
	}
	var out []CashFlow
	for _, cf := range s.flows {
		if _, ok := keep[cf.Type]; ok {
			out = append(out, cf)
		}
	}
	return Schedule{flows: out}
}

// FilterByDateRange keeps flows with start <= date <= end.
func (s Schedule) FilterByDateRange(start, end time.Time) Schedule {
	var out []CashFlow
	for _, cf := range s.flows {
		if !cf.Date.Before(start) && !cf.Date.After(end) {
			out = append(out, cf)
		}
	}
	return Schedule{flows: out}
}

// PrincipalFlows returns the principal-repaying flows (scheduled principal,
// prepayments, and balloons).
func (s Schedule) PrincipalFlows() Schedule {
	var out []CashFlow
	for _, cf := range s.flows {
		if cf.Type.principalLike() {
			out = append(out, cf)
		}
	}
	return Schedule{flows: out}
}

// InterestFlows returns only INTEREST flows.
func (s Schedule) InterestFlows() Schedule {
	return s.FilterByType(Interest)
}

// TotalAmount sums every flow.
func (s Schedule) TotalAmount() money.Money {
	total := money.ZeroIn(s.Currency())
	for _, cf := range s.flows {
		total = total.Add(cf.Amount)
	}
	return total
}

// SumByType sums the flows carrying the given type tag.
func (s Schedule) SumByType(t FlowType) money.Money {
	total := money.ZeroIn(s.Currency())
	for _, cf := range s.flows {
		if cf.Type == t {
			total = total.Add(cf.Amount)
		}
	}
	return total
}

// TotalsByType sums flows grouped by type tag.
func (s Schedule) TotalsByType() map[FlowType]money.Money {
	out := make(map[FlowType]money.Money)
	for _, cf := range s.flows {
		if acc, ok := out[cf.Type]; ok {
			out[cf.Type] = acc.Add(cf.Amount)
		} else {
			out[cf.Type] = cf.Amount
		}
	}
	return out
}

// Sorted returns a copy ordered by date (stable within a date).
func (s Schedule) Sorted() Schedule {
	out := make([]CashFlow, len(s.flows))
	copy(out, s.flows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return Schedule{flows: out}
}

// EarliestDate returns the earliest flow date; ok is false for an empty
// schedule.
func (s Schedule) EarliestDate() (time.Time, bool) {
	if len(s.flows) == 0 {
		return time.Time{}, false
	}
	earliest := s.flows[0].Date
	for _, cf := range s.flows[1:] {
		if cf.Date.Before(earliest) {
			earliest = cf.Date
		}
	}
	return earliest, true
}

// LatestDate returns the latest flow date; ok is false for an empty schedule.
func (s Schedule) LatestDate() (time.Time, bool) {
	if len(s.flows) == 0 {
		return time.Time{}, false
	}
	latest := s.flows[0].Date
	for _, cf := range s.flows[1:] {
		if cf.Date.After(latest) {
			latest = cf.Date
		}
	}
	return latest, true
}

// DateRange returns the earliest and latest flow dates.
func (s Schedule) DateRange() (time.Time, time.Time, bool) {
	earliest, ok := s.EarliestDate()
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	latest, _ := s.LatestDate()
	return earliest, latest, true
}

// AggregateByPeriod buckets flows into calendar periods of the given
// frequency, summing per (period, type). Bucket flows are dated at the first
// day of their period.
func (s Schedule) AggregateByPeriod(freq temporal.PaymentFrequency) Schedule {
	type bucketKey struct {
		date time.Time
		typ  FlowType
	}
	months := freq.MonthsPerPeriod()
	sums := make(map[bucketKey]money.Money)
	for _, cf := range s.flows {
		m := int(cf.Date.Month()) - 1
		bucketMonth := time.Month(m/months*months + 1)
		key := bucketKey{
			date: time.Date(cf.Date.Year(), bucketMonth, 1, 0, 0, 0, 0, time.UTC),
			typ:  cf.Type,
		}
		if acc, ok := sums[key]; ok {
			sums[key] = acc.Add(cf.Amount)
		} else {
			sums[key] = cf.Amount
		}
	}
	out := make([]CashFlow, 0, len(sums))
	for key, amount := range sums {
		out = append(out, CashFlow{Date: key.date, Amount: amount, Type: key.typ})
	}
	return Schedule{flows: out}.Sorted()
}

// Arrays returns parallel date and float amount slices for numeric callers.
func (s Schedule) Arrays() ([]time.Time, []float64) {
	dates := make([]time.Time, len(s.flows))
	amounts := make([]float64, len(s.flows))
	for i, cf := range s.flows {
		dates[i] = cf.Date
		amounts[i] = cf.Amount.Float64()
	}
	return dates, amounts
}

func (s Schedule) String() string {
	if len(s.flows) == 0 {
		return "Schedule(empty)"
	}
	earliest, latest, _ := s.DateRange()
	return fmt.Sprintf("Schedule(%d flows, %s to %s)",
		len(s.flows), earliest.Format("2006-01-02"), latest.Format("2006-01-02"))
}
