package temporal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeUnit is the unit of a tenor.
type TimeUnit int

const (
	Days TimeUnit = iota
	Weeks
	Months
	Years
)

func (u TimeUnit) String() string {
	switch u {
	case Days:
		return "D"
	case Weeks:
		return "W"
	case Months:
		return "M"
	case Years:
		return "Y"
	default:
		return fmt.Sprintf("TimeUnit(%d)", int(u))
	}
}

// Period is a calendar tenor such as 3 months or 30 years.
type Period struct {
	Length int
	Unit   TimeUnit
}

// NewPeriod builds a period.
func NewPeriod(length int, unit TimeUnit) Period {
	return Period{Length: length, Unit: unit}
}

// ParsePeriod parses tenor strings like "3M", "30Y", "90D", "2W".
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if len(s) < 2 {
		return Period{}, fmt.Errorf("ParsePeriod: invalid tenor %q", s)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return Period{}, fmt.Errorf("ParsePeriod: invalid tenor %q", s)
	}
	switch s[len(s)-1] {
	case 'D':
		return Period{n, Days}, nil
	case 'W':
		return Period{n, Weeks}, nil
	case 'M':
		return Period{n, Months}, nil
	case 'Y':
		return Period{n, Years}, nil
	default:
		return Period{}, fmt.Errorf("ParsePeriod: invalid tenor unit in %q", s)
	}
}

// AddTo advances a date by the period. Month and year steps clamp to the
// end of month like Excel's EDATE, avoiding Go's month normalization
// surprises (Jan 31 + 1M -> Feb 29, not Mar 2).
func (p Period) AddTo(t time.Time) time.Time {
	switch p.Unit {
	case Days:
		return t.AddDate(0, 0, p.Length)
	case Weeks:
		return t.AddDate(0, 0, 7*p.Length)
	case Months:
		return AddMonths(t, p.Length)
	case Years:
		return AddMonths(t, 12*p.Length)
	default:
		return t
	}
}

// AddMonths behaves like Excel's EDATE: the day of month is preserved where
// possible and clamped to the last day of the target month otherwise.
func AddMonths(t time.Time, months int) time.Time {
	d := t.AddDate(0, months, 0)
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	if d.Month() == firstOfTarget.Month() {
		return d
	}
	// Normalization rolled into the next month; back up to the month end.
	origMonth := d.Month()
	for d.Month() == origMonth {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// ToDays returns the exact day count for day/week periods and errors for
// month/year periods, which have no exact day length.
func (p Period) ToDays() (int, error) {
	switch p.Unit {
	case Days:
		return p.Length, nil
	case Weeks:
		return 7 * p.Length, nil
	default:
		return 0, fmt.Errorf("Period.ToDays: %s has no exact day count", p)
	}
}

// ApproxDays returns the conventional approximate day count
// (30-day months, 365-day years).
func (p Period) ApproxDays() float64 {
	switch p.Unit {
	case Days:
		return float64(p.Length)
	case Weeks:
		return 7 * float64(p.Length)
	case Months:
		return 30 * float64(p.Length)
	case Years:
		return 365 * float64(p.Length)
	default:
		return 0
	}
}

// ToMonths returns the period length in months (30-day approximation for
// day/week periods).
func (p Period) ToMonths() float64 {
	switch p.Unit {
	case Months:
		return float64(p.Length)
	case Years:
		return 12 * float64(p.Length)
	default:
		return p.ApproxDays() / 30.0
	}
}

// ToYears returns the period length in years.
func (p Period) ToYears() float64 {
	switch p.Unit {
	case Years:
		return float64(p.Length)
	case Months:
		return float64(p.Length) / 12.0
	default:
		return p.ApproxDays() / 365.0
	}
}

// Cmp orders periods by approximate day length.
func (p Period) Cmp(other Period) int {
	a, b := p.ApproxDays(), other.ApproxDays()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (p Period) IsZero() bool {
	return p.Length == 0
}

func (p Period) String() string {
	return fmt.Sprintf("%d%s", p.Length, p.Unit)
}
