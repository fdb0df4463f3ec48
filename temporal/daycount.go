package temporal

import "time"

// DayCount is a day-count convention for accrual and discounting time axes.
type DayCount int

const (
	// Act365F is the standard curve time axis (actual days / 365).
	Act365F DayCount = iota
	Act360
	Thirty360
)

func (dc DayCount) String() string {
	switch dc {
	case Act365F:
		return "ACT/365F"
	case Act360:
		return "ACT/360"
	case Thirty360:
		return "30/360"
	default:
		return "ACT/365F"
	}
}

// DaysBetween returns the number of calendar days from start to end (ACT).
func DaysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// YearFraction returns the accrual fraction between two dates under the
// convention.
func (dc DayCount) YearFraction(start, end time.Time) float64 {
	switch dc {
	case Act360:
		return float64(DaysBetween(start, end)) / 360.0
	case Thirty360:
		d1, d2 := start.Day(), end.Day()
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
		days := 360*(end.Year()-start.Year()) +
			30*(int(end.Month())-int(start.Month())) +
			(d2 - d1)
		return float64(days) / 360.0
	default:
		return float64(DaysBetween(start, end)) / 365.0
	}
}
