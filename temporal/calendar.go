package temporal

import "time"

// Calendar is a business-day calendar: weekends plus a holiday set.
//
// Loan servicing calendars arrive as input data, so holidays are supplied
// by the caller rather than baked in.
type Calendar struct {
	Name     string
	holidays map[string]struct{}
}

// NewCalendar builds a calendar from a holiday list. An empty list yields a
// weekends-only calendar.
func NewCalendar(name string, holidays ...time.Time) *Calendar {
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[h.Format("2006-01-02")] = struct{}{}
	}
	return &Calendar{Name: name, holidays: set}
}

// IsBusinessDay checks weekends and the holiday set.
func (c *Calendar) IsBusinessDay(t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	_, holiday := c.holidays[t.Format("2006-01-02")]
	return !holiday
}

// BusinessDayConvention selects how a raw schedule date rolls to a valid
// business day.
type BusinessDayConvention int

const (
	Unadjusted BusinessDayConvention = iota
	Following
	ModifiedFollowing
	Preceding
)

func (bdc BusinessDayConvention) String() string {
	switch bdc {
	case Following:
		return "FOLLOWING"
	case ModifiedFollowing:
		return "MODIFIED_FOLLOWING"
	case Preceding:
		return "PRECEDING"
	default:
		return "UNADJUSTED"
	}
}

// Adjust rolls t to a business day per the convention. A nil calendar or
// Unadjusted convention returns t unchanged.
func Adjust(cal *Calendar, t time.Time, convention BusinessDayConvention) time.Time {
	if cal == nil || convention == Unadjusted {
		return t
	}
	switch convention {
	case Following:
		for !cal.IsBusinessDay(t) {
			t = t.AddDate(0, 0, 1)
		}
		return t
	case Preceding:
		for !cal.IsBusinessDay(t) {
			t = t.AddDate(0, 0, -1)
		}
		return t
	case ModifiedFollowing:
		origMonth := t.Month()
		for !cal.IsBusinessDay(t) {
			t = t.AddDate(0, 0, 1)
		}
		if t.Month() != origMonth {
			t = t.AddDate(0, 0, -1)
			for !cal.IsBusinessDay(t) {
				t = t.AddDate(0, 0, -1)
			}
		}
		return t
	default:
		return t
	}
}
