package temporal

import "fmt"

// PaymentFrequency is how often scheduled loan payments occur.
type PaymentFrequency int

const (
	Monthly PaymentFrequency = iota
	Quarterly
	SemiAnnually
	Annually
)

// ParsePaymentFrequency parses the wire names used in flat-row import/export.
func ParsePaymentFrequency(s string) (PaymentFrequency, error) {
	switch s {
	case "MONTHLY":
		return Monthly, nil
	case "QUARTERLY":
		return Quarterly, nil
	case "SEMI_ANNUALLY":
		return SemiAnnually, nil
	case "ANNUALLY":
		return Annually, nil
	default:
		return 0, fmt.Errorf("ParsePaymentFrequency: unknown frequency %q", s)
	}
}

// Period returns the tenor between consecutive payments.
func (f PaymentFrequency) Period() Period {
	switch f {
	case Monthly:
		return Period{1, Months}
	case Quarterly:
		return Period{3, Months}
	case SemiAnnually:
		return Period{6, Months}
	case Annually:
		return Period{1, Years}
	default:
		return Period{}
	}
}

// PeriodsPerYear returns the number of payments per year.
func (f PaymentFrequency) PeriodsPerYear() int {
	switch f {
	case Monthly:
		return 12
	case Quarterly:
		return 4
	case SemiAnnually:
		return 2
	case Annually:
		return 1
	default:
		return 0
	}
}

// MonthsPerPeriod returns the number of months between payments.
func (f PaymentFrequency) MonthsPerPeriod() int {
	return 12 / f.PeriodsPerYear()
}

func (f PaymentFrequency) String() string {
	switch f {
	case Monthly:
		return "MONTHLY"
	case Quarterly:
		return "QUARTERLY"
	case SemiAnnually:
		return "SEMI_ANNUALLY"
	case Annually:
		return "ANNUALLY"
	default:
		return fmt.Sprintf("PaymentFrequency(%d)", int(f))
	}
}
