// Package amort generates amortization schedules for consumer loans:
// payment-date sequences, the four standard amortization styles, and
// re-amortization after balance-changing events.
package amort

import "fmt"

// AmortizationType selects which schedule generator applies. The four styles
// are a closed set; generation dispatches on the tag rather than subclassing.
type AmortizationType int

const (
	LevelPayment AmortizationType = iota
	LevelPrincipal
	InterestOnly
	Bullet
)

// ParseAmortizationType parses the wire names used in flat-row import/export.
func ParseAmortizationType(s string) (AmortizationType, error) {
	switch s {
	case "LEVEL_PAYMENT":
		return LevelPayment, nil
	case "LEVEL_PRINCIPAL":
		return LevelPrincipal, nil
	case "INTEREST_ONLY":
		return InterestOnly, nil
	case "BULLET":
		return Bullet, nil
	default:
		return 0, fmt.Errorf("ParseAmortizationType: unknown type %q", s)
	}
}

func (t AmortizationType) String() string {
	switch t {
	case LevelPayment:
		return "LEVEL_PAYMENT"
	case LevelPrincipal:
		return "LEVEL_PRINCIPAL"
	case InterestOnly:
		return "INTEREST_ONLY"
	case Bullet:
		return "BULLET"
	default:
		return fmt.Sprintf("AmortizationType(%d)", int(t))
	}
}

// ReamortizationMethod selects how a fresh forward schedule is rebuilt after
// a balance-changing event.
//
// KeepMaturity recomputes a new level payment over the originally remaining
// payment count, preserving the maturity date. KeepPayment holds the payment
// amount fixed and solves for the number of periods, moving the payoff date.
type ReamortizationMethod int

const (
	KeepMaturity ReamortizationMethod = iota
	KeepPayment
)

func (m ReamortizationMethod) String() string {
	switch m {
	case KeepMaturity:
		return "KEEP_MATURITY"
	case KeepPayment:
		return "KEEP_PAYMENT"
	default:
		return fmt.Sprintf("ReamortizationMethod(%d)", int(m))
	}
}
