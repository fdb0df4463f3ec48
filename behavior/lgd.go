package behavior

import (
	"fmt"

	"loankit/money"
	"loankit/temporal"
)

// LossGivenDefault is a default severity assumption: the fraction of
// exposure lost when a loan defaults, plus the lag until the remainder is
// recovered.
type LossGivenDefault struct {
	Severity    float64
	RecoveryLag temporal.Period
}

// NewLossGivenDefault validates severity into [0, 1]. A zero lag means
// recovery is realized on the default date itself.
func NewLossGivenDefault(severity float64, recoveryLag temporal.Period) (LossGivenDefault, error) {
	if severity < 0 || severity > 1 {
		return LossGivenDefault{}, fmt.Errorf("NewLossGivenDefault: severity must be in [0, 1], got %g", severity)
	}
	return LossGivenDefault{Severity: severity, RecoveryLag: recoveryLag}, nil
}

// LossGivenDefaultFromRecoveryRate builds an LGD from the recovered fraction
// instead of the lost one.
func LossGivenDefaultFromRecoveryRate(recoveryRate float64, recoveryLag temporal.Period) (LossGivenDefault, error) {
	return NewLossGivenDefault(1.0-recoveryRate, recoveryLag)
}

// ZeroLoss is the full-recovery assumption.
func ZeroLoss() LossGivenDefault {
	return LossGivenDefault{Severity: 0}
}

// TotalLoss is the no-recovery assumption.
func TotalLoss() LossGivenDefault {
	return LossGivenDefault{Severity: 1}
}

// RecoveryRate returns 1 - severity.
func (l LossGivenDefault) RecoveryRate() float64 {
	return 1.0 - l.Severity
}

func (l LossGivenDefault) IsZeroLoss() bool  { return l.Severity == 0 }
func (l LossGivenDefault) IsTotalLoss() bool { return l.Severity == 1 }

// Loss returns the portion of exposure written off at default.
func (l LossGivenDefault) Loss(exposure money.Money) money.Money {
	return exposure.MulFloat(l.Severity)
}

// Recovery returns the portion of exposure eventually recovered. Computed as
// the complement of Loss so loss + recovery equals exposure exactly.
func (l LossGivenDefault) Recovery(exposure money.Money) money.Money {
	return exposure.Sub(l.Loss(exposure))
}

func (l LossGivenDefault) String() string {
	return fmt.Sprintf("LGD %.0f%% (recovery lag %s)", l.Severity*100, l.RecoveryLag)
}
