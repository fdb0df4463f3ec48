package amort

import (
	"fmt"
	"math"
	"time"

	"loankit/cashflow"
	"loankit/money"
)

// CalculateLevelPayment computes the fixed per-period payment that fully
// amortizes principal over numPayments periods at the given periodic rate,
// via the standard annuity formula. A zero rate degenerates to straight-line
// principal division.
func CalculateLevelPayment(principal money.Money, periodicRate float64, numPayments int) (money.Money, error) {
	if !principal.IsPositive() {
		return money.Money{}, fmt.Errorf("CalculateLevelPayment: principal must be positive, got %s", principal)
	}
	if numPayments <= 0 {
		return money.Money{}, fmt.Errorf("CalculateLevelPayment: number of payments must be positive, got %d", numPayments)
	}
	if periodicRate < 0 {
		return money.Money{}, fmt.Errorf("CalculateLevelPayment: periodic rate must be non-negative, got %g", periodicRate)
	}
	if periodicRate == 0 {
		return principal.DivInt(numPayments), nil
	}
	factor := periodicRate / (1.0 - math.Pow(1.0+periodicRate, -float64(numPayments)))
	return principal.MulFloat(factor), nil
}

func validateScheduleInputs(op string, principal money.Money, numPayments int, dates []time.Time) error {
	if !principal.IsPositive() {
		return fmt.Errorf("%s: principal must be positive, got %s", op, principal)
	}
	if numPayments <= 0 {
		return fmt.Errorf("%s: number of payments must be positive, got %d", op, numPayments)
	}
	if len(dates) != numPayments {
		return fmt.Errorf("%s: payment dates length (%d) must match number of payments (%d)",
			op, len(dates), numPayments)
	}
	return nil
}

// GenerateLevelPaymentSchedule emits one INTEREST and one PRINCIPAL flow per
// period for a fixed payment amount. Interest accrues on the declining
// balance; the final period's principal portion absorbs rounding so the
// principal flows sum exactly to the starting principal.
func GenerateLevelPaymentSchedule(
	principal money.Money,
	periodicRate float64,
	numPayments int,
	dates []time.Time,
	payment money.Money,
) (cashflow.Schedule, error) {
	if err := validateScheduleInputs("GenerateLevelPaymentSchedule", principal, numPayments, dates); err != nil {
		return cashflow.Schedule{}, err
	}

	flows := make([]cashflow.CashFlow, 0, 2*numPayments)
	balance := principal
	for i := 0; i < numPayments; i++ {
		interest := balance.MulFloat(periodicRate)
		principalPortion := payment.Sub(interest)
		if i == numPayments-1 || principalPortion.GreaterThan(balance) {
			// Final period retires the remaining balance exactly.
			principalPortion = balance
		}
		flows = append(flows,
			cashflow.New(dates[i], interest, cashflow.Interest),
			cashflow.New(dates[i], principalPortion, cashflow.Principal),
		)
		balance = balance.Sub(principalPortion)
		if balance.IsZero() && i < numPayments-1 {
			break
		}
	}
	return cashflow.NewSchedule(flows)
}

// GenerateLevelPrincipalSchedule repays an equal principal slice every
// period (final period absorbs the division remainder) with interest on the
// declining balance.
func GenerateLevelPrincipalSchedule(
	principal money.Money,
	periodicRate float64,
	numPayments int,
	dates []time.Time,
) (cashflow.Schedule, error) {
	if err := validateScheduleInputs("GenerateLevelPrincipalSchedule", principal, numPayments, dates); err != nil {
		return cashflow.Schedule{}, err
	}

	slice := principal.DivInt(numPayments)
	flows := make([]cashflow.CashFlow, 0, 2*numPayments)
	balance := principal
	for i := 0; i < numPayments; i++ {
		interest := balance.MulFloat(periodicRate)
		principalPortion := slice
		if i == numPayments-1 {
			principalPortion = balance
		}
		flows = append(flows,
			cashflow.New(dates[i], interest, cashflow.Interest),
			cashflow.New(dates[i], principalPortion, cashflow.Principal),
		)
		balance = balance.Sub(principalPortion)
	}
	return cashflow.NewSchedule(flows)
}

// GenerateInterestOnlySchedule emits numPayments interest-only flows on a
// constant balance, followed by a single BALLOON flow for the full principal
// on the final payment date.
func GenerateInterestOnlySchedule(
	principal money.Money,
	periodicRate float64,
	numPayments int,
	dates []time.Time,
) (cashflow.Schedule, error) {
	if err := validateScheduleInputs("GenerateInterestOnlySchedule", principal, numPayments, dates); err != nil {
		return cashflow.Schedule{}, err
	}

	interest := principal.MulFloat(periodicRate)
	flows := make([]cashflow.CashFlow, 0, numPayments+1)
	for i := 0; i < numPayments; i++ {
		flows = append(flows, cashflow.New(dates[i], interest, cashflow.Interest))
	}
	flows = append(flows, cashflow.New(dates[numPayments-1], principal, cashflow.Balloon))
	return cashflow.NewSchedule(flows)
}

// GenerateBulletSchedule emits a single BALLOON flow for the full principal
// at maturity, with no intermediate flows.
func GenerateBulletSchedule(principal money.Money, maturityDate time.Time) (cashflow.Schedule, error) {
	if !principal.IsPositive() {
		return cashflow.Schedule{}, fmt.Errorf("GenerateBulletSchedule: principal must be positive, got %s", principal)
	}
	return cashflow.NewSchedule([]cashflow.CashFlow{
		cashflow.New(maturityDate, principal, cashflow.Balloon),
	})
}

// GenerateSchedule dispatches to the generator for the amortization type.
// Bullet places its balloon at the final payment date.
func GenerateSchedule(
	amortType AmortizationType,
	principal money.Money,
	periodicRate float64,
	numPayments int,
	dates []time.Time,
) (cashflow.Schedule, error) {
	switch amortType {
	case LevelPayment:
		payment, err := CalculateLevelPayment(principal, periodicRate, numPayments)
		if err != nil {
			return cashflow.Schedule{}, err
		}
		return GenerateLevelPaymentSchedule(principal, periodicRate, numPayments, dates, payment)
	case LevelPrincipal:
		return GenerateLevelPrincipalSchedule(principal, periodicRate, numPayments, dates)
	case InterestOnly:
		return GenerateInterestOnlySchedule(principal, periodicRate, numPayments, dates)
	case Bullet:
		if len(dates) == 0 {
			return cashflow.Schedule{}, fmt.Errorf("GenerateSchedule: bullet schedule needs a maturity date")
		}
		return GenerateBulletSchedule(principal, dates[len(dates)-1])
	default:
		return cashflow.Schedule{}, fmt.Errorf("GenerateSchedule: unknown amortization type %v", amortType)
	}
}
