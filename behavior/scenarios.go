package behavior

import (
	"fmt"
	"time"

	"loankit/amort"
	"loankit/cashflow"
	"loankit/money"
	"loankit/temporal"
)

// OutstandingBalance returns the principal still owed as of a date: the
// original principal minus every principal-reducing flow (PRINCIPAL,
// PREPAYMENT, BALLOON) dated on or before asOf.
func OutstandingBalance(sched cashflow.Schedule, originalPrincipal money.Money, asOf time.Time) money.Money {
	return balanceAt(sched, originalPrincipal, asOf, true)
}

func balanceAt(sched cashflow.Schedule, originalPrincipal money.Money, asOf time.Time, inclusive bool) money.Money {
	balance := originalPrincipal
	for _, cf := range sched.PrincipalFlows().Flows() {
		paid := cf.Date.Before(asOf) || (inclusive && cf.Date.Equal(asOf))
		if paid {
			balance = balance.Sub(cf.Amount)
		}
	}
	return balance
}

// PrepaymentScenarioInput describes a single deterministic prepayment event
// against an existing schedule. AmortType is the loan's amortization style;
// the re-amortized tail keeps that style.
type PrepaymentScenarioInput struct {
	Schedule          cashflow.Schedule
	OriginalPrincipal money.Money
	PeriodicRate      float64
	Frequency         temporal.PaymentFrequency
	AmortType         amort.AmortizationType
	Date              time.Time
	Amount            money.Money
	Calendar          *temporal.Calendar
	Convention        temporal.BusinessDayConvention
}

// ApplyPrepaymentScenario applies one prepayment of a fixed amount on a
// fixed date: scheduled flows through the prepay date are kept, a
// PREPAYMENT flow is emitted on the date, and the remaining balance is
// re-amortized over the originally scheduled remaining payment dates in the
// loan's amortization style so the maturity date is preserved. A prepayment
// of the full outstanding balance pays the loan off with no tail.
func ApplyPrepaymentScenario(in PrepaymentScenarioInput) (cashflow.Schedule, error) {
	if !in.Amount.IsPositive() {
		return cashflow.Schedule{}, fmt.Errorf("ApplyPrepaymentScenario: prepayment amount must be positive, got %s", in.Amount)
	}
	balance := OutstandingBalance(in.Schedule, in.OriginalPrincipal, in.Date)
	if in.Amount.GreaterThan(balance) {
		return cashflow.Schedule{}, fmt.Errorf(
			"ApplyPrepaymentScenario: prepayment amount exceeds outstanding balance (%s > %s)",
			in.Amount, balance)
	}

	// Remaining payment periods are marked by the distinct flow dates after
	// the prepay date: interest-only tails carry per-period interest flows
	// only, and a bullet tail is just the balloon.
	flows := make([]cashflow.CashFlow, 0, in.Schedule.Len()+1)
	var tailDates []time.Time
	for _, cf := range in.Schedule.Flows() {
		if cf.Date.After(in.Date) {
			if len(tailDates) == 0 || !cf.Date.Equal(tailDates[len(tailDates)-1]) {
				tailDates = append(tailDates, cf.Date)
			}
			continue
		}
		flows = append(flows, cf)
	}
	flows = append(flows, cashflow.CashFlow{
		Date:        in.Date,
		Amount:      in.Amount,
		Type:        cashflow.Prepayment,
		Description: "unscheduled prepayment",
	})

	newBalance := balance.Sub(in.Amount)
	if newBalance.IsZero() {
		return cashflow.NewSchedule(flows)
	}
	if len(tailDates) == 0 {
		return cashflow.Schedule{}, fmt.Errorf(
			"ApplyPrepaymentScenario: no scheduled payments remain after %s for residual balance %s",
			in.Date.Format("2006-01-02"), newBalance)
	}

	res, err := amort.Reamortize(amort.ReamortizeInput{
		Balance:           newBalance,
		PeriodicRate:      in.PeriodicRate,
		AmortType:         in.AmortType,
		Method:            amort.KeepMaturity,
		RemainingPayments: len(tailDates),
		FirstPaymentDate:  tailDates[0],
		Frequency:         in.Frequency,
		Calendar:          in.Calendar,
		Convention:        in.Convention,
	})
	if err != nil {
		return cashflow.Schedule{}, err
	}
	flows = append(flows, res.Schedule.Flows()...)
	return cashflow.NewSchedule(flows)
}

// DefaultScenarioInput describes a single deterministic default event
// against an existing schedule.
type DefaultScenarioInput struct {
	Schedule          cashflow.Schedule
	OriginalPrincipal money.Money
	Date              time.Time
	LGD               LossGivenDefault
}

// DefaultScenarioResult carries the truncated schedule plus the loss ledger
// for the event. Loss + Recovery equals Exposure exactly.
type DefaultScenarioResult struct {
	Schedule     cashflow.Schedule
	Exposure     money.Money
	Loss         money.Money
	Recovery     money.Money
	RecoveryDate time.Time
}

// ApplyDefaultScenario applies one default on a fixed date: the schedule is
// truncated to flows strictly before the date (no interest accrues on a
// defaulted balance), and the recovered portion of the exposure is appended
// as a single PRINCIPAL flow at date + recovery lag. Recovery is typed as
// principal rather than prepayment so downstream valuation treats it as a
// return of capital.
func ApplyDefaultScenario(in DefaultScenarioInput) (DefaultScenarioResult, error) {
	exposure := balanceAt(in.Schedule, in.OriginalPrincipal, in.Date, false)
	if !exposure.IsPositive() {
		return DefaultScenarioResult{}, fmt.Errorf(
			"ApplyDefaultScenario: no outstanding balance at %s", in.Date.Format("2006-01-02"))
	}

	loss := in.LGD.Loss(exposure)
	recovery := in.LGD.Recovery(exposure)
	recoveryDate := in.LGD.RecoveryLag.AddTo(in.Date)

	flows := make([]cashflow.CashFlow, 0, in.Schedule.Len()+1)
	for _, cf := range in.Schedule.Flows() {
		if cf.Date.Before(in.Date) {
			flows = append(flows, cf)
		}
	}
	if recovery.IsPositive() {
		flows = append(flows, cashflow.CashFlow{
			Date:        recoveryDate,
			Amount:      recovery,
			Type:        cashflow.Principal,
			Description: "default recovery",
		})
	}
	sched, err := cashflow.NewSchedule(flows)
	if err != nil {
		return DefaultScenarioResult{}, err
	}
	return DefaultScenarioResult{
		Schedule:     sched,
		Exposure:     exposure,
		Loss:         loss,
		Recovery:     recovery,
		RecoveryDate: recoveryDate,
	}, nil
}
