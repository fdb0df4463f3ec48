package behavior

import (
	"testing"
	"time"

	"loankit/amort"
	"loankit/cashflow"
	"loankit/money"
	"loankit/temporal"
)

func mortgageInput() ProjectionInput {
	return ProjectionInput{
		Balance:          money.FromFloat(300000),
		PeriodicRate:     0.065 / 12,
		AmortType:        amort.LevelPayment,
		NumPayments:      360,
		FirstPaymentDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Frequency:        temporal.Monthly,
	}
}

func assertFlowForFlowEqual(t *testing.T, got, want cashflow.Schedule) {
	t.Helper()
	if got.Len() != want.Len() {
		t.Fatalf("flow count = %d, want %d", got.Len(), want.Len())
	}
	for i := 0; i < want.Len(); i++ {
		g, w := got.At(i), want.At(i)
		if !g.Date.Equal(w.Date) || g.Type != w.Type || !g.Amount.Equal(w.Amount) {
			t.Fatalf("flow %d = %s %s %s, want %s %s %s",
				i, g.Date.Format("2006-01-02"), g.Type, g.Amount,
				w.Date.Format("2006-01-02"), w.Type, w.Amount)
		}
	}
}

func TestProjectNoCurvesMatchesGenerator(t *testing.T) {
	in := mortgageInput()
	dates := amort.GeneratePaymentDates(in.FirstPaymentDate, in.Frequency, in.NumPayments, nil, temporal.Unadjusted)
	want, err := amort.GenerateSchedule(in.AmortType, in.Balance, in.PeriodicRate, in.NumPayments, dates)
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}

	got, err := ExpectedCashFlows(in)
	if err != nil {
		t.Fatalf("ExpectedCashFlows: %v", err)
	}
	assertFlowForFlowEqual(t, got, want)
}

func TestProjectZeroRateCurveMatchesGenerator(t *testing.T) {
	// A present-but-zero curve must not perturb the schedule.
	in := mortgageInput()
	zero, _ := ConstantCPR(0)
	in.Prepayment = &zero

	dates := amort.GeneratePaymentDates(in.FirstPaymentDate, in.Frequency, in.NumPayments, nil, temporal.Unadjusted)
	want, err := amort.GenerateSchedule(in.AmortType, in.Balance, in.PeriodicRate, in.NumPayments, dates)
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}
	got, err := ExpectedCashFlows(in)
	if err != nil {
		t.Fatalf("ExpectedCashFlows: %v", err)
	}
	assertFlowForFlowEqual(t, got, want)
}

func TestProjectReconciliation(t *testing.T) {
	in := mortgageInput()
	prepay, _ := ConstantCPR(0.06)
	dflt, _ := ConstantCDR(0.02)
	in.Prepayment = &prepay
	in.Default = &dflt

	proj, err := Project(in)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	received := proj.Schedule.SumByType(cashflow.Principal).
		Add(proj.Schedule.SumByType(cashflow.Prepayment))
	total := received.Add(proj.DefaultedBalance)

	diff := total.Sub(in.Balance).Abs()
	if diff.Float64() > 0.01 {
		t.Fatalf("principal %s + prepayments + defaults = %s, want %s (off by %s)",
			proj.Schedule.SumByType(cashflow.Principal), total, in.Balance, diff)
	}
	if !proj.DefaultedBalance.IsPositive() {
		t.Fatalf("DefaultedBalance = %s, want positive", proj.DefaultedBalance)
	}
}

func TestProjectPSAEndToEnd(t *testing.T) {
	// $300k, 6.5%, 30y monthly mortgage under 100% PSA with no defaults:
	// prepayments shorten the loan and reduce total nominal cash received.
	in := mortgageInput()
	base, err := ExpectedCashFlows(in)
	if err != nil {
		t.Fatalf("ExpectedCashFlows (base): %v", err)
	}

	psa, err := PSA(100)
	if err != nil {
		t.Fatalf("PSA: %v", err)
	}
	in.Prepayment = &psa
	projected, err := ExpectedCashFlows(in)
	if err != nil {
		t.Fatalf("ExpectedCashFlows (PSA): %v", err)
	}

	if n := projected.FilterByType(cashflow.Prepayment).Len(); n == 0 {
		t.Fatal("expected prepayment flows under 100% PSA")
	}
	if n := projected.FilterByType(cashflow.Principal).Len(); n >= 360 {
		t.Fatalf("scheduled principal flow count = %d, want < 360", n)
	}
	if !projected.TotalAmount().LessThan(base.TotalAmount()) {
		t.Fatalf("PSA total %s not below base total %s",
			projected.TotalAmount(), base.TotalAmount())
	}

	// Prepayments return capital; principal received is conserved.
	received := projected.SumByType(cashflow.Principal).
		Add(projected.SumByType(cashflow.Prepayment))
	if diff := received.Sub(in.Balance).Abs(); diff.Float64() > 0.01 {
		t.Fatalf("principal + prepayments = %s, want %s", received, in.Balance)
	}
}

func TestProjectVintageDefaults(t *testing.T) {
	in := mortgageInput()
	vintage, err := VintageDefaultCurve(0.04, 24, 0.01)
	if err != nil {
		t.Fatalf("VintageDefaultCurve: %v", err)
	}
	in.Default = &vintage

	proj, err := Project(in)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if !proj.DefaultedBalance.IsPositive() {
		t.Fatalf("DefaultedBalance = %s, want positive", proj.DefaultedBalance)
	}
	received := proj.Schedule.SumByType(cashflow.Principal).
		Add(proj.Schedule.SumByType(cashflow.Prepayment))
	if !received.LessThan(in.Balance) {
		t.Fatalf("received principal %s not reduced by defaults", received)
	}
	if diff := received.Add(proj.DefaultedBalance).Sub(in.Balance).Abs(); diff.Float64() > 0.01 {
		t.Fatalf("received %s + defaulted %s != %s", received, proj.DefaultedBalance, in.Balance)
	}
}

func interestOnlyInput() ProjectionInput {
	return ProjectionInput{
		Balance:          money.FromFloat(50000),
		PeriodicRate:     0.06 / 12,
		AmortType:        amort.InterestOnly,
		NumPayments:      24,
		FirstPaymentDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Frequency:        temporal.Monthly,
	}
}

func TestProjectBalloonTypingUnderCurves(t *testing.T) {
	// The terminal repayment of interest-only and bullet loans keeps its
	// BALLOON tag when behavioral curves are attached.
	in := interestOnlyInput()
	prepay, _ := ConstantCPR(0.05)
	in.Prepayment = &prepay

	sched, err := ExpectedCashFlows(in)
	if err != nil {
		t.Fatalf("ExpectedCashFlows (interest-only): %v", err)
	}
	if got := sched.FilterByType(cashflow.Balloon).Len(); got != 1 {
		t.Fatalf("balloon flow count = %d, want 1", got)
	}
	returned := sched.PrincipalFlows().TotalAmount()
	if diff := returned.Sub(in.Balance).Abs(); diff.Float64() > 0.01 {
		t.Fatalf("returned principal = %s, want %s", returned, in.Balance)
	}

	in.AmortType = amort.Bullet
	sched, err = ExpectedCashFlows(in)
	if err != nil {
		t.Fatalf("ExpectedCashFlows (bullet): %v", err)
	}
	if got := sched.FilterByType(cashflow.Balloon).Len(); got != 1 {
		t.Fatalf("bullet balloon flow count = %d, want 1", got)
	}
}

func TestProjectInterestOnlyZeroCurveMatchesGenerator(t *testing.T) {
	in := interestOnlyInput()
	zero, _ := ConstantCPR(0)
	in.Prepayment = &zero

	dates := amort.GeneratePaymentDates(in.FirstPaymentDate, in.Frequency, in.NumPayments, nil, temporal.Unadjusted)
	want, err := amort.GenerateSchedule(in.AmortType, in.Balance, in.PeriodicRate, in.NumPayments, dates)
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}
	got, err := ExpectedCashFlows(in)
	if err != nil {
		t.Fatalf("ExpectedCashFlows: %v", err)
	}
	assertFlowForFlowEqual(t, got, want)
}

func TestApplyPrepaymentCurveEntryPoint(t *testing.T) {
	in := mortgageInput()
	psa, _ := PSA(150)

	got, err := ApplyPrepaymentCurve(in, psa)
	if err != nil {
		t.Fatalf("ApplyPrepaymentCurve: %v", err)
	}
	in.Prepayment = &psa
	want, err := ExpectedCashFlows(in)
	if err != nil {
		t.Fatalf("ExpectedCashFlows: %v", err)
	}
	assertFlowForFlowEqual(t, got, want)
}

func TestProjectValidation(t *testing.T) {
	in := mortgageInput()
	in.Balance = money.FromFloat(-1)
	if _, err := Project(in); err == nil {
		t.Fatal("expected error for negative balance")
	}

	in = mortgageInput()
	in.NumPayments = 0
	if _, err := Project(in); err == nil {
		t.Fatal("expected error for zero payments")
	}

	in = mortgageInput()
	in.FirstPaymentDate = time.Time{}
	if _, err := Project(in); err == nil {
		t.Fatal("expected error for missing first payment date")
	}
}
