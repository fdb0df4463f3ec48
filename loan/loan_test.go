package loan

import (
	"math"
	"testing"
	"time"

	"loankit/amort"
	"loankit/behavior"
	"loankit/cashflow"
	"loankit/money"
	"loankit/temporal"
)

var origination = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testMortgage() Loan {
	return Mortgage(300000, 0.065, 30, origination)
}

func TestMortgageFactory(t *testing.T) {
	l := testMortgage()
	if err := l.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := l.NumPayments(); got != 360 {
		t.Fatalf("NumPayments = %d, want 360", got)
	}
	if got := l.FirstPayment(); !got.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("FirstPayment = %s, want 2024-02-01", got.Format("2006-01-02"))
	}
	if got := l.MaturityDate(); !got.Equal(time.Date(2054, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("MaturityDate = %s, want 2054-01-01", got.Format("2006-01-02"))
	}

	payment, err := l.CalculatePayment()
	if err != nil {
		t.Fatalf("CalculatePayment: %v", err)
	}
	if math.Abs(payment.Float64()-1896.20) > 0.50 {
		t.Fatalf("payment = %s, want ~1896.20", payment)
	}
}

func TestAutoLoanFactory(t *testing.T) {
	l := AutoLoan(35000, 0.079, 60, origination)
	if got := l.NumPayments(); got != 60 {
		t.Fatalf("NumPayments = %d, want 60", got)
	}
	sched, err := l.GenerateSchedule()
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}
	if got := sched.SumByType(cashflow.Principal); !got.Equal(money.FromFloat(35000)) {
		t.Fatalf("principal flows sum to %s, want 35000.00 USD", got)
	}
}

func TestLoanValidate(t *testing.T) {
	l := testMortgage()
	l.Principal = money.FromFloat(-1)
	if err := l.Validate(); err == nil {
		t.Fatal("expected error for negative principal")
	}

	l = testMortgage()
	l.OriginationDate = time.Time{}
	if err := l.Validate(); err == nil {
		t.Fatal("expected error for missing origination date")
	}

	l = testMortgage()
	l.Term = temporal.Period{}
	if err := l.Validate(); err == nil {
		t.Fatal("expected error for zero term")
	}
}

func TestExplicitFirstPaymentDate(t *testing.T) {
	l := testMortgage()
	l.FirstPaymentDate = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if got := l.FirstPayment(); !got.Equal(l.FirstPaymentDate) {
		t.Fatalf("FirstPayment = %s, want explicit date", got.Format("2006-01-02"))
	}
	if got := l.MaturityDate(); !got.Equal(time.Date(2054, 2, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("MaturityDate = %s, want 2054-02-15", got.Format("2006-01-02"))
	}
}

func TestTotalInterest(t *testing.T) {
	l := testMortgage()
	interest, err := l.TotalInterest()
	if err != nil {
		t.Fatalf("TotalInterest: %v", err)
	}
	// ~$1,896.20 x 360 - $300,000.
	if math.Abs(interest.Float64()-382633) > 500 {
		t.Fatalf("TotalInterest = %s, want ~382,633", interest)
	}

	total, err := l.TotalPayments()
	if err != nil {
		t.Fatalf("TotalPayments: %v", err)
	}
	want := interest.Add(money.FromFloat(300000))
	if diff := total.Sub(want).Abs(); diff.Float64() > 0.01 {
		t.Fatalf("TotalPayments = %s, want %s", total, want)
	}
}

func TestExpectedCashFlowsNoCurves(t *testing.T) {
	l := testMortgage()
	plain, err := l.GenerateSchedule()
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}
	expected, err := l.ExpectedCashFlows(nil, nil)
	if err != nil {
		t.Fatalf("ExpectedCashFlows: %v", err)
	}
	if plain.Len() != expected.Len() {
		t.Fatalf("flow counts differ: %d vs %d", plain.Len(), expected.Len())
	}
	for i := 0; i < plain.Len(); i++ {
		p, e := plain.At(i), expected.At(i)
		if !p.Date.Equal(e.Date) || p.Type != e.Type || !p.Amount.Equal(e.Amount) {
			t.Fatalf("flow %d differs: %v vs %v", i, p, e)
		}
	}
}

func TestExpectedCashFlowsWithCurves(t *testing.T) {
	l := testMortgage()
	psa, err := behavior.PSA(100)
	if err != nil {
		t.Fatalf("PSA: %v", err)
	}
	proj, err := l.Project(&psa, nil)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	returned := proj.Schedule.SumByType(cashflow.Principal).
		Add(proj.Schedule.SumByType(cashflow.Prepayment))
	if diff := returned.Sub(l.Principal).Abs(); diff.Float64() > 0.01 {
		t.Fatalf("principal + prepayments = %s, want %s", returned, l.Principal)
	}
}

func TestLoanApplyPrepayment(t *testing.T) {
	l := testMortgage()
	adjusted, err := l.ApplyPrepayment(time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC), money.FromFloat(50000))
	if err != nil {
		t.Fatalf("ApplyPrepayment: %v", err)
	}
	last, ok := adjusted.LatestDate()
	if !ok || !last.Equal(l.MaturityDate()) {
		t.Fatalf("maturity moved to %s", last.Format("2006-01-02"))
	}
}

func TestLoanApplyPrepaymentInterestOnly(t *testing.T) {
	l := AutoLoan(100000, 0.07, 60, origination)
	l.AmortType = amort.InterestOnly

	adjusted, err := l.ApplyPrepayment(time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), money.FromFloat(20000))
	if err != nil {
		t.Fatalf("ApplyPrepayment: %v", err)
	}
	// Every remaining interest period survives on the reduced balance.
	if got := adjusted.FilterByType(cashflow.Interest).Len(); got != 60 {
		t.Fatalf("interest flow count = %d, want 60", got)
	}
	balloons := adjusted.FilterByType(cashflow.Balloon)
	if balloons.Len() != 1 {
		t.Fatalf("balloon flow count = %d, want 1", balloons.Len())
	}
	if !balloons.At(0).Amount.Equal(money.FromFloat(80000)) {
		t.Fatalf("balloon = %s, want 80000.00 USD", balloons.At(0).Amount)
	}
	if !balloons.At(0).Date.Equal(l.MaturityDate()) {
		t.Fatalf("balloon date = %s, want maturity %s",
			balloons.At(0).Date.Format("2006-01-02"), l.MaturityDate().Format("2006-01-02"))
	}
}

func TestLoanApplyDefault(t *testing.T) {
	l := testMortgage()
	lgd, err := behavior.NewLossGivenDefault(0.45, temporal.NewPeriod(12, temporal.Months))
	if err != nil {
		t.Fatalf("NewLossGivenDefault: %v", err)
	}
	res, err := l.ApplyDefault(time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC), lgd)
	if err != nil {
		t.Fatalf("ApplyDefault: %v", err)
	}
	if !res.Loss.Add(res.Recovery).Equal(res.Exposure) {
		t.Fatalf("loss %s + recovery %s != exposure %s", res.Loss, res.Recovery, res.Exposure)
	}
	if !res.RecoveryDate.Equal(time.Date(2031, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("RecoveryDate = %s, want 2031-06-01", res.RecoveryDate.Format("2006-01-02"))
	}
}

func TestYieldToMaturityAtPar(t *testing.T) {
	l := testMortgage()
	ytm, err := l.YieldToMaturity(l.Principal, time.Time{})
	if err != nil {
		t.Fatalf("YieldToMaturity: %v", err)
	}
	// Effective annual yield of 6.5% compounded monthly.
	want := math.Pow(1.0+0.065/12.0, 12.0) - 1.0
	if math.Abs(ytm-want) > 0.002 {
		t.Fatalf("YTM at par = %.6f, want ~%.6f", ytm, want)
	}
}

func TestWeightedAverageLife(t *testing.T) {
	l := testMortgage()
	wal, err := l.WeightedAverageLife(time.Time{})
	if err != nil {
		t.Fatalf("WeightedAverageLife: %v", err)
	}
	if wal < 15 || wal > 25 {
		t.Fatalf("WAL = %.2f years, want between 15 and 25", wal)
	}
}

func TestDurationAndConvexity(t *testing.T) {
	l := testMortgage()
	curve := cashflow.NewFlatDiscountCurve(money.NewInterestRate(0.05, money.Annual), origination)

	mac, err := l.Duration(curve, false)
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	mod, err := l.Duration(curve, true)
	if err != nil {
		t.Fatalf("Duration (modified): %v", err)
	}
	wal, _ := l.WeightedAverageLife(time.Time{})
	if !(mod < mac && mac < wal) {
		t.Fatalf("want modified (%.2f) < macaulay (%.2f) < WAL (%.2f)", mod, mac, wal)
	}

	convexity, err := l.Convexity(curve)
	if err != nil {
		t.Fatalf("Convexity: %v", err)
	}
	if convexity <= 0 {
		t.Fatalf("Convexity = %.4f, want positive", convexity)
	}
}

func TestBulletLoan(t *testing.T) {
	l := Loan{
		Principal:       money.FromFloat(1000000),
		AnnualRate:      money.NewInterestRate(0.08, money.Monthly),
		Term:            temporal.NewPeriod(36, temporal.Months),
		Frequency:       temporal.Monthly,
		AmortType:       amort.Bullet,
		OriginationDate: time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC),
	}
	sched, err := l.GenerateSchedule()
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}
	if sched.Len() != 1 {
		t.Fatalf("flow count = %d, want 1", sched.Len())
	}
	cf := sched.At(0)
	if cf.Type != cashflow.Balloon {
		t.Fatalf("flow type = %s, want BALLOON", cf.Type)
	}
	// First payment clamps Jan 30 + 1M to Feb 29; the anchored sequence
	// then lands the 36th date on Jan 29 2027.
	if !cf.Date.Equal(time.Date(2027, 1, 29, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("balloon date = %s, want 2027-01-29", cf.Date.Format("2006-01-02"))
	}
}
