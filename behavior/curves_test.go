package behavior

import (
	"math"
	"testing"

	"loankit/money"
	"loankit/temporal"
)

func TestSMMRoundTrip(t *testing.T) {
	for cpr := 0.0; cpr <= 0.5; cpr += 0.05 {
		rate, err := NewPrepaymentRate(cpr)
		if err != nil {
			t.Fatalf("NewPrepaymentRate(%g): %v", cpr, err)
		}
		back, err := PrepaymentRateFromSMM(rate.SMM())
		if err != nil {
			t.Fatalf("PrepaymentRateFromSMM: %v", err)
		}
		if math.Abs(back.Annual-cpr) > 1e-4 {
			t.Fatalf("round trip for CPR %g gave %g", cpr, back.Annual)
		}
	}
}

func TestZeroRateMapsToExactlyZero(t *testing.T) {
	prepay, _ := NewPrepaymentRate(0)
	if prepay.SMM() != 0 {
		t.Fatalf("SMM for zero CPR = %g, want exactly 0", prepay.SMM())
	}
	dflt, _ := NewDefaultRate(0)
	if dflt.MDR() != 0 {
		t.Fatalf("MDR for zero CDR = %g, want exactly 0", dflt.MDR())
	}
}

func TestRateValidation(t *testing.T) {
	if _, err := NewPrepaymentRate(1.2); err == nil {
		t.Fatal("expected error for CPR >= 1")
	}
	if _, err := NewPrepaymentRate(-0.1); err == nil {
		t.Fatal("expected error for negative CPR")
	}
	if _, err := NewDefaultRate(1.0); err == nil {
		t.Fatal("expected error for CDR = 1")
	}
	if _, err := PrepaymentRateFromSMM(1.0); err == nil {
		t.Fatal("expected error for SMM = 1")
	}
}

func TestRateHelpers(t *testing.T) {
	r, err := PrepaymentRateFromPercent(6)
	if err != nil {
		t.Fatalf("PrepaymentRateFromPercent: %v", err)
	}
	if math.Abs(r.Annual-0.06) > 1e-12 || math.Abs(r.ToPercent()-6) > 1e-12 {
		t.Fatalf("FromPercent/ToPercent round trip gave %g", r.Annual)
	}
	stressed, err := r.Scale(1.5)
	if err != nil {
		t.Fatalf("Scale: %v", err)
	}
	if math.Abs(stressed.Annual-0.09) > 1e-12 {
		t.Fatalf("scaled CPR = %g, want 0.09", stressed.Annual)
	}
	if _, err := r.Scale(20); err == nil {
		t.Fatal("expected error scaling CPR past 100%")
	}
	if !ZeroPrepaymentRate().IsZero() || !ZeroDefaultRate().IsZero() {
		t.Fatal("zero rates not zero")
	}
	d, err := DefaultRateFromPercent(2)
	if err != nil {
		t.Fatalf("DefaultRateFromPercent: %v", err)
	}
	if math.Abs(d.ToPercent()-2) > 1e-12 {
		t.Fatalf("CDR ToPercent = %g, want 2", d.ToPercent())
	}
}

func TestConstantCPRCurve(t *testing.T) {
	curve, err := ConstantCPR(0.06)
	if err != nil {
		t.Fatalf("ConstantCPR: %v", err)
	}
	for _, age := range []int{0, 1, 12, 360} {
		if got := curve.RateAtMonth(age); got != 0.06 {
			t.Fatalf("RateAtMonth(%d) = %g, want 0.06", age, got)
		}
	}
	if _, err := ConstantCPR(1.5); err == nil {
		t.Fatal("expected error for CPR >= 1")
	}
}

func TestBreakpointStepLookup(t *testing.T) {
	curve, err := NewPrepaymentCurve([]CurvePoint{
		{Month: 24, Rate: 0.04},
		{Month: 12, Rate: 0.02},
	})
	if err != nil {
		t.Fatalf("NewPrepaymentCurve: %v", err)
	}
	cases := []struct {
		age  int
		want float64
	}{
		{0, 0}, {6, 0}, {11, 0}, // before the first breakpoint
		{12, 0.02}, {23, 0.02},
		{24, 0.04}, {360, 0.04},
	}
	for _, c := range cases {
		if got := curve.RateAtMonth(c.age); got != c.want {
			t.Fatalf("RateAtMonth(%d) = %g, want %g", c.age, got, c.want)
		}
	}
}

func TestCurveValidation(t *testing.T) {
	if _, err := NewPrepaymentCurve(nil); err == nil {
		t.Fatal("expected error for empty breakpoint list")
	}
	if _, err := NewPrepaymentCurve([]CurvePoint{{Month: 1, Rate: 0.02}, {Month: 1, Rate: 0.03}}); err == nil {
		t.Fatal("expected error for duplicate breakpoint month")
	}
	if _, err := NewDefaultCurve([]CurvePoint{{Month: -1, Rate: 0.02}}); err == nil {
		t.Fatal("expected error for negative breakpoint month")
	}
}

func TestPSAMonotonicity(t *testing.T) {
	curve, err := PSA(100)
	if err != nil {
		t.Fatalf("PSA: %v", err)
	}
	r1 := curve.RateAtMonth(1)
	r15 := curve.RateAtMonth(15)
	r30 := curve.RateAtMonth(30)
	r60 := curve.RateAtMonth(60)

	if !(r1 < r15 && r15 < r30) {
		t.Fatalf("PSA ramp not increasing: r1=%g r15=%g r30=%g", r1, r15, r30)
	}
	if r30 != r60 {
		t.Fatalf("PSA plateau not flat: r30=%g r60=%g", r30, r60)
	}
	if math.Abs(r1-0.002) > 1e-12 {
		t.Fatalf("RateAtMonth(1) = %g, want 0.002", r1)
	}
	if math.Abs(r30-0.06) > 1e-12 {
		t.Fatalf("RateAtMonth(30) = %g, want 0.06", r30)
	}
}

func TestPSAMultiplier(t *testing.T) {
	curve, err := PSA(200)
	if err != nil {
		t.Fatalf("PSA: %v", err)
	}
	if got := curve.RateAtMonth(60); math.Abs(got-0.12) > 1e-12 {
		t.Fatalf("200%% PSA plateau = %g, want 0.12", got)
	}
	if _, err := PSA(-50); err == nil {
		t.Fatal("expected error for negative multiplier")
	}
}

func TestCurveScale(t *testing.T) {
	base, _ := ConstantCPR(0.06)
	stressed := base.Scale(1.5)
	if got := stressed.RateAtMonth(12); math.Abs(got-0.09) > 1e-12 {
		t.Fatalf("scaled rate = %g, want 0.09", got)
	}
	// Scaling returns a new curve; the original is untouched.
	if got := base.RateAtMonth(12); got != 0.06 {
		t.Fatalf("original rate changed to %g", got)
	}
}

func TestVintageDefaultCurve(t *testing.T) {
	curve, err := VintageDefaultCurve(0.08, 24, 0.03)
	if err != nil {
		t.Fatalf("VintageDefaultCurve: %v", err)
	}
	if got := curve.RateAtMonth(0); got != 0 {
		t.Fatalf("RateAtMonth(0) = %g, want 0", got)
	}
	if got := curve.RateAtMonth(12); math.Abs(got-0.04) > 1e-12 {
		t.Fatalf("mid-ramp rate = %g, want 0.04", got)
	}
	if got := curve.RateAtMonth(24); math.Abs(got-0.08) > 1e-12 {
		t.Fatalf("peak rate = %g, want 0.08", got)
	}
	// Decays through month 36 and holds steady after.
	if got := curve.RateAtMonth(30); !(got < 0.08 && got > 0.03) {
		t.Fatalf("decay rate = %g, want between 0.03 and 0.08", got)
	}
	if got := curve.RateAtMonth(36); got != 0.03 {
		t.Fatalf("steady-state rate = %g, want exactly 0.03", got)
	}
	if got := curve.RateAtMonth(240); got != 0.03 {
		t.Fatalf("late-age rate = %g, want 0.03", got)
	}
	if _, err := VintageDefaultCurve(0.08, 0, 0.03); err == nil {
		t.Fatal("expected error for peak month < 1")
	}
}

func TestLossGivenDefault(t *testing.T) {
	lgd, err := NewLossGivenDefault(0.4, temporal.NewPeriod(6, temporal.Months))
	if err != nil {
		t.Fatalf("NewLossGivenDefault: %v", err)
	}
	if got := lgd.RecoveryRate(); math.Abs(got-0.6) > 1e-12 {
		t.Fatalf("RecoveryRate = %g, want 0.6", got)
	}

	exposure := money.FromFloat(12345.67)
	loss := lgd.Loss(exposure)
	recovery := lgd.Recovery(exposure)
	if !loss.Add(recovery).Equal(exposure) {
		t.Fatalf("loss %s + recovery %s != exposure %s", loss, recovery, exposure)
	}

	if _, err := NewLossGivenDefault(1.5, temporal.Period{}); err == nil {
		t.Fatal("expected error for severity > 1")
	}
	if _, err := NewLossGivenDefault(-0.1, temporal.Period{}); err == nil {
		t.Fatal("expected error for negative severity")
	}

	fromRecovery, err := LossGivenDefaultFromRecoveryRate(0.6, temporal.NewPeriod(6, temporal.Months))
	if err != nil {
		t.Fatalf("LossGivenDefaultFromRecoveryRate: %v", err)
	}
	if math.Abs(fromRecovery.Severity-0.4) > 1e-12 {
		t.Fatalf("severity from recovery rate = %g, want 0.4", fromRecovery.Severity)
	}
	if !ZeroLoss().IsZeroLoss() || ZeroLoss().IsTotalLoss() {
		t.Fatal("ZeroLoss predicates inconsistent")
	}
	if !TotalLoss().IsTotalLoss() || !TotalLoss().Loss(exposure).Equal(exposure) {
		t.Fatal("TotalLoss should write off the full exposure")
	}
}
