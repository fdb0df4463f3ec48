package amort

import (
	"time"

	"loankit/temporal"
)

// GeneratePaymentDates produces count scheduled payment dates: the first is
// start itself, each subsequent one is start plus k payment periods (month
// steps clamp to the end of month, so the roll day stays stable). A non-nil
// calendar rolls each raw date to a business day per the convention.
// Zero count yields an empty sequence.
func GeneratePaymentDates(
	start time.Time,
	freq temporal.PaymentFrequency,
	count int,
	cal *temporal.Calendar,
	convention temporal.BusinessDayConvention,
) []time.Time {
	if count <= 0 {
		return nil
	}
	months := freq.MonthsPerPeriod()
	dates := make([]time.Time, count)
	for k := 0; k < count; k++ {
		d := temporal.AddMonths(start, k*months)
		dates[k] = temporal.Adjust(cal, d, convention)
	}
	return dates
}
