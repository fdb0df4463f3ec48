package money

// Currency identifies the denomination of a monetary amount.
//
// MinorUnits is the number of decimal places carried by the smallest
// settlement unit (2 for USD cents).
type Currency struct {
	Code       string
	MinorUnits int32
}

var (
	USD = Currency{Code: "USD", MinorUnits: 2}
	EUR = Currency{Code: "EUR", MinorUnits: 2}
)

func (c Currency) String() string {
	return c.Code
}
