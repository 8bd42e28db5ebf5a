package money

import "github.com/shopspring/decimal"

// Amounts flow through the pricing pipeline as plain float64 decimal currency
// units. Rounding happens exactly once, at the display/serialization boundary,
// never at intermediate steps.

// PercentOf returns amount * percent / 100. Negative or absent inputs are
// treated as zero so a misconfigured fee percentage degrades to "no fee"
// instead of poisoning the total.
func PercentOf(amount, percent float64) float64 {
	amount = Clamp(amount)
	percent = Clamp(percent)
	return amount * percent / 100
}

// Round2 rounds half-up to two decimal places using integer-cent decimal
// arithmetic. Naive float multiply/round misrounds values like 1.005.
func Round2(amount float64) float64 {
	amount = Clamp(amount)
	rounded, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return rounded
}

// FormatAmount renders an amount as a fixed two-decimal string, the shape the
// upstream checkout endpoint expects. Rounding occurs here once; 49.995
// serializes as "50.00", never "49.99".
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(Clamp(amount)).Round(2).StringFixed(2)
}

// Clamp floors negative amounts at zero. A negative price or percent is a
// caller bug; the primitives must not let it propagate into totals.
func Clamp(amount float64) float64 {
	if amount < 0 {
		return 0
	}
	return amount
}
