package utils

import (
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits a balance can carry.
const MoneyScale = 2

// FormatAmount formats an amount with the wallet precision.
// Example: 12.3 returns "12.30"
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyScale)
}

// HasValidScale reports whether amount carries at most MoneyScale fractional digits.
func HasValidScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(MoneyScale))
}
