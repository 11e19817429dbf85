package types

import "github.com/shopspring/decimal"

// Prices are stored as integer paise. Display conversion happens once at
// the response boundary; all arithmetic stays in integers.

// RupeesFromPaise converts an integer paise amount to a rupee decimal.
func RupeesFromPaise(paise int) decimal.Decimal {
	return decimal.New(int64(paise), -2)
}

// FormatRupees renders a paise amount as a ₹-prefixed rupee string.
func FormatRupees(paise int) string {
	return "₹" + RupeesFromPaise(paise).StringFixed(2)
}
