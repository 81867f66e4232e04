package shared

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pricePrinter = message.NewPrinter(language.Spanish)

// FormatPrice renders an amount the way receipts display it, with
// thousands separators and two decimals.
func FormatPrice(amount float64) string {
	return pricePrinter.Sprintf("$%.2f", amount)
}
