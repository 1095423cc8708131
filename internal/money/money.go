// Package money formats amounts for people reading them in Brazilian
// Portuguese.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	locale  = language.BrazilianPortuguese
	printer = message.NewPrinter(locale)
	brl, _  = currency.FromTag(locale)
)

// Format renders an amount as BRL with two decimals and pt-BR separators,
// e.g. "R$ 1.234,50".
func Format(amount decimal.Decimal) string {
	value, _ := amount.Round(2).Float64()
	return printer.Sprintf("%s %.2f", fmt.Sprint(currency.Symbol(brl)), value)
}
