package utils

import (
	"fmt"
	"math"
)

type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

var SupportedCurrencies = map[string]Currency{
	"INR": {Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar"},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro"},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound"},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
}

// FormatCurrency renders a fare for notifications. Whole amounts drop the
// decimals so "₹450" reads the way riders typed it.
func FormatCurrency(amount float64, currencyCode string) string {
	symbol := GetCurrencySymbol(currencyCode)
	amount = math.Round(amount*100) / 100

	if amount == math.Trunc(amount) || currencyCode == "JPY" {
		return fmt.Sprintf("%s%.0f", symbol, amount)
	}
	return fmt.Sprintf("%s%.2f", symbol, amount)
}

func GetCurrencySymbol(currencyCode string) string {
	currency, exists := SupportedCurrencies[currencyCode]
	if !exists {
		return currencyCode + " "
	}
	return currency.Symbol
}
