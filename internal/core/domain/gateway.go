package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Gateway identifies the payment gateway an event came from.
type Gateway string

const (
	GatewayStripe     Gateway = "stripe"
	GatewayPayPal     Gateway = "paypal"
	GatewayGoCardless Gateway = "gocardless"
)

// FailurePolicy decides how a failed side-effect sequence is surfaced.
type FailurePolicy int

const (
	// FailureAbort propagates the failure so the transport answers with a
	// retryable status and the gateway redelivers.
	FailureAbort FailurePolicy = iota
	// FailureCapture returns the failure as a value. The donor already has a
	// completed payment and must never be blocked by back-office sync.
	FailureCapture
)

// FailurePolicy returns the gateway's failure policy.
func (g Gateway) FailurePolicy() FailurePolicy {
	if g == GatewayPayPal {
		return FailureCapture
	}
	return FailureAbort
}

// PaymentMethod labels as recorded on CRM transactions.
const (
	PaymentMethodStripeCheckout     = "Stripe Checkout"
	PaymentMethodStripeSubscription = "Stripe Subscription"
	PaymentMethodPayPal             = "PayPal"
	PaymentMethodGoCardless         = "GoCardless DD"
)

// Currency is an upper-case ISO 4217 code.
type Currency string

const (
	CurrencyGBP Currency = "GBP"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"
	CurrencyJPY Currency = "JPY"
)

var zeroDecimalCurrencies = map[Currency]bool{
	CurrencyJPY: true,
	"KRW":       true,
	"VND":       true,
}

var currencySymbols = map[Currency]string{
	CurrencyGBP: "£",
	CurrencyUSD: "$",
	CurrencyEUR: "€",
	CurrencyCAD: "CA$",
	CurrencyAUD: "A$",
	CurrencyJPY: "¥",
}

// ParseCurrency normalises a wire currency code ("usd", " GBP ").
func ParseCurrency(raw string) (Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 3 {
		return "", fmt.Errorf("invalid currency code %q", raw)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("invalid currency code %q", raw)
		}
	}
	return Currency(code), nil
}

// Exponent returns the number of minor-unit digits for the currency.
func (c Currency) Exponent() int {
	if zeroDecimalCurrencies[c] {
		return 0
	}
	return 2
}

// ToMajor converts an amount in minor units (pence, cents) to major units.
func (c Currency) ToMajor(minor int64) float64 {
	return float64(minor) / math.Pow10(c.Exponent())
}

// ParseMajor converts a decimal string in major units ("10.25") to minor units.
func (c Currency) ParseMajor(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty amount")
	}
	whole, frac, _ := strings.Cut(value, ".")
	exp := c.Exponent()
	if len(frac) > exp {
		return 0, fmt.Errorf("amount %q has more than %d decimal places", value, exp)
	}
	frac += strings.Repeat("0", exp-len(frac))

	minor, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", value, err)
	}
	if minor < 0 {
		return 0, fmt.Errorf("negative amount %q", value)
	}
	return minor, nil
}

// Format renders a minor-unit amount with the currency symbol and two
// decimals, e.g. "$10.25" or "£5.00". Unknown currencies use the code.
func (c Currency) Format(minor int64) string {
	amount := strconv.FormatFloat(c.ToMajor(minor), 'f', 2, 64)
	if sym, ok := currencySymbols[c]; ok {
		return sym + amount
	}
	return string(c) + " " + amount
}
