// Package parser turns free-text transaction lines ("10.12 $ Food") into
// structured amount/currency/name triples. It is pure: no lookups, no side
// effects. Parse failure is an expected outcome, not an exception.
package parser

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNoMatch is returned when the input does not match the recognized
// transaction grammar.
var ErrNoMatch = errors.New("message does not match transaction format")

// Parsed is the structured result of a successful parse. CurrencyCode is ""
// when the message carried no currency token; callers substitute the user's
// default currency.
type Parsed struct {
	Amount       decimal.Decimal
	CurrencyCode string
	Name         string
}

// symbolToCode resolves currency symbols to ISO 4217 codes. Keys are
// uppercased before lookup. "kr" is ambiguous across the Nordic currencies
// and deliberately resolves to SEK.
var symbolToCode = map[string]string{
	"$":   "USD",
	"€":   "EUR",
	"£":   "GBP",
	"¥":   "JPY",
	"₹":   "INR",
	"₽":   "RUB",
	"₺":   "TRY",
	"ZŁ":  "PLN",
	"KR":  "SEK",
	"R$":  "BRL",
	"C$":  "CAD",
	"A$":  "AUD",
	"MX$": "MXN",
	"S$":  "SGD",
	"HK$": "HKD",
}

var (
	// amount + whitespace + free text, no currency token
	reNoCurrency = regexp.MustCompile(`^([\d.,]+)\s+(.+)$`)

	// amount + optional space + currency symbol or 3-letter code + space + free text
	reWithCurrency = regexp.MustCompile(`(?i)^([\d.,]+)\s*(R\$|C\$|A\$|MX\$|S\$|HK\$|zł|kr|\$|€|£|¥|₹|₽|₺|[A-Z]{3})\s+(.+)$`)

	// leading currency markers in the remainder text; a bare 3-letter code only
	// counts when uppercase and followed by whitespace
	reLeadingSymbol = regexp.MustCompile(`(?i)^(R\$|C\$|A\$|MX\$|S\$|HK\$|zł|kr|\$|€|£|¥|₹|₽|₺)`)
	reLeadingCode   = regexp.MustCompile(`^[A-Z]{3}\s`)

	reISOCode = regexp.MustCompile(`^[A-Z]{3}$`)
)

// Parse extracts a transaction from a free-text message.
//
// The no-currency shape is tried first so that "10.12 Food" never loses the
// start of its name to a phantom currency token. When the remainder begins
// with a known symbol or an uppercase 3-letter code, the with-currency shape
// is preferred instead, so "10.12 USD Food" never swallows "USD" into the
// name.
func Parse(message string) (Parsed, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return Parsed{}, ErrNoMatch
	}

	if m := reNoCurrency.FindStringSubmatch(trimmed); m != nil {
		name := strings.TrimSpace(m[2])
		if name != "" && !startsWithCurrencyToken(name) {
			if amount, err := parseAmount(m[1]); err == nil {
				return Parsed{Amount: amount, Name: name}, nil
			}
		}
	}

	if m := reWithCurrency.FindStringSubmatch(trimmed); m != nil {
		name := strings.TrimSpace(m[3])
		if name != "" {
			if amount, err := parseAmount(m[1]); err == nil {
				return Parsed{Amount: amount, CurrencyCode: resolveCurrency(m[2]), Name: name}, nil
			}
		}
	}

	return Parsed{}, ErrNoMatch
}

// Format renders a Parsed back into the canonical grammar, so that
// Parse(Format(p)) yields p again.
func Format(p Parsed) string {
	if p.CurrencyCode == "" {
		return p.Amount.String() + " " + p.Name
	}
	return p.Amount.String() + " " + p.CurrencyCode + " " + p.Name
}

// startsWithCurrencyToken reports whether text begins with a recognized
// currency symbol, or with an uppercase 3-letter token followed by
// whitespace.
func startsWithCurrencyToken(text string) bool {
	return reLeadingSymbol.MatchString(text) || reLeadingCode.MatchString(text)
}

// parseAmount normalizes the first "," to "." and parses the result. Inputs
// with thousands grouping or repeated separators fail here, which surfaces as
// a parse failure rather than a truncated amount.
func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.Replace(s, ",", ".", 1))
}

// resolveCurrency maps a matched currency token to a canonical ISO code.
// Unknown symbols yield "", which callers treat the same as an absent token.
func resolveCurrency(token string) string {
	upper := strings.ToUpper(strings.TrimSpace(token))
	if code, ok := symbolToCode[upper]; ok {
		return code
	}
	if reISOCode.MatchString(upper) {
		return upper
	}
	return ""
}
