package parser

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse_NoCurrency(t *testing.T) {
	tests := []struct {
		input  string
		amount string
		name   string
	}{
		{"10.12 Food", "10.12", "Food"},
		{"25 Freelance", "25", "Freelance"},
		{"3,99 Bus ticket", "3.99", "Bus ticket"},
		{"  7 Coffee  ", "7", "Coffee"},
		{"10.12 the shop", "10.12", "the shop"}, // lowercase 3-letter word is not a currency
	}

	for _, tt := range tests {
		got, err := Parse(tt.input)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error %v", tt.input, err)
		}
		if got.CurrencyCode != "" {
			t.Errorf("Parse(%q): expected no currency, got %q", tt.input, got.CurrencyCode)
		}
		if !got.Amount.Equal(decimal.RequireFromString(tt.amount)) {
			t.Errorf("Parse(%q): expected amount %s, got %s", tt.input, tt.amount, got.Amount)
		}
		if got.Name != tt.name {
			t.Errorf("Parse(%q): expected name %q, got %q", tt.input, tt.name, got.Name)
		}
	}
}

func TestParse_WithCurrency(t *testing.T) {
	tests := []struct {
		input    string
		amount   string
		currency string
		name     string
	}{
		{"10.12 $ Food", "10.12", "USD", "Food"},
		{"10.12$ Food", "10.12", "USD", "Food"},
		{"10,50 EUR Coffee", "10.5", "EUR", "Coffee"},
		{"10.12 USD Food", "10.12", "USD", "Food"},
		{"10.12usd Food", "10.12", "USD", "Food"},
		{"99 zł Groceries", "99", "PLN", "Groceries"},
		{"45 kr Taxi", "45", "SEK", "Taxi"}, // ambiguous kr fixed to SEK
		{"120 R$ Dinner", "120", "BRL", "Dinner"},
		{"15 HK$ Lunch", "15", "HKD", "Lunch"},
		{"30.5 € Starbucks", "30.5", "EUR", "Starbucks"},
		{"200 ₽ Metro", "200", "RUB", "Metro"},
		{"500 PLN Biedronka", "500", "PLN", "Biedronka"},
	}

	for _, tt := range tests {
		got, err := Parse(tt.input)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error %v", tt.input, err)
		}
		if got.CurrencyCode != tt.currency {
			t.Errorf("Parse(%q): expected currency %q, got %q", tt.input, tt.currency, got.CurrencyCode)
		}
		if !got.Amount.Equal(decimal.RequireFromString(tt.amount)) {
			t.Errorf("Parse(%q): expected amount %s, got %s", tt.input, tt.amount, got.Amount)
		}
		if got.Name != tt.name {
			t.Errorf("Parse(%q): expected name %q, got %q", tt.input, tt.name, got.Name)
		}
	}
}

func TestParse_Failures(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"200.00",        // bare number, no name
		"Food 10.12",    // amount must lead
		"10.1.2 Food",   // repeated separators
		"abc",
		"$ Food",        // no amount
		"10.12 KRona",   // leading kr symbol but no space-delimited name
	}

	for _, input := range inputs {
		if _, err := Parse(input); !errors.Is(err, ErrNoMatch) {
			t.Errorf("Parse(%q): expected ErrNoMatch, got %v", input, err)
		}
	}
}

func TestParse_SymbolNeverLeaksIntoResult(t *testing.T) {
	got, err := Parse("10.12 $ Food")
	if err != nil {
		t.Fatal(err)
	}
	if got.CurrencyCode != "USD" {
		t.Errorf("expected mapped ISO code USD, got %q", got.CurrencyCode)
	}
	if got.Name == "$ Food" || got.Name != "Food" {
		t.Errorf("currency token leaked into name: %q", got.Name)
	}
}

func TestParse_FormatRoundTrip(t *testing.T) {
	inputs := []string{
		"10.12 $ Food",
		"10,50 EUR Coffee",
		"25 Freelance",
		"99 zł Groceries",
		"10.12 the shop",
	}

	for _, input := range inputs {
		first, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		second, err := Parse(Format(first))
		if err != nil {
			t.Fatalf("Parse(Format(Parse(%q))): %v", input, err)
		}
		if !second.Amount.Equal(first.Amount) || second.CurrencyCode != first.CurrencyCode || second.Name != first.Name {
			t.Errorf("round trip of %q diverged: %+v vs %+v", input, first, second)
		}
	}
}
