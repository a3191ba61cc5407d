package coverage

import "fmt"

// Money is an amount in the smallest currency unit.
type Money struct {
	amountInCents int64
	currency      string
}

// NewMoney creates a money value; an empty currency defaults to USD.
func NewMoney(amountInCents int64, currency string) Money {
	if currency == "" {
		currency = "USD"
	}
	return Money{amountInCents: amountInCents, currency: currency}
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return NewMoney(0, currency)
}

// AmountInCents returns the amount in the smallest currency unit.
func (m Money) AmountInCents() int64 {
	return m.amountInCents
}

// Currency returns the ISO currency code.
func (m Money) Currency() string {
	return m.currency
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.amountInCents > 0
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amountInCents == 0
}

// Add returns the sum of two amounts. Mixed currencies return
// ErrCurrencyMismatch so callers can skip or report the amount instead of
// corrupting a running total.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Zero(m.currency), fmt.Errorf("%w: cannot add %s to %s", ErrCurrencyMismatch, other.currency, m.currency)
	}
	return Money{amountInCents: m.amountInCents + other.amountInCents, currency: m.currency}, nil
}

// ProRata returns the amount scaled by numerator/denominator, rounded down
// to the smallest currency unit. A non-positive denominator yields zero.
func (m Money) ProRata(numerator, denominator int) Money {
	if denominator <= 0 || numerator <= 0 {
		return Zero(m.currency)
	}
	if numerator >= denominator {
		return m
	}
	return Money{
		amountInCents: m.amountInCents * int64(numerator) / int64(denominator),
		currency:      m.currency,
	}
}

// Equals compares amount and currency.
func (m Money) Equals(other Money) bool {
	return m.amountInCents == other.amountInCents && m.currency == other.currency
}

// String returns a display representation.
func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", float64(m.amountInCents)/100.0, m.currency)
}
