// Package money defines payment methods and decimal amount maps used by
// billing and cash-register reconciliation. All monetary arithmetic goes
// through shopspring/decimal; float64 never touches an amount.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the enumerated payment method stored on transactions.
type PaymentMethod string

const (
	Cash         PaymentMethod = "CASH"
	DebitCard    PaymentMethod = "DEBIT_CARD"
	CreditCard   PaymentMethod = "CREDIT_CARD"
	BankTransfer PaymentMethod = "BANK_TRANSFER"
	MobileMoney  PaymentMethod = "MOBILE_MONEY"
	Check        PaymentMethod = "CHECK"
)

// Methods lists every accepted payment method.
func Methods() []PaymentMethod {
	return []PaymentMethod{Cash, DebitCard, CreditCard, BankTransfer, MobileMoney, Check}
}

// Valid reports whether m is one of the accepted methods.
func (m PaymentMethod) Valid() bool {
	for _, v := range Methods() {
		if m == v {
			return true
		}
	}
	return false
}

// Key returns the lower-camel reconciliation key for the method,
// e.g. BANK_TRANSFER -> bankTransfer.
func (m PaymentMethod) Key() string {
	parts := strings.Split(strings.ToLower(string(m)), "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}

// Map holds per-payment-method decimal amounts keyed by PaymentMethod.Key().
// Absent keys read as zero. It serializes to a plain JSON object, which is
// how it is stored on closed cash registers.
type Map map[string]decimal.Decimal

// Get returns the amount for key, or zero when absent.
func (m Map) Get(key string) decimal.Decimal {
	if v, ok := m[key]; ok {
		return v
	}
	return decimal.Zero
}

// Add accumulates v into key.
func (m Map) Add(key string, v decimal.Decimal) {
	m[key] = m.Get(key).Add(v)
}

// Total sums all amounts in the map.
func (m Map) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range m {
		total = total.Add(v)
	}
	return total
}

// Sub returns m − other over the union of keys, absent entries counting
// as zero. Positive results mean other fell short of m.
func (m Map) Sub(other Map) Map {
	out := Map{}
	for k, v := range m {
		out[k] = v.Sub(other.Get(k))
	}
	for k, v := range other {
		if _, ok := m[k]; !ok {
			out[k] = v.Neg()
		}
	}
	return out
}

// Clone returns a shallow copy (decimal values are immutable).
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
