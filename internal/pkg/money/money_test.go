package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPaymentMethodKey(t *testing.T) {
	cases := []struct {
		method PaymentMethod
		want   string
	}{
		{Cash, "cash"},
		{DebitCard, "debitCard"},
		{CreditCard, "creditCard"},
		{BankTransfer, "bankTransfer"},
		{MobileMoney, "mobileMoney"},
		{Check, "check"},
	}
	for _, tc := range cases {
		if got := tc.method.Key(); got != tc.want {
			t.Errorf("%s.Key() = %q, want %q", tc.method, got, tc.want)
		}
	}
}

func TestPaymentMethodValid(t *testing.T) {
	for _, m := range Methods() {
		if !m.Valid() {
			t.Errorf("%s should be valid", m)
		}
	}
	if PaymentMethod("BARTER").Valid() {
		t.Error("BARTER should not be valid")
	}
	if PaymentMethod("cash").Valid() {
		t.Error("lowercase cash should not be valid")
	}
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestMapGetAbsentIsZero(t *testing.T) {
	m := Map{}
	if !m.Get("cash").IsZero() {
		t.Error("absent key should read as zero")
	}
}

func TestMapAddAndTotal(t *testing.T) {
	m := Map{}
	m.Add("cash", d("10000"))
	m.Add("cash", d("20000"))
	m.Add("debitCard", d("50000"))

	if got := m.Get("cash"); !got.Equal(d("30000")) {
		t.Errorf("cash = %s, want 30000", got)
	}
	if got := m.Total(); !got.Equal(d("80000")) {
		t.Errorf("total = %s, want 80000", got)
	}
}

func TestMapSubUnionOfKeys(t *testing.T) {
	expected := Map{"cash": d("135000"), "debitCard": d("50000")}
	declared := Map{"cash": d("130000"), "debitCard": d("50000"), "check": d("1000")}

	diff := expected.Sub(declared)

	if got := diff.Get("cash"); !got.Equal(d("5000")) {
		t.Errorf("cash diff = %s, want 5000", got)
	}
	if got := diff.Get("debitCard"); !got.IsZero() {
		t.Errorf("debitCard diff = %s, want 0", got)
	}
	// A declared method never observed counts as surplus.
	if got := diff.Get("check"); !got.Equal(d("-1000")) {
		t.Errorf("check diff = %s, want -1000", got)
	}
	// sum(diff) == sum(expected) - sum(declared)
	if got := diff.Total(); !got.Equal(expected.Total().Sub(declared.Total())) {
		t.Errorf("diff total = %s, want %s", got, expected.Total().Sub(declared.Total()))
	}
}
