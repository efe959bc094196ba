package register

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendita/pos-core/internal/models"
	"github.com/tiendita/pos-core/internal/pkg/money"
)

// memRegisters implements RegisterStore for tests.
type memRegisters struct {
	mu   sync.Mutex
	rows map[string]*models.CashRegisterModel
	next int
}

func newMemRegisters() *memRegisters {
	return &memRegisters{rows: make(map[string]*models.CashRegisterModel)}
}

func (m *memRegisters) Get(id string) (*models.CashRegisterModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (m *memRegisters) Create(row *models.CashRegisterModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row.ID == "" {
		m.next++
		row.ID = fmt.Sprintf("reg-%d", m.next)
	}
	cp := *row
	m.rows[row.ID] = &cp
	return nil
}

func (m *memRegisters) Update(row *models.CashRegisterModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *row
	m.rows[row.ID] = &cp
	return nil
}

func (m *memRegisters) OpenByCheckout(checkoutID string) (*models.CashRegisterModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.CheckoutID == checkoutID && row.Status == models.RegisterOpen {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRegisters) OpenByUser(userID string) (*models.CashRegisterModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.OpenedByID == userID && row.Status == models.RegisterOpen {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRegisters) List(f ListFilter) ([]models.CashRegisterModel, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.CashRegisterModel
	for _, row := range m.rows {
		if f.CheckoutID != "" && row.CheckoutID != f.CheckoutID {
			continue
		}
		if f.Status != "" && row.Status != f.Status {
			continue
		}
		out = append(out, *row)
	}
	return out, int64(len(out)), nil
}

func (m *memRegisters) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

// txRecord is a recorded payment for the fake reader. Voided rows are
// skipped, matching the soft-delete filter of the real reader.
type txRecord struct {
	checkoutID string
	userID     string
	method     money.PaymentMethod
	amount     decimal.Decimal
	at         time.Time
	voided     bool
}

type memTransactions struct {
	records []txRecord
}

func (m *memTransactions) SumByMethod(checkoutID, userID string, from, to time.Time) (money.Map, error) {
	sums := money.Map{}
	for _, rec := range m.records {
		if rec.voided || rec.checkoutID != checkoutID || rec.userID != userID {
			continue
		}
		if rec.at.Before(from) || rec.at.After(to) {
			continue
		}
		sums.Add(rec.method.Key(), rec.amount)
	}
	return sums, nil
}

var shiftStart = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func amt(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func newTestService(registers *memRegisters, transactions *memTransactions, now time.Time) *Service {
	return NewService(registers, transactions, WithClock(func() time.Time { return now }))
}

func TestOpenRejectsSecondOpen(t *testing.T) {
	registers := newMemRegisters()
	svc := newTestService(registers, &memTransactions{}, shiftStart)

	if _, err := svc.Open("checkout-1", "user-1", amt(50000), "", nil); err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if _, err := svc.Open("checkout-1", "user-2", amt(0), "", nil); err != ErrRegisterAlreadyOpen {
		t.Fatalf("second Open = %v, want ErrRegisterAlreadyOpen", err)
	}
	// a different checkout is unaffected
	if _, err := svc.Open("checkout-2", "user-2", amt(0), "", nil); err != nil {
		t.Fatalf("Open on another checkout: %v", err)
	}
}

func TestOpenRejectsNegativeFloat(t *testing.T) {
	svc := newTestService(newMemRegisters(), &memTransactions{}, shiftStart)
	if _, err := svc.Open("checkout-1", "user-1", amt(-1), "", nil); err != ErrNegativeInitialCash {
		t.Fatalf("Open = %v, want ErrNegativeInitialCash", err)
	}
}

// End-of-shift scenario: three cash sales (10,000 + 20,000 + 5,000) and one
// card sale (50,000) against a 100,000 float. The cashier declares 130,000
// cash and 50,000 on card, so the drawer is short exactly 5,000 in cash.
func TestCloseReconciliation(t *testing.T) {
	registers := newMemRegisters()
	transactions := &memTransactions{records: []txRecord{
		{"checkout-1", "user-1", money.Cash, amt(10000), shiftStart.Add(1 * time.Hour), false},
		{"checkout-1", "user-1", money.Cash, amt(20000), shiftStart.Add(2 * time.Hour), false},
		{"checkout-1", "user-1", money.Cash, amt(5000), shiftStart.Add(3 * time.Hour), false},
		{"checkout-1", "user-1", money.CreditCard, amt(50000), shiftStart.Add(4 * time.Hour), false},
	}}
	closeTime := shiftStart.Add(8 * time.Hour)
	svc := newTestService(registers, transactions, closeTime)

	opened := shiftStart
	row, err := svc.Open("checkout-1", "user-1", amt(100000), "morning shift", &opened)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	declared := money.Map{
		"cash":       amt(130000),
		"creditCard": amt(50000),
	}
	closed, err := svc.Close(row.ID, "user-9", declared, "till short", nil)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}

	if closed.Status != models.RegisterClosed {
		t.Errorf("status = %s, want CLOSED", closed.Status)
	}
	if closed.ClosedAt == nil || !closed.ClosedAt.Equal(closeTime) {
		t.Errorf("closed_at = %v, want %v", closed.ClosedAt, closeTime)
	}
	if closed.ClosedByID == nil || *closed.ClosedByID != "user-9" {
		t.Errorf("closed_by = %v, want user-9", closed.ClosedByID)
	}

	if got, want := closed.ExpectedMoney.Get("cash"), amt(135000); !got.Equal(want) {
		t.Errorf("expected cash = %s, want %s", got, want)
	}
	if got, want := closed.ExpectedMoney.Get("creditCard"), amt(50000); !got.Equal(want) {
		t.Errorf("expected creditCard = %s, want %s", got, want)
	}
	if got, want := closed.MissingMoney.Get("cash"), amt(5000); !got.Equal(want) {
		t.Errorf("missing cash = %s, want %s", got, want)
	}
	if got := closed.MissingMoney.Get("creditCard"); !got.IsZero() {
		t.Errorf("missing creditCard = %s, want 0", got)
	}
	if closed.FinalCash == nil || !closed.FinalCash.Equal(amt(180000)) {
		t.Errorf("final_cash = %v, want 180000", closed.FinalCash)
	}
}

// Declared amounts on methods with no expected counterpart surface as
// negative missing values, i.e. a surplus.
func TestCloseUnionOfKeys(t *testing.T) {
	registers := newMemRegisters()
	transactions := &memTransactions{records: []txRecord{
		{"checkout-1", "user-1", money.DebitCard, amt(7500), shiftStart.Add(time.Hour), false},
	}}
	svc := newTestService(registers, transactions, shiftStart.Add(6*time.Hour))

	opened := shiftStart
	row, _ := svc.Open("checkout-1", "user-1", amt(0), "", &opened)

	closed, err := svc.Close(row.ID, "user-1", money.Map{"check": amt(1000)}, "", nil)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got, want := closed.MissingMoney.Get("debitCard"), amt(7500); !got.Equal(want) {
		t.Errorf("missing debitCard = %s, want %s", got, want)
	}
	if got, want := closed.MissingMoney.Get("check"), amt(-1000); !got.Equal(want) {
		t.Errorf("missing check = %s, want %s", got, want)
	}
	if got := closed.MissingMoney.Get("cash"); !got.IsZero() {
		t.Errorf("missing cash = %s, want 0", got)
	}
}

// Only the opener's transactions inside [opened_at, closed_at] count.
// Voided sales never count.
func TestCloseWindowAndVoidFilters(t *testing.T) {
	registers := newMemRegisters()
	transactions := &memTransactions{records: []txRecord{
		{"checkout-1", "user-1", money.Cash, amt(999), shiftStart.Add(-time.Minute), false}, // before open
		{"checkout-1", "user-1", money.Cash, amt(5000), shiftStart.Add(time.Hour), false},
		{"checkout-1", "user-1", money.Cash, amt(3000), shiftStart.Add(2 * time.Hour), true}, // voided
		{"checkout-1", "user-2", money.Cash, amt(888), shiftStart.Add(time.Hour), false},     // other cashier
		{"checkout-2", "user-1", money.Cash, amt(777), shiftStart.Add(time.Hour), false},     // other checkout
		{"checkout-1", "user-1", money.Cash, amt(666), shiftStart.Add(5 * time.Hour), false}, // after close
	}}
	closeTime := shiftStart.Add(4 * time.Hour)
	svc := newTestService(registers, transactions, closeTime)

	opened := shiftStart
	row, _ := svc.Open("checkout-1", "user-1", amt(0), "", &opened)

	closed, err := svc.Close(row.ID, "user-1", money.Map{"cash": amt(5000)}, "", &closeTime)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got, want := closed.ExpectedMoney.Get("cash"), amt(5000); !got.Equal(want) {
		t.Errorf("expected cash = %s, want %s", got, want)
	}
	if got := closed.MissingMoney.Get("cash"); !got.IsZero() {
		t.Errorf("missing cash = %s, want 0", got)
	}
}

func TestCloseIsOnce(t *testing.T) {
	registers := newMemRegisters()
	svc := newTestService(registers, &memTransactions{}, shiftStart.Add(time.Hour))

	opened := shiftStart
	row, _ := svc.Open("checkout-1", "user-1", amt(1000), "", &opened)

	first, err := svc.Close(row.ID, "user-1", money.Map{"cash": amt(1000)}, "", nil)
	if err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if _, err := svc.Close(row.ID, "user-1", money.Map{"cash": amt(999999)}, "", nil); err != ErrRegisterAlreadyClosed {
		t.Fatalf("second Close = %v, want ErrRegisterAlreadyClosed", err)
	}

	// the stored reconciliation is untouched by the rejected close
	stored, _ := registers.Get(row.ID)
	if !stored.ExpectedMoney.Get("cash").Equal(first.ExpectedMoney.Get("cash")) {
		t.Error("rejected close must not alter the stored reconciliation")
	}
}

func TestCloseValidation(t *testing.T) {
	registers := newMemRegisters()
	svc := newTestService(registers, &memTransactions{}, shiftStart.Add(time.Hour))

	if _, err := svc.Close("missing", "user-1", money.Map{}, "", nil); err != ErrRegisterNotFound {
		t.Errorf("Close on missing id = %v, want ErrRegisterNotFound", err)
	}

	opened := shiftStart
	row, _ := svc.Open("checkout-1", "user-1", amt(0), "", &opened)

	if _, err := svc.Close(row.ID, "user-1", money.Map{"efectivo": amt(1)}, "", nil); err == nil {
		t.Error("unknown declared key must be rejected")
	}

	early := shiftStart.Add(-time.Minute)
	if _, err := svc.Close(row.ID, "user-1", money.Map{}, "", &early); err != ErrCloseBeforeOpen {
		t.Errorf("Close before open = %v, want ErrCloseBeforeOpen", err)
	}
}

func TestDeleteGuardsOpenRegister(t *testing.T) {
	registers := newMemRegisters()
	svc := newTestService(registers, &memTransactions{}, shiftStart.Add(time.Hour))

	row, _ := svc.Open("checkout-1", "user-1", amt(0), "", nil)
	if err := svc.Delete(row.ID); err != ErrRegisterStillOpen {
		t.Fatalf("Delete on open register = %v, want ErrRegisterStillOpen", err)
	}
	if _, err := svc.Close(row.ID, "user-1", money.Map{}, "", nil); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := svc.Delete(row.ID); err != nil {
		t.Fatalf("Delete after close: %v", err)
	}
	if got, _ := registers.Get(row.ID); got != nil {
		t.Error("register should be gone after delete")
	}
}
