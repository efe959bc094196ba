// Package register manages the open/close lifecycle of a till and the
// close-time reconciliation of declared cash against observed transactions.
package register

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendita/pos-core/internal/models"
	"github.com/tiendita/pos-core/internal/pkg/money"
)

var (
	ErrRegisterNotFound      = errors.New("cash register not found")
	ErrRegisterAlreadyOpen   = errors.New("checkout already has an open register")
	ErrRegisterAlreadyClosed = errors.New("cash register is already closed")
	ErrRegisterStillOpen     = errors.New("cash register is still open")
	ErrNegativeInitialCash   = errors.New("initial cash must not be negative")
	ErrUnknownMethodKey      = errors.New("unknown payment method key")
	ErrCloseBeforeOpen       = errors.New("close time precedes open time")
)

// Service reconciles cash registers. The clock is injected for
// deterministic tests; all arithmetic is decimal.
type Service struct {
	registers    RegisterStore
	transactions TransactionReader
	now          func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(registers RegisterStore, transactions TransactionReader, opts ...Option) *Service {
	s := &Service{
		registers:    registers,
		transactions: transactions,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates an OPEN register for the checkout. At most one register may
// be OPEN per checkout at a time.
func (s *Service) Open(checkoutID, openedByID string, initialCash decimal.Decimal, notes string, openedAt *time.Time) (*models.CashRegisterModel, error) {
	if initialCash.IsNegative() {
		return nil, ErrNegativeInitialCash
	}
	existing, err := s.registers.OpenByCheckout(checkoutID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrRegisterAlreadyOpen
	}

	at := s.now()
	if openedAt != nil {
		at = *openedAt
	}
	row := &models.CashRegisterModel{
		CheckoutID:   checkoutID,
		OpenedByID:   openedByID,
		OpenedAt:     at,
		Status:       models.RegisterOpen,
		InitialCash:  initialCash,
		OpeningNotes: notes,
	}
	if err := s.registers.Create(row); err != nil {
		return nil, err
	}
	return row, nil
}

// Close reconciles and closes the register, exactly once:
//
//	expected = per-method sums of the opener's in-window transactions,
//	           plus the opening float on the cash key
//	missing  = expected − declared over the union of keys (absent = 0)
//
// Positive missing values are shortages, negative are surpluses.
// ExpectedMoney and MissingMoney are derived here and nowhere else.
func (s *Service) Close(id, closedByID string, declared money.Map, notes string, closedAt *time.Time) (*models.CashRegisterModel, error) {
	if err := validateMethodKeys(declared); err != nil {
		return nil, err
	}

	row, err := s.registers.Get(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrRegisterNotFound
	}
	if row.Status == models.RegisterClosed {
		return nil, ErrRegisterAlreadyClosed
	}

	at := s.now()
	if closedAt != nil {
		at = *closedAt
	}
	if at.Before(row.OpenedAt) {
		return nil, ErrCloseBeforeOpen
	}

	expected, err := s.transactions.SumByMethod(row.CheckoutID, row.OpenedByID, row.OpenedAt, at)
	if err != nil {
		return nil, err
	}
	// The opening float is part of what should be physically in the drawer.
	expected.Add(money.Cash.Key(), row.InitialCash)

	missing := expected.Sub(declared)
	finalCash := declared.Total()

	row.Status = models.RegisterClosed
	row.ClosedAt = &at
	row.ClosedByID = &closedByID
	row.ClosingNotes = notes
	row.FinalCash = &finalCash
	row.ExpectedMoney = expected
	row.MissingMoney = missing

	if err := s.registers.Update(row); err != nil {
		return nil, err
	}
	return row, nil
}

// GetActive returns the OPEN register for a checkout, or nil.
func (s *Service) GetActive(checkoutID string) (*models.CashRegisterModel, error) {
	return s.registers.OpenByCheckout(checkoutID)
}

// GetActiveForUser returns the register the user currently has OPEN, or nil.
func (s *Service) GetActiveForUser(userID string) (*models.CashRegisterModel, error) {
	return s.registers.OpenByUser(userID)
}

// GetByID returns the register, or nil when absent.
func (s *Service) GetByID(id string) (*models.CashRegisterModel, error) {
	return s.registers.Get(id)
}

// List returns register history matching the filter.
func (s *Service) List(f ListFilter) ([]models.CashRegisterModel, int64, error) {
	return s.registers.List(f)
}

// UpdateNotes edits the free-text notes; the derived monetary fields stay
// untouched.
func (s *Service) UpdateNotes(id string, opening, closing *string) (*models.CashRegisterModel, error) {
	row, err := s.registers.Get(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrRegisterNotFound
	}
	if opening != nil {
		row.OpeningNotes = *opening
	}
	if closing != nil {
		row.ClosingNotes = *closing
	}
	if err := s.registers.Update(row); err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes a register permanently. Administrative only; an OPEN
// register cannot be deleted.
func (s *Service) Delete(id string) error {
	row, err := s.registers.Get(id)
	if err != nil {
		return err
	}
	if row == nil {
		return ErrRegisterNotFound
	}
	if row.Status == models.RegisterOpen {
		return ErrRegisterStillOpen
	}
	return s.registers.Delete(id)
}

func validateMethodKeys(declared money.Map) error {
	known := make(map[string]struct{})
	for _, m := range money.Methods() {
		known[m.Key()] = struct{}{}
	}
	for key := range declared {
		if _, ok := known[key]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownMethodKey, key)
		}
	}
	return nil
}
