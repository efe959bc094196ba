package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendita/pos-core/internal/pkg/money"
)

// RegisterStatus is the lifecycle state of a cash register. The only
// transition is OPEN -> CLOSED, exactly once.
type RegisterStatus string

const (
	RegisterOpen   RegisterStatus = "OPEN"
	RegisterClosed RegisterStatus = "CLOSED"
)

// CashRegisterModel is one open-to-close operating period of a checkout
// station. ExpectedMoney and MissingMoney are derived at close time from the
// opening float and the in-window transactions; no other path writes them.
type CashRegisterModel struct {
	Base
	CheckoutID    string           `json:"checkout_id"    gorm:"index;not null"`
	OpenedByID    string           `json:"opened_by_id"   gorm:"index;not null"`
	ClosedByID    *string          `json:"closed_by_id"`
	OpenedAt      time.Time        `json:"opened_at"      gorm:"index;not null"`
	ClosedAt      *time.Time       `json:"closed_at"`
	Status        RegisterStatus   `json:"status"         gorm:"index;not null;default:OPEN"`
	InitialCash   decimal.Decimal  `json:"initial_cash"   gorm:"type:decimal(20,4);not null"`
	FinalCash     *decimal.Decimal `json:"final_cash"     gorm:"type:decimal(20,4)"`
	ExpectedMoney money.Map        `json:"expected_money" gorm:"type:longtext;serializer:json"`
	MissingMoney  money.Map        `json:"missing_money"  gorm:"type:longtext;serializer:json"`
	OpeningNotes  string           `json:"opening_notes"  gorm:"type:text"`
	ClosingNotes  string           `json:"closing_notes"  gorm:"type:text"`
}

func (CashRegisterModel) TableName() string { return "cash_registers" }
