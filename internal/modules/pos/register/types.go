package register

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendita/pos-core/internal/pkg/money"
)

type openRequest struct {
	CheckoutID  string          `json:"checkout_id" binding:"required"`
	InitialCash decimal.Decimal `json:"initial_cash"`
	Notes       string          `json:"notes"`
	OpenedAt    *time.Time      `json:"opened_at"`
}

type closeRequest struct {
	Declared money.Map  `json:"declared" binding:"required"`
	Notes    string     `json:"notes"`
	ClosedAt *time.Time `json:"closed_at"`
}

type notesRequest struct {
	OpeningNotes *string `json:"opening_notes"`
	ClosingNotes *string `json:"closing_notes"`
}
