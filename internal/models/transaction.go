package models

import (
	"github.com/shopspring/decimal"

	"github.com/tiendita/pos-core/internal/pkg/money"
)

// SaleItem is one line of a sale, embedded as JSON on the transaction.
type SaleItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// TransactionModel is a completed payment at a checkout. Amount is positive
// income. Voided sales are soft-deleted so reconciliation reads skip them.
// RegisterID is stamped at write time when the cashier has an open register;
// reconciliation itself matches by (checkout, user, time window).
type TransactionModel struct {
	Base
	Number        int64               `json:"number"         gorm:"uniqueIndex;not null"`
	CheckoutID    string              `json:"checkout_id"    gorm:"index;not null"`
	UserID        string              `json:"user_id"        gorm:"index;not null"`
	CustomerID    *string             `json:"customer_id"    gorm:"index"`
	RegisterID    *string             `json:"register_id"    gorm:"index"`
	PaymentMethod money.PaymentMethod `json:"payment_method" gorm:"index;not null"`
	Amount        decimal.Decimal     `json:"amount"         gorm:"type:decimal(20,4);not null"`
	Items         []SaleItem          `json:"items"          gorm:"type:longtext;serializer:json"`
	Notes         string              `json:"notes"          gorm:"type:text"`
}

func (TransactionModel) TableName() string { return "transactions" }
