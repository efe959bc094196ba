package sale

import (
	"time"

	"github.com/tiendita/pos-core/internal/pkg/money"
)

type SaleItemDTO struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type CreateSaleDTO struct {
	CheckoutID    string        `json:"checkout_id" binding:"required"`
	CustomerID    *string       `json:"customer_id"`
	PaymentMethod string        `json:"payment_method" binding:"required"`
	Items         []SaleItemDTO `json:"items" binding:"required,min=1,dive"`
	Notes         string        `json:"notes"`
}

// ListFilter narrows sale listings.
type ListFilter struct {
	CheckoutID string
	UserID     string
	Method     string
	From       *time.Time
	To         *time.Time
}

type dailySummary struct {
	Date     string    `json:"date"`
	Count    int64     `json:"count"`
	ByMethod money.Map `json:"by_method"`
	Total    string    `json:"total"`
}
