package product

import "github.com/shopspring/decimal"

type ProductDTO struct {
	Name       string          `json:"name" binding:"required"`
	Barcode    *string         `json:"barcode"`
	CategoryID *string         `json:"category_id"`
	Price      decimal.Decimal `json:"price" binding:"required"`
	Cost       decimal.Decimal `json:"cost"`
	Stock      int             `json:"stock"`
	MinStock   int             `json:"min_stock"`
}

type UpdateProductDTO struct {
	Name       *string          `json:"name"`
	Barcode    *string          `json:"barcode"`
	CategoryID *string          `json:"category_id"`
	Price      *decimal.Decimal `json:"price"`
	Cost       *decimal.Decimal `json:"cost"`
	MinStock   *int             `json:"min_stock"`
	IsActive   *bool            `json:"is_active"`
}

type AdjustStockDTO struct {
	Delta int `json:"delta" binding:"required"`
}
