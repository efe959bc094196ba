package models

import "github.com/shopspring/decimal"

// ProductModel is a sellable product with tracked stock.
type ProductModel struct {
	Base
	Name       string          `json:"name"        gorm:"index;not null"`
	Barcode    *string         `json:"barcode"     gorm:"uniqueIndex"`
	CategoryID *string         `json:"category_id" gorm:"index"`
	Price      decimal.Decimal `json:"price"       gorm:"type:decimal(20,4);not null"`
	Cost       decimal.Decimal `json:"cost"        gorm:"type:decimal(20,4)"`
	Stock      int             `json:"stock"       gorm:"not null;default:0"`
	MinStock   int             `json:"min_stock"   gorm:"not null;default:0"`
	IsActive   bool            `json:"is_active"   gorm:"not null;default:true"`
}

func (ProductModel) TableName() string { return "products" }
