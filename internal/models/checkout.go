package models

// CheckoutModel is a point-of-sale station. Cash registers open and close
// against a checkout over time.
type CheckoutModel struct {
	Base
	Name        string `json:"name"        gorm:"uniqueIndex;not null"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"   gorm:"not null;default:true"`
}

func (CheckoutModel) TableName() string { return "checkouts" }
