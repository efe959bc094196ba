package models

// CustomerModel is a registered buyer, referenced from sales.
type CustomerModel struct {
	Base
	Name     string `json:"name"     gorm:"index;not null"`
	Document string `json:"document" gorm:"index"`
	Phone    string `json:"phone"`
	Mail     string `json:"mail"`
	Address  string `json:"address"`
}

func (CustomerModel) TableName() string { return "customers" }
