package models

import "time"

// UserModel represents a back-office or cashier user.
type UserModel struct {
	Base
	Username      string     `json:"username"        gorm:"uniqueIndex;not null"`
	Name          string     `json:"name"`
	Password      string     `json:"-"               gorm:"not null"`
	Mail          string     `json:"mail"`
	Role          string     `json:"role"            gorm:"index;not null;default:cashier"`
	IsActive      bool       `json:"is_active"       gorm:"not null;default:true"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }

// RoleModel maps a role name to its capability strings ("resource:action",
// with "resource:manage" implying every action on that resource).
type RoleModel struct {
	Base
	Name        string   `json:"name"        gorm:"uniqueIndex;not null"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions" gorm:"type:longtext;serializer:json"`
}

func (RoleModel) TableName() string { return "roles" }
