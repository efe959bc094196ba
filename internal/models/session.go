package models

import "time"

// LoginSession is a server-tracked authenticated login. A session is valid
// iff IsActive and ExpiresAt is in the future; RefreshBefore marks the start
// of the idle-refresh window and is always strictly earlier than ExpiresAt.
type LoginSession struct {
	Base
	UserID        string    `json:"user_id"        gorm:"index;not null"`
	IP            string    `json:"ip"`
	UA            string    `json:"ua"             gorm:"type:text"`
	ExpiresAt     time.Time `json:"expires_at"     gorm:"index;not null"`
	RefreshBefore time.Time `json:"refresh_before" gorm:"not null"`
	IsActive      bool      `json:"is_active"      gorm:"index;not null;default:true"`
}

func (LoginSession) TableName() string { return "login_sessions" }
