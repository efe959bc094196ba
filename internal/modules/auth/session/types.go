package session

import "time"

type sessionResponse struct {
	ID        string    `json:"id"`
	UA        string    `json:"ua"`
	IP        string    `json:"ip"`
	ExpiresAt time.Time `json:"expires_at"`
	Current   bool      `json:"current"`
	Created   time.Time `json:"created"`
}
