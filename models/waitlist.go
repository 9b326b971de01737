package models

import "time"

type WaitlistEntry struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Referral  string    `json:"referral,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
