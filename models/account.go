package models

import "time"

type Account struct {
	ID          string     `json:"id"`
	SN          string     `json:"sn,omitempty"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email,omitempty"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Country     string     `json:"country"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`

	// CountdownEndsAt bounds the withdrawal window; withdrawals are only
	// eligible while the timer is on and this is in the future.
	CountdownEndsAt *time.Time `json:"countdown_ends_at,omitempty"`

	// internal fields
	IsAdmin        bool `json:"-"`
	TimerActive    bool `json:"-"`
	WebhookDetails struct {
		CallbackURL *string `json:"-"`
		WebhookKey  *string `json:"-"`
	} `json:"-"`
}

// CountdownActive reports whether the withdrawal window is currently open.
func (a *Account) CountdownActive(now time.Time) bool {
	return a.TimerActive && a.CountdownEndsAt != nil && a.CountdownEndsAt.After(now)
}
