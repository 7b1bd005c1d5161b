package models

import "time"

// Notification is the out-of-band channel the operator uses to deliver stage
// codes and guidance. The workflow never reads codes out of it; it only sends
// users here.
type Notification struct {
	ID        string     `json:"id"`
	AccountID string     `json:"-"`
	Body      string     `json:"body"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
