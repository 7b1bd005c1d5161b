package models

import "time"

// EvidenceCard is one credential tuple submitted against a (withdrawal, stage)
// pair: a gift-card secret plus a corroborating image. Immutable once stored.
type EvidenceCard struct {
	ID           string     `json:"id"`
	WithdrawalID string     `json:"withdrawal_id"`
	Stage        Stage      `json:"stage"`
	CardType     string     `json:"card_type"`
	CardPin      string     `json:"-"`
	ImageRef     string     `json:"image_ref"`
	ImageSize    int64      `json:"image_size"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}
