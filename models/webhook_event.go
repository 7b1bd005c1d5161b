package models

import "encoding/json"

type Webhook struct {
	Event WebhookEvent `json:"event"`
	Data  any          `json:"data"`
}

type WebhookEvent uint8

const (
	StageAdvanced_WebhookEvent WebhookEvent = iota + 1
	EvidenceSubmitted_WebhookEvent
	WithdrawalReleased_WebhookEvent
	AccountCredited_WebhookEvent
)

func (w WebhookEvent) String() string {
	switch w {
	case StageAdvanced_WebhookEvent:
		return "withdrawal.stage_advanced"
	case EvidenceSubmitted_WebhookEvent:
		return "withdrawal.evidence_submitted"
	case WithdrawalReleased_WebhookEvent:
		return "withdrawal.released"
	case AccountCredited_WebhookEvent:
		return "account.credited"
	default:
		panic("unreachable")
	}
}

func (w WebhookEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.String())
}
