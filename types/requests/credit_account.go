package requests

import "github.com/nonso-e/contestbk-go/models"

type CreditAccountRequest struct {
	UserID string        `uri:"user_id" validate:"required"`
	Amount models.Double `json:"amount" validate:"required,gt=0"`
	Reason string        `json:"reason"`
}
