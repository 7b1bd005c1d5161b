package requests

import "github.com/nonso-e/contestbk-go/models"

type CreateWithdrawalPreviewRequest struct {
	Method  string                `json:"method" validate:"required,oneof=crypto bank"`
	Details *models.MethodDetails `json:"details" validate:"required"`
	Country string                `json:"country"`
}
