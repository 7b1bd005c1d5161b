package responses

import "github.com/nonso-e/contestbk-go/models"

// WithdrawalPreviewData echoes back the frozen preview details for the user
// to acknowledge before the workflow starts.
type WithdrawalPreviewData struct {
	Amount  float64               `json:"amount"`
	Method  string                `json:"method"`
	Details *models.MethodDetails `json:"details"`
}

// CreateWithdrawalPreviewResponseData carries either a fresh preview or, when
// a non-terminal withdrawal already exists for the account, that withdrawal's
// identity and authoritative stage (idempotent resume).
type CreateWithdrawalPreviewResponseData struct {
	WithdrawalID string                 `json:"withdrawalId"`
	Existing     bool                   `json:"existing,omitempty"`
	Stage        *models.Stage          `json:"stage,omitempty"`
	Amount       *float64               `json:"amount,omitempty"`
	Preview      *WithdrawalPreviewData `json:"preview,omitempty"`
}

// WithdrawalStateResponseData is the authoritative resume tuple.
type WithdrawalStateResponseData struct {
	WithdrawalID string       `json:"withdrawalId"`
	Stage        models.Stage `json:"stage"`
	Amount       *float64     `json:"amount,omitempty"`
	AwaitingCode bool         `json:"awaitingCode"`
}

type SubmitEvidenceResponseData struct {
	WithdrawalID  string       `json:"withdrawalId"`
	Stage         models.Stage `json:"stage"`
	CardsAccepted int          `json:"cardsAccepted"`
	AwaitingCode  bool         `json:"awaitingCode"`
}

type ConfirmCodeResponseData struct {
	Success   bool          `json:"success"`
	NextStage *models.Stage `json:"nextStage,omitempty"`
	Amount    *float64      `json:"amount,omitempty"`
}
