package requests

type ProceedWithdrawalRequest struct {
	WithdrawalID string `uri:"withdrawal_id" validate:"required"`
	// Acknowledged is the explicit confirmation of the preview details. The
	// preview is never advanced without it.
	Acknowledged bool `json:"acknowledged"`
}
