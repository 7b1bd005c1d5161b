package requests

type ApproveWithdrawalRequest struct {
	WithdrawalID string `uri:"withdrawal_id" validate:"required"`
}
