package requests

type FetchWithdrawalStateRequest struct {
	WithdrawalID string `uri:"withdrawal_id" validate:"required"`
}
