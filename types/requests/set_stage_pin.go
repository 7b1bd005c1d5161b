package requests

type SetStagePinRequest struct {
	UserID       string `uri:"user_id" validate:"required"`
	WithdrawalID string `json:"withdrawalId" validate:"required"`
	Stage        string `json:"stage" validate:"required,oneof=activation tax insurance verification security"`
	Pin          string `json:"pin" validate:"required,len=4,numeric"`
}
