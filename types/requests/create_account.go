package requests

type CreateAccountRequest struct {
	DisplayName string `json:"display_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Country     string `json:"country" validate:"required"`
	CallbackURL string `json:"callback_url" validate:"omitempty,url"`
}
