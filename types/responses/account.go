package responses

import (
	"time"

	"github.com/nonso-e/contestbk-go/models"
)

// AccountSnapshotResponseData is the eligibility view the workflow consumes:
// balance for the minimum/tax checks and the countdown window state.
type AccountSnapshotResponseData struct {
	Username        string     `json:"username"`
	Country         string     `json:"country"`
	Balance         float64    `json:"balance"`
	CountdownActive bool       `json:"countdownActive"`
	CountdownEndsAt *time.Time `json:"countdownEndsAt,omitempty"`
}

type CreateAccountResponseData struct {
	User  *models.Account     `json:"user"`
	Token *models.AccessToken `json:"token"`
}
