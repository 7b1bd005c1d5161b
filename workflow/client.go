// Package workflow drives a withdrawal through its staged verification
// graph. The server owns all stage state; this package only reconciles with
// it (Resolver), decides what to do after each response (Orchestrator) and
// packages user input into submissions (EvidenceForm, CodeForm).
package workflow

import (
	"context"
	"io"

	"github.com/nonso-e/contestbk-go/models"
	"github.com/nonso-e/contestbk-go/types/responses"
)

// Client is the request/response contract to the authoritative backend. It
// is stateless; every call re-derives truth from the server.
type Client interface {
	CreatePreview(ctx context.Context, method string, details *models.MethodDetails, country string) (*responses.CreateWithdrawalPreviewResponseData, error)
	Proceed(ctx context.Context, withdrawalID string, acknowledged bool) (*responses.WithdrawalStateResponseData, error)
	SubmitEvidence(ctx context.Context, submission *EvidenceSubmission) (*responses.SubmitEvidenceResponseData, error)
	ConfirmCode(ctx context.Context, withdrawalID string, stage models.Stage, code string) (*responses.ConfirmCodeResponseData, error)
	GetState(ctx context.Context, withdrawalID string) (*responses.WithdrawalStateResponseData, error)
	GetAccountSnapshot(ctx context.Context) (*responses.AccountSnapshotResponseData, error)
}

// Card is one credential pair of an evidence submission. A card is complete
// only when both the pin and the image are present.
type Card struct {
	Type      string
	Pin       string
	ImageName string
	ImageSize int64
	Image     io.Reader
}

// Blank reports whether the card carries no input at all. Blank cards are
// dropped before submission rather than rejected.
func (c Card) Blank() bool {
	return c.Pin == "" && c.ImageName == "" && c.Image == nil
}

// Complete reports whether both halves of the credential pair are present.
func (c Card) Complete() bool {
	return c.Pin != "" && (c.ImageName != "" || c.Image != nil)
}

// EvidenceSubmission is an immutable package of fully-paired cards for one
// (withdrawal, stage). Amount is informational; the server never trusts it.
type EvidenceSubmission struct {
	WithdrawalID string
	Stage        models.Stage
	Amount       float64
	Cards        []Card
}
