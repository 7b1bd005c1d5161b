package workflow

import (
	"context"

	"github.com/nonso-e/contestbk-go/errors"
	"github.com/nonso-e/contestbk-go/models"
	"github.com/nonso-e/contestbk-go/types/responses"
)

// EvidenceForm collects one-or-many credential cards for a stage. Validation
// is atomic per card: a pin without an image (or an image without a pin) is
// rejected before any network call, so the server never stores a partial
// evidence package.
type EvidenceForm struct {
	WithdrawalID string
	Stage        models.Stage
	Amount       float64
	Cards        []Card
}

func (f *EvidenceForm) AddCard(card Card) {
	f.Cards = append(f.Cards, card)
}

// Validate checks the atomic-pairing rule over every non-blank card and
// requires at least one complete card overall.
func (f *EvidenceForm) Validate() error {
	if f.WithdrawalID == "" {
		return errors.NewMissingContextError("no withdrawal in progress")
	}

	complete := 0
	for _, card := range f.Cards {
		if card.Blank() {
			continue
		}
		if !card.Complete() {
			return errors.NewValidationError("each card needs both its pin and an image")
		}
		complete++
	}
	if complete == 0 {
		return errors.NewValidationError("at least one card with pin and image is required")
	}

	return nil
}

// Submit validates the form and packages every complete card into a single
// submission. On failure the form is left populated for retry.
func (f *EvidenceForm) Submit(ctx context.Context, client Client) (*responses.SubmitEvidenceResponseData, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	cards := make([]Card, 0, len(f.Cards))
	for _, card := range f.Cards {
		if card.Complete() {
			cards = append(cards, card)
		}
	}

	return client.SubmitEvidence(ctx, &EvidenceSubmission{
		WithdrawalID: f.WithdrawalID,
		Stage:        f.Stage,
		Amount:       f.Amount,
		Cards:        cards,
	})
}
