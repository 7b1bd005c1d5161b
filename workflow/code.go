package workflow

import (
	"context"
	"strings"

	"github.com/nonso-e/contestbk-go/errors"
	"github.com/nonso-e/contestbk-go/models"
	"github.com/nonso-e/contestbk-go/types/responses"
)

// CodeLength is the fixed length of operator-issued confirmation codes.
const CodeLength = 4

// NormalizeCode filters non-digit input and truncates to CodeLength, keeping
// the field well-formed as the user types rather than rejecting keystrokes.
func NormalizeCode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == CodeLength {
			break
		}
	}
	return b.String()
}

// CodeForm collects the confirmation code for one (withdrawal, stage). A
// failed submission is never retried automatically.
type CodeForm struct {
	WithdrawalID string
	Stage        models.Stage

	code string
}

// Input replaces the form's code with the normalized value of raw.
func (f *CodeForm) Input(raw string) {
	f.code = NormalizeCode(raw)
}

func (f *CodeForm) Code() string {
	return f.code
}

func (f *CodeForm) Validate() error {
	if f.WithdrawalID == "" {
		return errors.NewMissingContextError("no withdrawal in progress")
	}
	if len(f.code) != CodeLength {
		return errors.NewValidationError("confirmation code must be 4 digits")
	}
	return nil
}

// Submit sends the code for verification. The code is consumed either way;
// the caller clears or re-collects input based on the returned decision.
func (f *CodeForm) Submit(ctx context.Context, client Client) (*responses.ConfirmCodeResponseData, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return client.ConfirmCode(ctx, f.WithdrawalID, f.Stage, f.code)
}
