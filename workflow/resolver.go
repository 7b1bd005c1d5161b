package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/nonso-e/contestbk-go/errors"
	"github.com/nonso-e/contestbk-go/models"
)

// Resolver reconciles where the user navigated with where the server says
// the withdrawal actually is. It holds no state of its own, so resolving
// twice with no intervening change yields the same decision both times.
type Resolver struct {
	client Client
	log    *zap.Logger
}

func NewResolver(client Client, log *zap.Logger) *Resolver {
	return &Resolver{client: client, log: log}
}

// Resolve fetches the authoritative {withdrawalId, stage, amount} tuple and
// decides whether the intended screen may render or a redirect is due. A
// missing withdrawal never fabricates an identity; it points the user back
// at the preview step.
func (r *Resolver) Resolve(ctx context.Context, withdrawalID string, intended models.Stage) *Decision {
	if withdrawalID == "" {
		return classifyFailure(
			errors.NewMissingContextError("this screen needs a withdrawal in progress"),
			"", intended,
		)
	}

	state, err := r.client.GetState(ctx, withdrawalID)
	if err != nil {
		return classifyFailure(err, withdrawalID, intended)
	}

	if state.Stage != intended {
		r.log.Info("redirecting to authoritative stage",
			zap.String("withdrawal_id", withdrawalID),
			zap.Stringer("intended", intended),
			zap.Stringer("authoritative", state.Stage),
		)
	}

	return &Decision{
		Screen:       screenFor(state.Stage),
		WithdrawalID: state.WithdrawalID,
		Stage:        state.Stage,
		Amount:       state.Amount,
		AwaitingCode: state.AwaitingCode,
	}
}
