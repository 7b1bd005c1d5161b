package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nonso-e/contestbk-go/errors"
	"github.com/nonso-e/contestbk-go/models"
	"github.com/nonso-e/contestbk-go/types/responses"
)

func TestResolveRedirectsToAuthoritativeStage(t *testing.T) {
	serverAmount := 62.5
	client := newFakeClient()
	client.stateFn = func(_ context.Context, withdrawalID string) (*responses.WithdrawalStateResponseData, error) {
		return &responses.WithdrawalStateResponseData{
			WithdrawalID: withdrawalID,
			Stage:        models.Tax_Stage,
			Amount:       &serverAmount,
		}, nil
	}

	resolver := NewResolver(client, zap.NewNop())
	decision := resolver.Resolve(context.Background(), "wd_1", models.Activation_Stage)

	require.False(t, decision.Failed())
	assert.Equal(t, Stage_Screen, decision.Screen)
	assert.Equal(t, models.Tax_Stage, decision.Stage)
	require.NotNil(t, decision.Amount)
	assert.Equal(t, 62.5, *decision.Amount)
}

func TestResolveWithoutWithdrawal(t *testing.T) {
	t.Run("missing identifier recovers at the preview step", func(t *testing.T) {
		client := newFakeClient()

		decision := NewResolver(client, zap.NewNop()).Resolve(context.Background(), "", models.Tax_Stage)

		require.True(t, decision.Failed())
		assert.Equal(t, errors.ErrMissingContext, decision.Err.Type)
		assert.Equal(t, Preview_Screen, decision.Screen)
		assert.Equal(t, 0, client.calls["GetState"])
	})

	t.Run("unknown identifier recovers at the preview step", func(t *testing.T) {
		client := newFakeClient() // default GetState returns not found

		decision := NewResolver(client, zap.NewNop()).Resolve(context.Background(), "wd_gone", models.Tax_Stage)

		require.True(t, decision.Failed())
		assert.Equal(t, Preview_Screen, decision.Screen)
	})
}

func TestResolveIsIdempotent(t *testing.T) {
	client := newFakeClient()
	client.stateFn = func(_ context.Context, withdrawalID string) (*responses.WithdrawalStateResponseData, error) {
		return &responses.WithdrawalStateResponseData{WithdrawalID: withdrawalID, Stage: models.Security_Stage, AwaitingCode: true}, nil
	}

	resolver := NewResolver(client, zap.NewNop())
	first := resolver.Resolve(context.Background(), "wd_1", models.Activation_Stage)
	second := resolver.Resolve(context.Background(), "wd_1", models.Activation_Stage)

	assert.Equal(t, first, second)
}

// A failed code confirmation must leave the authoritative stage untouched;
// the next resolve sees the same stage as before the attempt.
func TestResolveAfterFailedConfirm(t *testing.T) {
	client := newFakeClient()
	client.stateFn = func(_ context.Context, withdrawalID string) (*responses.WithdrawalStateResponseData, error) {
		return &responses.WithdrawalStateResponseData{WithdrawalID: withdrawalID, Stage: models.Insurance_Stage, AwaitingCode: true}, nil
	}
	client.confirmFn = func(_ context.Context, _ string, stage models.Stage, _ string) (*responses.ConfirmCodeResponseData, error) {
		return nil, errors.NewIncorrectCodeError(stage.String())
	}

	resolver := NewResolver(client, zap.NewNop())
	before := resolver.Resolve(context.Background(), "wd_1", models.Insurance_Stage)

	orchestrator := newOrchestrator(client)
	orchestrator.Navigate("wd_1", models.Insurance_Stage)
	form := &CodeForm{WithdrawalID: "wd_1", Stage: models.Insurance_Stage}
	form.Input("0000")
	failed := orchestrator.ConfirmCode(context.Background(), form)
	require.True(t, failed.Failed())

	after := resolver.Resolve(context.Background(), "wd_1", models.Insurance_Stage)
	assert.Equal(t, before.Stage, after.Stage)
}
