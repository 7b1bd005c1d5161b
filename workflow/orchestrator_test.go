package workflow

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nonso-e/contestbk-go/errors"
	"github.com/nonso-e/contestbk-go/models"
	"github.com/nonso-e/contestbk-go/types/responses"
)

func newOrchestrator(client Client) *Orchestrator {
	return NewOrchestrator(client, 1, zap.NewNop())
}

func TestStartWithdrawalEligibilityGate(t *testing.T) {
	t.Run("balance below minimum", func(t *testing.T) {
		client := newFakeClient()
		client.snapshotFn = func(context.Context) (*responses.AccountSnapshotResponseData, error) {
			return &responses.AccountSnapshotResponseData{Balance: 0.5, CountdownActive: true}, nil
		}
		client.createPreviewFn = func(context.Context, string, *models.MethodDetails, string) (*responses.CreateWithdrawalPreviewResponseData, error) {
			return nil, errors.NewIneligibleError("balance is below the withdrawable minimum")
		}

		decision := newOrchestrator(client).StartWithdrawal(context.Background(), "crypto", nil, "US")

		require.True(t, decision.Failed())
		assert.Equal(t, errors.ErrIneligible, decision.Err.Type)
	})

	t.Run("countdown inactive", func(t *testing.T) {
		client := newFakeClient()
		client.snapshotFn = func(context.Context) (*responses.AccountSnapshotResponseData, error) {
			return &responses.AccountSnapshotResponseData{Balance: 5000, CountdownActive: false}, nil
		}
		client.createPreviewFn = func(context.Context, string, *models.MethodDetails, string) (*responses.CreateWithdrawalPreviewResponseData, error) {
			return nil, errors.NewIneligibleError("your withdrawal window is not active")
		}

		decision := newOrchestrator(client).StartWithdrawal(context.Background(), "crypto", nil, "US")

		require.True(t, decision.Failed())
		assert.Equal(t, errors.ErrIneligible, decision.Err.Type)
	})
}

// A lapsed countdown blocks new withdrawals but never an in-progress one:
// the backend still reports the existing withdrawal and the user resumes at
// its authoritative stage.
func TestStartWithdrawalResumesAfterWindowLapse(t *testing.T) {
	client := newFakeClient()
	client.snapshotFn = func(context.Context) (*responses.AccountSnapshotResponseData, error) {
		return &responses.AccountSnapshotResponseData{Balance: 5000, CountdownActive: false}, nil
	}
	client.createPreviewFn = func(context.Context, string, *models.MethodDetails, string) (*responses.CreateWithdrawalPreviewResponseData, error) {
		stage := models.Insurance_Stage
		return &responses.CreateWithdrawalPreviewResponseData{
			WithdrawalID: "wd_lapsed",
			Existing:     true,
			Stage:        &stage,
		}, nil
	}

	decision := newOrchestrator(client).StartWithdrawal(context.Background(), "crypto", nil, "US")

	require.False(t, decision.Failed())
	assert.Equal(t, Stage_Screen, decision.Screen)
	assert.Equal(t, "wd_lapsed", decision.WithdrawalID)
	assert.Equal(t, models.Insurance_Stage, decision.Stage)
}

func TestStartWithdrawalResumesExisting(t *testing.T) {
	serverAmount := 62.5
	client := newFakeClient()
	client.createPreviewFn = func(context.Context, string, *models.MethodDetails, string) (*responses.CreateWithdrawalPreviewResponseData, error) {
		stage := models.Tax_Stage
		return &responses.CreateWithdrawalPreviewResponseData{
			WithdrawalID: "wd_existing",
			Existing:     true,
			Stage:        &stage,
			Amount:       &serverAmount,
		}, nil
	}

	decision := newOrchestrator(client).StartWithdrawal(context.Background(), "crypto", nil, "US")

	require.False(t, decision.Failed())
	assert.Equal(t, Stage_Screen, decision.Screen)
	assert.Equal(t, "wd_existing", decision.WithdrawalID)
	assert.Equal(t, models.Tax_Stage, decision.Stage)
	// the server amount wins over the locally derived 1% estimate
	require.NotNil(t, decision.Amount)
	assert.Equal(t, 62.5, *decision.Amount)
}

func TestStartWithdrawalIdempotentPreview(t *testing.T) {
	client := newFakeClient()
	created := false
	client.createPreviewFn = func(context.Context, string, *models.MethodDetails, string) (*responses.CreateWithdrawalPreviewResponseData, error) {
		if !created {
			created = true
			return &responses.CreateWithdrawalPreviewResponseData{
				WithdrawalID: "wd_1",
				Preview:      &responses.WithdrawalPreviewData{Amount: 5000, Method: "crypto"},
			}, nil
		}
		stage := models.Preview_Stage
		return &responses.CreateWithdrawalPreviewResponseData{WithdrawalID: "wd_1", Existing: true, Stage: &stage}, nil
	}

	orchestrator := newOrchestrator(client)
	first := orchestrator.StartWithdrawal(context.Background(), "crypto", nil, "US")
	second := orchestrator.StartWithdrawal(context.Background(), "crypto", nil, "US")

	require.False(t, first.Failed())
	require.False(t, second.Failed())
	assert.Equal(t, first.WithdrawalID, second.WithdrawalID)
}

func TestAcknowledgePreview(t *testing.T) {
	t.Run("refuses unacknowledged preview", func(t *testing.T) {
		client := newFakeClient()

		decision := newOrchestrator(client).AcknowledgePreview(context.Background(), "wd_1", false)

		require.True(t, decision.Failed())
		assert.Equal(t, errors.ErrValidation, decision.Err.Type)
		assert.True(t, decision.Retry)
		assert.Equal(t, 0, client.calls["Proceed"])
	})

	t.Run("advances to activation", func(t *testing.T) {
		client := newFakeClient()

		orchestrator := newOrchestrator(client)
		orchestrator.Navigate("wd_1", models.Preview_Stage)
		decision := orchestrator.AcknowledgePreview(context.Background(), "wd_1", true)

		require.False(t, decision.Failed())
		assert.Equal(t, Stage_Screen, decision.Screen)
		assert.Equal(t, models.Activation_Stage, decision.Stage)
	})
}

func TestSubmitEvidence(t *testing.T) {
	t.Run("parks the stage awaiting its code", func(t *testing.T) {
		client := newFakeClient()
		orchestrator := newOrchestrator(client)
		orchestrator.Navigate("wd_1", models.Activation_Stage)

		form := &EvidenceForm{
			WithdrawalID: "wd_1",
			Stage:        models.Activation_Stage,
			Cards:        []Card{{Type: "Steam", Pin: "XJ4K-99", ImageName: "receipt.jpg", Image: strings.NewReader("img")}},
		}
		decision := orchestrator.SubmitEvidence(context.Background(), form)

		require.False(t, decision.Failed())
		assert.Equal(t, Stage_Screen, decision.Screen)
		assert.True(t, decision.AwaitingCode)
		assert.Equal(t, models.Activation_Stage, decision.Stage)
	})

	t.Run("partial card never reaches the network", func(t *testing.T) {
		client := newFakeClient()
		orchestrator := newOrchestrator(client)
		orchestrator.Navigate("wd_1", models.Activation_Stage)

		form := &EvidenceForm{
			WithdrawalID: "wd_1",
			Stage:        models.Activation_Stage,
			Cards:        []Card{{Type: "Steam", Pin: "XJ4K-99"}}, // no image
		}
		decision := orchestrator.SubmitEvidence(context.Background(), form)

		require.True(t, decision.Failed())
		assert.Equal(t, errors.ErrValidation, decision.Err.Type)
		assert.True(t, decision.Retry)
		assert.Equal(t, 0, client.calls["SubmitEvidence"])
	})
}

func TestConfirmCode(t *testing.T) {
	t.Run("advances to the server supplied next stage with its amount", func(t *testing.T) {
		client := newFakeClient()
		client.confirmFn = func(context.Context, string, models.Stage, string) (*responses.ConfirmCodeResponseData, error) {
			next := models.Tax_Stage
			return &responses.ConfirmCodeResponseData{Success: true, NextStage: &next}, nil
		}

		orchestrator := newOrchestrator(client)
		orchestrator.Navigate("wd_1", models.Activation_Stage)

		form := &CodeForm{WithdrawalID: "wd_1", Stage: models.Activation_Stage}
		form.Input("1234")
		decision := orchestrator.ConfirmCode(context.Background(), form)

		require.False(t, decision.Failed())
		assert.Equal(t, Stage_Screen, decision.Screen)
		assert.Equal(t, models.Tax_Stage, decision.Stage)
		// no authoritative amount came back, so the 1% estimate of the $5000
		// balance fills in for display
		require.NotNil(t, decision.Amount)
		assert.Equal(t, 50.00, *decision.Amount)
	})

	t.Run("success with no next stage means access", func(t *testing.T) {
		client := newFakeClient()
		client.confirmFn = func(context.Context, string, models.Stage, string) (*responses.ConfirmCodeResponseData, error) {
			return &responses.ConfirmCodeResponseData{Success: true}, nil
		}

		orchestrator := newOrchestrator(client)
		orchestrator.Navigate("wd_1", models.Security_Stage)

		form := &CodeForm{WithdrawalID: "wd_1", Stage: models.Security_Stage}
		form.Input("1234")
		decision := orchestrator.ConfirmCode(context.Background(), form)

		require.False(t, decision.Failed())
		assert.Equal(t, Access_Screen, decision.Screen)
		assert.Equal(t, models.Access_Stage, decision.Stage)
	})

	t.Run("no pin set redirects to notifications without advancing", func(t *testing.T) {
		client := newFakeClient()
		client.confirmFn = func(_ context.Context, _ string, stage models.Stage, _ string) (*responses.ConfirmCodeResponseData, error) {
			return nil, errors.NewNoPinSetError(stage.String())
		}

		orchestrator := newOrchestrator(client)
		orchestrator.Navigate("wd_1", models.Insurance_Stage)

		form := &CodeForm{WithdrawalID: "wd_1", Stage: models.Insurance_Stage}
		form.Input("1234")
		decision := orchestrator.ConfirmCode(context.Background(), form)

		require.True(t, decision.Failed())
		assert.Equal(t, errors.ErrNoPinSet, decision.Err.Type)
		assert.Equal(t, Notifications_Screen, decision.Screen)
		assert.Equal(t, models.Insurance_Stage, decision.Stage)
	})

	t.Run("incorrect code re-prompts in place", func(t *testing.T) {
		client := newFakeClient()
		client.confirmFn = func(_ context.Context, _ string, stage models.Stage, _ string) (*responses.ConfirmCodeResponseData, error) {
			return nil, errors.NewIncorrectCodeError(stage.String())
		}

		orchestrator := newOrchestrator(client)
		orchestrator.Navigate("wd_1", models.Tax_Stage)

		form := &CodeForm{WithdrawalID: "wd_1", Stage: models.Tax_Stage}
		form.Input("9999")
		decision := orchestrator.ConfirmCode(context.Background(), form)

		require.True(t, decision.Failed())
		assert.Equal(t, errors.ErrIncorrectCode, decision.Err.Type)
		assert.True(t, decision.Retry)
		assert.Equal(t, models.Tax_Stage, decision.Stage)
	})

	t.Run("late response for an abandoned screen is a no-op", func(t *testing.T) {
		client := newFakeClient()
		orchestrator := newOrchestrator(client)
		orchestrator.Navigate("wd_1", models.Activation_Stage)

		client.confirmFn = func(context.Context, string, models.Stage, string) (*responses.ConfirmCodeResponseData, error) {
			// the user navigates elsewhere while the request is in flight
			orchestrator.Navigate("wd_1", models.Preview_Stage)
			return &responses.ConfirmCodeResponseData{Success: true}, nil
		}

		form := &CodeForm{WithdrawalID: "wd_1", Stage: models.Activation_Stage}
		form.Input("1234")
		decision := orchestrator.ConfirmCode(context.Background(), form)

		assert.Equal(t, None_Screen, decision.Screen)
	})
}

// TestWithdrawalWalkthrough drives a $5000 balance through preview,
// activation evidence and code confirmation into the tax stage.
func TestWithdrawalWalkthrough(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	client.createPreviewFn = func(context.Context, string, *models.MethodDetails, string) (*responses.CreateWithdrawalPreviewResponseData, error) {
		return &responses.CreateWithdrawalPreviewResponseData{
			WithdrawalID: "wd_e2e",
			Preview:      &responses.WithdrawalPreviewData{Amount: 5000, Method: "crypto"},
		}, nil
	}
	client.confirmFn = func(context.Context, string, models.Stage, string) (*responses.ConfirmCodeResponseData, error) {
		next := models.Tax_Stage
		return &responses.ConfirmCodeResponseData{Success: true, NextStage: &next}, nil
	}

	orchestrator := newOrchestrator(client)

	decision := orchestrator.StartWithdrawal(ctx, "crypto", &models.MethodDetails{}, "US")
	require.False(t, decision.Failed())
	require.Equal(t, Preview_Screen, decision.Screen)

	decision = orchestrator.AcknowledgePreview(ctx, decision.WithdrawalID, true)
	require.False(t, decision.Failed())
	require.Equal(t, models.Activation_Stage, decision.Stage)

	form := &EvidenceForm{
		WithdrawalID: decision.WithdrawalID,
		Stage:        decision.Stage,
		Cards:        []Card{{Type: "Steam", Pin: "AB12-CD34", ImageName: "card.jpg", Image: strings.NewReader("img")}},
	}
	decision = orchestrator.SubmitEvidence(ctx, form)
	require.False(t, decision.Failed())
	require.True(t, decision.AwaitingCode)

	codeForm := &CodeForm{WithdrawalID: form.WithdrawalID, Stage: form.Stage}
	codeForm.Input("4321")
	decision = orchestrator.ConfirmCode(ctx, codeForm)
	require.False(t, decision.Failed())
	assert.Equal(t, models.Tax_Stage, decision.Stage)
	require.NotNil(t, decision.Amount)
	assert.Equal(t, 50.00, *decision.Amount)
}
