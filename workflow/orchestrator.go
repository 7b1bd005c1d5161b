package workflow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nonso-e/contestbk-go/errors"
	"github.com/nonso-e/contestbk-go/models"
	"github.com/nonso-e/contestbk-go/stages"
	"github.com/nonso-e/contestbk-go/types/responses"
)

// Orchestrator owns the decision of what happens after each server
// response. The server holds the only authoritative stage; the orchestrator
// never advances a withdrawal locally, it only navigates on what came back.
type Orchestrator struct {
	client     Client
	minBalance float64
	log        *zap.Logger

	// nav is the withdrawal/stage the UI currently shows. Responses that
	// arrive for a different pair are dropped.
	nav struct {
		withdrawalID string
		stage        models.Stage
		active       bool
	}
}

func NewOrchestrator(client Client, minBalance float64, log *zap.Logger) *Orchestrator {
	return &Orchestrator{client: client, minBalance: minBalance, log: log}
}

// Navigate records where the UI is. Late responses for any other
// (withdrawal, stage) pair become no-ops from this point on.
func (o *Orchestrator) Navigate(withdrawalID string, stage models.Stage) {
	o.nav.withdrawalID = withdrawalID
	o.nav.stage = stage
	o.nav.active = true
}

func (o *Orchestrator) stale(withdrawalID string, stage models.Stage) bool {
	if !o.nav.active {
		return false
	}
	return o.nav.withdrawalID != withdrawalID || o.nav.stage != stage
}

// StartWithdrawal gates a new preview on the account's eligibility and
// creates it. An account with an in-progress withdrawal is resumed at its
// authoritative stage instead; evidence collection there is never skipped.
func (o *Orchestrator) StartWithdrawal(ctx context.Context, method string, details *models.MethodDetails, country string) *Decision {
	snapshot, err := o.client.GetAccountSnapshot(ctx)
	if err != nil {
		return classifyFailure(err, "", models.Preview_Stage)
	}

	var ineligible error
	switch {
	case snapshot.Balance < o.minBalance:
		ineligible = errors.NewIneligibleError("balance is below the withdrawable minimum")
	case !countdownActive(snapshot):
		ineligible = errors.NewIneligibleError("your withdrawal window is not active")
	}

	// An in-progress withdrawal resumes at its reported stage even when the
	// account could no longer start a fresh one, so the preview request is
	// made before an ineligible verdict is final.
	res, err := o.client.CreatePreview(ctx, method, details, country)
	if err != nil {
		if ineligible != nil {
			return classifyFailure(ineligible, "", models.Preview_Stage)
		}
		return classifyFailure(err, "", models.Preview_Stage)
	}

	if res.Existing && res.Stage != nil {
		stage := *res.Stage
		o.Navigate(res.WithdrawalID, stage)
		return &Decision{
			Screen:       screenFor(stage),
			WithdrawalID: res.WithdrawalID,
			Stage:        stage,
			Amount:       o.resolveAmount(ctx, stage, res.Amount),
		}
	}

	o.Navigate(res.WithdrawalID, models.Preview_Stage)
	decision := &Decision{
		Screen:       Preview_Screen,
		WithdrawalID: res.WithdrawalID,
		Stage:        models.Preview_Stage,
	}
	if res.Preview != nil {
		decision.Amount = &res.Preview.Amount
	}
	return decision
}

// AcknowledgePreview moves preview to activation. The transition is refused
// without the explicit acknowledgement flag.
func (o *Orchestrator) AcknowledgePreview(ctx context.Context, withdrawalID string, acknowledged bool) *Decision {
	if !acknowledged {
		return classifyFailure(
			errors.NewValidationError("confirm the withdrawal details to continue"),
			withdrawalID, models.Preview_Stage,
		)
	}

	state, err := o.client.Proceed(ctx, withdrawalID, acknowledged)
	if err != nil {
		return classifyFailure(err, withdrawalID, models.Preview_Stage)
	}
	if o.stale(withdrawalID, models.Preview_Stage) {
		return &Decision{Screen: None_Screen}
	}

	return o.stateDecision(ctx, state)
}

// SubmitEvidence sends the form's cards and parks the stage in its awaiting
// code view on success. The stage itself does not advance here.
func (o *Orchestrator) SubmitEvidence(ctx context.Context, form *EvidenceForm) *Decision {
	res, err := form.Submit(ctx, o.client)
	if err != nil {
		return classifyFailure(err, form.WithdrawalID, form.Stage)
	}
	if o.stale(form.WithdrawalID, form.Stage) {
		o.log.Info("dropping late evidence response", zap.String("withdrawal_id", form.WithdrawalID))
		return &Decision{Screen: None_Screen}
	}

	return &Decision{
		Screen:       Stage_Screen,
		WithdrawalID: res.WithdrawalID,
		Stage:        res.Stage,
		AwaitingCode: true,
	}
}

// ConfirmCode verifies the form's code. Success advances to the server
// supplied next stage; success with no next stage means access was reached.
// Failure never advances and is classified for re-prompt or redirect.
func (o *Orchestrator) ConfirmCode(ctx context.Context, form *CodeForm) *Decision {
	res, err := form.Submit(ctx, o.client)
	if err != nil {
		return classifyFailure(err, form.WithdrawalID, form.Stage)
	}
	if o.stale(form.WithdrawalID, form.Stage) {
		o.log.Info("dropping late confirmation response", zap.String("withdrawal_id", form.WithdrawalID))
		return &Decision{Screen: None_Screen}
	}

	next := models.Access_Stage
	if res.NextStage != nil {
		next = *res.NextStage
	}

	o.Navigate(form.WithdrawalID, next)
	return &Decision{
		Screen:       screenFor(next),
		WithdrawalID: form.WithdrawalID,
		Stage:        next,
		Amount:       o.resolveAmount(ctx, next, res.Amount),
	}
}

func (o *Orchestrator) stateDecision(ctx context.Context, state *responses.WithdrawalStateResponseData) *Decision {
	o.Navigate(state.WithdrawalID, state.Stage)
	return &Decision{
		Screen:       screenFor(state.Stage),
		WithdrawalID: state.WithdrawalID,
		Stage:        state.Stage,
		Amount:       o.resolveAmount(ctx, state.Stage, state.Amount),
		AwaitingCode: state.AwaitingCode,
	}
}

// resolveAmount prefers the server-supplied amount. The registry's derived
// estimate only fills display continuity when the server sent none.
func (o *Orchestrator) resolveAmount(ctx context.Context, stage models.Stage, authoritative *float64) *float64 {
	if authoritative != nil {
		return authoritative
	}

	info, ok := stages.Lookup(stage)
	if !ok || info.DerivedAmountRule == nil {
		return nil
	}

	snapshot, err := o.client.GetAccountSnapshot(ctx)
	if err != nil {
		o.log.Warn("estimating stage amount", zap.Error(err))
		return nil
	}
	estimate := info.DerivedAmountRule(snapshot.Balance)
	return &estimate
}

func countdownActive(snapshot *responses.AccountSnapshotResponseData) bool {
	if !snapshot.CountdownActive {
		return false
	}
	return snapshot.CountdownEndsAt == nil || snapshot.CountdownEndsAt.After(time.Now())
}
