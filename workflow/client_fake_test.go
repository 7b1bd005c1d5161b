package workflow

import (
	"context"

	"github.com/nonso-e/contestbk-go/errors"
	"github.com/nonso-e/contestbk-go/models"
	"github.com/nonso-e/contestbk-go/types/responses"
)

// fakeClient stands in for the backend. Each method delegates to its hook
// when set and counts calls either way, so tests can assert that a given
// operation never reached the network.
type fakeClient struct {
	createPreviewFn func(ctx context.Context, method string, details *models.MethodDetails, country string) (*responses.CreateWithdrawalPreviewResponseData, error)
	proceedFn       func(ctx context.Context, withdrawalID string, acknowledged bool) (*responses.WithdrawalStateResponseData, error)
	evidenceFn      func(ctx context.Context, submission *EvidenceSubmission) (*responses.SubmitEvidenceResponseData, error)
	confirmFn       func(ctx context.Context, withdrawalID string, stage models.Stage, code string) (*responses.ConfirmCodeResponseData, error)
	stateFn         func(ctx context.Context, withdrawalID string) (*responses.WithdrawalStateResponseData, error)
	snapshotFn      func(ctx context.Context) (*responses.AccountSnapshotResponseData, error)

	calls map[string]int
}

func newFakeClient() *fakeClient {
	return &fakeClient{calls: map[string]int{}}
}

func (f *fakeClient) CreatePreview(ctx context.Context, method string, details *models.MethodDetails, country string) (*responses.CreateWithdrawalPreviewResponseData, error) {
	f.calls["CreatePreview"]++
	if f.createPreviewFn == nil {
		return &responses.CreateWithdrawalPreviewResponseData{WithdrawalID: "wd_1"}, nil
	}
	return f.createPreviewFn(ctx, method, details, country)
}

func (f *fakeClient) Proceed(ctx context.Context, withdrawalID string, acknowledged bool) (*responses.WithdrawalStateResponseData, error) {
	f.calls["Proceed"]++
	if f.proceedFn == nil {
		return &responses.WithdrawalStateResponseData{WithdrawalID: withdrawalID, Stage: models.Activation_Stage}, nil
	}
	return f.proceedFn(ctx, withdrawalID, acknowledged)
}

func (f *fakeClient) SubmitEvidence(ctx context.Context, submission *EvidenceSubmission) (*responses.SubmitEvidenceResponseData, error) {
	f.calls["SubmitEvidence"]++
	if f.evidenceFn == nil {
		return &responses.SubmitEvidenceResponseData{
			WithdrawalID:  submission.WithdrawalID,
			Stage:         submission.Stage,
			CardsAccepted: len(submission.Cards),
			AwaitingCode:  true,
		}, nil
	}
	return f.evidenceFn(ctx, submission)
}

func (f *fakeClient) ConfirmCode(ctx context.Context, withdrawalID string, stage models.Stage, code string) (*responses.ConfirmCodeResponseData, error) {
	f.calls["ConfirmCode"]++
	if f.confirmFn == nil {
		return &responses.ConfirmCodeResponseData{Success: true}, nil
	}
	return f.confirmFn(ctx, withdrawalID, stage, code)
}

func (f *fakeClient) GetState(ctx context.Context, withdrawalID string) (*responses.WithdrawalStateResponseData, error) {
	f.calls["GetState"]++
	if f.stateFn == nil {
		return nil, errors.NewNotFoundError("resource not found")
	}
	return f.stateFn(ctx, withdrawalID)
}

func (f *fakeClient) GetAccountSnapshot(ctx context.Context) (*responses.AccountSnapshotResponseData, error) {
	f.calls["GetAccountSnapshot"]++
	if f.snapshotFn == nil {
		return &responses.AccountSnapshotResponseData{Balance: 5000, CountdownActive: true}, nil
	}
	return f.snapshotFn(ctx)
}
