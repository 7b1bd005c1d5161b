package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tdb "github.com/tigerbeetle/tigerbeetle-go"
	tdb_types "github.com/tigerbeetle/tigerbeetle-go/pkg/types"
	"go.uber.org/zap"

	"github.com/nonso-e/contestbk-go/models"
	"github.com/nonso-e/contestbk-go/types/requests"
	"github.com/nonso-e/contestbk-go/types/responses"
)

type stubLedger struct {
	tdb.Client
	accounts []tdb_types.Account
}

func (s *stubLedger) QueryAccounts(tdb_types.QueryFilter) ([]tdb_types.Account, error) {
	return s.accounts, nil
}

func (s *stubLedger) CreateTransfers([]tdb_types.Transfer) ([]tdb_types.TransferEventResult, error) {
	return nil, nil
}

type recordingScheduler struct {
	dropped []string
}

func (r *recordingScheduler) ScheduleCountdownExpiry(*models.Account) {}

func (r *recordingScheduler) DropTask(taskID string) {
	r.dropped = append(r.dropped, taskID)
}

type stubDirectory struct {
	AccountService
}

func (s *stubDirectory) FetchAccountDetails(_ context.Context, userID string) (*models.Account, error) {
	return &models.Account{ID: userID}, nil
}

type stubNotifier struct {
	NotificationService
}

func (s *stubNotifier) Notify(context.Context, string, string) error { return nil }

type stubWebhooks struct {
	WebhookService
}

func (s *stubWebhooks) SendWithdrawalReleasedEvent(*models.Account, *responses.WithdrawalStateResponseData) WebhookService {
	return s
}

func TestApproveWithdrawalDropsExpiryTask(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	accountID := uuid.NewString()
	ledger := &stubLedger{accounts: []tdb_types.Account{{
		ID:          tdb_types.ToUint128(7),
		UserData128: tdb_types.BytesToUint128(uuid.MustParse(accountID)),
		Ledger:      UsdLedger,
	}}}
	scheduler := &recordingScheduler{}
	svc := NewAdminService(ledger, db, &stubDirectory{}, &stubNotifier{}, &stubWebhooks{}, scheduler, zap.NewNop())

	withdrawalID := uuid.NewString()
	mock.ExpectQuery("SELECT account_id, stage, amount FROM withdrawals").
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "stage", "amount"}).
			AddRow(accountID, "access", 4950.0))
	mock.ExpectExec("UPDATE withdrawals").WillReturnResult(sqlmock.NewResult(0, 1))

	err = svc.ApproveWithdrawal(context.Background(), &requests.ApproveWithdrawalRequest{WithdrawalID: withdrawalID})
	require.NoError(t, err)

	// the release closed the withdrawal window, so the parked expiry task for
	// the account must be gone
	assert.Equal(t, []string{accountID}, scheduler.dropped)
	require.NoError(t, mock.ExpectationsWereMet())
}
