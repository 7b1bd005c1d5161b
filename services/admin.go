package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	tdb "github.com/tigerbeetle/tigerbeetle-go"
	tdb_types "github.com/tigerbeetle/tigerbeetle-go/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nonso-e/contestbk-go/config"
	"github.com/nonso-e/contestbk-go/errors"
	"github.com/nonso-e/contestbk-go/models"
	"github.com/nonso-e/contestbk-go/types/requests"
	"github.com/nonso-e/contestbk-go/types/responses"
	"github.com/nonso-e/contestbk-go/utils"
)

// AdminService carries the operator side of the workflow: issuing stage
// codes, crediting contest balances and releasing withdrawals that reached
// access.
type AdminService interface {
	SetStagePin(ctx context.Context, req *requests.SetStagePinRequest) error
	CreditAccount(ctx context.Context, req *requests.CreditAccountRequest) (*responses.Response[*responses.AccountSnapshotResponseData], error)
	ApproveWithdrawal(ctx context.Context, req *requests.ApproveWithdrawalRequest) error
	FetchWithdrawals(ctx context.Context) (*responses.Response[[]*models.Withdrawal], error)
}

func NewAdminService(txDatabase tdb.Client, dataDatabase *sql.DB, accountService AccountService, notificationService NotificationService, webhookService WebhookService, schedulerService SchedulerService, log *zap.Logger) AdminService {
	return &adminService{
		service: service{
			transactionDB:       txDatabase,
			dataDB:              dataDatabase,
			accountService:      accountService,
			notificationService: notificationService,
			webhookService:      webhookService,
			schedulerService:    schedulerService,
			log:                 log,
		},
	}
}

type adminService struct {
	service
}

func (a *adminService) SetStagePin(ctx context.Context, req *requests.SetStagePinRequest) error {
	stage, err := models.ParseStage(req.Stage)
	if err != nil {
		return err
	}

	var withdrawalID string
	err = sq.
		Select("id").
		From("withdrawals").
		Where(sq.Eq{"id": req.WithdrawalID, "account_id": req.UserID}).
		RunWith(a.dataDB).
		QueryRowContext(ctx).
		Scan(&withdrawalID)
	if err != nil {
		return errors.HandleDataDBError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Pin), bcrypt.DefaultCost)
	if err != nil {
		return errors.NewFatalError(err)
	}

	_, err = sq.
		Replace("stage_pins").
		Columns("withdrawal_id", "stage", "pin_hash", "created_at").
		Values(withdrawalID, stage.String(), string(hash), time.Now()).
		RunWith(a.dataDB).
		ExecContext(ctx)
	if err != nil {
		return errors.HandleDataDBError(err)
	}

	// the notification list is the out-of-band channel codes arrive on
	return a.notificationService.Notify(ctx, req.UserID,
		fmt.Sprintf("Your %s confirmation code is %s", stage, req.Pin))
}

func (a *adminService) CreditAccount(ctx context.Context, req *requests.CreditAccountRequest) (*responses.Response[*responses.AccountSnapshotResponseData], error) {
	account, err := a.accountService.FetchAccountDetails(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	ledgerAccount, err := a.lookupLedgerAccount(account.ID)
	if err != nil {
		return nil, err
	}

	res, err := a.transactionDB.CreateTransfers([]tdb_types.Transfer{{
		ID:              tdb_types.ID(),
		DebitAccountID:  tdb_types.ToUint128(TreasuryAccountID),
		CreditAccountID: ledgerAccount.ID,
		Amount:          utils.ToAmount(float64(req.Amount)),
		Ledger:          UsdLedger,
		UserData128:     ledgerAccount.UserData128,
		Code:            creditTransferCode,
	}})
	if err != nil {
		return nil, errors.HandleTxDBError(err)
	}
	if len(res) > 0 {
		return nil, errors.NewUnknownError(res[0].Result.String())
	}

	endsAt := time.Now().Add(config.COUNTDOWN_DURATION)
	_, err = sq.
		Update("accounts").
		Set("timer_active", true).
		Set("countdown_ends_at", endsAt).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": account.ID}).
		RunWith(a.dataDB).
		ExecContext(ctx)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	account.TimerActive = true
	account.CountdownEndsAt = &endsAt
	a.schedulerService.ScheduleCountdownExpiry(account)

	go a.notificationService.Notify(context.Background(), account.ID,
		fmt.Sprintf("You have been credited $%.2f. Your withdrawal window closes at %s.", float64(req.Amount), endsAt.Format(time.RFC1123)))

	balance, err := a.accountService.LookupBalance(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	data := &responses.AccountSnapshotResponseData{
		Username:        account.DisplayName,
		Country:         account.Country,
		Balance:         balance,
		CountdownActive: true,
		CountdownEndsAt: &endsAt,
	}
	go a.webhookService.SendAccountCreditedEvent(account, data)

	return &responses.Response[*responses.AccountSnapshotResponseData]{
		Status: "successful",
		Data:   data,
	}, nil
}

func (a *adminService) ApproveWithdrawal(ctx context.Context, req *requests.ApproveWithdrawalRequest) error {
	var accountID, stage string
	var amount float64
	err := sq.
		Select("account_id", "stage", "amount").
		From("withdrawals").
		Where(sq.Eq{"id": req.WithdrawalID, "done_at": nil}).
		RunWith(a.dataDB).
		QueryRowContext(ctx).
		Scan(&accountID, &stage, &amount)
	if err != nil {
		return errors.HandleDataDBError(err)
	}
	if stage != models.Access_Stage.String() {
		return errors.NewValidationError("withdrawal has not reached the access stage")
	}

	ledgerAccount, err := a.lookupLedgerAccount(accountID)
	if err != nil {
		return err
	}

	res, err := a.transactionDB.CreateTransfers([]tdb_types.Transfer{{
		ID:              tdb_types.ID(),
		DebitAccountID:  ledgerAccount.ID,
		CreditAccountID: tdb_types.ToUint128(TreasuryAccountID),
		Amount:          utils.ToAmount(amount),
		Ledger:          UsdLedger,
		UserData128:     ledgerAccount.UserData128,
		Code:            releaseTransferCode,
	}})
	if err != nil {
		return errors.HandleTxDBError(err)
	}
	for _, r := range res {
		if r.Result == tdb_types.TransferExceedsCredits {
			return errors.NewFailedDependencyError("Insufficient Balance")
		}
	}
	if len(res) > 0 {
		return errors.NewUnknownError(res[0].Result.String())
	}

	now := time.Now()
	_, err = sq.
		Update("withdrawals").
		Set("done_at", now).
		Set("updated_at", now).
		Where(sq.Eq{"id": req.WithdrawalID}).
		RunWith(a.dataDB).
		ExecContext(ctx)
	if err != nil {
		return errors.HandleDataDBError(err)
	}

	// the release ends the account's withdrawal window; its parked expiry
	// task has nothing left to do
	a.schedulerService.DropTask(accountID)

	account, err := a.accountService.FetchAccountDetails(ctx, accountID)
	if err != nil {
		return err
	}
	go a.webhookService.SendWithdrawalReleasedEvent(account, &responses.WithdrawalStateResponseData{
		WithdrawalID: req.WithdrawalID,
		Stage:        models.Access_Stage,
	})
	go a.notificationService.Notify(context.Background(), accountID,
		fmt.Sprintf("Your withdrawal of $%.2f has been released.", amount))

	return nil
}

func (a *adminService) FetchWithdrawals(ctx context.Context) (*responses.Response[[]*models.Withdrawal], error) {
	rows, err := sq.
		Select("id", "account_id", "ref", "method", "amount", "stage", "awaiting_code", "created_at", "updated_at", "done_at").
		From("withdrawals").
		OrderBy("created_at desc").
		RunWith(a.dataDB).
		QueryContext(ctx)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	withdrawals := make([]*models.Withdrawal, 0)
	for rows.Next() {
		withdrawal := &models.Withdrawal{}
		var stage string
		err = rows.Scan(&withdrawal.ID, &withdrawal.AccountID, &withdrawal.Ref, &withdrawal.Method,
			&withdrawal.Amount, &stage, &withdrawal.AwaitingCode, &withdrawal.CreatedAt, &withdrawal.UpdatedAt, &withdrawal.DoneAt)
		if err != nil {
			return nil, errors.HandleDataDBError(err)
		}
		if withdrawal.Stage, err = models.ParseStage(stage); err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, withdrawal)
	}

	return &responses.Response[[]*models.Withdrawal]{
		Status: "successful",
		Data:   withdrawals,
	}, nil
}

func (a *adminService) lookupLedgerAccount(accountID string) (*tdb_types.Account, error) {
	res, err := a.transactionDB.QueryAccounts(tdb_types.QueryFilter{
		UserData128: tdb_types.BytesToUint128(uuid.MustParse(accountID)),
		Ledger:      UsdLedger,
		Limit:       1,
	})
	if err != nil {
		return nil, errors.HandleTxDBError(err)
	}
	if len(res) == 0 {
		return nil, errors.NewNotFoundError("ledger account not found")
	}
	return &res[0], nil
}
