package services

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lucsky/cuid"
	tdb "github.com/tigerbeetle/tigerbeetle-go"
	tdb_types "github.com/tigerbeetle/tigerbeetle-go/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nonso-e/contestbk-go/errors"
	"github.com/nonso-e/contestbk-go/models"
	"github.com/nonso-e/contestbk-go/types/requests"
	"github.com/nonso-e/contestbk-go/types/responses"
	"github.com/nonso-e/contestbk-go/utils"
)

type AccountService interface {
	CreateAccount(context.Context, *requests.CreateAccountRequest) (*responses.Response[*responses.CreateAccountResponseData], error)
	FetchAccountSnapshot(context.Context) (*responses.Response[*responses.AccountSnapshotResponseData], error)
	FetchAccountDetails(ctx context.Context, userID string) (*models.Account, error)
	GetAccountByAccessToken(context.Context, string) (*models.Account, error)

	LookupBalance(ctx context.Context, accountID string) (float64, error)
}

func NewAccountService(txDatabase tdb.Client, dataDatabase *sql.DB, log *zap.Logger) AccountService {
	a := &accountService{
		service{
			transactionDB: txDatabase,
			dataDB:        dataDatabase,
			log:           log,
		},
	}

	if err := a.initTreasuryAccount(); err != nil {
		panic(err)
	}

	return a
}

type accountService struct {
	service
}

func (a *accountService) initTreasuryAccount() error {
	res, err := a.transactionDB.CreateAccounts([]tdb_types.Account{{
		ID:     tdb_types.ToUint128(TreasuryAccountID),
		Ledger: UsdLedger,
		Code:   systemAccountCode,
		Flags:  tdb_types.AccountFlags{History: true}.ToUint16(),
	}})
	if err != nil {
		return err
	}
	for _, r := range res {
		switch r.Result {
		case tdb_types.AccountExists,
			tdb_types.AccountExistsWithDifferentFlags,
			tdb_types.AccountExistsWithDifferentUserData128,
			tdb_types.AccountExistsWithDifferentUserData64,
			tdb_types.AccountExistsWithDifferentUserData32,
			tdb_types.AccountExistsWithDifferentLedger,
			tdb_types.AccountExistsWithDifferentCode:
		default:
			return errors.NewFailedDependencyError(r.Result.String())
		}
	}

	return nil
}

func (a *accountService) CreateAccount(ctx context.Context, req *requests.CreateAccountRequest) (*responses.Response[*responses.CreateAccountResponseData], error) {
	now := time.Now()
	accountID := uuid.New()

	account := &models.Account{
		ID:          accountID.String(),
		SN:          cuid.New(),
		DisplayName: req.DisplayName,
		Email:       cases.Lower(language.English).String(req.Email),
		FirstName:   cases.Title(language.English).String(req.FirstName),
		LastName:    cases.Title(language.English).String(req.LastName),
		Country:     req.Country,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}

	tx, err := a.dataDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	// Defer a rollback in case anything fails.
	defer tx.Rollback()

	_, err = sq.
		Insert("accounts").
		Columns("id", "sn", "display_name", "email", "first_name", "last_name", "country", "timer_active", "is_admin", "created_at", "updated_at").
		Values(account.ID, account.SN, account.DisplayName, account.Email, account.FirstName, account.LastName, account.Country, false, false, now, now).
		RunWith(tx).
		ExecContext(ctx)

	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	if req.CallbackURL != "" {
		_, err = sq.
			Insert("webhook_details").
			Columns("id", "callback_url", "webhook_key").
			Values(account.ID, req.CallbackURL, cuid.New()).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return nil, errors.HandleDataDBError(err)
		}
	}

	accessToken := &models.AccessToken{
		ID:          uuid.NewString(),
		Name:        "Default Token",
		Description: "default token for user requests",
		AccountID:   account.ID,
		Token:       "pub_test_" + cuid.Slug(),
	}

	// * create user access token to authenticate requests
	_, err = sq.
		Insert("access_tokens").
		Columns("id", "name", "description", "account_id", "token").
		Values(accessToken.ID, accessToken.Name, accessToken.Description, accessToken.AccountID, accessToken.Token).
		RunWith(tx).
		ExecContext(ctx)

	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	// * create ledger account holding the contest balance
	txRes, err := a.transactionDB.CreateAccounts([]tdb_types.Account{{
		ID: tdb_types.ID(),
		Flags: tdb_types.AccountFlags{
			History:                    true,
			DebitsMustNotExceedCredits: true,
		}.ToUint16(),
		Ledger:      UsdLedger,
		Code:        userAccountCode,
		UserData128: tdb_types.BytesToUint128(accountID),
	}})
	if err != nil {
		return nil, errors.HandleTxDBError(err)
	}
	if len(txRes) > 0 {
		return nil, errors.NewUnknownError(txRes[0].Result.String())
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	return &responses.Response[*responses.CreateAccountResponseData]{
		Status:  "successful",
		Message: "Account Created successfully",
		Data: &responses.CreateAccountResponseData{
			User:  account,
			Token: accessToken,
		},
	}, nil
}

func (a *accountService) FetchAccountSnapshot(ctx context.Context) (*responses.Response[*responses.AccountSnapshotResponseData], error) {
	user, ok := ctx.Value("user").(*models.Account)
	if !ok {
		return nil, errors.NewAuthenticationError("account context missing")
	}

	account, err := a.FetchAccountDetails(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	balance, err := a.LookupBalance(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return &responses.Response[*responses.AccountSnapshotResponseData]{
		Status: "successful",
		Data: &responses.AccountSnapshotResponseData{
			Username:        account.DisplayName,
			Country:         account.Country,
			Balance:         balance,
			CountdownActive: account.CountdownActive(time.Now()),
			CountdownEndsAt: account.CountdownEndsAt,
		},
	}, nil
}

func (a *accountService) FetchAccountDetails(ctx context.Context, userID string) (*models.Account, error) {
	row := sq.
		Select("accounts.id", "sn", "display_name", "email", "first_name", "last_name", "country",
			"timer_active", "countdown_ends_at", "is_admin", "created_at", "updated_at",
			"webhook_details.callback_url", "webhook_details.webhook_key").
		From("accounts").
		LeftJoin("webhook_details on webhook_details.id = accounts.id").
		Where(sq.Eq{"accounts.id": userID}).
		Limit(1).
		RunWith(a.dataDB).
		QueryRowContext(ctx)

	var account = &models.Account{}
	err := row.Scan(&account.ID, &account.SN, &account.DisplayName, &account.Email, &account.FirstName,
		&account.LastName, &account.Country, &account.TimerActive, &account.CountdownEndsAt,
		&account.IsAdmin, &account.CreatedAt, &account.UpdatedAt,
		&account.WebhookDetails.CallbackURL, &account.WebhookDetails.WebhookKey)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	return account, nil
}

func (a *accountService) GetAccountByAccessToken(ctx context.Context, token string) (*models.Account, error) {
	row := sq.
		Select("accounts.id", "accounts.display_name", "accounts.email", "accounts.country",
			"accounts.timer_active", "accounts.countdown_ends_at", "accounts.is_admin",
			"webhook_details.callback_url", "webhook_details.webhook_key").
		From("access_tokens").
		Join("accounts on access_tokens.account_id = accounts.id").
		LeftJoin("webhook_details on webhook_details.id = accounts.id").
		Where(sq.Eq{"token": token}).
		RunWith(a.dataDB).
		QueryRowContext(ctx)

	var account = &models.Account{}
	err := row.Scan(&account.ID, &account.DisplayName, &account.Email, &account.Country,
		&account.TimerActive, &account.CountdownEndsAt, &account.IsAdmin,
		&account.WebhookDetails.CallbackURL, &account.WebhookDetails.WebhookKey)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	return account, nil
}

func (a *accountService) LookupBalance(ctx context.Context, accountID string) (float64, error) {
	res, err := a.transactionDB.QueryAccounts(tdb_types.QueryFilter{
		UserData128: tdb_types.BytesToUint128(uuid.MustParse(accountID)),
		Ledger:      UsdLedger,
		Limit:       1,
	})
	if err != nil {
		return 0, errors.HandleTxDBError(err)
	}
	if len(res) == 0 {
		return 0, errors.NewNotFoundError("ledger account not found")
	}

	credits := res[0].CreditsPosted.BigInt()
	debits := res[0].DebitsPosted.BigInt()
	pendingDebits := res[0].DebitsPending.BigInt()
	balance := credits.Sub(&credits, &debits)
	balance = balance.Sub(balance, &pendingDebits)

	return utils.ApproximateAmount(utils.FromAmount(tdb_types.BigIntToUint128(*balance))), nil
}
