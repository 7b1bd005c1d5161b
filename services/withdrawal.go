package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lucsky/cuid"
	tdb "github.com/tigerbeetle/tigerbeetle-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nonso-e/contestbk-go/config"
	"github.com/nonso-e/contestbk-go/errors"
	"github.com/nonso-e/contestbk-go/models"
	"github.com/nonso-e/contestbk-go/stages"
	"github.com/nonso-e/contestbk-go/types/requests"
	"github.com/nonso-e/contestbk-go/types/responses"
	"github.com/nonso-e/contestbk-go/utils"
)

type WithdrawalService interface {
	CreatePreview(ctx context.Context, req *requests.CreateWithdrawalPreviewRequest) (*responses.Response[*responses.CreateWithdrawalPreviewResponseData], error)
	Proceed(ctx context.Context, req *requests.ProceedWithdrawalRequest) (*responses.Response[*responses.WithdrawalStateResponseData], error)
	FetchState(ctx context.Context, req *requests.FetchWithdrawalStateRequest) (*responses.Response[*responses.WithdrawalStateResponseData], error)
	SubmitEvidence(ctx context.Context, req *requests.SubmitEvidenceRequest) (*responses.Response[*responses.SubmitEvidenceResponseData], error)
	ConfirmStageCode(ctx context.Context, req *requests.ConfirmStageCodeRequest) (*responses.Response[*responses.ConfirmCodeResponseData], error)
}

func NewWithdrawalService(txDatabase tdb.Client, dataDatabase *sql.DB, accountService AccountService, notificationService NotificationService, webhookService WebhookService, log *zap.Logger) WithdrawalService {
	return &withdrawalService{
		service: service{
			transactionDB:       txDatabase,
			dataDB:              dataDatabase,
			accountService:      accountService,
			notificationService: notificationService,
			webhookService:      webhookService,
			log:                 log,
		},
	}
}

type withdrawalService struct {
	service
}

var (
	routingNumberPattern     = regexp.MustCompile(`^\d{9}$`)
	transitNumberPattern     = regexp.MustCompile(`^\d{5}$`)
	institutionNumberPattern = regexp.MustCompile(`^\d{3}$`)
)

func isUSA(country string) bool {
	switch strings.ToLower(country) {
	case "united states", "united states of america", "usa", "us":
		return true
	}
	return false
}

func isCanada(country string) bool {
	return strings.Contains(strings.ToLower(country), "canada")
}

func validateMethodDetails(method, country string, details *models.MethodDetails) error {
	switch method {
	case "crypto":
		if details.Crypto == nil || details.WalletAddress == nil {
			return errors.NewValidationError("crypto type and wallet address are required")
		}
	case "bank":
		switch {
		case isUSA(country):
			switch {
			case details.BankName == nil, details.BankAddress == nil, details.RoutingNumber == nil,
				details.BeneficiaryName == nil, details.AccountNumber == nil, details.AccountType == nil,
				details.BeneficiaryAddress == nil:
				return errors.NewValidationError("all bank fields are required")
			case !routingNumberPattern.MatchString(*details.RoutingNumber):
				return errors.NewValidationError("routing number must be 9 digits")
			case *details.AccountType != "checking" && *details.AccountType != "savings":
				return errors.NewValidationError("account type must be checking or savings")
			}
		case isCanada(country):
			switch {
			case details.TransitNumber == nil, details.InstitutionNumber == nil,
				details.AccountNumber == nil, details.BeneficiaryName == nil:
				return errors.NewValidationError("all bank fields are required")
			case !transitNumberPattern.MatchString(*details.TransitNumber):
				return errors.NewValidationError("transit number must be 5 digits")
			case !institutionNumberPattern.MatchString(*details.InstitutionNumber):
				return errors.NewValidationError("institution number must be 3 digits")
			}
		default:
			return errors.NewValidationError("bank transfer is not available for your country")
		}
	}
	return nil
}

func (w *withdrawalService) CreatePreview(ctx context.Context, req *requests.CreateWithdrawalPreviewRequest) (*responses.Response[*responses.CreateWithdrawalPreviewResponseData], error) {
	user := ctx.Value("user").(*models.Account)

	tx, err := w.dataDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	// Defer a rollback in case anything fails.
	defer tx.Rollback()

	// idempotent resume: a withdrawal already in progress is returned as-is,
	// never duplicated. The check and the insert share one transaction with
	// the row locked, so concurrent previews from two devices cannot both
	// create one.
	existing, err := w.fetchOpenWithdrawal(ctx, tx, user.ID)
	if err != nil && errors.AsAppError(err).Type != errors.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		if err = tx.Commit(); err != nil {
			return nil, errors.HandleDataDBError(err)
		}
		data := &responses.CreateWithdrawalPreviewResponseData{
			WithdrawalID: existing.ID,
			Existing:     true,
		}
		if existing.Stage == models.Preview_Stage {
			data.Preview = &responses.WithdrawalPreviewData{
				Amount:  existing.Amount,
				Method:  existing.Method,
				Details: existing.Details,
			}
		} else {
			stage := existing.Stage
			data.Stage = &stage
			if amount, err := w.stageAmount(ctx, user.ID, stage); err == nil && amount != nil {
				data.Amount = amount
			}
		}
		return &responses.Response[*responses.CreateWithdrawalPreviewResponseData]{
			Status:  "successful",
			Message: "existing withdrawal in progress",
			Data:    data,
		}, nil
	}

	balance, err := w.accountService.LookupBalance(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if balance < config.MIN_WITHDRAWAL_BALANCE {
		return nil, errors.NewIneligibleError("balance too low to withdraw")
	}
	if !user.CountdownActive(time.Now()) {
		return nil, errors.NewIneligibleError("withdrawals disabled while timer is inactive")
	}

	country := req.Country
	if country == "" {
		country = user.Country
	}
	if !isUSA(country) && !isCanada(country) && req.Method != "crypto" {
		return nil, errors.NewValidationError("only cryptocurrency withdrawals are allowed for your country")
	}
	if err := validateMethodDetails(req.Method, country, req.Details); err != nil {
		return nil, err
	}

	now := time.Now()
	withdrawal := &models.Withdrawal{
		ID:        uuid.NewString(),
		AccountID: user.ID,
		Ref:       cuid.New(),
		Method:    req.Method,
		Details:   req.Details,
		Amount:    balance,
		Stage:     models.Preview_Stage,
		CreatedAt: &now,
		UpdatedAt: &now,
	}

	details, err := json.Marshal(withdrawal.Details)
	if err != nil {
		return nil, errors.NewFatalError(err)
	}

	_, err = sq.
		Insert("withdrawals").
		Columns("id", "account_id", "ref", "method", "details", "amount", "stage", "awaiting_code", "created_at", "updated_at").
		Values(withdrawal.ID, withdrawal.AccountID, withdrawal.Ref, withdrawal.Method, details, withdrawal.Amount, withdrawal.Stage.String(), false, now, now).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	return &responses.Response[*responses.CreateWithdrawalPreviewResponseData]{
		Status: "successful",
		Data: &responses.CreateWithdrawalPreviewResponseData{
			WithdrawalID: withdrawal.ID,
			Preview: &responses.WithdrawalPreviewData{
				Amount:  withdrawal.Amount,
				Method:  withdrawal.Method,
				Details: withdrawal.Details,
			},
		},
	}, nil
}

func (w *withdrawalService) Proceed(ctx context.Context, req *requests.ProceedWithdrawalRequest) (*responses.Response[*responses.WithdrawalStateResponseData], error) {
	user := ctx.Value("user").(*models.Account)

	withdrawal, err := w.fetchWithdrawal(ctx, req.WithdrawalID, user.ID)
	if err != nil {
		return nil, err
	}

	// an already-started withdrawal just echoes its authoritative state
	if withdrawal.Stage != models.Preview_Stage {
		return w.stateResponse(ctx, user.ID, withdrawal)
	}

	if !req.Acknowledged {
		return nil, errors.NewValidationError("preview must be acknowledged before proceeding")
	}

	withdrawal.Stage = models.Activation_Stage
	_, err = sq.
		Update("withdrawals").
		Set("stage", withdrawal.Stage.String()).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": withdrawal.ID}).
		RunWith(w.dataDB).
		ExecContext(ctx)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	return w.stateResponse(ctx, user.ID, withdrawal)
}

func (w *withdrawalService) FetchState(ctx context.Context, req *requests.FetchWithdrawalStateRequest) (*responses.Response[*responses.WithdrawalStateResponseData], error) {
	user := ctx.Value("user").(*models.Account)

	withdrawal, err := w.fetchWithdrawal(ctx, req.WithdrawalID, user.ID)
	if err != nil {
		return nil, err
	}

	return w.stateResponse(ctx, user.ID, withdrawal)
}

func (w *withdrawalService) SubmitEvidence(ctx context.Context, req *requests.SubmitEvidenceRequest) (*responses.Response[*responses.SubmitEvidenceResponseData], error) {
	user := ctx.Value("user").(*models.Account)

	stage, err := models.ParseStage(req.Stage)
	if err != nil {
		return nil, err
	}

	withdrawal, err := w.fetchWithdrawal(ctx, req.WithdrawalID, user.ID)
	if err != nil {
		return nil, err
	}
	if withdrawal.Stage != stage {
		return nil, errors.NewMissingContextError("withdrawal is not at stage " + req.Stage)
	}
	if !stages.RequiresEvidence(stage) {
		return nil, errors.NewValidationError("stage does not accept evidence")
	}

	// every tuple must be fully paired; a submission with any partial tuple
	// is rejected as a whole so no partial evidence package is ever stored
	if len(req.Cards) == 0 {
		return nil, errors.NewValidationError("at least one card with pin and image is required")
	}
	for _, card := range req.Cards {
		if strings.TrimSpace(card.Pin) == "" || card.ImageName == "" {
			return nil, errors.NewValidationError("each card requires both a pin and an image")
		}
	}

	tx, err := w.dataDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	// Defer a rollback in case anything fails.
	defer tx.Rollback()

	now := time.Now()
	stmt := sq.
		Insert("evidence").
		Columns("id", "withdrawal_id", "stage", "card_type", "card_pin", "image_ref", "image_size", "created_at")
	for _, card := range req.Cards {
		stmt = stmt.Values(uuid.NewString(), withdrawal.ID, stage.String(), card.CardType, card.Pin, card.ImageName, card.ImageSize, now)
	}
	if _, err = stmt.RunWith(tx).ExecContext(ctx); err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	_, err = sq.
		Update("withdrawals").
		Set("awaiting_code", true).
		Set("updated_at", now).
		Where(sq.Eq{"id": withdrawal.ID}).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	data := &responses.SubmitEvidenceResponseData{
		WithdrawalID:  withdrawal.ID,
		Stage:         stage,
		CardsAccepted: len(req.Cards),
		AwaitingCode:  true,
	}
	go w.webhookService.SendEvidenceSubmittedEvent(user, data)
	go w.notificationService.Notify(context.Background(), user.ID,
		"Your "+stage.String()+" submission was received. A confirmation code will be sent here once it is reviewed.")

	return &responses.Response[*responses.SubmitEvidenceResponseData]{
		Status:  "successful",
		Message: "evidence submitted, awaiting confirmation code",
		Data:    data,
	}, nil
}

func (w *withdrawalService) ConfirmStageCode(ctx context.Context, req *requests.ConfirmStageCodeRequest) (*responses.Response[*responses.ConfirmCodeResponseData], error) {
	user := ctx.Value("user").(*models.Account)

	stage, err := models.ParseStage(req.Stage)
	if err != nil {
		return nil, err
	}

	withdrawal, err := w.fetchWithdrawal(ctx, req.WithdrawalID, user.ID)
	if err != nil {
		return nil, err
	}
	if withdrawal.Stage != stage {
		return nil, errors.NewMissingContextError("withdrawal is not at stage " + req.Stage)
	}
	if stages.RequiresEvidence(stage) && !withdrawal.AwaitingCode {
		return nil, errors.NewValidationError("stage evidence has not been submitted")
	}

	var pinHash string
	err = sq.
		Select("pin_hash").
		From("stage_pins").
		Where(sq.Eq{"withdrawal_id": withdrawal.ID, "stage": stage.String()}).
		RunWith(w.dataDB).
		QueryRowContext(ctx).
		Scan(&pinHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNoPinSetError(stage.String())
		}
		return nil, errors.HandleDataDBError(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(pinHash), []byte(req.Pin)) != nil {
		return nil, errors.NewIncorrectCodeError(stage.String())
	}

	next := nextStage(stage)

	tx, err := w.dataDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	// Defer a rollback in case anything fails.
	defer tx.Rollback()

	_, err = sq.
		Update("withdrawals").
		Set("stage", next.String()).
		Set("awaiting_code", false).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": withdrawal.ID}).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	// the code is consumed by this verification; a fresh one must be issued
	// for any later attempt
	_, err = sq.
		Delete("stage_pins").
		Where(sq.Eq{"withdrawal_id": withdrawal.ID, "stage": stage.String()}).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	data := &responses.ConfirmCodeResponseData{Success: true}
	if !next.Terminal() {
		nextCopy := next
		data.NextStage = &nextCopy
	}
	if amount, err := w.stageAmount(ctx, user.ID, next); err == nil && amount != nil {
		data.Amount = amount
	}

	withdrawal.Stage = next
	go w.webhookService.SendStageAdvancedEvent(user, &responses.WithdrawalStateResponseData{
		WithdrawalID: withdrawal.ID,
		Stage:        next,
		Amount:       data.Amount,
	})

	return &responses.Response[*responses.ConfirmCodeResponseData]{
		Status: "successful",
		Data:   data,
	}, nil
}

// stageAmount computes the authoritative amount due at a stage, or nil when
// the stage has none. Only tax derives one (1% of the live balance).
func (w *withdrawalService) stageAmount(ctx context.Context, accountID string, stage models.Stage) (*float64, error) {
	if stage != models.Tax_Stage {
		return nil, nil
	}
	balance, err := w.accountService.LookupBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}
	amount := utils.TaxAmount(balance)
	return &amount, nil
}

func (w *withdrawalService) stateResponse(ctx context.Context, accountID string, withdrawal *models.Withdrawal) (*responses.Response[*responses.WithdrawalStateResponseData], error) {
	data := &responses.WithdrawalStateResponseData{
		WithdrawalID: withdrawal.ID,
		Stage:        withdrawal.Stage,
		AwaitingCode: withdrawal.AwaitingCode,
	}
	if amount, err := w.stageAmount(ctx, accountID, withdrawal.Stage); err == nil && amount != nil {
		data.Amount = amount
	}
	return &responses.Response[*responses.WithdrawalStateResponseData]{
		Status: "successful",
		Data:   data,
	}, nil
}

func (w *withdrawalService) fetchWithdrawal(ctx context.Context, withdrawalID, accountID string) (*models.Withdrawal, error) {
	return w.scanWithdrawal(ctx, w.dataDB, sq.Eq{"id": withdrawalID, "account_id": accountID})
}

// fetchOpenWithdrawal returns the account's in-progress withdrawal, if any,
// locking the row for the duration of tx. At most one exists at a time;
// released withdrawals (done_at set) no longer count.
func (w *withdrawalService) fetchOpenWithdrawal(ctx context.Context, tx *sql.Tx, accountID string) (*models.Withdrawal, error) {
	return w.scanWithdrawal(ctx, tx, sq.Eq{"account_id": accountID, "done_at": nil}, "FOR UPDATE")
}

func (w *withdrawalService) scanWithdrawal(ctx context.Context, runner sq.BaseRunner, pred any, suffixes ...string) (*models.Withdrawal, error) {
	stmt := sq.
		Select("id", "account_id", "ref", "method", "details", "amount", "stage", "awaiting_code", "created_at", "updated_at", "done_at").
		From("withdrawals").
		Where(pred).
		OrderBy("created_at desc").
		Limit(1)
	for _, suffix := range suffixes {
		stmt = stmt.Suffix(suffix)
	}
	row := stmt.
		RunWith(runner).
		QueryRowContext(ctx)

	withdrawal := &models.Withdrawal{Details: &models.MethodDetails{}}
	var details []byte
	var stage string
	err := row.Scan(&withdrawal.ID, &withdrawal.AccountID, &withdrawal.Ref, &withdrawal.Method, &details,
		&withdrawal.Amount, &stage, &withdrawal.AwaitingCode, &withdrawal.CreatedAt, &withdrawal.UpdatedAt, &withdrawal.DoneAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("withdrawal not found")
		}
		return nil, errors.HandleDataDBError(err)
	}

	if err = json.Unmarshal(details, withdrawal.Details); err != nil {
		return nil, errors.NewFatalError(err)
	}
	if withdrawal.Stage, err = models.ParseStage(stage); err != nil {
		return nil, err
	}

	return withdrawal, nil
}
