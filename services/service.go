package services

import (
	"database/sql"

	tdb "github.com/tigerbeetle/tigerbeetle-go"
	"go.uber.org/zap"

	"github.com/nonso-e/contestbk-go/models"
)

type service struct {
	transactionDB       tdb.Client
	dataDB              *sql.DB
	accountService      AccountService
	notificationService NotificationService
	webhookService      WebhookService
	schedulerService    SchedulerService
	log                 *zap.Logger
}

// Single USD ledger; contest balances are not multi-currency.
const UsdLedger uint32 = 1

// TreasuryAccountID is the system ledger account that funds prize credits and
// absorbs released withdrawals.
const TreasuryAccountID uint64 = 1

const (
	userAccountCode     uint16 = 1
	systemAccountCode   uint16 = 2
	creditTransferCode  uint16 = 1
	releaseTransferCode uint16 = 2
)

// StageSequence is the default progression policy. Where insurance,
// verification and security sit relative to each other is server policy, not
// contract; clients must treat the next stage as an opaque forward pointer.
var StageSequence = []models.Stage{
	models.Activation_Stage,
	models.Tax_Stage,
	models.Insurance_Stage,
	models.Verification_Stage,
	models.Security_Stage,
	models.Access_Stage,
}

func nextStage(current models.Stage) models.Stage {
	for i, s := range StageSequence {
		if s == current && i+1 < len(StageSequence) {
			return StageSequence[i+1]
		}
	}
	return models.Access_Stage
}
