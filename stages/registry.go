// Package stages is the static description of the withdrawal verification
// graph: which stages need evidence, which derive an amount from the account
// balance, and the advisory ordering hint. It has no side effects; the
// authoritative next stage always comes from the server response.
package stages

import (
	"github.com/nonso-e/contestbk-go/models"
	"github.com/nonso-e/contestbk-go/utils"
)

type Info struct {
	RequiresEvidence bool

	// DerivedAmountRule computes a display-only estimate from the account
	// balance. nil for stages with no derived amount. A server-supplied
	// amount always wins over this estimate.
	DerivedAmountRule func(balance float64) float64

	// NextHint is advisory only. Whether insurance, verification or security
	// follows a given stage is server policy; never navigate on this alone.
	NextHint models.Stage
}

var registry = map[models.Stage]Info{
	models.Preview_Stage: {
		NextHint: models.Activation_Stage,
	},
	models.Activation_Stage: {
		RequiresEvidence: true,
		NextHint:         models.Tax_Stage,
	},
	models.Tax_Stage: {
		RequiresEvidence:  true,
		DerivedAmountRule: utils.TaxAmount,
		NextHint:          models.Insurance_Stage,
	},
	models.Insurance_Stage: {
		RequiresEvidence: true,
		NextHint:         models.Verification_Stage,
	},
	models.Verification_Stage: {
		RequiresEvidence: true,
		NextHint:         models.Security_Stage,
	},
	models.Security_Stage: {
		RequiresEvidence: true,
		NextHint:         models.Access_Stage,
	},
	models.Access_Stage: {
		NextHint: models.Access_Stage,
	},
}

func Lookup(stage models.Stage) (Info, bool) {
	info, ok := registry[stage]
	return info, ok
}

func RequiresEvidence(stage models.Stage) bool {
	return registry[stage].RequiresEvidence
}

// DerivedAmount returns the stage's display estimate for the given balance,
// or 0 when the stage has no derived amount rule.
func DerivedAmount(stage models.Stage, balance float64) float64 {
	info, ok := registry[stage]
	if !ok || info.DerivedAmountRule == nil {
		return 0
	}
	return info.DerivedAmountRule(balance)
}
