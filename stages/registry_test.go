package stages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonso-e/contestbk-go/models"
)

func TestRegistryEvidenceRequirements(t *testing.T) {
	assert.False(t, RequiresEvidence(models.Preview_Stage))
	assert.False(t, RequiresEvidence(models.Access_Stage))

	for _, stage := range []models.Stage{
		models.Activation_Stage,
		models.Tax_Stage,
		models.Insurance_Stage,
		models.Verification_Stage,
		models.Security_Stage,
	} {
		assert.True(t, RequiresEvidence(stage), "stage=%s", stage)
	}
}

func TestRegistryDerivedAmount(t *testing.T) {
	// only tax derives an amount from the balance
	assert.Equal(t, 50.00, DerivedAmount(models.Tax_Stage, 5000))
	assert.Equal(t, 0.50, DerivedAmount(models.Tax_Stage, 49.995))
	assert.Equal(t, 0.0, DerivedAmount(models.Activation_Stage, 5000))
	assert.Equal(t, 0.0, DerivedAmount(models.Access_Stage, 5000))
}

func TestRegistryLookup(t *testing.T) {
	info, ok := Lookup(models.Tax_Stage)
	require.True(t, ok)
	assert.NotNil(t, info.DerivedAmountRule)
	assert.Equal(t, models.Insurance_Stage, info.NextHint)
}
