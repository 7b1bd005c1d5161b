package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStage(t *testing.T) {
	for _, name := range []string{"preview", "activation", "tax", "insurance", "verification", "security", "access"} {
		stage, err := ParseStage(name)
		require.NoError(t, err)
		assert.Equal(t, name, stage.String())
	}

	_, err := ParseStage("jackpot")
	assert.Error(t, err)
}

func TestStageJSON(t *testing.T) {
	data, err := json.Marshal(Tax_Stage)
	require.NoError(t, err)
	assert.Equal(t, `"tax"`, string(data))

	var stage Stage
	require.NoError(t, json.Unmarshal([]byte(`"security"`), &stage))
	assert.Equal(t, Security_Stage, stage)
}

func TestStageTerminal(t *testing.T) {
	assert.True(t, Access_Stage.Terminal())
	assert.False(t, Security_Stage.Terminal())
	assert.False(t, Preview_Stage.Terminal())
}
