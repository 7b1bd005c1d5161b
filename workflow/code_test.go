package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonso-e/contestbk-go/errors"
	"github.com/nonso-e/contestbk-go/models"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1234", "1234"},
		{"12a3b4", "1234"},
		{" 1 2 3 4 ", "1234"},
		{"123456", "1234"},
		{"abcd", ""},
		{"", ""},
		{"12-34", "1234"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCode(tt.raw), "raw=%q", tt.raw)
	}
}

func TestCodeFormValidate(t *testing.T) {
	t.Run("well formed code", func(t *testing.T) {
		form := &CodeForm{WithdrawalID: "wd_1", Stage: models.Tax_Stage}
		form.Input("5678")
		assert.NoError(t, form.Validate())
	})

	t.Run("short code", func(t *testing.T) {
		form := &CodeForm{WithdrawalID: "wd_1", Stage: models.Tax_Stage}
		form.Input("56")
		err := form.Validate()
		require.Error(t, err)
		assert.Equal(t, errors.ErrValidation, errors.AsAppError(err).Type)
	})

	t.Run("missing withdrawal context", func(t *testing.T) {
		form := &CodeForm{Stage: models.Tax_Stage}
		form.Input("5678")
		err := form.Validate()
		require.Error(t, err)
		assert.Equal(t, errors.ErrMissingContext, errors.AsAppError(err).Type)
	})
}
