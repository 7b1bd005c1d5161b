package services

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/nonso-e/contestbk-go/models"
	"github.com/nonso-e/contestbk-go/types/responses"
)

func TestSendStageAdvancedEventSignsPayload(t *testing.T) {
	var gotSignature string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("contestbk-signature")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"received":true}`))
	}))
	defer srv.Close()

	key := "whsec_test"
	account := &models.Account{ID: uuid.NewString()}
	account.WebhookDetails.CallbackURL = &srv.URL
	account.WebhookDetails.WebhookKey = &key

	NewWebhookService(zap.NewNop()).SendStageAdvancedEvent(account, &responses.WithdrawalStateResponseData{
		WithdrawalID: "wd_1",
		Stage:        models.Tax_Stage,
	})

	assert.Contains(t, gotSignature, "ts=")
	assert.Contains(t, gotSignature, "sig=")
	assert.Contains(t, string(gotBody), "withdrawal.stage_advanced")
}

func TestSendEventSkipsAccountsWithoutCallback(t *testing.T) {
	account := &models.Account{ID: uuid.NewString()}

	// no callback URL registered, nothing to dispatch
	self := NewWebhookService(zap.NewNop()).SendStageAdvancedEvent(account, nil)
	assert.NotNil(t, self)
}
