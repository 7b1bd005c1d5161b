package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nonso-e/contestbk-go/models"
	"github.com/nonso-e/contestbk-go/types/responses"
)

type WebhookService interface {
	SendStageAdvancedEvent(account *models.Account, state *responses.WithdrawalStateResponseData) (self WebhookService)
	SendEvidenceSubmittedEvent(account *models.Account, submission *responses.SubmitEvidenceResponseData) (self WebhookService)
	SendWithdrawalReleasedEvent(account *models.Account, state *responses.WithdrawalStateResponseData) (self WebhookService)
	SendAccountCreditedEvent(account *models.Account, snapshot *responses.AccountSnapshotResponseData) (self WebhookService)
}

type webhookService struct {
	service
}

func NewWebhookService(log *zap.Logger) WebhookService {
	return &webhookService{
		service: service{
			log: log,
		},
	}
}

func (w *webhookService) doRequest(url string, body *bytes.Buffer, key *string) (error, bool) {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return err, false
	}

	if key != nil {
		now := time.Now().Unix()
		data := strings.ReplaceAll(body.String(), "/", "\\/")
		payload := fmt.Sprintf("%d.%s", now, data)
		mac := hmac.New(sha256.New, []byte(*key))
		if _, err := mac.Write([]byte(payload)); err != nil {
			return err, false
		}
		signature := hex.EncodeToString(mac.Sum(nil))
		req.Header.Set("contestbk-signature", fmt.Sprintf("ts=%d,sig=%s", now, signature))
	}

	req.Header.Set("content-type", "application/json")
	req.Header.Set("accept", "application/json")

	res, err := http.DefaultClient.Do(req)
	if res != nil {
		defer res.Body.Close()
		resData, _ := io.ReadAll(res.Body)
		w.log.Info("response from callback", zap.String("Response Data", string(resData)))
	}
	return err, (res != nil && res.StatusCode < 300)
}

func (w *webhookService) sendEvent(account *models.Account, eventType models.WebhookEvent, eventData any) (self WebhookService) {
	if account.WebhookDetails.CallbackURL == nil {
		return w
	}
	w.log.Info("dispatching event...", zap.String("Event Type", eventType.String()))

	event := &models.Webhook{
		Event: eventType,
		Data:  eventData,
	}

	data, err := json.Marshal(event)
	if err != nil {
		w.log.Error("encoding request body", zap.Error(err))
		return w
	}

	err, ok := w.doRequest(*account.WebhookDetails.CallbackURL, bytes.NewBuffer(data), account.WebhookDetails.WebhookKey)
	if err != nil {
		w.log.Error("dispatching request", zap.Error(err))
		return w
	}

	if !ok {
		w.log.Warn("callback rejected event", zap.String("Event Type", eventType.String()))
	}

	return w
}

func (w *webhookService) SendStageAdvancedEvent(account *models.Account, state *responses.WithdrawalStateResponseData) (self WebhookService) {
	return w.sendEvent(account, models.StageAdvanced_WebhookEvent, state)
}

func (w *webhookService) SendEvidenceSubmittedEvent(account *models.Account, submission *responses.SubmitEvidenceResponseData) (self WebhookService) {
	return w.sendEvent(account, models.EvidenceSubmitted_WebhookEvent, submission)
}

func (w *webhookService) SendWithdrawalReleasedEvent(account *models.Account, state *responses.WithdrawalStateResponseData) (self WebhookService) {
	return w.sendEvent(account, models.WithdrawalReleased_WebhookEvent, state)
}

func (w *webhookService) SendAccountCreditedEvent(account *models.Account, snapshot *responses.AccountSnapshotResponseData) (self WebhookService) {
	return w.sendEvent(account, models.AccountCredited_WebhookEvent, snapshot)
}
