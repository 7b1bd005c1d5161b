package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/nonso-e/contestbk-go/errors"
	"github.com/nonso-e/contestbk-go/models"
	"github.com/nonso-e/contestbk-go/types/responses"
)

// NewHTTPClient returns a Client speaking the backend's JSON/multipart wire
// contract. Network failures surface as transport errors; error bodies are
// decoded into their structured taxonomy by the `type` field, never by
// message text.
func NewHTTPClient(baseURL, token string, log *zap.Logger) Client {
	return &httpClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

type httpClient struct {
	baseURL string
	token   string
	client  *http.Client
	log     *zap.Logger
}

func (h *httpClient) CreatePreview(ctx context.Context, method string, details *models.MethodDetails, country string) (*responses.CreateWithdrawalPreviewResponseData, error) {
	body := map[string]any{
		"method":  method,
		"details": details,
		"country": country,
	}
	return doJSON[*responses.CreateWithdrawalPreviewResponseData](h, ctx, http.MethodPost, "/api/v1/withdrawals", body)
}

func (h *httpClient) Proceed(ctx context.Context, withdrawalID string, acknowledged bool) (*responses.WithdrawalStateResponseData, error) {
	body := map[string]any{"acknowledged": acknowledged}
	return doJSON[*responses.WithdrawalStateResponseData](h, ctx, http.MethodPost, "/api/v1/withdrawals/"+withdrawalID+"/proceed", body)
}

func (h *httpClient) ConfirmCode(ctx context.Context, withdrawalID string, stage models.Stage, code string) (*responses.ConfirmCodeResponseData, error) {
	body := map[string]any{
		"withdrawalId": withdrawalID,
		"stage":        stage.String(),
		"pin":          code,
	}
	return doJSON[*responses.ConfirmCodeResponseData](h, ctx, http.MethodPost, "/api/v1/withdrawals/confirm-pin", body)
}

func (h *httpClient) GetState(ctx context.Context, withdrawalID string) (*responses.WithdrawalStateResponseData, error) {
	return doJSON[*responses.WithdrawalStateResponseData](h, ctx, http.MethodGet, "/api/v1/withdrawals/"+withdrawalID, nil)
}

func (h *httpClient) GetAccountSnapshot(ctx context.Context) (*responses.AccountSnapshotResponseData, error) {
	return doJSON[*responses.AccountSnapshotResponseData](h, ctx, http.MethodGet, "/api/v1/accounts/me/snapshot", nil)
}

func (h *httpClient) SubmitEvidence(ctx context.Context, submission *EvidenceSubmission) (*responses.SubmitEvidenceResponseData, error) {
	buf := &bytes.Buffer{}
	form := multipart.NewWriter(buf)

	fields := map[string]string{
		"withdrawalId": submission.WithdrawalID,
		"stage":        submission.Stage.String(),
		"amount":       strconv.FormatFloat(submission.Amount, 'f', -1, 64),
		"cardsCount":   strconv.Itoa(len(submission.Cards)),
	}
	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return nil, errors.NewFatalError(err)
		}
	}

	for i, card := range submission.Cards {
		if err := form.WriteField(fmt.Sprintf("cards[%d][giftCard]", i), card.Type); err != nil {
			return nil, errors.NewFatalError(err)
		}
		if err := form.WriteField(fmt.Sprintf("cards[%d][pin]", i), card.Pin); err != nil {
			return nil, errors.NewFatalError(err)
		}
		part, err := form.CreateFormFile(fmt.Sprintf("cards[%d][file]", i), card.ImageName)
		if err != nil {
			return nil, errors.NewFatalError(err)
		}
		if card.Image != nil {
			if _, err := io.Copy(part, card.Image); err != nil {
				return nil, errors.NewFatalError(err)
			}
		}
	}
	if err := form.Close(); err != nil {
		return nil, errors.NewFatalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/api/v1/withdrawals/submit", buf)
	if err != nil {
		return nil, errors.NewFatalError(err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	return send[*responses.SubmitEvidenceResponseData](h, req)
}

func doJSON[T any](h *httpClient, ctx context.Context, method, path string, body any) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return zero, errors.NewFatalError(err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return zero, errors.NewFatalError(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return send[T](h, req)
}

func send[T any](h *httpClient, req *http.Request) (T, error) {
	var zero T

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.token)

	res, err := h.client.Do(req)
	if err != nil {
		h.log.Warn("request failed", zap.String("path", req.URL.Path), zap.Error(err))
		return zero, errors.NewTransportError(err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return zero, decodeError(res)
	}

	envelope := &responses.Response[T]{}
	if err := json.NewDecoder(res.Body).Decode(envelope); err != nil {
		return zero, errors.NewFatalError(err)
	}
	return envelope.Data, nil
}

func decodeError(res *http.Response) error {
	appErr := errors.AppError{}
	if err := json.NewDecoder(res.Body).Decode(&appErr); err != nil || appErr.Type == "" {
		return errors.NewUnknownError(fmt.Sprintf("unexpected response status %d", res.StatusCode))
	}
	appErr.Code = res.StatusCode
	return appErr
}
