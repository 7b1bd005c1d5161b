package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"github.com/nonso-e/contestbk-go/errors"
	"github.com/nonso-e/contestbk-go/services"
	"github.com/nonso-e/contestbk-go/types/requests"
	"github.com/nonso-e/contestbk-go/utils"
)

type WithdrawalHandler interface {
	CreatePreview(w http.ResponseWriter, r *http.Request)
	Proceed(w http.ResponseWriter, r *http.Request)
	FetchState(w http.ResponseWriter, r *http.Request)
	SubmitEvidence(w http.ResponseWriter, r *http.Request)
	ConfirmStageCode(w http.ResponseWriter, r *http.Request)

	ServeHttp(*http.ServeMux)
}

func NewWithdrawalHandler(accountService services.AccountService, withdrawalService services.WithdrawalService, middlewares MiddleWareHandler, log *zap.Logger) WithdrawalHandler {
	return &withdrawalHandler{
		handler: handler{accountService: accountService, withdrawalService: withdrawalService, middlewares: middlewares, log: log},
	}
}

type withdrawalHandler struct {
	handler
}

func (wd *withdrawalHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/withdrawals", wd.middlewares.ValidateAccessToken(wd.CreatePreview))
	mux.HandleFunc("POST /api/v1/withdrawals/submit", wd.middlewares.ValidateAccessToken(wd.SubmitEvidence))
	mux.HandleFunc("POST /api/v1/withdrawals/confirm-pin", wd.middlewares.ValidateAccessToken(wd.ConfirmStageCode))
	mux.HandleFunc("POST /api/v1/withdrawals/{withdrawal_id}/proceed", wd.middlewares.ValidateAccessToken(wd.Proceed))
	mux.HandleFunc("GET /api/v1/withdrawals/{withdrawal_id}", wd.middlewares.ValidateAccessToken(wd.FetchState))
}

func (wd *withdrawalHandler) CreatePreview(w http.ResponseWriter, r *http.Request) {
	req := &requests.CreateWithdrawalPreviewRequest{}
	if err := utils.Bind(r, req); err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	res, err := wd.withdrawalService.CreatePreview(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 201, res)
}

func (wd *withdrawalHandler) Proceed(w http.ResponseWriter, r *http.Request) {
	req := &requests.ProceedWithdrawalRequest{}
	if err := utils.Bind(r, req); err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	res, err := wd.withdrawalService.Proceed(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}

func (wd *withdrawalHandler) FetchState(w http.ResponseWriter, r *http.Request) {
	req := &requests.FetchWithdrawalStateRequest{WithdrawalID: r.PathValue("withdrawal_id")}

	res, err := wd.withdrawalService.FetchState(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}

func (wd *withdrawalHandler) SubmitEvidence(w http.ResponseWriter, r *http.Request) {
	req := &requests.SubmitEvidenceRequest{}
	if err := utils.BindMultipart(r, req); err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}
	req.Cards = parseEvidenceCards(r.MultipartForm, req.CardsCount)

	res, err := wd.withdrawalService.SubmitEvidence(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}

func (wd *withdrawalHandler) ConfirmStageCode(w http.ResponseWriter, r *http.Request) {
	req := &requests.ConfirmStageCodeRequest{}
	if err := utils.Bind(r, req); err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	res, err := wd.withdrawalService.ConfirmStageCode(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}

// parseEvidenceCards extracts credential tuples from the multipart form.
// Partial tuples are passed through for the service to reject; fully blank
// slots are dropped. A count of zero falls back to the single-card field
// shape used by the activation screen.
func parseEvidenceCards(form *multipart.Form, count int) []*requests.EvidenceCardTuple {
	cards := make([]*requests.EvidenceCardTuple, 0)

	appendCard := func(cardType, pin, fileKey string) {
		card := &requests.EvidenceCardTuple{CardType: cardType, Pin: pin}
		if card.CardType == "" {
			card.CardType = "Steam"
		}
		if files := form.File[fileKey]; len(files) > 0 {
			card.ImageName = files[0].Filename
			card.ImageSize = files[0].Size
		}
		if card.Pin != "" || card.ImageName != "" {
			cards = append(cards, card)
		}
	}

	if count == 0 {
		appendCard(formValue(form, "giftCard"), formValue(form, "cardPin"), "file")
		return cards
	}

	for i := 0; i < count; i++ {
		appendCard(
			formValue(form, fmt.Sprintf("cards[%d][giftCard]", i)),
			formValue(form, fmt.Sprintf("cards[%d][pin]", i)),
			fmt.Sprintf("cards[%d][file]", i),
		)
	}
	return cards
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}
