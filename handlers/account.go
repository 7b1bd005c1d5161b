package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/nonso-e/contestbk-go/errors"
	"github.com/nonso-e/contestbk-go/services"
	"github.com/nonso-e/contestbk-go/types/requests"
	"github.com/nonso-e/contestbk-go/utils"
)

type AccountHandler interface {
	CreateAccount(w http.ResponseWriter, r *http.Request)
	FetchAccountSnapshot(w http.ResponseWriter, r *http.Request)

	ServeHttp(*http.ServeMux)
}

func NewAccountHandler(accountService services.AccountService, middlewares MiddleWareHandler, log *zap.Logger) AccountHandler {
	return &accountHandler{
		handler: handler{accountService: accountService, middlewares: middlewares, log: log},
	}
}

type accountHandler struct {
	handler
}

func (a *accountHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/accounts", a.CreateAccount)
	mux.HandleFunc("GET /api/v1/accounts/me/snapshot", a.middlewares.ValidateAccessToken(a.FetchAccountSnapshot))
}

func (a *accountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	req := &requests.CreateAccountRequest{}
	if err := utils.Bind(r, req); err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	res, err := a.accountService.CreateAccount(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 201, res)
}

func (a *accountHandler) FetchAccountSnapshot(w http.ResponseWriter, r *http.Request) {
	res, err := a.accountService.FetchAccountSnapshot(r.Context())
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}
