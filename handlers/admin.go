package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/nonso-e/contestbk-go/errors"
	"github.com/nonso-e/contestbk-go/services"
	"github.com/nonso-e/contestbk-go/types/requests"
	"github.com/nonso-e/contestbk-go/types/responses"
	"github.com/nonso-e/contestbk-go/utils"
)

type AdminHandler interface {
	SetStagePin(w http.ResponseWriter, r *http.Request)
	CreditAccount(w http.ResponseWriter, r *http.Request)
	ApproveWithdrawal(w http.ResponseWriter, r *http.Request)
	FetchWithdrawals(w http.ResponseWriter, r *http.Request)
	NotifyUser(w http.ResponseWriter, r *http.Request)

	ServeHttp(*http.ServeMux)
}

func NewAdminHandler(adminService services.AdminService, notificationService services.NotificationService, middlewares MiddleWareHandler, log *zap.Logger) AdminHandler {
	return &adminHandler{
		handler: handler{adminService: adminService, notificationService: notificationService, middlewares: middlewares, log: log},
	}
}

type adminHandler struct {
	handler
}

func (a *adminHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/admin/users/{user_id}/set-pin", utils.Middleware(a.SetStagePin, a.middlewares.ValidateAdminAccess))
	mux.HandleFunc("POST /api/v1/admin/users/{user_id}/credit", utils.Middleware(a.CreditAccount, a.middlewares.ValidateAdminAccess))
	mux.HandleFunc("POST /api/v1/admin/withdrawals/{withdrawal_id}/approve", utils.Middleware(a.ApproveWithdrawal, a.middlewares.ValidateAdminAccess))
	mux.HandleFunc("GET /api/v1/admin/withdrawals", utils.Middleware(a.FetchWithdrawals, a.middlewares.ValidateAdminAccess))
	mux.HandleFunc("POST /api/v1/admin/notify", utils.Middleware(a.NotifyUser, a.middlewares.ValidateAdminAccess))
}

func (a *adminHandler) SetStagePin(w http.ResponseWriter, r *http.Request) {
	req := &requests.SetStagePinRequest{}
	if err := utils.Bind(r, req); err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	if err := a.adminService.SetStagePin(r.Context(), req); err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, &responses.Response[any]{Status: "successful", Message: "Pin set successfully"})
}

func (a *adminHandler) CreditAccount(w http.ResponseWriter, r *http.Request) {
	req := &requests.CreditAccountRequest{}
	if err := utils.Bind(r, req); err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	res, err := a.adminService.CreditAccount(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}

func (a *adminHandler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	req := &requests.ApproveWithdrawalRequest{}
	if err := utils.Bind(r, req); err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	if err := a.adminService.ApproveWithdrawal(r.Context(), req); err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, &responses.Response[any]{Status: "successful", Message: "Withdrawal released"})
}

func (a *adminHandler) FetchWithdrawals(w http.ResponseWriter, r *http.Request) {
	res, err := a.adminService.FetchWithdrawals(r.Context())
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}

func (a *adminHandler) NotifyUser(w http.ResponseWriter, r *http.Request) {
	req := &requests.NotifyUserRequest{}
	if err := utils.Bind(r, req); err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	if err := a.notificationService.Notify(r.Context(), req.UserID, req.Text); err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, &responses.Response[any]{Status: "successful", Message: "Notification sent"})
}
