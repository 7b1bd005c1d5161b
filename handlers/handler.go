package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/nonso-e/contestbk-go/services"
)

type handler struct {
	accountService      services.AccountService
	withdrawalService   services.WithdrawalService
	notificationService services.NotificationService
	adminService        services.AdminService
	middlewares         MiddleWareHandler

	log *zap.Logger
}

type Handler interface {
	ServeHttp(*http.ServeMux)
}
