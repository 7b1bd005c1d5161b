package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/nonso-e/contestbk-go/errors"
	"github.com/nonso-e/contestbk-go/services"
	"github.com/nonso-e/contestbk-go/utils"
)

type NotificationHandler interface {
	FetchNotifications(w http.ResponseWriter, r *http.Request)

	ServeHttp(*http.ServeMux)
}

func NewNotificationHandler(notificationService services.NotificationService, middlewares MiddleWareHandler, log *zap.Logger) NotificationHandler {
	return &notificationHandler{
		handler: handler{notificationService: notificationService, middlewares: middlewares, log: log},
	}
}

type notificationHandler struct {
	handler
}

func (n *notificationHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/notifications", n.middlewares.ValidateAccessToken(n.FetchNotifications))
}

func (n *notificationHandler) FetchNotifications(w http.ResponseWriter, r *http.Request) {
	res, err := n.notificationService.FetchNotifications(r.Context())
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}
