package services

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nonso-e/contestbk-go/errors"
	"github.com/nonso-e/contestbk-go/models"
	"github.com/nonso-e/contestbk-go/types/responses"
)

type NotificationService interface {
	Notify(ctx context.Context, accountID, body string) error
	FetchNotifications(ctx context.Context) (*responses.Response[[]*models.Notification], error)
}

func NewNotificationService(dataDatabase *sql.DB, log *zap.Logger) NotificationService {
	return &notificationService{
		service: service{
			dataDB: dataDatabase,
			log:    log,
		},
	}
}

type notificationService struct {
	service
}

func (n *notificationService) Notify(ctx context.Context, accountID, body string) error {
	now := time.Now()
	_, err := sq.
		Insert("notifications").
		Columns("id", "account_id", "body", "created_at").
		Values(uuid.NewString(), accountID, body, now).
		RunWith(n.dataDB).
		ExecContext(ctx)
	if err != nil {
		n.log.Error("storing notification", zap.String("account_id", accountID), zap.Error(err))
		return errors.HandleDataDBError(err)
	}
	return nil
}

func (n *notificationService) FetchNotifications(ctx context.Context) (*responses.Response[[]*models.Notification], error) {
	user := ctx.Value("user").(*models.Account)

	rows, err := sq.
		Select("id", "account_id", "body", "created_at").
		From("notifications").
		Where(sq.Eq{"account_id": user.ID}).
		OrderBy("created_at desc").
		RunWith(n.dataDB).
		QueryContext(ctx)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	notifications := make([]*models.Notification, 0)
	for rows.Next() {
		notification := &models.Notification{}
		err = rows.Scan(&notification.ID, &notification.AccountID, &notification.Body, &notification.CreatedAt)
		if err != nil {
			return nil, errors.HandleDataDBError(err)
		}
		notifications = append(notifications, notification)
	}

	return &responses.Response[[]*models.Notification]{
		Status: "successful",
		Data:   notifications,
	}, nil
}
