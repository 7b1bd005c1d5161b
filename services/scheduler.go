package services

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/madflojo/tasks"
	"go.uber.org/zap"

	"github.com/nonso-e/contestbk-go/models"
)

type SchedulerService interface {
	// ScheduleCountdownExpiry parks a run-once task that turns the account's
	// withdrawal timer off when its countdown window closes.
	ScheduleCountdownExpiry(account *models.Account)
	DropTask(taskID string)
}

func NewSchedulerService(dataDatabase *sql.DB, scheduler *tasks.Scheduler, notificationService NotificationService, log *zap.Logger) SchedulerService {
	return &schedulerService{
		service: service{
			dataDB:              dataDatabase,
			notificationService: notificationService,
			log:                 log,
		},
		scheduler: scheduler,
	}
}

type schedulerService struct {
	service
	scheduler *tasks.Scheduler
}

func (s *schedulerService) DropTask(taskID string) {
	s.scheduler.Del(taskID)
}

func (s *schedulerService) ScheduleCountdownExpiry(account *models.Account) {
	if account.CountdownEndsAt == nil {
		return
	}

	// re-crediting an account reschedules its expiry
	s.scheduler.Del(account.ID)

	ctx := context.WithValue(context.Background(), "account_id", account.ID)
	s.scheduler.AddWithID(account.ID, &tasks.Task{
		TaskContext: tasks.TaskContext{Context: ctx},
		RunOnce:     true,
		Interval:    1 * time.Second,
		StartAfter:  *account.CountdownEndsAt,
		FuncWithTaskContext: func(t tasks.TaskContext) error {
			accountID := t.Context.Value("account_id").(string)
			s.log.Info("closing withdrawal window", zap.String("account_id", accountID))

			_, err := sq.
				Update("accounts").
				Set("timer_active", false).
				Set("updated_at", time.Now()).
				Where(sq.Eq{"id": accountID}).
				RunWith(s.dataDB).
				Exec()
			if err != nil {
				s.log.Error("closing withdrawal window", zap.Error(err))
				return nil
			}

			if err := s.notificationService.Notify(context.Background(), accountID, "Your withdrawal window has closed."); err != nil {
				s.log.Error("notifying window close", zap.Error(err))
			}
			return nil
		},
	})
}
