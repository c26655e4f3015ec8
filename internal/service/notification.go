package service

import (
	"context"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/logger"
	"sewasaathi-backend/internal/repository"
)

type notificationService struct {
	store repository.Store
}

func NewNotificationService(store repository.Store) NotificationService {
	return &notificationService{store: store}
}

// ListMine returns the actor's own notifications, newest first.
func (s *notificationService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Notification, error) {
	return s.store.Repos().Notifications.ListByUser(ctx, actor.ID)
}

// MarkRead sets the read flag. Only the recipient or an administrator may.
func (s *notificationService) MarkRead(ctx context.Context, actor domain.Actor, id string, read bool) (*domain.Notification, error) {
	logger.EnterMethod("NotificationService.MarkRead", "actorID", actor.ID, "notificationID", id, "read", read)

	var n *domain.Notification
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		n, err = repos.Notifications.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && n.UserID != actor.ID {
			return domain.NewError(domain.KindUnauthorized, "notification %s belongs to another user", id)
		}
		if err := repos.Notifications.SetRead(ctx, id, read); err != nil {
			return err
		}
		n.IsRead = read
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("NotificationService.MarkRead", err, "notificationID", id)
		return nil, err
	}

	logger.ExitMethod("NotificationService.MarkRead", "notificationID", id)
	return n, nil
}
