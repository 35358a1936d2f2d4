package service

import (
	"context"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, clientID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, clientID, pageSize, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, clientID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, clientID)
}
