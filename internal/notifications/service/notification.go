package service

import (
	"context"
	"errors"
	"sync"

	notificationserrors "roomly/internal/notifications/errors"
	"roomly/internal/notifications/repository"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/kafka"
	"roomly/pkg/model"
)

const (
	EventNotificationCreated = "notification.created"
	eventSource              = "roomly"
)

var statusNotifications = map[model.BookingStatus]struct {
	Type    model.NotificationType
	Message string
}{
	model.BookingConfirmed: {
		Type:    model.NotificationBookingConfirmed,
		Message: "Your booking has been confirmed! You can now enjoy your reserved room.",
	},
	model.BookingRejected: {
		Type:    model.NotificationBookingRejected,
		Message: "Unfortunately, your booking has been rejected. Please try booking another room or contact support.",
	},
	model.BookingCancelledByAdmin: {
		Type:    model.NotificationBookingCancelled,
		Message: "Your booking has been cancelled by administration. Please contact support for more information.",
	},
}

// EventPublisher is satisfied by kafka.Producer. A nil publisher disables
// event emission.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type NotificationService interface {
	NotifyStatusChange(ctx context.Context, booking *model.Booking, status model.BookingStatus) error
	ListUnread(ctx context.Context, userID string, limit int, offset int64) ([]*model.Notification, int64, error)
	MarkRead(ctx context.Context, actorID, id string) error
}

type notificationService struct {
	repo      repository.NotificationRepository
	publisher EventPublisher
	cfg       *config.Config
}

func NewNotificationService(
	repo repository.NotificationRepository,
	publisher EventPublisher,
	cfg *config.Config,
) NotificationService {
	return &notificationService{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
	}
}

// NotifyStatusChange records a notification for the booking owner when the
// new status warrants one. Statuses without a mapped message, such as
// cancelled_by_user, produce nothing.
func (s *notificationService) NotifyStatusChange(ctx context.Context, booking *model.Booking, status model.BookingStatus) error {
	tmpl, ok := statusNotifications[status]
	if !ok {
		return nil
	}

	notification := &model.Notification{
		UserID:    booking.UserID,
		BookingID: booking.ID,
		Message:   tmpl.Message,
		Type:      tmpl.Type,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return apperrors.Internal("Failed to create notification", err)
	}

	s.emitCreated(ctx, notification)

	s.cfg.Log.Info("Notification created",
		"id", notification.ID,
		"user_id", notification.UserID,
		"booking_id", notification.BookingID,
		"type", notification.Type,
	)
	return nil
}

// emitCreated publishes the event keyed by user ID so each user's
// notifications stay ordered. Emission is best-effort.
func (s *notificationService) emitCreated(ctx context.Context, notification *model.Notification) {
	if s.publisher == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(notification.UserID).
		WithValue(notification).
		WithEventType(EventNotificationCreated).
		WithSource(eventSource).
		Build()

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish notification event", "id", notification.ID, "error", err)
	}
}

func (s *notificationService) ListUnread(ctx context.Context, userID string, limit int, offset int64) ([]*model.Notification, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}

	var count int64
	var notifications []*model.Notification
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountUnreadByUser(ctx, userID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count notifications", "user_id", userID, "error", errCount)
			errCount = apperrors.Internal("Failed to count notifications", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		notifications, errFind = s.repo.FindUnreadByUser(ctx, userID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list notifications", "user_id", userID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve notifications", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return notifications, count, nil
}

// MarkRead flags a notification as read. Re-marking an already-read
// notification succeeds. Notifications belonging to other users are reported
// as not found.
func (s *notificationService) MarkRead(ctx context.Context, actorID, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Notification ID cannot be empty")
	}

	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, notificationserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Notification", id)
		}
		if errors.Is(err, notificationserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid notification ID format")
		}
		return apperrors.Internal("Failed to retrieve notification", err)
	}
	if notification.UserID != actorID {
		return apperrors.NotFoundWithID("Notification", id)
	}

	if err := s.repo.MarkRead(ctx, id); err != nil {
		if errors.Is(err, notificationserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Notification", id)
		}
		return apperrors.Internal("Failed to mark notification read", err)
	}

	return nil
}
