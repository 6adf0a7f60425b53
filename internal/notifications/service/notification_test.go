package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	notificationserrors "roomly/internal/notifications/errors"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/kafka"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

type mockNotificationRepository struct {
	created      []*model.Notification
	findByIDFunc func(ctx context.Context, id string) (*model.Notification, error)
	markReadFunc func(ctx context.Context, id string) error
}

func (m *mockNotificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	m.created = append(m.created, notification)
	return nil
}

func (m *mockNotificationRepository) FindUnreadByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Notification, error) {
	return []*model.Notification{}, nil
}

func (m *mockNotificationRepository) CountUnreadByUser(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

func (m *mockNotificationRepository) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, notificationserrors.ErrNotFound
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, id string) error {
	if m.markReadFunc != nil {
		return m.markReadFunc(ctx, id)
	}
	return nil
}

type mockPublisher struct {
	published []kafka.Message
	failWith  error
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.published = append(m.published, msg)
	return nil
}

func testConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func testBooking() *model.Booking {
	return &model.Booking{
		ID:     "64f1f77bcf86cd7994390abc",
		UserID: "507f1f77bcf86cd799439011",
		RoomID: "507f191e810c19729de860ea",
		Status: model.BookingPending,
	}
}

func TestNotifyStatusChange_Messages(t *testing.T) {
	tests := []struct {
		status      model.BookingStatus
		wantType    model.NotificationType
		wantMessage string
	}{
		{
			model.BookingConfirmed,
			model.NotificationBookingConfirmed,
			"Your booking has been confirmed! You can now enjoy your reserved room.",
		},
		{
			model.BookingRejected,
			model.NotificationBookingRejected,
			"Unfortunately, your booking has been rejected. Please try booking another room or contact support.",
		},
		{
			model.BookingCancelledByAdmin,
			model.NotificationBookingCancelled,
			"Your booking has been cancelled by administration. Please contact support for more information.",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			repo := &mockNotificationRepository{}
			svc := NewNotificationService(repo, nil, testConfig())

			booking := testBooking()
			if err := svc.NotifyStatusChange(context.Background(), booking, tt.status); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(repo.created) != 1 {
				t.Fatalf("expected exactly one notification, got %d", len(repo.created))
			}
			n := repo.created[0]
			if n.Type != tt.wantType {
				t.Errorf("expected type %s, got %s", tt.wantType, n.Type)
			}
			if n.Message != tt.wantMessage {
				t.Errorf("expected message %q, got %q", tt.wantMessage, n.Message)
			}
			if n.UserID != booking.UserID {
				t.Errorf("notification must target the booking owner, got %s", n.UserID)
			}
			if n.BookingID != booking.ID {
				t.Errorf("expected booking reference %s, got %s", booking.ID, n.BookingID)
			}
			if n.IsRead {
				t.Error("new notifications must start unread")
			}
		})
	}
}

func TestNotifyStatusChange_UserCancellationSilent(t *testing.T) {
	repo := &mockNotificationRepository{}
	svc := NewNotificationService(repo, nil, testConfig())

	if err := svc.NotifyStatusChange(context.Background(), testBooking(), model.BookingCancelledByUser); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.created) != 0 {
		t.Errorf("cancelled_by_user must not notify, got %d", len(repo.created))
	}
}

func TestNotifyStatusChange_EmitsKeyedEvent(t *testing.T) {
	repo := &mockNotificationRepository{}
	publisher := &mockPublisher{}
	svc := NewNotificationService(repo, publisher, testConfig())

	booking := testBooking()
	if err := svc.NotifyStatusChange(context.Background(), booking, model.BookingConfirmed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected one event, got %d", len(publisher.published))
	}
	msg := publisher.published[0]
	if msg.Key != booking.UserID {
		t.Errorf("expected event keyed by user ID, got %q", msg.Key)
	}
	if msg.Headers[kafka.HeaderEventType] != EventNotificationCreated {
		t.Errorf("expected event type %s, got %s", EventNotificationCreated, msg.Headers[kafka.HeaderEventType])
	}
}

func TestNotifyStatusChange_PublishFailureTolerated(t *testing.T) {
	repo := &mockNotificationRepository{}
	publisher := &mockPublisher{failWith: fmt.Errorf("broker unreachable")}
	svc := NewNotificationService(repo, publisher, testConfig())

	if err := svc.NotifyStatusChange(context.Background(), testBooking(), model.BookingConfirmed); err != nil {
		t.Fatalf("publish failure must not surface: %v", err)
	}
	if len(repo.created) != 1 {
		t.Errorf("notification must still be persisted, got %d", len(repo.created))
	}
}

func TestMarkRead_AlreadyReadSucceeds(t *testing.T) {
	repo := &mockNotificationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Notification, error) {
			return &model.Notification{
				ID:     id,
				UserID: "507f1f77bcf86cd799439011",
				IsRead: true,
			}, nil
		},
	}
	svc := NewNotificationService(repo, nil, testConfig())

	if err := svc.MarkRead(context.Background(), "507f1f77bcf86cd799439011", "64f1f77bcf86cd7994390abc"); err != nil {
		t.Fatalf("re-marking a read notification must succeed: %v", err)
	}
}

func TestMarkRead_OtherUsersHidden(t *testing.T) {
	repo := &mockNotificationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Notification, error) {
			return &model.Notification{ID: id, UserID: "507f1f77bcf86cd799439099"}, nil
		},
	}
	svc := NewNotificationService(repo, nil, testConfig())

	err := svc.MarkRead(context.Background(), "507f1f77bcf86cd799439011", "64f1f77bcf86cd7994390abc")
	if err == nil {
		t.Fatal("expected denial for another user's notification")
	}
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestMarkRead_Missing(t *testing.T) {
	svc := NewNotificationService(&mockNotificationRepository{}, nil, testConfig())

	err := svc.MarkRead(context.Background(), "507f1f77bcf86cd799439011", "64f1f77bcf86cd7994390abc")
	if err == nil {
		t.Fatal("expected not found error")
	}
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
