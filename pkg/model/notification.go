package model

import "time"

type NotificationType string

const (
	NotificationBookingConfirmed NotificationType = "booking_confirmed"
	NotificationBookingRejected  NotificationType = "booking_rejected"
	NotificationBookingCancelled NotificationType = "booking_cancelled"
)

type Notification struct {
	ID        string           `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID    string           `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	BookingID string           `json:"booking_id" bson:"booking_id" validate:"required,mongodb"`
	Message   string           `json:"message" bson:"message" validate:"required,max=500"`
	Type      NotificationType `json:"type" bson:"type" validate:"required,oneof=booking_confirmed booking_rejected booking_cancelled"`
	IsRead    bool             `json:"is_read" bson:"is_read"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at" validate:"omitempty"`
}
