package model

import "time"

type BookingStatus string

const (
	BookingPending          BookingStatus = "pending"
	BookingConfirmed        BookingStatus = "confirmed"
	BookingRejected         BookingStatus = "rejected"
	BookingCancelledByUser  BookingStatus = "cancelled_by_user"
	BookingCancelledByAdmin BookingStatus = "cancelled_by_admin"
)

// Live statuses occupy a room's calendar; terminal statuses do not.
func LiveStatuses() []BookingStatus {
	return []BookingStatus{BookingPending, BookingConfirmed}
}

func (s BookingStatus) IsLive() bool {
	return s == BookingPending || s == BookingConfirmed
}

func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingRejected, BookingCancelledByUser, BookingCancelledByAdmin:
		return true
	}
	return false
}

// Operator transitions may only target these statuses; cancelled_by_user is
// reserved for the booking owner.
func (s BookingStatus) IsOperatorStatus() bool {
	switch s {
	case BookingConfirmed, BookingRejected, BookingCancelledByAdmin:
		return true
	}
	return false
}

// CanTransition reports whether a booking may move from one status to
// another. No transition leaves a terminal status.
func CanTransition(from, to BookingStatus) bool {
	switch from {
	case BookingPending:
		switch to {
		case BookingConfirmed, BookingRejected, BookingCancelledByAdmin, BookingCancelledByUser:
			return true
		}
	case BookingConfirmed:
		return to == BookingCancelledByAdmin
	}
	return false
}

type Booking struct {
	ID        string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID    string        `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	RoomID    string        `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	CheckIn   time.Time     `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut  time.Time     `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	Status    BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending confirmed rejected cancelled_by_user cancelled_by_admin"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingWithRoom decorates a booking with display fields of its room for
// listing views. Room lookup failures leave the fallback values in place.
type BookingWithRoom struct {
	Booking      `bson:",inline"`
	RoomName     string  `json:"room_name"`
	RoomAddress  string  `json:"room_address"`
	RoomLocation string  `json:"room_location,omitempty"`
	PricePerHour float64 `json:"price_per_hour"`
	RoomImage    string  `json:"room_image,omitempty"`
	UserName     string  `json:"user_name,omitempty"`
	UserEmail    string  `json:"user_email,omitempty"`
}
