package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	authservice "roomly/internal/auth/service"
	bookingserrors "roomly/internal/bookings/errors"
	"roomly/internal/bookings/repository"
	"roomly/internal/bookings/validator"
	notificationsservice "roomly/internal/notifications/service"
	roomsservice "roomly/internal/rooms/service"
	usersservice "roomly/internal/users/service"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	Create(ctx context.Context, actorID string, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.BookingWithRoom, int64, error)
	GetAll(ctx context.Context, actorID string, limit int, offset int64) ([]*model.BookingWithRoom, int64, error)
	CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
	UpdateStatus(ctx context.Context, actorID string, id string, status model.BookingStatus) error
	CancelByOwner(ctx context.Context, actorID string, id string) error
}

type bookingService struct {
	repo          repository.BookingRepository
	lockRepo      repository.BookingLockRepository
	rooms         roomsservice.RoomService
	users         usersservice.UserService
	notifications notificationsservice.NotificationService
	roles         authservice.RoleService
	validator     *validator.BookingValidator
	cfg           *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	rooms roomsservice.RoomService,
	users usersservice.UserService,
	notifications notificationsservice.NotificationService,
	roles authservice.RoleService,
	bookingValidator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:          repo,
		lockRepo:      lockRepo,
		rooms:         rooms,
		users:         users,
		notifications: notifications,
		roles:         roles,
		validator:     bookingValidator,
		cfg:           cfg,
	}
}

// Create books a room for the actor. The availability check and the insert
// run under a per-room advisory lock inside a transaction, so two
// overlapping requests cannot both pass the check.
func (s *bookingService) Create(ctx context.Context, actorID string, booking *model.Booking) error {
	booking.UserID = actorID
	booking.Status = model.BookingPending
	booking.CheckIn = booking.CheckIn.UTC()
	booking.CheckOut = booking.CheckOut.UTC()
	if err := s.validate(booking); err != nil {
		return err
	}

	if _, err := s.rooms.GetByID(ctx, booking.RoomID); err != nil {
		return err
	}

	lockID, err := s.acquireRoomLock(ctx, booking.RoomID)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseRoomLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyAvailable(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"user_id", booking.UserID,
		"check_in", booking.CheckIn,
		"check_out", booking.CheckOut,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

// GetByUser lists the actor's own bookings decorated with room display
// fields for the listing view.
func (s *bookingService) GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.BookingWithRoom, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByUser(ctx, userID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "user_id", userID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByUser(ctx, userID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "user_id", userID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return s.decorate(ctx, bookings, false), count, nil
}

// GetAll lists every booking for operators, decorated with both room and
// requester display fields.
func (s *bookingService) GetAll(ctx context.Context, actorID string, limit int, offset int64) ([]*model.BookingWithRoom, int64, error) {
	if _, err := s.roles.RequireRole(ctx, actorID, model.RoleManager, model.RoleAdmin); err != nil {
		return nil, 0, err
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return s.decorate(ctx, bookings, true), count, nil
}

// CheckAvailability reports whether the interval is free of live bookings
// for the room. Retrieval failures report unavailable.
func (s *bookingService) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	if roomID == "" {
		return false, apperrors.InvalidInput("Room ID cannot be empty")
	}
	if !checkIn.Before(checkOut) {
		return false, apperrors.InvalidInput("Check-in must be before check-out")
	}

	existing, err := s.repo.FindOverlapping(ctx, roomID, checkIn.UTC(), checkOut.UTC(), model.LiveStatuses())
	if err != nil {
		s.cfg.Log.Error("Availability check failed", "room_id", roomID, "error", err)
		return false, apperrors.Internal("Failed to check availability", err)
	}

	return len(existing) == 0, nil
}

// UpdateStatus applies an operator transition and notifies the booking
// owner. Notification failure does not roll back the status change.
func (s *bookingService) UpdateStatus(ctx context.Context, actorID string, id string, status model.BookingStatus) error {
	if _, err := s.roles.RequireRole(ctx, actorID, model.RoleManager, model.RoleAdmin); err != nil {
		return err
	}

	if !status.IsOperatorStatus() {
		return apperrors.InvalidInput(fmt.Sprintf(
			"Status must be one of %s, %s or %s",
			model.BookingConfirmed, model.BookingRejected, model.BookingCancelledByAdmin,
		))
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !model.CanTransition(booking.Status, status) {
		return apperrors.Conflict(fmt.Sprintf(
			"Cannot change booking status from %s to %s", booking.Status, status,
		))
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to update booking status", "id", id, "error", err)
		return apperrors.Internal("Failed to update booking status", err)
	}

	if err := s.notifications.NotifyStatusChange(ctx, booking, status); err != nil {
		s.cfg.Log.Error("Failed to notify booking owner",
			"booking_id", id,
			"user_id", booking.UserID,
			"status", status,
			"error", err,
		)
	}

	s.cfg.Log.Info("Booking status updated", "id", id, "from", booking.Status, "to", status, "actor_id", actorID)
	return nil
}

// CancelByOwner lets the booking owner withdraw a pending booking. No
// notification is produced for self-cancellation.
func (s *bookingService) CancelByOwner(ctx context.Context, actorID string, id string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if booking.UserID != actorID {
		return apperrors.Ownership("You can only cancel your own bookings")
	}

	if !model.CanTransition(booking.Status, model.BookingCancelledByUser) {
		return apperrors.Conflict(fmt.Sprintf(
			"Cannot cancel a booking in status %s", booking.Status,
		))
	}

	if err := s.repo.UpdateStatus(ctx, id, model.BookingCancelledByUser); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return apperrors.Internal("Failed to cancel booking", err)
	}

	s.cfg.Log.Info("Booking cancelled by owner", "id", id, "user_id", actorID)
	return nil
}

// --- Helpers ---

func overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

// verifyAvailable re-checks the calendar inside the transaction. Only live
// bookings block; rejected and cancelled ones free their slot.
func (s *bookingService) verifyAvailable(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindOverlapping(ctx, booking.RoomID, booking.CheckIn, booking.CheckOut, model.LiveStatuses())
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.ID == booking.ID {
			continue
		}
		if overlaps(b.CheckIn, b.CheckOut, booking.CheckIn, booking.CheckOut) {
			return apperrors.Conflict(fmt.Sprintf(
				"Room is already booked for %s - %s",
				b.CheckIn.Format(time.RFC3339),
				b.CheckOut.Format(time.RFC3339),
			))
		}
	}
	return nil
}

// acquireRoomLock serializes booking creation per room. Returns a conflict
// error when another request holds the lock.
func (s *bookingService) acquireRoomLock(ctx context.Context, roomID string) (string, error) {
	lockID := fmt.Sprintf("room:%s", roomID)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.LockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This room is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseRoomLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

// decorate joins room and, for operator views, requester display fields onto
// bookings. Lookup failures leave fallback values in place rather than
// failing the listing.
func (s *bookingService) decorate(ctx context.Context, bookings []*model.Booking, withUsers bool) []*model.BookingWithRoom {
	out := make([]*model.BookingWithRoom, 0, len(bookings))

	var userInfo map[string]*model.UserInfo
	if withUsers {
		ids := make([]string, 0, len(bookings))
		for _, b := range bookings {
			ids = append(ids, b.UserID)
		}
		userInfo = s.users.GetUsersInfo(ctx, ids)
	}

	rooms := make(map[string]*model.Room)
	for _, b := range bookings {
		decorated := &model.BookingWithRoom{
			Booking:     *b,
			RoomName:    "Unknown room",
			RoomAddress: "Not available",
		}

		room, ok := rooms[b.RoomID]
		if !ok {
			var err error
			room, err = s.rooms.GetByID(ctx, b.RoomID)
			if err != nil {
				s.cfg.Log.Warn("Failed to decorate booking with room", "booking_id", b.ID, "room_id", b.RoomID, "error", err)
				room = nil
			}
			rooms[b.RoomID] = room
		}
		if room != nil {
			decorated.RoomName = room.Name
			decorated.RoomAddress = room.Address
			decorated.RoomLocation = room.Location
			decorated.PricePerHour = room.PricePerHour
			decorated.RoomImage = room.Image
		}

		if withUsers {
			if info, ok := userInfo[b.UserID]; ok && info != nil {
				decorated.UserName = info.Name
				decorated.UserEmail = info.Email
			}
		}

		out = append(out, decorated)
	}

	return out
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}
