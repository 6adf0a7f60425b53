package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	bookingserrors "roomly/internal/bookings/errors"
	"roomly/internal/bookings/validator"
	"roomly/pkg/config"
	mongotx "roomly/pkg/db/mongo"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/logger"
	"roomly/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockBookingRepository struct {
	createFunc          func(ctx context.Context, booking *model.Booking) error
	findByIDFunc        func(ctx context.Context, id string) (*model.Booking, error)
	findByUserFunc      func(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, error)
	findOverlappingFunc func(ctx context.Context, roomID string, checkIn, checkOut time.Time, statuses []model.BookingStatus) ([]*model.Booking, error)
	updateStatusFunc    func(ctx context.Context, id string, status model.BookingStatus) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, error) {
	if m.findByUserFunc != nil {
		return m.findByUserFunc(ctx, userID, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time, statuses []model.BookingStatus) ([]*model.Booking, error) {
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, roomID, checkIn, checkOut, statuses)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepository struct {
	createFunc func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
	deleted    []string
}

func (m *mockLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID string) error {
	m.deleted = append(m.deleted, lockID)
	return nil
}

type mockRoomService struct {
	getByIDFunc func(ctx context.Context, id string) (*model.Room, error)
}

func (m *mockRoomService) Create(ctx context.Context, actorID string, room *model.Room) error {
	return nil
}

func (m *mockRoomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Room{ID: id, Name: "Room", Address: "Addr"}, nil
}

func (m *mockRoomService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error) {
	return nil, 0, nil
}

func (m *mockRoomService) GetByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Room, int64, error) {
	return nil, 0, nil
}

func (m *mockRoomService) Update(ctx context.Context, actorID string, id string, updates *model.RoomUpdate) error {
	return nil
}

func (m *mockRoomService) Delete(ctx context.Context, actorID string, id string) error {
	return nil
}

type mockUserService struct{}

func (m *mockUserService) GetUserInfo(ctx context.Context, userID string) *model.UserInfo {
	return &model.UserInfo{ID: userID, Name: "User", Email: "user@example.com"}
}

func (m *mockUserService) GetUsersInfo(ctx context.Context, userIDs []string) map[string]*model.UserInfo {
	out := make(map[string]*model.UserInfo, len(userIDs))
	for _, id := range userIDs {
		out[id] = m.GetUserInfo(ctx, id)
	}
	return out
}

type mockNotificationService struct {
	notified []model.BookingStatus
	failWith error
}

func (m *mockNotificationService) NotifyStatusChange(ctx context.Context, booking *model.Booking, status model.BookingStatus) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.notified = append(m.notified, status)
	return nil
}

func (m *mockNotificationService) ListUnread(ctx context.Context, userID string, limit int, offset int64) ([]*model.Notification, int64, error) {
	return nil, 0, nil
}

func (m *mockNotificationService) MarkRead(ctx context.Context, actorID, id string) error {
	return nil
}

type mockRoleService struct {
	role model.Role
}

func (m *mockRoleService) ResolveRole(ctx context.Context, userID string) model.Role {
	return m.role
}

func (m *mockRoleService) RequireRole(ctx context.Context, userID string, allowed ...model.Role) (model.Role, error) {
	if !m.role.AtLeast(allowed...) {
		return "", apperrors.Forbidden("Insufficient permissions")
	}
	return m.role, nil
}

func (m *mockRoleService) OperatorIDs(ctx context.Context) []string {
	return nil
}

func (m *mockRoleService) CanMutateResource(ctx context.Context, role model.Role, actorID, ownerID string) bool {
	return actorID == ownerID
}

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

const (
	testUserID  = "507f1f77bcf86cd799439011"
	testOtherID = "507f1f77bcf86cd799439012"
	testRoomID  = "507f191e810c19729de860ea"
)

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
		LockTTL:      10 * time.Second,
	}
}

type testDeps struct {
	repo          *mockBookingRepository
	locks         *mockLockRepository
	rooms         *mockRoomService
	notifications *mockNotificationService
	roles         *mockRoleService
}

func newTestService(d *testDeps) BookingService {
	if d.repo == nil {
		d.repo = &mockBookingRepository{}
	}
	if d.locks == nil {
		d.locks = &mockLockRepository{}
	}
	if d.rooms == nil {
		d.rooms = &mockRoomService{}
	}
	if d.notifications == nil {
		d.notifications = &mockNotificationService{}
	}
	if d.roles == nil {
		d.roles = &mockRoleService{role: model.RoleUser}
	}
	cfg := testConfig()
	return NewBookingService(
		d.repo, d.locks, d.rooms, &mockUserService{}, d.notifications, d.roles,
		validator.NewBookingValidator(cfg.Log), cfg,
	)
}

func pendingRequest() *model.Booking {
	return &model.Booking{
		RoomID:   testRoomID,
		CheckIn:  time.Now().Add(24 * time.Hour).UTC(),
		CheckOut: time.Now().Add(26 * time.Hour).UTC(),
	}
}

func duplicateKeyErr() error {
	return mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000}},
	}
}

// ────────────────────────────────────────────────
// Overlap predicate
// ────────────────────────────────────────────────

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	hour := func(n int) time.Time { return base.Add(time.Duration(n) * time.Hour) }

	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"identical intervals", hour(0), hour(2), hour(0), hour(2), true},
		{"partial overlap", hour(0), hour(2), hour(1), hour(3), true},
		{"containment", hour(0), hour(4), hour(1), hour(2), true},
		{"back to back", hour(0), hour(2), hour(2), hour(4), false},
		{"back to back reversed", hour(2), hour(4), hour(0), hour(2), false},
		{"disjoint", hour(0), hour(1), hour(3), hour(4), false},
		{"one minute overlap", hour(0), hour(2).Add(time.Minute), hour(2), hour(4), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlaps(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Errorf("overlaps() = %v, want %v", got, tt.want)
			}
			// Symmetric in its argument pairs.
			if got := overlaps(tt.s2, tt.e2, tt.s1, tt.e1); got != tt.want {
				t.Errorf("overlaps() swapped = %v, want %v", got, tt.want)
			}
		})
	}
}

// ────────────────────────────────────────────────
// Availability
// ────────────────────────────────────────────────

func TestCheckAvailability_FiltersToLiveStatuses(t *testing.T) {
	var seenStatuses []model.BookingStatus
	repo := &mockBookingRepository{
		findOverlappingFunc: func(ctx context.Context, roomID string, checkIn, checkOut time.Time, statuses []model.BookingStatus) ([]*model.Booking, error) {
			seenStatuses = statuses
			return []*model.Booking{}, nil
		},
	}
	svc := newTestService(&testDeps{repo: repo})

	available, err := svc.CheckAvailability(context.Background(), testRoomID,
		time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !available {
		t.Error("expected available when no overlapping bookings")
	}

	if len(seenStatuses) != 2 {
		t.Fatalf("expected 2 live statuses in filter, got %v", seenStatuses)
	}
	for _, st := range seenStatuses {
		if st.IsTerminal() {
			t.Errorf("terminal status %s must not be part of the availability filter", st)
		}
	}
}

func TestCheckAvailability_LiveBookingBlocks(t *testing.T) {
	repo := &mockBookingRepository{
		findOverlappingFunc: func(ctx context.Context, roomID string, checkIn, checkOut time.Time, statuses []model.BookingStatus) ([]*model.Booking, error) {
			return []*model.Booking{{ID: "existing", Status: model.BookingConfirmed}}, nil
		},
	}
	svc := newTestService(&testDeps{repo: repo})

	available, err := svc.CheckAvailability(context.Background(), testRoomID,
		time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if available {
		t.Error("expected unavailable when a live booking overlaps")
	}
}

func TestCheckAvailability_FailsClosed(t *testing.T) {
	repo := &mockBookingRepository{
		findOverlappingFunc: func(ctx context.Context, roomID string, checkIn, checkOut time.Time, statuses []model.BookingStatus) ([]*model.Booking, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	svc := newTestService(&testDeps{repo: repo})

	available, err := svc.CheckAvailability(context.Background(), testRoomID,
		time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	if err == nil {
		t.Fatal("expected error when retrieval fails")
	}
	if available {
		t.Error("retrieval failure must not report the slot available")
	}
}

func TestCheckAvailability_InvalidInterval(t *testing.T) {
	svc := newTestService(&testDeps{})

	at := time.Now().Add(time.Hour)
	_, err := svc.CheckAvailability(context.Background(), testRoomID, at, at)
	if err == nil {
		t.Fatal("expected error for zero-length interval")
	}
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreate_StartsPendingOwnedByActor(t *testing.T) {
	var created *model.Booking
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			created = booking
			return nil
		},
	}
	locks := &mockLockRepository{}
	svc := newTestService(&testDeps{repo: repo, locks: locks})

	req := pendingRequest()
	req.Status = model.BookingConfirmed // must be ignored
	if err := svc.Create(context.Background(), testUserID, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created == nil {
		t.Fatal("expected booking to be persisted")
	}
	if created.Status != model.BookingPending {
		t.Errorf("expected pending status, got %s", created.Status)
	}
	if created.UserID != testUserID {
		t.Errorf("expected owner %s, got %s", testUserID, created.UserID)
	}
	if len(locks.deleted) != 1 {
		t.Errorf("expected the advisory lock to be released, deletes: %v", locks.deleted)
	}
}

func TestCreate_OverlapInsideTransaction(t *testing.T) {
	createCalled := false
	repo := &mockBookingRepository{
		findOverlappingFunc: func(ctx context.Context, roomID string, checkIn, checkOut time.Time, statuses []model.BookingStatus) ([]*model.Booking, error) {
			return []*model.Booking{{
				ID:       "existing",
				CheckIn:  checkIn,
				CheckOut: checkOut,
				Status:   model.BookingPending,
			}}, nil
		},
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			createCalled = true
			return nil
		},
	}
	svc := newTestService(&testDeps{repo: repo})

	err := svc.Create(context.Background(), testUserID, pendingRequest())
	if err == nil {
		t.Fatal("expected conflict for overlapping booking")
	}
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}
	if createCalled {
		t.Error("booking must not be inserted when the slot is taken")
	}
}

func TestCreate_LockConflict(t *testing.T) {
	locks := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
			return nil, duplicateKeyErr()
		},
	}
	createCalled := false
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			createCalled = true
			return nil
		},
	}
	svc := newTestService(&testDeps{repo: repo, locks: locks})

	err := svc.Create(context.Background(), testUserID, pendingRequest())
	if err == nil {
		t.Fatal("expected conflict when another request holds the lock")
	}
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}
	if createCalled {
		t.Error("booking must not be inserted without the lock")
	}
}

func TestCreate_LocksPerRoom(t *testing.T) {
	var lockID string
	locks := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
			lockID = lock.ID
			return lock, nil
		},
	}
	svc := newTestService(&testDeps{locks: locks})

	if err := svc.Create(context.Background(), testUserID, pendingRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "room:" + testRoomID
	if lockID != want {
		t.Errorf("expected lock ID %q, got %q", want, lockID)
	}
}

func TestCreate_PastCheckInRejected(t *testing.T) {
	svc := newTestService(&testDeps{})

	req := pendingRequest()
	req.CheckIn = time.Now().Add(-time.Hour)
	req.CheckOut = time.Now().Add(time.Hour)
	err := svc.Create(context.Background(), testUserID, req)
	if err == nil {
		t.Fatal("expected validation error for past check-in")
	}
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreate_CheckOutBeforeCheckIn(t *testing.T) {
	svc := newTestService(&testDeps{})

	req := pendingRequest()
	req.CheckIn, req.CheckOut = req.CheckOut, req.CheckIn
	err := svc.Create(context.Background(), testUserID, req)
	if err == nil {
		t.Fatal("expected validation error for inverted interval")
	}
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Operator transitions
// ────────────────────────────────────────────────

func existingBooking(status model.BookingStatus) *model.Booking {
	return &model.Booking{
		ID:       "64f1f77bcf86cd7994390abc",
		UserID:   testUserID,
		RoomID:   testRoomID,
		CheckIn:  time.Now().Add(24 * time.Hour),
		CheckOut: time.Now().Add(26 * time.Hour),
		Status:   status,
	}
}

func TestUpdateStatus_ConfirmNotifiesOnce(t *testing.T) {
	booking := existingBooking(model.BookingPending)
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	notifications := &mockNotificationService{}
	svc := newTestService(&testDeps{
		repo:          repo,
		notifications: notifications,
		roles:         &mockRoleService{role: model.RoleManager},
	})

	err := svc.UpdateStatus(context.Background(), testOtherID, booking.ID, model.BookingConfirmed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifications.notified) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(notifications.notified))
	}
	if notifications.notified[0] != model.BookingConfirmed {
		t.Errorf("expected confirmed notification, got %s", notifications.notified[0])
	}
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	booking := existingBooking(model.BookingRejected)
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, status model.BookingStatus) error {
			t.Error("status must not be written for an illegal transition")
			return nil
		},
	}
	notifications := &mockNotificationService{}
	svc := newTestService(&testDeps{
		repo:          repo,
		notifications: notifications,
		roles:         &mockRoleService{role: model.RoleAdmin},
	})

	err := svc.UpdateStatus(context.Background(), testOtherID, booking.ID, model.BookingConfirmed)
	if err == nil {
		t.Fatal("expected conflict for rejected -> confirmed")
	}
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}
	if len(notifications.notified) != 0 {
		t.Errorf("expected no notification, got %d", len(notifications.notified))
	}
}

func TestUpdateStatus_RejectsOwnerOnlyStatus(t *testing.T) {
	booking := existingBooking(model.BookingPending)
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, status model.BookingStatus) error {
			t.Errorf("status %s must not be written through the operator path", status)
			return nil
		},
	}
	notifications := &mockNotificationService{}
	svc := newTestService(&testDeps{
		repo:          repo,
		notifications: notifications,
		roles:         &mockRoleService{role: model.RoleManager},
	})

	err := svc.UpdateStatus(context.Background(), testOtherID, booking.ID, model.BookingCancelledByUser)
	if err == nil {
		t.Fatal("expected denial, cancelled_by_user is reserved for the owner")
	}
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected invalid input error, got %v", err)
	}
	if len(notifications.notified) != 0 {
		t.Errorf("expected no notification, got %d", len(notifications.notified))
	}

	// The owner path remains the only way into cancelled_by_user.
	var written model.BookingStatus
	repo.updateStatusFunc = func(ctx context.Context, id string, status model.BookingStatus) error {
		written = status
		return nil
	}
	if err := svc.CancelByOwner(context.Background(), testUserID, booking.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written != model.BookingCancelledByUser {
		t.Errorf("expected cancelled_by_user, got %s", written)
	}
}

func TestUpdateStatus_RequiresOperator(t *testing.T) {
	svc := newTestService(&testDeps{roles: &mockRoleService{role: model.RoleUser}})

	err := svc.UpdateStatus(context.Background(), testUserID, "64f1f77bcf86cd7994390abc", model.BookingConfirmed)
	if err == nil {
		t.Fatal("expected denial for plain users")
	}
	if !apperrors.IsCode(err, apperrors.CodeForbidden) {
		t.Errorf("expected forbidden error, got %v", err)
	}
}

func TestUpdateStatus_NotificationFailureDoesNotFail(t *testing.T) {
	booking := existingBooking(model.BookingPending)
	updated := false
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, status model.BookingStatus) error {
			updated = true
			return nil
		},
	}
	notifications := &mockNotificationService{failWith: fmt.Errorf("notification store down")}
	svc := newTestService(&testDeps{
		repo:          repo,
		notifications: notifications,
		roles:         &mockRoleService{role: model.RoleManager},
	})

	err := svc.UpdateStatus(context.Background(), testOtherID, booking.ID, model.BookingRejected)
	if err != nil {
		t.Fatalf("notification failure must not surface: %v", err)
	}
	if !updated {
		t.Error("expected status to be written")
	}
}

// ────────────────────────────────────────────────
// Owner cancellation
// ────────────────────────────────────────────────

func TestCancelByOwner_NonOwnerDenied(t *testing.T) {
	booking := existingBooking(model.BookingPending)
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	svc := newTestService(&testDeps{repo: repo})

	err := svc.CancelByOwner(context.Background(), testOtherID, booking.ID)
	if err == nil {
		t.Fatal("expected ownership denial")
	}
	if !apperrors.IsCode(err, apperrors.CodeOwnership) {
		t.Errorf("expected ownership error, got %v", err)
	}
}

func TestCancelByOwner_PendingSucceedsWithoutNotification(t *testing.T) {
	booking := existingBooking(model.BookingPending)
	var written model.BookingStatus
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, status model.BookingStatus) error {
			written = status
			return nil
		},
	}
	notifications := &mockNotificationService{}
	svc := newTestService(&testDeps{repo: repo, notifications: notifications})

	if err := svc.CancelByOwner(context.Background(), testUserID, booking.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written != model.BookingCancelledByUser {
		t.Errorf("expected cancelled_by_user, got %s", written)
	}
	if len(notifications.notified) != 0 {
		t.Errorf("self-cancellation must not notify, got %d", len(notifications.notified))
	}
}

func TestCancelByOwner_ConfirmedCannotBeCancelled(t *testing.T) {
	booking := existingBooking(model.BookingConfirmed)
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	svc := newTestService(&testDeps{repo: repo})

	err := svc.CancelByOwner(context.Background(), testUserID, booking.ID)
	if err == nil {
		t.Fatal("expected conflict for confirmed booking")
	}
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Listing decoration
// ────────────────────────────────────────────────

func TestGetByUser_DecoratesWithRoom(t *testing.T) {
	repo := &mockBookingRepository{
		findByUserFunc: func(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, error) {
			return []*model.Booking{existingBooking(model.BookingPending)}, nil
		},
	}
	rooms := &mockRoomService{
		getByIDFunc: func(ctx context.Context, id string) (*model.Room, error) {
			return &model.Room{ID: id, Name: "Corner Office", Address: "1 High St", PricePerHour: 30}, nil
		},
	}
	svc := newTestService(&testDeps{repo: repo, rooms: rooms})

	bookings, _, err := svc.GetByUser(context.Background(), testUserID, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(bookings))
	}
	if bookings[0].RoomName != "Corner Office" {
		t.Errorf("expected room name on the listing, got %q", bookings[0].RoomName)
	}
}

func TestGetByUser_RoomLookupFailureUsesFallback(t *testing.T) {
	repo := &mockBookingRepository{
		findByUserFunc: func(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, error) {
			return []*model.Booking{existingBooking(model.BookingPending)}, nil
		},
	}
	rooms := &mockRoomService{
		getByIDFunc: func(ctx context.Context, id string) (*model.Room, error) {
			return nil, apperrors.NotFoundWithID("Room", id)
		},
	}
	svc := newTestService(&testDeps{repo: repo, rooms: rooms})

	bookings, _, err := svc.GetByUser(context.Background(), testUserID, 10, 0)
	if err != nil {
		t.Fatalf("room lookup failure must not fail the listing: %v", err)
	}
	if bookings[0].RoomName != "Unknown room" {
		t.Errorf("expected fallback room name, got %q", bookings[0].RoomName)
	}
}

func TestGetAll_RequiresOperator(t *testing.T) {
	svc := newTestService(&testDeps{roles: &mockRoleService{role: model.RoleUser}})

	_, _, err := svc.GetAll(context.Background(), testUserID, 10, 0)
	if err == nil {
		t.Fatal("expected denial for plain users")
	}
	if !apperrors.IsCode(err, apperrors.CodeForbidden) {
		t.Errorf("expected forbidden error, got %v", err)
	}
}
