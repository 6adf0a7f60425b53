package service

import (
	"context"
	"errors"
	"sync"

	authservice "roomly/internal/auth/service"
	roomserrors "roomly/internal/rooms/errors"
	"roomly/internal/rooms/repository"
	"roomly/internal/rooms/validator"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
	"roomly/pkg/sanitizer"
)

type RoomService interface {
	Create(ctx context.Context, actorID string, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error)
	GetByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Room, int64, error)
	Update(ctx context.Context, actorID string, id string, updates *model.RoomUpdate) error
	Delete(ctx context.Context, actorID string, id string) error
}

type roomService struct {
	repo      repository.RoomRepository
	roles     authservice.RoleService
	validator *validator.RoomValidator
	cfg       *config.Config
}

func NewRoomService(
	repo repository.RoomRepository,
	roles authservice.RoleService,
	roomValidator *validator.RoomValidator,
	cfg *config.Config,
) RoomService {
	return &roomService{
		repo:      repo,
		roles:     roles,
		validator: roomValidator,
		cfg:       cfg,
	}
}

func (s *roomService) Create(ctx context.Context, actorID string, room *model.Room) error {
	if _, err := s.roles.RequireRole(ctx, actorID, model.RoleManager, model.RoleAdmin); err != nil {
		return err
	}

	room.OwnerID = actorID
	s.sanitize(room)
	if err := s.validate(room); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, room); err != nil {
		s.cfg.Log.Error("Failed to create room", "error", err)
		return apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created", "id", room.ID, "owner_id", room.OwnerID)
	return nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}

	return room, nil
}

func (s *roomService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Room, int64, error) {
	var count int64
	var rooms []*model.Room
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count rooms", "error", errCount)
			errCount = apperrors.Internal("Failed to count rooms", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		rooms, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list rooms", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve rooms", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return rooms, count, nil
}

func (s *roomService) GetByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Room, int64, error) {
	if ownerID == "" {
		return nil, 0, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	var count int64
	var rooms []*model.Room
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByOwner(ctx, ownerID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count rooms by owner", "owner_id", ownerID, "error", errCount)
			errCount = apperrors.Internal("Failed to count rooms", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		rooms, errFind = s.repo.FindByOwner(ctx, ownerID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list rooms by owner", "owner_id", ownerID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve rooms", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return rooms, count, nil
}

func (s *roomService) Update(ctx context.Context, actorID string, id string, updates *model.RoomUpdate) error {
	role, err := s.roles.RequireRole(ctx, actorID, model.RoleManager, model.RoleAdmin)
	if err != nil {
		return err
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.roles.CanMutateResource(ctx, role, actorID, existing.OwnerID) {
		return s.mutationDenied(role)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Room update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeRoomUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Room", id)
		}
		s.cfg.Log.Error("Failed to update room", "id", id, "error", err)
		return apperrors.Internal("Failed to update room", err)
	}

	s.cfg.Log.Info("Room updated", "id", id, "actor_id", actorID)
	return nil
}

func (s *roomService) Delete(ctx context.Context, actorID string, id string) error {
	role, err := s.roles.RequireRole(ctx, actorID, model.RoleManager, model.RoleAdmin)
	if err != nil {
		return err
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.roles.CanMutateResource(ctx, role, actorID, existing.OwnerID) {
		return s.mutationDenied(role)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Room", id)
		}
		s.cfg.Log.Error("Failed to delete room", "id", id, "error", err)
		return apperrors.Internal("Failed to delete room", err)
	}

	s.cfg.Log.Info("Room deleted", "id", id, "actor_id", actorID)
	return nil
}

// --- Helpers ---

func (s *roomService) mutationDenied(role model.Role) error {
	switch role {
	case model.RoleAdmin:
		return apperrors.Ownership("Admins can only modify rooms created by admins or managers")
	case model.RoleManager:
		return apperrors.Ownership("Managers can only modify their own rooms")
	default:
		return apperrors.Ownership("You can only modify your own rooms")
	}
}

func (s *roomService) sanitize(room *model.Room) {
	room.Name = sanitizer.SanitizeDisplayText(room.Name)
	room.Address = sanitizer.SanitizeDisplayText(room.Address)
	room.Description = sanitizer.SanitizeDisplayText(room.Description)
	room.Availability = sanitizer.SanitizeDisplayText(room.Availability)
	room.Location = sanitizer.SanitizeDisplayText(room.Location)
	room.Amenities = sanitizer.SanitizeDisplayText(room.Amenities)
}

func (s *roomService) mergeRoomUpdates(existing *model.Room, updates *model.RoomUpdate) *model.Room {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Address != "" {
		merged.Address = updates.Address
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.Availability != "" {
		merged.Availability = updates.Availability
	}
	if updates.PricePerHour != nil {
		merged.PricePerHour = *updates.PricePerHour
	}
	if updates.Location != nil {
		merged.Location = *updates.Location
	}
	if updates.Sqft != nil {
		merged.Sqft = *updates.Sqft
	}
	if updates.Capacity != nil {
		merged.Capacity = *updates.Capacity
	}
	if updates.Amenities != nil {
		merged.Amenities = *updates.Amenities
	}
	if updates.Image != nil {
		merged.Image = *updates.Image
	}

	return &merged
}

func (s *roomService) validate(room *model.Room) error {
	if err := s.validator.Validate(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "error", err)
		return apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}
