package service

import (
	"context"

	"roomly/internal/users/cache"
	"roomly/internal/users/repository"
	"roomly/pkg/config"
	"roomly/pkg/model"
)

type UserService interface {
	GetUserInfo(ctx context.Context, userID string) *model.UserInfo
	GetUsersInfo(ctx context.Context, userIDs []string) map[string]*model.UserInfo
}

type userService struct {
	repo  repository.UserRepository
	cache cache.Cache
	cfg   *config.Config
}

func NewUserService(repo repository.UserRepository, infoCache cache.Cache, cfg *config.Config) UserService {
	if infoCache == nil {
		infoCache = cache.NoopCache{}
	}
	return &userService{
		repo:  repo,
		cache: infoCache,
		cfg:   cfg,
	}
}

// GetUserInfo returns display info for a user. Lookup failures degrade to
// placeholder info rather than erroring; this data only decorates listings.
func (s *userService) GetUserInfo(ctx context.Context, userID string) *model.UserInfo {
	if info, ok := s.cache.Get(ctx, userID); ok {
		return info
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		s.cfg.Log.Warn("Failed to fetch user info, using fallback", "user_id", userID, "error", err)
		return fallbackInfo(userID)
	}

	info := &model.UserInfo{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
	if info.Name == "" {
		info.Name = "Unknown User"
	}
	if info.Email == "" {
		info.Email = "No email provided"
	}

	s.cache.Set(ctx, info)
	return info
}

func (s *userService) GetUsersInfo(ctx context.Context, userIDs []string) map[string]*model.UserInfo {
	infos := make(map[string]*model.UserInfo, len(userIDs))
	for _, id := range userIDs {
		if _, seen := infos[id]; seen {
			continue
		}
		infos[id] = s.GetUserInfo(ctx, id)
	}
	return infos
}

func fallbackInfo(userID string) *model.UserInfo {
	suffix := userID
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}
	return &model.UserInfo{
		ID:    userID,
		Name:  "User " + suffix,
		Email: "Not available",
	}
}
