package service

import (
	"context"
	"errors"

	"roomly/internal/auth/session"
	"roomly/internal/groups/repository"
	userserrors "roomly/internal/users/errors"
	usersrepo "roomly/internal/users/repository"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
	"roomly/pkg/sanitizer"

	"golang.org/x/crypto/bcrypt"
)

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type Registration struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type AuthService interface {
	Register(ctx context.Context, reg *Registration) (*model.User, string, error)
	Login(ctx context.Context, creds *Credentials) (*model.User, string, error)
}

type authService struct {
	users    usersrepo.UserRepository
	groups   repository.GroupRepository
	sessions *session.Manager
	cfg      *config.Config
}

func NewAuthService(
	users usersrepo.UserRepository,
	groups repository.GroupRepository,
	sessions *session.Manager,
	cfg *config.Config,
) AuthService {
	return &authService{
		users:    users,
		groups:   groups,
		sessions: sessions,
		cfg:      cfg,
	}
}

// Register creates the user, enrolls them in the "Users" group and issues a
// session token.
func (s *authService) Register(ctx context.Context, reg *Registration) (*model.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		Name:         sanitizer.SanitizeDisplayText(reg.Name),
		Email:        sanitizer.SanitizeEmail(reg.Email),
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrEmailTaken) {
			return nil, "", apperrors.Conflict("A user with this email already exists")
		}
		s.cfg.Log.Error("Failed to create user", "error", err)
		return nil, "", apperrors.Internal("Failed to register user", err)
	}

	// Enrollment failure is not fatal: the user simply resolves to the
	// default role until enrolled.
	if group, err := s.groups.EnsureGroup(ctx, model.GroupUsers); err != nil {
		s.cfg.Log.Warn("Failed to ensure Users group", "error", err)
	} else if err := s.groups.AddMember(ctx, group.ID, user.ID); err != nil {
		s.cfg.Log.Warn("Failed to enroll user in Users group", "user_id", user.ID, "error", err)
	}

	token, err := s.sessions.Issue(user.ID, user.Email)
	if err != nil {
		s.cfg.Log.Error("Failed to issue session token", "user_id", user.ID, "error", err)
		return nil, "", apperrors.Internal("Failed to create session", err)
	}

	s.cfg.Log.Info("User registered", "user_id", user.ID)
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, creds *Credentials) (*model.User, string, error) {
	user, err := s.users.FindByEmail(ctx, sanitizer.SanitizeEmail(creds.Email))
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, "", apperrors.Unauthorized("Invalid email or password")
		}
		s.cfg.Log.Error("Failed to look up user for login", "error", err)
		return nil, "", apperrors.Internal("Failed to log in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, "", apperrors.Unauthorized("Invalid email or password")
	}

	token, err := s.sessions.Issue(user.ID, user.Email)
	if err != nil {
		s.cfg.Log.Error("Failed to issue session token", "user_id", user.ID, "error", err)
		return nil, "", apperrors.Internal("Failed to create session", err)
	}

	s.cfg.Log.Info("User logged in", "user_id", user.ID)
	return user, token, nil
}
