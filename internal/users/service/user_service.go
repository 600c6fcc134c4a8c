package service

import (
	"context"
	"errors"

	authdomain "github.com/modelify-app/modelify-backend/internal/auth/domain"
	"github.com/modelify-app/modelify-backend/internal/users/domain"
	"github.com/modelify-app/modelify-backend/internal/users/repository"
)

// UserService owns account rows and role resolution.
type UserService struct {
	repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Create inserts a signup-synced user row. The role is forced into the two
// self-assignable levels; "admin" coming from a client is never honored.
func (s *UserService) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	role := req.Role
	if role != domain.RoleParticulier && role != domain.RoleProfessionnel {
		role = domain.RoleParticulier
	}

	user := &domain.User{
		ID:            req.ID,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Role:          role,
		CompanyName:   req.CompanyName,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		PostalCode:    req.PostalCode,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Profile returns the caller's row. A missing row is not an error here: the
// auth provider may know users the database has not seen yet, so we answer
// with a minimal synthesized profile at the lowest trust level.
func (s *UserService) Profile(ctx context.Context, identity *authdomain.Identity) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, identity.ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return &domain.User{
			ID:    identity.ID,
			Email: identity.Email,
			Role:  domain.RoleParticulier,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RoleOf resolves a user's role, defaulting to the lowest privilege when no
// row exists.
func (s *UserService) RoleOf(ctx context.Context, userID string) (string, error) {
	role, err := s.repo.RoleOf(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.RoleParticulier, nil
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

// RequireAdmin fails unless a confirmed admin row exists for the caller.
// Unlike RoleOf, absence of a row is an authorization failure here.
func (s *UserService) RequireAdmin(ctx context.Context, userID string) error {
	role, err := s.repo.RoleOf(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.ErrForbidden
	}
	if err != nil {
		return err
	}
	if role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}

// IsAdmin reports whether a confirmed admin row exists for the caller.
func (s *UserService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	err := s.RequireAdmin(ctx, userID)
	if errors.Is(err, domain.ErrForbidden) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns all users; admin only.
func (s *UserService) List(ctx context.Context, callerID string) ([]domain.User, error) {
	if err := s.RequireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}
