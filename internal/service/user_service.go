package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tunefolio/tunefolio/internal/domain"
)

type RegisterUserReq struct {
	SpotifyID string `json:"spotify_id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type UpdateUserReq struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UserServiceInterface is what the user handler depends on.
type UserServiceInterface interface {
	Register(ctx context.Context, req RegisterUserReq) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateUserReq) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserService covers the administrative user operations. These touch
// the User entity only and sit outside the authorization flow.
type UserService struct {
	repo domain.UserRepository
}

func NewUserService(repo domain.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a user record ahead of any OAuth authorization. The
// spotify id is required; email and password are optional and the
// password is stored bcrypt-hashed.
func (s *UserService) Register(ctx context.Context, req RegisterUserReq) (*domain.User, error) {
	if req.SpotifyID == "" {
		return nil, errors.New("missing required fields")
	}

	user := &domain.User{
		ID:        uuid.New(),
		SpotifyID: req.SpotifyID,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash := string(hashed)
		user.PasswordHash = &hash
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns every registered user.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update of email and password. A nil field
// leaves the stored value alone.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserReq) error {
	var passwordHash *string
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		hash := string(hashed)
		passwordHash = &hash
	}
	return s.repo.UpdateProfile(ctx, id, req.Email, passwordHash)
}

// Delete removes a user and, through the schema cascade, their stored
// favorites.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
