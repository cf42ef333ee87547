package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages staff accounts
type UserService struct {
	repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// CreateUserRequest users.php POST body
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required"`
	Password string `json:"password" binding:"required,min=4"`
}

// List returns staff accounts, optionally of one role.
func (s *UserService) List(ctx context.Context, role string) ([]entity.User, error) {
	if role != "" && !entity.ValidRole(role) {
		return nil, invalid("unknown role %q", role)
	}
	return s.repo.List(ctx, role)
}

func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*entity.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, invalid("username is required")
	}
	if !entity.ValidRole(req.Role) {
		return nil, invalid("role must be one of %s", strings.Join(entity.Roles, ", "))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now()
	user := &entity.User{
		ID:           newID(),
		Username:     username,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         req.Role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, duplicate(err, "username already exists")
	}
	return user, nil
}

// Delete removes an account. Managers cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, id string, actor Actor) error {
	if id == actor.ID {
		return invalid("you cannot delete your own account")
	}
	return missing(s.repo.Delete(ctx, id), "User")
}
