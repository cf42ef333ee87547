package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rajithaprasad/hardwareProject/internal/config"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/repository"
	"github.com/rajithaprasad/hardwareProject/internal/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues and checks credentials
type AuthService struct {
	users     *repository.UserRepository
	jwt       config.JWTConfig
	bootstrap config.BootstrapConfig
	logger    *zap.Logger
}

func NewAuthService(users *repository.UserRepository, jwtCfg config.JWTConfig, bootstrap config.BootstrapConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, jwt: jwtCfg, bootstrap: bootstrap, logger: logger.Named("auth")}
}

// LoginRequest login.php body
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult is the login.php success body.
type LoginResult struct {
	Success   bool               `json:"success"`
	User      entity.SessionUser `json:"user"`
	Token     string             `json:"token"`
	ExpiresIn int64              `json:"expiresIn"`
}

// Login checks the password and issues an access token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Info("login rejected", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.logger.Info("login rejected", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Success: true,
		User: entity.SessionUser{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
			FullName: user.FullName,
		},
		Token:     token,
		ExpiresIn: int64(s.jwt.AccessTokenExpire.Seconds()),
	}, nil
}

// IssueToken signs an HS256 access token carrying the user's role.
func (s *AuthService) IssueToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.FullName,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.jwt.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwt.AccessTokenExpire)),
			ID:        uuid.New().String(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwt.Secret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// EnsureBootstrapUser seeds the first manager when the users table is empty.
func (s *AuthService) EnsureBootstrapUser(ctx context.Context) error {
	if s.bootstrap.Username == "" || s.bootstrap.Password == "" {
		return nil
	}
	count, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.bootstrap.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	now := time.Now()
	user := &entity.User{
		ID:           newID(),
		Username:     s.bootstrap.Username,
		FullName:     s.bootstrap.FullName,
		Role:         entity.RoleManager,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("create bootstrap user: %w", err)
	}
	s.logger.Info("bootstrap manager created", zap.String("username", user.Username))
	return nil
}
