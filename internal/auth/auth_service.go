package auth

import (
	"context"
	"os"
	"time"

	autherrors "go-ems/internal/auth/errors"
	"go-ems/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (token string, resp UserResponse, err error)

	// Verify resolves the authenticated user from a parsed token's user ID.
	// It re-reads the user so a deleted or disabled account fails even while
	// its token is still unexpired.
	Verify(ctx context.Context, userID string) (*UserResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (string, UserResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", UserResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", UserResponse{}, autherrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", UserResponse{}, autherrors.ErrAccountDisabled
	}

	if !domain.Role(user.Role).Valid() {
		s.logger.Warn("user has unknown role", zap.String("user_id", user.ID.String()), zap.String("role", user.Role))
		return "", UserResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := s.generateToken(user, tokenTTL)
	if err != nil {
		return "", UserResponse{}, autherrors.ErrTokenGeneration
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()), zap.String("role", user.Role))

	return token, toUserResponse(user), nil
}

func (s *service) Verify(ctx context.Context, userID string) (*UserResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	if !user.IsActive {
		return nil, autherrors.ErrAccountDisabled
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *service) generateToken(user *User, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(expiry).Unix(),
	}
	if user.EmployeeID != nil {
		claims["employee_id"] = user.EmployeeID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func toUserResponse(user *User) UserResponse {
	resp := UserResponse{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}
	if user.EmployeeID != nil {
		resp.EmployeeID = user.EmployeeID.String()
	}
	return resp
}
