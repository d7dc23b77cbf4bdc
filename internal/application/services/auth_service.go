package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/infrastructure/config"
	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/ports"
)

// tokenClaims represents the JWT claims
type tokenClaims struct {
	AdminID string `json:"admin_id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService handles admin authentication
type AuthService struct {
	adminRepo ports.AdminRepository
	jwtConfig config.JWTConfig
	logger    *logger.Logger
	now       Clock
}

// NewAuthService creates a new auth service
func NewAuthService(adminRepo ports.AdminRepository, jwtConfig config.JWTConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		jwtConfig: jwtConfig,
		logger:    logger.WithComponent("auth_service"),
		now:       utcNow,
	}
}

// CreateAdmin registers a back-office operator
func (s *AuthService) CreateAdmin(ctx context.Context, req ports.CreateAdminRequest) (*entities.Admin, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	verr := &entities.ValidationError{}
	if email == "" || !strings.Contains(email, "@") {
		verr.Add("email", "must be a valid email address")
	}
	if len(req.Password) < 8 {
		verr.Add("password", "must be at least 8 characters")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	admin := &entities.Admin{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Infow("Admin created successfully", "admin_id", admin.ID, "email", admin.Email)

	return admin, nil
}

// Login authenticates an admin and returns an access token
func (s *AuthService) Login(ctx context.Context, req ports.LoginRequest) (*ports.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrAdminNotFound) {
			s.logger.Warnw("Login attempt with unknown email", "email", email)
			return nil, entities.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warnw("Login attempt with invalid password", "email", email, "admin_id", admin.ID)
		return nil, entities.ErrInvalidCredentials
	}

	accessToken, err := s.generateAccessToken(admin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logger.Infow("Admin logged in successfully", "admin_id", admin.ID)

	return &ports.AuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtConfig.ExpiresIn.Seconds()),
		Admin:       admin,
	}, nil
}

// ValidateToken validates a JWT token and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*ports.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	}, jwt.WithIssuer(s.jwtConfig.Issuer), jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &ports.Claims{
		AdminID: claims.AdminID,
		Email:   claims.Email,
	}, nil
}

func (s *AuthService) generateAccessToken(admin *entities.Admin) (string, error) {
	now := s.now()
	claims := &tokenClaims{
		AdminID: admin.ID.String(),
		Email:   admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.ExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Second)),
			Issuer:    s.jwtConfig.Issuer,
			Subject:   admin.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}
