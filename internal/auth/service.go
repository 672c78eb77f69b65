package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/frahmantamala/tenant-management/internal/core/events"
	"github.com/frahmantamala/tenant-management/internal/rbac"
	"github.com/golang-jwt/jwt/v5"
)

// Service is the main auth service with dependencies
type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGeneratorAPI
	bus            *events.EventBus
	logger         *slog.Logger
	bcryptCost     int
	resetTokenTTL  time.Duration
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, bus *events.EventBus, logger *slog.Logger, bcryptCost int, resetTokenTTL time.Duration) *Service {
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bus:            bus,
		logger:         logger,
		bcryptCost:     bcryptCost,
		resetTokenTTL:  resetTokenTTL,
	}
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	storedHash, userID, disabled, err := s.repo.GetCredentialsByEmail(dto.Email)
	if err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	if err := VerifyPassword(storedHash, dto.Password); err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	if disabled {
		return AuthTokens{}, ErrUserDisabled
	}

	return s.issueTokens(strconv.FormatInt(userID, 10), dto.Email)
}

// RefreshTokens validates refresh token and returns a new pair
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	return s.issueTokens(claims.UserID, claims.Email)
}

func (s *Service) issueTokens(userID, email string) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, email)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, email)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// GetActor loads the acting user with role and tenancy scope.
func (s *Service) GetActor(userID int64) (*rbac.Actor, error) {
	return s.repo.GetActor(userID)
}

// ForgotPassword issues a reset token when the email matches a user. The
// caller always receives nil for unknown emails so the response cannot be
// used to enumerate accounts.
func (s *Service) ForgotPassword(dto ForgotPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	token, err := GenerateRandomToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(s.resetTokenTTL)
	found, err := s.repo.SetResetToken(dto.Email, token, expiresAt)
	if err != nil {
		s.logger.Error("failed to store reset token", "error", err)
		return nil
	}
	if !found {
		s.logger.Info("password reset requested for unknown email")
		return nil
	}

	s.bus.Publish(context.Background(), events.NewPasswordResetRequestedEvent(dto.Email, token, expiresAt))
	return nil
}

// ResetPassword redeems a reset token. Expiry is checked lazily at read
// time; there is no background sweep.
func (s *Service) ResetPassword(dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	userID, expiresAt, err := s.repo.ConsumeResetToken(dto.Token)
	if err != nil {
		return ErrInvalidToken
	}
	if time.Now().After(expiresAt) {
		return ErrTokenExpired
	}

	hash, err := HashPassword(dto.NewPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(userID, hash); err != nil {
		s.logger.Error("failed to update password", "error", err, "user_id", userID)
		return err
	}

	s.logger.Info("password reset completed", "user_id", userID)
	return nil
}

// VerifyEmail redeems an email verification token and activates the user.
func (s *Service) VerifyEmail(token string) error {
	if token == "" {
		return ErrInvalidToken
	}

	userID, expiresAt, err := s.repo.ConsumeVerifyToken(token)
	if err != nil {
		return ErrInvalidToken
	}
	if time.Now().After(expiresAt) {
		return ErrTokenExpired
	}

	if err := s.repo.ActivateUser(userID); err != nil {
		s.logger.Error("failed to activate user", "error", err, "user_id", userID)
		return err
	}

	s.logger.Info("email verified", "user_id", userID)
	return nil
}

func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.bcryptCost)
}

func (j *JWTTokenGenerator) GenerateAccessToken(userID string, email string) (string, error) {
	return j.signToken(userID, email, j.AccessTokenTTL, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(userID string, email string) (string, error) {
	return j.signToken(userID, email, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) signToken(userID, email string, ttl time.Duration, secret []byte) (string, error) {
	expiresAt := time.Now().Add(ttl)

	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		// Refresh tokens carry a lifetime beyond the access TTL; pick the
		// secret by remaining validity.
		if claims, ok := token.Claims.(*Claims); ok {
			if time.Until(claims.ExpiresAt.Time) > j.AccessTokenTTL {
				return j.RefreshTokenSecret, nil
			}
		}
		return j.AccessTokenSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// GenerateRandomToken generates a cryptographically secure random token.
// Tokens are opaque hex, compared by exact string equality.
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
