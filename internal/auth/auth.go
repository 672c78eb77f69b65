package auth

import (
	"errors"
	"time"

	"github.com/frahmantamala/tenant-management/internal/rbac"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetActor(userID int64) (*rbac.Actor, error)
	ForgotPassword(dto ForgotPasswordDTO) error
	ResetPassword(dto ResetPasswordDTO) error
	VerifyEmail(token string) error
	HashPassword(password string) (string, error)
}

type RepositoryAPI interface {
	GetCredentialsByEmail(email string) (passwordHash string, userID int64, disabled bool, err error)
	GetActor(userID int64) (*rbac.Actor, error)
	SetResetToken(email, token string, expiresAt time.Time) (found bool, err error)
	ConsumeResetToken(token string) (userID int64, expiresAt time.Time, err error)
	UpdatePassword(userID int64, passwordHash string) error
	ConsumeVerifyToken(token string) (userID int64, expiresAt time.Time, err error)
	ActivateUser(userID int64) error
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID string, email string) (token string, err error)
	GenerateRefreshToken(userID string, email string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserDisabled       = errors.New("user is disabled")
)

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// HashPassword is the single hashing entry point: user creation, invitation
// acceptance and password reset all hash at the call site, never via ORM
// lifecycle hooks.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
