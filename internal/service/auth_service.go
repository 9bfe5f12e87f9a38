package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"eventlog/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL   = time.Hour
	tokenIssuer       = "eventlog"
	maxUsernameLength = 64
)

// AuthConfig holds the token signing settings.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

var (
	ErrInvalidUsername = errors.New("username must be 1-64 characters without spaces")
	ErrEmptyPassword   = errors.New("password is empty")
	ErrUserExists      = errors.New("username already taken")
	ErrBadCredentials  = errors.New("invalid credentials")
	ErrInvalidToken    = errors.New("invalid token")
)

// AuthService issues and checks the bearer tokens guarding /api/v1.
type AuthService struct {
	users repository.Authorization
	cfg   AuthConfig
}

func NewAuthService(users repository.Authorization, cfg AuthConfig) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	return &AuthService{users: users, cfg: cfg}
}

// Claims is the token payload.
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// SignUp stores a new account with a bcrypt hash of password.
func (s *AuthService) SignUp(ctx context.Context, username, password string) (int, error) {
	if err := validateUsername(username); err != nil {
		return 0, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return 0, err
	}

	id, err := s.users.Create(ctx, username, hash)
	if errors.Is(err, repository.ErrUserExists) {
		return 0, ErrUserExists
	}
	return id, err
}

// GenerateToken checks the credentials and signs a token for the account.
// Unknown users and wrong passwords both yield ErrBadCredentials.
func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return "", ErrBadCredentials
	}
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrBadCredentials
	}
	return s.issueToken(u.ID)
}

// ParseToken validates accessToken and returns the user id it was issued for.
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(s.cfg.SigningKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

func validateUsername(username string) error {
	if username == "" || len(username) > maxUsernameLength || strings.IndexFunc(username, unicode.IsSpace) >= 0 {
		return ErrInvalidUsername
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) issueToken(userID int) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.Itoa(userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})
	return token.SignedString([]byte(s.cfg.SigningKey))
}
