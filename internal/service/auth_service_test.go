package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"strings"
	"testing"
	"time"

	"eventlog/internal/models"
	"eventlog/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

var testAuthConfig = AuthConfig{SigningKey: "test-signing-key", TokenTTL: time.Hour}

// userRepoStub is an in-memory repository.Authorization.
type userRepoStub struct {
	users  map[string]models.User
	err    error
	nextID int
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: map[string]models.User{}, nextID: 1}
}

func (r *userRepoStub) Create(ctx context.Context, username, hash string) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if _, ok := r.users[username]; ok {
		return 0, repository.ErrUserExists
	}
	id := r.nextID
	r.nextID++
	r.users[username] = models.User{ID: id, Username: username, PasswordHash: hash, CreatedAt: time.Now()}
	return id, nil
}

func (r *userRepoStub) GetByUsername(ctx context.Context, username string) (models.User, error) {
	if r.err != nil {
		return models.User{}, r.err
	}
	u, ok := r.users[username]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func TestAuthService_SignUp(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewAuthService(repo, testAuthConfig)

	id, err := svc.SignUp(context.Background(), "alice", "s3cr3t")
	if err != nil || id != 1 {
		t.Fatalf("SignUp = %d, %v", id, err)
	}
	stored := repo.users["alice"].PasswordHash
	if stored == "s3cr3t" || !strings.HasPrefix(stored, "$2") {
		t.Fatalf("password was not bcrypt-hashed: %q", stored)
	}

	if _, err := svc.SignUp(context.Background(), "alice", "other"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_SignUp_Rejects(t *testing.T) {
	cases := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"empty username", "", "pw", ErrInvalidUsername},
		{"username with space", "Vasya Pupkin", "pw", ErrInvalidUsername},
		{"username too long", strings.Repeat("a", maxUsernameLength+1), "pw", ErrInvalidUsername},
		{"blank password", "bob", "   ", ErrEmptyPassword},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newUserRepoStub()
			svc := NewAuthService(repo, testAuthConfig)

			if _, err := svc.SignUp(context.Background(), tc.username, tc.password); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(repo.users) != 0 {
				t.Fatalf("nothing should be stored, got %v", repo.users)
			}
		})
	}
}

func TestAuthService_SignUp_RepoError(t *testing.T) {
	repo := newUserRepoStub()
	repo.err = errors.New("db down")
	svc := NewAuthService(repo, testAuthConfig)

	_, err := svc.SignUp(context.Background(), "carl", "pass123")
	if err == nil || errors.Is(err, ErrUserExists) {
		t.Fatalf("expected raw repo error, got %v", err)
	}
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewAuthService(repo, testAuthConfig)
	id, err := svc.SignUp(context.Background(), "diana", "letmein")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	token, err := svc.GenerateToken(context.Background(), "diana", "letmein")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	got, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if got != id {
		t.Fatalf("user id: want %d, got %d", id, got)
	}
}

func TestAuthService_GenerateToken_BadCredentials(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewAuthService(repo, testAuthConfig)
	if _, err := svc.SignUp(context.Background(), "diana", "letmein"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	for _, tc := range []struct{ user, pass string }{
		{"diana", "wrong"},
		{"nobody", "letmein"},
	} {
		if _, err := svc.GenerateToken(context.Background(), tc.user, tc.pass); !errors.Is(err, ErrBadCredentials) {
			t.Fatalf("%s/%s: expected ErrBadCredentials, got %v", tc.user, tc.pass, err)
		}
	}
}

func TestAuthService_GenerateToken_RepoError(t *testing.T) {
	repo := newUserRepoStub()
	repo.err = errors.New("db down")
	svc := NewAuthService(repo, testAuthConfig)

	_, err := svc.GenerateToken(context.Background(), "diana", "letmein")
	if err == nil || errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func signed(t *testing.T, method jwt.SigningMethod, key any, claims *Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func claimsFor(userID int, issuer string, exp time.Time) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
		},
		UserID: userID,
	}
}

func TestAuthService_ParseToken_Rejects(t *testing.T) {
	svc := NewAuthService(newUserRepoStub(), testAuthConfig)
	key := []byte(testAuthConfig.SigningKey)
	later := time.Now().Add(time.Hour)

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey: %v", err)
	}

	cases := map[string]string{
		"malformed":       "not-a-jwt",
		"wrong key":       signed(t, jwt.SigningMethodHS256, []byte("other-key"), claimsFor(1, tokenIssuer, later)),
		"expired":         signed(t, jwt.SigningMethodHS256, key, claimsFor(1, tokenIssuer, time.Now().Add(-time.Minute))),
		"wrong issuer":    signed(t, jwt.SigningMethodHS256, key, claimsFor(1, "someone-else", later)),
		"no expiry":       signed(t, jwt.SigningMethodHS256, key, &Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer}, UserID: 1}),
		"rsa signed":      signed(t, jwt.SigningMethodRS256, rsaKey, claimsFor(1, tokenIssuer, later)),
		"hs512 not hs256": signed(t, jwt.SigningMethodHS512, key, claimsFor(1, tokenIssuer, later)),
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestNewAuthService_DefaultTTL(t *testing.T) {
	svc := NewAuthService(newUserRepoStub(), AuthConfig{SigningKey: "k"})
	if svc.cfg.TokenTTL != defaultTokenTTL {
		t.Fatalf("expected default TTL %v, got %v", defaultTokenTTL, svc.cfg.TokenTTL)
	}
}
