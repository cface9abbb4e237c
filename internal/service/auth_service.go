package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"transcatalog/internal/logger"
	"transcatalog/internal/model"
	"transcatalog/internal/repository"
)

const (
	keyJWTSecret = "auth.jwt_secret"

	// DefaultTokenTTL is used when no lifetime is configured.
	DefaultTokenTTL = 24 * time.Hour

	minPasswordLength = 6
)

// AuthService verifies credentials and the tokens issued for them.
type AuthService interface {
	// Login checks the credentials and issues a signed token.
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	// ValidateToken returns the identity carried by a live, unrevoked token.
	ValidateToken(token string) (model.Identity, error)
	// Logout revokes the token until it would have expired anyway.
	Logout(ctx context.Context, token string) error
	// CurrentUser returns the user behind the identity in ctx.
	CurrentUser(ctx context.Context) (model.User, error)
	// EnsureUser creates the user when no account with that email exists.
	EnsureUser(ctx context.Context, email, password string) error
}

// AuthResponse is returned after a successful login.
type AuthResponse struct {
	Token     string
	ExpiresAt time.Time
	User      model.User
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type authService struct {
	users    repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewAuthService resolves the signing secret: the configured one when set,
// otherwise one generated on first start and kept in settings.
func NewAuthService(ctx context.Context, users repository.UserRepository, settings repository.SettingsRepository, secret string, tokenTTL time.Duration) (AuthService, error) {
	if secret == "" {
		generated, err := randomSecret()
		if err != nil {
			return nil, err
		}
		secret, err = settings.SetIfAbsent(ctx, keyJWTSecret, generated)
		if err != nil {
			return nil, fmt.Errorf("load jwt secret: %w", err)
		}
	}
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &authService{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
		revoked:  make(map[string]time.Time),
	}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, invalid("email", "is required")
	}
	if password == "" {
		return nil, invalid("password", "is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, &StoreError{Op: "get user", Err: err}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Warn("login rejected", "module", "service", "action", "login", "resource", "auth", "result", "failed", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	logger.Info("login succeeded", "module", "service", "action", "login", "resource", "auth", "result", "ok", "user_id", user.ID)
	return &AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) ValidateToken(tokenString string) (model.Identity, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return model.Identity{}, ErrUnauthorized
	}

	s.mu.Lock()
	_, revoked := s.revoked[claims.ID]
	s.mu.Unlock()
	if revoked {
		return model.Identity{}, ErrUnauthorized
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return model.Identity{}, ErrUnauthorized
	}
	return model.Identity{UserID: userID, Email: claims.Email, TokenID: claims.ID}, nil
}

func (s *authService) Logout(ctx context.Context, tokenString string) error {
	if _, err := requireIdentity(ctx); err != nil {
		return err
	}
	claims, err := s.parse(tokenString)
	if err != nil {
		return ErrUnauthorized
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, exp := range s.revoked {
		if !now.Before(exp) {
			delete(s.revoked, id)
		}
	}
	exp := now.Add(s.tokenTTL)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	s.revoked[claims.ID] = exp
	return nil
}

func (s *authService) CurrentUser(ctx context.Context) (model.User, error) {
	id, err := requireIdentity(ctx)
	if err != nil {
		return model.User{}, err
	}
	user, err := s.users.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUnauthorized
		}
		return model.User{}, &StoreError{Op: "get user", Err: err}
	}
	return user, nil
}

func (s *authService) EnsureUser(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" {
		return invalid("email", "is required")
	}
	if len(password) < minPasswordLength {
		return invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user, err := s.users.Create(ctx, email, string(hash))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	logger.Info("user created", "module", "service", "action", "create", "resource", "user", "result", "ok", "user_id", user.ID)
	return nil
}

func (s *authService) generateToken(user model.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := tokenClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *authService) parse(tokenString string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}
	if claims.ID == "" {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate jwt secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
