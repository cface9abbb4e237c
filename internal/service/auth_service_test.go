package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"transcatalog/internal/model"
	"transcatalog/internal/repository"
	"transcatalog/internal/repository/mock"
	"transcatalog/internal/repository/testutil"
	"transcatalog/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newAuthService(t *testing.T, secret string) (service.AuthService, repository.SettingsRepository) {
	t.Helper()
	conn := testutil.NewTestDB(t)
	settings := repository.NewSettingsRepository(conn)
	svc, err := service.NewAuthService(context.Background(), repository.NewUserRepository(conn), settings, secret, time.Hour)
	require.NoError(t, err)
	require.NoError(t, svc.EnsureUser(context.Background(), "Admin@Example.com", "secret-pass"))
	return svc, settings
}

func TestAuthService_LoginAndValidate(t *testing.T) {
	svc, _ := newAuthService(t, "test-secret")
	ctx := context.Background()

	resp, err := svc.Login(ctx, " admin@example.com ", "secret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "admin@example.com", resp.User.Email)

	id, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, id.UserID)
	require.Equal(t, "admin@example.com", id.Email)
	require.NotEmpty(t, id.TokenID)

	user, err := svc.CurrentUser(service.ContextWithIdentity(ctx, id))
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, user.ID)
}

func TestAuthService_LoginRejected(t *testing.T) {
	svc, _ := newAuthService(t, "test-secret")
	ctx := context.Background()

	_, err := svc.Login(ctx, "admin@example.com", "wrong")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "secret-pass")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "secret-pass")
	require.ErrorIs(t, err, service.ErrInvalid)
}

func TestAuthService_ValidateTokenRejects(t *testing.T) {
	svc, _ := newAuthService(t, "test-secret")
	other, _ := newAuthService(t, "other-secret")

	resp, err := other.Login(context.Background(), "admin@example.com", "secret-pass")
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.Token)
	require.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = svc.ValidateToken("garbage")
	require.ErrorIs(t, err, service.ErrUnauthorized)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1", "jti": "x"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(unsigned)
	require.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestAuthService_TokenExpires(t *testing.T) {
	svc, _ := newAuthService(t, "test-secret")
	now := time.Now()
	service.SetAuthClock(svc, func() time.Time { return now })

	resp, err := svc.Login(context.Background(), "admin@example.com", "secret-pass")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = svc.ValidateToken(resp.Token)
	require.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestAuthService_Logout(t *testing.T) {
	svc, _ := newAuthService(t, "test-secret")
	ctx := context.Background()

	resp, err := svc.Login(ctx, "admin@example.com", "secret-pass")
	require.NoError(t, err)
	id, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Logout(ctx, resp.Token), service.ErrUnauthenticated)
	require.NoError(t, svc.Logout(service.ContextWithIdentity(ctx, id), resp.Token))

	_, err = svc.ValidateToken(resp.Token)
	require.ErrorIs(t, err, service.ErrUnauthorized)

	// A fresh login is unaffected.
	again, err := svc.Login(ctx, "admin@example.com", "secret-pass")
	require.NoError(t, err)
	_, err = svc.ValidateToken(again.Token)
	require.NoError(t, err)
}

func TestAuthService_GeneratedSecretIsPersisted(t *testing.T) {
	conn := testutil.NewTestDB(t)
	users := repository.NewUserRepository(conn)
	settings := repository.NewSettingsRepository(conn)
	ctx := context.Background()

	first, err := service.NewAuthService(ctx, users, settings, "", 0)
	require.NoError(t, err)
	require.NoError(t, first.EnsureUser(ctx, "admin@example.com", "secret-pass"))
	resp, err := first.Login(ctx, "admin@example.com", "secret-pass")
	require.NoError(t, err)

	stored, err := settings.Get(ctx, "auth.jwt_secret")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Len(t, stored.Value, 64)

	// A restarted process signs and verifies with the same secret.
	second, err := service.NewAuthService(ctx, users, settings, "", 0)
	require.NoError(t, err)
	_, err = second.ValidateToken(resp.Token)
	require.NoError(t, err)
}

func TestAuthService_EnsureUser(t *testing.T) {
	svc, _ := newAuthService(t, "test-secret")
	ctx := context.Background()

	// Existing users keep their password.
	require.NoError(t, svc.EnsureUser(ctx, "admin@example.com", "different-pass"))
	_, err := svc.Login(ctx, "admin@example.com", "secret-pass")
	require.NoError(t, err)

	require.ErrorIs(t, svc.EnsureUser(ctx, "new@example.com", "short"), service.ErrInvalid)
	require.ErrorIs(t, svc.EnsureUser(ctx, " ", "long-enough"), service.ErrInvalid)
}

func TestAuthService_LoginStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mock.NewMockUserRepository(ctrl)
	settings := mock.NewMockSettingsRepository(ctrl)
	svc, err := service.NewAuthService(context.Background(), users, settings, "test-secret", time.Hour)
	require.NoError(t, err)

	users.EXPECT().GetByEmail(gomock.Any(), "admin@example.com").Return(model.User{}, errors.New("disk I/O error"))

	_, err = svc.Login(context.Background(), "admin@example.com", "secret-pass")
	require.ErrorIs(t, err, service.ErrStoreFailure)
}
