package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"transcatalog/internal/cache"
	"transcatalog/internal/handler"
	transport "transcatalog/internal/http"
	"transcatalog/internal/repository"
	"transcatalog/internal/repository/testutil"
	"transcatalog/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t     *testing.T
	e     *echo.Echo
	token string
}

func (c *apiClient) call(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if c.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	return rec
}

func newTestServer(t *testing.T) *apiClient {
	t.Helper()
	conn := testutil.NewTestDB(t)
	ctx := context.Background()

	translations := repository.NewTranslationRepository(conn)
	auth, err := service.NewAuthService(ctx, repository.NewUserRepository(conn), repository.NewSettingsRepository(conn), "router-secret", time.Hour)
	require.NoError(t, err)
	require.NoError(t, auth.EnsureUser(ctx, "admin@example.com", "secret-pass"))

	svc := service.NewTranslationService(translations, cache.NewExportCache(translations))
	e := transport.NewRouter(
		handler.NewTranslationHandler(svc),
		handler.NewAuthHandler(auth),
		auth,
		transport.NewIPRateLimiter(100, 100),
	)
	return &apiClient{t: t, e: e}
}

func TestRouter_EndToEnd(t *testing.T) {
	c := newTestServer(t)

	rec := c.call(http.MethodGet, "/api/translations/export?locale=en", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec = c.call(http.MethodPost, "/api/login", `{"email":"admin@example.com","password":"secret-pass"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	c.token = login.Token

	rec = c.call(http.MethodPost, "/api/translations", `{"key":"greeting","locale":"en","content":"Hello"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = c.call(http.MethodGet, "/api/translations/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `{"greeting":"Hello"}`, rec.Body.String())

	rec = c.call(http.MethodPut, "/api/translations/"+created.ID, `{"content":"Hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.call(http.MethodGet, "/api/translations/export?locale=en", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `{"greeting":"Hi"}`, rec.Body.String())

	rec = c.call(http.MethodGet, "/api/translations/search?key=greet", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"total":1`)

	rec = c.call(http.MethodDelete, "/api/translations/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.call(http.MethodGet, "/api/translations/"+created.ID, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.call(http.MethodPost, "/api/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.call(http.MethodGet, "/api/me", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
