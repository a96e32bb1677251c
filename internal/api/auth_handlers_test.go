package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todostack-backend/internal/auth"
	"todostack-backend/internal/database"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	db, err := database.Open(database.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userRepo := database.NewUserRepo(db)
	sessionRepo := database.NewSessionRepo(db)
	todoRepo := database.NewTodoRepo(db)

	hasher, err := auth.NewHasher("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	codec, err := auth.NewTokenCodec("test-signing-secret", "test")
	require.NoError(t, err)
	svc := auth.NewService(userRepo, sessionRepo, hasher, codec, auth.DefaultRateLimiter())

	e := echo.New()
	RegisterRoutes(e.Group("/api"),
		NewAuthHandlers(svc, "test"),
		NewUserHandlers(userRepo, svc),
		NewTodoHandlers(todoRepo),
		svc,
	)
	return e
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

const registerBody = `{"email":"a@x.com","password":"Aa1!aaaa","confirmPassword":"Aa1!aaaa","name":"Ann"}`

func registerUser(t *testing.T, e *echo.Echo) (token string) {
	t.Helper()

	rec, env := doJSON(t, e, http.MethodPost, "/api/auth/register", registerBody, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.True(t, env.Success)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestRegisterThenMe(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	token := registerUser(t, e)

	rec, env := doJSON(t, e, http.MethodGet, "/api/auth/me", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	var user struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, "a@x.com", user.Email)

	// The envelope must never carry credential material
	assert.NotContains(t, rec.Body.String(), "password_hash")
	assert.NotContains(t, rec.Body.String(), "password_salt")
}

func TestRegister_ValidationError(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	rec, env := doJSON(t, e, http.MethodPost, "/api/auth/register",
		`{"email":"a@x.com","password":"weak","confirmPassword":"weak","name":"Ann"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestLogin_SetsCookieAndWorks(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	registerUser(t, e)

	rec, env := doJSON(t, e, http.MethodPost, "/api/auth/login",
		`{"email":"a@x.com","password":"Aa1!aaaa"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.True(t, env.Success)

	var sessionCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == auth.SessionCookieName {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie, "login must set the session cookie")
	assert.True(t, sessionCookie.HttpOnly)
	assert.NotEmpty(t, sessionCookie.Value)

	// The cookie alone authenticates /me
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(sessionCookie)
	cookieRec := httptest.NewRecorder()
	e.ServeHTTP(cookieRec, req)
	assert.Equal(t, http.StatusOK, cookieRec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	registerUser(t, e)

	rec, env := doJSON(t, e, http.MethodPost, "/api/auth/login",
		`{"email":"a@x.com","password":"Aa1!wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
}

func TestMe_WithoutToken(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	rec, env := doJSON(t, e, http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
}

func TestLogout_ThenReplay(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	token := registerUser(t, e)

	rec, _ := doJSON(t, e, http.MethodPost, "/api/auth/logout", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	// Token is signed and unexpired, but its session is gone
	rec, env := doJSON(t, e, http.MethodGet, "/api/auth/me", "", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, auth.ErrSessionExpired.Error(), env.Error)
}

func TestUpdatePassword_Endpoint(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	token := registerUser(t, e)

	rec, env := doJSON(t, e, http.MethodGet, "/api/auth/me", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var user struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))

	// Mismatched id in the body is rejected
	rec, _ = doJSON(t, e, http.MethodPost, "/api/auth/update-password",
		`{"id":"other","currentPassword":"Aa1!aaaa","newPassword":"Bb2@bbbb"}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, e, http.MethodPost, "/api/auth/update-password",
		`{"id":"`+user.ID+`","currentPassword":"Aa1!aaaa","newPassword":"Bb2@bbbb"}`, token)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Old password no longer logs in
	rec, _ = doJSON(t, e, http.MethodPost, "/api/auth/login",
		`{"email":"a@x.com","password":"Aa1!aaaa"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidateSessionEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	token := registerUser(t, e)

	rec, env := doJSON(t, e, http.MethodPost, "/api/auth/validate-session", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, _ = doJSON(t, e, http.MethodPost, "/api/auth/validate-session", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedTodoRoutesRequireAuth(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	rec, _ := doJSON(t, e, http.MethodGet, "/api/todos", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
