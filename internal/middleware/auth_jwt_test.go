package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

// =====================
// レスポンス確認用（any禁止）
// =====================

type mwErrorResponse struct {
	Error string `json:"error"`
}

type mwOKResponse struct {
	UserID      int64    `json:"user_id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// =====================
// helper
// =====================

func mustMakeJWT(t *testing.T, secret string, sub int64, name string, perms []string, method jwt.SigningMethod) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   sub,
		"name":  name,
		"perms": perms,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}

	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return s
}

// contextに入った値をそのまま返すhandler
func echoHandler(c echo.Context) error {
	userID, _ := c.Get(middleware.CtxUserIDKey).(int64)
	name, _ := c.Get(middleware.CtxUserNameKey).(string)
	perms, _ := c.Get(middleware.CtxPermissionsKey).([]string)
	return c.JSON(http.StatusOK, mwOKResponse{UserID: userID, Name: name, Permissions: perms})
}

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authz string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(echoHandler)(c)
	assert.NoError(t, err)
	return rec
}

// =====================
// AuthJWT
// =====================

func TestAuthJWT_ValidToken(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	token := mustMakeJWT(t, testSecret, 7, "Alice", []string{"sales.create", "sales.read"}, jwt.SigningMethodHS256)

	rec := doRequest(t, middleware.AuthJWT(cfg), "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body mwOKResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.UserID)
	assert.Equal(t, "Alice", body.Name)
	assert.Equal(t, []string{"sales.create", "sales.read"}, body.Permissions)
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	rec := doRequest(t, middleware.AuthJWT(cfg), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body mwErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unauthorized", body.Error)
}

func TestAuthJWT_NotBearer(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	token := mustMakeJWT(t, testSecret, 7, "Alice", nil, jwt.SigningMethodHS256)

	rec := doRequest(t, middleware.AuthJWT(cfg), "Basic "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_WrongSecret(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	token := mustMakeJWT(t, "other-secret", 7, "Alice", nil, jwt.SigningMethodHS256)

	rec := doRequest(t, middleware.AuthJWT(cfg), "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	claims := jwt.MapClaims{
		"sub":   int64(7),
		"name":  "Alice",
		"perms": []string{"sales.read"},
		"iat":   time.Now().Add(-2 * time.Hour).Unix(),
		"exp":   time.Now().Add(-time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	assert.NoError(t, err)

	rec := doRequest(t, middleware.AuthJWT(cfg), "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_NoPermsClaim(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	//permsなしは空の権限セットとして通す（権限チェック側で403になる）
	claims := jwt.MapClaims{
		"sub": int64(7),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	assert.NoError(t, err)

	rec := doRequest(t, middleware.AuthJWT(cfg), "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body mwOKResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Permissions)
}

// =====================
// RequirePermission
// =====================

func permRequest(t *testing.T, perms interface{}, required string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if perms != nil {
		c.Set(middleware.CtxPermissionsKey, perms)
	}

	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := middleware.RequirePermission(required)(ok)(c)
	assert.NoError(t, err)
	return rec
}

func TestRequirePermission_Allowed(t *testing.T) {
	rec := permRequest(t, []string{"sales.create", "sales.read"}, "sales.create")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequirePermission_Forbidden(t *testing.T) {
	rec := permRequest(t, []string{"sales.read"}, "sales.create")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequirePermission_NoAuthContext(t *testing.T) {
	//AuthJWTを通っていない（contextに権限が無い）
	rec := permRequest(t, nil, "sales.create")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
