//go:build !integration

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketSense/domain"
	"marketSense/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "identity-test-secret"

func invokeIdentity(t *testing.T, req *http.Request) (domain.Identity, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured domain.Identity
	handler := IdentityMiddleware()(func(c echo.Context) error {
		captured = IdentityFrom(c)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	return captured, rec
}

func signedToken(t *testing.T, userID string, expiresAt time.Time) string {
	t.Helper()

	claims := utils.Claims{
		UserID: userID,
		Role:   "buyer",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestIdentityMiddleware_BearerTokenResolvesUser(t *testing.T) {
	utils.Init(testSecret)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "42", time.Now().Add(time.Hour)))

	ident, rec := invokeIdentity(t, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ident != domain.UserIdentity(42) {
		t.Fatalf("expected user identity 42, got %+v", ident)
	}
	if got := ident.Key(); got != "user:42" {
		t.Fatalf("expected key user:42, got %q", got)
	}
}

func TestIdentityMiddleware_SessionTokenResolvesAnonymous(t *testing.T) {
	utils.Init(testSecret)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Session-Token", "sess-abc")

	ident, rec := invokeIdentity(t, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ident != domain.SessionIdentity("sess-abc") {
		t.Fatalf("expected session identity, got %+v", ident)
	}
}

func TestIdentityMiddleware_MissingCredentialsRejected(t *testing.T) {
	utils.Init(testSecret)

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	ident, rec := invokeIdentity(t, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !ident.IsZero() {
		t.Fatalf("expected no identity, got %+v", ident)
	}
}

func TestIdentityMiddleware_ExpiredTokenRejected(t *testing.T) {
	utils.Init(testSecret)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "42", time.Now().Add(-time.Hour)))

	ident, rec := invokeIdentity(t, req)

	if rec.Code != http.StatusUnauthorized && rec.Code != http.StatusForbidden {
		t.Fatalf("expected rejection, got %d", rec.Code)
	}
	if !ident.IsZero() {
		t.Fatalf("expected no identity, got %+v", ident)
	}
}

func TestIdentityMiddleware_MalformedHeaderRejected(t *testing.T) {
	utils.Init(testSecret)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")

	_, rec := invokeIdentity(t, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
