package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"beautyshop/internal/models"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret string, role models.Role, userID primitive.ObjectID, jti string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  userID.Hex(),
		"role": string(role),
		"jti":  jti,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

func neverRevoked(ctx context.Context, jti string) (bool, error) {
	return false, nil
}

func runGuard(t *testing.T, guard gin.HandlerFunc, authorization string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	var captured *gin.Context

	r := gin.New()
	r.GET("/protected", guard, func(c *gin.Context) {
		captured = c
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w, captured
}

func TestAuthGuardRejectsMissingToken(t *testing.T) {
	guard := AuthGuard(testSecret, RevocationCheckerFunc(neverRevoked))

	w, _ := runGuard(t, guard, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthGuardRejectsMalformedHeader(t *testing.T) {
	guard := AuthGuard(testSecret, RevocationCheckerFunc(neverRevoked))

	for _, header := range []string{"sometoken", "Basic abc", "Bearer"} {
		w, _ := runGuard(t, guard, header)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}

func TestAuthGuardRejectsBadSignature(t *testing.T) {
	guard := AuthGuard(testSecret, RevocationCheckerFunc(neverRevoked))
	token := signTestToken(t, "other-secret", models.RoleCustomer, primitive.NewObjectID(), "jti-1")

	w, _ := runGuard(t, guard, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthGuardRejectsRevokedToken(t *testing.T) {
	revoked := RevocationCheckerFunc(func(ctx context.Context, jti string) (bool, error) {
		return jti == "revoked-jti", nil
	})
	guard := AuthGuard(testSecret, revoked)
	token := signTestToken(t, testSecret, models.RoleCustomer, primitive.NewObjectID(), "revoked-jti")

	w, _ := runGuard(t, guard, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "token revoked") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestAuthGuardFailsClosedOnRevocationLookupError(t *testing.T) {
	broken := RevocationCheckerFunc(func(ctx context.Context, jti string) (bool, error) {
		return false, errors.New("db down")
	})
	guard := AuthGuard(testSecret, broken)
	token := signTestToken(t, testSecret, models.RoleCustomer, primitive.NewObjectID(), "jti-1")

	w, _ := runGuard(t, guard, "Bearer "+token)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestAuthGuardEnforcesRole(t *testing.T) {
	guard := AdminAuth(testSecret, RevocationCheckerFunc(neverRevoked))
	token := signTestToken(t, testSecret, models.RoleCustomer, primitive.NewObjectID(), "jti-1")

	w, _ := runGuard(t, guard, "Bearer "+token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Admin access required") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestAuthGuardInjectsContextOnSuccess(t *testing.T) {
	guard := AdminAuth(testSecret, RevocationCheckerFunc(neverRevoked))
	userID := primitive.NewObjectID()
	token := signTestToken(t, testSecret, models.RoleAdmin, userID, "jti-42")

	w, captured := runGuard(t, guard, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if captured == nil {
		t.Fatal("handler never ran")
	}

	gotID, _ := captured.Get("userId")
	if gotID != userID {
		t.Fatalf("userId = %v, want %s", gotID, userID.Hex())
	}
	gotRole, _ := captured.Get("role")
	if gotRole != models.RoleAdmin {
		t.Fatalf("role = %v, want admin", gotRole)
	}
	gotJTI, _ := captured.Get("jti")
	if gotJTI != "jti-42" {
		t.Fatalf("jti = %v, want jti-42", gotJTI)
	}
}
