package handlers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"beautyshop/internal/models"
)

func TestIssueAccessTokenClaims(t *testing.T) {
	user := models.User{
		ID:    primitive.NewObjectID(),
		Email: "admin@example.com",
		Role:  models.RoleAdmin,
	}

	signed, err := issueAccessToken(user, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("issueAccessToken failed: %v", err)
	}

	token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token did not parse: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", token.Claims)
	}
	if claims["sub"] != user.ID.Hex() {
		t.Fatalf("sub = %v, want %s", claims["sub"], user.ID.Hex())
	}
	if claims["role"] != "admin" {
		t.Fatalf("role = %v, want admin", claims["role"])
	}
	if claims["email"] != user.Email {
		t.Fatalf("email = %v, want %s", claims["email"], user.Email)
	}
	if jti, _ := claims["jti"].(string); jti == "" {
		t.Fatal("jti claim missing")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		t.Fatalf("exp claim missing: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatal("exp should be in the future")
	}
}

func TestIssueAccessTokenRejectsWrongSecret(t *testing.T) {
	user := models.User{ID: primitive.NewObjectID(), Role: models.RoleCustomer}

	signed, err := issueAccessToken(user, "right-secret", time.Hour)
	if err != nil {
		t.Fatalf("issueAccessToken failed: %v", err)
	}

	_, err = jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	if err == nil {
		t.Fatal("expected signature validation to fail")
	}
}

func TestHashTokenIsDeterministic(t *testing.T) {
	a := hashToken("some-refresh-token")
	b := hashToken("some-refresh-token")
	if a != b {
		t.Fatal("same input should hash identically")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a == hashToken("another-token") {
		t.Fatal("different inputs should not collide")
	}
}

func TestRandomHex(t *testing.T) {
	a, err := randomHex(32)
	if err != nil {
		t.Fatalf("randomHex failed: %v", err)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}

	b, err := randomHex(32)
	if err != nil {
		t.Fatalf("randomHex failed: %v", err)
	}
	if a == b {
		t.Fatal("two random tokens should differ")
	}
}

func TestSnakeCase(t *testing.T) {
	for input, want := range map[string]string{
		"FirstName":  "first_name",
		"Email":      "email",
		"CategoryID": "category_id",
		"ImageURL":   "image_url",
		"Quantity":   "quantity",
	} {
		if got := snakeCase(input); got != want {
			t.Fatalf("snakeCase(%q) = %q, want %q", input, got, want)
		}
	}
}
