package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	authsvc "github.com/slayerintech/Lovify/internal/services/auth"
)

func TestIssueAndValidate(t *testing.T) {
	svc := authsvc.NewService(authsvc.NewJWTManager("test-secret", time.Hour))

	token, expiresAt, err := svc.IssueAccessToken("uid-123")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected expiry in the future, got %s", expiresAt)
	}

	claims, err := svc.ValidateAccessToken(context.Background(), token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != "uid-123" || claims.SID == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	issuer := authsvc.NewService(authsvc.NewJWTManager("secret-a", time.Hour))
	verifier := authsvc.NewService(authsvc.NewJWTManager("secret-b", time.Hour))

	token, _, err := issuer.IssueAccessToken("uid-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := verifier.ValidateAccessToken(context.Background(), token); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("unexpected error: got %v want %v", err, authsvc.ErrUnauthorized)
	}
}

func TestValidateRejectsExpiredAndUnsigned(t *testing.T) {
	svc := authsvc.NewService(authsvc.NewJWTManager("test-secret", time.Hour))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "uid-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	raw, err := expired.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "uid-1"})
	rawNoExpiry, err := noExpiry.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	for name, token := range map[string]string{
		"expired":   raw,
		"no expiry": rawNoExpiry,
		"garbage":   "not-a-jwt",
		"empty":     "",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.ValidateAccessToken(context.Background(), token); !errors.Is(err, authsvc.ErrUnauthorized) {
				t.Fatalf("unexpected error: got %v want %v", err, authsvc.ErrUnauthorized)
			}
		})
	}
}

func TestValidateRejectsForeignIssuer(t *testing.T) {
	svc := authsvc.NewService(authsvc.NewJWTManager("test-secret", time.Hour))

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "someone-else",
		Subject:   "uid-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	raw, err := foreign.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := svc.ValidateAccessToken(context.Background(), raw); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("unexpected error: got %v want %v", err, authsvc.ErrUnauthorized)
	}
}

func TestIdentityContext(t *testing.T) {
	if _, ok := authsvc.IdentityFromContext(context.Background()); ok {
		t.Fatalf("expected no identity on empty context")
	}
	ctx := authsvc.WithIdentity(context.Background(), authsvc.Identity{UserID: "uid-9"})
	identity, ok := authsvc.IdentityFromContext(ctx)
	if !ok || identity.UserID != "uid-9" {
		t.Fatalf("unexpected identity: %+v %v", identity, ok)
	}
}
