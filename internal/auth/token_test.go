package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestCodec(t *testing.T, env string) *TokenCodec {
	t.Helper()
	tc, err := NewTokenCodec("test-signing-secret", env)
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}
	return tc
}

func TestTokenCodec_Roundtrip(t *testing.T) {
	t.Parallel()

	tc := newTestCodec(t, "test")
	user := TokenUser{ID: "u1", Email: "a@x.com", Name: "Ann"}

	tok, err := tc.Create(user, "s1")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if strings.Count(tok, ".") != 2 {
		t.Fatalf("token is not a three-part JWT: %q", tok)
	}

	claims, err := tc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.User != user {
		t.Fatalf("user snapshot mismatch: got %+v want %+v", claims.User, user)
	}
	if claims.SessionID != "s1" {
		t.Fatalf("session id mismatch: got %q want %q", claims.SessionID, "s1")
	}
	if claims.Subject != "u1" {
		t.Fatalf("subject claim: got %q want %q", claims.Subject, "u1")
	}
	if claims.Issuer != AppName {
		t.Fatalf("issuer claim: got %q want %q", claims.Issuer, AppName)
	}
}

func TestTokenCodec_EnvironmentMismatch(t *testing.T) {
	t.Parallel()

	staging := newTestCodec(t, "staging")
	production := newTestCodec(t, "production")

	tok, err := staging.Create(TokenUser{ID: "u1"}, "s1")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// Same secret, wrong environment: the signature checks out but the
	// header env tag must still reject it.
	if _, err := production.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for cross-environment token, got %v", err)
	}
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	t.Parallel()

	tc := newTestCodec(t, "test")
	tok, err := tc.Create(TokenUser{ID: "u1"}, "s1")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	other, err := NewTokenCodec("a-different-secret", "test")
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}
	if _, err := other.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	t.Parallel()

	tc := newTestCodec(t, "test")

	// Hand-build an already-expired token signed with the right secret
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		User:      TokenUser{ID: "u1"},
		SessionID: "s1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    AppName,
			Audience:  jwt.ClaimStrings{AppName},
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	})
	token.Header["env"] = "test"
	signed, err := token.SignedString([]byte("test-signing-secret"))
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	if _, err := tc.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenCodec_WrongAlgorithmRejected(t *testing.T) {
	t.Parallel()

	tc := newTestCodec(t, "test")

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		User:      TokenUser{ID: "u1"},
		SessionID: "s1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    AppName,
			Audience:  jwt.ClaimStrings{AppName},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token.Header["env"] = "test"
	signed, err := token.SignedString([]byte("test-signing-secret"))
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	if _, err := tc.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for HS512 token, got %v", err)
	}
}

func TestTokenCodec_Malformed(t *testing.T) {
	t.Parallel()

	tc := newTestCodec(t, "test")
	if _, err := tc.Verify("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}

func TestTokenCodec_DecodeWithoutVerify(t *testing.T) {
	t.Parallel()

	tc := newTestCodec(t, "test")
	tok, err := tc.Create(TokenUser{ID: "u1", Email: "a@x.com", Name: "Ann"}, "s1")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	header, claims, err := tc.Decode(tok)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if header["env"] != "test" || header["kid"] != "test" {
		t.Fatalf("header env/kid: got %v/%v want test/test", header["env"], header["kid"])
	}
	if jti, _ := header["jti"].(string); jti == "" {
		t.Fatalf("header jti missing")
	}
	if claims.SessionID != "s1" {
		t.Fatalf("decoded session id: got %q want %q", claims.SessionID, "s1")
	}
}
