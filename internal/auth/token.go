package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AppName is the fixed application identifier used for the issuer and
// audience claims.
const AppName = "todostack-backend"

// TokenTTL is how long an issued bearer token stays valid. Sessions are
// revoked server-side, so the token lifetime only bounds how long a
// leaked-but-unrevoked token could live.
const TokenTTL = 7 * 24 * time.Hour

// TokenUser is the identity snapshot embedded in a bearer token
type TokenUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Claims is the full JWT payload: a user snapshot plus the id of the
// session the token authorizes.
type Claims struct {
	User      TokenUser `json:"user"`
	SessionID string    `json:"sessionId"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies signed bearer tokens. Tokens are scoped
// to a deployment environment: a token minted in staging fails
// verification in production even though both share the signing secret
// check path.
type TokenCodec struct {
	secret []byte
	env    string
}

// NewTokenCodec creates a token codec for the given signing secret and
// deployment environment tag.
func NewTokenCodec(secret, env string) (*TokenCodec, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}
	if env == "" {
		return nil, fmt.Errorf("deployment environment must not be empty")
	}
	return &TokenCodec{secret: []byte(secret), env: env}, nil
}

// Create signs a bearer token carrying the user snapshot and session id.
// The header carries a unique token id and the deployment environment tag
// alongside the standard fields.
func (tc *TokenCodec) Create(user TokenUser, sessionID string) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		User:      user,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    AppName,
			Audience:  jwt.ClaimStrings{AppName},
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	})
	token.Header["kid"] = tc.env
	token.Header["jti"] = uuid.NewString()
	token.Header["env"] = tc.env
	token.Header["iat"] = now.Unix()

	return token.SignedString(tc.secret)
}

// Verify checks the token signature, algorithm, issuer, audience and
// expiry, then independently decodes the header and asserts that its
// environment tag matches this process's environment. A token that passes
// signature verification but was minted for another environment is
// rejected.
func (tc *TokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return tc.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(AppName),
		jwt.WithAudience(AppName),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	// Second step: side read of the raw header, not the verified token
	header, _, err := tc.Decode(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	env, ok := header["env"].(string)
	if !ok || env != tc.env {
		return nil, fmt.Errorf("%w: token environment mismatch", ErrInvalidToken)
	}

	return claims, nil
}

// Decode parses a token without verifying the signature. Debug and
// inspection only; never use on an authorization path.
func (tc *TokenCodec) Decode(tokenString string) (map[string]interface{}, *Claims, error) {
	claims := &Claims{}
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
	if err != nil {
		return nil, nil, err
	}
	return token.Header, claims, nil
}
