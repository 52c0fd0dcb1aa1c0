package utils

import (
	"context"
	"crypto/rsa"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"blog_api/internal/config"
)

// Claims represents the access token claims the API relies on.
type Claims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier checks signature, issuer, audience and expiry of bearer
// tokens issued by the configured identity provider.
type TokenVerifier struct {
	keyFunc jwt.Keyfunc
	parser  *jwt.Parser
}

var (
	hmacMethods       = []string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}
	rsaMethods        = []string{jwt.SigningMethodRS256.Alg(), jwt.SigningMethodRS384.Alg(), jwt.SigningMethodRS512.Alg()}
	asymmetricMethods = append(append([]string{}, rsaMethods...),
		jwt.SigningMethodPS256.Alg(), jwt.SigningMethodES256.Alg(), jwt.SigningMethodES384.Alg())
)

// NewTokenVerifier builds a verifier from cfg: a PEM public key when one is
// configured, else the shared HS256 secret, else the provider's JWKS. The
// JWKS is refreshed in the background until ctx is done.
func NewTokenVerifier(ctx context.Context, cfg config.AuthConfig) (*TokenVerifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch {
	case cfg.PublicKeyPath != "":
		pem, err := os.ReadFile(cfg.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read public key: %w", err)
		}
		key, err := jwt.ParseRSAPublicKeyFromPEM(pem)
		if err != nil {
			return nil, fmt.Errorf("failed to parse public key: %w", err)
		}
		return NewRSAVerifier(key, cfg.IssuerBaseURL, cfg.Audience), nil
	case cfg.SigningSecret != "":
		return NewHMACVerifier([]byte(cfg.SigningSecret), cfg.IssuerBaseURL, cfg.Audience), nil
	default:
		return NewJWKSVerifier(ctx, cfg.JWKSEndpoint(), cfg.IssuerBaseURL, cfg.Audience)
	}
}

func NewHMACVerifier(secret []byte, issuer, audience string) *TokenVerifier {
	return newVerifier(staticKey(secret), hmacMethods, issuer, audience)
}

func NewRSAVerifier(key *rsa.PublicKey, issuer, audience string) *TokenVerifier {
	return newVerifier(staticKey(key), rsaMethods, issuer, audience)
}

// NewJWKSVerifier loads the key set published at jwksURL. Tokens are matched
// to keys by their "kid" header; unknown ids trigger a rate-limited refetch.
func NewJWKSVerifier(ctx context.Context, jwksURL, issuer, audience string) (*TokenVerifier, error) {
	keys, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to load signing keys from %s: %w", jwksURL, err)
	}
	return NewKeySetVerifier(keys, issuer, audience), nil
}

// NewKeySetVerifier verifies against an already loaded key set.
func NewKeySetVerifier(keys keyfunc.Keyfunc, issuer, audience string) *TokenVerifier {
	return newVerifier(keys.Keyfunc, asymmetricMethods, issuer, audience)
}

func staticKey(key any) jwt.Keyfunc {
	return func(*jwt.Token) (any, error) {
		return key, nil
	}
}

func newVerifier(keyFunc jwt.Keyfunc, methods []string, issuer, audience string) *TokenVerifier {
	return &TokenVerifier{
		keyFunc: keyFunc,
		parser: jwt.NewParser(
			jwt.WithValidMethods(methods),
			jwt.WithIssuer(NormalizeIssuer(issuer)),
			jwt.WithAudience(audience),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}
}

// Verify parses and validates a JWT string.
func (v *TokenVerifier) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if _, err := v.parser.ParseWithClaims(tokenStr, claims, v.keyFunc); err != nil {
		return nil, err
	}
	return claims, nil
}

// NormalizeIssuer appends the trailing slash identity providers put in the
// "iss" claim of their tokens.
func NormalizeIssuer(issuer string) string {
	if issuer == "" || strings.HasSuffix(issuer, "/") {
		return issuer
	}
	return issuer + "/"
}

// IssueHMACToken signs an HS256 access token for local development against
// a shared secret.
func IssueHMACToken(secret []byte, issuer, audience, subject, scope string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    NormalizeIssuer(issuer),
			Subject:   subject,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
