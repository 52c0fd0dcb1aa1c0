package utils

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog_api/internal/config"
)

const (
	testIssuer   = "https://blog.eu.auth0.com"
	testAudience = "https://api.blog.example"
)

var testSecret = []byte("super-secret")

func TestHMACVerifier(t *testing.T) {
	v := NewHMACVerifier(testSecret, testIssuer, testAudience)

	token, err := IssueHMACToken(testSecret, testIssuer, testAudience, "auth0|123", "read:users", time.Minute)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "auth0|123", claims.Subject)
	assert.Equal(t, "read:users", claims.Scope)
	assert.Equal(t, testIssuer+"/", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestHMACVerifierRejects(t *testing.T) {
	v := NewHMACVerifier(testSecret, testIssuer, testAudience)

	sign := func(c *Claims, secret []byte) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
		require.NoError(t, err)
		return s
	}
	valid := func() *Claims {
		return &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer + "/",
			Audience:  jwt.ClaimStrings{testAudience},
			Subject:   "u",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}}
	}

	wrongIssuer := valid()
	wrongIssuer.Issuer = "https://evil.example/"
	wrongAudience := valid()
	wrongAudience.Audience = jwt.ClaimStrings{"other"}
	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noExpiry := valid()
	noExpiry.ExpiresAt = nil

	tests := map[string]string{
		"wrong secret":   sign(valid(), []byte("other")),
		"wrong issuer":   sign(wrongIssuer, testSecret),
		"wrong audience": sign(wrongAudience, testSecret),
		"expired":        sign(expired, testSecret),
		"no expiry":      sign(noExpiry, testSecret),
		"garbage":        "not.a.token",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.Error(t, err)
		})
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, valid()).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = v.Verify(none)
	assert.Error(t, err)
}

func TestNewTokenVerifierWithPublicKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "public.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), 0o600))

	v, err := NewTokenVerifier(context.Background(), config.AuthConfig{
		IssuerBaseURL: testIssuer + "/",
		Audience:      testAudience,
		PublicKeyPath: path,
	})
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    testIssuer + "/",
		Audience:  jwt.ClaimStrings{testAudience},
		Subject:   "auth0|rsa",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}).SignedString(key)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "auth0|rsa", claims.Subject)

	hs, err := IssueHMACToken([]byte("x"), testIssuer, testAudience, "u", "", time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(hs)
	assert.Error(t, err)
}

func TestNewTokenVerifierErrors(t *testing.T) {
	_, err := NewTokenVerifier(context.Background(), config.AuthConfig{})
	assert.Error(t, err)

	_, err = NewTokenVerifier(context.Background(), config.AuthConfig{IssuerBaseURL: testIssuer, Audience: testAudience, PublicKeyPath: "/does/not/exist.pem"})
	assert.Error(t, err)
}

func TestNormalizeIssuer(t *testing.T) {
	assert.Equal(t, "https://a/", NormalizeIssuer("https://a"))
	assert.Equal(t, "https://a/", NormalizeIssuer("https://a/"))
	assert.Equal(t, "", NormalizeIssuer(""))
}

func TestKeySetVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	b64 := base64.RawURLEncoding.EncodeToString
	set, err := json.Marshal(map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": "signing-1",
			"alg": "RS256",
			"use": "sig",
			"n":   b64(key.N.Bytes()),
			"e":   b64(big.NewInt(int64(key.E)).Bytes()),
		}},
	})
	require.NoError(t, err)

	keys, err := keyfunc.NewJWKSetJSON(set)
	require.NoError(t, err)
	v := NewKeySetVerifier(keys, testIssuer, testAudience)

	sign := func(kid string) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodRS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer + "/",
			Audience:  jwt.ClaimStrings{testAudience},
			Subject:   "auth0|jwks",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}})
		tok.Header["kid"] = kid
		s, err := tok.SignedString(key)
		require.NoError(t, err)
		return s
	}

	claims, err := v.Verify(sign("signing-1"))
	require.NoError(t, err)
	assert.Equal(t, "auth0|jwks", claims.Subject)

	_, err = v.Verify(sign("rotated-away"))
	assert.Error(t, err)

	hs, err := IssueHMACToken(testSecret, testIssuer, testAudience, "u", "", time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(hs)
	assert.Error(t, err)
}
