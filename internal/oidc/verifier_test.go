package oidc_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"swapit/internal/oidc"
)

const (
	testIssuer   = "https://issuer.example"
	testAudience = "client-123"
	testKid      = "key-1"
)

type staticKeys struct {
	keys map[string]*rsa.PublicKey
}

func (s staticKeys) Key(_ context.Context, kid string) (*rsa.PublicKey, error) {
	k, ok := s.keys[kid]
	if !ok {
		return nil, fmt.Errorf("key not found: %s", kid)
	}
	return k, nil
}

func newKeyPair(t *testing.T) (*rsa.PrivateKey, oidc.KeySource) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	return priv, staticKeys{keys: map[string]*rsa.PublicKey{testKid: &priv.PublicKey}}
}

func signToken(t *testing.T, priv *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	raw, err := tok.SignedString(priv)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func baseClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":            testIssuer,
		"aud":            testAudience,
		"sub":            "sub-42",
		"email":          "g@x.com",
		"email_verified": true,
		"name":           "Grace",
		"picture":        "https://img.example/g.png",
		"exp":            time.Now().Add(time.Hour).Unix(),
		"iat":            time.Now().Unix(),
	}
}

func TestVerifyValidToken(t *testing.T) {
	priv, keys := newKeyPair(t)
	v := oidc.NewVerifier(testIssuer, testAudience, keys)

	id, err := v.Verify(context.Background(), signToken(t, priv, testKid, baseClaims()))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.Subject != "sub-42" || id.Email != "g@x.com" || id.Name != "Grace" || !id.EmailVerified {
		t.Fatalf("bad identity: %+v", id)
	}
}

func TestVerifyRejections(t *testing.T) {
	priv, keys := newKeyPair(t)
	v := oidc.NewVerifier(testIssuer, testAudience, keys)
	ctx := context.Background()

	t.Run("empty token", func(t *testing.T) {
		if _, err := v.Verify(ctx, ""); !errors.Is(err, oidc.ErrInvalidToken) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := baseClaims()
		claims["iss"] = "https://evil.example"
		if _, err := v.Verify(ctx, signToken(t, priv, testKid, claims)); !errors.Is(err, oidc.ErrInvalidIssuer) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("wrong audience", func(t *testing.T) {
		claims := baseClaims()
		claims["aud"] = "someone-else"
		if _, err := v.Verify(ctx, signToken(t, priv, testKid, claims)); !errors.Is(err, oidc.ErrInvalidAudience) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		claims := baseClaims()
		claims["exp"] = time.Now().Add(-2 * time.Hour).Unix()
		if _, err := v.Verify(ctx, signToken(t, priv, testKid, claims)); !errors.Is(err, oidc.ErrInvalidToken) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("missing exp", func(t *testing.T) {
		claims := baseClaims()
		delete(claims, "exp")
		if _, err := v.Verify(ctx, signToken(t, priv, testKid, claims)); !errors.Is(err, oidc.ErrInvalidToken) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("missing email", func(t *testing.T) {
		claims := baseClaims()
		delete(claims, "email")
		if _, err := v.Verify(ctx, signToken(t, priv, testKid, claims)); !errors.Is(err, oidc.ErrInvalidToken) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("unknown kid", func(t *testing.T) {
		if _, err := v.Verify(ctx, signToken(t, priv, "rotated-away", baseClaims())); !errors.Is(err, oidc.ErrInvalidToken) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("signed by the wrong key", func(t *testing.T) {
		other, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := v.Verify(ctx, signToken(t, other, testKid, baseClaims())); !errors.Is(err, oidc.ErrInvalidToken) {
			t.Fatalf("forged signature accepted: %v", err)
		}
	})

	t.Run("alg none", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, baseClaims())
		tok.Header["kid"] = testKid
		raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := v.Verify(ctx, raw); !errors.Is(err, oidc.ErrInvalidToken) {
			t.Fatalf("unsigned token accepted: %v", err)
		}
	})
}

func jwksBody(t *testing.T, kid string, pub *rsa.PublicKey) []byte {
	t.Helper()
	eb := []byte{byte(pub.E >> 16), byte(pub.E >> 8), byte(pub.E)}
	body, err := json.Marshal(map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": kid,
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(eb),
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func TestJWKSCacheFetchesAndCaches(t *testing.T) {
	priv, _ := newKeyPair(t)

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(jwksBody(t, testKid, &priv.PublicKey))
	}))
	defer srv.Close()

	cache := oidc.NewJWKSCache(srv.URL, srv.Client(), time.Hour)
	key, err := cache.Key(context.Background(), testKid)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if key.N.Cmp(priv.PublicKey.N) != 0 {
		t.Fatal("wrong modulus")
	}

	// second lookup inside the TTL stays local
	if _, err := cache.Key(context.Background(), testKid); err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Fatalf("want 1 upstream fetch, got %d", hits)
	}

	if _, err := cache.Key(context.Background(), "unknown-kid"); err == nil {
		t.Fatal("unknown kid resolved")
	}
}

// end-to-end: cache-backed verifier accepts a token signed by the
// published key.
func TestVerifierWithJWKSCache(t *testing.T) {
	priv, _ := newKeyPair(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(jwksBody(t, testKid, &priv.PublicKey))
	}))
	defer srv.Close()

	v := oidc.NewVerifier(testIssuer, testAudience, oidc.NewJWKSCache(srv.URL, srv.Client(), 0))
	id, err := v.Verify(context.Background(), signToken(t, priv, testKid, baseClaims()))
	if err != nil {
		t.Fatalf("verify against JWKS endpoint: %v", err)
	}
	if id.Subject != "sub-42" {
		t.Fatalf("bad identity: %+v", id)
	}
}
