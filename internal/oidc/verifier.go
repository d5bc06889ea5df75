// Package oidc verifies federated ID tokens before any claim is
// trusted. The original client-supplied token was decoded without a
// signature check; here verification failure is an authentication
// error, not a soft warning.
package oidc

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken    = errors.New("invalid ID token")
	ErrInvalidIssuer   = errors.New("invalid issuer")
	ErrInvalidAudience = errors.New("invalid audience")
	ErrMissingSubject  = errors.New("missing subject claim")
)

// Identity is the subset of claims the auth service consumes.
type Identity struct {
	Subject       string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
}

// KeySource resolves a key id to an RSA public key.
type KeySource interface {
	Key(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

// Verifier validates RS256 ID tokens against the issuer's published keys.
type Verifier struct {
	Issuer   string
	Audience string
	Keys     KeySource
	Leeway   time.Duration
}

func NewVerifier(issuer, audience string, keys KeySource) *Verifier {
	return &Verifier{Issuer: issuer, Audience: audience, Keys: keys, Leeway: time.Minute}
}

// Verify parses and validates the token and extracts the identity.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Identity, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		kid, ok := t.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, errors.New("token missing kid header")
		}
		return v.Keys.Key(ctx, kid)
	}, jwt.WithLeeway(v.Leeway), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err.Error())
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if iss, _ := claims.GetIssuer(); iss != v.Issuer {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrInvalidIssuer, iss, v.Issuer)
	}
	aud, _ := claims.GetAudience()
	if v.Audience != "" && !contains(aud, v.Audience) {
		return nil, fmt.Errorf("%w: %q not in %v", ErrInvalidAudience, v.Audience, aud)
	}
	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil, ErrMissingSubject
	}

	id := &Identity{Subject: sub}
	id.Email, _ = claims["email"].(string)
	id.Name, _ = claims["name"].(string)
	id.Picture, _ = claims["picture"].(string)
	switch ev := claims["email_verified"].(type) {
	case bool:
		id.EmailVerified = ev
	case string:
		id.EmailVerified = ev == "true"
	}
	if id.Email == "" {
		return nil, fmt.Errorf("%w: no email claim", ErrInvalidToken)
	}
	return id, nil
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

// JWKSCache fetches and caches the issuer's JWKS with a TTL. Safe for
// concurrent use.
type JWKSCache struct {
	uri    string
	client *http.Client
	ttl    time.Duration

	mu      sync.RWMutex
	keys    map[string]*rsa.PublicKey
	fetched time.Time
}

func NewJWKSCache(uri string, client *http.Client, ttl time.Duration) *JWKSCache {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return &JWKSCache{uri: uri, client: client, ttl: ttl, keys: map[string]*rsa.PublicKey{}}
}

func (c *JWKSCache) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	key, ok := c.keys[kid]
	stale := time.Since(c.fetched) > c.ttl
	c.mu.RUnlock()

	if ok && !stale {
		return key, nil
	}

	keys, err := c.refresh(ctx)
	if err != nil {
		if ok {
			// stale key beats no key when the endpoint is down
			return key, nil
		}
		return nil, err
	}
	key, ok = keys[kid]
	if !ok {
		return nil, fmt.Errorf("key not found: %s", kid)
	}
	return key, nil
}

func (c *JWKSCache) refresh(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.fetched) < c.ttl && len(c.keys) > 0 {
		return c.keys, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.uri, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("JWKS fetch failed with status %d", resp.StatusCode)
	}

	var jwks struct {
		Keys []struct {
			Kty string `json:"kty"`
			Kid string `json:"kid"`
			N   string `json:"n"`
			E   string `json:"e"`
		} `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("failed to decode JWKS: %w", err)
	}

	c.keys = make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for _, k := range jwks.Keys {
		if k.Kty != "RSA" {
			continue
		}
		nb, err := base64.RawURLEncoding.DecodeString(k.N)
		if err != nil {
			continue
		}
		eb, err := base64.RawURLEncoding.DecodeString(k.E)
		if err != nil {
			continue
		}
		e := 0
		for _, b := range eb {
			e = e<<8 + int(b)
		}
		c.keys[k.Kid] = &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: e}
	}
	c.fetched = time.Now()
	return c.keys, nil
}
