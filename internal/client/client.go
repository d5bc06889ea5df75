// Package client is the API consumer the pages share: form-encoded
// calls against the action endpoint with a cookie jar, plus the
// degraded local fallback when a write fails. Failed writes are never
// retried automatically; they land in the local store and the caller
// tells the user the action was saved locally only.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"swapit/internal/client/cart"
	"swapit/internal/client/store"
)

// ErrSavedLocally reports the degraded fallback: the server write
// failed and the attempted action was written to local storage instead.
var ErrSavedLocally = errors.New("saved locally only")

// RefreshInterval is the session liveness cadence.
const RefreshInterval = 5 * time.Minute

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

type apiResponse struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	Authenticated bool            `json:"authenticated"`
	User          *User           `json:"user"`
	ListingID     string          `json:"listing_id"`
	RequestIDs    []string        `json:"request_ids"`
	TotalItems    int             `json:"total_items"`
	Listings      json.RawMessage `json:"listings"`
}

type Client struct {
	base  string
	http  *http.Client
	store store.Store

	mu   sync.Mutex
	user *User

	readyOnce sync.Once
	ready     chan struct{}
}

// New builds a client against base (e.g. "http://localhost:8080") with
// its own cookie jar so the sid cookie rides every call.
func New(base string, st store.Store) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		http:  &http.Client{Jar: jar, Timeout: 15 * time.Second},
		store: st,
		ready: make(chan struct{}),
	}, nil
}

// Init performs the first check_auth round-trip and resolves Ready.
// Components await Ready once instead of polling for an auth client.
func (c *Client) Init(ctx context.Context) error {
	_, err := c.CheckAuth(ctx)
	c.readyOnce.Do(func() { close(c.ready) })
	return err
}

// Ready is closed after the first auth check completes (success or not).
func (c *Client) Ready() <-chan struct{} { return c.ready }

func (c *Client) CurrentUser() *User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

func (c *Client) IsAuthenticated() bool { return c.CurrentUser() != nil }

// StartRefresh re-validates the session on a timer until ctx ends.
// Failures only clear the cached user; nothing blocks on them.
func (c *Client) StartRefresh(ctx context.Context) {
	go func() {
		t := time.NewTicker(RefreshInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				_, _ = c.CheckAuth(ctx)
			}
		}
	}()
}

func (c *Client) post(ctx context.Context, form url.Values) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/auth",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) setUser(u *User) {
	c.mu.Lock()
	c.user = u
	c.mu.Unlock()
}

func (c *Client) Signup(ctx context.Context, email, password, fullName string) (*User, error) {
	out, err := c.post(ctx, url.Values{
		"action": {"signup"}, "email": {email}, "password": {password}, "full_name": {fullName},
	})
	if err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, errors.New(out.Message)
	}
	c.setUser(out.User)
	return out.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	out, err := c.post(ctx, url.Values{
		"action": {"login"}, "email": {email}, "password": {password},
	})
	if err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, errors.New(out.Message)
	}
	c.setUser(out.User)
	return out.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	out, err := c.post(ctx, url.Values{"action": {"logout"}})
	if err != nil {
		return err
	}
	if !out.Success {
		return errors.New(out.Message)
	}
	c.setUser(nil)
	return nil
}

// CheckAuth never errors for the unauthenticated case; it returns nil.
func (c *Client) CheckAuth(ctx context.Context) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.base+"/api/auth?action=check_auth", http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.setUser(nil)
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.setUser(nil)
		return nil, err
	}
	if !out.Authenticated {
		c.setUser(nil)
		return nil, nil
	}
	c.setUser(out.User)
	return out.User, nil
}

// PendingListing is a listing kept client-side because the server
// write failed; the browse view merges these in until confirmed.
type PendingListing struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Location    string  `json:"location"`
	ImageURL    string  `json:"image_url,omitempty"`
	SavedAt     string  `json:"saved_at"`
}

// CreateListing posts the listing; on failure it falls back to the
// pending-listings key and returns ErrSavedLocally.
func (c *Client) CreateListing(ctx context.Context, p PendingListing) (string, error) {
	out, err := c.post(ctx, url.Values{
		"action":      {"create_listing"},
		"title":       {p.Title},
		"description": {p.Description},
		"category":    {p.Category},
		"price":       {fmt.Sprintf("%g", p.Price)},
		"location":    {p.Location},
		"image_url":   {p.ImageURL},
	})
	if err == nil && out.Success {
		return out.ListingID, nil
	}
	if err == nil && !out.Success && out.Message != "" {
		// server rejected it outright (validation, auth): surface as-is
		return "", errors.New(out.Message)
	}

	p.SavedAt = time.Now().UTC().Format(time.RFC3339)
	var pending []PendingListing
	_, _ = c.store.Get(store.KeyPending, &pending)
	if serr := c.store.Set(store.KeyPending, append(pending, p)); serr != nil {
		return "", serr
	}
	return "", ErrSavedLocally
}

// LocalOrder is the fallback record for a checkout the server refused.
type LocalOrder struct {
	ID        string      `json:"id"`
	Items     []cart.Line `json:"items"`
	PickupAt  string      `json:"pickup_at"`
	CreatedAt string      `json:"created_at"`
}

// Checkout converts the local cart into a server order. On success the
// cart is cleared; on transport failure the order lands in the local
// orders key (still clearing the cart) and ErrSavedLocally is returned.
func (c *Client) Checkout(ctx context.Context, pickupAt string) ([]string, error) {
	crt := cart.New(c.store)
	lines := crt.Items()
	if len(lines) == 0 {
		return nil, errors.New("cart is empty")
	}
	if strings.TrimSpace(pickupAt) == "" {
		return nil, errors.New("pickup date/time is required")
	}

	payload, err := json.Marshal(lines)
	if err != nil {
		return nil, err
	}
	out, perr := c.post(ctx, url.Values{
		"action":    {"create_order"},
		"items":     {string(payload)},
		"pickup_at": {pickupAt},
	})
	if perr == nil && out.Success {
		_ = crt.Clear()
		return out.RequestIDs, nil
	}
	if perr == nil && !out.Success && out.Message != "" {
		return nil, errors.New(out.Message)
	}

	lo := LocalOrder{
		ID:        fmt.Sprintf("local-%d", time.Now().UnixMilli()),
		Items:     lines,
		PickupAt:  pickupAt,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	var orders []LocalOrder
	_, _ = c.store.Get(store.KeyOrders, &orders)
	if serr := c.store.Set(store.KeyOrders, append(orders, lo)); serr != nil {
		return nil, serr
	}
	_ = crt.Clear()
	return nil, ErrSavedLocally
}
