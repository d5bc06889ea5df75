package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"swapit/internal/client"
	"swapit/internal/client/cart"
	"swapit/internal/client/store"
)

// fakeAPI emulates the action endpoint closely enough for client tests:
// signup/login set the sid cookie, check_auth answers from it.
type fakeAPI struct {
	loggedIn bool
	orders   int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	action := r.FormValue("action")
	if action == "" {
		action = r.URL.Query().Get("action")
	}
	w.Header().Set("Content-Type", "application/json")

	write := func(status int, body map[string]any) {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
	user := map[string]any{"id": "u1", "email": "a@x.com", "full_name": "Ada"}

	switch action {
	case "signup", "login":
		f.loggedIn = true
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "s1", Path: "/"})
		write(200, map[string]any{"success": true, "user": user})
	case "logout":
		f.loggedIn = false
		write(200, map[string]any{"success": true})
	case "check_auth":
		if c, err := r.Cookie("sid"); err == nil && c.Value == "s1" && f.loggedIn {
			write(200, map[string]any{"success": true, "authenticated": true, "user": user})
			return
		}
		write(200, map[string]any{"success": true, "authenticated": false, "user": nil})
	case "create_listing":
		if r.FormValue("title") == "" {
			write(400, map[string]any{"success": false, "message": "Title is required"})
			return
		}
		write(200, map[string]any{"success": true, "listing_id": "l1"})
	case "create_order":
		var lines []cart.Line
		_ = json.Unmarshal([]byte(r.FormValue("items")), &lines)
		f.orders++
		ids := make([]string, len(lines))
		for i := range ids {
			ids[i] = "r1"
		}
		write(200, map[string]any{"success": true, "request_ids": ids, "total_items": len(ids)})
	default:
		write(400, map[string]any{"success": false, "message": "Unknown action"})
	}
}

func newClient(t *testing.T, handler http.Handler) (*client.Client, store.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	st := store.NewMemory()
	c, err := client.New(srv.URL, st)
	if err != nil {
		t.Fatal(err)
	}
	return c, st
}

func TestInitResolvesReady(t *testing.T) {
	c, _ := newClient(t, &fakeAPI{})

	select {
	case <-c.Ready():
		t.Fatal("ready before Init")
	default:
	}

	if err := c.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	select {
	case <-c.Ready():
	default:
		t.Fatal("Ready not resolved after Init")
	}
	if c.IsAuthenticated() {
		t.Fatal("anonymous init produced a user")
	}

	// Init resolves Ready even when the server is unreachable
	bad, err := client.New("http://127.0.0.1:1", store.NewMemory())
	if err != nil {
		t.Fatal(err)
	}
	_ = bad.Init(context.Background())
	select {
	case <-bad.Ready():
	default:
		t.Fatal("Ready not resolved on failed init")
	}
}

func TestLoginCarriesCookieToCheckAuth(t *testing.T) {
	c, _ := newClient(t, &fakeAPI{})

	u, err := c.Login(context.Background(), "a@x.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if u.FullName != "Ada" || !c.IsAuthenticated() {
		t.Fatalf("login state: %+v", u)
	}

	// the jar replays the sid cookie
	again, err := c.CheckAuth(context.Background())
	if err != nil || again == nil {
		t.Fatalf("check after login: %v %+v", err, again)
	}

	if err := c.Logout(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.IsAuthenticated() {
		t.Fatal("still authenticated after logout")
	}
}

func TestCreateListingServerRejectionSurfaced(t *testing.T) {
	c, st := newClient(t, &fakeAPI{loggedIn: true})

	_, err := c.CreateListing(context.Background(), client.PendingListing{Title: ""})
	if err == nil || err.Error() != "Title is required" {
		t.Fatalf("want verbatim server message, got %v", err)
	}
	// rejections are not saved locally
	var pending []client.PendingListing
	if ok, _ := st.Get(store.KeyPending, &pending); ok {
		t.Fatalf("rejected listing cached: %+v", pending)
	}
}

func TestCreateListingFallsBackWhenServerDown(t *testing.T) {
	st := store.NewMemory()
	c, err := client.New("http://127.0.0.1:1", st)
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.CreateListing(context.Background(), client.PendingListing{Title: "Drill", Price: 10})
	if !errors.Is(err, client.ErrSavedLocally) {
		t.Fatalf("want ErrSavedLocally, got %v", err)
	}
	var pending []client.PendingListing
	ok, _ := st.Get(store.KeyPending, &pending)
	if !ok || len(pending) != 1 || pending[0].Title != "Drill" || pending[0].SavedAt == "" {
		t.Fatalf("pending cache: ok=%v %+v", ok, pending)
	}
}

func TestCheckoutSuccessClearsCart(t *testing.T) {
	c, st := newClient(t, &fakeAPI{loggedIn: true})
	crt := cart.New(st)
	_ = crt.Add(cart.Line{ID: "a", Price: 10})
	_ = crt.Add(cart.Line{ID: "b", Price: 5})

	ids, err := c.Checkout(context.Background(), "2026-09-01T10:00")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 {
		t.Fatalf("want 2 request ids, got %v", ids)
	}
	if crt.Count() != 0 {
		t.Fatal("cart not cleared after checkout")
	}
}

func TestCheckoutValidation(t *testing.T) {
	c, st := newClient(t, &fakeAPI{loggedIn: true})

	if _, err := c.Checkout(context.Background(), "2026-09-01T10:00"); err == nil {
		t.Fatal("empty cart accepted")
	}
	_ = cart.New(st).Add(cart.Line{ID: "a"})
	if _, err := c.Checkout(context.Background(), "  "); err == nil {
		t.Fatal("blank pickup accepted")
	}
}

func TestCheckoutFallsBackWhenServerDown(t *testing.T) {
	st := store.NewMemory()
	c, err := client.New("http://127.0.0.1:1", st)
	if err != nil {
		t.Fatal(err)
	}
	crt := cart.New(st)
	_ = crt.Add(cart.Line{ID: "a", Title: "Drill", Price: 10})

	_, err = c.Checkout(context.Background(), "2026-09-01T10:00")
	if !errors.Is(err, client.ErrSavedLocally) {
		t.Fatalf("want ErrSavedLocally, got %v", err)
	}

	var orders []client.LocalOrder
	ok, _ := st.Get(store.KeyOrders, &orders)
	if !ok || len(orders) != 1 || len(orders[0].Items) != 1 || orders[0].PickupAt != "2026-09-01T10:00" {
		t.Fatalf("local order: ok=%v %+v", ok, orders)
	}
	if crt.Count() != 0 {
		t.Fatal("cart kept after local fallback")
	}
}
