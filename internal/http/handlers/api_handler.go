package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"swapit/internal/domain"
	applog "swapit/internal/log"
	"swapit/internal/services"
)

// ApiHandler owns the single action-keyed endpoint. ParseCommand turns
// the wire form into a typed command; Dispatch routes on the type.
type ApiHandler struct {
	Auth     *services.AuthService
	Listings *services.ListingService
	Orders   *services.OrderService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // set true behind HTTPS
			MaxAge:   int((24 * time.Hour).Seconds()),
		})
	}
	return sid
}

func (h *ApiHandler) Dispatch(c *fiber.Ctx) error {
	cmd, err := ParseCommand(c)
	if err != nil {
		return failErr(c, "api.parse", err)
	}
	if err := cmd.Validate(); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"action": c.FormValue("action")})
		return failErr(c, "api.validate", err)
	}

	switch cmd := cmd.(type) {
	case SignupCmd:
		return h.signup(c, cmd)
	case LoginCmd:
		return h.login(c, cmd)
	case LogoutCmd:
		return h.logout(c)
	case CheckAuthCmd:
		return h.checkAuth(c)
	case UpdateProfileCmd:
		return h.updateProfile(c, cmd)
	case CreateListingCmd:
		return h.createListing(c, cmd)
	case CreateOrderCmd:
		return h.createOrder(c, cmd)
	case GoogleSignInCmd:
		return h.googleSignIn(c, cmd)
	default:
		return fail(c, fiber.StatusBadRequest, "Unknown action")
	}
}

func (h *ApiHandler) signup(c *fiber.Ctx, cmd SignupCmd) error {
	sid := ensureSID(c)
	u, err := h.Auth.Signup(sid, cmd.Email, cmd.Password, cmd.FullName)
	if err != nil {
		applog.Security(c, "auth.signup.fail", map[string]any{"email": cmd.Email})
		return failErr(c, "auth.signup", err)
	}
	applog.Audit(c, "auth.signup.success", map[string]any{"email": u.Email})
	return ok(c, fiber.Map{"user": userJSON(u)})
}

func (h *ApiHandler) login(c *fiber.Ctx, cmd LoginCmd) error {
	sid := ensureSID(c)
	u, err := h.Auth.Login(sid, cmd.Email, cmd.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": cmd.Email})
		return failErr(c, "auth.login", err)
	}
	applog.Audit(c, "auth.login.success", map[string]any{"email": u.Email})
	return ok(c, fiber.Map{"user": userJSON(u)})
}

func (h *ApiHandler) logout(c *fiber.Ctx) error {
	sid := c.Cookies("sid")
	if sid != "" {
		_ = h.Auth.Logout(sid)
	}
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "auth.logout", nil)
	return ok(c, nil)
}

// checkAuth reports the current identity; the unauthenticated case is
// a normal answer, never an error.
func (h *ApiHandler) checkAuth(c *fiber.Ctx) error {
	sid := c.Cookies("sid")
	if sid == "" {
		return ok(c, fiber.Map{"authenticated": false, "user": nil})
	}
	u, err := h.Auth.CurrentUser(sid)
	if err != nil || u == nil {
		return ok(c, fiber.Map{"authenticated": false, "user": nil})
	}
	_ = h.Auth.Refresh(sid)
	return ok(c, fiber.Map{"authenticated": true, "user": userJSON(u)})
}

func (h *ApiHandler) updateProfile(c *fiber.Ctx, cmd UpdateProfileCmd) error {
	u := currentUser(c, h.Auth)
	if u == nil {
		return failErr(c, "profile.update", domain.ErrUnauthenticated)
	}
	updated, err := h.Auth.UpdateProfile(u.ID, cmd.Patch)
	if err != nil {
		return failErr(c, "profile.update", err)
	}
	applog.Audit(c, "profile.update", nil)
	return ok(c, fiber.Map{"user": userJSON(updated)})
}

func (h *ApiHandler) createListing(c *fiber.Ctx, cmd CreateListingCmd) error {
	u := currentUser(c, h.Auth)
	if u == nil {
		return failErr(c, "listing.create", domain.ErrUnauthenticated)
	}
	id, err := h.Listings.Create(u.ID, cmd.Listing)
	if err != nil {
		return failErr(c, "listing.create", err)
	}
	applog.Audit(c, "listing.create", map[string]any{"listing_id": id})
	return ok(c, fiber.Map{"listing_id": id})
}

func (h *ApiHandler) createOrder(c *fiber.Ctx, cmd CreateOrderCmd) error {
	u := currentUser(c, h.Auth)
	if u == nil {
		return failErr(c, "order.create", domain.ErrUnauthenticated)
	}
	ids, err := h.Orders.Create(u.ID, cmd.PickupAt, cmd.Items)
	if err != nil {
		return failErr(c, "order.create", err)
	}
	applog.Audit(c, "order.create", map[string]any{"request_ids": ids})
	return ok(c, fiber.Map{"request_ids": ids, "total_items": len(ids)})
}

func (h *ApiHandler) googleSignIn(c *fiber.Ctx, cmd GoogleSignInCmd) error {
	sid := ensureSID(c)
	u, err := h.Auth.GoogleSignIn(c.Context(), sid, cmd.Credential)
	if err != nil {
		applog.Security(c, "auth.google.fail", nil)
		return failErr(c, "auth.google", err)
	}
	applog.Audit(c, "auth.google.success", map[string]any{"email": u.Email})
	return ok(c, fiber.Map{"user": userJSON(u)})
}
