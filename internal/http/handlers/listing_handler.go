package handlers

import (
	"github.com/gofiber/fiber/v2"

	"swapit/internal/domain"
	applog "swapit/internal/log"
	"swapit/internal/services"
)

// ListingHandler serves the read side the browse view consumes.
type ListingHandler struct {
	Listings *services.ListingService
	Auth     *services.AuthService
}

// List returns the full eligible set; narrowing happens in the view.
func (h *ListingHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	items, err := h.Listings.ListAvailable(page, 50)
	if err != nil {
		applog.Error(c, "listing.list", err, nil)
		return fail(c, fiber.StatusInternalServerError, "Could not load listings")
	}
	if items == nil {
		items = []domain.Listing{}
	}
	return ok(c, fiber.Map{"listings": items, "count": len(items)})
}

// Mine returns the caller's own listings for the dashboard.
func (h *ListingHandler) Mine(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return fail(c, fiber.StatusUnauthorized, "Not authenticated")
	}
	items, err := h.Listings.Mine(u.ID)
	if err != nil {
		applog.Error(c, "listing.mine", err, nil)
		return fail(c, fiber.StatusInternalServerError, "Could not load listings")
	}
	if items == nil {
		items = []domain.Listing{}
	}
	return ok(c, fiber.Map{"listings": items, "count": len(items)})
}

func (h *ListingHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Listings.Categories()
	if err != nil {
		applog.Error(c, "category.list", err, nil)
		return fail(c, fiber.StatusInternalServerError, "Could not load categories")
	}
	return ok(c, fiber.Map{"categories": cats})
}
