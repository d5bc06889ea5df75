package handlers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"swapit/internal/domain"
	"swapit/internal/repos"
	"swapit/internal/services"
	"swapit/internal/validate"
)

// The wire protocol keys every operation off an "action" form value on
// one endpoint. Each action decodes into its own command type and is
// validated before anything dispatches on it.

type Command interface {
	Validate() error
}

type SignupCmd struct {
	Email    string
	Password string
	FullName string
}

func (c SignupCmd) Validate() error {
	if c.Email == "" || c.Password == "" || c.FullName == "" {
		return domain.Invalid("All fields are required")
	}
	if _, ok := validate.Email(c.Email); !ok {
		return domain.Invalid("Invalid email address")
	}
	if !validate.Password(c.Password) {
		return domain.Invalid("Password must be at least 6 characters")
	}
	return nil
}

type LoginCmd struct {
	Email    string
	Password string
}

func (c LoginCmd) Validate() error {
	if c.Email == "" || c.Password == "" {
		return domain.Invalid("Email and password are required")
	}
	return nil
}

type LogoutCmd struct{}

func (LogoutCmd) Validate() error { return nil }

type CheckAuthCmd struct{}

func (CheckAuthCmd) Validate() error { return nil }

type UpdateProfileCmd struct {
	Patch repos.ProfilePatch
}

func (c UpdateProfileCmd) Validate() error {
	if c.Patch.Empty() {
		return domain.Invalid("No updates provided")
	}
	return nil
}

type CreateListingCmd struct {
	Listing services.NewListing
}

func (c CreateListingCmd) Validate() error {
	if _, ok := validate.Title(c.Listing.Title); !ok {
		return domain.Invalid("Title is required")
	}
	if strings.TrimSpace(c.Listing.Category) == "" {
		return domain.Invalid("Category is required")
	}
	return nil
}

type CreateOrderCmd struct {
	Items    []services.CartLine
	PickupAt string
}

func (c CreateOrderCmd) Validate() error {
	if len(c.Items) == 0 {
		return domain.Invalid("No items in order")
	}
	if strings.TrimSpace(c.PickupAt) == "" {
		return domain.Invalid("Pickup date/time is required")
	}
	return nil
}

type GoogleSignInCmd struct {
	Credential string
}

func (c GoogleSignInCmd) Validate() error {
	if c.Credential == "" {
		return domain.Invalid("No credential provided")
	}
	return nil
}

// ParseCommand decodes the action parameter into its command type.
// Unknown actions are a validation failure, not a dispatch fallthrough.
func ParseCommand(c *fiber.Ctx) (Command, error) {
	action := c.FormValue("action")
	if action == "" {
		action = c.Query("action")
	}

	switch action {
	case "signup":
		return SignupCmd{
			Email:    c.FormValue("email"),
			Password: c.FormValue("password"),
			FullName: c.FormValue("full_name"),
		}, nil
	case "login":
		return LoginCmd{Email: c.FormValue("email"), Password: c.FormValue("password")}, nil
	case "logout":
		return LogoutCmd{}, nil
	case "check_auth", "check-session":
		return CheckAuthCmd{}, nil
	case "update_profile":
		return UpdateProfileCmd{Patch: profilePatch(c)}, nil
	case "create_listing":
		price, ok := validate.Price(c.FormValue("price"))
		if !ok {
			return nil, domain.Invalid("Price must not be negative")
		}
		return CreateListingCmd{Listing: services.NewListing{
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			Category:    c.FormValue("category"),
			Price:       price,
			Location:    c.FormValue("location"),
			ImageURL:    c.FormValue("image_url"),
		}}, nil
	case "create_order":
		var items []services.CartLine
		if raw := c.FormValue("items"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &items); err != nil {
				return nil, domain.Invalid("Invalid items payload")
			}
		}
		return CreateOrderCmd{Items: items, PickupAt: c.FormValue("pickup_at")}, nil
	case "google_signin":
		return GoogleSignInCmd{Credential: c.FormValue("credential")}, nil
	default:
		return nil, domain.Invalid(fmt.Sprintf("Unknown action: %s", action))
	}
}

// profilePatch picks up only the fields actually submitted, so a blank
// form value clears a field but an absent one leaves it alone.
func profilePatch(c *fiber.Ctx) repos.ProfilePatch {
	var p repos.ProfilePatch
	args := c.Context().PostArgs()
	if args.Has("full_name") {
		v := c.FormValue("full_name")
		p.FullName = &v
	}
	if args.Has("avatar_url") {
		v := c.FormValue("avatar_url")
		p.AvatarURL = &v
	}
	if args.Has("phone") {
		v := c.FormValue("phone")
		p.Phone = &v
	}
	if args.Has("location") {
		v := c.FormValue("location")
		p.Location = &v
	}
	return p
}
