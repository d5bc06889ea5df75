package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"swapit/internal/domain"
	applog "swapit/internal/log"
)

func ok(c *fiber.Ctx, extra fiber.Map) error {
	body := fiber.Map{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	return c.JSON(body)
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": msg})
}

// failErr maps the error taxonomy to a status and client message.
// Validation messages surface verbatim; everything else is generic and
// the detail stays in the server log.
func failErr(c *fiber.Ctx, action string, err error) error {
	switch {
	case domain.IsValidation(err):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		return fail(c, fiber.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, domain.ErrDuplicateEmail):
		return fail(c, fiber.StatusConflict, "Email already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fail(c, fiber.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, domain.ErrItemNotFound):
		return fail(c, fiber.StatusBadRequest, "Item not found")
	case errors.Is(err, domain.ErrRegistrationFailed):
		applog.Error(c, action, err, nil)
		return fail(c, fiber.StatusInternalServerError, "Registration failed. Please try again.")
	default:
		applog.Error(c, action, err, nil)
		return fail(c, fiber.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

func userJSON(u *domain.User) fiber.Map {
	return fiber.Map{
		"id":         u.ID,
		"email":      u.Email,
		"full_name":  u.FullName,
		"avatar_url": u.AvatarURL,
		"phone":      u.Phone,
		"location":   u.Location,
	}
}
