package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/Josef-Holecek/krouzky-hb-main/internal/models"
	"github.com/Josef-Holecek/krouzky-hb-main/internal/services"
)

var validate = validator.New()

var errUnauthenticated = errors.New("unauthenticated")

// actorFromLocals rebuilds the acting user from the claims the auth
// middleware stored on the request.
func actorFromLocals(c *fiber.Ctx) (*models.User, error) {
	id, ok := c.Locals("user_id").(string)
	if !ok || id == "" {
		return nil, errUnauthenticated
	}
	email, _ := c.Locals("email").(string)
	name, _ := c.Locals("name").(string)
	return &models.User{ID: id, Email: email, Name: name}, nil
}

func mapServiceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
	}
}
