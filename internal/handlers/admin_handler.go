package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/Josef-Holecek/krouzky-hb-main/internal/models"
	"github.com/Josef-Holecek/krouzky-hb-main/internal/services"
)

type clubAdminRepo interface {
	services.StatusWriter
	ListAll(ctx context.Context) ([]models.Club, error)
}

type trainerAdminRepo interface {
	services.StatusWriter
	ListAll(ctx context.Context) ([]models.Trainer, error)
}

type moderator interface {
	Review(ctx context.Context, repo services.StatusWriter, id string, status models.ModerationStatus, actorEmail string, reason string) error
}

// AdminHandler exposes the review surface: listing everything regardless of
// status, and approving/rejecting individual entities.
type AdminHandler struct {
	clubs      clubAdminRepo
	trainers   trainerAdminRepo
	moderation moderator
	auth       services.Authorizer
}

func NewAdminHandler(clubs clubAdminRepo, trainers trainerAdminRepo, moderation moderator, auth services.Authorizer) *AdminHandler {
	return &AdminHandler{
		clubs:      clubs,
		trainers:   trainers,
		moderation: moderation,
		auth:       auth,
	}
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
	Reason string `json:"reason"`
}

func (h *AdminHandler) requireAdmin(c *fiber.Ctx) (*models.User, error) {
	actor, err := actorFromLocals(c)
	if err != nil {
		return nil, errUnauthenticated
	}
	if !h.auth.IsAdmin(actor.Email) {
		return nil, services.ErrForbidden
	}
	return actor, nil
}

func rejectNonAdmin(c *fiber.Ctx, err error) error {
	if err == errUnauthenticated {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
}

func (h *AdminHandler) ListAllClubs(c *fiber.Ctx) error {
	if _, err := h.requireAdmin(c); err != nil {
		return rejectNonAdmin(c, err)
	}

	clubs, err := h.clubs.ListAll(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch clubs"})
	}
	return c.JSON(fiber.Map{"clubs": clubs})
}

func (h *AdminHandler) ListAllTrainers(c *fiber.Ctx) error {
	if _, err := h.requireAdmin(c); err != nil {
		return rejectNonAdmin(c, err)
	}

	trainers, err := h.trainers.ListAll(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch trainers"})
	}
	return c.JSON(fiber.Map{"trainers": trainers})
}

func (h *AdminHandler) SetClubStatus(c *fiber.Ctx) error {
	return h.setStatus(c, h.clubs)
}

func (h *AdminHandler) SetTrainerStatus(c *fiber.Ctx) error {
	return h.setStatus(c, h.trainers)
}

func (h *AdminHandler) setStatus(c *fiber.Ctx, repo services.StatusWriter) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req setStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed: " + err.Error()})
	}

	err = h.moderation.Review(
		c.Context(),
		repo,
		c.Params("id"),
		models.ModerationStatus(req.Status),
		actor.Email,
		req.Reason,
	)
	if err != nil {
		return mapServiceError(c, err, "Failed to change status")
	}

	return c.JSON(fiber.Map{"ok": true})
}
