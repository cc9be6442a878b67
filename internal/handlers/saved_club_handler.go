package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/Josef-Holecek/krouzky-hb-main/internal/models"
)

type savedClubRepo interface {
	Save(ctx context.Context, userID, clubID string) error
	Unsave(ctx context.Context, userID, clubID string) error
	ListForUser(ctx context.Context, userID string) ([]models.Club, error)
}

type SavedClubHandler struct {
	savedRepo savedClubRepo
}

func NewSavedClubHandler(savedRepo savedClubRepo) *SavedClubHandler {
	return &SavedClubHandler{savedRepo: savedRepo}
}

func (h *SavedClubHandler) ListSavedClubs(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	clubs, err := h.savedRepo.ListForUser(c.Context(), actor.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch saved clubs"})
	}
	return c.JSON(fiber.Map{"clubs": clubs})
}

func (h *SavedClubHandler) SaveClub(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if err := h.savedRepo.Save(c.Context(), actor.ID, c.Params("clubId")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save club"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
}

func (h *SavedClubHandler) UnsaveClub(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if err := h.savedRepo.Unsave(c.Context(), actor.ID, c.Params("clubId")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove saved club"})
	}
	return c.JSON(fiber.Map{"ok": true})
}
