package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/Josef-Holecek/krouzky-hb-main/internal/models"
	"github.com/Josef-Holecek/krouzky-hb-main/internal/repository"
	"github.com/Josef-Holecek/krouzky-hb-main/internal/services"
)

type trainerRepo interface {
	Create(ctx context.Context, input repository.CreateTrainerInput, ownerID string) (*models.Trainer, error)
	GetByID(ctx context.Context, id string) (*models.Trainer, error)
	ListPublic(ctx context.Context) ([]models.Trainer, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Trainer, error)
	Update(ctx context.Context, id string, input repository.CreateTrainerInput) (*models.Trainer, error)
	SetImage(ctx context.Context, id string, imageURL string) error
}

type TrainerHandler struct {
	trainerRepo trainerRepo
	auth        services.Authorizer
	storage     services.StorageService
}

func NewTrainerHandler(trainerRepo trainerRepo, auth services.Authorizer, storage services.StorageService) *TrainerHandler {
	return &TrainerHandler{
		trainerRepo: trainerRepo,
		auth:        auth,
		storage:     storage,
	}
}

type trainerRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone"`
	Bio            string `json:"bio"`
	Specialization string `json:"specialization"`
	Experience     int    `json:"experience" validate:"min=0"`
}

func (r trainerRequest) toInput() repository.CreateTrainerInput {
	return repository.CreateTrainerInput{
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Bio:            r.Bio,
		Specialization: r.Specialization,
		Experience:     r.Experience,
	}
}

func (h *TrainerHandler) ListTrainers(c *fiber.Ctx) error {
	trainers, err := h.trainerRepo.ListPublic(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch trainers"})
	}
	return c.JSON(fiber.Map{"trainers": trainers})
}

func (h *TrainerHandler) GetTrainer(c *fiber.Ctx) error {
	trainer, err := h.trainerRepo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trainer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch trainer"})
	}

	if !trainer.PubliclyVisible() {
		actor, err := actorFromLocals(c)
		if err != nil || (actor.ID != trainer.CreatedBy && !h.auth.IsAdmin(actor.Email)) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trainer not found"})
		}
	}

	return c.JSON(fiber.Map{"trainer": trainer})
}

func (h *TrainerHandler) MyTrainers(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	trainers, err := h.trainerRepo.ListByOwner(c.Context(), actor.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch trainers"})
	}
	return c.JSON(fiber.Map{"trainers": trainers})
}

func (h *TrainerHandler) CreateTrainer(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req trainerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed: " + err.Error()})
	}

	trainer, err := h.trainerRepo.Create(c.Context(), req.toInput(), actor.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create trainer profile"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"trainer": trainer})
}

func (h *TrainerHandler) UpdateTrainer(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	trainer, err := h.trainerRepo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trainer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch trainer"})
	}
	if trainer.CreatedBy != actor.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	var req trainerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed: " + err.Error()})
	}

	updated, err := h.trainerRepo.Update(c.Context(), trainer.ID, req.toInput())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update trainer profile"})
	}

	return c.JSON(fiber.Map{"trainer": updated})
}

func (h *TrainerHandler) UploadTrainerImage(c *fiber.Ctx) error {
	if h.storage == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Storage is not configured"})
	}

	actor, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	trainer, err := h.trainerRepo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trainer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch trainer"})
	}
	if trainer.CreatedBy != actor.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Image file is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to open uploaded file"})
	}
	defer file.Close()

	imageURL, err := h.storage.UploadImage(c.Context(), file, fileHeader.Filename, "trainers", trainer.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload image"})
	}

	if err := h.trainerRepo.SetImage(c.Context(), trainer.ID, imageURL); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save image"})
	}

	// Best-effort cleanup of the replaced blob.
	if trainer.Image != nil && *trainer.Image != imageURL {
		_ = h.storage.DeleteFile(c.Context(), *trainer.Image)
	}

	return c.JSON(fiber.Map{"image": imageURL})
}
