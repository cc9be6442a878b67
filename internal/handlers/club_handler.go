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

type clubRepo interface {
	Create(ctx context.Context, input repository.CreateClubInput, ownerID string) (*models.Club, error)
	GetByID(ctx context.Context, id string) (*models.Club, error)
	ListPublic(ctx context.Context, category string) ([]models.Club, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Club, error)
	Update(ctx context.Context, id string, input repository.CreateClubInput) (*models.Club, error)
	SetImage(ctx context.Context, id string, imageURL string) error
}

type ClubHandler struct {
	clubRepo clubRepo
	auth     services.Authorizer
	storage  services.StorageService
}

func NewClubHandler(clubRepo clubRepo, auth services.Authorizer, storage services.StorageService) *ClubHandler {
	return &ClubHandler{
		clubRepo: clubRepo,
		auth:     auth,
		storage:  storage,
	}
}

type clubRequest struct {
	Name         string  `json:"name" validate:"required"`
	Category     string  `json:"category" validate:"required"`
	Description  string  `json:"description"`
	Address      string  `json:"address"`
	DayTime      string  `json:"day_time"`
	TrainerName  string  `json:"trainer_name"`
	TrainerEmail string  `json:"trainer_email" validate:"omitempty,email"`
	TrainerPhone string  `json:"trainer_phone"`
	Web          string  `json:"web"`
	AgeFrom      int     `json:"age_from" validate:"min=0"`
	AgeTo        int     `json:"age_to" validate:"min=0"`
	Level        string  `json:"level"`
	Capacity     int     `json:"capacity" validate:"min=0"`
	Price        float64 `json:"price" validate:"min=0"`
	PricePeriod  string  `json:"price_period" validate:"omitempty,oneof=per_lesson monthly quarterly semester yearly one_time"`
}

func (r clubRequest) toInput() repository.CreateClubInput {
	return repository.CreateClubInput{
		Name:         r.Name,
		Category:     r.Category,
		Description:  r.Description,
		Address:      r.Address,
		DayTime:      r.DayTime,
		TrainerName:  r.TrainerName,
		TrainerEmail: r.TrainerEmail,
		TrainerPhone: r.TrainerPhone,
		Web:          r.Web,
		AgeFrom:      r.AgeFrom,
		AgeTo:        r.AgeTo,
		Level:        r.Level,
		Capacity:     r.Capacity,
		Price:        r.Price,
		PricePeriod:  r.PricePeriod,
	}
}

// ListClubs is the anonymous listing: only approved (or legacy, status-less)
// clubs, optionally filtered by category.
func (h *ClubHandler) ListClubs(c *fiber.Ctx) error {
	clubs, err := h.clubRepo.ListPublic(c.Context(), c.Query("category"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch clubs"})
	}
	return c.JSON(fiber.Map{"clubs": clubs})
}

// GetClub returns one club. Pending and rejected clubs are visible only to
// their owner and to administrators.
func (h *ClubHandler) GetClub(c *fiber.Ctx) error {
	club, err := h.clubRepo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Club not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch club"})
	}

	if !club.PubliclyVisible() {
		actor, err := actorFromLocals(c)
		if err != nil || (actor.ID != club.CreatedBy && !h.auth.IsAdmin(actor.Email)) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Club not found"})
		}
	}

	return c.JSON(fiber.Map{"club": club})
}

func (h *ClubHandler) MyClubs(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	clubs, err := h.clubRepo.ListByOwner(c.Context(), actor.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch clubs"})
	}
	return c.JSON(fiber.Map{"clubs": clubs})
}

// CreateClub inserts a new listing; it always starts in state pending.
func (h *ClubHandler) CreateClub(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req clubRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed: " + err.Error()})
	}

	club, err := h.clubRepo.Create(c.Context(), req.toInput(), actor.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create club"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"club": club})
}

// UpdateClub rewrites the content fields. Only the owner may edit, and an
// edit never changes moderation status: a rejected club stays rejected
// until an administrator re-reviews it.
func (h *ClubHandler) UpdateClub(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	club, err := h.clubRepo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Club not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch club"})
	}
	if club.CreatedBy != actor.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	var req clubRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed: " + err.Error()})
	}

	updated, err := h.clubRepo.Update(c.Context(), club.ID, req.toInput())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update club"})
	}

	return c.JSON(fiber.Map{"club": updated})
}

// UploadClubImage stores the image in the blob store and writes the URL
// back to the club row. Owner only.
func (h *ClubHandler) UploadClubImage(c *fiber.Ctx) error {
	if h.storage == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Storage is not configured"})
	}

	actor, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	club, err := h.clubRepo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Club not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch club"})
	}
	if club.CreatedBy != actor.ID {
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

	imageURL, err := h.storage.UploadImage(c.Context(), file, fileHeader.Filename, "clubs", club.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload image"})
	}

	if err := h.clubRepo.SetImage(c.Context(), club.ID, imageURL); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save image"})
	}

	// Best-effort cleanup of the replaced blob.
	if club.Image != nil && *club.Image != imageURL {
		_ = h.storage.DeleteFile(c.Context(), *club.Image)
	}

	return c.JSON(fiber.Map{"image": imageURL})
}
