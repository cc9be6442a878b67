package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/Josef-Holecek/krouzky-hb-main/internal/models"
	"github.com/Josef-Holecek/krouzky-hb-main/internal/repository"
)

type stubTrainerRepo struct {
	getResult *models.Trainer
	getErr    error

	lastImageURL string
}

func (r *stubTrainerRepo) Create(_ context.Context, _ repository.CreateTrainerInput, _ string) (*models.Trainer, error) {
	return nil, nil
}

func (r *stubTrainerRepo) GetByID(_ context.Context, _ string) (*models.Trainer, error) {
	return r.getResult, r.getErr
}

func (r *stubTrainerRepo) ListPublic(_ context.Context) ([]models.Trainer, error) {
	return nil, nil
}

func (r *stubTrainerRepo) ListByOwner(_ context.Context, _ string) ([]models.Trainer, error) {
	return nil, nil
}

func (r *stubTrainerRepo) Update(_ context.Context, _ string, _ repository.CreateTrainerInput) (*models.Trainer, error) {
	return nil, nil
}

func (r *stubTrainerRepo) SetImage(_ context.Context, _ string, imageURL string) error {
	r.lastImageURL = imageURL
	return nil
}

func TestUploadTrainerImageDeletesReplacedBlob(t *testing.T) {
	oldURL := "https://blob.example.com/storage/v1/object/public/images/trainers/t1/1.jpg"
	repo := &stubTrainerRepo{
		getResult: &models.Trainer{ID: "t1", CreatedBy: "u1", Image: &oldURL},
	}
	storage := &stubStorageService{
		uploadResult: "https://blob.example.com/storage/v1/object/public/images/trainers/t1/2.jpg",
	}
	handler := NewTrainerHandler(repo, &stubAuthorizer{}, storage)

	app := fiber.New()
	app.Post("/api/v1/trainers/:id/image", authAs("u1", "owner@example.com", "Jana"), handler.UploadTrainerImage)

	resp, err := app.Test(newImageUploadRequest(t, "/api/v1/trainers/t1/image"))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if repo.lastImageURL != storage.uploadResult {
		t.Fatalf("expected new URL persisted, got %q", repo.lastImageURL)
	}
	if len(storage.deletedURLs) != 1 || storage.deletedURLs[0] != oldURL {
		t.Fatalf("expected old blob deleted, got %v", storage.deletedURLs)
	}
}
