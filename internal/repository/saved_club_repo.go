package repository

import (
	"context"

	"github.com/Josef-Holecek/krouzky-hb-main/internal/models"
)

type SavedClubRepository struct {
	db DBTX
}

func NewSavedClubRepository(db DBTX) *SavedClubRepository {
	return &SavedClubRepository{db: db}
}

// Save bookmarks a club for a user; saving twice is a no-op.
func (r *SavedClubRepository) Save(ctx context.Context, userID, clubID string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO saved_clubs (user_id, club_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, club_id) DO NOTHING
	`, userID, clubID)
	return err
}

func (r *SavedClubRepository) Unsave(ctx context.Context, userID, clubID string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM saved_clubs
		WHERE user_id = $1 AND club_id = $2
	`, userID, clubID)
	return err
}

// ListForUser returns the bookmarked club rows, most recently saved first.
func (r *SavedClubRepository) ListForUser(ctx context.Context, userID string) ([]models.Club, error) {
	query := `
		SELECT ` + savedClubColumns + `
		FROM saved_clubs s
		JOIN clubs c ON c.id = s.club_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanClubs(rows)
}

const savedClubColumns = `
	c.id, c.name, c.category, c.description, c.address, c.day_time,
	c.trainer_name, c.trainer_email, c.trainer_phone, c.web,
	c.age_from, c.age_to, c.level, c.capacity, c.price, c.price_period, c.image,
	c.created_by, c.created_at, c.updated_at,
	c.status, c.approved_at, c.approved_by, c.rejected_at, c.rejected_by, c.reject_reason
`
