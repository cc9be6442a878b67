package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Josef-Holecek/krouzky-hb-main/internal/models"
)

type TrainerRepository struct {
	db DBTX
}

func NewTrainerRepository(db DBTX) *TrainerRepository {
	return &TrainerRepository{db: db}
}

const trainerColumns = `
	id, name, email, phone, bio, specialization, experience, image,
	created_by, created_at, updated_at,
	status, approved_at, approved_by, rejected_at, rejected_by, reject_reason
`

type CreateTrainerInput struct {
	Name           string
	Email          string
	Phone          string
	Bio            string
	Specialization string
	Experience     int
}

func (r *TrainerRepository) Create(ctx context.Context, input CreateTrainerInput, ownerID string) (*models.Trainer, error) {
	query := `
		INSERT INTO trainers (
			id, name, email, phone, bio, specialization, experience,
			created_by, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending')
		RETURNING ` + trainerColumns

	row := r.db.QueryRow(ctx, query,
		uuid.NewString(),
		input.Name,
		input.Email,
		input.Phone,
		input.Bio,
		input.Specialization,
		input.Experience,
		ownerID,
	)
	return scanTrainer(row)
}

func (r *TrainerRepository) GetByID(ctx context.Context, id string) (*models.Trainer, error) {
	query := `SELECT ` + trainerColumns + ` FROM trainers WHERE id = $1`
	return scanTrainer(r.db.QueryRow(ctx, query, id))
}

func (r *TrainerRepository) ListPublic(ctx context.Context) ([]models.Trainer, error) {
	query := `
		SELECT ` + trainerColumns + `
		FROM trainers
		WHERE status IS NULL OR status = 'approved'
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanTrainers(rows)
}

func (r *TrainerRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Trainer, error) {
	query := `
		SELECT ` + trainerColumns + `
		FROM trainers
		WHERE created_by = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	return scanTrainers(rows)
}

func (r *TrainerRepository) ListAll(ctx context.Context) ([]models.Trainer, error) {
	query := `SELECT ` + trainerColumns + ` FROM trainers ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanTrainers(rows)
}

func (r *TrainerRepository) Update(ctx context.Context, id string, input CreateTrainerInput) (*models.Trainer, error) {
	query := `
		UPDATE trainers SET
			name = $2, email = $3, phone = $4, bio = $5,
			specialization = $6, experience = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + trainerColumns

	row := r.db.QueryRow(ctx, query,
		id,
		input.Name,
		input.Email,
		input.Phone,
		input.Bio,
		input.Specialization,
		input.Experience,
	)
	return scanTrainer(row)
}

func (r *TrainerRepository) SetImage(ctx context.Context, id string, imageURL string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE trainers SET image = $2, updated_at = NOW() WHERE id = $1
	`, id, imageURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *TrainerRepository) SetStatus(ctx context.Context, id string, change models.StatusChange) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE trainers SET
			status = $2,
			approved_at = $3, approved_by = $4,
			rejected_at = $5, rejected_by = $6, reject_reason = $7,
			updated_at = $8
		WHERE id = $1
	`,
		id,
		string(change.Status),
		change.ApprovedAt,
		change.ApprovedBy,
		change.RejectedAt,
		change.RejectedBy,
		change.RejectReason,
		change.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTrainer(row pgx.Row) (*models.Trainer, error) {
	var trainer models.Trainer
	var image sql.NullString
	var status sql.NullString
	var approvedAt, rejectedAt sql.NullTime
	var approvedBy, rejectedBy, rejectReason sql.NullString

	err := row.Scan(
		&trainer.ID,
		&trainer.Name,
		&trainer.Email,
		&trainer.Phone,
		&trainer.Bio,
		&trainer.Specialization,
		&trainer.Experience,
		&image,
		&trainer.CreatedBy,
		&trainer.CreatedAt,
		&trainer.UpdatedAt,
		&status,
		&approvedAt,
		&approvedBy,
		&rejectedAt,
		&rejectedBy,
		&rejectReason,
	)
	if err != nil {
		return nil, err
	}

	if image.Valid {
		trainer.Image = &image.String
	}
	trainer.Moderation = buildModeration(status, approvedAt, approvedBy, rejectedAt, rejectedBy, rejectReason)
	return &trainer, nil
}

func scanTrainers(rows pgx.Rows) ([]models.Trainer, error) {
	defer rows.Close()

	trainers := make([]models.Trainer, 0)
	for rows.Next() {
		trainer, err := scanTrainer(rows)
		if err != nil {
			return nil, err
		}
		trainers = append(trainers, *trainer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trainers, nil
}
