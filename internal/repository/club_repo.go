package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Josef-Holecek/krouzky-hb-main/internal/models"
)

type ClubRepository struct {
	db DBTX
}

func NewClubRepository(db DBTX) *ClubRepository {
	return &ClubRepository{db: db}
}

const clubColumns = `
	id, name, category, description, address, day_time,
	trainer_name, trainer_email, trainer_phone, web,
	age_from, age_to, level, capacity, price, price_period, image,
	created_by, created_at, updated_at,
	status, approved_at, approved_by, rejected_at, rejected_by, reject_reason
`

type CreateClubInput struct {
	Name         string
	Category     string
	Description  string
	Address      string
	DayTime      string
	TrainerName  string
	TrainerEmail string
	TrainerPhone string
	Web          string
	AgeFrom      int
	AgeTo        int
	Level        string
	Capacity     int
	Price        float64
	PricePeriod  string
}

// Create inserts a new club in state pending with all review metadata null.
func (r *ClubRepository) Create(ctx context.Context, input CreateClubInput, ownerID string) (*models.Club, error) {
	query := `
		INSERT INTO clubs (
			id, name, category, description, address, day_time,
			trainer_name, trainer_email, trainer_phone, web,
			age_from, age_to, level, capacity, price, price_period,
			created_by, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, 'pending')
		RETURNING ` + clubColumns

	row := r.db.QueryRow(ctx, query,
		uuid.NewString(),
		input.Name,
		input.Category,
		input.Description,
		input.Address,
		input.DayTime,
		input.TrainerName,
		input.TrainerEmail,
		input.TrainerPhone,
		input.Web,
		input.AgeFrom,
		input.AgeTo,
		input.Level,
		input.Capacity,
		input.Price,
		input.PricePeriod,
		ownerID,
	)
	return scanClub(row)
}

func (r *ClubRepository) GetByID(ctx context.Context, id string) (*models.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs WHERE id = $1`
	return scanClub(r.db.QueryRow(ctx, query, id))
}

// ListPublic returns clubs visible to anonymous queries: approved or legacy
// rows with no status. An empty category matches everything.
func (r *ClubRepository) ListPublic(ctx context.Context, category string) ([]models.Club, error) {
	query := `
		SELECT ` + clubColumns + `
		FROM clubs
		WHERE (status IS NULL OR status = 'approved')
		  AND ($1 = '' OR category = $1)
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, category)
	if err != nil {
		return nil, err
	}
	return scanClubs(rows)
}

func (r *ClubRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Club, error) {
	query := `
		SELECT ` + clubColumns + `
		FROM clubs
		WHERE created_by = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	return scanClubs(rows)
}

func (r *ClubRepository) ListAll(ctx context.Context) ([]models.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanClubs(rows)
}

// Update rewrites the content fields only; moderation columns and ownership
// are never touched here.
func (r *ClubRepository) Update(ctx context.Context, id string, input CreateClubInput) (*models.Club, error) {
	query := `
		UPDATE clubs SET
			name = $2, category = $3, description = $4, address = $5, day_time = $6,
			trainer_name = $7, trainer_email = $8, trainer_phone = $9, web = $10,
			age_from = $11, age_to = $12, level = $13, capacity = $14,
			price = $15, price_period = $16,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + clubColumns

	row := r.db.QueryRow(ctx, query,
		id,
		input.Name,
		input.Category,
		input.Description,
		input.Address,
		input.DayTime,
		input.TrainerName,
		input.TrainerEmail,
		input.TrainerPhone,
		input.Web,
		input.AgeFrom,
		input.AgeTo,
		input.Level,
		input.Capacity,
		input.Price,
		input.PricePeriod,
	)
	return scanClub(row)
}

func (r *ClubRepository) SetImage(ctx context.Context, id string, imageURL string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE clubs SET image = $2, updated_at = NOW() WHERE id = $1
	`, id, imageURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetStatus applies a review decision as one atomic update.
func (r *ClubRepository) SetStatus(ctx context.Context, id string, change models.StatusChange) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE clubs SET
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

func scanClub(row pgx.Row) (*models.Club, error) {
	var club models.Club
	var image sql.NullString
	var status sql.NullString
	var approvedAt, rejectedAt sql.NullTime
	var approvedBy, rejectedBy, rejectReason sql.NullString

	err := row.Scan(
		&club.ID,
		&club.Name,
		&club.Category,
		&club.Description,
		&club.Address,
		&club.DayTime,
		&club.TrainerName,
		&club.TrainerEmail,
		&club.TrainerPhone,
		&club.Web,
		&club.AgeFrom,
		&club.AgeTo,
		&club.Level,
		&club.Capacity,
		&club.Price,
		&club.PricePeriod,
		&image,
		&club.CreatedBy,
		&club.CreatedAt,
		&club.UpdatedAt,
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
		club.Image = &image.String
	}
	club.Moderation = buildModeration(status, approvedAt, approvedBy, rejectedAt, rejectedBy, rejectReason)
	return &club, nil
}

func scanClubs(rows pgx.Rows) ([]models.Club, error) {
	defer rows.Close()

	clubs := make([]models.Club, 0)
	for rows.Next() {
		club, err := scanClub(rows)
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, *club)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return clubs, nil
}

func buildModeration(
	status sql.NullString,
	approvedAt sql.NullTime,
	approvedBy sql.NullString,
	rejectedAt sql.NullTime,
	rejectedBy, rejectReason sql.NullString,
) models.Moderation {
	var moderation models.Moderation
	if status.Valid {
		value := models.ModerationStatus(status.String)
		moderation.Status = &value
	}
	if approvedAt.Valid {
		moderation.ApprovedAt = &approvedAt.Time
	}
	if approvedBy.Valid {
		moderation.ApprovedBy = &approvedBy.String
	}
	if rejectedAt.Valid {
		moderation.RejectedAt = &rejectedAt.Time
	}
	if rejectedBy.Valid {
		moderation.RejectedBy = &rejectedBy.String
	}
	if rejectReason.Valid {
		moderation.RejectReason = &rejectReason.String
	}
	return moderation
}
