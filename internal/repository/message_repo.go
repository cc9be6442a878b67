package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Josef-Holecek/krouzky-hb-main/internal/models"
)

type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = `
	id, from_user_id, from_user_name, to_user_id, to_user_name,
	trainer_id, trainer_name, subject, body, read, status,
	created_at, updated_at
`

// Create persists a message exactly as handed over, including the
// sender-side timestamps. The id is assigned here.
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	message.ID = uuid.NewString()
	_, err := r.db.Exec(ctx, `
		INSERT INTO messages (
			id, from_user_id, from_user_name, to_user_id, to_user_name,
			trainer_id, trainer_name, subject, body, read, status,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		message.ID,
		message.FromUserID,
		message.FromUserName,
		message.ToUserID,
		message.ToUserName,
		message.TrainerID,
		message.TrainerName,
		message.Subject,
		message.Body,
		message.Read,
		string(message.Status),
		message.CreatedAt,
		message.UpdatedAt,
	)
	return err
}

// ListForUser returns the flat log: every message where the user is sender
// or recipient, newest first by the stored timestamp.
func (r *MessageRepository) ListForUser(ctx context.Context, userID string) ([]models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var message models.Message
		if err := rows.Scan(
			&message.ID,
			&message.FromUserID,
			&message.FromUserName,
			&message.ToUserID,
			&message.ToUserName,
			&message.TrainerID,
			&message.TrainerName,
			&message.Subject,
			&message.Body,
			&message.Read,
			&message.Status,
			&message.CreatedAt,
			&message.UpdatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkIncomingRead flips every unread message from counterpart to viewer to
// read. The read=FALSE guard keeps already-read rows untouched.
func (r *MessageRepository) MarkIncomingRead(ctx context.Context, viewerID, counterpartID string, at time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE messages
		SET read = TRUE, status = 'read', updated_at = $3
		WHERE to_user_id = $1
		  AND from_user_id = $2
		  AND read = FALSE
	`, viewerID, counterpartID, at)
	return err
}

// MarkOutgoingDelivered advances the viewer's own messages to the
// counterpart from sent to delivered. The status='sent' guard keeps the
// per-message status monotonic: delivered and read rows never regress.
func (r *MessageRepository) MarkOutgoingDelivered(ctx context.Context, viewerID, counterpartID string, at time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE messages
		SET status = 'delivered', updated_at = $3
		WHERE from_user_id = $1
		  AND to_user_id = $2
		  AND status = 'sent'
	`, viewerID, counterpartID, at)
	return err
}
