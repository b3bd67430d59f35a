package repository

import (
	"context"

	"negotiation-service/src/internal/entity"
	"negotiation-service/src/pkg/databases/mysql"
)

type MessageRepository struct {
	DB mysql.DBInterface
}

func NewMessageRepository(db mysql.DBInterface) *MessageRepository {
	return &MessageRepository{
		DB: db,
	}
}

// Create inserts the message and reads back the auto-assigned seq so the
// caller holds the message's final position in the conversation order.
func (r *MessageRepository) Create(ctx context.Context, message *entity.Message) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO messages
			(id, conversation_id, sender_id, sender_role, content, price_offer_cents, media_urls, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := db.ExecContext(ctx, query,
		message.ID,
		message.ConversationID,
		message.SenderID,
		message.SenderRole,
		message.Content,
		message.PriceOfferCents,
		message.MediaURLs,
		message.IsRead,
		message.CreatedAt,
	)
	if err != nil {
		return err
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return err
	}
	message.Seq = seq

	return nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id string) (*entity.Message, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var message entity.Message
	query := `
		SELECT id, seq, conversation_id, sender_id, sender_role, content, price_offer_cents, media_urls, is_read, created_at
		FROM messages
		WHERE id = ?
	`
	if err := db.GetContext(ctx, &message, query, id); err != nil {
		return nil, err
	}

	return &message, nil
}

// LatestIDBetween returns the id of the newest message exchanged between the
// two participants in the conversation. Ties on created_at are broken by the
// server-assigned seq.
func (r *MessageRepository) LatestIDBetween(ctx context.Context, conversationID, driverID, passengerID string) (string, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return "", err
	}

	var id string
	query := `
		SELECT id
		FROM messages
		WHERE conversation_id = ? AND sender_id IN (?, ?)
		ORDER BY created_at DESC, seq DESC
		LIMIT 1
	`
	if err := db.GetContext(ctx, &id, query, conversationID, driverID, passengerID); err != nil {
		return "", err
	}

	return id, nil
}
