package repository

import (
	"context"
	"time"

	"negotiation-service/src/internal/entity"
	"negotiation-service/src/pkg/databases/mysql"
)

type ConversationRepository struct {
	DB mysql.DBInterface
}

func NewConversationRepository(db mysql.DBInterface) *ConversationRepository {
	return &ConversationRepository{
		DB: db,
	}
}

func (r *ConversationRepository) Create(ctx context.Context, conversation *entity.Conversation) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO conversations
			(id, ride_request_id, driver_id, passenger_id, support_id, state, last_message_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = db.ExecContext(ctx, query,
		conversation.ID,
		conversation.RideRequestID,
		conversation.DriverID,
		conversation.PassengerID,
		conversation.SupportID,
		conversation.State,
		conversation.LastMessageAt,
		conversation.CreatedAt,
	)
	return err
}

func (r *ConversationRepository) FindByID(ctx context.Context, id string) (*entity.Conversation, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var conversation entity.Conversation
	query := `
		SELECT id, ride_request_id, driver_id, passenger_id, support_id, state, last_message_at, created_at
		FROM conversations
		WHERE id = ?
	`
	if err := db.GetContext(ctx, &conversation, query, id); err != nil {
		return nil, err
	}

	return &conversation, nil
}

func (r *ConversationRepository) FindByRideRequestID(ctx context.Context, rideRequestID string) (*entity.Conversation, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var conversation entity.Conversation
	query := `
		SELECT id, ride_request_id, driver_id, passenger_id, support_id, state, last_message_at, created_at
		FROM conversations
		WHERE ride_request_id = ?
	`
	if err := db.GetContext(ctx, &conversation, query, rideRequestID); err != nil {
		return nil, err
	}

	return &conversation, nil
}

func (r *ConversationRepository) UpdateState(ctx context.Context, id string, state entity.ConversationState) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `UPDATE conversations SET state = ? WHERE id = ?`
	_, err = db.ExecContext(ctx, query, state, id)
	return err
}

func (r *ConversationRepository) TouchLastMessage(ctx context.Context, id string, at time.Time) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `UPDATE conversations SET last_message_at = ? WHERE id = ?`
	_, err = db.ExecContext(ctx, query, at, id)
	return err
}
