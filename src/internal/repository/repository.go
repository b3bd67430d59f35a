package repository

import (
	"context"
	"errors"
	"time"

	"negotiation-service/src/internal/entity"
	"negotiation-service/src/internal/model"
)

// ErrDuplicateRide signals that a ConnectedRide already exists for the ride
// request (unique constraint on ride_request_id).
var ErrDuplicateRide = errors.New("ride request already connected")

// Store interfaces consumed by the usecases; the concrete sqlx repositories
// below implement them, tests substitute fakes.

type UserStore interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindDriverIDsByCity(ctx context.Context, city string) ([]string, error)
}

type RideRequestStore interface {
	Create(ctx context.Context, rideRequest *entity.RideRequest) error
	FindByID(ctx context.Context, id string) (*entity.RideRequest, error)
	UpdateStatus(ctx context.Context, id string, status entity.RideRequestStatus) error
}

type ConversationStore interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	FindByID(ctx context.Context, id string) (*entity.Conversation, error)
	FindByRideRequestID(ctx context.Context, rideRequestID string) (*entity.Conversation, error)
	UpdateState(ctx context.Context, id string, state entity.ConversationState) error
	TouchLastMessage(ctx context.Context, id string, at time.Time) error
}

type MessageStore interface {
	Create(ctx context.Context, message *entity.Message) error
	FindByID(ctx context.Context, id string) (*entity.Message, error)
	LatestIDBetween(ctx context.Context, conversationID, driverID, passengerID string) (string, error)
}

type ConnectedRideStore interface {
	FindByID(ctx context.Context, id string) (*entity.ConnectedRide, error)
	UpdateStatus(ctx context.Context, id string, status entity.ConnectedRideStatus) error
}

type SettlementStore interface {
	ConnectRide(ctx context.Context, decision *model.ConnectRideDecision) error
}

type NotificationStore interface {
	Create(ctx context.Context, notification *entity.Notification) error
	CountUnread(ctx context.Context, userID string) (int64, error)
}
