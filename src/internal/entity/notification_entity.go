package entity

import (
	"database/sql"
	"time"
)

type NotificationType string

const (
	NotificationRideRequestCreated NotificationType = "ride_request_created"
	NotificationRideConnected      NotificationType = "ride_connected"
	NotificationRideStarted        NotificationType = "ride_started"
	NotificationRideCompleted      NotificationType = "ride_completed"
	NotificationRideCancelled      NotificationType = "ride_cancelled"
	NotificationSupportTicket      NotificationType = "support_ticket"
)

// Notification is the durable record behind best-effort live delivery; the
// user-facing read/delete CRUD lives outside this service.
type Notification struct {
	ID        string           `db:"id" json:"id"`
	UserID    string           `db:"user_id" json:"user_id"`
	Title     string           `db:"title" json:"title"`
	Message   string           `db:"message" json:"message"`
	Type      NotificationType `db:"type" json:"type"`
	IsRead    bool             `db:"is_read" json:"is_read"`
	Metadata  sql.NullString   `db:"metadata" json:"metadata"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}
