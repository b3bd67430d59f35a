package entity

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ConversationState is a single tagged state combining the channel kind with
// whether the conversation is resolved. Modelled as one enum so that an
// illegal kind/resolved combination cannot be stored.
type ConversationState string

const (
	ConversationRideOpen        ConversationState = "ride_open"
	ConversationRideResolved    ConversationState = "ride_resolved"
	ConversationOtherOpen       ConversationState = "other_open"
	ConversationOtherResolved   ConversationState = "other_resolved"
	ConversationSupportOpen     ConversationState = "support_open"
	ConversationSupportResolved ConversationState = "support_resolved"
)

// RideRelated reports whether the conversation negotiates a ride request.
func (s ConversationState) RideRelated() bool {
	return s == ConversationRideOpen || s == ConversationRideResolved
}

// Resolved conversations are read-only for new offers and free messages.
func (s ConversationState) Resolved() bool {
	switch s {
	case ConversationRideResolved, ConversationOtherResolved, ConversationSupportResolved:
		return true
	}
	return false
}

// Resolve returns the resolved variant of the state.
func (s ConversationState) Resolve() ConversationState {
	switch s {
	case ConversationRideOpen:
		return ConversationRideResolved
	case ConversationOtherOpen:
		return ConversationOtherResolved
	case ConversationSupportOpen:
		return ConversationSupportResolved
	}
	return s
}

// Reopen returns the open variant of the state.
func (s ConversationState) Reopen() ConversationState {
	switch s {
	case ConversationRideResolved:
		return ConversationRideOpen
	case ConversationOtherResolved:
		return ConversationOtherOpen
	case ConversationSupportResolved:
		return ConversationSupportOpen
	}
	return s
}

// Conversation is the negotiation channel. Ride-related conversations have
// both driver and passenger bound plus exactly one ride request; support
// conversations may have no driver.
type Conversation struct {
	ID            string            `db:"id" json:"id"`
	RideRequestID sql.NullString    `db:"ride_request_id" json:"ride_request_id"`
	DriverID      sql.NullString    `db:"driver_id" json:"driver_id"`
	PassengerID   string            `db:"passenger_id" json:"passenger_id"`
	SupportID     sql.NullString    `db:"support_id" json:"support_id"`
	State         ConversationState `db:"state" json:"state"`
	LastMessageAt time.Time         `db:"last_message_at" json:"last_message_at"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
}

// IsParticipant reports whether userID is the bound driver or passenger.
func (c *Conversation) IsParticipant(userID string) bool {
	if c.PassengerID == userID {
		return true
	}
	return c.DriverID.Valid && c.DriverID.String == userID
}

// CounterpartOf returns the other side of the channel for userID.
func (c *Conversation) CounterpartOf(userID string) string {
	if c.DriverID.Valid && userID == c.DriverID.String {
		return c.PassengerID
	}
	if c.DriverID.Valid {
		return c.DriverID.String
	}
	if c.SupportID.Valid {
		return c.SupportID.String
	}
	return ""
}

// MediaURLs is stored as a JSON array column.
type MediaURLs []string

func (m MediaURLs) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (m *MediaURLs) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return fmt.Errorf("unsupported media_urls type %T", src)
}

// Message is immutable once created. Total order inside a conversation is
// (created_at, seq); seq is server-assigned and breaks timestamp ties.
type Message struct {
	ID              string        `db:"id" json:"id"`
	Seq             int64         `db:"seq" json:"seq"`
	ConversationID  string        `db:"conversation_id" json:"conversation_id"`
	SenderID        string        `db:"sender_id" json:"sender_id"`
	SenderRole      Role          `db:"sender_role" json:"sender_role"`
	Content         string        `db:"content" json:"content"`
	PriceOfferCents sql.NullInt64 `db:"price_offer_cents" json:"price_offer_cents"`
	MediaURLs       MediaURLs     `db:"media_urls" json:"media_urls"`
	IsRead          bool          `db:"is_read" json:"is_read"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
}
