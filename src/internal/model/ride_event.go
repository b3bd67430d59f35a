package model

import "time"

// Event is the contract every kafka event satisfies; the id becomes the
// message key.
type Event interface {
	GetId() string
}

type RideConnectedEvent struct {
	EventID       string    `json:"event_id"`
	RideID        string    `json:"ride_id"`
	RideRequestID string    `json:"ride_request_id"`
	DriverID      string    `json:"driver_id"`
	PassengerID   string    `json:"passenger_id"`
	Amount        string    `json:"amount"`
	Fee           string    `json:"fee"`
	NetEarnings   string    `json:"net_earnings"`
	TotalPaid     string    `json:"total_paid"`
	ConnectedAt   time.Time `json:"connected_at"`
}

func (e *RideConnectedEvent) GetId() string {
	return e.EventID
}

type RideLifecycleEvent struct {
	EventID     string    `json:"event_id"`
	RideID      string    `json:"ride_id"`
	DriverID    string    `json:"driver_id"`
	PassengerID string    `json:"passenger_id"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e *RideLifecycleEvent) GetId() string {
	return e.EventID
}

// RideRequestBroadcastTask is the asynq payload for the city-wide driver
// broadcast of a freshly posted ride request.
type RideRequestBroadcastTask struct {
	RideRequestID string `json:"ride_request_id"`
}

const TypeBroadcastRideRequest = "ride:broadcast-request"
