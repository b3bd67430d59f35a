package entity

import "time"

type RideRequestStatus string

const (
	RideRequestWaiting   RideRequestStatus = "waiting"
	RideRequestCompleted RideRequestStatus = "completed"
	RideRequestCancelled RideRequestStatus = "cancelled"
)

// RideRequest is a passenger's posted trip intent. At most one conversation
// and at most one connected ride ever reference it.
type RideRequest struct {
	ID          string            `db:"id" json:"id"`
	PassengerID string            `db:"passenger_id" json:"passenger_id"`
	PriceCents  int64             `db:"price_cents" json:"price_cents"`
	FromAddress string            `db:"from_address" json:"from_address"`
	ToAddress   string            `db:"to_address" json:"to_address"`
	IsUrgent    bool              `db:"is_urgent" json:"is_urgent"`
	Status      RideRequestStatus `db:"status" json:"status"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
}

type ConnectedRideStatus string

const (
	ConnectedRideWaiting              ConnectedRideStatus = "waiting"
	ConnectedRideDriving              ConnectedRideStatus = "driving"
	ConnectedRideCompleted            ConnectedRideStatus = "completed"
	ConnectedRideCancelledByDriver    ConnectedRideStatus = "cancelled_by_driver"
	ConnectedRideCancelledByPassenger ConnectedRideStatus = "cancelled_by_passenger"
)

// ConnectedRide is created exactly once per accepted negotiation; the
// ride_request_id column carries a unique constraint.
type ConnectedRide struct {
	ID            string              `db:"id" json:"id"`
	DriverID      string              `db:"driver_id" json:"driver_id"`
	PassengerID   string              `db:"passenger_id" json:"passenger_id"`
	RideRequestID string              `db:"ride_request_id" json:"ride_request_id"`
	Status        ConnectedRideStatus `db:"status" json:"status"`
	CreatedAt     time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `db:"updated_at" json:"updated_at"`
}
