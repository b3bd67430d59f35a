package model

import "negotiation-service/src/internal/entity"

// ConnectRideDecision is the pure output of the accept-offer decide step:
// every record the settlement transaction will write, computed up front so
// the commit itself does no business logic.
type ConnectRideDecision struct {
	Ride          entity.ConnectedRide
	Earning       entity.DriverEarning
	Payment       entity.PassengerPayment
	Notifications []entity.Notification
}
