package model

import (
	"encoding/json"
	"time"
)

// Outbound websocket event names. The client contract keeps the original
// listener names of the mobile/web apps.
const (
	EventNewMessage                  = "newMessage"
	EventConversationAlert           = "conversationAlert"
	EventErrorSendingMessage         = "errorSendingMessage"
	EventDriverSendedPriceOffer      = "driverSendedPriceOffer"
	EventPassengerSendedPriceOffer   = "passengerSendedPriceOffer"
	EventDriverAcceptedPriceOffer    = "driverAcceptedPriceOffer"
	EventPassengerAcceptedPriceOffer = "passengerAcceptedPriceOffer"
	EventRideStarted                 = "getNotifiedWhenRideStarts"
	EventRideCompletedByDriver       = "driverManuallyCompletedRide"
	EventRideCancelledByPassenger    = "passengerManuallyCanceledRide"
	EventConversationResolved        = "passengerFinishedConversation"
	EventConversationReopened        = "contactedDriverOtherReason"
	EventNotificationCounter         = "notificationCounterUpdater"
	EventNewRideRequest              = "newRideRequest"
	EventNewNotification             = "newNotification"
)

// Inbound websocket event names.
const (
	InboundSendOtherMessage = "sendOtherMessage"
)

// InboundEnvelope frames every client-to-server websocket message.
type InboundEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type ConversationAlert struct {
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Preview        string    `json:"preview"`
	SentAt         time.Time `json:"sentAt"`
	SenderImage    string    `json:"senderImage,omitempty"`
	SenderFullname string    `json:"senderFullname,omitempty"`
}

type RideAlert struct {
	PassengerID     string `json:"passengerId"`
	DriverID        string `json:"driverId"`
	ConnectedRideID string `json:"connectedRideId"`
}

type SuccessAlert struct {
	Success bool `json:"success"`
}

type NewRideRequestAlert struct {
	RideRequest RideRequestResponse `json:"rideRequest"`
	PassengerID string              `json:"passengerId"`
	Passenger   string              `json:"passengerFullname,omitempty"`
}
