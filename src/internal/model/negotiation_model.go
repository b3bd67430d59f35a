package model

// Fields tagged `json:"-"` are stamped from the verified token by the
// delivery layer, never trusted from the body.

type CreateRideRequestRequest struct {
	PassengerID string  `json:"-" validate:"required,uuid"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	FromAddress string  `json:"fromAddress" validate:"required,max=255"`
	ToAddress   string  `json:"toAddress" validate:"required,max=255"`
	IsUrgent    bool    `json:"isUrgent"`
}

type OpenSupportConversationRequest struct {
	UserID     string `json:"-" validate:"required,uuid"`
	SenderRole string `json:"-" validate:"required"`
	Type       string `json:"type" validate:"required,oneof=support other"`
	DriverID   string `json:"driverId" validate:"omitempty,uuid"`
	Content    string `json:"content" validate:"required,max=2000"`
}

// SendPriceOfferRequest carries either an existing conversation id or, for a
// driver's opening offer, the ride request id the conversation is created for.
type SendPriceOfferRequest struct {
	SenderID       string  `json:"-" validate:"required,uuid"`
	SenderRole     string  `json:"-" validate:"required"`
	DriverID       string  `json:"driverId" validate:"required,uuid"`
	PassengerID    string  `json:"passengerId" validate:"required,uuid"`
	ConversationID string  `json:"conversationId" validate:"omitempty,uuid"`
	RideRequestID  string  `json:"rideRequestId" validate:"omitempty,uuid"`
	PriceOffer     float64 `json:"priceOffer" validate:"required,gt=0"`
	Content        string  `json:"content" validate:"max=2000"`
}

type SendOtherMessageRequest struct {
	SenderID       string   `json:"-" validate:"required,uuid"`
	SenderRole     string   `json:"-" validate:"required"`
	SenderImage    string   `json:"-"`
	SenderFullname string   `json:"-"`
	ConversationID string   `json:"conversationId" validate:"required,uuid"`
	DriverID       string   `json:"driverId" validate:"required,uuid"`
	PassengerID    string   `json:"passengerId" validate:"required,uuid"`
	Content        string   `json:"content" validate:"required,max=2000"`
	MediaFiles     []string `json:"mediaFiles" validate:"omitempty,dive,base64"`
}

type ConnectRideRequest struct {
	InitiatorID   string `json:"-" validate:"required,uuid"`
	InitiatorRole string `json:"-" validate:"required,oneof=driver passenger"`
	DriverID      string `json:"driverId" validate:"required,uuid"`
	PassengerID   string `json:"passengerId" validate:"required,uuid"`
	MessageID     string `json:"messageId" validate:"required,uuid"`
}

type ResolveConversationRequest struct {
	PassengerID   string `json:"-" validate:"required,uuid"`
	RideRequestID string `json:"rideRequestId" validate:"required,uuid"`
}

type ReopenConversationRequest struct {
	PassengerID    string `json:"-" validate:"required,uuid"`
	ConversationID string `json:"conversationId" validate:"required,uuid"`
}

type StartRideRequest struct {
	DriverID        string `json:"-" validate:"required,uuid"`
	ConnectedRideID string `json:"connectedRideId" validate:"required,uuid"`
}

type CompleteRideRequest struct {
	DriverID             string  `json:"-" validate:"required,uuid"`
	ConnectedRideID      string  `json:"connectedRideId" validate:"required,uuid"`
	DriverExactLatitude  float64 `json:"driverExactLatitude" validate:"latitude"`
	DriverExactLongitude float64 `json:"driverExactLongitude" validate:"longitude"`
}

type CancelRideRequest struct {
	PassengerID     string `json:"-" validate:"required,uuid"`
	ConnectedRideID string `json:"connectedRideId" validate:"required,uuid"`
}
