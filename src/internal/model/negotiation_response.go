package model

import "time"

type RideRequestResponse struct {
	ID          string    `json:"id"`
	PassengerID string    `json:"passengerId"`
	Price       string    `json:"price"`
	FromAddress string    `json:"fromAddress"`
	ToAddress   string    `json:"toAddress"`
	IsUrgent    bool      `json:"isUrgent"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ConversationResponse struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	IsResolved    bool      `json:"isResolved"`
	RideRequestID string    `json:"rideRequestId,omitempty"`
	DriverID      string    `json:"driverId,omitempty"`
	PassengerID   string    `json:"passengerId"`
	LastMessageAt time.Time `json:"lastMessageAt"`
}

type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	SenderRole     string    `json:"senderRole"`
	Content        string    `json:"content"`
	PriceOffer     *string   `json:"priceOffer,omitempty"`
	MediaURLs      []string  `json:"mediaUrls,omitempty"`
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}

type RideResponse struct {
	ID            string    `json:"id"`
	DriverID      string    `json:"driverId"`
	PassengerID   string    `json:"passengerId"`
	RideRequestID string    `json:"rideRequestId"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type ConnectRideResponse struct {
	RideID      string `json:"rideId"`
	Status      string `json:"status"`
	Amount      string `json:"amount"`
	Fee         string `json:"fee"`
	NetEarnings string `json:"netEarnings"`
	Surcharge   string `json:"surcharge"`
	TotalPaid   string `json:"totalPaid"`
}
