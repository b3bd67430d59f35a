package converter

import (
	"negotiation-service/src/internal/entity"
	"negotiation-service/src/internal/model"
	"negotiation-service/src/pkg/money"
)

func RideRequestToResponse(r *entity.RideRequest) model.RideRequestResponse {
	return model.RideRequestResponse{
		ID:          r.ID,
		PassengerID: r.PassengerID,
		Price:       money.FormatCents(r.PriceCents),
		FromAddress: r.FromAddress,
		ToAddress:   r.ToAddress,
		IsUrgent:    r.IsUrgent,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
	}
}

func ConversationToResponse(c *entity.Conversation) model.ConversationResponse {
	resp := model.ConversationResponse{
		ID:            c.ID,
		IsResolved:    c.State.Resolved(),
		PassengerID:   c.PassengerID,
		LastMessageAt: c.LastMessageAt,
	}
	switch {
	case c.State.RideRelated():
		resp.Type = "ride_related"
	case c.State == entity.ConversationSupportOpen || c.State == entity.ConversationSupportResolved:
		resp.Type = "support"
	default:
		resp.Type = "other"
	}
	if c.RideRequestID.Valid {
		resp.RideRequestID = c.RideRequestID.String
	}
	if c.DriverID.Valid {
		resp.DriverID = c.DriverID.String
	}
	return resp
}

func MessageToResponse(m *entity.Message) model.MessageResponse {
	resp := model.MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		SenderRole:     string(m.SenderRole),
		Content:        m.Content,
		MediaURLs:      m.MediaURLs,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
	if m.PriceOfferCents.Valid {
		offer := money.FormatCents(m.PriceOfferCents.Int64)
		resp.PriceOffer = &offer
	}
	return resp
}

func RideToResponse(r *entity.ConnectedRide) model.RideResponse {
	return model.RideResponse{
		ID:            r.ID,
		DriverID:      r.DriverID,
		PassengerID:   r.PassengerID,
		RideRequestID: r.RideRequestID,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func SettlementToResponse(ride *entity.ConnectedRide, s money.Settlement) model.ConnectRideResponse {
	return model.ConnectRideResponse{
		RideID:      ride.ID,
		Status:      string(ride.Status),
		Amount:      money.FormatCents(s.AmountCents),
		Fee:         money.FormatCents(s.FeeCents),
		NetEarnings: money.FormatCents(s.NetEarningsCents),
		Surcharge:   money.FormatCents(s.SurchargeCents),
		TotalPaid:   money.FormatCents(s.TotalPaidCents),
	}
}
