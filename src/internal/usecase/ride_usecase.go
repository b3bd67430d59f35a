package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"negotiation-service/src/internal/entity"
	"negotiation-service/src/internal/model"
	"negotiation-service/src/internal/model/converter"
	"negotiation-service/src/internal/repository"
	httpError "negotiation-service/src/pkg/http-error"
	"negotiation-service/src/pkg/log"
	"negotiation-service/src/pkg/money"
	"negotiation-service/src/pkg/utils"
)

type RideUsecase struct {
	Log                     log.Log
	Validate                *validator.Validate
	PlatformFeeCents        int64
	PaymentFeeCents         int64
	MessageRepository       repository.MessageStore
	ConversationRepository  repository.ConversationStore
	RideRequestRepository   repository.RideRequestStore
	ConnectedRideRepository repository.ConnectedRideStore
	SettlementRepository    repository.SettlementStore
	NotificationRepository  repository.NotificationStore
	Notifier                Notifier
	RideConnectedProducer   RideConnectedPublisher
	RideLifecycleProducer   RideLifecyclePublisher
}

func NewRideUsecase(
	logger log.Log,
	validate *validator.Validate,
	platformFeeCents int64,
	paymentFeeCents int64,
	messageRepository repository.MessageStore,
	conversationRepository repository.ConversationStore,
	rideRequestRepository repository.RideRequestStore,
	connectedRideRepository repository.ConnectedRideStore,
	settlementRepository repository.SettlementStore,
	notificationRepository repository.NotificationStore,
	notifier Notifier,
	rideConnectedProducer RideConnectedPublisher,
	rideLifecycleProducer RideLifecyclePublisher,
) *RideUsecase {
	return &RideUsecase{
		Log:                     logger,
		Validate:                validate,
		PlatformFeeCents:        platformFeeCents,
		PaymentFeeCents:         paymentFeeCents,
		MessageRepository:       messageRepository,
		ConversationRepository:  conversationRepository,
		RideRequestRepository:   rideRequestRepository,
		ConnectedRideRepository: connectedRideRepository,
		SettlementRepository:    settlementRepository,
		NotificationRepository:  notificationRepository,
		Notifier:                notifier,
		RideConnectedProducer:   rideConnectedProducer,
		RideLifecycleProducer:   rideLifecycleProducer,
	}
}

// ConnectRide accepts a price offer and settles the ride: one transaction
// writes the connected ride, both money records and both notifications, then
// the counterpart is told and the domain event published.
func (u *RideUsecase) ConnectRide(ctx context.Context, request *model.ConnectRideRequest) utils.Result {
	if err := u.Validate.Struct(request); err != nil {
		badRequest := httpError.NewBadRequest()
		badRequest.Message = err.Error()
		return utils.Result{Error: badRequest}
	}

	message, err := u.MessageRepository.FindByID(ctx, request.MessageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.Result{Error: httpError.NewNotFound()}
		}
		u.Log.Error("ride-usecase", fmt.Sprintf("load message failed: %v", err), "ConnectRide", request.MessageID)
		return utils.Result{Error: httpError.NewInternalServerError()}
	}

	conversation, err := u.ConversationRepository.FindByID(ctx, message.ConversationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.Result{Error: httpError.NewNotFound()}
		}
		u.Log.Error("ride-usecase", fmt.Sprintf("load conversation failed: %v", err), "ConnectRide", message.ConversationID)
		return utils.Result{Error: httpError.NewInternalServerError()}
	}

	if !conversation.State.RideRelated() || !conversation.RideRequestID.Valid || !conversation.DriverID.Valid {
		badRequest := httpError.NewBadRequest()
		badRequest.Message = "offer does not belong to a ride conversation"
		return utils.Result{Error: badRequest}
	}
	if conversation.State.Resolved() {
		conflict := httpError.NewConflict()
		conflict.Message = "ride request already connected"
		return utils.Result{Error: conflict}
	}

	driverID := conversation.DriverID.String
	passengerID := conversation.PassengerID
	if !u.initiatorBound(request, driverID, passengerID) {
		return utils.Result{Error: httpError.NewForbidden()}
	}

	// the accepted offer must still be the newest between the pair
	latestID, err := u.MessageRepository.LatestIDBetween(ctx, conversation.ID, driverID, passengerID)
	if err != nil {
		u.Log.Error("ride-usecase", fmt.Sprintf("latest offer lookup failed: %v", err), "ConnectRide", conversation.ID)
		return utils.Result{Error: httpError.NewInternalServerError()}
	}
	if latestID != message.ID {
		conflict := httpError.NewConflict()
		conflict.Message = "offer was superseded by a newer message"
		return utils.Result{Error: conflict}
	}

	rideRequest, err := u.RideRequestRepository.FindByID(ctx, conversation.RideRequestID.String)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.Result{Error: httpError.NewNotFound()}
		}
		u.Log.Error("ride-usecase", fmt.Sprintf("load ride request failed: %v", err), "ConnectRide", conversation.RideRequestID.String)
		return utils.Result{Error: httpError.NewInternalServerError()}
	}

	priceCents := rideRequest.PriceCents
	if message.PriceOfferCents.Valid {
		priceCents = message.PriceOfferCents.Int64
	}
	if priceCents <= 0 {
		badRequest := httpError.NewBadRequest()
		badRequest.Message = "no agreed price to settle"
		return utils.Result{Error: badRequest}
	}

	settlement := money.ComputeSettlement(priceCents, u.PlatformFeeCents, u.PaymentFeeCents)
	decision := u.decide(driverID, passengerID, rideRequest.ID, settlement)

	if err := u.SettlementRepository.ConnectRide(ctx, &decision); err != nil {
		if errors.Is(err, repository.ErrDuplicateRide) {
			conflict := httpError.NewConflict()
			conflict.Message = "ride request already connected"
			return utils.Result{Error: conflict}
		}
		u.Log.Error("ride-usecase", fmt.Sprintf("settlement transaction failed: %v", err), "ConnectRide", rideRequest.ID)
		return utils.Result{Error: httpError.NewInternalServerError()}
	}

	u.announceConnected(ctx, request, &decision.Ride, settlement)

	return utils.Result{Data: converter.SettlementToResponse(&decision.Ride, settlement)}
}

func (u *RideUsecase) initiatorBound(request *model.ConnectRideRequest, driverID, passengerID string) bool {
	switch request.InitiatorRole {
	case string(entity.RoleDriver):
		return request.InitiatorID == driverID
	case string(entity.RolePassenger):
		return request.InitiatorID == passengerID
	}
	return false
}

// decide computes every record the settlement transaction will write. Pure
// except for ids and timestamps.
func (u *RideUsecase) decide(driverID, passengerID, rideRequestID string, s money.Settlement) model.ConnectRideDecision {
	now := time.Now().UTC()
	rideID := uuid.NewString()

	return model.ConnectRideDecision{
		Ride: entity.ConnectedRide{
			ID:            rideID,
			DriverID:      driverID,
			PassengerID:   passengerID,
			RideRequestID: rideRequestID,
			Status:        entity.ConnectedRideWaiting,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		Earning: entity.DriverEarning{
			ID:               uuid.NewString(),
			DriverID:         driverID,
			RideID:           rideID,
			AmountCents:      s.AmountCents,
			FeeCents:         s.FeeCents,
			NetEarningsCents: s.NetEarningsCents,
			Status:           entity.PaymentPaid,
			PaymentDate:      &now,
			CreatedAt:        now,
		},
		Payment: entity.PassengerPayment{
			ID:             uuid.NewString(),
			PassengerID:    passengerID,
			RideID:         rideID,
			AmountCents:    s.AmountCents,
			SurchargeCents: s.SurchargeCents,
			TotalPaidCents: s.TotalPaidCents,
			Status:         entity.PaymentPaid,
			PaymentMethod:  entity.PaymentMethodCard,
			PaidAt:         &now,
			CreatedAt:      now,
		},
		Notifications: []entity.Notification{
			{
				ID:        uuid.NewString(),
				UserID:    driverID,
				Title:     "Ride connected",
				Message:   fmt.Sprintf("You earn %s after fees", money.FormatCents(s.NetEarningsCents)),
				Type:      entity.NotificationRideConnected,
				Metadata:  rideMetadata(rideID),
				CreatedAt: now,
			},
			{
				ID:        uuid.NewString(),
				UserID:    passengerID,
				Title:     "Ride connected",
				Message:   fmt.Sprintf("You paid %s including fees", money.FormatCents(s.TotalPaidCents)),
				Type:      entity.NotificationRideConnected,
				Metadata:  rideMetadata(rideID),
				CreatedAt: now,
			},
		},
	}
}

// announceConnected runs after commit; nothing here can fail the settlement.
func (u *RideUsecase) announceConnected(ctx context.Context, request *model.ConnectRideRequest, ride *entity.ConnectedRide, s money.Settlement) {
	alert := model.RideAlert{
		PassengerID:     ride.PassengerID,
		DriverID:        ride.DriverID,
		ConnectedRideID: ride.ID,
	}
	if request.InitiatorRole == string(entity.RoleDriver) {
		u.Notifier.Notify(ride.PassengerID, model.EventDriverAcceptedPriceOffer, alert)
	} else {
		u.Notifier.Notify(ride.DriverID, model.EventPassengerAcceptedPriceOffer, alert)
	}

	u.Notifier.PushCounter(ctx, ride.DriverID)
	u.Notifier.PushCounter(ctx, ride.PassengerID)

	event := &model.RideConnectedEvent{
		EventID:       uuid.NewString(),
		RideID:        ride.ID,
		RideRequestID: ride.RideRequestID,
		DriverID:      ride.DriverID,
		PassengerID:   ride.PassengerID,
		Amount:        money.FormatCents(s.AmountCents),
		Fee:           money.FormatCents(s.FeeCents),
		NetEarnings:   money.FormatCents(s.NetEarningsCents),
		TotalPaid:     money.FormatCents(s.TotalPaidCents),
		ConnectedAt:   ride.CreatedAt,
	}
	if err := u.RideConnectedProducer.Send(event); err != nil {
		u.Log.Error("ride-usecase", fmt.Sprintf("publish ride-connected failed: %v", err), "ConnectRide", ride.ID)
	}
}

// StartRide moves a waiting ride to driving and tells the passenger.
func (u *RideUsecase) StartRide(ctx context.Context, request *model.StartRideRequest) utils.Result {
	if err := u.Validate.Struct(request); err != nil {
		badRequest := httpError.NewBadRequest()
		badRequest.Message = err.Error()
		return utils.Result{Error: badRequest}
	}

	ride, errResult := u.loadRideForDriver(ctx, request.ConnectedRideID, request.DriverID, "StartRide")
	if errResult != nil {
		return utils.Result{Error: errResult}
	}
	if ride.Status != entity.ConnectedRideWaiting {
		conflict := httpError.NewConflict()
		conflict.Message = fmt.Sprintf("ride is %s, not waiting", ride.Status)
		return utils.Result{Error: conflict}
	}

	if err := u.transition(ctx, ride, entity.ConnectedRideDriving); err != nil {
		return utils.Result{Error: err}
	}

	u.notifyLifecycle(ctx, ride, ride.PassengerID, model.EventRideStarted,
		entity.NotificationRideStarted, "Ride started", "Your driver is on the way")

	return utils.Result{Data: converter.RideToResponse(ride)}
}

// CompleteRide finishes a driving ride. A completion attempt while the ride
// never started fails the arrival check and cancels the ride on the driver.
func (u *RideUsecase) CompleteRide(ctx context.Context, request *model.CompleteRideRequest) utils.Result {
	if err := u.Validate.Struct(request); err != nil {
		badRequest := httpError.NewBadRequest()
		badRequest.Message = err.Error()
		return utils.Result{Error: badRequest}
	}

	ride, errResult := u.loadRideForDriver(ctx, request.ConnectedRideID, request.DriverID, "CompleteRide")
	if errResult != nil {
		return utils.Result{Error: errResult}
	}

	switch ride.Status {
	case entity.ConnectedRideDriving:
		if err := u.transition(ctx, ride, entity.ConnectedRideCompleted); err != nil {
			return utils.Result{Error: err}
		}
		u.notifyLifecycle(ctx, ride, ride.PassengerID, model.EventRideCompletedByDriver,
			entity.NotificationRideCompleted, "Ride completed", "Thanks for riding with us")
		return utils.Result{Data: converter.RideToResponse(ride)}

	case entity.ConnectedRideWaiting:
		// arrival check failed: the ride never started
		if err := u.transition(ctx, ride, entity.ConnectedRideCancelledByDriver); err != nil {
			return utils.Result{Error: err}
		}
		if err := u.RideRequestRepository.UpdateStatus(ctx, ride.RideRequestID, entity.RideRequestCancelled); err != nil {
			u.Log.Error("ride-usecase", fmt.Sprintf("update ride request failed: %v", err), "CompleteRide", ride.RideRequestID)
		}
		u.notifyLifecycle(ctx, ride, ride.PassengerID, model.EventRideCompletedByDriver,
			entity.NotificationRideCancelled, "Ride cancelled", "The driver cancelled before pickup")
		conflict := httpError.NewConflict()
		conflict.Message = "ride never started, cancelled by driver"
		return utils.Result{Error: conflict}

	default:
		conflict := httpError.NewConflict()
		conflict.Message = fmt.Sprintf("ride is already %s", ride.Status)
		return utils.Result{Error: conflict}
	}
}

// CancelRide lets the passenger abort a ride that has not completed.
func (u *RideUsecase) CancelRide(ctx context.Context, request *model.CancelRideRequest) utils.Result {
	if err := u.Validate.Struct(request); err != nil {
		badRequest := httpError.NewBadRequest()
		badRequest.Message = err.Error()
		return utils.Result{Error: badRequest}
	}

	ride, err := u.ConnectedRideRepository.FindByID(ctx, request.ConnectedRideID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.Result{Error: httpError.NewNotFound()}
		}
		u.Log.Error("ride-usecase", fmt.Sprintf("load ride failed: %v", err), "CancelRide", request.ConnectedRideID)
		return utils.Result{Error: httpError.NewInternalServerError()}
	}
	if ride.PassengerID != request.PassengerID {
		return utils.Result{Error: httpError.NewForbidden()}
	}
	if ride.Status != entity.ConnectedRideWaiting && ride.Status != entity.ConnectedRideDriving {
		conflict := httpError.NewConflict()
		conflict.Message = fmt.Sprintf("ride is already %s", ride.Status)
		return utils.Result{Error: conflict}
	}

	if err := u.transition(ctx, ride, entity.ConnectedRideCancelledByPassenger); err != nil {
		return utils.Result{Error: err}
	}
	if err := u.RideRequestRepository.UpdateStatus(ctx, ride.RideRequestID, entity.RideRequestCancelled); err != nil {
		u.Log.Error("ride-usecase", fmt.Sprintf("update ride request failed: %v", err), "CancelRide", ride.RideRequestID)
	}

	u.notifyLifecycle(ctx, ride, ride.DriverID, model.EventRideCancelledByPassenger,
		entity.NotificationRideCancelled, "Ride cancelled", "The passenger cancelled the ride")

	return utils.Result{Data: converter.RideToResponse(ride)}
}

func (u *RideUsecase) loadRideForDriver(ctx context.Context, rideID, driverID, scope string) (*entity.ConnectedRide, error) {
	ride, err := u.ConnectedRideRepository.FindByID(ctx, rideID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httpError.NewNotFound()
		}
		u.Log.Error("ride-usecase", fmt.Sprintf("load ride failed: %v", err), scope, rideID)
		return nil, httpError.NewInternalServerError()
	}
	if ride.DriverID != driverID {
		return nil, httpError.NewForbidden()
	}
	return ride, nil
}

func (u *RideUsecase) transition(ctx context.Context, ride *entity.ConnectedRide, status entity.ConnectedRideStatus) error {
	if err := u.ConnectedRideRepository.UpdateStatus(ctx, ride.ID, status); err != nil {
		u.Log.Error("ride-usecase", fmt.Sprintf("update ride status failed: %v", err), "transition", ride.ID)
		return httpError.NewInternalServerError()
	}
	ride.Status = status
	ride.UpdatedAt = time.Now().UTC()
	return nil
}

// notifyLifecycle records a durable notification, pushes the live event with
// a fresh counter, and publishes the kafka lifecycle event.
func (u *RideUsecase) notifyLifecycle(ctx context.Context, ride *entity.ConnectedRide, targetUserID, wsEvent string,
	notificationType entity.NotificationType, title, body string) {

	now := time.Now().UTC()
	notification := &entity.Notification{
		ID:        uuid.NewString(),
		UserID:    targetUserID,
		Title:     title,
		Message:   body,
		Type:      notificationType,
		Metadata:  rideMetadata(ride.ID),
		CreatedAt: now,
	}
	if err := u.NotificationRepository.Create(ctx, notification); err != nil {
		u.Log.Error("ride-usecase", fmt.Sprintf("insert notification failed: %v", err), "notifyLifecycle", ride.ID)
	}

	u.Notifier.Notify(targetUserID, wsEvent, map[string]interface{}{
		"connectedRideId": ride.ID,
		"status":          string(ride.Status),
	})
	u.Notifier.Notify(targetUserID, model.EventNewNotification, notification)
	u.Notifier.PushCounter(ctx, targetUserID)

	event := &model.RideLifecycleEvent{
		EventID:     uuid.NewString(),
		RideID:      ride.ID,
		DriverID:    ride.DriverID,
		PassengerID: ride.PassengerID,
		Status:      string(ride.Status),
		OccurredAt:  now,
	}
	if err := u.RideLifecycleProducer.Send(event); err != nil {
		u.Log.Error("ride-usecase", fmt.Sprintf("publish ride-lifecycle failed: %v", err), "notifyLifecycle", ride.ID)
	}
}

func rideMetadata(rideID string) sql.NullString {
	return sql.NullString{
		String: utils.ConvertString(map[string]string{"connectedRideId": rideID}),
		Valid:  true,
	}
}
