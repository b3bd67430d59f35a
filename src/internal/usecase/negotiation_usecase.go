package usecase

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"negotiation-service/src/internal/entity"
	"negotiation-service/src/internal/model"
	"negotiation-service/src/internal/model/converter"
	"negotiation-service/src/internal/repository"
	httpError "negotiation-service/src/pkg/http-error"
	"negotiation-service/src/pkg/log"
	"negotiation-service/src/pkg/money"
	"negotiation-service/src/pkg/utils"
)

type NegotiationUsecase struct {
	Log                    log.Log
	Validate               *validator.Validate
	UserRepository         repository.UserStore
	RideRequestRepository  repository.RideRequestStore
	ConversationRepository repository.ConversationStore
	MessageRepository      repository.MessageStore
	NotificationRepository repository.NotificationStore
	Notifier               Notifier
	Media                  MediaStore
	Tasks                  TaskEnqueuer
}

func NewNegotiationUsecase(
	logger log.Log,
	validate *validator.Validate,
	userRepository repository.UserStore,
	rideRequestRepository repository.RideRequestStore,
	conversationRepository repository.ConversationStore,
	messageRepository repository.MessageStore,
	notificationRepository repository.NotificationStore,
	notifier Notifier,
	media MediaStore,
	tasks TaskEnqueuer,
) *NegotiationUsecase {
	return &NegotiationUsecase{
		Log:                    logger,
		Validate:               validate,
		UserRepository:         userRepository,
		RideRequestRepository:  rideRequestRepository,
		ConversationRepository: conversationRepository,
		MessageRepository:      messageRepository,
		NotificationRepository: notificationRepository,
		Notifier:               notifier,
		Media:                  media,
		Tasks:                  tasks,
	}
}

// CreateRideRequest posts a passenger's trip intent and schedules the city
// broadcast to drivers off the request path.
func (u *NegotiationUsecase) CreateRideRequest(ctx context.Context, request *model.CreateRideRequestRequest) utils.Result {
	if err := u.Validate.Struct(request); err != nil {
		badRequest := httpError.NewBadRequest()
		badRequest.Message = err.Error()
		return utils.Result{Error: badRequest}
	}

	now := time.Now().UTC()
	rideRequest := &entity.RideRequest{
		ID:          uuid.NewString(),
		PassengerID: request.PassengerID,
		PriceCents:  money.ToCents(request.Price),
		FromAddress: request.FromAddress,
		ToAddress:   request.ToAddress,
		IsUrgent:    request.IsUrgent,
		Status:      entity.RideRequestWaiting,
		CreatedAt:   now,
	}

	if err := u.RideRequestRepository.Create(ctx, rideRequest); err != nil {
		u.Log.Error("negotiation-usecase", fmt.Sprintf("insert ride request failed: %v", err), "CreateRideRequest", request.PassengerID)
		return utils.Result{Error: httpError.NewInternalServerError()}
	}

	notification := &entity.Notification{
		ID:      uuid.NewString(),
		UserID:  rideRequest.PassengerID,
		Title:   "Ride request posted",
		Message: fmt.Sprintf("Looking for a driver from %s to %s", rideRequest.FromAddress, rideRequest.ToAddress),
		Type:    entity.NotificationRideRequestCreated,
		Metadata: sql.NullString{
			String: utils.ConvertString(map[string]string{"rideRequestId": rideRequest.ID}),
			Valid:  true,
		},
		CreatedAt: now,
	}
	if err := u.NotificationRepository.Create(ctx, notification); err != nil {
		u.Log.Error("negotiation-usecase", fmt.Sprintf("insert notification failed: %v", err), "CreateRideRequest", rideRequest.ID)
	}

	payload, _ := json.Marshal(model.RideRequestBroadcastTask{RideRequestID: rideRequest.ID})
	if _, err := u.Tasks.EnqueueContext(ctx, asynq.NewTask(model.TypeBroadcastRideRequest, payload)); err != nil {
		u.Log.Error("negotiation-usecase", fmt.Sprintf("enqueue broadcast failed: %v", err), "CreateRideRequest", rideRequest.ID)
	}

	u.Notifier.PushCounter(ctx, rideRequest.PassengerID)

	return utils.Result{Data: converter.RideRequestToResponse(rideRequest)}
}

// OpenSupportConversation starts a support or "other reason" conversation
// seeded with a first message. No ride binding is created.
func (u *NegotiationUsecase) OpenSupportConversation(ctx context.Context, request *model.OpenSupportConversationRequest) utils.Result {
	if err := u.Validate.Struct(request); err != nil {
		badRequest := httpError.NewBadRequest()
		badRequest.Message = err.Error()
		return utils.Result{Error: badRequest}
	}

	state := entity.ConversationSupportOpen
	if request.Type == "other" {
		if request.DriverID == "" {
			badRequest := httpError.NewBadRequest()
			badRequest.Message = "driverId is required for other conversations"
			return utils.Result{Error: badRequest}
		}
		state = entity.ConversationOtherOpen
	}

	now := time.Now().UTC()
	conversation := &entity.Conversation{
		ID:            uuid.NewString(),
		PassengerID:   request.UserID,
		State:         state,
		LastMessageAt: now,
		CreatedAt:     now,
	}
	if request.DriverID != "" {
		conversation.DriverID = sql.NullString{String: request.DriverID, Valid: true}
	}

	if err := u.ConversationRepository.Create(ctx, conversation); err != nil {
		u.Log.Error("negotiation-usecase", fmt.Sprintf("insert conversation failed: %v", err), "OpenSupportConversation", request.UserID)
		return utils.Result{Error: httpError.NewInternalServerError()}
	}

	message := &entity.Message{
		ID:             uuid.NewString(),
		ConversationID: conversation.ID,
		SenderID:       request.UserID,
		SenderRole:     entity.Role(request.SenderRole),
		Content:        request.Content,
		CreatedAt:      now,
	}
	if err := u.MessageRepository.Create(ctx, message); err != nil {
		u.Log.Error("negotiation-usecase", fmt.Sprintf("insert first message failed: %v", err), "OpenSupportConversation", conversation.ID)
		return utils.Result{Error: httpError.NewInternalServerError()}
	}

	if request.DriverID != "" {
		u.Notifier.Notify(request.DriverID, model.EventConversationAlert, model.ConversationAlert{
			ConversationID: conversation.ID,
			SenderID:       request.UserID,
			Preview:        preview(request.Content),
			SentAt:         now,
		})
	}

	return utils.Result{Data: converter.ConversationToResponse(conversation)}
}

// SendPriceOffer records a counter-offer inside a ride conversation. A
// driver's opening offer, addressed by ride request id, creates the
// conversation first.
func (u *NegotiationUsecase) SendPriceOffer(ctx context.Context, request *model.SendPriceOfferRequest) utils.Result {
	if err := u.Validate.Struct(request); err != nil {
		badRequest := httpError.NewBadRequest()
		badRequest.Message = err.Error()
		return utils.Result{Error: badRequest}
	}

	conversation, errResult := u.resolveOfferConversation(ctx, request)
	if errResult != nil {
		return utils.Result{Error: errResult}
	}

	if !conversation.State.RideRelated() {
		badRequest := httpError.NewBadRequest()
		badRequest.Message = "price offers belong to ride conversations"
		return utils.Result{Error: badRequest}
	}
	if conversation.State.Resolved() {
		conflict := httpError.NewConflict()
		conflict.Message = "conversation is already resolved"
		return utils.Result{Error: conflict}
	}
	if !conversation.IsParticipant(request.SenderID) {
		return utils.Result{Error: httpError.NewForbidden()}
	}

	receiver := conversation.CounterpartOf(request.SenderID)
	now := time.Now().UTC()
	message := &entity.Message{
		ID:              uuid.NewString(),
		ConversationID:  conversation.ID,
		SenderID:        request.SenderID,
		SenderRole:      entity.Role(request.SenderRole),
		Content:         request.Content,
		PriceOfferCents: sql.NullInt64{Int64: money.ToCents(request.PriceOffer), Valid: true},
		IsRead:          u.Notifier.IsOnline(receiver),
		CreatedAt:       now,
	}

	if err := u.MessageRepository.Create(ctx, message); err != nil {
		u.Log.Error("negotiation-usecase", fmt.Sprintf("insert offer failed: %v", err), "SendPriceOffer", conversation.ID)
		return utils.Result{Error: httpError.NewInternalServerError()}
	}
	if err := u.ConversationRepository.TouchLastMessage(ctx, conversation.ID, now); err != nil {
		u.Log.Error("negotiation-usecase", fmt.Sprintf("touch last message failed: %v", err), "SendPriceOffer", conversation.ID)
	}

	response := converter.MessageToResponse(message)

	event := model.EventPassengerSendedPriceOffer
	if conversation.DriverID.Valid && request.SenderID == conversation.DriverID.String {
		event = model.EventDriverSendedPriceOffer
	}
	u.Notifier.Notify(receiver, event, response)

	return utils.Result{Data: response}
}

// resolveOfferConversation loads the conversation for an offer, creating the
// ride conversation when a driver makes the opening offer.
func (u *NegotiationUsecase) resolveOfferConversation(ctx context.Context, request *model.SendPriceOfferRequest) (*entity.Conversation, error) {
	if request.ConversationID != "" {
		conversation, err := u.ConversationRepository.FindByID(ctx, request.ConversationID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, httpError.NewNotFound()
			}
			u.Log.Error("negotiation-usecase", fmt.Sprintf("load conversation failed: %v", err), "SendPriceOffer", request.ConversationID)
			return nil, httpError.NewInternalServerError()
		}
		return conversation, nil
	}

	if request.RideRequestID == "" {
		badRequest := httpError.NewBadRequest()
		badRequest.Message = "conversationId or rideRequestId is required"
		return nil, badRequest
	}

	conversation, err := u.ConversationRepository.FindByRideRequestID(ctx, request.RideRequestID)
	if err == nil {
		return conversation, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		u.Log.Error("negotiation-usecase", fmt.Sprintf("load conversation failed: %v", err), "SendPriceOffer", request.RideRequestID)
		return nil, httpError.NewInternalServerError()
	}

	// opening offer: only the driver starts a ride conversation
	if request.SenderRole != string(entity.RoleDriver) || request.SenderID != request.DriverID {
		return nil, httpError.NewForbidden()
	}

	rideRequest, err := u.RideRequestRepository.FindByID(ctx, request.RideRequestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httpError.NewNotFound()
		}
		u.Log.Error("negotiation-usecase", fmt.Sprintf("load ride request failed: %v", err), "SendPriceOffer", request.RideRequestID)
		return nil, httpError.NewInternalServerError()
	}
	if rideRequest.PassengerID != request.PassengerID {
		return nil, httpError.NewForbidden()
	}
	if rideRequest.Status != entity.RideRequestWaiting {
		conflict := httpError.NewConflict()
		conflict.Message = "ride request is no longer open"
		return nil, conflict
	}

	now := time.Now().UTC()
	conversation = &entity.Conversation{
		ID:            uuid.NewString(),
		RideRequestID: sql.NullString{String: rideRequest.ID, Valid: true},
		DriverID:      sql.NullString{String: request.DriverID, Valid: true},
		PassengerID:   rideRequest.PassengerID,
		State:         entity.ConversationRideOpen,
		LastMessageAt: now,
		CreatedAt:     now,
	}
	if err := u.ConversationRepository.Create(ctx, conversation); err != nil {
		u.Log.Error("negotiation-usecase", fmt.Sprintf("insert conversation failed: %v", err), "SendPriceOffer", rideRequest.ID)
		return nil, httpError.NewInternalServerError()
	}

	return conversation, nil
}

// SendOtherMessage delivers a free-form message in a non-ride, unresolved
// conversation. Every violation is an explicit Forbidden, never a silent drop.
func (u *NegotiationUsecase) SendOtherMessage(ctx context.Context, request *model.SendOtherMessageRequest) utils.Result {
	if err := u.Validate.Struct(request); err != nil {
		badRequest := httpError.NewBadRequest()
		badRequest.Message = err.Error()
		return utils.Result{Error: badRequest}
	}

	conversation, err := u.ConversationRepository.FindByID(ctx, request.ConversationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.Result{Error: httpError.NewNotFound()}
		}
		u.Log.Error("negotiation-usecase", fmt.Sprintf("load conversation failed: %v", err), "SendOtherMessage", request.ConversationID)
		return utils.Result{Error: httpError.NewInternalServerError()}
	}

	if conversation.State.RideRelated() {
		forbidden := httpError.NewForbidden()
		forbidden.Message = "ride conversations accept price offers only"
		return utils.Result{Error: forbidden}
	}
	if conversation.State.Resolved() {
		forbidden := httpError.NewForbidden()
		forbidden.Message = "conversation is resolved"
		return utils.Result{Error: forbidden}
	}
	if !conversation.IsParticipant(request.SenderID) {
		return utils.Result{Error: httpError.NewForbidden()}
	}

	var mediaURLs entity.MediaURLs
	for _, encoded := range request.MediaFiles {
		url, err := u.Media.UploadBase64(ctx, encoded)
		if err != nil {
			u.Log.Error("negotiation-usecase", fmt.Sprintf("media upload failed: %v", err), "SendOtherMessage", conversation.ID)
			badRequest := httpError.NewBadRequest()
			badRequest.Message = "media upload failed"
			return utils.Result{Error: badRequest}
		}
		mediaURLs = append(mediaURLs, url)
	}

	receiver := conversation.CounterpartOf(request.SenderID)
	now := time.Now().UTC()
	message := &entity.Message{
		ID:             uuid.NewString(),
		ConversationID: conversation.ID,
		SenderID:       request.SenderID,
		SenderRole:     entity.Role(request.SenderRole),
		Content:        request.Content,
		MediaURLs:      mediaURLs,
		IsRead:         u.Notifier.IsOnline(receiver),
		CreatedAt:      now,
	}

	if err := u.MessageRepository.Create(ctx, message); err != nil {
		u.Log.Error("negotiation-usecase", fmt.Sprintf("insert message failed: %v", err), "SendOtherMessage", conversation.ID)
		return utils.Result{Error: httpError.NewInternalServerError()}
	}
	if err := u.ConversationRepository.TouchLastMessage(ctx, conversation.ID, now); err != nil {
		u.Log.Error("negotiation-usecase", fmt.Sprintf("touch last message failed: %v", err), "SendOtherMessage", conversation.ID)
	}

	response := converter.MessageToResponse(message)

	if receiver != "" {
		u.Notifier.Notify(receiver, model.EventNewMessage, response)
		u.Notifier.Notify(receiver, model.EventConversationAlert, model.ConversationAlert{
			ConversationID: conversation.ID,
			SenderID:       request.SenderID,
			Preview:        preview(request.Content),
			SentAt:         now,
			SenderImage:    request.SenderImage,
			SenderFullname: request.SenderFullname,
		})
	}

	return utils.Result{Data: response}
}

// ResolveConversation closes the negotiation channel of a ride request.
func (u *NegotiationUsecase) ResolveConversation(ctx context.Context, request *model.ResolveConversationRequest) utils.Result {
	if err := u.Validate.Struct(request); err != nil {
		badRequest := httpError.NewBadRequest()
		badRequest.Message = err.Error()
		return utils.Result{Error: badRequest}
	}

	conversation, err := u.ConversationRepository.FindByRideRequestID(ctx, request.RideRequestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.Result{Error: httpError.NewNotFound()}
		}
		u.Log.Error("negotiation-usecase", fmt.Sprintf("load conversation failed: %v", err), "ResolveConversation", request.RideRequestID)
		return utils.Result{Error: httpError.NewInternalServerError()}
	}

	if conversation.PassengerID != request.PassengerID {
		return utils.Result{Error: httpError.NewForbidden()}
	}
	if conversation.State.Resolved() {
		conflict := httpError.NewConflict()
		conflict.Message = "conversation is already resolved"
		return utils.Result{Error: conflict}
	}

	conversation.State = conversation.State.Resolve()
	if err := u.ConversationRepository.UpdateState(ctx, conversation.ID, conversation.State); err != nil {
		u.Log.Error("negotiation-usecase", fmt.Sprintf("update state failed: %v", err), "ResolveConversation", conversation.ID)
		return utils.Result{Error: httpError.NewInternalServerError()}
	}

	response := converter.ConversationToResponse(conversation)
	if conversation.DriverID.Valid {
		u.Notifier.Notify(conversation.DriverID.String, model.EventConversationResolved, response)
	}

	return utils.Result{Data: response}
}

// ReopenConversation reopens a resolved channel for a different reason. It
// creates no new ride intent.
func (u *NegotiationUsecase) ReopenConversation(ctx context.Context, request *model.ReopenConversationRequest) utils.Result {
	if err := u.Validate.Struct(request); err != nil {
		badRequest := httpError.NewBadRequest()
		badRequest.Message = err.Error()
		return utils.Result{Error: badRequest}
	}

	conversation, err := u.ConversationRepository.FindByID(ctx, request.ConversationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.Result{Error: httpError.NewNotFound()}
		}
		u.Log.Error("negotiation-usecase", fmt.Sprintf("load conversation failed: %v", err), "ReopenConversation", request.ConversationID)
		return utils.Result{Error: httpError.NewInternalServerError()}
	}

	if conversation.PassengerID != request.PassengerID {
		return utils.Result{Error: httpError.NewForbidden()}
	}
	if !conversation.State.Resolved() {
		conflict := httpError.NewConflict()
		conflict.Message = "conversation is not resolved"
		return utils.Result{Error: conflict}
	}

	conversation.State = conversation.State.Reopen()
	if err := u.ConversationRepository.UpdateState(ctx, conversation.ID, conversation.State); err != nil {
		u.Log.Error("negotiation-usecase", fmt.Sprintf("update state failed: %v", err), "ReopenConversation", conversation.ID)
		return utils.Result{Error: httpError.NewInternalServerError()}
	}

	response := converter.ConversationToResponse(conversation)
	if conversation.DriverID.Valid && u.Notifier.IsOnline(conversation.DriverID.String) {
		u.Notifier.Notify(conversation.DriverID.String, model.EventConversationReopened, response)
	}

	return utils.Result{Data: response}
}

// HandleBroadcastRideRequest is the asynq handler fanning a fresh ride
// request out to online drivers in the passenger's city.
func (u *NegotiationUsecase) HandleBroadcastRideRequest(ctx context.Context, task *asynq.Task) error {
	var payload model.RideRequestBroadcastTask
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		u.Log.Error("negotiation-usecase", fmt.Sprintf("bad task payload: %v", err), "HandleBroadcastRideRequest", "")
		return nil
	}

	rideRequest, err := u.RideRequestRepository.FindByID(ctx, payload.RideRequestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	if rideRequest.Status != entity.RideRequestWaiting {
		return nil
	}

	passenger, err := u.UserRepository.FindByID(ctx, rideRequest.PassengerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	if !passenger.City.Valid || passenger.City.String == "" {
		u.Log.Warn("negotiation-usecase", "passenger has no city, broadcast skipped", "HandleBroadcastRideRequest", rideRequest.ID)
		return nil
	}

	delivered, err := u.Notifier.BroadcastNewRideRequest(ctx, passenger.City.String, model.NewRideRequestAlert{
		RideRequest: converter.RideRequestToResponse(rideRequest),
		PassengerID: passenger.ID,
		Passenger:   passenger.FullName,
	})
	if err != nil {
		return err
	}

	u.Log.Info("negotiation-usecase", fmt.Sprintf("broadcast reached %d drivers", delivered), "HandleBroadcastRideRequest", rideRequest.ID)
	return nil
}

func preview(content string) string {
	r := []rune(content)
	if len(r) > 50 {
		return string(r[:50])
	}
	return content
}
