package usecase

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"negotiation-service/src/internal/entity"
	"negotiation-service/src/internal/model"
	httpError "negotiation-service/src/pkg/http-error"
)

type negotiationFixture struct {
	usecase       *NegotiationUsecase
	users         *fakeUserStore
	rideRequests  *fakeRideRequestStore
	conversations *fakeConversationStore
	messages      *fakeMessageStore
	notifications *fakeNotificationStore
	notifier      *fakeNotifier
	media         *fakeMediaStore
	tasks         *fakeTaskEnqueuer
}

func newNegotiationFixture() *negotiationFixture {
	f := &negotiationFixture{
		users:         &fakeUserStore{users: map[string]*entity.User{}, driversByCity: map[string][]string{}},
		rideRequests:  newFakeRideRequestStore(),
		conversations: newFakeConversationStore(),
		messages:      &fakeMessageStore{},
		notifications: &fakeNotificationStore{},
		notifier:      &fakeNotifier{online: map[string]bool{}},
		media:         &fakeMediaStore{},
		tasks:         &fakeTaskEnqueuer{},
	}
	f.usecase = NewNegotiationUsecase(
		testLogger(), validator.New(),
		f.users, f.rideRequests, f.conversations, f.messages, f.notifications,
		f.notifier, f.media, f.tasks,
	)
	return f
}

func (f *negotiationFixture) addConversation(c entity.Conversation) entity.Conversation {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	f.conversations.items[c.ID] = &c
	return c
}

func TestCreateRideRequestEnqueuesBroadcast(t *testing.T) {
	f := newNegotiationFixture()
	passengerID := uuid.NewString()

	result := f.usecase.CreateRideRequest(context.Background(), &model.CreateRideRequestRequest{
		PassengerID: passengerID,
		Price:       19.995,
		FromAddress: "Central Station",
		ToAddress:   "Airport",
	})
	require.NoError(t, result.Error)

	response := result.Data.(model.RideRequestResponse)
	assert.Equal(t, "19.99", response.Price, "half-cents truncate, never round up")
	assert.Equal(t, string(entity.RideRequestWaiting), response.Status)

	stored := f.rideRequests.items[response.ID]
	require.NotNil(t, stored)
	assert.Equal(t, int64(1999), stored.PriceCents)

	require.Len(t, f.tasks.tasks, 1)
	assert.Equal(t, model.TypeBroadcastRideRequest, f.tasks.tasks[0].Type())

	require.Len(t, f.notifications.items, 1)
	assert.Equal(t, entity.NotificationRideRequestCreated, f.notifications.items[0].Type)
	assert.Equal(t, []string{passengerID}, f.notifier.counters)
}

func TestSendPriceOfferOpeningOfferCreatesRideConversation(t *testing.T) {
	f := newNegotiationFixture()
	driverID := uuid.NewString()
	passengerID := uuid.NewString()
	rideRequestID := uuid.NewString()
	f.rideRequests.items[rideRequestID] = &entity.RideRequest{
		ID: rideRequestID, PassengerID: passengerID,
		PriceCents: 2000, Status: entity.RideRequestWaiting,
	}

	result := f.usecase.SendPriceOffer(context.Background(), &model.SendPriceOfferRequest{
		SenderID:      driverID,
		SenderRole:    string(entity.RoleDriver),
		DriverID:      driverID,
		PassengerID:   passengerID,
		RideRequestID: rideRequestID,
		PriceOffer:    22.50,
	})
	require.NoError(t, result.Error)

	conversation, err := f.conversations.FindByRideRequestID(context.Background(), rideRequestID)
	require.NoError(t, err)
	assert.Equal(t, entity.ConversationRideOpen, conversation.State)
	assert.Equal(t, driverID, conversation.DriverID.String)

	response := result.Data.(model.MessageResponse)
	require.NotNil(t, response.PriceOffer)
	assert.Equal(t, "22.50", *response.PriceOffer)

	assert.Equal(t, []string{model.EventDriverSendedPriceOffer}, f.notifier.eventsFor(passengerID))
}

func TestSendPriceOfferOnResolvedConversationConflicts(t *testing.T) {
	f := newNegotiationFixture()
	driverID := uuid.NewString()
	passengerID := uuid.NewString()
	conversation := f.addConversation(entity.Conversation{
		RideRequestID: sql.NullString{String: uuid.NewString(), Valid: true},
		DriverID:      sql.NullString{String: driverID, Valid: true},
		PassengerID:   passengerID,
		State:         entity.ConversationRideResolved,
	})

	result := f.usecase.SendPriceOffer(context.Background(), &model.SendPriceOfferRequest{
		SenderID:       passengerID,
		SenderRole:     string(entity.RolePassenger),
		DriverID:       driverID,
		PassengerID:    passengerID,
		ConversationID: conversation.ID,
		PriceOffer:     18,
	})
	require.Error(t, result.Error)
	assert.True(t, httpError.IsCode(result.Error, http.StatusConflict))
}

func TestSendPriceOfferFromOutsiderForbidden(t *testing.T) {
	f := newNegotiationFixture()
	conversation := f.addConversation(entity.Conversation{
		RideRequestID: sql.NullString{String: uuid.NewString(), Valid: true},
		DriverID:      sql.NullString{String: uuid.NewString(), Valid: true},
		PassengerID:   uuid.NewString(),
		State:         entity.ConversationRideOpen,
	})
	outsiderID := uuid.NewString()

	result := f.usecase.SendPriceOffer(context.Background(), &model.SendPriceOfferRequest{
		SenderID:       outsiderID,
		SenderRole:     string(entity.RoleDriver),
		DriverID:       conversation.DriverID.String,
		PassengerID:    conversation.PassengerID,
		ConversationID: conversation.ID,
		PriceOffer:     18,
	})
	require.Error(t, result.Error)
	assert.True(t, httpError.IsCode(result.Error, http.StatusForbidden))
}

func TestSendOtherMessageDeliversToOnlineReceiver(t *testing.T) {
	f := newNegotiationFixture()
	driverID := uuid.NewString()
	passengerID := uuid.NewString()
	conversation := f.addConversation(entity.Conversation{
		DriverID:    sql.NullString{String: driverID, Valid: true},
		PassengerID: passengerID,
		State:       entity.ConversationOtherOpen,
	})
	f.notifier.online[driverID] = true

	content := strings.Repeat("a", 80)
	result := f.usecase.SendOtherMessage(context.Background(), &model.SendOtherMessageRequest{
		SenderID:       passengerID,
		SenderRole:     string(entity.RolePassenger),
		ConversationID: conversation.ID,
		DriverID:       driverID,
		PassengerID:    passengerID,
		Content:        content,
	})
	require.NoError(t, result.Error)

	response := result.Data.(model.MessageResponse)
	assert.True(t, response.IsRead, "receiver online marks the message read")

	events := f.notifier.eventsFor(driverID)
	assert.Equal(t, []string{model.EventNewMessage, model.EventConversationAlert}, events)

	var alert model.ConversationAlert
	for _, c := range f.notifier.calls {
		if c.event == model.EventConversationAlert {
			alert = c.data.(model.ConversationAlert)
		}
	}
	assert.Len(t, alert.Preview, 50)
}

func TestSendOtherMessageUploadsMedia(t *testing.T) {
	f := newNegotiationFixture()
	driverID := uuid.NewString()
	passengerID := uuid.NewString()
	conversation := f.addConversation(entity.Conversation{
		DriverID:    sql.NullString{String: driverID, Valid: true},
		PassengerID: passengerID,
		State:       entity.ConversationOtherOpen,
	})

	result := f.usecase.SendOtherMessage(context.Background(), &model.SendOtherMessageRequest{
		SenderID:       driverID,
		SenderRole:     string(entity.RoleDriver),
		ConversationID: conversation.ID,
		DriverID:       driverID,
		PassengerID:    passengerID,
		Content:        "see attachment",
		MediaFiles:     []string{"aGVsbG8=", "d29ybGQ="},
	})
	require.NoError(t, result.Error)

	response := result.Data.(model.MessageResponse)
	assert.Len(t, response.MediaURLs, 2)
	assert.Equal(t, 2, f.media.uploads)
	assert.False(t, response.IsRead, "offline receiver leaves the message unread")
}

func TestSendOtherMessageInRideConversationForbidden(t *testing.T) {
	f := newNegotiationFixture()
	driverID := uuid.NewString()
	passengerID := uuid.NewString()
	conversation := f.addConversation(entity.Conversation{
		RideRequestID: sql.NullString{String: uuid.NewString(), Valid: true},
		DriverID:      sql.NullString{String: driverID, Valid: true},
		PassengerID:   passengerID,
		State:         entity.ConversationRideOpen,
	})

	result := f.usecase.SendOtherMessage(context.Background(), &model.SendOtherMessageRequest{
		SenderID:       driverID,
		SenderRole:     string(entity.RoleDriver),
		ConversationID: conversation.ID,
		DriverID:       driverID,
		PassengerID:    passengerID,
		Content:        "hello",
	})
	require.Error(t, result.Error)
	assert.True(t, httpError.IsCode(result.Error, http.StatusForbidden))
	assert.Empty(t, f.messages.items, "rejected message is never stored")
}

func TestSendOtherMessageInResolvedConversationForbidden(t *testing.T) {
	f := newNegotiationFixture()
	driverID := uuid.NewString()
	passengerID := uuid.NewString()
	conversation := f.addConversation(entity.Conversation{
		DriverID:    sql.NullString{String: driverID, Valid: true},
		PassengerID: passengerID,
		State:       entity.ConversationOtherResolved,
	})

	result := f.usecase.SendOtherMessage(context.Background(), &model.SendOtherMessageRequest{
		SenderID:       passengerID,
		SenderRole:     string(entity.RolePassenger),
		ConversationID: conversation.ID,
		DriverID:       driverID,
		PassengerID:    passengerID,
		Content:        "hello",
	})
	require.Error(t, result.Error)
	assert.True(t, httpError.IsCode(result.Error, http.StatusForbidden))
}

func TestResolveConversationByWrongPassengerForbidden(t *testing.T) {
	f := newNegotiationFixture()
	rideRequestID := uuid.NewString()
	f.addConversation(entity.Conversation{
		RideRequestID: sql.NullString{String: rideRequestID, Valid: true},
		DriverID:      sql.NullString{String: uuid.NewString(), Valid: true},
		PassengerID:   uuid.NewString(),
		State:         entity.ConversationRideOpen,
	})

	result := f.usecase.ResolveConversation(context.Background(), &model.ResolveConversationRequest{
		PassengerID:   uuid.NewString(),
		RideRequestID: rideRequestID,
	})
	require.Error(t, result.Error)
	assert.True(t, httpError.IsCode(result.Error, http.StatusForbidden))
}

func TestResolveThenReopenConversation(t *testing.T) {
	f := newNegotiationFixture()
	driverID := uuid.NewString()
	passengerID := uuid.NewString()
	rideRequestID := uuid.NewString()
	conversation := f.addConversation(entity.Conversation{
		RideRequestID: sql.NullString{String: rideRequestID, Valid: true},
		DriverID:      sql.NullString{String: driverID, Valid: true},
		PassengerID:   passengerID,
		State:         entity.ConversationRideOpen,
	})
	f.notifier.online[driverID] = true

	resolved := f.usecase.ResolveConversation(context.Background(), &model.ResolveConversationRequest{
		PassengerID:   passengerID,
		RideRequestID: rideRequestID,
	})
	require.NoError(t, resolved.Error)
	assert.Equal(t, entity.ConversationRideResolved, f.conversations.items[conversation.ID].State)
	assert.Equal(t, []string{model.EventConversationResolved}, f.notifier.eventsFor(driverID))

	reopened := f.usecase.ReopenConversation(context.Background(), &model.ReopenConversationRequest{
		PassengerID:    passengerID,
		ConversationID: conversation.ID,
	})
	require.NoError(t, reopened.Error)
	assert.Equal(t, entity.ConversationRideOpen, f.conversations.items[conversation.ID].State)
	assert.Contains(t, f.notifier.eventsFor(driverID), model.EventConversationReopened)
}

func TestHandleBroadcastRideRequestSkipsSettledRequest(t *testing.T) {
	f := newNegotiationFixture()
	rideRequestID := uuid.NewString()
	f.rideRequests.items[rideRequestID] = &entity.RideRequest{
		ID: rideRequestID, PassengerID: uuid.NewString(),
		PriceCents: 2000, Status: entity.RideRequestCompleted,
	}

	payload, _ := json.Marshal(model.RideRequestBroadcastTask{RideRequestID: rideRequestID})
	err := f.usecase.HandleBroadcastRideRequest(context.Background(), asynq.NewTask(model.TypeBroadcastRideRequest, payload))
	require.NoError(t, err)
	assert.Empty(t, f.notifier.broadcasts)
}

func TestHandleBroadcastRideRequestFansOutByCity(t *testing.T) {
	f := newNegotiationFixture()
	passengerID := uuid.NewString()
	rideRequestID := uuid.NewString()
	f.users.users[passengerID] = &entity.User{
		ID: passengerID, FullName: "Ana",
		City: sql.NullString{String: "Jakarta", Valid: true},
	}
	f.rideRequests.items[rideRequestID] = &entity.RideRequest{
		ID: rideRequestID, PassengerID: passengerID,
		PriceCents: 2000, Status: entity.RideRequestWaiting,
		CreatedAt: time.Now().UTC(),
	}

	payload, _ := json.Marshal(model.RideRequestBroadcastTask{RideRequestID: rideRequestID})
	err := f.usecase.HandleBroadcastRideRequest(context.Background(), asynq.NewTask(model.TypeBroadcastRideRequest, payload))
	require.NoError(t, err)
	assert.Equal(t, []string{"Jakarta"}, f.notifier.broadcasts)
}
