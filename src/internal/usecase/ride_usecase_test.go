package usecase

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"negotiation-service/src/internal/entity"
	"negotiation-service/src/internal/model"
	httpError "negotiation-service/src/pkg/http-error"
)

type rideFixture struct {
	usecase       *RideUsecase
	rideRequests  *fakeRideRequestStore
	conversations *fakeConversationStore
	messages      *fakeMessageStore
	rides         *fakeConnectedRideStore
	settlements   *fakeSettlementStore
	notifications *fakeNotificationStore
	notifier      *fakeNotifier
	connected     *fakeRideConnectedPublisher
	lifecycle     *fakeRideLifecyclePublisher

	driverID      string
	passengerID   string
	rideRequestID string
}

// newRideFixture seeds a waiting ride request with an open ride conversation.
// Platform fee 2.00, payment fee 0.50.
func newRideFixture() *rideFixture {
	f := &rideFixture{
		rideRequests:  newFakeRideRequestStore(),
		conversations: newFakeConversationStore(),
		messages:      &fakeMessageStore{},
		rides:         newFakeConnectedRideStore(),
		notifications: &fakeNotificationStore{},
		notifier:      &fakeNotifier{online: map[string]bool{}},
		connected:     &fakeRideConnectedPublisher{},
		lifecycle:     &fakeRideLifecyclePublisher{},
		driverID:      uuid.NewString(),
		passengerID:   uuid.NewString(),
		rideRequestID: uuid.NewString(),
	}
	f.settlements = &fakeSettlementStore{
		rides:         f.rides,
		rideRequests:  f.rideRequests,
		conversations: f.conversations,
	}
	f.usecase = NewRideUsecase(
		testLogger(), validator.New(), 200, 50,
		f.messages, f.conversations, f.rideRequests, f.rides,
		f.settlements, f.notifications, f.notifier, f.connected, f.lifecycle,
	)

	f.rideRequests.items[f.rideRequestID] = &entity.RideRequest{
		ID: f.rideRequestID, PassengerID: f.passengerID,
		PriceCents: 2000, Status: entity.RideRequestWaiting,
	}
	return f
}

func (f *rideFixture) conversationID() string {
	c, err := f.conversations.FindByRideRequestID(context.Background(), f.rideRequestID)
	if err != nil {
		conversation := &entity.Conversation{
			ID:            uuid.NewString(),
			RideRequestID: sql.NullString{String: f.rideRequestID, Valid: true},
			DriverID:      sql.NullString{String: f.driverID, Valid: true},
			PassengerID:   f.passengerID,
			State:         entity.ConversationRideOpen,
		}
		f.conversations.items[conversation.ID] = conversation
		return conversation.ID
	}
	return c.ID
}

func (f *rideFixture) addOffer(senderID string, offerCents int64, at time.Time) *entity.Message {
	message := &entity.Message{
		ID:              uuid.NewString(),
		ConversationID:  f.conversationID(),
		SenderID:        senderID,
		PriceOfferCents: sql.NullInt64{Int64: offerCents, Valid: offerCents > 0},
		CreatedAt:       at,
	}
	_ = f.messages.Create(context.Background(), message)
	return message
}

func (f *rideFixture) connectRequest(messageID string) *model.ConnectRideRequest {
	return &model.ConnectRideRequest{
		InitiatorID:   f.passengerID,
		InitiatorRole: string(entity.RolePassenger),
		DriverID:      f.driverID,
		PassengerID:   f.passengerID,
		MessageID:     messageID,
	}
}

func TestConnectRideSettlesLatestOffer(t *testing.T) {
	f := newRideFixture()
	base := time.Now().UTC()
	f.addOffer(f.passengerID, 2500, base)
	latest := f.addOffer(f.driverID, 2250, base.Add(time.Second))

	result := f.usecase.ConnectRide(context.Background(), f.connectRequest(latest.ID))
	require.NoError(t, result.Error)

	response := result.Data.(model.ConnectRideResponse)
	assert.Equal(t, "22.50", response.Amount)
	assert.Equal(t, "2.00", response.Fee)
	assert.Equal(t, "20.00", response.NetEarnings)
	assert.Equal(t, "0.50", response.Surcharge)
	assert.Equal(t, "23.00", response.TotalPaid)
	assert.Equal(t, string(entity.ConnectedRideWaiting), response.Status)

	decision := f.settlements.byRideRequest[f.rideRequestID]
	require.NotNil(t, decision)
	assert.Equal(t, entity.PaymentPaid, decision.Earning.Status)
	assert.NotNil(t, decision.Earning.PaymentDate)
	assert.Equal(t, entity.PaymentPaid, decision.Payment.Status)
	assert.Equal(t, entity.PaymentMethodCard, decision.Payment.PaymentMethod)
	assert.Len(t, decision.Notifications, 2)

	assert.Equal(t, entity.RideRequestCompleted, f.rideRequests.items[f.rideRequestID].Status)

	// passenger accepted, so the driver hears about it
	assert.Equal(t, []string{model.EventPassengerAcceptedPriceOffer}, f.notifier.eventsFor(f.driverID))
	assert.ElementsMatch(t, []string{f.driverID, f.passengerID}, f.notifier.counters)

	require.Len(t, f.connected.events, 1)
	assert.Equal(t, "22.50", f.connected.events[0].Amount)
}

func TestConnectRideSupersededOfferConflicts(t *testing.T) {
	f := newRideFixture()
	base := time.Now().UTC()
	older := f.addOffer(f.driverID, 2250, base)
	f.addOffer(f.passengerID, 2100, base.Add(time.Second))

	result := f.usecase.ConnectRide(context.Background(), f.connectRequest(older.ID))
	require.Error(t, result.Error)
	assert.True(t, httpError.IsCode(result.Error, http.StatusConflict))
	assert.Empty(t, f.settlements.byRideRequest, "nothing is settled on a stale accept")
}

func TestConnectRideTimestampTieBrokenBySeq(t *testing.T) {
	f := newRideFixture()
	at := time.Now().UTC()
	f.addOffer(f.driverID, 2250, at)
	newest := f.addOffer(f.passengerID, 2100, at)

	stale := f.usecase.ConnectRide(context.Background(), f.connectRequest(f.messages.items[0].ID))
	require.Error(t, stale.Error)
	assert.True(t, httpError.IsCode(stale.Error, http.StatusConflict))

	fresh := f.usecase.ConnectRide(context.Background(), f.connectRequest(newest.ID))
	require.NoError(t, fresh.Error)
}

func TestConnectRideTwiceConflicts(t *testing.T) {
	f := newRideFixture()
	latest := f.addOffer(f.driverID, 2250, time.Now().UTC())

	first := f.usecase.ConnectRide(context.Background(), f.connectRequest(latest.ID))
	require.NoError(t, first.Error)

	// conversation is resolved by the settlement, reopen it to bypass the
	// early guard and hit the unique constraint itself
	c, err := f.conversations.FindByRideRequestID(context.Background(), f.rideRequestID)
	require.NoError(t, err)
	f.conversations.items[c.ID].State = entity.ConversationRideOpen

	second := f.usecase.ConnectRide(context.Background(), f.connectRequest(latest.ID))
	require.Error(t, second.Error)
	assert.True(t, httpError.IsCode(second.Error, http.StatusConflict))
	assert.Len(t, f.connected.events, 1, "only the winning accept announces")
}

func TestConnectRideWithoutAnyPriceFails(t *testing.T) {
	f := newRideFixture()
	f.rideRequests.items[f.rideRequestID].PriceCents = 0
	plain := f.addOffer(f.driverID, 0, time.Now().UTC())

	result := f.usecase.ConnectRide(context.Background(), f.connectRequest(plain.ID))
	require.Error(t, result.Error)
	assert.True(t, httpError.IsCode(result.Error, http.StatusBadRequest))
}

func TestConnectRideByUnboundInitiatorForbidden(t *testing.T) {
	f := newRideFixture()
	latest := f.addOffer(f.driverID, 2250, time.Now().UTC())

	request := f.connectRequest(latest.ID)
	request.InitiatorID = uuid.NewString()

	result := f.usecase.ConnectRide(context.Background(), request)
	require.Error(t, result.Error)
	assert.True(t, httpError.IsCode(result.Error, http.StatusForbidden))
}

func TestConnectRideOfflineCounterpartStillSettles(t *testing.T) {
	f := newRideFixture()
	latest := f.addOffer(f.driverID, 2250, time.Now().UTC())

	// nobody online; fan-out is best effort
	result := f.usecase.ConnectRide(context.Background(), f.connectRequest(latest.ID))
	require.NoError(t, result.Error)
	require.NotNil(t, f.settlements.byRideRequest[f.rideRequestID])
}

func (f *rideFixture) connect(t *testing.T) string {
	t.Helper()
	latest := f.addOffer(f.driverID, 2250, time.Now().UTC())
	result := f.usecase.ConnectRide(context.Background(), f.connectRequest(latest.ID))
	require.NoError(t, result.Error)
	return result.Data.(model.ConnectRideResponse).RideID
}

func TestStartThenCompleteRide(t *testing.T) {
	f := newRideFixture()
	rideID := f.connect(t)

	started := f.usecase.StartRide(context.Background(), &model.StartRideRequest{
		DriverID:        f.driverID,
		ConnectedRideID: rideID,
	})
	require.NoError(t, started.Error)
	assert.Equal(t, entity.ConnectedRideDriving, f.rides.items[rideID].Status)
	assert.Contains(t, f.notifier.eventsFor(f.passengerID), model.EventRideStarted)

	completed := f.usecase.CompleteRide(context.Background(), &model.CompleteRideRequest{
		DriverID:             f.driverID,
		ConnectedRideID:      rideID,
		DriverExactLatitude:  -6.2,
		DriverExactLongitude: 106.8,
	})
	require.NoError(t, completed.Error)
	assert.Equal(t, entity.ConnectedRideCompleted, f.rides.items[rideID].Status)
	assert.Contains(t, f.notifier.eventsFor(f.passengerID), model.EventRideCompletedByDriver)

	statuses := make([]string, 0, len(f.lifecycle.events))
	for _, e := range f.lifecycle.events {
		statuses = append(statuses, e.Status)
	}
	assert.Equal(t, []string{"driving", "completed"}, statuses)
}

func TestCompleteRideNeverStartedCancelsOnDriver(t *testing.T) {
	f := newRideFixture()
	rideID := f.connect(t)

	result := f.usecase.CompleteRide(context.Background(), &model.CompleteRideRequest{
		DriverID:             f.driverID,
		ConnectedRideID:      rideID,
		DriverExactLatitude:  -6.2,
		DriverExactLongitude: 106.8,
	})
	require.Error(t, result.Error)
	assert.True(t, httpError.IsCode(result.Error, http.StatusConflict))
	assert.Equal(t, entity.ConnectedRideCancelledByDriver, f.rides.items[rideID].Status)
	assert.Equal(t, entity.RideRequestCancelled, f.rideRequests.items[f.rideRequestID].Status)
}

func TestStartRideByWrongDriverForbidden(t *testing.T) {
	f := newRideFixture()
	rideID := f.connect(t)

	result := f.usecase.StartRide(context.Background(), &model.StartRideRequest{
		DriverID:        uuid.NewString(),
		ConnectedRideID: rideID,
	})
	require.Error(t, result.Error)
	assert.True(t, httpError.IsCode(result.Error, http.StatusForbidden))
}

func TestCancelRideByPassenger(t *testing.T) {
	f := newRideFixture()
	rideID := f.connect(t)

	result := f.usecase.CancelRide(context.Background(), &model.CancelRideRequest{
		PassengerID:     f.passengerID,
		ConnectedRideID: rideID,
	})
	require.NoError(t, result.Error)
	assert.Equal(t, entity.ConnectedRideCancelledByPassenger, f.rides.items[rideID].Status)
	assert.Equal(t, entity.RideRequestCancelled, f.rideRequests.items[f.rideRequestID].Status)
	assert.Contains(t, f.notifier.eventsFor(f.driverID), model.EventRideCancelledByPassenger)
}

func TestCancelCompletedRideConflicts(t *testing.T) {
	f := newRideFixture()
	rideID := f.connect(t)
	f.rides.items[rideID].Status = entity.ConnectedRideCompleted

	result := f.usecase.CancelRide(context.Background(), &model.CancelRideRequest{
		PassengerID:     f.passengerID,
		ConnectedRideID: rideID,
	})
	require.Error(t, result.Error)
	assert.True(t, httpError.IsCode(result.Error, http.StatusConflict))
}
