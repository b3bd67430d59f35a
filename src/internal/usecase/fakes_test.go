package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"negotiation-service/src/internal/entity"
	"negotiation-service/src/internal/model"
	"negotiation-service/src/internal/repository"
	"negotiation-service/src/pkg/log"
)

// testLogger suppresses all output (level above ERROR).
func testLogger() log.Log {
	return log.Log{LogLevel: 3}
}

type fakeUserStore struct {
	users         map[string]*entity.User
	driversByCity map[string][]string
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserStore) FindDriverIDsByCity(_ context.Context, city string) ([]string, error) {
	return f.driversByCity[city], nil
}

type fakeRideRequestStore struct {
	items map[string]*entity.RideRequest
}

func newFakeRideRequestStore() *fakeRideRequestStore {
	return &fakeRideRequestStore{items: make(map[string]*entity.RideRequest)}
}

func (f *fakeRideRequestStore) Create(_ context.Context, r *entity.RideRequest) error {
	cp := *r
	f.items[r.ID] = &cp
	return nil
}

func (f *fakeRideRequestStore) FindByID(_ context.Context, id string) (*entity.RideRequest, error) {
	r, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRideRequestStore) UpdateStatus(_ context.Context, id string, status entity.RideRequestStatus) error {
	r, ok := f.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Status = status
	return nil
}

type fakeConversationStore struct {
	items map[string]*entity.Conversation
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{items: make(map[string]*entity.Conversation)}
}

func (f *fakeConversationStore) Create(_ context.Context, c *entity.Conversation) error {
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeConversationStore) FindByID(_ context.Context, id string) (*entity.Conversation, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (f *fakeConversationStore) FindByRideRequestID(_ context.Context, rideRequestID string) (*entity.Conversation, error) {
	for _, c := range f.items {
		if c.RideRequestID.Valid && c.RideRequestID.String == rideRequestID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeConversationStore) UpdateState(_ context.Context, id string, state entity.ConversationState) error {
	c, ok := f.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.State = state
	return nil
}

func (f *fakeConversationStore) TouchLastMessage(_ context.Context, id string, at time.Time) error {
	c, ok := f.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.LastMessageAt = at
	return nil
}

type fakeMessageStore struct {
	items   []*entity.Message
	nextSeq int64
}

func (f *fakeMessageStore) Create(_ context.Context, m *entity.Message) error {
	f.nextSeq++
	m.Seq = f.nextSeq
	cp := *m
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeMessageStore) FindByID(_ context.Context, id string) (*entity.Message, error) {
	for _, m := range f.items {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeMessageStore) LatestIDBetween(_ context.Context, conversationID, driverID, passengerID string) (string, error) {
	var latest *entity.Message
	for _, m := range f.items {
		if m.ConversationID != conversationID {
			continue
		}
		if m.SenderID != driverID && m.SenderID != passengerID {
			continue
		}
		if latest == nil || m.CreatedAt.After(latest.CreatedAt) ||
			(m.CreatedAt.Equal(latest.CreatedAt) && m.Seq > latest.Seq) {
			latest = m
		}
	}
	if latest == nil {
		return "", sql.ErrNoRows
	}
	return latest.ID, nil
}

type fakeConnectedRideStore struct {
	items map[string]*entity.ConnectedRide
}

func newFakeConnectedRideStore() *fakeConnectedRideStore {
	return &fakeConnectedRideStore{items: make(map[string]*entity.ConnectedRide)}
}

func (f *fakeConnectedRideStore) FindByID(_ context.Context, id string) (*entity.ConnectedRide, error) {
	r, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (f *fakeConnectedRideStore) UpdateStatus(_ context.Context, id string, status entity.ConnectedRideStatus) error {
	r, ok := f.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Status = status
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// fakeSettlementStore mirrors the transactional side effects of the real
// repository onto the other fakes so assertions can observe them.
type fakeSettlementStore struct {
	byRideRequest map[string]*model.ConnectRideDecision
	rides         *fakeConnectedRideStore
	rideRequests  *fakeRideRequestStore
	conversations *fakeConversationStore
}

func (f *fakeSettlementStore) ConnectRide(_ context.Context, d *model.ConnectRideDecision) error {
	if f.byRideRequest == nil {
		f.byRideRequest = make(map[string]*model.ConnectRideDecision)
	}
	if _, ok := f.byRideRequest[d.Ride.RideRequestID]; ok {
		return repository.ErrDuplicateRide
	}
	cp := *d
	f.byRideRequest[d.Ride.RideRequestID] = &cp

	if f.rides != nil {
		ride := d.Ride
		f.rides.items[ride.ID] = &ride
	}
	if f.rideRequests != nil {
		if r, ok := f.rideRequests.items[d.Ride.RideRequestID]; ok {
			r.Status = entity.RideRequestCompleted
		}
	}
	if f.conversations != nil {
		for _, c := range f.conversations.items {
			if c.RideRequestID.Valid && c.RideRequestID.String == d.Ride.RideRequestID {
				c.State = entity.ConversationRideResolved
			}
		}
	}
	return nil
}

type fakeNotificationStore struct {
	items []*entity.Notification
}

func (f *fakeNotificationStore) Create(_ context.Context, n *entity.Notification) error {
	cp := *n
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeNotificationStore) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range f.items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

type notifyCall struct {
	userID string
	event  string
	data   interface{}
}

type fakeNotifier struct {
	online     map[string]bool
	calls      []notifyCall
	counters   []string
	broadcasts []string
}

func (f *fakeNotifier) Notify(userID, event string, data interface{}) {
	f.calls = append(f.calls, notifyCall{userID: userID, event: event, data: data})
}

func (f *fakeNotifier) PushCounter(_ context.Context, userID string) {
	f.counters = append(f.counters, userID)
}

func (f *fakeNotifier) BroadcastNewRideRequest(_ context.Context, city string, _ model.NewRideRequestAlert) (int, error) {
	f.broadcasts = append(f.broadcasts, city)
	return 0, nil
}

func (f *fakeNotifier) IsOnline(userID string) bool {
	return f.online[userID]
}

func (f *fakeNotifier) eventsFor(userID string) []string {
	var events []string
	for _, c := range f.calls {
		if c.userID == userID {
			events = append(events, c.event)
		}
	}
	return events
}

type fakeMediaStore struct {
	uploads int
}

func (f *fakeMediaStore) UploadBase64(_ context.Context, _ string) (string, error) {
	f.uploads++
	return fmt.Sprintf("https://cdn.example.com/media/%d", f.uploads), nil
}

type fakeTaskEnqueuer struct {
	tasks []*asynq.Task
}

func (f *fakeTaskEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{}, nil
}

type fakeRideConnectedPublisher struct {
	events []*model.RideConnectedEvent
}

func (f *fakeRideConnectedPublisher) Send(event *model.RideConnectedEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fakeRideLifecyclePublisher struct {
	events []*model.RideLifecycleEvent
}

func (f *fakeRideLifecyclePublisher) Send(event *model.RideLifecycleEvent) error {
	f.events = append(f.events, event)
	return nil
}
