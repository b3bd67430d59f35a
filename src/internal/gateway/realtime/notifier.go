package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"negotiation-service/src/internal/model"
	"negotiation-service/src/internal/repository"
	"negotiation-service/src/pkg/log"
)

const (
	cityDriversKeyPrefix = "drivers:city:"
	cityDriversTTL       = 5 * time.Minute
)

// Presence is the live-connection directory the notifier delivers through.
type Presence interface {
	Send(userID, event string, data interface{}) bool
	IsOnline(userID string) bool
}

// Notifier pushes events to live connections. Delivery is best effort: an
// offline target or a failed write is logged and skipped, it never fails the
// operation that triggered it.
type Notifier struct {
	Presence               Presence
	Log                    log.Log
	NotificationRepository repository.NotificationStore
	UserRepository         repository.UserStore
	Redis                  redis.UniversalClient
}

func NewNotifier(
	presence Presence,
	logger log.Log,
	notificationRepository repository.NotificationStore,
	userRepository repository.UserStore,
	redisClient redis.UniversalClient,
) *Notifier {
	return &Notifier{
		Presence:               presence,
		Log:                    logger,
		NotificationRepository: notificationRepository,
		UserRepository:         userRepository,
		Redis:                  redisClient,
	}
}

func (n *Notifier) Notify(userID, event string, data interface{}) {
	if !n.Presence.Send(userID, event, data) {
		n.Log.Info("realtime", "target offline, delivery skipped", event, userID)
	}
}

func (n *Notifier) IsOnline(userID string) bool {
	return n.Presence.IsOnline(userID)
}

// PushCounter recounts unread notifications from storage and pushes the
// fresh value. Recounting instead of incrementing keeps the badge correct
// after missed deliveries.
func (n *Notifier) PushCounter(ctx context.Context, userID string) {
	count, err := n.NotificationRepository.CountUnread(ctx, userID)
	if err != nil {
		n.Log.Error("realtime", fmt.Sprintf("unread count failed: %v", err), "PushCounter", userID)
		return
	}
	n.Notify(userID, model.EventNotificationCounter, map[string]interface{}{"count": count})
}

// BroadcastNewRideRequest fans a fresh ride request out to every online
// driver in the passenger's city and returns how many were reached.
func (n *Notifier) BroadcastNewRideRequest(ctx context.Context, city string, alert model.NewRideRequestAlert) (int, error) {
	driverIDs, err := n.driverIDsByCity(ctx, city)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, driverID := range driverIDs {
		if driverID == alert.PassengerID {
			continue
		}
		if n.Presence.Send(driverID, model.EventNewRideRequest, alert) {
			delivered++
		}
	}

	return delivered, nil
}

// driverIDsByCity serves the city roster from redis when warm, falling back
// to the database and repopulating the cache.
func (n *Notifier) driverIDsByCity(ctx context.Context, city string) ([]string, error) {
	key := cityDriversKeyPrefix + city

	if cached, err := n.Redis.Get(ctx, key).Result(); err == nil {
		var ids []string
		if json.Unmarshal([]byte(cached), &ids) == nil {
			return ids, nil
		}
	}

	ids, err := n.UserRepository.FindDriverIDsByCity(ctx, city)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(ids); err == nil {
		if err := n.Redis.Set(ctx, key, data, cityDriversTTL).Err(); err != nil {
			n.Log.Warn("realtime", fmt.Sprintf("cache write failed: %v", err), "driverIDsByCity", city)
		}
	}

	return ids, nil
}
