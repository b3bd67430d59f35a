package usecase

import (
	"context"

	"github.com/hibiken/asynq"

	"negotiation-service/src/internal/model"
)

// Collaborator interfaces the usecases depend on; the gateway packages hold
// the real implementations, tests substitute fakes.

type Notifier interface {
	Notify(userID, event string, data interface{})
	PushCounter(ctx context.Context, userID string)
	BroadcastNewRideRequest(ctx context.Context, city string, alert model.NewRideRequestAlert) (int, error)
	IsOnline(userID string) bool
}

type MediaStore interface {
	UploadBase64(ctx context.Context, encoded string) (string, error)
}

type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type RideConnectedPublisher interface {
	Send(event *model.RideConnectedEvent) error
}

type RideLifecyclePublisher interface {
	Send(event *model.RideLifecycleEvent) error
}
