package messaging

import (
	"negotiation-service/src/internal/model"
	kafka "negotiation-service/src/pkg/kafka/confluent"
	"negotiation-service/src/pkg/log"
)

type RideConnectedProducer struct {
	Producer[*model.RideConnectedEvent]
}

func NewRideConnectedProducer(producer kafka.Producer, logger log.Log) *RideConnectedProducer {
	return &RideConnectedProducer{
		Producer: Producer[*model.RideConnectedEvent]{
			ProducerKafka: producer,
			Topic:         "ride-connected",
			Log:           logger,
		},
	}
}

type RideLifecycleProducer struct {
	Producer[*model.RideLifecycleEvent]
}

func NewRideLifecycleProducer(producer kafka.Producer, logger log.Log) *RideLifecycleProducer {
	return &RideLifecycleProducer{
		Producer: Producer[*model.RideLifecycleEvent]{
			ProducerKafka: producer,
			Topic:         "ride-lifecycle",
			Log:           logger,
		},
	}
}
