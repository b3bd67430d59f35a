package messaging

import (
	"fmt"

	k "gopkg.in/confluentinc/confluent-kafka-go.v1/kafka"

	"negotiation-service/src/internal/model"
	kafka "negotiation-service/src/pkg/kafka/confluent"
	"negotiation-service/src/pkg/log"
	"negotiation-service/src/pkg/utils"
)

// Producer publishes one event type to one topic, keyed by the event id so
// consumers see all events for a ride in order.
type Producer[T model.Event] struct {
	ProducerKafka kafka.Producer
	Topic         string
	Log           log.Log
}

func (p *Producer[T]) GetTopic() *string {
	return &p.Topic
}

func (p *Producer[T]) Send(event T) error {
	value := utils.ConvertString(event)

	message := &k.Message{
		TopicPartition: k.TopicPartition{Topic: p.GetTopic(), Partition: k.PartitionAny},
		Key:            []byte(event.GetId()),
		Value:          []byte(value),
	}

	if err := p.ProducerKafka.Publish(message); err != nil {
		p.Log.Error("messaging", fmt.Sprintf("failed to publish: %v", err), "Send", p.Topic)
		return err
	}

	return nil
}
