package handler

import (
	"context"
	"encoding/json"

	"github.com/adelbaev/lending-service/pkg/kafka"
	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type saveLoanEvent func(ctx context.Context, event kafka.LoanEvent) error

type Consumer struct {
	saveLoanEventHandler saveLoanEvent
	log                  *zap.Logger
	ready                chan bool
}

func NewConsumer(saveLoanEvent saveLoanEvent, log *zap.Logger) *Consumer {
	return &Consumer{
		saveLoanEventHandler: saveLoanEvent,
		log:                  log.Named("consumer"),
		ready:                make(chan bool),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	// Mark the consumer as ready
	close(consumer.ready)
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var event kafka.LoanEvent
			if err := json.Unmarshal(message.Value, &event); err != nil {
				consumer.log.Error("", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			if err := consumer.saveLoanEventHandler(context.Background(), event); err != nil {
				consumer.log.Error("consumer.saveLoanEventHandler", zap.Error(err))
				continue
			}

			consumer.log.Debug("Message claimed:", zap.String("value", string(message.Value)), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
