package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dhoini/checkout-service/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// Типы событий checkout-потока
const (
	EventCustomerUpserted = "checkout.customer_upserted"
	EventIntentCreated    = "checkout.intent_created"
	EventConflictDetected = "checkout.conflict_detected"
)

// CheckoutEvent представляет событие жизненного цикла checkout.
// Ключом сообщения служит CustomerID, чтобы события одного клиента
// попадали в одну партицию и сохраняли порядок.
type CheckoutEvent struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	At         time.Time         `json:"at"`
	CustomerID string            `json:"customer_id"`
	Payload    map[string]string `json:"payload,omitempty"`
}

// Producer определяет интерфейс для публикации событий checkout в Kafka.
type Producer interface {
	// PublishCheckoutEvent отправляет событие checkout в настроенный топик.
	PublishCheckoutEvent(ctx context.Context, event *CheckoutEvent) error
	// Close закрывает соединение продюсера Kafka.
	Close() error
}

// kafkaProducer реализует интерфейс Producer, используя segmentio/kafka-go.
type kafkaProducer struct {
	writer *kafka.Writer
	log    *logger.Logger
}

// NewKafkaProducer создает и настраивает новый продюсер Kafka.
func NewKafkaProducer(brokers []string, topic string, log *logger.Logger) (Producer, error) {
	if len(brokers) == 0 {
		log.Errorw("Kafka brokers list is empty in config, cannot create producer")
		return nil, errors.New("kafka brokers are not configured")
	}
	if topic == "" {
		return nil, errors.New("kafka topic is not configured")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	log.Infow("Kafka producer initialized", "brokers", brokers, "topic", topic)

	return &kafkaProducer{
		writer: writer,
		log:    log,
	}, nil
}

// PublishCheckoutEvent преобразует событие в JSON и отправляет в Kafka.
func (k *kafkaProducer) PublishCheckoutEvent(ctx context.Context, event *CheckoutEvent) error {
	messageValue, err := json.Marshal(event)
	if err != nil {
		k.log.Errorw("Failed to marshal checkout event to JSON for Kafka", "error", err, "type", event.Type, "customerID", event.CustomerID)
		return fmt.Errorf("kafka: failed to marshal message data: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.CustomerID),
		Value: messageValue,
		Time:  event.At,
	}

	writeCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	err = k.writer.WriteMessages(writeCtx, message)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			k.log.Errorw("Kafka write timeout exceeded", "error", err, "type", event.Type, "customerID", event.CustomerID)
			return fmt.Errorf("kafka: write timeout: %w", err)
		}
		k.log.Errorw("Failed to write message to Kafka", "error", err, "type", event.Type, "customerID", event.CustomerID)
		return fmt.Errorf("kafka: failed to write message: %w", err)
	}

	k.log.Debugw("Checkout event published to Kafka", "type", event.Type, "customerID", event.CustomerID, "eventID", event.ID)
	return nil
}

// Close закрывает соединение Kafka Writer.
func (k *kafkaProducer) Close() error {
	k.log.Infow("Closing Kafka producer writer...")
	err := k.writer.Close()
	if err != nil {
		k.log.Errorw("Failed to close Kafka writer", "error", err)
		return fmt.Errorf("kafka: failed to close writer: %w", err)
	}
	k.log.Infow("Kafka producer writer closed successfully")
	return nil
}
