package data

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ncobase/ncrud/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
)

// ErrNoBrokers is returned for kafka configs without brokers or topic.
var ErrNoBrokers = errors.New("kafka: brokers or topic are empty")

// NewKafkaWriter returns a writer for the configured topic. Messages with the
// same key land on the same partition.
func NewKafkaWriter(cfg *config.Kafka) (*kafka.Writer, error) {
	if cfg == nil || len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, ErrNoBrokers
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}, nil
}

// NewKafkaReader returns a consumer group reader for the configured topic.
func NewKafkaReader(cfg *config.Kafka) (*kafka.Reader, error) {
	if cfg == nil || len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, ErrNoBrokers
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	}), nil
}

// DialAMQP connects to RabbitMQ. A bare host:port is turned into an amqp URL.
func DialAMQP(cfg *config.RabbitMQ) (*amqp.Connection, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("rabbitmq: URL is empty")
	}
	url := cfg.URL
	if !strings.HasPrefix(url, "amqp://") && !strings.HasPrefix(url, "amqps://") {
		url = "amqp://" + url
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: failed to connect: %w", err)
	}
	return conn, nil
}
