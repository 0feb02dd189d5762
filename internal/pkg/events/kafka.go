package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// ErrQueueFull is returned when the kafka queue cannot take more events.
var ErrQueueFull = errors.New("kafka publisher queue full")

// ErrPublisherClosed is returned after Close.
var ErrPublisherClosed = errors.New("publisher closed")

// KafkaWriter is the subset of *kafka.Writer the publisher needs.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher queues events and writes them to a topic from one goroutine.
// The channel name is the message key so a channel's events stay ordered.
type KafkaPublisher struct {
	writer     KafkaWriter
	events     chan Event
	logger     zerolog.Logger
	maxRetries uint64
	closeOnce  sync.Once
	// held shared while enqueueing and exclusively while closing, so nothing
	// is queued after the loop's final drain
	mu     sync.RWMutex
	closed chan struct{}
	done   chan struct{}
}

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string, queueSize int, logger zerolog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
	return newKafkaPublisher(writer, queueSize, logger)
}

func newKafkaPublisher(writer KafkaWriter, queueSize int, logger zerolog.Logger) *KafkaPublisher {
	if queueSize <= 0 {
		queueSize = 1000
	}
	p := &KafkaPublisher{
		writer:     writer,
		events:     make(chan Event, queueSize),
		logger:     logger.With().Str("component", "kafka_publisher").Logger(),
		maxRetries: 3,
		closed:     make(chan struct{}),
		done:       make(chan struct{}),
	}
	go p.eventLoop()
	return p
}

// Publish enqueues the event without blocking.
func (p *KafkaPublisher) Publish(_ context.Context, event Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	select {
	case <-p.closed:
		return ErrPublisherClosed
	default:
	}

	select {
	case p.events <- event:
		return nil
	default:
		p.logger.Warn().Str("channel", event.Channel).Str("event", event.Name).Msg("Kafka publisher queue full, dropping event")
		return ErrQueueFull
	}
}

func (p *KafkaPublisher) eventLoop() {
	defer close(p.done)
	for {
		select {
		case event := <-p.events:
			p.send(event)
		case <-p.closed:
			for {
				select {
				case event := <-p.events:
					p.send(event)
				default:
					return
				}
			}
		}
	}
}

func (p *KafkaPublisher) send(event Event) {
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Str("channel", event.Channel).Msg("Failed to serialize event")
		return
	}
	msg := kafka.Message{
		Key:   []byte(event.Channel),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(event.Name)},
		},
	}

	write := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return p.writer.WriteMessages(ctx, msg)
	}
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 100 * time.Millisecond
	if err := backoff.Retry(write, backoff.WithMaxRetries(expo, p.maxRetries)); err != nil {
		p.logger.Error().Err(err).Str("channel", event.Channel).Str("event", event.Name).Msg("Failed to produce event")
	}
}

// Close drains the queue, then closes the writer.
func (p *KafkaPublisher) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		close(p.closed)
		p.mu.Unlock()
	})
	<-p.done
	return p.writer.Close()
}
