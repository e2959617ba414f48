package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"empathy-chat-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const defaultStreamName = "EMPATHY_EVENTS"

// subjectPrefix scopes every published event under one subject tree.
const subjectPrefix = "events"

// Publisher sends domain events over NATS JetStream.
type Publisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	stream string
}

// NewPublisher connects and ensures the event stream exists. An empty
// streamName selects the default.
func NewPublisher(url, streamName string) (*Publisher, error) {
	streamName = streamOrDefault(streamName)

	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	p := &Publisher{nc: nc, js: js, stream: streamName}
	if err := p.ensureStream(); err != nil {
		// The stream may already exist or NATS may still be starting;
		// publishing will surface a real failure.
		log.Printf("Warn: Failed to ensure stream %q: %v", streamName, err)
	}
	return p, nil
}

func (p *Publisher) ensureStream() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := p.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      p.stream,
		Subjects:  []string{subjectPrefix + ".>"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.WorkQueuePolicy,
	})
	return err
}

// Publish sends one event; the subject is derived from the event type.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	subject := subjectFor(event.EventType())
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", subject, err)
	}
	return nil
}

func subjectFor(eventType string) string {
	return subjectPrefix + "." + eventType
}

func streamOrDefault(name string) string {
	if name == "" {
		return defaultStreamName
	}
	return name
}

// Close closes the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
