package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"empathy-chat-be/internal/dto"
	"empathy-chat-be/pkg/events"
	"empathy-chat-be/pkg/nats"
	"empathy-chat-be/pkg/vectorindex"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the ingestion queue and writes exemplar batches
// into the vector index.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	index     vectorindex.Index
	publisher *nats.Publisher // nil when the event bus is unavailable
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	index vectorindex.Index,
	publisher *nats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		index:     index,
		publisher: publisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestExemplarsMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	docs := make([]vectorindex.Document, 0, len(payload.Documents))
	for _, d := range payload.Documents {
		docs = append(docs, vectorindex.Document{
			Content: d.UserUtterance,
			Metadata: map[string]string{
				"user_utterance":  d.UserUtterance,
				"system_response": d.SystemResponse,
				"emotion":         d.Emotion,
				"relationship":    d.Relationship,
				"empathy_label":   d.EmpathyLabel,
			},
		})
	}

	log.Printf("[INFO] Ingesting %d exemplars", len(docs))

	// Add embeds every document and commits the batch in one transaction
	ids, err := cs.index.Add(ctx, docs)
	if err != nil {
		log.Printf("[ERROR] Failed to ingest exemplar batch: %v", err)
		msg.Nack() // Nack for retriable errors
		return
	}

	log.Printf("[SUCCESS] Ingested %d exemplars", len(ids))
	cs.notifyIngested(len(ids))
	msg.Ack()
}

func (cs *consumerService) notifyIngested(count int) {
	if cs.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cs.publisher.Publish(ctx, events.NewExemplarsIngested(count)); err != nil {
		log.Printf("[WARN] Failed to publish ingest event: %v", err)
	}
}
