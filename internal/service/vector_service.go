package service

import (
	"context"
	"encoding/json"
	"fmt"

	"empathy-chat-be/internal/dto"
	"empathy-chat-be/pkg/vectorindex"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IVectorService exposes the index for ingestion and diagnostics.
type IVectorService interface {
	EnqueueDocuments(ctx context.Context, request *dto.AddDocumentsRequest) (*dto.AddDocumentsResponse, error)
	Search(ctx context.Context, request *dto.SearchRequest) (*dto.SearchResponse, error)
	Delete(ctx context.Context, request *dto.DeleteDocumentsRequest) error
	Stats(ctx context.Context) (*dto.StatsResponse, error)
}

type vectorService struct {
	index     vectorindex.Index
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewVectorService(index vectorindex.Index, pubSub *gochannel.GoChannel, topicName string) IVectorService {
	return &vectorService{
		index:     index,
		pubSub:    pubSub,
		topicName: topicName,
	}
}

// EnqueueDocuments hands the batch to the ingestion worker; embedding and
// persistence happen off the request path.
func (vs *vectorService) EnqueueDocuments(ctx context.Context, request *dto.AddDocumentsRequest) (*dto.AddDocumentsResponse, error) {
	payload := dto.PublishIngestExemplarsMessage{
		Documents: request.Documents,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(watermill.NewUUID(), raw)
	if err := vs.pubSub.Publish(vs.topicName, msg); err != nil {
		return nil, fmt.Errorf("failed to enqueue exemplar batch: %w", err)
	}

	return &dto.AddDocumentsResponse{Enqueued: len(request.Documents)}, nil
}

func (vs *vectorService) Search(ctx context.Context, request *dto.SearchRequest) (*dto.SearchResponse, error) {
	topK := request.TopK
	if topK <= 0 {
		topK = 10
	}

	var filter vectorindex.Filter
	switch {
	case request.Emotion != "" && request.Relationship != "":
		filter = vectorindex.And(
			vectorindex.Equals("emotion", request.Emotion),
			vectorindex.Equals("relationship", request.Relationship),
		)
	case request.Emotion != "":
		filter = vectorindex.Equals("emotion", request.Emotion)
	case request.Relationship != "":
		filter = vectorindex.Equals("relationship", request.Relationship)
	default:
		filter = vectorindex.NoFilter()
	}

	candidates, err := vs.index.Search(ctx, request.Query, topK, filter)
	if err != nil {
		return nil, err
	}

	results := make([]dto.SearchResultDTO, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, dto.SearchResultDTO{
			Id:             c.Document.ID,
			UserUtterance:  c.Document.Metadata["user_utterance"],
			SystemResponse: c.Document.Metadata["system_response"],
			Emotion:        c.Document.Metadata["emotion"],
			Relationship:   c.Document.Metadata["relationship"],
			Similarity:     c.Similarity,
		})
	}
	return &dto.SearchResponse{Results: results}, nil
}

func (vs *vectorService) Delete(ctx context.Context, request *dto.DeleteDocumentsRequest) error {
	if request.All {
		return vs.index.DeleteAll(ctx)
	}
	return vs.index.DeleteByIDs(ctx, request.Ids)
}

func (vs *vectorService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	stats, err := vs.index.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.StatsResponse{
		DocumentCount: stats.DocumentCount,
		Status:        stats.Status,
	}, nil
}
