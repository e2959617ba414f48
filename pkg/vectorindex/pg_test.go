package vectorindex

import (
	"context"
	"errors"
	"testing"
	"time"

	"empathy-chat-be/internal/entity"
	"empathy-chat-be/internal/repository/contract"
	"empathy-chat-be/internal/repository/specification"
	"empathy-chat-be/internal/repository/unitofwork"
	"empathy-chat-be/pkg/embedding"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fixedEmbedder struct {
	err error
}

func (e *fixedEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if e.err != nil {
		return nil, e.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

// scriptedExemplarRepo records how many specifications each similarity
// search received and fails filtered calls on demand.
type scriptedExemplarRepo struct {
	contract.ExemplarRepository

	results      []*contract.ScoredExemplar
	filteredErr  error
	searchErr    error
	specsPerCall []int
}

func (r *scriptedExemplarRepo) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, threshold float64, specs ...specification.Specification) ([]*contract.ScoredExemplar, error) {
	r.specsPerCall = append(r.specsPerCall, len(specs))
	if len(specs) > 0 && r.filteredErr != nil {
		return nil, r.filteredErr
	}
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	return r.results, nil
}

type scriptedUnitOfWork struct {
	repo *scriptedExemplarRepo
}

func (u *scriptedUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *scriptedUnitOfWork) Commit() error                   { return nil }
func (u *scriptedUnitOfWork) Rollback() error                 { return nil }
func (u *scriptedUnitOfWork) ExemplarRepository() contract.ExemplarRepository {
	return u.repo
}
func (u *scriptedUnitOfWork) ConversationTurnRepository() contract.ConversationTurnRepository {
	return nil
}

type scriptedFactory struct {
	uow *scriptedUnitOfWork
}

func (f *scriptedFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func scoredExemplar(utterance, response string, similarity float64) *contract.ScoredExemplar {
	return &contract.ScoredExemplar{
		Exemplar: &entity.Exemplar{
			Id:             uuid.New(),
			UserUtterance:  utterance,
			SystemResponse: response,
			Emotion:        "불안",
			Relationship:   "친구",
			EmpathyLabel:   "위로",
			CreatedAt:      time.Now(),
		},
		Similarity: similarity,
	}
}

func newTestIndex(repo *scriptedExemplarRepo, embedErr error) *PgIndex {
	return NewPgIndex(
		&scriptedFactory{uow: &scriptedUnitOfWork{repo: repo}},
		&fixedEmbedder{err: embedErr},
		nopLogger{},
	)
}

func TestPgIndexSearchUnfilteredRetry(t *testing.T) {
	tests := []struct {
		name        string
		filter      Filter
		filteredErr error
		wantCalls   []int
		wantResults int
	}{
		{
			name:        "filtered search fails then unfiltered succeeds",
			filter:      Equals("emotion", "불안"),
			filteredErr: errors.New("operator does not exist"),
			wantCalls:   []int{1, 0},
			wantResults: 2,
		},
		{
			name:        "invalid filter skips straight to unfiltered",
			filter:      Equals("bogus", "x"),
			wantCalls:   []int{0},
			wantResults: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &scriptedExemplarRepo{
				results: []*contract.ScoredExemplar{
					scoredExemplar("요즘 너무 힘들어", "많이 힘들었겠다", 0.92),
					scoredExemplar("친구랑 싸웠어", "속상했겠다", 0.81),
				},
				filteredErr: tt.filteredErr,
			}
			idx := newTestIndex(repo, nil)

			candidates, err := idx.Search(context.Background(), "요즘 너무 힘들어", 3, tt.filter)
			if err != nil {
				t.Fatalf("Search() error = %v, want nil", err)
			}
			if len(candidates) != tt.wantResults {
				t.Fatalf("Search() returned %d candidates, want %d", len(candidates), tt.wantResults)
			}
			if len(repo.specsPerCall) != len(tt.wantCalls) {
				t.Fatalf("repository saw %d searches, want %d", len(repo.specsPerCall), len(tt.wantCalls))
			}
			for i, want := range tt.wantCalls {
				if repo.specsPerCall[i] != want {
					t.Errorf("search %d received %d specs, want %d", i, repo.specsPerCall[i], want)
				}
			}
		})
	}
}

func TestPgIndexSearchOrderAndClamp(t *testing.T) {
	repo := &scriptedExemplarRepo{
		results: []*contract.ScoredExemplar{
			scoredExemplar("첫 번째", "응답 하나", 1.2),
			scoredExemplar("두 번째", "응답 둘", 0.9),
			scoredExemplar("세 번째", "응답 셋", -0.3),
		},
	}
	idx := newTestIndex(repo, nil)

	candidates, err := idx.Search(context.Background(), "질문", 3, NoFilter())
	if err != nil {
		t.Fatalf("Search() error = %v, want nil", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("Search() returned %d candidates, want 3", len(candidates))
	}

	wantSimilarities := []float64{1.0, 0.9, 0.0}
	wantContents := []string{"첫 번째", "두 번째", "세 번째"}
	for i, c := range candidates {
		if c.Similarity != wantSimilarities[i] {
			t.Errorf("candidate %d similarity = %v, want %v", i, c.Similarity, wantSimilarities[i])
		}
		if c.Document.Content != wantContents[i] {
			t.Errorf("candidate %d content = %q, want %q", i, c.Document.Content, wantContents[i])
		}
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Similarity > candidates[i-1].Similarity {
			t.Errorf("candidates out of order at %d: %v > %v", i, candidates[i].Similarity, candidates[i-1].Similarity)
		}
	}

	first := candidates[0].Document.Metadata
	if first["system_response"] != "응답 하나" {
		t.Errorf("metadata system_response = %q, want %q", first["system_response"], "응답 하나")
	}
	if first["emotion"] != "불안" || first["relationship"] != "친구" || first["empathy_label"] != "위로" {
		t.Errorf("metadata fields not carried over: %v", first)
	}
}

func TestPgIndexSearchErrors(t *testing.T) {
	t.Run("embedding failure", func(t *testing.T) {
		repo := &scriptedExemplarRepo{}
		idx := newTestIndex(repo, errors.New("upstream down"))

		_, err := idx.Search(context.Background(), "질문", 3, NoFilter())
		if !errors.Is(err, ErrEmbedding) {
			t.Fatalf("Search() error = %v, want ErrEmbedding", err)
		}
		if len(repo.specsPerCall) != 0 {
			t.Errorf("repository searched %d times, want 0", len(repo.specsPerCall))
		}
	})

	t.Run("unfiltered search failure", func(t *testing.T) {
		repo := &scriptedExemplarRepo{searchErr: errors.New("connection refused")}
		idx := newTestIndex(repo, nil)

		_, err := idx.Search(context.Background(), "질문", 3, NoFilter())
		if !errors.Is(err, ErrBackendUnavailable) {
			t.Fatalf("Search() error = %v, want ErrBackendUnavailable", err)
		}
	})
}
