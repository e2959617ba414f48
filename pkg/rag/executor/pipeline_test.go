package executor

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"empathy-chat-be/pkg/llm"
	"empathy-chat-be/pkg/rag"
	"empathy-chat-be/pkg/rag/compose"
	"empathy-chat-be/pkg/rag/search"
	"empathy-chat-be/pkg/rag/trace"
	"empathy-chat-be/pkg/vectorindex"

	"github.com/stretchr/testify/assert"
)

// routingProvider answers each pipeline stage by recognizing its prompt.
type routingProvider struct {
	analysisJSON string
	verifyAnswer string
	strategyJSON string
	chatReply    string

	verifyCalls  int
	rewriteCalls int
}

func (p *routingProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	switch {
	case strings.Contains(prompt, "primary_emotion"):
		return p.analysisJSON, nil
	case strings.Contains(prompt, "쿼리 재작성 전문가"):
		p.rewriteCalls++
		return "재작성된 질의", nil
	case strings.Contains(prompt, "관련이 있는가?"):
		p.verifyCalls++
		return p.verifyAnswer, nil
	case strings.Contains(prompt, "empathy_phrase"):
		return p.strategyJSON, nil
	default:
		return "", errors.New("unrecognized prompt")
	}
}

func (p *routingProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.chatReply, nil
}

type staticIndex struct {
	candidates []vectorindex.SearchCandidate
	lastFilter vectorindex.Filter
	lastTopK   int
}

func (s *staticIndex) Search(ctx context.Context, query string, topK int, filter vectorindex.Filter) ([]vectorindex.SearchCandidate, error) {
	s.lastFilter = filter
	s.lastTopK = topK
	return s.candidates, nil
}

func (s *staticIndex) Add(ctx context.Context, docs []vectorindex.Document) ([]string, error) {
	return nil, errors.New("not implemented")
}

func (s *staticIndex) DeleteByIDs(ctx context.Context, ids []string) error { return nil }
func (s *staticIndex) DeleteAll(ctx context.Context) error                 { return nil }
func (s *staticIndex) Stats(ctx context.Context) (*vectorindex.Stats, error) {
	return &vectorindex.Stats{DocumentCount: int64(len(s.candidates)), Status: "ready"}, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newExecutor(provider llm.LLMProvider, index vectorindex.Index) *PipelineExecutor {
	return NewPipelineExecutor(provider, index, nil, search.Config{TopK: 10}, testLogger())
}

func TestExecuteAdaptationBranch(t *testing.T) {
	provider := &routingProvider{
		analysisJSON: `{"primary_emotion": "상처", "relationship_context": "친구"}`,
		verifyAnswer: "Yes",
		strategyJSON: `{"empathy_phrase": "속상했겠다", "core_suggestion": "대화를 시도해봐", "encouragement_phrase": "응원할게"}`,
		chatReply:    "진짜 속상했겠다. 친구한테 먼저 말 걸어보는 건 어때? 응원할게!",
	}
	index := &staticIndex{
		candidates: []vectorindex.SearchCandidate{
			{
				Document: vectorindex.Document{
					ID:      "doc-1",
					Content: "친구가 저를 따돌려요",
					Metadata: map[string]string{
						"system_response": "먼저 대화를 시도해보세요",
						"emotion":         "상처",
						"relationship":    "친구",
					},
				},
				Similarity: 0.91,
			},
		},
	}

	tr := trace.New("session_test")
	result, err := newExecutor(provider, index).Execute(
		context.Background(), "친구가 나를 무시하는 것 같아", nil, tr)

	assert.NoError(t, err)
	assert.Equal(t, provider.chatReply, result.Reply)
	assert.Equal(t, compose.StrategyAdaptation, result.Composition.Strategy)

	// No history means the rewrite round-trip is skipped entirely.
	assert.Equal(t, 0, provider.rewriteCalls)
	assert.Equal(t, "친구가 나를 무시하는 것 같아", result.RewrittenQuery)

	// Analysis tags drive the retrieval filter.
	assert.Equal(t, "and(emotion=상처, relationship=친구)", index.lastFilter.String())
	assert.Equal(t, 10, index.lastTopK)

	// One candidate, one judgment, then short-circuit.
	assert.Equal(t, 1, provider.verifyCalls)
	assert.Len(t, result.VerificationLogs, 1)
	assert.True(t, result.VerificationLogs[0].IsRelevant)

	assert.Equal(t, "doc-1", tr.SelectedDocumentId)
	assert.Equal(t, compose.StrategyAdaptation, tr.Strategy)
	assert.NotEmpty(t, tr.ReActSteps)
}

func TestExecuteDirectBranchEmptyIndex(t *testing.T) {
	provider := &routingProvider{
		analysisJSON: `{"primary_emotion": "슬픔", "relationship_context": "가족"}`,
		chatReply:    "무슨 일이야? 얘기해줄래?",
	}
	index := &staticIndex{}

	tr := trace.New("session_test")
	result, err := newExecutor(provider, index).Execute(
		context.Background(), "그냥 다 지쳤어", nil, tr)

	assert.NoError(t, err)
	assert.Equal(t, compose.StrategyDirect, result.Composition.Strategy)
	assert.Equal(t, 0, provider.verifyCalls)
	assert.Empty(t, result.VerificationLogs)
	assert.Empty(t, tr.SelectedDocumentId)
	assert.Equal(t, compose.StrategyDirect, tr.Strategy)
}

func TestExecuteDirectBranchAllIrrelevant(t *testing.T) {
	provider := &routingProvider{
		analysisJSON: `{"primary_emotion": "분노", "relationship_context": "형제자매"}`,
		verifyAnswer: "No",
		chatReply:    "동생 때문에 화났구나.",
	}
	index := &staticIndex{
		candidates: []vectorindex.SearchCandidate{
			{Document: vectorindex.Document{ID: "a", Metadata: map[string]string{"system_response": "조언 하나"}}, Similarity: 0.8},
			{Document: vectorindex.Document{ID: "b", Metadata: map[string]string{"system_response": "조언 둘"}}, Similarity: 0.7},
		},
	}

	tr := trace.New("session_test")
	result, err := newExecutor(provider, index).Execute(
		context.Background(), "동생이 내 물건을 마음대로 써", nil, tr)

	assert.NoError(t, err)
	assert.Equal(t, compose.StrategyDirect, result.Composition.Strategy)
	assert.Equal(t, 2, provider.verifyCalls)
	assert.Len(t, result.VerificationLogs, 2)
	assert.Empty(t, tr.SelectedDocumentId)
}

func TestExecuteHistoryTriggersRewrite(t *testing.T) {
	provider := &routingProvider{
		analysisJSON: `{"primary_emotion": "불안", "relationship_context": "친구"}`,
		chatReply:    "그랬구나.",
	}
	index := &staticIndex{}

	history := []llm.Message{
		{Role: "user", Content: "어제 친구랑 싸웠어"},
		{Role: "assistant", Content: "무슨 일로 싸웠는데?"},
	}

	tr := trace.New("session_test")
	result, err := newExecutor(provider, index).Execute(
		context.Background(), "아직도 화해를 못 했어", history, tr)

	assert.NoError(t, err)
	assert.Equal(t, 1, provider.rewriteCalls)
	assert.Equal(t, "재작성된 질의", result.RewrittenQuery)
}

// blockingProvider hangs until the context is done, simulating a stalled model.
type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (blockingProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestExecuteTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	tr := trace.New("session_test")
	result, err := newExecutor(blockingProvider{}, &staticIndex{}).Execute(
		ctx, "시간이 오래 걸리는 질문", nil, tr)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, rag.ErrTimeout)
}
