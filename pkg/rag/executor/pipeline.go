package executor

import (
	"context"
	"errors"
	"fmt"
	"log"

	"empathy-chat-be/pkg/llm"
	"empathy-chat-be/pkg/rag"
	"empathy-chat-be/pkg/rag/analyze"
	"empathy-chat-be/pkg/rag/compose"
	"empathy-chat-be/pkg/rag/rewrite"
	"empathy-chat-be/pkg/rag/search"
	"empathy-chat-be/pkg/rag/trace"
	"empathy-chat-be/pkg/rag/verify"
	"empathy-chat-be/pkg/texttransform"
	"empathy-chat-be/pkg/vectorindex"
)

// PipelineExecutor orchestrates the retrieval-and-decision chain:
// analyze → rewrite → retrieve → verify → compose. Stages run strictly
// in order since each stage's output feeds the next; verification is a
// sequential short-circuiting scan, never parallel, to cap LLM spend.
type PipelineExecutor struct {
	analyzer     *analyze.Analyzer
	rewriter     *rewrite.Rewriter
	searcher     *search.Orchestrator
	verifier     *verify.Verifier
	composer     *compose.Composer
	searchConfig search.Config
	logger       *log.Logger
}

func NewPipelineExecutor(
	llmProvider llm.LLMProvider,
	index vectorindex.Index,
	transformer texttransform.Transformer,
	searchConfig search.Config,
	logger *log.Logger,
) *PipelineExecutor {
	return &PipelineExecutor{
		analyzer:     analyze.NewAnalyzer(llmProvider, logger),
		rewriter:     rewrite.NewRewriter(llmProvider, logger),
		searcher:     search.NewOrchestrator(index, logger),
		verifier:     verify.NewVerifier(llmProvider, logger),
		composer:     compose.NewComposer(llmProvider, transformer, logger),
		searchConfig: searchConfig,
		logger:       logger,
	}
}

// ExecutionResult contains the composed reply plus everything recorded
// along the way for the debug surface.
type ExecutionResult struct {
	Reply            string
	RewrittenQuery   string
	Analysis         analyze.Analysis
	Candidates       []vectorindex.SearchCandidate
	VerificationLogs []verify.JudgmentLog
	Composition      *compose.Output
}

// Execute runs the pipeline for one message. The caller owns context
// loading and turn persistence; the supplied trace is extended in place.
func (p *PipelineExecutor) Execute(
	ctx context.Context,
	message string,
	history []llm.Message,
	tr *trace.Trace,
) (*ExecutionResult, error) {

	// Input analysis
	tr.Thought("사용자의 입력 의도를 파악하기 위해 감정과 관계 맥락을 분석해야겠다.")
	analysis := p.analyzer.Analyze(ctx, message)
	if err := budgetErr(ctx); err != nil {
		return nil, err
	}
	tr.Observation(fmt.Sprintf("분석 결과: 감정='%s', 관계='%s'", analysis.PrimaryEmotion, analysis.RelationshipContext))
	tr.AddStep("input_analysis", message, analysis)

	// Conversational query rewriting
	tr.Thought("검색 정확도를 높이기 위해, 이전 대화 내용까지 포함하여 검색어를 재작성해야겠다.")
	searchQuery, err := p.rewriter.Rewrite(ctx, message, history)
	if err != nil {
		return nil, p.wrap(err, ctx)
	}
	tr.Observation(fmt.Sprintf("재작성된 검색어: '%s'", searchQuery))
	tr.AddStep("query_rewriting", message, searchQuery)

	// Retrieval
	tr.Thought("재작성된 검색어로 여러 개의 후보 문서를 찾아봐야겠다.")
	candidates, err := p.searcher.Execute(ctx, searchQuery, search.Tags{
		Emotion:      analysis.PrimaryEmotion,
		Relationship: analysis.RelationshipContext,
	}, p.searchConfig)
	if err != nil {
		return nil, p.wrap(err, ctx)
	}
	tr.Observation(fmt.Sprintf("유사 사례 후보 %d건 발견.", len(candidates)))
	tr.AddStep("retrieval", searchQuery, candidateSummaries(candidates))

	// Sequential relevance check
	tr.Thought("검색된 후보들이 현재 대화와 정말 관련이 있는지 하나씩 순서대로 검증해야겠다.")
	verification, err := p.verifier.VerifyFirstRelevant(ctx, message, candidates)
	if err != nil {
		return nil, p.wrap(err, ctx)
	}
	tr.AddStep("relevance_check", len(candidates), verification.Logs)

	// Composition
	var output *compose.Output
	if verification.Selected != nil {
		tr.Observation(fmt.Sprintf("후보 %d번이 관련 있음! 검색 기반 전략을 사용하기로 결정했다.", len(verification.Logs)))
		tr.Thought("선택된 참고 자료에서 답변의 핵심 전략을 추출하고, 이를 바탕으로 최종 답변을 생성해야겠다.")
		tr.SelectedDocumentId = verification.Selected.Document.ID

		output, err = p.composer.Adapt(ctx, message, verification.Selected.Document.Metadata["system_response"], history)
	} else {
		tr.Thought("관련 있는 참고 자료가 없으므로, 대화 맥락에만 기반하여 직접 답변을 생성해야겠다.")

		inspiration := make([]string, 0, len(candidates))
		for _, c := range candidates {
			if doc := c.Document.Metadata["system_response"]; doc != "" {
				inspiration = append(inspiration, doc)
			}
		}
		output, err = p.composer.Direct(ctx, message, history, inspiration)
	}
	if err != nil {
		return nil, p.wrap(err, ctx)
	}
	tr.Observation("최종 응답 생성을 완료했다.")
	tr.Strategy = output.Strategy
	tr.AddStep("generation", output.Strategy, output.Text)

	return &ExecutionResult{
		Reply:            output.Text,
		RewrittenQuery:   searchQuery,
		Analysis:         analysis,
		Candidates:       candidates,
		VerificationLogs: verification.Logs,
		Composition:      output,
	}, nil
}

// wrap maps a stage failure onto the timeout sentinel when the budget
// expired; otherwise the stage's own error is surfaced untouched.
func (p *PipelineExecutor) wrap(err error, ctx context.Context) error {
	if budget := budgetErr(ctx); budget != nil {
		return budget
	}
	return err
}

func budgetErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", rag.ErrTimeout, ctx.Err())
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%w: %v", rag.ErrTimeout, ctx.Err())
	}
	return nil
}

type candidateSummary struct {
	Id         string  `json:"id"`
	Utterance  string  `json:"utterance"`
	Similarity float64 `json:"similarity"`
}

func candidateSummaries(candidates []vectorindex.SearchCandidate) []candidateSummary {
	summaries := make([]candidateSummary, len(candidates))
	for i, c := range candidates {
		summaries[i] = candidateSummary{
			Id:         c.Document.ID,
			Utterance:  c.Document.Content,
			Similarity: c.Similarity,
		}
	}
	return summaries
}
