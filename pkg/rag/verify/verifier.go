package verify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"empathy-chat-be/internal/constant"
	"empathy-chat-be/pkg/llm"
	"empathy-chat-be/pkg/rag"
	"empathy-chat-be/pkg/vectorindex"
)

// JudgmentLog records one relevance decision, kept for every candidate
// regardless of outcome.
type JudgmentLog struct {
	Candidate  int    `json:"candidate"` // 1-indexed rank
	IsRelevant bool   `json:"is_relevant"`
	Document   string `json:"document"`
}

// Result carries the first relevant candidate, if any, plus the full log.
type Result struct {
	Selected *vectorindex.SearchCandidate
	Logs     []JudgmentLog
}

// Verifier issues binary relevance judgments over ranked candidates.
type Verifier struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewVerifier(llmProvider llm.LLMProvider, logger *log.Logger) *Verifier {
	return &Verifier{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// VerifyFirstRelevant scans candidates in ranked order and stops at the
// first one judged relevant. Judging is done against the original user
// message and the exemplar's recorded response as stored; later candidates
// are skipped once a match is found, trading completeness for cost.
func (v *Verifier) VerifyFirstRelevant(ctx context.Context, message string, candidates []vectorindex.SearchCandidate) (*Result, error) {
	result := &Result{
		Logs: []JudgmentLog{},
	}

	for i := range candidates {
		document := candidates[i].Document.Metadata["system_response"]

		relevant, err := v.judge(ctx, message, document)
		if err != nil {
			return nil, fmt.Errorf("%w: candidate %d: %v", rag.ErrVerification, i+1, err)
		}

		result.Logs = append(result.Logs, JudgmentLog{
			Candidate:  i + 1,
			IsRelevant: relevant,
			Document:   document,
		})

		if relevant {
			result.Selected = &candidates[i]
			v.logger.Printf("[VERIFY] Candidate %d relevant, stopping scan", i+1)
			return result, nil
		}
	}

	v.logger.Printf("[VERIFY] No relevant candidate among %d", len(candidates))
	return result, nil
}

func (v *Verifier) judge(ctx context.Context, message, document string) (bool, error) {
	prompt := fmt.Sprintf(constant.RelevanceVerifyPrompt, message, document)

	response, err := v.llmProvider.Generate(ctx, prompt,
		llm.WithTemperature(0.0),
		llm.WithMaxTokens(5),
	)
	if err != nil {
		return false, err
	}

	return strings.Contains(strings.ToLower(strings.TrimSpace(response)), "yes"), nil
}
