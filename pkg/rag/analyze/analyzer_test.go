package analyze

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"empathy-chat-be/pkg/llm"
)

type fakeProvider struct {
	response string
	err      error
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("unexpected Chat call")
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.response, f.err
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name             string
		response         string
		err              error
		wantEmotion      string
		wantRelationship string
	}{
		{
			name:             "clean JSON",
			response:         `{"primary_emotion": "상처", "relationship_context": "친구"}`,
			wantEmotion:      "상처",
			wantRelationship: "친구",
		},
		{
			name:             "JSON wrapped in prose",
			response:         "분석 결과는 다음과 같습니다:\n{\"primary_emotion\": \"분노\", \"relationship_context\": \"부모님\"}\n감사합니다.",
			wantEmotion:      "분노",
			wantRelationship: "부모님",
		},
		{
			name:             "no JSON at all",
			response:         "판단할 수 없습니다",
			wantEmotion:      "불안",
			wantRelationship: "친구",
		},
		{
			name:             "malformed JSON",
			response:         `{"primary_emotion": "슬픔",`,
			wantEmotion:      "불안",
			wantRelationship: "친구",
		},
		{
			name:             "unknown emotion label",
			response:         `{"primary_emotion": "행복", "relationship_context": "가족"}`,
			wantEmotion:      "불안",
			wantRelationship: "가족",
		},
		{
			name:             "unknown relationship label",
			response:         `{"primary_emotion": "기쁨", "relationship_context": "사장님"}`,
			wantEmotion:      "기쁨",
			wantRelationship: "친구",
		},
		{
			name:             "provider failure",
			err:              errors.New("timeout"),
			wantEmotion:      "불안",
			wantRelationship: "친구",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{response: tt.response, err: tt.err}
			analyzer := NewAnalyzer(provider, testLogger())

			got := analyzer.Analyze(context.Background(), "친구랑 싸웠어")
			if got.PrimaryEmotion != tt.wantEmotion {
				t.Errorf("PrimaryEmotion = %q, want %q", got.PrimaryEmotion, tt.wantEmotion)
			}
			if got.RelationshipContext != tt.wantRelationship {
				t.Errorf("RelationshipContext = %q, want %q", got.RelationshipContext, tt.wantRelationship)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"fenced object", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"no braces", "nothing here", ""},
		{"reversed braces", "} {", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.response); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.response, got, tt.want)
			}
		})
	}
}
