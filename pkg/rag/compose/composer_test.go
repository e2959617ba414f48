package compose

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"empathy-chat-be/internal/constant"
	"empathy-chat-be/pkg/llm"
	"empathy-chat-be/pkg/rag"
	"empathy-chat-be/pkg/texttransform"
)

type fakeProvider struct {
	generateResponse string
	generateErr      error
	chatResponse     string
	chatErr          error

	lastGeneratePrompt string
	lastGenerateOpts   llm.Options
	lastChatMessages   []llm.Message
	lastChatOpts       llm.Options
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.lastChatMessages = history
	f.lastChatOpts = applyOpts(options)
	return f.chatResponse, f.chatErr
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.lastGeneratePrompt = prompt
	f.lastGenerateOpts = applyOpts(options)
	return f.generateResponse, f.generateErr
}

func applyOpts(options []llm.Option) llm.Options {
	var opts llm.Options
	for _, o := range options {
		o(&opts)
	}
	return opts
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestAdapt(t *testing.T) {
	provider := &fakeProvider{
		generateResponse: `{"empathy_phrase": "많이 힘들었겠다", "core_suggestion": "친구에게 솔직하게 이야기해봐", "encouragement_phrase": "넌 잘 해낼 수 있어"}`,
		chatResponse:     "  헐, 진짜 속상했겠다. 친구한테 솔직하게 말해보는 건 어때? 넌 잘 해낼 수 있어!  ",
	}
	composer := NewComposer(provider, texttransform.NewInformalConverter(), testLogger())

	exemplar := "당신은 동료에게 솔직하게 이야기해보세요"
	history := []llm.Message{{Role: "user", Content: "요즘 학교 가기 싫어"}}

	output, err := composer.Adapt(context.Background(), "친구가 나를 무시해", exemplar, history)
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}

	if output.Strategy != StrategyAdaptation {
		t.Errorf("Strategy = %q, want %q", output.Strategy, StrategyAdaptation)
	}
	if output.Text != "헐, 진짜 속상했겠다. 친구한테 솔직하게 말해보는 건 어때? 넌 잘 해낼 수 있어!" {
		t.Errorf("Text not trimmed: %q", output.Text)
	}
	if output.SourceAdvice != exemplar {
		t.Errorf("SourceAdvice = %q, want the raw exemplar", output.SourceAdvice)
	}
	if output.ConvertedAdvice != "너은 친구에게 솔직하게 이야기해봐" {
		t.Errorf("ConvertedAdvice = %q", output.ConvertedAdvice)
	}
	if output.ExtractedStrategy == nil || output.ExtractedStrategy.CoreSuggestion != "친구에게 솔직하게 이야기해봐" {
		t.Errorf("ExtractedStrategy = %+v", output.ExtractedStrategy)
	}

	// Strategy extraction sees the converted text, not the raw exemplar.
	if !strings.Contains(provider.lastGeneratePrompt, "너은 친구에게") {
		t.Errorf("extraction prompt should use converted advice, got: %s", provider.lastGeneratePrompt)
	}
	if provider.lastGenerateOpts.Temperature != 0.0 || !provider.lastGenerateOpts.JSONOutput {
		t.Errorf("extraction opts = %+v", provider.lastGenerateOpts)
	}
	if provider.lastChatOpts.Temperature != 0.5 || provider.lastChatOpts.MaxTokens != 400 {
		t.Errorf("composition opts = %+v", provider.lastChatOpts)
	}

	// Persona first, history in the middle, strategy prompt last.
	msgs := provider.lastChatMessages
	if len(msgs) != 3 {
		t.Fatalf("chat messages = %d, want 3", len(msgs))
	}
	if msgs[0].Role != "system" || msgs[0].Content != constant.TeenEmpathySystemPrompt {
		t.Error("first message should be the persona system prompt")
	}
	if msgs[1].Content != "요즘 학교 가기 싫어" {
		t.Error("history should be carried into the chat")
	}
	if !strings.Contains(msgs[2].Content, "많이 힘들었겠다") {
		t.Error("final user prompt should embed the extracted strategy")
	}
	if !strings.Contains(output.PromptTrace, "[system]") {
		t.Error("PromptTrace should render roles")
	}
}

func TestAdaptStrategyParseFailure(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"no JSON", "추출 불가", nil},
		{"broken JSON", `{"empathy_phrase":`, nil},
		{"provider error", "", errors.New("model unavailable")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{generateResponse: tt.response, generateErr: tt.err}
			composer := NewComposer(provider, nil, testLogger())

			_, err := composer.Adapt(context.Background(), "메시지", "조언", nil)
			if !errors.Is(err, rag.ErrGeneration) {
				t.Fatalf("Adapt() error = %v, want ErrGeneration", err)
			}
		})
	}
}

func TestDirectWithInspiration(t *testing.T) {
	provider := &fakeProvider{chatResponse: "그랬구나, 진짜 힘들었겠다."}
	composer := NewComposer(provider, nil, testLogger())

	output, err := composer.Direct(context.Background(), "아무도 내 편이 없는 것 같아", nil,
		[]string{"혼자라고 느낄 때는 주변을 둘러보세요"})
	if err != nil {
		t.Fatalf("Direct() error = %v", err)
	}

	if output.Strategy != StrategyDirect {
		t.Errorf("Strategy = %q, want %q", output.Strategy, StrategyDirect)
	}
	if output.ExtractedStrategy != nil || output.SourceAdvice != "" {
		t.Error("direct branch should not carry adaptation fields")
	}

	last := provider.lastChatMessages[len(provider.lastChatMessages)-1]
	if !strings.Contains(last.Content, "혼자라고 느낄 때는") {
		t.Error("inspiration doc should appear in the prompt")
	}
	if provider.lastChatOpts.Temperature != 0.7 || provider.lastChatOpts.MaxTokens != 300 {
		t.Errorf("direct opts = %+v", provider.lastChatOpts)
	}
}

func TestDirectWithoutInspiration(t *testing.T) {
	provider := &fakeProvider{chatResponse: "무슨 일 있었어?"}
	composer := NewComposer(provider, nil, testLogger())

	output, err := composer.Direct(context.Background(), "그냥 우울해", nil, nil)
	if err != nil {
		t.Fatalf("Direct() error = %v", err)
	}
	if output.Text != "무슨 일 있었어?" {
		t.Errorf("Text = %q", output.Text)
	}

	last := provider.lastChatMessages[len(provider.lastChatMessages)-1]
	if strings.Contains(last.Content, constant.InspirationPreamble) {
		t.Error("empty inspiration must not emit the preamble")
	}
}
