package trace

// Step records one pipeline stage's input and output for introspection.
type Step struct {
	Label  string      `json:"label"`
	Input  interface{} `json:"input"`
	Output interface{} `json:"output"`
}

// ReActStep is one thought or observation in the reasoning trace.
type ReActStep struct {
	StepType string `json:"step_type"` // "thought" or "observation"
	Content  string `json:"content"`
}

// Trace collects per-invocation debug data. It is never shown to end users.
type Trace struct {
	SessionId  string      `json:"session_id"`
	Steps      []Step      `json:"steps"`
	ReActSteps []ReActStep `json:"react_steps"`
	// SelectedDocumentId is set only when a candidate passed verification.
	SelectedDocumentId string `json:"selected_document_id,omitempty"`
	Strategy           string `json:"strategy,omitempty"` // branch label of the composer
}

func New(sessionId string) *Trace {
	return &Trace{
		SessionId:  sessionId,
		Steps:      []Step{},
		ReActSteps: []ReActStep{},
	}
}

func (t *Trace) AddStep(label string, input, output interface{}) {
	t.Steps = append(t.Steps, Step{Label: label, Input: input, Output: output})
}

func (t *Trace) Thought(content string) {
	t.ReActSteps = append(t.ReActSteps, ReActStep{StepType: "thought", Content: content})
}

func (t *Trace) Observation(content string) {
	t.ReActSteps = append(t.ReActSteps, ReActStep{StepType: "observation", Content: content})
}
