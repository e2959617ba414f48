package nats

import "testing"

func TestSubjectFor(t *testing.T) {
	tests := []struct {
		eventType string
		want      string
	}{
		{"CONVERSATION_TURN_SAVED", "events.CONVERSATION_TURN_SAVED"},
		{"EXEMPLARS_INGESTED", "events.EXEMPLARS_INGESTED"},
	}
	for _, tt := range tests {
		if got := subjectFor(tt.eventType); got != tt.want {
			t.Errorf("subjectFor(%q) = %q, want %q", tt.eventType, got, tt.want)
		}
	}
}

func TestStreamOrDefault(t *testing.T) {
	if got := streamOrDefault(""); got != defaultStreamName {
		t.Errorf("streamOrDefault(\"\") = %q, want %q", got, defaultStreamName)
	}
	if got := streamOrDefault("CUSTOM_EVENTS"); got != "CUSTOM_EVENTS" {
		t.Errorf("streamOrDefault(\"CUSTOM_EVENTS\") = %q, want CUSTOM_EVENTS", got)
	}
}
