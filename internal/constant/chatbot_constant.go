package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// Retrieval parameters
	DefaultTopK          = 10
	DefaultHistoryLimit  = 6
	DefaultSearchTimeout = 30 // seconds

	// Session identifiers look like session_a1b2c3d4e5f6
	SessionIdPrefix    = "session_"
	SessionIdHexLength = 12
)

// Emotion labels used to annotate and filter exemplars.
var EmotionTypes = []string{"기쁨", "당황", "분노", "불안", "상처", "슬픔"}

// Relationship labels describing who the utterance is about.
var RelationshipTypes = []string{"부모님", "친구", "형제자매", "좋아하는 사람", "동급생", "가족"}

// Empathy strategy labels carried on exemplar metadata.
var EmpathyStrategies = []string{"격려", "동조", "위로", "조언"}

const (
	FallbackEmotion      = "불안"
	FallbackRelationship = "친구"
)
