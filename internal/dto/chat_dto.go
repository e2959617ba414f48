package dto

import (
	"time"

	"empathy-chat-be/pkg/rag/trace"
)

type SendChatRequest struct {
	Message   string `json:"message" validate:"required,max=2000"`
	SessionId string `json:"session_id,omitempty"`
}

type SendChatResponse struct {
	SessionId string `json:"session_id"`
	Response  string `json:"response"`
}

type SendChatDebugResponse struct {
	SessionId  string            `json:"session_id"`
	Response   string            `json:"response"`
	Strategy   string            `json:"strategy"`
	Steps      []trace.Step      `json:"debug_steps"`
	ReActSteps []trace.ReActStep `json:"react_steps"`
}

type TurnResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type HistoryResponse struct {
	SessionId string         `json:"session_id"`
	Turns     []TurnResponse `json:"turns"`
}
