package dto

// ChatRequest is the body of POST /api/chat/v1. SessionId scopes
// conversational memory and is only meaningful for model1.
type ChatRequest struct {
	Model     string `json:"model" validate:"required"`
	SessionId string `json:"session_id,omitempty"`
	Query     string `json:"query" validate:"required"`
}
