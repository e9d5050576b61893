package dto

import "github.com/applynowhq/admissions-backend/internal/intake"

// StartIntakeRequest optionally names an existing application to pre-fill
// the flow from (the edit path).
type StartIntakeRequest struct {
	From string `json:"from,omitempty"`
}

// IntakeStateResponse describes the flow for the client: which step is
// active and the display forms for everything accumulated so far.
type IntakeStateResponse struct {
	Step  string       `json:"step"`
	Forms intake.Forms `json:"forms"`
}

// ValidationErrorResponse carries the per-field messages for a failed
// advance, so the client can re-render the step.
type ValidationErrorResponse struct {
	Error   bool              `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

type SubmitResponse struct {
	ID string `json:"id"`
}

type ReviewRequest struct {
	Status string `json:"status"`
}

// PredictionErrorResponse marks a failed prediction as retryable; the client
// offers a retry action instead of treating it as fatal.
type PredictionErrorResponse struct {
	Error     bool   `json:"error"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}
