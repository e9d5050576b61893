package predict

import (
	"context"
	"errors"

	"github.com/applynowhq/admissions-backend/internal/models"
)

// ErrNoProvider is returned by Chat when no reasoning service is configured.
var ErrNoProvider = errors.New("no reasoning service configured")

// Strategy names, reported alongside predictions and in metrics.
const (
	StrategyRemote   = "remote"
	StrategyFallback = "fallback"
)

// Engine exposes one Predict operation and picks the strategy itself: the
// remote scorer when a provider is configured, the deterministic fallback
// otherwise. A remote failure is surfaced to the caller as retryable, never
// silently downgraded to the fallback.
type Engine struct {
	remote *RemoteScorer
}

// NewEngine builds an engine. remote may be nil, which pins the engine to
// the fallback strategy.
func NewEngine(remote *RemoteScorer) *Engine {
	return &Engine{remote: remote}
}

func (e *Engine) RemoteEnabled() bool { return e.remote != nil }

// Strategy reports which strategy Predict will use.
func (e *Engine) Strategy() string {
	if e.remote != nil {
		return StrategyRemote
	}
	return StrategyFallback
}

// Predict maps an academic profile to an admission estimate. The error, when
// non-nil, is always a *PredictionError.
func (e *Engine) Predict(ctx context.Context, academic models.AcademicInfo) (models.PredictionResult, error) {
	if e.remote == nil {
		return Fallback(academic), nil
	}
	result, err := e.remote.Predict(ctx, academic)
	if err != nil {
		return models.PredictionResult{}, err
	}
	return *result, nil
}

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat proxies the portal's help-widget conversation to the provider.
func (e *Engine) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	if e.remote == nil {
		return "", ErrNoProvider
	}
	converted := make([]chatMessage, len(messages))
	for i, m := range messages {
		converted[i] = chatMessage{Role: m.Role, Content: m.Content}
	}
	return e.remote.Chat(ctx, converted)
}
