package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/applynowhq/admissions-backend/internal/models"
	"github.com/xeipuuv/gojsonschema"
)

const statementExcerptLimit = 300

const scoringSystemPrompt = `You are a university admissions officer evaluating applicant profiles for a competitive undergraduate program.
Return your evaluation as a JSON object with these exact fields:
{"probability": 0-100 integer, "category": "High"|"Moderate"|"Low", "reasoning": "short explanation"}
Return ONLY the JSON object, no extra text.`

const assistantSystemPrompt = `You are a friendly and helpful AI assistant for 'ApplyNow', a university admissions portal. Help applicants with questions about the admission process, requirements, deadlines, and tracking their status. Keep your responses concise, professional, and encouraging.`

// resultSchema rejects any response that is not structurally a
// PredictionResult, including unknown categories.
const resultSchema = `{
	"type": "object",
	"properties": {
		"probability": {"type": "integer", "minimum": 0, "maximum": 100},
		"category": {"type": "string", "enum": ["High", "Moderate", "Low"]},
		"reasoning": {"type": "string"}
	},
	"required": ["probability", "category", "reasoning"],
	"additionalProperties": true
}`

var resultSchemaLoader = gojsonschema.NewStringLoader(resultSchema)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// RemoteScorer calls an OpenAI-compatible chat-completions endpoint and
// parses a strict-JSON prediction out of the reply. It performs no fallback
// of its own; every failure surfaces as a *PredictionError.
type RemoteScorer struct {
	apiURL string
	apiKey string
	model  string
	client *http.Client
}

func NewRemoteScorer(apiURL, apiKey, model string, timeout time.Duration) *RemoteScorer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &RemoteScorer{
		apiURL: apiURL,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

func (r *RemoteScorer) Predict(ctx context.Context, academic models.AcademicInfo) (*models.PredictionResult, error) {
	excerpt := academic.PersonalStatement
	if len(excerpt) > statementExcerptLimit {
		excerpt = excerpt[:statementExcerptLimit]
	}

	prompt := fmt.Sprintf(`Evaluate the following applicant profile.

GPA: %.2f (out of 4.0 scale)
Test Type: %s
Test Score: %d
Extracurricular Activities: %s
Personal Statement Excerpt: %q

Note: If Test Type is 'Other', the score may not follow standard SAT/ACT scaling; weigh GPA and activities more heavily.

Provide a realistic admission probability, a category (High/Moderate/Low), and a short reasoning paragraph.`,
		academic.GPA, academic.TestType, academic.TestScore, academic.Activities, excerpt)

	content, err := r.chat(ctx, []chatMessage{
		{Role: "system", Content: scoringSystemPrompt},
		{Role: "user", Content: prompt},
	}, 0.3)
	if err != nil {
		return nil, err
	}

	raw := extractJSONObject(content)
	if raw == "" {
		return nil, predErr("parse", errors.New("no JSON object in response"))
	}

	validation, err := gojsonschema.Validate(resultSchemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, predErr("schema", err)
	}
	if !validation.Valid() {
		issues := make([]string, 0, len(validation.Errors()))
		for _, desc := range validation.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, predErr("schema", errors.New(strings.Join(issues, "; ")))
	}

	var result models.PredictionResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, predErr("decode", err)
	}
	return &result, nil
}

// Chat sends a free-form conversation to the provider with the admissions
// assistant persona, for the portal's help widget.
func (r *RemoteScorer) Chat(ctx context.Context, messages []chatMessage) (string, error) {
	all := append([]chatMessage{{Role: "system", Content: assistantSystemPrompt}}, messages...)
	return r.chat(ctx, all, 0.7)
}

func (r *RemoteScorer) chat(ctx context.Context, messages []chatMessage, temperature float64) (string, error) {
	payload, err := json.Marshal(chatRequest{Model: r.model, Messages: messages, Temperature: temperature})
	if err != nil {
		return "", predErr("encode", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", predErr("request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", predErr("transport", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", predErr("read", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", predErr("status", fmt.Errorf("reasoning service returned %d", resp.StatusCode))
	}

	var completion chatResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", predErr("decode", err)
	}
	if len(completion.Choices) == 0 {
		return "", predErr("decode", errors.New("empty choices in response"))
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// extractJSONObject strips markdown code fences and slices out the outermost
// JSON object, tolerating chatter around it.
func extractJSONObject(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}
