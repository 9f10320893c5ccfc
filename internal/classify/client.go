package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultTimeout bounds a single remote classification call.
const DefaultTimeout = 10 * time.Second

// Opts holds configuration for the OpenAI-backed classifier.
type Opts struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Option configures the classifier client.
type Option func(*Opts)

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithModel overrides the chat model used for classification.
func WithModel(model string) Option {
	return func(o *Opts) { o.Model = model }
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Opts) { o.Timeout = d }
}

// Client classifies answers through the OpenAI chat API with a local fast
// path and a local fallback. It satisfies Classifier and never returns a
// remote failure to the caller.
type Client struct {
	ai      openai.Client
	model   string
	timeout time.Duration
	local   *LocalClassifier
}

var _ Classifier = (*Client)(nil)

// NewClient creates a remote classifier. The API key comes from options or
// the OPENAI_API_KEY environment variable.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key not set")
	}
	if cfg.Model == "" {
		cfg.Model = string(openai.ChatModelGPT4oMini)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	slog.Debug("classify.NewClient: creating remote classifier", "model", cfg.Model, "timeout", cfg.Timeout)
	return &Client{
		ai:      openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		local:   NewLocalClassifier(),
	}, nil
}

// fieldPrompts holds the per-field system prompts for the remote call.
var fieldPrompts = map[Field]string{
	FieldIndustry: "You standardize industry names for outreach campaigns. Correct spelling and map the input to concise, conventional industry names.",
	FieldLocation: "You standardize geographic targeting values. Correct spelling and map the input to conventional country or region names.",
	FieldRole:     "You standardize job titles for outreach targeting. Correct spelling and map the input to concise, conventional role names.",
}

// Classify standardizes the input, preferring the local fast path, then the
// remote model, then the local fallback. The returned error is always nil;
// remote failures degrade to a lower-confidence local result.
func (c *Client) Classify(ctx context.Context, field Field, text string) (Result, error) {
	if r, ok := c.local.FastPath(field, text); ok {
		slog.Debug("classify.Client: fast path hit", "field", field, "value", r.Value)
		return r, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	system := fieldPrompts[field] +
		` Reply with only a JSON object: {"value": string, "confidence": number between 0 and 1, "alternatives": [string]}.` +
		` Keep multiple input values comma-separated in "value".`

	completion, err := c.ai.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		slog.Warn("classify.Client: remote call failed, using local fallback", "field", field, "error", err)
		return c.fallback(ctx, field, text)
	}
	if len(completion.Choices) == 0 {
		slog.Warn("classify.Client: remote returned no choices, using local fallback", "field", field)
		return c.fallback(ctx, field, text)
	}

	result, err := parseResult(completion.Choices[0].Message.Content)
	if err != nil {
		slog.Warn("classify.Client: malformed remote response, using local fallback", "field", field, "error", err)
		return c.fallback(ctx, field, text)
	}
	if strings.TrimSpace(result.Value) == "" {
		return c.fallback(ctx, field, text)
	}
	slog.Debug("classify.Client: remote classification succeeded", "field", field, "value", result.Value, "confidence", result.Confidence)
	return result, nil
}

// fallback runs the local classifier and caps the reported confidence so
// degraded results are distinguishable.
func (c *Client) fallback(ctx context.Context, field Field, text string) (Result, error) {
	r, _ := c.local.Classify(ctx, field, text)
	if r.Confidence > confidenceKeyword {
		r.Confidence = confidenceKeyword
	}
	return r, nil
}

// parseResult decodes the model's JSON reply, tolerating code fences.
func parseResult(content string) (Result, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var r Result
	if err := json.Unmarshal([]byte(content), &r); err != nil {
		return Result{}, fmt.Errorf("failed to parse classification response: %w", err)
	}
	if r.Confidence < 0 {
		r.Confidence = 0
	}
	if r.Confidence > 1 {
		r.Confidence = 1
	}
	return r, nil
}
