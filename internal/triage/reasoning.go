package triage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/abhijithgoodboi/petclinic/internal/models"
)

const triagePrompt = `Classify the following pet symptoms into ONLY ONE category:

1. Emergency - life-threatening, needs immediate vet care
2. Urgent - needs vet care soon (within 24 hours)
3. Routine - can be monitored or handled with basic care

Give a short reason (one line only).

Respond strictly in this format:
Category: <Emergency/Urgent/Routine>
Reason: <one-line explanation>

Symptoms:
%s`

// ReasoningClassifier asks an OpenAI-compatible completion service to triage
// symptoms the pattern library doesn't know. Every failure mode, transport
// errors, timeouts, unparsable replies, is reported as inconclusive so the
// engine falls through to the keyword tier.
type ReasoningClassifier struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

type ReasoningConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewReasoningClassifier returns nil when no API key is configured; the
// engine treats a nil reasoner as "tier absent".
func NewReasoningClassifier(cfg ReasoningConfig) *ReasoningClassifier {
	if cfg.APIKey == "" {
		return nil
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ReasoningClassifier{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: timeout,
	}
}

func (c *ReasoningClassifier) Name() string { return "reasoning_classifier" }

func (c *ReasoningClassifier) TryClassify(ctx context.Context, text, _ string) (models.TriageVerdict, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a professional veterinary triage assistant. Be concise and accurate.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(triagePrompt, text),
			},
		},
		Temperature: 0.2,
		MaxTokens:   200,
	})
	if err != nil {
		return models.TriageVerdict{}, false, err
	}
	if len(resp.Choices) == 0 {
		return models.TriageVerdict{}, false, errors.New("empty completion")
	}

	category, reason, ok := parseCategoryReply(resp.Choices[0].Message.Content)
	if !ok {
		return models.TriageVerdict{}, false, fmt.Errorf("unparsable reply: %.80q", resp.Choices[0].Message.Content)
	}

	return models.TriageVerdict{
		Priority: priorityFromCategory(category),
		Reason:   reason,
		Source:   c.Name(),
	}, true, nil
}

// parseCategoryReply extracts the two-line "Category: ... / Reason: ..."
// structure, case-insensitively and tolerant of extra lines.
func parseCategoryReply(reply string) (category, reason string, ok bool) {
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "category:"):
			category = strings.TrimSpace(line[len("category:"):])
		case strings.HasPrefix(lower, "reason:"):
			reason = strings.TrimSpace(line[len("reason:"):])
		}
	}
	if category == "" {
		return "", "", false
	}
	if reason == "" {
		reason = "classified by reasoning service"
	}
	return category, reason, true
}

func priorityFromCategory(category string) string {
	lower := strings.ToLower(category)
	switch {
	case strings.Contains(lower, "emergency"):
		return models.PriorityEmergency
	case strings.Contains(lower, "urgent"):
		return models.PriorityHigh
	default:
		return models.PriorityNormal
	}
}
