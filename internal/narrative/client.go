// Package narrative asks a text-generation API for short commentary on
// precomputed budget figures. It never sees the document itself.
package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/theirongolddev/rentroll/internal/config"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 60 * time.Second

	// OfflineNotice is returned when no API key is configured.
	OfflineNotice = "Narrative analysis is unavailable: no API key configured. Set RENTROLL_NARRATIVE_KEY or narrative.api_key."

	emptyReply  = "No analysis available."
	temperature = 0.5
)

var (
	// ErrUnauthorized indicates the API key was rejected.
	ErrUnauthorized = errors.New("narrative: unauthorized (API key invalid)")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("narrative: rate limited")
)

// Client calls the generateContent endpoint.
type Client struct {
	http   *resty.Client
	model  string
	logger *zap.Logger
}

// NewClient creates a client from cfg. Returns nil when no API key is
// configured; a nil *Client answers every request with OfflineNotice.
func NewClient(cfg config.Config, logger *zap.Logger) *Client {
	key := strings.TrimSpace(config.GetNarrativeKey(cfg))
	if key == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	nc := cfg.Narrative
	baseURL := strings.TrimRight(nc.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := nc.Model
	if model == "" {
		model = defaultModel
	}
	timeout := defaultTimeout
	if nc.TimeoutSeconds > 0 {
		timeout = time.Duration(nc.TimeoutSeconds) * time.Second
	}

	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(3*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("x-goog-api-key", key)

	return &Client{http: rc, model: model, logger: logger}
}

// AnalyzeBudget asks for commentary on summary under kind's topic and
// returns the reply text verbatim. summary should be a BudgetSummary for
// occupancy and revenue, or an ExecutionSummary for execution.
func (c *Client) AnalyzeBudget(ctx context.Context, kind Kind, summary any) (string, error) {
	if c == nil {
		return OfflineNotice, nil
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("narrative: encoding summary: %w", err)
	}
	return c.generate(ctx, budgetPrompt(kind, string(data)), temperature)
}

func (c *Client) generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	body := generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: temperature},
	}

	c.logger.Debug("requesting narrative", zap.String("model", c.model), zap.Int("prompt_bytes", len(prompt)))

	var out generateResponse
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("model", c.model).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		c.logger.Error("narrative request failed", zap.Error(err))
		return "", fmt.Errorf("narrative: request failed: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", ErrUnauthorized
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	}
	if resp.IsError() {
		c.logger.Warn("narrative API error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("message", apiErr.Error.Message),
		)
		if apiErr.Error.Message != "" {
			return "", fmt.Errorf("narrative: %s (status %d)", apiErr.Error.Message, resp.StatusCode())
		}
		return "", fmt.Errorf("narrative: unexpected status %d", resp.StatusCode())
	}

	text := replyText(out)
	if text == "" {
		return emptyReply, nil
	}
	return text, nil
}

func replyText(r generateResponse) string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

func budgetPrompt(kind Kind, data string) string {
	if kind == KindExecution {
		return `You are a financial analyst for a business park. Compare the annual budget with actual collections:
` + data + `

Requirements:
1. State and assess the overall completion rate (actual / budget).
2. Suggest likely causes for shortfalls or overruns, such as rent-free periods, early or late payment, or tenants leaving.
3. Point out months that stand out.
4. Give brief recommendations.
5. Keep it under 150 words.`
	}

	topic := "revenue and cash flow"
	if kind == KindOccupancy {
		topic = "occupancy changes"
	}
	return `You are a financial analyst for a business park. Write a short commentary on this budget data:
` + data + `

Requirements:
1. Cover ` + topic + ` only.
2. Name the months with notable movement and their likely causes, such as a large tenant leaving, new signings, rent reviews or deferred payments.
3. If adjustmentImpact is non-zero, state how manual adjustments changed the annual budget.
4. Keep it concise, suitable for a management dashboard, under 100 words.`
}

func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
