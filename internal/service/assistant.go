package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"auraverse/config"
	"auraverse/internal/models"
	"auraverse/internal/util"

	"go.uber.org/zap"
)

// Assistant is the opaque shopping-assistant surface. The language
// model behind it is someone else's problem; the core only hands over
// the inventory context and the user's message and gets text back.
type Assistant interface {
	Ask(ctx context.Context, contextProducts []models.Product, message string) (string, error)
}

// HTTPAssistant calls a remote assistant endpoint with bounded
// exponential backoff. The assistant is the only collaborator with
// retry semantics; store operations never retry.
type HTTPAssistant struct {
	cfg    config.AssistantConfig
	client *http.Client
	logger *zap.Logger
}

// NewHTTPAssistant creates a new assistant client
func NewHTTPAssistant(cfg config.AssistantConfig) *HTTPAssistant {
	return &HTTPAssistant{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: util.GetLogger(),
	}
}

type assistantRequest struct {
	Message  string           `json:"message"`
	Products []models.Product `json:"products"`
}

type assistantResponse struct {
	Text string `json:"text"`
}

// Ask sends the message with the current inventory context, retrying
// with doubled delays up to the configured attempt limit.
func (a *HTTPAssistant) Ask(ctx context.Context, contextProducts []models.Product, message string) (string, error) {
	if a.cfg.URL == "" {
		return "", fmt.Errorf("assistant endpoint not configured")
	}

	start := time.Now()
	defer func() {
		util.AssistantRequestLatency.Observe(time.Since(start).Seconds())
	}()

	payload, err := json.Marshal(assistantRequest{Message: message, Products: contextProducts})
	if err != nil {
		return "", fmt.Errorf("failed to encode assistant request: %w", err)
	}

	delay := time.Second
	var lastErr error
	for attempt := 0; attempt <= a.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		text, err := a.ask(ctx, payload)
		if err == nil {
			return text, nil
		}
		lastErr = err
		a.logger.Warn("Assistant call failed",
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}

	return "", fmt.Errorf("assistant unavailable after %d attempts: %w", a.cfg.MaxRetries+1, lastErr)
}

func (a *HTTPAssistant) ask(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assistant returned status %d", resp.StatusCode)
	}

	var out assistantResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode assistant response: %w", err)
	}
	return out.Text, nil
}
