package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	apperrors "github.com/dont21900-lgtm/editing-store/pkg/errors"
	"github.com/dont21900-lgtm/editing-store/pkg/httpclient"
)

// Reply is the structured assistant response. Action tells the storefront
// shell what to do ("navigate", "set_color", "answer"); Page and Color carry
// the action's argument.
type Reply struct {
	Action   string `json:"action"`
	Response string `json:"response"`
	Page     string `json:"page,omitempty"`
	Color    string `json:"color,omitempty"`
}

const systemInstruction = `You are the shopping assistant for a digital asset storefront selling ` +
	`video editing packs, LUTs, transitions, and sound effects. Answer briefly and help the ` +
	`customer find products, navigate the store, or restyle the page. Respond ONLY with a JSON ` +
	`object of the shape {"action": "answer"|"navigate"|"set_color", "response": string, ` +
	`"page": string?, "color": string?}. Use "navigate" with a page of "store", "downloads", ` +
	`"cart", or "home" when the customer wants to go somewhere. Use "set_color" with a CSS ` +
	`color when they ask to restyle the page. Otherwise use "answer".`

// degradedReply is served when the model is unreachable or not configured.
var degradedReply = Reply{
	Action:   "answer",
	Response: "The assistant is taking a break right now. Browse the store or check your downloads in the meantime.",
}

// Config holds generative-language API configuration.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
}

// DefaultConfig returns defaults targeting the public generative-language API.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://generativelanguage.googleapis.com",
		Model:   "gemini-2.0-flash",
	}
}

// Service chats with a generative-language model in JSON mode, degrading to
// a canned reply when the model is unreachable, misbehaving, or unconfigured.
type Service struct {
	client *httpclient.CircuitBreakerClient
	cfg    Config
	logger *slog.Logger
}

// NewService creates the assistant over a circuit-broken HTTP client.
func NewService(client *httpclient.CircuitBreakerClient, cfg Config, logger *slog.Logger) *Service {
	return &Service{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// generateContent request/response shapes, reduced to the fields used.
type generateRequest struct {
	SystemInstruction *content         `json:"system_instruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string  `json:"response_mime_type"`
	Temperature      float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Chat sends the customer message to the model and returns its structured
// reply. Infrastructure failures degrade to the canned reply rather than
// erroring; only invalid input is surfaced.
func (s *Service) Chat(ctx context.Context, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.InvalidInput("message is required")
	}

	if s.cfg.APIKey == "" {
		s.logger.WarnContext(ctx, "assistant api key missing, serving degraded reply")
		reply := degradedReply
		return &reply, nil
	}

	reqBody := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		Contents:          []content{{Role: "user", Parts: []part{{Text: message}}}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.2,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(s.cfg.BaseURL, "/"), s.cfg.Model, s.cfg.APIKey)

	resp, err := s.client.Post(ctx, url, "application/json", bytes.NewReader(payload))
	if err != nil {
		s.logger.WarnContext(ctx, "assistant model unreachable, serving degraded reply",
			slog.String("error", err.Error()),
		)
		reply := degradedReply
		return &reply, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		s.logger.WarnContext(ctx, "assistant model returned non-200, serving degraded reply",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		reply := degradedReply
		return &reply, nil
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		s.logger.WarnContext(ctx, "assistant response undecodable, serving degraded reply",
			slog.String("error", err.Error()),
		)
		reply := degradedReply
		return &reply, nil
	}

	reply, ok := extractReply(genResp)
	if !ok {
		s.logger.WarnContext(ctx, "assistant reply missing or malformed, serving degraded reply")
		r := degradedReply
		return &r, nil
	}

	s.logger.InfoContext(ctx, "assistant reply",
		slog.String("action", reply.Action),
	)

	return reply, nil
}

// extractReply pulls the JSON-mode reply out of the first candidate.
func extractReply(resp generateResponse) (*Reply, bool) {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, false
	}

	text := resp.Candidates[0].Content.Parts[0].Text
	// Some models wrap JSON mode output in a markdown fence anyway.
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var reply Reply
	if err := json.Unmarshal([]byte(text), &reply); err != nil {
		return nil, false
	}
	if reply.Action == "" {
		reply.Action = "answer"
	}
	return &reply, true
}
