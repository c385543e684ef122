// Package assistant answers visitor questions through a hosted language
// model. Callers always get text back; failures become an apology.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"sepri/internal/domain"
)

const (
	// EmptyReply is returned when the model answers with no text.
	EmptyReply = "Lo siento, no pude generar una respuesta en este momento."

	// ErrorReply is returned when the model cannot be reached.
	ErrorReply = "Hubo un error al conectar con el asistente. Por favor intenta más tarde."
)

// Model is the part of the model client the assistant uses.
type Model interface {
	Generate(ctx context.Context, contents []*genai.Content, systemPrompt string) (string, error)
}

type Config struct {
	APIKey       string
	Model        string
	Timeout      time.Duration
	SystemPrompt string
}

type Generator struct {
	model        Model
	systemPrompt string
	timeout      time.Duration
	logger       *slog.Logger
}

// New connects to the hosted model. Without an API key the generator
// answers every message with ErrorReply.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Generator, error) {
	logger = logger.With("component", "assistant")

	var model Model
	if cfg.APIKey == "" {
		logger.Warn("assistant API key not configured, chat is disabled")
	} else {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create genai client: %w", err)
		}
		model = &genaiModel{client: client, name: cfg.Model}
	}

	return NewWithModel(model, cfg.SystemPrompt, cfg.Timeout, logger), nil
}

// NewWithModel builds a generator over any Model. A nil model disables chat.
func NewWithModel(model Model, systemPrompt string, timeout time.Duration, logger *slog.Logger) *Generator {
	return &Generator{
		model:        model,
		systemPrompt: systemPrompt,
		timeout:      timeout,
		logger:       logger,
	}
}

// GenerateReply sends the conversation so far plus message and returns the
// model's reply.
func (g *Generator) GenerateReply(ctx context.Context, history []domain.ChatMessage, message string) string {
	if g.model == nil {
		return ErrorReply
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := genai.RoleModel
		if m.Role == "user" {
			role = genai.RoleUser
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	if strings.TrimSpace(message) != "" {
		contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))
	}

	start := time.Now()
	text, err := g.model.Generate(ctx, contents, g.systemPrompt)
	if err != nil {
		g.logger.Error("generate reply", "error", err, "duration", time.Since(start))
		return ErrorReply
	}
	if strings.TrimSpace(text) == "" {
		g.logger.Warn("model returned an empty reply")
		return EmptyReply
	}

	g.logger.Debug("reply generated", "turns", len(contents), "duration", time.Since(start))
	return text
}

type genaiModel struct {
	client *genai.Client
	name   string
}

func (m *genaiModel) Generate(ctx context.Context, contents []*genai.Content, systemPrompt string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.name, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}
