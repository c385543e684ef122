package assistant

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"sepri/internal/domain"
)

type fakeModel struct {
	reply    string
	err      error
	contents []*genai.Content
	prompt   string
	deadline bool
}

func (f *fakeModel) Generate(ctx context.Context, contents []*genai.Content, systemPrompt string) (string, error) {
	f.contents = contents
	f.prompt = systemPrompt
	_, f.deadline = ctx.Deadline()
	return f.reply, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

func TestGenerateReply(t *testing.T) {
	model := &fakeModel{reply: "Debe enviar la póliza 30 días antes."}
	g := NewWithModel(model, "eres SEPRI", time.Second, testLogger())

	reply := g.GenerateReply(context.Background(), []domain.ChatMessage{
		{Role: "user", Text: "hola"},
		{Role: "model", Text: "¿en qué ayudo?"},
	}, "¿cuándo envío la póliza?")

	assert.Equal(t, "Debe enviar la póliza 30 días antes.", reply)
	assert.Equal(t, "eres SEPRI", model.prompt)
	assert.True(t, model.deadline)

	require.Len(t, model.contents, 3)
	assert.Equal(t, string(genai.RoleUser), model.contents[0].Role)
	assert.Equal(t, string(genai.RoleModel), model.contents[1].Role)
	assert.Equal(t, string(genai.RoleUser), model.contents[2].Role)
	assert.Equal(t, "¿cuándo envío la póliza?", model.contents[2].Parts[0].Text)
}

func TestGenerateReply_Error(t *testing.T) {
	g := NewWithModel(&fakeModel{err: errors.New("quota")}, "", 0, testLogger())
	assert.Equal(t, ErrorReply, g.GenerateReply(context.Background(), nil, "hola"))
}

func TestGenerateReply_Empty(t *testing.T) {
	g := NewWithModel(&fakeModel{reply: "  "}, "", 0, testLogger())
	assert.Equal(t, EmptyReply, g.GenerateReply(context.Background(), nil, "hola"))
}

func TestNew_WithoutKey(t *testing.T) {
	g, err := New(context.Background(), Config{Model: "gemini-2.5-flash"}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, ErrorReply, g.GenerateReply(context.Background(), nil, "hola"))
}
