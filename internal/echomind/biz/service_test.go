package biz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/N1njakeks/echomind/internal/echomind/store"
	"github.com/N1njakeks/echomind/internal/model"
	"github.com/N1njakeks/echomind/pkg/llm"
	chatopts "github.com/N1njakeks/echomind/pkg/options/chat"
	utilerrors "github.com/N1njakeks/echomind/pkg/utils/errors"
)

func newTestService(t *testing.T, s store.NoteStore, embedder *mockEmbedProvider, chat *mockChatProvider) *ChatService {
	t.Helper()
	opts := chatopts.NewOptions()
	interpreter, err := NewInterpreter(chat)
	require.NoError(t, err)
	return NewChatService(
		NewResolver(s, embedder, opts),
		NewPromptAssembler(opts),
		interpreter,
		nil,
	)
}

func TestChatMissingTenant(t *testing.T) {
	embedder := &mockEmbedProvider{vec: []float32{1, 0, 0}}
	chat := &mockChatProvider{content: "hi"}
	svc := newTestService(t, store.NewMemoryStore(3), embedder, chat)

	_, err := svc.Chat(context.Background(), &model.ChatRequest{Query: "hello"})
	require.Error(t, err)
	assert.ErrorIs(t, err, utilerrors.ErrTenantRequired)
	assert.Equal(t, 401, utilerrors.FromError(err).HTTPStatus())

	// No provider is touched for invalid input.
	assert.Zero(t, embedder.calls)
	assert.Zero(t, chat.calls)
}

func TestChatMissingQuery(t *testing.T) {
	embedder := &mockEmbedProvider{vec: []float32{1, 0, 0}}
	chat := &mockChatProvider{content: "hi"}
	svc := newTestService(t, store.NewMemoryStore(3), embedder, chat)

	_, err := svc.Chat(context.Background(), &model.ChatRequest{UserID: "alice", Query: "   "})
	require.Error(t, err)
	assert.ErrorIs(t, err, utilerrors.ErrQueryRequired)
	assert.Equal(t, 400, utilerrors.FromError(err).HTTPStatus())
	assert.Zero(t, embedder.calls)
	assert.Zero(t, chat.calls)
}

func TestChatEmptyCorpusStillAnswers(t *testing.T) {
	// Tenant with no notes: empty context is not an error, generation
	// still runs.
	chat := &mockChatProvider{content: "I have no notes about that, but photosynthesis converts light."}
	svc := newTestService(t, store.NewMemoryStore(3), &mockEmbedProvider{vec: []float32{1, 0, 0}}, chat)

	result, err := svc.Chat(context.Background(), &model.ChatRequest{
		UserID: "u1",
		Query:  "What is photosynthesis?",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Answer)
	assert.Equal(t, 1, chat.calls)
	assert.Equal(t, llm.FormatText, chat.lastReq.Format)
}

func TestChatGroundedAnswer(t *testing.T) {
	s := store.NewMemoryStore(3)
	seedNote(t, s, "n1", "alice", "Biology", "Mitochondria produce ATP.", []float32{1, 0, 0})
	chat := &mockChatProvider{content: "They produce ATP."}
	svc := newTestService(t, s, &mockEmbedProvider{vec: []float32{1, 0, 0}}, chat)

	result, err := svc.Chat(context.Background(), &model.ChatRequest{
		UserID: "alice",
		Query:  "What do mitochondria do?",
	})
	require.NoError(t, err)
	assert.Equal(t, "They produce ATP.", result.Answer)
	assert.Contains(t, chat.lastReq.Prompt, "Mitochondria produce ATP.")
}

func TestChatQuizEndToEnd(t *testing.T) {
	s := store.NewMemoryStore(3)
	seedNote(t, s, "n1", "alice", "Biology", "Mitochondria produce ATP.", []float32{1, 0, 0})
	chat := &mockChatProvider{content: validQuizJSON}
	svc := newTestService(t, s, &mockEmbedProvider{vec: []float32{1, 0, 0}}, chat)

	result, err := svc.Chat(context.Background(), &model.ChatRequest{
		UserID: "alice",
		Query:  "quiz me on biology",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Quiz)
	assert.Equal(t, "Q", result.Quiz.Question)
	assert.Equal(t, []string{"A", "B", "C", "D"}, result.Quiz.Options)
	assert.Equal(t, 1, result.Quiz.CorrectIndex)
	assert.Equal(t, llm.FormatJSON, chat.lastReq.Format)
}

func TestChatPinnedContext(t *testing.T) {
	s := store.NewMemoryStore(3)
	seedNote(t, s, "n1", "alice", "History", "Rome fell in 476.", nil)
	embedder := &mockEmbedProvider{vec: []float32{1, 0, 0}}
	chat := &mockChatProvider{content: "In 476."}
	svc := newTestService(t, s, embedder, chat)

	result, err := svc.Chat(context.Background(), &model.ChatRequest{
		UserID:        "alice",
		Query:         "When did Rome fall?",
		ContextItemID: "n1",
	})
	require.NoError(t, err)
	assert.Equal(t, "In 476.", result.Answer)
	assert.Contains(t, chat.lastReq.Prompt, "Rome fell in 476.")
	assert.Zero(t, embedder.calls)
}
