package biz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/N1njakeks/echomind/internal/model"
	"github.com/N1njakeks/echomind/pkg/llm"
	utilerrors "github.com/N1njakeks/echomind/pkg/utils/errors"
)

const validQuizJSON = `{"question":"Q","options":["A","B","C","D"],"correctIndex":1,"explanation":"E"}`

func newTestInterpreter(t *testing.T, chat *mockChatProvider) *Interpreter {
	t.Helper()
	it, err := NewInterpreter(chat)
	require.NoError(t, err)
	return it
}

func TestGenerateTextPassthrough(t *testing.T) {
	chat := &mockChatProvider{content: "Photosynthesis converts light into energy."}
	it := newTestInterpreter(t, chat)

	result, err := it.Generate(context.Background(), &llm.GenerateRequest{Prompt: "p", Format: llm.FormatText})
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis converts light into energy.", result.Answer)
	assert.Nil(t, result.Quiz)
}

func TestGenerateQuizSuccess(t *testing.T) {
	chat := &mockChatProvider{content: validQuizJSON}
	it := newTestInterpreter(t, chat)

	result, err := it.Generate(context.Background(), &llm.GenerateRequest{Prompt: "p", Format: llm.FormatJSON})
	require.NoError(t, err)
	require.NotNil(t, result.Quiz)
	assert.Equal(t, &model.QuizItem{
		Question:     "Q",
		Options:      []string{"A", "B", "C", "D"},
		CorrectIndex: 1,
		Explanation:  "E",
	}, result.Quiz)
	assert.Empty(t, result.Answer)
}

func TestGenerateQuizFencedOutput(t *testing.T) {
	chat := &mockChatProvider{content: "```json\n" + validQuizJSON + "\n```"}
	it := newTestInterpreter(t, chat)

	result, err := it.Generate(context.Background(), &llm.GenerateRequest{Format: llm.FormatJSON})
	require.NoError(t, err)
	require.NotNil(t, result.Quiz)
	assert.Equal(t, "Q", result.Quiz.Question)
}

func TestGenerateQuizProseWrappedOutput(t *testing.T) {
	chat := &mockChatProvider{content: "Sure! Here's your quiz: " + validQuizJSON + " Enjoy!"}
	it := newTestInterpreter(t, chat)

	result, err := it.Generate(context.Background(), &llm.GenerateRequest{Format: llm.FormatJSON})
	require.NoError(t, err)
	require.NotNil(t, result.Quiz)
	assert.Equal(t, 1, result.Quiz.CorrectIndex)
}

func TestGenerateQuizMalformedFallsBack(t *testing.T) {
	raw := "Sure! Here's your quiz: {not valid json"
	chat := &mockChatProvider{content: raw}
	it := newTestInterpreter(t, chat)

	result, err := it.Generate(context.Background(), &llm.GenerateRequest{Format: llm.FormatJSON})
	require.NoError(t, err)
	assert.Nil(t, result.Quiz)
	// The raw model text survives so the caller can still display it.
	assert.Equal(t, raw, result.Answer)
}

func TestGenerateQuizWrongShapeFallsBack(t *testing.T) {
	cases := []string{
		`{"question":"Q","options":["A","B","C"],"correctIndex":1,"explanation":"E"}`,
		`{"question":"Q","options":["A","B","C","D"],"correctIndex":4,"explanation":"E"}`,
		`{"question":"Q","options":["A","B","C","D"],"correctIndex":"1","explanation":"E"}`,
		`{"options":["A","B","C","D"],"correctIndex":1,"explanation":"E"}`,
	}

	for _, raw := range cases {
		chat := &mockChatProvider{content: raw}
		it := newTestInterpreter(t, chat)

		result, err := it.Generate(context.Background(), &llm.GenerateRequest{Format: llm.FormatJSON})
		require.NoError(t, err)
		assert.Nil(t, result.Quiz, "output: %s", raw)
		assert.Equal(t, raw, result.Answer)
	}
}

func TestGenerateProviderError(t *testing.T) {
	chat := &mockChatProvider{err: errors.New("rate limited")}
	it := newTestInterpreter(t, chat)

	_, err := it.Generate(context.Background(), &llm.GenerateRequest{Format: llm.FormatText})
	require.Error(t, err)

	errno := utilerrors.FromError(err)
	assert.Equal(t, utilerrors.ErrGeneration.Code, errno.Code)
	assert.Contains(t, errno.Details(), "rate limited")
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
		"{\"a\":1}":               `{"a":1}`,
	}
	for in, want := range cases {
		assert.Equal(t, want, stripCodeFences(in), "input: %q", in)
	}
}

func TestExtractJSONObject(t *testing.T) {
	assert.Equal(t, `{"a":{"b":1}}`, extractJSONObject(`prose {"a":{"b":1}} trailing`))
	assert.Equal(t, `{"s":"has } brace"}`, extractJSONObject(`{"s":"has } brace"}`))
	assert.Empty(t, extractJSONObject("no object here"))
	assert.Empty(t, extractJSONObject("{unbalanced"))
}
