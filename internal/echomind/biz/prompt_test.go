package biz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/N1njakeks/echomind/pkg/llm"
	chatopts "github.com/N1njakeks/echomind/pkg/options/chat"
)

func newTestAssembler() *PromptAssembler {
	return NewPromptAssembler(chatopts.NewOptions())
}

func TestIsQuizRequest(t *testing.T) {
	p := newTestAssembler()

	cases := []struct {
		question string
		want     bool
	}{
		{"Quiz me", true},
		{"QUIZ", true},
		{"give me a quiz", true},
		// Substring matching is the documented contract.
		{"explain quizzically", true},
		{"What is photosynthesis?", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, p.IsQuizRequest(tc.question), "question: %q", tc.question)
	}
}

func TestIsQuizRequestCustomTriggers(t *testing.T) {
	opts := chatopts.NewOptions()
	opts.QuizTriggers = []string{"abfrage", "teste mich"}
	p := NewPromptAssembler(opts)

	assert.True(t, p.IsQuizRequest("Starte eine Abfrage"))
	assert.True(t, p.IsQuizRequest("bitte TESTE MICH"))
	assert.False(t, p.IsQuizRequest("quiz me"))
}

func TestAssembleTextRequest(t *testing.T) {
	p := newTestAssembler()
	resolved := &ResolvedContext{
		Source:    SourceSimilarity,
		Text:      "Source: Biology\nCells are the unit of life.",
		CharLimit: 30000,
	}

	req := p.Assemble(resolved, "What is a cell?")

	assert.Equal(t, llm.FormatText, req.Format)
	assert.Equal(t, chatopts.DefaultPersonaPrompt, req.SystemPrompt)
	// Context is embedded verbatim.
	assert.Contains(t, req.Prompt, "Source: Biology\nCells are the unit of life.")
	assert.Contains(t, req.Prompt, "Question: What is a cell?")
	assert.NotContains(t, req.Prompt, "JSON")
}

func TestAssembleQuizRequest(t *testing.T) {
	p := newTestAssembler()
	resolved := &ResolvedContext{Source: SourceDocument, Text: "Source: History\nRome fell in 476.", CharLimit: 30000}

	req := p.Assemble(resolved, "quiz me on this")

	assert.Equal(t, llm.FormatJSON, req.Format)
	assert.Contains(t, req.Prompt, "Rome fell in 476.")
	assert.Contains(t, req.Prompt, "correctIndex")
	assert.Contains(t, req.Prompt, "Request: quiz me on this")
}

func TestAssembleEmptyContext(t *testing.T) {
	p := newTestAssembler()
	resolved := &ResolvedContext{Source: SourceNone, Text: "", CharLimit: 30000}

	req := p.Assemble(resolved, "What is photosynthesis?")

	assert.Contains(t, req.Prompt, "(none found)")
	assert.Contains(t, req.Prompt, "What is photosynthesis?")
}

func TestAssembleIsPure(t *testing.T) {
	p := newTestAssembler()
	resolved := &ResolvedContext{Source: SourceNone, Text: "", CharLimit: 100}

	a := p.Assemble(resolved, "quiz")
	b := p.Assemble(resolved, "quiz")
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a.Prompt, "Notes:"))
}
