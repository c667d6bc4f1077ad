package biz

import (
	"fmt"
	"strings"

	"github.com/N1njakeks/echomind/pkg/llm"
	chatopts "github.com/N1njakeks/echomind/pkg/options/chat"
)

// quizInstruction demands exactly one JSON object in the QuizItem shape.
const quizInstruction = `Create one multiple-choice question that tests understanding of the notes above.
Respond with exactly one JSON object and nothing else: no prose, no markdown fencing.
The object must have this shape:
{"question": "<the question>", "options": ["<option 1>", "<option 2>", "<option 3>", "<option 4>"], "correctIndex": <0-3>, "explanation": "<why the correct option is right>"}`

// PromptAssembler combines persona, resolved context, and the question into
// a generation request. Pure, no I/O.
type PromptAssembler struct {
	persona  string
	triggers []string
}

// NewPromptAssembler creates a PromptAssembler from the chat options.
func NewPromptAssembler(opts *chatopts.Options) *PromptAssembler {
	triggers := make([]string, 0, len(opts.QuizTriggers))
	for _, t := range opts.QuizTriggers {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			triggers = append(triggers, t)
		}
	}
	return &PromptAssembler{
		persona:  opts.PersonaPrompt,
		triggers: triggers,
	}
}

// IsQuizRequest reports whether the question asks for a quiz. Deliberately
// a crude case-insensitive substring match on the configured trigger
// tokens; "explain quizzically" matches too, and that is the documented
// contract, not a bug.
func (p *PromptAssembler) IsQuizRequest(question string) bool {
	q := strings.ToLower(question)
	for _, t := range p.triggers {
		if strings.Contains(q, t) {
			return true
		}
	}
	return false
}

// Assemble builds the generation request for a question and its resolved
// context. Quiz requests get the JSON response-shape contract.
func (p *PromptAssembler) Assemble(resolved *ResolvedContext, question string) *llm.GenerateRequest {
	var sb strings.Builder
	if resolved.Text != "" {
		sb.WriteString("Notes:\n")
		sb.WriteString(resolved.Text)
	} else {
		sb.WriteString("Notes: (none found)")
	}
	sb.WriteString("\n\n")

	req := &llm.GenerateRequest{
		SystemPrompt: p.persona,
	}

	if p.IsQuizRequest(question) {
		sb.WriteString(quizInstruction)
		sb.WriteString(fmt.Sprintf("\n\nRequest: %s", question))
		req.Format = llm.FormatJSON
	} else {
		sb.WriteString(fmt.Sprintf("Question: %s", question))
		req.Format = llm.FormatText
	}

	req.Prompt = sb.String()
	return req
}
