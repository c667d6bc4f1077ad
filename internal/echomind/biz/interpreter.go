package biz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kart-io/logger"
	"github.com/xeipuuv/gojsonschema"

	"github.com/N1njakeks/echomind/internal/echomind/metrics"
	"github.com/N1njakeks/echomind/internal/model"
	"github.com/N1njakeks/echomind/internal/pkg/tracing"
	"github.com/N1njakeks/echomind/pkg/llm"
	utilerrors "github.com/N1njakeks/echomind/pkg/utils/errors"
	"github.com/N1njakeks/echomind/pkg/utils/json"
)

// quizSchema is the shape contract for structured quiz output.
const quizSchema = `{
	"type": "object",
	"required": ["question", "options", "correctIndex", "explanation"],
	"properties": {
		"question": {"type": "string", "minLength": 1},
		"options": {
			"type": "array",
			"items": {"type": "string"},
			"minItems": 4,
			"maxItems": 4
		},
		"correctIndex": {"type": "integer", "minimum": 0, "maximum": 3},
		"explanation": {"type": "string"}
	}
}`

// Interpreter invokes the generation provider and turns raw completions
// into chat results. Malformed structured output degrades to a text answer
// instead of failing the request.
type Interpreter struct {
	chat    llm.ChatProvider
	schema  *gojsonschema.Schema
	metrics *metrics.ChatMetrics
}

// NewInterpreter creates an Interpreter for the given chat provider.
func NewInterpreter(chat llm.ChatProvider) (*Interpreter, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(quizSchema))
	if err != nil {
		return nil, fmt.Errorf("compile quiz schema: %w", err)
	}
	return &Interpreter{
		chat:    chat,
		schema:  schema,
		metrics: metrics.Get(),
	}, nil
}

// Generate runs the provider call and interprets the completion under the
// request's response-shape contract.
func (it *Interpreter) Generate(ctx context.Context, req *llm.GenerateRequest) (*model.ChatResult, error) {
	ctx, span := tracing.StartGenerationSpan(ctx, it.chat.Name())
	defer span.End()

	start := time.Now()
	resp, err := it.chat.Generate(ctx, req)

	var promptTokens, completionTokens int
	if resp != nil && resp.TokenUsage != nil {
		promptTokens = resp.TokenUsage.PromptTokens
		completionTokens = resp.TokenUsage.CompletionTokens
	}
	it.metrics.RecordGeneration(time.Since(start), promptTokens, completionTokens, err)

	if err != nil {
		tracing.RecordError(span, err)
		return nil, utilerrors.ErrGeneration.WithMessagef("generation provider %s failed", it.chat.Name()).WithCause(err)
	}

	if req.Format != llm.FormatJSON {
		return &model.ChatResult{Answer: resp.Content}, nil
	}

	quiz, err := it.parseQuiz(resp.Content)
	if err != nil {
		// Recovered locally: the caller still gets the raw text.
		logger.Warnw("quiz output malformed, degrading to text answer",
			"provider", it.chat.Name(), "error", err.Error())
		it.metrics.RecordQuiz(true)
		return &model.ChatResult{Answer: resp.Content}, nil
	}

	it.metrics.RecordQuiz(false)
	return &model.ChatResult{Quiz: quiz}, nil
}

// parseQuiz normalizes raw model output and decodes it as a QuizItem.
func (it *Interpreter) parseQuiz(raw string) (*model.QuizItem, error) {
	candidate := extractJSONObject(stripCodeFences(raw))
	if candidate == "" {
		return nil, fmt.Errorf("no JSON object in output")
	}

	result, err := it.schema.Validate(gojsonschema.NewStringLoader(candidate))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("quiz shape violation: %s", schemaErrors(result))
	}

	var quiz model.QuizItem
	if err := json.Unmarshal([]byte(candidate), &quiz); err != nil {
		return nil, fmt.Errorf("decode quiz: %w", err)
	}
	return &quiz, nil
}

// stripCodeFences removes a leading/trailing triple-backtick fence, with
// an optional language tag after the opening fence.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		// Drop the language tag line ("json" etc).
		firstLine := strings.TrimSpace(s[:idx])
		if firstLine == "" || !strings.ContainsAny(firstLine, "{}") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractJSONObject returns the first balanced {...} span in s, so prose
// around the object ("Sure! Here's your quiz: {...}") does not break
// parsing. Brace counting ignores braces inside string literals.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}

func schemaErrors(result *gojsonschema.Result) string {
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return strings.Join(msgs, "; ")
}
