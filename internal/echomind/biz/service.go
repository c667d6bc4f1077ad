package biz

import (
	"context"
	"strings"

	"github.com/kart-io/logger"

	"github.com/N1njakeks/echomind/internal/echomind/metrics"
	"github.com/N1njakeks/echomind/internal/model"
	"github.com/N1njakeks/echomind/internal/pkg/tracing"
	utilerrors "github.com/N1njakeks/echomind/pkg/utils/errors"
)

// ChatService runs the chat pipeline: validate, resolve, assemble,
// generate, respond. The stages are strictly sequential; each stage's
// output feeds the next.
type ChatService struct {
	resolver    *Resolver
	assembler   *PromptAssembler
	interpreter *Interpreter
	cache       *AnswerCache
	metrics     *metrics.ChatMetrics
}

// NewChatService wires the pipeline stages together. cache may be nil.
func NewChatService(resolver *Resolver, assembler *PromptAssembler, interpreter *Interpreter, cache *AnswerCache) *ChatService {
	return &ChatService{
		resolver:    resolver,
		assembler:   assembler,
		interpreter: interpreter,
		cache:       cache,
		metrics:     metrics.Get(),
	}
}

// Chat answers one question against the tenant's notes.
func (s *ChatService) Chat(ctx context.Context, req *model.ChatRequest) (*model.ChatResult, error) {
	result, cacheHit, err := s.chat(ctx, req)
	s.metrics.RecordChat(cacheHit, err)
	return result, err
}

func (s *ChatService) chat(ctx context.Context, req *model.ChatRequest) (*model.ChatResult, bool, error) {
	// Validating. No provider is called for bad input.
	if strings.TrimSpace(req.UserID) == "" {
		return nil, false, utilerrors.ErrTenantRequired
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, false, utilerrors.ErrQueryRequired
	}

	isQuiz := s.assembler.IsQuizRequest(req.Query)

	ctx, span := tracing.StartChatSpan(ctx, req.UserID, isQuiz)
	defer span.End()

	// Quiz answers are intentionally non-deterministic, only plain
	// answers go through the cache.
	if !isQuiz {
		if cached := s.cache.Get(ctx, req.UserID, req.ContextItemID, req.Query); cached != nil {
			return cached, true, nil
		}
	}

	// Resolving.
	resolved, err := s.resolver.Resolve(ctx, req.UserID, req.Query, req.ContextItemID)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, false, err
	}

	logger.Infow("context resolved",
		"tenant_id", req.UserID,
		"source", resolved.Source,
		"context_chars", len(resolved.Text),
		"quiz", isQuiz)

	// Assembling, then Generating.
	genReq := s.assembler.Assemble(resolved, req.Query)
	result, err := s.interpreter.Generate(ctx, genReq)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, false, err
	}

	if !isQuiz {
		s.cache.Set(ctx, req.UserID, req.ContextItemID, req.Query, result)
	}
	return result, false, nil
}
