package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kart-io/logger"

	"github.com/N1njakeks/echomind/internal/echomind/biz"
	"github.com/N1njakeks/echomind/internal/echomind/handler"
	"github.com/N1njakeks/echomind/internal/echomind/router"
	"github.com/N1njakeks/echomind/internal/echomind/store"
	"github.com/N1njakeks/echomind/internal/pkg/tracing"
	"github.com/N1njakeks/echomind/pkg/app"
	"github.com/N1njakeks/echomind/pkg/llm"

	// Register the model providers.
	_ "github.com/N1njakeks/echomind/pkg/llm/gemini"
	_ "github.com/N1njakeks/echomind/pkg/llm/ollama"
	_ "github.com/N1njakeks/echomind/pkg/llm/openai"
)

const (
	appName        = "echomind"
	appDescription = `echomind - chat with your notes

A RAG backend that answers questions from a user's stored notes:
  - Tenant-scoped note storage with vector embeddings
  - Semantic similarity retrieval with a configurable threshold
  - Grounded answers and structured multiple-choice quizzes`
)

// NewApp creates the echomind application.
func NewApp() *app.App {
	opts := NewOptions()

	return app.NewApp(
		app.WithName(appName),
		app.WithShortDescription("Chat-with-your-notes backend"),
		app.WithDescription(appDescription),
		app.WithOptions(opts),
		app.WithRunFunc(func() error {
			return Run(opts)
		}),
	)
}

// Run assembles the pipeline and serves HTTP until shutdown.
func Run(opts *Options) error {
	if err := opts.Log.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Infow("starting echomind",
		"store", opts.Store.Driver,
		"embedding", opts.Embedding.Provider,
		"generation", opts.Generation.Provider,
		"tracing", opts.Tracing.Enabled)

	// Installs the global tracer provider and W3C propagator; the span
	// helpers and the provider HTTP client pick them up from there.
	tp, err := tracing.Setup(opts.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warnw("tracer shutdown failed", "error", err.Error())
		}
	}()

	embedder, err := llm.NewEmbeddingProvider(opts.Embedding.Provider, opts.Embedding.ToConfigMap())
	if err != nil {
		return fmt.Errorf("failed to create embedding provider: %w", err)
	}

	chatProvider, err := llm.NewChatProvider(opts.Generation.Provider, opts.Generation.ToConfigMap())
	if err != nil {
		return fmt.Errorf("failed to create generation provider: %w", err)
	}

	noteStore, err := store.New(opts.Store)
	if err != nil {
		return fmt.Errorf("failed to initialize note store: %w", err)
	}
	defer func() {
		if err := noteStore.Close(context.Background()); err != nil {
			logger.Warnw("note store close failed", "error", err.Error())
		}
	}()

	interpreter, err := biz.NewInterpreter(chatProvider)
	if err != nil {
		return err
	}

	cache := biz.NewAnswerCache(opts.Cache)
	defer func() { _ = cache.Close() }()

	chatService := biz.NewChatService(
		biz.NewResolver(noteStore, embedder, opts.Chat),
		biz.NewPromptAssembler(opts.Chat),
		interpreter,
		cache,
	)
	noteService := biz.NewNoteService(noteStore, embedder)

	engine := router.New(
		handler.NewChatHandler(chatService, opts.Chat),
		handler.NewNoteHandler(noteService),
	)

	return NewServer(engine, opts.HTTP).Run()
}
