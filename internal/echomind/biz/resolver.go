// Package biz implements the chat pipeline: context resolution, prompt
// assembly, response interpretation, and the orchestrating services.
package biz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kart-io/logger"

	"github.com/N1njakeks/echomind/internal/echomind/metrics"
	"github.com/N1njakeks/echomind/internal/echomind/store"
	"github.com/N1njakeks/echomind/internal/pkg/tracing"
	"github.com/N1njakeks/echomind/pkg/llm"
	chatopts "github.com/N1njakeks/echomind/pkg/options/chat"
	utilerrors "github.com/N1njakeks/echomind/pkg/utils/errors"
)

// Context sources.
const (
	SourceDocument   = "document"
	SourceSimilarity = "similarity"
	SourceNone       = "none"
)

// contextSeparator joins note blocks inside the assembled context.
const contextSeparator = "\n\n---\n\n"

// ResolvedContext is the grounding text for one request.
type ResolvedContext struct {
	// Source reports how the context was obtained.
	Source string

	// Text is the assembled context, at most CharLimit runes.
	Text string

	// CharLimit is the budget Text was cut to.
	CharLimit int
}

// Resolver turns a question into grounding context. When the request pins
// an explicit note it fetches that single note; otherwise it embeds the
// question and runs a tenant-scoped similarity search.
type Resolver struct {
	store    store.NoteStore
	embedder llm.EmbeddingProvider
	opts     *chatopts.Options
	metrics  *metrics.ChatMetrics
}

// NewResolver creates a Resolver.
func NewResolver(s store.NoteStore, embedder llm.EmbeddingProvider, opts *chatopts.Options) *Resolver {
	return &Resolver{
		store:    s,
		embedder: embedder,
		opts:     opts,
		metrics:  metrics.Get(),
	}
}

// Resolve produces the grounding context for a question. An empty result is
// not an error: a missing pinned note, a cross-tenant note ID, and a search
// with no hits all yield empty context and the pipeline proceeds. Provider
// and store failures surface as retrieval errors instead.
func (r *Resolver) Resolve(ctx context.Context, tenantID, question, explicitNoteID string) (*ResolvedContext, error) {
	start := time.Now()
	resolved, err := r.resolve(ctx, tenantID, question, explicitNoteID)
	r.metrics.RecordRetrieval(time.Since(start), err)
	return resolved, err
}

func (r *Resolver) resolve(ctx context.Context, tenantID, question, explicitNoteID string) (*ResolvedContext, error) {
	if explicitNoteID != "" {
		ctx, span := tracing.StartRetrievalSpan(ctx, SourceDocument)
		defer span.End()
		resolved, err := r.resolveDocument(ctx, tenantID, explicitNoteID)
		tracing.RecordError(span, err)
		return resolved, err
	}

	ctx, span := tracing.StartRetrievalSpan(ctx, SourceSimilarity)
	defer span.End()
	resolved, err := r.resolveSimilarity(ctx, tenantID, question)
	tracing.RecordError(span, err)
	return resolved, err
}

func (r *Resolver) resolveDocument(ctx context.Context, tenantID, noteID string) (*ResolvedContext, error) {
	note, err := r.store.GetByID(ctx, tenantID, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			// Unknown or foreign note ID fails closed to empty context.
			logger.Warnw("pinned note not found, continuing without context",
				"tenant_id", tenantID, "note_id", noteID)
			return r.bounded(SourceNone, ""), nil
		}
		return nil, utilerrors.ErrRetrieval.WithMessagef("note lookup failed").WithCause(err)
	}

	return r.bounded(SourceDocument, noteBlock(note.Topic, note.FullText)), nil
}

func (r *Resolver) resolveSimilarity(ctx context.Context, tenantID, question string) (*ResolvedContext, error) {
	vector, err := r.embedder.EmbedSingle(ctx, question)
	if err != nil {
		return nil, utilerrors.ErrRetrieval.WithMessagef("embedding provider %s failed", r.embedder.Name()).WithCause(err)
	}

	matches, err := r.store.SimilaritySearch(ctx, tenantID, vector, r.opts.TopK, r.opts.SimilarityThreshold)
	if err != nil {
		return nil, utilerrors.ErrRetrieval.WithMessagef("similarity search failed").WithCause(err)
	}

	if len(matches) == 0 {
		return r.bounded(SourceNone, ""), nil
	}

	blocks := make([]string, len(matches))
	for i, m := range matches {
		blocks[i] = noteBlock(m.Note.Topic, m.Note.FullText)
	}

	return r.bounded(SourceSimilarity, strings.Join(blocks, contextSeparator)), nil
}

// bounded applies the hard prefix cut to the context budget.
func (r *Resolver) bounded(source, text string) *ResolvedContext {
	limit := r.opts.ContextCharLimit
	if runes := []rune(text); len(runes) > limit {
		text = string(runes[:limit])
	}
	if text == "" {
		source = SourceNone
	}
	return &ResolvedContext{
		Source:    source,
		Text:      text,
		CharLimit: limit,
	}
}

func noteBlock(topic, fullText string) string {
	if topic == "" {
		topic = "Note"
	}
	return fmt.Sprintf("Source: %s\n%s", topic, fullText)
}
