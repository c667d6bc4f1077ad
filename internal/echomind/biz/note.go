package biz

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kart-io/logger"

	"github.com/N1njakeks/echomind/internal/echomind/store"
	"github.com/N1njakeks/echomind/internal/model"
	"github.com/N1njakeks/echomind/pkg/llm"
	utilerrors "github.com/N1njakeks/echomind/pkg/utils/errors"
)

// SaveNoteRequest is the input for saving a note.
type SaveNoteRequest struct {
	// FullText is the note body. Required.
	FullText string `json:"full_text" binding:"required"`

	// UserID is the owning tenant.
	UserID string `json:"user_id"`

	// Topic is the optional source label.
	Topic string `json:"topic,omitempty"`

	// IsPDF marks PDF imports.
	IsPDF bool `json:"is_pdf,omitempty"`

	// Embed controls whether an embedding is computed at save time.
	// Nil means true; PDF dumps are typically saved without one.
	Embed *bool `json:"embed,omitempty"`
}

// NoteService manages the tenant's note corpus.
type NoteService struct {
	store    store.NoteStore
	embedder llm.EmbeddingProvider
}

// NewNoteService creates a NoteService.
func NewNoteService(s store.NoteStore, embedder llm.EmbeddingProvider) *NoteService {
	return &NoteService{store: s, embedder: embedder}
}

// Save persists a note, computing its embedding first unless disabled.
func (s *NoteService) Save(ctx context.Context, req *SaveNoteRequest) (*model.Note, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, utilerrors.ErrTenantRequired
	}
	if strings.TrimSpace(req.FullText) == "" {
		return nil, utilerrors.ErrNoteTextRequired
	}

	note := &model.Note{
		ID:        uuid.NewString(),
		TenantID:  req.UserID,
		Topic:     req.Topic,
		FullText:  req.FullText,
		IsPDF:     req.IsPDF,
		CreatedAt: time.Now().UTC(),
	}

	if req.Embed == nil || *req.Embed {
		vector, err := s.embedder.EmbedSingle(ctx, req.FullText)
		if err != nil {
			return nil, utilerrors.ErrRetrieval.WithMessagef("embedding provider %s failed", s.embedder.Name()).WithCause(err)
		}
		note.Embedding = vector
	}

	if err := s.store.Insert(ctx, note); err != nil {
		return nil, utilerrors.ErrNoteStore.WithCause(err)
	}

	logger.Infow("note saved",
		"tenant_id", note.TenantID,
		"note_id", note.ID,
		"chars", len(note.FullText),
		"embedded", note.HasEmbedding())
	return note, nil
}

// List returns the tenant's notes, newest first.
func (s *NoteService) List(ctx context.Context, tenantID string) ([]*model.Note, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, utilerrors.ErrTenantRequired
	}

	notes, err := s.store.List(ctx, tenantID)
	if err != nil {
		return nil, utilerrors.ErrNoteStore.WithCause(err)
	}
	return notes, nil
}

// Delete removes one note of a tenant.
func (s *NoteService) Delete(ctx context.Context, tenantID, id string) error {
	if strings.TrimSpace(tenantID) == "" {
		return utilerrors.ErrTenantRequired
	}

	if err := s.store.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			return utilerrors.ErrNotFound.WithMessage("note not found")
		}
		return utilerrors.ErrNoteStore.WithCause(err)
	}
	return nil
}

// SetRead toggles the read marker of one note.
func (s *NoteService) SetRead(ctx context.Context, tenantID, id string, read bool) error {
	if strings.TrimSpace(tenantID) == "" {
		return utilerrors.ErrTenantRequired
	}

	if err := s.store.SetRead(ctx, tenantID, id, read); err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			return utilerrors.ErrNotFound.WithMessage("note not found")
		}
		return utilerrors.ErrNoteStore.WithCause(err)
	}
	return nil
}

// Stats summarizes the tenant's notes.
func (s *NoteService) Stats(ctx context.Context, tenantID string) (*model.ChatStats, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, utilerrors.ErrTenantRequired
	}

	stats, err := s.store.Stats(ctx, tenantID)
	if err != nil {
		return nil, utilerrors.ErrNoteStore.WithCause(err)
	}
	return stats, nil
}
