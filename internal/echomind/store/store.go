// Package store provides tenant-scoped persistence for notes.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/N1njakeks/echomind/internal/model"
	storeopts "github.com/N1njakeks/echomind/pkg/options/store"
)

// ErrNoteNotFound is returned when a note does not exist for the tenant.
// A note belonging to another tenant is indistinguishable from a missing one.
var ErrNoteNotFound = errors.New("note not found")

// NoteStore is the persistence interface for notes. Every operation is
// scoped to one tenant; implementations must never leak notes across
// tenant boundaries.
type NoteStore interface {
	// Insert saves a note. The note's ID must already be set.
	Insert(ctx context.Context, note *model.Note) error

	// GetByID fetches one note. Returns ErrNoteNotFound when the id does
	// not exist under the tenant.
	GetByID(ctx context.Context, tenantID, id string) (*model.Note, error)

	// SimilaritySearch returns up to topK notes of the tenant ordered by
	// cosine similarity against vector, keeping only scores at or above
	// threshold. Notes without embeddings never match.
	SimilaritySearch(ctx context.Context, tenantID string, vector []float32, topK int, threshold float64) ([]*model.ScoredNote, error)

	// List returns all notes of a tenant, newest first.
	List(ctx context.Context, tenantID string) ([]*model.Note, error)

	// Delete removes one note. Returns ErrNoteNotFound when absent.
	Delete(ctx context.Context, tenantID, id string) error

	// SetRead updates the read marker of one note.
	SetRead(ctx context.Context, tenantID, id string, read bool) error

	// Stats summarizes the tenant's notes.
	Stats(ctx context.Context, tenantID string) (*model.ChatStats, error)

	// Close releases the backing connection.
	Close(ctx context.Context) error
}

// New creates the note store selected by the options.
func New(opts *storeopts.Options) (NoteStore, error) {
	switch opts.Driver {
	case storeopts.DriverMilvus:
		return NewMilvusStore(opts)
	case storeopts.DriverMemory:
		return NewMemoryStore(opts.EmbeddingDim), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
