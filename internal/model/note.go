// Package model defines the data types shared across the service.
package model

import "time"

// Note is one saved study note. Notes belong to exactly one tenant and are
// never visible across tenant boundaries.
type Note struct {
	// ID is the note identifier, a UUID string.
	ID string `json:"id"`

	// TenantID is the owning user.
	TenantID string `json:"tenant_id"`

	// Topic is the short label shown as the source name in answers.
	Topic string `json:"topic"`

	// FullText is the complete note body.
	FullText string `json:"full_text"`

	// Embedding is the vector for FullText. Nil when the note was saved
	// without an embedding; such notes are skipped by similarity search
	// but stay reachable by ID.
	Embedding []float32 `json:"-"`

	// IsPDF marks notes imported from PDF files.
	IsPDF bool `json:"is_pdf"`

	// IsRead marks notes the user has reviewed.
	IsRead bool `json:"is_read"`

	// CreatedAt is the save time.
	CreatedAt time.Time `json:"created_at"`
}

// HasEmbedding reports whether the note can take part in similarity search.
func (n *Note) HasEmbedding() bool {
	return len(n.Embedding) > 0
}

// ScoredNote is a note plus its similarity score against a query.
type ScoredNote struct {
	Note  *Note
	Score float32
}
