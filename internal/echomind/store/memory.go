package store

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/N1njakeks/echomind/internal/model"
)

var _ NoteStore = (*MemoryStore)(nil)

// MemoryStore keeps notes in process memory with brute-force cosine search.
// Meant for development and tests; data is gone on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	dim   int
	notes map[string]map[string]*model.Note // tenant -> id -> note
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(dim int) *MemoryStore {
	return &MemoryStore{
		dim:   dim,
		notes: make(map[string]map[string]*model.Note),
	}
}

// Insert saves a note.
func (s *MemoryStore) Insert(_ context.Context, note *model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant := s.notes[note.TenantID]
	if tenant == nil {
		tenant = make(map[string]*model.Note)
		s.notes[note.TenantID] = tenant
	}
	cp := *note
	tenant[note.ID] = &cp
	return nil
}

// GetByID fetches one note of a tenant.
func (s *MemoryStore) GetByID(_ context.Context, tenantID, id string) (*model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	note, ok := s.notes[tenantID][id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	cp := *note
	return &cp, nil
}

// SimilaritySearch scans the tenant's notes and ranks them by cosine
// similarity.
func (s *MemoryStore) SimilaritySearch(_ context.Context, tenantID string, vector []float32, topK int, threshold float64) ([]*model.ScoredNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scored := make([]*model.ScoredNote, 0)
	for _, note := range s.notes[tenantID] {
		if !note.HasEmbedding() {
			continue
		}
		score := cosineSimilarity(vector, note.Embedding)
		if float64(score) < threshold {
			continue
		}
		cp := *note
		scored = append(scored, &model.ScoredNote{Note: &cp, Score: score})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// List returns all notes of a tenant, newest first.
func (s *MemoryStore) List(_ context.Context, tenantID string) ([]*model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := make([]*model.Note, 0, len(s.notes[tenantID]))
	for _, note := range s.notes[tenantID] {
		cp := *note
		notes = append(notes, &cp)
	}
	sortNotesByCreatedAtDesc(notes)
	return notes, nil
}

// Delete removes one note of a tenant.
func (s *MemoryStore) Delete(_ context.Context, tenantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[tenantID][id]; !ok {
		return ErrNoteNotFound
	}
	delete(s.notes[tenantID], id)
	return nil
}

// SetRead updates the read marker of one note.
func (s *MemoryStore) SetRead(_ context.Context, tenantID, id string, read bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[tenantID][id]
	if !ok {
		return ErrNoteNotFound
	}
	note.IsRead = read
	return nil
}

// Stats summarizes the tenant's notes.
func (s *MemoryStore) Stats(_ context.Context, tenantID string) (*model.ChatStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &model.ChatStats{}
	for _, note := range s.notes[tenantID] {
		stats.TotalNotes++
		if note.IsRead {
			stats.ReadNotes++
		}
		if note.IsPDF {
			stats.PDFNotes++
		}
		if note.HasEmbedding() {
			stats.WithEmbedding++
		}
	}
	return stats, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(_ context.Context) error {
	return nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
