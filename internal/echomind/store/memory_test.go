package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/N1njakeks/echomind/internal/model"
)

func newTestNote(id, tenant, topic, text string, embedding []float32) *model.Note {
	return &model.Note{
		ID:        id,
		TenantID:  tenant,
		Topic:     topic,
		FullText:  text,
		Embedding: embedding,
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryStoreInsertAndGet(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	note := newTestNote("n1", "alice", "Biology", "Cells are the unit of life.", []float32{1, 0, 0})
	require.NoError(t, s.Insert(ctx, note))

	got, err := s.GetByID(ctx, "alice", "n1")
	require.NoError(t, err)
	assert.Equal(t, "Biology", got.Topic)
	assert.True(t, got.HasEmbedding())

	_, err = s.GetByID(ctx, "alice", "missing")
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestMemoryStoreTenantIsolation(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, newTestNote("n1", "alice", "Biology", "text", []float32{1, 0, 0})))

	// Bob must not see Alice's note, by ID or by search.
	_, err := s.GetByID(ctx, "bob", "n1")
	assert.ErrorIs(t, err, ErrNoteNotFound)

	results, err := s.SimilaritySearch(ctx, "bob", []float32{1, 0, 0}, 5, 0)
	require.NoError(t, err)
	assert.Empty(t, results)

	notes, err := s.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestMemoryStoreSimilaritySearch(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, newTestNote("close", "alice", "A", "a", []float32{1, 0, 0})))
	require.NoError(t, s.Insert(ctx, newTestNote("far", "alice", "B", "b", []float32{0, 1, 0})))
	require.NoError(t, s.Insert(ctx, newTestNote("mid", "alice", "C", "c", []float32{1, 1, 0})))

	results, err := s.SimilaritySearch(ctx, "alice", []float32{1, 0, 0}, 2, 0.1)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "close", results[0].Note.ID)
	assert.Equal(t, "mid", results[1].Note.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestMemoryStoreSimilaritySearchThreshold(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, newTestNote("orthogonal", "alice", "A", "a", []float32{0, 1, 0})))

	results, err := s.SimilaritySearch(ctx, "alice", []float32{1, 0, 0}, 5, 0.25)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryStoreSkipsNotesWithoutEmbedding(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, newTestNote("plain", "alice", "A", "a", nil)))

	results, err := s.SimilaritySearch(ctx, "alice", []float32{1, 0, 0}, 5, 0)
	require.NoError(t, err)
	assert.Empty(t, results)

	// Still reachable by ID.
	got, err := s.GetByID(ctx, "alice", "plain")
	require.NoError(t, err)
	assert.False(t, got.HasEmbedding())
}

func TestMemoryStoreDeleteAndSetRead(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, newTestNote("n1", "alice", "A", "a", nil)))

	require.NoError(t, s.SetRead(ctx, "alice", "n1", true))
	got, err := s.GetByID(ctx, "alice", "n1")
	require.NoError(t, err)
	assert.True(t, got.IsRead)

	assert.ErrorIs(t, s.SetRead(ctx, "bob", "n1", true), ErrNoteNotFound)

	require.NoError(t, s.Delete(ctx, "alice", "n1"))
	assert.ErrorIs(t, s.Delete(ctx, "alice", "n1"), ErrNoteNotFound)
}

func TestMemoryStoreStats(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	n1 := newTestNote("n1", "alice", "A", "a", []float32{1, 0, 0})
	n1.IsRead = true
	n2 := newTestNote("n2", "alice", "B", "b", nil)
	n2.IsPDF = true
	require.NoError(t, s.Insert(ctx, n1))
	require.NoError(t, s.Insert(ctx, n2))

	stats, err := s.Stats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalNotes)
	assert.Equal(t, int64(1), stats.ReadNotes)
	assert.Equal(t, int64(1), stats.PDFNotes)
	assert.Equal(t, int64(1), stats.WithEmbedding)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}
