package biz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/N1njakeks/echomind/internal/echomind/store"
	"github.com/N1njakeks/echomind/internal/model"
	utilerrors "github.com/N1njakeks/echomind/pkg/utils/errors"
)

func newTestNoteService(embedder *mockEmbedProvider) (*NoteService, store.NoteStore) {
	s := store.NewMemoryStore(3)
	return NewNoteService(s, embedder), s
}

func boolPtr(v bool) *bool { return &v }

func TestSaveNoteComputesEmbedding(t *testing.T) {
	embedder := &mockEmbedProvider{vec: []float32{1, 0, 0}}
	svc, s := newTestNoteService(embedder)

	note, err := svc.Save(context.Background(), &SaveNoteRequest{
		FullText: "Mitochondria are the powerhouse of the cell.",
		UserID:   "alice",
		Topic:    "Biology",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, embedder.calls)
	assert.NotEmpty(t, note.ID)
	assert.True(t, note.HasEmbedding())

	stored, err := s.GetByID(context.Background(), "alice", note.ID)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0}, stored.Embedding)
}

func TestSaveNoteWithoutEmbedding(t *testing.T) {
	embedder := &mockEmbedProvider{vec: []float32{1, 0, 0}}
	svc, s := newTestNoteService(embedder)

	note, err := svc.Save(context.Background(), &SaveNoteRequest{
		FullText: "Scanned lecture PDF.",
		UserID:   "alice",
		IsPDF:    true,
		Embed:    boolPtr(false),
	})

	require.NoError(t, err)
	assert.Zero(t, embedder.calls)
	assert.False(t, note.HasEmbedding())

	// Still reachable by ID even though search will never surface it.
	stored, err := s.GetByID(context.Background(), "alice", note.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPDF)
}

func TestSaveNoteMissingTenant(t *testing.T) {
	embedder := &mockEmbedProvider{vec: []float32{1, 0, 0}}
	svc, _ := newTestNoteService(embedder)

	_, err := svc.Save(context.Background(), &SaveNoteRequest{FullText: "text"})

	require.Error(t, err)
	assert.ErrorIs(t, err, utilerrors.ErrTenantRequired)
	assert.Equal(t, 401, utilerrors.FromError(err).HTTPStatus())
	assert.Zero(t, embedder.calls)
}

func TestSaveNoteMissingText(t *testing.T) {
	embedder := &mockEmbedProvider{vec: []float32{1, 0, 0}}
	svc, _ := newTestNoteService(embedder)

	_, err := svc.Save(context.Background(), &SaveNoteRequest{UserID: "alice", FullText: "   "})

	require.Error(t, err)
	assert.ErrorIs(t, err, utilerrors.ErrNoteTextRequired)
	assert.Equal(t, 400, utilerrors.FromError(err).HTTPStatus())
}

func TestSaveNoteEmbedderFailure(t *testing.T) {
	embedder := &mockEmbedProvider{err: errors.New("embedding api down")}
	svc, _ := newTestNoteService(embedder)

	_, err := svc.Save(context.Background(), &SaveNoteRequest{
		FullText: "text",
		UserID:   "alice",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, utilerrors.ErrRetrieval)
	assert.Contains(t, utilerrors.FromError(err).Details(), "embedding api down")

	// Nothing was persisted.
	notes, err := svc.List(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestListNotesNewestFirst(t *testing.T) {
	svc, s := newTestNoteService(&mockEmbedProvider{vec: []float32{1, 0, 0}})

	base := time.Now().UTC()
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, s.Insert(context.Background(), &model.Note{
			ID:        id,
			TenantID:  "alice",
			FullText:  "note " + id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	notes, err := svc.List(context.Background(), "alice")

	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "new", notes[0].ID)
	assert.Equal(t, "mid", notes[1].ID)
	assert.Equal(t, "old", notes[2].ID)
}

func TestListNotesMissingTenant(t *testing.T) {
	svc, _ := newTestNoteService(&mockEmbedProvider{vec: []float32{1, 0, 0}})

	_, err := svc.List(context.Background(), "")

	require.Error(t, err)
	assert.ErrorIs(t, err, utilerrors.ErrTenantRequired)
}

func TestDeleteNoteUnknownID(t *testing.T) {
	svc, _ := newTestNoteService(&mockEmbedProvider{vec: []float32{1, 0, 0}})

	err := svc.Delete(context.Background(), "alice", "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, utilerrors.ErrNotFound)
	assert.Equal(t, 404, utilerrors.FromError(err).HTTPStatus())
}

func TestDeleteNoteCrossTenant(t *testing.T) {
	svc, s := newTestNoteService(&mockEmbedProvider{vec: []float32{1, 0, 0}})
	require.NoError(t, s.Insert(context.Background(), &model.Note{
		ID: "n1", TenantID: "alice", FullText: "alice's note", CreatedAt: time.Now().UTC(),
	}))

	err := svc.Delete(context.Background(), "bob", "n1")

	require.Error(t, err)
	assert.ErrorIs(t, err, utilerrors.ErrNotFound)

	// The note survives for its owner.
	_, err = s.GetByID(context.Background(), "alice", "n1")
	require.NoError(t, err)
}

func TestSetReadAndStats(t *testing.T) {
	embedder := &mockEmbedProvider{vec: []float32{1, 0, 0}}
	svc, _ := newTestNoteService(embedder)

	note, err := svc.Save(context.Background(), &SaveNoteRequest{
		FullText: "read me",
		UserID:   "alice",
	})
	require.NoError(t, err)
	_, err = svc.Save(context.Background(), &SaveNoteRequest{
		FullText: "pdf dump",
		UserID:   "alice",
		IsPDF:    true,
		Embed:    boolPtr(false),
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetRead(context.Background(), "alice", note.ID, true))

	stats, err := svc.Stats(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalNotes)
	assert.Equal(t, int64(1), stats.ReadNotes)
	assert.Equal(t, int64(1), stats.PDFNotes)
	assert.Equal(t, int64(1), stats.WithEmbedding)
}

func TestSetReadUnknownID(t *testing.T) {
	svc, _ := newTestNoteService(&mockEmbedProvider{vec: []float32{1, 0, 0}})

	err := svc.SetRead(context.Background(), "alice", "missing", true)

	require.Error(t, err)
	assert.ErrorIs(t, err, utilerrors.ErrNotFound)
}
