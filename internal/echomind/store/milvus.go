package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"

	"github.com/N1njakeks/echomind/internal/model"
	storeopts "github.com/N1njakeks/echomind/pkg/options/store"
)

var _ NoteStore = (*MilvusStore)(nil)

var noteOutputFields = []string{"id", "tenant_id", "topic", "full_text", "is_pdf", "is_read", "has_embedding", "created_at", "embedding"}

// MilvusStore persists notes in a Milvus collection. Notes saved without an
// embedding get a zero vector and has_embedding=false; similarity search
// filters them out while Query still reaches them by ID.
type MilvusStore struct {
	client     *milvusclient.Client
	collection string
	dim        int
}

// NewMilvusStore connects to Milvus and ensures the note collection exists.
func NewMilvusStore(opts *storeopts.Options) (*MilvusStore, error) {
	if opts.Milvus == nil {
		return nil, fmt.Errorf("milvus options is nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.Milvus.Timeout)
	defer cancel()

	c, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address:  opts.Milvus.Address,
		Username: opts.Milvus.Username,
		Password: opts.Milvus.Password,
		DBName:   opts.Milvus.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus: %w", err)
	}

	s := &MilvusStore{
		client:     c,
		collection: opts.Collection,
		dim:        opts.EmbeddingDim,
	}
	if err := s.ensureCollection(ctx); err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MilvusStore) ensureCollection(ctx context.Context) error {
	exists, err := s.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(s.collection))
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if !exists {
		schema := entity.NewSchema().
			WithName(s.collection).
			WithDescription("tenant-scoped study notes with embeddings")

		schema.WithField(entity.NewField().
			WithName("id").
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(64).
			WithIsPrimaryKey(true))
		schema.WithField(entity.NewField().
			WithName("tenant_id").
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(64))
		schema.WithField(entity.NewField().
			WithName("topic").
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(512))
		schema.WithField(entity.NewField().
			WithName("full_text").
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(65535))
		schema.WithField(entity.NewField().
			WithName("is_pdf").
			WithDataType(entity.FieldTypeBool))
		schema.WithField(entity.NewField().
			WithName("is_read").
			WithDataType(entity.FieldTypeBool))
		schema.WithField(entity.NewField().
			WithName("has_embedding").
			WithDataType(entity.FieldTypeBool))
		schema.WithField(entity.NewField().
			WithName("created_at").
			WithDataType(entity.FieldTypeInt64))
		schema.WithField(entity.NewField().
			WithName("embedding").
			WithDataType(entity.FieldTypeFloatVector).
			WithDim(int64(s.dim)))

		if err := s.client.CreateCollection(ctx, milvusclient.NewCreateCollectionOption(s.collection, schema)); err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}

		idx := index.NewIvfFlatIndex(entity.COSINE, 128)
		createIdxTask, err := s.client.CreateIndex(ctx, milvusclient.NewCreateIndexOption(s.collection, "embedding", idx))
		if err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
		if err := createIdxTask.Await(ctx); err != nil {
			return fmt.Errorf("failed to wait for index creation: %w", err)
		}
	}

	loadTask, err := s.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(s.collection))
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	if err := loadTask.Await(ctx); err != nil {
		return fmt.Errorf("failed to wait for collection loading: %w", err)
	}

	return nil
}

// Insert saves a note.
func (s *MilvusStore) Insert(ctx context.Context, note *model.Note) error {
	embedding := note.Embedding
	if len(embedding) == 0 {
		// Milvus rejects null vectors, store a placeholder and mark it.
		embedding = make([]float32, s.dim)
	}

	columns := []column.Column{
		column.NewColumnVarChar("id", []string{note.ID}),
		column.NewColumnVarChar("tenant_id", []string{note.TenantID}),
		column.NewColumnVarChar("topic", []string{note.Topic}),
		column.NewColumnVarChar("full_text", []string{note.FullText}),
		column.NewColumnBool("is_pdf", []bool{note.IsPDF}),
		column.NewColumnBool("is_read", []bool{note.IsRead}),
		column.NewColumnBool("has_embedding", []bool{note.HasEmbedding()}),
		column.NewColumnInt64("created_at", []int64{note.CreatedAt.Unix()}),
		column.NewColumnFloatVector("embedding", s.dim, [][]float32{embedding}),
	}

	if _, err := s.client.Insert(ctx, milvusclient.NewColumnBasedInsertOption(s.collection, columns...)); err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}

	// Flush so the note is visible to the next query.
	flushTask, err := s.client.Flush(ctx, milvusclient.NewFlushOption(s.collection))
	if err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}
	if err := flushTask.Await(ctx); err != nil {
		return fmt.Errorf("failed to wait for flush: %w", err)
	}

	return nil
}

// GetByID fetches one note of a tenant.
func (s *MilvusStore) GetByID(ctx context.Context, tenantID, id string) (*model.Note, error) {
	expr := fmt.Sprintf(`id == "%s" && tenant_id == "%s"`, escape(id), escape(tenantID))

	rs, err := s.client.Query(ctx, milvusclient.NewQueryOption(s.collection).
		WithFilter(expr).
		WithOutputFields(noteOutputFields...))
	if err != nil {
		return nil, fmt.Errorf("failed to query note: %w", err)
	}

	notes := notesFromColumns(rs.Fields, rs.ResultCount)
	if len(notes) == 0 {
		return nil, ErrNoteNotFound
	}
	return notes[0], nil
}

// SimilaritySearch runs a tenant-scoped vector search.
func (s *MilvusStore) SimilaritySearch(ctx context.Context, tenantID string, vector []float32, topK int, threshold float64) ([]*model.ScoredNote, error) {
	expr := fmt.Sprintf(`tenant_id == "%s" && has_embedding == true`, escape(tenantID))

	results, err := s.client.Search(ctx, milvusclient.NewSearchOption(
		s.collection,
		topK,
		[]entity.Vector{entity.FloatVector(vector)},
	).WithANNSField("embedding").
		WithFilter(expr).
		WithOutputFields(noteOutputFields...))
	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}

	if len(results) == 0 {
		return []*model.ScoredNote{}, nil
	}

	rs := results[0]
	notes := notesFromColumns(rs.Fields, rs.ResultCount)

	scored := make([]*model.ScoredNote, 0, len(notes))
	for i, note := range notes {
		score := rs.Scores[i]
		if float64(score) < threshold {
			continue
		}
		scored = append(scored, &model.ScoredNote{Note: note, Score: score})
	}

	return scored, nil
}

// List returns all notes of a tenant, newest first.
func (s *MilvusStore) List(ctx context.Context, tenantID string) ([]*model.Note, error) {
	expr := fmt.Sprintf(`tenant_id == "%s"`, escape(tenantID))

	rs, err := s.client.Query(ctx, milvusclient.NewQueryOption(s.collection).
		WithFilter(expr).
		WithOutputFields(noteOutputFields...))
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	notes := notesFromColumns(rs.Fields, rs.ResultCount)
	sortNotesByCreatedAtDesc(notes)
	return notes, nil
}

// Delete removes one note of a tenant.
func (s *MilvusStore) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.GetByID(ctx, tenantID, id); err != nil {
		return err
	}

	expr := fmt.Sprintf(`id == "%s" && tenant_id == "%s"`, escape(id), escape(tenantID))
	if _, err := s.client.Delete(ctx, milvusclient.NewDeleteOption(s.collection).WithExpr(expr)); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

// SetRead updates the read marker of one note. Milvus has no partial
// update for scalar fields, so the row is rewritten through Upsert.
func (s *MilvusStore) SetRead(ctx context.Context, tenantID, id string, read bool) error {
	note, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if note.IsRead == read {
		return nil
	}

	embedding := note.Embedding
	if len(embedding) == 0 {
		embedding = make([]float32, s.dim)
	}

	columns := []column.Column{
		column.NewColumnVarChar("id", []string{note.ID}),
		column.NewColumnVarChar("tenant_id", []string{note.TenantID}),
		column.NewColumnVarChar("topic", []string{note.Topic}),
		column.NewColumnVarChar("full_text", []string{note.FullText}),
		column.NewColumnBool("is_pdf", []bool{note.IsPDF}),
		column.NewColumnBool("is_read", []bool{read}),
		column.NewColumnBool("has_embedding", []bool{note.HasEmbedding()}),
		column.NewColumnInt64("created_at", []int64{note.CreatedAt.Unix()}),
		column.NewColumnFloatVector("embedding", s.dim, [][]float32{embedding}),
	}

	if _, err := s.client.Upsert(ctx, milvusclient.NewColumnBasedInsertOption(s.collection, columns...)); err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return nil
}

// Stats summarizes the tenant's notes.
func (s *MilvusStore) Stats(ctx context.Context, tenantID string) (*model.ChatStats, error) {
	notes, err := s.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	stats := &model.ChatStats{TotalNotes: int64(len(notes))}
	for _, note := range notes {
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

// Close closes the Milvus connection.
func (s *MilvusStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

// notesFromColumns decodes query or search result columns into notes.
func notesFromColumns(fields []column.Column, count int) []*model.Note {
	if count <= 0 {
		return nil
	}

	notes := make([]*model.Note, count)
	for i := range notes {
		notes[i] = &model.Note{}
	}

	hasEmbedding := make([]bool, count)
	for _, field := range fields {
		switch col := field.(type) {
		case *column.ColumnVarChar:
			data := col.Data()
			for i := 0; i < count && i < len(data); i++ {
				switch col.Name() {
				case "id":
					notes[i].ID = data[i]
				case "tenant_id":
					notes[i].TenantID = data[i]
				case "topic":
					notes[i].Topic = data[i]
				case "full_text":
					notes[i].FullText = data[i]
				}
			}
		case *column.ColumnBool:
			data := col.Data()
			for i := 0; i < count && i < len(data); i++ {
				switch col.Name() {
				case "is_pdf":
					notes[i].IsPDF = data[i]
				case "is_read":
					notes[i].IsRead = data[i]
				case "has_embedding":
					hasEmbedding[i] = data[i]
				}
			}
		case *column.ColumnInt64:
			if col.Name() != "created_at" {
				continue
			}
			data := col.Data()
			for i := 0; i < count && i < len(data); i++ {
				notes[i].CreatedAt = time.Unix(data[i], 0).UTC()
			}
		case *column.ColumnFloatVector:
			if col.Name() != "embedding" {
				continue
			}
			data := col.Data()
			for i := 0; i < count && i < len(data); i++ {
				notes[i].Embedding = data[i]
			}
		}
	}

	// Rows saved without an embedding hold a zero-vector placeholder;
	// drop it so HasEmbedding reports the truth.
	for i, ok := range hasEmbedding {
		if !ok {
			notes[i].Embedding = nil
		}
	}

	return notes
}

func sortNotesByCreatedAtDesc(notes []*model.Note) {
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
}

// escape neutralizes quotes in values interpolated into filter expressions.
func escape(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}
