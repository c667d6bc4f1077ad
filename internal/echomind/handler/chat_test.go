package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/N1njakeks/echomind/internal/echomind/biz"
	"github.com/N1njakeks/echomind/internal/echomind/store"
	"github.com/N1njakeks/echomind/internal/model"
	"github.com/N1njakeks/echomind/pkg/llm"
	chatopts "github.com/N1njakeks/echomind/pkg/options/chat"
)

type stubProvider struct {
	content  string
	embedErr error
	chatErr  error
}

func (s *stubProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (s *stubProvider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (s *stubProvider) Generate(_ context.Context, _ *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	if s.chatErr != nil {
		return nil, s.chatErr
	}
	return &llm.GenerateResponse{Content: s.content}, nil
}

func (s *stubProvider) Name() string { return "stub" }

func newTestRouter(t *testing.T, provider *stubProvider, seed ...*model.Note) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := store.NewMemoryStore(3)
	for _, note := range seed {
		require.NoError(t, s.Insert(context.Background(), note))
	}

	opts := chatopts.NewOptions()
	interpreter, err := biz.NewInterpreter(provider)
	require.NoError(t, err)

	service := biz.NewChatService(
		biz.NewResolver(s, provider, opts),
		biz.NewPromptAssembler(opts),
		interpreter,
		nil,
	)
	h := NewChatHandler(service, opts)

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.POST("/v1/chat", h.Chat)
	return engine
}

func doChat(engine *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestChatAnswerEnvelope(t *testing.T) {
	engine := newTestRouter(t, &stubProvider{content: "Grounded answer."}, &model.Note{
		ID: "n1", TenantID: "alice", Topic: "Biology",
		FullText: "Cells divide.", Embedding: []float32{1, 0, 0},
		CreatedAt: time.Now().UTC(),
	})

	w := doChat(engine, `{"query":"how do cells divide?","user_id":"alice"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Grounded answer.", resp["answer"])
	assert.NotContains(t, resp, "quizJSON")
}

func TestChatQuizEnvelope(t *testing.T) {
	quiz := `{"question":"Q","options":["A","B","C","D"],"correctIndex":1,"explanation":"E"}`
	engine := newTestRouter(t, &stubProvider{content: quiz})

	w := doChat(engine, `{"query":"quiz me","user_id":"alice"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Quiz *model.QuizItem `json:"quizJSON"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Quiz)
	assert.Equal(t, "Q", resp.Quiz.Question)
	assert.Equal(t, 1, resp.Quiz.CorrectIndex)
}

func TestChatMissingQuery(t *testing.T) {
	engine := newTestRouter(t, &stubProvider{content: "x"})

	w := doChat(engine, `{"user_id":"alice"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "message")
}

func TestChatMissingTenantAndQuery(t *testing.T) {
	engine := newTestRouter(t, &stubProvider{content: "x"})

	// The tenant check runs before the query check.
	w := doChat(engine, `{}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChatMissingTenant(t *testing.T) {
	engine := newTestRouter(t, &stubProvider{content: "x"})

	w := doChat(engine, `{"query":"hello"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChatProviderFailure(t *testing.T) {
	engine := newTestRouter(t, &stubProvider{chatErr: errors.New("llm down")})

	w := doChat(engine, `{"query":"hello","user_id":"alice"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["message"])
	assert.Contains(t, resp["details"], "llm down")
	// Never an empty success on failure.
	assert.NotContains(t, w.Body.String(), `"answer"`)
}

func TestChatEmbedderFailure(t *testing.T) {
	engine := newTestRouter(t, &stubProvider{embedErr: errors.New("embed down")})

	w := doChat(engine, `{"query":"hello","user_id":"alice"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "embed down")
}

func TestChatWrongMethod(t *testing.T) {
	engine := newTestRouter(t, &stubProvider{content: "x"})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "method not allowed"})
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/chat", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
