package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name string
}

func (s *stubProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
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

func (s *stubProvider) Generate(_ context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	return &GenerateResponse{Content: "ok: " + req.Prompt}, nil
}

func (s *stubProvider) Name() string { return s.name }

func TestRegisterAndNewProvider(t *testing.T) {
	RegisterProvider("stub", func(config map[string]any) (Provider, error) {
		return &stubProvider{name: "stub"}, nil
	})

	assert.True(t, Registered("stub"))

	p, err := NewProvider("stub", nil)
	require.NoError(t, err)
	assert.Equal(t, "stub", p.Name())

	resp, err := p.Generate(context.Background(), &GenerateRequest{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "ok: hello", resp.Content)
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider("does-not-exist", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestNewEmbeddingAndChatProvider(t *testing.T) {
	RegisterProvider("stub2", func(config map[string]any) (Provider, error) {
		return &stubProvider{name: "stub2"}, nil
	})

	ep, err := NewEmbeddingProvider("stub2", nil)
	require.NoError(t, err)
	vec, err := ep.EmbedSingle(context.Background(), "text")
	require.NoError(t, err)
	assert.Len(t, vec, 3)

	cp, err := NewChatProvider("stub2", nil)
	require.NoError(t, err)
	assert.Equal(t, "stub2", cp.Name())
}
