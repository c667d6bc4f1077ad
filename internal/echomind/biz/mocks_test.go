package biz

import (
	"context"

	"github.com/N1njakeks/echomind/pkg/llm"
)

type mockEmbedProvider struct {
	vec   []float32
	err   error
	calls int
}

func (m *mockEmbedProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = m.vec
	}
	return out, nil
}

func (m *mockEmbedProvider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbedProvider) Name() string { return "mock-embed" }

type mockChatProvider struct {
	content string
	err     error
	calls   int
	lastReq *llm.GenerateRequest
}

func (m *mockChatProvider) Generate(_ context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerateResponse{Content: m.content}, nil
}

func (m *mockChatProvider) Name() string { return "mock-chat" }
