package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tracingopts "github.com/N1njakeks/echomind/pkg/options/tracing"
	"github.com/N1njakeks/echomind/pkg/utils/httpclient"
)

func setupTest(t *testing.T) {
	t.Helper()

	opts := tracingopts.NewOptions()
	opts.Enabled = true
	opts.ExporterType = tracingopts.ExporterNoop

	p, err := Setup(opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, p.Shutdown(context.Background()))
	})
}

func TestSetupInstallsTracerProvider(t *testing.T) {
	setupTest(t)

	ctx, span := StartChatSpan(context.Background(), "alice", false)
	defer span.End()

	require.True(t, span.SpanContext().IsValid())
	assert.True(t, span.SpanContext().IsSampled())
	assert.True(t, span.IsRecording())

	_, child := StartGenerationSpan(ctx, "ollama")
	defer child.End()
	assert.Equal(t, span.SpanContext().TraceID(), child.SpanContext().TraceID())
}

func TestSetupInstallsPropagator(t *testing.T) {
	setupTest(t)

	var gotTraceparent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTraceparent = r.Header.Get("traceparent")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, span := StartChatSpan(context.Background(), "alice", false)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := httpclient.NewClient(0, 0).Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	// W3C trace context reaches the downstream call.
	assert.NotEmpty(t, gotTraceparent)
	assert.Contains(t, gotTraceparent, span.SpanContext().TraceID().String())
}

func TestSetupDisabledIsNoop(t *testing.T) {
	opts := tracingopts.NewOptions()
	opts.Enabled = false

	p, err := Setup(opts)
	require.NoError(t, err)
	assert.NoError(t, p.Shutdown(context.Background()))
}
