package json_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/N1njakeks/echomind/pkg/utils/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMarshalUnmarshal(t *testing.T) {
	in := sample{Name: "photosynthesis", Count: 3}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out sample
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestEncoderDecoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(sample{Name: "n", Count: 1}))

	var out sample
	require.NoError(t, json.NewDecoder(strings.NewReader(buf.String())).Decode(&out))
	assert.Equal(t, "n", out.Name)
	assert.Equal(t, 1, out.Count)
}

func TestUnmarshalInvalid(t *testing.T) {
	var out sample
	assert.Error(t, json.Unmarshal([]byte("{not json"), &out))
}
