package api

import (
	"encoding/json/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalEnvelope(t *testing.T, status string, v any) map[string]any {
	t.Helper()

	result, err := EnvelopeTransformer(nil, status, v)
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestEnvelope_Success(t *testing.T) {
	out := marshalEnvelope(t, "200", map[string]string{"id": "card-123"})

	assert.Equal(t, float64(1), out["v"])
	assert.Equal(t, true, out["success"])
	assert.Contains(t, out, "data")
	assert.NotContains(t, out, "error")
}

func TestEnvelope_SuccessNilData(t *testing.T) {
	out := marshalEnvelope(t, "204", nil)

	assert.Equal(t, float64(1), out["v"])
	assert.Equal(t, true, out["success"])
	assert.NotContains(t, out, "data")
}

func TestEnvelope_SimpleError(t *testing.T) {
	out := marshalEnvelope(t, "404", &APIError{Message: "Resource not found"})

	assert.Equal(t, float64(1), out["v"])
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Resource not found", out["error"])
	assert.NotContains(t, out, "data")
}

func TestEnvelope_DetailedError(t *testing.T) {
	out := marshalEnvelope(t, "422", &APIError{
		Code:    "EMPTY_BATCH",
		Message: "no valid cards found in the file",
	})

	assert.Equal(t, false, out["success"])

	errObj, ok := out["error"].(map[string]any)
	require.True(t, ok, "detailed errors carry a structured error object")
	assert.Equal(t, "EMPTY_BATCH", errObj["code"])
	assert.Equal(t, "no valid cards found in the file", errObj["message"])
}
