package secrets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_Redaction(t *testing.T) {
	key := NewKey("super-secret")

	assert.True(t, key.IsSet())
	assert.Equal(t, "super-secret", key.Reveal())
	assert.Equal(t, Redacted, key.String())
	assert.Equal(t, Redacted, fmt.Sprintf("%v", key))
	assert.Equal(t, Redacted, fmt.Sprintf("%s", key))
	assert.Equal(t, Redacted, fmt.Sprintf("%#v", key))

	data, err := json.Marshal(struct {
		Key Key `json:"key"`
	}{Key: key})
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"[REDACTED]"}`, string(data))
}

func TestKey_Unset(t *testing.T) {
	key := NewKey("")

	assert.False(t, key.IsSet())
	assert.Empty(t, key.Reveal())
	assert.Empty(t, key.String())
}

func TestKey_LogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("pushing", "key", NewKey("super-secret"))

	assert.Contains(t, buf.String(), "key=[REDACTED]")
	assert.NotContains(t, buf.String(), "super-secret")
}

func TestKey_Clear(t *testing.T) {
	key := NewKey("super-secret")
	shared := key

	key.Clear()

	assert.False(t, key.IsSet())
	assert.Equal(t, "\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00", shared.Reveal())
}
