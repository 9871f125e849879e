package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferLogger(buf *bytes.Buffer) *Logger {
	return New(&Config{Level: "debug", Format: "json", Output: buf, Service: "test"})
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &out))
	return out
}

func TestEntryCarriesContextAndMetricFields(t *testing.T) {
	var buf bytes.Buffer
	ctx := bufferLogger(&buf).WithContext(context.Background())
	ctx = SetSource(ctx, "reddit")

	With(Fields{FieldEndpoint: "https://x.test"}).
		WithCount(3).
		WithStatus("fresh").
		WithDuration(time.Now()).
		Info(ctx, "fetched %d", 3)

	line := lastLine(t, &buf)
	assert.Equal(t, "fetched 3", line["message"])
	assert.Equal(t, "test", line["service"])
	assert.Equal(t, "reddit", line[FieldSource])
	assert.Equal(t, "https://x.test", line[FieldEndpoint])
	assert.Equal(t, float64(3), line[FieldCount])
	assert.Equal(t, "fresh", line[FieldStatus])
	assert.Contains(t, line, FieldDurationMs)
}

func TestEntryWithDoesNotMutateParent(t *testing.T) {
	base := With(Fields{FieldCount: 1})
	_ = base.WithCount(2).WithStatus("x")
	assert.Equal(t, Fields{FieldCount: 1}, base.fields)
}

func TestSetSourceSameValueKeepsContext(t *testing.T) {
	ctx := SetSource(Discard().WithContext(context.Background()), "memeapi")
	assert.Same(t, ctx, SetSource(ctx, "memeapi"))
	assert.NotEqual(t, ctx, SetSource(ctx, "reddit"))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, GetDefault(), FromContext(context.Background()))
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "warn", Output: &buf})
	l.Info("dropped")
	assert.Zero(t, buf.Len())
	l.Warn("kept")
	assert.Equal(t, "kept", lastLine(t, &buf)["message"])
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("LOG_LEVEL", "debug")
	cfg := ConfigFromEnv()
	assert.Equal(t, "debug", cfg.Level)
	assert.Empty(t, cfg.File)

	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_FILE", "/tmp/memeforge.log")
	t.Setenv("LOG_MAX_BACKUPS", "2")
	cfg = ConfigFromEnv()
	assert.Equal(t, "/tmp/memeforge.log", cfg.File)
	assert.Equal(t, 2, cfg.Rotation.MaxBackups)
	assert.Equal(t, 100, cfg.Rotation.MaxSizeMB)
}
