package tracing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracingFile(t *testing.T) {
	location := filepath.Join(t.TempDir(), "spans.json")
	require.NoError(t, Init("ctxsched", "0.0.1", location))

	ctx, parent := StartSpan(context.Background(), "drainer.poll", KindProducer)
	parent.WithAttributes(map[string]string{"policy": "rr"}).WithInt("expect", 4)
	_, child := StartSpan(ctx, "scheduler.poll", KindInternal)
	EndSpan(child, errors.New("device reset"))
	EndSpan(parent, nil)

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Contains(t, string(data), "drainer.poll")
	assert.Contains(t, string(data), "device reset")
}

func TestNilSpan(t *testing.T) {
	var span *Span
	assert.Nil(t, span.WithAttributes(map[string]string{"k": "v"}))
	assert.Nil(t, span.WithInt("k", 1))
	span.SetStatus(nil)
	EndSpan(span, nil)
}
