package vmem

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
	defer SetLogger(nil)

	length := pageLength(t, 1)
	obj, err := Anonymous(int64(length.Int()), false)
	require.NoError(t, err)
	defer obj.Close()

	view, ok := obj.ViewMut(OffsetZero(), length, AccessWrite)
	require.True(t, ok)
	data, err := MapMut(view)
	require.NoError(t, err)
	require.NoError(t, Unmap(data, []Length{length}))

	out := buf.String()
	assert.Contains(t, out, "created anonymous object")
	assert.Contains(t, out, "mapped view")
	assert.Contains(t, out, "unmapped views")
}

func TestNoopLoggerIsDefault(t *testing.T) {
	assert.NotNil(t, logger())
	SetLogger(nil)
	assert.NotNil(t, logger(), "nil restores the discarding default")
}
