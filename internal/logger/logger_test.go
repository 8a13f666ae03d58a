package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/palemoky/smart-text-analyzer/pkg/analyzer"
)

func TestResultFields(t *testing.T) {
	result, err := analyzer.Analyze("cat dog bat cat")
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	zap.New(core).Info("analyzed", ResultFields("test", result)...)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "test", fields["source"])
	assert.Equal(t, int64(4), fields["word_count"])
	assert.Equal(t, int64(3), fields["distinct_words"])
	assert.Equal(t, 3.0, fields["average_word_length"])
	assert.Equal(t, []any{"cat", "dog", "bat"}, fields["longest_words"])
}

func TestDefaultInitializesOnce(t *testing.T) {
	first := Default()
	require.NotNil(t, first)
	assert.Same(t, first, Default())

	Init(false)
	assert.Same(t, first, L, "Init must not replace an initialized logger")
}

func TestSetLevel(t *testing.T) {
	Default()
	t.Cleanup(func() { SetLevel(zapcore.DebugLevel) })

	SetLevel(zapcore.WarnLevel)
	assert.False(t, L.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, L.Core().Enabled(zapcore.WarnLevel))

	SetLevel(zapcore.DebugLevel)
	assert.True(t, L.Core().Enabled(zapcore.DebugLevel))
}
