package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input), tt.input)
	}
}

func TestNewWithWriterFormats(t *testing.T) {
	tests := []struct {
		name   string
		format string
		check  func(t *testing.T, out string)
	}{
		{
			name:   "json",
			format: "json",
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, `"message":"hello"`)
				assert.Contains(t, out, `"service":"gobudget"`)
			},
		},
		{
			name:   "console",
			format: "console",
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "hello")
				assert.False(t, strings.HasPrefix(out, "{"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(Config{Level: "info", Format: tt.format}, &buf)
			log.Info().Msg("hello")
			tt.check(t, buf.String())
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "warn", Format: "json"}, &buf)

	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(Config{Level: "debug", Format: "json"}, &buf)

	ctx := WithFields(base.WithContext(context.Background()), map[string]string{"request_id": "r-1"})
	zerolog.Ctx(ctx).Info().Msg("scoped")

	assert.Contains(t, buf.String(), `"request_id":"r-1"`)
}
