package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	testCases := []struct {
		name      string
		level     string
		format    string
		wantDebug bool
		wantInfo  bool
		contains  string
	}{
		{name: "debug text", level: "debug", format: "text", wantDebug: true, wantInfo: true, contains: "level=DEBUG"},
		{name: "warn json", level: "warn", format: "json"},
		{name: "unknown level is info", level: "loud", format: "json", wantInfo: true, contains: `"level":"INFO"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := newLogger(tc.level, tc.format, buf)
			logger.Debug("debug line")
			logger.Info("info line")

			out := buf.String()
			assert.Equal(t, tc.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))
			assert.Equal(t, tc.wantInfo, bytes.Contains(buf.Bytes(), []byte("info line")))
			if tc.contains != "" {
				assert.Contains(t, out, tc.contains)
			}
		})
	}
}

func TestNewLogger_TextOmitsTime(t *testing.T) {
	buf := &bytes.Buffer{}
	newLogger("info", "text", buf).Info("Pipeline started.", "lines", 3)
	assert.Equal(t, "level=INFO msg=\"Pipeline started.\" lines=3\n", buf.String())
}
