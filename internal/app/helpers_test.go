package app

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/macroport/internal/hcl"
	"github.com/vk/macroport/internal/testutil"
)

// SetupAppTest creates an App over the built-in tables with debug logging
// captured in the returned buffer.
func SetupAppTest(t *testing.T, cfg Config) (*App, *testutil.SafeBuffer) {
	t.Helper()

	cfg.LogLevel = "debug"
	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &testutil.SafeBuffer{}
	testApp, err := NewApp(logBuffer, validated, hcl.NewLoader())
	require.NoError(t, err)
	return testApp, logBuffer
}
