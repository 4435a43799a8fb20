package testutil

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertLogged checks that the captured log output contains message. Set
// MACROPORT_TEST_LOGS=true to print the full output of the test.
func AssertLogged(t *testing.T, logs *SafeBuffer, message string) {
	t.Helper()

	output := logs.String()
	if os.Getenv("MACROPORT_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), output)
	}
	require.True(t,
		strings.Contains(output, message),
		"expected log message %q was not found in logs", message,
	)
}
