package tools

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRun_CapturesOutput(t *testing.T) {
	requireShell(t)

	out, err := NewCommandRunner(t.TempDir(), "EASY11_MARK=ok").Run(context.Background(), "sh", "-c", "echo $EASY11_MARK; pwd >/dev/null")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)
}

func TestRun_NonZeroExit(t *testing.T) {
	requireShell(t)

	out, err := NewCommandRunner("").Run(context.Background(), "sh", "-c", "echo failing >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, out, "failing")
	assert.Contains(t, err.Error(), "exit status 3")
}

func TestRun_MissingBinary(t *testing.T) {
	_, err := NewCommandRunner("").Run(context.Background(), "definitely-not-a-real-binary-easy11")
	assert.Error(t, err)
}
