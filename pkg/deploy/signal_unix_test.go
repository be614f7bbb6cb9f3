//go:build unix

package deploy_test

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/freemyipod/picodeploy/pkg/deploy"
)

func killSelf() {
	syscall.Kill(os.Getpid(), syscall.SIGKILL)
	time.Sleep(time.Minute)
}

func TestExecRunnerSignal(t *testing.T) {
	r := &deploy.ExecRunner{
		Env: []string{"GO_WANT_HELPER_PROCESS=1", "HELPER_SIGNAL=1"},
	}
	got, err := r.Run(helper(deploy.ToolProbe))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != deploy.ExitCodeUnavailable {
		t.Fatalf("got %d, want %d", got, deploy.ExitCodeUnavailable)
	}
}
