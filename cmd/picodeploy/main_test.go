package main

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/freemyipod/picodeploy/pkg/deploy"
	"github.com/freemyipod/picodeploy/pkg/deploy/mocks"
)

const defaultTools = `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0">
<dict>
	<key>UF2Tool</key>
	<string>elf2uf2-rs</string>
	<key>ProbeTool</key>
	<string>probe-rs</string>
</dict>
</plist>
`

func toolsConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tools.plist")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func run(r deploy.Runner, args ...string) int {
	d := &dispatcher{runner: r}
	cmd := d.command()
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return d.execute(cmd)
}

func TestDispatch(t *testing.T) {
	cfg := toolsConfig(t, defaultTools)
	for _, test := range []struct {
		args []string
		want deploy.Invocation
	}{
		{[]string{"--chip", "rp2040", "fw.elf"}, deploy.Invocation{
			Tool: deploy.ToolUF2, Path: "elf2uf2-rs",
			Args: []string{"--deploy", "--serial", "--verbose", "fw.elf"},
		}},
		{[]string{"--chip", "rp2040", "--use-probe", "fw.elf"}, deploy.Invocation{
			Tool: deploy.ToolProbe, Path: "probe-rs",
			Args: []string{"run", "--chip", "RP2040", "--", "fw.elf"},
		}},
		{[]string{"--chip=rp2350a", "fw.elf"}, deploy.Invocation{
			Tool: deploy.ToolUF2, Path: "elf2uf2-rs",
			Args: []string{"--deploy", "--family", "0xe48bff59", "--serial", "--verbose", "fw.elf"},
		}},
		{[]string{"-c", "RP2350A", "-p", "fw.elf"}, deploy.Invocation{
			Tool: deploy.ToolProbe, Path: "probe-rs",
			Args: []string{"run", "--chip", "RP2350A", "--", "fw.elf"},
		}},
	} {
		ctrl := gomock.NewController(t)
		runner := mocks.NewMockRunner(ctrl)
		runner.EXPECT().Run(test.want).Return(3, nil)

		args := append([]string{"--tools-config", cfg}, test.args...)
		if code := run(runner, args...); code != 3 {
			t.Errorf("%v: exit code %d, want 3", test.args, code)
		}
		ctrl.Finish()
	}
}

func TestUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{"fw.elf"},
		{"--chip", "esp32", "fw.elf"},
		{"--chip", "rp2040"},
		{"--chip", "rp2040", "a.elf", "b.elf"},
		{"--chip", "rp2040", "--no-such-flag", "fw.elf"},
	} {
		ctrl := gomock.NewController(t)
		runner := mocks.NewMockRunner(ctrl)

		if code := run(runner, args...); code != exitUsage {
			t.Errorf("%v: exit code %d, want %d", args, code, exitUsage)
		}
		ctrl.Finish()
	}
}

func TestSpawnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Run(gomock.Any()).Return(0, &deploy.SpawnError{
		Tool: deploy.ToolUF2,
		Path: "elf2uf2-rs",
		Err:  exec.ErrNotFound,
	})

	code := run(runner, "--tools-config", toolsConfig(t, defaultTools), "--chip", "rp2040", "fw.elf")
	if code != exitSpawnFailure {
		t.Fatalf("exit code %d, want %d", code, exitSpawnFailure)
	}
}

func TestMissingToolEndToEnd(t *testing.T) {
	cfg := toolsConfig(t, `<plist version="1.0"><dict>
<key>ProbeTool</key><string>picodeploy-test-no-such-probe</string>
</dict></plist>`)

	code := run(&deploy.ExecRunner{}, "--tools-config", cfg, "--chip", "rp2350a", "--use-probe", "fw.elf")
	if code != exitSpawnFailure {
		t.Fatalf("exit code %d, want %d", code, exitSpawnFailure)
	}
}

func TestBadToolsConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockRunner(ctrl)
	code := run(runner, "--tools-config", filepath.Join(t.TempDir(), "missing.plist"), "--chip", "rp2040", "fw.elf")
	if code != exitFailure {
		t.Fatalf("exit code %d, want %d", code, exitFailure)
	}
}
