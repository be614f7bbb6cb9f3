// Package deploy maps a deployment request onto exactly one invocation of an
// external flashing tool, and runs it.
package deploy

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/freemyipod/picodeploy/pkg/chips"
	"github.com/freemyipod/picodeploy/pkg/toolcfg"
)

type Tool string

const (
	// ToolUF2 converts an ELF to UF2 and copies it to a BOOTSEL mass storage
	// device.
	ToolUF2 Tool = "elf2uf2-rs"
	// ToolProbe loads and runs an ELF through a debug probe.
	ToolProbe Tool = "probe-rs"
)

// Request is a single deployment, built once from command line arguments.
type Request struct {
	Chip     chips.Kind
	ELFPath  string
	UseProbe bool
}

// Invocation is a fully resolved external command line.
type Invocation struct {
	Tool Tool
	// Path is the executable to start, either a bare name looked up on $PATH or
	// a path from the user's tool config.
	Path string
	Args []string
}

func (i Invocation) String() string {
	return strings.Join(append([]string{i.Path}, i.Args...), " ")
}

// Command returns the invocation for a request. Every (chip, probe) pair maps
// to exactly one command line.
func Command(req Request, tools toolcfg.Tools) Invocation {
	desc := req.Chip.Description()
	if req.UseProbe {
		return Invocation{
			Tool: ToolProbe,
			Path: tools.Probe,
			Args: []string{"run", "--chip", desc.ProbeChip, "--", req.ELFPath},
		}
	}

	args := []string{"--deploy"}
	if desc.UF2Family != 0 {
		args = append(args, "--family", fmt.Sprintf("0x%08x", desc.UF2Family))
	}
	args = append(args, "--serial", "--verbose", req.ELFPath)
	return Invocation{
		Tool: ToolUF2,
		Path: tools.UF2,
		Args: args,
	}
}

// Dispatch runs the tool selected for req and returns its exit code. The
// returned error is only ever non-nil if the tool could not be started.
func Dispatch(r Runner, req Request, tools toolcfg.Tools) (int, error) {
	inv := Command(req, tools)
	slog.Debug("Running tool", "chip", req.Chip, "probe", req.UseProbe, "command", inv.String())
	return r.Run(inv)
}
