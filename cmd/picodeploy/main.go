package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/freemyipod/picodeploy/pkg/chips"
	"github.com/freemyipod/picodeploy/pkg/deploy"
	"github.com/freemyipod/picodeploy/pkg/toolcfg"
)

const (
	exitFailure      = 1
	exitUsage        = 2
	exitSpawnFailure = 127
)

type dispatcher struct {
	runner deploy.Runner

	chip        chips.Kind
	useProbe    bool
	verbose     bool
	toolsConfig string

	// ran is set once argument validation passed and RunE started.
	ran  bool
	code int
}

func (d *dispatcher) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "picodeploy --chip CHIP [--use-probe] ELF",
		Short: "picodeploy flashes a firmware ELF onto an RP2040/RP2350 board",
		Long: `Deploys an ELF binary to a Raspberry Pi microcontroller, either by converting
it to UF2 and copying it onto a board in BOOTSEL mode (elf2uf2-rs), or by
loading it through a debug probe (probe-rs).

The exit code is the one of the flashing tool.`,
		Args: cobra.ExactArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if d.verbose {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			d.ran = true
			cmd.SilenceUsage = true

			tools, err := toolcfg.Load(d.toolsConfig)
			if err != nil {
				return err
			}
			d.code, err = deploy.Dispatch(d.runner, deploy.Request{
				Chip:     d.chip,
				ELFPath:  args[0],
				UseProbe: d.useProbe,
			}, tools)
			return err
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.Flags().VarP(&d.chip, "chip", "c", "Target chip (one of: "+chips.Names()+")")
	cmd.MarkFlagRequired("chip")
	cmd.Flags().BoolVarP(&d.useProbe, "use-probe", "p", false, "Flash and run through a debug probe (probe-rs) instead of UF2 (elf2uf2-rs)")
	cmd.Flags().StringVar(&d.toolsConfig, "tools-config", "", "Path to tool override plist (default: "+toolcfg.DefaultPath+" in the XDG config directories)")
	cmd.PersistentFlags().BoolVarP(&d.verbose, "verbose", "v", false, "Enable verbose debug logging")
	return cmd
}

// execute runs cmd and maps its outcome to a process exit code.
func (d *dispatcher) execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	switch {
	case err == nil:
		return d.code
	case !d.ran:
		return exitUsage
	}
	var se *deploy.SpawnError
	if errors.As(err, &se) {
		return exitSpawnFailure
	}
	return exitFailure
}

func main() {
	d := &dispatcher{runner: &deploy.ExecRunner{}}
	os.Exit(d.execute(d.command()))
}
