// memlayout is run as part of a firmware build. It places the memory layout
// of the selected chip family on the linker search path and prints the build
// directives for linking the firmware binaries.
//
// Directives are written to stdout, logs to stderr.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/freemyipod/picodeploy/pkg/chips"
	"github.com/freemyipod/picodeploy/pkg/memlayout"
)

var (
	outDir    string
	sourceDir string
	features  = make(map[string]*bool)
)

var rootCmd = &cobra.Command{
	Use:   "memlayout",
	Short: "Prepare the linker memory layout for an RP2040/RP2350 firmware build",
	Long: `Copies memory_<chip>.x from the project root into the build output directory
as memory.x and prints the directives that put it on the linker search path.

Exactly one chip feature must be enabled. Features default to the
CARGO_FEATURE_* environment, the output directory to $OUT_DIR.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := memlayout.Config{
			Features:  make(map[string]bool),
			SourceDir: sourceDir,
			OutDir:    outDir,
		}
		for name, enabled := range features {
			cfg.Features[name] = *enabled
		}

		res, err := memlayout.Configure(cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		glog.Infof("Copied %s to %s (%s)", res.Source, res.Output, res.Chip)
		return nil
	},
}

func init() {
	flag.Set("logtostderr", "true")
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)

	env := memlayout.FeaturesFromEnv(os.LookupEnv)
	for _, d := range chips.Descriptions {
		features[d.Feature] = rootCmd.Flags().Bool(d.Feature, env[d.Feature], fmt.Sprintf("Build for %s (default from $%s)", d.Kind, memlayout.FeatureEnv(d.Feature)))
	}
	rootCmd.Flags().StringVarP(&outDir, "out-dir", "o", os.Getenv("OUT_DIR"), "Build output directory")
	rootCmd.Flags().StringVarP(&sourceDir, "source-dir", "s", ".", "Directory containing the memory_<chip>.x files")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func main() {
	defer glog.Flush()
	if err := rootCmd.Execute(); err != nil {
		glog.Exitf("memlayout: %v", err)
	}
}
