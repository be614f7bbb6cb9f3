// Package memlayout prepares the linker memory layout for a firmware build.
//
// It copies the memory layout of the selected chip family into the build's
// output directory as memory.x, and emits the build directives that put that
// directory on the linker search path and pass the linker scripts needed for a
// position-controlled image.
package memlayout

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/freemyipod/picodeploy/pkg/chips"
)

var (
	ErrMutuallyExclusive = errors.New("features are mutually exclusive, please enable only one")
	ErrNoneSelected      = errors.New("must enable exactly one chip feature")
)

// Select returns the chip family whose feature is enabled.
func Select(features map[string]bool) (chips.Kind, error) {
	var selected []chips.Description
	for _, d := range chips.Descriptions {
		if features[d.Feature] {
			selected = append(selected, d)
		}
	}
	switch len(selected) {
	case 0:
		return "", fmt.Errorf("%w (one of: %s)", ErrNoneSelected, featureNames(chips.Descriptions))
	case 1:
		return selected[0].Kind, nil
	default:
		return "", fmt.Errorf("%s: %w", featureNames(selected), ErrMutuallyExclusive)
	}
}

func featureNames(descs []chips.Description) string {
	var names []string
	for _, d := range descs {
		names = append(names, "`"+d.Feature+"`")
	}
	return strings.Join(names, ", ")
}

// FeaturesFromEnv reads chip features the way Cargo exposes them to build
// scripts: CARGO_FEATURE_<NAME> is set if and only if the feature is enabled.
func FeaturesFromEnv(lookup func(string) (string, bool)) map[string]bool {
	res := make(map[string]bool)
	for _, d := range chips.Descriptions {
		_, ok := lookup(FeatureEnv(d.Feature))
		res[d.Feature] = ok
	}
	return res
}

// FeatureEnv returns the environment variable signalling feature f.
func FeatureEnv(f string) string {
	return "CARGO_FEATURE_" + strings.ToUpper(strings.ReplaceAll(f, "-", "_"))
}

type Config struct {
	// Features maps chip feature names to whether they're enabled.
	Features map[string]bool
	// SourceDir contains the per-family memory layout files.
	SourceDir string
	// OutDir is the build output directory.
	OutDir string
}

// Validate checks the configuration, reporting all problems at once.
func (c *Config) Validate() (chips.Kind, error) {
	var errs error
	kind, err := Select(c.Features)
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.OutDir == "" {
		errs = multierror.Append(errs, fmt.Errorf("output directory not set"))
	}
	if errs != nil {
		return "", errs
	}
	return kind, nil
}

// Result describes what Configure did.
type Result struct {
	Chip       chips.Kind
	Source     string
	Output     string
	Directives []Directive
}

// Configure copies the selected memory layout into the output directory and
// writes build directives to w.
func Configure(cfg Config, w io.Writer) (*Result, error) {
	kind, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	desc := kind.Description()

	src := filepath.Join(cfg.SourceDir, desc.MemoryLayout)
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", desc.MemoryLayout, err)
	}
	out := filepath.Join(cfg.OutDir, chips.DefaultMemoryLayout)
	if err := os.WriteFile(out, data, 0644); err != nil {
		return nil, fmt.Errorf("could not write %s: %w", chips.DefaultMemoryLayout, err)
	}

	res := &Result{
		Chip:       kind,
		Source:     src,
		Output:     out,
		Directives: Directives(kind, cfg.OutDir),
	}
	for _, d := range res.Directives {
		if _, err := fmt.Fprintln(w, d); err != nil {
			return nil, fmt.Errorf("could not emit directives: %w", err)
		}
	}
	return res, nil
}
