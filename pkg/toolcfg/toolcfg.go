// Package toolcfg loads per-user overrides of the external flashing tools'
// locations.
package toolcfg

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"howett.net/plist"
)

// Tools names the executables used for deployment. Bare names are looked up
// on $PATH.
type Tools struct {
	UF2   string `plist:"UF2Tool"`
	Probe string `plist:"ProbeTool"`
}

var Default = Tools{
	UF2:   "elf2uf2-rs",
	Probe: "probe-rs",
}

// DefaultPath is where the override file is searched for, relative to the XDG
// config directories.
var DefaultPath = filepath.Join("picodeploy", "tools.plist")

// Load returns the tool configuration. If path is empty, the XDG config
// directories are searched and a missing file yields Default.
func Load(path string) (Tools, error) {
	if path == "" {
		found, err := xdg.SearchConfigFile(DefaultPath)
		if err != nil {
			return Default, nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Tools{}, fmt.Errorf("could not read tool config: %w", err)
	}
	res, err := Parse(data)
	if err != nil {
		return Tools{}, fmt.Errorf("could not parse tool config %s: %w", path, err)
	}
	slog.Debug("Using tool config", "path", path, "uf2", res.UF2, "probe", res.Probe)
	return res, nil
}

// Parse decodes a plist override file. Keys that are absent keep their
// default values.
func Parse(data []byte) (Tools, error) {
	res := Default
	if _, err := plist.Unmarshal(data, &res); err != nil {
		return Tools{}, err
	}
	if res.UF2 == "" {
		res.UF2 = Default.UF2
	}
	if res.Probe == "" {
		res.Probe = Default.Probe
	}
	return res, nil
}
