package memlayout

import (
	"fmt"

	"github.com/freemyipod/picodeploy/pkg/chips"
)

// Directive is a single instruction to the build system, printed on the build
// script's standard output.
type Directive struct {
	Key   string
	Value string
}

func (d Directive) String() string {
	return fmt.Sprintf("cargo:%s=%s", d.Key, d.Value)
}

const (
	KeyLinkSearch    = "rustc-link-search"
	KeyRerunIfChange = "rerun-if-changed"
	KeyLinkArgBins   = "rustc-link-arg-bins"
)

// Directives returns the directives for building binaries for kind, with the
// memory layout placed in outDir.
func Directives(kind chips.Kind, outDir string) []Directive {
	res := []Directive{
		{KeyLinkSearch, outDir},
		// memory.x is the legacy single-family layout.
		{KeyRerunIfChange, chips.DefaultMemoryLayout},
	}
	for _, d := range chips.Descriptions {
		res = append(res, Directive{KeyRerunIfChange, d.MemoryLayout})
	}

	res = append(res,
		Directive{KeyLinkArgBins, "--nmagic"},
		Directive{KeyLinkArgBins, "-Tlink.x"},
	)
	for _, arg := range kind.Description().ExtraLinkArgs {
		res = append(res, Directive{KeyLinkArgBins, arg})
	}
	res = append(res, Directive{KeyLinkArgBins, "-Tdefmt.x"})
	return res
}
