package chips

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/constraints"
)

// Kind is a supported Raspberry Pi microcontroller family.
type Kind string

const (
	RP2040  Kind = "rp2040"
	RP2350A Kind = "rp2350a"
)

// Kinds lists every supported family, in the order they're presented to users.
var Kinds = []Kind{RP2040, RP2350A}

var ErrUnknownKind = errors.New("unknown chip")

func (k Kind) String() string {
	return string(k)
}

// Description returns the deployment and build parameters of a family.
func (k Kind) Description() Description {
	for _, d := range Descriptions {
		if d.Kind == k {
			return d
		}
	}
	panic("unreachable")
}

// Set implements pflag.Value.
func (k *Kind) Set(s string) error {
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Type implements pflag.Value.
func (k *Kind) Type() string {
	return "chip"
}

// Parse returns the Kind named by s. Matching is case-insensitive.
func Parse(s string) (Kind, error) {
	k, ok := byName[strings.ToLower(s)]
	if !ok {
		return "", fmt.Errorf("%w %q, must be one of: %s", ErrUnknownKind, s, Names())
	}
	return k, nil
}

// Names returns the canonical spellings of all families, comma separated.
func Names() string {
	return strings.Join(sortedKeys(byName), ", ")
}

func sortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	res := make([]K, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}

var byName = func() map[string]Kind {
	res := make(map[string]Kind)
	for _, k := range Kinds {
		res[string(k)] = k
	}
	return res
}()

type Description struct {
	Kind Kind
	// ProbeChip is passed to probe-rs as --chip.
	ProbeChip string
	// UF2Family is the UF2 family ID passed to elf2uf2-rs. Zero lets the tool
	// pick its default (RP2040).
	UF2Family uint32
	// Feature is the build feature selecting this family.
	Feature string
	// MemoryLayout is the linker memory layout file in the project root.
	MemoryLayout string
	// ExtraLinkArgs are appended to the common linker arguments.
	ExtraLinkArgs []string
}

var Descriptions = []Description{
	{
		Kind:          RP2040,
		ProbeChip:     "RP2040",
		Feature:       "rp2040",
		MemoryLayout:  "memory_rp2040.x",
		ExtraLinkArgs: []string{"-Tlink-rp.x"},
	},
	{
		Kind:         RP2350A,
		ProbeChip:    "RP2350A",
		UF2Family:    0xe48bff59,
		Feature:      "rp2350",
		MemoryLayout: "memory_rp2350.x",
	},
}

// DefaultMemoryLayout is the family-independent name the selected layout is
// copied to, and the legacy name a project may still carry in its root.
const DefaultMemoryLayout = "memory.x"
