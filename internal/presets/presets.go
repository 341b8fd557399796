// Package presets loads named feature-gate presets from a bundled
// YAML document, the way davidkellis-able/interpreter10-go loads its
// package.yml manifests with gopkg.in/yaml.v3, so Options.WithPreset
// has a real configuration surface instead of a single hardcoded
// default.
package presets

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/samualtnorman/seroval/internal/compat"
	"github.com/samualtnorman/seroval/internal/logger"
)

//go:embed presets.yaml
var presetsYAML []byte

var featureByName = map[string]compat.Feature{
	"AggregateError":       compat.AggregateError,
	"ArrayPrototypeValues": compat.ArrayPrototypeValues,
	"ArrowFunction":        compat.ArrowFunction,
	"BigInt":               compat.BigInt,
	"ErrorPrototypeStack":  compat.ErrorPrototypeStack,
	"Map":                  compat.Map,
	"MethodShorthand":      compat.MethodShorthand,
	"ObjectAssign":         compat.ObjectAssign,
	"Promise":              compat.Promise,
	"Set":                  compat.Set,
	"Symbol":               compat.Symbol,
	"TypedArray":           compat.TypedArray,
	"BigIntTypedArray":     compat.BigIntTypedArray,
	"WebAPI":               compat.WebAPI,
}

// table is parsed once from the embedded YAML at package init, the
// same way a bundled config file would be parsed once and cached by
// a long-lived service rather than re-read per call.
var table map[string][]string

func init() {
	if err := yaml.Unmarshal(presetsYAML, &table); err != nil {
		panic("presets: malformed embedded presets.yaml: " + err.Error())
	}
}

// Lookup reduces a named preset to a compat.Mask. An unknown name is
// reported the same way the parsers report an unrepresentable input;
// a preset naming a feature absent from featureByName is reported as
// an internal invariant violation, since that can only happen if the
// bundled presets.yaml and featureByName have drifted apart.
func Lookup(name string) (compat.Mask, error) {
	names, ok := table[name]
	if !ok {
		return 0, logger.NewUnsupportedType("preset", fmt.Sprintf("unknown preset %q", name))
	}
	var mask compat.Mask
	for _, n := range names {
		feature, ok := featureByName[n]
		if !ok {
			return 0, logger.NewAssertionFailed(fmt.Sprintf("preset %q names unknown feature %q", name, n))
		}
		mask = mask.With(feature)
	}
	return mask, nil
}

// Names returns the known preset names, for diagnostics and tests.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	return names
}
