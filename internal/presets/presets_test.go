package presets

import (
	"testing"

	"github.com/samualtnorman/seroval/internal/compat"
)

func TestLookupKnownPresets(t *testing.T) {
	for _, name := range []string{"es2015", "es2020", "legacy-safari"} {
		mask, err := Lookup(name)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if mask == 0 {
			t.Fatalf("%s: expected a non-empty mask", name)
		}
	}
}

func TestLookupUnknownPresetFails(t *testing.T) {
	if _, err := Lookup("es1999"); err == nil {
		t.Fatalf("expected an error for an unknown preset")
	}
}

func TestEs2015EnablesMapButNotBigInt(t *testing.T) {
	mask, err := Lookup("es2015")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mask.Has(compat.Map) {
		t.Fatalf("expected es2015 to enable Map")
	}
	if mask.Has(compat.BigInt) {
		t.Fatalf("expected es2015 to leave BigInt disabled")
	}
}

func TestLegacySafariDisablesArrowFunction(t *testing.T) {
	mask, err := Lookup("legacy-safari")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mask.Has(compat.ArrowFunction) {
		t.Fatalf("expected legacy-safari to leave ArrowFunction disabled")
	}
}

func TestNamesReturnsAllPresets(t *testing.T) {
	names := Names()
	if len(names) != 3 {
		t.Fatalf("expected 3 presets, got %v", names)
	}
}
