package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"empty input", "", ""},
		{"canonical id", "MOD-LEAD", "mod-lead"},
		{"lowercase id unchanged", "mod-lead", "mod-lead"},
		{"role name with spaces", "Service Delivery Manager", "service-delivery-manager"},
		{"composite allocation key", "ALLOCATION#base_123#2025-06#MOD-LEAD", "mod-lead"},
		{"composite key single trailing segment", "BASELINE#TEC-ITSM", "tec-itsm"},
		{"trailing hash yields empty", "ALLOCATION#base#", ""},
		{"no hash passes through pipeline", "TEC_ITSM", "tec-itsm"},
		{"punctuation runs collapse", "Gastos -- de   Servicio!!", "gastos-de-servicio"},
		{"leading trailing junk trimmed", "  ++MOD-OPS++  ", "mod-ops"},
		{"entirely non alphanumeric", "###!!!***", ""},
		{"whitespace only", "   \t  ", ""},
		{"accents become hyphens", "Viáticos", "vi-ticos"},
		{"digits survive", "RB-0001", "rb-0001"},
		{"underscores become hyphens", "base_x_2025", "base-x-2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.raw))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"MOD-LEAD",
		"Service Delivery Manager",
		"ALLOCATION#base_123#2025-06#MOD-LEAD",
		"###",
		"  spaced  out  ",
		"Viáticos",
		"a#b#c#d#e",
		"RB-0001",
		"--already--hyphenated--",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "Normalize must be idempotent for %q", input)
	}
}

// The composite-key extraction once regressed to returning the first segment,
// silently classifying labor allocations as non-labor. The last segment, and
// only the last segment, survives normalization.
func TestNormalizeCompositeKeyExtraction(t *testing.T) {
	key := "ALLOCATION#base_123#2025-06#MOD-LEAD"

	got := Normalize(key)
	assert.Equal(t, Normalize("MOD-LEAD"), got)
	assert.NotEqual(t, "allocation", got)
	assert.NotContains(t, got, "base")
	assert.NotContains(t, got, "2025")
}

func TestNormalizeCaseInsensitive(t *testing.T) {
	assert.Equal(t,
		Normalize("Service Delivery Manager"),
		Normalize("service delivery manager"))
	assert.Equal(t,
		Normalize("MOD-LEAD"),
		Normalize("mod-lead"))
}
