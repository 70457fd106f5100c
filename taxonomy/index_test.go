package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultIndex(t *testing.T) *AliasIndex {
	t.Helper()
	ds, err := DefaultDataset()
	require.NoError(t, err)
	return BuildIndex(ds)
}

func TestIndexReflexivity(t *testing.T) {
	// Every canonical ID, when normalized, resolves to its own entry.
	idx := defaultIndex(t)
	for _, e := range idx.Entries() {
		got, ok := idx.Lookup(Normalize(e.ID))
		require.True(t, ok, "id %q must self-resolve", e.ID)
		assert.Same(t, e, got)
	}
}

func TestIndexAliasLookup(t *testing.T) {
	idx := defaultIndex(t)

	tests := []struct {
		raw        string
		expectedID string
	}{
		{"Project Manager", "MOD-LEAD"},
		{"project manager", "MOD-LEAD"},
		{"Service Delivery Manager", "MOD-LEAD"},
		{"RB-0001", "MOD-LEAD"},
		{"Senior Engineer", "MOD-ING-SR"},
		{"ITSM Platform", "TEC-ITSM"},
		{"Travel Expenses", "GSV-VIA"},
		{"Data Center", "INF-DC"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			e, ok := idx.Lookup(Normalize(tt.raw))
			require.True(t, ok)
			assert.Equal(t, tt.expectedID, e.ID)
		})
	}
}

func TestIndexLookupMisses(t *testing.T) {
	idx := defaultIndex(t)

	_, ok := idx.Lookup("totally-unknown-xyz")
	assert.False(t, ok)

	_, ok = idx.Lookup("")
	assert.False(t, ok)
}

func TestIndexAliasCollisionFirstWins(t *testing.T) {
	ds := &Dataset{
		Version: "collision",
		Entries: []Entry{
			{ID: "A-1", CategoryCode: "TEC", Aliases: []string{"Shared Name"}},
			{ID: "B-2", CategoryCode: "GSV", Aliases: []string{"Shared Name"}},
		},
	}
	idx := BuildIndex(ds)

	e, ok := idx.Lookup("shared-name")
	require.True(t, ok)
	assert.Equal(t, "A-1", e.ID, "earlier entry in dataset order keeps a contested alias")
}

func TestIndexLaborKeys(t *testing.T) {
	idx := defaultIndex(t)

	tests := []struct {
		token      string
		expectedID string
	}{
		{"mod-lead", "MOD-LEAD"},
		{"project-manager", "MOD-LEAD"},
		{"service-delivery-manager", "MOD-LEAD"},
		{"mod-ing-sr", "MOD-ING-SR"},
		{"senior-engineer", "MOD-ING-SR"},
	}
	for _, tt := range tests {
		id, ok := idx.LaborKey(tt.token)
		require.True(t, ok, "token %q must be a labor key", tt.token)
		assert.Equal(t, tt.expectedID, id)
	}

	// Non-labor tokens are never labor keys
	for _, token := range []string{"tec-itsm", "gsv-via", "inf-dc", "itsm-platform", ""} {
		_, ok := idx.LaborKey(token)
		assert.False(t, ok, "token %q must not be a labor key", token)
	}
}

func TestIndexLaborFloorSurvivesMissingMODRows(t *testing.T) {
	// A dataset missing its MOD rows still classifies canonical labor keys.
	ds := &Dataset{
		Version: "no-labor",
		Entries: []Entry{
			{ID: "TEC-ITSM", Category: "Tecnologia", CategoryCode: "TEC", DisplayName: "Plataforma ITSM"},
		},
	}
	idx := BuildIndex(ds)

	id, ok := idx.LaborKey("mod-lead")
	require.True(t, ok)
	assert.Equal(t, "MOD-LEAD", id)

	id, ok = idx.LaborKey("project-manager")
	require.True(t, ok)
	assert.Equal(t, "MOD-LEAD", id)
}

func TestBuildIndexEmptyAndNil(t *testing.T) {
	for _, idx := range []*AliasIndex{BuildIndex(Empty()), BuildIndex(nil)} {
		assert.Equal(t, 0, idx.Len())
		_, ok := idx.Lookup("mod-lead")
		assert.False(t, ok)
		// Labor floor still present: override correctness beats completeness
		_, ok = idx.LaborKey("mod-lead")
		assert.True(t, ok)
	}
}

func TestIndexEntryTokensPrecomputed(t *testing.T) {
	// The build-time token lists stay aligned with dataset order and match
	// what per-entry normalization would produce, so scans over the index
	// never recompute them.
	idx := defaultIndex(t)

	for i, e := range idx.Entries() {
		tokens := idx.EntryTokens(i)
		assert.Equal(t, e.NormalizedAliases(), tokens, "entry %q tokens", e.ID)
		require.NotEmpty(t, tokens)
		assert.Equal(t, Normalize(e.ID), tokens[0], "entry %q self-token leads", e.ID)
	}
}

func TestIndexByID(t *testing.T) {
	idx := defaultIndex(t)
	e, ok := idx.ByID("MOD-LEAD")
	require.True(t, ok)
	assert.Equal(t, "Service Delivery Manager", e.DisplayName)

	_, ok = idx.ByID("NOPE")
	assert.False(t, ok)
}
