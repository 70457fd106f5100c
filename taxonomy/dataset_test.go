package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/rubro/errors"
)

func TestParseDataset(t *testing.T) {
	data := []byte(`{
		"version": "test-1",
		"entries": [
			{"id": "MOD-LEAD", "category": "Mano de Obra Directa", "category_code": "MOD", "display_name": "Service Delivery Manager", "aliases": ["Project Manager"]},
			{"id": "TEC-ITSM", "category": "Tecnologia", "category_code": "TEC", "display_name": "Plataforma ITSM"}
		]
	}`)

	ds, err := ParseDataset(data)
	require.NoError(t, err)
	assert.Equal(t, "test-1", ds.Version)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, "MOD-LEAD", ds.Entries[0].ID)
	assert.True(t, ds.Entries[0].IsLabor())
	assert.False(t, ds.Entries[1].IsLabor())
}

func TestParseDatasetInvalidJSON(t *testing.T) {
	_, err := ParseDataset([]byte(`{not json`))
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestValidateDuplicateID(t *testing.T) {
	ds := &Dataset{
		Version: "dup",
		Entries: []Entry{
			{ID: "MOD-LEAD", CategoryCode: "MOD"},
			{ID: "MOD-LEAD", CategoryCode: "MOD"},
		},
	}
	err := ds.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
	assert.Contains(t, err.Error(), "MOD-LEAD")
}

func TestValidateEmptyID(t *testing.T) {
	ds := &Dataset{Entries: []Entry{{ID: ""}}}
	err := ds.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestEmptyDataset(t *testing.T) {
	ds := Empty()
	require.NoError(t, ds.Validate())
	assert.Equal(t, 0, ds.Len())
}

func TestDefaultDataset(t *testing.T) {
	ds, err := DefaultDataset()
	require.NoError(t, err)
	assert.NotEmpty(t, ds.Version)
	assert.Greater(t, ds.Len(), 0)

	// The compiled-in snapshot must contain the canonical labor lead
	var found bool
	for _, e := range ds.Entries {
		if e.ID == "MOD-LEAD" {
			found = true
			assert.True(t, e.IsLabor())
			assert.Equal(t, CategoryLabor, e.Category)
		}
	}
	assert.True(t, found, "default dataset must contain MOD-LEAD")
}

func TestNormalizedAliases(t *testing.T) {
	e := Entry{
		ID:           "MOD-LEAD",
		Category:     "Mano de Obra Directa",
		CategoryCode: "MOD",
		DisplayName:  "Service Delivery Manager",
		Aliases:      []string{"Project Manager", "project manager", ""},
	}

	tokens := e.NormalizedAliases()
	require.NotEmpty(t, tokens)
	assert.Equal(t, "mod-lead", tokens[0], "canonical ID token comes first")
	assert.Contains(t, tokens, "service-delivery-manager")
	assert.Contains(t, tokens, "project-manager")
	assert.Contains(t, tokens, "mano-de-obra-directa")

	// Case variants and empties collapse
	count := 0
	for _, token := range tokens {
		if token == "project-manager" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.NotContains(t, tokens, "")
}
