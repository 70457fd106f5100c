package resolver

import (
	"github.com/c360/rubro/taxonomy"
)

// Record carries the identifying fields a cost line may arrive with. Source
// records are heterogeneous: baselines send canonical or legacy IDs,
// allocations send composite storage keys, invoices often send only a
// free-text description. Every field is optional.
type Record struct {
	// ID is the (claimed) canonical rubro identifier.
	ID string `json:"id,omitempty"`

	// LegacyID is an identifier from a predecessor system.
	LegacyID string `json:"legacy_id,omitempty"`

	// StorageKey is a composite key whose last '#'-delimited segment is the
	// rubro identifier, e.g. "ALLOCATION#base_123#2025-06#MOD-LEAD".
	StorageKey string `json:"storage_key,omitempty"`

	// Description is a human-readable line-item description, possibly in
	// Spanish or English.
	Description string `json:"description,omitempty"`
}

// Candidates derives the ordered, normalized lookup candidate set for this
// record. Priority order is fixed and is the tie-break contract: ID first,
// then LegacyID, then the storage key's extracted segment, then Description.
// The first candidate that resolves wins. Empty and duplicate tokens are
// dropped.
func (r Record) Candidates() []string {
	raw := [4]string{r.ID, r.LegacyID, r.StorageKey, r.Description}

	seen := make(map[string]struct{}, 4)
	candidates := make([]string, 0, 4)
	for _, field := range raw {
		token := taxonomy.Normalize(field)
		if token == "" {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		candidates = append(candidates, token)
	}
	return candidates
}

// Empty reports whether the record carries no usable identifying field.
func (r Record) Empty() bool {
	return len(r.Candidates()) == 0
}
