// Package taxonomy defines the canonical rubro taxonomy: the immutable set of
// cost-line entries, the alias normalizer, and the alias index used for
// canonical resolution.
//
// A "rubro" is a cost-line identifier in the organization's budgeting
// taxonomy. Heterogeneous identifiers arrive from baselines, allocations and
// invoices (legacy IDs, role names, composite storage keys, Spanish/English
// variants); this package provides the single place where each of them maps
// to one canonical entry.
package taxonomy

// CategoryCodeLabor is the category code whose presence marks a rubro as a
// direct-labor cost line ("Mano de Obra Directa").
const CategoryCodeLabor = "MOD"

// CategoryLabor is the display category for direct-labor entries.
const CategoryLabor = "Mano de Obra Directa"

// Entry is one canonical taxonomy entry. Entries are constructed once from a
// dataset at load time and never mutated afterwards.
type Entry struct {
	// ID is the canonical identifier, e.g. "MOD-LEAD". Unique within a dataset.
	ID string `json:"id"`

	// Category is the display category, e.g. "Mano de Obra Directa".
	Category string `json:"category"`

	// CategoryCode is the short category code, e.g. "MOD".
	CategoryCode string `json:"category_code"`

	// DisplayName is the human-readable line-item name.
	DisplayName string `json:"display_name"`

	// Description is an optional longer description.
	Description string `json:"description,omitempty"`

	// Aliases are alternative identifiers for this entry: legacy IDs, role
	// names, language variants, historical category labels.
	Aliases []string `json:"aliases,omitempty"`
}

// IsLabor reports whether this entry is a direct-labor cost line.
func (e *Entry) IsLabor() bool {
	return e.CategoryCode == CategoryCodeLabor
}

// NormalizedAliases returns every normalized lookup token this entry answers
// to: its canonical ID, category, display name, description and declared
// aliases. Empty tokens are dropped. The canonical ID always comes first, so
// exact IDs win any downstream priority decision.
func (e *Entry) NormalizedAliases() []string {
	raw := make([]string, 0, len(e.Aliases)+4)
	raw = append(raw, e.ID, e.DisplayName, e.Category, e.Description)
	raw = append(raw, e.Aliases...)

	seen := make(map[string]struct{}, len(raw))
	tokens := make([]string, 0, len(raw))
	for _, r := range raw {
		token := Normalize(r)
		if token == "" {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}
