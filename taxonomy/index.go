package taxonomy

// canonicalLaborIDs is the compiled-in floor for the labor override: the
// canonical MOD rubros and the role names they answer to. Labor cost lines
// must never be misclassified as non-labor, even when a dataset is missing
// its MOD rows, so these keys resolve as labor regardless of dataset content.
var canonicalLaborIDs = map[string]string{
	"mod-lead":                 "MOD-LEAD",
	"mod-arq":                  "MOD-ARQ",
	"mod-ing-sr":               "MOD-ING-SR",
	"mod-ing-jr":               "MOD-ING-JR",
	"mod-ops":                  "MOD-OPS",
	"service-delivery-manager": "MOD-LEAD",
	"project-manager":          "MOD-LEAD",
	"jefe-de-proyecto":         "MOD-LEAD",
	"mano-de-obra-directa":     "MOD-LEAD",
}

// AliasIndex maps normalized alias tokens to taxonomy entries. It is built
// once from a dataset and is read-only afterwards, so concurrent readers need
// no locking.
type AliasIndex struct {
	version string
	entries []*Entry          // dataset order, for deterministic scans
	tokens  [][]string        // normalized alias tokens, parallel to entries
	byID    map[string]*Entry // canonical ID -> entry
	byAlias map[string]string // normalized token -> canonical ID

	// laborKeys maps normalized tokens of MOD entries (and the compiled-in
	// floor) to a canonical MOD identifier for the labor-override tier.
	laborKeys map[string]string
}

// BuildIndex constructs an AliasIndex from a dataset.
//
// Every entry self-aliases under its normalized canonical ID (reflexivity:
// exact IDs always resolve strictly), its display name, category,
// description and declared aliases. When two entries claim the same token,
// the earlier entry in dataset order keeps it.
func BuildIndex(ds *Dataset) *AliasIndex {
	if ds == nil {
		ds = Empty()
	}

	idx := &AliasIndex{
		version:   ds.Version,
		entries:   make([]*Entry, 0, len(ds.Entries)),
		tokens:    make([][]string, 0, len(ds.Entries)),
		byID:      make(map[string]*Entry, len(ds.Entries)),
		byAlias:   make(map[string]string),
		laborKeys: make(map[string]string, len(canonicalLaborIDs)),
	}

	for i := range ds.Entries {
		e := &ds.Entries[i]
		tokens := e.NormalizedAliases()
		idx.entries = append(idx.entries, e)
		idx.tokens = append(idx.tokens, tokens)
		if _, dup := idx.byID[e.ID]; dup {
			continue // Validate rejects this; keep first on defensive rebuilds
		}
		idx.byID[e.ID] = e

		for _, token := range tokens {
			if _, taken := idx.byAlias[token]; !taken {
				idx.byAlias[token] = e.ID
			}
			if e.IsLabor() {
				if _, taken := idx.laborKeys[token]; !taken {
					idx.laborKeys[token] = e.ID
				}
			}
		}
	}

	// Compiled-in labor floor applies only where the dataset is silent.
	for token, id := range canonicalLaborIDs {
		if _, taken := idx.laborKeys[token]; !taken {
			idx.laborKeys[token] = id
		}
	}

	return idx
}

// Version returns the version of the dataset this index was built from.
func (idx *AliasIndex) Version() string {
	return idx.version
}

// Len returns the number of entries in the index.
func (idx *AliasIndex) Len() int {
	return len(idx.entries)
}

// Entries returns the indexed entries in dataset order. Callers must not
// mutate the returned entries.
func (idx *AliasIndex) Entries() []*Entry {
	return idx.entries
}

// EntryTokens returns the normalized alias tokens of the i'th entry in
// dataset order. Tokens are computed once at build time so full scans never
// re-run normalization.
func (idx *AliasIndex) EntryTokens(i int) []string {
	return idx.tokens[i]
}

// Lookup resolves a normalized token to its taxonomy entry.
func (idx *AliasIndex) Lookup(token string) (*Entry, bool) {
	if token == "" {
		return nil, false
	}
	id, ok := idx.byAlias[token]
	if !ok {
		return nil, false
	}
	e, ok := idx.byID[id]
	return e, ok
}

// ByID returns the entry with the given canonical ID.
func (idx *AliasIndex) ByID(id string) (*Entry, bool) {
	e, ok := idx.byID[id]
	return e, ok
}

// LaborKey reports whether a normalized token names a known direct-labor
// rubro, returning its canonical MOD identifier when it does. This backs the
// labor-override resolution tier.
func (idx *AliasIndex) LaborKey(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	id, ok := idx.laborKeys[token]
	return id, ok
}
