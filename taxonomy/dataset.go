package taxonomy

import (
	"encoding/json"
	"fmt"

	"github.com/c360/rubro/errors"
)

// Dataset is a versioned, ordered collection of taxonomy entries. Order
// matters: it defines the deterministic tie-break for tolerant matching and
// for alias collisions (first entry wins).
type Dataset struct {
	Version string  `json:"version"`
	Entries []Entry `json:"entries"`
}

// ParseDataset decodes and validates a JSON taxonomy dataset.
func ParseDataset(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, errors.WrapInvalid(err, "taxonomy", "ParseDataset", "decode dataset JSON")
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Validate checks dataset-level invariants: every entry has a non-empty ID
// and no two entries share one.
func (ds *Dataset) Validate() error {
	seen := make(map[string]int, len(ds.Entries))
	for i := range ds.Entries {
		e := &ds.Entries[i]
		if e.ID == "" {
			return errors.WrapInvalid(
				fmt.Errorf("entry %d: %w", i, errors.ErrEmptyEntryID),
				"taxonomy", "Validate", "check entry ids")
		}
		if prev, dup := seen[e.ID]; dup {
			return errors.WrapInvalid(
				fmt.Errorf("entries %d and %d share id %q: %w", prev, i, e.ID, errors.ErrDuplicateEntryID),
				"taxonomy", "Validate", "check entry ids")
		}
		seen[e.ID] = i
	}
	return nil
}

// Empty returns a valid dataset with no entries. Used for fail-closed
// degraded mode: every resolution against it returns nothing.
func Empty() *Dataset {
	return &Dataset{Version: "empty"}
}

// Len returns the number of entries in the dataset.
func (ds *Dataset) Len() int {
	return len(ds.Entries)
}
