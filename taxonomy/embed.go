package taxonomy

import (
	_ "embed"
)

// defaultDataset is the taxonomy snapshot compiled into the binary, the
// server-side analog of the dataset bundled into the client build. It is the
// last data-bearing fallback when neither the local file nor the object store
// can supply a dataset.
//
//go:embed data/rubros.json
var defaultDataset []byte

// DefaultDataset parses the compiled-in taxonomy snapshot.
func DefaultDataset() (*Dataset, error) {
	return ParseDataset(defaultDataset)
}
