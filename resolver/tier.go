package resolver

// Tier tags which resolution strategy produced a result. Tiers are evaluated
// in declaration order and short-circuit on the first hit, so the tag doubles
// as the tie-break record for a resolution.
type Tier int

const (
	// TierStrict is the canonical fast path: exact normalized lookup in the
	// alias index.
	TierStrict Tier = iota

	// TierLaborOverride matches known direct-labor keys and synthesizes a
	// minimal MOD entry. Labor cost lines must never be misclassified as
	// non-labor, even when the full taxonomy entry is missing from the
	// index, so classification correctness outranks display metadata here.
	TierLaborOverride

	// TierTolerant is the substring fallback over all known aliases and
	// descriptions. The only tier with non-constant cost; gated behind the
	// cache so it runs at most once per unique candidate set.
	TierTolerant
)

// String returns the tier name used in logs and metrics labels.
func (t Tier) String() string {
	switch t {
	case TierStrict:
		return "strict"
	case TierLaborOverride:
		return "labor_override"
	case TierTolerant:
		return "tolerant"
	default:
		return "unknown"
	}
}
