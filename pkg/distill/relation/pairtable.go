package relation

// PairTable maps unordered label pairs to a relationship type. Lookups check
// both orders, so adding (A, B) also answers (B, A); new label pairs are
// additive configuration rather than code changes.
type PairTable struct {
	types map[pairKey]string
}

type pairKey struct {
	a, b string
}

// NewPairTable creates an empty pair table.
func NewPairTable() *PairTable {
	return &PairTable{types: make(map[pairKey]string)}
}

// Add registers a relationship type for the label pair.
func (t *PairTable) Add(labelA, labelB, relType string) {
	t.types[pairKey{labelA, labelB}] = relType
}

// Lookup returns the relationship type for the pair, checking (a, b) then
// (b, a).
func (t *PairTable) Lookup(labelA, labelB string) (string, bool) {
	if rel, ok := t.types[pairKey{labelA, labelB}]; ok {
		return rel, true
	}
	rel, ok := t.types[pairKey{labelB, labelA}]
	return rel, ok
}

// Len returns the number of registered pairs.
func (t *PairTable) Len() int {
	return len(t.types)
}

// DefaultPairs returns the pair table for the industrial catalog labels.
func DefaultPairs() *PairTable {
	t := NewPairTable()
	t.Add("PERSONNEL", "EQUIPMENT", "OPERATES")
	t.Add("PERSONNEL", "SAFETY", "FOLLOWS")
	t.Add("EQUIPMENT", "PROCESS", "CONTROLS")
	t.Add("SAFETY", "PROCESS", "PROTECTS")
	t.Add("EQUIPMENT", "EQUIPMENT", "CONNECTS_TO")
	t.Add("PERSONNEL", "PERSONNEL", "REPORTS_TO")
	return t
}
