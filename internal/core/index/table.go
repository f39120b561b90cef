package index

// TableIndex is a Counter backed by a map keyed on the whole line.
type TableIndex struct {
	counts map[string]int
}

// NewTable returns an empty TableIndex.
func NewTable() *TableIndex {
	return &TableIndex{counts: make(map[string]int)}
}

// Insert bumps and returns the count for text.
func (t *TableIndex) Insert(text string) int {
	t.counts[text]++
	return t.counts[text]
}

// Count returns the occurrences of text.
func (t *TableIndex) Count(text string) int {
	return t.counts[text]
}

// Len returns the number of distinct lines inserted.
func (t *TableIndex) Len() int {
	return len(t.counts)
}
