// Package index counts how often each exact line text has been seen.
package index

import "fmt"

// Counter records line occurrences across a whole run.
//
// Implementations are insert-only and not safe for concurrent use.
type Counter interface {
	// Insert records one occurrence of text and returns its new count.
	Insert(text string) int
	// Count returns the occurrences of text without recording one.
	Count(text string) int
	// Len returns the number of distinct texts recorded.
	Len() int
}

// Kind selects a Counter implementation.
type Kind string

const (
	// KindTrie is the byte-path index.
	KindTrie Kind = "trie"
	// KindTable is the flat map keyed by the full line.
	KindTable Kind = "table"
)

// New returns an empty Counter of the given kind. An empty kind means trie.
func New(kind Kind) (Counter, error) {
	switch kind {
	case KindTrie, "":
		return NewTrie(), nil
	case KindTable:
		return NewTable(), nil
	default:
		return nil, fmt.Errorf("unknown index kind %q (supported: trie, table)", kind)
	}
}
