package index

// trieNode owns one child per next byte and the number of times a line
// ended exactly here. Keying by byte keeps lines with invalid UTF-8 apart.
type trieNode struct {
	children   map[byte]*trieNode
	occurrence int
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[byte]*trieNode)}
}

// TrieIndex is a Counter that stores lines as byte paths from a root.
// Lines sharing a prefix share the nodes of that prefix; only the terminal
// node of a line carries its count.
type TrieIndex struct {
	root     *trieNode
	distinct int
}

// NewTrie returns an empty TrieIndex.
func NewTrie() *TrieIndex {
	return &TrieIndex{root: newTrieNode()}
}

// Insert walks text from the root, creating missing nodes, and bumps the
// terminal node's count.
func (t *TrieIndex) Insert(text string) int {
	node := t.root
	for i := 0; i < len(text); i++ {
		next, ok := node.children[text[i]]
		if !ok {
			next = newTrieNode()
			node.children[text[i]] = next
		}
		node = next
	}

	if node.occurrence == 0 {
		t.distinct++
	}
	node.occurrence++
	return node.occurrence
}

// Count returns the occurrences of text.
func (t *TrieIndex) Count(text string) int {
	node := t.root
	for i := 0; i < len(text); i++ {
		next, ok := node.children[text[i]]
		if !ok {
			return 0
		}
		node = next
	}
	return node.occurrence
}

// Len returns the number of distinct lines inserted.
func (t *TrieIndex) Len() int {
	return t.distinct
}
