// Package normalizer prepares physical source lines for duplicate indexing.
//
// Comment handling is a fixed approximation over the C-family markers
// "/*", "*/" and "//" whatever the declared source language is. There is no
// string or escape awareness.
package normalizer

import "strings"

const (
	blockOpen   = "/*"
	blockClose  = "*/"
	lineComment = "//"
)

// Line is a normalized physical line.
type Line struct {
	// Text is the trimmed line.
	Text string
	// InComment is the comment-mode flag to carry into the next line.
	InComment bool
	// Eligible reports whether Text should be inserted into the index.
	Eligible bool
}

// Normalize trims raw and updates the comment-mode flag.
//
// The rules are applied in order and independently of each other:
// a line opening with "/*" enters comment mode even if it also ends with
// "*/", a line ending with "*/" leaves it, and a line opening with "//"
// enters it. Nothing leaves comment mode except a "*/" line, so after a
// "//" line every following line stays commented until a block close is
// seen. That persistence is existing behavior and is pinned by tests.
func Normalize(raw string, inComment bool) Line {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, blockOpen) {
		inComment = true
	}
	if strings.HasSuffix(text, blockClose) {
		inComment = false
	}
	if strings.HasPrefix(text, lineComment) {
		inComment = true
	}

	return Line{
		Text:      text,
		InComment: inComment,
		Eligible:  !inComment && text != "",
	}
}

// State carries the comment-mode flag across the lines of one file.
type State struct {
	inComment bool
}

// Next normalizes raw against the current state and advances it.
func (s *State) Next(raw string) Line {
	line := Normalize(raw, s.inComment)
	s.inComment = line.InComment
	return line
}

// InComment reports the current comment-mode flag.
func (s *State) InComment() bool {
	return s.inComment
}

// Reset clears the state for a new file.
func (s *State) Reset() {
	s.inComment = false
}
