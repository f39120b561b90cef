// Package detector finds runs of repeated source lines.
//
// A Detector owns the run-wide line index, so every file scanned through
// the same Detector is compared against all files scanned before it,
// including itself.
package detector

import (
	"fmt"
	"io"
	"os"

	"github.com/cpscan/cpscan/internal/core/index"
	"github.com/cpscan/cpscan/internal/core/normalizer"
	"github.com/cpscan/cpscan/internal/infra/fs"
	"github.com/cpscan/cpscan/internal/types"
)

// Detector scans files line by line against a shared index.
// It is not safe for concurrent use.
type Detector struct {
	counter    index.Counter
	thresholds types.Thresholds
}

// New returns a Detector using counter as the shared index.
func New(counter index.Counter, thresholds types.Thresholds) *Detector {
	return &Detector{
		counter:    counter,
		thresholds: thresholds,
	}
}

// Thresholds returns the thresholds applied to every file.
func (d *Detector) Thresholds() types.Thresholds {
	return d.thresholds
}

// DistinctLines returns how many distinct line texts have been indexed.
func (d *Detector) DistinctLines() int {
	return d.counter.Len()
}

// ScanReader scans the lines of r as the content of filePath.
//
// Every eligible line is inserted into the index; a line is a duplicate
// when its count after insertion is above one, so the first occurrence of
// a text is never flagged. On a read error the spans of this file are
// dropped and the error is returned. Lines already inserted stay in the
// index.
func (d *Detector) ScanReader(filePath string, r io.Reader) ([]types.DuplicateSpan, types.FileStats, error) {
	return d.scan(filePath, r, func(text string) bool {
		return d.counter.Insert(text) > 1
	})
}

// IndexReader inserts the eligible lines of r without matching. It is the
// first pass of a two-pass run.
func (d *Detector) IndexReader(filePath string, r io.Reader) (types.FileStats, error) {
	_, stats, err := d.scan(filePath, r, func(text string) bool {
		d.counter.Insert(text)
		return false
	})
	return stats, err
}

// MatchReader flags lines whose text occurs more than once in the index
// without inserting anything. It is the second pass of a two-pass run, in
// which first occurrences are reported as well.
func (d *Detector) MatchReader(filePath string, r io.Reader) ([]types.DuplicateSpan, types.FileStats, error) {
	return d.scan(filePath, r, func(text string) bool {
		return d.counter.Count(text) > 1
	})
}

// ScanFile opens filePath and scans it with ScanReader.
func (d *Detector) ScanFile(filePath string) ([]types.DuplicateSpan, types.FileStats, error) {
	f, err := openFile(filePath)
	if err != nil {
		return nil, types.FileStats{}, err
	}
	defer closeQuietly(f)

	return d.ScanReader(filePath, f)
}

// IndexFile opens filePath and indexes it with IndexReader.
func (d *Detector) IndexFile(filePath string) (types.FileStats, error) {
	f, err := openFile(filePath)
	if err != nil {
		return types.FileStats{}, err
	}
	defer closeQuietly(f)

	return d.IndexReader(filePath, f)
}

// MatchFile opens filePath and matches it with MatchReader.
func (d *Detector) MatchFile(filePath string) ([]types.DuplicateSpan, types.FileStats, error) {
	f, err := openFile(filePath)
	if err != nil {
		return nil, types.FileStats{}, err
	}
	defer closeQuietly(f)

	return d.MatchReader(filePath, f)
}

// scan runs the normalizer and accumulator over r. isDuplicate is called
// once per eligible line, in order.
func (d *Detector) scan(filePath string, r io.Reader, isDuplicate func(text string) bool) ([]types.DuplicateSpan, types.FileStats, error) {
	var state normalizer.State
	acc := NewAccumulator(filePath, d.thresholds)

	n, err := fs.EachLine(r, func(raw string) {
		line := state.Next(raw)
		acc.Feed(line.Eligible && isDuplicate(line.Text), len(line.Text))
	})

	stats := types.FileStats{Lines: acc.Line(), Bytes: n}
	if err != nil {
		return nil, stats, fmt.Errorf("read %s: %w", filePath, err)
	}

	return acc.Finish(), stats, nil
}

func openFile(filePath string) (*os.File, error) {
	opened := fs.Open(filePath)
	if opened.IsErr() {
		return nil, fmt.Errorf("open %s: %w", filePath, opened.Error())
	}
	return opened.Unwrap(), nil
}

func closeQuietly(f *os.File) {
	_ = f.Close() // read-only handle
}
