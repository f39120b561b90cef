package detector

import "github.com/cpscan/cpscan/internal/types"

// Accumulator turns the per-line duplicate flags of one file into spans.
//
// It is idle until a duplicate line arrives, then stays in a run until a
// non-duplicate line (or Finish) closes it. A closed run becomes a span
// only when it meets both thresholds.
type Accumulator struct {
	filePath   string
	thresholds types.Thresholds

	line      int
	inRun     bool
	runStart  int
	runEnd    int
	charCount int

	spans []types.DuplicateSpan
}

// NewAccumulator returns an idle accumulator for filePath.
func NewAccumulator(filePath string, thresholds types.Thresholds) *Accumulator {
	return &Accumulator{
		filePath:   filePath,
		thresholds: thresholds,
	}
}

// Feed consumes the next physical line. length is the trimmed line length
// and only counts toward a run when duplicate is true.
func (a *Accumulator) Feed(duplicate bool, length int) {
	a.line++

	if duplicate {
		if !a.inRun {
			a.inRun = true
			a.runStart = a.line
			a.charCount = 0
		}
		a.runEnd = a.line
		a.charCount += length
		return
	}

	a.closeRun()
}

// Finish closes a run still open at end of file and returns every span
// accepted for the file, in line order.
func (a *Accumulator) Finish() []types.DuplicateSpan {
	a.closeRun()
	return a.spans
}

// Line returns the number of physical lines fed so far.
func (a *Accumulator) Line() int {
	return a.line
}

// InRun reports whether a duplicate run is open.
func (a *Accumulator) InRun() bool {
	return a.inRun
}

func (a *Accumulator) closeRun() {
	if !a.inRun {
		return
	}

	length := a.runEnd - a.runStart + 1
	if length >= a.thresholds.MinLines && a.charCount >= a.thresholds.MinChars {
		a.spans = append(a.spans, types.DuplicateSpan{
			FilePath: a.filePath,
			Start:    a.runStart,
			End:      a.runEnd,
		})
	}

	a.charCount = 0
	a.inRun = false
}
