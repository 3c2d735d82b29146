package position

import (
	"fmt"
)

// Place is a zero-based line/character pair resolved against some document text.
type Place struct {
	Line      int
	Character int
}

// Range is a half-open [Start, End) byte range in some document text.
type Range struct {
	// Start is the byte offset of the first byte covered by the range
	Start int
	// End is the byte offset one past the last byte covered by the range
	End int
}

func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

// Len returns the number of bytes covered by the range
func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) Empty() bool {
	return r.Len() == 0
}

// Contains reports whether offset falls inside the range. An empty range
// contains only its own start offset.
func (r Range) Contains(offset int) bool {
	if r.Empty() {
		return offset == r.Start
	}
	return offset >= r.Start && offset < r.End
}

func (r Range) OverlapsWith(other Range) bool {
	// Zero-length ranges overlap when they fall within the other range
	if r.Empty() {
		return r.Start >= other.Start && r.Start <= other.End
	}
	if other.Empty() {
		return other.Start >= r.Start && other.Start <= r.End
	}

	// Two ranges overlap if one range's start is before the other range's end
	// AND its end is after the other range's start
	return other.Start < r.End && other.End > r.Start
}

// PlaceOf calculates the zero-based line and character for a byte offset in text
func PlaceOf(text string, offset int) Place {
	if offset <= 0 {
		return Place{}
	}
	if offset > len(text) {
		offset = len(text)
	}

	line := 0
	lastNewline := -1
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			lastNewline = i
		}
	}

	return Place{Line: line, Character: offset - lastNewline - 1}
}

// Resolve converts the byte range into line/character places against text
func (r Range) Resolve(text string) (start, end Place) {
	return PlaceOf(text, r.Start), PlaceOf(text, r.End)
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}
