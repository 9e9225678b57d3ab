package source

import (
	"cmp"
	"fmt"
)

// Span is a half-open byte range [Start, End) inside one source file.
// Diagnostics and syntax nodes carry spans; line and column are derived
// on demand through the FileSet.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool { return s.Start == s.End }

func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// A span from another file leaves s unchanged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	s.Start = min(s.Start, other.Start)
	s.End = max(s.End, other.End)
	return s
}

// Within reports whether s lies inside outer, same file included.
func (s Span) Within(outer Span) bool {
	return s.File == outer.File && s.Start >= outer.Start && s.End <= outer.End
}

// Compare orders spans by file, then start, then end.
func (s Span) Compare(other Span) int {
	if c := cmp.Compare(s.File, other.File); c != 0 {
		return c
	}
	if c := cmp.Compare(s.Start, other.Start); c != 0 {
		return c
	}
	return cmp.Compare(s.End, other.End)
}
