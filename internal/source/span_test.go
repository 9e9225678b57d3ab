package source

import (
	"testing"
)

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want Span
	}{
		{"disjoint", Span{File: 1, Start: 2, End: 4}, Span{File: 1, Start: 8, End: 10}, Span{File: 1, Start: 2, End: 10}},
		{"nested", Span{File: 1, Start: 0, End: 10}, Span{File: 1, Start: 3, End: 4}, Span{File: 1, Start: 0, End: 10}},
		{"other file", Span{File: 1, Start: 5, End: 6}, Span{File: 2, Start: 0, End: 9}, Span{File: 1, Start: 5, End: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.want {
				t.Fatalf("Cover = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpanCompare(t *testing.T) {
	a := Span{File: 0, Start: 5, End: 9}
	b := Span{File: 0, Start: 5, End: 12}
	c := Span{File: 1, Start: 0, End: 1}
	if a.Compare(b) >= 0 || b.Compare(a) <= 0 {
		t.Fatalf("end must break start ties")
	}
	if b.Compare(c) >= 0 {
		t.Fatalf("file must dominate offsets")
	}
	if a.Compare(a) != 0 {
		t.Fatalf("span must compare equal to itself")
	}
}

func TestSpanWithin(t *testing.T) {
	outer := Span{File: 2, Start: 10, End: 40}
	tests := []struct {
		name string
		s    Span
		want bool
	}{
		{"inside", Span{File: 2, Start: 12, End: 20}, true},
		{"same", outer, true},
		{"overlaps end", Span{File: 2, Start: 30, End: 41}, false},
		{"other file", Span{File: 3, Start: 12, End: 20}, false},
	}
	for _, tt := range tests {
		if got := tt.s.Within(outer); got != tt.want {
			t.Fatalf("%s: Within = %v, want %v", tt.name, got, tt.want)
		}
	}
}
