package decl

import (
	"regexp"
	"strings"

	"jet/internal/source"
)

// locator maps decoded values back to byte spans in the snapshot text.
// Searches move forward from a caller-provided offset; when a value cannot
// be found the fallback span is returned.
type locator struct {
	file source.FileID
	text string
}

func (l *locator) span(start, end int) source.Span {
	return source.Span{File: l.file, Start: uint32(start), End: uint32(end)} // #nosec G115 -- text size bounded by FileSet
}

// keyValue finds `key = "value"` at or after from and returns the span of
// value without quotes.
func (l *locator) keyValue(from int, key, value string, fallback source.Span) (source.Span, int) {
	if from > len(l.text) {
		return fallback, from
	}
	re := regexp.MustCompile(regexp.QuoteMeta(key) + `\s*=\s*["']` + regexp.QuoteMeta(value) + `["']`)
	loc := re.FindStringIndex(l.text[from:])
	if loc == nil {
		return fallback, from
	}
	end := from + loc[1] - 1
	start := end - len(value)
	return l.span(start, end), end + 1
}

// quoted finds the next "value" or 'value' at or after from.
func (l *locator) quoted(from int, value string, fallback source.Span) (source.Span, int) {
	if from > len(l.text) {
		return fallback, from
	}
	rest := l.text[from:]
	best := -1
	for _, q := range []string{`"`, `'`} {
		if i := strings.Index(rest, q+value+q); i >= 0 && (best < 0 || i < best) {
			best = i
		}
	}
	if best < 0 {
		return fallback, from
	}
	start := from + best + 1
	return l.span(start, start+len(value)), start + len(value) + 1
}

// bare finds `key = literal` for unquoted literals such as booleans.
func (l *locator) bare(from int, key, literal string, fallback source.Span) (source.Span, int) {
	if from > len(l.text) {
		return fallback, from
	}
	re := regexp.MustCompile(regexp.QuoteMeta(key) + `\s*=\s*` + regexp.QuoteMeta(literal) + `\b`)
	loc := re.FindStringIndex(l.text[from:])
	if loc == nil {
		return fallback, from
	}
	end := from + loc[1]
	return l.span(end-len(literal), end), end
}

// section is the byte range owned by one table header up to the next
// header of the same or a higher level.
type section struct {
	start, end int
	inline     bool
}

// sections returns the ranges of every [[name]] header inside [from, to).
// A range ends at the next header whose path does not extend name.
func (l *locator) sections(from, to int, name string) []section {
	if to > len(l.text) {
		to = len(l.text)
	}
	if from >= to {
		return nil
	}
	all := headerRe.FindAllStringSubmatchIndex(l.text[from:to], -1)
	var out []section
	for i, m := range all {
		path := l.text[from+m[2] : from+m[3]]
		if path != name {
			continue
		}
		s := section{start: from + m[0], end: to}
		for _, next := range all[i+1:] {
			nextPath := l.text[from+next[2] : from+next[3]]
			if !strings.HasPrefix(nextPath, name+".") {
				s.end = from + next[0]
				break
			}
		}
		out = append(out, s)
	}
	return out
}

var headerRe = regexp.MustCompile(`(?m)^[ \t]*\[\[[ \t]*([A-Za-z0-9_.]+)[ \t]*\]\]`)

// trimmed returns the section span without trailing whitespace.
func (l *locator) trimmed(s section) source.Span {
	end := s.end
	for end > s.start && strings.ContainsRune(" \t\r\n", rune(l.text[end-1])) {
		end--
	}
	return l.span(s.start, end)
}

// quotedKey finds the first `key =` assignment anywhere in the text.
func (l *locator) quotedKey(key string) (source.Span, bool) {
	re := regexp.MustCompile(`(?m)(^|[\s{,])(` + regexp.QuoteMeta(key) + `)\s*=`)
	m := re.FindStringSubmatchIndex(l.text)
	if m == nil {
		return l.span(0, 0), false
	}
	return l.span(m[4], m[5]), true
}
