package decl

import (
	"jet/internal/unit"
)

// collectComments records every '#' comment outside of string literals.
func collectComments(u *unit.CompilationUnit, loc *locator) {
	text := loc.text
	inBasic, inLiteral := false, false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '\n':
			inBasic, inLiteral = false, false
		case inBasic:
			if c == '\\' {
				i++
			} else if c == '"' {
				inBasic = false
			}
		case inLiteral:
			if c == '\'' {
				inLiteral = false
			}
		case c == '"':
			inBasic = true
		case c == '\'':
			inLiteral = true
		case c == '#':
			end := i
			for end < len(text) && text[end] != '\n' {
				end++
			}
			u.AddComment(unit.Comment{Span: loc.span(i, end), Content: text[i+1 : end]})
			i = end - 1
		}
	}
}
