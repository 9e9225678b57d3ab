package ast

// Visibility describes who may access a declaration.
type Visibility uint8

const (
	VisInternal Visibility = iota
	VisPublic
	VisPrivate
	VisProtected
)

func (v Visibility) String() string {
	switch v {
	case VisPublic:
		return "public"
	case VisPrivate:
		return "private"
	case VisProtected:
		return "protected"
	default:
		return "internal"
	}
}
