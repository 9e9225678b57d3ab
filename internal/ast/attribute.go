package ast

import (
	"jet/internal/source"
)

// AttrKind is the closed set of declaration modifiers.
type AttrKind uint8

const (
	AttrMetadata AttrKind = iota
	AttrPublic
	AttrPrivate
	AttrProtected
	AttrInternal
	AttrProxy
	AttrFinal
	AttrNative
	AttrStatic
	AttrAbstract
	AttrOverride
)

var attrNames = [...]string{
	AttrMetadata:  "metadata",
	AttrPublic:    "public",
	AttrPrivate:   "private",
	AttrProtected: "protected",
	AttrInternal:  "internal",
	AttrProxy:     "proxy",
	AttrFinal:     "final",
	AttrNative:    "native",
	AttrStatic:    "static",
	AttrAbstract:  "abstract",
	AttrOverride:  "override",
}

func (k AttrKind) String() string {
	if int(k) < len(attrNames) {
		return attrNames[k]
	}
	return "unknown"
}

// IsVisibility reports whether the kind is one of the four visibility levels.
func (k AttrKind) IsVisibility() bool {
	return k >= AttrPublic && k <= AttrInternal
}

// Attribute is one modifier in a declaration's ordered attribute list.
// Metadata attributes reference their raw form by handle.
type Attribute struct {
	Kind     AttrKind    `msgpack:"kind"`
	Span     source.Span `msgpack:"span"`
	Metadata MetadataID  `msgpack:"meta,omitempty"`
}

// Location returns the attribute's source span.
func (a Attribute) Location() source.Span { return a.Span }

func (a Attribute) IsMetadata() bool { return a.Kind == AttrMetadata }

// AttributeFromIdentifier maps a bare identifier token to a non-metadata
// attribute. The token span must be exactly as long as the name, otherwise
// the token carries escapes or a suffix and is not an attribute.
func AttributeFromIdentifier(name string, span source.Span) (Attribute, bool) {
	if int(span.Len()) != len(name) {
		return Attribute{}, false
	}
	for k := AttrPublic; k <= AttrOverride; k++ {
		if attrNames[k] == name {
			return Attribute{Kind: k, Span: span}, true
		}
	}
	return Attribute{}, false
}

// VisibilityOf returns Public inside an interface block; otherwise the first
// visibility attribute in source order, defaulting to Internal.
func VisibilityOf(list []Attribute, atInterfaceBlock bool) Visibility {
	if atInterfaceBlock {
		return VisPublic
	}
	for _, a := range list {
		switch a.Kind {
		case AttrPublic:
			return VisPublic
		case AttrPrivate:
			return VisPrivate
		case AttrProtected:
			return VisProtected
		case AttrInternal:
			return VisInternal
		}
	}
	return VisInternal
}

// HasVisibility reports whether any visibility attribute is present.
func HasVisibility(list []Attribute) bool {
	for _, a := range list {
		if a.Kind.IsVisibility() {
			return true
		}
	}
	return false
}

// IsDuplicateVisibility reports whether attr is a visibility attribute and
// list already holds one, whichever level it is.
func IsDuplicateVisibility(list []Attribute, attr Attribute) bool {
	return attr.Kind.IsVisibility() && HasVisibility(list)
}

// Has reports whether list already holds an attribute of attr's kind.
// Metadata attributes never collide.
func Has(list []Attribute, attr Attribute) bool {
	if attr.Kind == AttrMetadata {
		return false
	}
	_, ok := Find(list, attr.Kind)
	return ok
}

// Find returns the first attribute of the given kind.
func Find(list []Attribute, kind AttrKind) (Attribute, bool) {
	for _, a := range list {
		if a.Kind == kind {
			return a, true
		}
	}
	return Attribute{}, false
}

// FindMetadata returns the metadata handles in source order.
func FindMetadata(list []Attribute) []MetadataID {
	var out []MetadataID
	for _, a := range list {
		if a.Kind == AttrMetadata {
			out = append(out, a.Metadata)
		}
	}
	return out
}

// RemoveMetadata drops the first attribute referencing the given metadata
// handle. Structurally equal metadata under a different handle is kept.
func RemoveMetadata(list []Attribute, id MetadataID) []Attribute {
	for i, a := range list {
		if a.Kind == AttrMetadata && a.Metadata == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
