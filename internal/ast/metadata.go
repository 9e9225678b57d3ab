package ast

import (
	"jet/internal/source"
)

// MetaValueKind tags the raw metadata value variants.
type MetaValueKind uint8

const (
	MetaIdentString MetaValueKind = iota
	MetaString
	MetaNumber
	MetaBool
	MetaFile
	MetaList
)

func (k MetaValueKind) String() string {
	switch k {
	case MetaIdentString:
		return "identifier"
	case MetaString:
		return "string"
	case MetaNumber:
		return "number"
	case MetaBool:
		return "boolean"
	case MetaFile:
		return "file"
	case MetaList:
		return "list"
	}
	return "unknown"
}

// UnprocessedMetadata is a metadata annotation exactly as parsed, e.g.
// [Embed(source = file("icon.png"), width = 16)].
type UnprocessedMetadata struct {
	Span     source.Span `msgpack:"span"`
	Name     string      `msgpack:"name"`
	NameSpan source.Span `msgpack:"name_span"`
	// HasEntries distinguishes [Name] from [Name()].
	HasEntries bool                       `msgpack:"has_entries"`
	Entries    []UnprocessedMetadataEntry `msgpack:"entries,omitempty"`
}

type UnprocessedMetadataEntry struct {
	Span    source.Span              `msgpack:"span"`
	HasKey  bool                     `msgpack:"has_key"`
	Key     string                   `msgpack:"key,omitempty"`
	KeySpan source.Span              `msgpack:"key_span"`
	Value   UnprocessedMetadataValue `msgpack:"value"`
}

// UnprocessedMetadataValue is a tagged union; only the fields of Kind are meaningful.
//
//	MetaIdentString, MetaString: Text
//	MetaNumber: Text, the literal as written, possibly with a leading '-'
//	MetaBool: Bool
//	MetaFile: Text is the referenced path, Output selects the output directory
//	MetaList: List
type UnprocessedMetadataValue struct {
	Kind   MetaValueKind              `msgpack:"kind"`
	Span   source.Span                `msgpack:"span"`
	Text   string                     `msgpack:"text,omitempty"`
	Bool   bool                       `msgpack:"bool,omitempty"`
	Output bool                       `msgpack:"output,omitempty"`
	List   []UnprocessedMetadataEntry `msgpack:"list,omitempty"`
}

// Location returns the value span.
func (v *UnprocessedMetadataValue) Location() source.Span { return v.Span }

type Metadatas struct{ *Arena[MetadataID, UnprocessedMetadata] }

func NewMetadatas(capHint uint) *Metadatas {
	return &Metadatas{NewArena[MetadataID, UnprocessedMetadata](capHint)}
}

func (m *Metadatas) New(md UnprocessedMetadata) MetadataID { return m.Allocate(md) }
