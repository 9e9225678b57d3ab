// Package meta resolves raw metadata annotations into typed values.
package meta

// ValueKind tags processed metadata values.
type ValueKind uint8

const (
	ValueString ValueKind = iota
	ValueNumber
	ValueBool
	ValueFile
	ValueList
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueBool:
		return "boolean"
	case ValueFile:
		return "file"
	case ValueList:
		return "list"
	}
	return "unknown"
}

// Metadata is a processed annotation. Entries that failed to resolve are absent.
type Metadata struct {
	Name    string  `msgpack:"name" json:"name"`
	Entries []Entry `msgpack:"entries" json:"entries"`
}

type Entry struct {
	HasKey bool   `msgpack:"has_key" json:"-"`
	Key    string `msgpack:"key,omitempty" json:"key,omitempty"`
	Value  Value  `msgpack:"value" json:"value"`
}

// Value is a tagged union; only the fields of Kind are meaningful.
// Identifier strings and plain strings both become ValueString.
type Value struct {
	Kind     ValueKind `msgpack:"kind" json:"kind"`
	String   string    `msgpack:"str,omitempty" json:"string,omitempty"`
	Number   float64   `msgpack:"num,omitempty" json:"number,omitempty"`
	Bool     bool      `msgpack:"bool,omitempty" json:"bool,omitempty"`
	Filename string    `msgpack:"filename,omitempty" json:"filename,omitempty"`
	Data     []byte    `msgpack:"data,omitempty" json:"data,omitempty"`
	List     []Entry   `msgpack:"list,omitempty" json:"list,omitempty"`
}

// Find returns the first metadata with the given name.
func Find(list []Metadata, name string) (*Metadata, bool) {
	for i := range list {
		if list[i].Name == name {
			return &list[i], true
		}
	}
	return nil, false
}

// Lookup returns the value of the first entry with the given key.
func (m *Metadata) Lookup(key string) (Value, bool) {
	for _, e := range m.Entries {
		if e.HasKey && e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}
