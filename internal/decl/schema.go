package decl

// Schema of a .jetd declaration snapshot:
//
//	package = "shapes"
//
//	[[interface]]
//	name = "Shape"
//	extends = ["Named"]
//	  [[interface.method]]
//	  name = "area"
//	  result = "Number"
//	  metadata = [{ name = "Optional" }]
//
//	[[class]]
//	name = "Circle"
//	modifiers = ["public", "final"]
//	implements = ["Shape"]
//	  [[class.metadata]]
//	  name = "Embed"
//	  entries = [{ key = "source", file = "icon.png" }, { key = "width", number = "16" }]
//	  [[class.getter]]
//	  name = "radius"
//	  type = "Number"

type fileDecl struct {
	Package    string     `toml:"package"`
	Interfaces []typeDecl `toml:"interface"`
	Classes    []typeDecl `toml:"class"`
}

type typeDecl struct {
	Name       string         `toml:"name"`
	Modifiers  []string       `toml:"modifiers"`
	Extends    []string       `toml:"extends"`
	Implements []string       `toml:"implements"`
	Metadata   []metaDecl     `toml:"metadata"`
	Methods    []methodDecl   `toml:"method"`
	Getters    []accessorDecl `toml:"getter"`
	Setters    []accessorDecl `toml:"setter"`
	Variables  []varDecl      `toml:"var"`
}

type methodDecl struct {
	Name      string      `toml:"name"`
	Modifiers []string    `toml:"modifiers"`
	Metadata  []metaDecl  `toml:"metadata"`
	Params    []paramDecl `toml:"params"`
	Result    string      `toml:"result"`
}

type paramDecl struct {
	Name     string `toml:"name"`
	Type     string `toml:"type"`
	Optional bool   `toml:"optional"`
	Rest     bool   `toml:"rest"`
}

type accessorDecl struct {
	Name      string     `toml:"name"`
	Modifiers []string   `toml:"modifiers"`
	Metadata  []metaDecl `toml:"metadata"`
	Type      string     `toml:"type"`
}

type varDecl struct {
	Name      string     `toml:"name"`
	Modifiers []string   `toml:"modifiers"`
	Metadata  []metaDecl `toml:"metadata"`
	Type      string     `toml:"type"`
	Const     bool       `toml:"const"`
}

type metaDecl struct {
	Name    string       `toml:"name"`
	Entries *[]entryDecl `toml:"entries"`
}

// entryDecl carries exactly one value field. Numbers are strings so the
// literal text survives verbatim.
type entryDecl struct {
	Key    *string      `toml:"key"`
	Ident  *string      `toml:"ident"`
	String *string      `toml:"string"`
	Number *string      `toml:"number"`
	Bool   *bool        `toml:"bool"`
	File   *string      `toml:"file"`
	Output bool         `toml:"output"`
	List   *[]entryDecl `toml:"list"`
}
