package ast

type (
	// узлы, которые можно связать с символом
	ExprID      uint32
	DirectiveID uint32
	VarDefID    uint32
	BlockID     uint32
	ProgramID   uint32
	FnCommonID  uint32
	// подсущности
	MetadataID uint32
)

const (
	NoExprID      ExprID      = 0
	NoDirectiveID DirectiveID = 0
	NoVarDefID    VarDefID    = 0
	NoBlockID     BlockID     = 0
	NoProgramID   ProgramID   = 0
	NoFnCommonID  FnCommonID  = 0
	NoMetadataID  MetadataID  = 0
)

func (id ExprID) IsValid() bool      { return id != NoExprID }
func (id DirectiveID) IsValid() bool { return id != NoDirectiveID }
func (id VarDefID) IsValid() bool    { return id != NoVarDefID }
func (id BlockID) IsValid() bool     { return id != NoBlockID }
func (id ProgramID) IsValid() bool   { return id != NoProgramID }
func (id FnCommonID) IsValid() bool  { return id != NoFnCommonID }
func (id MetadataID) IsValid() bool  { return id != NoMetadataID }
