package tds

// Info contains basic executable and TDS information.
type Info struct {
	File            string        `json:"file"`
	Segments        []SegmentInfo `json:"segments"`
	DebugInfoOffset int64         `json:"debug_info_offset"`
	Magic           uint16        `json:"magic"`
	Version         uint16        `json:"version"`
	Names           int           `json:"names"`
	Types           int           `json:"types"`
	Members         int           `json:"members"`
	Symbols         int           `json:"symbols"`
	Modules         int           `json:"modules"`
	Scopes          int           `json:"scopes"`
	Lines           int           `json:"lines"`
	Sources         int           `json:"sources"`
	Correlations    int           `json:"correlations"`
}

// SegmentInfo describes an executable segment.
type SegmentInfo struct {
	Index      int    `json:"index"` // 1-based segment index
	FileOffset int64  `json:"file_offset"`
	Length     uint16 `json:"length"`
	Data       bool   `json:"data"`
	Allocation uint16 `json:"allocation"`
}

// ModuleInfo represents a compiled module.
type ModuleInfo struct {
	Name         string   `json:"name"`
	Language     uint8    `json:"language"`
	Symbols      int      `json:"symbols"`
	SourceFiles  []string `json:"source_files,omitempty"`
	Correlations int      `json:"correlations"`
}

// TypeInfo represents a logical type.
type TypeInfo struct {
	Index     int      `json:"index"`
	Kind      string   `json:"kind"`
	Name      string   `json:"name,omitempty"`
	Size      uint16   `json:"size"`
	Signature string   `json:"signature"`
	Members   []Member `json:"members,omitempty"`
}

// Member represents a struct member or enum constant.
type Member struct {
	Name     string `json:"name"`
	TypeName string `json:"type_name,omitempty"`
	Offset   uint16 `json:"offset"`
	Value    uint16 `json:"value,omitempty"`
}

// SymbolKind classifies global symbols.
type SymbolKind string

const (
	SymbolFunction SymbolKind = "function"
	SymbolData     SymbolKind = "data"
	SymbolImport   SymbolKind = "import"
)

// Symbol represents a global symbol.
type Symbol struct {
	Index     int        `json:"index"`
	Name      string     `json:"name"`
	Kind      SymbolKind `json:"kind"`
	Segment   uint16     `json:"segment"`
	Offset    uint16     `json:"offset"`
	Import    string     `json:"import,omitempty"`
	Signature string     `json:"signature"`
	Locals    []Local    `json:"locals,omitempty"`
	Entry     string     `json:"entry,omitempty"`
}

// Local represents a stack variable of a function.
type Local struct {
	Name      string `json:"name"`
	Offset    int16  `json:"offset"`
	Signature string `json:"signature"`
}

// SourceInfo represents the line mapping of one correlation.
type SourceInfo struct {
	File        string `json:"file"`
	Segment     uint16 `json:"segment"`
	StartOffset uint16 `json:"start_offset"`
	EndOffset   uint16 `json:"end_offset"`
	Lines       []Line `json:"lines"`
}

// Line maps a source line number to a code offset.
type Line struct {
	Line   uint16 `json:"line"`
	Offset uint16 `json:"offset"`
}
