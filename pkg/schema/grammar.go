package schema

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// AST for the .soa schema language:
//
//	package shapes
//	import "time"
//	record Point { X int; Y int }
//	record event {
//		at   time.Time
//		tags []string
//	}

type astSchema struct {
	Package string       `parser:"('package' @Ident ';'?)?"`
	Imports []*astImport `parser:"@@*"`
	Records []*astRecord `parser:"@@*"`
}

type astImport struct {
	Alias string `parser:"'import' @Ident?"`
	Path  string `parser:"@String ';'?"`
}

type astRecord struct {
	Pos    lexer.Position
	Name   string      `parser:"'record' @Ident '{'"`
	Fields []*astField `parser:"@@* '}' ';'?"`
}

type astField struct {
	Name string   `parser:"@Ident"`
	Type *astType `parser:"@@ (';' | ',')?"`
}

type astType struct {
	Pointer *astType  `parser:"  '*' @@"`
	Map     *astMap   `parser:"| @@"`
	List    *astList  `parser:"| @@"`
	Named   *astNamed `parser:"| @@"`
}

type astMap struct {
	Key   *astType `parser:"'map' '[' @@ ']'"`
	Value *astType `parser:"@@"`
}

// astList is a slice when Len is empty, an array otherwise.
type astList struct {
	Len  string   `parser:"'[' @Number? ']'"`
	Elem *astType `parser:"@@"`
}

type astNamed struct {
	Parts []string   `parser:"@Ident ('.' @Ident)?"`
	Args  []*astType `parser:"('[' @@ (',' @@)* ']')?"`
}

// String renders the type as Go source.
func (t *astType) String() string {
	switch {
	case t.Pointer != nil:
		return "*" + t.Pointer.String()
	case t.Map != nil:
		return "map[" + t.Map.Key.String() + "]" + t.Map.Value.String()
	case t.List != nil:
		return "[" + t.List.Len + "]" + t.List.Elem.String()
	case t.Named != nil:
		return t.Named.String()
	}
	return ""
}

func (n *astNamed) String() string {
	s := strings.Join(n.Parts, ".")
	if len(n.Args) == 0 {
		return s
	}
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return s + "[" + strings.Join(args, ", ") + "]"
}
