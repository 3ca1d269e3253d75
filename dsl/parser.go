package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	shapesLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+|\.\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	catalogParser = participle.MustBuild[Catalog](
		participle.Lexer(shapesLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Catalog is the root AST node of a .shapes file.
//
//	catalog Plakat v1 {
//	  shape ring {
//	    path "M-50 0 A50 50 0 1 0 50 0 A50 50 0 1 0 -50 0 Z" stroke #000 width 6
//	  }
//	}
type Catalog struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"Newline* 'catalog' @Ident"`
	Version string         `parser:"@Ident"`
	Shapes  []*Shape       `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Shape declares one reusable template; its paths are drawn around the origin.
type Shape struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"'shape' @Ident"`
	Elements []*Element     `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Element is a single SVG path plus optional paint attributes.
type Element struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Path  StringLiteral  `parser:"'path' @String"`
	Attrs []*Attr        `parser:"@@*"`
}

// Attr is a `key value` pair after a path: fill, stroke or width.
type Attr struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@( 'fill' | 'stroke' | 'width' ) ':'?"`
	Value string         `parser:"@( Color | Number | 'none' )"`
}

// Lookup returns the attribute value for key, if present. The last occurrence wins.
func (e *Element) Lookup(key string) (string, bool) {
	var (
		val   string
		found bool
	)
	for _, a := range e.Attrs {
		if a.Key == key {
			val, found = a.Value, true
		}
	}
	return val, found
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses shapes DSL content from an io.Reader.
func Parse(r io.Reader) (*Catalog, error) {
	return catalogParser.Parse("", r)
}

// ParseString parses shapes DSL content from a string.
func ParseString(input string) (*Catalog, error) {
	return catalogParser.ParseString("", input)
}
