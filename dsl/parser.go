package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.\d*|\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[(),;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// File is the root AST node of a .led design description.
type File struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Name       StringLiteral  `parser:"'design' @String?"`
	Statements []*Statement   `parser:"'{' ( @@ ';'* )* '}'"`
}

// Statement is one line inside the design block.
type Statement struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Canvas  *CanvasStmt    `parser:"  'canvas' @@"`
	LED     *LEDStmt       `parser:"| 'led' @@"`
	Export  *string        `parser:"| 'export' @Ident"`
	Scale   *float64       `parser:"| 'scale' @Number"`
	Contour *PointList     `parser:"| 'contour' @@"`
	LEDs    *PointList     `parser:"| 'leds' @@"`
}

// Kind returns the human-readable statement type.
func (s *Statement) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Canvas != nil:
		return "canvas"
	case s.LED != nil:
		return "led"
	case s.Export != nil:
		return "export"
	case s.Scale != nil:
		return "scale"
	case s.Contour != nil:
		return "contour"
	case s.LEDs != nil:
		return "leds"
	default:
		return "unknown"
	}
}

// CanvasStmt: canvas <width> <height>，默认单位 cm。
type CanvasStmt struct {
	Width  *LengthLit `parser:"@@"`
	Height *LengthLit `parser:"@@"`
}

// LEDStmt: led diameter <len> spacing <len>，默认单位 mm。
type LEDStmt struct {
	Props []*LEDProp `parser:"@@+"`
}

// LEDProp is a single `diameter`/`spacing` entry.
type LEDProp struct {
	Key   string     `parser:"@( 'diameter' | 'spacing' )"`
	Value *LengthLit `parser:"@@"`
}

// LengthLit is a number with an optional unit suffix.
type LengthLit struct {
	Value float64 `parser:"@Number"`
	Unit  string  `parser:"@( 'mm' | 'cm' | 'in' | 'pt' )?"`
}

// PointList captures `{ (x y) (x, y) ... }`.
type PointList struct {
	Points []*PointLit `parser:"'{' ( @@ ','? )* '}'"`
}

// PointLit is a pixel-space coordinate pair.
type PointLit struct {
	X float64 `parser:"'(' @Number ','?"`
	Y float64 `parser:"@Number ')'"`
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

// Parse parses a design description from an io.Reader.
func Parse(r io.Reader) (*File, error) {
	return fileParser.Parse("", r)
}

// ParseString parses a design description from a string.
func ParseString(input string) (*File, error) {
	return fileParser.ParseString("", input)
}
