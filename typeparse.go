package autocanon

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"gopkg.in/yaml.v3"
)

// typeLexer tokenizes type descriptors such as Array(Entity(com.yelp:restaurant_cuisine)).
// Entity names must be tried before identifiers so the namespace separator is kept.
var typeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Entity", Pattern: `[a-zA-Z_][\w.\-]*:[\w.\-]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][\w\-]*`},
	{Name: "Punct", Pattern: `[(),]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// typeExpr is the grammar for a type descriptor.
type typeExpr struct {
	Array   *typeExpr `  "Array" "(" @@ ")"`
	Entity  *string   `| "Entity" "(" @Entity ")"`
	Enum    []string  `| "Enum" "(" @Ident ( "," @Ident )* ")"`
	Measure *string   `| "Measure" "(" @Ident ")"`
	Name    *string   `| @Ident`
}

var typeParser = participle.MustBuild[typeExpr](
	participle.Lexer(typeLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// ParseType parses a type descriptor in its display form into a Type.
//
// Examples:
//
//	"String"                        -> TypeKindString
//	"Number"                        -> TypeKindPrimitive, Name="Number"
//	"Entity(com.yelp:cuisine)"      -> TypeKindEntity, Name="com.yelp:cuisine"
//	"Enum(low,high)"                -> TypeKindEnum, Entries=[low high]
//	"Measure(C)"                    -> TypeKindMeasure, Unit="C"
//	"Array(Entity(tt:email))"       -> TypeKindArray, Elem=Entity(tt:email)
func ParseType(s string) (*Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty type", ErrInvalidType)
	}

	expr, err := typeParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidType, s, err)
	}

	return expr.toType(), nil
}

// MustParseType is like ParseType but panics on error.
func MustParseType(s string) *Type {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}

	return t
}

func (e *typeExpr) toType() *Type {
	switch {
	case e.Array != nil:
		return ArrayOf(e.Array.toType())
	case e.Entity != nil:
		return EntityOf(*e.Entity)
	case len(e.Enum) > 0:
		return EnumOf(e.Enum...)
	case e.Measure != nil:
		return MeasureOf(*e.Measure)
	case e.Name != nil && *e.Name == "String":
		return &Type{Kind: TypeKindString, Name: "String"}
	case e.Name != nil:
		return &Type{Kind: TypeKindPrimitive, Name: *e.Name}
	default:
		return nil
	}
}

// UnmarshalYAML decodes a type from its display form.
func (t *Type) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := ParseType(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	*t = *parsed

	return nil
}

// MarshalYAML encodes a type as its display form.
func (t *Type) MarshalYAML() (any, error) {
	return t.String(), nil
}
