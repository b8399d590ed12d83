package autocanon

import (
	"strings"
)

// TypeKind represents the kind of an argument type.
type TypeKind string

// Type kind constants.
const (
	TypeKindPrimitive TypeKind = "primitive" // Number, Boolean, Date, Location, ...
	TypeKindString    TypeKind = "string"    // String
	TypeKindEntity    TypeKind = "entity"    // Entity(com.yelp:restaurant_cuisine)
	TypeKindEnum      TypeKind = "enum"      // Enum(low,medium,high)
	TypeKindMeasure   TypeKind = "measure"   // Measure(C)
	TypeKindArray     TypeKind = "array"     // Array(T)
)

// Type describes the type of a query argument.
// This is a recursive structure that can represent types like Array(Entity(tt:email_address)).
type Type struct {
	// Kind is the category of this type.
	Kind TypeKind

	// Name is the type name.
	// For primitives: "Number", "Boolean", "Date", etc.
	// For entities: the fully qualified entity type, e.g. "com.yelp:restaurant_cuisine".
	Name string

	// Entries are the enumerated values for enum types.
	Entries []string

	// Unit is the base unit for measure types.
	Unit string

	// Elem is the element type for arrays.
	Elem *Type
}

// String returns the display form of the type.
func (t *Type) String() string {
	if t == nil {
		return ""
	}

	switch t.Kind {
	case TypeKindPrimitive:
		return t.Name
	case TypeKindString:
		return "String"
	case TypeKindEntity:
		return "Entity(" + t.Name + ")"
	case TypeKindEnum:
		return "Enum(" + strings.Join(t.Entries, ",") + ")"
	case TypeKindMeasure:
		return "Measure(" + t.Unit + ")"
	case TypeKindArray:
		return "Array(" + t.Elem.String() + ")"
	default:
		return t.Name
	}
}

// IsString reports whether values of this type are literal strings.
func (t *Type) IsString() bool {
	return t != nil && t.Kind == TypeKindString
}

// IsEntity reports whether the type itself (not its element) is an entity.
func (t *Type) IsEntity() bool {
	return t != nil && t.Kind == TypeKindEntity
}

// EntityType returns the entity type name, looking through arrays.
// Returns "" for types that do not carry an entity.
func (t *Type) EntityType() string {
	if t == nil {
		return ""
	}

	switch t.Kind {
	case TypeKindArray:
		return t.Elem.EntityType()
	case TypeKindEntity:
		return t.Name
	case TypeKindPrimitive, TypeKindString, TypeKindEnum, TypeKindMeasure:
		return ""
	default:
		return ""
	}
}

// Primitive type constructors for convenience.
var (
	TypeString   = &Type{Kind: TypeKindString, Name: "String"}
	TypeNumber   = &Type{Kind: TypeKindPrimitive, Name: "Number"}
	TypeBoolean  = &Type{Kind: TypeKindPrimitive, Name: "Boolean"}
	TypeDate     = &Type{Kind: TypeKindPrimitive, Name: "Date"}
	TypeLocation = &Type{Kind: TypeKindPrimitive, Name: "Location"}
)

// EntityOf creates an entity type.
func EntityOf(name string) *Type {
	return &Type{Kind: TypeKindEntity, Name: name}
}

// ArrayOf creates an array type.
func ArrayOf(elem *Type) *Type {
	return &Type{Kind: TypeKindArray, Elem: elem}
}

// EnumOf creates an enum type.
func EnumOf(entries ...string) *Type {
	return &Type{Kind: TypeKindEnum, Entries: entries}
}

// MeasureOf creates a measure type.
func MeasureOf(unit string) *Type {
	return &Type{Kind: TypeKindMeasure, Unit: unit}
}
