package domain

import "strings"

// Operator is a comparison operator of a filter predicate.
type Operator string

const (
	OpEqual          Operator = "="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpNotEqual       Operator = "!="
)

var operatorTokens = map[string]Operator{
	"EQ":   OpEqual,
	"GT":   OpGreater,
	"GTEQ": OpGreaterOrEqual,
	"LT":   OpLess,
	"LTEQ": OpLessOrEqual,
	"NE":   OpNotEqual,
	"=":    OpEqual,
	">":    OpGreater,
	">=":   OpGreaterOrEqual,
	"<":    OpLess,
	"<=":   OpLessOrEqual,
	"!=":   OpNotEqual,
}

// ParseOperator resolves an operator token ("GTEQ" or ">=").
func ParseOperator(token string) (Operator, bool) {
	op, ok := operatorTokens[strings.ToUpper(strings.TrimSpace(token))]
	return op, ok
}

// IsEquality reports whether the operator is "=".
func (o Operator) IsEquality() bool {
	return o == OpEqual
}

// Flip returns the operator with its operands swapped: a < b is b > a.
func (o Operator) Flip() Operator {
	switch o {
	case OpGreater:
		return OpLess
	case OpGreaterOrEqual:
		return OpLessOrEqual
	case OpLess:
		return OpGreater
	case OpLessOrEqual:
		return OpGreaterOrEqual
	}
	return o
}

// RawFilter is a user supplied (field, operator, value) triple.
// swagger:model RawFilter
type RawFilter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// Predicate is a validated filter with a value coerced to the field's type
// (string, int64 or float64). Dates and times are canonical strings, so they
// order chronologically.
type Predicate struct {
	Field    string
	Operator Operator
	Value    any
}

// FieldKind is the declared type of a filterable field.
type FieldKind int

const (
	FieldString FieldKind = iota
	FieldInt
	FieldFloat
	FieldEnum
	// FieldDate values are canonical "2006-01-02" strings.
	FieldDate
	// FieldTime values are canonical zero-padded "15:04" strings.
	FieldTime
)

// FieldSpec describes one filterable field of an entity kind.
type FieldSpec struct {
	// Name is the canonical field name used by predicates and FieldGetter.
	Name string
	// Token is an optional alias accepted from clients (e.g. "MAX_ATTENDEES").
	Token string
	Kind  FieldKind
	// Repeated fields hold a list; a predicate matches when any element does.
	Repeated bool
	// Enum lists the allowed values of a FieldEnum field.
	Enum []string
}

// Schema is the whitelist of filterable fields of one entity kind.
type Schema struct {
	Entity string
	specs  []FieldSpec
	fields map[string]FieldSpec
}

// NewSchema builds a schema indexed by both field names and tokens.
func NewSchema(entity string, specs ...FieldSpec) *Schema {
	s := &Schema{Entity: entity, specs: specs, fields: make(map[string]FieldSpec, len(specs)*2)}
	for _, spec := range specs {
		s.fields[spec.Name] = spec
		if spec.Token != "" {
			s.fields[spec.Token] = spec
		}
	}
	return s
}

// Lookup resolves a field name or token.
func (s *Schema) Lookup(token string) (FieldSpec, bool) {
	spec, ok := s.fields[strings.TrimSpace(token)]
	return spec, ok
}

// Fields returns the field specs in declaration order.
func (s *Schema) Fields() []FieldSpec {
	return s.specs
}

// FieldGetter exposes named attributes of an entity for in-process filter
// evaluation. The second result is false when the entity lacks the attribute.
type FieldGetter interface {
	Field(name string) (any, bool)
}
