package query

import (
	"fmt"
	"strconv"
	"strings"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	"conferencecentral/internal/domain"
)

// declarations builds AIP-160 identifier declarations for a schema.
func declarations(schema *domain.Schema) (*filtering.Declarations, error) {
	opts := []filtering.DeclarationOption{filtering.DeclareStandardFunctions()}
	for _, spec := range schema.Fields() {
		typ := filtering.TypeString
		switch spec.Kind {
		case domain.FieldInt:
			typ = filtering.TypeInt
		case domain.FieldFloat:
			typ = filtering.TypeFloat
		}
		opts = append(opts, filtering.DeclareIdent(spec.Name, typ))
	}
	return filtering.NewDeclarations(opts...)
}

// ParseFilterString parses an AIP-160 filter made of comparisons joined by
// AND (e.g. `city = "London" AND maxAttendees > 10`) into raw filters.
// An empty string yields no filters.
func ParseFilterString(filter string, schema *domain.Schema) ([]domain.RawFilter, error) {
	if strings.TrimSpace(filter) == "" {
		return nil, nil
	}
	decls, err := declarations(schema)
	if err != nil {
		return nil, fmt.Errorf("create declarations: %w", err)
	}
	parsed, err := filtering.ParseFilterString(filter, decls)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFilter, err)
	}
	var out []domain.RawFilter
	if err := collect(parsed.CheckedExpr.GetExpr(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func collect(e *expr.Expr, out *[]domain.RawFilter) error {
	call := e.GetCallExpr()
	if call == nil {
		return fmt.Errorf("%w: expected a comparison, got %T", domain.ErrInvalidFilter, e.GetExprKind())
	}
	switch call.GetFunction() {
	case filtering.FunctionAnd, "_&&_":
		for _, arg := range call.GetArgs() {
			if err := collect(arg, out); err != nil {
				return err
			}
		}
		return nil
	case filtering.FunctionEquals, filtering.FunctionNotEquals,
		filtering.FunctionLessThan, filtering.FunctionLessEquals,
		filtering.FunctionGreaterThan, filtering.FunctionGreaterEquals:
		return comparison(call, out)
	}
	return fmt.Errorf("%w: unsupported function %q", domain.ErrInvalidFilter, call.GetFunction())
}

func comparison(call *expr.Expr_Call, out *[]domain.RawFilter) error {
	args := call.GetArgs()
	if len(args) != 2 {
		return fmt.Errorf("%w: comparison requires 2 arguments", domain.ErrInvalidFilter)
	}
	ident := args[0].GetIdentExpr()
	if ident == nil {
		return fmt.Errorf("%w: left side of a comparison must be a field", domain.ErrInvalidFilter)
	}
	value, err := constValue(args[1].GetConstExpr())
	if err != nil {
		return err
	}
	*out = append(*out, domain.RawFilter{
		Field:    ident.GetName(),
		Operator: call.GetFunction(),
		Value:    value,
	})
	return nil
}

func constValue(c *expr.Constant) (string, error) {
	switch kind := c.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return strconv.FormatInt(kind.Int64Value, 10), nil
	case *expr.Constant_Uint64Value:
		return strconv.FormatUint(kind.Uint64Value, 10), nil
	case *expr.Constant_DoubleValue:
		return strconv.FormatFloat(kind.DoubleValue, 'f', -1, 64), nil
	case *expr.Constant_BoolValue:
		return strconv.FormatBool(kind.BoolValue), nil
	}
	return "", fmt.Errorf("%w: right side of a comparison must be a literal", domain.ErrInvalidFilter)
}
