package query

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"conferencecentral/internal/domain"
)

// Normalize validates raw filters against schema and splits them into
// equality and inequality predicates, preserving input order within each group.
func Normalize(raw []domain.RawFilter, schema *domain.Schema) (eq, ineq []domain.Predicate, err error) {
	var ineqField string
	for _, f := range raw {
		spec, ok := schema.Lookup(f.Field)
		if !ok {
			return nil, nil, fmt.Errorf("%w: unknown field %q for %s", domain.ErrInvalidFilter, f.Field, schema.Entity)
		}
		op, ok := domain.ParseOperator(f.Operator)
		if !ok {
			return nil, nil, fmt.Errorf("%w: unknown operator %q", domain.ErrInvalidFilter, f.Operator)
		}
		value, err := coerce(spec, f.Value)
		if err != nil {
			return nil, nil, err
		}
		p := domain.Predicate{Field: spec.Name, Operator: op, Value: value}
		if op.IsEquality() {
			eq = append(eq, p)
			continue
		}
		if ineqField != "" && ineqField != spec.Name {
			return nil, nil, fmt.Errorf("%w: got %q and %q", domain.ErrMultipleInequalityFields, ineqField, spec.Name)
		}
		ineqField = spec.Name
		ineq = append(ineq, p)
	}
	return eq, ineq, nil
}

// InequalityField returns the single field carrying inequality predicates, or "".
func InequalityField(ineq []domain.Predicate) string {
	if len(ineq) == 0 {
		return ""
	}
	return ineq[0].Field
}

func coerce(spec domain.FieldSpec, raw string) (any, error) {
	switch spec.Kind {
	case domain.FieldInt:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects an integer, got %q", domain.ErrInvalidFilter, spec.Name, raw)
		}
		return n, nil
	case domain.FieldFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects a number, got %q", domain.ErrInvalidFilter, spec.Name, raw)
		}
		return f, nil
	case domain.FieldEnum:
		v := strings.ToUpper(strings.TrimSpace(raw))
		if !slices.Contains(spec.Enum, v) {
			return nil, fmt.Errorf("%w: %s must be one of %s, got %q", domain.ErrInvalidFilter, spec.Name, strings.Join(spec.Enum, ", "), raw)
		}
		return v, nil
	case domain.FieldDate:
		v, err := domain.CanonicalDate(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects a YYYY-MM-DD date, got %q", domain.ErrInvalidFilter, spec.Name, raw)
		}
		return v, nil
	case domain.FieldTime:
		v, err := domain.CanonicalTime(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects an HH:MM time, got %q", domain.ErrInvalidFilter, spec.Name, raw)
		}
		return v, nil
	}
	return raw, nil
}
