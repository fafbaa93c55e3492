package query

import (
	"cmp"
	"strings"

	"conferencecentral/internal/domain"
)

func equal(c int) bool          { return c == 0 }
func greater(c int) bool        { return c > 0 }
func greaterOrEqual(c int) bool { return c >= 0 }
func less(c int) bool           { return c < 0 }
func lessOrEqual(c int) bool    { return c <= 0 }
func notEqual(c int) bool       { return c != 0 }

// evaluators maps an operator to a test on compare(attribute, value).
var evaluators = map[domain.Operator]func(int) bool{
	domain.OpEqual:          equal,
	domain.OpGreater:        greater,
	domain.OpGreaterOrEqual: greaterOrEqual,
	domain.OpLess:           less,
	domain.OpLessOrEqual:    lessOrEqual,
	domain.OpNotEqual:       notEqual,
}

// Matches reports whether entity satisfies every predicate. An entity lacking
// a filtered attribute, or holding a value of an incomparable type, does not match.
func Matches(entity domain.FieldGetter, preds []domain.Predicate) bool {
	for _, p := range preds {
		if !matchOne(entity, p) {
			return false
		}
	}
	return true
}

func matchOne(entity domain.FieldGetter, p domain.Predicate) bool {
	eval, ok := evaluators[p.Operator]
	if !ok {
		return false
	}
	v, ok := entity.Field(p.Field)
	if !ok || v == nil {
		return false
	}
	// Repeated attributes match when any element does.
	if list, ok := v.([]string); ok {
		for _, el := range list {
			if c, ok := compare(el, p.Value); ok && eval(c) {
				return true
			}
		}
		return false
	}
	c, ok := compare(v, p.Value)
	return ok && eval(c)
}

func compare(a, b any) (int, bool) {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), true
		}
	case int64:
		switch y := b.(type) {
		case int64:
			return cmp.Compare(x, y), true
		case float64:
			return cmp.Compare(float64(x), y), true
		}
	case float64:
		switch y := b.(type) {
		case float64:
			return cmp.Compare(x, y), true
		case int64:
			return cmp.Compare(x, float64(y)), true
		}
	}
	return 0, false
}
