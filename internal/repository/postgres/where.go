package postgres

import (
	"fmt"
	"strings"

	"conferencecentral/internal/domain"
)

// column maps a filterable field to its SQL column. Repeated columns are
// Postgres arrays matched element-wise.
type column struct {
	name     string
	repeated bool
}

var sqlOperators = map[domain.Operator]string{
	domain.OpEqual:          "=",
	domain.OpGreater:        ">",
	domain.OpGreaterOrEqual: ">=",
	domain.OpLess:           "<",
	domain.OpLessOrEqual:    "<=",
	domain.OpNotEqual:       "<>",
}

// whereClause renders preds as an AND-joined condition with placeholders
// starting at $next. It returns the condition (empty when preds is empty),
// its arguments and the next free placeholder number.
func whereClause(preds []domain.Predicate, columns map[string]column, next int) (string, []any, int, error) {
	conds := make([]string, 0, len(preds))
	args := make([]any, 0, len(preds))
	for _, p := range preds {
		col, ok := columns[p.Field]
		if !ok {
			return "", nil, next, fmt.Errorf("%w: field %q is not queryable", domain.ErrInvalidFilter, p.Field)
		}
		op, ok := sqlOperators[p.Operator]
		if !ok {
			return "", nil, next, fmt.Errorf("%w: operator %q", domain.ErrInvalidFilter, p.Operator)
		}
		if col.repeated {
			// elem OP v  <=>  v FLIP(OP) ANY(col)
			conds = append(conds, fmt.Sprintf("$%d %s ANY(%s)", next, sqlOperators[p.Operator.Flip()], col.name))
		} else {
			conds = append(conds, fmt.Sprintf("%s %s $%d", col.name, op, next))
		}
		args = append(args, p.Value)
		next++
	}
	return strings.Join(conds, " AND "), args, next, nil
}
