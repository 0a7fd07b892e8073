// SPDX-License-Identifier: Apache-2.0

package query

import (
	"fmt"
	"strings"

	"github.com/polarstack/icequery/pkg/expr"
	"github.com/polarstack/icequery/pkg/sqltoken"
)

// Build renders the builder to a positionally-parameterized SQL string.
// Build is a pure function of the builder's state: the same sequence of
// builder calls always yields the same (sql, params) pair.
func (b *Builder) Build() (string, []any, error) {
	if b.text != nil {
		return b.text.sql, b.text.params, nil
	}

	switch b.md {
	case modeSelect:
		return b.buildSelect()
	case modeUpdate:
		return b.buildUpdate()
	case modeDelete:
		return b.buildDelete()
	default:
		return "", nil, IncompleteQuery{Reason: "unknown query mode"}
	}
}

// aliasFunctions assigns "aggregate_<k>" aliases to every FunctionMeta in
// the select list, in list order, and returns a lookup from rendered SQL
// to alias so Having can reference the same expression by alias.
func aliasFunctions(fields []any) (aliased []any, bySQL map[string]string) {
	bySQL = make(map[string]string)
	aliased = make([]any, len(fields))
	k := 0
	for i, f := range fields {
		fm, ok := f.(expr.FunctionMeta)
		if !ok {
			aliased[i] = f
			continue
		}
		alias := fmt.Sprintf("aggregate_%d", k)
		k++
		bySQL[fm.SQL] = alias
		aliased[i] = fm.WithAlias(alias)
	}
	return aliased, bySQL
}

func renderSelectList(fields []any) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		switch v := f.(type) {
		case expr.ColumnRef:
			out[i] = v.Render()
		case TableRef:
			out[i] = v.Render()
		case expr.FunctionMeta:
			if v.Alias != "" {
				out[i] = fmt.Sprintf("%s AS %s", v.Render(), v.Alias)
			} else {
				out[i] = v.Render()
			}
		}
	}
	return out
}

// substituteAlias rewrites any predicate whose operand is a FunctionMeta
// matching a select-list alias to reference that alias instead of the
// raw function expression, so HAVING can address an aggregate by the
// name assigned to it in the SELECT list.
func substituteAlias(pred any, bySQL map[string]string) any {
	switch p := pred.(type) {
	case expr.Comparison:
		if fm, ok := p.Left.(expr.FunctionMeta); ok {
			if alias, found := bySQL[fm.SQL]; found {
				p.Left = fm.WithAlias(alias)
			}
		}
		return p
	case expr.ComparisonGroup:
		elems := make([]expr.Predicate, len(p.Elements))
		for i, e := range p.Elements {
			elems[i] = substituteAlias(e, bySQL).(expr.Predicate)
		}
		p.Elements = elems
		return p
	default:
		return pred
	}
}

func (b *Builder) buildSelect() (string, []any, error) {
	if len(b.selectRaw) == 0 {
		return "", nil, IncompleteQuery{Reason: "no fields in SELECT list"}
	}
	if b.mainTable == "" {
		return "", nil, IncompleteQuery{Reason: "no main table for SELECT"}
	}

	aliasedFields, bySQL := aliasFunctions(b.selectRaw)

	var sb strings.Builder
	sb.WriteString("SELECT ")

	if len(b.distinctOn) > 0 {
		parts := make([]string, len(b.distinctOn))
		for i, f := range b.distinctOn {
			parts[i] = f.(renderable).Render()
		}
		sb.WriteString("DISTINCT ON (")
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString(") ")
	}

	sb.WriteString(strings.Join(renderSelectList(aliasedFields), ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(sqltoken.Identifier(b.mainTable).Render())

	var params []any
	n := 1

	for _, j := range b.joins {
		sb.WriteString(" ")
		sb.WriteString(string(j.kind))
		sb.WriteString(" ")
		sb.WriteString(sqltoken.Identifier(j.table).Render())
		sb.WriteString(" ON ")
		onSQL, p, next := j.on.Render(n)
		sb.WriteString(onSQL)
		params = append(params, p...)
		n = next
	}

	if len(b.where) > 0 {
		sql, p, next := renderConjunction(b.where, n)
		sb.WriteString(" WHERE ")
		sb.WriteString(sql)
		params = append(params, p...)
		n = next
	}

	if len(b.groupBy) > 0 {
		parts := make([]string, len(b.groupBy))
		for i, c := range b.groupBy {
			parts[i] = c.Render()
		}
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}

	if len(b.having) > 0 {
		aliasedHaving := make([]any, len(b.having))
		for i, h := range b.having {
			aliasedHaving[i] = substituteAlias(h, bySQL)
		}
		sql, p, next := renderConjunction(aliasedHaving, n)
		sb.WriteString(" HAVING ")
		sb.WriteString(sql)
		params = append(params, p...)
		n = next
	}

	if len(b.orderBy) > 0 {
		parts := make([]string, len(b.orderBy))
		for i, o := range b.orderBy {
			parts[i] = fmt.Sprintf("%s %s", o.key.Render(), o.dir)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}

	if b.limit != nil {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", *b.limit))
	}
	if b.offset != nil {
		sb.WriteString(fmt.Sprintf(" OFFSET %d", *b.offset))
	}

	return sb.String(), params, nil
}

func (b *Builder) buildUpdate() (string, []any, error) {
	if b.mainTable == "" {
		return "", nil, IncompleteQuery{Reason: "no target table for UPDATE"}
	}
	if len(b.updateSet) == 0 {
		return "", nil, IncompleteQuery{Reason: "empty UPDATE SET"}
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(sqltoken.Identifier(b.mainTable).Render())
	sb.WriteString(" SET ")

	var params []any
	n := 1
	assignments := make([]string, len(b.updateSet))
	for i, s := range b.updateSet {
		assignments[i] = fmt.Sprintf("%s = $%d", s.col.Render(), n)
		params = append(params, s.value)
		n++
	}
	sb.WriteString(strings.Join(assignments, ", "))

	if len(b.where) > 0 {
		sql, p, _ := renderConjunction(b.where, n)
		sb.WriteString(" WHERE ")
		sb.WriteString(sql)
		params = append(params, p...)
	}

	return sb.String(), params, nil
}

func (b *Builder) buildDelete() (string, []any, error) {
	if b.mainTable == "" {
		return "", nil, IncompleteQuery{Reason: "no target table for DELETE"}
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(sqltoken.Identifier(b.mainTable).Render())

	var params []any
	if len(b.where) > 0 {
		sql, p, _ := renderConjunction(b.where, 1)
		sb.WriteString(" WHERE ")
		sb.WriteString(sql)
		params = append(params, p...)
	}

	return sb.String(), params, nil
}

// renderConjunction renders a flat list of top-level WHERE/HAVING
// conditions as an implicit AND, starting parameter numbering at
// startParam.
func renderConjunction(conds []any, startParam int) (string, []any, int) {
	preds := make([]expr.Predicate, len(conds))
	for i, c := range conds {
		preds[i] = c.(expr.Predicate)
	}
	group := expr.And(preds...)
	return group.Render(startParam)
}
