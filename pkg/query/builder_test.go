// SPDX-License-Identifier: Apache-2.0

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polarstack/icequery/pkg/expr"
	"github.com/polarstack/icequery/pkg/query"
)

func TestSelectWithComparisonFilter(t *testing.T) {
	t.Parallel()

	id := expr.Col("userdemo", "id")
	b := query.Select(query.TableRef{Table: "userdemo"}).Where(id.Gt(0))

	sql, params, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, `SELECT "userdemo".* FROM "userdemo" WHERE "userdemo"."id" > $1`, sql)
	assert.Equal(t, []any{0}, params)
}

func TestSelectWithColumnToColumnComparison(t *testing.T) {
	t.Parallel()

	author := expr.Col("book", "author_id")
	authorPK := expr.Col("author", "id")

	b := query.Select(expr.Col("book", "title")).
		Join(query.InnerJoin, "author", author.Eq(authorPK))

	sql, params, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, `SELECT "book"."title" FROM "book" INNER JOIN "author" ON "book"."author_id" = "author"."id"`, sql)
	assert.Empty(t, params)
}

func TestSelectWithAggregateAliasAndHaving(t *testing.T) {
	t.Parallel()

	count := expr.Count(expr.Col("orders", "id"))
	customer := expr.Col("orders", "customer_id")

	b := query.Select(customer, count).
		GroupBy(customer).
		Having(count.Gt(1))

	sql, params, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "orders"."customer_id", count("orders"."id") AS aggregate_0 FROM "orders" GROUP BY "orders"."customer_id" HAVING aggregate_0 > $1`,
		sql)
	assert.Equal(t, []any{1}, params)
}

func TestBuildIsPureAcrossRepeatedCalls(t *testing.T) {
	t.Parallel()

	b := query.Select(expr.Col("t", "a")).Where(expr.Col("t", "a").Eq("x"))

	sql1, params1, err1 := b.Build()
	require.NoError(t, err1)
	sql2, params2, err2 := b.Build()
	require.NoError(t, err2)

	assert.Equal(t, sql1, sql2)
	assert.Equal(t, params1, params2)
}

func TestBranchingDoesNotMutateBase(t *testing.T) {
	t.Parallel()

	base := query.Select(expr.Col("t", "a"), expr.Col("t", "b"))
	branchA := base.Where(expr.Col("t", "a").Eq(1))
	branchB := base.Where(expr.Col("t", "b").Eq(2))

	baseSQL, _, err := base.Build()
	require.NoError(t, err)
	assert.NotContains(t, baseSQL, "WHERE")

	aSQL, _, err := branchA.Build()
	require.NoError(t, err)
	assert.Contains(t, aSQL, `"t"."a" = $1`)

	bSQL, _, err := branchB.Build()
	require.NoError(t, err)
	assert.Contains(t, bSQL, `"t"."b" = $1`)
	assert.NotContains(t, bSQL, `"t"."a" =`)
}

func TestNullComparisonRewrite(t *testing.T) {
	t.Parallel()

	col := expr.Col("t", "deleted_at")

	eqSQL, eqParams, err := query.Select(col).Where(col.Eq(nil)).Build()
	require.NoError(t, err)
	assert.Contains(t, eqSQL, `"t"."deleted_at" IS NULL`)
	assert.Empty(t, eqParams)

	neSQL, neParams, err := query.Select(col).Where(col.Ne(nil)).Build()
	require.NoError(t, err)
	assert.Contains(t, neSQL, `"t"."deleted_at" IS NOT NULL`)
	assert.Empty(t, neParams)
}

func TestInWithEmptySliceShortCircuits(t *testing.T) {
	t.Parallel()

	col := expr.Col("t", "id")
	empty := []int{}

	sql, params, err := query.Select(col).Where(col.In(empty)).Build()
	require.NoError(t, err)
	assert.Contains(t, sql, "FALSE")
	assert.Empty(t, params)
}

func TestWhereRejectsNonPredicate(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		query.Select(expr.Col("t", "a")).Where("not a predicate")
	})
}

func TestLikeOnNonStringColumnPanics(t *testing.T) {
	t.Parallel()

	num := expr.ColOf("t", "amount", expr.KindNumber)
	assert.Panics(t, func() {
		num.Like("%x%")
	})
}

func TestBuildFailsOnEmptySelectList(t *testing.T) {
	t.Parallel()

	b := &query.Builder{}
	_, _, err := b.Build()
	assert.Error(t, err)
}

func TestUpdateRendersSetAndWhere(t *testing.T) {
	t.Parallel()

	b := query.Update("users").
		Set(expr.Col("users", "name"), "Ada").
		Where(expr.Col("users", "id").Eq(7))

	sql, params, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "users" SET "users"."name" = $1 WHERE "users"."id" = $2`, sql)
	assert.Equal(t, []any{"Ada", 7}, params)
}

func TestDeleteRendersWhere(t *testing.T) {
	t.Parallel()

	b := query.Delete("users").Where(expr.Col("users", "id").Eq(7))

	sql, params, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "users" WHERE "users"."id" = $1`, sql)
	assert.Equal(t, []any{7}, params)
}
