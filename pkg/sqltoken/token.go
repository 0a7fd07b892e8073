// SPDX-License-Identifier: Apache-2.0

// Package sqltoken holds the two primitive SQL fragments every higher layer
// of icequery composes: quoted identifiers and raw literals.
package sqltoken

import "github.com/lib/pq"

// Token is a rendered SQL fragment. Both implementations are plain string
// types, so they are comparable with == and usable as map keys without a
// custom hash function.
type Token interface {
	// Render returns the fragment's SQL text.
	Render() string
}

// Identifier is a quoted SQL identifier, e.g. a table or column name.
// Rendering goes through pq.QuoteIdentifier, which doubles any embedded
// double quote.
type Identifier string

// Render double-quotes the identifier.
func (i Identifier) Render() string {
	return pq.QuoteIdentifier(string(i))
}

// Qualified renders "table"."column" for a table-qualified identifier.
func Qualified(table, column string) string {
	return Identifier(table).Render() + "." + Identifier(column).Render()
}

// RawLiteral is a pre-formed SQL fragment rendered verbatim, e.g. a
// function call or a previously-rendered sub-expression.
type RawLiteral string

// Render returns the literal text unchanged.
func (r RawLiteral) Render() string {
	return string(r)
}

var (
	_ Token = Identifier("")
	_ Token = RawLiteral("")
)
