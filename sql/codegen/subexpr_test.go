// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package codegen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-mysql-codegen/sql"
	"github.com/dolthub/go-mysql-codegen/sql/expression"
)

func plusAB() sql.Expression {
	return expression.NewPlus(
		expression.NewGetField(0, sql.Int32, "a", true),
		expression.NewGetField(1, sql.Int32, "b", true),
	)
}

func TestSubExprCacheStructuralKey(t *testing.T) {
	r := require.New(t)

	cache := NewSubExprCache()
	v := NewVariable("subExprValue_0", "subExprIsNull_0", sql.Int32, true)
	cache.Register(plusAB(), v)

	got, err := cache.Lookup(plusAB())
	r.NoError(err)
	r.True(got == v)
	r.True(cache.Contains(plusAB()))
	r.Equal(1, cache.Len())

	testCases := []struct {
		name string
		expr sql.Expression
	}{
		{"other operator", expression.NewMinus(
			expression.NewGetField(0, sql.Int32, "a", true),
			expression.NewGetField(1, sql.Int32, "b", true),
		)},
		{"other index", expression.NewPlus(
			expression.NewGetField(0, sql.Int32, "a", true),
			expression.NewGetField(2, sql.Int32, "b", true),
		)},
		{"other nullability", expression.NewPlus(
			expression.NewGetField(0, sql.Int32, "a", false),
			expression.NewGetField(1, sql.Int32, "b", true),
		)},
		{"other type", expression.NewPlus(
			expression.NewGetField(0, sql.Int64, "a", true),
			expression.NewGetField(1, sql.Int32, "b", true),
		)},
		{"swapped operands", expression.NewPlus(
			expression.NewGetField(1, sql.Int32, "b", true),
			expression.NewGetField(0, sql.Int32, "a", true),
		)},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			require.False(cache.Contains(tt.expr))
			_, err := cache.Lookup(tt.expr)
			require.Error(err)
			require.True(ErrSubExprNotRegistered.Is(err))
		})
	}
}

func TestSubExprCacheRegisterReplaces(t *testing.T) {
	require := require.New(t)

	cache := NewSubExprCache()
	first := NewVariable("value_0", "false", sql.Int32, false)
	second := NewVariable("value_1", "false", sql.Int32, false)
	cache.Register(plusAB(), first)
	cache.Register(plusAB(), second)

	got, err := cache.Lookup(plusAB())
	require.NoError(err)
	require.True(got == second)
	require.Equal(1, cache.Len())
}

func TestGetSubExprInChildren(t *testing.T) {
	require := require.New(t)

	cache := NewSubExprCache()
	shared := plusAB()
	cache.Register(shared, NewVariable("subExprValue_0", "subExprIsNull_0", sql.Int32, true))

	lit := expression.NewLiteral(int32(3), sql.Int32)
	e1 := expression.NewMult(plusAB(), lit)
	e2 := expression.NewGreaterThan(
		expression.NewGetField(2, sql.Int32, "c", true),
		expression.NewMinus(plusAB(), lit),
	)

	hits1 := cache.GetSubExprInChildren(e1)
	hits2 := cache.GetSubExprInChildren(e2)
	require.Len(hits1, 1)
	require.Len(hits2, 1)

	codes1, err := cache.GetSubExprCodes(hits1)
	require.NoError(err)
	codes2, err := cache.GetSubExprCodes(hits2)
	require.NoError(err)
	require.True(codes1[0] == codes2[0])

	require.Empty(cache.GetSubExprInChildren(shared))
	require.Empty(cache.GetSubExprInChildren(lit))
}

func TestGetSubExprInChildrenOrder(t *testing.T) {
	require := require.New(t)

	a := expression.NewGetField(0, sql.Int32, "a", false)
	b := expression.NewGetField(1, sql.Int32, "b", false)
	inner := expression.NewPlus(a, b)
	outer := expression.NewMult(inner, b)

	cache := NewSubExprCache()
	cache.Register(b, NewVariable("value_b", "false", sql.Int32, false))
	cache.Register(outer, NewVariable("value_outer", "false", sql.Int32, false))
	cache.Register(inner, NewVariable("value_inner", "false", sql.Int32, false))

	e := expression.NewMinus(outer, a)
	hits := cache.GetSubExprInChildren(e)
	require.Equal([]sql.Expression{outer, inner, b, b}, hits)

	codes, err := cache.GetSubExprCodes(hits)
	require.NoError(err)
	names := make([]string, len(codes))
	for i, c := range codes {
		names[i] = c.Value
	}
	require.Equal([]string{"value_outer", "value_inner", "value_b", "value_b"}, names)
}

func TestGetSubExprCodesUnregistered(t *testing.T) {
	require := require.New(t)

	cache := NewSubExprCache()
	cache.Register(plusAB(), NewVariable("value_0", "false", sql.Int32, false))

	_, err := cache.GetSubExprCodes([]sql.Expression{
		plusAB(),
		expression.NewGetField(5, sql.Int32, "z", false),
	})
	require.Error(err)
	require.True(ErrSubExprNotRegistered.Is(err))

	codes, err := cache.GetSubExprCodes(nil)
	require.NoError(err)
	require.Empty(codes)
}

func TestEquivalentExprs(t *testing.T) {
	require := require.New(t)

	a := expression.NewGetField(0, sql.Int32, "a", true)
	lit := expression.NewLiteral(int32(2), sql.Int32)

	ee := NewEquivalentExprs()
	ee.AddTree(expression.NewMult(plusAB(), lit))
	ee.AddTree(expression.NewMinus(plusAB(), a))
	ee.AddTree(expression.NewMult(plusAB(), lit))

	require.Equal(2, ee.Count(expression.NewMult(plusAB(), lit)))
	require.Equal(2, ee.Count(plusAB()))
	require.Equal(0, ee.Count(expression.NewGetField(9, sql.Int32, "z", true)))

	require.Equal([]sql.Expression{
		expression.NewMult(plusAB(), lit),
		plusAB(),
	}, ee.Common())
}

func TestSubExprCacheNaNLiteral(t *testing.T) {
	require := require.New(t)

	nan := func() sql.Expression {
		return expression.NewMult(
			expression.NewGetField(0, sql.Float64, "x", false),
			expression.NewLiteral(math.NaN(), sql.Float64),
		)
	}

	cache := NewSubExprCache()
	first := NewVariable("value_0", "false", sql.Float64, false)
	second := NewVariable("value_1", "false", sql.Float64, false)
	cache.Register(nan(), first)
	require.True(cache.Contains(nan()))

	cache.Register(nan(), second)
	require.Equal(1, cache.Len())
	got, err := cache.Lookup(nan())
	require.NoError(err)
	require.True(got == second)

	ee := NewEquivalentExprs()
	ee.AddTree(nan())
	ee.AddTree(nan())
	require.Equal(2, ee.Count(nan()))
	require.Len(ee.Common(), 1)
}
