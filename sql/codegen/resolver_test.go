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
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-mysql-codegen/sql"
	"github.com/dolthub/go-mysql-codegen/sql/expression"
	"github.com/dolthub/go-mysql-codegen/sql/expression/function"
)

type resolverFixture struct {
	ctx  *Context
	expr sql.Expression
	v0   *ExprValue
	v5   *ExprValue
}

// newResolverFixture builds a frame holding a materialized value, a value
// computed from a materialized one, a value read from another row, a value
// computed from the same materialized value and an empty slot.
func newResolverFixture() resolverFixture {
	v0 := NewVariable("value1", "false", sql.Int32, false)
	v5 := NewVariable("value5", "isNull5", sql.Int32, true)
	v1 := &ExprValue{
		Code:          "fake code;",
		Value:         "value2",
		IsNull:        "isNull2",
		DependentVars: []*ExprValue{v5},
		Type:          sql.Int32,
		Nullable:      true,
	}
	v2 := &ExprValue{
		Code:         "fake code;",
		Value:        "value3",
		IsNull:       "isNull3",
		DependentRow: "inputadaptor_row1",
		Type:         sql.Int32,
		Nullable:     true,
	}
	v3 := &ExprValue{
		Code:          "fake code;",
		Value:         "value4",
		IsNull:        "isNull4",
		DependentVars: []*ExprValue{v5},
		Type:          sql.Int32,
		Nullable:      true,
	}

	ctx := NewContext()
	ctx.SetCurrentVars([]*ExprValue{v0, v1, v2, v3, nil})
	ctx.SetCurrentRow("i")

	expr := function.NewIf(
		expression.NewLiteral(false, sql.Boolean),
		expression.NewPlus(
			expression.NewGetField(0, sql.Int32, "", false),
			expression.NewGetField(1, sql.Int32, "", true),
		),
		expression.NewPlus(
			expression.NewPlus(
				expression.NewGetField(2, sql.Int32, "", true),
				expression.NewGetField(3, sql.Int32, "", true),
			),
			expression.NewGetField(4, sql.Int32, "", true),
		),
	)

	return resolverFixture{ctx: ctx, expr: expr, v0: v0, v5: v5}
}

func values(vars []InputVar) []*ExprValue {
	result := make([]*ExprValue, len(vars))
	for i, v := range vars {
		result[i] = v.Value
	}
	return result
}

func TestGetInputVarsForChildren(t *testing.T) {
	require := require.New(t)
	f := newResolverFixture()

	vars, err := GetInputVarsForChildren(f.ctx, f.expr)
	require.NoError(err)
	require.Len(vars, 2)
	require.True(vars[0].Value == f.v0)
	require.True(vars[1].Value == f.v5)

	require.Equal(sql.Int32, vars[0].Type)
	require.False(vars[0].Nullable)
	require.Equal(sql.Int32, vars[1].Type)
	require.True(vars[1].Nullable)
}

func TestGetInputRowsForChildren(t *testing.T) {
	require := require.New(t)
	f := newResolverFixture()

	rows, err := GetInputRowsForChildren(f.ctx, f.expr)
	require.NoError(err)
	require.Equal([]string{"inputadaptor_row1", "i"}, rows)
}

func TestPrepareFunctionParams(t *testing.T) {
	require := require.New(t)
	f := newResolverFixture()

	vars, err := GetInputVarsForChildren(f.ctx, f.expr)
	require.NoError(err)

	params := PrepareFunctionParams(f.ctx, vars)
	require.Equal([]Param{
		{Name: "value1", Decl: "int value1"},
		{Name: "value5", Decl: "int value5"},
		{Name: "isNull5", Decl: "boolean isNull5"},
	}, params)
}

func TestResolverDeterminism(t *testing.T) {
	require := require.New(t)
	f := newResolverFixture()

	vars1, err := GetInputVarsForChildren(f.ctx, f.expr)
	require.NoError(err)
	rows1, err := GetInputRowsForChildren(f.ctx, f.expr)
	require.NoError(err)

	vars2, err := GetInputVarsForChildren(f.ctx, f.expr)
	require.NoError(err)
	rows2, err := GetInputRowsForChildren(f.ctx, f.expr)
	require.NoError(err)

	require.Equal(values(vars1), values(vars2))
	require.Equal(rows1, rows2)
	require.Equal(
		PrepareFunctionParams(f.ctx, vars1),
		PrepareFunctionParams(f.ctx, vars2),
	)
}

func TestResolverWithoutFrame(t *testing.T) {
	require := require.New(t)

	ctx := NewContext()
	ctx.SetCurrentRow("i")
	e := expression.NewPlus(
		expression.NewGetField(0, sql.Int32, "a", false),
		expression.NewGetField(1, sql.Int32, "b", true),
	)

	vars, err := GetInputVarsForChildren(ctx, e)
	require.NoError(err)
	require.Empty(vars)

	rows, err := GetInputRowsForChildren(ctx, e)
	require.NoError(err)
	require.Equal([]string{"i"}, rows)
}

func TestResolverNoRowHandle(t *testing.T) {
	require := require.New(t)

	ctx := NewContext()
	ctx.SetCurrentVars([]*ExprValue{NewVariable("value_a", "false", sql.Int32, false)})
	e := expression.NewPlus(
		expression.NewGetField(0, sql.Int32, "a", false),
		expression.NewGetField(1, sql.Int32, "b", true),
	)

	_, err := GetInputRowsForChildren(ctx, e)
	require.Error(err)
	require.True(ErrNoRowHandle.Is(err))

	ctx.SetCurrentRow("i")
	rows, err := GetInputRowsForChildren(ctx, e)
	require.NoError(err)
	require.Equal([]string{"i"}, rows)
}

func TestResolverMaterializedFrame(t *testing.T) {
	require := require.New(t)

	a := NewVariable("value_a", "isNull_a", sql.Int64, true)
	b := NewVariable("value_b", "false", sql.Int32, false)
	ctx := NewContext()
	ctx.SetCurrentVars([]*ExprValue{a, b})

	e := expression.NewMult(
		expression.NewPlus(
			expression.NewGetField(0, sql.Int64, "a", true),
			expression.NewGetField(1, sql.Int32, "b", false),
		),
		expression.NewGetField(0, sql.Int64, "a", true),
	)

	vars, err := GetInputVarsForChildren(ctx, e)
	require.NoError(err)
	require.Equal([]*ExprValue{a, b}, values(vars))

	rows, err := GetInputRowsForChildren(ctx, e)
	require.NoError(err)
	require.Empty(rows)

	require.Equal([]Param{
		{Name: "value_a", Decl: "long value_a"},
		{Name: "isNull_a", Decl: "boolean isNull_a"},
		{Name: "value_b", Decl: "int value_b"},
	}, PrepareFunctionParams(ctx, vars))
}

func TestResolverSkipsExpressionItself(t *testing.T) {
	require := require.New(t)

	ctx := NewContext()
	ctx.SetCurrentVars([]*ExprValue{NewVariable("value_a", "isNull_a", sql.Int32, true)})
	e := expression.NewGetField(0, sql.Int32, "a", true)

	vars, err := GetInputVarsForChildren(ctx, e)
	require.NoError(err)
	require.Empty(vars)

	rows, err := GetInputRowsForChildren(ctx, e)
	require.NoError(err)
	require.Empty(rows)
}

func TestResolverSharedDependencies(t *testing.T) {
	require := require.New(t)

	dep := NewVariable("value_x", "isNull_x", sql.Int32, true)
	p := &ExprValue{Code: "int value_p = value_x + 1;\n", Value: "value_p", IsNull: "isNull_x", DependentVars: []*ExprValue{dep}}
	q := &ExprValue{Code: "int value_q = value_x * 2;\n", Value: "value_q", IsNull: "isNull_x", DependentVars: []*ExprValue{dep}, DependentRow: "r"}

	ctx := NewContext()
	ctx.SetCurrentVars([]*ExprValue{p, q, dep})
	e := expression.NewPlus(
		expression.NewPlus(
			expression.NewGetField(0, sql.Int32, "p", true),
			expression.NewGetField(1, sql.Int32, "q", true),
		),
		expression.NewGetField(2, sql.Int32, "x", true),
	)

	vars, err := GetInputVarsForChildren(ctx, e)
	require.NoError(err)
	require.Equal([]*ExprValue{dep}, values(vars))

	rows, err := GetInputRowsForChildren(ctx, e)
	require.NoError(err)
	require.Equal([]string{"r"}, rows)
}

func TestResolverDeferredDependency(t *testing.T) {
	require := require.New(t)

	d := &ExprValue{Code: "int value_d = i.getInt(3);\n", Value: "value_d", IsNull: "false", Type: sql.Int32}
	p := &ExprValue{
		Code:          "int value_p = value_d + 1;\n",
		Value:         "value_p",
		IsNull:        "false",
		DependentVars: []*ExprValue{d},
		Type:          sql.Int32,
	}

	ctx := NewContext()
	ctx.SetCurrentVars([]*ExprValue{p})
	ctx.SetCurrentRow("i")
	e := expression.NewPlus(
		expression.NewGetField(0, sql.Int32, "p", false),
		expression.NewLiteral(int32(1), sql.Int32),
	)

	_, err := GetInputVarsForChildren(ctx, e)
	require.Error(err)
	require.True(ErrUnresolvedDependency.Is(err))

	cfg := DefaultConfig()
	cfg.SplitThreshold = 1
	_, err = NewGenerator(cfg).Generate(context.Background(), ctx, []sql.Expression{e})
	require.Error(err)
	require.True(ErrUnresolvedDependency.Is(err))

	d.Code = ""
	vars, err := GetInputVarsForChildren(ctx, e)
	require.NoError(err)
	require.Equal([]*ExprValue{d}, values(vars))
}

func TestPrepareFunctionParamsLiteralNullness(t *testing.T) {
	testCases := []struct {
		name     string
		input    InputVar
		expected []Param
	}{
		{
			"not nullable",
			InputVar{NewVariable("value_0", "isNull_0", sql.Int32, true), sql.Int32, false},
			[]Param{{"value_0", "int value_0"}},
		},
		{
			"literal false",
			InputVar{NewVariable("value_0", "false", sql.Int64, true), sql.Int64, true},
			[]Param{{"value_0", "long value_0"}},
		},
		{
			"literal true",
			InputVar{NewVariable("value_0", "true", sql.Text, true), sql.Text, true},
			[]Param{{"value_0", "String value_0"}},
		},
		{
			"variable",
			InputVar{NewVariable("value_0", "isNull_0", sql.Boolean, true), sql.Boolean, true},
			[]Param{{"value_0", "boolean value_0"}, {"isNull_0", "boolean isNull_0"}},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, PrepareFunctionParams(NewContext(), []InputVar{tt.input}))
		})
	}
}

func TestRowParams(t *testing.T) {
	require := require.New(t)
	require.Equal([]Param{
		{Name: "i", Decl: "InternalRow i"},
		{Name: "row_1", Decl: "InternalRow row_1"},
	}, RowParams([]string{"i", "row_1"}))
	require.Empty(RowParams(nil))
}
