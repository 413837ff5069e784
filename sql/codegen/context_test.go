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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-mysql-codegen/sql"
)

func TestContextCurrentVars(t *testing.T) {
	require := require.New(t)

	ctx := NewContext()
	vars, ok := ctx.CurrentVars()
	require.False(ok)
	require.Nil(vars)

	v := NewVariable("value_0", "false", sql.Int32, false)
	ctx.SetCurrentVars([]*ExprValue{v, nil})
	vars, ok = ctx.CurrentVars()
	require.True(ok)
	require.Equal([]*ExprValue{v, nil}, vars)

	slot, ok := ctx.slot(0)
	require.True(ok)
	require.True(slot == v)

	_, ok = ctx.slot(1)
	require.False(ok)
	_, ok = ctx.slot(2)
	require.False(ok)
	_, ok = ctx.slot(-1)
	require.False(ok)

	ctx.ClearCurrentVars()
	_, ok = ctx.CurrentVars()
	require.False(ok)

	ctx.SetCurrentVars(nil)
	vars, ok = ctx.CurrentVars()
	require.True(ok)
	require.Empty(vars)
}

func TestContextCurrentRow(t *testing.T) {
	require := require.New(t)

	ctx := NewContext()
	_, ok := ctx.CurrentRow()
	require.False(ok)

	ctx.SetCurrentRow("i")
	row, ok := ctx.CurrentRow()
	require.True(ok)
	require.Equal("i", row)

	ctx.ClearCurrentRow()
	_, ok = ctx.CurrentRow()
	require.False(ok)
}

func TestContextFreshName(t *testing.T) {
	require := require.New(t)

	ctx := NewContext()
	require.Equal("value_0", ctx.FreshName("value"))
	require.Equal("isNull_0", ctx.FreshName("isNull"))
	require.Equal("value_1", ctx.FreshName("value"))

	other := NewContext()
	require.Equal("value_0", other.FreshName("value"))
	require.NotEqual(ctx.ID(), other.ID())
	require.False(ctx.SubExprs() == other.SubExprs())
}

func TestExprValue(t *testing.T) {
	require := require.New(t)

	v := NewVariable("value_0", "isNull_0", sql.Int32, true)
	require.True(v.IsMaterialized())
	require.Equal("ExprValue(value_0, isNull_0)", v.String())

	d := &ExprValue{Code: "int value_1 = 1;\n", Value: "value_1", IsNull: "false"}
	require.False(d.IsMaterialized())
	require.Equal("ExprValue(value_1, false, deferred)", d.String())
}
