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

package expression

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-mysql-codegen/sql"
)

func TestLiteral(t *testing.T) {
	testCases := []struct {
		name     string
		value    interface{}
		typ      sql.Type
		str      string
		nullable bool
	}{
		{"null", nil, sql.Null, "NULL", true},
		{"typed null", nil, sql.Int32, "NULL", true},
		{"int", int32(5), sql.Int32, "5", false},
		{"text", "foo", sql.Text, `"foo"`, false},
		{"bool", true, sql.Boolean, "true", false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			l := NewLiteral(tt.value, tt.typ)
			require.Equal(tt.value, l.Value())
			require.Equal(tt.typ, l.Type())
			require.Equal(tt.str, l.String())
			require.Equal(tt.nullable, l.IsNullable())
			require.True(l.Resolved())
			require.Nil(l.Children())

			same, err := l.WithChildren()
			require.NoError(err)
			require.True(same == sql.Expression(l))

			_, err = l.WithChildren(l)
			require.True(sql.ErrInvalidChildrenNumber.Is(err))
		})
	}
}

func TestGetField(t *testing.T) {
	require := require.New(t)

	gf := NewGetFieldWithTable(2, sql.Int64, "t", "a", true)
	require.Equal(2, gf.Index())
	require.Equal("t", gf.Table())
	require.Equal("a", gf.Name())
	require.Equal(sql.Int64, gf.Type())
	require.True(gf.IsNullable())
	require.Equal("t.a", gf.String())
	require.Nil(gf.Children())

	moved := gf.WithIndex(5).(*GetField)
	require.Equal(5, moved.Index())
	require.Equal(2, gf.Index())

	require.Equal("ref3", NewGetField(3, sql.Int32, "", false).String())
	require.Equal(NewGetFieldWithTable(0, sql.Text, "", "b", false), NewGetField(0, sql.Text, "b", false))
}
