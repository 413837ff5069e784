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
)

func TestIsLiteral(t *testing.T) {
	literals := []string{
		"true", "false", "null",
		"1", "-1", "0", "1234567890",
		"1L", "-1L",
		"1.0f", "-1.0f", "0.1f", "-0.1f", "1f", "1.f",
		`"string"`, `""`, `"with \"quotes\" and \\"`,
		"(byte)-1", "(byte)1", "(short)-1", "(short)12",
	}
	for _, code := range literals {
		t.Run(code, func(t *testing.T) {
			require.True(t, IsLiteral(code), "%s should be a literal", code)
		})
	}

	variables := []string{
		"var1", "_var2", "$var3", "v1a2r3", "_1v2a3r", "$1v2a3r",
		"isNull_0", "value_12", "subExpr_0_isNull",
		"", "True", "NULL", "1.0", "2.5D", "1.0F", "1l", "--1", "1e3f",
		`"unterminated`, `"a" + "b"`, `"bad\"`,
		"(int)1", "(byte)x", "(short) 1",
		"!isNull_0", "a || b", "Float.NaN",
	}
	for _, code := range variables {
		t.Run(code, func(t *testing.T) {
			require.False(t, IsLiteral(code), "%s should not be a literal", code)
		})
	}
}
