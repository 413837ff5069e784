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
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/dolthub/go-mysql-codegen/sql"
)

type javaRepr struct {
	name         string
	defaultValue string
	getter       string
}

var javaReprs = map[sql.Type]javaRepr{
	sql.Boolean: {"boolean", "false", "getBoolean"},
	sql.Int8:    {"byte", "(byte)-1", "getByte"},
	sql.Int16:   {"short", "(short)-1", "getShort"},
	sql.Int32:   {"int", "-1", "getInt"},
	sql.Int64:   {"long", "-1L", "getLong"},
	sql.Float32: {"float", "-1.0f", "getFloat"},
	sql.Float64: {"double", "-1.0", "getDouble"},
	sql.Text:    {"String", "null", "getString"},
}

var objectRepr = javaRepr{"Object", "null", "get"}

func reprOf(t sql.Type) javaRepr {
	if r, ok := javaReprs[t]; ok {
		return r
	}
	return objectRepr
}

// JavaType returns the name of the generated representation of t.
func JavaType(t sql.Type) string {
	return reprOf(t).name
}

// DefaultValue returns the code text of the placeholder value of t, used
// when the value is null.
func DefaultValue(t sql.Type) string {
	return reprOf(t).defaultValue
}

// RowGetter returns the name of the row method reading a column of type t.
func RowGetter(t sql.Type) string {
	return reprOf(t).getter
}

// LiteralCode renders v as code text of type t. Nil renders as null.
func LiteralCode(t sql.Type, v interface{}) (string, error) {
	if v == nil {
		return "null", nil
	}

	switch t {
	case sql.Boolean:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case sql.Int8:
		n, err := cast.ToInt8E(v)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(byte)%d", n), nil
	case sql.Int16:
		n, err := cast.ToInt16E(v)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(short)%d", n), nil
	case sql.Int32:
		n, err := cast.ToInt32E(v)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(int64(n), 10), nil
	case sql.Int64:
		n, err := cast.ToInt64E(v)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10) + "L", nil
	case sql.Float32:
		f, err := cast.ToFloat32E(v)
		if err != nil {
			return "", err
		}
		return floatCode(float64(f), 32, "Float", "f"), nil
	case sql.Float64:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return "", err
		}
		return floatCode(f, 64, "Double", "D"), nil
	case sql.Text:
		s, err := cast.ToStringE(v)
		if err != nil {
			return "", err
		}
		return quote(s), nil
	}

	return "", sql.ErrInvalidType.New(fmt.Sprint(t))
}

func floatCode(f float64, bitSize int, class, suffix string) string {
	switch {
	case math.IsNaN(f):
		return class + ".NaN"
	case math.IsInf(f, 1):
		return class + ".POSITIVE_INFINITY"
	case math.IsInf(f, -1):
		return class + ".NEGATIVE_INFINITY"
	}
	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + suffix
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
