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

package sql

import (
	"fmt"

	"github.com/spf13/cast"
	"gopkg.in/src-d/go-vitess.v1/sqltypes"
	"gopkg.in/src-d/go-vitess.v1/vt/proto/query"
)

// Type represents a SQL type.
type Type interface {
	// Type returns the query.Type for the given Type.
	Type() query.Type
	// Convert a value of a compatible type to a most accurate type.
	Convert(interface{}) (interface{}, error)
	// Zero returns the golang zero value for this type.
	Zero() interface{}
	fmt.Stringer
}

var (
	// Null represents the type of the NULL literal.
	Null nullT
	// Boolean is a logical true/false value.
	Boolean booleanT
	// Text is an unbounded string.
	Text textT
)

type nullT struct{}

func (t nullT) String() string { return "NULL" }

// Type implements Type interface.
func (t nullT) Type() query.Type { return sqltypes.Null }

// Convert implements Type interface.
func (t nullT) Convert(v interface{}) (interface{}, error) {
	if v != nil {
		return nil, ErrInvalidType.New(t.String())
	}
	return nil, nil
}

// Zero implements Type interface.
func (t nullT) Zero() interface{} { return nil }

type booleanT struct{}

func (t booleanT) String() string { return "BOOLEAN" }

// Type implements Type interface. MySQL stores booleans as TINYINT.
func (t booleanT) Type() query.Type { return sqltypes.Int8 }

// Convert implements Type interface.
func (t booleanT) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	return cast.ToBoolE(v)
}

// Zero implements Type interface.
func (t booleanT) Zero() interface{} { return false }

type textT struct{}

func (t textT) String() string { return "TEXT" }

// Type implements Type interface.
func (t textT) Type() query.Type { return sqltypes.Text }

// Convert implements Type interface.
func (t textT) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	return cast.ToStringE(v)
}

// Zero implements Type interface.
func (t textT) Zero() interface{} { return "" }

// IsNull returns true if expression is nil or is Null Type, otherwise false.
func IsNull(ex Expression) bool {
	return ex == nil || ex.Type() == Null
}

// IsText checks if t is a text type.
func IsText(t Type) bool {
	return t == Text
}

// IsInteger checks if t is a signed integer type.
func IsInteger(t Type) bool {
	switch t {
	case Int8, Int16, Int32, Int64:
		return true
	}
	return false
}

// IsDecimal checks if t is a floating point type.
func IsDecimal(t Type) bool {
	return t == Float32 || t == Float64
}

// IsNumber checks if t is a number type.
func IsNumber(t Type) bool {
	return IsInteger(t) || IsDecimal(t)
}
