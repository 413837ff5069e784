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

var (
	// Int8 is an integer of 8 bits
	Int8 = MustCreateNumberType(sqltypes.Int8)
	// Int16 is an integer of 16 bits
	Int16 = MustCreateNumberType(sqltypes.Int16)
	// Int32 is an integer of 32 bits.
	Int32 = MustCreateNumberType(sqltypes.Int32)
	// Int64 is an integer of 64 bits.
	Int64 = MustCreateNumberType(sqltypes.Int64)
	// Float32 is a floating point number of 32 bits.
	Float32 = MustCreateNumberType(sqltypes.Float32)
	// Float64 is a floating point number of 64 bits.
	Float64 = MustCreateNumberType(sqltypes.Float64)
)

// NumberType is a signed integer or floating point Type.
type NumberType interface {
	Type
	IsFloat() bool
}

type numberKind struct {
	name    string
	zero    interface{}
	isFloat bool
	convert func(interface{}) (interface{}, error)
}

var numberKinds = map[query.Type]numberKind{
	sqltypes.Int8: {"TINYINT", int8(0), false, func(v interface{}) (interface{}, error) {
		return cast.ToInt8E(v)
	}},
	sqltypes.Int16: {"SMALLINT", int16(0), false, func(v interface{}) (interface{}, error) {
		return cast.ToInt16E(v)
	}},
	sqltypes.Int32: {"INT", int32(0), false, func(v interface{}) (interface{}, error) {
		return cast.ToInt32E(v)
	}},
	sqltypes.Int64: {"BIGINT", int64(0), false, func(v interface{}) (interface{}, error) {
		return cast.ToInt64E(v)
	}},
	sqltypes.Float32: {"FLOAT", float32(0), true, func(v interface{}) (interface{}, error) {
		return cast.ToFloat32E(v)
	}},
	sqltypes.Float64: {"DOUBLE", float64(0), true, func(v interface{}) (interface{}, error) {
		return cast.ToFloat64E(v)
	}},
}

// numberTypeImpl only holds the base type so that equal types compare equal
// with ==.
type numberTypeImpl struct {
	baseType query.Type
}

// CreateNumberType creates a NumberType.
func CreateNumberType(baseType query.Type) (NumberType, error) {
	if _, ok := numberKinds[baseType]; !ok {
		return nil, fmt.Errorf("%v is not a valid number base type", baseType.String())
	}
	return numberTypeImpl{baseType: baseType}, nil
}

// MustCreateNumberType is the same as CreateNumberType except it panics on errors.
func MustCreateNumberType(baseType query.Type) NumberType {
	nt, err := CreateNumberType(baseType)
	if err != nil {
		panic(err)
	}
	return nt
}

func (t numberTypeImpl) kind() numberKind {
	return numberKinds[t.baseType]
}

// Convert implements Type interface.
func (t numberTypeImpl) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	return t.kind().convert(v)
}

// IsFloat implements NumberType interface.
func (t numberTypeImpl) IsFloat() bool {
	return t.kind().isFloat
}

// String implements Type interface.
func (t numberTypeImpl) String() string {
	return t.kind().name
}

// Type implements Type interface.
func (t numberTypeImpl) Type() query.Type {
	return t.baseType
}

// Zero implements Type interface.
func (t numberTypeImpl) Zero() interface{} {
	return t.kind().zero
}
