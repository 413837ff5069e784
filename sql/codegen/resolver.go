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
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-mysql-codegen/sql"
	"github.com/dolthub/go-mysql-codegen/sql/expression"
)

// ErrNoRowHandle is returned when a column has to be read from the live row
// but the context has no row handle. It is a bug in the driver, not a user
// error.
var ErrNoRowHandle = errors.NewKind("column %s has no variable and there is no row handle to read it from")

// ErrUnresolvedDependency is returned when the code of a deferred variable
// depends on another deferred variable. The producer of a frame value must
// materialize its own dependencies before the value is read.
var ErrUnresolvedDependency = errors.NewKind("variable %s needed by %s of column %s is not materialized")

// InputVar is a variable required by a generated function, along with the
// declared type and nullability it is read with.
type InputVar struct {
	Value    *ExprValue
	Type     sql.Type
	Nullable bool
}

// Param is a parameter of a generated function: the name passed at the call
// site and its declaration in the signature.
type Param struct {
	Name string
	Decl string
}

// columnReads returns the column reads under e, excluding e itself, depth
// first and left to right.
func columnReads(e sql.Expression) []*expression.GetField {
	var fields []*expression.GetField
	expression.InspectChildren(e, func(e sql.Expression) bool {
		if gf, ok := e.(*expression.GetField); ok {
			fields = append(fields, gf)
		}
		return true
	})
	return fields
}

// GetInputVarsForChildren returns the variables needed to generate the
// children of e in a separate function. A column with a materialized
// variable needs that variable. A column with a deferred variable needs
// every variable that the deferred code depends on, because that code is
// emitted inside the function. Dependencies are followed one level only, so
// each of them must already be materialized; a deferred dependency fails
// with ErrUnresolvedDependency. Columns without a variable are read from a
// row handle and need none. Each variable is returned once, in the order it
// is first needed.
func GetInputVarsForChildren(ctx *Context, e sql.Expression) ([]InputVar, error) {
	var vars []InputVar
	for _, gf := range columnReads(e) {
		v, ok := ctx.slot(gf.Index())
		if !ok {
			continue
		}

		if v.IsMaterialized() {
			vars = append(vars, InputVar{Value: v, Type: gf.Type(), Nullable: gf.IsNullable()})
			continue
		}

		for _, dep := range v.DependentVars {
			if !dep.IsMaterialized() {
				return nil, ErrUnresolvedDependency.New(dep.Value, v.Value, gf)
			}
			vars = append(vars, InputVar{Value: dep, Type: dep.Type, Nullable: dep.Nullable})
		}
	}
	return dedupValues(vars), nil
}

// GetInputRowsForChildren returns the row handles needed to generate the
// children of e in a separate function. A column with a materialized
// variable needs no row. A column with a deferred variable needs the row its
// code depends on, if any. A column without a variable is read from the live
// row handle. Each handle is returned once, in the order it is first needed.
func GetInputRowsForChildren(ctx *Context, e sql.Expression) ([]string, error) {
	var rows []string
	for _, gf := range columnReads(e) {
		if v, ok := ctx.slot(gf.Index()); ok {
			if !v.IsMaterialized() && v.DependentRow != "" {
				rows = append(rows, v.DependentRow)
			}
			continue
		}

		row, ok := ctx.CurrentRow()
		if !ok {
			return nil, ErrNoRowHandle.New(gf)
		}
		rows = append(rows, row)
	}
	return dedupStrings(rows), nil
}

// PrepareFunctionParams returns the parameters passing the given variables
// to a generated function, in order. Every variable is passed by value. Its
// nullness is passed too, right after it, unless it is declared not
// nullable or its nullness is a literal that the function can inline.
func PrepareFunctionParams(ctx *Context, inputs []InputVar) []Param {
	params := make([]Param, 0, len(inputs))
	for _, in := range inputs {
		params = append(params, Param{
			Name: in.Value.Value,
			Decl: JavaType(in.Type) + " " + in.Value.Value,
		})
		if in.Nullable && !IsLiteral(in.Value.IsNull) {
			params = append(params, Param{
				Name: in.Value.IsNull,
				Decl: "boolean " + in.Value.IsNull,
			})
		}
	}
	return params
}

// RowParams returns the parameters passing the given row handles to a
// generated function.
func RowParams(rows []string) []Param {
	params := make([]Param, len(rows))
	for i, row := range rows {
		params[i] = Param{Name: row, Decl: "InternalRow " + row}
	}
	return params
}
