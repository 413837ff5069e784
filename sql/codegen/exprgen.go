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
	"strings"

	"github.com/dolthub/go-mysql-codegen/sql"
	"github.com/dolthub/go-mysql-codegen/sql/expression"
	"github.com/dolthub/go-mysql-codegen/sql/expression/function"
)

// genExpr generates the code of e. The returned value holds the code to
// emit before its value and nullness can be referenced.
func (gen *generation) genExpr(e sql.Expression) (*ExprValue, error) {
	if v, ok := gen.cached(e); ok {
		return gen.reference(v, e.IsNullable()), nil
	}

	switch e := e.(type) {
	case *expression.Literal:
		return genLiteral(e)
	case *expression.GetField:
		return gen.genGetField(e)
	case *expression.Arithmetic:
		return gen.genBinary(e, e.Left, e.Right, func(l, r string) string {
			return narrow(e.Type(), l+" "+e.Op+" "+r)
		})
	case expression.Comparer:
		return gen.genBinary(e, e.Left(), e.Right(), func(l, r string) string {
			return compare(e.Left().Type(), e.Operator(), l, r)
		})
	case *expression.Not:
		return gen.genUnary(e, e.Child, func(c string) string { return "!" + c })
	case *expression.IsNull:
		return gen.genIsNull(e)
	case *function.If:
		return gen.genIf(e)
	case *function.IfNull:
		return gen.genIfNull(e)
	default:
		return nil, ErrUnsupportedExpression.New(e, e)
	}
}

// reference returns the code referencing v from an expression declared with
// the given nullability.
func (gen *generation) reference(v *ExprValue, nullable bool) *ExprValue {
	ref := &ExprValue{
		Code:     gen.use(v),
		Value:    v.Value,
		IsNull:   v.IsNull,
		Type:     v.Type,
		Nullable: nullable,
	}
	if !nullable {
		ref.IsNull = "false"
	}
	return ref
}

func genLiteral(e *expression.Literal) (*ExprValue, error) {
	if e.Value() == nil {
		return &ExprValue{Value: DefaultValue(e.Type()), IsNull: "true", Type: e.Type(), Nullable: true}, nil
	}

	code, err := LiteralCode(e.Type(), e.Value())
	if err != nil {
		return nil, err
	}
	return &ExprValue{Value: code, IsNull: "false", Type: e.Type()}, nil
}

func (gen *generation) genGetField(e *expression.GetField) (*ExprValue, error) {
	if v, ok := gen.ctx.slot(e.Index()); ok {
		return gen.reference(v, e.IsNullable()), nil
	}

	row, ok := gen.ctx.CurrentRow()
	if !ok {
		return nil, ErrNoRowHandle.New(e)
	}

	typ := e.Type()
	value := gen.ctx.FreshName("value")
	read := fmt.Sprintf("%s.%s(%d)", row, RowGetter(typ), e.Index())
	if !e.IsNullable() {
		return &ExprValue{
			Code:  fmt.Sprintf("%s %s = %s;\n", JavaType(typ), value, read),
			Value: value, IsNull: "false", Type: typ,
		}, nil
	}

	isNull := gen.ctx.FreshName("isNull")
	code := fmt.Sprintf("boolean %s = %s.isNullAt(%d);\n", isNull, row, e.Index()) +
		fmt.Sprintf("%s %s = %s ? %s : %s;\n", JavaType(typ), value, isNull, DefaultValue(typ), read)
	return &ExprValue{Code: code, Value: value, IsNull: isNull, Type: typ, Nullable: true}, nil
}

// genBinary generates a null-intolerant operation of two operands: the
// result is null when either operand is.
func (gen *generation) genBinary(
	e sql.Expression,
	left, right sql.Expression,
	op func(l, r string) string,
) (*ExprValue, error) {
	l, err := gen.genExpr(left)
	if err != nil {
		return nil, err
	}
	r, err := gen.genExpr(right)
	if err != nil {
		return nil, err
	}

	typ := e.Type()
	jt := JavaType(typ)
	value := gen.ctx.FreshName("value")
	code := l.Code + r.Code

	isNull := or(l.IsNull, r.IsNull)
	if !e.IsNullable() || isNull == "false" {
		code += fmt.Sprintf("%s %s = %s;\n", jt, value, op(l.Value, r.Value))
		return &ExprValue{Code: code, Value: value, IsNull: "false", Type: typ}, nil
	}

	isNullVar := gen.ctx.FreshName("isNull")
	code += fmt.Sprintf("boolean %s = %s;\n", isNullVar, isNull) +
		fmt.Sprintf("%s %s = %s;\n", jt, value, DefaultValue(typ)) +
		fmt.Sprintf("if (!%s) {\n  %s = %s;\n}\n", isNullVar, value, op(l.Value, r.Value))
	return &ExprValue{Code: code, Value: value, IsNull: isNullVar, Type: typ, Nullable: true}, nil
}

func (gen *generation) genUnary(e sql.Expression, child sql.Expression, op func(c string) string) (*ExprValue, error) {
	c, err := gen.genExpr(child)
	if err != nil {
		return nil, err
	}

	typ := e.Type()
	value := gen.ctx.FreshName("value")
	code := c.Code + fmt.Sprintf("%s %s = %s;\n", JavaType(typ), value, op(c.Value))
	if !e.IsNullable() {
		return &ExprValue{Code: code, Value: value, IsNull: "false", Type: typ}, nil
	}
	return &ExprValue{Code: code, Value: value, IsNull: c.IsNull, Type: typ, Nullable: true}, nil
}

func (gen *generation) genIsNull(e *expression.IsNull) (*ExprValue, error) {
	c, err := gen.genExpr(e.Child)
	if err != nil {
		return nil, err
	}
	return &ExprValue{Code: c.Code, Value: c.IsNull, IsNull: "false", Type: e.Type()}, nil
}

func (gen *generation) genIf(e *function.If) (*ExprValue, error) {
	children := e.Children()
	cond, err := gen.genExpr(children[0])
	if err != nil {
		return nil, err
	}

	var branches [2]*ExprValue
	for i, child := range children[1:] {
		snapshot := gen.snapshot()
		branches[i], err = gen.genExpr(child)
		gen.emitted = snapshot
		if err != nil {
			return nil, err
		}
	}

	typ := e.Type()
	value := gen.ctx.FreshName("value")
	isNull := gen.ctx.FreshName("isNull")

	test := cond.Value
	if cond.IsNull != "false" {
		test = fmt.Sprintf("!%s && %s", cond.IsNull, cond.Value)
	}

	var sb strings.Builder
	sb.WriteString(cond.Code)
	fmt.Fprintf(&sb, "boolean %s = false;\n", isNull)
	fmt.Fprintf(&sb, "%s %s = %s;\n", JavaType(typ), value, DefaultValue(typ))
	fmt.Fprintf(&sb, "if (%s) {\n%s} else {\n%s}\n",
		test, indent(assign(branches[0], value, isNull)), indent(assign(branches[1], value, isNull)))

	if !e.IsNullable() {
		return &ExprValue{Code: sb.String(), Value: value, IsNull: "false", Type: typ}, nil
	}
	return &ExprValue{Code: sb.String(), Value: value, IsNull: isNull, Type: typ, Nullable: true}, nil
}

func (gen *generation) genIfNull(e *function.IfNull) (*ExprValue, error) {
	l, err := gen.genExpr(e.Left)
	if err != nil {
		return nil, err
	}
	if l.IsNull == "false" {
		return l, nil
	}

	snapshot := gen.snapshot()
	r, err := gen.genExpr(e.Right)
	gen.emitted = snapshot
	if err != nil {
		return nil, err
	}

	typ := e.Type()
	value := gen.ctx.FreshName("value")
	isNull := gen.ctx.FreshName("isNull")

	var sb strings.Builder
	sb.WriteString(l.Code)
	fmt.Fprintf(&sb, "boolean %s = %s;\n", isNull, l.IsNull)
	fmt.Fprintf(&sb, "%s %s = %s;\n", JavaType(typ), value, l.Value)
	fmt.Fprintf(&sb, "if (%s) {\n%s}\n", isNull, indent(assign(r, value, isNull)))

	if !e.IsNullable() {
		return &ExprValue{Code: sb.String(), Value: value, IsNull: "false", Type: typ}, nil
	}
	return &ExprValue{Code: sb.String(), Value: value, IsNull: isNull, Type: typ, Nullable: true}, nil
}

// assign returns the code evaluating v and storing it in value and isNull.
func assign(v *ExprValue, value, isNull string) string {
	return v.Code +
		fmt.Sprintf("%s = %s;\n", isNull, v.IsNull) +
		fmt.Sprintf("%s = %s;\n", value, v.Value)
}

// or returns the disjunction of two nullness codes.
func or(a, b string) string {
	switch {
	case a == "false":
		return b
	case b == "false":
		return a
	case a == "true" || b == "true":
		return "true"
	default:
		return a + " || " + b
	}
}

// narrow casts the result of an arithmetic operation back to byte or short,
// which Java promotes to int.
func narrow(t sql.Type, code string) string {
	switch t {
	case sql.Int8, sql.Int16:
		return fmt.Sprintf("(%s)(%s)", JavaType(t), code)
	}
	return code
}

func compare(t sql.Type, op, l, r string) string {
	if !sql.IsText(t) {
		return l + " " + op + " " + r
	}
	if op == "==" {
		return l + ".equals(" + r + ")"
	}
	return l + ".compareTo(" + r + ") " + op + " 0"
}
