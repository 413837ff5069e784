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

package parse

import (
	"fmt"
	"math"
	"strconv"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-errors.v1"
	"gopkg.in/src-d/go-vitess.v1/vt/sqlparser"

	"github.com/dolthub/go-mysql-codegen/sql"
	"github.com/dolthub/go-mysql-codegen/sql/expression"
	"github.com/dolthub/go-mysql-codegen/sql/expression/function"
)

var (
	// ErrUnsupportedSyntax is thrown when a specific syntax is not already supported
	ErrUnsupportedSyntax = errors.NewKind("unsupported syntax: %#v")

	// ErrUnsupportedFeature is thrown when a feature is not already supported
	ErrUnsupportedFeature = errors.NewKind("unsupported feature: %s")

	// ErrInvalidSQLValType is returned when a SQLVal type is not valid.
	ErrInvalidSQLValType = errors.NewKind("invalid SQLVal of type: %d")
)

// Expr parses the given SQL expression and binds its columns to their
// position in the schema.
func Expr(sch sql.Schema, text string) (sql.Expression, error) {
	span := opentracing.StartSpan("parse.Expr")
	span.SetTag("expression", text)
	defer span.Finish()

	stmt, err := sqlparser.Parse("SELECT " + text)
	if err != nil {
		return nil, err
	}

	s, ok := stmt.(*sqlparser.Select)
	if !ok || len(s.SelectExprs) != 1 {
		return nil, ErrUnsupportedSyntax.New(stmt)
	}

	ae, ok := s.SelectExprs[0].(*sqlparser.AliasedExpr)
	if !ok {
		return nil, ErrUnsupportedSyntax.New(s.SelectExprs[0])
	}

	c := &converter{schema: sch, functions: function.Defaults}
	e, err := c.exprToExpression(ae.Expr)
	if err != nil {
		return nil, err
	}

	logrus.WithField("expression", text).Debugf("parsed expression: %s", e)
	return e, nil
}

type converter struct {
	schema    sql.Schema
	functions sql.Functions
}

func (c *converter) exprToExpression(e sqlparser.Expr) (sql.Expression, error) {
	switch v := e.(type) {
	default:
		return nil, ErrUnsupportedSyntax.New(e)
	case *sqlparser.ComparisonExpr:
		return c.comparisonExprToExpression(v)
	case *sqlparser.IsExpr:
		return c.isExprToExpression(v)
	case *sqlparser.NotExpr:
		child, err := c.exprToExpression(v.Expr)
		if err != nil {
			return nil, err
		}

		return expression.NewNot(child), nil
	case *sqlparser.SQLVal:
		return convertVal(v)
	case sqlparser.BoolVal:
		return expression.NewLiteral(bool(v), sql.Boolean), nil
	case *sqlparser.NullVal:
		return expression.NewLiteral(nil, sql.Null), nil
	case *sqlparser.ColName:
		return c.columnToExpression(v)
	case *sqlparser.FuncExpr:
		return c.funcExprToExpression(v)
	case *sqlparser.ParenExpr:
		return c.exprToExpression(v.Expr)
	case *sqlparser.UnaryExpr:
		return c.unaryExprToExpression(v)
	case *sqlparser.BinaryExpr:
		return c.binaryExprToExpression(v)
	}
}

func (c *converter) columnToExpression(v *sqlparser.ColName) (sql.Expression, error) {
	var table string
	if !v.Qualifier.IsEmpty() {
		table = v.Qualifier.Name.String()
	}

	name := v.Name.String()
	idx := c.schema.IndexOf(name, table)
	if idx < 0 {
		return nil, sql.ErrColumnNotFound.New(name)
	}

	col := c.schema[idx]
	return expression.NewGetFieldWithTable(idx, col.Type, col.Source, col.Name, col.Nullable), nil
}

func (c *converter) funcExprToExpression(v *sqlparser.FuncExpr) (sql.Expression, error) {
	name := v.Name.Lowered()
	fn, err := c.functions.Function(name)
	if err != nil {
		return nil, err
	}

	args := make([]sql.Expression, len(v.Exprs))
	for i, se := range v.Exprs {
		ae, ok := se.(*sqlparser.AliasedExpr)
		if !ok {
			return nil, ErrUnsupportedSyntax.New(se)
		}
		args[i], err = c.exprToExpression(ae.Expr)
		if err != nil {
			return nil, err
		}
	}

	if fn.NumArgs() != len(args) {
		return nil, sql.ErrInvalidArgumentNumber.New(name, fn.NumArgs(), len(args))
	}
	return fn.Build(args...)
}

func (c *converter) unaryExprToExpression(v *sqlparser.UnaryExpr) (sql.Expression, error) {
	child, err := c.exprToExpression(v.Expr)
	if err != nil {
		return nil, err
	}

	switch v.Operator {
	case sqlparser.UPlusStr:
		return child, nil
	case sqlparser.UMinusStr:
		if !sql.IsNumber(child.Type()) {
			return nil, ErrUnsupportedFeature.New(fmt.Sprintf("unary minus of %s", child.Type()))
		}
		return expression.NewMinus(expression.NewLiteral(child.Type().Zero(), child.Type()), child), nil
	default:
		return nil, ErrUnsupportedFeature.New(v.Operator)
	}
}

func convertVal(v *sqlparser.SQLVal) (sql.Expression, error) {
	switch v.Type {
	case sqlparser.StrVal:
		return expression.NewLiteral(string(v.Val), sql.Text), nil
	case sqlparser.IntVal:
		val, err := strconv.ParseInt(string(v.Val), 10, 64)
		if err != nil {
			return nil, err
		}
		if val >= math.MinInt32 && val <= math.MaxInt32 {
			return expression.NewLiteral(int32(val), sql.Int32), nil
		}
		return expression.NewLiteral(val, sql.Int64), nil
	case sqlparser.FloatVal:
		val, err := strconv.ParseFloat(string(v.Val), 64)
		if err != nil {
			return nil, err
		}
		return expression.NewLiteral(val, sql.Float64), nil
	}

	return nil, ErrInvalidSQLValType.New(v.Type)
}

func (c *converter) isExprToExpression(v *sqlparser.IsExpr) (sql.Expression, error) {
	e, err := c.exprToExpression(v.Expr)
	if err != nil {
		return nil, err
	}

	switch v.Operator {
	case sqlparser.IsNullStr:
		return expression.NewIsNull(e), nil
	case sqlparser.IsNotNullStr:
		return expression.NewNot(expression.NewIsNull(e)), nil
	default:
		return nil, ErrUnsupportedSyntax.New(v)
	}
}

func (c *converter) comparisonExprToExpression(v *sqlparser.ComparisonExpr) (sql.Expression, error) {
	left, err := c.exprToExpression(v.Left)
	if err != nil {
		return nil, err
	}

	right, err := c.exprToExpression(v.Right)
	if err != nil {
		return nil, err
	}

	switch v.Operator {
	default:
		return nil, ErrUnsupportedFeature.New(v.Operator)
	case sqlparser.EqualStr:
		return expression.NewEquals(left, right), nil
	case sqlparser.LessThanStr:
		return expression.NewLessThan(left, right), nil
	case sqlparser.GreaterThanStr:
		return expression.NewGreaterThan(left, right), nil
	case sqlparser.NotEqualStr:
		return expression.NewNot(expression.NewEquals(left, right)), nil
	}
}

func (c *converter) binaryExprToExpression(v *sqlparser.BinaryExpr) (sql.Expression, error) {
	switch v.Operator {
	case sqlparser.PlusStr, sqlparser.MinusStr, sqlparser.MultStr:
		l, err := c.exprToExpression(v.Left)
		if err != nil {
			return nil, err
		}

		r, err := c.exprToExpression(v.Right)
		if err != nil {
			return nil, err
		}

		return expression.NewArithmetic(l, r, v.Operator), nil
	default:
		return nil, ErrUnsupportedFeature.New(v.Operator)
	}
}
