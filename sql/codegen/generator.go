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
	"os"
	"sort"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-mysql-codegen/sql"
)

const debugCodegenKey = "DEBUG_CODEGEN"

// ErrUnsupportedExpression is returned when there is no code template for
// an expression.
var ErrUnsupportedExpression = errors.NewKind("code generation is not supported for expression %T: %s")

// Generator generates code for expression forests, sharing common
// subexpressions and moving large expressions to their own functions.
type Generator struct {
	Config Config
	// Whether to log various debugging messages
	Debug    bool
	debugCtx []string
}

// NewGenerator creates a Generator with the given configuration. Debug
// logging is enabled by the configuration or the DEBUG_CODEGEN environment
// variable.
func NewGenerator(cfg Config) *Generator {
	_, debug := os.LookupEnv(debugCodegenKey)
	return &Generator{
		Config: cfg,
		Debug:  debug || cfg.Debug,
	}
}

// Log prints an INFO message to stdout with the given message and args
// if the generator is in debug mode.
func (g *Generator) Log(msg string, args ...interface{}) {
	if g != nil && g.Debug {
		if len(g.debugCtx) > 0 {
			ctx := strings.Join(g.debugCtx, "/")
			logrus.Infof("%s: "+msg, append([]interface{}{ctx}, args...)...)
		} else {
			logrus.Infof(msg, args...)
		}
	}
}

// PushDebugContext pushes the given context string onto the context stack, to use when logging debug messages.
func (g *Generator) PushDebugContext(msg string) {
	if g != nil {
		g.debugCtx = append(g.debugCtx, msg)
	}
}

// PopDebugContext pops a context message off the context stack.
func (g *Generator) PopDebugContext() {
	if g != nil && len(g.debugCtx) > 0 {
		g.debugCtx = g.debugCtx[:len(g.debugCtx)-1]
	}
}

// Generate generates the code evaluating every expression of exprs with the
// frame and row handle of cg. Common subexpressions found are registered in
// the subexpression cache of cg. Any error aborts the generation of the
// whole forest. Values registered by a previous call on the same context
// are locals of another program and are generated again instead of reused.
func (g *Generator) Generate(ctx context.Context, cg *Context, exprs []sql.Expression) (*Program, error) {
	if err := g.Config.Validate(); err != nil {
		return nil, err
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "codegen.Generate")
	span.SetTag("expressions", len(exprs))
	defer span.Finish()

	g.PushDebugContext(cg.ID().String())
	defer g.PopDebugContext()
	g.Log("generating code for %d expressions", len(exprs))

	gen := &generation{
		g:       g,
		ctx:     cg,
		prog:    &Program{},
		emitted: make(map[*ExprValue]struct{}),
	}
	defer func() { cg.retire(gen.registered) }()

	if g.Config.SubExprElimination {
		if err := gen.eliminateSubExprs(ctx, exprs); err != nil {
			return nil, err
		}
	}

	for i, e := range exprs {
		v, err := gen.genTop(ctx, e)
		if err != nil {
			g.Log("unable to generate expression %d: %s", i, err)
			return nil, err
		}
		gen.prog.Results = append(gen.prog.Results, v)
	}

	gen.prog.Body = gen.body.String()
	g.Log("generated %d functions", len(gen.prog.Functions))
	return gen.prog, nil
}

// generation is the state of one call to Generate.
type generation struct {
	g    *Generator
	ctx  *Context
	prog *Program
	body strings.Builder
	// emitted holds the deferred values whose code is already in scope of
	// the code being generated.
	emitted map[*ExprValue]struct{}
	// registered are the values this generation added to the cache.
	registered []*ExprValue
}

// cached returns the value of e in the subexpression cache, unless it was
// generated by another program.
func (gen *generation) cached(e sql.Expression) (*ExprValue, bool) {
	cache := gen.ctx.SubExprs()
	if !cache.Contains(e) {
		return nil, false
	}
	v, err := cache.Lookup(e)
	if err != nil || gen.ctx.isRetired(v) {
		return nil, false
	}
	return v, true
}

// eliminateSubExprs generates every common subexpression of exprs once, in
// its own function, and registers its result in the cache. Inner
// subexpressions are generated first so outer ones can reuse them.
func (gen *generation) eliminateSubExprs(ctx context.Context, exprs []sql.Expression) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "codegen.subexprs")
	defer span.Finish()

	ee := NewEquivalentExprs()
	for _, e := range exprs {
		ee.AddTree(e)
	}

	common := ee.Common()
	sort.SliceStable(common, func(i, j int) bool {
		return height(common[i]) < height(common[j])
	})
	span.SetTag("subexpressions", len(common))

	for _, e := range common {
		if _, ok := gen.cached(e); ok {
			continue
		}

		gen.g.Log("eliminating common subexpression %s", e)
		v, err := gen.genFunction(gen.ctx.FreshName("subExpr"), e)
		if err != nil {
			return err
		}
		gen.ctx.SubExprs().Register(e, v)
		gen.registered = append(gen.registered, v)
	}
	return nil
}

// genTop generates one expression of the forest in the main body, or in its
// own function if its code is larger than the split threshold.
func (gen *generation) genTop(ctx context.Context, e sql.Expression) (*ExprValue, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "codegen.expr")
	defer span.Finish()

	snapshot := gen.snapshot()
	v, err := gen.genExpr(e)
	if err != nil {
		return nil, err
	}

	threshold := gen.g.Config.SplitThreshold
	if threshold > 0 && len(v.Code) > threshold && len(e.Children()) > 0 {
		gen.g.Log("splitting expression of %d characters: %s", len(v.Code), e)
		span.SetTag("split", true)
		gen.emitted = snapshot
		return gen.genFunction(gen.ctx.FreshName(gen.g.Config.FunctionPrefix), e)
	}

	gen.body.WriteString(v.Code)
	return materialized(v), nil
}

// genFunction generates e in a new function with the given name and emits a
// call to it in the main body. It returns the value holding the result after
// the call.
func (gen *generation) genFunction(name string, e sql.Expression) (*ExprValue, error) {
	params, err := gen.params(e)
	if err != nil {
		return nil, err
	}

	outer := gen.emitted
	gen.emitted = make(map[*ExprValue]struct{})
	v, err := gen.genExpr(e)
	gen.emitted = outer
	if err != nil {
		return nil, err
	}

	typ := JavaType(e.Type())
	var body strings.Builder
	body.WriteString(v.Code)

	result := &ExprValue{
		Value:    gen.ctx.FreshName("value"),
		IsNull:   "false",
		Type:     e.Type(),
		Nullable: e.IsNullable(),
	}

	fn := &Function{
		Name:       name,
		Params:     params,
		ReturnType: typ,
	}

	var isNullField string
	if e.IsNullable() {
		isNullField = name + "_isNull"
		gen.prog.Fields = append(gen.prog.Fields, "private boolean "+isNullField+";")
		body.WriteString(isNullField + " = " + v.IsNull + ";\n")
	}
	body.WriteString("return " + v.Value + ";\n")
	fn.Body = body.String()
	gen.prog.Functions = append(gen.prog.Functions, fn)

	gen.body.WriteString(typ + " " + result.Value + " = " + fn.Call() + ";\n")
	if isNullField != "" {
		result.IsNull = gen.ctx.FreshName("isNull")
		gen.body.WriteString("boolean " + result.IsNull + " = " + isNullField + ";\n")
	}
	gen.g.Log("generated function %s", fn.Signature())
	return result, nil
}

// params returns the parameters of a function generating e: the row handles
// its columns are read from, the variables they depend on and the values of
// the cached subexpressions inside it.
func (gen *generation) params(e sql.Expression) ([]Param, error) {
	rows, err := GetInputRowsForChildren(gen.ctx, e)
	if err != nil {
		return nil, err
	}

	vars, err := GetInputVarsForChildren(gen.ctx, e)
	if err != nil {
		return nil, err
	}

	cache := gen.ctx.SubExprs()
	hits := cache.GetSubExprInChildren(e)
	codes, err := cache.GetSubExprCodes(hits)
	if err != nil {
		return nil, err
	}
	for i, v := range codes {
		if v.IsMaterialized() && !gen.ctx.isRetired(v) {
			vars = append(vars, InputVar{Value: v, Type: hits[i].Type(), Nullable: hits[i].IsNullable()})
		}
	}

	params := append(RowParams(rows), PrepareFunctionParams(gen.ctx, dedupValues(vars))...)
	return dedupParams(params), nil
}

func dedupParams(params []Param) []Param {
	seen := make(map[string]struct{}, len(params))
	result := make([]Param, 0, len(params))
	for _, p := range params {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		result = append(result, p)
	}
	return result
}

func (gen *generation) snapshot() map[*ExprValue]struct{} {
	copied := make(map[*ExprValue]struct{}, len(gen.emitted))
	for v := range gen.emitted {
		copied[v] = struct{}{}
	}
	return copied
}

// use returns the code to emit before referencing v: its code if it is
// deferred and not emitted yet in the current scope, nothing otherwise.
func (gen *generation) use(v *ExprValue) string {
	if v.IsMaterialized() {
		return ""
	}
	if _, ok := gen.emitted[v]; ok {
		return ""
	}
	gen.emitted[v] = struct{}{}
	return v.Code
}

// materialized returns a copy of v without code.
func materialized(v *ExprValue) *ExprValue {
	return &ExprValue{
		Value:    v.Value,
		IsNull:   v.IsNull,
		Type:     v.Type,
		Nullable: v.Nullable,
	}
}

func height(e sql.Expression) int {
	h := 0
	for _, c := range e.Children() {
		if ch := height(c); ch > h {
			h = ch
		}
	}
	return h + 1
}
