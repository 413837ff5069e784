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

	uuid "github.com/satori/go.uuid"
)

// Context is the mutable state of the code generation of one query stage:
// the current frame of materialized values, the live row handle and the
// subexpression cache. It is owned by a single driver and must not be
// shared between stages or used concurrently.
type Context struct {
	id       uuid.UUID
	frame    *frame
	row      string
	subExprs *SubExprCache
	names    map[string]int
	// retired are cached values generated by a finished program. They are
	// locals of that program and cannot be referenced by another one.
	retired  map[*ExprValue]struct{}
}

// frame is a set of variables indexed by column position. A nil slot means
// there is no variable for that position.
type frame struct {
	vars []*ExprValue
}

// NewContext creates an empty Context with no frame and no row handle.
func NewContext() *Context {
	return &Context{
		id:       uuid.NewV4(),
		subExprs: NewSubExprCache(),
		names:    make(map[string]int),
		retired:  make(map[*ExprValue]struct{}),
	}
}

// ID returns the identifier of the stage being compiled.
func (c *Context) ID() uuid.UUID {
	return c.id
}

// CurrentVars returns the current frame. The boolean is false when there is
// no frame at all, in which case every column is read from the row handle.
func (c *Context) CurrentVars() ([]*ExprValue, bool) {
	if c.frame == nil {
		return nil, false
	}
	return c.frame.vars, true
}

// SetCurrentVars replaces the current frame. Slots may be nil.
func (c *Context) SetCurrentVars(vars []*ExprValue) {
	c.frame = &frame{vars: vars}
}

// ClearCurrentVars removes the current frame.
func (c *Context) ClearCurrentVars() {
	c.frame = nil
}

// slot returns the variable at the given position of the current frame and
// whether there is one.
func (c *Context) slot(idx int) (*ExprValue, bool) {
	if c.frame == nil || idx < 0 || idx >= len(c.frame.vars) {
		return nil, false
	}
	v := c.frame.vars[idx]
	return v, v != nil
}

// CurrentRow returns the name of the live row handle, if any.
func (c *Context) CurrentRow() (string, bool) {
	return c.row, c.row != ""
}

// SetCurrentRow sets the name of the live row handle.
func (c *Context) SetCurrentRow(name string) {
	c.row = name
}

// ClearCurrentRow removes the live row handle.
func (c *Context) ClearCurrentRow() {
	c.row = ""
}

// SubExprs returns the subexpression cache of this context.
func (c *Context) SubExprs() *SubExprCache {
	return c.subExprs
}

// FreshName returns an identifier with the given prefix that was not
// returned before by this context. Names are numbered per prefix in
// request order.
func (c *Context) FreshName(prefix string) string {
	n := c.names[prefix]
	c.names[prefix] = n + 1
	return fmt.Sprintf("%s_%d", prefix, n)
}

func (c *Context) retire(values []*ExprValue) {
	for _, v := range values {
		c.retired[v] = struct{}{}
	}
}

func (c *Context) isRetired(v *ExprValue) bool {
	_, ok := c.retired[v]
	return ok
}
