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
	"reflect"

	"github.com/mitchellh/hashstructure"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-mysql-codegen/sql"
	"github.com/dolthub/go-mysql-codegen/sql/expression"
)

// ErrSubExprNotRegistered is returned when a subexpression is looked up in
// the cache without having been registered before. It is a bug in the
// driver, not a user error.
var ErrSubExprNotRegistered = errors.NewKind("subexpression %s is not registered in the cache")

// exprKey is the structural key of an expression tree. Two trees equal by
// value always have the same key. It holds no floating point values, so keys
// compare equal even when the trees contain NaN literals.
type exprKey struct {
	Kind     string
	Desc     string
	Type     string
	Nullable bool
	// Index is the position read by a column, -1 for other nodes.
	Index    int
	Children []exprKey
}

type indexed interface {
	Index() int
}

func keyOf(e sql.Expression) exprKey {
	children := e.Children()
	key := exprKey{
		Kind:     fmt.Sprintf("%T", e),
		Desc:     e.String(),
		Type:     fmt.Sprint(e.Type()),
		Nullable: e.IsNullable(),
		Index:    -1,
		Children: make([]exprKey, len(children)),
	}
	if ix, ok := e.(indexed); ok {
		key.Index = ix.Index()
	}
	for i, c := range children {
		key.Children[i] = keyOf(c)
	}
	return key
}

// hashKey hashes the structure of a tree.
func hashKey(key exprKey) uint64 {
	hash, err := hashstructure.Hash(key, nil)
	if err != nil {
		// exprKey only holds strings, ints, bools and slices of itself.
		panic(fmt.Sprintf("unable to hash expression %s: %s", key.Desc, err))
	}
	return hash
}

type subExprEntry struct {
	key   exprKey
	expr  sql.Expression
	value *ExprValue
}

// SubExprCache maps expression subtrees to the value generated for them.
// Subtrees are matched by structure: two trees built independently are the
// same entry if their structural keys are equal.
type SubExprCache struct {
	buckets map[uint64][]*subExprEntry
}

// NewSubExprCache creates an empty cache.
func NewSubExprCache() *SubExprCache {
	return &SubExprCache{buckets: make(map[uint64][]*subExprEntry)}
}

func (c *SubExprCache) entry(key exprKey) *subExprEntry {
	for _, entry := range c.buckets[hashKey(key)] {
		if reflect.DeepEqual(entry.key, key) {
			return entry
		}
	}
	return nil
}

// Register associates the given subtree with a value. Registering a subtree
// equal to one already in the cache replaces its value.
func (c *SubExprCache) Register(e sql.Expression, v *ExprValue) {
	key := keyOf(e)
	if entry := c.entry(key); entry != nil {
		entry.value = v
		return
	}
	hash := hashKey(key)
	c.buckets[hash] = append(c.buckets[hash], &subExprEntry{key: key, expr: e, value: v})
}

// Contains reports whether the given subtree was registered.
func (c *SubExprCache) Contains(e sql.Expression) bool {
	return c.entry(keyOf(e)) != nil
}

// Lookup returns the value registered for the given subtree.
func (c *SubExprCache) Lookup(e sql.Expression) (*ExprValue, error) {
	entry := c.entry(keyOf(e))
	if entry == nil {
		return nil, ErrSubExprNotRegistered.New(e)
	}
	return entry.value, nil
}

// Len returns the number of distinct subtrees in the cache.
func (c *SubExprCache) Len() int {
	var n int
	for _, b := range c.buckets {
		n += len(b)
	}
	return n
}

// GetSubExprInChildren returns, in pre-order, every strict subtree of e that
// is registered in the cache. Registered subtrees nested in other registered
// subtrees are returned as well.
func (c *SubExprCache) GetSubExprInChildren(e sql.Expression) []sql.Expression {
	var result []sql.Expression
	expression.InspectChildren(e, func(child sql.Expression) bool {
		if child != nil && c.Contains(child) {
			result = append(result, child)
		}
		return true
	})
	return result
}

// GetSubExprCodes returns the values registered for the given subtrees, in
// the same order.
func (c *SubExprCache) GetSubExprCodes(es []sql.Expression) ([]*ExprValue, error) {
	result := make([]*ExprValue, len(es))
	for i, e := range es {
		v, err := c.Lookup(e)
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

type equivalence struct {
	key   exprKey
	expr  sql.Expression
	count int
}

// EquivalentExprs counts the structurally equal subtrees of an expression
// forest.
type EquivalentExprs struct {
	buckets map[uint64][]*equivalence
	order   []*equivalence
}

// NewEquivalentExprs creates an empty EquivalentExprs.
func NewEquivalentExprs() *EquivalentExprs {
	return &EquivalentExprs{buckets: make(map[uint64][]*equivalence)}
}

// add records one occurrence of e and reports whether it was seen before.
func (ee *EquivalentExprs) add(e sql.Expression) bool {
	key := keyOf(e)
	if eq := ee.find(key); eq != nil {
		eq.count++
		return true
	}
	hash := hashKey(key)
	eq := &equivalence{key: key, expr: e, count: 1}
	ee.buckets[hash] = append(ee.buckets[hash], eq)
	ee.order = append(ee.order, eq)
	return false
}

// AddTree records every subtree of e, including e. The children of a subtree
// seen before are not visited again, so a repeated subtree does not also
// count the subtrees inside it.
func (ee *EquivalentExprs) AddTree(e sql.Expression) {
	if ee.add(e) {
		return
	}
	for _, child := range e.Children() {
		ee.AddTree(child)
	}
}

// Count returns how many times a subtree equal to e was recorded.
func (ee *EquivalentExprs) Count(e sql.Expression) int {
	if eq := ee.find(keyOf(e)); eq != nil {
		return eq.count
	}
	return 0
}

func (ee *EquivalentExprs) find(key exprKey) *equivalence {
	for _, eq := range ee.buckets[hashKey(key)] {
		if reflect.DeepEqual(eq.key, key) {
			return eq
		}
	}
	return nil
}

// Common returns the subtrees with children recorded at least twice, in the
// order they were first recorded.
func (ee *EquivalentExprs) Common() []sql.Expression {
	var result []sql.Expression
	for _, eq := range ee.order {
		if eq.count > 1 && len(eq.expr.Children()) > 0 {
			result = append(result, eq.expr)
		}
	}
	return result
}
