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

	"github.com/dolthub/go-mysql-codegen/sql"
)

// ExprValue describes how the value and nullness of one expression are
// obtained in generated code.
//
// A value with empty Code is materialized: Value and IsNull can be referenced
// directly. A value with non-empty Code is deferred: Code still has to be
// emitted by some generated body, and DependentVars and DependentRow record
// what that emission reads. Those dependencies must already be resolved when
// the deferred value is placed in a frame; readers flatten them exactly one
// level and never follow a dependency's own dependencies.
type ExprValue struct {
	// Code is the code that produces Value and IsNull, empty once emitted.
	Code string
	// Value is the code text referencing the value.
	Value string
	// IsNull is the code text referencing the nullness, often a literal.
	IsNull string
	// DependentVars are the variables Code reads.
	DependentVars []*ExprValue
	// DependentRow is the row handle Code reads, empty if none.
	DependentRow string
	// Type is the declared type of the value.
	Type sql.Type
	// Nullable is the declared nullability of the value.
	Nullable bool
}

// NewVariable returns a materialized value named by value and isNull.
func NewVariable(value, isNull string, typ sql.Type, nullable bool) *ExprValue {
	return &ExprValue{
		Value:    value,
		IsNull:   isNull,
		Type:     typ,
		Nullable: nullable,
	}
}

// IsMaterialized reports whether the value is usable without emitting code.
func (v *ExprValue) IsMaterialized() bool {
	return v.Code == ""
}

func (v *ExprValue) String() string {
	if v.IsMaterialized() {
		return fmt.Sprintf("ExprValue(%s, %s)", v.Value, v.IsNull)
	}
	return fmt.Sprintf("ExprValue(%s, %s, deferred)", v.Value, v.IsNull)
}

// dedupValues returns vars without repeated pointers, keeping the first
// occurrence of each.
func dedupValues(vars []InputVar) []InputVar {
	seen := make(map[*ExprValue]struct{}, len(vars))
	result := make([]InputVar, 0, len(vars))
	for _, v := range vars {
		if _, ok := seen[v.Value]; ok {
			continue
		}
		seen[v.Value] = struct{}{}
		result = append(result, v)
	}
	return result
}

func dedupStrings(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		result = append(result, n)
	}
	return result
}
