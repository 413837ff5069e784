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
)

// Function is a generated function.
type Function struct {
	Name       string
	Params     []Param
	ReturnType string
	Body       string
}

// Signature returns the declaration line of the function.
func (f *Function) Signature() string {
	decls := make([]string, len(f.Params))
	for i, p := range f.Params {
		decls[i] = p.Decl
	}
	return fmt.Sprintf("private %s %s(%s)", f.ReturnType, f.Name, strings.Join(decls, ", "))
}

// Call returns the call expression passing every parameter by name.
func (f *Function) Call() string {
	args := make([]string, len(f.Params))
	for i, p := range f.Params {
		args[i] = p.Name
	}
	return fmt.Sprintf("%s(%s)", f.Name, strings.Join(args, ", "))
}

func (f *Function) String() string {
	return fmt.Sprintf("%s {\n%s}\n", f.Signature(), indent(f.Body))
}

// Program is the code generated for an expression forest.
type Program struct {
	// Fields are the declarations of state shared between functions.
	Fields []string
	// Functions are the split functions, in creation order.
	Functions []*Function
	// Body is the code evaluating every expression.
	Body string
	// Results are the values of every expression, in order, valid after
	// Body runs.
	Results []*ExprValue
}

// Function returns the function with the given name, or nil.
func (p *Program) Function(name string) *Function {
	for _, f := range p.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, f := range p.Fields {
		sb.WriteString(f)
		sb.WriteString("\n")
	}
	if len(p.Fields) > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(p.Body)
	for _, f := range p.Functions {
		sb.WriteString("\n")
		sb.WriteString(f.String())
	}
	return sb.String()
}

func indent(code string) string {
	var sb strings.Builder
	for _, line := range strings.SplitAfter(code, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sb.WriteString("  ")
		sb.WriteString(line)
	}
	s := sb.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}
