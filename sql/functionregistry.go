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

import "strings"

// Function is a function that can be built from its arguments.
type Function interface {
	// NumArgs returns the number of arguments the function takes.
	NumArgs() int
	// Build creates the function expression with the given arguments.
	Build(...Expression) (Expression, error)
}

// Function1 is a function with 1 argument.
type Function1 func(e Expression) Expression

// Function2 is a function with 2 arguments.
type Function2 func(e1, e2 Expression) Expression

// Function3 is a function with 3 arguments.
type Function3 func(e1, e2, e3 Expression) Expression

// NumArgs implements the Function interface.
func (fn Function1) NumArgs() int { return 1 }

// NumArgs implements the Function interface.
func (fn Function2) NumArgs() int { return 2 }

// NumArgs implements the Function interface.
func (fn Function3) NumArgs() int { return 3 }

// Build implements the Function interface.
func (fn Function1) Build(args ...Expression) (Expression, error) {
	if len(args) != 1 {
		return nil, ErrInvalidArgumentNumber.New("Function1", 1, len(args))
	}
	return fn(args[0]), nil
}

// Build implements the Function interface.
func (fn Function2) Build(args ...Expression) (Expression, error) {
	if len(args) != 2 {
		return nil, ErrInvalidArgumentNumber.New("Function2", 2, len(args))
	}
	return fn(args[0], args[1]), nil
}

// Build implements the Function interface.
func (fn Function3) Build(args ...Expression) (Expression, error) {
	if len(args) != 3 {
		return nil, ErrInvalidArgumentNumber.New("Function3", 3, len(args))
	}
	return fn(args[0], args[1], args[2]), nil
}

// Functions is a registry of functions by lower-cased name.
type Functions map[string]Function

// Function returns the function with the given name, ignoring case.
func (r Functions) Function(name string) (Function, error) {
	if fn, ok := r[strings.ToLower(name)]; ok {
		return fn, nil
	}
	return nil, ErrFunctionNotFound.New(name)
}
