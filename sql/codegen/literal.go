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

import "github.com/grafana/regexp"

// literalRegex matches every form of generated code text that is a
// constant: booleans, null, int and long literals, float literals, string
// literals and byte or short casts of an int literal.
var literalRegex = regexp.MustCompile(`^(?:` +
	`true|false|null` +
	`|-?[0-9]+L?` +
	`|-?[0-9]+(?:\.[0-9]*)?f` +
	`|"(?:[^"\\]|\\.)*"` +
	`|\((?:byte|short)\)-?[0-9]+` +
	`)$`)

// IsLiteral reports whether the given code text is a literal rather than a
// reference to a variable. Text that is not recognized is never a literal,
// even when it would be constant once compiled.
func IsLiteral(code string) bool {
	return literalRegex.MatchString(code)
}
