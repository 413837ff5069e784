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
	"io/ioutil"

	"github.com/grafana/regexp"
	"gopkg.in/src-d/go-errors.v1"
	yaml "gopkg.in/yaml.v2"
)

// ErrInvalidConfig is returned when a configuration has invalid values.
var ErrInvalidConfig = errors.NewKind("invalid code generation config: %s")

var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config holds the settings of a Generator.
type Config struct {
	// SplitThreshold is the size of generated code, in characters, above
	// which an expression is moved to its own function. Zero disables
	// splitting.
	SplitThreshold int `yaml:"split_threshold"`
	// SubExprElimination enables generating common subexpressions once.
	SubExprElimination bool `yaml:"subexpression_elimination"`
	// FunctionPrefix is the name prefix of split functions.
	FunctionPrefix string `yaml:"function_prefix"`
	// Debug enables debug logging.
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		SplitThreshold:     1024,
		SubExprElimination: true,
		FunctionPrefix:     "apply",
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.SplitThreshold < 0 {
		return ErrInvalidConfig.New("split_threshold must not be negative")
	}
	if !identifierRegex.MatchString(c.FunctionPrefix) {
		return ErrInvalidConfig.New("function_prefix must be an identifier")
	}
	return nil
}

// ParseConfig decodes a YAML configuration. Missing keys keep their
// default values and unknown keys are an error.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, ErrInvalidConfig.Wrap(err, "unable to decode YAML")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and decodes the YAML configuration at path.
func LoadConfig(path string) (Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}
