// Copyright 2025 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"io"

	"go.uber.org/zap/zapcore"

	"github.com/scionproto/notary/private/config"
)

const consoleSample = `
# Console logging level (debug|info|error) (default info)
level = "info"

# Format of the console log entries, "human" or "json" (default human)
format = "human"
`

var _ config.Config = (*Config)(nil)

// Validate checks that the config contains a parsable level and a known
// format.
func (c *Config) Validate() error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.Console.Level)); err != nil {
		return err
	}
	return nil
}

// Sample writes the sample configuration to dst.
func (c *Config) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteSample(dst, path, ctx,
		config.StringSampler{Text: consoleSample, Name: "console"},
	)
}

// ConfigName returns the toml block name.
func (c *Config) ConfigName() string {
	return "log"
}
