// Copyright 2025 Roni Ahmadi

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     https://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package inttest holds helpers shared by the package tests.
package inttest

import (
	"io"
	"log/slog"
	"testing"

	slogenv "github.com/cbrewster/slog-env"
	"github.com/neilotoole/slogt"
)

// WrapLog returns a logger that routes through t.Log when tests run verbose,
// so library log output lands next to the test that produced it. The level
// can be raised via the environment.
func WrapLog(t *testing.T) *slog.Logger {
	if !testing.Verbose() {
		return slog.Default()
	}

	replacer := func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.String(a.Key, a.Value.Time().Format("15:04:05.000"))
		}
		return a
	}

	f := slogt.Factory(func(w io.Writer) slog.Handler {
		opts := &slog.HandlerOptions{ReplaceAttr: replacer}
		return slogenv.NewHandler(slog.NewTextHandler(w, opts), slogenv.WithDefaultLevel(slog.LevelError))
	})

	return slogt.New(t, f)
}
