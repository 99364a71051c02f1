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

package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roniahmadi/pi-network-helper/config"
)

type loadableConfig struct {
	StaysUntouched    string
	SourcedFromYAML   string `yaml:"sourced_from_yaml"`
	SourcedFromEnv    string
	fakeValidationErr error
}

func (c *loadableConfig) IsValid() error {
	return c.fakeValidationErr
}

func TestLoad(t *testing.T) {
	yamlPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("sourced_from_yaml: b\n"), 0o600))

	load := func(fakeValidationErr error) (*loadableConfig, error) {
		mapping := map[string]config.EnvMapping[loadableConfig]{
			"SOURCED_FROM_ENV": {
				Required: true,
				Func: func(cfg *loadableConfig, val string) error {
					return config.MapEnvString(&cfg.SourcedFromEnv, val)
				},
			},
		}

		cfg := &loadableConfig{
			StaysUntouched:    "a",
			fakeValidationErr: fakeValidationErr,
		}

		err := config.Load(cfg, yamlPath, mapping)
		return cfg, err
	}

	t.Run("ok, valid config", func(t *testing.T) {
		t.Setenv("SOURCED_FROM_ENV", "c")

		got, err := load(nil)
		require.NoError(t, err)

		want := &loadableConfig{
			StaysUntouched:  "a",
			SourcedFromYAML: "b",
			SourcedFromEnv:  "c",
		}
		require.Equal(t, want, got)
	})

	t.Run("fail, invalid config", func(t *testing.T) {
		t.Setenv("SOURCED_FROM_ENV", "c")

		validationErr := errors.New("validation error")

		_, err := load(validationErr)
		require.ErrorIs(t, err, validationErr)
	})

	t.Run("fail, missing required env variable", func(t *testing.T) {
		_, err := load(nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "SOURCED_FROM_ENV")
	})

	t.Run("ok, no config file", func(t *testing.T) {
		cfg := &loadableConfig{StaysUntouched: "a"}
		err := config.Load(cfg, "", map[string]config.EnvMapping[loadableConfig]{})
		require.NoError(t, err)
		require.Equal(t, "a", cfg.StaysUntouched)
	})
}

func TestMergeYAML(t *testing.T) {
	type testConfig struct {
		APIKey  string        `yaml:"api_key"`
		Network string        `yaml:"network"`
		Timeout time.Duration `yaml:"timeout"`
	}

	tests := map[string]struct {
		config  *testConfig
		environ map[string]string
		yamlSrc string
		want    *testConfig
	}{
		"ok, yaml leaves unmentioned fields untouched": {
			config:  &testConfig{Network: "test", Timeout: time.Minute},
			yamlSrc: "api_key: k1\n",
			want:    &testConfig{APIKey: "k1", Network: "test", Timeout: time.Minute},
		},
		"ok, yaml overrides defaults": {
			config: &testConfig{Network: "test", Timeout: time.Minute},
			yamlSrc: `api_key: k1
network: main
timeout: 30s
`,
			want: &testConfig{APIKey: "k1", Network: "main", Timeout: 30 * time.Second},
		},
		"ok, unknown fields in yaml are ignored": {
			config:  &testConfig{Network: "test"},
			yamlSrc: "unknown_field: b\n",
			want:    &testConfig{Network: "test"},
		},
		"ok, expand environment variable before parsing yaml": {
			config:  &testConfig{},
			yamlSrc: "api_key: ${API_KEY}\nnetwork: $NETWORK\n",
			environ: map[string]string{"API_KEY": "k1", "NETWORK": "main"},
			want:    &testConfig{APIKey: "k1", Network: "main"},
		},
		"ok, expand missing environment variable with default value": {
			config:  &testConfig{},
			yamlSrc: "network: ${NETWORK:-test}\n",
			want:    &testConfig{Network: "test"},
		},
		"ok, default value ignored when variable is set": {
			config:  &testConfig{},
			yamlSrc: "network: ${NETWORK:-test}\n",
			environ: map[string]string{"NETWORK": "main"},
			want:    &testConfig{Network: "main"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			// can't run these tests in parallel, they share the same environment.
			for key, val := range tc.environ {
				t.Setenv(key, val)
			}

			got := tc.config
			err := config.MergeYAML(got, strings.NewReader(tc.yamlSrc))
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	t.Run("fail, environment variable missing", func(t *testing.T) {
		got := &testConfig{}
		yamlSrc := "api_key: $MISSING_API_KEY\n"

		err := config.MergeYAML(got, strings.NewReader(yamlSrc))
		require.Error(t, err)
		require.Contains(t, err.Error(), "MISSING_API_KEY")
	})
}

func TestMergeEnv(t *testing.T) {
	type testConfig struct {
		APIKey  string
		Timeout time.Duration
	}

	t.Run("ok, mappings applied", func(t *testing.T) {
		t.Setenv("API_KEY", "k1")
		t.Setenv("TIMEOUT", "45s")

		mappings := map[string]config.EnvMapping[testConfig]{
			"API_KEY": {
				Required: true,
				Func: func(cfg *testConfig, val string) error {
					return config.MapEnvString(&cfg.APIKey, val)
				},
			},
			"TIMEOUT": {
				Func: func(cfg *testConfig, val string) error {
					return config.MapEnvDuration(&cfg.Timeout, val)
				},
			},
		}

		got := &testConfig{}
		require.NoError(t, config.MergeEnv(got, mappings))
		require.Equal(t, &testConfig{APIKey: "k1", Timeout: 45 * time.Second}, got)
	})

	t.Run("ok, non-required variable not provided", func(t *testing.T) {
		mappings := map[string]config.EnvMapping[testConfig]{
			"TIMEOUT": {
				Func: func(cfg *testConfig, val string) error {
					return config.MapEnvDuration(&cfg.Timeout, val)
				},
			},
		}

		got := &testConfig{Timeout: time.Minute}
		require.NoError(t, config.MergeEnv(got, mappings))
		require.Equal(t, time.Minute, got.Timeout)
	})

	t.Run("fail, required env variables not set", func(t *testing.T) {
		mappings := map[string]config.EnvMapping[testConfig]{
			"API_KEY": {
				Required: true,
				Func: func(cfg *testConfig, val string) error {
					return config.MapEnvString(&cfg.APIKey, val)
				},
			},
		}

		err := config.MergeEnv(&testConfig{}, mappings)
		require.Error(t, err)
		require.Contains(t, err.Error(), "API_KEY")
	})

	t.Run("fail, multiple errors are collected", func(t *testing.T) {
		var (
			keyErr     = errors.New("key error")
			timeoutErr = errors.New("timeout error")
		)
		mappings := map[string]config.EnvMapping[testConfig]{
			"API_KEY": {
				Func: func(cfg *testConfig, val string) error { return keyErr },
			},
			"TIMEOUT": {
				Func: func(cfg *testConfig, val string) error { return timeoutErr },
			},
		}

		t.Setenv("API_KEY", "")
		t.Setenv("TIMEOUT", "")

		err := config.MergeEnv(&testConfig{}, mappings)
		require.ErrorIs(t, err, keyErr)
		require.ErrorIs(t, err, timeoutErr)
	})
}

func TestFilenameFromArgs(t *testing.T) {
	t.Run("ok, no flag", func(t *testing.T) {
		path, err := config.FilenameFromArgs(nil)
		require.NoError(t, err)
		require.Empty(t, path)
	})

	t.Run("ok, flag resolves to absolute path", func(t *testing.T) {
		path, err := config.FilenameFromArgs([]string{"-config", "config.yaml"})
		require.NoError(t, err)
		require.True(t, filepath.IsAbs(path))
	})
}
