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

// Package config loads YAML configuration files with environment variable
// expansion and explicit environment overrides.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Validator can optionally be implemented by configuration to do cross-field
// validation and/or app-specific checks.
type Validator interface {
	IsValid() error
}

// Load loads the given configuration by:
// 1. Merging in the given YAML file using MergeYAML, if a path is given.
// 2. Merging in the environment using MergeEnv.
// 3. Calling IsValid on cfg if *T implements the Validator interface.
func Load[T any](cfg *T, yamlFilePath string, envMappings map[string]EnvMapping[T]) error {
	if yamlFilePath != "" {
		yamlFile, err := os.Open(yamlFilePath)
		if err != nil {
			return fmt.Errorf("failed to open YAML file: %w", err)
		}
		defer yamlFile.Close()

		if err := MergeYAML(cfg, io.Reader(yamlFile)); err != nil {
			return err
		}
	}

	if err := MergeEnv(cfg, envMappings); err != nil {
		return err
	}

	if validator, ok := any(cfg).(Validator); ok {
		if err := validator.IsValid(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}

	return nil
}

// MergeYAML merges the provided YAML data into the provided configuration.
//
// Environment variables in the YAML source are expanded to their values:
// `key: ${VAR}` becomes `key: foo` if VAR=foo, and is an error when VAR is
// not set. `key: ${VAR:-bar}` falls back to `bar` instead.
func MergeYAML[T any](cfg *T, yamlSrc io.Reader) error {
	rawYAML, err := io.ReadAll(yamlSrc)
	if err != nil {
		return fmt.Errorf("failed to read the YAML source: %w", err)
	}

	missingKeys := []string{}
	expanded := os.Expand(string(rawYAML), func(rawKey string) string {
		if i := strings.Index(rawKey, ":-"); i != -1 {
			name, defaultVal := rawKey[:i], rawKey[i+2:]
			if val, isSet := os.LookupEnv(name); isSet {
				return val
			}
			return defaultVal
		}

		val, isSet := os.LookupEnv(rawKey)
		if !isSet {
			missingKeys = append(missingKeys, rawKey)
			return ""
		}
		return val
	})

	if len(missingKeys) > 0 {
		return fmt.Errorf("YAML source expects the following environment variables to be set: %v", missingKeys)
	}

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to unmarshal YAML to config: %w", err)
	}

	return nil
}

// EnvMapping maps an environment variable to one or more config fields.
//
// An EnvMapping with Required set to true will error when its environment
// variable isn't set.
type EnvMapping[T any] struct {
	Required bool
	Func     func(cfg *T, val string) error
}

// MergeEnv merges the environment variables into a configuration using the
// provided mappings. It does not stop on the first error; it collects as many
// errors as possible.
func MergeEnv[T any](cfg *T, mappings map[string]EnvMapping[T]) error {
	var errs error

	for key, mapping := range mappings {
		val, isSet := os.LookupEnv(key)
		if !isSet {
			if mapping.Required {
				errs = errors.Join(errs, fmt.Errorf("missing required env variable %s", key))
			}
			continue
		}
		if err := mapping.Func(cfg, val); err != nil {
			errs = errors.Join(errs, fmt.Errorf("error for env variable %s: %w", key, err))
		}
	}

	return errs
}

// MapEnvString is a helper to map environment variables to string fields.
func MapEnvString(tgt *string, val string) error {
	*tgt = val
	return nil
}

// MapEnvDuration is a helper to map environment variables to duration fields.
func MapEnvDuration(tgt *time.Duration, val string) error {
	d, err := time.ParseDuration(val)
	if err != nil {
		return err
	}
	*tgt = d
	return nil
}

// FilenameFromArgs parses the config file flag from the command line
// arguments. An empty value means no config file.
func FilenameFromArgs(args []string) (string, error) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	configPathFlag := fs.String("config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if *configPathFlag == "" {
		return "", nil
	}

	cp, err := filepath.Abs(*configPathFlag)
	if err != nil {
		return "", fmt.Errorf("invalid config path: %w", err)
	}

	return cp, nil
}
