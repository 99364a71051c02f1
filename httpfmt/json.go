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

// Package httpfmt contains helpers for encoding requests to and decoding
// responses from the platform API.
package httpfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// EncodeJSON encodes data as a JSON request body.
func EncodeJSON(data any) (io.Reader, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json request body: %w", err)
	}
	return bytes.NewReader(body), nil
}

// DecodeJSON decodes a JSON response body into out. It returns the raw bytes
// it consumed so callers can report what the server actually sent when
// decoding fails.
func DecodeJSON(r io.Reader, out any) ([]byte, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return body, err
	}
	return body, nil
}
