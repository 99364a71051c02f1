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

package platform

import "fmt"

// StatusError is a non-2xx response from the platform API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("platform api error, status code %d", e.StatusCode)
	}
	return fmt.Sprintf("platform api error, status code %d: %s", e.StatusCode, e.Message)
}

// DecodeError indicates the platform API answered with a body that is not the
// expected JSON. It is distinct from a zero-value response: callers must treat
// it as "state unknown", not as an empty record.
type DecodeError struct {
	// Body is the raw response body, for diagnostics.
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode platform api response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
