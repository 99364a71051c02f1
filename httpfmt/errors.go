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

package httpfmt

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"
)

// maxErrorBytes limits how much of an error body is read, in case the server
// returns an excessively large error.
const maxErrorBytes = 4096

// ErrorBody extracts a human-readable error message from a non-2xx response
// body. JSON bodies of the form {"error": ...} or {"error_message": ...} are
// unwrapped; anything else is returned as trimmed text. ErrorBody does not
// close the body.
func ErrorBody(resp *http.Response) string {
	reader := io.LimitReader(resp.Body, maxErrorBytes)
	body, err := io.ReadAll(reader)
	if err != nil || len(body) == 0 {
		return ""
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var parsed struct {
			Error        string `json:"error"`
			ErrorMessage string `json:"error_message"`
		}
		if jerr := json.Unmarshal(body, &parsed); jerr == nil {
			if parsed.ErrorMessage != "" {
				return parsed.ErrorMessage
			}
			if parsed.Error != "" {
				return parsed.Error
			}
		}
	}

	return strings.TrimSpace(string(body))
}
