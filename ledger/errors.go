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

package ledger

import (
	"fmt"
	"strings"
)

// SeedFormatError indicates a secret seed doesn't look like a valid ledger
// secret key. The seed value itself is never included in the error.
type SeedFormatError struct {
	Reason string
}

func (e *SeedFormatError) Error() string {
	return fmt.Sprintf("invalid secret seed: %s", e.Reason)
}

// SubmissionError indicates the ledger node rejected a signed transaction.
// Submission is not retried internally: resubmitting requires a caller-level
// idempotency decision, usually after re-querying the transaction status.
type SubmissionError struct {
	// TransactionCode is the transaction-level result code reported by the
	// node, e.g. "tx_bad_seq" or "tx_insufficient_balance". Empty when the
	// failure happened below the protocol layer (e.g. a network timeout).
	TransactionCode string
	// OperationCodes are the per-operation result codes, when available.
	OperationCodes []string

	Err error
}

func (e *SubmissionError) Error() string {
	if e.TransactionCode == "" {
		return fmt.Sprintf("transaction submission failed: %v", e.Err)
	}
	if len(e.OperationCodes) == 0 {
		return fmt.Sprintf("transaction rejected with %s", e.TransactionCode)
	}
	return fmt.Sprintf("transaction rejected with %s (%s)", e.TransactionCode, strings.Join(e.OperationCodes, ", "))
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
