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

package pinet

import (
	"errors"
	"fmt"

	"github.com/roniahmadi/pi-network-helper/funds"
)

// ErrUnknownPayment indicates a submit was attempted against an identifier
// that is not in the open payment registry: the payment was never created
// through this client, or an earlier submission attempt already discarded it.
var ErrUnknownPayment = errors.New("payment is not tracked in the open payment registry")

// InsufficientFundsError indicates the funds guard refused an operation
// because the payment amount plus the network fee does not fit in the current
// ledger balance. All values are in stroops.
type InsufficientFundsError struct {
	// Balance is the ledger balance at the time of the check. It is set to
	// -1 when the balance could not be determined; the guard fails closed
	// in that case rather than risking an overspend.
	Balance int64
	Amount  int64
	Fee     int64
}

// KnownBalance reports whether the balance could be determined at check time.
func (e *InsufficientFundsError) KnownBalance() bool {
	return e.Balance >= 0
}

func (e *InsufficientFundsError) Error() string {
	if !e.KnownBalance() {
		return fmt.Sprintf("insufficient funds: balance unknown, refusing to spend %s (+%d stroops fee)",
			funds.FormatAmount(e.Amount), e.Fee)
	}
	return fmt.Sprintf("insufficient funds: %s (+%d stroops fee) exceeds balance %s",
		funds.FormatAmount(e.Amount), e.Fee, funds.FormatAmount(e.Balance))
}
