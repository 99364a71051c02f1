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

// Package funds implements the spend guard applied before any action that
// commits funds on the ledger.
package funds

import "github.com/stellar/go/amount"

// StroopsPerUnit converts the ledger's smallest fee unit to its native
// balance unit: one native unit is 10,000,000 stroops.
const StroopsPerUnit = 10_000_000

// CanAfford reports whether a payment of amt plus the network fee fits in the
// given balance. All values are in stroops. A negative balance (used to mark
// "balance unknown") never affords anything.
func CanAfford(balance, amt, fee int64) bool {
	if balance < 0 || amt < 0 || fee < 0 {
		return false
	}
	return amt+fee <= balance
}

// ParseAmount parses a decimal amount string into stroops.
func ParseAmount(s string) (int64, error) {
	return amount.ParseInt64(s)
}

// FormatAmount renders stroops as a decimal amount string.
func FormatAmount(stroops int64) string {
	return amount.StringFromInt64(stroops)
}
