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

package funds_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roniahmadi/pi-network-helper/funds"
)

func TestCanAfford(t *testing.T) {
	tests := map[string]struct {
		balance string
		amount  string
		fee     int64
		want    bool
	}{
		"amount plus fee below balance": {
			balance: "10", amount: "5", fee: 100_000, want: true,
		},
		"amount plus fee exactly balance": {
			balance: "10", amount: "9.99", fee: 100_000, want: true,
		},
		"fee tips the amount over": {
			balance: "10", amount: "9.995", fee: 100_000, want: false,
		},
		"amount alone over balance": {
			balance: "10", amount: "10.0000001", fee: 0, want: false,
		},
		"zero balance": {
			balance: "0", amount: "0.0000001", fee: 0, want: false,
		},
		"zero amount and fee": {
			balance: "0", amount: "0", fee: 0, want: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			balance, err := funds.ParseAmount(tc.balance)
			require.NoError(t, err)
			amt, err := funds.ParseAmount(tc.amount)
			require.NoError(t, err)

			require.Equal(t, tc.want, funds.CanAfford(balance, amt, tc.fee))
		})
	}
}

func TestCanAffordUnknownBalance(t *testing.T) {
	// -1 marks "balance could not be determined" and must refuse any spend.
	require.False(t, funds.CanAfford(-1, 0, 0))
	require.False(t, funds.CanAfford(-1, 1, 1))
}

func TestParseAmount(t *testing.T) {
	stroops, err := funds.ParseAmount("9.995")
	require.NoError(t, err)
	require.Equal(t, int64(99_950_000), stroops)

	_, err = funds.ParseAmount("not-a-number")
	require.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "10.0000000", funds.FormatAmount(10*funds.StroopsPerUnit))
	require.Equal(t, "0.0100000", funds.FormatAmount(100_000))
}
