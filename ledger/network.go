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

import "fmt"

// Network selects which Pi ledger a client talks to.
type Network string

const (
	// NetworkMain is the production Pi ledger.
	NetworkMain Network = "main"
	// NetworkTest is the Pi testnet.
	NetworkTest Network = "test"
)

const (
	mainHorizonURL = "https://api.mainnet.minepi.com"
	testHorizonURL = "https://api.testnet.minepi.com"

	mainPassphrase = "Pi Network"
	testPassphrase = "Pi Testnet"
)

// IsValid reports whether the network names a known ledger.
func (n Network) IsValid() error {
	switch n {
	case NetworkMain, NetworkTest:
		return nil
	}
	return fmt.Errorf("unknown network %q, want %q or %q", string(n), NetworkMain, NetworkTest)
}

// HorizonURL returns the ledger node endpoint for the network.
func (n Network) HorizonURL() string {
	if n == NetworkMain {
		return mainHorizonURL
	}
	return testHorizonURL
}

// Passphrase returns the network passphrase transactions are signed against.
func (n Network) Passphrase() string {
	if n == NetworkMain {
		return mainPassphrase
	}
	return testPassphrase
}
