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
	"time"

	"github.com/roniahmadi/pi-network-helper/ledger"
	"github.com/roniahmadi/pi-network-helper/platform"
)

// Config allows for configuration of clients via YAML files.
type Config struct {
	// APIKey is the platform API key, sent on every platform call.
	APIKey string `yaml:"api_key"`
	// APIURL is the base URL of the platform API. Defaults to the
	// production endpoint.
	APIURL string `yaml:"api_url"`
	// WalletSeed is the secret seed of the wallet that pays out. Not needed
	// when a ledger gateway is injected via [WithLedgerGateway].
	WalletSeed string `yaml:"wallet_seed"`
	// Network selects the ledger the client submits to.
	Network ledger.Network `yaml:"network"`
	// HTTPTimeout is the per-call timeout for platform API requests.
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	// TransactionTimeout is the validity window of built ledger
	// transactions.
	TransactionTimeout time.Duration `yaml:"transaction_timeout"`
	// RefreshBaseFee re-fetches the network base fee before each submission
	// instead of relying on the fee cached at startup. When the refresh
	// fails the cached fee is used.
	RefreshBaseFee bool `yaml:"refresh_base_fee"`
}

// DefaultConfig returns a new instance of Config with default values set.
func DefaultConfig() Config {
	return Config{
		APIURL:             platform.DefaultBaseURL,
		Network:            ledger.NetworkTest,
		HTTPTimeout:        platform.DefaultTimeout,
		TransactionTimeout: ledger.DefaultTransactionTimeout,
		RefreshBaseFee:     true,
	}
}

// IsValid checks the parts of the configuration every client needs. Seed
// validation happens when the ledger gateway is constructed.
func (c Config) IsValid() error {
	if c.APIKey == "" {
		return errors.New("api_key is required")
	}
	if err := c.Network.IsValid(); err != nil {
		return err
	}
	return nil
}
