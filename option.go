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
	"log/slog"
	"net/http"

	"github.com/stellar/go/clients/horizonclient"
)

type scratch struct {
	httpClient *http.Client
	horizon    horizonclient.ClientInterface
}

type Option func(c *Client, s *scratch, config *Config) error

// WithPlatformAPI overrides the platform API gateway.
func WithPlatformAPI(api PlatformAPI) Option {
	return func(c *Client, _ *scratch, _ *Config) error {
		c.api = api
		return nil
	}
}

// WithLedgerGateway overrides the ledger gateway. The wallet seed in the
// config is ignored when this option is used.
func WithLedgerGateway(g LedgerGateway) Option {
	return func(c *Client, _ *scratch, _ *Config) error {
		c.ledger = g
		return nil
	}
}

// WithHTTPClient overrides the HTTP client used for platform API calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(_ *Client, s *scratch, _ *Config) error {
		s.httpClient = httpClient
		return nil
	}
}

// WithHorizonClient overrides the ledger node client. Should really only be
// used in tests to point the default ledger gateway at a mock.
func WithHorizonClient(h horizonclient.ClientInterface) Option {
	return func(_ *Client, s *scratch, _ *Config) error {
		s.horizon = h
		return nil
	}
}

// WithLogger overrides the logger, which defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(c *Client, _ *scratch, _ *Config) error {
		c.log = log
		return nil
	}
}
