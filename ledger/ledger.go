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

// Package ledger wraps the Pi ledger node: account loading, fee discovery and
// transaction construction, signing and submission. It carries no payment
// lifecycle logic.
package ledger

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stellar/go/amount"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	hProtocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"

	"github.com/roniahmadi/pi-network-helper/payment"
)

const (
	// seedLength is the fixed length of a strkey-encoded secret seed.
	seedLength = 56
	// seedSigil is the leading character of a strkey-encoded secret seed.
	seedSigil = 'S'

	// DefaultTransactionTimeout is the validity window set on built
	// transactions.
	DefaultTransactionTimeout = 30 * time.Second
)

// ValidateSeed checks the shape of a secret seed before it is parsed: the
// ledger's secret-key sigil character followed by the fixed strkey length.
func ValidateSeed(seed string) error {
	if len(seed) != seedLength {
		return &SeedFormatError{Reason: fmt.Sprintf("got %d characters, want %d", len(seed), seedLength)}
	}
	if !strings.HasPrefix(strings.ToUpper(seed), string(seedSigil)) {
		return &SeedFormatError{Reason: fmt.Sprintf("secret seeds start with %q", string(seedSigil))}
	}
	return nil
}

// Gateway talks to a single ledger node on behalf of one signing identity.
type Gateway struct {
	horizon   horizonclient.ClientInterface
	kp        *keypair.Full
	network   Network
	txTimeout time.Duration
	log       *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithHorizonClient overrides the ledger node client. Used in tests to inject
// a mock client.
func WithHorizonClient(c horizonclient.ClientInterface) Option {
	return func(g *Gateway) {
		g.horizon = c
	}
}

// WithTransactionTimeout overrides the validity window of built transactions.
func WithTransactionTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.txTimeout = d
	}
}

// WithLogger overrides the logger.
func WithLogger(log *slog.Logger) Option {
	return func(g *Gateway) {
		g.log = log
	}
}

// New validates and parses the secret seed and returns a gateway bound to the
// given network. No state is retained when the seed fails validation.
func New(seed string, network Network, opts ...Option) (*Gateway, error) {
	if err := ValidateSeed(seed); err != nil {
		return nil, err
	}
	if err := network.IsValid(); err != nil {
		return nil, err
	}

	kp, err := keypair.ParseFull(seed)
	if err != nil {
		return nil, &SeedFormatError{Reason: err.Error()}
	}

	g := &Gateway{
		kp:        kp,
		network:   network,
		txTimeout: DefaultTransactionTimeout,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.horizon == nil {
		g.horizon = &horizonclient.Client{HorizonURL: network.HorizonURL()}
	}
	g.log = g.log.With("network", string(network))

	return g, nil
}

// Address returns the public account id of the signing identity.
func (g *Gateway) Address() string {
	return g.kp.Address()
}

// LoadAccount loads the signing identity's account state from the ledger.
func (g *Gateway) LoadAccount() (hProtocol.Account, error) {
	acct, err := g.horizon.AccountDetail(horizonclient.AccountRequest{AccountID: g.kp.Address()})
	if err != nil {
		return hProtocol.Account{}, fmt.Errorf("failed to load account %s: %w", g.kp.Address(), err)
	}
	return acct, nil
}

// BaseFee returns the current network-recommended per-operation fee in
// stroops.
func (g *Gateway) BaseFee() (int64, error) {
	stats, err := g.horizon.FeeStats()
	if err != nil {
		return 0, fmt.Errorf("failed to fetch fee stats: %w", err)
	}
	return stats.LastLedgerBaseFee, nil
}

// NativeBalance returns the native-asset balance of the signing identity's
// account in stroops. An account without a native balance entry reports zero.
// Transport failures are returned so the caller can tell "zero" from "could
// not determine balance"; spending paths treat both as insufficient.
func (g *Gateway) NativeBalance() (int64, error) {
	acct, err := g.horizon.AccountDetail(horizonclient.AccountRequest{AccountID: g.kp.Address()})
	if err != nil {
		g.log.Warn("balance lookup failed", "account", g.kp.Address(), "error", err)
		return 0, fmt.Errorf("failed to load balances for %s: %w", g.kp.Address(), err)
	}

	native, err := acct.GetNativeBalance()
	if err != nil {
		// No native balance entry on the account.
		return 0, nil
	}

	stroops, err := amount.ParseInt64(native)
	if err != nil {
		return 0, fmt.Errorf("ledger reported unparseable balance %q: %w", native, err)
	}
	return stroops, nil
}

// BuildPaymentTx builds and signs a single-operation native payment carrying
// the payment identifier as a text memo. The source account's sequence number
// is incremented in place.
func (g *Gateway) BuildPaymentTx(req payment.Request, source txnbuild.Account, baseFee int64) (*txnbuild.Transaction, error) {
	if err := req.Validate(true); err != nil {
		return nil, err
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        source,
		IncrementSequenceNum: true,
		BaseFee:              baseFee,
		Memo:                 txnbuild.MemoText(req.Identifier),
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(int64(g.txTimeout.Seconds())),
		},
		Operations: []txnbuild.Operation{
			&txnbuild.Payment{
				Destination: req.Destination(),
				Amount:      req.Amount,
				Asset:       txnbuild.NativeAsset{},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build payment transaction: %w", err)
	}

	signed, err := tx.Sign(g.network.Passphrase(), g.kp)
	if err != nil {
		return nil, fmt.Errorf("failed to sign payment transaction: %w", err)
	}
	return signed, nil
}

// Submit submits a signed transaction to the ledger node and returns the
// node-assigned transaction id. Rejections are returned as a
// *SubmissionError; Submit never retries.
func (g *Gateway) Submit(tx *txnbuild.Transaction) (string, error) {
	resp, err := g.horizon.SubmitTransaction(tx)
	if err != nil {
		serr := &SubmissionError{Err: err}
		if herr := horizonclient.GetError(err); herr != nil {
			if codes, cerr := herr.ResultCodes(); cerr == nil {
				serr.TransactionCode = codes.TransactionCode
				serr.OperationCodes = codes.OperationCodes
			}
		}
		g.log.Warn("transaction submission rejected",
			"transaction_code", serr.TransactionCode, "error", err)
		return "", serr
	}
	return resp.ID, nil
}
