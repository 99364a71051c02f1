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

// Package pinet drives the lifecycle of outbound Pi payments for a single
// wallet identity: create and track a payment on the platform API, guard it
// against the current ledger balance, and submit it on the ledger exactly
// once. The platform API and the ledger are independent systems of record;
// this package owns the sequencing between them.
package pinet

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	hProtocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"

	"github.com/roniahmadi/pi-network-helper/funds"
	"github.com/roniahmadi/pi-network-helper/ledger"
	"github.com/roniahmadi/pi-network-helper/payment"
	"github.com/roniahmadi/pi-network-helper/platform"
)

// PlatformAPI is the payment-approval side of the system.
type PlatformAPI interface {
	Create(ctx context.Context, req payment.Request) (payment.Record, error)
	Get(ctx context.Context, identifier string) (payment.Record, error)
	Approve(ctx context.Context, identifier string) (payment.Record, error)
	Complete(ctx context.Context, identifier, txid string) (payment.Record, error)
	Cancel(ctx context.Context, identifier string) (payment.Record, error)
	IncompleteServerPayments(ctx context.Context) ([]payment.Record, error)
}

// LedgerGateway is the ledger side of the system.
type LedgerGateway interface {
	Address() string
	LoadAccount() (hProtocol.Account, error)
	BaseFee() (int64, error)
	NativeBalance() (int64, error)
	BuildPaymentTx(req payment.Request, source txnbuild.Account, baseFee int64) (*txnbuild.Transaction, error)
	Submit(tx *txnbuild.Transaction) (string, error)
}

// Client orchestrates payments for one wallet identity. All spend-committing
// paths run under a single lock so that the funds check and the subsequent
// ledger submission form one critical section (two concurrent submits must
// not both pass the check against the same balance).
type Client struct {
	log        *slog.Logger
	api        PlatformAPI
	ledger     LedgerGateway
	refreshFee bool

	mu      sync.Mutex
	account hProtocol.Account
	baseFee int64
	open    map[string]payment.Request
}

// NewFromConfig creates a client: it validates the configuration, parses the
// wallet seed, loads the wallet account from the ledger and caches the
// current base fee. It fails closed: on any error no partial state is
// retained.
func NewFromConfig(config Config, opts ...Option) (*Client, error) {
	if err := config.IsValid(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	c := &Client{
		log:        slog.Default(),
		refreshFee: config.RefreshBaseFee,
		open:       map[string]payment.Request{},
	}
	s := &scratch{}
	for _, opt := range opts {
		if err := opt(c, s, &config); err != nil {
			return nil, err
		}
	}

	if c.api == nil {
		httpClient := s.httpClient
		if httpClient == nil {
			httpClient = &http.Client{Timeout: config.HTTPTimeout}
		}
		c.api = platform.NewClient(config.APIURL, config.APIKey, httpClient)
	}

	if c.ledger == nil {
		ledgerOpts := []ledger.Option{
			ledger.WithTransactionTimeout(config.TransactionTimeout),
			ledger.WithLogger(c.log),
		}
		if s.horizon != nil {
			ledgerOpts = append(ledgerOpts, ledger.WithHorizonClient(s.horizon))
		}
		g, err := ledger.New(config.WalletSeed, config.Network, ledgerOpts...)
		if err != nil {
			return nil, err
		}
		c.ledger = g
	}

	account, err := c.ledger.LoadAccount()
	if err != nil {
		return nil, err
	}
	c.account = account

	baseFee, err := c.ledger.BaseFee()
	if err != nil {
		return nil, err
	}
	c.baseFee = baseFee

	return c, nil
}

// CreatePayment validates the payload, checks the funds guard against the
// current balance, registers the payment with the platform API and tracks the
// assigned identifier in the open payment registry. Validation and guard
// failures come back as typed errors without any network side effect, so
// batch-style callers can check and continue with the next payment.
func (c *Client) CreatePayment(ctx context.Context, req payment.Request) (string, error) {
	if err := req.Validate(false); err != nil {
		return "", err
	}
	amt, err := req.AmountStroops()
	if err != nil {
		return "", &payment.PayloadError{Reason: err.Error()}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(amt, c.baseFee); err != nil {
		return "", err
	}

	rec, err := c.api.Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create payment: %w", err)
	}
	if rec.Identifier == "" {
		return "", fmt.Errorf("platform api returned a payment without an identifier")
	}

	c.open[rec.Identifier] = payment.RequestFromRecord(rec)
	c.log.Info("payment created", "payment_id", rec.Identifier, "amount", rec.Amount.String(), "uid", rec.UserUID)
	return rec.Identifier, nil
}

// SubmissionOutcome describes what a submission attempt did, so callers can
// reconcile even when the attempt itself failed.
type SubmissionOutcome struct {
	// PaymentID is the platform payment identifier the attempt was for.
	PaymentID string
	// AttemptID uniquely identifies this attempt in logs.
	AttemptID uuid.UUID
	// TxID is the ledger transaction id. Empty when submission failed.
	TxID string
	// EntryDiscarded reports whether the registry entry was removed. Once a
	// signed transaction has been handed to the ledger node the entry is
	// discarded whatever the outcome; if submission failed the payment may
	// or may not have settled and must be reconciled through
	// [Client.IncompleteServerPayments].
	EntryDiscarded bool
}

// SubmitPayment builds, signs and submits the ledger transaction for a
// tracked payment. The identifier must be present in the open payment
// registry; a payment never created here, or already submitted, returns
// [ErrUnknownPayment] with no side effects. An insufficient-funds refusal
// leaves the entry tracked so the submit can be retried later. overridePayload
// replaces the tracked payload for this one attempt; once an entry has been
// discarded the identifier is gone from the registry and further submits
// return [ErrUnknownPayment].
func (c *Client) SubmitPayment(ctx context.Context, identifier string, overridePayload *payment.Request) (SubmissionOutcome, error) {
	outcome := SubmissionOutcome{PaymentID: identifier}
	if err := ctx.Err(); err != nil {
		return outcome, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	req, ok := c.open[identifier]
	if !ok {
		return outcome, ErrUnknownPayment
	}
	if overridePayload != nil {
		req = *overridePayload
	}
	if err := req.Validate(true); err != nil {
		return outcome, err
	}

	amt, err := req.AmountStroops()
	if err != nil {
		return outcome, &payment.PayloadError{Reason: err.Error()}
	}
	fee := c.currentFee()
	if err := c.guard(amt, fee); err != nil {
		// The entry stays open so the caller can retry once funds arrive.
		return outcome, err
	}

	attemptID, err := uuid.NewV7()
	if err != nil {
		return outcome, fmt.Errorf("failed to create attempt id: %w", err)
	}
	outcome.AttemptID = attemptID

	tx, err := c.ledger.BuildPaymentTx(req, &c.account, fee)
	if err != nil {
		// Nothing reached the ledger, the entry stays tracked.
		return outcome, err
	}

	txid, err := c.ledger.Submit(tx)
	// Once an attempt was made the local entry no longer applies, whatever
	// the outcome. Ambiguous attempts are reconciled against the platform's
	// incomplete payment list.
	delete(c.open, identifier)
	outcome.EntryDiscarded = true
	if err != nil {
		c.log.Error("ledger submission failed, local tracking discarded",
			"payment_id", identifier, "attempt_id", attemptID, "error", err)
		return outcome, err
	}

	outcome.TxID = txid
	c.log.Info("payment submitted", "payment_id", identifier, "attempt_id", attemptID, "txid", txid)
	return outcome, nil
}

// ApprovePayment marks the payment as approved on the platform side. It does
// not touch the open payment registry.
func (c *Client) ApprovePayment(ctx context.Context, identifier string) (payment.Record, error) {
	return c.api.Approve(ctx, identifier)
}

// CompletePayment marks the payment as completed on the platform side,
// passing the ledger transaction id along when known. It does not touch the
// open payment registry.
func (c *Client) CompletePayment(ctx context.Context, identifier, txid string) (payment.Record, error) {
	return c.api.Complete(ctx, identifier, txid)
}

// CancelPayment cancels the payment on the platform side. It does not touch
// the open payment registry.
func (c *Client) CancelPayment(ctx context.Context, identifier string) (payment.Record, error) {
	return c.api.Cancel(ctx, identifier)
}

// GetPayment fetches the platform's record of the payment.
func (c *Client) GetPayment(ctx context.Context, identifier string) (payment.Record, error) {
	return c.api.Get(ctx, identifier)
}

// IncompleteServerPayments lists payments the platform considers started but
// not completed. The open payment registry is in-memory only, so this is the
// way to reconcile after a restart or after a discarded submission attempt.
func (c *Client) IncompleteServerPayments(ctx context.Context) ([]payment.Record, error) {
	return c.api.IncompleteServerPayments(ctx)
}

// Balance returns the wallet's native balance in stroops.
func (c *Client) Balance() (int64, error) {
	return c.ledger.NativeBalance()
}

// Address returns the wallet's public account id.
func (c *Client) Address() string {
	return c.ledger.Address()
}

// OpenPayments returns a snapshot of the open payment registry.
func (c *Client) OpenPayments() map[string]payment.Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make(map[string]payment.Request, len(c.open))
	for id, req := range c.open {
		snapshot[id] = req
	}
	return snapshot
}

// OpenPaymentCount returns the number of tracked open payments.
func (c *Client) OpenPaymentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.open)
}

// guard refuses any spend that does not fit in the current balance. An
// unknown balance refuses as well: the bias is toward not spending rather
// than risking an overspend.
func (c *Client) guard(amt, fee int64) error {
	balance, err := c.ledger.NativeBalance()
	if err != nil {
		c.log.Warn("could not determine balance, refusing to spend", "error", err)
		return &InsufficientFundsError{Balance: -1, Amount: amt, Fee: fee}
	}
	if !funds.CanAfford(balance, amt, fee) {
		return &InsufficientFundsError{Balance: balance, Amount: amt, Fee: fee}
	}
	return nil
}

// currentFee returns the fee to use for the next submission, re-fetching it
// from the ledger when configured to. A failed refresh falls back to the
// cached fee.
func (c *Client) currentFee() int64 {
	if !c.refreshFee {
		return c.baseFee
	}
	fee, err := c.ledger.BaseFee()
	if err != nil {
		c.log.Warn("base fee refresh failed, using cached fee", "cached_fee", c.baseFee, "error", err)
		return c.baseFee
	}
	c.baseFee = fee
	return fee
}
