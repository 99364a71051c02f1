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

// Package payment holds the payment types shared between the platform API
// gateway, the ledger gateway and the lifecycle client.
package payment

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stellar/go/amount"
)

// MaxMemoBytes is the maximum length of a text memo the ledger accepts.
const MaxMemoBytes = 28

// Request is the payload submitted to the platform API when creating a payment
// and the record kept in the open payment registry until the payment is
// submitted on the ledger.
type Request struct {
	// Identifier is the payment id. It is assigned by the platform API on
	// creation and is required for every operation after that.
	Identifier string `json:"identifier,omitempty"`
	// Amount is a decimal string denominated in the ledger's native asset.
	Amount string `json:"amount"`
	// Memo is carried on the ledger transaction for reconciliation. At most
	// [MaxMemoBytes] bytes.
	Memo string `json:"memo"`
	// Metadata is an opaque mapping stored alongside the payment on the
	// platform side.
	Metadata map[string]any `json:"metadata"`
	// UID is the external user identifier the payment belongs to.
	UID string `json:"uid"`
	// Recipient is the ledger account id of the receiving wallet.
	Recipient string `json:"recipient,omitempty"`
	// ToAddress is the destination account as reported back by the platform
	// API. When set it takes precedence over Recipient.
	ToAddress string `json:"to_address,omitempty"`
}

// Destination returns the ledger account the payment operation should pay to.
func (r Request) Destination() string {
	if r.ToAddress != "" {
		return r.ToAddress
	}
	return r.Recipient
}

// AmountStroops parses the decimal amount string into stroops, the smallest
// ledger unit.
func (r Request) AmountStroops() (int64, error) {
	return amount.ParseInt64(r.Amount)
}

// Validate checks that all required fields are present. When forSubmit is set
// the identifier and a destination account are required as well; on creation
// both are allowed to be empty since the platform API assigns them.
//
// A failed validation returns a *PayloadError naming the missing fields so
// batch-style callers can log and move on.
func (r Request) Validate(forSubmit bool) error {
	perr := &PayloadError{}
	if strings.TrimSpace(r.Amount) == "" {
		perr.Missing = append(perr.Missing, "amount")
	} else if _, err := r.AmountStroops(); err != nil {
		perr.Reason = fmt.Sprintf("amount %q is not a valid decimal amount", r.Amount)
	}
	if r.Memo == "" {
		perr.Missing = append(perr.Missing, "memo")
	} else if len(r.Memo) > MaxMemoBytes && perr.Reason == "" {
		perr.Reason = fmt.Sprintf("memo exceeds %d bytes", MaxMemoBytes)
	}
	if r.Metadata == nil {
		perr.Missing = append(perr.Missing, "metadata")
	}
	if r.UID == "" {
		perr.Missing = append(perr.Missing, "uid")
	}
	if forSubmit {
		if r.Identifier == "" {
			perr.Missing = append(perr.Missing, "identifier")
		}
		if r.Destination() == "" {
			perr.Missing = append(perr.Missing, "recipient")
		}
	}
	if len(perr.Missing) > 0 || perr.Reason != "" {
		return perr
	}
	return nil
}

// PayloadError indicates a payment payload is missing required fields or
// carries a field the ledger would reject.
type PayloadError struct {
	Missing []string
	Reason  string
}

func (e *PayloadError) Error() string {
	switch {
	case len(e.Missing) > 0 && e.Reason != "":
		return fmt.Sprintf("invalid payment payload: missing %s; %s", strings.Join(e.Missing, ", "), e.Reason)
	case len(e.Missing) > 0:
		return fmt.Sprintf("invalid payment payload: missing %s", strings.Join(e.Missing, ", "))
	default:
		return fmt.Sprintf("invalid payment payload: %s", e.Reason)
	}
}

// Record is a payment as reported by the platform API.
type Record struct {
	Identifier  string         `json:"identifier"`
	UserUID     string         `json:"user_uid"`
	Amount      json.Number    `json:"amount"`
	Memo        string         `json:"memo"`
	Metadata    map[string]any `json:"metadata"`
	FromAddress string         `json:"from_address"`
	ToAddress   string         `json:"to_address"`
	Direction   string         `json:"direction"`
	Network     string         `json:"network"`
	Status      Status         `json:"status"`
	Transaction *Transaction   `json:"transaction,omitempty"`
	CreatedAt   string         `json:"created_at"`
}

// Status is the platform-side view of where a payment is in its lifecycle.
type Status struct {
	DeveloperApproved   bool `json:"developer_approved"`
	TransactionVerified bool `json:"transaction_verified"`
	DeveloperCompleted  bool `json:"developer_completed"`
	Cancelled           bool `json:"cancelled"`
	UserCancelled       bool `json:"user_cancelled"`
}

// Transaction cross-references the settled ledger transaction, if any.
type Transaction struct {
	TxID     string `json:"txid"`
	Verified bool   `json:"verified"`
	Link     string `json:"_link"`
}

// RequestFromRecord projects a platform record back into the request shape
// the registry tracks. The platform is the source of truth for the identifier
// and the destination address once a payment has been created.
func RequestFromRecord(rec Record) Request {
	return Request{
		Identifier: rec.Identifier,
		Amount:     rec.Amount.String(),
		Memo:       rec.Memo,
		Metadata:   rec.Metadata,
		UID:        rec.UserUID,
		ToAddress:  rec.ToAddress,
	}
}
