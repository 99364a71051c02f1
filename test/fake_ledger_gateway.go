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

package test

import (
	"github.com/stellar/go/keypair"
	hProtocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"
	"github.com/stretchr/testify/assert"

	"github.com/roniahmadi/pi-network-helper/payment"
)

// fakeKP is the signing identity a zero-value FakeLedgerGateway pretends to
// hold. Randomly generated so transactions built by the fake pass strkey
// validation.
var fakeKP = keypair.MustRandom()

// Address returns the account id a zero-value FakeLedgerGateway reports.
func Address() string {
	return fakeKP.Address()
}

// Destination returns a valid ledger account id usable as a payment
// destination in tests.
func Destination() string {
	return keypair.MustRandom().Address()
}

// FakeLedgerGateway is a Func-field fake of the ledger gateway. The zero
// value behaves like an idle, well-funded account: account, balance, fee and
// build calls succeed, Submit fails with assert.AnError.
type FakeLedgerGateway struct {
	AddressFunc        func() string
	LoadAccountFunc    func() (hProtocol.Account, error)
	BaseFeeFunc        func() (int64, error)
	NativeBalanceFunc  func() (int64, error)
	BuildPaymentTxFunc func(req payment.Request, source txnbuild.Account, baseFee int64) (*txnbuild.Transaction, error)
	SubmitFunc         func(tx *txnbuild.Transaction) (string, error)

	BaseFeeCalls       int
	NativeBalanceCalls int
	BuildCalls         int
	SubmitCalls        int
}

func (f *FakeLedgerGateway) Address() string {
	if f.AddressFunc != nil {
		return f.AddressFunc()
	}
	return fakeKP.Address()
}

func (f *FakeLedgerGateway) LoadAccount() (hProtocol.Account, error) {
	if f.LoadAccountFunc != nil {
		return f.LoadAccountFunc()
	}
	return hProtocol.Account{AccountID: f.Address(), Sequence: 1}, nil
}

func (f *FakeLedgerGateway) BaseFee() (int64, error) {
	f.BaseFeeCalls++
	if f.BaseFeeFunc != nil {
		return f.BaseFeeFunc()
	}
	return 100_000, nil
}

func (f *FakeLedgerGateway) NativeBalance() (int64, error) {
	f.NativeBalanceCalls++
	if f.NativeBalanceFunc != nil {
		return f.NativeBalanceFunc()
	}
	return 1_000_000_000, nil
}

func (f *FakeLedgerGateway) BuildPaymentTx(req payment.Request, source txnbuild.Account, baseFee int64) (*txnbuild.Transaction, error) {
	f.BuildCalls++
	if f.BuildPaymentTxFunc != nil {
		return f.BuildPaymentTxFunc(req, source, baseFee)
	}
	if err := req.Validate(true); err != nil {
		return nil, err
	}
	if baseFee <= 0 {
		baseFee = txnbuild.MinBaseFee
	}
	// The request's destination is test data and usually not a real strkey,
	// so the fake substitutes a generated one.
	return txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &txnbuild.SimpleAccount{AccountID: fakeKP.Address(), Sequence: 1},
		IncrementSequenceNum: true,
		BaseFee:              baseFee,
		Memo:                 txnbuild.MemoText(req.Identifier),
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewInfiniteTimeout(),
		},
		Operations: []txnbuild.Operation{
			&txnbuild.Payment{
				Destination: Destination(),
				Amount:      req.Amount,
				Asset:       txnbuild.NativeAsset{},
			},
		},
	})
}

func (f *FakeLedgerGateway) Submit(tx *txnbuild.Transaction) (string, error) {
	f.SubmitCalls++
	if f.SubmitFunc != nil {
		return f.SubmitFunc(tx)
	}
	return "", assert.AnError
}
