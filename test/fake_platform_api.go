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

// Package test contains fakes for the client's collaborators.
package test

import (
	"context"

	"github.com/stretchr/testify/assert"

	"github.com/roniahmadi/pi-network-helper/payment"
)

// FakePlatformAPI is a Func-field fake of the platform API gateway. Calls are
// counted per operation; a nil Func fails the call with assert.AnError.
type FakePlatformAPI struct {
	CreateFunc     func(ctx context.Context, req payment.Request) (payment.Record, error)
	GetFunc        func(ctx context.Context, identifier string) (payment.Record, error)
	ApproveFunc    func(ctx context.Context, identifier string) (payment.Record, error)
	CompleteFunc   func(ctx context.Context, identifier, txid string) (payment.Record, error)
	CancelFunc     func(ctx context.Context, identifier string) (payment.Record, error)
	IncompleteFunc func(ctx context.Context) ([]payment.Record, error)

	CreateCalls     int
	GetCalls        int
	ApproveCalls    int
	CompleteCalls   int
	CancelCalls     int
	IncompleteCalls int
}

func (f *FakePlatformAPI) Create(ctx context.Context, req payment.Request) (payment.Record, error) {
	f.CreateCalls++
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, req)
	}
	return payment.Record{}, assert.AnError
}

func (f *FakePlatformAPI) Get(ctx context.Context, identifier string) (payment.Record, error) {
	f.GetCalls++
	if f.GetFunc != nil {
		return f.GetFunc(ctx, identifier)
	}
	return payment.Record{}, assert.AnError
}

func (f *FakePlatformAPI) Approve(ctx context.Context, identifier string) (payment.Record, error) {
	f.ApproveCalls++
	if f.ApproveFunc != nil {
		return f.ApproveFunc(ctx, identifier)
	}
	return payment.Record{}, assert.AnError
}

func (f *FakePlatformAPI) Complete(ctx context.Context, identifier, txid string) (payment.Record, error) {
	f.CompleteCalls++
	if f.CompleteFunc != nil {
		return f.CompleteFunc(ctx, identifier, txid)
	}
	return payment.Record{}, assert.AnError
}

func (f *FakePlatformAPI) Cancel(ctx context.Context, identifier string) (payment.Record, error) {
	f.CancelCalls++
	if f.CancelFunc != nil {
		return f.CancelFunc(ctx, identifier)
	}
	return payment.Record{}, assert.AnError
}

func (f *FakePlatformAPI) IncompleteServerPayments(ctx context.Context) ([]payment.Record, error) {
	f.IncompleteCalls++
	if f.IncompleteFunc != nil {
		return f.IncompleteFunc(ctx)
	}
	return nil, assert.AnError
}
