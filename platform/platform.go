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

// Package platform is a thin client for the Pi platform API, the centralized
// payment-approval side of the system. Every call is a synchronous JSON
// request/response; approval semantics live in the lifecycle client, not here.
package platform

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/roniahmadi/pi-network-helper/httpfmt"
	"github.com/roniahmadi/pi-network-helper/payment"
)

const (
	// DefaultBaseURL is the production platform API endpoint.
	DefaultBaseURL = "https://api.minepi.com"
	// DefaultTimeout is the per-call timeout. The platform API can be slow
	// to answer under load, so the default is deliberately generous.
	DefaultTimeout = 500 * time.Second
)

// Client calls the platform API on behalf of one API key.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a platform API client. An empty baseURL selects
// [DefaultBaseURL]; a nil httpClient gets a client with [DefaultTimeout].
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    httpClient,
	}
}

// Create registers a new payment with the platform API and returns the
// platform's record of it, including the assigned identifier.
func (c *Client) Create(ctx context.Context, req payment.Request) (payment.Record, error) {
	body := struct {
		Payment payment.Request `json:"payment"`
	}{Payment: req}

	var rec payment.Record
	if err := c.do(ctx, http.MethodPost, "/v2/payments", body, &rec); err != nil {
		return payment.Record{}, err
	}
	return rec, nil
}

// Get fetches the platform's record of a payment.
func (c *Client) Get(ctx context.Context, identifier string) (payment.Record, error) {
	var rec payment.Record
	if err := c.do(ctx, http.MethodGet, "/v2/payments/"+identifier, nil, &rec); err != nil {
		return payment.Record{}, err
	}
	return rec, nil
}

// Approve marks a payment as approved by the app developer.
func (c *Client) Approve(ctx context.Context, identifier string) (payment.Record, error) {
	var rec payment.Record
	if err := c.do(ctx, http.MethodPost, "/v2/payments/"+identifier+"/approve", nil, &rec); err != nil {
		return payment.Record{}, err
	}
	return rec, nil
}

// Complete marks a payment as completed. When the ledger transaction id is
// known it is passed along so the platform can cross-reference the settled
// transaction.
func (c *Client) Complete(ctx context.Context, identifier, txid string) (payment.Record, error) {
	var body any
	if txid != "" {
		body = struct {
			TxID string `json:"txid"`
		}{TxID: txid}
	}

	var rec payment.Record
	if err := c.do(ctx, http.MethodPost, "/v2/payments/"+identifier+"/complete", body, &rec); err != nil {
		return payment.Record{}, err
	}
	return rec, nil
}

// Cancel cancels a payment on the platform side.
func (c *Client) Cancel(ctx context.Context, identifier string) (payment.Record, error) {
	var rec payment.Record
	if err := c.do(ctx, http.MethodPost, "/v2/payments/"+identifier+"/cancel", nil, &rec); err != nil {
		return payment.Record{}, err
	}
	return rec, nil
}

// IncompleteServerPayments lists payments the platform considers started but
// not completed. Callers use it to reconcile server-side state against the
// in-memory registry, typically after a restart.
func (c *Client) IncompleteServerPayments(ctx context.Context) ([]payment.Record, error) {
	var out struct {
		IncompleteServerPayments []payment.Record `json:"incomplete_server_payments"`
	}
	if err := c.do(ctx, http.MethodGet, "/v2/payments/incomplete_server_payments", nil, &out); err != nil {
		return nil, err
	}
	return out.IncompleteServerPayments, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		var err error
		reqBody, err = httpfmt.EncodeJSON(body)
		if err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create %s %s request: %w", method, path, err)
	}
	req.Header.Set("Authorization", httpfmt.MakeKeyHeaderValue(c.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("platform request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Message:    httpfmt.ErrorBody(resp),
		}
	}

	raw, err := httpfmt.DecodeJSON(resp.Body, out)
	if err != nil {
		return &DecodeError{Body: raw, Err: err}
	}
	return nil
}
