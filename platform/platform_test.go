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

package platform_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roniahmadi/pi-network-helper/payment"
	"github.com/roniahmadi/pi-network-helper/platform"
)

type capturedRequest struct {
	method string
	path   string
	auth   string
	body   []byte
}

func newTestServer(t *testing.T, status int, respBody string) (*platform.Client, *[]capturedRequest) {
	t.Helper()

	captured := &[]capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		*captured = append(*captured, capturedRequest{
			method: r.Method,
			path:   r.URL.Path,
			auth:   r.Header.Get("Authorization"),
			body:   body,
		})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	t.Cleanup(srv.Close)

	return platform.NewClient(srv.URL, "test-api-key", srv.Client()), captured
}

func TestCreate(t *testing.T) {
	client, captured := newTestServer(t, http.StatusOK, `{"identifier":"pay_1","user_uid":"u1","amount":1,"to_address":"GDEST"}`)

	rec, err := client.Create(context.Background(), payment.Request{
		Amount:   "1",
		Memo:     "m",
		Metadata: map[string]any{},
		UID:      "u1",
	})
	require.NoError(t, err)
	require.Equal(t, "pay_1", rec.Identifier)
	require.Equal(t, "GDEST", rec.ToAddress)

	require.Len(t, *captured, 1)
	got := (*captured)[0]
	require.Equal(t, http.MethodPost, got.method)
	require.Equal(t, "/v2/payments", got.path)
	require.Equal(t, "Key test-api-key", got.auth)

	// The payload is nested under a "payment" key.
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(got.body, &body))
	require.Contains(t, body, "payment")
}

func TestPaymentOperations(t *testing.T) {
	tests := map[string]struct {
		call       func(ctx context.Context, c *platform.Client) (payment.Record, error)
		wantMethod string
		wantPath   string
		wantBody   string
	}{
		"get": {
			call: func(ctx context.Context, c *platform.Client) (payment.Record, error) {
				return c.Get(ctx, "pay_1")
			},
			wantMethod: http.MethodGet,
			wantPath:   "/v2/payments/pay_1",
		},
		"approve": {
			call: func(ctx context.Context, c *platform.Client) (payment.Record, error) {
				return c.Approve(ctx, "pay_1")
			},
			wantMethod: http.MethodPost,
			wantPath:   "/v2/payments/pay_1/approve",
		},
		"complete with txid": {
			call: func(ctx context.Context, c *platform.Client) (payment.Record, error) {
				return c.Complete(ctx, "pay_1", "tx123")
			},
			wantMethod: http.MethodPost,
			wantPath:   "/v2/payments/pay_1/complete",
			wantBody:   `{"txid":"tx123"}`,
		},
		"complete without txid": {
			call: func(ctx context.Context, c *platform.Client) (payment.Record, error) {
				return c.Complete(ctx, "pay_1", "")
			},
			wantMethod: http.MethodPost,
			wantPath:   "/v2/payments/pay_1/complete",
		},
		"cancel": {
			call: func(ctx context.Context, c *platform.Client) (payment.Record, error) {
				return c.Cancel(ctx, "pay_1")
			},
			wantMethod: http.MethodPost,
			wantPath:   "/v2/payments/pay_1/cancel",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			client, captured := newTestServer(t, http.StatusOK, `{"identifier":"pay_1"}`)

			rec, err := tc.call(context.Background(), client)
			require.NoError(t, err)
			require.Equal(t, "pay_1", rec.Identifier)

			require.Len(t, *captured, 1)
			got := (*captured)[0]
			require.Equal(t, tc.wantMethod, got.method)
			require.Equal(t, tc.wantPath, got.path)
			require.Equal(t, "Key test-api-key", got.auth)
			if tc.wantBody != "" {
				require.JSONEq(t, tc.wantBody, string(got.body))
			} else {
				require.Empty(t, got.body)
			}
		})
	}
}

func TestIncompleteServerPayments(t *testing.T) {
	client, captured := newTestServer(t, http.StatusOK,
		`{"incomplete_server_payments":[{"identifier":"pay_1"},{"identifier":"pay_2"}]}`)

	recs, err := client.IncompleteServerPayments(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "pay_1", recs[0].Identifier)
	require.Equal(t, "pay_2", recs[1].Identifier)

	require.Equal(t, "/v2/payments/incomplete_server_payments", (*captured)[0].path)
	require.Equal(t, http.MethodGet, (*captured)[0].method)
}

func TestDecodeFailure(t *testing.T) {
	client, _ := newTestServer(t, http.StatusOK, "<html>not json</html>")

	_, err := client.Get(context.Background(), "pay_1")

	var derr *platform.DecodeError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, "<html>not json</html>", string(derr.Body))
}

func TestStatusError(t *testing.T) {
	client, _ := newTestServer(t, http.StatusNotFound, `{"error":"payment not found"}`)

	_, err := client.Get(context.Background(), "pay_missing")

	var serr *platform.StatusError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, http.StatusNotFound, serr.StatusCode)
	require.Equal(t, "payment not found", serr.Message)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client := platform.NewClient(srv.URL, "k", srv.Client())
	srv.Close()

	_, err := client.Get(context.Background(), "pay_1")
	require.Error(t, err)

	var serr *platform.StatusError
	require.False(t, errors.As(err, &serr), "transport failures must not look like API errors")
	var derr *platform.DecodeError
	require.False(t, errors.As(err, &derr), "transport failures must not look like decode errors")
}
