// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestOutcome_Collapse verifies failures collapse to empty or fallback at the edge.
func TestOutcome_Collapse(t *testing.T) {
	ok := Success([]string{"a", "b"})
	if !ok.OK() || len(ok.OrEmpty()) != 2 {
		t.Errorf("success outcome = %+v", ok)
	}

	none := Success[string](nil)
	if got := none.OrEmpty(); got == nil || len(got) != 0 {
		t.Errorf("empty success should collapse to non-nil empty slice, got %#v", got)
	}

	failed := Failure[string](ErrTransport)
	if failed.OK() {
		t.Error("failure outcome reported OK")
	}
	if got := failed.OrEmpty(); got == nil || len(got) != 0 {
		t.Errorf("failure should collapse to non-nil empty slice, got %#v", got)
	}
	if got := failed.OrElse([]string{"fallback"}); len(got) != 1 || got[0] != "fallback" {
		t.Errorf("OrElse = %v, want [fallback]", got)
	}
}

// TestStatusError_Is verifies non-2xx classification.
func TestStatusError_Is(t *testing.T) {
	tests := []struct {
		code     int
		wantAuth bool
	}{
		{code: 401, wantAuth: true},
		{code: 403, wantAuth: true},
		{code: 404, wantAuth: false},
		{code: 500, wantAuth: false},
	}

	for _, tt := range tests {
		err := error(&StatusError{StatusCode: tt.code})
		if !errors.Is(err, ErrStatus) {
			t.Errorf("HTTP %d should match ErrStatus", tt.code)
		}
		if got := errors.Is(err, ErrAuth); got != tt.wantAuth {
			t.Errorf("HTTP %d matches ErrAuth = %v, want %v", tt.code, got, tt.wantAuth)
		}
	}
}

// TestReason verifies metrics labels for each failure class.
func TestReason(t *testing.T) {
	tests := map[string]error{
		"ok":             nil,
		"not_configured": ErrNotConfigured,
		"auth":           &StatusError{StatusCode: 401},
		"status":         &StatusError{StatusCode: 502},
		"transport":      ErrTransport,
		"decode":         ErrDecode,
		"unavailable":    ErrUnavailable,
		"error":          errors.New("boom"),
	}
	for want, err := range tests {
		if got := Reason(err); got != want {
			t.Errorf("Reason(%v) = %q, want %q", err, got, want)
		}
	}
}

// TestGetJSON_Classification verifies failures are mapped onto the taxonomy.
func TestGetJSON_Classification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			if r.Header.Get("X-Key") != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"value": 42}`))
		case "/bad-json":
			w.Write([]byte(`{"value":`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := NewHTTPClient(2 * time.Second)
	ctx := context.Background()

	var body struct {
		Value int `json:"value"`
	}
	if err := GetJSON(ctx, client, server.URL+"/ok", http.Header{"X-Key": {"secret"}}, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Value != 42 {
		t.Errorf("value = %d, want 42", body.Value)
	}

	if err := GetJSON(ctx, client, server.URL+"/ok", nil, &body); !errors.Is(err, ErrAuth) {
		t.Errorf("missing key error = %v, want ErrAuth", err)
	}
	if err := GetJSON(ctx, client, server.URL+"/bad-json", nil, &body); !errors.Is(err, ErrDecode) {
		t.Errorf("bad json error = %v, want ErrDecode", err)
	}
	if err := GetJSON(ctx, client, server.URL+"/boom", nil, &body); !errors.Is(err, ErrStatus) {
		t.Errorf("500 error = %v, want ErrStatus", err)
	}

	server.Close()
	if err := GetJSON(ctx, client, server.URL+"/ok", nil, &body); !errors.Is(err, ErrTransport) {
		t.Errorf("closed server error = %v, want ErrTransport", err)
	}
}

// TestGuard_OpensAfterConsecutiveFailures verifies the breaker rejects calls
// once the failure threshold is reached.
func TestGuard_OpensAfterConsecutiveFailures(t *testing.T) {
	g := NewGuard(GuardConfig{Name: "test-open", FailureThreshold: 2, OpenTimeout: time.Minute})

	calls := 0
	failing := func(context.Context) ([]int, error) {
		calls++
		return nil, ErrTransport
	}

	for i := 0; i < 2; i++ {
		out := Run(context.Background(), g, failing)
		if !errors.Is(out.Err, ErrTransport) {
			t.Fatalf("call %d: err = %v, want ErrTransport", i, out.Err)
		}
	}

	out := Run(context.Background(), g, failing)
	if !errors.Is(out.Err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable once open", out.Err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (open breaker must not invoke fn)", calls)
	}
}

// TestGuard_Success verifies items flow through a guarded call.
func TestGuard_Success(t *testing.T) {
	g := NewGuard(GuardConfig{Name: "test-ok", RatePerSecond: 100, Burst: 5})

	out := Run(context.Background(), g, func(context.Context) ([]string, error) {
		return []string{"x"}, nil
	})
	if !out.OK() || len(out.Items) != 1 || out.Items[0] != "x" {
		t.Errorf("outcome = %+v", out)
	}
}

// TestGuard_Nil verifies a nil guard runs the call directly.
func TestGuard_Nil(t *testing.T) {
	out := Run(context.Background(), nil, func(context.Context) ([]string, error) {
		return nil, nil
	})
	if !out.OK() || out.Items == nil {
		t.Errorf("nil guard outcome = %+v, want OK with empty items", out)
	}
}
