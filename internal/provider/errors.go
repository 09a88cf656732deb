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

// Package provider holds the plumbing shared by the music, movie and quote
// clients: the failure taxonomy, the Outcome result type, the HTTP helpers
// that classify failures, and the Guard that applies rate limiting, circuit
// breaking and metrics around each provider call.
package provider

import (
	"errors"
	"fmt"
)

// Failure reasons carried by a failed Outcome.
var (
	ErrNotConfigured = errors.New("provider not configured")
	ErrAuth          = errors.New("provider authentication failed")
	ErrTransport     = errors.New("provider transport error")
	ErrStatus        = errors.New("provider returned non-success status")
	ErrDecode        = errors.New("provider response could not be decoded")
	ErrUnavailable   = errors.New("provider unavailable")
)

// StatusError records a non-2xx provider response. It matches ErrStatus,
// and also ErrAuth for 401/403.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("provider returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("provider returned HTTP %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrStatus:
		return true
	case ErrAuth:
		return e.StatusCode == 401 || e.StatusCode == 403
	}
	return false
}

// Reason returns a short metrics/log label for a failure.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
