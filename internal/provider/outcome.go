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

// Outcome is the internal result of a provider call: either the items the
// provider returned (possibly none) or the reason the call failed. Clients
// collapse a failed Outcome to an empty or fallback list only at the edge
// exposed to the aggregator.
type Outcome[T any] struct {
	Items []T
	Err   error
}

// Success wraps items in a successful Outcome. A nil slice becomes empty.
func Success[T any](items []T) Outcome[T] {
	if items == nil {
		items = []T{}
	}
	return Outcome[T]{Items: items}
}

// Failure wraps err in a failed Outcome.
func Failure[T any](err error) Outcome[T] {
	return Outcome[T]{Err: err}
}

// OK reports whether the provider call succeeded.
func (o Outcome[T]) OK() bool { return o.Err == nil }

// OrEmpty returns the items on success and an empty slice on failure.
func (o Outcome[T]) OrEmpty() []T {
	return o.OrElse(nil)
}

// OrElse returns the items on success and fallback on failure. A nil
// fallback yields an empty slice.
func (o Outcome[T]) OrElse(fallback []T) []T {
	if o.OK() {
		if o.Items == nil {
			return []T{}
		}
		return o.Items
	}
	if fallback == nil {
		return []T{}
	}
	return fallback
}
