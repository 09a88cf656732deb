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

package emotion

import "errors"

var (
	// ErrModelInvocation is returned when a text or face model call fails.
	// Callers must not treat it as a detected emotion.
	ErrModelInvocation = errors.New("emotion model invocation failed")

	// ErrUnsupportedInput is returned for an input kind the classifier has
	// no model for.
	ErrUnsupportedInput = errors.New("unsupported classifier input")

	// ErrInvalidImage is returned by DecodeImage for unreadable uploads.
	ErrInvalidImage = errors.New("invalid image")
)
