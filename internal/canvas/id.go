// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package canvas

import (
	"github.com/google/uuid"
)

// NewID returns a locally unique identifier: a UUIDv7, i.e. a millisecond
// timestamp followed by random bits. Only used when no remote store assigns ids.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// clock or entropy failure, fall back to a purely random id
		return uuid.NewString()
	}
	return id.String()
}

// IDFunc produces identifiers; swapped in tests for deterministic ids
type IDFunc func() string
