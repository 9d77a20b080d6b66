// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks record store input before it reaches storage.
//
// A Validator accepts an optional list of field names to restrict the
// check to; without it every field of the value is checked.
package validators

import "context"

// Validator validates a value, optionally only the named fields of it.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
