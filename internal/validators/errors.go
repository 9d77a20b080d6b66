// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidDataType   = errors.New("invalid data type")
	ErrEmptyData         = errors.New("data is required")
	ErrDataNotObject     = errors.New("data must be a JSON object")
	ErrEmptyRecords      = errors.New("records list cannot be empty")
	ErrNoFieldsToUpdate  = errors.New("at least one field must be provided for update")
	ErrInvalidActor      = errors.New("actor user id is required")
	ErrInvalidRole       = errors.New("actor role is required")
	ErrInvalidDateRange  = errors.New("created_from must not be after created_to")
	ErrInvalidBusinessID = errors.New("business id must not be empty")
)
