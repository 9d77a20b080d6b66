// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// maxBodySize caps request bodies, bulk imports included.
const maxBodySize = 8 << 20

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// decodeJSON reads the request body into dst and validates the result
// against its `validate` tags. Every failure wraps errInvalidRequestBody.
func decodeJSON(r *http.Request, validate *validator.Validate, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodySize)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errInvalidRequestBody)
		}
		return fmt.Errorf("%w: %w", errInvalidRequestBody, err)
	}

	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%w: field '%s' failed on '%s'", errInvalidRequestBody, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %w", errInvalidRequestBody, err)
	}

	return nil
}
