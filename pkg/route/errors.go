// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package route

import (
	"fmt"

	"github.com/samber/oops"

	"github.com/quickplug/quickplug/pkg/params"
)

// Error codes for dispatch failures.
const (
	CodeMalformedRequest = "MALFORMED_REQUEST"
	CodeRouteNotFound    = "ROUTE_NOT_FOUND"
	CodeEmptyResult      = "EMPTY_RESULT"
	CodeBadResultType    = "BAD_RESULT_TYPE"
	CodeBuildFailed      = "BUILD_FAILED"
)

// ErrMalformedRequest creates an error for a request whose argv shape,
// URL scheme or handle cannot be parsed.
func ErrMalformedRequest(reason string, args ...any) error {
	return oops.Code(CodeMalformedRequest).Errorf("malformed request: "+reason, args...)
}

// ErrRouteNotFound creates an error for an unregistered route path.
func ErrRouteNotFound(path string) error {
	return oops.Code(CodeRouteNotFound).
		With("path", path).
		Errorf("no route registered for path %q", path)
}

// ErrEmptyResult creates an error for a folder callback that produced
// neither items nor an explicit no-op signal.
func ErrEmptyResult(path string) error {
	return oops.Code(CodeEmptyResult).
		With("path", path).
		Errorf("callback %q returned no items", path)
}

// ErrBadResultType creates an error for a callback return value of an
// unexpected shape.
func ErrBadResultType(path string, value any) error {
	return oops.Code(CodeBadResultType).
		With("path", path).
		Errorf("unexpected return type %T from callback %q", value, path)
}

// errorHeading derives the notification heading for a dispatch failure:
// the oops code when there is one, the Go type name otherwise.
func errorHeading(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		if code, ok := oopsErr.Code().(string); ok && code != "" {
			return code
		}
	}
	return fmt.Sprintf("%T", err)
}

// statusFor maps a dispatch error to its metrics status label.
func statusFor(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return StatusError
	}
	switch oopsErr.Code() {
	case CodeRouteNotFound:
		return StatusNotFound
	case CodeMalformedRequest, params.CodeDecodeFailed:
		return StatusMalformed
	default:
		return StatusError
	}
}
