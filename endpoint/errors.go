// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// RejectionMessage is the message sent to callers whose request did not
// satisfy the endpoint requirements.
const RejectionMessage = "Transaction requirements weren't met"

// Rejection is the body of every rejected request.
type Rejection struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

func isRejection(b []byte) bool {
	var m map[string]any
	err := json.Unmarshal(b, &m)
	if err != nil || len(m) != 2 {
		return false
	}
	status, ok := m["status"].(bool)
	if !ok || status {
		return false
	}
	msg, _ := m["message"].(string)
	return msg == RejectionMessage
}

// ErrTransactionRejected matches every [TransactionRejectedError] via [errors.Is].
var ErrTransactionRejected = errors.New("transaction requirements weren't met")

// FieldMissingError is reported when a declared field has no value.
type FieldMissingError struct {
	Slot  Slot
	Field string
}

// Error implements the [error] interface.
func (e FieldMissingError) Error() string {
	return fmt.Sprintf("missing %s field: %s", e.Slot, e.Field)
}

// DecodeFailureError is reported when a raw value could not be decoded as JSON.
//
// For the body group Field is empty since the body as a whole failed.
type DecodeFailureError struct {
	Slot  Slot
	Field string
	Cause error
}

// Error implements the [error] interface.
func (e DecodeFailureError) Error() string {
	var sb strings.Builder
	sb.WriteString("failed to decode ")
	sb.WriteString(string(e.Slot))
	if e.Field != "" {
		sb.WriteString(" field: ")
		sb.WriteString(e.Field)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e DecodeFailureError) Unwrap() error {
	return e.Cause
}

// SchemaViolationError is reported when a value fails its validator.
type SchemaViolationError struct {
	Slot  Slot
	Field string
	Cause error
}

// Error implements the [error] interface.
func (e SchemaViolationError) Error() string {
	return fmt.Sprintf("invalid %s field: %s: %v", e.Slot, e.Field, e.Cause)
}

// Unwrap returns the underlying cause.
func (e SchemaViolationError) Unwrap() error {
	return e.Cause
}

// TransactionRejectedError is returned when any declared field in any
// declared group failed. The field level issues are only kept for local
// logging; the response always carries the same [Rejection] body.
type TransactionRejectedError struct {
	Issues []error

	// StatusCode of the rejection response. Zero means 200 OK.
	StatusCode int
}

// Error implements the [error] interface.
func (e *TransactionRejectedError) Error() string {
	if len(e.Issues) == 0 {
		return ErrTransactionRejected.Error()
	}
	return fmt.Sprintf("%s: %v", ErrTransactionRejected, errors.Join(e.Issues...))
}

// Is reports whether target is [ErrTransactionRejected].
func (e *TransactionRejectedError) Is(target error) bool {
	return target == ErrTransactionRejected
}

// Unwrap returns the field level issues.
func (e *TransactionRejectedError) Unwrap() []error {
	return e.Issues
}

// WriteHttpResponse implements the [HttpResponseWriter] interface.
func (e *TransactionRejectedError) WriteHttpResponse(ctx context.Context, w http.ResponseWriter) {
	status := e.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.Encode(Rejection{
		Status:  false,
		Message: RejectionMessage,
	})
}

// UnexpectedStatusError is returned by [Client.Call] when the endpoint
// responds with a 4xx or 5xx status code.
type UnexpectedStatusError struct {
	StatusCode int
	Body       []byte
}

// Error implements the [error] interface.
func (e UnexpectedStatusError) Error() string {
	return fmt.Sprintf("received unexpected http status code: %d", e.StatusCode)
}
