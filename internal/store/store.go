// Package store is the client side of the bills store: what containers
// call to list, upload and update bills.
package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/billed/internal/api"
	"github.com/mmynk/billed/internal/models"
)

// Store is the remote persistence API.
type Store interface {
	Bills() BillsResource
}

// BillsResource exposes the operations on the bills collection.
type BillsResource interface {
	List(ctx context.Context) ([]models.Bill, error)
	Create(ctx context.Context, req *api.CreateBillRequest) (*api.CreateBillResponse, error)
	Update(ctx context.Context, req *api.UpdateBillRequest) (*models.Bill, error)
	Delete(ctx context.Context, req *api.DeleteBillRequest) error
}

// Error is a failed store call. Its message is the HTTP-style text shown
// to users, e.g. "Erreur 404".
type Error struct {
	Status int
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("Erreur %d", e.Status)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error for an HTTP status.
func NewError(status int) *Error {
	return &Error{Status: status, Err: errors.New(http.StatusText(status))}
}

// httpStatus follows the Connect protocol's code to HTTP status mapping.
var httpStatus = map[connect.Code]int{
	connect.CodeCanceled:           499,
	connect.CodeUnknown:            http.StatusInternalServerError,
	connect.CodeInvalidArgument:    http.StatusBadRequest,
	connect.CodeDeadlineExceeded:   http.StatusGatewayTimeout,
	connect.CodeNotFound:           http.StatusNotFound,
	connect.CodeAlreadyExists:      http.StatusConflict,
	connect.CodePermissionDenied:   http.StatusForbidden,
	connect.CodeResourceExhausted:  http.StatusTooManyRequests,
	connect.CodeFailedPrecondition: http.StatusBadRequest,
	connect.CodeAborted:            http.StatusConflict,
	connect.CodeOutOfRange:         http.StatusBadRequest,
	connect.CodeUnimplemented:      http.StatusNotImplemented,
	connect.CodeInternal:           http.StatusInternalServerError,
	connect.CodeUnavailable:        http.StatusServiceUnavailable,
	connect.CodeDataLoss:           http.StatusInternalServerError,
	connect.CodeUnauthenticated:    http.StatusUnauthorized,
}

// wrap converts a Connect error into an Error.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	status, ok := httpStatus[connect.CodeOf(err)]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &Error{Status: status, Err: err}
}
