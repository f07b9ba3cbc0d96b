// Package api defines the wire contract of the bills store: the Connect
// procedures, their request and response messages, and the JSON codec
// both sides use.
//
// Messages are plain Go structs. Field names match the JSON the bill store
// has always exchanged (fileUrl, key, selector, data, ...).
package api

import (
	"github.com/mmynk/billed/internal/models"
)

// ListBillsRequest lists the bills visible to the caller.
type ListBillsRequest struct{}

// ListBillsResponse carries the bills in store order.
type ListBillsResponse struct {
	Bills []models.Bill `json:"bills"`
}

// CreateBillRequest uploads a receipt and opens a pending bill for it.
// A request without FileName creates a bill with no receipt attached.
type CreateBillRequest struct {
	Email       string `json:"email"`
	FileName    string `json:"fileName,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Content     []byte `json:"file,omitempty"`
}

// CreateBillResponse returns where the receipt lives and the bill key to
// update afterwards.
type CreateBillResponse struct {
	FileURL string `json:"fileUrl"`
	Key     string `json:"key"`
}

// UpdateBillRequest merges Data, a JSON encoded bill, into the bill
// identified by Selector.
type UpdateBillRequest struct {
	Data     string `json:"data"`
	Selector string `json:"selector"`
}

// DeleteBillRequest discards the bill identified by Selector. Only
// pending bills can be deleted.
type DeleteBillRequest struct {
	Selector string `json:"selector"`
}

// DeleteBillResponse is empty.
type DeleteBillResponse struct{}

// LoginRequest authenticates against one of the two login forms.
type LoginRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Type     models.Role `json:"type"`
}

// RegisterRequest creates an employee account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the public view of an account.
type User struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Type  models.Role `json:"type"`
}

// AuthResponse is returned by Login and Register.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"jwt"`
}
