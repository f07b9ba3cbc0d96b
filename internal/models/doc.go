// Package models defines the core domain models for Billed.
//
// # Models
//
//   - Bill: an expense submitted by an employee, with its receipt
//   - Status: review state of a bill (pending, accepted, refused)
//   - User: a registered account, either an employee or an admin
//   - Role: the account type stored in the session
//
// Bills are serialized with the camelCase field names the bill store has
// always used (fileUrl, commentAdmin, ...), so the same struct travels over
// the API and into the views.
//
// # Design Principles
//
// 1. **Raw values stay raw**: Bill.Date is the string the employee entered.
// Display formatting lives on transient fields that are never persisted.
// 2. **Avoid circular references**: use ID strings instead of pointers.
package models
