package models

import "fmt"

// Status is the review state of a bill.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

// Statuses lists every status in dashboard order.
var Statuses = []Status{StatusPending, StatusAccepted, StatusRefused}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRefused:
		return true
	}
	return false
}

// ParseStatus converts a raw string to a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown bill status %q", raw)
	}
	return s, nil
}

// DefaultCurrency is stamped on bills created without a currency.
const DefaultCurrency = "EUR"

// ExpenseTypes are the categories offered by the new bill form.
var ExpenseTypes = []string{
	"Transports",
	"Restaurants et bars",
	"Hôtel et logement",
	"Services en ligne",
	"IT et électronique",
	"Equipement et matériel",
	"Fournitures de bureau",
}

// Bill represents an expense report line submitted by an employee.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string `json:"id"`

	// Email of the employee who submitted the bill.
	Email string `json:"email"`

	// Type is the expense category, one of ExpenseTypes.
	Type string `json:"type"`

	// Name is the free-form label of the expense (e.g., "Vol Paris Londres").
	Name string `json:"name"`

	// Date is the expense date as entered, normally ISO "2006-01-02".
	// Malformed values are kept verbatim.
	Date string `json:"date"`

	// Amount is the TTC amount of the expense.
	Amount float64 `json:"amount"`

	// VAT is the VAT amount as typed in the form.
	VAT string `json:"vat"`

	// Currency is an ISO 4217 code.
	Currency string `json:"currency"`

	// Pct is the VAT rate in percent.
	Pct int `json:"pct"`

	Commentary string `json:"commentary"`

	// FileURL is where the receipt image can be fetched from.
	FileURL string `json:"fileUrl"`

	// FileName is the original name of the uploaded receipt.
	FileName string `json:"fileName"`

	Status Status `json:"status"`

	// CommentAdmin is the reviewer's note on acceptance or refusal.
	CommentAdmin string `json:"commentAdmin"`

	// FileKey is the receipt object key in blob storage. Server side only.
	FileKey string `json:"-"`

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64 `json:"-"`

	// DisplayDate and DisplayStatus are filled by the bills container
	// before rendering.
	DisplayDate   string `json:"-"`
	DisplayStatus string `json:"-"`
}
