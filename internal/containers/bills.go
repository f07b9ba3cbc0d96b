package containers

import (
	"context"
	"fmt"

	"github.com/mmynk/billed/internal/format"
	"github.com/mmynk/billed/internal/models"
	"github.com/mmynk/billed/internal/routes"
	"github.com/mmynk/billed/internal/views"
)

// BillURLAttr is the attribute of the preview icon holding the receipt URL.
const BillURLAttr = "data-bill-url"

// Bills drives the employee bills list.
type Bills struct {
	opts Options

	// Preview is the receipt modal opened by HandleClickIconEye.
	Preview *views.Preview
}

// NewBills creates the bills container.
func NewBills(opts Options) *Bills {
	return &Bills{opts: opts}
}

// GetBills lists the bills with their display date and status filled in.
// It returns nil, nil when no store is configured. A bill whose date does
// not parse keeps its raw date.
func (b *Bills) GetBills(ctx context.Context) ([]models.Bill, error) {
	if b.opts.Store == nil {
		return nil, nil
	}

	bills, err := b.opts.Store.Bills().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	formatted := make([]models.Bill, len(bills))
	for i, bill := range bills {
		date, err := format.Date(bill.Date)
		if err != nil {
			b.opts.logger().Debug("Keeping unformatted bill date", "bill_id", bill.ID, "date", bill.Date, "error", err)
			date = bill.Date
		}
		bill.DisplayDate = date
		bill.DisplayStatus = format.Status(bill.Status)
		formatted[i] = bill
	}

	return formatted, nil
}

// HandleClickNewBill opens the new bill form.
func (b *Bills) HandleClickNewBill() {
	b.opts.navigate(routes.NewBill)
}

// HandleClickIconEye opens the receipt modal for the clicked preview icon.
func (b *Bills) HandleClickIconEye(target Element) {
	b.Preview = &views.Preview{
		URL:   target.Attr(BillURLAttr),
		Width: views.PreviewWidth,
	}
}
