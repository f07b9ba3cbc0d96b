package containers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mmynk/billed/internal/api"
	"github.com/mmynk/billed/internal/format"
	"github.com/mmynk/billed/internal/models"
	"github.com/mmynk/billed/internal/routes"
)

// Dashboard drives the admin review screen.
type Dashboard struct {
	opts Options
}

// NewDashboard creates the dashboard container.
func NewDashboard(opts Options) *Dashboard {
	return &Dashboard{opts: opts}
}

// GetBills lists every bill for review, with display fields filled in.
// It returns nil, nil when no store is configured.
func (d *Dashboard) GetBills(ctx context.Context) ([]models.Bill, error) {
	if d.opts.Store == nil {
		return nil, nil
	}

	bills, err := d.opts.Store.Bills().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	for i := range bills {
		date, err := format.Date(bills[i].Date)
		if err != nil {
			d.opts.logger().Debug("Keeping unformatted bill date", "bill_id", bills[i].ID, "date", bills[i].Date, "error", err)
			date = bills[i].Date
		}
		bills[i].DisplayDate = date
		bills[i].DisplayStatus = format.Status(bills[i].Status)
	}
	return bills, nil
}

// FilteredBills returns the bills with the given status, in input order.
func FilteredBills(bills []models.Bill, status models.Status) []models.Bill {
	var filtered []models.Bill
	for _, b := range bills {
		if b.Status == status {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

// HandleAcceptSubmit accepts the bill with the reviewer's comment.
func (d *Dashboard) HandleAcceptSubmit(ctx context.Context, billID, commentAdmin string) error {
	return d.review(ctx, billID, models.StatusAccepted, commentAdmin)
}

// HandleRefuseSubmit refuses the bill with the reviewer's comment.
func (d *Dashboard) HandleRefuseSubmit(ctx context.Context, billID, commentAdmin string) error {
	return d.review(ctx, billID, models.StatusRefused, commentAdmin)
}

func (d *Dashboard) review(ctx context.Context, billID string, status models.Status, commentAdmin string) error {
	if d.opts.Store != nil {
		data, err := json.Marshal(struct {
			Status       models.Status `json:"status"`
			CommentAdmin string        `json:"commentAdmin"`
		}{status, commentAdmin})
		if err != nil {
			return fmt.Errorf("failed to encode review: %w", err)
		}

		if _, err := d.opts.Store.Bills().Update(ctx, &api.UpdateBillRequest{
			Data:     string(data),
			Selector: billID,
		}); err != nil {
			return fmt.Errorf("failed to review bill %s: %w", billID, err)
		}
		d.opts.logger().Info("Bill reviewed", "bill_id", billID, "status", status)
	}

	d.opts.navigate(routes.Dashboard)
	return nil
}
