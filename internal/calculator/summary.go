package calculator

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/mmynk/billed/internal/models"
)

// StatusTotal aggregates the bills sharing one review status.
type StatusTotal struct {
	Count  int
	Amount float64
	VAT    float64
}

// Summarize computes per-status totals for the admin dashboard.
// Every known status has an entry, bills with an unknown status are skipped.
//
// The VAT of a bill is the amount typed in the form when it parses as a
// number, otherwise it is derived from the amount and the rate.
func Summarize(bills []models.Bill) map[models.Status]*StatusTotal {
	totals := make(map[models.Status]*StatusTotal, len(models.Statuses))
	for _, s := range models.Statuses {
		totals[s] = &StatusTotal{}
	}

	for _, bill := range bills {
		total, ok := totals[bill.Status]
		if !ok {
			slog.Debug("Skipping bill with unknown status", "bill_id", bill.ID, "status", bill.Status)
			continue
		}
		total.Count++
		total.Amount = round2(total.Amount + bill.Amount)
		total.VAT = round2(total.VAT + billVAT(bill))
	}

	return totals
}

func billVAT(bill models.Bill) float64 {
	if v, err := strconv.ParseFloat(strings.TrimSpace(bill.VAT), 64); err == nil {
		return v
	}
	b, err := VATBreakdown(bill.Amount, bill.Pct)
	if err != nil {
		return 0
	}
	return b.VAT
}
