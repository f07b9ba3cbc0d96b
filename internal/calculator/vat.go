package calculator

import (
	"fmt"
	"math"
)

// Breakdown splits an all-taxes-included amount into its net part and VAT.
type Breakdown struct {
	Net   float64
	VAT   float64
	Total float64
}

// VATBreakdown computes the breakdown of amount at a VAT rate of pct percent.
// Based on: net = total / (1 + pct/100), vat = total - net
func VATBreakdown(amount float64, pct int) (*Breakdown, error) {
	if amount < 0 {
		return nil, fmt.Errorf("amount cannot be negative: %v", amount)
	}
	if pct < 0 || pct > 100 {
		return nil, fmt.Errorf("vat rate must be between 0 and 100, got %d", pct)
	}

	net := round2(amount / (1 + float64(pct)/100))
	return &Breakdown{
		Net:   net,
		VAT:   round2(amount - net),
		Total: amount,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
