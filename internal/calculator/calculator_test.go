package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/billed/internal/models"
)

func TestVATBreakdown(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		pct     int
		wantNet float64
		wantVAT float64
		wantErr bool
	}{
		{name: "standard rate", amount: 120, pct: 20, wantNet: 100, wantVAT: 20},
		{name: "reduced rate", amount: 110, pct: 10, wantNet: 100, wantVAT: 10},
		{name: "no vat", amount: 42, pct: 0, wantNet: 42, wantVAT: 0},
		{name: "rounds to cents", amount: 100, pct: 20, wantNet: 83.33, wantVAT: 16.67},
		{name: "negative amount should error", amount: -1, pct: 20, wantErr: true},
		{name: "rate above 100 should error", amount: 10, pct: 101, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VATBreakdown(tt.amount, tt.pct)
			if (err != nil) != tt.wantErr {
				t.Fatalf("VATBreakdown() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if math.Abs(got.Net-tt.wantNet) > 0.001 {
				t.Errorf("Net = %v, want %v", got.Net, tt.wantNet)
			}
			if math.Abs(got.VAT-tt.wantVAT) > 0.001 {
				t.Errorf("VAT = %v, want %v", got.VAT, tt.wantVAT)
			}
			if got.Total != tt.amount {
				t.Errorf("Total = %v, want %v", got.Total, tt.amount)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	bills := []models.Bill{
		{ID: "1", Status: models.StatusPending, Amount: 400, VAT: "80", Pct: 20},
		{ID: "2", Status: models.StatusRefused, Amount: 100, VAT: "", Pct: 20},
		{ID: "3", Status: models.StatusAccepted, Amount: 300, VAT: "60", Pct: 20},
		{ID: "4", Status: models.StatusRefused, Amount: 200, VAT: "40", Pct: 20},
		{ID: "5", Status: "archived", Amount: 999},
	}

	totals := Summarize(bills)

	if len(totals) != 3 {
		t.Fatalf("Expected 3 status entries, got %d", len(totals))
	}

	tests := []struct {
		status     models.Status
		wantCount  int
		wantAmount float64
		wantVAT    float64
	}{
		{models.StatusPending, 1, 400, 80},
		// Bill 2 has no typed VAT: 100 at 20% gives 16.67
		{models.StatusRefused, 2, 300, 56.67},
		{models.StatusAccepted, 1, 300, 60},
	}
	for _, tt := range tests {
		got := totals[tt.status]
		if got.Count != tt.wantCount {
			t.Errorf("%s count = %d, want %d", tt.status, got.Count, tt.wantCount)
		}
		if math.Abs(got.Amount-tt.wantAmount) > 0.001 {
			t.Errorf("%s amount = %v, want %v", tt.status, got.Amount, tt.wantAmount)
		}
		if math.Abs(got.VAT-tt.wantVAT) > 0.001 {
			t.Errorf("%s vat = %v, want %v", tt.status, got.VAT, tt.wantVAT)
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	totals := Summarize(nil)
	for _, s := range models.Statuses {
		if totals[s] == nil || totals[s].Count != 0 {
			t.Errorf("Expected empty total for %s, got %+v", s, totals[s])
		}
	}
}
