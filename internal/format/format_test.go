package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billed/internal/models"
)

func TestDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2004-04-04", "4 Avr. 04"},
		{"2001-01-01", "1 Jan. 01"},
		{"2002-02-02", "2 Fév. 02"},
		{"2003-03-03", "3 Mar. 03"},
		{"2021-05-31", "31 Mai. 21"},
		{"2021-08-15", "15 Aoû. 21"},
		{"2022-12-25", "25 Déc. 22"},
		{"2022-07-14T10:00:00Z", "14 Jui. 22"},
		{"2022-11-02T08:30:00", "2 Nov. 22"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Date(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateMalformed(t *testing.T) {
	for _, raw := range []string{"", "not a date", "2004-13-01", "04/04/2004"} {
		_, err := Date(raw)
		assert.Error(t, err, raw)
	}
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "En attente", Status(models.StatusPending))
	assert.Equal(t, "Accepté", Status(models.StatusAccepted))
	assert.Equal(t, "Refused", Status(models.StatusRefused))
	assert.Equal(t, "", Status("archived"))
}

func TestAmount(t *testing.T) {
	assert.Equal(t, "400 €", Amount(400, ""))
	assert.Equal(t, "12.5 €", Amount(12.5, "EUR"))
	assert.Equal(t, "3 $", Amount(3, "USD"))
	assert.Equal(t, "7 CHF", Amount(7, "CHF"))
}
