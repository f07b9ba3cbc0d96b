// Package format turns stored bill fields into the labels shown on screen.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mmynk/billed/internal/models"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// Date formats an ISO date as "D Mmm. YY" with a French month,
// e.g. "2004-04-04" gives "4 Avr. 04".
func Date(raw string) (string, error) {
	t, err := parseDate(raw)
	if err != nil {
		return "", err
	}

	month := []rune(frenchMonths[t.Month()-1])
	short := cases.Title(language.French).String(string(month[:3]))
	year := fmt.Sprintf("%02d", t.Year()%100)

	return strconv.Itoa(t.Day()) + " " + short + ". " + year, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// Status returns the label of a review status, or "" for unknown values.
func Status(s models.Status) string {
	switch s {
	case models.StatusPending:
		return "En attente"
	case models.StatusAccepted:
		return "Accepté"
	case models.StatusRefused:
		return "Refused"
	default:
		return ""
	}
}

// Amount renders an amount in the bill's currency, e.g. "400 €".
func Amount(amount float64, currency string) string {
	symbol := currency
	switch currency {
	case "", "EUR":
		symbol = "€"
	case "USD":
		symbol = "$"
	case "GBP":
		symbol = "£"
	}
	return strconv.FormatFloat(amount, 'f', -1, 64) + " " + symbol
}
