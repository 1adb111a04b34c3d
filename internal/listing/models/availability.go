package models

import (
	"fmt"
	"strings"

	dErrors "lowa/pkg/domain-errors"
	pstrings "lowa/pkg/platform/strings"
)

const (
	labelSeparator = ", "
	groupSeparator = " / "
)

// Day tokens accepted from clients, with their canonical display labels.
var dayLabels = map[string]string{
	"monday":    "Monday",
	"tuesday":   "Tuesday",
	"wednesday": "Wednesday",
	"thursday":  "Thursday",
	"friday":    "Friday",
	"saturday":  "Saturday",
	"sunday":    "Sunday",
}

// Slot tokens are matched case-insensitively, so "lateNight" arrives as "latenight".
var slotLabels = map[string]string{
	"morning":   "Morning",
	"afternoon": "Afternoon",
	"evening":   "Evening",
	"latenight": "Late Night",
}

// Availability is the structured day/slot choice together with its display
// string. Display is lossy and must not be parsed back; Days and Slots are
// persisted alongside it for any query that needs them.
type Availability struct {
	Days    []string
	Slots   []string
	Display string
}

// EncodeAvailability validates day and slot tokens and renders the display
// string: labels joined with ", ", the two groups joined with " / ".
// Token order is preserved; duplicates collapse to their first occurrence.
func EncodeAvailability(days, slots []string) (Availability, error) {
	days = pstrings.NormalizeTokens(days)
	slots = pstrings.NormalizeTokens(slots)
	if len(days) == 0 || len(slots) == 0 {
		return Availability{}, dErrors.New(dErrors.CodeValidation, "select at least one available day and one time slot")
	}

	dayText, err := render(days, dayLabels, "day")
	if err != nil {
		return Availability{}, err
	}
	slotText, err := render(slots, slotLabels, "time slot")
	if err != nil {
		return Availability{}, err
	}

	return Availability{
		Days:    days,
		Slots:   slots,
		Display: dayText + groupSeparator + slotText,
	}, nil
}

func render(tokens []string, labels map[string]string, what string) (string, error) {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		label, ok := labels[t]
		if !ok {
			return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown %s %q", what, t))
		}
		out[i] = label
	}
	return strings.Join(out, labelSeparator), nil
}
