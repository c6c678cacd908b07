package domain

import (
	"strings"
	"time"
)

// Medicine is the request-scoped descriptor built from user input or OCR output.
type Medicine struct {
	Name         string `json:"name"                   bson:"name"`
	Manufacturer string `json:"manufacturer,omitempty" bson:"manufacturer,omitempty"`
	ExpiryDate   string `json:"expiryDate,omitempty"   bson:"expiry_date,omitempty"`
	BatchNumber  string `json:"batchNumber,omitempty"  bson:"batch_number,omitempty"`
	Strength     string `json:"strength,omitempty"     bson:"strength,omitempty"`
	Condition    string `json:"condition,omitempty"    bson:"condition,omitempty"`     // unopened | opened | partial
	MedicineType string `json:"medicineType,omitempty" bson:"medicine_type,omitempty"` // prescription | otc | controlled
	Quantity     string `json:"quantity,omitempty"     bson:"quantity,omitempty"`
}

func (m Medicine) Empty() bool {
	return strings.TrimSpace(m.Name) == "" && strings.TrimSpace(m.ExpiryDate) == ""
}

const (
	RecommendKeep    = "keep"
	RecommendDonate  = "donate"
	RecommendDispose = "dispose"
)

// Single-digit layouts also accept zero-padded input. Day-first numeric forms
// come before the US month-first ones, so 03/04/2025 is 3 April.
var expiryLayouts = []string{
	"2006-1-2",
	time.RFC3339,
	"2006/1/2",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"1/2/2006",
	"1-2-2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// месяц без дня: срок годности до конца месяца
var expiryMonthLayouts = []string{
	"2006-01",
	"01/2006",
	"01-2006",
	"01/06",
	"Jan 2006",
	"January 2006",
	"Jan-2006",
}

// ParseExpiry understands the date shapes printed on packs and returned by the model.
// Month-only dates resolve to the last day of that month.
func ParseExpiry(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range expiryLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return dateOnly(t), true
		}
	}
	for _, l := range expiryMonthLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// Expired reports whether the expiry date is strictly before the day of now.
// ok is false when the date cannot be parsed.
func Expired(expiry string, now time.Time) (expired bool, ok bool) {
	d, ok := ParseExpiry(expiry)
	if !ok {
		return false, false
	}
	return d.Before(dateOnly(now.UTC())), true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
