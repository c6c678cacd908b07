package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationCenter struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name"          json:"name"`
	Address  string             `bson:"address"       json:"address"`
	City     string             `bson:"city"          json:"city"`
	ZipCode  string             `bson:"zip_code"      json:"zipCode"`
	Phone    string             `bson:"phone"         json:"phone"`
	Distance string             `bson:"distance"      json:"distance"`
	Accepts  []string           `bson:"accepts"       json:"accepts"`
	Hours    string             `bson:"hours"         json:"hours"`
	Rating   float64            `bson:"rating"        json:"rating"`
	Verified bool               `bson:"verified"      json:"verified"`
}

// MatchesLocation is the catalog filter: case-insensitive substring on city and
// address, plain substring on zip code. Empty location matches everything.
func (c DonationCenter) MatchesLocation(location string) bool {
	q := strings.ToLower(strings.TrimSpace(location))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.City), q) ||
		strings.Contains(strings.ToLower(c.Address), q) ||
		strings.Contains(c.ZipCode, strings.TrimSpace(location))
}

// DonationReport is an append-only log entry; Seq is monotonic.
type DonationReport struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Seq         int64              `bson:"seq"           json:"seq"`
	ReportID    string             `bson:"report_id"     json:"reportId"`
	Medicine    Medicine           `bson:"medicine"      json:"medicine"`
	Center      *DonationCenter    `bson:"center,omitempty" json:"center,omitempty"`
	UserID      string             `bson:"user_id,omitempty" json:"userId,omitempty"`
	Notes       string             `bson:"notes,omitempty"   json:"notes,omitempty"`
	Status      string             `bson:"status"        json:"status"`
	SubmittedAt time.Time          `bson:"submitted_at"  json:"submittedAt"`
}

const ReportStatusRecorded = "recorded"
