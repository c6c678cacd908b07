package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ScanKindPrescription = "prescription"
	ScanKindStrip        = "strip"
)

// ScanRecord keeps one analysis for a signed-in user.
type ScanRecord struct {
	ID           primitive.ObjectID    `bson:"_id,omitempty"          json:"id"`
	UserID       string                `bson:"user_id"                json:"-"`
	Kind         string                `bson:"kind"                   json:"kind"`
	FileName     string                `bson:"file_name"              json:"fileName"`
	Prescription *PrescriptionAnalysis `bson:"prescription,omitempty" json:"prescription,omitempty"`
	Strip        *StripScan            `bson:"strip,omitempty"        json:"strip,omitempty"`
	CreatedAt    time.Time             `bson:"created_at"             json:"createdAt"`
}
