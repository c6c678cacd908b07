package queue

import "time"

const (
	KeyUserRegistered   = "user.registered"
	KeyUserLoggedIn     = "user.loggedin"
	KeyDonationReported = "donation.reported"
)

type UserRegistered struct {
	UserID   string `json:"user_id"`
	EmailH   string `json:"email_hash"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

type UserLoggedIn struct {
	UserID   string `json:"user_id"`
	Provider string `json:"provider"`
}

type DonationReported struct {
	ReportID    string    `json:"report_id"`
	Seq         int64     `json:"seq"`
	UserID      string    `json:"user_id,omitempty"`
	Medicine    string    `json:"medicine"`
	Center      string    `json:"center,omitempty"`
	ContactMail string    `json:"contact_email,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}
