package models

import (
	"time"
)

// AnonymousUser is the sentinel identity used when a submission carries no user ID.
const AnonymousUser = "anonymous"

// Decision statuses returned to the caller.
const (
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusError    = "error"
)

// Urgency levels assigned to accepted reports.
const (
	UrgencyUrgent = "urgent"
	UrgencyNormal = "normal"
)

// Report is a single citizen submission as seen by the pipeline.
// Latitude and longitude are pointers so that an absent coordinate is
// distinguishable from a coordinate of 0.
type Report struct {
	ReportID    string
	Description string
	UserID      string
	Latitude    *float64
	Longitude   *float64
	Image       []byte
}

// HasLocation reports whether both coordinates are present.
func (r *Report) HasLocation() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// SubmitRequest is the JSON body of a /submit call.
type SubmitRequest struct {
	ReportID    string   `json:"report_id"`
	Description string   `json:"description"`
	UserID      string   `json:"user_id,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Image       []byte   `json:"image,omitempty"`
}

// SubmitResponse is the decision returned for a submission.
type SubmitResponse struct {
	ReportID   string  `json:"report_id"`
	Accept     bool    `json:"accept"`
	Status     string  `json:"status"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Urgency    string  `json:"urgency,omitempty"`
	Reason     string  `json:"reason"`
}

// LedgerEntry is one line of the append-only decision ledger. It carries the
// original submission fields (raw image bytes replaced by a perceptual hash)
// plus the decision outcome, and is never mutated after being written.
type LedgerEntry struct {
	ReportID    string    `json:"report_id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Category    string    `json:"category"`
	Confidence  float64   `json:"confidence"`
	Accepted    bool      `json:"accept"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason"`
	ImageHash   string    `json:"image_hash,omitempty"`
	Urgency     string    `json:"urgency,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// HasLocation reports whether both coordinates were recorded.
func (e *LedgerEntry) HasLocation() bool {
	return e.Latitude != nil && e.Longitude != nil
}

// LedgerStats summarizes the ledger for the status and stats endpoints.
type LedgerStats struct {
	Total      int            `json:"total"`
	Accepted   int            `json:"accepted"`
	Rejected   int            `json:"rejected"`
	Errors     int            `json:"errors"`
	Urgent     int            `json:"urgent"`
	ByCategory map[string]int `json:"by_category"`
}
