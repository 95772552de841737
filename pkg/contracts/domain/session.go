package domain

import "time"

// Session records the counters of one classification batch. Requisitions and
// financial records persisted by the record store are linked to a session.
type Session struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	GrossTotal   int       `json:"gross_total"`
	Processed    int       `json:"processed"`
	InProcess    int       `json:"in_process"`
	Cancelled    int       `json:"cancelled"`
	Unclassified int       `json:"unclassified"`
	Efficiency   float64   `json:"efficiency"`
}
