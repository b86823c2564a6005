package models

import "time"

// ActivityEntry is one row of the append-only activity log. Entries are
// created once per event and never mutated.
type ActivityEntry struct {
	ID        int64     `json:"id"`
	EventType string    `json:"event_type"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// EventLogin is the event type recorded for a successful login.
const EventLogin = "login"
