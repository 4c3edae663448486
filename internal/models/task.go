package models

import "time"

type Task struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Task      string    `json:"task"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkoutResult is a client's report for one completed workout. The exercise
// list is the session as performed and is immutable once logged.
type WorkoutResult struct {
	ID         int64      `json:"id"`
	ClientID   string     `json:"client_id"`
	Day        string     `json:"day"`
	WeekOffset int        `json:"week_offset"`
	Rating     int        `json:"rating"`
	Notes      string     `json:"notes"`
	Exercises  []Exercise `json:"exercises"`
	CreatedAt  time.Time  `json:"created_at"`
}
