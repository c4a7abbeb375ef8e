package models

import "time"

// SyncRun represents the sync_runs table, one appended row per successful
// synchronization.
type SyncRun struct {
	ID               string    `db:"id" json:"id"`
	StartedAt        time.Time `db:"started_at" json:"started_at"`
	FinishedAt       time.Time `db:"finished_at" json:"finished_at"`
	Classrooms       int       `db:"classrooms" json:"classrooms"`
	Instructors      int       `db:"instructors" json:"instructors"`
	Unites           int       `db:"unites" json:"unites"`
	Events           int       `db:"events" json:"events"`
	EventClassrooms  int       `db:"events_classrooms" json:"events_classrooms"`
	EventInstructors int       `db:"events_instructors" json:"events_instructors"`
}
