package models

import (
	"database/sql"
	"time"
)

// Event represents the events table. StartAt and EndAt are UTC instants;
// the relation slices feed the join tables and are not columns themselves.
type Event struct {
	ID          int64          `db:"id" json:"id"`
	ActivityID  int64          `db:"activity_id" json:"activity_id"`
	Name        string         `db:"name" json:"name"`
	StartAt     time.Time      `db:"start_at" json:"start_at"`
	EndAt       time.Time      `db:"end_at" json:"end_at"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
	Category    sql.NullString `db:"category" json:"category,omitempty"`
	Info        sql.NullString `db:"info" json:"info,omitempty"`
	Unite       *Unite         `db:"-" json:"unite,omitempty"`
	Instructors []Instructor   `db:"-" json:"instructors,omitempty"`
	Classrooms  []Classroom    `db:"-" json:"classrooms,omitempty"`
	Trainees    []string       `db:"-" json:"trainees,omitempty"`
}
