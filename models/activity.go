package models

import "database/sql"

// Activity carries the enrichment fields the timetable service exposes
// separately from events. Activities are merged into their events before
// load and never stored in a table of their own.
type Activity struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description sql.NullString `json:"description,omitempty"`
	Category    sql.NullString `json:"category,omitempty"`
	Info        sql.NullString `json:"info,omitempty"`
}
