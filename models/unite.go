package models

import "database/sql"

// Unite represents the unites table. A unite is a course unit (unité
// d'enseignement). Rows built from the timetable carry a valid ID; rows
// fetched from the enrollment side never do and only donate their label
// during reconciliation.
type Unite struct {
	ID     sql.NullInt64  `db:"id" json:"id,omitempty"`
	Name   sql.NullString `db:"name" json:"name,omitempty"`
	Code   sql.NullString `db:"code" json:"code,omitempty"`
	Branch sql.NullString `db:"branch" json:"branch,omitempty"`
	Label  sql.NullString `db:"label" json:"label,omitempty"`
}
