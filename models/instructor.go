package models

import "database/sql"

// Instructor represents the instructors table
type Instructor struct {
	ID         int64          `db:"id" json:"id"`
	Name       string         `db:"name" json:"name"`
	Department sql.NullString `db:"department" json:"department,omitempty"`
}
