package models

import "database/sql"

// Classroom represents the classrooms table
type Classroom struct {
	ID       int64          `db:"id" json:"id"`
	Name     string         `db:"name" json:"name"`
	Category sql.NullString `db:"category" json:"category,omitempty"`
}
