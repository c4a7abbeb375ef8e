package importer

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/esiee-tools/adesync/models"
)

// batchTables are the tables rewritten whole on every run, in the order the
// truncate statement names them.
var batchTables = []string{"classrooms", "events", "events_classrooms", "events_instructors", "instructors", "unites"}

// Batch is one reconciled run's worth of entities, ready to write.
type Batch struct {
	StartedAt time.Time
	Resources
	Events []models.Event
}

// Loader writes reconciled batches into Postgres.
type Loader struct {
	DB *sql.DB
}

// Load rewrites the batch tables inside a single transaction: truncate,
// repopulate each table through COPY, append one sync_runs ledger row,
// commit. On any failure the transaction rolls back and the previous batch
// stays in place, so a failed run can simply be retried whole.
func (l *Loader) Load(ctx context.Context, batch Batch) (models.SyncRun, error) {
	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.SyncRun{}, fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, "TRUNCATE "+strings.Join(batchTables, ", ")); err != nil {
		return models.SyncRun{}, fmt.Errorf("truncate batch tables: %w", err)
	}

	run := models.SyncRun{
		ID:        uuid.NewString(),
		StartedAt: batch.StartedAt,
	}

	run.Classrooms, err = copyTable(ctx, tx, "classrooms",
		[]string{"id", "name", "category"}, classroomRows(batch.Classrooms))
	if err != nil {
		return models.SyncRun{}, err
	}
	run.Instructors, err = copyTable(ctx, tx, "instructors",
		[]string{"id", "name", "department"}, instructorRows(batch.Instructors))
	if err != nil {
		return models.SyncRun{}, err
	}
	run.Unites, err = copyTable(ctx, tx, "unites",
		[]string{"id", "name", "code", "branch", "label"}, uniteRows(batch.Unites))
	if err != nil {
		return models.SyncRun{}, err
	}
	run.Events, err = copyTable(ctx, tx, "events",
		[]string{"id", "activity_id", "name", "start_at", "end_at", "unite_id", "description", "category", "info"},
		eventRows(batch.Events))
	if err != nil {
		return models.SyncRun{}, err
	}
	run.EventClassrooms, err = copyTable(ctx, tx, "events_classrooms",
		[]string{"event_id", "classroom_id"}, eventClassroomRows(batch.Events))
	if err != nil {
		return models.SyncRun{}, err
	}
	run.EventInstructors, err = copyTable(ctx, tx, "events_instructors",
		[]string{"event_id", "instructor_id"}, eventInstructorRows(batch.Events))
	if err != nil {
		return models.SyncRun{}, err
	}

	run.FinishedAt = time.Now().UTC()
	if err := insertSyncRun(ctx, tx, run); err != nil {
		return models.SyncRun{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.SyncRun{}, fmt.Errorf("commit transaction: %w", err)
	}
	committed = true

	return run, nil
}

// copyTable streams rows into one table with COPY FROM STDIN and returns
// how many it wrote. The final bare exec flushes the buffered rows.
func copyTable(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]interface{}) (int, error) {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(table, columns...))
	if err != nil {
		return 0, fmt.Errorf("copy %s: %w", table, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return 0, fmt.Errorf("copy %s: %w", table, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, fmt.Errorf("copy %s: %w", table, err)
	}
	return len(rows), nil
}

func classroomRows(classrooms []models.Classroom) [][]interface{} {
	rows := make([][]interface{}, 0, len(classrooms))
	for _, c := range classrooms {
		rows = append(rows, []interface{}{c.ID, c.Name, c.Category})
	}
	return rows
}

func instructorRows(instructors []models.Instructor) [][]interface{} {
	rows := make([][]interface{}, 0, len(instructors))
	for _, in := range instructors {
		rows = append(rows, []interface{}{in.ID, in.Name, in.Department})
	}
	return rows
}

func uniteRows(unites []models.Unite) [][]interface{} {
	rows := make([][]interface{}, 0, len(unites))
	for _, u := range unites {
		rows = append(rows, []interface{}{u.ID, u.Name, u.Code, u.Branch, u.Label})
	}
	return rows
}

func eventRows(events []models.Event) [][]interface{} {
	rows := make([][]interface{}, 0, len(events))
	for _, e := range events {
		rows = append(rows, []interface{}{
			e.ID, e.ActivityID, e.Name, e.StartAt, e.EndAt, uniteID(e.Unite),
			e.Description, e.Category, e.Info,
		})
	}
	return rows
}

// eventClassroomRows deduplicates each event's classroom list: the upstream
// happily repeats a room inside one event and the join table has a primary
// key on the pair.
func eventClassroomRows(events []models.Event) [][]interface{} {
	var rows [][]interface{}
	for _, e := range events {
		seen := make(map[int64]bool, len(e.Classrooms))
		for _, c := range e.Classrooms {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			rows = append(rows, []interface{}{e.ID, c.ID})
		}
	}
	return rows
}

// eventInstructorRows keeps the source cardinality: an instructor listed
// twice on one event stays listed twice.
func eventInstructorRows(events []models.Event) [][]interface{} {
	var rows [][]interface{}
	for _, e := range events {
		for _, in := range e.Instructors {
			rows = append(rows, []interface{}{e.ID, in.ID})
		}
	}
	return rows
}

// uniteID lifts the optional unit reference into a nullable column value.
func uniteID(u *models.Unite) sql.NullInt64 {
	if u == nil {
		return sql.NullInt64{}
	}
	return u.ID
}

func insertSyncRun(ctx context.Context, tx *sql.Tx, run models.SyncRun) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO sync_runs (id, started_at, finished_at, classrooms, instructors, unites, events, events_classrooms, events_instructors)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.ID, run.StartedAt, run.FinishedAt,
		run.Classrooms, run.Instructors, run.Unites,
		run.Events, run.EventClassrooms, run.EventInstructors)
	if err != nil {
		return fmt.Errorf("insert sync run: %w", err)
	}
	return nil
}
