package importer

import (
	"database/sql"
	"log"

	"github.com/esiee-tools/adesync/models"
)

// MergeUniteLabels copies labels from enrollment-side unites onto the
// timetable unites sharing the same code. Timetable unites without a match
// keep a NULL label; enrollment rows without a match are dropped. Returns
// how many unites received a label.
func MergeUniteLabels(unites []models.Unite, labeled []models.Unite) int {
	labels := make(map[string]sql.NullString, len(labeled))
	for _, u := range labeled {
		if u.Code.Valid {
			labels[u.Code.String] = u.Label
		}
	}

	matched := 0
	for i := range unites {
		if !unites[i].Code.Valid {
			continue
		}
		label, ok := labels[unites[i].Code.String]
		if !ok {
			continue
		}
		unites[i].Label = label
		matched++
	}
	return matched
}

// MergeActivities enriches events with the description, category and info
// of their activity. The upstream guarantees every event an activity id; if
// the activity is nonetheless absent from the batch the event keeps NULL
// enrichment fields and the gap is logged. Returns how many events were
// left without a match.
func MergeActivities(events []models.Event, activities []models.Activity) int {
	byID := make(map[int64]models.Activity, len(activities))
	for _, a := range activities {
		byID[a.ID] = a
	}

	gaps := 0
	for i := range events {
		activity, ok := byID[events[i].ActivityID]
		if !ok {
			gaps++
			log.Printf("event %d references missing activity %d", events[i].ID, events[i].ActivityID)
			continue
		}
		events[i].Description = activity.Description
		events[i].Category = activity.Category
		events[i].Info = activity.Info
	}
	return gaps
}
