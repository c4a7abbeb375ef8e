package importer

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/esiee-tools/adesync/ade"
	"github.com/esiee-tools/adesync/aurion"
	"github.com/esiee-tools/adesync/models"
)

// ScheduleSource serves the timetable side of a run: resources, events and
// activities.
type ScheduleSource interface {
	FetchResources(ctx context.Context) ([]ade.Record, error)
	FetchEvents(ctx context.Context) ([]ade.Record, error)
	FetchActivities(ctx context.Context) ([]ade.Record, error)
}

// LabelSource serves the enrollment side of a run: course-unit codes with
// their full labels.
type LabelSource interface {
	FetchUnites(ctx context.Context) ([]aurion.UniteRow, error)
}

var (
	_ ScheduleSource = (*ade.Client)(nil)
	_ LabelSource    = (*aurion.Client)(nil)
)

// Run executes one synchronization: fetch both upstreams, build the typed
// entities, reconcile them in memory and load the result. Strictly
// sequential, without retries; a failed run leaves the previous batch in
// place and is simply re-invoked whole. Callers must not run two
// synchronizations against the same database at once.
func Run(ctx context.Context, db *sql.DB, schedule ScheduleSource, labels LabelSource) (models.SyncRun, error) {
	startedAt := time.Now().UTC()

	log.Printf("fetching resources (1/4)")
	rawResources, err := schedule.FetchResources(ctx)
	if err != nil {
		return models.SyncRun{}, fmt.Errorf("fetch resources: %w", err)
	}
	log.Printf("fetching events (2/4)")
	rawEvents, err := schedule.FetchEvents(ctx)
	if err != nil {
		return models.SyncRun{}, fmt.Errorf("fetch events: %w", err)
	}
	log.Printf("fetching activities (3/4)")
	rawActivities, err := schedule.FetchActivities(ctx)
	if err != nil {
		return models.SyncRun{}, fmt.Errorf("fetch activities: %w", err)
	}
	log.Printf("fetching unites (4/4)")
	uniteRows, err := labels.FetchUnites(ctx)
	if err != nil {
		return models.SyncRun{}, fmt.Errorf("fetch unites: %w", err)
	}

	res, err := BuildResources(rawResources)
	if err != nil {
		return models.SyncRun{}, err
	}
	events, err := BuildEvents(rawEvents)
	if err != nil {
		return models.SyncRun{}, err
	}
	activities, err := BuildActivities(rawActivities)
	if err != nil {
		return models.SyncRun{}, err
	}
	labeled := BuildUnitesFromLabels(uniteRows)

	matched := MergeUniteLabels(res.Unites, labeled)
	log.Printf("labeled %d of %d unites", matched, len(res.Unites))

	if gaps := MergeActivities(events, activities); gaps > 0 {
		log.Printf("%d of %d events have no activity in this batch", gaps, len(events))
	}

	loader := &Loader{DB: db}
	return loader.Load(ctx, Batch{StartedAt: startedAt, Resources: res, Events: events})
}
