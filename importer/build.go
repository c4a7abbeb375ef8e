package importer

import (
	"database/sql"
	"strings"
	"time"

	"github.com/esiee-tools/adesync/ade"
	"github.com/esiee-tools/adesync/aurion"
	"github.com/esiee-tools/adesync/models"
)

// Categories the upstream tags its resource records with. "category6" is
// how the timetable encodes course units.
const (
	categoryClassroom  = "classroom"
	categoryInstructor = "instructor"
	categoryTrainee    = "trainee"
	categoryUnite      = "category6"
)

// Resources groups the typed entities built from a project's resource
// records.
type Resources struct {
	Classrooms  []models.Classroom
	Instructors []models.Instructor
	Unites      []models.Unite
}

// BuildResources dispatches resource records on their category. Group
// pseudo-resources (isGroup anything but "false") never become entities,
// and categories outside the dispatch table are skipped.
func BuildResources(records []ade.Record) (Resources, error) {
	var out Resources
	for _, r := range records {
		if r.Get("isGroup") != "false" {
			continue
		}
		switch r.Get("category") {
		case categoryClassroom:
			classroom, err := BuildClassroom(r)
			if err != nil {
				return Resources{}, err
			}
			out.Classrooms = append(out.Classrooms, classroom)
		case categoryInstructor:
			instructor, err := BuildInstructor(r)
			if err != nil {
				return Resources{}, err
			}
			out.Instructors = append(out.Instructors, instructor)
		case categoryUnite:
			unite, err := BuildUnite(r)
			if err != nil {
				return Resources{}, err
			}
			out.Unites = append(out.Unites, unite)
		}
	}
	return out, nil
}

// BuildClassroom builds a classroom from a record such as
//
//	<resource id="..." category="classroom" name="5407V" fatherName="08-Labos" .../>
func BuildClassroom(r ade.Record) (models.Classroom, error) {
	id, err := requireInt(r, "id")
	if err != nil {
		return models.Classroom{}, err
	}
	return models.Classroom{
		ID:       id,
		Name:     r.Get("name"),
		Category: transformCategory(r.Lookup("fatherName")),
	}, nil
}

// BuildInstructor builds an instructor from a record such as
//
//	<resource id="360" category="instructor" name="MAIRESSE Je."
//	          path="ESIEE PARIS 2020-2021._Administratifs." code="Jean" .../>
func BuildInstructor(r ade.Record) (models.Instructor, error) {
	id, err := requireInt(r, "id")
	if err != nil {
		return models.Instructor{}, err
	}
	code, hasCode := r.Lookup("code")
	return models.Instructor{
		ID:         id,
		Name:       transformInstructorName(r.Get("name"), code, hasCode),
		Department: transformDepartment(r.Lookup("path")),
	}, nil
}

// BuildUnite builds a course unit from a record such as
//
//	<resource id="..." category="category6" name="IGI-1104" fatherName="E1" code="E1_IGI_1104" .../>
//
// The label stays NULL until reconciliation with the enrollment side.
func BuildUnite(r ade.Record) (models.Unite, error) {
	id, err := requireInt(r, "id")
	if err != nil {
		return models.Unite{}, err
	}
	return models.Unite{
		ID:     sql.NullInt64{Int64: id, Valid: true},
		Name:   optionalString(r, "name"),
		Code:   optionalString(r, "code"),
		Branch: optionalString(r, "fatherName"),
	}, nil
}

// BuildUnitesFromLabels builds the label-only unites carried by enrollment
// rows. These never have an id: they exist to donate their label to the
// timetable unites sharing the same code.
func BuildUnitesFromLabels(rows []aurion.UniteRow) []models.Unite {
	unites := make([]models.Unite, 0, len(rows))
	for _, row := range rows {
		label := strings.TrimSpace(row.Label)
		unites = append(unites, models.Unite{
			Code:  sql.NullString{String: stripSubjectPrefix(row.Code), Valid: true},
			Label: sql.NullString{String: label, Valid: label != ""},
		})
	}
	return unites
}

// BuildEvent builds an event and its relations from a record such as
//
//	<event id="..." activityId="..." name="FLE-2:TD" date="02/03/2021"
//	       startHour="17:00" endHour="19:00">...</event>
//
// Resource records nested anywhere below the event are dispatched on their
// category; a later unit replaces an earlier one, unknown categories are
// ignored.
func BuildEvent(r ade.Record) (models.Event, error) {
	id, err := requireInt(r, "id")
	if err != nil {
		return models.Event{}, err
	}
	activityID, err := requireInt(r, "activityId")
	if err != nil {
		return models.Event{}, err
	}
	startAt, err := eventTime(r, "startHour")
	if err != nil {
		return models.Event{}, err
	}
	endAt, err := eventTime(r, "endHour")
	if err != nil {
		return models.Event{}, err
	}

	event := models.Event{
		ID:         id,
		ActivityID: activityID,
		Name:       r.Get("name"),
		StartAt:    startAt,
		EndAt:      endAt,
	}

	for _, resource := range r.FindAll("resource") {
		switch resource.Get("category") {
		case categoryClassroom:
			classroom, err := BuildClassroom(resource)
			if err != nil {
				return models.Event{}, err
			}
			event.Classrooms = append(event.Classrooms, classroom)
		case categoryInstructor:
			instructor, err := BuildInstructor(resource)
			if err != nil {
				return models.Event{}, err
			}
			event.Instructors = append(event.Instructors, instructor)
		case categoryUnite:
			unite, err := BuildUnite(resource)
			if err != nil {
				return models.Event{}, err
			}
			event.Unite = &unite
		case categoryTrainee:
			event.Trainees = append(event.Trainees, resource.Get("name"))
		}
	}

	return event, nil
}

// BuildEvents builds every event of a batch, failing on the first malformed
// record.
func BuildEvents(records []ade.Record) ([]models.Event, error) {
	events := make([]models.Event, 0, len(records))
	for _, r := range records {
		event, err := BuildEvent(r)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// BuildActivity builds an activity from a record such as
//
//	<activity id="10135" name="3R-RS1:COURS" type="cours-1" code="Introduction aux réseaux" .../>
//
// The code attribute holds descriptive text and the type attribute the
// category, so both land under truer names.
func BuildActivity(r ade.Record) (models.Activity, error) {
	id, err := requireInt(r, "id")
	if err != nil {
		return models.Activity{}, err
	}
	return models.Activity{
		ID:          id,
		Name:        r.Get("name"),
		Description: optionalString(r, "code"),
		Category:    optionalString(r, "type"),
		Info:        optionalString(r, "info"),
	}, nil
}

// BuildActivities builds every activity of a batch, failing on the first
// malformed record.
func BuildActivities(records []ade.Record) ([]models.Activity, error) {
	activities := make([]models.Activity, 0, len(records))
	for _, r := range records {
		activity, err := BuildActivity(r)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, nil
}

func eventTime(r ade.Record, hourAttr string) (time.Time, error) {
	date, ok := r.Lookup("date")
	if !ok {
		return time.Time{}, &MalformedRecordError{Tag: r.Name(), Attr: "date"}
	}
	hour, ok := r.Lookup(hourAttr)
	if !ok {
		return time.Time{}, &MalformedRecordError{Tag: r.Name(), Attr: hourAttr}
	}
	t, err := parseEventTime(date, hour)
	if err != nil {
		return time.Time{}, &MalformedRecordError{Tag: r.Name(), Attr: hourAttr, Err: err}
	}
	return t, nil
}
