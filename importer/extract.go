package importer

import (
	"database/sql"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/esiee-tools/adesync/ade"
)

// folderPrefix is the numeric folder id prefixing classroom categories, as
// in "08-Labos".
var folderPrefix = regexp.MustCompile(`^\d+-`)

// abbreviatedName matches person names whose trailing token is an
// abbreviated first name, as in "MAIRESSE Je.".
var abbreviatedName = regexp.MustCompile(`^(.+) \p{Lu}\p{Ll}*\.$`)

// sourceLocation is the timezone every upstream date and hour is expressed
// in. tzdata is linked in so the lookup also works in containers without a
// zone database.
var sourceLocation = mustLoadLocation("Europe/Paris")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// requireInt parses a required integer attribute, failing with a
// MalformedRecordError when it is absent or not a number.
func requireInt(r ade.Record, attr string) (int64, error) {
	value, ok := r.Lookup(attr)
	if !ok {
		return 0, &MalformedRecordError{Tag: r.Name(), Attr: attr}
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, &MalformedRecordError{Tag: r.Name(), Attr: attr, Err: err}
	}
	return n, nil
}

// optionalString lifts an attribute into a nullable column value: absent
// attributes become NULL, present ones keep their text as is.
func optionalString(r ade.Record, attr string) sql.NullString {
	value, ok := r.Lookup(attr)
	if !ok {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

// transformCategory strips the folder prefix from a classroom category:
// "08-Labos" becomes "Labos".
func transformCategory(value string, ok bool) sql.NullString {
	if !ok {
		return sql.NullString{}
	}
	return sql.NullString{String: folderPrefix.ReplaceAllString(value, ""), Valid: true}
}

// transformInstructorName normalizes an instructor name. Companies come in
// with an abbreviated "Sté" prefix, people as "LAST First." with the full
// first name in the companion code attribute; everything else passes
// through. The result is always whitespace-trimmed.
func transformInstructorName(name, code string, hasCode bool) string {
	if strings.Contains(strings.ToLower(name), "sté") {
		name = strings.ReplaceAll(name, "Sté ", "Société ")
	} else if m := abbreviatedName.FindStringSubmatch(name); m != nil && hasCode {
		name = code + " " + m[1]
	}
	return strings.TrimSpace(name)
}

// transformDepartment extracts the department from a resource path such as
// "ESIEE PARIS 2020-2021._Administratifs.": the second dot-separated
// segment, minus its leading underscore. Paths with fewer than two segments
// yield NULL.
func transformDepartment(path string, ok bool) sql.NullString {
	if !ok {
		return sql.NullString{}
	}
	segments := strings.Split(path, ".")
	if len(segments) < 2 {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.TrimPrefix(segments[1], "_"), Valid: true}
}

// stripSubjectPrefix removes the fixed-width subject prefix from an
// enrollment-side unit code: "E1_IGI_1104" becomes "IGI_1104".
func stripSubjectPrefix(code string) string {
	if len(code) <= 3 {
		return ""
	}
	return code[3:]
}

// parseEventTime combines the upstream's local "DD/MM/YYYY" date and
// "HH:mm" hour into a UTC instant.
func parseEventTime(date, hour string) (time.Time, error) {
	t, err := time.ParseInLocation("02/01/2006 15:04", date+" "+hour, sourceLocation)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
