package importer

import "fmt"

// MalformedRecordError reports a source record that cannot become an entity
// because a required attribute is missing or does not parse. One malformed
// record aborts the whole batch before anything is written.
type MalformedRecordError struct {
	Tag  string // element name of the offending record
	Attr string // attribute that is missing or invalid
	Err  error  // parse error, nil when the attribute is absent
}

func (e *MalformedRecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s record: attribute %q: %v", e.Tag, e.Attr, e.Err)
	}
	return fmt.Sprintf("malformed %s record: missing required attribute %q", e.Tag, e.Attr)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }
