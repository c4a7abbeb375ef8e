package ade

import "encoding/xml"

// Record is one element of an API response. The API encodes everything in
// attributes and nesting, so a Record keeps its name, its attributes and its
// nested records and nothing else.
type Record struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []Record   `xml:",any"`
}

// Name returns the element name of the record.
func (r Record) Name() string {
	return r.XMLName.Local
}

// Get returns the value of the named attribute, or "" when it is absent.
func (r Record) Get(name string) string {
	value, _ := r.Lookup(name)
	return value
}

// Lookup returns the value of the named attribute and whether the record
// carries it at all.
func (r Record) Lookup(name string) (string, bool) {
	for _, attr := range r.Attrs {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

// FindAll returns r and every record nested below it whose element name
// matches tag, in document order.
func (r Record) FindAll(tag string) []Record {
	var out []Record
	if r.XMLName.Local == tag {
		out = append(out, r)
	}
	for _, child := range r.Children {
		out = append(out, child.FindAll(tag)...)
	}
	return out
}
