package importer

import (
	"encoding/xml"
	"errors"
	"testing"
	"time"

	"github.com/esiee-tools/adesync/ade"
	"github.com/esiee-tools/adesync/aurion"
)

func parseRecord(t *testing.T, payload string) ade.Record {
	t.Helper()
	var r ade.Record
	if err := xml.Unmarshal([]byte(payload), &r); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	return r
}

func TestBuildClassroom(t *testing.T) {
	r := parseRecord(t, `<resource id="101" category="classroom" isGroup="false" name="5407V" fatherName="08-Labos"/>`)

	classroom, err := BuildClassroom(r)
	if err != nil {
		t.Fatalf("BuildClassroom: %v", err)
	}
	if classroom.ID != 101 || classroom.Name != "5407V" {
		t.Errorf("classroom = %+v", classroom)
	}
	if !classroom.Category.Valid || classroom.Category.String != "Labos" {
		t.Errorf("category = %+v, want Labos", classroom.Category)
	}
}

func TestBuildInstructor(t *testing.T) {
	r := parseRecord(t, `<resource id="360" category="instructor" isGroup="false"
		name="MAIRESSE Je." code="Jean" path="ESIEE PARIS 2020-2021._Administratifs."/>`)

	instructor, err := BuildInstructor(r)
	if err != nil {
		t.Fatalf("BuildInstructor: %v", err)
	}
	if instructor.ID != 360 || instructor.Name != "Jean MAIRESSE" {
		t.Errorf("instructor = %+v", instructor)
	}
	if !instructor.Department.Valid || instructor.Department.String != "Administratifs" {
		t.Errorf("department = %+v, want Administratifs", instructor.Department)
	}
}

func TestBuildInstructorWithoutPath(t *testing.T) {
	r := parseRecord(t, `<resource id="361" category="instructor" name="DUPONT Jean"/>`)

	instructor, err := BuildInstructor(r)
	if err != nil {
		t.Fatalf("BuildInstructor: %v", err)
	}
	if instructor.Name != "DUPONT Jean" {
		t.Errorf("name = %q, want DUPONT Jean", instructor.Name)
	}
	if instructor.Department.Valid {
		t.Errorf("department = %+v, want NULL", instructor.Department)
	}
}

func TestBuildUnite(t *testing.T) {
	r := parseRecord(t, `<resource id="801" category="category6" isGroup="false"
		name="IGI-1104" code="E1_IGI_1104" fatherName="E1"/>`)

	unite, err := BuildUnite(r)
	if err != nil {
		t.Fatalf("BuildUnite: %v", err)
	}
	if !unite.ID.Valid || unite.ID.Int64 != 801 {
		t.Errorf("id = %+v, want 801", unite.ID)
	}
	if unite.Name.String != "IGI-1104" || unite.Code.String != "E1_IGI_1104" || unite.Branch.String != "E1" {
		t.Errorf("unite = %+v", unite)
	}
	if unite.Label.Valid {
		t.Errorf("label = %+v, want NULL before reconciliation", unite.Label)
	}
}

func TestBuildResources(t *testing.T) {
	root := parseRecord(t, `<resources>
		<resource id="101" category="classroom" isGroup="false" name="5407V" fatherName="08-Labos"/>
		<resource id="102" category="classroom" isGroup="true" name="Labos"/>
		<resource id="103" category="classroom" name="no isGroup attribute"/>
		<resource id="360" category="instructor" isGroup="false" name="DUPONT Jean"/>
		<resource id="801" category="category6" isGroup="false" name="IGI-1104" code="E1_IGI_1104" fatherName="E1"/>
		<resource id="55" category="trainee" isGroup="false" name="GR-A1"/>
		<resource id="56" category="projector" isGroup="false" name="P-1"/>
	</resources>`)

	res, err := BuildResources(root.FindAll("resource"))
	if err != nil {
		t.Fatalf("BuildResources: %v", err)
	}
	if len(res.Classrooms) != 1 || res.Classrooms[0].ID != 101 {
		t.Errorf("classrooms = %+v, want the single non-group one", res.Classrooms)
	}
	if len(res.Instructors) != 1 || res.Instructors[0].ID != 360 {
		t.Errorf("instructors = %+v", res.Instructors)
	}
	if len(res.Unites) != 1 || res.Unites[0].ID.Int64 != 801 {
		t.Errorf("unites = %+v", res.Unites)
	}
}

func TestBuildResourcesMalformed(t *testing.T) {
	root := parseRecord(t, `<resources>
		<resource category="classroom" isGroup="false" name="no id"/>
	</resources>`)

	_, err := BuildResources(root.FindAll("resource"))
	var malformed *MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("BuildResources error = %v, want MalformedRecordError", err)
	}
	if malformed.Tag != "resource" || malformed.Attr != "id" {
		t.Errorf("error = %+v, want resource/id", malformed)
	}
}

func TestBuildUnitesFromLabels(t *testing.T) {
	unites := BuildUnitesFromLabels([]aurion.UniteRow{
		{Code: "E1_IGI_1104", Label: " Numération et logique "},
		{Code: "E2_FLE_201", Label: ""},
	})

	if len(unites) != 2 {
		t.Fatalf("got %d unites, want 2", len(unites))
	}
	if unites[0].Code.String != "IGI_1104" {
		t.Errorf("code = %q, want the prefix stripped", unites[0].Code.String)
	}
	if !unites[0].Label.Valid || unites[0].Label.String != "Numération et logique" {
		t.Errorf("label = %+v, want trimmed", unites[0].Label)
	}
	if unites[0].ID.Valid {
		t.Errorf("id = %+v, want NULL on the enrollment side", unites[0].ID)
	}
	if unites[1].Code.String != "FLE_201" || unites[1].Label.Valid {
		t.Errorf("empty label row = %+v, want NULL label", unites[1])
	}
}

func TestBuildEvent(t *testing.T) {
	r := parseRecord(t, `<event id="9001" activityId="10135" name="FLE-2:TD"
			date="02/03/2021" startHour="17:00" endHour="19:00">
		<resources>
			<resource id="101" category="classroom" name="5407V" fatherName="08-Labos"/>
			<resource id="360" category="instructor" name="MAIRESSE Je." code="Jean"
				path="ESIEE PARIS 2020-2021._Administratifs."/>
			<resource id="801" category="category6" name="IGI-1104" code="E1_IGI_1104"/>
			<resource id="802" category="category6" name="FLE-201" code="E2_FLE_201"/>
			<resource id="55" category="trainee" name="GR-A1"/>
			<resource id="56" category="projector" name="P-1"/>
		</resources>
	</event>`)

	event, err := BuildEvent(r)
	if err != nil {
		t.Fatalf("BuildEvent: %v", err)
	}
	if event.ID != 9001 || event.ActivityID != 10135 || event.Name != "FLE-2:TD" {
		t.Errorf("event = %+v", event)
	}
	if want := time.Date(2021, 3, 2, 16, 0, 0, 0, time.UTC); !event.StartAt.Equal(want) {
		t.Errorf("start = %s, want %s", event.StartAt, want)
	}
	if want := time.Date(2021, 3, 2, 18, 0, 0, 0, time.UTC); !event.EndAt.Equal(want) {
		t.Errorf("end = %s, want %s", event.EndAt, want)
	}
	if len(event.Classrooms) != 1 || event.Classrooms[0].Name != "5407V" {
		t.Errorf("classrooms = %+v", event.Classrooms)
	}
	if len(event.Instructors) != 1 || event.Instructors[0].Name != "Jean MAIRESSE" {
		t.Errorf("instructors = %+v", event.Instructors)
	}
	// two units are attached, the later one wins
	if event.Unite == nil || event.Unite.ID.Int64 != 802 {
		t.Errorf("unite = %+v, want 802", event.Unite)
	}
	if len(event.Trainees) != 1 || event.Trainees[0] != "GR-A1" {
		t.Errorf("trainees = %+v", event.Trainees)
	}
}

func TestBuildEventTimeErrors(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		attr string
	}{
		{"missing date", `<event id="1" activityId="2" startHour="17:00" endHour="19:00"/>`, "date"},
		{"missing start hour", `<event id="1" activityId="2" date="02/03/2021" endHour="19:00"/>`, "startHour"},
		{"unparseable end hour", `<event id="1" activityId="2" date="02/03/2021" startHour="17:00" endHour="late"/>`, "endHour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildEvent(parseRecord(t, tt.xml))
			var malformed *MalformedRecordError
			if !errors.As(err, &malformed) {
				t.Fatalf("BuildEvent error = %v, want MalformedRecordError", err)
			}
			if malformed.Attr != tt.attr {
				t.Errorf("attribute = %q, want %q", malformed.Attr, tt.attr)
			}
		})
	}
}

func TestBuildEvents(t *testing.T) {
	root := parseRecord(t, `<events>
		<event id="1" activityId="2" name="ok" date="02/03/2021" startHour="17:00" endHour="19:00"/>
		<event id="3" name="no activity id" date="02/03/2021" startHour="17:00" endHour="19:00"/>
	</events>`)

	_, err := BuildEvents(root.FindAll("event"))
	var malformed *MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("BuildEvents error = %v, want MalformedRecordError", err)
	}
	if malformed.Attr != "activityId" {
		t.Errorf("attribute = %q, want activityId", malformed.Attr)
	}
}

func TestBuildActivity(t *testing.T) {
	r := parseRecord(t, `<activity id="10135" name="3R-RS1:COURS" type="cours-1"
		code="Introduction aux réseaux" info="promo 2021"/>`)

	activity, err := BuildActivity(r)
	if err != nil {
		t.Fatalf("BuildActivity: %v", err)
	}
	if activity.ID != 10135 || activity.Name != "3R-RS1:COURS" {
		t.Errorf("activity = %+v", activity)
	}
	if activity.Description.String != "Introduction aux réseaux" {
		t.Errorf("description = %+v, want the code attribute", activity.Description)
	}
	if activity.Category.String != "cours-1" {
		t.Errorf("category = %+v, want the type attribute", activity.Category)
	}
	if activity.Info.String != "promo 2021" {
		t.Errorf("info = %+v", activity.Info)
	}
}

func TestBuildActivityBareAttributes(t *testing.T) {
	activity, err := BuildActivity(parseRecord(t, `<activity id="7" name="X:TP"/>`))
	if err != nil {
		t.Fatalf("BuildActivity: %v", err)
	}
	if activity.Description.Valid || activity.Category.Valid || activity.Info.Valid {
		t.Errorf("activity = %+v, want NULL optional columns", activity)
	}
}
