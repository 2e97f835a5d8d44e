package school

import "github.com/gestionschool/gestionecole/core/record"

// Collection names double as the API resource names.
const (
	ClassCollection          = "classes"
	CourseCollection         = "cours"
	StudentCollection        = "eleves"
	TeacherCollection        = "enseignants"
	AttendanceMarkCollection = "emargements"
	TimetableSlotCollection  = "emploisdutemps"
	GradeCollection          = "notes"
	TuitionRecordCollection  = "scolarites"
)

// CourseClassField is the stored name of Course.Class.
const CourseClassField = "classe"

var (
	ClassSchema = record.Schema[Class]{
		Collection: ClassCollection,
		ID:         func(c *Class) *string { return &c.ID },
	}
	CourseSchema = record.Schema[Course]{
		Collection: CourseCollection,
		ID:         func(c *Course) *string { return &c.ID },
		Lookups:    []string{CourseClassField},
	}
	StudentSchema = record.Schema[Student]{
		Collection: StudentCollection,
		ID:         func(s *Student) *string { return &s.ID },
	}
	TeacherSchema = record.Schema[Teacher]{
		Collection: TeacherCollection,
		ID:         func(t *Teacher) *string { return &t.ID },
	}
	AttendanceMarkSchema = record.Schema[AttendanceMark]{
		Collection: AttendanceMarkCollection,
		ID:         func(a *AttendanceMark) *string { return &a.ID },
	}
	TimetableSlotSchema = record.Schema[TimetableSlot]{
		Collection: TimetableSlotCollection,
		ID:         func(t *TimetableSlot) *string { return &t.ID },
	}
	GradeSchema = record.Schema[Grade]{
		Collection: GradeCollection,
		ID:         func(g *Grade) *string { return &g.ID },
	}
	TuitionRecordSchema = record.Schema[TuitionRecord]{
		Collection: TuitionRecordCollection,
		ID:         func(t *TuitionRecord) *string { return &t.ID },
	}
)

// Collections lists every collection name, in API registration order.
var Collections = []string{
	ClassCollection,
	CourseCollection,
	StudentCollection,
	TeacherCollection,
	AttendanceMarkCollection,
	TimetableSlotCollection,
	GradeCollection,
	TuitionRecordCollection,
}
