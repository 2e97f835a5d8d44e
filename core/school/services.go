package school

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/gestionschool/gestionecole/core/record"
)

type (
	// Repositories holds one repository per record kind.
	Repositories struct {
		Classes         record.Repository[Class]
		Courses         record.Repository[Course]
		Students        record.Repository[Student]
		Teachers        record.Repository[Teacher]
		AttendanceMarks record.Repository[AttendanceMark]
		TimetableSlots  record.Repository[TimetableSlot]
		Grades          record.Repository[Grade]
		TuitionRecords  record.Repository[TuitionRecord]
	}

	Services struct {
		Classes         *record.Service[Class]
		Courses         *CourseService
		Students        *record.Service[Student]
		Teachers        *record.Service[Teacher]
		AttendanceMarks *record.Service[AttendanceMark]
		TimetableSlots  *record.Service[TimetableSlot]
		Grades          *record.Service[Grade]
		TuitionRecords  *record.Service[TuitionRecord]
	}

	// CourseService adds the lookup of courses by class name.
	CourseService struct {
		*record.Service[Course]
	}
)

func NewServices(repos Repositories) *Services {
	return &Services{
		Classes:         record.NewService(repos.Classes, ClassSchema),
		Courses:         NewCourseService(repos.Courses),
		Students:        record.NewService(repos.Students, StudentSchema),
		Teachers:        record.NewService(repos.Teachers, TeacherSchema),
		AttendanceMarks: record.NewService(repos.AttendanceMarks, AttendanceMarkSchema),
		TimetableSlots:  record.NewService(repos.TimetableSlots, TimetableSlotSchema),
		Grades:          record.NewService(repos.Grades, GradeSchema),
		TuitionRecords:  NewTuitionService(repos.TuitionRecords),
	}
}

func NewCourseService(repo record.Repository[Course]) *CourseService {
	return &CourseService{Service: record.NewService(repo, CourseSchema)}
}

// QueryByClass returns the courses whose class label equals `class` exactly.
func (svc *CourseService) QueryByClass(ctx context.Context, class string) ([]Course, error) {
	return svc.QueryByField(ctx, CourseClassField, class)
}

// PhonesStat is the Stats key counting the distinct student phone numbers.
const PhonesStat = "telephones"

// Stats counts the records of each collection, plus the distinct non-blank
// student phone numbers under PhonesStat.
func (s *Services) Stats(ctx context.Context) (map[string]int, error) {
	counters := []struct {
		collection string
		count      func(context.Context) (int, error)
	}{
		{ClassCollection, s.Classes.Count},
		{CourseCollection, s.Courses.Count},
		{TeacherCollection, s.Teachers.Count},
		{AttendanceMarkCollection, s.AttendanceMarks.Count},
		{TimetableSlotCollection, s.TimetableSlots.Count},
		{GradeCollection, s.Grades.Count},
		{TuitionRecordCollection, s.TuitionRecords.Count},
	}

	stats := make(map[string]int, len(counters)+2)
	for _, c := range counters {
		n, err := c.count(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "computing stats")
		}
		stats[c.collection] = n
	}

	students, err := s.Students.QueryAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "computing stats")
	}
	phones := make(map[string]struct{})
	for _, st := range students {
		if st.Phone == nil {
			continue
		}
		if phone := strings.TrimSpace(*st.Phone); phone != "" {
			phones[phone] = struct{}{}
		}
	}
	stats[StudentCollection] = len(students)
	stats[PhonesStat] = len(phones)
	return stats, nil
}
