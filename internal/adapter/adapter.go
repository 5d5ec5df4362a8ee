// Package adapter projects a NormalizedInput into the four structures
// the model builder consumes, applying alias resolution and defaulting
// rules tolerant of messy spreadsheet exports.
package adapter

import (
	"encoding/hex"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/sreevallabh04/masterschedule/internal/block"
	"github.com/sreevallabh04/masterschedule/internal/config"
	"github.com/sreevallabh04/masterschedule/internal/ingest"
	"github.com/sreevallabh04/masterschedule/internal/model"
	"github.com/sreevallabh04/masterschedule/internal/schederrors"
)

var (
	courseNameAliases    = []string{"course", "course_name", "Course", "Course Name", "CourseName", "class", "Class"}
	courseSectionAliases = []string{"course_section", "section", "Section"}
	studentIDAliases     = []string{"student", "student_id", "Student ID", "StudentID", "id", "Student"}
	gradeLevelAliases    = []string{"grade", "Grade", "grade_level", "Grade Level", "GradeLevel"}
	priorityAliases      = []string{"priority", "Priority", "request_type", "type", "Type"}
	teacherAliases       = []string{"teacher", "Teacher", "teacher_id", "TeacherID", "instructor", "Instructor"}
	roomRefAliases       = []string{"room", "Room", "room_id", "RoomID"}
	roomNameAliases      = []string{"room", "Room", "name", "Name", "room_id", "RoomID"}
	capacityAliases      = []string{"capacity", "Capacity", "room_capacity", "Room Capacity", "size", "Size"}
)

var truthyValues = map[string]bool{
	"1":    true,
	"true": true,
	"Yes":  true,
	"yes":  true,
	"Y":    true,
	"y":    true,
	"True": true,
}

// Projections is everything the Model Builder and Greedy Fallback need,
// already resolved and defaulted.
type Projections struct {
	// Requests[student][priority] lists requested course names.
	Requests map[string]map[model.Priority][]string
	// Permitted[course] lists the blocks course may be scheduled in.
	Permitted map[string][]block.Block
	// Capacity[course] is the section capacity.
	Capacity map[string]int
	// Teacher[course] is the teacher id responsible for course.
	Teacher map[string]string
	// Grade[student] is the student's grade level, when present in the
	// input. It is informational only, never a scheduling constraint,
	// and is empty for a student whose rows never carried one.
	Grade map[string]string

	// StudentOrder and CourseOrder preserve first-arrival order from the
	// input, the stable iteration order the greedy fallback and all
	// presentation depend on.
	StudentOrder []string
	CourseOrder  []string
}

// Stats counts the row-level and defaulting outcomes of one Adapt call,
// for logging and for the pipeline output's adapter_stats field.
type Stats struct {
	RowsSkipped     int
	DefaultsApplied int
}

// Adapt projects input into Projections, applying the alias resolution,
// truthy-marker, defaulting, and dedup rules. It never
// aborts on a row-level problem: bad rows are logged, counted, and
// skipped. A structurally empty input (see ingest.NormalizedInput.Empty)
// yields empty Projections rather than an error; the returned error is
// always nil.
func Adapt(input ingest.NormalizedInput, defaults config.DefaultsConfig, logger *zap.Logger) (*Projections, Stats, error) {
	var stats Stats

	proj := &Projections{
		Requests:  make(map[string]map[model.Priority][]string),
		Permitted: make(map[string][]block.Block),
		Capacity:  make(map[string]int),
		Teacher:   make(map[string]string),
		Grade:     make(map[string]string),
	}

	if input.Empty() {
		return proj, stats, nil
	}

	roomCapacity := make(map[string]int)
	for _, room := range input.Rooms {
		name := firstNonEmpty(room, roomNameAliases)
		if name == "" {
			continue
		}
		cap, ok := parseCapacity(firstNonEmpty(room, capacityAliases))
		if !ok {
			continue
		}
		roomCapacity[name] = cap
	}

	// Lecturer details map courses to teachers when the course row itself
	// carries no teacher field. First row naming a course wins.
	lecturerOf := make(map[string]string)
	for _, row := range input.Teachers {
		teacher := firstNonEmpty(row, teacherAliases)
		course := courseIdentity(row)
		if teacher == "" || course == "" {
			continue
		}
		if _, ok := lecturerOf[course]; !ok {
			lecturerOf[course] = teacher
		}
	}

	seenCourse := make(map[string]bool)
	for _, course := range input.Courses {
		name := courseIdentity(course)
		if name == "" {
			logger.Warn(ErrorSentinel.Message, zap.String("code", ErrorSentinel.Code), zap.Any("row", course))
			stats.RowsSkipped++
			continue
		}
		if seenCourse[name] {
			continue
		}
		seenCourse[name] = true
		proj.CourseOrder = append(proj.CourseOrder, name)

		proj.Permitted[name] = resolvePermittedBlocks(course)

		cap, fromRoom := resolveCapacity(course, roomCapacity)
		if !fromRoom {
			stats.DefaultsApplied++
		}
		if cap <= 0 {
			cap = defaults.CourseCapacity
		}
		proj.Capacity[name] = cap

		teacher := firstNonEmpty(course, teacherAliases)
		if teacher == "" {
			teacher = lecturerOf[name]
		}
		if teacher == "" {
			teacher = synthesizeTeacherID(name)
			stats.DefaultsApplied++
		}
		proj.Teacher[name] = teacher
	}

	// best[student][course] tracks the highest priority seen so far for
	// that (student, course) pair, implementing the dedup-to-highest-
	// priority rule. order[student][priority] preserves first-seen order
	// per (student, priority) so the greedy fallback's iteration is
	// reproducible.
	best := make(map[string]map[string]model.Priority)
	order := make(map[string]map[model.Priority][]string)
	seenStudent := make(map[string]bool)

	for _, row := range input.Requests {
		student := firstNonEmpty(row, studentIDAliases)
		course := courseIdentity(row)
		if student == "" || course == "" {
			logger.Warn(ErrorSentinel.Message, zap.String("code", ErrorSentinel.Code), zap.Any("row", row))
			stats.RowsSkipped++
			continue
		}
		if _, known := proj.Permitted[course]; !known {
			logger.Warn(ErrorSentinel.Message, zap.String("code", ErrorSentinel.Code),
				zap.String("student", student), zap.String("course", course))
			stats.RowsSkipped++
			continue
		}

		priority := model.ParsePriority(firstNonEmpty(row, priorityAliases))

		if !seenStudent[student] {
			seenStudent[student] = true
			proj.StudentOrder = append(proj.StudentOrder, student)
		}
		if grade := firstNonEmpty(row, gradeLevelAliases); grade != "" && proj.Grade[student] == "" {
			proj.Grade[student] = grade
		}
		if best[student] == nil {
			best[student] = make(map[string]model.Priority)
			order[student] = make(map[model.Priority][]string)
		}

		existing, present := best[student][course]
		if present {
			if priority < existing {
				// higher priority (lower enum value) wins; drop the
				// course from its old priority bucket.
				order[student][existing] = removeFirst(order[student][existing], course)
				best[student][course] = priority
				order[student][priority] = append(order[student][priority], course)
			}
			// otherwise the existing entry already outranks or ties this
			// one; nothing to do.
			continue
		}

		best[student][course] = priority
		order[student][priority] = append(order[student][priority], course)
	}

	for student, byPriority := range order {
		proj.Requests[student] = byPriority
	}

	return proj, stats, nil
}

// courseIdentity resolves a row's course name, folding an optional
// section marker in as "Name#section".
func courseIdentity(row ingest.RawRecord) string {
	name := firstNonEmpty(row, courseNameAliases)
	if name == "" {
		return ""
	}
	if section := firstNonEmpty(row, courseSectionAliases); section != "" {
		return name + "#" + section
	}
	return name
}

func resolvePermittedBlocks(course ingest.RawRecord) []block.Block {
	var permitted []block.Block
	for _, b := range block.All() {
		if raw, ok := course[string(b)]; ok && truthyValues[raw] {
			permitted = append(permitted, b)
		}
	}
	if len(permitted) == 0 {
		return block.All()
	}
	return permitted
}

func resolveCapacity(course ingest.RawRecord, roomCapacity map[string]int) (int, bool) {
	roomRef := firstNonEmpty(course, roomRefAliases)
	if roomRef == "" {
		return 0, false
	}
	cap, ok := roomCapacity[roomRef]
	return cap, ok
}

func parseCapacity(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func firstNonEmpty(row ingest.RawRecord, aliases []string) string {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func removeFirst(list []string, value string) []string {
	for i, v := range list {
		if v == value {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// synthesizeTeacherID derives a deterministic teacher id from a course
// name when no teacher field resolves, stable across runs on the same
// input.
func synthesizeTeacherID(courseName string) string {
	sum := blake2b.Sum256([]byte(courseName))
	return "teacher-" + hex.EncodeToString(sum[:8])
}

// ErrorSentinel exposes the package's canonical row-error wrapper for
// callers that want to classify adapter-origin errors uniformly.
var ErrorSentinel = schederrors.ErrInputRow
