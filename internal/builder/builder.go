// Package builder assembles the binary-variable MIP: one variable per
// (student, course, block) triple that is actually requested and
// permitted, four hard-constraint families, and a
// maximize-weighted-fulfillment objective.
package builder

import (
	"fmt"
	"sort"

	"github.com/nextmv-io/sdk/mip"
	"github.com/nextmv-io/sdk/model"

	"github.com/sreevallabh04/masterschedule/internal/adapter"
	"github.com/sreevallabh04/masterschedule/internal/block"
	schedmodel "github.com/sreevallabh04/masterschedule/internal/model"
)

// VariableKey addresses one decision variable: whether student is placed
// into course at block.
type VariableKey struct {
	Student string
	Course  string
	Block   block.Block
}

// ID satisfies model.Identifier so VariableKey can index a model.MultiMap.
func (k VariableKey) ID() string {
	return k.Student + "|" + k.Course + "|" + string(k.Block)
}

// Built bundles the assembled MIP with everything the Solver Driver needs
// to extract an assignment back out of it.
type Built struct {
	Model mip.Model
	Vars  model.MultiMap[mip.Bool, VariableKey]
	Keys  []VariableKey
}

// Build constructs the model. proj must already reflect the Input
// Adapter's defaulting and dedup rules.
func Build(proj *adapter.Projections, weights schedmodel.Weights) (*Built, error) {
	m := mip.NewModel()
	m.Objective().SetMaximize()

	keys := variableSupport(proj)
	if len(keys) == 0 {
		return &Built{Model: m, Keys: keys}, nil
	}

	x := model.NewMultiMap(
		func(...VariableKey) mip.Bool {
			return m.NewBool()
		},
		keys,
	)

	priorityOf := requestPriorityIndex(proj)

	for _, key := range keys {
		p, ok := priorityOf[key.Student][key.Course]
		if !ok {
			return nil, fmt.Errorf("builder: no priority recorded for student %s course %s", key.Student, key.Course)
		}
		m.Objective().NewTerm(weights.Of(p), x.Get(key))
	}

	// Constraint 1: per-student, per-block uniqueness.
	studentBlockKeys := make(map[string]map[block.Block][]VariableKey)
	for _, key := range keys {
		if studentBlockKeys[key.Student] == nil {
			studentBlockKeys[key.Student] = make(map[block.Block][]VariableKey)
		}
		studentBlockKeys[key.Student][key.Block] = append(studentBlockKeys[key.Student][key.Block], key)
	}
	for _, students := range sortedKeys(studentBlockKeys) {
		for _, b := range block.All() {
			entries := studentBlockKeys[students][b]
			if len(entries) == 0 {
				continue
			}
			c := m.NewConstraint(mip.LessThanOrEqual, 1.0)
			for _, key := range entries {
				c.NewTerm(1.0, x.Get(key))
			}
		}
	}

	// Constraint 2: per-student, per-course at-most-once.
	studentCourseKeys := make(map[string]map[string][]VariableKey)
	for _, key := range keys {
		if studentCourseKeys[key.Student] == nil {
			studentCourseKeys[key.Student] = make(map[string][]VariableKey)
		}
		studentCourseKeys[key.Student][key.Course] = append(studentCourseKeys[key.Student][key.Course], key)
	}
	for _, student := range sortedKeys(studentCourseKeys) {
		for _, course := range sortedKeys(studentCourseKeys[student]) {
			c := m.NewConstraint(mip.LessThanOrEqual, 1.0)
			for _, key := range studentCourseKeys[student][course] {
				c.NewTerm(1.0, x.Get(key))
			}
		}
	}

	// Constraint 3: course capacity per block.
	courseBlockKeys := make(map[string]map[block.Block][]VariableKey)
	for _, key := range keys {
		if courseBlockKeys[key.Course] == nil {
			courseBlockKeys[key.Course] = make(map[block.Block][]VariableKey)
		}
		courseBlockKeys[key.Course][key.Block] = append(courseBlockKeys[key.Course][key.Block], key)
	}
	for _, course := range sortedKeys(courseBlockKeys) {
		capacity := float64(proj.Capacity[course])
		for _, b := range block.All() {
			entries := courseBlockKeys[course][b]
			if len(entries) == 0 {
				continue
			}
			c := m.NewConstraint(mip.LessThanOrEqual, capacity)
			for _, key := range entries {
				c.NewTerm(1.0, x.Get(key))
			}
		}
	}

	// Constraint 4: teacher exclusivity across co-taught courses, encoded
	// pairwise with a tight big-M (each M is the course's capacity, an
	// upper bound on the enrollment sum it gates).
	teacherCourses := make(map[string]map[string]bool)
	for course, teacher := range proj.Teacher {
		if _, requested := courseBlockKeys[course]; !requested {
			continue
		}
		if teacherCourses[teacher] == nil {
			teacherCourses[teacher] = make(map[string]bool)
		}
		teacherCourses[teacher][course] = true
	}

	for _, teacher := range sortedKeys(teacherCourses) {
		courses := sortedSet(teacherCourses[teacher])
		if len(courses) < 2 {
			continue
		}
		for i := 0; i < len(courses); i++ {
			for j := i + 1; j < len(courses); j++ {
				c1, c2 := courses[i], courses[j]
				for _, b := range block.All() {
					entries1 := courseBlockKeys[c1][b]
					entries2 := courseBlockKeys[c2][b]
					if len(entries1) == 0 || len(entries2) == 0 {
						continue
					}

					z := m.NewBool()
					m1 := float64(proj.Capacity[c1])
					m2 := float64(proj.Capacity[c2])

					// sum(x(c1,b)) + M1*z <= M1   (c1 active forces z=0)
					left := m.NewConstraint(mip.LessThanOrEqual, m1)
					for _, key := range entries1 {
						left.NewTerm(1.0, x.Get(key))
					}
					left.NewTerm(m1, z)

					// sum(x(c2,b)) - M2*z <= 0    (c2 active forces z=1)
					right := m.NewConstraint(mip.LessThanOrEqual, 0.0)
					for _, key := range entries2 {
						right.NewTerm(1.0, x.Get(key))
					}
					right.NewTerm(-m2, z)
				}
			}
		}
	}

	return &Built{Model: m, Vars: x, Keys: keys}, nil
}

// variableSupport returns the sparse (student, course, block) triples
// that are both requested and permitted, the only ones materialized as
// decision variables. The full Cartesian product would be orders of
// magnitude larger.
func variableSupport(proj *adapter.Projections) []VariableKey {
	var keys []VariableKey
	for _, student := range proj.StudentOrder {
		for _, priority := range schedmodel.Priorities() {
			for _, course := range proj.Requests[student][priority] {
				for _, b := range proj.Permitted[course] {
					keys = append(keys, VariableKey{Student: student, Course: course, Block: b})
				}
			}
		}
	}
	return keys
}

func requestPriorityIndex(proj *adapter.Projections) map[string]map[string]schedmodel.Priority {
	out := make(map[string]map[string]schedmodel.Priority)
	for student, byPriority := range proj.Requests {
		out[student] = make(map[string]schedmodel.Priority)
		for priority, courses := range byPriority {
			for _, course := range courses {
				out[student][course] = priority
			}
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedSet(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
