package core

import "strings"

// Letter grades, best first.
const (
	GradeA = "A"
	GradeB = "B"
	GradeC = "C"
	GradeD = "D"
)

var (
	Grades = []string{GradeA, GradeB, GradeC, GradeD}

	gradeValues = map[string]float64{GradeA: 4, GradeB: 3, GradeC: 2, GradeD: 1}

	// numeric sheet scores: 4 is the best mark
	numericGrades = map[string]string{"4": GradeA, "3": GradeB, "2": GradeC, "1": GradeD}
)

// GradeValue maps a letter grade to its numeric value (A=4 ... D=1).
// ok is false for anything that is not a letter grade.
func GradeValue(grade string) (val float64, ok bool) {
	val, ok = gradeValues[strings.ToUpper(strings.TrimSpace(grade))]
	return val, ok
}

// NormalizeGrade turns a raw spreadsheet cell ("4", "4.0", "b ") into a letter grade.
// Returns "" when the cell does not hold a valid grade.
func NormalizeGrade(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.TrimSuffix(s, ".0")
	if g, ok := numericGrades[s]; ok {
		return g
	}
	if _, ok := gradeValues[s]; ok {
		return s
	}
	return ""
}

// IsGoodGrade reports A or B grades.
func IsGoodGrade(grade string) bool {
	g := strings.ToUpper(strings.TrimSpace(grade))
	return g == GradeA || g == GradeB
}
