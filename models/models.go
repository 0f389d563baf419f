package models

import (
	"strconv"
	"strings"
)

// placeholder section tokens that mean "no section"
var sectionPlaceholders = map[string]bool{
	"":     true,
	"nan":  true,
	"none": true,
	"-":    true,
}

// Student represents one student record from the student list.
type Student struct {
	Name           string `json:"name"`
	School         string `json:"school"`
	Grade          string `json:"grade"`   // "Grade NN" vocabulary
	Section        string `json:"section"` // may be empty or a placeholder
	EnrollmentCode string `json:"enrollmentCode,omitempty"`
}

// GradeSection returns "{grade} {section}", or just the grade when the
// section is empty or a placeholder token.
func (s Student) GradeSection() string {
	sec := strings.TrimSpace(s.Section)
	if sectionPlaceholders[strings.ToLower(sec)] {
		return s.Grade
	}
	return s.Grade + " " + sec
}

// GradeNumber extracts the trailing number from the student's grade label.
func (s Student) GradeNumber() int {
	return GradeNumber(s.Grade)
}

// GradeNumber extracts the numeric part of a grade label ("Grade 09" -> 9).
// Returns 0 for labels without one (e.g. "IGCSE").
func GradeNumber(grade string) int {
	parts := strings.Fields(grade)
	if len(parts) == 0 {
		return 0
	}
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return n
}

// Exam represents one scheduled exam from the exam list. Grade here uses the
// exam-table vocabulary (IGCSE / AS LEVEL / A LEVEL / "Grade NN"), not the
// student vocabulary.
type Exam struct {
	Grade        string `json:"grade"`
	Subject      string `json:"subject"`
	ExamDate     string `json:"examDate"` // free text, multiple accepted formats
	Day          string `json:"day"`
	Timing       string `json:"timing"`
	School       string `json:"school"`
	ExamName     string `json:"examName"` // exam series, e.g. "Term I"
	AcademicYear string `json:"academicYear"`
}

// FormattedDate renders the exam date as "DD Mon YYYY". When the date does
// not match any accepted format the original string is returned unchanged.
func (e Exam) FormattedDate() string {
	if t, ok := ParseExamDate(e.ExamDate); ok {
		return t.Format("02 Jan 2006")
	}
	return e.ExamDate
}

// School represents one school record from the school list.
type School struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	Email        string `json:"email"`
}

// FullAddress joins the two address lines for display.
func (s School) FullAddress() string {
	return s.AddressLine1 + "\n" + s.AddressLine2
}
