package loader

import (
	"sort"

	"exampass-server-go/config"
	"exampass-server-go/models"
)

// GroupStudents groups students by school, then by grade. Each grade's list
// is sorted by (section, name) ascending; the sort is stable, so students
// with equal keys keep their input order.
func GroupStudents(students []models.Student) map[string]map[string][]models.Student {
	grouped := make(map[string]map[string][]models.Student)
	for _, s := range students {
		grades, ok := grouped[s.School]
		if !ok {
			grades = make(map[string][]models.Student)
			grouped[s.School] = grades
		}
		grades[s.Grade] = append(grades[s.Grade], s)
	}

	for _, grades := range grouped {
		for _, list := range grades {
			sort.SliceStable(list, func(i, j int) bool {
				if list[i].Section != list[j].Section {
					return list[i].Section < list[j].Section
				}
				return list[i].Name < list[j].Name
			})
		}
	}
	return grouped
}

// ExamGradeLabel translates a student grade label into the exam-table
// vocabulary (Grade 10 -> IGCSE, Grade 11 -> AS LEVEL, Grade 12 -> A LEVEL).
// Unmapped labels pass through unchanged. This is the filtering vocabulary;
// the filename/UI vocabulary lives in the paths package.
func ExamGradeLabel(cfg config.Config, studentGrade string) string {
	if mapped, ok := cfg.ExamGradeLabels[studentGrade]; ok {
		return mapped
	}
	return studentGrade
}

// ExamsFor returns the exams matching a student grade and school, sorted by
// parsed exam date ascending. Dates that fail to parse sort by their raw
// string. An empty result means the grade has no schedule and should be
// skipped by the caller.
func ExamsFor(cfg config.Config, exams []models.Exam, studentGrade, school string) []models.Exam {
	examGrade := ExamGradeLabel(cfg, studentGrade)

	var filtered []models.Exam
	for _, e := range exams {
		if e.Grade == examGrade && e.School == school {
			filtered = append(filtered, e)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return models.ExamDateSortKey(filtered[i].ExamDate) < models.ExamDateSortKey(filtered[j].ExamDate)
	})
	return filtered
}
