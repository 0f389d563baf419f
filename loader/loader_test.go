package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"exampass-server-go/config"
	"exampass-server-go/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadStudents(t *testing.T) {
	cfg := config.Default(t.TempDir())
	writeFile(t, cfg.StudentListFile,
		"\uFEFF"+"Display Name,School,Grade,Section,CF.Enrollment Code\n"+
			"A. B. Kumar,Excel Central School,Grade 09,A,EN001\n"+
			"  Priya   Raj ,Excel Central School,Grade 09,B,nan\n"+
			",Excel Central School,Grade 09,A,EN002\n"+ // missing name: dropped
			"Ravi,,Grade 09,A,EN003\n") // missing school: dropped

	students, err := New(cfg).LoadStudents()
	require.NoError(t, err)
	require.Len(t, students, 2)

	// Periods removed, whitespace normalized, BOM-prefixed header resolved.
	assert.Equal(t, "A B Kumar", students[0].Name)
	assert.Equal(t, "EN001", students[0].EnrollmentCode)
	assert.Equal(t, "Priya Raj", students[1].Name)
	assert.Equal(t, "", students[1].EnrollmentCode)
}

func TestLoadStudentsFromExcel(t *testing.T) {
	cfg := config.Default(t.TempDir())
	require.NoError(t, os.MkdirAll(cfg.InputDir, 0o755))

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Display Name", "School", "Grade", "Section", "CF.Enrollment Code"},
		{"Anu Mol", "Excel Central School", "Grade 09", "A", "EN010"},
		{"Binu Das", "Excel Central School", "Grade 09", "B", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	xlsxPath := filepath.Join(cfg.InputDir, "student_list.xlsx")
	require.NoError(t, f.SaveAs(xlsxPath))
	require.NoError(t, f.Close())

	// The configured .csv is absent, so the loader falls back to the .xlsx.
	students, err := New(cfg).LoadStudents()
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Anu Mol", students[0].Name)
	assert.Equal(t, "Grade 09", students[0].Grade)
}

func TestLoadStudentsMissingFile(t *testing.T) {
	cfg := config.Default(t.TempDir())
	_, err := New(cfg).LoadStudents()
	assert.Error(t, err)
}

func TestLoadExamsAndSchools(t *testing.T) {
	cfg := config.Default(t.TempDir())
	writeFile(t, cfg.ExamListFile,
		"Grade,Subject,Exam Date,Day,Timing,School,Exam Name,Academic Year\n"+
			"Grade 09,Mathematics,6/8/25,Wednesday,morning,Excel Central School,Term I,2025-26\n")
	writeFile(t, cfg.SchoolListFile,
		"School,Address Line 1,Address Line 2,Email Address\n"+
			"Excel Central School,12 Hill Road,Nagercoil 629001,info@excelcentral.example\n")

	l := New(cfg)

	exams, err := l.LoadExams()
	require.NoError(t, err)
	require.Len(t, exams, 1)
	assert.Equal(t, "Mathematics", exams[0].Subject)
	assert.Equal(t, "Term I", exams[0].ExamName)

	schools, err := l.LoadSchools()
	require.NoError(t, err)
	require.Len(t, schools, 1)
	assert.Equal(t, "12 Hill Road", schools["Excel Central School"].AddressLine1)
}

func TestGroupStudents(t *testing.T) {
	students := []models.Student{
		{Name: "Charu", School: "S1", Grade: "Grade 09", Section: "B"},
		{Name: "Banu", School: "S1", Grade: "Grade 09", Section: "A"},
		{Name: "Anu", School: "S1", Grade: "Grade 09", Section: "A"},
		{Name: "Dev", School: "S1", Grade: "Grade 10", Section: "A"},
		{Name: "Esha", School: "S2", Grade: "Grade 09", Section: "A"},
	}

	grouped := GroupStudents(students)

	require.Len(t, grouped, 2)
	require.Len(t, grouped["S1"], 2)

	// Every input student appears exactly once.
	total := 0
	for _, grades := range grouped {
		for _, list := range grades {
			total += len(list)
		}
	}
	assert.Equal(t, len(students), total)

	// Sorted by (section, name) ascending.
	g9 := grouped["S1"]["Grade 09"]
	require.Len(t, g9, 3)
	assert.Equal(t, "Anu", g9[0].Name)
	assert.Equal(t, "Banu", g9[1].Name)
	assert.Equal(t, "Charu", g9[2].Name)
}

func TestGroupStudentsStable(t *testing.T) {
	// Two students with equal (section, name) keys keep input order.
	first := models.Student{Name: "Anu", School: "S1", Grade: "Grade 09", Section: "A", EnrollmentCode: "1"}
	second := models.Student{Name: "Anu", School: "S1", Grade: "Grade 09", Section: "A", EnrollmentCode: "2"}

	grouped := GroupStudents([]models.Student{first, second})
	list := grouped["S1"]["Grade 09"]
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0].EnrollmentCode)
	assert.Equal(t, "2", list[1].EnrollmentCode)
}

func TestExamGradeLabel(t *testing.T) {
	cfg := config.Default(t.TempDir())

	assert.Equal(t, "IGCSE", ExamGradeLabel(cfg, "Grade 10"))
	assert.Equal(t, "AS LEVEL", ExamGradeLabel(cfg, "Grade 11"))
	assert.Equal(t, "A LEVEL", ExamGradeLabel(cfg, "Grade 12"))
	// Identity fallback for unmapped labels.
	assert.Equal(t, "Grade 13", ExamGradeLabel(cfg, "Grade 13"))
	assert.Equal(t, "Grade 09", ExamGradeLabel(cfg, "Grade 09"))
}

func TestExamsFor(t *testing.T) {
	cfg := config.Default(t.TempDir())
	exams := []models.Exam{
		{Grade: "IGCSE", School: "S1", Subject: "Physics", ExamDate: "8/8/25"},
		{Grade: "IGCSE", School: "S1", Subject: "Maths", ExamDate: "6/8/25"},
		{Grade: "IGCSE", School: "S2", Subject: "Maths", ExamDate: "5/8/25"},
		{Grade: "A LEVEL", School: "S1", Subject: "Maths", ExamDate: "4/8/25"},
	}

	got := ExamsFor(cfg, exams, "Grade 10", "S1")
	require.Len(t, got, 2)
	assert.Equal(t, "Maths", got[0].Subject)
	assert.Equal(t, "Physics", got[1].Subject)
}

func TestExamsForNoMatch(t *testing.T) {
	cfg := config.Default(t.TempDir())
	exams := []models.Exam{{Grade: "IGCSE", School: "S1", Subject: "Maths", ExamDate: "6/8/25"}}

	assert.Empty(t, ExamsFor(cfg, exams, "Grade 09", "S1"))
	assert.Empty(t, ExamsFor(cfg, nil, "Grade 10", "S1"))
}

func TestExamsForUnparseableDates(t *testing.T) {
	cfg := config.Default(t.TempDir())
	exams := []models.Exam{
		{Grade: "Grade 09", School: "S1", Subject: "B", ExamDate: "tbd-later"},
		{Grade: "Grade 09", School: "S1", Subject: "A", ExamDate: "tbd-early"},
	}

	// Unparseable dates sort by raw string relative to each other.
	got := ExamsFor(cfg, exams, "Grade 09", "S1")
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Subject)
	assert.Equal(t, "B", got[1].Subject)
}
