package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exampass-server-go/config"
	"exampass-server-go/models"
)

var testSchool = models.School{
	Name:         "Excel Central School",
	AddressLine1: "12 Hill Road",
	AddressLine2: "Nagercoil 629001",
	Email:        "info@excelcentral.example",
}

func testExams() []models.Exam {
	return []models.Exam{
		{Grade: "Grade 09", Subject: "Mathematics", ExamDate: "6/8/25", Day: "Wednesday", Timing: "morning", School: testSchool.Name, ExamName: "Term I", AcademicYear: "2025-26"},
		{Grade: "Grade 09", Subject: "English Language and Literature", ExamDate: "7/8/25", Day: "Thursday", Timing: "afternoon", School: testSchool.Name, ExamName: "Term I", AcademicYear: "2025-26"},
	}
}

func testStudents(n int) []models.Student {
	names := []string{"Anu", "Banu", "Charu", "Dev", "Esha"}
	students := make([]models.Student, 0, n)
	for i := 0; i < n; i++ {
		students = append(students, models.Student{
			Name:    names[i%len(names)],
			School:  testSchool.Name,
			Grade:   "Grade 09",
			Section: "A",
		})
	}
	return students
}

func TestGenerateGradePassesPagination(t *testing.T) {
	tests := []struct {
		name      string
		students  int
		wantPages int
	}{
		{"single student", 1, 1},
		{"full page", 2, 1},
		{"odd roster has no trailing blank page", 3, 2},
		{"two full pages", 4, 2},
		{"five students", 5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default(t.TempDir())
			out := filepath.Join(t.TempDir(), "passes.pdf")

			result, err := New(cfg).GenerateGradePasses(testStudents(tt.students), testExams(), testSchool, out)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPages, result.Pages)

			info, err := os.Stat(out)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		})
	}
}

func TestGenerateGradePassesMissingImages(t *testing.T) {
	// The configured logo and signature files do not exist in the temp
	// tree; generation must still succeed with the images omitted.
	cfg := config.Default(t.TempDir())
	out := filepath.Join(t.TempDir(), "passes.pdf")

	_, err := New(cfg).GenerateGradePasses(testStudents(2), testExams(), testSchool, out)
	require.NoError(t, err)
}

func TestGenerateGradePassesEmptyRoster(t *testing.T) {
	cfg := config.Default(t.TempDir())
	out := filepath.Join(t.TempDir(), "passes.pdf")

	_, err := New(cfg).GenerateGradePasses(nil, testExams(), testSchool, out)
	assert.Error(t, err)
}

func TestGenerateGradePassesBadTarget(t *testing.T) {
	cfg := config.Default(t.TempDir())
	out := filepath.Join(t.TempDir(), "missing", "passes.pdf")

	_, err := New(cfg).GenerateGradePasses(testStudents(1), testExams(), testSchool, out)
	assert.Error(t, err)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Morning", capitalize("morning"))
	assert.Equal(t, "Morning", capitalize("MORNING"))
	assert.Equal(t, "", capitalize(""))
}
