// Package loader reads the three tabular record sets (students, exams,
// schools) from CSV or Excel files and prepares them for pass generation:
// grouping students by school and grade, mapping grade vocabularies, and
// filtering exams per grade.
package loader

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"exampass-server-go/config"
	"exampass-server-go/models"
)

// Loader reads record sets from the configured input directory.
type Loader struct {
	cfg config.Config
}

// New creates a Loader for the given configuration.
func New(cfg config.Config) *Loader {
	return &Loader{cfg: cfg}
}

// LoadStudents reads the student list. Records missing a name, school, or
// grade are dropped (logged, not fatal). Names have periods removed and
// whitespace normalized.
func (l *Loader) LoadStudents() ([]models.Student, error) {
	rows, err := readRows(resolveInput(l.cfg.StudentListFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read student list: %w", err)
	}

	header := headerIndex(rows)
	students := make([]models.Student, 0, len(rows))
	dropped := 0
	for i, row := range rows {
		if i == 0 {
			continue
		}
		name := cleanName(field(row, header, "Display Name"))
		school := field(row, header, "School")
		grade := field(row, header, "Grade")
		section := field(row, header, "Section")
		code := field(row, header, "CF.Enrollment Code")

		// Section is optional; the rest are required.
		if name == "" || school == "" || grade == "" {
			dropped++
			continue
		}
		if code == "nan" || code == "None" {
			code = ""
		}

		students = append(students, models.Student{
			Name:           name,
			School:         school,
			Grade:          grade,
			Section:        section,
			EnrollmentCode: code,
		})
	}
	if dropped > 0 {
		log.Printf("Dropped %d student rows with missing required fields", dropped)
	}
	log.Printf("Loaded %d students", len(students))
	return students, nil
}

// LoadExams reads the exam list. Exam rows are taken as-is; no filtering.
func (l *Loader) LoadExams() ([]models.Exam, error) {
	rows, err := readRows(resolveInput(l.cfg.ExamListFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read exam list: %w", err)
	}

	header := headerIndex(rows)
	exams := make([]models.Exam, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue
		}
		exams = append(exams, models.Exam{
			Grade:        field(row, header, "Grade"),
			Subject:      field(row, header, "Subject"),
			ExamDate:     field(row, header, "Exam Date"),
			Day:          field(row, header, "Day"),
			Timing:       field(row, header, "Timing"),
			School:       field(row, header, "School"),
			ExamName:     field(row, header, "Exam Name"),
			AcademicYear: field(row, header, "Academic Year"),
		})
	}
	log.Printf("Loaded %d exams", len(exams))
	return exams, nil
}

// LoadSchools reads the school reference list keyed by school name.
func (l *Loader) LoadSchools() (map[string]models.School, error) {
	rows, err := readRows(resolveInput(l.cfg.SchoolListFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read school list: %w", err)
	}

	header := headerIndex(rows)
	schools := make(map[string]models.School)
	for i, row := range rows {
		if i == 0 {
			continue
		}
		school := models.School{
			Name:         field(row, header, "School"),
			AddressLine1: field(row, header, "Address Line 1"),
			AddressLine2: field(row, header, "Address Line 2"),
			Email:        field(row, header, "Email Address"),
		}
		schools[school.Name] = school
	}
	log.Printf("Loaded %d schools", len(schools))
	return schools, nil
}

// resolveInput returns the configured path if it exists, otherwise its .xlsx
// sibling (uploads keep their original format).
func resolveInput(path string) string {
	if _, err := os.Stat(path); err == nil {
		return path
	}
	alt := strings.TrimSuffix(path, filepath.Ext(path)) + ".xlsx"
	if _, err := os.Stat(alt); err == nil {
		return alt
	}
	return path
}

// readRows reads a tabular file into rows of cells. Excel files go through
// excelize (first sheet); anything else is parsed as CSV.
func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readExcelRows(path)
	default:
		return readCSVRows(path)
	}
}

func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing excel file %s: %v", path, err)
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("excel file %s does not contain any sheets", path)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}
	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	// Exports often carry a UTF-8 byte-order mark on the first header cell.
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\uFEFF")
	}
	return rows, nil
}

// headerIndex maps column names in the first row to their positions.
func headerIndex(rows [][]string) map[string]int {
	idx := make(map[string]int)
	if len(rows) == 0 {
		return idx
	}
	for i, name := range rows[0] {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

// field returns the trimmed cell under the named column, or "" when the
// column or cell is absent.
func field(row []string, header map[string]int, name string) string {
	i, ok := header[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// cleanName strips periods and collapses runs of whitespace.
func cleanName(name string) string {
	name = strings.ReplaceAll(name, ".", "")
	return strings.Join(strings.Fields(name), " ")
}
