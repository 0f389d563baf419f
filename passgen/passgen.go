// Package passgen orchestrates pass generation: it loads the record sets,
// groups students, matches exams to each (school, grade) pair, drives the
// layout engine, and accumulates the run statistics the CLI summary and the
// web API report from.
package passgen

import (
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"exampass-server-go/config"
	"exampass-server-go/loader"
	"exampass-server-go/models"
	"exampass-server-go/paths"
	"exampass-server-go/pdf"
)

// GradeStats is the per-grade breakdown kept for reporting: how many
// students each section has in total, and how many were in a grade that had
// exams and therefore received a pass.
type GradeStats struct {
	WithPasses      map[string]int `json:"withPasses"` // section -> students with passes
	TotalWithPasses int            `json:"totalWithPasses"`
	TotalBySection  map[string]int `json:"totalBySection"` // section -> all students
}

// Summary describes one complete generation run.
type Summary struct {
	GeneratedAt           time.Time           `json:"generatedAt"`
	Files                 map[string][]string `json:"files"` // school -> output paths
	TotalSchools          int                 `json:"totalSchools"`
	TotalFiles            int                 `json:"totalFiles"`
	TotalPages            int                 `json:"totalPages"`
	TotalStudents         int                 `json:"totalStudents"`
	StudentsWithPasses    int                 `json:"studentsWithPasses"`
	StudentsWithoutPasses int                 `json:"studentsWithoutPasses"`
}

// Generator runs the generation pipeline. Statistics from the most recent
// run are retained for the accessor methods.
type Generator struct {
	cfg    config.Config
	loader *loader.Loader
	pdf    *pdf.Generator

	mu            sync.Mutex
	studentCounts map[string]int // school -> students with passes
	totalCounts   map[string]int // school -> all students
	gradeStats    map[string]map[string]*GradeStats
}

// New creates a Generator for the given configuration.
func New(cfg config.Config) *Generator {
	return &Generator{
		cfg:           cfg,
		loader:        loader.New(cfg),
		pdf:           pdf.New(cfg),
		studentCounts: make(map[string]int),
		totalCounts:   make(map[string]int),
		gradeStats:    make(map[string]map[string]*GradeStats),
	}
}

// GenerateAll produces one PDF per (school, grade) pair that has matching
// exams. Empty student or exam input is a hard stop; a school missing from
// the school list is warned about and skipped; a grade with no exams is
// skipped but its students still count toward the school total; a document
// that fails to persist is logged and the run continues.
func (g *Generator) GenerateAll() (*Summary, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	students, err := g.loader.LoadStudents()
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, errors.New("no students found")
	}

	exams, err := g.loader.LoadExams()
	if err != nil {
		return nil, err
	}
	if len(exams) == 0 {
		return nil, errors.New("no exams found")
	}

	schools, err := g.loader.LoadSchools()
	if err != nil {
		// Every school then misses the lookup and is skipped with a warning.
		log.Printf("Error loading schools: %v", err)
		schools = map[string]models.School{}
	}

	g.studentCounts = make(map[string]int)
	g.totalCounts = make(map[string]int)
	g.gradeStats = make(map[string]map[string]*GradeStats)

	grouped := loader.GroupStudents(students)
	files := make(map[string][]string)
	totalPages := 0

	for _, schoolName := range sortedKeys(grouped) {
		grades := grouped[schoolName]

		// Totals by grade and section are recorded for every student,
		// whether or not their grade ends up with a pass.
		for grade, list := range grades {
			g.totalCounts[schoolName] += len(list)
			stats := g.ensureGradeStats(schoolName, grade)
			for _, s := range list {
				stats.TotalBySection[s.Section]++
			}
		}

		school, ok := schools[schoolName]
		if !ok {
			log.Printf("Warning: school %q not found in school list, skipping", schoolName)
			continue
		}

		files[schoolName] = []string{}
		withPasses := 0

		for _, grade := range sortGradesByNumber(grades) {
			list := grades[grade]
			gradeExams := loader.ExamsFor(g.cfg, exams, grade, schoolName)
			if len(gradeExams) == 0 {
				log.Printf("No exams found for %s - %s, skipping", schoolName, grade)
				continue
			}

			withPasses += len(list)
			stats := g.ensureGradeStats(schoolName, grade)
			stats.TotalWithPasses = len(list)
			for _, s := range list {
				stats.WithPasses[s.Section]++
			}

			series := gradeExams[0].ExamName
			outPath, err := paths.OutputPath(g.cfg, schoolName, grade, series)
			if err != nil {
				log.Printf("Error deriving output path for %s - %s: %v", schoolName, grade, err)
				continue
			}

			log.Printf("Generating passes for %s - %s (%d students)", schoolName, grade, len(list))
			result, err := g.pdf.GenerateGradePasses(list, gradeExams, school, outPath)
			if err != nil {
				log.Printf("Error generating PDF for %s - %s: %v", schoolName, grade, err)
				continue
			}

			files[schoolName] = append(files[schoolName], outPath)
			totalPages += result.Pages
		}

		g.studentCounts[schoolName] = withPasses
	}

	paths.CleanupEmptyDirs(g.cfg.OutputDir)

	summary := &Summary{
		GeneratedAt: time.Now(),
		Files:       files,
	}
	for school, outs := range files {
		summary.TotalSchools++
		summary.TotalFiles += len(outs)
		summary.TotalStudents += g.totalCounts[school]
		summary.StudentsWithPasses += g.studentCounts[school]
	}
	summary.StudentsWithoutPasses = summary.TotalStudents - summary.StudentsWithPasses
	summary.TotalPages = totalPages

	log.Printf("Generation complete: %d PDF files created", summary.TotalFiles)
	return summary, nil
}

// SchoolStudentCount returns how many of a school's students received a
// pass in the last run.
func (g *Generator) SchoolStudentCount(school string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.studentCounts[school]
}

// TotalSchoolStudents returns the total number of students seen for a
// school in the last run.
func (g *Generator) TotalSchoolStudents(school string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.totalCounts[school]
}

// GradeSectionStats returns the last run's per-grade breakdown for a school.
func (g *Generator) GradeSectionStats(school string) map[string]*GradeStats {
	g.mu.Lock()
	defer g.mu.Unlock()

	stats, ok := g.gradeStats[school]
	if !ok {
		return map[string]*GradeStats{}
	}
	out := make(map[string]*GradeStats, len(stats))
	for grade, gs := range stats {
		copied := GradeStats{
			WithPasses:      make(map[string]int, len(gs.WithPasses)),
			TotalWithPasses: gs.TotalWithPasses,
			TotalBySection:  make(map[string]int, len(gs.TotalBySection)),
		}
		for section, n := range gs.WithPasses {
			copied.WithPasses[section] = n
		}
		for section, n := range gs.TotalBySection {
			copied.TotalBySection[section] = n
		}
		out[grade] = &copied
	}
	return out
}

func (g *Generator) ensureGradeStats(school, grade string) *GradeStats {
	if g.gradeStats[school] == nil {
		g.gradeStats[school] = make(map[string]*GradeStats)
	}
	stats, ok := g.gradeStats[school][grade]
	if !ok {
		stats = &GradeStats{
			WithPasses:     make(map[string]int),
			TotalBySection: make(map[string]int),
		}
		g.gradeStats[school][grade] = stats
	}
	return stats
}

// sortGradesByNumber orders grade labels by their numeric part ascending;
// labels without one sort last, alphabetically among themselves.
func sortGradesByNumber(grades map[string][]models.Student) []string {
	keys := make([]string, 0, len(grades))
	for grade := range grades {
		keys = append(keys, grade)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, nj := gradeOrder(keys[i]), gradeOrder(keys[j])
		if ni != nj {
			return ni < nj
		}
		return keys[i] < keys[j]
	})
	return keys
}

func gradeOrder(grade string) int {
	if n := models.GradeNumber(grade); n > 0 {
		return n
	}
	return 999
}

func sortedKeys(m map[string]map[string][]models.Student) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
