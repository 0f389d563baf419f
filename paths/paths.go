// Package paths derives output locations for generated pass documents and
// maintains the output directory tree.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"exampass-server-go/config"
)

// unknownAbbreviation is the sentinel for schools missing from the table.
const unknownAbbreviation = "XXX"

// SchoolAbbreviation returns the school's 3-letter code, or "XXX" when the
// school is not in the table. Never an error.
func SchoolAbbreviation(cfg config.Config, school string) string {
	if abbrev, ok := cfg.SchoolAbbreviations[school]; ok {
		return abbrev
	}
	return unknownAbbreviation
}

// DisplayGrade returns the grade label used in filenames and UI for the
// given school. Most schools use the student grade unchanged; schools with
// an entry in DisplayGradesBySchool get their configured remap (e.g.
// "Grade 09" -> "IGCSE Jr"). This is display vocabulary only; exam
// filtering uses loader.ExamGradeLabel, a separate table.
func DisplayGrade(cfg config.Config, grade, school string) string {
	if remap, ok := cfg.DisplayGradesBySchool[school]; ok {
		if display, ok := remap[grade]; ok {
			return display
		}
	}
	return grade
}

// OutputPath returns the deterministic path for a grade's pass document and
// creates its school directory if needed. The same inputs always yield the
// same path; generation overwrites whatever is already there.
func OutputPath(cfg config.Config, school, grade, examName string) (string, error) {
	schoolDir := filepath.Join(cfg.OutputDir, school)
	if err := os.MkdirAll(schoolDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", schoolDir, err)
	}

	abbrev := SchoolAbbreviation(cfg, school)
	gradePart := strings.ReplaceAll(DisplayGrade(cfg, grade, school), " ", "_")
	examPart := strings.ReplaceAll(examName, " ", "_")

	name := fmt.Sprintf("%s_%s_Passes_%s.pdf", abbrev, gradePart, examPart)
	return filepath.Join(schoolDir, name), nil
}

// CleanupEmptyDirs removes per-school output directories that ended up
// empty. Files are never removed, so stale PDFs from earlier runs survive
// as long as their directory holds anything at all.
func CleanupEmptyDirs(outputDir string) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(outputDir, entry.Name())
		children, err := os.ReadDir(dir)
		if err != nil || len(children) > 0 {
			continue
		}
		os.Remove(dir)
	}
}
