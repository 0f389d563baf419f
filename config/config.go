// Package config holds the fixed tables and geometry the generator runs
// with. A Config is built once at startup and passed explicitly; nothing in
// this package is mutated afterwards.
package config

import (
	"os"
	"path/filepath"
)

// Config carries every tunable the loader, layout engine, and path builder
// need: directory layout, school lookup tables, grade vocabulary mappings,
// page geometry, and the fixed strings printed on every pass.
type Config struct {
	// Directory layout
	InputDir      string
	OutputDir     string
	LogosDir      string
	SignaturesDir string

	// Input files (CLI mode; uploads are written to the same names)
	StudentListFile string
	ExamListFile    string
	SchoolListFile  string

	// School lookup tables
	SchoolLogos         map[string]string // school name -> logo filename
	SchoolSignatures    map[string]string // school name -> principal signature filename
	SchoolAbbreviations map[string]string // school name -> 3-letter code

	// Grade vocabulary mappings. ExamGradeLabels bridges the student grade
	// vocabulary to the exam-table vocabulary and is used for filtering.
	// DisplayGradesBySchool is the filename/UI vocabulary, keyed by school.
	// The two tables are intentionally separate.
	ExamGradeLabels       map[string]string
	DisplayGradesBySchool map[string]map[string]string

	// Page geometry (A4 landscape, points)
	PageWidth  float64
	PageHeight float64
	PassWidth  float64
	Margin     float64

	// Fonts
	FontFamily string

	// Fixed pass values
	DateOfIssue  string
	AcademicYear string

	// Server settings
	Addr      string
	RedisAddr string
}

// Load builds the default configuration rooted at baseDir, honoring the
// EXAMPASS_BASE_DIR, PORT, and REDIS_ADDR environment variables.
func Load() Config {
	baseDir := os.Getenv("EXAMPASS_BASE_DIR")
	if baseDir == "" {
		baseDir = "."
	}
	cfg := Default(baseDir)
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	return cfg
}

// Default returns the standard configuration rooted at baseDir.
func Default(baseDir string) Config {
	inputDir := filepath.Join(baseDir, "input")
	imagesDir := filepath.Join(baseDir, "images")

	return Config{
		InputDir:      inputDir,
		OutputDir:     filepath.Join(baseDir, "output"),
		LogosDir:      filepath.Join(imagesDir, "logos"),
		SignaturesDir: filepath.Join(imagesDir, "signatures"),

		StudentListFile: filepath.Join(inputDir, "student_list.csv"),
		ExamListFile:    filepath.Join(inputDir, "exam_list.csv"),
		SchoolListFile:  filepath.Join(inputDir, "school_list.csv"),

		SchoolLogos: map[string]string{
			"Excel Central School": "ecs.png",
			"Excel Global School":  "egs.png",
			"Excel Pathway School": "eps.png",
		},
		SchoolSignatures: map[string]string{
			"Excel Central School": "ecs-principal.png",
			"Excel Global School":  "egs-principal.png",
			"Excel Pathway School": "eps-principal.png",
		},
		SchoolAbbreviations: map[string]string{
			"Excel Central School": "ECS",
			"Excel Global School":  "EGS",
			"Excel Pathway School": "EPS",
		},

		ExamGradeLabels: map[string]string{
			"Grade 10": "IGCSE",
			"Grade 11": "AS LEVEL",
			"Grade 12": "A LEVEL",
		},
		DisplayGradesBySchool: map[string]map[string]string{
			"Excel Global School": {
				"Grade 09": "IGCSE Jr",
				"Grade 10": "IGCSE",
				"Grade 11": "AS Level",
				"Grade 12": "A Level",
			},
		},

		PageWidth:  842,
		PageHeight: 595,
		PassWidth:  421, // PageWidth / 2
		Margin:     20,

		FontFamily: "Helvetica",

		DateOfIssue:  "28 July 2025",
		AcademicYear: "2025-26",

		Addr: ":8080",
	}
}
