package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/gin-gonic/gin"

	"exampass-server-go/config"
	"exampass-server-go/db"
	"exampass-server-go/handlers"
	"exampass-server-go/passgen"
)

func main() {
	serve := flag.Bool("serve", false, "run the web API instead of a one-shot generation")
	flag.Parse()

	cfg := config.Load()
	generator := passgen.New(cfg)

	if *serve {
		runServer(cfg, generator)
		return
	}
	runOnce(cfg, generator)
}

// runServer starts the upload/generate/download API.
func runServer(cfg config.Config, generator *passgen.Generator) {
	var store *db.RunStore
	if client := db.InitializeRedisClient(cfg.RedisAddr); client != nil {
		store = db.NewRunStore(client)
	}

	apiHandler := handlers.NewAPIHandler(cfg, generator, store)

	router := gin.Default()

	api := router.Group("/api")
	{
		// Dataset routes
		api.POST("/datasets", apiHandler.UploadDatasets)

		// Generation routes
		api.POST("/generate", apiHandler.Generate)
		api.GET("/stats/:school", apiHandler.SchoolStats)

		// Generated file routes
		api.GET("/files", apiHandler.ListFiles)
		api.GET("/files/:school/:name", apiHandler.DownloadFile)
		api.GET("/archive", apiHandler.DownloadArchive)

		// Run history
		api.GET("/runs", apiHandler.RecentRuns)

		api.GET("/ping", handlers.PingHandler)
	}

	log.Printf("Starting server on %s", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

// runOnce performs one generation pass and prints the run summary.
func runOnce(cfg config.Config, generator *passgen.Generator) {
	fmt.Println("EXAMINATION ENTRY PASS GENERATOR")
	fmt.Println("Note: existing PDFs will be overwritten.")

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	summary, err := generator.GenerateAll()
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	printSummary(generator, summary)
	fmt.Printf("\nAll passes have been saved under %s.\n", cfg.OutputDir)
}

func printSummary(generator *passgen.Generator, summary *passgen.Summary) {
	fmt.Println("\nGENERATION SUMMARY")

	schools := make([]string, 0, len(summary.Files))
	for school := range summary.Files {
		schools = append(schools, school)
	}
	sort.Strings(schools)

	for _, school := range schools {
		fmt.Printf("\n%s:\n", school)
		for _, path := range summary.Files[school] {
			fmt.Printf("  %s\n", filepath.Base(path))
		}

		total := generator.TotalSchoolStudents(school)
		withPasses := generator.SchoolStudentCount(school)
		fmt.Printf("  Total students in school: %d\n", total)
		fmt.Printf("  Students with passes: %d\n", withPasses)
		fmt.Printf("  Students without passes: %d\n", total-withPasses)
		if n := len(summary.Files[school]); n > 0 {
			fmt.Printf("  Grades with exams: %d\n", n)
			fmt.Printf("  Average students per grade: %d\n", withPasses/n)
		}

		stats := generator.GradeSectionStats(school)
		grades := make([]string, 0, len(stats))
		for grade := range stats {
			grades = append(grades, grade)
		}
		sort.Strings(grades)
		for _, grade := range grades {
			gs := stats[grade]
			totalInGrade := 0
			for _, n := range gs.TotalBySection {
				totalInGrade += n
			}
			fmt.Printf("  %s: %d/%d passes\n", grade, gs.TotalWithPasses, totalInGrade)

			sections := make([]string, 0, len(gs.TotalBySection))
			for section := range gs.TotalBySection {
				sections = append(sections, section)
			}
			sort.Strings(sections)
			for _, section := range sections {
				fmt.Printf("    Section %s: %d/%d passes\n", section, gs.WithPasses[section], gs.TotalBySection[section])
			}
		}
	}

	fmt.Println("\nOVERALL STATISTICS")
	fmt.Printf("Total schools processed: %d\n", summary.TotalSchools)
	fmt.Printf("Total PDF files generated: %d\n", summary.TotalFiles)
	fmt.Printf("Total students in all schools: %d\n", summary.TotalStudents)
	fmt.Printf("Students with passes generated: %d\n", summary.StudentsWithPasses)
	fmt.Printf("Students without passes: %d\n", summary.StudentsWithoutPasses)
}
