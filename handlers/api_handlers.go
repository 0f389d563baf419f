package handlers

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"exampass-server-go/config"
	"exampass-server-go/db"
	"exampass-server-go/passgen"
)

// APIHandler holds the dependencies for API handlers.
type APIHandler struct {
	Cfg       config.Config
	Generator *passgen.Generator
	RunStore  *db.RunStore // nil when run history is disabled
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(cfg config.Config, generator *passgen.Generator, store *db.RunStore) *APIHandler {
	return &APIHandler{
		Cfg:       cfg,
		Generator: generator,
		RunStore:  store,
	}
}

// --- Dataset Upload ---

// UploadDatasets handles POST /api/datasets. It accepts multipart files
// under "students", "exams", and optionally "schools" (.csv or .xlsx) and
// stores them as the generator's input datasets.
func (h *APIHandler) UploadDatasets(c *gin.Context) {
	saved := map[string]bool{}

	datasets := []struct {
		field string
		base  string
	}{
		{"students", h.Cfg.StudentListFile},
		{"exams", h.Cfg.ExamListFile},
		{"schools", h.Cfg.SchoolListFile},
	}
	for _, ds := range datasets {
		ok, err := h.saveDataset(c, ds.field, ds.base)
		if err != nil {
			log.Printf("Error saving %s dataset: %v", ds.field, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to store %s file: %v", ds.field, err)})
			return
		}
		saved[ds.field] = ok
	}

	if !saved["students"] && !saved["exams"] && !saved["schools"] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no dataset files in request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Upload successful",
		"saved":   saved,
	})
}

// saveDataset stores one uploaded dataset file under the configured base
// name, keeping the upload's extension. The previous file, in either
// format, is removed so the loader never picks up a stale dataset.
func (h *APIHandler) saveDataset(c *gin.Context, field, basePath string) (bool, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return false, nil
		}
		return false, err
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".csv" && ext != ".xlsx" {
		return false, fmt.Errorf("unsupported file type %q (want .csv or .xlsx)", ext)
	}

	if err := os.MkdirAll(filepath.Dir(basePath), 0o755); err != nil {
		return false, err
	}

	stem := strings.TrimSuffix(basePath, filepath.Ext(basePath))
	os.Remove(stem + ".csv")
	os.Remove(stem + ".xlsx")

	dst, err := os.Create(stem + ext)
	if err != nil {
		return false, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return false, err
	}

	log.Printf("Stored %s dataset from upload %s", field, header.Filename)
	return true, nil
}

// --- Generation ---

// Generate handles POST /api/generate: it runs the full pipeline and
// responds with the run summary.
func (h *APIHandler) Generate(c *gin.Context) {
	summary, err := h.Generator.GenerateAll()
	if err != nil {
		log.Printf("Error in Generate handler: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Generation failed: " + err.Error()})
		return
	}

	if h.RunStore != nil {
		if err := h.RunStore.SaveRun(summary); err != nil {
			// History is best-effort; the run itself succeeded.
			log.Printf("Error recording run history: %v", err)
		}
	}

	c.JSON(http.StatusOK, summary)
}

// --- Statistics ---

// SchoolStats handles GET /api/stats/:school with the last run's counts.
func (h *APIHandler) SchoolStats(c *gin.Context) {
	school := c.Param("school")
	if school == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "School name is required"})
		return
	}

	total := h.Generator.TotalSchoolStudents(school)
	withPasses := h.Generator.SchoolStudentCount(school)

	c.JSON(http.StatusOK, gin.H{
		"school":                school,
		"totalStudents":         total,
		"studentsWithPasses":    withPasses,
		"studentsWithoutPasses": total - withPasses,
		"gradeStats":            h.Generator.GradeSectionStats(school),
	})
}

// --- Generated Files ---

// ListFiles handles GET /api/files: the generated PDFs grouped by school.
func (h *APIHandler) ListFiles(c *gin.Context) {
	files := map[string][]string{}

	schools, err := os.ReadDir(h.Cfg.OutputDir)
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Error listing output directory: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list generated files"})
		return
	}
	for _, school := range schools {
		if !school.IsDir() {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(h.Cfg.OutputDir, school.Name()))
		if err != nil {
			log.Printf("Error listing %s: %v", school.Name(), err)
			continue
		}
		names := []string{}
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".pdf") {
				names = append(names, entry.Name())
			}
		}
		files[school.Name()] = names
	}

	c.JSON(http.StatusOK, files)
}

// DownloadFile handles GET /api/files/:school/:name for a single PDF.
func (h *APIHandler) DownloadFile(c *gin.Context) {
	// Base() strips any path traversal from the parameters.
	school := filepath.Base(c.Param("school"))
	name := filepath.Base(c.Param("name"))

	path := filepath.Join(h.Cfg.OutputDir, school, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	c.FileAttachment(path, name)
}

// DownloadArchive handles GET /api/archive: every generated PDF in one zip.
func (h *APIHandler) DownloadArchive(c *gin.Context) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	count := 0
	err := filepath.Walk(h.Cfg.OutputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(h.Cfg.OutputDir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.Copy(w, f); err != nil {
			return err
		}
		count++
		return nil
	})
	if err == nil {
		err = zw.Close()
	}
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Error building archive: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build archive"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No generated files to archive"})
		return
	}

	name := fmt.Sprintf("examination_passes_%s.zip", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

// --- Run History ---

// RecentRuns handles GET /api/runs with summaries of recent generations.
func (h *APIHandler) RecentRuns(c *gin.Context) {
	if h.RunStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Run history is not enabled"})
		return
	}

	n := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			n = parsed
		}
	}

	runs, err := h.RunStore.RecentRuns(n)
	if err != nil {
		log.Printf("Error in RecentRuns handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve run history"})
		return
	}
	c.JSON(http.StatusOK, runs)
}

// --- Ping Handler ---

func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}
