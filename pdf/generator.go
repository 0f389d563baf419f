// Package pdf renders examination entry passes. Each document holds one
// (school, grade) roster, two passes per A4-landscape page, each pass a
// vertical stack of bordered blocks whose heights are measured as they are
// drawn so variable content never overlaps the block below.
package pdf

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"exampass-server-go/config"
	"exampass-server-go/models"
)

// Result reports what a generation produced.
type Result struct {
	Pages int `json:"pages"`
}

// Generator lays out pass documents. The rendering surface is created per
// document inside GenerateGradePasses and never escapes it.
type Generator struct {
	cfg config.Config
}

// New creates a Generator with the given configuration.
func New(cfg config.Config) *Generator {
	return &Generator{cfg: cfg}
}

// GenerateGradePasses renders every student in the roster into outputPath,
// two per page. It returns an error only when the document cannot be built
// or persisted; missing images and similar per-field problems are logged
// and the affected content is simply omitted.
func (g *Generator) GenerateGradePasses(students []models.Student, exams []models.Exam, school models.School, outputPath string) (Result, error) {
	if len(students) == 0 {
		return Result{}, fmt.Errorf("no students to render for %s", outputPath)
	}

	doc := gofpdf.New("L", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)

	// Students are consumed in pairs; a page is added only when a pair
	// remains, so the document never ends with a blank page.
	for i := 0; i < len(students); i += 2 {
		doc.AddPage()
		g.drawPass(doc, students[i], exams, school, true)
		if i+1 < len(students) {
			g.drawPass(doc, students[i+1], exams, school, false)
		}
		g.drawCenterDivider(doc)
	}

	pages := doc.PageCount()
	if err := doc.OutputFileAndClose(outputPath); err != nil {
		return Result{}, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	log.Printf("Generated %s with %d passes (%d pages)", filepath.Base(outputPath), len(students), pages)
	return Result{Pages: pages}, nil
}

// drawPass lays out one student's pass on the left or right half of the
// current page. Blocks 1-4 chain vertically, each returning where the next
// starts; the footer is pinned at a fixed offset from the page bottom.
func (g *Generator) drawPass(doc *gofpdf.Fpdf, student models.Student, exams []models.Exam, school models.School, isLeft bool) {
	var x float64
	if isLeft {
		x = g.cfg.Margin - 10
	} else {
		x = g.cfg.PassWidth + g.cfg.Margin - 10
	}
	passWidth := g.cfg.PassWidth - g.cfg.Margin

	y := g.cfg.Margin - 10
	y = g.drawHeader(doc, school, exams, x, passWidth, y)
	y = g.drawStudentInfo(doc, student, x, passWidth, y+8)
	y = g.drawExamSchedule(doc, exams, x, passWidth, y+8)
	g.drawInstructions(doc, x, passWidth, y+8)
	g.drawFooter(doc, school, x, passWidth)
}

// drawCenterDivider separates the two passes with a thin line at the page's
// horizontal midpoint.
func (g *Generator) drawCenterDivider(doc *gofpdf.Fpdf) {
	setBorderStyle(doc, 0.5)
	doc.Line(g.cfg.PageWidth/2, 0, g.cfg.PageWidth/2, g.cfg.PageHeight)
}

// drawImage places an image if its file exists; a missing or unreadable
// image is logged and leaves blank space, never a failed document. Height 0
// lets the image keep its aspect ratio.
func (g *Generator) drawImage(doc *gofpdf.Fpdf, path string, x, y, w, h float64) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		log.Printf("Image %s not found, skipping", path)
		return
	}
	doc.ImageOptions(path, x, y, w, h, false, gofpdf.ImageOptions{}, 0, "")
	if !doc.Ok() {
		log.Printf("Error drawing image %s: %v", path, doc.Error())
		doc.ClearError()
	}
}

// setBorderStyle applies the shared light-gray stroke used by every border.
func setBorderStyle(doc *gofpdf.Fpdf, width float64) {
	doc.SetDrawColor(220, 220, 220) // DCDCDC
	doc.SetLineWidth(width)
}

// setHeaderFill applies the light-gray background used by table header rows.
func setHeaderFill(doc *gofpdf.Fpdf) {
	doc.SetFillColor(234, 234, 234) // EAEAEA
}

// textRight draws s with its right edge at x, baseline at y.
func textRight(doc *gofpdf.Fpdf, x, y float64, s string) {
	doc.Text(x-doc.GetStringWidth(s), y, s)
}
