package pdf

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"

	"exampass-server-go/models"
)

const (
	mmToPt = 72.0 / 25.4

	tableLineHt = 10
	cellPadX    = 6
	cellPadY    = 3
)

// Exam schedule column widths as fractions of the table width.
var scheduleColFracs = [5]float64{0.32, 0.19, 0.15, 0.13, 0.21}

var scheduleHeaders = [5]string{"Subject", "Exam Date", "Day", "Timing", "Invigilator's Sign"}

// The fixed instruction text. <b> spans render bold; each entry is one
// numbered line that wraps to the pass width.
var instructionLines = []string{
	"1. Bring this Entry Pass. <b>Read questions and instructions carefully.</b>",
	"2. <b>No Mobile Phones, Digital Watches or Electronic Devices.</b> Arrive 15 minutes early.",
	"3. <b>No entry 15 minutes after exam starts.</b> Complete on time.",
	"4. Use the washroom before arriving. No leaving during the first hour.",
	"5. Use blue or black ink only. <b>Write legibly.</b> Bring pencils, erasers, etc.",
	"6. Keep your eyes on your own paper. <b>COPYING IS CHEATING!</b>",
	"7. <b>Review your answers thoroughly.</b> Remain silent until you exit.",
}

const instructionsTitle = "General Examination Instructions for Students"

// drawHeader draws the school crest, the right-aligned school details, and
// the pass title. The title names the exam series taken from the first exam;
// "Term I" stands in if the list is unexpectedly empty. Returns the Y where
// the next block starts.
func (g *Generator) drawHeader(doc *gofpdf.Fpdf, school models.School, exams []models.Exam, x, w, y float64) float64 {
	var logo string
	if name, ok := g.cfg.SchoolLogos[school.Name]; ok && name != "" {
		logo = filepath.Join(g.cfg.LogosDir, name)
	}
	g.drawImage(doc, logo, x+10, y+10, 30*mmToPt, 0)

	textX := x + w - 10
	textY := y + 15

	doc.SetTextColor(0, 0, 0)
	doc.SetFont(g.cfg.FontFamily, "B", 12)
	textRight(doc, textX, textY, school.Name)

	doc.SetFont(g.cfg.FontFamily, "", 8)
	textRight(doc, textX, textY+14, school.AddressLine1)
	textRight(doc, textX, textY+26, school.AddressLine2)
	textRight(doc, textX, textY+38, school.Email)

	series := "Term I"
	if len(exams) > 0 {
		series = exams[0].ExamName
	}
	titleY := textY + 58
	doc.SetFont(g.cfg.FontFamily, "B", 12)
	textRight(doc, textX, titleY, "Examination Entry Pass - "+series)
	doc.SetFont(g.cfg.FontFamily, "B", 9)
	textRight(doc, textX, titleY+15, "Academic Year "+g.cfg.AcademicYear)

	return titleY + 20
}

// drawStudentInfo draws the fixed-height identity strip: three bordered
// cells holding name, grade & section, and enrollment code (blank when
// absent). Returns the Y where the next block starts.
func (g *Generator) drawStudentInfo(doc *gofpdf.Fpdf, student models.Student, x, w, y float64) float64 {
	tableX := x + 10
	tableW := w - 20
	cellW := tableW / 3
	cellH := 45.0

	setBorderStyle(doc, 0.5)
	doc.Rect(tableX, y, tableW, cellH, "D")
	doc.Line(tableX+cellW, y, tableX+cellW, y+cellH)
	doc.Line(tableX+cellW*2, y, tableX+cellW*2, y+cellH)

	cells := []struct{ label, value string }{
		{"Student Name", student.Name},
		{"Grade & Section", student.GradeSection()},
		{"Enrollment Code", student.EnrollmentCode},
	}
	doc.SetTextColor(0, 0, 0)
	for i, cell := range cells {
		cellX := tableX + cellW*float64(i) + 10
		doc.SetFont(g.cfg.FontFamily, "B", 8)
		doc.Text(cellX, y+15, cell.label)
		doc.SetFont(g.cfg.FontFamily, "", 11)
		doc.Text(cellX, y+32, cell.value)
	}

	return y + cellH
}

// drawExamSchedule draws the bordered schedule table: one header row plus a
// row per exam. Row heights come from the tallest wrapped cell, so the
// block's occupied height is measured rather than assumed. Returns the Y
// where the next block starts.
func (g *Generator) drawExamSchedule(doc *gofpdf.Fpdf, exams []models.Exam, x, w, y float64) float64 {
	tableX := x + 10
	tableW := w - 20
	top := y + 10

	var colW [5]float64
	for i, frac := range scheduleColFracs {
		colW[i] = tableW * frac
	}

	type tableRow struct {
		cells  [5]string
		aligns [5]string
		bold   bool
	}
	rows := []tableRow{{
		cells:  scheduleHeaders,
		aligns: [5]string{"C", "C", "C", "C", "C"},
		bold:   true,
	}}
	for _, exam := range exams {
		rows = append(rows, tableRow{
			// Subject stays left-aligned and may wrap; the last cell is
			// left empty for the invigilator's signature.
			cells:  [5]string{exam.Subject, exam.FormattedDate(), exam.Day, capitalize(exam.Timing), ""},
			aligns: [5]string{"L", "C", "C", "C", "C"},
		})
	}

	doc.SetTextColor(0, 0, 0)
	rowY := top
	for _, row := range rows {
		style := ""
		if row.bold {
			style = "B"
		}
		doc.SetFont(g.cfg.FontFamily, style, 8)

		// Measure: the row is as tall as its most-wrapped cell.
		var lines [5]int
		maxLines := 1
		for i, text := range row.cells {
			lines[i] = 1
			if text != "" {
				n := len(doc.SplitText(text, colW[i]-2*cellPadX))
				if n > 0 {
					lines[i] = n
				}
			}
			if lines[i] > maxLines {
				maxLines = lines[i]
			}
		}
		rowH := float64(maxLines)*tableLineHt + 2*cellPadY

		setBorderStyle(doc, 0.5)
		setHeaderFill(doc)
		cellX := tableX
		for i, text := range row.cells {
			if row.bold {
				doc.Rect(cellX, rowY, colW[i], rowH, "FD")
			} else {
				doc.Rect(cellX, rowY, colW[i], rowH, "D")
			}
			if text != "" {
				textY := rowY + (rowH-float64(lines[i])*tableLineHt)/2
				doc.SetXY(cellX+cellPadX, textY)
				doc.MultiCell(colW[i]-2*cellPadX, tableLineHt, text, "", row.aligns[i], false)
			}
			cellX += colW[i]
		}
		rowY += rowH
	}

	return rowY
}

// drawInstructions draws the two-row instructions table: a filled header
// label, then the fixed instruction text wrapped to the pass width with bold
// emphasis. The content height is measured from the rendered text. Returns
// the Y where the next block starts.
func (g *Generator) drawInstructions(doc *gofpdf.Fpdf, x, w, y float64) float64 {
	tableX := x + 10
	tableW := w - 20
	top := y + 10
	headerH := float64(tableLineHt + 2*cellPadY)

	setBorderStyle(doc, 0.5)
	setHeaderFill(doc)
	doc.SetTextColor(0, 0, 0)
	doc.Rect(tableX, top, tableW, headerH, "FD")
	doc.SetFont(g.cfg.FontFamily, "B", 8)
	doc.SetXY(tableX, top+cellPadY)
	doc.MultiCell(tableW, tableLineHt, instructionsTitle, "", "C", false)

	// Flow the instruction text inside the content cell by narrowing the
	// page margins to the cell bounds, then measure where it ended.
	contentTop := top + headerH
	leftMargin, _, rightMargin, _ := doc.GetMargins()
	doc.SetLeftMargin(tableX + 5)
	doc.SetRightMargin(g.cfg.PageWidth - (tableX + tableW - 5))

	html := doc.HTMLBasicNew()
	doc.SetFont(g.cfg.FontFamily, "", 7)
	doc.SetXY(tableX+5, contentTop+8)
	for _, line := range instructionLines {
		doc.SetX(tableX + 5)
		html.Write(tableLineHt, line)
		doc.Ln(tableLineHt)
	}
	contentBottom := doc.GetY() + 8

	doc.SetLeftMargin(leftMargin)
	doc.SetRightMargin(rightMargin)

	setBorderStyle(doc, 0.5)
	doc.Rect(tableX, contentTop, tableW, contentBottom-contentTop, "D")

	return contentBottom
}

// drawFooter draws the signature strip pinned at a constant offset from the
// page bottom, independent of how much the blocks above consumed. The
// principal's signature image is composited into the last cell beneath the
// label when the file exists.
func (g *Generator) drawFooter(doc *gofpdf.Fpdf, school models.School, x, w float64) {
	top := g.cfg.PageHeight - g.cfg.Margin - 50
	tableX := x + 10
	tableW := w - 20
	cellW := tableW / 4
	cellH := 45.0

	setBorderStyle(doc, 0.5)
	doc.Rect(tableX, top, tableW, cellH, "D")
	for i := 1; i < 4; i++ {
		doc.Line(tableX+cellW*float64(i), top, tableX+cellW*float64(i), top+cellH)
	}

	// Image first so the label text lands on top of it.
	var sig string
	if name, ok := g.cfg.SchoolSignatures[school.Name]; ok && name != "" {
		sig = filepath.Join(g.cfg.SignaturesDir, name)
	}
	g.drawImage(doc, sig, tableX+cellW*3+(cellW-60)/2, top+12, 60, 30)

	cells := []struct{ label, value string }{
		{"Date of Issue", g.cfg.DateOfIssue},
		{"Parent's Sign", ""},
		{"Class Teacher's Sign", ""},
		{"Principal's Sign", ""},
	}
	doc.SetTextColor(0, 0, 0)
	for i, cell := range cells {
		cellX := tableX + cellW*float64(i) + 10
		doc.SetFont(g.cfg.FontFamily, "B", 8)
		doc.Text(cellX, top+15, cell.label)
		if cell.value != "" {
			doc.SetFont(g.cfg.FontFamily, "", 8)
			doc.Text(cellX, top+32, cell.value)
		}
	}
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
