package main

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exampass-server-go/config"
	"exampass-server-go/passgen"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()
	require.NoError(t, w.Close())
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestPrintSummary(t *testing.T) {
	cfg := config.Default(t.TempDir())
	require.NoError(t, os.MkdirAll(cfg.InputDir, 0o755))
	require.NoError(t, os.WriteFile(cfg.StudentListFile, []byte(
		"Display Name,School,Grade,Section,CF.Enrollment Code\n"+
			"Anu,Excel Central School,Grade 09,A,EN001\n"+
			"Banu,Excel Central School,Grade 09,B,EN002\n"), 0o644))
	require.NoError(t, os.WriteFile(cfg.ExamListFile, []byte(
		"Grade,Subject,Exam Date,Day,Timing,School,Exam Name,Academic Year\n"+
			"Grade 09,Mathematics,6/8/25,Wednesday,morning,Excel Central School,Term I,2025-26\n"), 0o644))
	require.NoError(t, os.WriteFile(cfg.SchoolListFile, []byte(
		"School,Address Line 1,Address Line 2,Email Address\n"+
			"Excel Central School,12 Hill Road,Nagercoil 629001,info@excelcentral.example\n"), 0o644))

	g := passgen.New(cfg)
	summary, err := g.GenerateAll()
	require.NoError(t, err)

	out := captureStdout(t, func() { printSummary(g, summary) })

	assert.Contains(t, out, "Excel Central School:")
	assert.Contains(t, out, "ECS_Grade_09_Passes_Term_I.pdf")
	assert.Contains(t, out, "Total students in school: 2")
	assert.Contains(t, out, "Students with passes: 2")
	assert.Contains(t, out, "Grades with exams: 1")
	assert.Contains(t, out, "Average students per grade: 2")
	assert.Contains(t, out, "Grade 09: 2/2 passes")
	assert.Contains(t, out, "Section A: 1/1 passes")
	assert.Contains(t, out, "Total PDF files generated: 1")
}
