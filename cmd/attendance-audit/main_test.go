package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebd-admin/ebd-api/internal/dto"
)

func TestWriteReports(t *testing.T) {
	var buf bytes.Buffer
	rows := []dto.ClassAttendanceReport{
		{TurmaNome: "Adultos", Matriculados: 10, Presentes: 4, PosChamada: 3, Visitantes: 2, Ausentes: 6, TotalOfertas: 17, PercentualPresenca: 40},
		{TurmaNome: "Jovens", Matriculados: 6, Presentes: 3, PosChamada: 2, Visitantes: 1, Ausentes: 3, PercentualPresenca: 50},
	}

	require.NoError(t, writeReports(&buf, "2024-03-03", rows))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Presença em 2024-03-03"))
	assert.Contains(t, out, "Adultos")
	assert.Contains(t, out, "40.00")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	total := lines[len(lines)-1]
	assert.Contains(t, total, "Total")
	assert.Contains(t, total, "43.75")
	assert.Contains(t, total, "17.00")
}
