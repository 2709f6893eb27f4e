package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/jobboard/internal/scheduling"
	"github.com/jonathan/jobboard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintSlotPlan(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	minutes := 60
	window, slots, err := scheduling.GenerateSlots("2030-03-04", "11:00", "16:00", &minutes, time.UTC)
	require.NoError(t, err)

	p.PrintSlotPlan(window, slots)
	output := buf.String()

	assert.Contains(t, output, "SLOT PLAN")
	assert.Contains(t, output, "2030-03-04")
	assert.Contains(t, output, "Slots:    4")
	assert.Contains(t, output, "11:00-12:00")
	assert.Contains(t, output, "lunch 13:00-14:00")
	assert.Less(t, strings.Index(output, "12:00-13:00"), strings.Index(output, "lunch"))
	assert.Less(t, strings.Index(output, "lunch"), strings.Index(output, "14:00-15:00"))
}

func TestPrintSlotPlan_NoLunchInWindow(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	window, slots, err := scheduling.GenerateSlots("2030-03-04", "09:00", "10:00", nil, time.UTC)
	require.NoError(t, err)

	p.PrintSlotPlan(window, slots)

	assert.Contains(t, buf.String(), "Slots:    3")
	assert.NotContains(t, buf.String(), "lunch")
}

func TestPrintSlotPlan_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSlotPlan(nil, nil)

	assert.Empty(t, buf.String())
}

func TestPrintImportSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintImportSummary([]string{"a", "b", "c", "d", "e", "f", "g"}, []string{"backend-engineer"})
	output := buf.String()

	assert.Contains(t, output, "JOB IMPORT")
	assert.Contains(t, output, "Created:  7")
	assert.Contains(t, output, "... and 2 more")
	assert.Contains(t, output, "Updated:  1")
	assert.Contains(t, output, "backend-engineer")
}

func TestPrintScreeningSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	score := 80
	p.PrintScreeningSummary(&types.ScreeningSummary{
		Stages: []types.StageScore{
			{Stage: types.StageHR, Noted: true, Score: &score},
			{Stage: types.StageTechnical},
		},
		OverallScore:     80,
		Grade:            "B",
		InterviewProcess: "hr",
	})
	output := buf.String()

	assert.Contains(t, output, "SCREENING SUMMARY")
	assert.Contains(t, output, "✓ hr")
	assert.Contains(t, output, "Total:    pending")
	assert.Contains(t, output, "Overall:  80 (B)")
}

func TestPrintScreeningSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintScreeningSummary(nil)
	assert.Empty(t, buf.String())
}
