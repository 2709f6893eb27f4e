// Package screening records per-stage evaluation notes and derives the
// aggregate score, interview process and grade of an application.
package screening

import (
	"math"

	"github.com/jonathan/jobboard/internal/types"
)

// LatestByStage returns, for each stage, the most recently created note.
func LatestByStage(notes []types.ScreeningNote) map[types.Stage]types.ScreeningNote {
	latest := make(map[types.Stage]types.ScreeningNote, len(types.Stages))
	for _, n := range notes {
		cur, ok := latest[n.Stage]
		if !ok || n.CreatedAt.After(cur.CreatedAt) {
			latest[n.Stage] = n
		}
	}
	return latest
}

// LatestScores returns, for each stage, the score of the most recently
// created note that carries a score. Stages without a scored note are absent.
func LatestScores(notes []types.ScreeningNote) map[types.Stage]int {
	scored := make(map[types.Stage]types.ScreeningNote, len(types.Stages))
	for _, n := range notes {
		if n.Score == nil {
			continue
		}
		cur, ok := scored[n.Stage]
		if !ok || n.CreatedAt.After(cur.CreatedAt) {
			scored[n.Stage] = n
		}
	}
	scores := make(map[types.Stage]int, len(scored))
	for stage, n := range scored {
		scores[stage] = *n.Score
	}
	return scores
}

// TotalScore returns round(sum/5) over the latest per-stage scores, or nil
// unless every stage has a score.
func TotalScore(notes []types.ScreeningNote) *int {
	scores := LatestScores(notes)
	sum := 0
	for _, stage := range types.Stages {
		s, ok := scores[stage]
		if !ok {
			return nil
		}
		sum += s
	}
	total := int(math.Round(float64(sum) / float64(len(types.Stages))))
	return &total
}

// StagesNoted counts the stages that have at least one note, scored or not.
func StagesNoted(notes []types.ScreeningNote) int {
	latest := LatestByStage(notes)
	n := 0
	for _, stage := range types.Stages {
		if _, ok := latest[stage]; ok {
			n++
		}
	}
	return n
}

// DeriveInterviewProcess maps a noted-stage count to an interview process.
func DeriveInterviewProcess(stagesNoted int) types.InterviewProcess {
	switch {
	case stagesNoted >= len(types.Stages):
		return types.ProcessCompleted
	case stagesNoted > 0:
		return types.ProcessInProgress
	default:
		return types.ProcessStarted
	}
}

// Progress derives the stored aggregate of an application from its notes.
func Progress(notes []types.ScreeningNote) (types.ScreeningProgress, error) {
	return types.ScreeningProgress{
		TotalScore:       TotalScore(notes),
		InterviewProcess: DeriveInterviewProcess(StagesNoted(notes)),
	}, nil
}

// OverallScore is the rounded mean of every recorded score, not gated on
// completeness. It returns 0 when nothing is scored.
func OverallScore(notes []types.ScreeningNote) int {
	sum, count := 0, 0
	for _, n := range notes {
		if n.Score == nil {
			continue
		}
		sum += *n.Score
		count++
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}

// Grade bands
var gradeBands = []struct {
	min            int
	grade          string
	recommendation string
}{
	{90, "A+", "Immediate interview"},
	{80, "A", "Priority interview"},
	{70, "B+", "Standard interview"},
	{60, "B", "Backup candidate"},
}

// Grade maps an overall score to a display grade and recommendation.
func Grade(score int) (grade, recommendation string) {
	for _, b := range gradeBands {
		if score >= b.min {
			return b.grade, b.recommendation
		}
	}
	return "C", "Reject"
}

// Summarize builds the read-only summary for an application and its notes.
func Summarize(app *types.Application, notes []types.ScreeningNote) *types.ScreeningSummary {
	latest := LatestByStage(notes)
	scores := LatestScores(notes)

	stages := make([]types.StageScore, 0, len(types.Stages))
	for _, stage := range types.Stages {
		entry := types.StageScore{Stage: stage}
		if n, ok := latest[stage]; ok {
			entry.Noted = true
			entry.Verdict = n.Verdict
		}
		if s, ok := scores[stage]; ok {
			entry.Score = &s
		}
		stages = append(stages, entry)
	}

	overall := OverallScore(notes)
	grade, rec := Grade(overall)
	return &types.ScreeningSummary{
		ApplicationID:    app.ID,
		Stages:           stages,
		StagesNoted:      StagesNoted(notes),
		TotalScore:       app.TotalScore,
		OverallScore:     overall,
		Grade:            grade,
		Recommendation:   rec,
		InterviewProcess: app.InterviewProcess,
		Result:           app.Result,
	}
}
