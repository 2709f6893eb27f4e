package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Stage is one named step of the screening pipeline.
type Stage string

// Screening stages
const (
	StageHR        Stage = "hr"
	StageTechnical Stage = "technical"
	StageManager   Stage = "manager"
	StageTeam      Stage = "team"
	StageReference Stage = "reference"
)

// Stages is the ordered list of screening stages. Every stage-aware
// component iterates this list.
var Stages = []Stage{StageHR, StageTechnical, StageManager, StageTeam, StageReference}

// IsValid reports whether s is one of Stages.
func (s Stage) IsValid() bool {
	for _, st := range Stages {
		if s == st {
			return true
		}
	}
	return false
}

// Verdict is an evaluator's per-stage outcome.
type Verdict string

// Verdicts
const (
	VerdictShortlist Verdict = "shortlist"
	VerdictHold      Verdict = "hold"
	VerdictReject    Verdict = "reject"
)

// IsValid reports whether v is a known verdict.
func (v Verdict) IsValid() bool {
	return v == VerdictShortlist || v == VerdictHold || v == VerdictReject
}

// ScreeningNote is the current evaluation for one (application, stage).
type ScreeningNote struct {
	ID            uuid.UUID `json:"id"`
	ApplicationID uuid.UUID `json:"application_id"`
	Stage         Stage     `json:"stage"`
	Verdict       *Verdict  `json:"verdict"`
	Score         *int      `json:"score"`
	Notes         string    `json:"notes"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ScreeningProgress is the application aggregate derived from its notes.
type ScreeningProgress struct {
	TotalScore       *int
	InterviewProcess InterviewProcess
}

// ScreeningProgressFunc derives the aggregate from every note of an
// application, the one being saved included. Stores call it while the
// application is locked, so it must not call back into the store.
type ScreeningProgressFunc func(notes []ScreeningNote) (ScreeningProgress, error)

// SavedScreeningNote is the result of an atomic note save. Progress holds the
// stored aggregate, so a nil derived total reports the previous total.
type SavedScreeningNote struct {
	Note     *ScreeningNote
	Created  bool
	Progress ScreeningProgress
}

// UpsertNoteRequest records or replaces the note for a stage.
type UpsertNoteRequest struct {
	Stage   Stage    `json:"stage" validate:"required,stage"`
	Verdict *Verdict `json:"verdict,omitempty" validate:"omitempty,verdict"`
	Score   *int     `json:"score,omitempty" validate:"omitempty,min=0,max=100"`
	Notes   string   `json:"notes" validate:"required,max=3000"`
}

// Normalize trims notes and applies the default stage.
func (r *UpsertNoteRequest) Normalize() {
	r.Notes = strings.TrimSpace(r.Notes)
	if r.Stage == "" {
		r.Stage = StageHR
	}
}

// Validate validates the UpsertNoteRequest.
func (r *UpsertNoteRequest) Validate() error {
	return ValidateStruct(r)
}

// StageScore is the latest score recorded for a stage, if any.
type StageScore struct {
	Stage   Stage    `json:"stage"`
	Noted   bool     `json:"noted"`
	Score   *int     `json:"score"`
	Verdict *Verdict `json:"verdict"`
}

// ScreeningSummary shows the persisted gated total next to the display mean.
type ScreeningSummary struct {
	ApplicationID    uuid.UUID        `json:"application_id"`
	Stages           []StageScore     `json:"stages"`
	StagesNoted      int              `json:"stages_noted"`
	TotalScore       *int             `json:"total_score"`
	OverallScore     int              `json:"overall_score"`
	Grade            string           `json:"grade"`
	Recommendation   string           `json:"recommendation"`
	InterviewProcess InterviewProcess `json:"interview_process"`
	Result           Result           `json:"result"`
}

// SuggestScoreRequest asks for an advisory score for a stage checklist.
type SuggestScoreRequest struct {
	Stage   Stage    `json:"stage" validate:"required,stage"`
	Checked []string `json:"checked"`
}

// Validate validates the SuggestScoreRequest.
func (r *SuggestScoreRequest) Validate() error {
	return ValidateStruct(r)
}

// ScoreSuggestion is an advisory score; it is never persisted.
type ScoreSuggestion struct {
	Stage     Stage    `json:"stage"`
	Points    int      `json:"points"`
	MaxPoints int      `json:"max_points"`
	Score     int      `json:"score"`
	Checked   []string `json:"checked"`
	Breakdown []string `json:"breakdown"`
}

// ScreeningEvent is the webhook payload sent after a note is saved.
type ScreeningEvent struct {
	ApplicationID    uuid.UUID        `json:"application_id"`
	Stage            Stage            `json:"stage"`
	Verdict          *Verdict         `json:"verdict"`
	Score            *int             `json:"score"`
	TotalScore       *int             `json:"total_score"`
	InterviewProcess InterviewProcess `json:"interview_process"`
	At               time.Time        `json:"at"`
}
