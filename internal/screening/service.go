package screening

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobboard/internal/types"
	"golang.org/x/sync/errgroup"
)

// EventNoteSaved is the notifier event kind sent after every upsert.
const EventNoteSaved = "screening_note"

// Store is the persistence the aggregator needs.
type Store interface {
	// GetApplication returns nil, nil when the application does not exist.
	GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error)
	// SaveScreeningNote inserts or replaces the note for (application, stage)
	// and stores the aggregate progress derives from the application's notes,
	// as one atomic step per application.
	SaveScreeningNote(ctx context.Context, note *types.ScreeningNote, progress types.ScreeningProgressFunc) (*types.SavedScreeningNote, error)
	ListScreeningNotes(ctx context.Context, applicationID uuid.UUID) ([]types.ScreeningNote, error)
}

// Notifier dispatches best-effort events.
type Notifier interface {
	Enqueue(kind string, payload any) bool
}

// Service records screening notes and keeps the application aggregates current.
type Service struct {
	store    Store
	notifier Notifier
	rubric   *Rubric
	now      func() time.Time
}

// NewService creates a Service. notifier may be nil.
func NewService(store Store, notifier Notifier, rubric *Rubric) *Service {
	return &Service{store: store, notifier: notifier, rubric: rubric, now: time.Now}
}

// UpsertResult is the saved note plus the aggregates it produced.
type UpsertResult struct {
	Note             *types.ScreeningNote
	Created          bool
	TotalScore       *int
	InterviewProcess types.InterviewProcess
}

// UpsertNote validates req, writes the note for its stage and recomputes the
// application's total score and interview process.
func (s *Service) UpsertNote(ctx context.Context, applicationID uuid.UUID, evaluator string, req *types.UpsertNoteRequest) (*UpsertResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.store.SaveScreeningNote(ctx, &types.ScreeningNote{
		ApplicationID: applicationID,
		Stage:         req.Stage,
		Verdict:       req.Verdict,
		Score:         req.Score,
		Notes:         req.Notes,
		CreatedBy:     evaluator,
	}, Progress)
	if err != nil {
		return nil, err
	}
	note, total, process := saved.Note, saved.Progress.TotalScore, saved.Progress.InterviewProcess

	s.notify(&types.ScreeningEvent{
		ApplicationID:    applicationID,
		Stage:            note.Stage,
		Verdict:          note.Verdict,
		Score:            note.Score,
		TotalScore:       total,
		InterviewProcess: process,
		At:               s.now().UTC(),
	})

	return &UpsertResult{Note: note, Created: saved.Created, TotalScore: total, InterviewProcess: process}, nil
}

func (s *Service) notify(event *types.ScreeningEvent) {
	if s.notifier == nil {
		return
	}
	if !s.notifier.Enqueue(EventNoteSaved, event) {
		log.Printf("[screening] note event for application %s not queued", event.ApplicationID)
	}
}

// ListNotes returns the notes of an application, newest first.
func (s *Service) ListNotes(ctx context.Context, applicationID uuid.UUID) ([]types.ScreeningNote, error) {
	app, err := s.store.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, &types.NotFoundError{Resource: "application", ID: applicationID.String()}
	}
	return s.store.ListScreeningNotes(ctx, applicationID)
}

// Summary loads the application and its notes concurrently and builds the
// stage/grade summary.
func (s *Service) Summary(ctx context.Context, applicationID uuid.UUID) (*types.ScreeningSummary, error) {
	g, gCtx := errgroup.WithContext(ctx)

	var app *types.Application
	var notes []types.ScreeningNote

	g.Go(func() error {
		a, err := s.store.GetApplication(gCtx, applicationID)
		if err != nil {
			return fmt.Errorf("failed to load application: %w", err)
		}
		app = a
		return nil
	})
	g.Go(func() error {
		n, err := s.store.ListScreeningNotes(gCtx, applicationID)
		if err != nil {
			return fmt.Errorf("failed to load screening notes: %w", err)
		}
		notes = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if app == nil {
		return nil, &types.NotFoundError{Resource: "application", ID: applicationID.String()}
	}
	return Summarize(app, notes), nil
}

// Suggest returns an advisory score for the checked criteria of a stage.
func (s *Service) Suggest(req *types.SuggestScoreRequest) (*types.ScoreSuggestion, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.rubric.Suggest(req.Stage, req.Checked)
}

// Rubric returns the checklist used for suggestions.
func (s *Service) Rubric() *Rubric {
	return s.rubric
}
