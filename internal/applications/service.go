// Package applications handles application submission, the admin review
// listing and the final hiring decision.
package applications

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobboard/internal/types"
)

// EventDecision is the notifier event kind sent when a result is recorded.
const EventDecision = "decision"

// Store is the persistence the application service needs.
type Store interface {
	GetJobBySlug(ctx context.Context, slug string) (*types.Job, error)
	CreateApplication(ctx context.Context, app *types.Application) (*types.Application, error)
	// GetApplication returns nil, nil when the application does not exist.
	GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error)
	ListApplicationsByEmail(ctx context.Context, email string) ([]types.Application, error)
	ListApplications(ctx context.Context, filter types.ApplicationFilter) ([]types.Application, error)
	ListScreeningNotes(ctx context.Context, applicationID uuid.UUID) ([]types.ScreeningNote, error)
	ApplicationOverview(ctx context.Context) ([]types.OverviewEntry, error)
	// UpdateDecision returns nil, nil when the application does not exist.
	UpdateDecision(ctx context.Context, id uuid.UUID, process *types.InterviewProcess, result *types.Result) (*types.Application, error)
}

// Notifier dispatches best-effort events.
type Notifier interface {
	Enqueue(kind string, payload any) bool
}

// Service implements the application operations.
type Service struct {
	store    Store
	notifier Notifier
	loc      *time.Location
	now      func() time.Time
}

// NewService creates a Service. notifier may be nil; loc is used for date filters.
func NewService(store Store, notifier Notifier, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, notifier: notifier, loc: loc, now: time.Now}
}

// Submit records an application from the authenticated applicant.
func (s *Service) Submit(ctx context.Context, caller types.Identity, req *types.SubmitApplicationRequest) (*types.Application, error) {
	req.JobSlug = strings.TrimSpace(req.JobSlug)
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	job, err := s.store.GetJobBySlug(ctx, req.JobSlug)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &types.NotFoundError{Resource: "job", ID: req.JobSlug}
	}
	if !job.AcceptingApplications(s.now()) {
		return nil, &types.ConflictError{Reason: types.ReasonJobClosed, Message: "This job is no longer accepting applications"}
	}

	return s.store.CreateApplication(ctx, &types.Application{
		JobID:         job.ID,
		Email:         strings.ToLower(caller.Email),
		Name:          req.Name,
		Gender:        strings.ToLower(strings.TrimSpace(req.Gender)),
		Mobile:        req.Mobile,
		Country:       req.Country,
		State:         req.State,
		City:          req.City,
		LinkedIn:      req.LinkedIn,
		Portfolio:     req.Portfolio,
		Education:     req.Education,
		WorkedAlready: req.WorkedAlready,
		CompanyName:   req.CompanyName,
		Skills:        req.Skills,
		ResumeURL:     req.ResumeURL,
		ReasonToJoin:  req.ReasonToJoin,
		CameFrom:      req.CameFrom,
		AcceptedTerms: req.AcceptedTerms,
		CurrentStatus: req.CurrentStatus,
	})
}

// Mine returns the caller's applications with score-free notes.
func (s *Service) Mine(ctx context.Context, caller types.Identity) ([]types.MyApplication, error) {
	apps, err := s.store.ListApplicationsByEmail(ctx, caller.Email)
	if err != nil {
		return nil, err
	}

	mine := make([]types.MyApplication, 0, len(apps))
	for _, a := range apps {
		notes, err := s.store.ListScreeningNotes(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		entry := types.MyApplication{
			ID:               a.ID,
			CurrentStatus:    a.CurrentStatus,
			InterviewProcess: a.InterviewProcess,
			Result:           a.Result,
			CreatedAt:        a.CreatedAt,
			Notes:            make([]types.ApplicantNote, 0, len(notes)),
		}
		if a.Job != nil {
			entry.Job = *a.Job
		}
		for _, n := range notes {
			entry.Notes = append(entry.Notes, types.ApplicantNote{
				ID:        n.ID,
				Stage:     n.Stage,
				Verdict:   n.Verdict,
				Notes:     n.Notes,
				CreatedAt: n.CreatedAt,
			})
		}
		mine = append(mine, entry)
	}
	return mine, nil
}

// List returns applications matching the admin filter.
func (s *Service) List(ctx context.Context, filter types.ApplicationFilter) ([]types.Application, error) {
	apps, err := s.store.ListApplications(ctx, filter)
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []types.Application{}
	}
	return apps, nil
}

// Get returns one application.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, &types.NotFoundError{Resource: "application", ID: id.String()}
	}
	return app, nil
}

// Overview counts applications per job.
func (s *Service) Overview(ctx context.Context) ([]types.OverviewEntry, error) {
	return s.store.ApplicationOverview(ctx)
}

// GetDecision returns the decision state of an application.
func (s *Service) GetDecision(ctx context.Context, id uuid.UUID) (*types.Decision, error) {
	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return decisionOf(app), nil
}

// Decide records a decision. Any result other than hold completes the
// interview process. A recorded result is announced to the decision webhook.
func (s *Service) Decide(ctx context.Context, id uuid.UUID, req *types.DecisionRequest) (*types.Decision, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	process := req.InterviewProcess
	if req.Result != nil && *req.Result != types.ResultHold {
		completed := types.ProcessCompleted
		process = &completed
	}

	app, err := s.store.UpdateDecision(ctx, id, process, req.Result)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, &types.NotFoundError{Resource: "application", ID: id.String()}
	}

	if req.Result != nil && s.notifier != nil {
		event := &types.DecisionEvent{
			ApplicationID:    app.ID,
			Result:           app.Result,
			InterviewProcess: app.InterviewProcess,
			At:               s.now().UTC(),
		}
		if !s.notifier.Enqueue(EventDecision, event) {
			log.Printf("[applications] decision event for %s not queued", app.ID)
		}
	}
	return decisionOf(app), nil
}

func decisionOf(app *types.Application) *types.Decision {
	return &types.Decision{
		ApplicationID:    app.ID,
		InterviewProcess: app.InterviewProcess,
		Result:           app.Result,
		TotalScore:       app.TotalScore,
	}
}
