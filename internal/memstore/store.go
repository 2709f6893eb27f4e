// Package memstore is an in-memory implementation of the job board storage
// interfaces. It enforces the same uniqueness and conditional-write rules as
// the PostgreSQL store and is used by tests and the serve --in-memory mode.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobboard/internal/types"
)

// Store holds every table in maps guarded by one mutex.
type Store struct {
	mu   sync.Mutex
	last time.Time

	jobs    map[uuid.UUID]*types.Job
	apps    map[uuid.UUID]*types.Application
	notes   map[uuid.UUID]*types.ScreeningNote
	admins  map[string]*types.AdminAccount
	windows map[uuid.UUID]*types.Availability
	slots   map[uuid.UUID]*types.Slot
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		jobs:    make(map[uuid.UUID]*types.Job),
		apps:    make(map[uuid.UUID]*types.Application),
		notes:   make(map[uuid.UUID]*types.ScreeningNote),
		admins:  make(map[string]*types.AdminAccount),
		windows: make(map[uuid.UUID]*types.Availability),
		slots:   make(map[uuid.UUID]*types.Slot),
	}
}

// tick returns a strictly increasing timestamp so "latest" ordering is stable.
// Caller must hold mu.
func (s *Store) tick() time.Time {
	now := time.Now().UTC()
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	return now
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// ---------------------------------------------------------------------------
// Jobs
// ---------------------------------------------------------------------------

// UpsertJob inserts a job or replaces the one with the same slug.
func (s *Store) UpsertJob(_ context.Context, job *types.Job) (*types.Job, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick()
	for _, existing := range s.jobs {
		if existing.Slug == job.Slug {
			updated := *job
			updated.ID = existing.ID
			updated.CreatedAt = existing.CreatedAt
			updated.UpdatedAt = now
			s.jobs[existing.ID] = &updated
			out := updated
			return &out, false, nil
		}
	}
	created := *job
	created.ID = uuid.New()
	created.CreatedAt = now
	created.UpdatedAt = now
	s.jobs[created.ID] = &created
	out := created
	return &out, true, nil
}

// ListJobs returns jobs newest first.
func (s *Store) ListJobs(_ context.Context) ([]types.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]types.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, *j)
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].CreatedAt.After(jobs[k].CreatedAt) })
	return jobs, nil
}

// GetJobBySlug returns nil, nil when no job has the slug.
func (s *Store) GetJobBySlug(_ context.Context, slug string) (*types.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		if j.Slug == slug {
			out := *j
			return &out, nil
		}
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// Admins
// ---------------------------------------------------------------------------

// UpsertAdmin creates or updates an admin keyed by lowercase email and marks it active.
func (s *Store) UpsertAdmin(_ context.Context, email, name, passwordHash string) (*types.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(email)
	now := s.tick()
	acct, ok := s.admins[email]
	if !ok {
		acct = &types.AdminAccount{Admin: types.Admin{ID: uuid.New(), Email: email, CreatedAt: now}}
		s.admins[email] = acct
	}
	acct.Name = name
	acct.PasswordHash = passwordHash
	acct.IsActive = true
	acct.UpdatedAt = now
	out := acct.Admin
	return &out, nil
}

// GetAdminByEmail returns nil, nil when the admin does not exist.
func (s *Store) GetAdminByEmail(_ context.Context, email string) (*types.AdminAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.admins[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	out := *acct
	return &out, nil
}

// ---------------------------------------------------------------------------
// Applications
// ---------------------------------------------------------------------------

// CreateApplication stores a new application with pending defaults.
func (s *Store) CreateApplication(_ context.Context, app *types.Application) (*types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[app.JobID]
	if !ok {
		return nil, &types.NotFoundError{Resource: "job", ID: app.JobID.String()}
	}
	now := s.tick()
	created := *app
	created.ID = uuid.New()
	created.Email = strings.ToLower(app.Email)
	created.InterviewProcess = types.ProcessStarted
	created.Result = types.ResultPending
	created.TotalScore = nil
	created.CreatedAt = now
	created.UpdatedAt = now
	s.apps[created.ID] = &created

	out := created
	summary := job.Summary()
	out.Job = &summary
	return &out, nil
}

// withJob copies an application and attaches its job summary. Caller must hold mu.
func (s *Store) withJob(a *types.Application) types.Application {
	out := *a
	if j, ok := s.jobs[a.JobID]; ok {
		summary := j.Summary()
		out.Job = &summary
	}
	if a.TotalScore != nil {
		score := *a.TotalScore
		out.TotalScore = &score
	}
	return out
}

// GetApplication returns nil, nil when the application does not exist.
func (s *Store) GetApplication(_ context.Context, id uuid.UUID) (*types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.apps[id]
	if !ok {
		return nil, nil
	}
	out := s.withJob(a)
	return &out, nil
}

// ListApplicationsByEmail returns an applicant's applications, newest first.
func (s *Store) ListApplicationsByEmail(_ context.Context, email string) ([]types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var apps []types.Application
	for _, a := range s.apps {
		if strings.EqualFold(a.Email, email) {
			apps = append(apps, s.withJob(a))
		}
	}
	sort.Slice(apps, func(i, k int) bool { return apps[i].CreatedAt.After(apps[k].CreatedAt) })
	return apps, nil
}

// ListApplications applies the admin filter and sort.
func (s *Store) ListApplications(_ context.Context, f types.ApplicationFilter) ([]types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(f.Query))
	var apps []types.Application
	for _, a := range s.apps {
		app := s.withJob(a)
		if !matchesFilter(&app, f, q) {
			continue
		}
		apps = append(apps, app)
	}
	sortApplications(apps, f.Sort)
	return apps, nil
}

func matchesFilter(a *types.Application, f types.ApplicationFilter, q string) bool {
	if f.JobType != "" && (a.Job == nil || a.Job.Type != f.JobType) {
		return false
	}
	if f.JobID != nil && a.JobID != *f.JobID {
		return false
	}
	if f.From != nil && a.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && a.CreatedAt.After(*f.To) {
		return false
	}
	if f.Evaluated != nil && (a.TotalScore != nil) != *f.Evaluated {
		return false
	}
	if f.Gender != "" && !strings.EqualFold(a.Gender, f.Gender) {
		return false
	}
	if f.InterviewProcess != "" && a.InterviewProcess != f.InterviewProcess {
		return false
	}
	if f.Result != "" && a.Result != f.Result {
		return false
	}
	if q != "" {
		title := ""
		if a.Job != nil {
			title = a.Job.Title
		}
		hay := strings.ToLower(strings.Join([]string{a.Email, a.Name, title, a.CurrentStatus, a.Country}, " "))
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}

// sortApplications mirrors the SQL ordering; null scores sort last.
func sortApplications(apps []types.Application, order string) {
	newestFirst := func(i, k int) bool { return apps[i].CreatedAt.After(apps[k].CreatedAt) }
	byScore := func(desc bool) func(i, k int) bool {
		return func(i, k int) bool {
			a, b := apps[i].TotalScore, apps[k].TotalScore
			switch {
			case a == nil && b == nil:
				return newestFirst(i, k)
			case a == nil:
				return false
			case b == nil:
				return true
			case *a == *b:
				return newestFirst(i, k)
			case desc:
				return *a > *b
			default:
				return *a < *b
			}
		}
	}

	var less func(i, k int) bool
	switch order {
	case types.SortCreatedAsc:
		less = func(i, k int) bool { return apps[i].CreatedAt.Before(apps[k].CreatedAt) }
	case types.SortScoreDesc:
		less = byScore(true)
	case types.SortScoreAsc:
		less = byScore(false)
	case types.SortProcess:
		less = func(i, k int) bool {
			if apps[i].InterviewProcess != apps[k].InterviewProcess {
				return apps[i].InterviewProcess < apps[k].InterviewProcess
			}
			return newestFirst(i, k)
		}
	case types.SortResult:
		less = func(i, k int) bool {
			if apps[i].Result != apps[k].Result {
				return apps[i].Result < apps[k].Result
			}
			return newestFirst(i, k)
		}
	default:
		less = newestFirst
	}
	sort.SliceStable(apps, less)
}

// ApplicationOverview counts applications per job, ordered by job title.
func (s *Store) ApplicationOverview(_ context.Context) ([]types.OverviewEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[uuid.UUID]int)
	for _, a := range s.apps {
		counts[a.JobID]++
	}
	entries := make([]types.OverviewEntry, 0, len(counts))
	for jobID, n := range counts {
		j, ok := s.jobs[jobID]
		if !ok {
			continue
		}
		entries = append(entries, types.OverviewEntry{Job: j.Summary(), Count: n})
	}
	sort.Slice(entries, func(i, k int) bool { return entries[i].Job.Title < entries[k].Job.Title })
	return entries, nil
}

// UpdateDecision sets the provided decision fields. It returns nil, nil when
// the application does not exist.
func (s *Store) UpdateDecision(_ context.Context, id uuid.UUID, process *types.InterviewProcess, result *types.Result) (*types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.apps[id]
	if !ok {
		return nil, nil
	}
	if process != nil {
		a.InterviewProcess = *process
	}
	if result != nil {
		a.Result = *result
	}
	a.UpdatedAt = s.tick()
	out := s.withJob(a)
	return &out, nil
}

// ---------------------------------------------------------------------------
// Screening notes
// ---------------------------------------------------------------------------

// SaveScreeningNote replaces the note for (application, stage) or inserts
// one, then stores the aggregate progress derives from the resulting notes.
// s.mu is held throughout; nothing is written when progress fails.
func (s *Store) SaveScreeningNote(_ context.Context, note *types.ScreeningNote, progress types.ScreeningProgressFunc) (*types.SavedScreeningNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.apps[note.ApplicationID]
	if !ok {
		return nil, &types.NotFoundError{Resource: "application", ID: note.ApplicationID.String()}
	}

	now := s.tick()
	pending := *note
	pending.UpdatedAt = now
	existing := s.noteFor(note.ApplicationID, note.Stage)
	if existing != nil {
		pending.ID = existing.ID
		pending.CreatedAt = existing.CreatedAt
	} else {
		pending.ID = uuid.New()
		pending.CreatedAt = now
	}

	p, err := progress(s.notesFor(note.ApplicationID, &pending))
	if err != nil {
		return nil, err
	}

	stored := pending
	s.notes[stored.ID] = &stored
	if p.TotalScore != nil {
		score := *p.TotalScore
		a.TotalScore = &score
	}
	a.InterviewProcess = p.InterviewProcess
	a.UpdatedAt = now

	var total *int
	if a.TotalScore != nil {
		score := *a.TotalScore
		total = &score
	}
	out := pending
	return &types.SavedScreeningNote{
		Note:     &out,
		Created:  existing == nil,
		Progress: types.ScreeningProgress{TotalScore: total, InterviewProcess: a.InterviewProcess},
	}, nil
}

func (s *Store) noteFor(applicationID uuid.UUID, stage types.Stage) *types.ScreeningNote {
	for _, n := range s.notes {
		if n.ApplicationID == applicationID && n.Stage == stage {
			return n
		}
	}
	return nil
}

// notesFor returns the notes of an application newest first, with pending
// standing in for the stored note of its stage. Callers hold s.mu.
func (s *Store) notesFor(applicationID uuid.UUID, pending *types.ScreeningNote) []types.ScreeningNote {
	notes := []types.ScreeningNote{}
	for _, n := range s.notes {
		if n.ApplicationID != applicationID {
			continue
		}
		if pending != nil && n.ID == pending.ID {
			continue
		}
		notes = append(notes, *n)
	}
	if pending != nil {
		notes = append(notes, *pending)
	}
	sort.Slice(notes, func(i, k int) bool { return notes[i].CreatedAt.After(notes[k].CreatedAt) })
	return notes
}

// ListScreeningNotes returns the notes of an application, newest first.
func (s *Store) ListScreeningNotes(_ context.Context, applicationID uuid.UUID) ([]types.ScreeningNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notesFor(applicationID, nil), nil
}
