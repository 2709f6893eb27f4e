package types

import (
	"time"

	"github.com/google/uuid"
)

// InterviewProcess summarizes how far an application has moved through the stages.
type InterviewProcess string

// Interview process values
const (
	ProcessStarted    InterviewProcess = "started"
	ProcessInProgress InterviewProcess = "in_progress"
	ProcessCompleted  InterviewProcess = "completed"
)

// IsValid reports whether p is a known interview process value.
func (p InterviewProcess) IsValid() bool {
	switch p {
	case ProcessStarted, ProcessInProgress, ProcessCompleted:
		return true
	}
	return false
}

// Result is the final hiring decision, distinct from per-stage verdicts.
type Result string

// Result values
const (
	ResultPending Result = "pending"
	ResultHired   Result = "hired"
	ResultHold    Result = "hold"
	ResultReject  Result = "reject"
)

// IsValid reports whether r is a known result.
func (r Result) IsValid() bool {
	switch r {
	case ResultPending, ResultHired, ResultHold, ResultReject:
		return true
	}
	return false
}

// Application is one applicant's submission to one job.
type Application struct {
	ID               uuid.UUID        `json:"id"`
	JobID            uuid.UUID        `json:"job_id"`
	Job              *JobSummary      `json:"job,omitempty"`
	Email            string           `json:"email"`
	Name             string           `json:"name"`
	Gender           string           `json:"gender,omitempty"`
	Mobile           string           `json:"mobile,omitempty"`
	Country          string           `json:"country,omitempty"`
	State            string           `json:"state,omitempty"`
	City             string           `json:"city,omitempty"`
	LinkedIn         string           `json:"linkedin,omitempty"`
	Portfolio        string           `json:"portfolio,omitempty"`
	Education        string           `json:"education,omitempty"`
	WorkedAlready    bool             `json:"worked_already"`
	CompanyName      string           `json:"company_name,omitempty"`
	Skills           []string         `json:"skills"`
	ResumeURL        string           `json:"resume_url,omitempty"`
	ReasonToJoin     string           `json:"reason_to_join,omitempty"`
	CameFrom         string           `json:"came_from,omitempty"`
	AcceptedTerms    bool             `json:"accepted_terms"`
	CurrentStatus    string           `json:"current_status,omitempty"`
	InterviewProcess InterviewProcess `json:"interview_process"`
	Result           Result           `json:"result"`
	TotalScore       *int             `json:"total_score"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// SubmitApplicationRequest is the applicant-facing submission payload.
// The applicant email always comes from the authenticated identity.
type SubmitApplicationRequest struct {
	JobSlug       string   `json:"job_slug" validate:"required"`
	Name          string   `json:"name" validate:"required,max=200"`
	Gender        string   `json:"gender,omitempty" validate:"max=50"`
	Mobile        string   `json:"mobile,omitempty" validate:"max=50"`
	Country       string   `json:"country,omitempty" validate:"max=100"`
	State         string   `json:"state,omitempty" validate:"max=100"`
	City          string   `json:"city,omitempty" validate:"max=100"`
	LinkedIn      string   `json:"linkedin,omitempty" validate:"omitempty,url"`
	Portfolio     string   `json:"portfolio,omitempty" validate:"omitempty,url"`
	Education     string   `json:"education,omitempty" validate:"max=500"`
	WorkedAlready bool     `json:"worked_already"`
	CompanyName   string   `json:"company_name,omitempty" validate:"max=200"`
	Skills        []string `json:"skills,omitempty" validate:"max=50,dive,max=100"`
	ResumeURL     string   `json:"resume_url,omitempty" validate:"omitempty,url"`
	ReasonToJoin  string   `json:"reason_to_join,omitempty" validate:"max=3000"`
	CameFrom      string   `json:"came_from,omitempty" validate:"max=100"`
	CurrentStatus string   `json:"current_status,omitempty" validate:"max=200"`
	AcceptedTerms bool     `json:"accepted_terms" validate:"eq=true"`
}

// Validate validates the SubmitApplicationRequest.
func (r *SubmitApplicationRequest) Validate() error {
	return ValidateStruct(r)
}

// ApplicantNote is the score-free view of a screening note shown to applicants.
type ApplicantNote struct {
	ID        uuid.UUID `json:"id"`
	Stage     Stage     `json:"stage"`
	Verdict   *Verdict  `json:"verdict"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// MyApplication is an application as its owner sees it.
type MyApplication struct {
	ID               uuid.UUID        `json:"id"`
	Job              JobSummary       `json:"job"`
	CurrentStatus    string           `json:"current_status"`
	InterviewProcess InterviewProcess `json:"interview_process"`
	Result           Result           `json:"result"`
	CreatedAt        time.Time        `json:"created_at"`
	Notes            []ApplicantNote  `json:"notes"`
}

// Application list sort orders
const (
	SortCreatedDesc = "created_desc"
	SortCreatedAsc  = "created_asc"
	SortScoreDesc   = "score_desc"
	SortScoreAsc    = "score_asc"
	SortProcess     = "process"
	SortResult      = "result"
)

// ApplicationFilter holds the admin list filters. Zero values mean "no filter".
type ApplicationFilter struct {
	Query            string
	JobType          JobType
	JobID            *uuid.UUID
	From             *time.Time
	To               *time.Time
	Evaluated        *bool
	Gender           string
	InterviewProcess InterviewProcess
	Result           Result
	Sort             string
}

// DecisionRequest sets the final decision. Either field may be omitted.
type DecisionRequest struct {
	InterviewProcess *InterviewProcess `json:"interview_process,omitempty" validate:"omitempty,interview_process"`
	Result           *Result           `json:"result,omitempty" validate:"omitempty,result"`
}

// Validate validates the DecisionRequest.
func (r *DecisionRequest) Validate() error {
	return ValidateStruct(r)
}

// Decision is the decision state of an application.
type Decision struct {
	ApplicationID    uuid.UUID        `json:"application_id"`
	InterviewProcess InterviewProcess `json:"interview_process"`
	Result           Result           `json:"result"`
	TotalScore       *int             `json:"total_score"`
}

// DecisionEvent is the webhook payload sent when a result is recorded.
type DecisionEvent struct {
	ApplicationID    uuid.UUID        `json:"application_id"`
	Result           Result           `json:"result"`
	InterviewProcess InterviewProcess `json:"interview_process"`
	At               time.Time        `json:"at"`
}

// OverviewEntry counts applications for one job.
type OverviewEntry struct {
	Job   JobSummary `json:"job"`
	Count int        `json:"count"`
}
