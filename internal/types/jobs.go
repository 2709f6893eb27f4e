package types

import (
	"time"

	"github.com/google/uuid"
)

// JobType is the employment type of a posting.
type JobType string

// Job types
const (
	JobTypeFullTime   JobType = "fulltime"
	JobTypeInternship JobType = "internship"
)

// IsValid reports whether t is a known job type.
func (t JobType) IsValid() bool {
	return t == JobTypeFullTime || t == JobTypeInternship
}

// JobStatus is the listing status of a posting.
type JobStatus string

// Job statuses
const (
	JobStatusOpen    JobStatus = "open"
	JobStatusExpired JobStatus = "expired"
)

// Job is a posting on the board. Slug is the external lookup key.
type Job struct {
	ID                      uuid.UUID  `json:"id"`
	Slug                    string     `json:"slug"`
	Title                   string     `json:"title"`
	Company                 string     `json:"company"`
	Location                string     `json:"location"`
	Type                    JobType    `json:"type"`
	WorkSchedule            string     `json:"work_schedule,omitempty"`
	WorkMode                string     `json:"work_mode"`
	Compensation            string     `json:"compensation,omitempty"`
	Description             string     `json:"description"`
	Overview                string     `json:"overview,omitempty"`
	Responsibilities        []string   `json:"responsibilities,omitempty"`
	MinQualifications       []string   `json:"min_qualifications,omitempty"`
	PreferredQualifications []string   `json:"preferred_qualifications,omitempty"`
	Perks                   []string   `json:"perks,omitempty"`
	Skills                  []string   `json:"skills,omitempty"`
	Team                    string     `json:"team,omitempty"`
	Openings                *int       `json:"openings,omitempty"`
	Status                  *JobStatus `json:"status,omitempty"`
	ApplicationDeadline     *Date      `json:"application_deadline,omitempty"`
	PostedDate              *Date      `json:"posted_date,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// AcceptingApplications reports whether the job is open on the given day.
// A job without a status counts as open; the deadline day itself is inclusive.
func (j *Job) AcceptingApplications(now time.Time) bool {
	if j.Status != nil && *j.Status == JobStatusExpired {
		return false
	}
	if j.ApplicationDeadline != nil && !j.ApplicationDeadline.IsZero() {
		today := NewDate(now.In(j.ApplicationDeadline.Location()))
		if today.After(j.ApplicationDeadline.Time) {
			return false
		}
	}
	return true
}

// Summary returns the compact reference embedded in application payloads.
func (j *Job) Summary() JobSummary {
	return JobSummary{ID: j.ID, Title: j.Title, Type: j.Type, Slug: j.Slug, Company: j.Company}
}

// JobSummary is the job reference attached to applications and slots.
type JobSummary struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Type    JobType   `json:"type"`
	Slug    string    `json:"slug"`
	Company string    `json:"company,omitempty"`
}

// JobListing is a job as shown on the public board.
type JobListing struct {
	Job
	Excerpt string `json:"excerpt"`
}
