// Package listings serves the public job catalogue and imports job seed files.
package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/jobboard/internal/schemas"
	"github.com/jonathan/jobboard/internal/types"
)

// Store is the job persistence the catalogue needs.
type Store interface {
	ListJobs(ctx context.Context) ([]types.Job, error)
	// GetJobBySlug returns nil, nil when no job has the slug.
	GetJobBySlug(ctx context.Context, slug string) (*types.Job, error)
	// UpsertJob inserts or replaces the job with the same slug and reports
	// whether it was created.
	UpsertJob(ctx context.Context, job *types.Job) (*types.Job, bool, error)
}

// Service implements the job catalogue.
type Service struct {
	store         Store
	excerptLength int
}

// NewService creates a Service.
func NewService(store Store) *Service {
	return &Service{store: store, excerptLength: DefaultExcerptLength}
}

// List returns all jobs, newest first, each with a plain-text excerpt.
func (s *Service) List(ctx context.Context) ([]types.JobListing, error) {
	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	listings := make([]types.JobListing, 0, len(jobs))
	for _, j := range jobs {
		excerpt, err := Excerpt(j.Description, s.excerptLength)
		if err != nil {
			log.Printf("[listings] failed to build excerpt for %s: %v", j.Slug, err)
		}
		listings = append(listings, types.JobListing{Job: j, Excerpt: excerpt})
	}
	return listings, nil
}

// Get returns the job with the given slug.
func (s *Service) Get(ctx context.Context, slug string) (*types.Job, error) {
	job, err := s.store.GetJobBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &types.NotFoundError{Resource: "job", ID: slug}
	}
	return job, nil
}

// ImportSummary reports the outcome of a seed import.
type ImportSummary struct {
	Created []string
	Updated []string
}

// Import validates a job seed document against the jobs schema and upserts
// every job by slug.
func (s *Service) Import(ctx context.Context, document []byte) (*ImportSummary, error) {
	if err := schemas.Validate(schemas.JobsSchema, document); err != nil {
		return nil, err
	}

	var jobs []types.Job
	if err := json.Unmarshal(document, &jobs); err != nil {
		return nil, fmt.Errorf("failed to decode jobs: %w", err)
	}

	seen := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		if seen[j.Slug] {
			return nil, &types.ValidationError{Field: "slug", Message: fmt.Sprintf("duplicate slug %q", j.Slug)}
		}
		seen[j.Slug] = true
	}

	summary := &ImportSummary{}
	for i := range jobs {
		job, created, err := s.store.UpsertJob(ctx, &jobs[i])
		if err != nil {
			return summary, fmt.Errorf("failed to import job %s: %w", jobs[i].Slug, err)
		}
		if created {
			summary.Created = append(summary.Created, job.Slug)
		} else {
			summary.Updated = append(summary.Updated, job.Slug)
		}
	}
	return summary, nil
}
