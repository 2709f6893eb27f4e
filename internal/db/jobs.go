package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/jobboard/internal/types"
)

const jobColumns = `id, slug, title, company, location, type, work_schedule, work_mode,
	compensation, description, overview, responsibilities, min_qualifications,
	preferred_qualifications, perks, skills, team, openings, status,
	application_deadline, posted_date, created_at, updated_at`

func scanJob(row pgx.Row, extra ...any) (*types.Job, error) {
	var (
		j        types.Job
		status   *string
		deadline *time.Time
		posted   *time.Time
	)
	dest := []any{
		&j.ID, &j.Slug, &j.Title, &j.Company, &j.Location, &j.Type, &j.WorkSchedule, &j.WorkMode,
		&j.Compensation, &j.Description, &j.Overview, &j.Responsibilities, &j.MinQualifications,
		&j.PreferredQualifications, &j.Perks, &j.Skills, &j.Team, &j.Openings, &status,
		&deadline, &posted, &j.CreatedAt, &j.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if status != nil {
		s := types.JobStatus(*status)
		j.Status = &s
	}
	j.ApplicationDeadline = types.DatePtr(deadline)
	j.PostedDate = types.DatePtr(posted)
	return &j, nil
}

// jsonList keeps JSONB list columns as arrays rather than null.
func jsonList(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func datePtr(d *types.Date) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// UpsertJob inserts a job or updates the job with the same slug.
func (db *DB) UpsertJob(ctx context.Context, job *types.Job) (*types.Job, bool, error) {
	var status *string
	if job.Status != nil {
		s := string(*job.Status)
		status = &s
	}

	var inserted bool
	saved, err := scanJob(db.pool.QueryRow(ctx,
		`INSERT INTO jobs (slug, title, company, location, type, work_schedule, work_mode,
			compensation, description, overview, responsibilities, min_qualifications,
			preferred_qualifications, perks, skills, team, openings, status,
			application_deadline, posted_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		 ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			company = EXCLUDED.company,
			location = EXCLUDED.location,
			type = EXCLUDED.type,
			work_schedule = EXCLUDED.work_schedule,
			work_mode = EXCLUDED.work_mode,
			compensation = EXCLUDED.compensation,
			description = EXCLUDED.description,
			overview = EXCLUDED.overview,
			responsibilities = EXCLUDED.responsibilities,
			min_qualifications = EXCLUDED.min_qualifications,
			preferred_qualifications = EXCLUDED.preferred_qualifications,
			perks = EXCLUDED.perks,
			skills = EXCLUDED.skills,
			team = EXCLUDED.team,
			openings = EXCLUDED.openings,
			status = EXCLUDED.status,
			application_deadline = EXCLUDED.application_deadline,
			posted_date = EXCLUDED.posted_date,
			updated_at = NOW()
		 RETURNING `+jobColumns+`, (xmax = 0) AS inserted`,
		job.Slug, job.Title, job.Company, job.Location, string(job.Type), job.WorkSchedule, job.WorkMode,
		job.Compensation, job.Description, job.Overview, jsonList(job.Responsibilities), jsonList(job.MinQualifications),
		jsonList(job.PreferredQualifications), jsonList(job.Perks), jsonList(job.Skills), job.Team, job.Openings, status,
		datePtr(job.ApplicationDeadline), datePtr(job.PostedDate),
	), &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert job %s: %w", job.Slug, err)
	}
	return saved, inserted, nil
}

// ListJobs returns all jobs, newest first.
func (db *DB) ListJobs(ctx context.Context) ([]types.Job, error) {
	rows, err := db.pool.Query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []types.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// GetJobBySlug returns nil, nil when no job has the slug.
func (db *DB) GetJobBySlug(ctx context.Context, slug string) (*types.Job, error) {
	j, err := scanJob(db.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE slug = $1`, slug))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job %s: %w", slug, err)
	}
	return j, nil
}
