package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/jobboard/internal/types"
)

const applicationSelect = `SELECT a.id, a.job_id, a.email, a.name, a.gender, a.mobile, a.country,
	a.state, a.city, a.linkedin, a.portfolio, a.education, a.worked_already, a.company_name,
	a.skills, a.resume_url, a.reason_to_join, a.came_from, a.accepted_terms, a.current_status,
	a.interview_process, a.result, a.total_score, a.created_at, a.updated_at,
	j.id, j.title, j.type, j.slug, j.company
	FROM applications a
	JOIN jobs j ON j.id = a.job_id`

func scanApplication(row pgx.Row) (*types.Application, error) {
	var a types.Application
	var job types.JobSummary
	err := row.Scan(
		&a.ID, &a.JobID, &a.Email, &a.Name, &a.Gender, &a.Mobile, &a.Country,
		&a.State, &a.City, &a.LinkedIn, &a.Portfolio, &a.Education, &a.WorkedAlready, &a.CompanyName,
		&a.Skills, &a.ResumeURL, &a.ReasonToJoin, &a.CameFrom, &a.AcceptedTerms, &a.CurrentStatus,
		&a.InterviewProcess, &a.Result, &a.TotalScore, &a.CreatedAt, &a.UpdatedAt,
		&job.ID, &job.Title, &job.Type, &job.Slug, &job.Company,
	)
	if err != nil {
		return nil, err
	}
	a.Job = &job
	return &a, nil
}

func collectApplications(rows pgx.Rows) ([]types.Application, error) {
	defer rows.Close()
	apps := []types.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return apps, nil
}

// CreateApplication inserts an application with default decision fields.
func (db *DB) CreateApplication(ctx context.Context, app *types.Application) (*types.Application, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO applications (job_id, email, name, gender, mobile, country, state, city,
			linkedin, portfolio, education, worked_already, company_name, skills, resume_url,
			reason_to_join, came_from, accepted_terms, current_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		 RETURNING id`,
		app.JobID, strings.ToLower(app.Email), app.Name, app.Gender, app.Mobile, app.Country, app.State, app.City,
		app.LinkedIn, app.Portfolio, app.Education, app.WorkedAlready, app.CompanyName, jsonList(app.Skills), app.ResumeURL,
		app.ReasonToJoin, app.CameFrom, app.AcceptedTerms, app.CurrentStatus,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, &types.NotFoundError{Resource: "job", ID: app.JobID.String()}
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return db.GetApplication(ctx, id)
}

// GetApplication returns nil, nil when the application does not exist.
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	a, err := scanApplication(db.pool.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

// ListApplicationsByEmail returns an applicant's applications, newest first.
func (db *DB) ListApplicationsByEmail(ctx context.Context, email string) ([]types.Application, error) {
	rows, err := db.pool.Query(ctx,
		applicationSelect+` WHERE lower(a.email) = lower($1) ORDER BY a.created_at DESC`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	apps, err := collectApplications(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

var applicationOrder = map[string]string{
	types.SortCreatedDesc: "a.created_at DESC",
	types.SortCreatedAsc:  "a.created_at ASC",
	types.SortScoreDesc:   "a.total_score DESC NULLS LAST, a.created_at DESC",
	types.SortScoreAsc:    "a.total_score ASC NULLS LAST, a.created_at DESC",
	types.SortProcess:     "a.interview_process ASC, a.created_at DESC",
	types.SortResult:      "a.result ASC, a.created_at DESC",
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// buildApplicationQuery renders the admin list query for a filter.
func buildApplicationQuery(f types.ApplicationFilter) (string, []any) {
	query := applicationSelect + ` WHERE 1=1`
	args := []any{}
	argNum := 1

	if q := strings.TrimSpace(f.Query); q != "" {
		query += fmt.Sprintf(` AND (a.email ILIKE $%[1]d OR a.name ILIKE $%[1]d OR j.title ILIKE $%[1]d
			OR a.current_status ILIKE $%[1]d OR a.country ILIKE $%[1]d)`, argNum)
		args = append(args, "%"+escapeLike(q)+"%")
		argNum++
	}
	if f.JobType != "" {
		query += fmt.Sprintf(" AND j.type = $%d", argNum)
		args = append(args, string(f.JobType))
		argNum++
	}
	if f.JobID != nil {
		query += fmt.Sprintf(" AND a.job_id = $%d", argNum)
		args = append(args, *f.JobID)
		argNum++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND a.created_at >= $%d", argNum)
		args = append(args, *f.From)
		argNum++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND a.created_at <= $%d", argNum)
		args = append(args, *f.To)
		argNum++
	}
	if f.Evaluated != nil {
		if *f.Evaluated {
			query += " AND a.total_score IS NOT NULL"
		} else {
			query += " AND a.total_score IS NULL"
		}
	}
	if f.Gender != "" {
		query += fmt.Sprintf(" AND lower(a.gender) = lower($%d)", argNum)
		args = append(args, f.Gender)
		argNum++
	}
	if f.InterviewProcess != "" {
		query += fmt.Sprintf(" AND a.interview_process = $%d", argNum)
		args = append(args, string(f.InterviewProcess))
		argNum++
	}
	if f.Result != "" {
		query += fmt.Sprintf(" AND a.result = $%d", argNum)
		args = append(args, string(f.Result))
	}

	order, ok := applicationOrder[f.Sort]
	if !ok {
		order = applicationOrder[types.SortCreatedDesc]
	}
	query += " ORDER BY " + order
	return query, args
}

// ListApplications returns applications matching the admin filter.
func (db *DB) ListApplications(ctx context.Context, f types.ApplicationFilter) ([]types.Application, error) {
	query, args := buildApplicationQuery(f)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	apps, err := collectApplications(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// ApplicationOverview counts applications per job, ordered by job title.
func (db *DB) ApplicationOverview(ctx context.Context) ([]types.OverviewEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT j.id, j.title, j.type, j.slug, j.company, COUNT(a.id)
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 GROUP BY j.id, j.title, j.type, j.slug, j.company
		 ORDER BY j.title`)
	if err != nil {
		return nil, fmt.Errorf("failed to load overview: %w", err)
	}
	defer rows.Close()

	entries := []types.OverviewEntry{}
	for rows.Next() {
		var e types.OverviewEntry
		if err := rows.Scan(&e.Job.ID, &e.Job.Title, &e.Job.Type, &e.Job.Slug, &e.Job.Company, &e.Count); err != nil {
			return nil, fmt.Errorf("failed to scan overview: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load overview: %w", err)
	}
	return entries, nil
}

// UpdateDecision sets the provided decision fields. It returns nil, nil when
// the application does not exist.
func (db *DB) UpdateDecision(ctx context.Context, id uuid.UUID, process *types.InterviewProcess, result *types.Result) (*types.Application, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE applications
		 SET interview_process = COALESCE($2, interview_process),
		     result = COALESCE($3, result),
		     updated_at = NOW()
		 WHERE id = $1`,
		id, optString(process), optString(result),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update decision: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return db.GetApplication(ctx, id)
}

func optString[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
