package applications

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobboard/internal/types"
)

var validSorts = map[string]bool{
	types.SortCreatedDesc: true,
	types.SortCreatedAsc:  true,
	types.SortScoreDesc:   true,
	types.SortScoreAsc:    true,
	types.SortProcess:     true,
	types.SortResult:      true,
}

// ParseFilter builds an ApplicationFilter from admin list query parameters.
// Dates are YYYY-MM-DD in loc; "to" covers the whole day.
func ParseFilter(q url.Values, loc *time.Location) (types.ApplicationFilter, error) {
	if loc == nil {
		loc = time.UTC
	}
	f := types.ApplicationFilter{
		Query:  strings.TrimSpace(q.Get("q")),
		Gender: strings.ToLower(strings.TrimSpace(q.Get("gender"))),
		Sort:   types.SortCreatedDesc,
	}

	if v := q.Get("job_type"); v != "" {
		jt := types.JobType(v)
		if !jt.IsValid() {
			return f, &types.ValidationError{Field: "job_type", Message: "must be fulltime or internship"}
		}
		f.JobType = jt
	}
	if v := q.Get("job_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, &types.ValidationError{Field: "job_id", Message: "must be a UUID"}
		}
		f.JobID = &id
	}
	if v := q.Get("from"); v != "" {
		d, err := types.ParseDate(v, loc)
		if err != nil {
			return f, &types.ValidationError{Field: "from", Message: "Invalid date"}
		}
		from := d.Time
		f.From = &from
	}
	if v := q.Get("to"); v != "" {
		d, err := types.ParseDate(v, loc)
		if err != nil {
			return f, &types.ValidationError{Field: "to", Message: "Invalid date"}
		}
		to := d.Add(24*time.Hour - time.Second)
		f.To = &to
	}
	switch v := q.Get("evaluated"); v {
	case "":
	case "yes":
		yes := true
		f.Evaluated = &yes
	case "no":
		no := false
		f.Evaluated = &no
	default:
		return f, &types.ValidationError{Field: "evaluated", Message: "must be yes or no"}
	}
	if v := q.Get("interview_process"); v != "" {
		p := types.InterviewProcess(strings.ToLower(v))
		if !p.IsValid() {
			return f, &types.ValidationError{Field: "interview_process", Message: "invalid interview_process"}
		}
		f.InterviewProcess = p
	}
	if v := q.Get("result"); v != "" {
		r := types.Result(strings.ToLower(v))
		if !r.IsValid() {
			return f, &types.ValidationError{Field: "result", Message: "invalid result"}
		}
		f.Result = r
	}
	if v := q.Get("sort"); v != "" {
		if !validSorts[v] {
			return f, &types.ValidationError{Field: "sort", Message: "unknown sort order"}
		}
		f.Sort = v
	}
	return f, nil
}
