package applications

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobboard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	jobID := uuid.New()
	q := url.Values{}
	q.Set("q", " ada ")
	q.Set("job_type", "internship")
	q.Set("job_id", jobID.String())
	q.Set("from", "2025-03-01")
	q.Set("to", "2025-03-31")
	q.Set("evaluated", "yes")
	q.Set("gender", "Female")
	q.Set("interview_process", "in_progress")
	q.Set("result", "hold")
	q.Set("sort", "score_desc")

	f, err := ParseFilter(q, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "ada", f.Query)
	assert.Equal(t, types.JobTypeInternship, f.JobType)
	assert.Equal(t, jobID, *f.JobID)
	assert.Equal(t, "2025-03-01T00:00:00Z", f.From.Format(time.RFC3339))
	assert.Equal(t, "2025-03-31T23:59:59Z", f.To.Format(time.RFC3339))
	assert.True(t, *f.Evaluated)
	assert.Equal(t, "female", f.Gender)
	assert.Equal(t, types.ProcessInProgress, f.InterviewProcess)
	assert.Equal(t, types.ResultHold, f.Result)
	assert.Equal(t, types.SortScoreDesc, f.Sort)
}

func TestParseFilter_Defaults(t *testing.T) {
	f, err := ParseFilter(url.Values{}, nil)
	require.NoError(t, err)
	assert.Equal(t, types.SortCreatedDesc, f.Sort)
	assert.Nil(t, f.Evaluated)
	assert.Nil(t, f.JobID)
}

func TestParseFilter_Errors(t *testing.T) {
	tests := map[string]string{
		"job_type":          "contract",
		"job_id":            "42",
		"from":              "March",
		"to":                "2025-02-31",
		"evaluated":         "maybe",
		"interview_process": "done",
		"result":            "accepted",
		"sort":              "name",
	}
	for field, value := range tests {
		t.Run(field, func(t *testing.T) {
			_, err := ParseFilter(url.Values{field: {value}}, time.UTC)
			var verr *types.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, field, verr.Field)
		})
	}
}
