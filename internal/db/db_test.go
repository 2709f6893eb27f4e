package db

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jonathan/jobboard/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestBuildApplicationQuery_NoFilters(t *testing.T) {
	query, args := buildApplicationQuery(types.ApplicationFilter{})

	assert.Empty(t, args)
	assert.NotContains(t, query, "$1")
	assert.True(t, strings.HasSuffix(query, "ORDER BY a.created_at DESC"))
}

func TestBuildApplicationQuery_AllFilters(t *testing.T) {
	jobID := uuid.New()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
	evaluated := true

	query, args := buildApplicationQuery(types.ApplicationFilter{
		Query:            "go_dev%",
		JobType:          types.JobTypeInternship,
		JobID:            &jobID,
		From:             &from,
		To:               &to,
		Evaluated:        &evaluated,
		Gender:           "Female",
		InterviewProcess: types.ProcessInProgress,
		Result:           types.ResultHold,
		Sort:             types.SortScoreDesc,
	})

	assert.Equal(t, []any{
		`%go\_dev\%%`,
		"internship",
		jobID,
		from,
		to,
		"Female",
		"in_progress",
		"hold",
	}, args)
	for i := 1; i <= len(args); i++ {
		assert.Contains(t, query, fmt.Sprintf("$%d", i))
	}
	assert.NotContains(t, query, "$9")
	assert.Contains(t, query, "a.total_score IS NOT NULL")
	assert.Contains(t, query, "lower(a.gender) = lower($6)")
	assert.True(t, strings.HasSuffix(query, "ORDER BY a.total_score DESC NULLS LAST, a.created_at DESC"))
}

func TestBuildApplicationQuery_NotEvaluated(t *testing.T) {
	evaluated := false
	query, args := buildApplicationQuery(types.ApplicationFilter{Evaluated: &evaluated})

	assert.Empty(t, args)
	assert.Contains(t, query, "a.total_score IS NULL")
}

func TestBuildApplicationQuery_SortOrders(t *testing.T) {
	tests := []struct {
		sort string
		want string
	}{
		{types.SortCreatedAsc, "a.created_at ASC"},
		{types.SortScoreAsc, "a.total_score ASC NULLS LAST, a.created_at DESC"},
		{types.SortProcess, "a.interview_process ASC, a.created_at DESC"},
		{types.SortResult, "a.result ASC, a.created_at DESC"},
		{"bogus", "a.created_at DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			query, _ := buildApplicationQuery(types.ApplicationFilter{Sort: tt.sort})
			assert.True(t, strings.HasSuffix(query, "ORDER BY "+tt.want), query)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "plain", escapeLike("plain"))
	assert.Equal(t, `50\%`, escapeLike("50%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\tmp`, escapeLike(`c:\tmp`))
}

func TestErrorMapping(t *testing.T) {
	slotDup := fmt.Errorf("book: %w", &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: constraintSlotApplication})
	otherDup := &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "jobs_slug_key"}
	fk := &pgconn.PgError{Code: codeForeignKeyViolation}

	assert.True(t, isUniqueViolation(slotDup, constraintSlotApplication))
	assert.True(t, isUniqueViolation(slotDup, ""))
	assert.False(t, isUniqueViolation(otherDup, constraintSlotApplication))
	assert.False(t, isUniqueViolation(fk, ""))
	assert.False(t, isUniqueViolation(fmt.Errorf("plain"), ""))

	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isForeignKeyViolation(otherDup))
	assert.False(t, isForeignKeyViolation(nil))
}

func TestOptString(t *testing.T) {
	assert.Nil(t, optString[types.Result](nil))

	hired := types.ResultHired
	got := optString(&hired)
	if assert.NotNil(t, got) {
		assert.Equal(t, "hired", *got)
	}
}

func TestJSONListAndDatePtr(t *testing.T) {
	assert.Equal(t, []string{}, jsonList(nil))
	assert.Equal(t, []string{"go"}, jsonList([]string{"go"}))

	assert.Nil(t, datePtr(nil))
	assert.Nil(t, datePtr(&types.Date{}))

	d := types.NewDate(time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC))
	got := datePtr(&d)
	if assert.NotNil(t, got) {
		assert.Equal(t, "2026-03-04", got.Format(types.DateLayout))
	}
}

func TestVerdictPtr(t *testing.T) {
	assert.Nil(t, verdictPtr(nil))
	s := "shortlist"
	assert.Equal(t, types.VerdictShortlist, *verdictPtr(&s))
}
