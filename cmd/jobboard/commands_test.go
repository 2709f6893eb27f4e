package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/jobboard/internal/config"
	"github.com/jonathan/jobboard/internal/server"
	"github.com/jonathan/jobboard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command in-process and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("INTERVIEW_TIMEZONE", "UTC")
	t.Setenv("PORT", "")
	t.Setenv("WEBHOOK_WORKERS", "")
	t.Setenv("WEBHOOK_QUEUE_SIZE", "")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSlotsPreview(t *testing.T) {
	out, err := execute(t, "slots", "preview", "--date", "2030-03-04", "--start", "12:00", "--end", "15:00", "--minutes", "30")
	require.NoError(t, err)

	assert.Contains(t, out, "SLOT PLAN")
	assert.Contains(t, out, "Slots:    4")
	assert.Contains(t, out, "12:30-13:00")
	assert.Contains(t, out, "lunch 13:00-14:00")
	assert.Contains(t, out, "14:30-15:00")
	assert.NotContains(t, out, "13:30-14:00")
}

func TestSlotsPreview_InvalidWindow(t *testing.T) {
	_, err := execute(t, "slots", "preview", "--date", "2030-03-04", "--start", "15:00", "--end", "12:00", "--minutes", "30")
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "end_time", verr.Field)
}

func TestToken(t *testing.T) {
	secret := "cli-test-secret-that-is-long-enough"
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	out, err := execute(t, "token", "--email", "Ada@Example.com")
	require.NoError(t, err)

	jwtConfig, err := config.NewJWTConfig()
	require.NoError(t, err)
	claims, err := server.NewJWTService(jwtConfig).ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, types.Identity{Email: "ada@example.com"}, claims.GetIdentity())
}

func TestToken_InvalidEmail(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-test-secret-that-is-long-enough")

	_, err := execute(t, "token", "--email", "not-an-email")
	assert.Error(t, err)
}

func TestSeedJobs_DryRun(t *testing.T) {
	t.Cleanup(func() { seedDryRun = false })
	path := filepath.Join(t.TempDir(), "jobs.json")
	doc := `[
		{"slug":"backend-engineer","title":"Backend Engineer","company":"Acme","location":"Remote","type":"fulltime","work_mode":"remote","description":"d"},
		{"slug":"design-intern","title":"Design Intern","company":"Acme","location":"Paris","type":"internship","work_mode":"onsite","description":"d"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	out, err := execute(t, "seed", "jobs", "--dry-run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "JOB IMPORT")
	assert.Contains(t, out, "Created:  2")
	assert.Contains(t, out, "design-intern")
}

func TestSeedJobs_DryRunRejectsInvalidFile(t *testing.T) {
	t.Cleanup(func() { seedDryRun = false })
	path := filepath.Join(t.TempDir(), "jobs.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"slug":"x"}]`), 0o600))

	_, err := execute(t, "seed", "jobs", "--dry-run", path)
	assert.Error(t, err)
}

func TestSeedAdmin_RequiresEnv(t *testing.T) {
	t.Setenv("SEED_ADMIN_EMAIL", "")
	t.Setenv("SEED_ADMIN_PASSWORD", "")

	_, err := execute(t, "seed", "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEED_ADMIN_EMAIL")
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := execute(t, "migrate", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestScreeningSummary_InvalidID(t *testing.T) {
	_, err := execute(t, "screening", "summary", "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid application id")
}
