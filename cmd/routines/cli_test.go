// ABOUTME: End-to-end tests that run CLI commands against a temp store and a fake backend.
// ABOUTME: Covers the draft, submission, workout, export, auth and metrics commands.
package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/routines/internal/api/apitest"
	"github.com/harperreed/routines/internal/observability"
)

const cliToken = "cli-token"

type cliEnv struct {
	home    string
	backend *apitest.Backend
}

// newCLIEnv points every config and data path at a temp dir, serves the fake
// backend and makes the exercise directory unreachable so the built-in
// catalog is used.
func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("ROUTINES_BACKEND", "sqlite")
	t.Setenv("ROUTINES_DATA_DIR", filepath.Join(home, "data"))
	t.Setenv("ROUTINES_LOG_LEVEL", "error")

	backend := apitest.New()
	backend.Token = cliToken
	t.Setenv("ROUTINES_API_URL", backend.Start(t))

	directory := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(directory.Close)
	t.Setenv("ROUTINES_DIRECTORY_URL", directory.URL)

	return &cliEnv{home: home, backend: backend}
}

// resetFlags restores every flag to its default; cobra keeps flag values
// between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCLIWithInput(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(in)
	rootCmd.SetArgs(args)

	err := Execute()
	return buf.String(), err
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLIWithInput(t, strings.NewReader(""), args...)
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	require.NoError(t, err, "routines %s\n%s", strings.Join(args, " "), out)
	return out
}

func login(t *testing.T, token string) {
	t.Helper()
	mustRun(t, "auth", "login", "--token", token, "--username", "ana")
}

func TestCLIDraftLifecycle(t *testing.T) {
	newCLIEnv(t)

	out := mustRun(t, "draft", "show")
	assert.Contains(t, out, "Draft is empty.")

	_, err := runCLI(t, "draft", "add", "Squats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Sign in to add exercises")

	login(t, cliToken)

	mustRun(t, "draft", "set", "--name", "Leg Day", "--duration", "45")
	out = mustRun(t, "draft", "add", "squats", "--sets", "4", "--reps", "8")
	assert.Contains(t, out, "Exercise Squats added")
	mustRun(t, "draft", "add", "Plank", "--sets", "zero")

	out = mustRun(t, "draft", "show")
	assert.Contains(t, out, "Leg Day")
	assert.Contains(t, out, "Duration: 45 min")
	assert.Contains(t, out, "4 x 8")
	assert.Contains(t, out, "Plank")
	assert.Contains(t, out, "3 x 10")

	out = mustRun(t, "draft", "remove", "2")
	assert.Contains(t, out, "Removed Plank")

	_, err = runCLI(t, "draft", "remove", "5")
	require.Error(t, err)

	out = mustRun(t, "draft", "show")
	assert.NotContains(t, out, "Plank")
	assert.Contains(t, out, "Squats")

	mustRun(t, "draft", "clear")
	out = mustRun(t, "draft", "show")
	assert.Contains(t, out, "Draft is empty.")
}

func TestCLIDraftErrors(t *testing.T) {
	newCLIEnv(t)
	login(t, cliToken)

	_, err := runCLI(t, "draft", "set")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to set")

	_, err = runCLI(t, "draft", "add", "Unicorn", "Press")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unicorn Press")

	_, err = runCLI(t, "draft", "remove", "first")
	require.Error(t, err)
}

func TestCLISubmit(t *testing.T) {
	env := newCLIEnv(t)
	login(t, cliToken)

	mustRun(t, "draft", "set", "--name", "Leg Day", "--description", "Lower body")
	mustRun(t, "draft", "add", "Squats", "--sets", "5")
	mustRun(t, "draft", "add", "Squats", "--sets", "3")

	out := mustRun(t, "submit")
	assert.Contains(t, out, "Routine 'Leg Day' created with 2 exercises")

	require.Len(t, env.backend.Routines(), 1)
	assert.Equal(t, "Lower body", env.backend.Routines()[0].Description)
	assert.Len(t, env.backend.Exercises(), 1, "repeated entries reuse one exercise")
	assert.Len(t, env.backend.Links(), 2)

	out = mustRun(t, "draft", "show")
	assert.Contains(t, out, "Draft is empty.")

	out = mustRun(t, "explore", "leg", "-v")
	assert.Contains(t, out, "Leg Day")
	assert.Contains(t, out, "Squats 5 x 10")

	out = mustRun(t, "explore", "arms")
	assert.Contains(t, out, "No routines found.")
}

func TestCLISubmitValidationMakesNoCalls(t *testing.T) {
	env := newCLIEnv(t)

	_, err := runCLI(t, "submit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Sign in to save routines")

	login(t, cliToken)
	_, err = runCLI(t, "submit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name is required")

	mustRun(t, "draft", "set", "--name", "Empty")
	_, err = runCLI(t, "submit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Add at least one exercise")

	assert.Empty(t, env.backend.Calls())
}

func TestCLISubmitRejectedSession(t *testing.T) {
	env := newCLIEnv(t)
	login(t, "stale-token")

	mustRun(t, "draft", "set", "--name", "Push")
	mustRun(t, "draft", "add", "Push-ups")

	out, err := runCLI(t, "submit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error saving")
	assert.Contains(t, out, "routines auth login")
	assert.Empty(t, env.backend.Routines())

	out = mustRun(t, "auth", "status")
	assert.Contains(t, out, "Not signed in")

	out = mustRun(t, "draft", "show")
	assert.Contains(t, out, "Push-ups", "draft is kept after a failed submission")
}

func TestCLISubmitWithoutUsername(t *testing.T) {
	env := newCLIEnv(t)

	out := mustRun(t, "auth", "login", "--token", cliToken)
	assert.Contains(t, out, "no --username given")

	mustRun(t, "draft", "set", "--name", "Push")
	mustRun(t, "draft", "add", "Push-ups")

	_, err := runCLI(t, "submit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not determine the username")
	assert.Empty(t, env.backend.Routines())

	out = mustRun(t, "draft", "show")
	assert.Contains(t, out, "Push-ups")
}

func TestCLIAuth(t *testing.T) {
	newCLIEnv(t)

	out := mustRun(t, "auth", "status")
	assert.Contains(t, out, "Not signed in")

	_, err := runCLI(t, "auth", "login")
	require.Error(t, err)

	login(t, cliToken)
	out = mustRun(t, "auth", "status")
	assert.Contains(t, out, "Signed in")
	assert.Contains(t, out, "ana")

	mustRun(t, "auth", "logout")
	out = mustRun(t, "auth", "status")
	assert.Contains(t, out, "Not signed in")
}

func TestCLIExercises(t *testing.T) {
	newCLIEnv(t)

	out := mustRun(t, "exercises", "list", "--muscle", "chest")
	assert.Contains(t, out, "Push-ups")
	assert.Contains(t, out, "Bench Press")
	assert.NotContains(t, out, "Squats")
	assert.Contains(t, out, "built-in exercises")

	out = mustRun(t, "ex", "ls", "-s", "dead")
	assert.Contains(t, out, "Deadlift")
	assert.NotContains(t, out, "Plank")

	out = mustRun(t, "exercises", "list", "--limit", "2")
	assert.Contains(t, out, "... 3 more")

	out = mustRun(t, "exercises", "list", "--facets")
	assert.Contains(t, out, "Legs")
	assert.Contains(t, out, "Barbell")

	out = mustRun(t, "exercises", "list", "--muscle", "neck")
	assert.Contains(t, out, "No exercises found.")

	out = mustRun(t, "exercises", "refresh")
	assert.Contains(t, out, "nothing cached")

	mustRun(t, "exercises", "clear-cache")
}

func TestCLIWorkout(t *testing.T) {
	newCLIEnv(t)

	out := mustRun(t, "workout", "status")
	assert.Contains(t, out, "No active workout.")

	out = mustRun(t, "workout", "start", "12", "Leg Day", "--exercises", "5", "--duration", "45")
	assert.Contains(t, out, "Started Leg Day")

	out = mustRun(t, "w", "status")
	assert.Contains(t, out, "Leg Day")
	assert.Contains(t, out, "Exercises: 5")
	assert.Contains(t, out, "45 min")

	out = mustRun(t, "workout", "finish")
	assert.Contains(t, out, "Finished Leg Day")

	out = mustRun(t, "workout", "finish")
	assert.Contains(t, out, "No active workout.")
}

func TestCLIStatsFlag(t *testing.T) {
	newCLIEnv(t)

	out := mustRun(t, "--stats", "workout", "start", "7", "Push")
	assert.Contains(t, out, "Activity")
	assert.Contains(t, out, "routines_workout_events_total{event=start,result=ok} 1")
}

func TestCLIExportImport(t *testing.T) {
	env := newCLIEnv(t)
	login(t, cliToken)

	mustRun(t, "draft", "set", "--name", "Upper Body", "--duration", "30")
	mustRun(t, "draft", "add", "Bench Press")

	out := mustRun(t, "export", "markdown")
	assert.Contains(t, out, "**Upper Body** (30 min)")
	assert.Contains(t, out, "| 1 | Bench Press |")

	out = mustRun(t, "export", "yaml")
	assert.Contains(t, out, "name: Upper Body")

	backup := filepath.Join(env.home, "backup.json")
	out = mustRun(t, "export", "json", "-o", backup)
	assert.Contains(t, out, "Exported to")

	mustRun(t, "draft", "clear")
	mustRun(t, "import", backup)

	out = mustRun(t, "draft", "show")
	assert.Contains(t, out, "Upper Body")
	assert.Contains(t, out, "Bench Press")

	_, err := runCLI(t, "export", "csv")
	require.Error(t, err)
	_, err = runCLI(t, "import", filepath.Join(env.home, "missing.json"))
	require.Error(t, err)
}

func TestCLIMigrateChecks(t *testing.T) {
	newCLIEnv(t)

	mustRun(t, "draft", "set", "--name", "Carry")

	out := mustRun(t, "migrate", "--to", "charm", "--dry-run")
	assert.Contains(t, out, "Would copy from sqlite to charm")
	assert.Contains(t, out, "Draft:          yes")

	_, err := runCLI(t, "migrate", "--to", "sqlite")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already using")

	_, err = runCLI(t, "migrate", "--to", "postgres")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

func TestCLISyncStatusWithSQLite(t *testing.T) {
	newCLIEnv(t)

	out := mustRun(t, "sync", "status")
	assert.Contains(t, out, "sync is off")
}

func TestMetricsRouter(t *testing.T) {
	m, reg := observability.NewTestMetricsAndRegistry()
	m.Submission(observability.ResultOK)

	srv := httptest.NewServer(newMetricsRouter(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `routines_submissions_total{result="ok"} 1`)

	resp, err = http.Post(srv.URL+"/metrics", "text/plain", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCLIInstallSkill(t *testing.T) {
	env := newCLIEnv(t)
	skillPath := filepath.Join(env.home, ".claude", "skills", "routines", "SKILL.md")

	out, err := runCLIWithInput(t, strings.NewReader("n\n"), "install-skill")
	require.NoError(t, err)
	assert.Contains(t, out, "Installation canceled.")
	assert.NoFileExists(t, skillPath)

	out = mustRun(t, "install-skill", "--yes")
	assert.Contains(t, out, "Installed routines skill")

	written, err := os.ReadFile(skillPath)
	require.NoError(t, err)
	embedded, err := skillFS.ReadFile("skill/SKILL.md")
	require.NoError(t, err)
	assert.Equal(t, embedded, written)

	out = mustRun(t, "install-skill", "--yes")
	assert.Contains(t, out, "already exists")
}
