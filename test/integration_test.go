// ABOUTME: Integration tests for the routines CLI binary.
// ABOUTME: Builds the binary and runs a full compose, submit and workout flow against a fake backend.
package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/routines/internal/api/apitest"
)

func TestFullWorkflow(t *testing.T) {
	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	binary := filepath.Join(t.TempDir(), "routines")

	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/routines")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}

	backend := apitest.New()
	backend.Token = "integration-token"
	apiURL := backend.Start(t)

	home := t.TempDir()
	env := append(os.Environ(),
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, ".config"),
		"ROUTINES_BACKEND=sqlite",
		"ROUTINES_DATA_DIR="+filepath.Join(home, "data"),
		"ROUTINES_API_URL="+apiURL,
		// Nothing listens here, so the built-in catalog is used.
		"ROUTINES_DIRECTORY_URL=http://127.0.0.1:1",
		"ROUTINES_HTTP_TIMEOUT=2s",
	)

	run := func(args ...string) (string, error) {
		cmd := exec.Command(binary, args...)
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"exercises", "list", "--muscle", "legs"}, "Squats"},
		{[]string{"auth", "login", "--token", "integration-token", "--username", "ana"}, "Signed in"},
		{[]string{"draft", "set", "--name", "Leg Day", "--duration", "40"}, "Draft updated"},
		{[]string{"draft", "add", "Squats", "--sets", "4", "--reps", "12"}, "Exercise Squats added"},
		{[]string{"draft", "add", "Plank"}, "Exercise Plank added"},
		{[]string{"draft", "show"}, "Leg Day"},
		{[]string{"submit"}, "Routine 'Leg Day' created with 2 exercises"},
		{[]string{"draft", "show"}, "Draft is empty."},
		{[]string{"explore", "-v"}, "Plank"},
		{[]string{"workout", "start", "1", "Leg Day", "--exercises", "2"}, "Started Leg Day"},
		{[]string{"workout", "status"}, "Exercises: 2"},
		{[]string{"workout", "finish"}, "Finished Leg Day"},
	}

	for _, step := range steps {
		output, err := run(step.args...)
		if err != nil {
			t.Fatalf("routines %s failed: %v\n%s", strings.Join(step.args, " "), err, output)
		}
		if !strings.Contains(output, step.want) {
			t.Errorf("routines %s: expected %q in output, got: %s", strings.Join(step.args, " "), step.want, output)
		}
	}

	if got := len(backend.Links()); got != 2 {
		t.Errorf("expected 2 routine links on the backend, got %d", got)
	}
}
