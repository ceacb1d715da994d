// ABOUTME: Tests for the routine submission workflow against the fake backend.
// ABOUTME: Covers validation, exercise resolution, partial failure and expired sessions.
package submit

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/routines/internal/api"
	"github.com/harperreed/routines/internal/api/apitest"
	"github.com/harperreed/routines/internal/auth"
	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/observability"
)

const testToken = "secret-token"

type clearSpy struct {
	calls int
	err   error
}

func (c *clearSpy) Clear(context.Context) error {
	c.calls++
	return c.err
}

type fixture struct {
	backend *apitest.Backend
	creds   *auth.Store
	drafts  *clearSpy
	metrics *observability.Metrics
	flow    *Workflow
}

func newFixture(t *testing.T, signedIn bool) *fixture {
	t.Helper()
	return newFixtureWithBackendToken(t, signedIn, testToken)
}

func newFixtureWithBackendToken(t *testing.T, signedIn bool, backendToken string) *fixture {
	t.Helper()

	backend := apitest.New()
	backend.Token = backendToken
	baseURL := backend.Start(t)

	creds := auth.NewStore(filepath.Join(t.TempDir(), "credentials.json"))
	if signedIn {
		require.NoError(t, creds.Save(auth.Credentials{Token: testToken, Username: "ana"}))
	}

	client := api.NewClient(baseURL, nil, creds.Token)
	drafts := &clearSpy{}
	metrics := observability.NewTestMetrics()

	return &fixture{
		backend: backend,
		creds:   creds,
		drafts:  drafts,
		metrics: metrics,
		flow:    NewWorkflow(client, creds, drafts, metrics),
	}
}

func (f *fixture) submissions(result string) float64 {
	return testutil.ToFloat64(f.metrics.CounterSubmissions.WithLabelValues(result))
}

func entry(name string, sets, reps, rest int) models.RoutineExercise {
	return models.RoutineExercise{
		Exercise: models.Exercise{Name: name, Type: "Bodyweight", Muscle: "Legs", Difficulty: "Beginner"},
		Sets:     sets, Reps: reps, RestTime: rest,
	}
}

func legDay() models.DraftRoutine {
	return models.DraftRoutine{
		Name:        "Leg Day",
		Description: "Lower body",
		Duration:    "45",
		Exercises: []models.RoutineExercise{
			entry("Squats", 3, 10, 60),
			entry("Lunges", 3, 12, 45),
			entry("Squats", 5, 5, 120),
		},
	}
}

func TestSubmitValidationMakesNoCalls(t *testing.T) {
	tests := []struct {
		name     string
		signedIn bool
		draft    models.DraftRoutine
		want     string
	}{
		{name: "not signed in", signedIn: false, draft: legDay(), want: MsgSignInToSave},
		{name: "blank name", signedIn: true, draft: func() models.DraftRoutine { d := legDay(); d.Name = "   "; return d }(), want: MsgNameRequired},
		{name: "no exercises", signedIn: true, draft: models.DraftRoutine{Name: "Leg Day"}, want: MsgNeedExercise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.signedIn)
			called := false

			res, err := f.flow.Submit(context.Background(), tt.draft, func() { called = true })
			require.Error(t, err)
			assert.Equal(t, tt.want, res.Message)
			assert.Empty(t, f.backend.Calls())
			assert.False(t, called)
			assert.Zero(t, f.drafts.calls)
			assert.Equal(t, 1.0, f.submissions(observability.ResultInvalid))
		})
	}
}

func TestSubmitNotAuthenticatedSentinel(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.flow.Submit(context.Background(), legDay(), nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.False(t, IsValidation(err))

	err = Validate(&auth.Credentials{Token: "t"}, models.DraftRoutine{Name: "x"})
	assert.True(t, IsValidation(err))
}

func TestSubmitCreatesRoutine(t *testing.T) {
	f := newFixture(t, true)
	squatsID := f.backend.SeedExercise(api.ExerciseDTO{Name: "squats", Type: "Bodyweight"})
	called := false

	res, err := f.flow.Submit(context.Background(), legDay(), func() { called = true })
	require.NoError(t, err)

	assert.Equal(t, "Routine 'Leg Day' created with 3 exercises", res.Message)
	assert.Equal(t, 3, res.Linked)
	assert.NotZero(t, res.RoutineID)
	assert.True(t, called)
	assert.Equal(t, 1, f.drafts.calls)
	assert.Equal(t, 1.0, f.submissions(observability.ResultOK))

	// Squats matched the seeded exercise ignoring case; only Lunges was created.
	assert.Equal(t, 1, f.backend.CallCount(http.MethodPost, "/exercises"))
	assert.Len(t, f.backend.Exercises(), 2)
	// Two lookups to resolve unique names, three to link every entry.
	assert.Equal(t, 5, f.backend.CallCount(http.MethodGet, "/exercises"))

	routines := f.backend.Routines()
	require.Len(t, routines, 1)
	assert.Equal(t, "Leg Day", routines[0].Name)
	assert.Equal(t, "Lower body", routines[0].Description)
	assert.Equal(t, "45", routines[0].Duration)

	links := f.backend.Links()
	require.Len(t, links, 3)
	assert.Equal(t, squatsID, links[0].ExerciseID)
	assert.Equal(t, squatsID, links[2].ExerciseID)
	assert.Equal(t, []int{3, 5}, []int{links[0].Sets, links[2].Sets})
	assert.Equal(t, 120, links[2].RestTime)
	for _, l := range links {
		assert.Equal(t, res.RoutineID, l.WorkoutRoutineID)
	}

	for _, c := range f.backend.Calls() {
		assert.Equal(t, "Bearer "+testToken, c.Authorization)
	}
}

func TestSubmitPartialFailure(t *testing.T) {
	f := newFixture(t, true)
	f.backend.FailWith(http.MethodPost, "/routine-exercises", http.StatusInternalServerError)

	res, err := f.flow.Submit(context.Background(), legDay(), nil)
	require.Error(t, err)

	assert.NotZero(t, res.RoutineID)
	assert.Zero(t, res.Linked)
	assert.True(t, strings.HasPrefix(res.Message, "Error saving: "))
	assert.Contains(t, res.Message, "500")
	assert.False(t, errors.Is(err, ErrSessionExpired))

	assert.Len(t, f.backend.Routines(), 1)
	assert.Zero(t, f.drafts.calls)
	assert.NotNil(t, f.creds.Current())
	assert.Equal(t, 1.0, f.submissions(observability.ResultFailed))
}

func TestSubmitWithoutUsernameCreatesNoRoutine(t *testing.T) {
	f := newFixture(t, false)
	require.NoError(t, f.creds.Save(auth.Credentials{Token: testToken}))

	res, err := f.flow.Submit(context.Background(), legDay(), nil)
	require.ErrorIs(t, err, ErrNoUsername)
	assert.Equal(t, "Error saving: "+MsgNoUsername, res.Message)
	assert.Zero(t, res.RoutineID)

	assert.Zero(t, f.backend.CallCount(http.MethodPost, "/workout-routines"))
	assert.Empty(t, f.backend.Routines())
	assert.Empty(t, f.backend.Links())
	assert.Zero(t, f.drafts.calls)
	assert.NotNil(t, f.creds.Current())
	assert.Equal(t, 1.0, f.submissions(observability.ResultFailed))
}

func TestSubmitExpiredSessionClearsCredentials(t *testing.T) {
	f := newFixtureWithBackendToken(t, true, "rotated")

	res, err := f.flow.Submit(context.Background(), legDay(), nil)
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.True(t, api.IsAuthError(err))
	assert.Contains(t, res.Message, "401")
	assert.Nil(t, f.creds.Current())
	assert.Zero(t, f.drafts.calls)
	assert.Empty(t, f.backend.Routines())
}

func TestSubmitDraftClearFailureStillSucceeds(t *testing.T) {
	f := newFixture(t, true)
	f.drafts.err = errors.New("disk full")

	res, err := f.flow.Submit(context.Background(), legDay(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Linked)
	assert.Equal(t, 1, f.drafts.calls)
}
