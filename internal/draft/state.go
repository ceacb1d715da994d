// ABOUTME: Draft editor state, the actions that change it and the pure reducer.
// ABOUTME: Reduce reports whether the change needs persisting; it never performs I/O.
package draft

import (
	"fmt"

	"github.com/harperreed/routines/internal/models"
)

// Messages shown to the user.
const (
	MsgSignInToAdd = "Sign in to add exercises"
)

// State is everything the draft editor shows.
type State struct {
	Name        string
	Description string
	Duration    string
	Exercises   []models.RoutineExercise

	// Loaded is set once the stored draft has been read. Nothing is
	// persisted before that.
	Loaded        bool
	Authenticated bool

	ShowEmptyState        bool
	ShowRoutineForm       bool
	ShowExerciseSelection bool

	Message string
}

// NewState returns the initial, unloaded state.
func NewState() State {
	return State{ShowEmptyState: true}
}

// Draft returns the persisted form of the state.
func (s State) Draft() models.DraftRoutine {
	d := models.DraftRoutine{
		Name:         s.Name,
		Description:  s.Description,
		Duration:     s.Duration,
		Exercises:    s.Exercises,
		LastModified: models.Now(),
	}
	return d.Clone()
}

// Clone returns a copy that does not share the exercise slice.
func (s State) Clone() State {
	if s.Exercises != nil {
		s.Exercises = append([]models.RoutineExercise(nil), s.Exercises...)
	}
	return s
}

// Effect is what the controller must do after a reduction.
type Effect int

const (
	EffectNone Effect = iota
	EffectPersist
)

// Action is an input to Reduce.
type Action interface {
	isAction()
}

type (
	SetName          struct{ Name string }
	SetDescription   struct{ Description string }
	SetDuration      struct{ Duration string }
	AddExercise      struct{ Entry models.RoutineExercise }
	RemoveExercise   struct{ Index int }
	DraftLoaded      struct{ Draft *models.DraftRoutine }
	SetAuthenticated struct{ Authenticated bool }
	Reset            struct{}
	ShowSelection    struct{}
	FinishSelection  struct{}
	HideSelection    struct{}
	ConsumeMessage   struct{}
)

func (SetName) isAction()          {}
func (SetDescription) isAction()   {}
func (SetDuration) isAction()      {}
func (AddExercise) isAction()      {}
func (RemoveExercise) isAction()   {}
func (DraftLoaded) isAction()      {}
func (SetAuthenticated) isAction() {}
func (Reset) isAction()            {}
func (ShowSelection) isAction()    {}
func (FinishSelection) isAction()  {}
func (HideSelection) isAction()    {}
func (ConsumeMessage) isAction()   {}

// Reduce applies a to s. The returned state never shares its exercise slice with s.
func Reduce(s State, a Action) (State, Effect) {
	s = s.Clone()

	switch a := a.(type) {
	case SetName:
		s.Name = a.Name
		return s, persistIfLoaded(s)

	case SetDescription:
		s.Description = a.Description
		return s, persistIfLoaded(s)

	case SetDuration:
		s.Duration = a.Duration
		return s, persistIfLoaded(s)

	case AddExercise:
		if !s.Authenticated {
			s.Message = MsgSignInToAdd
			return s, EffectNone
		}
		s.Exercises = append(s.Exercises, a.Entry)
		s.ShowEmptyState = false
		s.ShowRoutineForm = true
		s.Message = fmt.Sprintf("Exercise %s added", a.Entry.Exercise.Name)
		return s, persistIfLoaded(s)

	case RemoveExercise:
		if a.Index < 0 || a.Index >= len(s.Exercises) {
			return s, EffectNone
		}
		s.Exercises = append(s.Exercises[:a.Index], s.Exercises[a.Index+1:]...)
		if len(s.Exercises) == 0 {
			s.Exercises = nil
		}
		return s, persistIfLoaded(s)

	case DraftLoaded:
		s = resetFields(s)
		s.Loaded = true
		if a.Draft != nil {
			s.Name = a.Draft.Name
			s.Description = a.Draft.Description
			s.Duration = a.Draft.Duration
			s.Exercises = a.Draft.Clone().Exercises
			if len(s.Exercises) > 0 {
				s.ShowEmptyState = false
				s.ShowRoutineForm = true
			}
		}
		return s, EffectNone

	case SetAuthenticated:
		s.Authenticated = a.Authenticated
		return s, EffectNone

	case Reset:
		return resetFields(s), EffectNone

	case ShowSelection:
		if !s.Authenticated {
			s.Message = MsgSignInToAdd
			return s, EffectNone
		}
		s.ShowExerciseSelection = true
		s.ShowEmptyState = false
		return s, EffectNone

	case FinishSelection:
		s.ShowExerciseSelection = false
		s.ShowEmptyState = len(s.Exercises) == 0
		if len(s.Exercises) > 0 {
			s.ShowRoutineForm = true
		}
		return s, EffectNone

	case HideSelection:
		s.ShowExerciseSelection = false
		s.ShowEmptyState = len(s.Exercises) == 0
		return s, EffectNone

	case ConsumeMessage:
		s.Message = ""
		return s, EffectNone
	}

	return s, EffectNone
}

// resetFields empties the draft fields and returns the editor to its empty view.
func resetFields(s State) State {
	s.Name = ""
	s.Description = ""
	s.Duration = ""
	s.Exercises = nil
	s.ShowRoutineForm = false
	s.ShowExerciseSelection = false
	s.ShowEmptyState = true
	return s
}

func persistIfLoaded(s State) Effect {
	if s.Loaded {
		return EffectPersist
	}
	return EffectNone
}
