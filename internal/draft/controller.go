// ABOUTME: Draft controller: the single entry point that mutates draft state.
// ABOUTME: Persists full snapshots in the background; the newest edit always wins.
package draft

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/observability"
	"github.com/harperreed/routines/internal/storage"
)

const saveTimeout = 5 * time.Second

// Controller owns the draft editor state.
type Controller struct {
	store   storage.DraftStore
	metrics *observability.Metrics

	mu    sync.Mutex
	state State
	rev   uint64

	// writeMu serializes store writes; written is the newest revision
	// written or cleared, guarded by writeMu.
	writeMu sync.Mutex
	written uint64

	wg sync.WaitGroup
}

// NewController creates a controller in the unloaded state.
func NewController(store storage.DraftStore, metrics *observability.Metrics) *Controller {
	return &Controller{
		store:   store,
		metrics: metrics,
		state:   NewState(),
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Dispatch applies an action and schedules a save when the reducer asks for one.
func (c *Controller) Dispatch(a Action) State {
	c.mu.Lock()
	next, effect := Reduce(c.state, a)
	c.state = next
	var (
		rev      uint64
		snapshot models.DraftRoutine
	)
	if effect == EffectPersist {
		c.rev++
		rev = c.rev
		snapshot = next.Draft()
	}
	c.mu.Unlock()

	if effect == EffectPersist {
		c.wg.Add(1)
		go c.persist(rev, snapshot)
	}
	return next.Clone()
}

func (c *Controller) persist(rev uint64, snapshot models.DraftRoutine) {
	defer c.wg.Done()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if rev <= c.written {
		c.metrics.DraftAutosave(observability.ResultStale)
		return
	}
	c.written = rev

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := c.store.SaveDraft(ctx, snapshot); err != nil {
		log.WithError(err).WithField("revision", rev).Warn("draft autosave failed")
		c.metrics.DraftAutosave(observability.ResultError)
		return
	}
	c.metrics.DraftAutosave(observability.ResultOK)
}

// Flush waits for every scheduled save to finish.
func (c *Controller) Flush() {
	c.wg.Wait()
}

// Load reads the stored draft once and marks the state loaded. A read error
// is logged and leaves the fields empty; the state is loaded either way.
func (c *Controller) Load(ctx context.Context) State {
	d, err := c.store.GetDraftOnce(ctx)
	if err != nil {
		log.WithError(err).Warn("loading draft failed")
		d = nil
	}
	return c.Dispatch(DraftLoaded{Draft: d})
}

// SetAuthenticated records whether a signed-in session exists.
func (c *Controller) SetAuthenticated(ok bool) State {
	return c.Dispatch(SetAuthenticated{Authenticated: ok})
}

// UpdateName sets the routine name.
func (c *Controller) UpdateName(name string) State {
	return c.Dispatch(SetName{Name: name})
}

// UpdateDescription sets the routine description.
func (c *Controller) UpdateDescription(desc string) State {
	return c.Dispatch(SetDescription{Description: desc})
}

// UpdateDuration sets the routine duration.
func (c *Controller) UpdateDuration(duration string) State {
	return c.Dispatch(SetDuration{Duration: duration})
}

// AddExercise appends an entry built from raw sets, reps and rest input.
func (c *Controller) AddExercise(e models.Exercise, sets, reps, restTime string) State {
	return c.Dispatch(AddExercise{Entry: models.NewRoutineExercise(e, sets, reps, restTime)})
}

// RemoveExercise removes the entry at index. Out of range indexes are ignored.
func (c *Controller) RemoveExercise(index int) State {
	return c.Dispatch(RemoveExercise{Index: index})
}

// BeginSelection opens exercise selection. Without a session it stays closed
// and the state carries MsgSignInToAdd.
func (c *Controller) BeginSelection() State {
	return c.Dispatch(ShowSelection{})
}

// FinishSelection closes exercise selection after entries were added.
func (c *Controller) FinishSelection() State {
	return c.Dispatch(FinishSelection{})
}

// CancelSelection closes exercise selection without adding anything.
func (c *Controller) CancelSelection() State {
	return c.Dispatch(HideSelection{})
}

// TakeMessage returns the pending user message and clears it.
func (c *Controller) TakeMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := c.state.Message
	c.state, _ = Reduce(c.state, ConsumeMessage{})
	return msg
}

// Clear deletes the stored draft and resets the editor. Once the delete
// succeeds, saves still pending are discarded. On a storage error the state
// and pending saves are left alone.
func (c *Controller) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.rev++
	rev := c.rev
	c.mu.Unlock()

	c.writeMu.Lock()
	err := c.store.ClearDraft(ctx)
	if err == nil && rev > c.written {
		c.written = rev
	}
	c.writeMu.Unlock()

	if err != nil {
		log.WithError(err).Warn("clearing draft failed")
		return fmt.Errorf("clear draft: %w", err)
	}

	c.Dispatch(Reset{})
	return nil
}
