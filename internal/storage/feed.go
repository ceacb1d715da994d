// ABOUTME: DraftFeed broadcasts draft changes to subscribers, independent of the storage engine.
// ABOUTME: WatchDraftWith combines in-process notifications with periodic polling.
package storage

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/harperreed/routines/internal/models"
)

// DraftFeed fans out draft changes to every subscriber.
// Slow subscribers only ever see the most recent value.
type DraftFeed struct {
	mu     sync.Mutex
	subs   map[int]chan *models.DraftRoutine
	nextID int
	closed bool
}

// NewDraftFeed creates an empty feed.
func NewDraftFeed() *DraftFeed {
	return &DraftFeed{subs: make(map[int]chan *models.DraftRoutine)}
}

// Subscribe registers a subscriber. The returned cancel func must be called
// to release it.
func (f *DraftFeed) Subscribe() (<-chan *models.DraftRoutine, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan *models.DraftRoutine, 1)
	if f.closed {
		close(ch)
		return ch, func() {}
	}

	id := f.nextID
	f.nextID++
	f.subs[id] = ch

	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if c, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(c)
		}
	}
}

// Publish sends draft to every subscriber, replacing any value they have not read yet.
func (f *DraftFeed) Publish(draft *models.DraftRoutine) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.subs {
		select {
		case <-ch:
		default:
		}
		ch <- copyDraft(draft)
	}
}

// Close closes every subscriber channel; later subscriptions are closed immediately.
func (f *DraftFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	for id, ch := range f.subs {
		delete(f.subs, id)
		close(ch)
	}
}

// WatchDraftWith emits the current draft from read, then every change seen
// either on feed or by re-reading every interval. Consecutive equal values are
// collapsed. The returned channel closes when ctx is done or the feed closes.
func WatchDraftWith(ctx context.Context, feed *DraftFeed, interval time.Duration, read func(context.Context) (*models.DraftRoutine, error)) (<-chan *models.DraftRoutine, error) {
	current, err := read(ctx)
	if err != nil {
		return nil, err
	}

	updates, cancel := feed.Subscribe()
	out := make(chan *models.DraftRoutine, 1)
	out <- current

	go func() {
		defer close(out)
		defer cancel()

		var tick <-chan time.Time
		if interval > 0 {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		last := current
		emit := func(d *models.DraftRoutine) bool {
			if reflect.DeepEqual(last, d) {
				return true
			}
			last = d
			select {
			case out <- d:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-updates:
				if !ok {
					return
				}
				if !emit(d) {
					return
				}
			case <-tick:
				d, err := read(ctx)
				if err != nil {
					continue
				}
				if !emit(d) {
					return
				}
			}
		}
	}()

	return out, nil
}

func copyDraft(d *models.DraftRoutine) *models.DraftRoutine {
	if d == nil {
		return nil
	}
	c := d.Clone()
	return &c
}
