// Package suggest implements the debounced location-autocomplete session:
// keystrokes restart a fixed debounce window, only the text present when the
// window elapses triggers a lookup, and only the most recently issued lookup
// may update the visible list (stale responses are dropped by generation
// comparison rather than cancelled).
package suggest

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Akash17891234/weather-app-assessment/internal/weather"
)

// DefaultDebounce is the settle window applied after each keystroke.
const DefaultDebounce = 300 * time.Millisecond

// minQueryLen is the shortest input that triggers a lookup.
const minQueryLen = 2

// State is the controller's position in the input session.
type State int

const (
	StateIdle State = iota
	StateDebouncing
	StateSearching
	StateListing
)

// Searcher performs a suggestion lookup. Satisfied by weather.Gateway; its
// soft-failure contract means errors here behave as "no suggestions".
type Searcher interface {
	SearchLocations(ctx context.Context, query string) ([]weather.LocationSuggestion, error)
}

// Controller tracks one input session. All mutating methods are safe to call
// from the UI event path while lookups complete on timer goroutines.
type Controller struct {
	searcher Searcher
	debounce time.Duration
	log      *slog.Logger

	// OnUpdate, when set, is invoked with a snapshot of the suggestion list
	// after every visible change. It is called without the controller lock
	// held, so it may call back into the controller.
	OnUpdate func(suggestions []weather.LocationSuggestion, visible bool)

	mu          sync.Mutex
	gen         uint64
	state       State
	timer       *time.Timer
	suggestions []weather.LocationSuggestion
	visible     bool
}

// New constructs a Controller with the default 300ms debounce.
func New(searcher Searcher, log *slog.Logger) *Controller {
	return NewWithDebounce(searcher, DefaultDebounce, log)
}

// NewWithDebounce constructs a Controller with a custom debounce window (for tests).
func NewWithDebounce(searcher Searcher, debounce time.Duration, log *slog.Logger) *Controller {
	return &Controller{
		searcher: searcher,
		debounce: debounce,
		log:      log,
		state:    StateIdle,
	}
}

// Input registers a keystroke. Each call restarts the debounce window and
// invalidates any in-flight lookup. Input shorter than two runes goes
// straight to Idle with an empty list.
func (c *Controller) Input(text string) {
	c.mu.Lock()
	c.stopTimerLocked()
	c.gen++

	if utf8.RuneCountInString(text) < minQueryLen {
		c.state = StateIdle
		c.suggestions = nil
		c.visible = false
		c.notifyAfter(c.mu.Unlock)
		return
	}

	c.state = StateDebouncing
	gen := c.gen
	c.timer = time.AfterFunc(c.debounce, func() { c.lookup(gen, text) })
	c.mu.Unlock()
}

// Select accepts a suggestion: the list is cleared and the session returns to
// Idle immediately, bypassing any pending debounce.
func (c *Controller) Select(weather.LocationSuggestion) {
	c.mu.Lock()
	c.stopTimerLocked()
	c.gen++
	c.state = StateIdle
	c.suggestions = nil
	c.visible = false
	c.notifyAfter(c.mu.Unlock)
}

// Dismiss hides the list without clearing it, e.g. on focus loss. The query
// text is untouched and a later Focus can reshow the same suggestions.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	c.visible = false
	c.notifyAfter(c.mu.Unlock)
}

// Focus reshows the list when there is something to show.
func (c *Controller) Focus() {
	c.mu.Lock()
	c.visible = len(c.suggestions) > 0
	c.notifyAfter(c.mu.Unlock)
}

// Suggestions returns a copy of the current suggestion list.
func (c *Controller) Suggestions() []weather.LocationSuggestion {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]weather.LocationSuggestion, len(c.suggestions))
	copy(out, c.suggestions)
	return out
}

// Visible reports whether the list should be shown.
func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// State returns the session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close cancels any pending debounce. Late lookup results are still dropped
// by the generation check.
func (c *Controller) Close() {
	c.mu.Lock()
	c.stopTimerLocked()
	c.gen++
	c.state = StateIdle
	c.mu.Unlock()
}

// lookup runs when the debounce window elapses. gen pins the keystroke that
// scheduled it: any newer Input, Select or Close supersedes this lookup and
// its result must not touch visible state.
func (c *Controller) lookup(gen uint64, query string) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.state = StateSearching
	c.mu.Unlock()

	results, err := c.searcher.SearchLocations(context.Background(), query)
	if err != nil {
		// Soft contract: a failed lookup is indistinguishable from "no
		// suggestions", never a user-facing error.
		c.log.Warn("suggestion lookup degraded", "query", query, "err", err)
		results = nil
	}

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.suggestions = results
	c.visible = len(results) > 0
	if len(results) > 0 {
		c.state = StateListing
	} else {
		c.state = StateIdle
	}
	c.notifyAfter(c.mu.Unlock)
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// notifyAfter snapshots the visible state, runs unlock, then fires OnUpdate
// outside the lock.
func (c *Controller) notifyAfter(unlock func()) {
	onUpdate := c.OnUpdate
	visible := c.visible
	snapshot := make([]weather.LocationSuggestion, len(c.suggestions))
	copy(snapshot, c.suggestions)
	unlock()

	if onUpdate != nil {
		onUpdate(snapshot, visible)
	}
}
