// Package store owns the application state and exposes every mutation as
// an atomic transition. Transitions are total: operating on an unknown id
// or slot is a silent no-op, never an error.
//
// After each state-changing transition the store notifies subscribers and
// writes the whole state through to the persister. A persistence failure
// is surfaced as the transition's returned error, but it is a warning
// only: the in-memory state has already advanced and stays authoritative.
package store

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/burner/internal/core/burner"
	"github.com/colonyops/burner/internal/core/logging"
)

// Persister is the durable storage contract the store writes through to.
// Load returns ok=false when nothing has been stored yet.
type Persister interface {
	Load() (state burner.AppState, ok bool, err error)
	Save(state burner.AppState) error
}

// PersistError reports that a transition completed in memory but the
// write-through to durable storage failed. Callers should treat it as a
// warning, not a failed transition.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return "persist state: " + e.Err.Error()
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// Subscriber is a callback invoked with a snapshot after every
// state-changing transition. The snapshot is a deep copy shared by all
// subscribers of that transition; treat it as read-only.
type Subscriber func(burner.AppState)

// Store is the single owner of the application state.
type Store struct {
	mu        sync.Mutex
	state     burner.AppState
	index     map[string]burner.SlotType // item id -> owning slot in the current session
	persister Persister
	subs      []Subscriber
	now       func() time.Time
	log       zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock used for session start times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a store hydrated from the persister. A nil persister keeps
// the state in memory only. When the persister has nothing stored, or its
// contents cannot be decoded, the store starts from a fresh state built
// with the given settings rather than failing.
func New(p Persister, defaults burner.Settings, opts ...Option) *Store {
	s := &Store{
		persister: p,
		now:       time.Now,
		log:       logging.Component("store"),
	}
	for _, opt := range opts {
		opt(s)
	}

	loaded := false
	if p != nil {
		state, ok, err := p.Load()
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("stored state unreadable, starting fresh")
		case ok:
			s.state = state
			loaded = true
		}
	}

	if !loaded {
		if !defaults.DefaultPeriod.IsValid() {
			defaults.DefaultPeriod = burner.PeriodDay
		}
		s.state = burner.NewAppState(s.now(), defaults)
	}

	s.normalize()
	return s
}

// State returns a deep copy of the current application state.
func (s *Store) State() burner.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Settings returns the current settings.
func (s *Store) Settings() burner.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings
}

// Locate returns the slot currently holding the item with the given id.
func (s *Store) Locate(itemID string) (burner.SlotType, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.index[itemID]
	return t, ok
}

// Reload rehydrates the in-memory state from the persister. Used when
// another process rewrote the stored state. An unreadable or empty store
// leaves the current state untouched.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persister == nil {
		return nil
	}
	state, ok, err := s.persister.Load()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	s.state = state
	s.normalize()

	snapshot := s.state.Clone()
	for _, fn := range s.subs {
		fn(snapshot)
	}
	return nil
}

// Subscribe registers a callback invoked after every state-changing
// transition. Callbacks run inline on the mutating goroutine.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// commit notifies subscribers and writes the state through to the
// persister. Must be called with the mutex held. The in-memory transition
// is complete before the durable write is attempted, so a save failure is
// returned as a warning, not rolled back.
func (s *Store) commit() error {
	snapshot := s.state.Clone()
	for _, fn := range s.subs {
		fn(snapshot)
	}

	if s.persister == nil {
		return nil
	}
	if err := s.persister.Save(snapshot); err != nil {
		s.log.Warn().Err(err).Msg("state persisted in memory only")
		return &PersistError{Err: err}
	}
	return nil
}

// normalize repairs a freshly hydrated state: slot type tags are fixed up,
// invalid enum values fall back to defaults, and duplicate item ids are
// dropped so the one-slot-per-id invariant holds mechanically. Must be
// called with exclusive access to the state.
func (s *Store) normalize() {
	cur := &s.state.Current

	for _, t := range burner.SlotTypes() {
		cur.Slot(t).Type = t
	}
	if !cur.Meta.PeriodType.IsValid() {
		cur.Meta.PeriodType = burner.PeriodDay
	}
	if !s.state.Settings.DefaultPeriod.IsValid() {
		s.state.Settings.DefaultPeriod = burner.PeriodDay
	}

	s.rebuildIndex()
}

// rebuildIndex reconstructs the id -> slot index from the current session,
// discarding any item whose id was already seen in an earlier slot.
func (s *Store) rebuildIndex() {
	s.index = make(map[string]burner.SlotType)
	for _, t := range burner.SlotTypes() {
		slot := s.state.Current.Slot(t)
		var kept []burner.Item
		for _, item := range slot.Items {
			if _, dup := s.index[item.ID]; dup {
				s.log.Warn().Str("item", item.ID).Str("slot", string(t)).
					Msg("duplicate item id dropped during load")
				continue
			}
			s.index[item.ID] = t
			kept = append(kept, item)
		}
		slot.Items = kept
	}
}
