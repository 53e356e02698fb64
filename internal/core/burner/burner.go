// Package burner defines the task-triage domain model: items, subtasks,
// the three priority slots, sessions, and the persisted application state.
package burner

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of an item.
type Status string

const (
	StatusOpen    Status = "open"
	StatusDone    Status = "done"
	StatusSnoozed Status = "snoozed"
	// StatusDropped marks an item that was involuntarily displaced by a
	// demotion or a rollover downgrade, as opposed to user-chosen done/snoozed.
	StatusDropped Status = "dropped"
)

// IsValid reports whether s is a known item status.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusDone, StatusSnoozed, StatusDropped:
		return true
	}
	return false
}

// SlotType identifies one of the three fixed task containers.
type SlotType string

const (
	SlotFront SlotType = "front"
	SlotBack  SlotType = "back"
	SlotSink  SlotType = "sink"
)

// IsValid reports whether t is a known slot type.
func (t SlotType) IsValid() bool {
	switch t {
	case SlotFront, SlotBack, SlotSink:
		return true
	}
	return false
}

// SlotTypes lists the slot types in priority order, highest first.
func SlotTypes() []SlotType {
	return []SlotType{SlotFront, SlotBack, SlotSink}
}

// PeriodType is the length of a session period.
type PeriodType string

const (
	PeriodDay  PeriodType = "day"
	PeriodWeek PeriodType = "week"
)

// IsValid reports whether p is a known period type.
func (p PeriodType) IsValid() bool {
	return p == PeriodDay || p == PeriodWeek
}

// Subtask is a checklist entry owned by its parent item. Subtasks have no
// independent lifecycle; they are created and deleted only through item
// mutations.
type Subtask struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Status  Status `json:"status"` // open or done only
}

// Item is a single task. An item lives in exactly one slot of the current
// session at any time; identity is the ID, never structural.
type Item struct {
	ID       string     `json:"id"`
	Content  string     `json:"content"`
	Status   Status     `json:"status"`
	DueAt    *time.Time `json:"dueAt,omitempty"`
	Subtasks []Subtask  `json:"subtasks,omitempty"`
}

// Slot is one of the three task containers. The front slot holds at most
// one item; that cap is enforced by the promotion transition, not here.
type Slot struct {
	Type  SlotType `json:"type"`
	Title string   `json:"title,omitempty"`
	Notes string   `json:"notes,omitempty"`
	Items []Item   `json:"items"`
}

// SessionMeta describes a session. Immutable once the session is created.
type SessionMeta struct {
	StartedAt  time.Time  `json:"startedAt"`
	PeriodType PeriodType `json:"periodType"`
	Label      string     `json:"label,omitempty"`
	Reflection string     `json:"reflection,omitempty"`
}

// Session is one triage period. Exactly one session is current and mutable;
// archived sessions live in AppState.History and are never touched again.
type Session struct {
	ID    string      `json:"id"`
	Meta  SessionMeta `json:"meta"`
	Front Slot        `json:"front"`
	Back  Slot        `json:"back"`
	Sink  Slot        `json:"sink"`
}

// Settings are the persisted user preferences consumed by the rollover
// evaluator and by the session-reset defaults.
type Settings struct {
	DefaultPeriod           PeriodType `json:"defaultPeriod"`
	AutoDowngradeIncomplete bool       `json:"autoDowngradeIncomplete"`
	PushEnabled             bool       `json:"pushEnabled"`
}

// AppState is the top-level persisted aggregate. It has a single owner
// (the store) and is only ever mutated through store transitions.
type AppState struct {
	Current  Session   `json:"current"`
	History  []Session `json:"history"` // append-only, oldest first
	Settings Settings  `json:"settings"`
}

// NewSubtask creates an open subtask with a fresh id.
func NewSubtask(content string) Subtask {
	return Subtask{
		ID:      uuid.NewString(),
		Content: content,
		Status:  StatusOpen,
	}
}

// NewItem creates an open item with a fresh id. Each subtask string is
// wrapped as a fresh open subtask.
func NewItem(content string, subtasks []string) Item {
	item := Item{
		ID:      uuid.NewString(),
		Content: content,
		Status:  StatusOpen,
	}
	for _, sub := range subtasks {
		item.Subtasks = append(item.Subtasks, NewSubtask(sub))
	}
	return item
}

// NewSession creates an empty session starting at now.
func NewSession(now time.Time, period PeriodType) Session {
	return Session{
		ID: uuid.NewString(),
		Meta: SessionMeta{
			StartedAt:  now,
			PeriodType: period,
		},
		Front: Slot{Type: SlotFront},
		Back:  Slot{Type: SlotBack},
		Sink:  Slot{Type: SlotSink},
	}
}

// NewAppState creates the initial state for a first run: a single empty
// session plus the given settings.
func NewAppState(now time.Time, settings Settings) AppState {
	return AppState{
		Current:  NewSession(now, settings.DefaultPeriod),
		Settings: settings,
	}
}

// Slot returns a pointer to the session's slot of the given type, or nil
// for an unknown type.
func (s *Session) Slot(t SlotType) *Slot {
	switch t {
	case SlotFront:
		return &s.Front
	case SlotBack:
		return &s.Back
	case SlotSink:
		return &s.Sink
	}
	return nil
}

// ItemCount returns the total number of items across all three slots.
func (s *Session) ItemCount() int {
	return len(s.Front.Items) + len(s.Back.Items) + len(s.Sink.Items)
}

// Clone returns a deep copy of the subtask.
func (st Subtask) Clone() Subtask {
	return st
}

// Clone returns a deep copy of the item.
func (i Item) Clone() Item {
	out := i
	if i.DueAt != nil {
		due := *i.DueAt
		out.DueAt = &due
	}
	if i.Subtasks != nil {
		out.Subtasks = make([]Subtask, len(i.Subtasks))
		copy(out.Subtasks, i.Subtasks)
	}
	return out
}

// CloneItems returns a deep copy of a slice of items.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

// Clone returns a deep copy of the slot.
func (sl Slot) Clone() Slot {
	out := sl
	out.Items = CloneItems(sl.Items)
	return out
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	out := s
	out.Front = s.Front.Clone()
	out.Back = s.Back.Clone()
	out.Sink = s.Sink.Clone()
	return out
}

// Clone returns a deep copy of the whole application state.
func (a AppState) Clone() AppState {
	out := a
	out.Current = a.Current.Clone()
	if a.History != nil {
		out.History = make([]Session, len(a.History))
		for i, sess := range a.History {
			out.History[i] = sess.Clone()
		}
	}
	return out
}
