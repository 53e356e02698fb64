package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/colonyops/burner/internal/core/burner"
	"github.com/colonyops/burner/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memPersister is an in-memory Persister for exercising the write-through
// and hydration paths.
type memPersister struct {
	state   burner.AppState
	ok      bool
	loadErr error
	saveErr error
	saves   int
}

func (m *memPersister) Load() (burner.AppState, bool, error) {
	return m.state, m.ok, m.loadErr
}

func (m *memPersister) Save(state burner.AppState) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.state = state
	m.ok = true
	m.saves++
	return nil
}

func defaults() burner.Settings {
	return burner.Settings{
		DefaultPeriod:           burner.PeriodDay,
		AutoDowngradeIncomplete: true,
	}
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(nil, defaults())
}

// checkInvariant asserts that every item id appears in at most one slot.
func checkInvariant(t *testing.T, s *store.Store) {
	t.Helper()
	seen := make(map[string]burner.SlotType)
	state := s.State()
	for _, st := range burner.SlotTypes() {
		for _, item := range state.Current.Slot(st).Items {
			prev, dup := seen[item.ID]
			require.False(t, dup, "item %s in both %s and %s", item.ID, prev, st)
			seen[item.ID] = st
		}
	}
}

func TestAddItem(t *testing.T) {
	s := newStore(t)

	item, err := s.AddItem(burner.SlotSink, "Buy milk", nil)
	require.NoError(t, err)

	state := s.State()
	require.Len(t, state.Current.Sink.Items, 1)
	got := state.Current.Sink.Items[0]
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, "Buy milk", got.Content)
	assert.Equal(t, burner.StatusOpen, got.Status)
	assert.Empty(t, state.Current.Front.Items)
	assert.Empty(t, state.Current.Back.Items)
}

func TestAddItem_WithSubtasks(t *testing.T) {
	s := newStore(t)

	item, err := s.AddItem(burner.SlotBack, "Ship release", []string{"tag", "changelog"})
	require.NoError(t, err)

	require.Len(t, item.Subtasks, 2)
	assert.Equal(t, "tag", item.Subtasks[0].Content)
	assert.Equal(t, burner.StatusOpen, item.Subtasks[0].Status)
	assert.Equal(t, "changelog", item.Subtasks[1].Content)
}

func TestAddItem_DuplicateContentAllowed(t *testing.T) {
	s := newStore(t)

	a, err := s.AddItem(burner.SlotSink, "same", nil)
	require.NoError(t, err)
	b, err := s.AddItem(burner.SlotSink, "same", nil)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, s.State().Current.Sink.Items, 2)
}

func TestAddItem_InvalidSlotIsNoop(t *testing.T) {
	s := newStore(t)
	before := s.State()

	item, err := s.AddItem(burner.SlotType("attic"), "lost", nil)
	require.NoError(t, err)
	assert.Empty(t, item.ID)
	assert.Equal(t, before, s.State())
}

func TestUpdateItem(t *testing.T) {
	s := newStore(t)
	item, _ := s.AddItem(burner.SlotSink, "draft", nil)

	content := "final"
	status := burner.StatusDone
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpdateItem(burner.SlotSink, item.ID, store.ItemPatch{
		Content: &content,
		Status:  &status,
		DueAt:   &due,
	}))

	got := s.State().Current.Sink.Items[0]
	assert.Equal(t, "final", got.Content)
	assert.Equal(t, burner.StatusDone, got.Status)
	require.NotNil(t, got.DueAt)
	assert.Equal(t, due, *got.DueAt)

	require.NoError(t, s.UpdateItem(burner.SlotSink, item.ID, store.ItemPatch{ClearDueAt: true}))
	assert.Nil(t, s.State().Current.Sink.Items[0].DueAt)
}

func TestUpdateItem_WrongSlotIsNoop(t *testing.T) {
	s := newStore(t)
	item, _ := s.AddItem(burner.SlotSink, "task", nil)
	before := s.State()

	// The item lives in sink; addressing it through back must not touch it.
	content := "changed"
	require.NoError(t, s.UpdateItem(burner.SlotBack, item.ID, store.ItemPatch{Content: &content}))

	assert.Equal(t, before, s.State())
}

func TestDeleteItem(t *testing.T) {
	s := newStore(t)
	item, _ := s.AddItem(burner.SlotSink, "task", nil)

	require.NoError(t, s.DeleteItem(burner.SlotSink, item.ID))
	assert.Empty(t, s.State().Current.Sink.Items)

	_, ok := s.Locate(item.ID)
	assert.False(t, ok)

	// Deleting again is a no-op.
	before := s.State()
	require.NoError(t, s.DeleteItem(burner.SlotSink, item.ID))
	assert.Equal(t, before, s.State())
}

func TestMoveItem(t *testing.T) {
	s := newStore(t)
	item, _ := s.AddItem(burner.SlotSink, "task", nil)

	require.NoError(t, s.MoveItem(burner.SlotSink, burner.SlotBack, item.ID))

	state := s.State()
	assert.Empty(t, state.Current.Sink.Items)
	require.Len(t, state.Current.Back.Items, 1)
	assert.Equal(t, item.ID, state.Current.Back.Items[0].ID)
	checkInvariant(t, s)
}

func TestMoveItem_DoesNotEnforceFrontCap(t *testing.T) {
	s := newStore(t)
	a, _ := s.AddItem(burner.SlotFront, "a", nil)
	b, _ := s.AddItem(burner.SlotSink, "b", nil)

	// Moving straight into front bypasses the promotion transition and its
	// single-item rule on purpose.
	require.NoError(t, s.MoveItem(burner.SlotSink, burner.SlotFront, b.ID))

	front := s.State().Current.Front.Items
	require.Len(t, front, 2)
	assert.Equal(t, a.ID, front[0].ID)
	assert.Equal(t, b.ID, front[1].ID)
	checkInvariant(t, s)
}

func TestMoveItem_AbsentFromSourceIsNoop(t *testing.T) {
	s := newStore(t)
	item, _ := s.AddItem(burner.SlotSink, "task", nil)
	before := s.State()

	require.NoError(t, s.MoveItem(burner.SlotBack, burner.SlotFront, item.ID))
	assert.Equal(t, before, s.State())
}

func TestPromoteItem_SinkToBack(t *testing.T) {
	s := newStore(t)
	x, _ := s.AddItem(burner.SlotSink, "X", nil)

	require.NoError(t, s.PromoteItem(x.ID))

	state := s.State()
	assert.Empty(t, state.Current.Sink.Items)
	require.Len(t, state.Current.Back.Items, 1)
	assert.Equal(t, x.ID, state.Current.Back.Items[0].ID)
	assert.Equal(t, burner.StatusOpen, state.Current.Back.Items[0].Status)
}

func TestPromoteItem_BackToFront_DisplacesExisting(t *testing.T) {
	s := newStore(t)
	a, _ := s.AddItem(burner.SlotFront, "A", nil)
	b, _ := s.AddItem(burner.SlotBack, "B", nil)

	require.NoError(t, s.PromoteItem(b.ID))

	state := s.State()
	require.Len(t, state.Current.Front.Items, 1)
	assert.Equal(t, b.ID, state.Current.Front.Items[0].ID)
	assert.Equal(t, burner.StatusOpen, state.Current.Front.Items[0].Status)

	require.Len(t, state.Current.Back.Items, 1)
	assert.Equal(t, a.ID, state.Current.Back.Items[0].ID)
	assert.Equal(t, burner.StatusDropped, state.Current.Back.Items[0].Status)

	checkInvariant(t, s)
}

func TestPromoteItem_BackToEmptyFront(t *testing.T) {
	s := newStore(t)
	b, _ := s.AddItem(burner.SlotBack, "B", nil)

	require.NoError(t, s.PromoteItem(b.ID))

	state := s.State()
	require.Len(t, state.Current.Front.Items, 1)
	assert.Empty(t, state.Current.Back.Items)
}

func TestPromoteItem_FrontCapAfterPromote(t *testing.T) {
	s := newStore(t)
	for _, content := range []string{"one", "two", "three"} {
		_, err := s.AddItem(burner.SlotSink, content, nil)
		require.NoError(t, err)
	}

	// Walk every item all the way to front; the cap must hold after each
	// promotion.
	for _, item := range s.State().Current.Sink.Items {
		require.NoError(t, s.PromoteItem(item.ID))
		require.NoError(t, s.PromoteItem(item.ID))
		assert.LessOrEqual(t, len(s.State().Current.Front.Items), 1)
		checkInvariant(t, s)
	}
}

func TestPromoteItem_AlreadyFrontIsNoop(t *testing.T) {
	s := newStore(t)
	a, _ := s.AddItem(burner.SlotFront, "A", nil)
	before := s.State()

	require.NoError(t, s.PromoteItem(a.ID))
	assert.Equal(t, before, s.State())
}

func TestPromoteItem_UnknownIsNoop(t *testing.T) {
	s := newStore(t)
	s.AddItem(burner.SlotSink, "task", nil)
	before := s.State()

	require.NoError(t, s.PromoteItem("nope"))
	assert.Equal(t, before, s.State())
}

func TestDemoteItem_FrontToBack(t *testing.T) {
	s := newStore(t)
	a, _ := s.AddItem(burner.SlotFront, "A", nil)

	require.NoError(t, s.DemoteItem(a.ID))

	state := s.State()
	assert.Empty(t, state.Current.Front.Items)
	require.Len(t, state.Current.Back.Items, 1)
	assert.Equal(t, burner.StatusDropped, state.Current.Back.Items[0].Status)
}

func TestDemoteItem_BackToSink(t *testing.T) {
	s := newStore(t)
	b, _ := s.AddItem(burner.SlotBack, "B", nil)

	require.NoError(t, s.DemoteItem(b.ID))

	state := s.State()
	assert.Empty(t, state.Current.Back.Items)
	require.Len(t, state.Current.Sink.Items, 1)
	assert.Equal(t, burner.StatusDropped, state.Current.Sink.Items[0].Status)
}

func TestDemoteItem_AlreadySinkIsNoop(t *testing.T) {
	s := newStore(t)
	c, _ := s.AddItem(burner.SlotSink, "C", nil)
	before := s.State()

	require.NoError(t, s.DemoteItem(c.ID))
	assert.Equal(t, before, s.State())
}

func TestDemoteItem_UnknownIsNoop(t *testing.T) {
	s := newStore(t)
	s.AddItem(burner.SlotFront, "A", nil)
	s.AddItem(burner.SlotBack, "B", nil)
	before := s.State()

	require.NoError(t, s.DemoteItem("missing"))
	assert.Equal(t, before, s.State())
}

func TestToggleSubtask(t *testing.T) {
	s := newStore(t)
	item, _ := s.AddItem(burner.SlotFront, "task", []string{"step"})
	sub := item.Subtasks[0]

	require.NoError(t, s.ToggleSubtask(item.ID, sub.ID))
	assert.Equal(t, burner.StatusDone, s.State().Current.Front.Items[0].Subtasks[0].Status)

	require.NoError(t, s.ToggleSubtask(item.ID, sub.ID))
	assert.Equal(t, burner.StatusOpen, s.State().Current.Front.Items[0].Subtasks[0].Status)
}

func TestToggleSubtask_SinkOutOfScope(t *testing.T) {
	s := newStore(t)
	item, _ := s.AddItem(burner.SlotBack, "task", []string{"step"})
	sub := item.Subtasks[0]
	require.NoError(t, s.DemoteItem(item.ID)) // now in sink, subtasks intact
	before := s.State()

	require.NoError(t, s.ToggleSubtask(item.ID, sub.ID))
	assert.Equal(t, before, s.State())

	// Promoting back out of the sink makes the subtask reachable again.
	require.NoError(t, s.PromoteItem(item.ID))
	require.NoError(t, s.ToggleSubtask(item.ID, sub.ID))
	assert.Equal(t, burner.StatusDone, s.State().Current.Back.Items[0].Subtasks[0].Status)
}

func TestToggleSubtask_UnknownSubtaskIsNoop(t *testing.T) {
	s := newStore(t)
	item, _ := s.AddItem(burner.SlotFront, "task", []string{"step"})
	before := s.State()

	require.NoError(t, s.ToggleSubtask(item.ID, "missing"))
	assert.Equal(t, before, s.State())
}

func TestAddSubtask(t *testing.T) {
	s := newStore(t)
	item, _ := s.AddItem(burner.SlotBack, "task", nil)

	sub, err := s.AddSubtask(item.ID, "new step")
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, burner.StatusOpen, sub.Status)

	got := s.State().Current.Back.Items[0]
	require.Len(t, got.Subtasks, 1)
	assert.Equal(t, "new step", got.Subtasks[0].Content)
}

func TestAddSubtask_SinkOutOfScope(t *testing.T) {
	s := newStore(t)
	item, _ := s.AddItem(burner.SlotSink, "task", nil)
	before := s.State()

	sub, err := s.AddSubtask(item.ID, "unreachable")
	require.NoError(t, err)
	assert.Empty(t, sub.ID)
	assert.Equal(t, before, s.State())
}

func TestState_ReturnsIsolatedCopy(t *testing.T) {
	s := newStore(t)
	s.AddItem(burner.SlotFront, "task", []string{"step"})

	state := s.State()
	state.Current.Front.Items[0].Content = "tampered"
	state.Current.Front.Items[0].Subtasks[0].Status = burner.StatusDone
	state.Settings.PushEnabled = true

	fresh := s.State()
	assert.Equal(t, "task", fresh.Current.Front.Items[0].Content)
	assert.Equal(t, burner.StatusOpen, fresh.Current.Front.Items[0].Subtasks[0].Status)
	assert.False(t, fresh.Settings.PushEnabled)
}

func TestSubscribe_NotifiedOnTransitions(t *testing.T) {
	s := newStore(t)

	var got []burner.AppState
	s.Subscribe(func(state burner.AppState) {
		got = append(got, state)
	})

	item, _ := s.AddItem(burner.SlotSink, "task", nil)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Current.Sink.Items, 1)

	// No-op transitions do not notify.
	require.NoError(t, s.PromoteItem("missing"))
	assert.Len(t, got, 1)

	require.NoError(t, s.PromoteItem(item.ID))
	assert.Len(t, got, 2)
}

func TestWriteThrough_SavesAfterEveryTransition(t *testing.T) {
	p := &memPersister{}
	s := store.New(p, defaults())

	item, err := s.AddItem(burner.SlotSink, "task", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, p.saves)

	require.NoError(t, s.PromoteItem(item.ID))
	assert.Equal(t, 2, p.saves)
	require.Len(t, p.state.Current.Back.Items, 1)

	// No-ops do not hit the persister.
	require.NoError(t, s.PromoteItem("missing"))
	assert.Equal(t, 2, p.saves)
}

func TestWriteThrough_FailureIsNonFatal(t *testing.T) {
	p := &memPersister{saveErr: errors.New("disk full")}
	s := store.New(p, defaults())

	item, err := s.AddItem(burner.SlotSink, "task", nil)
	assert.ErrorContains(t, err, "disk full")

	// In-memory state is authoritative despite the failed write.
	assert.NotEmpty(t, item.ID)
	assert.Len(t, s.State().Current.Sink.Items, 1)
}

func TestNew_HydratesFromPersister(t *testing.T) {
	p := &memPersister{}
	first := store.New(p, defaults())
	item, err := first.AddItem(burner.SlotBack, "persisted", nil)
	require.NoError(t, err)

	second := store.New(p, defaults())
	state := second.State()
	require.Len(t, state.Current.Back.Items, 1)
	assert.Equal(t, item.ID, state.Current.Back.Items[0].ID)

	slot, ok := second.Locate(item.ID)
	require.True(t, ok)
	assert.Equal(t, burner.SlotBack, slot)
}

func TestNew_LoadErrorFallsBackToDefaults(t *testing.T) {
	p := &memPersister{loadErr: errors.New("corrupt blob")}
	s := store.New(p, defaults())

	state := s.State()
	assert.Zero(t, state.Current.ItemCount())
	assert.Empty(t, state.History)
	assert.Equal(t, burner.PeriodDay, state.Settings.DefaultPeriod)
}

func TestNew_DropsDuplicateIDsOnLoad(t *testing.T) {
	now := time.Now()
	stored := burner.NewAppState(now, defaults())
	item := burner.NewItem("twice", nil)
	stored.Current.Front.Items = []burner.Item{item}
	stored.Current.Sink.Items = []burner.Item{item}

	s := store.New(&memPersister{state: stored, ok: true}, defaults())

	state := s.State()
	assert.Len(t, state.Current.Front.Items, 1)
	assert.Empty(t, state.Current.Sink.Items)
	checkInvariant(t, s)
}

func TestUpdateSettings(t *testing.T) {
	s := newStore(t)

	week := burner.PeriodWeek
	push := true
	require.NoError(t, s.UpdateSettings(store.SettingsPatch{
		DefaultPeriod: &week,
		PushEnabled:   &push,
	}))

	got := s.Settings()
	assert.Equal(t, burner.PeriodWeek, got.DefaultPeriod)
	assert.True(t, got.PushEnabled)
	// Untouched field keeps its value.
	assert.True(t, got.AutoDowngradeIncomplete)

	// Empty patch is a no-op.
	before := s.State()
	require.NoError(t, s.UpdateSettings(store.SettingsPatch{}))
	assert.Equal(t, before, s.State())
}

func TestStore_Reload(t *testing.T) {
	t.Run("picks up external writes", func(t *testing.T) {
		p := &memPersister{}
		s := store.New(p, defaults())

		// Another process writes a richer state behind our back.
		other := store.New(nil, defaults())
		item, err := other.AddItem(burner.SlotBack, "written elsewhere", nil)
		require.NoError(t, err)
		p.state = other.State()
		p.ok = true

		require.NoError(t, s.Reload())

		slot, ok := s.Locate(item.ID)
		require.True(t, ok)
		assert.Equal(t, burner.SlotBack, slot)
	})

	t.Run("load error keeps current state", func(t *testing.T) {
		p := &memPersister{}
		s := store.New(p, defaults())
		item, err := s.AddItem(burner.SlotSink, "survives", nil)
		require.NoError(t, err)

		p.loadErr = errors.New("corrupt blob")
		require.Error(t, s.Reload())

		_, ok := s.Locate(item.ID)
		assert.True(t, ok)
	})

	t.Run("nil persister is a no-op", func(t *testing.T) {
		s := store.New(nil, defaults())
		before := s.State()
		require.NoError(t, s.Reload())
		assert.Equal(t, before, s.State())
	})
}
