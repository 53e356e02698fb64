package burner_test

import (
	"testing"
	"time"

	"github.com/colonyops/burner/internal/core/burner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	item := burner.NewItem("Buy milk", []string{"check fridge", "find wallet"})

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Buy milk", item.Content)
	assert.Equal(t, burner.StatusOpen, item.Status)
	assert.Nil(t, item.DueAt)

	require.Len(t, item.Subtasks, 2)
	for _, sub := range item.Subtasks {
		assert.NotEmpty(t, sub.ID)
		assert.Equal(t, burner.StatusOpen, sub.Status)
	}
	assert.NotEqual(t, item.Subtasks[0].ID, item.Subtasks[1].ID)
}

func TestNewItem_IDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		item := burner.NewItem("task", nil)
		assert.False(t, seen[item.ID], "duplicate id %s", item.ID)
		seen[item.ID] = true
	}
}

func TestNewSession(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	sess := burner.NewSession(now, burner.PeriodWeek)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, now, sess.Meta.StartedAt)
	assert.Equal(t, burner.PeriodWeek, sess.Meta.PeriodType)
	assert.Equal(t, burner.SlotFront, sess.Front.Type)
	assert.Equal(t, burner.SlotBack, sess.Back.Type)
	assert.Equal(t, burner.SlotSink, sess.Sink.Type)
	assert.Zero(t, sess.ItemCount())
}

func TestSession_Slot(t *testing.T) {
	sess := burner.NewSession(time.Now(), burner.PeriodDay)

	for _, st := range burner.SlotTypes() {
		slot := sess.Slot(st)
		require.NotNil(t, slot)
		assert.Equal(t, st, slot.Type)
	}

	assert.Nil(t, sess.Slot(burner.SlotType("attic")))
}

func TestClone_IsDeep(t *testing.T) {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	item := burner.NewItem("original", []string{"step one"})
	item.DueAt = &due

	state := burner.NewAppState(time.Now(), burner.Settings{DefaultPeriod: burner.PeriodDay})
	state.Current.Sink.Items = []burner.Item{item}
	state.History = []burner.Session{burner.NewSession(time.Now(), burner.PeriodDay)}

	clone := state.Clone()
	require.Equal(t, state, clone)

	// Mutating the clone must not leak into the original.
	clone.Current.Sink.Items[0].Content = "changed"
	clone.Current.Sink.Items[0].Subtasks[0].Status = burner.StatusDone
	*clone.Current.Sink.Items[0].DueAt = due.AddDate(0, 1, 0)
	clone.History[0].Meta.Label = "tampered"

	assert.Equal(t, "original", state.Current.Sink.Items[0].Content)
	assert.Equal(t, burner.StatusOpen, state.Current.Sink.Items[0].Subtasks[0].Status)
	assert.Equal(t, due, *state.Current.Sink.Items[0].DueAt)
	assert.Empty(t, state.History[0].Meta.Label)
}

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		status burner.Status
		want   bool
	}{
		{burner.StatusOpen, true},
		{burner.StatusDone, true},
		{burner.StatusSnoozed, true},
		{burner.StatusDropped, true},
		{burner.Status(""), false},
		{burner.Status("archived"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsValid())
		})
	}
}

func TestSlotType_IsValid(t *testing.T) {
	assert.True(t, burner.SlotFront.IsValid())
	assert.True(t, burner.SlotBack.IsValid())
	assert.True(t, burner.SlotSink.IsValid())
	assert.False(t, burner.SlotType("middle").IsValid())
	assert.False(t, burner.SlotType("").IsValid())
}

func TestPeriodType_IsValid(t *testing.T) {
	assert.True(t, burner.PeriodDay.IsValid())
	assert.True(t, burner.PeriodWeek.IsValid())
	assert.False(t, burner.PeriodType("month").IsValid())
}
