package store

import (
	"time"

	"github.com/colonyops/burner/internal/core/burner"
)

// ItemPatch is a partial item update. Nil fields are left untouched.
// ClearDueAt removes the due date; it wins over DueAt when both are set.
type ItemPatch struct {
	Content    *string
	Status     *burner.Status
	DueAt      *time.Time
	ClearDueAt bool
}

// isZero reports whether the patch would change nothing.
func (p ItemPatch) isZero() bool {
	return p.Content == nil && p.Status == nil && p.DueAt == nil && !p.ClearDueAt
}

// AddItem appends a fresh open item to the given slot. Subtask strings are
// each wrapped as a fresh open subtask. Content is not checked for
// uniqueness. The created item is returned so callers can reference its id.
func (s *Store) AddItem(slot burner.SlotType, content string, subtasks []string) (burner.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slot.IsValid() {
		return burner.Item{}, nil
	}

	item := burner.NewItem(content, subtasks)
	target := s.state.Current.Slot(slot)
	target.Items = append(target.Items, item)
	s.index[item.ID] = slot

	return item.Clone(), s.commit()
}

// UpdateItem applies the patch to the item with the given id within the
// named slot only. If the id is not present in that slot, including when
// the item actually lives elsewhere, the state is left unchanged.
func (s *Store) UpdateItem(slot burner.SlotType, itemID string, patch ItemPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slot.IsValid() || patch.isZero() {
		return nil
	}

	item := findItem(s.state.Current.Slot(slot), itemID)
	if item == nil {
		return nil
	}

	if patch.Content != nil {
		item.Content = *patch.Content
	}
	if patch.Status != nil {
		item.Status = *patch.Status
	}
	switch {
	case patch.ClearDueAt:
		item.DueAt = nil
	case patch.DueAt != nil:
		due := *patch.DueAt
		item.DueAt = &due
	}

	return s.commit()
}

// DeleteItem removes the item with the given id from the named slot.
// No-op if absent.
func (s *Store) DeleteItem(slot burner.SlotType, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slot.IsValid() {
		return nil
	}
	if _, ok := removeItem(s.state.Current.Slot(slot), itemID); !ok {
		return nil
	}
	delete(s.index, itemID)

	return s.commit()
}

// MoveItem relocates an item from one slot to another by appending it to
// the destination. Front-slot capacity is deliberately not enforced here;
// that is the promotion transition's job. No-op if the item is absent from
// the source slot.
func (s *Store) MoveItem(from, to burner.SlotType, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !from.IsValid() || !to.IsValid() || from == to {
		return nil
	}

	item, ok := removeItem(s.state.Current.Slot(from), itemID)
	if !ok {
		return nil
	}
	dest := s.state.Current.Slot(to)
	dest.Items = append(dest.Items, item)
	s.index[itemID] = to

	return s.commit()
}

// PromoteItem moves an item one step toward the front: sink to back, back
// to front. Promoting into front displaces any pre-existing front item to
// the back slot with its status forced to dropped, keeping front at a
// single item. Promoting an item already in front, or an unknown id, is a
// no-op.
func (s *Store) PromoteItem(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.index[itemID]
	if !ok {
		return nil
	}

	cur := &s.state.Current
	switch slot {
	case burner.SlotSink:
		item, _ := removeItem(&cur.Sink, itemID)
		cur.Back.Items = append(cur.Back.Items, item)
		s.index[itemID] = burner.SlotBack

	case burner.SlotBack:
		item, _ := removeItem(&cur.Back, itemID)
		cur.Front.Items = append(cur.Front.Items, item)
		s.index[itemID] = burner.SlotFront

		// Evict everything that held front before this promotion. With the
		// index intact that is at most one item.
		if n := len(cur.Front.Items); n > 1 {
			for _, displaced := range cur.Front.Items[:n-1] {
				displaced.Status = burner.StatusDropped
				cur.Back.Items = append(cur.Back.Items, displaced)
				s.index[displaced.ID] = burner.SlotBack
			}
			cur.Front.Items = []burner.Item{cur.Front.Items[n-1]}
		}

	case burner.SlotFront:
		return nil
	}

	return s.commit()
}

// DemoteItem moves an item one step toward the sink, forcing its status to
// dropped: front to back, back to sink. Demoting an item already in sink,
// or an unknown id, is a no-op.
func (s *Store) DemoteItem(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.index[itemID]
	if !ok {
		return nil
	}

	cur := &s.state.Current
	switch slot {
	case burner.SlotFront:
		item, _ := removeItem(&cur.Front, itemID)
		item.Status = burner.StatusDropped
		cur.Back.Items = append(cur.Back.Items, item)
		s.index[itemID] = burner.SlotBack

	case burner.SlotBack:
		item, _ := removeItem(&cur.Back, itemID)
		item.Status = burner.StatusDropped
		cur.Sink.Items = append(cur.Sink.Items, item)
		s.index[itemID] = burner.SlotSink

	case burner.SlotSink:
		return nil
	}

	return s.commit()
}

// ToggleSubtask flips a subtask between open and done. Subtasks are a
// front/back concept: items in the sink keep their subtasks but cannot
// have them toggled until promoted out.
func (s *Store) ToggleSubtask(itemID, subtaskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.focusItem(itemID)
	if item == nil {
		return nil
	}

	for i := range item.Subtasks {
		if item.Subtasks[i].ID != subtaskID {
			continue
		}
		if item.Subtasks[i].Status == burner.StatusOpen {
			item.Subtasks[i].Status = burner.StatusDone
		} else {
			item.Subtasks[i].Status = burner.StatusOpen
		}
		return s.commit()
	}

	return nil
}

// AddSubtask appends a fresh open subtask to the item with the given id.
// Same front/back-only scope as ToggleSubtask.
func (s *Store) AddSubtask(itemID, content string) (burner.Subtask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.focusItem(itemID)
	if item == nil {
		return burner.Subtask{}, nil
	}

	sub := burner.NewSubtask(content)
	item.Subtasks = append(item.Subtasks, sub)

	return sub, s.commit()
}

// focusItem returns the item with the given id if it lives in the front or
// back slot, nil otherwise. Must be called with the mutex held.
func (s *Store) focusItem(itemID string) *burner.Item {
	slot, ok := s.index[itemID]
	if !ok || slot == burner.SlotSink {
		return nil
	}
	return findItem(s.state.Current.Slot(slot), itemID)
}

func findItem(slot *burner.Slot, itemID string) *burner.Item {
	for i := range slot.Items {
		if slot.Items[i].ID == itemID {
			return &slot.Items[i]
		}
	}
	return nil
}

// removeItem takes the item with the given id out of the slot, preserving
// the order of the remaining items.
func removeItem(slot *burner.Slot, itemID string) (burner.Item, bool) {
	for i := range slot.Items {
		if slot.Items[i].ID == itemID {
			item := slot.Items[i]
			slot.Items = append(slot.Items[:i:i], slot.Items[i+1:]...)
			return item, true
		}
	}
	return burner.Item{}, false
}
