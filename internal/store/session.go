package store

import "github.com/colonyops/burner/internal/core/burner"

// SettingsPatch is a partial settings update. Nil fields are left untouched.
type SettingsPatch struct {
	DefaultPeriod           *burner.PeriodType
	AutoDowngradeIncomplete *bool
	PushEnabled             *bool
}

// StartNewSession archives the current session and replaces it with a
// fresh one for the given period. See StartNewSessionWithLabel.
func (s *Store) StartNewSession(period burner.PeriodType, autoDowngrade bool) error {
	return s.StartNewSessionWithLabel(period, autoDowngrade, "")
}

// StartNewSessionWithLabel performs the archive-and-recreate transition:
//
//  1. The current session is appended, unmodified, to the history.
//  2. When autoDowngrade is true the new session starts with empty front
//     and back slots and a sink holding every carried-over item (front,
//     back, then sink order) with status forced to dropped, even items
//     already done. Otherwise all three slots carry forward verbatim.
//  3. The new session gets a fresh id, startedAt = now, the given period
//     type, and the optional label.
//  4. The parameters become the new persisted defaults in settings.
func (s *Store) StartNewSessionWithLabel(period burner.PeriodType, autoDowngrade bool, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !period.IsValid() {
		return nil
	}

	old := s.state.Current
	s.state.History = append(s.state.History, old)

	next := burner.NewSession(s.now(), period)
	next.Meta.Label = label

	if autoDowngrade {
		carried := make([]burner.Item, 0, old.ItemCount())
		carried = append(carried, burner.CloneItems(old.Front.Items)...)
		carried = append(carried, burner.CloneItems(old.Back.Items)...)
		carried = append(carried, burner.CloneItems(old.Sink.Items)...)
		for i := range carried {
			carried[i].Status = burner.StatusDropped
		}
		next.Sink.Items = carried
	} else {
		next.Front.Items = burner.CloneItems(old.Front.Items)
		next.Back.Items = burner.CloneItems(old.Back.Items)
		next.Sink.Items = burner.CloneItems(old.Sink.Items)
	}

	s.state.Current = next
	s.state.Settings.DefaultPeriod = period
	s.state.Settings.AutoDowngradeIncomplete = autoDowngrade
	s.rebuildIndex()

	return s.commit()
}

// UpdateSettings merges the patch into the persisted settings.
func (s *Store) UpdateSettings(patch SettingsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	if patch.DefaultPeriod != nil && patch.DefaultPeriod.IsValid() {
		s.state.Settings.DefaultPeriod = *patch.DefaultPeriod
		changed = true
	}
	if patch.AutoDowngradeIncomplete != nil {
		s.state.Settings.AutoDowngradeIncomplete = *patch.AutoDowngradeIncomplete
		changed = true
	}
	if patch.PushEnabled != nil {
		s.state.Settings.PushEnabled = *patch.PushEnabled
		changed = true
	}
	if !changed {
		return nil
	}

	return s.commit()
}
