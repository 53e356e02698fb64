package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/colonyops/burner/internal/core/burner"
	"github.com/colonyops/burner/internal/core/rollover"
	"github.com/colonyops/burner/internal/core/validate"
	"github.com/colonyops/burner/internal/store"
)

// State returns a snapshot of the full application state.
func (a *App) State() burner.AppState {
	return a.Store.State()
}

// ItemRef is an item together with the slot that holds it.
type ItemRef struct {
	Slot burner.SlotType
	Item burner.Item
}

// ResolveItem finds the single item in the current session whose id
// matches the given prefix. An exact id match always wins; otherwise the
// prefix must be unambiguous. Prefix resolution is command-line sugar:
// the store's own operations always take full ids.
func (a *App) ResolveItem(prefix string) (ItemRef, error) {
	if prefix == "" {
		return ItemRef{}, ErrNoMatch
	}

	state := a.Store.State()
	var matches []ItemRef
	for _, t := range burner.SlotTypes() {
		for _, item := range state.Current.Slot(t).Items {
			if item.ID == prefix {
				return ItemRef{Slot: t, Item: item}, nil
			}
			if strings.HasPrefix(item.ID, prefix) {
				matches = append(matches, ItemRef{Slot: t, Item: item})
			}
		}
	}

	switch len(matches) {
	case 0:
		return ItemRef{}, fmt.Errorf("%w: %s", ErrNoMatch, prefix)
	case 1:
		return matches[0], nil
	default:
		return ItemRef{}, fmt.Errorf("%w: %s matches %d items", ErrAmbiguous, prefix, len(matches))
	}
}

// ResolveSubtask finds a subtask by id prefix within the item matching
// itemPrefix.
func (a *App) ResolveSubtask(itemPrefix, subPrefix string) (ItemRef, burner.Subtask, error) {
	ref, err := a.ResolveItem(itemPrefix)
	if err != nil {
		return ItemRef{}, burner.Subtask{}, err
	}
	if subPrefix == "" {
		return ItemRef{}, burner.Subtask{}, ErrNoMatch
	}

	var matches []burner.Subtask
	for _, sub := range ref.Item.Subtasks {
		if sub.ID == subPrefix {
			return ref, sub, nil
		}
		if strings.HasPrefix(sub.ID, subPrefix) {
			matches = append(matches, sub)
		}
	}

	switch len(matches) {
	case 0:
		return ItemRef{}, burner.Subtask{}, fmt.Errorf("%w: subtask %s", ErrNoMatch, subPrefix)
	case 1:
		return ref, matches[0], nil
	default:
		return ItemRef{}, burner.Subtask{}, fmt.Errorf("%w: subtask %s matches %d", ErrAmbiguous, subPrefix, len(matches))
	}
}

// AddItem validates and creates a new item in the given slot.
func (a *App) AddItem(slot burner.SlotType, content string, subtasks []string) (burner.Item, error) {
	if err := validate.SlotField("slot", string(slot)); err != nil {
		return burner.Item{}, err
	}
	if err := validate.ContentField("content", content); err != nil {
		return burner.Item{}, err
	}

	item, err := a.Store.AddItem(slot, strings.TrimSpace(content), subtasks)
	a.log.Info().Str("item", item.ID).Str("slot", string(slot)).Msg("item added")
	return item, err
}

// Promote moves the matched item one step toward the front and returns
// its new location.
func (a *App) Promote(prefix string) (ItemRef, error) {
	ref, err := a.ResolveItem(prefix)
	if err != nil {
		return ItemRef{}, err
	}

	perr := a.Store.PromoteItem(ref.Item.ID)
	after, err := a.ResolveItem(ref.Item.ID)
	if err != nil {
		return ItemRef{}, err
	}
	a.log.Info().Str("item", ref.Item.ID).
		Str("from", string(ref.Slot)).Str("to", string(after.Slot)).
		Msg("item promoted")
	return after, perr
}

// Demote moves the matched item one step toward the sink and returns its
// new location.
func (a *App) Demote(prefix string) (ItemRef, error) {
	ref, err := a.ResolveItem(prefix)
	if err != nil {
		return ItemRef{}, err
	}

	perr := a.Store.DemoteItem(ref.Item.ID)
	after, err := a.ResolveItem(ref.Item.ID)
	if err != nil {
		return ItemRef{}, err
	}
	a.log.Info().Str("item", ref.Item.ID).
		Str("from", string(ref.Slot)).Str("to", string(after.Slot)).
		Msg("item demoted")
	return after, perr
}

// Move relocates the matched item to the named slot.
func (a *App) Move(prefix string, to burner.SlotType) (ItemRef, error) {
	if err := validate.SlotField("to", string(to)); err != nil {
		return ItemRef{}, err
	}
	ref, err := a.ResolveItem(prefix)
	if err != nil {
		return ItemRef{}, err
	}

	perr := a.Store.MoveItem(ref.Slot, to, ref.Item.ID)
	after, err := a.ResolveItem(ref.Item.ID)
	if err != nil {
		return ItemRef{}, err
	}
	return after, perr
}

// UpdateItem applies a partial update to the matched item.
func (a *App) UpdateItem(prefix string, patch store.ItemPatch) (ItemRef, error) {
	if patch.Status != nil {
		if err := validate.StatusField("status", string(*patch.Status)); err != nil {
			return ItemRef{}, err
		}
	}
	if patch.Content != nil {
		if err := validate.ContentField("content", *patch.Content); err != nil {
			return ItemRef{}, err
		}
	}

	ref, err := a.ResolveItem(prefix)
	if err != nil {
		return ItemRef{}, err
	}

	perr := a.Store.UpdateItem(ref.Slot, ref.Item.ID, patch)
	after, err := a.ResolveItem(ref.Item.ID)
	if err != nil {
		return ItemRef{}, err
	}
	return after, perr
}

// RemoveItem deletes the matched item.
func (a *App) RemoveItem(prefix string) (ItemRef, error) {
	ref, err := a.ResolveItem(prefix)
	if err != nil {
		return ItemRef{}, err
	}

	perr := a.Store.DeleteItem(ref.Slot, ref.Item.ID)
	a.log.Info().Str("item", ref.Item.ID).Str("slot", string(ref.Slot)).Msg("item removed")
	return ref, perr
}

// AddSubtask appends a subtask to the matched item. Items in the sink are
// out of scope for subtask edits; promote them first.
func (a *App) AddSubtask(itemPrefix, content string) (burner.Subtask, error) {
	if err := validate.ContentField("content", content); err != nil {
		return burner.Subtask{}, err
	}
	ref, err := a.ResolveItem(itemPrefix)
	if err != nil {
		return burner.Subtask{}, err
	}
	if ref.Slot == burner.SlotSink {
		return burner.Subtask{}, fmt.Errorf("item %s is in the sink; promote it before editing subtasks", shortID(ref.Item.ID))
	}

	return a.Store.AddSubtask(ref.Item.ID, strings.TrimSpace(content))
}

// ToggleSubtask flips the matched subtask between open and done.
func (a *App) ToggleSubtask(itemPrefix, subPrefix string) (burner.Subtask, error) {
	ref, sub, err := a.ResolveSubtask(itemPrefix, subPrefix)
	if err != nil {
		return burner.Subtask{}, err
	}
	if ref.Slot == burner.SlotSink {
		return burner.Subtask{}, fmt.Errorf("item %s is in the sink; promote it before editing subtasks", shortID(ref.Item.ID))
	}

	perr := a.Store.ToggleSubtask(ref.Item.ID, sub.ID)

	_, got, err := a.ResolveSubtask(ref.Item.ID, sub.ID)
	if err != nil {
		return burner.Subtask{}, err
	}
	return got, perr
}

// CheckRollover runs the startup rollover policy: when the current
// session's period boundary has been crossed, the session is archived and
// a new one starts using the persisted defaults.
func (a *App) CheckRollover(now time.Time) (bool, error) {
	state := a.Store.State()

	if !rollover.Due(state.Current.Meta.StartedAt, now, state.Settings.DefaultPeriod) {
		return false, nil
	}

	a.log.Info().
		Time("started_at", state.Current.Meta.StartedAt).
		Str("period", string(state.Settings.DefaultPeriod)).
		Bool("auto_downgrade", state.Settings.AutoDowngradeIncomplete).
		Int("items", state.Current.ItemCount()).
		Msg("period boundary crossed, rolling over")

	err := a.Store.StartNewSession(state.Settings.DefaultPeriod, state.Settings.AutoDowngradeIncomplete)
	return true, err
}

// Rollover explicitly archives the current session and starts a new one.
func (a *App) Rollover(period burner.PeriodType, autoDowngrade bool, label string) error {
	if err := validate.PeriodField("period", string(period)); err != nil {
		return err
	}
	return a.Store.StartNewSessionWithLabel(period, autoDowngrade, label)
}

// History returns archived sessions, oldest first. A non-empty glob
// filters by session label.
func (a *App) History(labelGlob string) ([]burner.Session, error) {
	history := a.Store.State().History
	if labelGlob == "" {
		return history, nil
	}

	var out []burner.Session
	for _, sess := range history {
		ok, err := doublestar.Match(labelGlob, sess.Meta.Label)
		if err != nil {
			return nil, fmt.Errorf("label pattern: %w", err)
		}
		if ok {
			out = append(out, sess)
		}
	}
	return out, nil
}

// shortID returns the first id segment, enough to identify an item in
// command output.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// ShortID is shortID exposed for the view layer.
func ShortID(id string) string {
	return shortID(id)
}
