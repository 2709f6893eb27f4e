package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobboard/internal/types"
)

// CreateAvailability stores a window and its slots together.
func (s *Store) CreateAvailability(_ context.Context, a *types.Availability) (*types.Availability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick()
	window := *a
	window.ID = uuid.New()
	window.CreatedAt = now
	window.Slots = nil
	s.windows[window.ID] = &window

	out := window
	out.Slots = make([]types.Slot, 0, len(a.Slots))
	for _, in := range a.Slots {
		slot := types.Slot{
			ID:             uuid.New(),
			AvailabilityID: window.ID,
			StartsAt:       in.StartsAt,
			EndsAt:         in.EndsAt,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		s.slots[slot.ID] = &slot
		out.Slots = append(out.Slots, s.slotView(&slot))
	}
	return &out, nil
}

// slotView copies a slot and attaches its date and booked application. Caller must hold mu.
func (s *Store) slotView(slot *types.Slot) types.Slot {
	out := *slot
	out.Booked = slot.BookedByEmail != nil
	if w, ok := s.windows[slot.AvailabilityID]; ok {
		d := w.Date
		out.Date = &d
	}
	if slot.ApplicationID != nil {
		if a, ok := s.apps[*slot.ApplicationID]; ok {
			ref := &types.SlotApplication{ID: a.ID}
			if j, ok := s.jobs[a.JobID]; ok {
				ref.Job = j.Summary()
			}
			out.Application = ref
		}
	}
	return out
}

// ListAvailability returns every window ordered by date with its slots.
func (s *Store) ListAvailability(_ context.Context) ([]types.Availability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	windows := make([]types.Availability, 0, len(s.windows))
	for _, w := range s.windows {
		out := *w
		out.Slots = []types.Slot{}
		for _, slot := range s.slots {
			if slot.AvailabilityID == w.ID {
				out.Slots = append(out.Slots, s.slotView(slot))
			}
		}
		sortSlots(out.Slots)
		windows = append(windows, out)
	}
	sort.Slice(windows, func(i, k int) bool {
		if !windows[i].Date.Equal(windows[k].Date.Time) {
			return windows[i].Date.Before(windows[k].Date.Time)
		}
		return windows[i].StartTime.Before(windows[k].StartTime)
	})
	return windows, nil
}

// ListSlots returns slots whose window date is on or after from and, when to
// is set, on or before to. Slots are ordered by date then start.
func (s *Store) ListSlots(_ context.Context, from types.Date, to *types.Date) ([]types.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := []types.Slot{}
	for _, slot := range s.slots {
		w, ok := s.windows[slot.AvailabilityID]
		if !ok {
			continue
		}
		day := w.Date.String()
		if day < from.String() || (to != nil && day > to.String()) {
			continue
		}
		slots = append(slots, s.slotView(slot))
	}
	sortSlots(slots)
	return slots, nil
}

func sortSlots(slots []types.Slot) {
	sort.Slice(slots, func(i, k int) bool { return slots[i].StartsAt.Before(slots[k].StartsAt) })
}

// GetSlot returns nil, nil when the slot does not exist.
func (s *Store) GetSlot(_ context.Context, id uuid.UUID) (*types.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[id]
	if !ok {
		return nil, nil
	}
	out := s.slotView(slot)
	return &out, nil
}

// GetSlotByApplication returns the slot held by an application, or nil, nil.
func (s *Store) GetSlotByApplication(_ context.Context, applicationID uuid.UUID) (*types.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slot := s.slotHeldBy(applicationID); slot != nil {
		out := s.slotView(slot)
		return &out, nil
	}
	return nil, nil
}

// slotHeldBy finds the slot referencing applicationID. Caller must hold mu.
func (s *Store) slotHeldBy(applicationID uuid.UUID) *types.Slot {
	for _, slot := range s.slots {
		if slot.ApplicationID != nil && *slot.ApplicationID == applicationID {
			return slot
		}
	}
	return nil
}

// BookSlot assigns an open slot to an application. The held-slot check and
// the conditional write happen under one lock.
func (s *Store) BookSlot(_ context.Context, slotID, applicationID uuid.UUID, email string) (*types.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slotHeldBy(applicationID) != nil {
		return nil, types.NewAlreadyScheduled()
	}
	slot, ok := s.slots[slotID]
	if !ok {
		return nil, &types.NotFoundError{Resource: "slot", ID: slotID.String()}
	}
	if slot.BookedByEmail != nil {
		return nil, types.NewSlotTaken()
	}
	owner := email
	appID := applicationID
	slot.BookedByEmail = &owner
	slot.ApplicationID = &appID
	slot.UpdatedAt = s.tick()
	out := s.slotView(slot)
	return &out, nil
}

// UpdateOpenSlot replaces the times of an unbooked slot.
func (s *Store) UpdateOpenSlot(_ context.Context, slotID uuid.UUID, startsAt, endsAt time.Time) (*types.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[slotID]
	if !ok {
		return nil, &types.NotFoundError{Resource: "slot", ID: slotID.String()}
	}
	if slot.BookedByEmail != nil {
		return nil, types.NewSlotBooked("edit")
	}
	slot.StartsAt = startsAt
	slot.EndsAt = endsAt
	slot.UpdatedAt = s.tick()
	out := s.slotView(slot)
	return &out, nil
}

// DeleteOpenSlot removes an unbooked slot.
func (s *Store) DeleteOpenSlot(_ context.Context, slotID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[slotID]
	if !ok {
		return &types.NotFoundError{Resource: "slot", ID: slotID.String()}
	}
	if slot.BookedByEmail != nil {
		return types.NewSlotBooked("delete")
	}
	delete(s.slots, slotID)
	return nil
}
