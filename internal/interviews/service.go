// Package interviews manages availability windows and the booking of
// interview slots by applicants.
package interviews

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobboard/internal/scheduling"
	"github.com/jonathan/jobboard/internal/types"
)

// Store is the persistence the booking service needs.
type Store interface {
	// GetApplication returns nil, nil when the application does not exist.
	GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error)
	// CreateAvailability persists the window and its slots atomically.
	CreateAvailability(ctx context.Context, a *types.Availability) (*types.Availability, error)
	ListAvailability(ctx context.Context) ([]types.Availability, error)
	ListSlots(ctx context.Context, from types.Date, to *types.Date) ([]types.Slot, error)
	GetSlotByApplication(ctx context.Context, applicationID uuid.UUID) (*types.Slot, error)
	// BookSlot checks that the application holds no slot and conditionally
	// books the target slot in one transaction. It returns a *types.ConflictError
	// (already_scheduled or slot_taken) or a *types.NotFoundError.
	BookSlot(ctx context.Context, slotID, applicationID uuid.UUID, email string) (*types.Slot, error)
	// UpdateOpenSlot and DeleteOpenSlot only touch unbooked slots and return
	// a slot_booked conflict otherwise.
	UpdateOpenSlot(ctx context.Context, slotID uuid.UUID, startsAt, endsAt time.Time) (*types.Slot, error)
	DeleteOpenSlot(ctx context.Context, slotID uuid.UUID) error
}

// Service orchestrates availability generation and slot booking.
type Service struct {
	store Store
	loc   *time.Location
	now   func() time.Time
}

// NewService creates a Service that evaluates dates and the lunch break in loc.
func NewService(store Store, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, loc: loc, now: time.Now}
}

// Location returns the interview time zone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// CreateAvailability generates slots for the requested window and persists
// the window with its slots.
func (s *Service) CreateAvailability(ctx context.Context, req *types.CreateAvailabilityRequest) (*types.Availability, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	window, intervals, err := scheduling.GenerateSlots(req.Date, req.StartTime, req.EndTime, req.SlotMinutes, s.loc)
	if err != nil {
		return nil, err
	}

	a := &types.Availability{
		Date:        window.Date,
		StartTime:   window.Start,
		EndTime:     window.End,
		SlotMinutes: window.SlotMinutes,
		Slots:       make([]types.Slot, 0, len(intervals)),
	}
	for _, iv := range intervals {
		a.Slots = append(a.Slots, types.Slot{StartsAt: iv.Start, EndsAt: iv.End})
	}
	return s.store.CreateAvailability(ctx, a)
}

// ListAvailability returns every window with its slots for admins.
func (s *Service) ListAvailability(ctx context.Context) ([]types.Availability, error) {
	return s.store.ListAvailability(ctx)
}

// ListSlots returns the slots of one date, or every slot from today onward
// when date is empty. Bookings held by other applicants are shown as booked
// without the owner.
func (s *Service) ListSlots(ctx context.Context, caller types.Identity, date string) ([]types.Slot, error) {
	var (
		from types.Date
		to   *types.Date
	)
	if date = strings.TrimSpace(date); date != "" {
		day, err := types.ParseDate(date, s.loc)
		if err != nil {
			return nil, &types.ValidationError{Field: "date", Message: "Invalid date"}
		}
		from, to = day, &day
	} else {
		from = types.NewDate(s.now().In(s.loc))
	}

	slots, err := s.store.ListSlots(ctx, from, to)
	if err != nil {
		return nil, err
	}
	for i := range slots {
		redact(&slots[i], caller)
	}
	return slots, nil
}

func redact(slot *types.Slot, caller types.Identity) {
	slot.Booked = slot.BookedByEmail != nil
	if caller.Admin {
		return
	}
	if slot.BookedByEmail != nil && strings.EqualFold(*slot.BookedByEmail, caller.Email) {
		return
	}
	slot.BookedByEmail = nil
	slot.ApplicationID = nil
	slot.Application = nil
}

// ownedApplication loads an application and hides it from anyone but its owner.
func (s *Service) ownedApplication(ctx context.Context, caller types.Identity, applicationID uuid.UUID) (*types.Application, error) {
	app, err := s.store.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil || !strings.EqualFold(app.Email, caller.Email) {
		return nil, &types.NotFoundError{Resource: "application", ID: applicationID.String()}
	}
	return app, nil
}

// Book assigns slotID to the caller's application. A second booking for the
// same application fails with already_scheduled; a slot someone else booked
// first fails with slot_taken and is left untouched.
func (s *Service) Book(ctx context.Context, caller types.Identity, req *types.BookSlotRequest) (*types.Slot, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.ownedApplication(ctx, caller, req.ApplicationID); err != nil {
		return nil, err
	}
	return s.store.BookSlot(ctx, req.SlotID, req.ApplicationID, strings.ToLower(caller.Email))
}

// CheckBooked reports whether the caller's application already holds a slot.
func (s *Service) CheckBooked(ctx context.Context, caller types.Identity, applicationID uuid.UUID) (*types.CheckBookedResponse, error) {
	if _, err := s.ownedApplication(ctx, caller, applicationID); err != nil {
		return nil, err
	}
	slot, err := s.store.GetSlotByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if slot != nil {
		slot.Booked = true
	}
	return &types.CheckBookedResponse{Booked: slot != nil, Slot: slot}, nil
}

// EditSlot replaces the times of an unbooked slot. Lunch and sibling overlap
// are not re-checked.
func (s *Service) EditSlot(ctx context.Context, slotID uuid.UUID, req *types.UpdateSlotRequest) (*types.Slot, error) {
	if err := scheduling.ValidateRange(req.StartsAt, req.EndsAt); err != nil {
		return nil, err
	}
	return s.store.UpdateOpenSlot(ctx, slotID, req.StartsAt, req.EndsAt)
}

// DeleteSlot removes an unbooked slot.
func (s *Service) DeleteSlot(ctx context.Context, slotID uuid.UUID) error {
	return s.store.DeleteOpenSlot(ctx, slotID)
}
