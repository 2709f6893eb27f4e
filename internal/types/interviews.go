package types

import (
	"time"

	"github.com/google/uuid"
)

// Availability is an admin-declared window on one date that owns its slots.
type Availability struct {
	ID          uuid.UUID `json:"id"`
	Date        Date      `json:"date"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	SlotMinutes int       `json:"slot_minutes"`
	CreatedAt   time.Time `json:"created_at"`
	Slots       []Slot    `json:"slots"`
}

// Slot is a fixed-duration bookable unit of an availability window.
type Slot struct {
	ID             uuid.UUID        `json:"id"`
	AvailabilityID uuid.UUID        `json:"availability_id"`
	StartsAt       time.Time        `json:"starts_at"`
	EndsAt         time.Time        `json:"ends_at"`
	Booked         bool             `json:"booked"`
	BookedByEmail  *string          `json:"booked_by_email"`
	ApplicationID  *uuid.UUID       `json:"application_id"`
	Application    *SlotApplication `json:"application,omitempty"`
	Date           *Date            `json:"date,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// IsBooked reports whether the slot has an owner.
func (s *Slot) IsBooked() bool {
	return s.BookedByEmail != nil
}

// SlotApplication is the booked application reference shown to admins.
type SlotApplication struct {
	ID  uuid.UUID  `json:"id"`
	Job JobSummary `json:"job"`
}

// CreateAvailabilityRequest declares a window. Times are HH:MM on the given date.
type CreateAvailabilityRequest struct {
	Date        string `json:"date" validate:"required"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
	SlotMinutes *int   `json:"slot_minutes,omitempty"`
}

// Validate validates the CreateAvailabilityRequest.
func (r *CreateAvailabilityRequest) Validate() error {
	return ValidateStruct(r)
}

// BookSlotRequest books one slot for one application.
type BookSlotRequest struct {
	SlotID        uuid.UUID `json:"slot_id" validate:"required"`
	ApplicationID uuid.UUID `json:"application_id" validate:"required"`
}

// Validate validates the BookSlotRequest.
func (r *BookSlotRequest) Validate() error {
	return ValidateStruct(r)
}

// UpdateSlotRequest replaces a slot's start and end.
type UpdateSlotRequest struct {
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required"`
}

// Validate validates the UpdateSlotRequest.
func (r *UpdateSlotRequest) Validate() error {
	return ValidateStruct(r)
}

// CheckBookedResponse reports whether an application already holds a slot.
type CheckBookedResponse struct {
	Booked bool  `json:"booked"`
	Slot   *Slot `json:"slot"`
}
