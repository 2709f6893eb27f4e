package types

import (
	"errors"
	"fmt"
)

// Conflict reasons reported to clients so they can render the right message.
const (
	ReasonAlreadyScheduled = "already_scheduled"
	ReasonSlotTaken        = "slot_taken"
	ReasonSlotBooked       = "slot_booked"
	ReasonJobClosed        = "job_closed"
)

// ValidationError indicates malformed or out-of-range input. Field is the JSON
// name of the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// NotFoundError indicates an unknown record.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConflictError indicates a failed conditional write.
type ConflictError struct {
	Reason  string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewAlreadyScheduled reports that an application already holds a slot.
func NewAlreadyScheduled() *ConflictError {
	return &ConflictError{Reason: ReasonAlreadyScheduled, Message: "This application already has a scheduled slot"}
}

// NewSlotTaken reports that another applicant booked the slot first.
func NewSlotTaken() *ConflictError {
	return &ConflictError{Reason: ReasonSlotTaken, Message: "Slot already booked"}
}

// NewSlotBooked reports an attempt to edit or delete a booked slot.
func NewSlotBooked(action string) *ConflictError {
	return &ConflictError{Reason: ReasonSlotBooked, Message: fmt.Sprintf("Cannot %s a booked slot", action)}
}

// IsConflict reports whether err is a conflict with the given reason.
func IsConflict(err error, reason string) bool {
	var ce *ConflictError
	return errors.As(err, &ce) && ce.Reason == reason
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
