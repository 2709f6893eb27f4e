package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/jobboard/internal/types"
)

const slotSelect = `SELECT s.id, s.availability_id, s.starts_at, s.ends_at, s.booked_by_email,
	s.application_id, s.created_at, s.updated_at, w.date,
	j.id, j.title, j.type, j.slug, j.company
	FROM interview_slots s
	JOIN interview_availability w ON w.id = s.availability_id
	LEFT JOIN applications a ON a.id = s.application_id
	LEFT JOIN jobs j ON j.id = a.job_id`

func scanSlot(row pgx.Row) (*types.Slot, error) {
	var (
		s       types.Slot
		day     time.Time
		jobID   *uuid.UUID
		title   *string
		kind    *string
		slug    *string
		company *string
	)
	err := row.Scan(&s.ID, &s.AvailabilityID, &s.StartsAt, &s.EndsAt, &s.BookedByEmail,
		&s.ApplicationID, &s.CreatedAt, &s.UpdatedAt, &day,
		&jobID, &title, &kind, &slug, &company)
	if err != nil {
		return nil, err
	}
	d := types.NewDate(day)
	s.Date = &d
	s.Booked = s.BookedByEmail != nil
	if s.ApplicationID != nil && jobID != nil {
		s.Application = &types.SlotApplication{
			ID: *s.ApplicationID,
			Job: types.JobSummary{
				ID:      *jobID,
				Title:   *title,
				Type:    types.JobType(*kind),
				Slug:    *slug,
				Company: *company,
			},
		}
	}
	return &s, nil
}

func collectSlots(rows pgx.Rows) ([]types.Slot, error) {
	defer rows.Close()
	slots := []types.Slot{}
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		slots = append(slots, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

// CreateAvailability inserts a window and all of its slots in one transaction.
func (db *DB) CreateAvailability(ctx context.Context, a *types.Availability) (*types.Availability, error) {
	out := types.Availability{
		Date:        a.Date,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		SlotMinutes: a.SlotMinutes,
		Slots:       make([]types.Slot, 0, len(a.Slots)),
	}
	err := db.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO interview_availability (date, start_time, end_time, slot_minutes)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at`,
			a.Date.Time, a.StartTime, a.EndTime, a.SlotMinutes,
		).Scan(&out.ID, &out.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert availability: %w", err)
		}

		for _, in := range a.Slots {
			slot := types.Slot{AvailabilityID: out.ID, StartsAt: in.StartsAt, EndsAt: in.EndsAt}
			err := tx.QueryRow(ctx,
				`INSERT INTO interview_slots (availability_id, starts_at, ends_at)
				 VALUES ($1, $2, $3)
				 RETURNING id, created_at, updated_at`,
				out.ID, in.StartsAt, in.EndsAt,
			).Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert slot: %w", err)
			}
			d := out.Date
			slot.Date = &d
			out.Slots = append(out.Slots, slot)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAvailability returns every window ordered by date with its slots.
func (db *DB) ListAvailability(ctx context.Context) ([]types.Availability, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, date, start_time, end_time, slot_minutes, created_at
		 FROM interview_availability
		 ORDER BY date, start_time`)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	defer rows.Close()

	windows := []types.Availability{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var w types.Availability
		var day time.Time
		if err := rows.Scan(&w.ID, &day, &w.StartTime, &w.EndTime, &w.SlotMinutes, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan availability: %w", err)
		}
		w.Date = types.NewDate(day)
		w.Slots = []types.Slot{}
		index[w.ID] = len(windows)
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	rows.Close()

	slotRows, err := db.pool.Query(ctx, slotSelect+` ORDER BY s.starts_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	slots, err := collectSlots(slotRows)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	for _, s := range slots {
		if i, ok := index[s.AvailabilityID]; ok {
			windows[i].Slots = append(windows[i].Slots, s)
		}
	}
	return windows, nil
}

// ListSlots returns slots whose window date is on or after from and, when to
// is set, on or before to.
func (db *DB) ListSlots(ctx context.Context, from types.Date, to *types.Date) ([]types.Slot, error) {
	query := slotSelect + ` WHERE w.date >= $1`
	args := []any{from.Time}
	if to != nil {
		query += ` AND w.date <= $2`
		args = append(args, to.Time)
	}
	query += ` ORDER BY w.date, s.starts_at`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	slots, err := collectSlots(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

// GetSlot returns nil, nil when the slot does not exist.
func (db *DB) GetSlot(ctx context.Context, id uuid.UUID) (*types.Slot, error) {
	return getSlot(ctx, db.pool, `s.id = $1`, id)
}

// GetSlotByApplication returns the slot held by an application, or nil, nil.
func (db *DB) GetSlotByApplication(ctx context.Context, applicationID uuid.UUID) (*types.Slot, error) {
	return getSlot(ctx, db.pool, `s.application_id = $1`, applicationID)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getSlot(ctx context.Context, q querier, where string, arg any) (*types.Slot, error) {
	s, err := scanSlot(q.QueryRow(ctx, slotSelect+` WHERE `+where, arg))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	return s, nil
}

func slotExists(ctx context.Context, q querier, id uuid.UUID) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM interview_slots WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return exists, nil
}

// BookSlot assigns an open slot to an application. The update only matches an
// unbooked slot, and the partial unique index on application_id rejects a
// second booking for the same application.
func (db *DB) BookSlot(ctx context.Context, slotID, applicationID uuid.UUID, email string) (*types.Slot, error) {
	var booked *types.Slot
	err := db.withTx(ctx, func(tx pgx.Tx) error {
		var held bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM interview_slots WHERE application_id = $1)`, applicationID,
		).Scan(&held)
		if err != nil {
			return fmt.Errorf("failed to check booking: %w", err)
		}
		if held {
			return types.NewAlreadyScheduled()
		}

		tag, err := tx.Exec(ctx,
			`UPDATE interview_slots
			 SET booked_by_email = $2, application_id = $3, updated_at = NOW()
			 WHERE id = $1 AND booked_by_email IS NULL`,
			slotID, email, applicationID,
		)
		if err != nil {
			if isUniqueViolation(err, constraintSlotApplication) {
				return types.NewAlreadyScheduled()
			}
			return fmt.Errorf("failed to book slot: %w", err)
		}
		if tag.RowsAffected() == 0 {
			exists, err := slotExists(ctx, tx, slotID)
			if err != nil {
				return err
			}
			if exists {
				return types.NewSlotTaken()
			}
			return &types.NotFoundError{Resource: "slot", ID: slotID.String()}
		}

		booked, err = getSlot(ctx, tx, `s.id = $1`, slotID)
		return err
	})
	if err != nil {
		if isUniqueViolation(err, constraintSlotApplication) {
			return nil, types.NewAlreadyScheduled()
		}
		return nil, err
	}
	return booked, nil
}

// UpdateOpenSlot replaces the times of an unbooked slot.
func (db *DB) UpdateOpenSlot(ctx context.Context, slotID uuid.UUID, startsAt, endsAt time.Time) (*types.Slot, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE interview_slots
		 SET starts_at = $2, ends_at = $3, updated_at = NOW()
		 WHERE id = $1 AND booked_by_email IS NULL`,
		slotID, startsAt, endsAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, db.openSlotMiss(ctx, slotID, "edit")
	}
	return db.GetSlot(ctx, slotID)
}

// DeleteOpenSlot removes an unbooked slot.
func (db *DB) DeleteOpenSlot(ctx context.Context, slotID uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM interview_slots WHERE id = $1 AND booked_by_email IS NULL`, slotID)
	if err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.openSlotMiss(ctx, slotID, "delete")
	}
	return nil
}

// openSlotMiss explains why a conditional write on an open slot matched nothing.
func (db *DB) openSlotMiss(ctx context.Context, slotID uuid.UUID, action string) error {
	exists, err := slotExists(ctx, db.pool, slotID)
	if err != nil {
		return err
	}
	if exists {
		return types.NewSlotBooked(action)
	}
	return &types.NotFoundError{Resource: "slot", ID: slotID.String()}
}
