package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/jobboard/internal/types"
)

const noteColumns = `id, application_id, stage, verdict, score, notes, created_by, created_at, updated_at`

type rowsQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// SaveScreeningNote upserts the note for (application, stage), re-reads the
// application's notes and writes the aggregate progress derives from them,
// all in one transaction. The application row is locked first so concurrent
// saves for the same application recompute one after the other.
func (db *DB) SaveScreeningNote(ctx context.Context, note *types.ScreeningNote, progress types.ScreeningProgressFunc) (*types.SavedScreeningNote, error) {
	var saved types.SavedScreeningNote
	err := db.withTx(ctx, func(tx pgx.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRow(ctx, `SELECT id FROM applications WHERE id = $1 FOR UPDATE`, note.ApplicationID).Scan(&locked)
		if err != nil {
			if err == pgx.ErrNoRows {
				return &types.NotFoundError{Resource: "application", ID: note.ApplicationID.String()}
			}
			return fmt.Errorf("failed to lock application: %w", err)
		}

		n, created, err := upsertScreeningNote(ctx, tx, note)
		if err != nil {
			return err
		}
		notes, err := listScreeningNotes(ctx, tx, note.ApplicationID)
		if err != nil {
			return err
		}
		p, err := progress(notes)
		if err != nil {
			return err
		}

		var total *int
		err = tx.QueryRow(ctx,
			`UPDATE applications
			 SET total_score = COALESCE($2, total_score),
			     interview_process = $3,
			     updated_at = NOW()
			 WHERE id = $1
			 RETURNING total_score`,
			note.ApplicationID, p.TotalScore, string(p.InterviewProcess),
		).Scan(&total)
		if err != nil {
			return fmt.Errorf("failed to update screening progress: %w", err)
		}

		saved = types.SavedScreeningNote{
			Note:     n,
			Created:  created,
			Progress: types.ScreeningProgress{TotalScore: total, InterviewProcess: p.InterviewProcess},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func upsertScreeningNote(ctx context.Context, q querier, note *types.ScreeningNote) (*types.ScreeningNote, bool, error) {
	var (
		n        types.ScreeningNote
		verdict  *string
		inserted bool
	)
	err := q.QueryRow(ctx,
		`INSERT INTO screening_notes (application_id, stage, verdict, score, notes, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT ON CONSTRAINT `+constraintNoteStage+` DO UPDATE SET
			verdict = EXCLUDED.verdict,
			score = EXCLUDED.score,
			notes = EXCLUDED.notes,
			created_by = EXCLUDED.created_by,
			updated_at = NOW()
		 RETURNING `+noteColumns+`, (xmax = 0) AS inserted`,
		note.ApplicationID, string(note.Stage), optString(note.Verdict), note.Score, note.Notes, note.CreatedBy,
	).Scan(&n.ID, &n.ApplicationID, &n.Stage, &verdict, &n.Score, &n.Notes, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt, &inserted)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, false, &types.NotFoundError{Resource: "application", ID: note.ApplicationID.String()}
		}
		return nil, false, fmt.Errorf("failed to upsert screening note: %w", err)
	}
	n.Verdict = verdictPtr(verdict)
	return &n, inserted, nil
}

func verdictPtr(s *string) *types.Verdict {
	if s == nil {
		return nil
	}
	v := types.Verdict(*s)
	return &v
}

// ListScreeningNotes returns the notes of an application, newest first.
func (db *DB) ListScreeningNotes(ctx context.Context, applicationID uuid.UUID) ([]types.ScreeningNote, error) {
	return listScreeningNotes(ctx, db.pool, applicationID)
}

func listScreeningNotes(ctx context.Context, q rowsQuerier, applicationID uuid.UUID) ([]types.ScreeningNote, error) {
	rows, err := q.Query(ctx,
		`SELECT `+noteColumns+` FROM screening_notes WHERE application_id = $1 ORDER BY created_at DESC`,
		applicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list screening notes: %w", err)
	}
	defer rows.Close()

	notes := []types.ScreeningNote{}
	for rows.Next() {
		var n types.ScreeningNote
		var verdict *string
		if err := rows.Scan(&n.ID, &n.ApplicationID, &n.Stage, &verdict, &n.Score, &n.Notes, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan screening note: %w", err)
		}
		n.Verdict = verdictPtr(verdict)
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list screening notes: %w", err)
	}
	return notes, nil
}
