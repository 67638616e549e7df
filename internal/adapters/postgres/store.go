package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"indigenousverify/internal/domain"
	"indigenousverify/internal/ports"
)

var _ ports.StateStore = (*DB)(nil)

// Load reads the counters and the retained history in insertion order.
// An empty database is an empty state.
func (db *DB) Load(ctx context.Context) (domain.State, error) {
	state := domain.NewState()

	err := db.Pool.QueryRow(ctx, `
		SELECT total, verified, rejected FROM verification_stats WHERE id = 1
	`).Scan(&state.Stats.Total, &state.Stats.Verified, &state.Stats.Rejected)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return domain.State{}, fmt.Errorf("select stats: %w", err)
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT business_number, status, risk_score, verified, phantom_risk, checked_at
		FROM verifications
		ORDER BY position
	`)
	if err != nil {
		return domain.State{}, fmt.Errorf("select verifications: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v domain.Verdict
		var status string
		if err := rows.Scan(&v.BusinessNumber, &status, &v.RiskScore, &v.Verified, &v.PhantomRisk, &v.Timestamp); err != nil {
			return domain.State{}, fmt.Errorf("scan verification: %w", err)
		}
		v.Status = domain.Status(status)
		state.Verifications = append(state.Verifications, v)
	}
	if err := rows.Err(); err != nil {
		return domain.State{}, err
	}
	return state, nil
}

// Save replaces the stored state in one transaction.
func (db *DB) Save(ctx context.Context, state domain.State) (err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `
		INSERT INTO verification_stats (id, total, verified, rejected)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET total = EXCLUDED.total, verified = EXCLUDED.verified, rejected = EXCLUDED.rejected
	`, state.Stats.Total, state.Stats.Verified, state.Stats.Rejected); err != nil {
		return fmt.Errorf("upsert stats: %w", err)
	}
	if _, err = tx.Exec(ctx, `DELETE FROM verifications`); err != nil {
		return fmt.Errorf("clear verifications: %w", err)
	}
	if len(state.Verifications) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(state.Verifications))
	for i, v := range state.Verifications {
		rows = append(rows, []any{i, v.BusinessNumber, string(v.Status), v.RiskScore, v.Verified, v.PhantomRisk, v.Timestamp})
	}
	if _, err = tx.CopyFrom(ctx,
		pgx.Identifier{"verifications"},
		[]string{"position", "business_number", "status", "risk_score", "verified", "phantom_risk", "checked_at"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("copy verifications: %w", err)
	}
	return nil
}
