package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tradeBack/internal/models"
)

type OpenJobRepository struct {
	DB *sql.DB
}

const completionColumns = `
SELECT c.id, c.job_id, j.title, j.owner_id, c.tradesman_id, u.name,
       c.status, c.confirmation_code, c.confirmation_generated_at,
       c.completed_at, c.confirmed_at
FROM open_job_completions c
JOIN jobs j ON j.id = c.job_id
JOIN users u ON u.id = c.tradesman_id
`

// GetByJobAndTradesman fetches the single completion a tradesman may
// hold for an open job.
func (r *OpenJobRepository) GetByJobAndTradesman(ctx context.Context, jobID, tradesmanID int) (models.OpenJobCompletion, error) {
	return r.getOne(ctx, completionColumns+` WHERE c.job_id = ? AND c.tradesman_id = ?`, jobID, tradesmanID)
}

// GetForCustomer fetches a completion visible to the open job's owner.
func (r *OpenJobRepository) GetForCustomer(ctx context.Context, completionID, customerID int) (models.OpenJobCompletion, error) {
	return r.getOne(ctx, completionColumns+` WHERE c.id = ? AND j.owner_id = ?`, completionID, customerID)
}

func (r *OpenJobRepository) getOne(ctx context.Context, query string, args ...interface{}) (models.OpenJobCompletion, error) {
	var c models.OpenJobCompletion
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&c.ID, &c.JobID, &c.JobTitle, &c.JobOwnerID, &c.TradesmanID, &c.TradesmanName,
		&c.Status, &c.ConfirmationCode, &c.GeneratedAt,
		&c.CompletedAt, &c.ConfirmedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.OpenJobCompletion{}, models.ErrCompletionNotFound
		}
		return models.OpenJobCompletion{}, err
	}
	return c, nil
}

// Create inserts a completion already awaiting confirmation. Both
// unique keys — (job_id, tradesman_id) and confirmation_code — report
// as ErrDuplicateCode; the caller regenerates the code and retries the
// lookup, which also resolves the one-completion-per-pair race.
func (r *OpenJobRepository) Create(ctx context.Context, c models.OpenJobCompletion) (models.OpenJobCompletion, error) {
	query := `
INSERT INTO open_job_completions (job_id, tradesman_id, status, confirmation_code, confirmation_generated_at, completed_at)
VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := r.DB.ExecContext(ctx, query,
		c.JobID, c.TradesmanID, models.StatusAwaitingConfirmation,
		c.ConfirmationCode, c.GeneratedAt, c.CompletedAt,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return models.OpenJobCompletion{}, models.ErrDuplicateCode
		}
		return models.OpenJobCompletion{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.OpenJobCompletion{}, err
	}
	c.ID = int(id)
	c.Status = models.StatusAwaitingConfirmation
	return c, nil
}

func (r *OpenJobRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var x int
	err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM open_job_completions WHERE confirmation_code = ? LIMIT 1`, code).Scan(&x)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Confirm completes a completion; the guarded UPDATE loses when the
// row is no longer awaiting confirmation.
func (r *OpenJobRepository) Confirm(ctx context.Context, completionID int, confirmedAt time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE open_job_completions SET status = ?, confirmed_at = ? WHERE id = ? AND status = ?`,
		models.StatusCompleted, confirmedAt, completionID, models.StatusAwaitingConfirmation)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrInvalidState
	}
	return nil
}

// ListForJob returns completions recorded against an open job, newest
// first.
func (r *OpenJobRepository) ListForJob(ctx context.Context, jobID int) ([]models.OpenJobCompletion, error) {
	rows, err := r.DB.QueryContext(ctx, completionColumns+` WHERE c.job_id = ? ORDER BY c.completed_at DESC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completions := []models.OpenJobCompletion{}
	for rows.Next() {
		var c models.OpenJobCompletion
		err := rows.Scan(
			&c.ID, &c.JobID, &c.JobTitle, &c.JobOwnerID, &c.TradesmanID, &c.TradesmanName,
			&c.Status, &c.ConfirmationCode, &c.GeneratedAt,
			&c.CompletedAt, &c.ConfirmedAt,
		)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}
