package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tradeBack/internal/fsm"
	"tradeBack/internal/models"
)

type JobRequestRepository struct {
	DB *sql.DB
}

const requestColumns = `
SELECT jr.id, jr.job_id, j.title, j.owner_id, jr.customer_id, u.name,
       jr.message, jr.status, jr.confirmation_code, jr.date_requested,
       jr.confirmation_generated_at, jr.completed_at, jr.confirmed_at
FROM job_requests jr
JOIN jobs j ON j.id = jr.job_id
JOIN users u ON u.id = jr.customer_id
`

func (r *JobRequestRepository) CreateRequest(ctx context.Context, req models.JobRequest) (models.JobRequest, error) {
	query := `
INSERT INTO job_requests (job_id, customer_id, message, status, date_requested)
VALUES (?, ?, ?, ?, NOW())
	`
	result, err := r.DB.ExecContext(ctx, query, req.JobID, req.CustomerID, req.Message, models.StatusPending)
	if err != nil {
		return models.JobRequest{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.JobRequest{}, err
	}
	req.ID = int(id)
	req.Status = models.StatusPending
	return req, nil
}

// GetForOwner fetches a request visible to the owner of the referenced
// job. A request that exists but belongs to another tradesman's job is
// reported as not found.
func (r *JobRequestRepository) GetForOwner(ctx context.Context, requestID, ownerID int) (models.JobRequest, error) {
	return r.getOne(ctx, requestColumns+` WHERE jr.id = ? AND j.owner_id = ?`, requestID, ownerID)
}

// GetForCustomer fetches a request visible to the customer who made it.
func (r *JobRequestRepository) GetForCustomer(ctx context.Context, requestID, customerID int) (models.JobRequest, error) {
	return r.getOne(ctx, requestColumns+` WHERE jr.id = ? AND jr.customer_id = ?`, requestID, customerID)
}

func (r *JobRequestRepository) getOne(ctx context.Context, query string, args ...interface{}) (models.JobRequest, error) {
	var req models.JobRequest
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&req.ID, &req.JobID, &req.JobTitle, &req.JobOwnerID, &req.CustomerID, &req.CustomerName,
		&req.Message, &req.Status, &req.ConfirmationCode, &req.DateRequested,
		&req.GeneratedAt, &req.CompletedAt, &req.ConfirmedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.JobRequest{}, models.ErrRequestNotFound
		}
		return models.JobRequest{}, err
	}
	return req, nil
}

func (r *JobRequestRepository) ListForOwner(ctx context.Context, ownerID int) ([]models.JobRequest, error) {
	return r.list(ctx, requestColumns+` WHERE j.owner_id = ? ORDER BY jr.date_requested DESC`, ownerID)
}

func (r *JobRequestRepository) ListForCustomer(ctx context.Context, customerID int) ([]models.JobRequest, error) {
	return r.list(ctx, requestColumns+` WHERE jr.customer_id = ? ORDER BY jr.date_requested DESC`, customerID)
}

func (r *JobRequestRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.JobRequest, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []models.JobRequest{}
	for rows.Next() {
		var req models.JobRequest
		err := rows.Scan(
			&req.ID, &req.JobID, &req.JobTitle, &req.JobOwnerID, &req.CustomerID, &req.CustomerName,
			&req.Message, &req.Status, &req.ConfirmationCode, &req.DateRequested,
			&req.GeneratedAt, &req.CompletedAt, &req.ConfirmedAt,
		)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// CodeExists reports whether a confirmation code is already taken by
// any request. The unique key on confirmation_code remains the
// authority; this only short-circuits the generator's retry loop.
func (r *JobRequestRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var x int
	err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM job_requests WHERE confirmation_code = ? LIMIT 1`, code).Scan(&x)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkAwaitingConfirmation moves a request into awaiting_confirmation,
// stamping completed_at and, when generatedAt is set, storing the
// freshly generated code. A concurrent insert of the same code
// surfaces as ErrDuplicateCode so the caller can regenerate.
func (r *JobRequestRepository) MarkAwaitingConfirmation(ctx context.Context, requestID int, fromStatus models.RequestStatus, code string, completedAt time.Time, generatedAt *time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fsm.ApplyRequest(ctx, tx, requestID, fromStatus, models.StatusAwaitingConfirmation); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrInvalidState
		}
		return err
	}

	if generatedAt != nil {
		_, err = tx.ExecContext(ctx,
			`UPDATE job_requests SET confirmation_code = ?, confirmation_generated_at = ?, completed_at = ? WHERE id = ?`,
			code, generatedAt, completedAt, requestID)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE job_requests SET completed_at = ? WHERE id = ?`,
			completedAt, requestID)
	}
	if err != nil {
		if isDuplicateEntry(err) {
			return models.ErrDuplicateCode
		}
		return err
	}
	return tx.Commit()
}

// ConfirmRequest completes a request. The guarded transition loses if
// the request is no longer awaiting confirmation.
func (r *JobRequestRepository) ConfirmRequest(ctx context.Context, requestID int, confirmedAt time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fsm.ApplyRequest(ctx, tx, requestID, models.StatusAwaitingConfirmation, models.StatusCompleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrInvalidState
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE job_requests SET confirmed_at = ? WHERE id = ?`, confirmedAt, requestID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *JobRequestRepository) AddImage(ctx context.Context, img models.JobRequestImage) (models.JobRequestImage, error) {
	result, err := r.DB.ExecContext(ctx,
		`INSERT INTO job_request_images (job_request_id, image_path, uploaded_at) VALUES (?, ?, NOW())`,
		img.JobRequestID, img.ImagePath)
	if err != nil {
		return models.JobRequestImage{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.JobRequestImage{}, err
	}
	img.ID = int(id)
	return img, nil
}

func (r *JobRequestRepository) GetImages(ctx context.Context, requestID int) ([]models.JobRequestImage, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, job_request_id, image_path, uploaded_at FROM job_request_images WHERE job_request_id = ? ORDER BY uploaded_at`,
		requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []models.JobRequestImage{}
	for rows.Next() {
		var img models.JobRequestImage
		if err := rows.Scan(&img.ID, &img.JobRequestID, &img.ImagePath, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}
