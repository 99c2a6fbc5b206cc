package repositories

import (
	"context"
	"database/sql"
	"errors"

	"tradeBack/internal/models"
)

type ReviewRepository struct {
	DB *sql.DB
}

// CreateReview inserts the one allowed review for a completed request.
// The unique key on job_request_id closes the race between two
// concurrent submissions; the loser gets ErrAlreadyReviewed.
func (r *ReviewRepository) CreateReview(ctx context.Context, rev models.JobReview) (models.JobReview, error) {
	query := `
INSERT INTO job_reviews (job_request_id, rating, comment, photo_path, created_at)
VALUES (?, ?, ?, ?, NOW())
	`
	result, err := r.DB.ExecContext(ctx, query, rev.JobRequestID, rev.Rating, rev.Comment, rev.PhotoPath)
	if err != nil {
		if isDuplicateEntry(err) {
			return models.JobReview{}, models.ErrAlreadyReviewed
		}
		return models.JobReview{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.JobReview{}, err
	}
	rev.ID = int(id)
	return rev, nil
}

func (r *ReviewRepository) Exists(ctx context.Context, requestID int) (bool, error) {
	var x int
	err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM job_reviews WHERE job_request_id = ? LIMIT 1`, requestID).Scan(&x)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListForTradesman returns reviews left on the tradesman's jobs,
// newest first.
func (r *ReviewRepository) ListForTradesman(ctx context.Context, tradesmanID int) ([]models.JobReview, error) {
	query := `
SELECT rv.id, rv.job_request_id, rv.rating, rv.comment, rv.photo_path,
       u.name, j.title, rv.created_at
FROM job_reviews rv
JOIN job_requests jr ON jr.id = rv.job_request_id
JOIN jobs j ON j.id = jr.job_id
JOIN users u ON u.id = jr.customer_id
WHERE j.owner_id = ?
ORDER BY rv.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, tradesmanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.JobReview{}
	for rows.Next() {
		var rev models.JobReview
		err := rows.Scan(&rev.ID, &rev.JobRequestID, &rev.Rating, &rev.Comment, &rev.PhotoPath,
			&rev.CustomerName, &rev.JobTitle, &rev.CreatedAt)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

// AverageRatingForTradesman returns the rounded review average across
// the tradesman's jobs, or nil when no reviews exist.
func (r *ReviewRepository) AverageRatingForTradesman(ctx context.Context, tradesmanID int) (*float64, error) {
	var avg sql.NullFloat64
	query := `
SELECT ROUND(AVG(rv.rating), 1)
FROM job_reviews rv
JOIN job_requests jr ON jr.id = rv.job_request_id
JOIN jobs j ON j.id = jr.job_id
WHERE j.owner_id = ?
	`
	if err := r.DB.QueryRowContext(ctx, query, tradesmanID).Scan(&avg); err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}
