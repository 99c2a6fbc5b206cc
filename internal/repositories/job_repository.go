package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"tradeBack/internal/models"
)

type JobRepository struct {
	DB *sql.DB
}

func (r *JobRepository) CreateJob(ctx context.Context, job models.Job) (models.Job, error) {
	query := `
INSERT INTO jobs (title, description, location, hourly_rate, trade, owner_id, date_posted)
VALUES (?, ?, ?, ?, ?, ?, NOW())
	`
	result, err := r.DB.ExecContext(ctx, query,
		job.Title, job.Description, job.Location, job.HourlyRate, job.Trade, job.OwnerID,
	)
	if err != nil {
		return models.Job{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Job{}, err
	}
	job.ID = int(id)
	return job, nil
}

func (r *JobRepository) GetJobByID(ctx context.Context, id int) (models.Job, error) {
	var job models.Job
	query := `
SELECT j.id, j.title, j.description, j.location, j.hourly_rate, j.trade,
       j.owner_id, u.name, u.role, j.date_posted
FROM jobs j
JOIN users u ON u.id = j.owner_id
WHERE j.id = ?
	`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&job.ID, &job.Title, &job.Description, &job.Location, &job.HourlyRate, &job.Trade,
		&job.OwnerID, &job.OwnerName, &job.OwnerRole, &job.DatePosted,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Job{}, models.ErrJobNotFound
		}
		return models.Job{}, err
	}
	return job, nil
}

func (r *JobRepository) GetJobsByOwner(ctx context.Context, ownerID int) ([]models.Job, error) {
	query := `
SELECT j.id, j.title, j.description, j.location, j.hourly_rate, j.trade,
       j.owner_id, u.name, u.role, j.date_posted
FROM jobs j
JOIN users u ON u.id = j.owner_id
WHERE j.owner_id = ?
ORDER BY j.date_posted DESC
	`
	return r.queryJobs(ctx, query, ownerID)
}

// ListOpenJobs returns customer-posted jobs, optionally narrowed to a
// trade so tradesmen only see postings relevant to them.
func (r *JobRepository) ListOpenJobs(ctx context.Context, trade string) ([]models.Job, error) {
	query := `
SELECT j.id, j.title, j.description, j.location, j.hourly_rate, j.trade,
       j.owner_id, u.name, u.role, j.date_posted
FROM jobs j
JOIN users u ON u.id = j.owner_id
WHERE u.role = ?
	`
	args := []interface{}{models.RoleCustomer}
	if trade != "" {
		query += ` AND LOWER(j.trade) = LOWER(?)`
		args = append(args, trade)
	}
	query += ` ORDER BY j.date_posted DESC`
	return r.queryJobs(ctx, query, args...)
}

// SearchTradesmen filters tradesman profiles by trade, location and a
// free-text query, carrying the review average for each result.
func (r *JobRepository) SearchTradesmen(ctx context.Context, trade, location, q string) ([]models.User, error) {
	query := `
SELECT u.id, u.name, u.role, u.company_name, u.trade, u.service_area, u.location,
       u.hourly_rate, u.availability, u.years_of_exp, u.bio, u.contact_email, u.photo_path,
       u.created_at,
       (SELECT ROUND(AVG(rv.rating), 1)
        FROM job_reviews rv
        JOIN job_requests jr ON jr.id = rv.job_request_id
        JOIN jobs j ON j.id = jr.job_id
        WHERE j.owner_id = u.id) AS review_rating
FROM users u
WHERE u.role = ?
	`
	args := []interface{}{models.RoleTradesman}
	if trade != "" {
		query += ` AND LOWER(u.trade) = LOWER(?)`
		args = append(args, trade)
	}
	if location != "" {
		query += ` AND (LOWER(u.location) LIKE LOWER(?) OR LOWER(u.service_area) LIKE LOWER(?))`
		pattern := "%" + location + "%"
		args = append(args, pattern, pattern)
	}
	if q = strings.TrimSpace(q); q != "" {
		query += ` AND (LOWER(u.name) LIKE LOWER(?) OR LOWER(u.company_name) LIKE LOWER(?) OR LOWER(u.bio) LIKE LOWER(?))`
		pattern := "%" + q + "%"
		args = append(args, pattern, pattern, pattern)
	}
	query += ` ORDER BY review_rating IS NULL, review_rating DESC, u.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		err := rows.Scan(
			&u.ID, &u.Name, &u.Role, &u.CompanyName, &u.Trade, &u.ServiceArea, &u.Location,
			&u.HourlyRate, &u.Availability, &u.YearsOfExp, &u.Bio, &u.ContactEmail, &u.PhotoPath,
			&u.CreatedAt, &u.ReviewRating,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *JobRepository) queryJobs(ctx context.Context, query string, args ...interface{}) ([]models.Job, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []models.Job{}
	for rows.Next() {
		var job models.Job
		err := rows.Scan(
			&job.ID, &job.Title, &job.Description, &job.Location, &job.HourlyRate, &job.Trade,
			&job.OwnerID, &job.OwnerName, &job.OwnerRole, &job.DatePosted,
		)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
