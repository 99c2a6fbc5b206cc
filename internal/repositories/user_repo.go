package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tradeBack/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
INSERT INTO users (name, email, password, role, company_name, trade, service_area, location,
                   hourly_rate, availability, years_of_exp, bio, contact_email, photo_path, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`
	result, err := r.DB.ExecContext(ctx, query,
		user.Name, user.Email, user.Password, user.Role,
		user.CompanyName, user.Trade, user.ServiceArea, user.Location,
		user.HourlyRate, user.Availability, user.YearsOfExp, user.Bio,
		user.ContactEmail, user.PhotoPath,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return models.User{}, models.ErrDuplicateEmail
		}
		return models.User{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	user.ID = int(id)
	user.Password = ""
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (models.User, error) {
	var user models.User
	query := `
SELECT id, name, email, role, company_name, trade, service_area, location,
       hourly_rate, availability, years_of_exp, bio, contact_email, photo_path,
       created_at, updated_at
FROM users WHERE id = ?
	`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Role,
		&user.CompanyName, &user.Trade, &user.ServiceArea, &user.Location,
		&user.HourlyRate, &user.Availability, &user.YearsOfExp, &user.Bio,
		&user.ContactEmail, &user.PhotoPath,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	query := `SELECT id, name, email, password, role, created_at FROM users WHERE email = ?`
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, nil
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user models.User) error {
	query := `
UPDATE users
SET name = ?, company_name = ?, trade = ?, service_area = ?, location = ?,
    hourly_rate = ?, availability = ?, years_of_exp = ?, bio = ?,
    contact_email = ?, photo_path = ?, updated_at = NOW()
WHERE id = ?
	`
	_, err := r.DB.ExecContext(ctx, query,
		user.Name, user.CompanyName, user.Trade, user.ServiceArea, user.Location,
		user.HourlyRate, user.Availability, user.YearsOfExp, user.Bio,
		user.ContactEmail, user.PhotoPath, user.ID,
	)
	return err
}

func (r *UserRepository) CreateSession(ctx context.Context, session models.Session) error {
	query := `
INSERT INTO sessions (user_id, role, refresh_token, expires_at)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE refresh_token = VALUES(refresh_token), expires_at = VALUES(expires_at)
	`
	_, err := r.DB.ExecContext(ctx, query, session.UserID, session.Role, session.RefreshToken, session.ExpiresAt)
	return err
}

func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (models.Session, error) {
	var session models.Session
	query := `SELECT user_id, role, refresh_token, expires_at FROM sessions WHERE refresh_token = ?`
	err := r.DB.QueryRowContext(ctx, query, refreshToken).Scan(
		&session.UserID, &session.Role, &session.RefreshToken, &session.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, nil
		}
		return models.Session{}, err
	}
	return session, nil
}

func (r *UserRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, now)
	return err
}
