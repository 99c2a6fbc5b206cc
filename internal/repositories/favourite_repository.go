package repositories

import (
	"context"
	"database/sql"
	"errors"

	"tradeBack/internal/models"
)

type FavouriteRepository struct {
	DB *sql.DB
}

// Add saves a customer→tradesman favourite. The unique key on
// (customer_id, tradesman_id) reports duplicates as
// ErrAlreadyFavourite.
func (r *FavouriteRepository) Add(ctx context.Context, customerID, tradesmanID int) (models.Favourite, error) {
	result, err := r.DB.ExecContext(ctx,
		`INSERT INTO favourites (customer_id, tradesman_id, created_at) VALUES (?, ?, NOW())`,
		customerID, tradesmanID)
	if err != nil {
		if isDuplicateEntry(err) {
			return models.Favourite{}, models.ErrAlreadyFavourite
		}
		return models.Favourite{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Favourite{}, err
	}
	return models.Favourite{ID: int(id), CustomerID: customerID, TradesmanID: tradesmanID}, nil
}

func (r *FavouriteRepository) Remove(ctx context.Context, customerID, tradesmanID int) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM favourites WHERE customer_id = ? AND tradesman_id = ?`,
		customerID, tradesmanID)
	return err
}

func (r *FavouriteRepository) Exists(ctx context.Context, customerID, tradesmanID int) (bool, error) {
	var x int
	err := r.DB.QueryRowContext(ctx,
		`SELECT 1 FROM favourites WHERE customer_id = ? AND tradesman_id = ? LIMIT 1`,
		customerID, tradesmanID).Scan(&x)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *FavouriteRepository) ListForCustomer(ctx context.Context, customerID int) ([]models.Favourite, error) {
	query := `
SELECT f.id, f.customer_id, f.tradesman_id, u.name, u.trade, u.location,
       (SELECT ROUND(AVG(rv.rating), 1)
        FROM job_reviews rv
        JOIN job_requests jr ON jr.id = rv.job_request_id
        JOIN jobs j ON j.id = jr.job_id
        WHERE j.owner_id = u.id) AS review_rating,
       f.created_at
FROM favourites f
JOIN users u ON u.id = f.tradesman_id
WHERE f.customer_id = ?
ORDER BY f.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favourites := []models.Favourite{}
	for rows.Next() {
		var f models.Favourite
		err := rows.Scan(&f.ID, &f.CustomerID, &f.TradesmanID, &f.TradesmanName,
			&f.Trade, &f.Location, &f.ReviewRating, &f.CreatedAt)
		if err != nil {
			return nil, err
		}
		favourites = append(favourites, f)
	}
	return favourites, rows.Err()
}
