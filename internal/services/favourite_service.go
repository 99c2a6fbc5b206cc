package services

import (
	"context"
	"errors"

	"tradeBack/internal/models"
	"tradeBack/internal/repositories"
)

type FavouriteService struct {
	FavouriteRepo *repositories.FavouriteRepository
	UserRepo      *repositories.UserRepository
}

// Toggle flips the favourite state for a tradesman and reports the new
// state. Adding an already saved tradesman just reads back as saved.
func (s *FavouriteService) Toggle(ctx context.Context, customerID, tradesmanID int) (bool, error) {
	if customerID == tradesmanID {
		return false, models.ErrSameUser
	}
	tradesman, err := s.UserRepo.GetUserByID(ctx, tradesmanID)
	if err != nil {
		return false, err
	}
	if tradesman.Role != models.RoleTradesman {
		return false, models.ErrForbidden
	}

	saved, err := s.FavouriteRepo.Exists(ctx, customerID, tradesmanID)
	if err != nil {
		return false, err
	}
	if saved {
		if err := s.FavouriteRepo.Remove(ctx, customerID, tradesmanID); err != nil {
			return false, err
		}
		return false, nil
	}

	_, err = s.FavouriteRepo.Add(ctx, customerID, tradesmanID)
	if errors.Is(err, models.ErrAlreadyFavourite) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *FavouriteService) ListForCustomer(ctx context.Context, customerID int) ([]models.Favourite, error) {
	return s.FavouriteRepo.ListForCustomer(ctx, customerID)
}

func (s *FavouriteService) IsFavourite(ctx context.Context, customerID, tradesmanID int) (bool, error) {
	return s.FavouriteRepo.Exists(ctx, customerID, tradesmanID)
}
