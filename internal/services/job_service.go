package services

import (
	"context"
	"strings"

	"tradeBack/internal/models"
	"tradeBack/internal/repositories"
)

type JobService struct {
	JobRepo    *repositories.JobRepository
	ReviewRepo *repositories.ReviewRepository
}

// CreateJob posts a job under the given owner. Tradesmen post service
// offerings; customers post open jobs for tradesmen to pick up.
func (s *JobService) CreateJob(ctx context.Context, job models.Job) (models.Job, error) {
	job.Title = strings.TrimSpace(job.Title)
	if job.Title == "" || strings.TrimSpace(job.Description) == "" {
		return models.Job{}, models.ErrEmptyMessage
	}
	return s.JobRepo.CreateJob(ctx, job)
}

func (s *JobService) GetJobByID(ctx context.Context, id int) (models.Job, error) {
	return s.JobRepo.GetJobByID(ctx, id)
}

func (s *JobService) ListByOwner(ctx context.Context, ownerID int) ([]models.Job, error) {
	return s.JobRepo.GetJobsByOwner(ctx, ownerID)
}

// OpenJobsBoard lists customer-posted jobs for tradesmen to browse,
// optionally narrowed by trade.
func (s *JobService) OpenJobsBoard(ctx context.Context, trade string) ([]models.Job, error) {
	return s.JobRepo.ListOpenJobs(ctx, strings.TrimSpace(trade))
}

// SearchTradesmen filters tradesman profiles by trade, location and a
// free-text query.
func (s *JobService) SearchTradesmen(ctx context.Context, trade, location, q string) ([]models.User, error) {
	return s.JobRepo.SearchTradesmen(ctx, strings.TrimSpace(trade), strings.TrimSpace(location), q)
}

// ReviewsForTradesman exposes the public review feed on a tradesman
// profile.
func (s *JobService) ReviewsForTradesman(ctx context.Context, tradesmanID int) ([]models.JobReview, error) {
	return s.ReviewRepo.ListForTradesman(ctx, tradesmanID)
}
