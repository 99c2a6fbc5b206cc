package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tradeBack/internal/models"
)

// OpenJobStore is the persistence surface of the open-job completion
// workflow, keyed by (job, tradesman).
type OpenJobStore interface {
	GetByJobAndTradesman(ctx context.Context, jobID, tradesmanID int) (models.OpenJobCompletion, error)
	GetForCustomer(ctx context.Context, completionID, customerID int) (models.OpenJobCompletion, error)
	Create(ctx context.Context, c models.OpenJobCompletion) (models.OpenJobCompletion, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Confirm(ctx context.Context, completionID int, confirmedAt time.Time) error
	ListForJob(ctx context.Context, jobID int) ([]models.OpenJobCompletion, error)
}

// OpenJobService mirrors the job request workflow for customer-posted
// open jobs: here the tradesman marks completion and the customer who
// owns the posting confirms with the code.
type OpenJobService struct {
	Completions OpenJobStore
	Jobs        JobStore
	Notifier    Notifier
}

// MarkComplete records the tradesman's completion of an open job and
// hands back the confirmation code. A tradesman holds at most one
// completion per job; repeat calls return the existing code without
// regenerating it.
func (s *OpenJobService) MarkComplete(ctx context.Context, jobID, tradesmanID int) (models.MarkCompleteResult, error) {
	job, err := s.Jobs.GetJobByID(ctx, jobID)
	if err != nil {
		return models.MarkCompleteResult{}, err
	}
	if job.OwnerID == tradesmanID {
		return models.MarkCompleteResult{}, models.ErrForbidden
	}

	existing, err := s.Completions.GetByJobAndTradesman(ctx, jobID, tradesmanID)
	if err == nil {
		result := models.MarkCompleteResult{AlreadyConfirmed: existing.Status == models.StatusCompleted}
		if existing.ConfirmationCode != nil {
			result.Code = *existing.ConfirmationCode
		}
		return result, nil
	}
	if !errors.Is(err, models.ErrCompletionNotFound) {
		return models.MarkCompleteResult{}, err
	}

	now := time.Now()
	for {
		code, err := generateConfirmationCode(ctx, s.Completions)
		if err != nil {
			return models.MarkCompleteResult{}, err
		}

		_, err = s.Completions.Create(ctx, models.OpenJobCompletion{
			JobID:            jobID,
			TradesmanID:      tradesmanID,
			ConfirmationCode: &code,
			GeneratedAt:      &now,
			CompletedAt:      now,
		})
		if errors.Is(err, models.ErrDuplicateCode) {
			// Either the code or the (job, tradesman) key collided; a
			// re-lookup settles which.
			existing, lookupErr := s.Completions.GetByJobAndTradesman(ctx, jobID, tradesmanID)
			if lookupErr == nil {
				result := models.MarkCompleteResult{AlreadyConfirmed: existing.Status == models.StatusCompleted}
				if existing.ConfirmationCode != nil {
					result.Code = *existing.ConfirmationCode
				}
				return result, nil
			}
			if errors.Is(lookupErr, models.ErrCompletionNotFound) {
				continue
			}
			return models.MarkCompleteResult{}, lookupErr
		}
		if err != nil {
			return models.MarkCompleteResult{}, err
		}

		s.Notifier.Notify(ctx, job.OwnerID, models.NotificationJobStatus,
			fmt.Sprintf("Your open job %q is awaiting confirmation. Enter the code to verify completion.", job.Title),
			fmt.Sprintf("/open-jobs/%d/completions", jobID))
		return models.MarkCompleteResult{Code: code}, nil
	}
}

// Confirm is called by the open job's owner with the tradesman's code.
func (s *OpenJobService) Confirm(ctx context.Context, completionID, actorID int, submittedCode string) error {
	completion, err := s.Completions.GetForCustomer(ctx, completionID, actorID)
	if err != nil {
		return err
	}
	if completion.Status != models.StatusAwaitingConfirmation {
		return models.ErrInvalidState
	}

	code := strings.ToUpper(strings.TrimSpace(submittedCode))
	if code == "" || completion.ConfirmationCode == nil || code != *completion.ConfirmationCode {
		return models.ErrInvalidCode
	}

	if err := s.Completions.Confirm(ctx, completion.ID, time.Now()); err != nil {
		return err
	}

	s.Notifier.Notify(ctx, completion.TradesmanID, models.NotificationJobStatus,
		fmt.Sprintf("Your completion of %q has been confirmed.", completion.JobTitle),
		fmt.Sprintf("/open-jobs/%d/completions", completion.JobID))
	return nil
}

// ListForJob returns the completions recorded against an open job,
// visible to its owner.
func (s *OpenJobService) ListForJob(ctx context.Context, jobID, actorID int) ([]models.OpenJobCompletion, error) {
	job, err := s.Jobs.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.OwnerID != actorID {
		return nil, models.ErrForbidden
	}
	return s.Completions.ListForJob(ctx, jobID)
}
