package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tradeBack/internal/models"
)

// RequestStore is the persistence surface required by the job request
// workflow.
type RequestStore interface {
	CreateRequest(ctx context.Context, req models.JobRequest) (models.JobRequest, error)
	GetForOwner(ctx context.Context, requestID, ownerID int) (models.JobRequest, error)
	GetForCustomer(ctx context.Context, requestID, customerID int) (models.JobRequest, error)
	ListForOwner(ctx context.Context, ownerID int) ([]models.JobRequest, error)
	ListForCustomer(ctx context.Context, customerID int) ([]models.JobRequest, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	MarkAwaitingConfirmation(ctx context.Context, requestID int, fromStatus models.RequestStatus, code string, completedAt time.Time, generatedAt *time.Time) error
	ConfirmRequest(ctx context.Context, requestID int, confirmedAt time.Time) error
	AddImage(ctx context.Context, img models.JobRequestImage) (models.JobRequestImage, error)
}

type ReviewStore interface {
	Exists(ctx context.Context, requestID int) (bool, error)
	CreateReview(ctx context.Context, rev models.JobReview) (models.JobReview, error)
}

type JobStore interface {
	GetJobByID(ctx context.Context, id int) (models.Job, error)
}

// Notifier delivers best-effort notifications. Implementations swallow
// delivery failures; a lost notification never aborts a transition.
type Notifier interface {
	Notify(ctx context.Context, userID int, kind, message, link string)
}

type JobRequestService struct {
	Requests RequestStore
	Reviews  ReviewStore
	Jobs     JobStore
	Notifier Notifier
}

type codeChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// generateConfirmationCode produces an 8-char uppercase hex code from
// a v4 UUID, regenerating until it is free. The unique constraint on
// the code column stays authoritative for concurrent inserts.
func generateConfirmationCode(ctx context.Context, store codeChecker) (string, error) {
	for {
		code := strings.ToUpper(uuid.New().String()[:8])
		taken, err := store.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
}

// RequestJob creates a pending request from a customer against a job
// and notifies the job's owner.
func (s *JobRequestService) RequestJob(ctx context.Context, jobID, customerID int, message string, imagePaths []string) (models.JobRequest, error) {
	if strings.TrimSpace(message) == "" {
		return models.JobRequest{}, models.ErrEmptyMessage
	}
	job, err := s.Jobs.GetJobByID(ctx, jobID)
	if err != nil {
		return models.JobRequest{}, err
	}

	req, err := s.Requests.CreateRequest(ctx, models.JobRequest{
		JobID:      job.ID,
		CustomerID: customerID,
		Message:    message,
	})
	if err != nil {
		return models.JobRequest{}, err
	}
	req.JobTitle = job.Title
	req.JobOwnerID = job.OwnerID

	for _, path := range imagePaths {
		if path == "" {
			continue
		}
		if _, err := s.Requests.AddImage(ctx, models.JobRequestImage{JobRequestID: req.ID, ImagePath: path}); err != nil {
			return models.JobRequest{}, err
		}
	}

	s.Notifier.Notify(ctx, job.OwnerID, models.NotificationJobRequest,
		fmt.Sprintf("New job request for %q", job.Title),
		fmt.Sprintf("/requests/%d", req.ID))
	return req, nil
}

// MarkComplete is called by the tradesman who owns the job. It moves
// the request to awaiting_confirmation, generating the confirmation
// code at most once for the lifetime of the request. Calling it on an
// already completed request is a no-op that returns the existing code.
func (s *JobRequestService) MarkComplete(ctx context.Context, requestID, actorID int) (models.MarkCompleteResult, error) {
	req, err := s.Requests.GetForOwner(ctx, requestID, actorID)
	if err != nil {
		return models.MarkCompleteResult{}, err
	}

	if req.Status == models.StatusCompleted {
		result := models.MarkCompleteResult{AlreadyConfirmed: true}
		if req.ConfirmationCode != nil {
			result.Code = *req.ConfirmationCode
		}
		return result, nil
	}

	now := time.Now()
	for {
		var code string
		var generatedAt *time.Time
		if req.ConfirmationCode != nil {
			code = *req.ConfirmationCode
		} else {
			code, err = generateConfirmationCode(ctx, s.Requests)
			if err != nil {
				return models.MarkCompleteResult{}, err
			}
			generatedAt = &now
		}

		err = s.Requests.MarkAwaitingConfirmation(ctx, req.ID, req.Status, code, now, generatedAt)
		if errors.Is(err, models.ErrDuplicateCode) && generatedAt != nil {
			// Lost the insert race on the code column; pick another.
			continue
		}
		if errors.Is(err, models.ErrInvalidState) {
			// Status moved concurrently; a confirm may have landed.
			req, err = s.Requests.GetForOwner(ctx, requestID, actorID)
			if err == nil && req.Status == models.StatusCompleted {
				result := models.MarkCompleteResult{AlreadyConfirmed: true}
				if req.ConfirmationCode != nil {
					result.Code = *req.ConfirmationCode
				}
				return result, nil
			}
			if err != nil {
				return models.MarkCompleteResult{}, err
			}
			return models.MarkCompleteResult{}, models.ErrInvalidState
		}
		if err != nil {
			return models.MarkCompleteResult{}, err
		}

		s.Notifier.Notify(ctx, req.CustomerID, models.NotificationJobStatus,
			fmt.Sprintf("Your job %q is awaiting confirmation. Enter the code to verify completion.", req.JobTitle),
			fmt.Sprintf("/requests/%d/confirm", req.ID))
		return models.MarkCompleteResult{Code: code}, nil
	}
}

// Confirm is called by the request's customer with the code handed
// over by the tradesman. The comparison is trimmed and
// case-insensitive; a mismatch leaves the request untouched so the
// customer may resubmit.
func (s *JobRequestService) Confirm(ctx context.Context, requestID, actorID int, submittedCode string) error {
	req, err := s.Requests.GetForCustomer(ctx, requestID, actorID)
	if err != nil {
		return err
	}
	if req.Status != models.StatusAwaitingConfirmation {
		return models.ErrInvalidState
	}

	code := strings.ToUpper(strings.TrimSpace(submittedCode))
	if code == "" || req.ConfirmationCode == nil || code != *req.ConfirmationCode {
		return models.ErrInvalidCode
	}

	if err := s.Requests.ConfirmRequest(ctx, req.ID, time.Now()); err != nil {
		return err
	}

	s.Notifier.Notify(ctx, req.JobOwnerID, models.NotificationJobStatus,
		fmt.Sprintf("Your job %q has been confirmed as completed by %s.", req.JobTitle, req.CustomerName),
		fmt.Sprintf("/requests/%d", req.ID))
	return nil
}

// SubmitReview records the customer's one review of a completed
// request. Creation is final; duplicates and out-of-range ratings are
// rejected.
func (s *JobRequestService) SubmitReview(ctx context.Context, requestID, actorID, rating int, comment string, photoPath *string) (models.JobReview, error) {
	req, err := s.Requests.GetForCustomer(ctx, requestID, actorID)
	if err != nil {
		return models.JobReview{}, err
	}
	if req.Status != models.StatusCompleted {
		return models.JobReview{}, models.ErrInvalidState
	}
	if rating < 1 || rating > 5 {
		return models.JobReview{}, models.ErrInvalidRating
	}

	reviewed, err := s.Reviews.Exists(ctx, req.ID)
	if err != nil {
		return models.JobReview{}, err
	}
	if reviewed {
		return models.JobReview{}, models.ErrAlreadyReviewed
	}

	return s.Reviews.CreateReview(ctx, models.JobReview{
		JobRequestID: req.ID,
		Rating:       rating,
		Comment:      strings.TrimSpace(comment),
		PhotoPath:    photoPath,
	})
}

// GetRequest returns a request visible to either of its two parties.
func (s *JobRequestService) GetRequest(ctx context.Context, requestID, actorID int) (models.JobRequest, error) {
	req, err := s.Requests.GetForOwner(ctx, requestID, actorID)
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, models.ErrRequestNotFound) {
		return models.JobRequest{}, err
	}
	return s.Requests.GetForCustomer(ctx, requestID, actorID)
}

func (s *JobRequestService) ListForOwner(ctx context.Context, ownerID int) ([]models.JobRequest, error) {
	return s.Requests.ListForOwner(ctx, ownerID)
}

func (s *JobRequestService) ListForCustomer(ctx context.Context, customerID int) ([]models.JobRequest, error) {
	return s.Requests.ListForCustomer(ctx, customerID)
}
