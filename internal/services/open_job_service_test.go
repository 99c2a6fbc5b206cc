package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tradeBack/internal/models"
)

type stubOpenJobStore struct {
	nextID      int
	completions map[int]*models.OpenJobCompletion
}

func newStubOpenJobStore() *stubOpenJobStore {
	return &stubOpenJobStore{completions: map[int]*models.OpenJobCompletion{}}
}

func (s *stubOpenJobStore) GetByJobAndTradesman(_ context.Context, jobID, tradesmanID int) (models.OpenJobCompletion, error) {
	for _, c := range s.completions {
		if c.JobID == jobID && c.TradesmanID == tradesmanID {
			return *c, nil
		}
	}
	return models.OpenJobCompletion{}, models.ErrCompletionNotFound
}

func (s *stubOpenJobStore) GetForCustomer(_ context.Context, completionID, customerID int) (models.OpenJobCompletion, error) {
	c, ok := s.completions[completionID]
	if !ok || c.JobOwnerID != customerID {
		return models.OpenJobCompletion{}, models.ErrCompletionNotFound
	}
	return *c, nil
}

func (s *stubOpenJobStore) Create(_ context.Context, c models.OpenJobCompletion) (models.OpenJobCompletion, error) {
	for _, existing := range s.completions {
		if existing.JobID == c.JobID && existing.TradesmanID == c.TradesmanID {
			return models.OpenJobCompletion{}, models.ErrDuplicateCode
		}
	}
	s.nextID++
	c.ID = s.nextID
	c.Status = models.StatusAwaitingConfirmation
	c.JobOwnerID = openJobCustomerID
	stored := c
	s.completions[c.ID] = &stored
	return c, nil
}

func (s *stubOpenJobStore) CodeExists(_ context.Context, code string) (bool, error) {
	for _, c := range s.completions {
		if c.ConfirmationCode != nil && *c.ConfirmationCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubOpenJobStore) Confirm(_ context.Context, completionID int, confirmedAt time.Time) error {
	c, ok := s.completions[completionID]
	if !ok || c.Status != models.StatusAwaitingConfirmation {
		return models.ErrInvalidState
	}
	c.Status = models.StatusCompleted
	c.ConfirmedAt = &confirmedAt
	return nil
}

func (s *stubOpenJobStore) ListForJob(_ context.Context, jobID int) ([]models.OpenJobCompletion, error) {
	out := []models.OpenJobCompletion{}
	for _, c := range s.completions {
		if c.JobID == jobID {
			out = append(out, *c)
		}
	}
	return out, nil
}

const (
	openJobID         = 20
	openJobCustomerID = 5
	openTradesmanID   = 6
)

func newOpenJobService() (*OpenJobService, *stubOpenJobStore, *stubNotifier) {
	store := newStubOpenJobStore()
	notifier := &stubNotifier{}
	svc := &OpenJobService{
		Completions: store,
		Jobs: &stubJobStore{jobs: map[int]models.Job{
			openJobID: {ID: openJobID, Title: "Fence painting", OwnerID: openJobCustomerID},
		}},
		Notifier: notifier,
	}
	return svc, store, notifier
}

func TestOpenJobMarkCompleteIdempotentCode(t *testing.T) {
	svc, _, _ := newOpenJobService()

	first, err := svc.MarkComplete(context.Background(), openJobID, openTradesmanID)
	if err != nil {
		t.Fatalf("MarkComplete error: %v", err)
	}
	if len(first.Code) != 8 || first.Code != strings.ToUpper(first.Code) {
		t.Fatalf("code %q is not 8 uppercase chars", first.Code)
	}

	second, err := svc.MarkComplete(context.Background(), openJobID, openTradesmanID)
	if err != nil {
		t.Fatalf("second MarkComplete error: %v", err)
	}
	if second.Code != first.Code {
		t.Fatalf("code regenerated: %q != %q", second.Code, first.Code)
	}
}

func TestOpenJobOwnerCannotCompleteOwnJob(t *testing.T) {
	svc, _, _ := newOpenJobService()

	_, err := svc.MarkComplete(context.Background(), openJobID, openJobCustomerID)
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestOpenJobConfirmFlow(t *testing.T) {
	svc, store, _ := newOpenJobService()
	result, _ := svc.MarkComplete(context.Background(), openJobID, openTradesmanID)

	completion, err := svc.Completions.GetByJobAndTradesman(context.Background(), openJobID, openTradesmanID)
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}

	if err := svc.Confirm(context.Background(), completion.ID, openJobCustomerID, "badcode1"); !errors.Is(err, models.ErrInvalidCode) {
		t.Fatalf("wrong code: err = %v, want ErrInvalidCode", err)
	}
	if err := svc.Confirm(context.Background(), completion.ID, openJobCustomerID, strings.ToLower(result.Code)); err != nil {
		t.Fatalf("Confirm error: %v", err)
	}
	if store.completions[completion.ID].Status != models.StatusCompleted {
		t.Fatalf("status = %s, want completed", store.completions[completion.ID].Status)
	}

	// Repeat mark reports confirmed without touching the code.
	again, err := svc.MarkComplete(context.Background(), openJobID, openTradesmanID)
	if err != nil {
		t.Fatalf("MarkComplete after confirm error: %v", err)
	}
	if !again.AlreadyConfirmed || again.Code != result.Code {
		t.Fatalf("unexpected result after confirm: %+v", again)
	}
}

func TestOpenJobListVisibleToOwnerOnly(t *testing.T) {
	svc, _, _ := newOpenJobService()
	if _, err := svc.MarkComplete(context.Background(), openJobID, openTradesmanID); err != nil {
		t.Fatalf("MarkComplete error: %v", err)
	}

	if _, err := svc.ListForJob(context.Background(), openJobID, openTradesmanID); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	completions, err := svc.ListForJob(context.Background(), openJobID, openJobCustomerID)
	if err != nil {
		t.Fatalf("ListForJob error: %v", err)
	}
	if len(completions) != 1 {
		t.Fatalf("len(completions) = %d, want 1", len(completions))
	}
}
