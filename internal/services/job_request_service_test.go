package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tradeBack/internal/models"
)

type stubNotifier struct {
	notified []int
	kinds    []string
}

func (s *stubNotifier) Notify(_ context.Context, userID int, kind, _, _ string) {
	s.notified = append(s.notified, userID)
	s.kinds = append(s.kinds, kind)
}

type stubJobStore struct {
	jobs map[int]models.Job
}

func (s *stubJobStore) GetJobByID(_ context.Context, id int) (models.Job, error) {
	job, ok := s.jobs[id]
	if !ok {
		return models.Job{}, models.ErrJobNotFound
	}
	return job, nil
}

type stubRequestStore struct {
	nextID   int
	requests map[int]*models.JobRequest
	jobs     map[int]models.Job
	images   []models.JobRequestImage
}

func newStubRequestStore(jobs map[int]models.Job) *stubRequestStore {
	return &stubRequestStore{requests: map[int]*models.JobRequest{}, jobs: jobs}
}

func (s *stubRequestStore) CreateRequest(_ context.Context, req models.JobRequest) (models.JobRequest, error) {
	s.nextID++
	req.ID = s.nextID
	req.Status = models.StatusPending
	req.DateRequested = time.Now()
	stored := req
	s.requests[req.ID] = &stored
	return req, nil
}

func (s *stubRequestStore) hydrate(req models.JobRequest) models.JobRequest {
	if job, ok := s.jobs[req.JobID]; ok {
		req.JobTitle = job.Title
		req.JobOwnerID = job.OwnerID
	}
	return req
}

func (s *stubRequestStore) GetForOwner(_ context.Context, requestID, ownerID int) (models.JobRequest, error) {
	req, ok := s.requests[requestID]
	if !ok || s.jobs[req.JobID].OwnerID != ownerID {
		return models.JobRequest{}, models.ErrRequestNotFound
	}
	return s.hydrate(*req), nil
}

func (s *stubRequestStore) GetForCustomer(_ context.Context, requestID, customerID int) (models.JobRequest, error) {
	req, ok := s.requests[requestID]
	if !ok || req.CustomerID != customerID {
		return models.JobRequest{}, models.ErrRequestNotFound
	}
	return s.hydrate(*req), nil
}

func (s *stubRequestStore) ListForOwner(_ context.Context, ownerID int) ([]models.JobRequest, error) {
	out := []models.JobRequest{}
	for _, req := range s.requests {
		if s.jobs[req.JobID].OwnerID == ownerID {
			out = append(out, s.hydrate(*req))
		}
	}
	return out, nil
}

func (s *stubRequestStore) ListForCustomer(_ context.Context, customerID int) ([]models.JobRequest, error) {
	out := []models.JobRequest{}
	for _, req := range s.requests {
		if req.CustomerID == customerID {
			out = append(out, s.hydrate(*req))
		}
	}
	return out, nil
}

func (s *stubRequestStore) CodeExists(_ context.Context, code string) (bool, error) {
	for _, req := range s.requests {
		if req.ConfirmationCode != nil && *req.ConfirmationCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRequestStore) MarkAwaitingConfirmation(_ context.Context, requestID int, fromStatus models.RequestStatus, code string, completedAt time.Time, generatedAt *time.Time) error {
	req, ok := s.requests[requestID]
	if !ok || req.Status != fromStatus {
		return models.ErrInvalidState
	}
	req.Status = models.StatusAwaitingConfirmation
	req.ConfirmationCode = &code
	req.CompletedAt = &completedAt
	if generatedAt != nil {
		req.GeneratedAt = generatedAt
	}
	return nil
}

func (s *stubRequestStore) ConfirmRequest(_ context.Context, requestID int, confirmedAt time.Time) error {
	req, ok := s.requests[requestID]
	if !ok || req.Status != models.StatusAwaitingConfirmation {
		return models.ErrInvalidState
	}
	req.Status = models.StatusCompleted
	req.ConfirmedAt = &confirmedAt
	return nil
}

func (s *stubRequestStore) AddImage(_ context.Context, img models.JobRequestImage) (models.JobRequestImage, error) {
	img.ID = len(s.images) + 1
	s.images = append(s.images, img)
	return img, nil
}

type stubReviewStore struct {
	reviews map[int]models.JobReview
}

func (s *stubReviewStore) Exists(_ context.Context, requestID int) (bool, error) {
	_, ok := s.reviews[requestID]
	return ok, nil
}

func (s *stubReviewStore) CreateReview(_ context.Context, rev models.JobReview) (models.JobReview, error) {
	if _, ok := s.reviews[rev.JobRequestID]; ok {
		return models.JobReview{}, models.ErrAlreadyReviewed
	}
	rev.ID = len(s.reviews) + 1
	s.reviews[rev.JobRequestID] = rev
	return rev, nil
}

const (
	tradesmanID = 1
	customerID  = 2
	jobID       = 10
)

func newRequestService() (*JobRequestService, *stubRequestStore, *stubNotifier) {
	jobs := map[int]models.Job{
		jobID: {ID: jobID, Title: "Boiler repair", OwnerID: tradesmanID},
	}
	store := newStubRequestStore(jobs)
	notifier := &stubNotifier{}
	svc := &JobRequestService{
		Requests: store,
		Reviews:  &stubReviewStore{reviews: map[int]models.JobReview{}},
		Jobs:     &stubJobStore{jobs: jobs},
		Notifier: notifier,
	}
	return svc, store, notifier
}

func TestRequestJobNotifiesOwner(t *testing.T) {
	svc, _, notifier := newRequestService()

	req, err := svc.RequestJob(context.Background(), jobID, customerID, "Please fix my boiler", nil)
	if err != nil {
		t.Fatalf("RequestJob error: %v", err)
	}
	if req.Status != models.StatusPending {
		t.Fatalf("status = %s, want pending", req.Status)
	}
	if len(notifier.notified) != 1 || notifier.notified[0] != tradesmanID {
		t.Fatalf("expected owner %d to be notified, got %v", tradesmanID, notifier.notified)
	}
}

func TestRequestJobRejectsEmptyMessage(t *testing.T) {
	svc, _, _ := newRequestService()

	_, err := svc.RequestJob(context.Background(), jobID, customerID, "   ", nil)
	if !errors.Is(err, models.ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
}

func TestMarkCompleteGeneratesCodeOnce(t *testing.T) {
	svc, _, _ := newRequestService()
	req, _ := svc.RequestJob(context.Background(), jobID, customerID, "fix it", nil)

	first, err := svc.MarkComplete(context.Background(), req.ID, tradesmanID)
	if err != nil {
		t.Fatalf("MarkComplete error: %v", err)
	}
	if len(first.Code) != 8 || first.Code != strings.ToUpper(first.Code) {
		t.Fatalf("code %q is not 8 uppercase chars", first.Code)
	}
	if first.AlreadyConfirmed {
		t.Fatal("fresh completion reported as already confirmed")
	}

	second, err := svc.MarkComplete(context.Background(), req.ID, tradesmanID)
	if err != nil {
		t.Fatalf("second MarkComplete error: %v", err)
	}
	if second.Code != first.Code {
		t.Fatalf("code changed on repeat call: %q != %q", second.Code, first.Code)
	}
}

func TestMarkCompleteForbiddenForStranger(t *testing.T) {
	svc, _, _ := newRequestService()
	req, _ := svc.RequestJob(context.Background(), jobID, customerID, "fix it", nil)

	_, err := svc.MarkComplete(context.Background(), req.ID, 99)
	if !errors.Is(err, models.ErrRequestNotFound) {
		t.Fatalf("err = %v, want ErrRequestNotFound", err)
	}
}

func TestConfirmIsTrimmedAndCaseInsensitive(t *testing.T) {
	svc, store, _ := newRequestService()
	req, _ := svc.RequestJob(context.Background(), jobID, customerID, "fix it", nil)
	result, _ := svc.MarkComplete(context.Background(), req.ID, tradesmanID)

	submitted := "  " + strings.ToLower(result.Code) + " "
	if err := svc.Confirm(context.Background(), req.ID, customerID, submitted); err != nil {
		t.Fatalf("Confirm error: %v", err)
	}
	if store.requests[req.ID].Status != models.StatusCompleted {
		t.Fatalf("status = %s, want completed", store.requests[req.ID].Status)
	}
}

func TestConfirmWrongCodeLeavesStateAndAllowsRetry(t *testing.T) {
	svc, store, _ := newRequestService()
	req, _ := svc.RequestJob(context.Background(), jobID, customerID, "fix it", nil)
	result, _ := svc.MarkComplete(context.Background(), req.ID, tradesmanID)

	err := svc.Confirm(context.Background(), req.ID, customerID, "WRONGCOD")
	if !errors.Is(err, models.ErrInvalidCode) {
		t.Fatalf("err = %v, want ErrInvalidCode", err)
	}
	if store.requests[req.ID].Status != models.StatusAwaitingConfirmation {
		t.Fatalf("status changed on wrong code: %s", store.requests[req.ID].Status)
	}

	if err := svc.Confirm(context.Background(), req.ID, customerID, result.Code); err != nil {
		t.Fatalf("retry with correct code failed: %v", err)
	}
}

func TestConfirmBeforeMarkCompleteRejected(t *testing.T) {
	svc, _, _ := newRequestService()
	req, _ := svc.RequestJob(context.Background(), jobID, customerID, "fix it", nil)

	err := svc.Confirm(context.Background(), req.ID, customerID, "ANYTHING")
	if !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestMarkCompleteAfterConfirmIsNoOp(t *testing.T) {
	svc, _, _ := newRequestService()
	req, _ := svc.RequestJob(context.Background(), jobID, customerID, "fix it", nil)
	result, _ := svc.MarkComplete(context.Background(), req.ID, tradesmanID)
	if err := svc.Confirm(context.Background(), req.ID, customerID, result.Code); err != nil {
		t.Fatalf("Confirm error: %v", err)
	}

	again, err := svc.MarkComplete(context.Background(), req.ID, tradesmanID)
	if err != nil {
		t.Fatalf("MarkComplete after confirm error: %v", err)
	}
	if !again.AlreadyConfirmed {
		t.Fatal("expected AlreadyConfirmed after customer confirmation")
	}
	if again.Code != result.Code {
		t.Fatalf("code changed after confirm: %q != %q", again.Code, result.Code)
	}
}

func completedRequest(t *testing.T, svc *JobRequestService) models.JobRequest {
	t.Helper()
	req, err := svc.RequestJob(context.Background(), jobID, customerID, "fix it", nil)
	if err != nil {
		t.Fatalf("RequestJob error: %v", err)
	}
	result, err := svc.MarkComplete(context.Background(), req.ID, tradesmanID)
	if err != nil {
		t.Fatalf("MarkComplete error: %v", err)
	}
	if err := svc.Confirm(context.Background(), req.ID, customerID, result.Code); err != nil {
		t.Fatalf("Confirm error: %v", err)
	}
	return req
}

func TestSubmitReviewOncePerRequest(t *testing.T) {
	svc, _, _ := newRequestService()
	req := completedRequest(t, svc)

	if _, err := svc.SubmitReview(context.Background(), req.ID, customerID, 5, "great work", nil); err != nil {
		t.Fatalf("SubmitReview error: %v", err)
	}
	_, err := svc.SubmitReview(context.Background(), req.ID, customerID, 3, "changed my mind", nil)
	if !errors.Is(err, models.ErrAlreadyReviewed) {
		t.Fatalf("err = %v, want ErrAlreadyReviewed", err)
	}
}

func TestSubmitReviewRatingBounds(t *testing.T) {
	svc, _, _ := newRequestService()
	req := completedRequest(t, svc)

	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.SubmitReview(context.Background(), req.ID, customerID, rating, "x", nil); !errors.Is(err, models.ErrInvalidRating) {
			t.Fatalf("rating %d: err = %v, want ErrInvalidRating", rating, err)
		}
	}
	for _, rating := range []int{1, 5} {
		svc2, _, _ := newRequestService()
		req2 := completedRequest(t, svc2)
		if _, err := svc2.SubmitReview(context.Background(), req2.ID, customerID, rating, "x", nil); err != nil {
			t.Fatalf("rating %d rejected: %v", rating, err)
		}
	}
}

// codeCollidingStore loses the first code insert to a concurrent
// request that claimed the same code between the CodeExists pre-check
// and the UPDATE, the way the unique key on confirmation_code reports
// it.
type codeCollidingStore struct {
	*stubRequestStore
	collidedCode string
}

func (s *codeCollidingStore) MarkAwaitingConfirmation(ctx context.Context, requestID int, fromStatus models.RequestStatus, code string, completedAt time.Time, generatedAt *time.Time) error {
	if s.collidedCode == "" {
		s.collidedCode = code
		return models.ErrDuplicateCode
	}
	return s.stubRequestStore.MarkAwaitingConfirmation(ctx, requestID, fromStatus, code, completedAt, generatedAt)
}

func TestMarkCompleteRegeneratesCodeOnInsertRace(t *testing.T) {
	jobs := map[int]models.Job{
		jobID: {ID: jobID, Title: "Boiler repair", OwnerID: tradesmanID},
	}
	store := &codeCollidingStore{stubRequestStore: newStubRequestStore(jobs)}
	svc := &JobRequestService{
		Requests: store,
		Reviews:  &stubReviewStore{reviews: map[int]models.JobReview{}},
		Jobs:     &stubJobStore{jobs: jobs},
		Notifier: &stubNotifier{},
	}

	req, err := svc.RequestJob(context.Background(), jobID, customerID, "fix it", nil)
	if err != nil {
		t.Fatalf("RequestJob error: %v", err)
	}

	result, err := svc.MarkComplete(context.Background(), req.ID, tradesmanID)
	if err != nil {
		t.Fatalf("MarkComplete error: %v", err)
	}
	if store.collidedCode == "" {
		t.Fatal("insert race was never hit")
	}
	if result.Code == store.collidedCode {
		t.Fatalf("code %q reused after losing the insert race", result.Code)
	}
	if len(result.Code) != 8 || result.Code != strings.ToUpper(result.Code) {
		t.Fatalf("code %q is not 8 uppercase chars", result.Code)
	}
	if store.requests[req.ID].Status != models.StatusAwaitingConfirmation {
		t.Fatalf("status = %s, want awaiting_confirmation", store.requests[req.ID].Status)
	}
	if got := *store.requests[req.ID].ConfirmationCode; got != result.Code {
		t.Fatalf("stored code %q != returned code %q", got, result.Code)
	}
}

type collisionChecker struct {
	calls int
}

func (c *collisionChecker) CodeExists(context.Context, string) (bool, error) {
	c.calls++
	return c.calls == 1, nil
}

func TestGenerateConfirmationCodeRetriesOnCollision(t *testing.T) {
	checker := &collisionChecker{}
	code, err := generateConfirmationCode(context.Background(), checker)
	if err != nil {
		t.Fatalf("generateConfirmationCode error: %v", err)
	}
	if checker.calls != 2 {
		t.Fatalf("calls = %d, want 2 (one collision, one success)", checker.calls)
	}
	if len(code) != 8 || code != strings.ToUpper(code) {
		t.Fatalf("code %q is not 8 uppercase chars", code)
	}
}

func TestSubmitReviewRequiresCompletion(t *testing.T) {
	svc, _, _ := newRequestService()
	req, _ := svc.RequestJob(context.Background(), jobID, customerID, "fix it", nil)

	_, err := svc.SubmitReview(context.Background(), req.ID, customerID, 4, "too early", nil)
	if !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}
