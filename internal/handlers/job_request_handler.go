package handlers

import (
	"encoding/json"
	"net/http"

	"tradeBack/internal/services"
)

type JobRequestHandler struct {
	Service *services.JobRequestService
}

// CreateRequest lets a customer request a tradesman's job posting.
func (h *JobRequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req struct {
		JobID      int      `json:"job_id"`
		Message    string   `json:"message"`
		ImagePaths []string `json:"image_paths"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	created, err := h.Service.RequestJob(r.Context(), req.JobID, userID, req.Message, req.ImagePaths)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *JobRequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	req, err := h.Service.GetRequest(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(req)
}

// ListIncoming returns requests against the tradesman's job postings.
func (h *JobRequestHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	requests, err := h.Service.ListForOwner(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(requests)
}

// ListOutgoing returns the customer's own requests.
func (h *JobRequestHandler) ListOutgoing(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	requests, err := h.Service.ListForCustomer(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(requests)
}

// MarkComplete is the tradesman's side of the handover: the request
// moves to awaiting confirmation and the code comes back in the
// response.
func (h *JobRequestHandler) MarkComplete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	result, err := h.Service.MarkComplete(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(result)
}

// Confirm is the customer's side: they submit the code handed over by
// the tradesman.
func (h *JobRequestHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Service.Confirm(r.Context(), id, userID, body.Code); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "completed"})
}

func (h *JobRequestHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	var body struct {
		Rating    int     `json:"rating"`
		Comment   string  `json:"comment"`
		PhotoPath *string `json:"photo_path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	review, err := h.Service.SubmitReview(r.Context(), id, userID, body.Rating, body.Comment, body.PhotoPath)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(review)
}
