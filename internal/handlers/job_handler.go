package handlers

import (
	"encoding/json"
	"net/http"

	"tradeBack/internal/models"
	"tradeBack/internal/services"
)

type JobHandler struct {
	Service *services.JobService
}

func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var job models.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	job.OwnerID = userID
	created, err := h.Service.CreateJob(r.Context(), job)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *JobHandler) GetJobByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid job ID", http.StatusBadRequest)
		return
	}
	job, err := h.Service.GetJobByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(job)
}

func (h *JobHandler) ListMyJobs(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	jobs, err := h.Service.ListByOwner(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(jobs)
}

// OpenJobsBoard lists customer-posted jobs for tradesmen, narrowed by
// ?trade=.
func (h *JobHandler) OpenJobsBoard(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Service.OpenJobsBoard(r.Context(), r.URL.Query().Get("trade"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(jobs)
}

// SearchTradesmen filters profiles by ?trade=, ?location= and ?q=.
func (h *JobHandler) SearchTradesmen(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, err := h.Service.SearchTradesmen(r.Context(), q.Get("trade"), q.Get("location"), q.Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(users)
}

func (h *JobHandler) ReviewsForTradesman(w http.ResponseWriter, r *http.Request) {
	id, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid tradesman ID", http.StatusBadRequest)
		return
	}
	reviews, err := h.Service.ReviewsForTradesman(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(reviews)
}
