package handlers

import (
	"encoding/json"
	"net/http"

	"tradeBack/internal/services"
)

type OpenJobHandler struct {
	Service *services.OpenJobService
}

// MarkComplete records the tradesman's completion of a customer-posted
// open job and returns the confirmation code.
func (h *OpenJobHandler) MarkComplete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	jobID, err := getIntParam(r, "job_id")
	if err != nil {
		http.Error(w, "Invalid job ID", http.StatusBadRequest)
		return
	}
	result, err := h.Service.MarkComplete(r.Context(), jobID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(result)
}

// Confirm lets the customer who posted the open job verify a
// tradesman's completion with the code.
func (h *OpenJobHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	completionID, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid completion ID", http.StatusBadRequest)
		return
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Service.Confirm(r.Context(), completionID, userID, body.Code); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "completed"})
}

func (h *OpenJobHandler) ListForJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	jobID, err := getIntParam(r, "job_id")
	if err != nil {
		http.Error(w, "Invalid job ID", http.StatusBadRequest)
		return
	}
	completions, err := h.Service.ListForJob(r.Context(), jobID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(completions)
}
