package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"tradeBack/internal/services"
)

type NotificationHandler struct {
	Service *services.NotificationService
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	notifications, err := h.Service.ListForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(notifications)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}
	if err := h.Service.MarkRead(r.Context(), id, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "read"})
}

func (h *NotificationHandler) SavePushToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Token) == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Service.SavePushToken(r.Context(), userID, body.Token); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "saved"})
}
