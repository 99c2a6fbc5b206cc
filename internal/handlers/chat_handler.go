package handlers

import (
	"encoding/json"
	"net/http"

	"tradeBack/internal/services"
)

type ChatHandler struct {
	Service *services.ChatService
}

// OpenChat returns the caller's active chat with the other user,
// creating one when none exists.
func (h *ChatHandler) OpenChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var body struct {
		UserID int `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == 0 {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	chat, err := h.Service.OpenOrResume(r.Context(), userID, body.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(chat)
}

func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	chats, err := h.Service.ListActiveChatsFor(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(chats)
}

// MarkJobDone closes the chat for both participants.
func (h *ChatHandler) MarkJobDone(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	chatID, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}
	if err := h.Service.MarkJobDone(r.Context(), chatID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "job_done"})
}

func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	chatID, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}
	messages, err := h.Service.GetMessages(r.Context(), chatID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(messages)
}

// PostMessage appends a message over plain HTTP; the WebSocket path in
// cmd is the live alternative.
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	chatID, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}
	var body struct {
		ReceiverID int    `json:"receiver_id"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	msg, err := h.Service.PostMessage(r.Context(), chatID, userID, body.ReceiverID, body.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(msg)
}
