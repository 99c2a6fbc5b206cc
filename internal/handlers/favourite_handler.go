package handlers

import (
	"encoding/json"
	"net/http"

	"tradeBack/internal/services"
)

type FavouriteHandler struct {
	Service *services.FavouriteService
}

// Toggle saves or removes a tradesman from the customer's favourites
// and reports the resulting state.
func (h *FavouriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	tradesmanID, err := getIntParam(r, "tradesman_id")
	if err != nil {
		http.Error(w, "Invalid tradesman ID", http.StatusBadRequest)
		return
	}
	saved, err := h.Service.Toggle(r.Context(), userID, tradesmanID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]bool{"favourite": saved})
}

func (h *FavouriteHandler) ListFavourites(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	favourites, err := h.Service.ListForCustomer(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(favourites)
}

func (h *FavouriteHandler) IsFavourite(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	tradesmanID, err := getIntParam(r, "tradesman_id")
	if err != nil {
		http.Error(w, "Invalid tradesman ID", http.StatusBadRequest)
		return
	}
	saved, err := h.Service.IsFavourite(r.Context(), userID, tradesmanID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]bool{"favourite": saved})
}
