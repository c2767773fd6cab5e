package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jihohub/track-list-now/internal/models"
	"github.com/jihohub/track-list-now/internal/ranking"
	"github.com/jihohub/track-list-now/internal/shared"
)

// FavoritesHandler serves the favorites endpoint: PATCH submits a user's full
// desired favorite sets, GET returns their current favorites view.
type FavoritesHandler struct {
	reconciler *ranking.Reconciler
	reader     *ranking.FavoritesReader
}

// NewFavoritesHandler creates a FavoritesHandler over the reconciler and reader.
func NewFavoritesHandler(reconciler *ranking.Reconciler, reader *ranking.FavoritesReader) *FavoritesHandler {
	return &FavoritesHandler{reconciler: reconciler, reader: reader}
}

// Routes returns the HTTP routes this handler serves.
func (h *FavoritesHandler) Routes() []string {
	return []string{"/api/favorites"}
}

// ServeHTTP dispatches on method: PATCH reconciles, GET reads.
func (h *FavoritesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPatch:
		h.patch(w, r)
	case http.MethodGet:
		h.get(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *FavoritesHandler) patch(w http.ResponseWriter, r *http.Request) {
	var sub ranking.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		respondError(w, fmt.Errorf("%w: malformed request body", shared.ErrInvalidInput))
		return
	}

	result, err := h.reconciler.Reconcile(r.Context(), sub)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *FavoritesHandler) get(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, fmt.Errorf("%w: userId query parameter is required", shared.ErrInvalidInput))
		return
	}

	view, err := h.reader.Get(userID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// RankingHandler serves the top-N ranking view for one category.
type RankingHandler struct {
	aggregate *ranking.Aggregate
}

// NewRankingHandler creates a RankingHandler over the aggregate.
func NewRankingHandler(aggregate *ranking.Aggregate) *RankingHandler {
	return &RankingHandler{aggregate: aggregate}
}

// Routes returns the HTTP routes this handler serves.
func (h *RankingHandler) Routes() []string {
	return []string{"/api/ranking"}
}

// rankingResponse is the JSON shape of one ranking view.
type rankingResponse struct {
	Category models.Category      `json:"category"`
	Entries  []models.RankedEntry `json:"entries"`
}

// ServeHTTP handles GET /api/ranking?category=...&limit=...
func (h *RankingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	category, err := models.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", shared.ErrInvalidCategory, err))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			respondError(w, fmt.Errorf("%w: limit must be an integer", shared.ErrInvalidArgument))
			return
		}
	}

	entries, err := h.aggregate.TopN(category, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	if entries == nil {
		entries = []models.RankedEntry{}
	}

	respondJSON(w, http.StatusOK, rankingResponse{Category: category, Entries: entries})
}

// HealthHandler answers liveness probes.
type HealthHandler struct{}

// Routes returns the HTTP routes this handler serves.
func (h *HealthHandler) Routes() []string {
	return []string{"/health"}
}

// ServeHTTP reports the service as healthy.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
