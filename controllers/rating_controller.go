package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"reconnect_server/services"
)

// RatingController handles interest-rating endpoints.
type RatingController struct {
	MatchService *services.MatchService
}

// NewRatingController initializes the rating controller
func NewRatingController(service *services.MatchService) *RatingController {
	return &RatingController{MatchService: service}
}

// HandleRateUser - upsert the caller's interest level for another user.
// The rating control fires this on every slider change, so re-rating the
// same person overwrites in place.
func (c *RatingController) HandleRateUser(w http.ResponseWriter, r *http.Request) {
	var request struct {
		RaterID       string `json:"raterId"`
		RatedUserID   string `json:"ratedUserId"`
		InterestLevel int    `json:"interestLevel"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	rating, err := c.MatchService.RateUser(ctx, request.RaterID, request.RatedUserID, request.InterestLevel)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rating)
}

// HandleGetInterestViews - merged outgoing/incoming ratings per counterpart
func (c *RatingController) HandleGetInterestViews(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	log.Printf("🔍 Fetching interest views for %s", userID)
	ctx, cancel := requestContext(r)
	defer cancel()
	views, err := c.MatchService.GetInterestViews(ctx, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}
