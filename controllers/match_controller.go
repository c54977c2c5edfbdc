package controllers

import (
	"log"
	"net/http"

	"reconnect_server/services"
)

// MatchController handles match-list endpoints.
type MatchController struct {
	MatchService *services.MatchService
}

// NewMatchController initializes the match controller
func NewMatchController(service *services.MatchService) *MatchController {
	return &MatchController{MatchService: service}
}

// HandleGetConnections - the user's mutual matches, highest score first.
// The discovery feed uses this to badge and sort candidates.
func (c *MatchController) HandleGetConnections(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	log.Printf("🔍 Fetching connections for %s", userID)
	ctx, cancel := requestContext(r)
	defer cancel()
	matches, err := c.MatchService.GetMatchesForUser(ctx, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, matches)
}
