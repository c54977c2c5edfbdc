package routes

import (
	"reconnect_server/controllers"
	"reconnect_server/services"

	"github.com/gorilla/mux"
)

// RegisterRatingRoutes sets up routes for rating operations under /api/ratings
func RegisterRatingRoutes(r *mux.Router, matchService *services.MatchService) {
	controller := controllers.NewRatingController(matchService)

	ratingRouter := r.PathPrefix("/api/ratings").Subrouter()

	ratingRouter.HandleFunc("", controller.HandleRateUser).Methods("PUT", "POST")
	ratingRouter.HandleFunc("", controller.HandleGetInterestViews).Methods("GET")
}
