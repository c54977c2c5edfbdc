package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"reconnect_server/routes"
	"reconnect_server/services"
	"reconnect_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env if present; real environment variables win otherwise
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Pick the record-store backend
	var ratingStore services.RatingStore
	var sessionStore services.SessionStore
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("Using in-memory stores (no DynamoDB)")
		ratingStore = services.NewMemoryRatingStore()
		sessionStore = services.NewMemorySessionStore()
	} else {
		log.Println("Initializing DynamoDB client...")
		dynamoClient := services.InitializeDynamoDBClient()
		dynamoService := &services.DynamoService{Client: dynamoClient}
		log.Println("DynamoDB client initialized.")
		ratingStore = &services.DynamoRatingStore{Dynamo: dynamoService}
		sessionStore = &services.DynamoSessionStore{Dynamo: dynamoService}
	}

	// Optional Redis match cache
	var matchCache *services.MatchCacheService
	if addr := os.Getenv("REDIS_URL"); addr != "" {
		log.Printf("Using Redis match cache at %s", addr)
		matchCache = services.NewMatchCacheService(addr, os.Getenv("REDIS_PASSWORD"))
	}

	// Socket.IO server for realtime message push
	socketServer := socket.NewServer()
	go func() {
		if err := socketServer.IO.Serve(); err != nil {
			log.Printf("❌ Socket server error: %v", err)
		}
	}()
	defer socketServer.IO.Close()

	// Initialize Services
	matchService := &services.MatchService{Ratings: ratingStore, Cache: matchCache}
	chatService := &services.ChatService{Sessions: sessionStore, Broadcast: socketServer}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Reconnect")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterRatingRoutes(r, matchService)
	routes.RegisterMatchRoutes(r, matchService)
	routes.RegisterChatRoutes(r, chatService)
	r.Handle("/socket.io/", socketServer.IO)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
