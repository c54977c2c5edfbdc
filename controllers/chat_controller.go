package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"reconnect_server/services"
)

// ChatController handles session and message endpoints.
type ChatController struct {
	ChatService *services.ChatService
}

// NewChatController initializes the chat controller
func NewChatController(service *services.ChatService) *ChatController {
	return &ChatController{ChatService: service}
}

// HandleCreateSession - find-or-create the session for a user pair
func (c *ChatController) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID        string `json:"userId"`
		CounterpartID string `json:"counterpartId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	session, err := c.ChatService.FindOrCreateSession(ctx, request.UserID, request.CounterpartID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// HandleSendMessage - append a message and return the stored record. The
// response body is what the optimistic UI swaps its temporary message for.
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		SessionID string `json:"sessionId"`
		SenderID  string `json:"senderId"`
		Text      string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	message, err := c.ChatService.SendMessage(ctx, request.SessionID, request.SenderID, request.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, message)
}

// HandleGetMessages - fetch a session's messages in send order
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	limitStr := r.URL.Query().Get("limit")

	if sessionID == "" {
		http.Error(w, `{"error": "sessionId is required"}`, http.StatusBadRequest)
		return
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 50
	}

	log.Printf("🔍 Fetching messages for session %s, limit %d", sessionID, limit)
	ctx, cancel := requestContext(r)
	defer cancel()
	messages, err := c.ChatService.GetMessages(ctx, sessionID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// HandleMarkMessagesAsRead - mark messages received by the user as read
func (c *ChatController) HandleMarkMessagesAsRead(w http.ResponseWriter, r *http.Request) {
	var request struct {
		SessionID string `json:"sessionId"`
		UserID    string `json:"userId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	if err := c.ChatService.MarkMessagesAsRead(ctx, request.SessionID, request.UserID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
