package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"reconnect_server/models"
)

// Broadcaster pushes a freshly stored message to connected clients. The
// socket server implements it; nil disables push.
type Broadcaster interface {
	BroadcastMessage(sessionID string, message models.Message)
}

// ChatService owns session lifecycle and the append-only message flow.
type ChatService struct {
	Sessions  SessionStore
	Broadcast Broadcaster
}

// FindOrCreateSession returns the single session for the pair, creating it
// lazily on first contact. Lookup is direction-agnostic: (A,B) and (B,A)
// resolve to the same session, and an existing session is returned with its
// timestamps untouched. When both participants open the conversation at the
// same moment, the loser of the create hits the store's uniqueness
// constraint and re-reads the winner's session.
func (s *ChatService) FindOrCreateSession(ctx context.Context, userID, counterpartID string) (models.MessageSession, error) {
	if userID == "" || counterpartID == "" {
		return models.MessageSession{}, fmt.Errorf("%w: userId and counterpartId are required", ErrValidation)
	}
	if userID == counterpartID {
		return models.MessageSession{}, fmt.Errorf("%w: a session needs two distinct users", ErrValidation)
	}

	existing, err := s.Sessions.FindByPair(ctx, userID, counterpartID)
	if err != nil {
		return models.MessageSession{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	session, err := s.Sessions.Create(ctx, userID, counterpartID)
	if errors.Is(err, ErrConflict) {
		log.Printf("👥 Concurrent session create for %s/%s, reusing winner", userID, counterpartID)
		winner, findErr := s.Sessions.FindByPair(ctx, userID, counterpartID)
		if findErr != nil {
			return models.MessageSession{}, findErr
		}
		if winner == nil {
			return models.MessageSession{}, storeErr("sessions.findOrCreate", err)
		}
		return *winner, nil
	}
	if err != nil {
		return models.MessageSession{}, err
	}

	log.Printf("✅ Session %s created for %s/%s", session.SessionID, userID, counterpartID)
	return session, nil
}

// SendMessage validates, appends, and returns the authoritative stored
// message. The caller's optimistic UI swaps its temporary record for this
// one; on error nothing was appended, so the caller removes the temporary
// record and restores the unsent text. No retry happens here — retry is the
// UI's decision.
func (s *ChatService) SendMessage(ctx context.Context, sessionID, senderID, text string) (models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return models.Message{}, fmt.Errorf("%w: message text cannot be empty", ErrValidation)
	}
	if senderID == "" {
		return models.Message{}, fmt.Errorf("%w: senderId is required", ErrValidation)
	}

	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		return models.Message{}, err
	}
	if session == nil {
		return models.Message{}, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}

	message, err := s.Sessions.AppendMessage(ctx, *session, senderID, text)
	if err != nil {
		return models.Message{}, err
	}

	if s.Broadcast != nil {
		s.Broadcast.BroadcastMessage(session.SessionID, message)
	}
	log.Printf("📩 Message %s stored in session %s", message.MessageID, session.SessionID)
	return message, nil
}

// GetMessages returns the session's messages in send order. An existing
// session with no messages yields an empty list, not an error; an unknown
// session id is ErrNotFound.
func (s *ChatService) GetMessages(ctx context.Context, sessionID string, limit int) ([]models.Message, error) {
	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}

	if limit <= 0 {
		limit = 50
	}
	return s.Sessions.ListMessages(ctx, sessionID, limit)
}

// MarkMessagesAsRead flips the unread flag on messages the reader received.
func (s *ChatService) MarkMessagesAsRead(ctx context.Context, sessionID, readerID string) error {
	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}
	return s.Sessions.MarkMessagesRead(ctx, sessionID, readerID)
}
